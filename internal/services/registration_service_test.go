package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"testing"

	"gorm.io/gorm"

	"github.com/tiksliukai-lt/tutoring-service/internal/events"
	"github.com/tiksliukai-lt/tutoring-service/internal/models"
	"github.com/tiksliukai-lt/tutoring-service/internal/repositories"
	"github.com/tiksliukai-lt/tutoring-service/internal/validator"
)

// ===== IN-MEMORY FAKES =====

type fakeCredentialStore struct {
	mu        sync.Mutex
	byEmail   map[string]string // email -> account id
	passwords map[string]string // account id -> password
	seq       int

	createErr   error
	createCalls int
	deleteCalls int
}

func newFakeCredentialStore() *fakeCredentialStore {
	return &fakeCredentialStore{
		byEmail:   make(map[string]string),
		passwords: make(map[string]string),
	}
}

func (s *fakeCredentialStore) FindByEmail(ctx context.Context, email string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id, ok := s.byEmail[email]; ok {
		return id, nil
	}
	return "", repositories.ErrCredentialNotFound
}

func (s *fakeCredentialStore) Create(ctx context.Context, email, password string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.createCalls++
	if s.createErr != nil {
		return "", s.createErr
	}
	if _, ok := s.byEmail[email]; ok {
		return "", repositories.ErrCredentialExists
	}
	s.seq++
	id := fmt.Sprintf("acc-%d", s.seq)
	s.byEmail[email] = id
	s.passwords[id] = password
	return id, nil
}

func (s *fakeCredentialStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleteCalls++
	for email, accountID := range s.byEmail {
		if accountID == id {
			delete(s.byEmail, email)
			delete(s.passwords, id)
			return nil
		}
	}
	return repositories.ErrCredentialNotFound
}

func (s *fakeCredentialStore) Verify(ctx context.Context, email, password string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.byEmail[email]
	if !ok {
		return "", repositories.ErrCredentialNotFound
	}
	if s.passwords[id] != password {
		return "", repositories.ErrPasswordMismatch
	}
	return id, nil
}

type fakeUserRepository struct {
	mu    sync.Mutex
	users map[string]*models.User

	createErr   error
	createCalls int
}

func newFakeUserRepository() *fakeUserRepository {
	return &fakeUserRepository{users: make(map[string]*models.User)}
}

func (r *fakeUserRepository) Create(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.createCalls++
	if r.createErr != nil {
		return r.createErr
	}
	for _, existing := range r.users {
		if existing.Email == user.Email {
			return gorm.ErrDuplicatedKey
		}
	}
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user, ok := r.users[id]; ok {
		return user, nil
	}
	return nil, repositories.ErrUserNotFound
}

func (r *fakeUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (r *fakeUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := r.GetByEmail(ctx, email)
	if errors.Is(err, repositories.ErrUserNotFound) {
		return false, nil
	}
	return err == nil, err
}

type fakeAvailabilityRepository struct {
	mu    sync.Mutex
	slots map[uint]*models.AvailabilitySlot
	seq   uint
}

func newFakeAvailabilityRepository() *fakeAvailabilityRepository {
	return &fakeAvailabilityRepository{slots: make(map[uint]*models.AvailabilitySlot)}
}

func (r *fakeAvailabilityRepository) Create(ctx context.Context, slot *models.AvailabilitySlot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	slot.ID = r.seq
	copied := *slot
	r.slots[slot.ID] = &copied
	return nil
}

func (r *fakeAvailabilityRepository) GetByID(ctx context.Context, id uint) (*models.AvailabilitySlot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if slot, ok := r.slots[id]; ok {
		copied := *slot
		return &copied, nil
	}
	return nil, repositories.ErrSlotNotFound
}

func (r *fakeAvailabilityRepository) List(ctx context.Context, filters repositories.AvailabilityFilters) ([]*models.AvailabilitySlot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.AvailabilitySlot
	for _, slot := range r.slots {
		if slot.TutorID != filters.TutorID {
			continue
		}
		if !filters.From.IsZero() && slot.StartTime.Before(filters.From) {
			continue
		}
		if !filters.To.IsZero() && !slot.StartTime.Before(filters.To) {
			continue
		}
		if filters.OnlyFree && slot.IsBooked {
			continue
		}
		copied := *slot
		out = append(out, &copied)
	}
	return out, nil
}

func (r *fakeAvailabilityRepository) Delete(ctx context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.slots[id]; !ok {
		return repositories.ErrSlotNotFound
	}
	delete(r.slots, id)
	return nil
}

func (r *fakeAvailabilityRepository) MarkBooked(ctx context.Context, id uint, studentID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	slot, ok := r.slots[id]
	if !ok {
		return repositories.ErrSlotNotFound
	}
	if slot.IsBooked {
		return repositories.ErrSlotAlreadyBooked
	}
	slot.IsBooked = true
	slot.BookedBy = &studentID
	return nil
}

type fakeLessonRepository struct {
	mu      sync.Mutex
	lessons []*models.Lesson
	seq     uint
}

func newFakeLessonRepository() *fakeLessonRepository {
	return &fakeLessonRepository{}
}

func (r *fakeLessonRepository) Create(ctx context.Context, lesson *models.Lesson) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	lesson.ID = r.seq
	copied := *lesson
	r.lessons = append(r.lessons, &copied)
	return nil
}

func (r *fakeLessonRepository) List(ctx context.Context, filters repositories.LessonFilters) ([]*models.Lesson, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Lesson
	for _, lesson := range r.lessons {
		if filters.TutorID != nil && lesson.TutorID != *filters.TutorID {
			continue
		}
		if filters.StudentID != nil && lesson.StudentID != *filters.StudentID {
			continue
		}
		if filters.DateFrom != nil && lesson.StartTime.Before(*filters.DateFrom) {
			continue
		}
		if filters.DateTo != nil && !lesson.StartTime.Before(*filters.DateTo) {
			continue
		}
		copied := *lesson
		out = append(out, &copied)
	}
	return out, int64(len(out)), nil
}

// fakeRepository aggregates the in-memory fakes behind the Repository
// interface.
type fakeRepository struct {
	creds        *fakeCredentialStore
	users        *fakeUserRepository
	availability *fakeAvailabilityRepository
	lessons      *fakeLessonRepository
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		creds:        newFakeCredentialStore(),
		users:        newFakeUserRepository(),
		availability: newFakeAvailabilityRepository(),
		lessons:      newFakeLessonRepository(),
	}
}

func (f *fakeRepository) User() repositories.UserRepository                 { return f.users }
func (f *fakeRepository) Credentials() repositories.CredentialStore         { return f.creds }
func (f *fakeRepository) Availability() repositories.AvailabilityRepository { return f.availability }
func (f *fakeRepository) Lesson() repositories.LessonRepository             { return f.lessons }

func (f *fakeRepository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return fn(f)
}

func (f *fakeRepository) Ping(ctx context.Context) error { return nil }
func (f *fakeRepository) Close() error                   { return nil }

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func testRegisterRequest() *RegisterRequest {
	return &RegisterRequest{
		Email:     "jonas@example.com",
		Password:  "slaptazodis",
		FirstName: "Jonas",
		LastName:  "Jonaitis",
		Role:      "client",
		ChildName: "Ona",
		Subjects:  []string{"Matematika"},
	}
}

// ===== TESTS =====

func TestRegister_Success(t *testing.T) {
	repo := newFakeRepository()
	publisher := events.NewMockEventPublisher(testLogger())
	svc := NewRegistrationService(repo, testLogger(), validator.New(), publisher)

	result, err := svc.Register(context.Background(), testRegisterRequest())
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if result.AccountID == "" {
		t.Error("expected non-empty account id")
	}
	if result.Role != models.RoleClient {
		t.Errorf("Role = %q, want %q", result.Role, models.RoleClient)
	}

	user, err := repo.users.GetByID(context.Background(), result.AccountID)
	if err != nil {
		t.Fatalf("profile not created: %v", err)
	}
	if user.FullName != "Jonas Jonaitis" {
		t.Errorf("FullName = %q, want %q", user.FullName, "Jonas Jonaitis")
	}
	if user.ChildName == nil || *user.ChildName != "Ona" {
		t.Errorf("ChildName = %v, want Ona", user.ChildName)
	}

	published := publisher.GetPublishedEvents()
	if len(published) != 1 {
		t.Fatalf("expected 1 published event, got %d", len(published))
	}
	if published[0].Topic != events.TopicUserRegistered {
		t.Errorf("Topic = %q, want %q", published[0].Topic, events.TopicUserRegistered)
	}
}

func TestRegister_NormalizesEmail(t *testing.T) {
	repo := newFakeRepository()
	svc := NewRegistrationService(repo, testLogger(), validator.New(), nil)

	req := testRegisterRequest()
	req.Email = "  JONAS@Example.COM "

	result, err := svc.Register(context.Background(), req)
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	user, err := repo.users.GetByID(context.Background(), result.AccountID)
	if err != nil {
		t.Fatalf("profile not created: %v", err)
	}
	if user.Email != "jonas@example.com" {
		t.Errorf("Email = %q, want normalized form", user.Email)
	}

	// The differently-cased duplicate collides with the stored account.
	if _, err := svc.Register(context.Background(), testRegisterRequest()); !errors.Is(err, ErrDuplicateAccount) {
		t.Errorf("err = %v, want ErrDuplicateAccount", err)
	}
}

func TestRegister_ValidationFailureTouchesNoStore(t *testing.T) {
	repo := newFakeRepository()
	svc := NewRegistrationService(repo, testLogger(), validator.New(), nil)

	req := testRegisterRequest()
	req.ChildName = ""

	_, err := svc.Register(context.Background(), req)

	var verr *validator.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("err = %v, want *validator.ValidationError", err)
	}
	if verr.Field != "childName" {
		t.Errorf("Field = %q, want childName", verr.Field)
	}
	if repo.creds.createCalls != 0 {
		t.Errorf("credential store touched %d times on validation failure", repo.creds.createCalls)
	}
	if repo.users.createCalls != 0 {
		t.Errorf("user repository touched %d times on validation failure", repo.users.createCalls)
	}
}

func TestRegister_Duplicate(t *testing.T) {
	repo := newFakeRepository()
	svc := NewRegistrationService(repo, testLogger(), validator.New(), nil)

	if _, err := svc.Register(context.Background(), testRegisterRequest()); err != nil {
		t.Fatalf("first registration failed: %v", err)
	}

	_, err := svc.Register(context.Background(), testRegisterRequest())
	if !errors.Is(err, ErrDuplicateAccount) {
		t.Fatalf("err = %v, want ErrDuplicateAccount", err)
	}
}

func TestRegister_ConcurrentSameEmail(t *testing.T) {
	repo := newFakeRepository()
	svc := NewRegistrationService(repo, testLogger(), validator.New(), nil)

	const attempts = 16
	errs := make([]error, attempts)

	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Register(context.Background(), testRegisterRequest())
		}(i)
	}
	wg.Wait()

	successes := 0
	for _, err := range errs {
		switch {
		case err == nil:
			successes++
		case errors.Is(err, ErrDuplicateAccount):
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}
	if successes != 1 {
		t.Errorf("successes = %d, want exactly 1", successes)
	}
}

func TestRegister_ProfileFailureRollsBackCredential(t *testing.T) {
	repo := newFakeRepository()
	repo.users.createErr = errors.New("insert failed")
	svc := NewRegistrationService(repo, testLogger(), validator.New(), nil)

	_, err := svc.Register(context.Background(), testRegisterRequest())
	if !errors.Is(err, ErrProfileCreationFailed) {
		t.Fatalf("err = %v, want ErrProfileCreationFailed", err)
	}

	if repo.creds.deleteCalls != 1 {
		t.Errorf("deleteCalls = %d, want 1", repo.creds.deleteCalls)
	}
	// The compensation must leave no credential behind, so the email is free
	// to register again.
	if _, err := repo.creds.FindByEmail(context.Background(), "jonas@example.com"); !errors.Is(err, repositories.ErrCredentialNotFound) {
		t.Errorf("credential still present after rollback: %v", err)
	}
}

func TestRegister_ProfileDuplicateMapsToDuplicateAccount(t *testing.T) {
	repo := newFakeRepository()
	repo.users.createErr = gorm.ErrDuplicatedKey
	svc := NewRegistrationService(repo, testLogger(), validator.New(), nil)

	_, err := svc.Register(context.Background(), testRegisterRequest())
	if !errors.Is(err, ErrDuplicateAccount) {
		t.Fatalf("err = %v, want ErrDuplicateAccount", err)
	}
	if repo.creds.deleteCalls != 1 {
		t.Errorf("deleteCalls = %d, want 1", repo.creds.deleteCalls)
	}
}

func TestRegister_CredentialProviderRejection(t *testing.T) {
	repo := newFakeRepository()
	repo.creds.createErr = fmt.Errorf("%w: password policy violation", repositories.ErrCredentialRejected)
	svc := NewRegistrationService(repo, testLogger(), validator.New(), nil)

	_, err := svc.Register(context.Background(), testRegisterRequest())
	if !errors.Is(err, ErrCredentialCreationFailed) {
		t.Fatalf("err = %v, want ErrCredentialCreationFailed", err)
	}
	if repo.users.createCalls != 0 {
		t.Errorf("profile created despite credential failure")
	}
}

func TestRegister_CredentialStoreFailure(t *testing.T) {
	repo := newFakeRepository()
	repo.creds.createErr = errors.New("connection refused")
	svc := NewRegistrationService(repo, testLogger(), validator.New(), nil)

	// An infrastructure failure must not surface as a client error.
	_, err := svc.Register(context.Background(), testRegisterRequest())
	if !errors.Is(err, ErrCredentialStoreFailed) {
		t.Fatalf("err = %v, want ErrCredentialStoreFailed", err)
	}
	if errors.Is(err, ErrCredentialCreationFailed) {
		t.Error("store failure must not map to the provider-rejection error")
	}
	if repo.users.createCalls != 0 {
		t.Errorf("profile created despite credential failure")
	}
}

func TestNormalizeEmail(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"jonas@example.com", "jonas@example.com"},
		{"  jonas@example.com  ", "jonas@example.com"},
		{"JONAS@EXAMPLE.COM", "jonas@example.com"},
		{" Jonas@Example.Com ", "jonas@example.com"},
	}
	for _, tt := range tests {
		if got := NormalizeEmail(tt.in); got != tt.want {
			t.Errorf("NormalizeEmail(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
