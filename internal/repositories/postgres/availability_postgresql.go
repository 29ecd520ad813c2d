package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/tiksliukai-lt/tutoring-service/internal/cache"
	"github.com/tiksliukai-lt/tutoring-service/internal/models"
	"github.com/tiksliukai-lt/tutoring-service/internal/repositories"
)

// AvailabilityPostgreSQL stores tutor availability slots, with a short-lived
// cache over day views since the dashboard re-reads them on every calendar
// click.
type AvailabilityPostgreSQL struct {
	db    *gorm.DB
	cache *cache.CacheManager
}

func NewAvailabilityPostgreSQL(db *gorm.DB, redisClient *redis.Client) repositories.AvailabilityRepository {
	return &AvailabilityPostgreSQL{
		db:    db,
		cache: cache.NewCacheManager(redisClient),
	}
}

func (r *AvailabilityPostgreSQL) Create(ctx context.Context, slot *models.AvailabilitySlot) error {
	if err := r.db.WithContext(ctx).Create(slot).Error; err != nil {
		return fmt.Errorf("failed to create availability slot: %w", err)
	}
	cache.InvalidateAvailabilityCache(ctx, r.cache, slot.TutorID)
	return nil
}

func (r *AvailabilityPostgreSQL) GetByID(ctx context.Context, id uint) (*models.AvailabilitySlot, error) {
	var slot models.AvailabilitySlot
	err := r.db.WithContext(ctx).First(&slot, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repositories.ErrSlotNotFound
		}
		return nil, fmt.Errorf("failed to get availability slot: %w", err)
	}
	return &slot, nil
}

func (r *AvailabilityPostgreSQL) List(ctx context.Context, filters repositories.AvailabilityFilters) ([]*models.AvailabilitySlot, error) {
	cacheKey := fmt.Sprintf("tutor:%s:%d:%d:%t",
		filters.TutorID, filters.From.Unix(), filters.To.Unix(), filters.OnlyFree)

	var cached []*models.AvailabilitySlot
	if err := r.cache.Availability.Get(ctx, cacheKey, &cached); err == nil {
		return cached, nil
	}

	query := r.db.WithContext(ctx).
		Where("tutor_id = ?", filters.TutorID).
		Where("start_time >= ? AND start_time < ?", filters.From, filters.To).
		Order("start_time")

	if filters.OnlyFree {
		query = query.Where("is_booked = ?", false)
	}

	var slots []*models.AvailabilitySlot
	if err := query.Find(&slots).Error; err != nil {
		return nil, fmt.Errorf("failed to list availability slots: %w", err)
	}

	r.cache.Availability.Set(ctx, cacheKey, slots, cache.AvailabilityCacheConfig.TTL)

	return slots, nil
}

func (r *AvailabilityPostgreSQL) Delete(ctx context.Context, id uint) error {
	var slot models.AvailabilitySlot
	if err := r.db.WithContext(ctx).First(&slot, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return repositories.ErrSlotNotFound
		}
		return fmt.Errorf("failed to get availability slot: %w", err)
	}

	if err := r.db.WithContext(ctx).Delete(&models.AvailabilitySlot{}, id).Error; err != nil {
		return fmt.Errorf("failed to delete availability slot: %w", err)
	}
	cache.InvalidateAvailabilityCache(ctx, r.cache, slot.TutorID)
	return nil
}

// MarkBooked uses a conditional update so two concurrent bookings of the same
// slot resolve in the database: exactly one caller flips the flag.
func (r *AvailabilityPostgreSQL) MarkBooked(ctx context.Context, id uint, studentID string) error {
	result := r.db.WithContext(ctx).
		Model(&models.AvailabilitySlot{}).
		Where("id = ? AND is_booked = ?", id, false).
		Updates(map[string]interface{}{
			"is_booked": true,
			"booked_by": studentID,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to book availability slot: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		var slot models.AvailabilitySlot
		if err := r.db.WithContext(ctx).First(&slot, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return repositories.ErrSlotNotFound
			}
			return fmt.Errorf("failed to get availability slot: %w", err)
		}
		return repositories.ErrSlotAlreadyBooked
	}

	var slot models.AvailabilitySlot
	if err := r.db.WithContext(ctx).First(&slot, id).Error; err == nil {
		cache.InvalidateAvailabilityCache(ctx, r.cache, slot.TutorID)
	}
	return nil
}
