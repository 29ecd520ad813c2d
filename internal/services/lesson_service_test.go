package services

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/tiksliukai-lt/tutoring-service/internal/models"
)

func seedLessons(t *testing.T, repo *fakeRepository) {
	t.Helper()
	base := time.Date(2026, 9, 7, 10, 0, 0, 0, time.UTC)
	lessons := []*models.Lesson{
		{TutorID: "tutor-1", StudentID: "client-1", Subject: "Matematika", Topic: "Trupmenos", PriceCents: 2500, StartTime: base, EndTime: base.Add(time.Hour)},
		{TutorID: "tutor-1", StudentID: "client-2", Subject: "Fizika", Topic: "Jėgos", PriceCents: 3000, StartTime: base.Add(24 * time.Hour), EndTime: base.Add(25 * time.Hour)},
		{TutorID: "tutor-2", StudentID: "client-1", Subject: "Chemija", PriceCents: 2000, StartTime: base, EndTime: base.Add(time.Hour)},
	}
	for _, lesson := range lessons {
		if err := repo.lessons.Create(context.Background(), lesson); err != nil {
			t.Fatalf("failed to seed lesson: %v", err)
		}
	}
}

func TestListByTutor(t *testing.T) {
	repo := newFakeRepository()
	seedLessons(t, repo)
	svc := NewLessonService(repo, testLogger())

	resp, err := svc.ListByTutor(context.Background(), "tutor-1", nil, nil)
	if err != nil {
		t.Fatalf("ListByTutor failed: %v", err)
	}
	if resp.Total != 2 {
		t.Errorf("Total = %d, want 2", resp.Total)
	}

	t.Run("date range", func(t *testing.T) {
		from := time.Date(2026, 9, 8, 0, 0, 0, 0, time.UTC)
		resp, err := svc.ListByTutor(context.Background(), "tutor-1", &from, nil)
		if err != nil {
			t.Fatalf("ListByTutor failed: %v", err)
		}
		if resp.Total != 1 {
			t.Errorf("Total = %d, want 1", resp.Total)
		}
	})
}

func TestListByStudent(t *testing.T) {
	repo := newFakeRepository()
	seedLessons(t, repo)
	svc := NewLessonService(repo, testLogger())

	resp, err := svc.ListByStudent(context.Background(), "client-1", nil, nil)
	if err != nil {
		t.Fatalf("ListByStudent failed: %v", err)
	}
	if resp.Total != 2 {
		t.Errorf("Total = %d, want 2", resp.Total)
	}
}

func TestExportReport(t *testing.T) {
	repo := newFakeRepository()
	seedLessons(t, repo)
	svc := NewLessonService(repo, testLogger())

	from := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)

	report, err := svc.ExportReport(context.Background(), "tutor-1", from, to)
	if err != nil {
		t.Fatalf("ExportReport failed: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(report))
	if err != nil {
		t.Fatalf("report is not a readable workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Pamokos")
	if err != nil {
		t.Fatalf("failed to read sheet: %v", err)
	}
	// Header plus two lessons for tutor-1.
	if len(rows) != 3 {
		t.Fatalf("len(rows) = %d, want 3", len(rows))
	}
	if rows[0][0] != "Data" || rows[0][3] != "Dalykas" {
		t.Errorf("unexpected header row: %v", rows[0])
	}
	if rows[1][3] != "Matematika" {
		t.Errorf("rows[1][3] = %q, want Matematika", rows[1][3])
	}
	if rows[1][6] != "25" {
		t.Errorf("rows[1][6] = %q, want 25", rows[1][6])
	}
}

func TestExportReport_EmptyRange(t *testing.T) {
	repo := newFakeRepository()
	svc := NewLessonService(repo, testLogger())

	from := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	report, err := svc.ExportReport(context.Background(), "tutor-1", from, from.AddDate(0, 1, 0))
	if err != nil {
		t.Fatalf("ExportReport failed: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(report))
	if err != nil {
		t.Fatalf("report is not a readable workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Pamokos")
	if err != nil {
		t.Fatalf("failed to read sheet: %v", err)
	}
	if len(rows) != 1 {
		t.Errorf("len(rows) = %d, want header only", len(rows))
	}
}
