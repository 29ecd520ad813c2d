package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/tiksliukai-lt/tutoring-service/internal/repositories"
)

type lessonService struct {
	repo   repositories.Repository
	logger *slog.Logger
}

func NewLessonService(repo repositories.Repository, logger *slog.Logger) LessonService {
	return &lessonService{
		repo:   repo,
		logger: logger,
	}
}

func (s *lessonService) ListByTutor(ctx context.Context, tutorID string, from, to *time.Time) (*LessonListResponse, error) {
	lessons, total, err := s.repo.Lesson().List(ctx, repositories.LessonFilters{
		TutorID:  &tutorID,
		DateFrom: from,
		DateTo:   to,
	})
	if err != nil {
		return nil, err
	}
	return &LessonListResponse{Lessons: lessons, Total: total}, nil
}

func (s *lessonService) ListByStudent(ctx context.Context, studentID string, from, to *time.Time) (*LessonListResponse, error) {
	lessons, total, err := s.repo.Lesson().List(ctx, repositories.LessonFilters{
		StudentID: &studentID,
		DateFrom:  from,
		DateTo:    to,
	})
	if err != nil {
		return nil, err
	}
	return &LessonListResponse{Lessons: lessons, Total: total}, nil
}

var reportHeaders = []string{"Data", "Pradžia", "Pabaiga", "Dalykas", "Tema", "Mokinys", "Kaina (EUR)"}

// ExportReport renders a tutor's lessons in the given range as an Excel
// workbook, the sheet the dashboard's invoice button downloads.
func (s *lessonService) ExportReport(ctx context.Context, tutorID string, from, to time.Time) ([]byte, error) {
	lessons, _, err := s.repo.Lesson().List(ctx, repositories.LessonFilters{
		TutorID:  &tutorID,
		DateFrom: &from,
		DateTo:   &to,
	})
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Pamokos"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}

	for i, header := range reportHeaders {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, fmt.Errorf("failed to build header cell: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return nil, fmt.Errorf("failed to write header: %w", err)
		}
	}

	for row, lesson := range lessons {
		values := []interface{}{
			lesson.StartTime.Format("2006-01-02"),
			lesson.StartTime.Format("15:04"),
			lesson.EndTime.Format("15:04"),
			lesson.Subject,
			lesson.Topic,
			lesson.StudentID,
			float64(lesson.PriceCents) / 100,
		}
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return nil, fmt.Errorf("failed to build cell: %w", err)
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return nil, fmt.Errorf("failed to write cell: %w", err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize report: %w", err)
	}

	s.logger.Info("lesson report exported", "tutor_id", tutorID, "lessons", len(lessons))
	return buf.Bytes(), nil
}
