package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/persistorai/movierec/internal/domain"
	"github.com/persistorai/movierec/internal/models"
)

// ValidateStore is the data-access subset ValidateService needs.
type ValidateStore interface {
	ListAll(ctx context.Context) ([]models.Movie, error)
	UpdateMovie(ctx context.Context, id int64, req models.UpdateMovieRequest) (*models.Movie, error)
}

var _ domain.ValidateService = (*ValidateService)(nil)

// ValidateService checks catalog records and backfills missing text fields.
type ValidateService struct {
	store ValidateStore
	log   *logrus.Logger
}

// NewValidateService creates a ValidateService.
func NewValidateService(store ValidateStore, log *logrus.Logger) *ValidateService {
	return &ValidateService{store: store, log: log}
}

// Validate walks every movie, reports a missing title, and persists defaults
// for a missing genre or description.
func (s *ValidateService) Validate(ctx context.Context) (*models.ValidationReport, error) {
	movies, err := s.store.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading movies: %w", err)
	}

	report := &models.ValidationReport{
		Total:        len(movies),
		Issues:       []models.MovieIssues{},
		Insufficient: len(movies) < 2,
	}

	for i := range movies {
		m := &movies[i]

		var issues []string
		var fix models.UpdateMovieRequest

		if strings.TrimSpace(m.Title) == "" {
			issues = append(issues, "missing title")
		}

		if strings.TrimSpace(m.Genre) == "" {
			issues = append(issues, "missing genre")
			fix.Genre = ptrTo(models.DefaultGenre)
		}

		if strings.TrimSpace(m.Description) == "" {
			issues = append(issues, "missing description")
			fix.Description = ptrTo(models.DefaultDescription)
		}

		if len(issues) == 0 {
			continue
		}

		report.Issues = append(report.Issues, models.MovieIssues{ID: m.ID, Title: m.Title, Issues: issues})

		if fix.IsEmpty() {
			continue
		}

		if _, err := s.store.UpdateMovie(ctx, m.ID, fix); err != nil {
			return nil, fmt.Errorf("fixing movie %d: %w", m.ID, err)
		}

		report.Fixed++
	}

	entry := s.log.WithFields(logrus.Fields{
		"total":  report.Total,
		"fixed":  report.Fixed,
		"issues": len(report.Issues),
	})

	if report.Insufficient {
		entry.Warn("fewer than two movies; content recommendations will fail")
	} else {
		entry.Info("catalog validation finished")
	}

	return report, nil
}

func ptrTo[T any](v T) *T { return &v }
