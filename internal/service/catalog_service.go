package service

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/student-crm-api/internal/models"
	appErrors "github.com/noah-isme/student-crm-api/pkg/errors"
)

type catalogRepository interface {
	Read() ([]models.CourseCatalogEntry, error)
	Write(entries []models.CourseCatalogEntry) error
}

// CatalogService owns the course catalog used to prefill fee amounts.
type CatalogService struct {
	repo   catalogRepository
	logger *zap.Logger
}

// NewCatalogService constructs the catalog service.
func NewCatalogService(repo catalogRepository, logger *zap.Logger) *CatalogService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogService{repo: repo, logger: logger}
}

// Load returns the persisted catalog. A missing file is seeded with the
// default catalog. Malformed or invalid content falls back to the default
// catalog and is reported, never aborted on: the returned error carries the
// CATALOG_FORMAT code while the entries remain usable.
func (s *CatalogService) Load() ([]models.CourseCatalogEntry, error) {
	entries, err := s.repo.Read()
	if err != nil {
		if os.IsNotExist(err) {
			defaults := models.DefaultCourseCatalog()
			if writeErr := s.repo.Write(defaults); writeErr != nil {
				s.logger.Warn("failed to seed default course catalog", zap.Error(writeErr))
			}
			return defaults, nil
		}
		s.logger.Error("course catalog unreadable, serving defaults", zap.Error(err))
		return models.DefaultCourseCatalog(), appErrors.Wrap(err, appErrors.ErrCatalogFormat.Code, appErrors.ErrCatalogFormat.Status, "course catalog is malformed")
	}

	if err := validateCatalog(entries); err != nil {
		s.logger.Error("course catalog invalid, serving defaults", zap.Error(err))
		return models.DefaultCourseCatalog(), appErrors.Wrap(err, appErrors.ErrCatalogFormat.Code, appErrors.ErrCatalogFormat.Status, "course catalog is malformed")
	}

	return entries, nil
}

// Save validates and persists a replacement catalog. Validation failure
// leaves the previously persisted catalog untouched.
func (s *CatalogService) Save(entries []models.CourseCatalogEntry) error {
	if err := validateCatalog(entries); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
	}
	if err := s.repo.Write(entries); err != nil {
		return appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, "failed to persist course catalog")
	}
	return nil
}

func validateCatalog(entries []models.CourseCatalogEntry) error {
	seen := make(map[string]struct{}, len(entries))
	for _, entry := range entries {
		name := strings.TrimSpace(entry.Name)
		if name == "" {
			return fmt.Errorf("course name must not be empty")
		}
		key := strings.ToLower(name)
		if _, dup := seen[key]; dup {
			return fmt.Errorf("duplicate course name: %s", entry.Name)
		}
		seen[key] = struct{}{}
		if entry.Price < 0 {
			return fmt.Errorf("course %s has negative price", entry.Name)
		}
	}
	return nil
}
