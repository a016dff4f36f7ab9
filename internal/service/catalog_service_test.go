package service

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/student-crm-api/internal/models"
	"github.com/noah-isme/student-crm-api/internal/repository"
	appErrors "github.com/noah-isme/student-crm-api/pkg/errors"
)

func newCatalogService(t *testing.T) (*CatalogService, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "course_catalog.json")
	repo := repository.NewCatalogRepository(path)
	return NewCatalogService(repo, zap.NewNop()), path
}

func TestCatalogServiceLoadSeedsDefaults(t *testing.T) {
	svc, path := newCatalogService(t)

	entries, err := svc.Load()
	require.NoError(t, err)
	assert.Equal(t, models.DefaultCourseCatalog(), entries)

	_, statErr := os.Stat(path)
	assert.NoError(t, statErr)
}

func TestCatalogServiceLoadMalformedFileServesDefaults(t *testing.T) {
	svc, path := newCatalogService(t)
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	entries, err := svc.Load()
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrCatalogFormat.Code, appErrors.FromError(err).Code)
	assert.Equal(t, models.DefaultCourseCatalog(), entries)
}

func TestCatalogServiceSaveAndReload(t *testing.T) {
	svc, _ := newCatalogService(t)

	replacement := []models.CourseCatalogEntry{
		{Name: "Advanced Excel", Price: 3500},
		{Name: "Python", Price: 6000},
	}
	require.NoError(t, svc.Save(replacement))

	entries, err := svc.Load()
	require.NoError(t, err)
	assert.Equal(t, replacement, entries)
}

func TestCatalogServiceSaveRejectsDuplicateNames(t *testing.T) {
	svc, _ := newCatalogService(t)

	original := []models.CourseCatalogEntry{{Name: "Python", Price: 5000}}
	require.NoError(t, svc.Save(original))

	err := svc.Save([]models.CourseCatalogEntry{
		{Name: "Python", Price: 5000},
		{Name: "python", Price: 4000},
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	entries, loadErr := svc.Load()
	require.NoError(t, loadErr)
	assert.Equal(t, original, entries)
}

func TestCatalogServiceSaveRejectsInvalidEntries(t *testing.T) {
	svc, _ := newCatalogService(t)

	err := svc.Save([]models.CourseCatalogEntry{{Name: "  ", Price: 1000}})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	err = svc.Save([]models.CourseCatalogEntry{{Name: "Python", Price: -1}})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}
