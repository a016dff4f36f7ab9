package repository

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/noah-isme/student-crm-api/internal/models"
)

// CatalogRepository persists the course catalog as a JSON file, independent
// of the student database.
type CatalogRepository struct {
	path string
}

// NewCatalogRepository constructs a CatalogRepository for the given file.
func NewCatalogRepository(path string) *CatalogRepository {
	if path == "" {
		path = "./course_catalog.json"
	}
	return &CatalogRepository{path: path}
}

// Read loads the persisted catalog. A missing file yields os.ErrNotExist; a
// malformed file yields a decode error. Shape validation is the service's
// concern.
func (r *CatalogRepository) Read() ([]models.CourseCatalogEntry, error) {
	raw, err := os.ReadFile(r.path)
	if err != nil {
		return nil, err
	}
	var entries []models.CourseCatalogEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("decode course catalog: %w", err)
	}
	return entries, nil
}

// Write persists the catalog atomically: the new content lands in a temp file
// first, so a failed save leaves the previous catalog untouched.
func (r *CatalogRepository) Write(entries []models.CourseCatalogEntry) error {
	payload, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("encode course catalog: %w", err)
	}
	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("prepare catalog directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "catalog-*.json")
	if err != nil {
		return fmt.Errorf("create catalog temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(payload); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write course catalog: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close catalog temp file: %w", err)
	}
	if err := os.Rename(tmpName, r.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("replace course catalog: %w", err)
	}
	return nil
}

// Path exposes the backing file location.
func (r *CatalogRepository) Path() string {
	return r.path
}
