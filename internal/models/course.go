package models

// CourseCatalogEntry maps a course name to its standard price. The catalog is
// a small reference list used to prefill fee amounts; editing it never
// rewrites existing student rows.
type CourseCatalogEntry struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// DefaultCourseCatalog is persisted when no catalog file exists yet, and
// served when the persisted file is malformed.
func DefaultCourseCatalog() []CourseCatalogEntry {
	return []CourseCatalogEntry{
		{Name: "Basic Computer Course", Price: 3000},
		{Name: "Tally with GST", Price: 5000},
		{Name: "Python", Price: 5000},
		{Name: "DTP", Price: 4000},
	}
}
