// Package metadata defines the schema-agnostic comic metadata record shared
// by every tag format adapter, plus the vocabulary the adapters consume:
// credit role synonym tables, loose date parsing, and web link handling.
package metadata

// Page describes one comic page inside an archive.
type Page struct {
	// Filename is the archive entry holding the page image.
	Filename string `yaml:"filename" json:"filename"`
	// DisplayIndex is the intended reading order, cover first at 0.
	DisplayIndex int `yaml:"display_index" json:"display_index"`
	// ArchiveIndex is the page's position within the archive's page
	// listing, used as a fallback correlation key when filenames drift.
	ArchiveIndex int `yaml:"archive_index" json:"archive_index"`
	// Bookmark is an optional title or chapter label for the page.
	Bookmark string `yaml:"bookmark,omitempty" json:"bookmark,omitempty"`
	// Type is a format-specific page classification (cover, story, ad...).
	Type string `yaml:"type,omitempty" json:"type,omitempty"`
}

// Credit is one (person, role, language) contributor tuple.
type Credit struct {
	Person   string `yaml:"person" json:"person"`
	Role     string `yaml:"role" json:"role"`
	Language string `yaml:"language,omitempty" json:"language,omitempty"`
}

// WebLink is a normalized external URL reference.
type WebLink struct {
	URL string `yaml:"url" json:"url"`
}

// Metadata is the normalized record every format adapter reads into and
// writes from. Field absence is meaningful: string fields left empty and
// pointer fields left nil are not written by adapters.
type Metadata struct {
	Series      string `yaml:"series,omitempty" json:"series,omitempty"`
	Issue       string `yaml:"issue,omitempty" json:"issue,omitempty"`
	Title       string `yaml:"title,omitempty" json:"title,omitempty"`
	Volume      string `yaml:"volume,omitempty" json:"volume,omitempty"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
	Notes       string `yaml:"notes,omitempty" json:"notes,omitempty"`

	Publisher string `yaml:"publisher,omitempty" json:"publisher,omitempty"`
	Imprint   string `yaml:"imprint,omitempty" json:"imprint,omitempty"`

	Day   *int `yaml:"day,omitempty" json:"day,omitempty"`
	Month *int `yaml:"month,omitempty" json:"month,omitempty"`
	Year  *int `yaml:"year,omitempty" json:"year,omitempty"`

	Language string `yaml:"language,omitempty" json:"language,omitempty"`

	Genres StringSet `yaml:"genres,omitempty" json:"genres,omitempty"`
	Tags   StringSet `yaml:"tags,omitempty" json:"tags,omitempty"`

	WebLinks []WebLink `yaml:"web_links,omitempty" json:"web_links,omitempty"`

	// Manga is "Yes", "YesAndRightToLeft", "No" or empty (unknown).
	Manga          string `yaml:"manga,omitempty" json:"manga,omitempty"`
	MaturityRating string `yaml:"maturity_rating,omitempty" json:"maturity_rating,omitempty"`
	ScanInfo       string `yaml:"scan_info,omitempty" json:"scan_info,omitempty"`

	Characters StringSet `yaml:"characters,omitempty" json:"characters,omitempty"`
	Teams      StringSet `yaml:"teams,omitempty" json:"teams,omitempty"`
	Locations  StringSet `yaml:"locations,omitempty" json:"locations,omitempty"`

	Credits []Credit `yaml:"credits,omitempty" json:"credits,omitempty"`
	Pages   []Page   `yaml:"pages,omitempty" json:"pages,omitempty"`

	// DataOrigin labels the source the record was scraped or tagged from.
	DataOrigin string `yaml:"data_origin,omitempty" json:"data_origin,omitempty"`
	IssueID    string `yaml:"issue_id,omitempty" json:"issue_id,omitempty"`
	SeriesID   string `yaml:"series_id,omitempty" json:"series_id,omitempty"`

	// Identifier is a formal ID such as an ISBN or UPC.
	Identifier string `yaml:"identifier,omitempty" json:"identifier,omitempty"`
	Rights     string `yaml:"rights,omitempty" json:"rights,omitempty"`

	// IsEmpty is true until an adapter populates the record.
	IsEmpty bool `yaml:"-" json:"-"`
}

// New returns an empty record.
func New() *Metadata {
	return &Metadata{
		Genres:     NewStringSet(),
		Tags:       NewStringSet(),
		Characters: NewStringSet(),
		Teams:      NewStringSet(),
		Locations:  NewStringSet(),
		IsEmpty:    true,
	}
}

// AddCredit appends a contributor tuple.
func (m *Metadata) AddCredit(person, role, language string) {
	m.Credits = append(m.Credits, Credit{Person: person, Role: role, Language: language})
}

// DataOriginName returns the origin label for database references,
// defaulting to "Unknown" when the record carries none.
func (m *Metadata) DataOriginName() string {
	if m.DataOrigin == "" {
		return "Unknown"
	}
	return m.DataOrigin
}
