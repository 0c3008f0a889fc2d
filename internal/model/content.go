package model

// DocumentContent is the normalized representation every extractor produces,
// regardless of source format. Downstream stages (classification,
// persistence) only ever see this shape.
type DocumentContent struct {
	Text       string               `json:"text"`
	Pages      []Page               `json:"pages"`
	Paragraphs []string             `json:"paragraphs"`
	Tables     []Table              `json:"tables,omitempty"`
	Styles     map[string]StyleInfo `json:"styles,omitempty"`

	// Headers and Footers are nil for formats with no such concept
	// (layout-analysis sources), not empty slices.
	Headers []string `json:"headers,omitempty"`
	Footers []string `json:"footers,omitempty"`

	Languages []string `json:"languages,omitempty"`
}

// Page is one page of extracted content. Word-processing sources have no page
// concept and emit exactly one synthetic page. Geometry fields are only set
// by layout-analysis sources.
type Page struct {
	PageNumber int     `json:"page_number"`
	Content    string  `json:"content"`
	Lines      []Line  `json:"lines"`
	Tables     []Table `json:"tables,omitempty"`

	Angle  float64 `json:"angle,omitempty"`
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`
	Unit   string  `json:"unit,omitempty"`
}

// Table is a row-major grid of cells.
type Table [][]Cell

// Line is a single detected text line with optional bounding geometry.
type Line struct {
	Content string  `json:"content"`
	Polygon []Point `json:"polygon,omitempty"`
}

// Cell is one table cell with optional bounding geometry.
type Cell struct {
	Text    string  `json:"text"`
	Polygon []Point `json:"polygon,omitempty"`
}

// Point is a 2D coordinate in the source's unit space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// StyleInfo describes a named style. All attributes are optional; how many
// are present depends on the richness of the source format.
type StyleInfo struct {
	Name        string  `json:"name"`
	FontName    string  `json:"font_name,omitempty"`
	FontSize    float64 `json:"font_size,omitempty"`
	IsBold      *bool   `json:"is_bold,omitempty"`
	IsItalic    *bool   `json:"is_italic,omitempty"`
	IsUnderline *bool   `json:"is_underline,omitempty"`
}
