package extract

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/talentwire/ingest/internal/model"
)

// LayoutExtractor drives the layout-analysis service and maps its native
// result into the normalized content model.
type LayoutExtractor struct {
	client   *LayoutClient
	deadline time.Duration
	log      *slog.Logger
}

func NewLayoutExtractor(client *LayoutClient, deadline time.Duration, log *slog.Logger) *LayoutExtractor {
	return &LayoutExtractor{client: client, deadline: deadline, log: log}
}

func (e *LayoutExtractor) Extract(ctx context.Context, content []byte) (*model.DocumentContent, error) {
	op, err := e.client.Submit(ctx, content)
	if err != nil {
		return nil, err
	}
	result, err := e.client.AwaitResult(ctx, op, e.deadline)
	if err != nil {
		return nil, err
	}
	return e.mapResult(result), nil
}

// mapResult builds DocumentContent from the raw analysis. A mapping problem
// in one table or page is logged and that sub-item skipped; unlike the
// submit/await failures above, partial page loss does not abort extraction.
func (e *LayoutExtractor) mapResult(result *LayoutResult) *model.DocumentContent {
	tables := make([]model.Table, 0, len(result.Tables))
	for i, raw := range result.Tables {
		grid, err := mapTable(raw)
		if err != nil {
			e.log.Warn("skipping unmappable table", "table", i, "error", err)
			continue
		}
		tables = append(tables, grid)
	}

	styles := map[string]model.StyleInfo{}
	pages := make([]model.Page, 0, len(result.Pages))
	for _, raw := range result.Pages {
		lines := make([]model.Line, 0, len(raw.Lines))
		contents := make([]string, 0, len(raw.Lines))
		for _, line := range raw.Lines {
			lines = append(lines, model.Line{
				Content: line.Content,
				Polygon: mapPolygon(line.Polygon),
			})
			contents = append(contents, line.Content)
			if line.Appearance != nil {
				// Keys are synthesized in discovery order; they carry no
				// stable identity across runs.
				name := fmt.Sprintf("style_%d", len(styles))
				styles[name] = mapStyle(name, line.Appearance.Style)
			}
		}
		pages = append(pages, model.Page{
			PageNumber: raw.PageNumber,
			Content:    strings.Join(contents, "\n"),
			Lines:      lines,
			// The raw result does not scope tables to pages; every page
			// carries the full table set.
			Tables: tables,
			Angle:  raw.Angle,
			Width:  raw.Width,
			Height: raw.Height,
			Unit:   raw.Unit,
		})
	}

	paragraphs := make([]string, 0, len(result.Paragraphs))
	for _, p := range result.Paragraphs {
		if strings.TrimSpace(p.Content) != "" {
			paragraphs = append(paragraphs, p.Content)
		}
	}
	if len(paragraphs) == 0 {
		paragraphs = splitBlankLines(result.Content)
	}

	var languages []string
	for _, l := range result.Languages {
		if l.Locale != "" {
			languages = append(languages, l.Locale)
		}
	}

	return &model.DocumentContent{
		Text:       result.Content,
		Pages:      pages,
		Paragraphs: paragraphs,
		Tables:     tables,
		Styles:     styles,
		Languages:  languages,
		// The service has no header/footer concept; both stay nil.
	}
}

func mapTable(raw LayoutTable) (model.Table, error) {
	if raw.RowCount <= 0 || raw.ColumnCount <= 0 {
		return nil, fmt.Errorf("table has dimensions %dx%d", raw.RowCount, raw.ColumnCount)
	}
	grid := make(model.Table, raw.RowCount)
	for i := range grid {
		grid[i] = make([]model.Cell, raw.ColumnCount)
	}
	for _, cell := range raw.Cells {
		if cell.RowIndex < 0 || cell.RowIndex >= raw.RowCount ||
			cell.ColumnIndex < 0 || cell.ColumnIndex >= raw.ColumnCount {
			return nil, fmt.Errorf("cell (%d,%d) outside %dx%d grid",
				cell.RowIndex, cell.ColumnIndex, raw.RowCount, raw.ColumnCount)
		}
		mapped := model.Cell{Text: cell.Content}
		if len(cell.BoundingRegions) > 0 {
			mapped.Polygon = mapPolygon(cell.BoundingRegions[0].Polygon)
		}
		grid[cell.RowIndex][cell.ColumnIndex] = mapped
	}
	return grid, nil
}

// mapPolygon converts the service's flat coordinate list into points. An odd
// trailing value is dropped.
func mapPolygon(flat []float64) []model.Point {
	if len(flat) < 2 {
		return nil
	}
	points := make([]model.Point, 0, len(flat)/2)
	for i := 0; i+1 < len(flat); i += 2 {
		points = append(points, model.Point{X: flat[i], Y: flat[i+1]})
	}
	return points
}

func mapStyle(name string, attrs LayoutStyleAttrs) model.StyleInfo {
	return model.StyleInfo{
		Name:        name,
		FontName:    attrs.FontFamily,
		FontSize:    attrs.FontSize,
		IsBold:      attrs.IsBold,
		IsItalic:    attrs.IsItalic,
		IsUnderline: attrs.IsUnderline,
	}
}

func splitBlankLines(text string) []string {
	var out []string
	for _, block := range strings.Split(text, "\n\n") {
		if b := strings.TrimSpace(block); b != "" {
			out = append(out, b)
		}
	}
	return out
}
