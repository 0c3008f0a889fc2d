package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"strings"

	"github.com/fumiama/go-docx"

	"github.com/talentwire/ingest/internal/model"
)

// DocxExtractor parses word-processing documents entirely locally. The format
// has no page concept, so the result always carries exactly one synthetic
// page holding the full text and all document-level tables.
type DocxExtractor struct{}

func NewDocxExtractor() *DocxExtractor {
	return &DocxExtractor{}
}

func (e *DocxExtractor) Extract(ctx context.Context, content []byte) (*model.DocumentContent, error) {
	// The package is a zip archive. go-docx covers the body; headers,
	// footers, styles and text frames live in parts it does not expose,
	// so those are read from the archive directly.
	zr, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, &FormatError{Format: "docx", Err: err}
	}

	doc, err := docx.Parse(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, &FormatError{Format: "docx", Err: err}
	}

	styles, err := readStylePart(zr)
	if err != nil {
		return nil, &FormatError{Format: "docx", Err: err}
	}

	var fullText []string
	var paragraphs []string
	var tables []model.Table

	for _, item := range doc.Document.Body.Items {
		switch it := item.(type) {
		case *docx.Paragraph:
			text := paragraphText(it)
			if text == "" {
				continue
			}
			fullText = append(fullText, text)
			paragraphs = append(paragraphs, text)
		case *docx.Table:
			grid := tableGrid(it, &fullText)
			tables = append(tables, grid)
		}
	}

	// Inline and floating text frames are not part of the body item walk.
	frames, err := readTextFrames(zr)
	if err != nil {
		return nil, &FormatError{Format: "docx", Err: err}
	}
	for _, text := range frames {
		fullText = append(fullText, text)
		paragraphs = append(paragraphs, text)
	}

	headers, footers, err := readHeaderFooterParts(zr)
	if err != nil {
		return nil, &FormatError{Format: "docx", Err: err}
	}
	fullText = append(fullText, headers...)
	fullText = append(fullText, footers...)

	joined := strings.Join(fullText, "\n")
	lines := make([]model.Line, 0, len(fullText))
	for _, text := range fullText {
		lines = append(lines, model.Line{Content: text})
	}

	return &model.DocumentContent{
		Text:       joined,
		Paragraphs: paragraphs,
		Tables:     tables,
		Styles:     styles,
		Headers:    headers,
		Footers:    footers,
		Pages: []model.Page{{
			PageNumber: 1,
			Content:    joined,
			Lines:      lines,
			Tables:     tables,
		}},
	}, nil
}

// paragraphText concatenates the run text of a paragraph.
func paragraphText(para *docx.Paragraph) string {
	var buf strings.Builder
	for _, child := range para.Children {
		run, ok := child.(*docx.Run)
		if !ok {
			continue
		}
		for _, rc := range run.Children {
			if t, ok := rc.(*docx.Text); ok {
				buf.WriteString(t.Text)
			}
		}
	}
	return strings.TrimSpace(buf.String())
}

// tableGrid walks a table row-major. Non-empty cell text also feeds the full
// document text, matching the paragraph walk; blank cells stay in the grid
// but contribute no lines.
func tableGrid(table *docx.Table, fullText *[]string) model.Table {
	var grid model.Table
	for _, row := range table.TableRows {
		var cells []model.Cell
		for _, cell := range row.TableCells {
			var parts []string
			for _, para := range cell.Paragraphs {
				if text := paragraphText(para); text != "" {
					parts = append(parts, text)
				}
			}
			text := strings.Join(parts, "\n")
			cells = append(cells, model.Cell{Text: text})
			if text != "" {
				*fullText = append(*fullText, text)
			}
		}
		grid = append(grid, cells)
	}
	return grid
}
