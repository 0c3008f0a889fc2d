package extract

import (
	"bytes"
	"context"
	"strings"

	pdflib "github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	pdfmodel "github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/talentwire/ingest/internal/model"
)

// LocalPDFExtractor extracts PDF text without the layout-analysis service.
// It is the development fallback wired in when no layout endpoint is
// configured. It produces text and page dimensions only: no line geometry,
// tables or styles.
type LocalPDFExtractor struct{}

func NewLocalPDFExtractor() *LocalPDFExtractor {
	return &LocalPDFExtractor{}
}

func (e *LocalPDFExtractor) Extract(ctx context.Context, content []byte) (*model.DocumentContent, error) {
	// Validate the document structure first so corrupt files fail loudly
	// instead of producing empty text.
	conf := pdfmodel.NewDefaultConfiguration()
	pdfCtx, err := api.ReadValidateAndOptimize(bytes.NewReader(content), conf)
	if err != nil {
		return nil, &FormatError{Format: "pdf", Err: err}
	}
	dims, err := pdfCtx.PageDims()
	if err != nil {
		return nil, &FormatError{Format: "pdf", Err: err}
	}

	reader, err := pdflib.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, &FormatError{Format: "pdf", Err: err}
	}

	var pages []model.Page
	var all []string
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		text = strings.TrimSpace(text)

		var lines []model.Line
		var contents []string
		for _, line := range strings.Split(text, "\n") {
			if l := strings.TrimSpace(line); l != "" {
				lines = append(lines, model.Line{Content: l})
				contents = append(contents, l)
			}
		}

		p := model.Page{
			PageNumber: i,
			Content:    strings.Join(contents, "\n"),
			Lines:      lines,
			Unit:       "point",
		}
		if i-1 < len(dims) {
			p.Width = dims[i-1].Width
			p.Height = dims[i-1].Height
		}
		pages = append(pages, p)
		if p.Content != "" {
			all = append(all, p.Content)
		}
	}

	text := strings.Join(all, "\n")
	if len(pages) == 0 {
		pages = []model.Page{{PageNumber: 1, Content: text}}
	}

	return &model.DocumentContent{
		Text:       text,
		Pages:      pages,
		Paragraphs: splitBlankLines(text),
	}, nil
}
