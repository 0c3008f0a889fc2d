package extract

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/talentwire/ingest/internal/model"
)

// Extractor converts raw document bytes into the normalized content model.
type Extractor interface {
	Extract(ctx context.Context, content []byte) (*model.DocumentContent, error)
}

// Router picks an extractor by filename suffix. Word-processing documents are
// parsed locally; everything else goes to the layout-analysis path, which
// fails loudly on content it cannot handle.
type Router struct {
	docx   Extractor
	layout Extractor
}

func NewRouter(docx, layout Extractor) *Router {
	return &Router{docx: docx, layout: layout}
}

// Route is pure dispatch: no side effects, no error conditions.
func (r *Router) Route(filename string) Extractor {
	if strings.EqualFold(filepath.Ext(filename), ".docx") {
		return r.docx
	}
	return r.layout
}
