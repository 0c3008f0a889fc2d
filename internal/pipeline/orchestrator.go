package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/talentwire/ingest/internal/classify"
	"github.com/talentwire/ingest/internal/extract"
	"github.com/talentwire/ingest/internal/model"
	"github.com/talentwire/ingest/internal/store"
)

// State names the pipeline's positions. A run moves strictly forward;
// any stage error sends it to StateFailed with nothing committed beyond
// what the last completed stage already wrote.
type State string

const (
	StateReceived       State = "received"
	StateContentFetched State = "content_fetched"
	StateExtracted      State = "extracted"
	StateClassified     State = "classified"
	StatePersisted      State = "persisted"
	StateForwarded      State = "forwarded"
	StateFailed         State = "failed"
)

// Collaborator surfaces the orchestrator sequences. Concrete implementations
// live in extract, classify, store and queue; tests substitute fakes.
type (
	Source interface {
		Fetch(ctx context.Context, filename string) ([]byte, error)
	}
	Router interface {
		Route(filename string) extract.Extractor
	}
	Classifier interface {
		Analyze(ctx context.Context, text string, pages []model.Page, paragraphs []string) (*classify.DocumentAnalysis, error)
	}
	Persister interface {
		Upsert(ctx context.Context, rec *store.FileRecord) (*store.FileRecord, error)
	}
	Forwarder interface {
		Forward(ctx context.Context, msg model.MatchRequest) error
	}
)

// Orchestrator runs the ingestion pipeline for one inbound message at a
// time: fetch, extract, classify, persist, forward. It owns failure
// propagation and nothing else; redelivery policy belongs to the queue layer.
type Orchestrator struct {
	source     Source
	router     Router
	classifier Classifier
	persister  Persister
	forwarder  Forwarder
	log        *slog.Logger
}

func NewOrchestrator(source Source, router Router, classifier Classifier, persister Persister, forwarder Forwarder, log *slog.Logger) *Orchestrator {
	return &Orchestrator{
		source:     source,
		router:     router,
		classifier: classifier,
		persister:  persister,
		forwarder:  forwarder,
		log:        log,
	}
}

// HandleMessage is the queue handler: decode, validate, run.
func (o *Orchestrator) HandleMessage(ctx context.Context, payload []byte) error {
	var req model.ProcessingRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		return fmt.Errorf("decode processing request: %w", err)
	}
	if err := req.Validate(); err != nil {
		return err
	}
	return o.Process(ctx, req)
}

// Process runs the full pipeline for one request. Every transition either
// advances the state or fails the run; there is no partial recovery.
func (o *Orchestrator) Process(ctx context.Context, req model.ProcessingRequest) error {
	log := o.log.With("file_id", req.ID, "owner_id", req.UserID, "filename", req.Filename)
	state := StateReceived
	fail := func(err error) error {
		log.Error("pipeline run failed", "state", string(state), "error", err)
		return fmt.Errorf("%s: %w", state, err)
	}

	// Received -> ContentFetched
	content, err := o.source.Fetch(ctx, req.Filename)
	if err != nil {
		return fail(err)
	}
	state = StateContentFetched
	log.Info("content fetched", "bytes", len(content))

	// ContentFetched -> Extracted
	extractor := o.router.Route(req.Filename)
	doc, err := extractor.Extract(ctx, content)
	if err != nil {
		return fail(err)
	}
	state = StateExtracted
	log.Info("content extracted",
		"pages", len(doc.Pages),
		"paragraphs", len(doc.Paragraphs),
		"tables", len(doc.Tables),
	)

	// Extracted -> Classified
	analysis, err := o.classifier.Analyze(ctx, doc.Text, doc.Pages, doc.Paragraphs)
	if err != nil {
		return fail(err)
	}
	state = StateClassified
	if analysis.DocumentType != req.Type {
		// The declared type wins; the record keeps the caller's tag.
		log.Warn("classifier disagrees with declared type",
			"declared", req.Type, "classified", analysis.DocumentType)
	}

	// Classified -> Persisted
	stored, err := o.persister.Upsert(ctx, buildRecord(req, doc, analysis))
	if err != nil {
		return fail(err)
	}
	state = StatePersisted

	// Persisted -> Forwarded. A failure here leaves the persisted record in
	// place; only message redelivery retries the forward.
	err = o.forwarder.Forward(ctx, model.MatchRequest{
		FileID:   stored.ID,
		UserID:   stored.OwnerID,
		Type:     stored.Type,
		Filename: stored.Filename,
		URL:      stored.URL,
	})
	if err != nil {
		return fail(err)
	}
	state = StateForwarded
	log.Info("pipeline run complete", "record_id", stored.ID)
	return nil
}

func buildRecord(req model.ProcessingRequest, doc *model.DocumentContent, analysis *classify.DocumentAnalysis) *store.FileRecord {
	return &store.FileRecord{
		ID:         req.ID.String(),
		OwnerID:    req.UserID,
		Filename:   req.Filename,
		Type:       req.Type,
		URL:        req.URL,
		Text:       doc.Text,
		Pages:      doc.Pages,
		Paragraphs: doc.Paragraphs,
		Tables:     doc.Tables,
		Styles:     doc.Styles,
		Headers:    doc.Headers,
		Footers:    doc.Footers,
		Languages:  doc.Languages,
		Analysis:   analysis,
	}
}
