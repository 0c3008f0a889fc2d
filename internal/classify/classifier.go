package classify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"google.golang.org/genai"

	"github.com/talentwire/ingest/internal/model"
)

// Classifier sends normalized document content to the model with a
// function-call schema and decodes the returned call into a typed analysis.
// It never retries: a malformed or absent call propagates to the caller.
type Classifier struct {
	client    *genai.Client
	modelName string
	log       *slog.Logger
}

func NewClassifier(ctx context.Context, apiKey, modelName string, log *slog.Logger) (*Classifier, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &Classifier{client: client, modelName: modelName, log: log}, nil
}

// Analyze classifies the document as CV or JD and extracts its structure.
func (c *Classifier) Analyze(ctx context.Context, text string, pages []model.Page, paragraphs []string) (*DocumentAnalysis, error) {
	calls, err := c.callTool(ctx, buildAnalysisPrompt(text, pages, paragraphs), analysisTool(), analysisToolName, 2048)
	if err != nil {
		return nil, err
	}
	analysis, err := decodeAnalysisCall(calls)
	if err != nil {
		return nil, err
	}
	c.log.Debug("document analyzed", "document_type", analysis.DocumentType)
	return analysis, nil
}

func (c *Classifier) callTool(ctx context.Context, prompt string, tool *genai.Tool, toolName string, maxTokens int32) ([]*genai.FunctionCall, error) {
	cfg := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr[float32](0.1),
		MaxOutputTokens: maxTokens,
		Tools:           []*genai.Tool{tool},
		ToolConfig: &genai.ToolConfig{
			FunctionCallingConfig: &genai.FunctionCallingConfig{
				Mode:                 genai.FunctionCallingConfigModeAny,
				AllowedFunctionNames: []string{toolName},
			},
		},
	}
	resp, err := c.client.Models.GenerateContent(ctx, c.modelName, genai.Text(prompt), cfg)
	if err != nil {
		return nil, fmt.Errorf("generate content: %w", err)
	}
	return resp.FunctionCalls(), nil
}

// decodeAnalysisCall enforces the call protocol and the tagged-union schema.
func decodeAnalysisCall(calls []*genai.FunctionCall) (*DocumentAnalysis, error) {
	if len(calls) != 1 {
		return nil, &ProtocolError{Calls: len(calls)}
	}
	args, err := json.Marshal(calls[0].Args)
	if err != nil {
		return nil, &SchemaError{Reason: err.Error()}
	}
	var analysis DocumentAnalysis
	if err := json.Unmarshal(args, &analysis); err != nil {
		var schemaErr *SchemaError
		if errors.As(err, &schemaErr) {
			return nil, schemaErr
		}
		return nil, &SchemaError{Reason: err.Error()}
	}
	if err := analysis.Validate(); err != nil {
		return nil, err
	}
	return &analysis, nil
}
