package classify

import (
	"encoding/json"
	"errors"
	"testing"

	"google.golang.org/genai"

	"github.com/talentwire/ingest/internal/model"
)

func callFromJSON(t *testing.T, name, payload string) *genai.FunctionCall {
	t.Helper()
	var args map[string]any
	if err := json.Unmarshal([]byte(payload), &args); err != nil {
		t.Fatalf("unmarshal fixture: %v", err)
	}
	return &genai.FunctionCall{Name: name, Args: args}
}

func TestDecodeAnalysisCall(t *testing.T) {
	call := callFromJSON(t, analysisToolName, validCVPayload)
	analysis, err := decodeAnalysisCall([]*genai.FunctionCall{call})
	if err != nil {
		t.Fatalf("decodeAnalysisCall: %v", err)
	}
	if analysis.DocumentType != model.FileTypeCV || analysis.CV == nil {
		t.Errorf("analysis = %+v", analysis)
	}
}

func TestDecodeAnalysisCallProtocol(t *testing.T) {
	call := callFromJSON(t, analysisToolName, validCVPayload)
	for _, calls := range [][]*genai.FunctionCall{
		nil,
		{},
		{call, call},
	} {
		_, err := decodeAnalysisCall(calls)
		var protoErr *ProtocolError
		if !errors.As(err, &protoErr) {
			t.Errorf("calls=%d: error = %v, want *ProtocolError", len(calls), err)
			continue
		}
		if protoErr.Calls != len(calls) {
			t.Errorf("protoErr.Calls = %d, want %d", protoErr.Calls, len(calls))
		}
	}
}

func TestDecodeAnalysisCallBadPayload(t *testing.T) {
	call := callFromJSON(t, analysisToolName,
		`{"document_type": "CV", "structure": {"personal_details": []}}`)
	_, err := decodeAnalysisCall([]*genai.FunctionCall{call})
	var schemaErr *SchemaError
	if !errors.As(err, &schemaErr) {
		t.Fatalf("error = %v, want *SchemaError", err)
	}
	if len(schemaErr.Missing) == 0 {
		t.Errorf("missing fields not reported: %v", schemaErr)
	}
}

func TestDecodeMatchCall(t *testing.T) {
	payload := `{
		"jd_requirements": {"skills": ["Go"], "experience": ["5 years"], "education": []},
		"candidate_capabilities": {"skills": ["Go", "Redis"], "experience": ["10 years"], "education": ["BSc"]},
		"cv_match": {"skills_match": ["Go"], "experience_match": ["10 years"], "education_match": [], "gaps": []},
		"overall_match_percentage": 82.5
	}`
	result, err := decodeMatchCall([]*genai.FunctionCall{callFromJSON(t, matchingToolName, payload)})
	if err != nil {
		t.Fatalf("decodeMatchCall: %v", err)
	}
	if result.OverallMatchPercentage != 82.5 {
		t.Errorf("percentage = %v, want 82.5", result.OverallMatchPercentage)
	}
	if len(result.CVMatch.SkillsMatch) != 1 {
		t.Errorf("skills match = %v", result.CVMatch.SkillsMatch)
	}
}

func TestDecodeMatchCallRejectsOutOfRange(t *testing.T) {
	for _, pct := range []string{"-1", "100.5"} {
		payload := `{"jd_requirements": {}, "candidate_capabilities": {}, "cv_match": {}, "overall_match_percentage": ` + pct + `}`
		_, err := decodeMatchCall([]*genai.FunctionCall{callFromJSON(t, matchingToolName, payload)})
		var schemaErr *SchemaError
		if !errors.As(err, &schemaErr) {
			t.Errorf("pct=%s: error = %v, want *SchemaError", pct, err)
		}
	}
}
