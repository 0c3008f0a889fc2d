package classify

import (
	"context"
	"encoding/json"

	"google.golang.org/genai"
)

// MatchResult is the downstream matching stage's scoring payload: the
// skills/experience/education overlap between one CV and one JD, plus an
// overall percentage.
type MatchResult struct {
	JDRequirements         RequirementSet `json:"jd_requirements"`
	CandidateCapabilities  RequirementSet `json:"candidate_capabilities"`
	CVMatch                CVMatch        `json:"cv_match"`
	OverallMatchPercentage float64        `json:"overall_match_percentage"`
}

type RequirementSet struct {
	Skills     []string `json:"skills"`
	Experience []string `json:"experience"`
	Education  []string `json:"education"`
}

type CVMatch struct {
	SkillsMatch     []string `json:"skills_match"`
	ExperienceMatch []string `json:"experience_match"`
	EducationMatch  []string `json:"education_match"`
	Gaps            []string `json:"gaps"`
}

// MatchScore scores a CV against a JD. Consumed by the matching stage, which
// re-reads both documents from the metadata store by id.
func (c *Classifier) MatchScore(ctx context.Context, cvText, jdText string) (*MatchResult, error) {
	calls, err := c.callTool(ctx, buildMatchingPrompt(cvText, jdText), matchingTool(), matchingToolName, 1024)
	if err != nil {
		return nil, err
	}
	return decodeMatchCall(calls)
}

func decodeMatchCall(calls []*genai.FunctionCall) (*MatchResult, error) {
	if len(calls) != 1 {
		return nil, &ProtocolError{Calls: len(calls)}
	}
	args, err := json.Marshal(calls[0].Args)
	if err != nil {
		return nil, &SchemaError{Reason: err.Error()}
	}
	var result MatchResult
	if err := json.Unmarshal(args, &result); err != nil {
		return nil, &SchemaError{Reason: err.Error()}
	}
	if result.OverallMatchPercentage < 0 || result.OverallMatchPercentage > 100 {
		return nil, &SchemaError{Reason: "overall_match_percentage outside [0,100]"}
	}
	return &result, nil
}
