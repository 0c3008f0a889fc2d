package classify

import "google.golang.org/genai"

const (
	analysisToolName = "store_document_analysis"
	matchingToolName = "store_matching_result"
)

// analysisTool declares the function the model must call with its document
// analysis. Only the CV shape is declared; JD-shaped responses are accepted
// by the decoder and validated against the JD field set separately. The
// asymmetry is deliberate: declaring both shapes in one schema confuses the
// model more than a permissive decoder does.
func analysisTool() *genai.Tool {
	detailItem := &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"type": {Type: genai.TypeString},
			"text": {Type: genai.TypeString},
		},
		Required: []string{"type", "text"},
	}
	stringArray := &genai.Schema{
		Type:  genai.TypeArray,
		Items: &genai.Schema{Type: genai.TypeString},
	}

	return &genai.Tool{
		FunctionDeclarations: []*genai.FunctionDeclaration{{
			Name:        analysisToolName,
			Description: "Store the analysis of the document structure",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"document_type": {
						Type:        genai.TypeString,
						Enum:        []string{"CV", "JD"},
						Description: "The type of document",
					},
					"structure": {
						Type: genai.TypeObject,
						Properties: map[string]*genai.Schema{
							"personal_details":     {Type: genai.TypeArray, Items: detailItem},
							"professional_summary": {Type: genai.TypeString},
							"skills":               stringArray,
							"experience": {
								Type: genai.TypeArray,
								Items: &genai.Schema{
									Type: genai.TypeObject,
									Properties: map[string]*genai.Schema{
										"title":      {Type: genai.TypeString},
										"start_date": {Type: genai.TypeString},
										"end_date":   {Type: genai.TypeString},
										"lines":      stringArray,
									},
									Required: []string{"title", "start_date", "lines"},
								},
							},
							"education": {
								Type: genai.TypeArray,
								Items: &genai.Schema{
									Type: genai.TypeObject,
									Properties: map[string]*genai.Schema{
										"title":      {Type: genai.TypeString},
										"start_date": {Type: genai.TypeString},
										"end_date":   {Type: genai.TypeString},
										"degree":     {Type: genai.TypeString},
										"details":    {Type: genai.TypeString},
										"city":       {Type: genai.TypeString},
									},
									Required: []string{"title", "start_date"},
								},
							},
							"additional_information": stringArray,
						},
						Required: []string{"personal_details", "professional_summary", "skills", "experience", "education"},
					},
				},
				Required: []string{"document_type", "structure"},
			},
		}},
	}
}

func matchingTool() *genai.Tool {
	stringArray := &genai.Schema{
		Type:  genai.TypeArray,
		Items: &genai.Schema{Type: genai.TypeString},
	}
	requirementSet := &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"skills":     stringArray,
			"experience": stringArray,
			"education":  stringArray,
		},
	}

	return &genai.Tool{
		FunctionDeclarations: []*genai.FunctionDeclaration{{
			Name:        matchingToolName,
			Description: "Store or process the CV and JD matching result",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"jd_requirements":        requirementSet,
					"candidate_capabilities": requirementSet,
					"cv_match": {
						Type: genai.TypeObject,
						Properties: map[string]*genai.Schema{
							"skills_match":     stringArray,
							"experience_match": stringArray,
							"education_match":  stringArray,
							"gaps":             stringArray,
						},
					},
					"overall_match_percentage": {Type: genai.TypeNumber},
				},
				Required: []string{"jd_requirements", "candidate_capabilities", "cv_match", "overall_match_percentage"},
			},
		}},
	}
}
