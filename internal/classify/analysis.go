package classify

import (
	"encoding/json"
	"fmt"

	"github.com/talentwire/ingest/internal/model"
)

// Detail is one labeled text fragment, e.g. {"type": "email", "text": "..."}.
type Detail struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// ExperienceBlock is one position in a CV's experience section.
type ExperienceBlock struct {
	Title     string   `json:"title"`
	StartDate string   `json:"start_date"`
	EndDate   string   `json:"end_date,omitempty"`
	Lines     []string `json:"lines"`
}

// EducationBlock is one entry in a CV's education section.
type EducationBlock struct {
	Title     string `json:"title"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date,omitempty"`
	Degree    string `json:"degree,omitempty"`
	Details   string `json:"details,omitempty"`
	City      string `json:"city,omitempty"`
}

// CVStructure is the résumé variant of a document analysis.
type CVStructure struct {
	PersonalDetails       []Detail          `json:"personal_details"`
	ProfessionalSummary   string            `json:"professional_summary"`
	Skills                []string          `json:"skills"`
	Experience            []ExperienceBlock `json:"experience"`
	Education             []EducationBlock  `json:"education"`
	AdditionalInformation []string          `json:"additional_information,omitempty"`
}

// JDStructure is the job-description variant of a document analysis.
type JDStructure struct {
	CompanyDetails         []Detail `json:"company_details"`
	RoleSummary            string   `json:"role_summary"`
	RequiredSkills         []string `json:"required_skills"`
	ExperienceRequirements []string `json:"experience_requirements"`
	EducationRequirements  []string `json:"education_requirements,omitempty"`
	AdditionalInformation  []string `json:"additional_information,omitempty"`
}

var (
	requiredCVFields = []string{"personal_details", "professional_summary", "skills", "experience", "education"}
	requiredJDFields = []string{"company_details", "role_summary", "required_skills", "experience_requirements"}
)

// DocumentAnalysis is a tagged union: document_type selects which variant is
// populated, and exactly one of CV/JD is non-nil. A payload whose structure
// lacks the required fields of its declared type is rejected outright; a
// CV-shaped structure is never remapped under a JD tag or vice versa.
type DocumentAnalysis struct {
	DocumentType model.FileType
	CV           *CVStructure
	JD           *JDStructure
}

func (a *DocumentAnalysis) UnmarshalJSON(data []byte) error {
	var raw struct {
		DocumentType model.FileType             `json:"document_type"`
		Structure    map[string]json.RawMessage `json:"structure"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return &SchemaError{Reason: err.Error()}
	}
	if !raw.DocumentType.Valid() {
		return &SchemaError{Reason: fmt.Sprintf("unknown document_type %q", string(raw.DocumentType))}
	}
	if raw.Structure == nil {
		return &SchemaError{Reason: "structure is required"}
	}

	var required []string
	if raw.DocumentType == model.FileTypeCV {
		required = requiredCVFields
	} else {
		required = requiredJDFields
	}
	var missing []string
	for _, field := range required {
		if _, ok := raw.Structure[field]; !ok {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return &SchemaError{
			Reason:  fmt.Sprintf("structure incomplete for document_type %s", raw.DocumentType),
			Missing: missing,
		}
	}

	structure, err := json.Marshal(raw.Structure)
	if err != nil {
		return &SchemaError{Reason: err.Error()}
	}

	a.DocumentType = raw.DocumentType
	a.CV, a.JD = nil, nil
	switch raw.DocumentType {
	case model.FileTypeCV:
		var cv CVStructure
		if err := json.Unmarshal(structure, &cv); err != nil {
			return &SchemaError{Reason: err.Error()}
		}
		a.CV = &cv
	case model.FileTypeJD:
		var jd JDStructure
		if err := json.Unmarshal(structure, &jd); err != nil {
			return &SchemaError{Reason: err.Error()}
		}
		a.JD = &jd
	}
	return nil
}

func (a DocumentAnalysis) MarshalJSON() ([]byte, error) {
	if err := a.Validate(); err != nil {
		return nil, err
	}
	var structure any
	if a.DocumentType == model.FileTypeCV {
		structure = a.CV
	} else {
		structure = a.JD
	}
	return json.Marshal(struct {
		DocumentType model.FileType `json:"document_type"`
		Structure    any            `json:"structure"`
	}{a.DocumentType, structure})
}

// Validate enforces the union invariant: the variant matching DocumentType
// must be populated and the other must not.
func (a *DocumentAnalysis) Validate() error {
	switch a.DocumentType {
	case model.FileTypeCV:
		if a.CV == nil {
			return &SchemaError{Reason: "document_type CV without CV structure"}
		}
		if a.JD != nil {
			return &SchemaError{Reason: "document_type CV with JD structure populated"}
		}
	case model.FileTypeJD:
		if a.JD == nil {
			return &SchemaError{Reason: "document_type JD without JD structure"}
		}
		if a.CV != nil {
			return &SchemaError{Reason: "document_type JD with CV structure populated"}
		}
	default:
		return &SchemaError{Reason: fmt.Sprintf("unknown document_type %q", string(a.DocumentType))}
	}
	return nil
}
