package classify

import (
	"fmt"
	"strings"

	"github.com/talentwire/ingest/internal/model"
)

const analysisInstructions = `Analyze the provided document to determine if it's a CV (resume) or a Job Description (JD), and extract structured information.
The document content is provided as text, pages, and paragraphs.

Instructions:
1. First, determine if this is a CV or JD based on the content and structure.
2. Extract structured information according to the document type:

For CVs:
- Personal details (name, email, phone, location, etc.)
- Professional summary/objective
- Skills (technical, soft skills, languages, etc.)
- Professional experience (with dates, titles, and responsibilities)
- Education (with dates, degrees, and institutions)
- Any additional sections (certifications, awards, etc.)

For JDs:
- Company/position details
- Role summary/overview
- Required skills and qualifications
- Experience requirements
- Education requirements
- Additional information (benefits, company culture, etc.)

Call store_document_analysis exactly once with the result.`

func buildAnalysisPrompt(text string, pages []model.Page, paragraphs []string) string {
	var sb strings.Builder
	sb.WriteString(analysisInstructions)
	sb.WriteString("\n\nDocument Text:\n")
	sb.WriteString(text)
	sb.WriteString("\n\nPages:\n")
	for _, p := range pages {
		fmt.Fprintf(&sb, "--- page %d ---\n%s\n", p.PageNumber, p.Content)
	}
	sb.WriteString("\nParagraphs:\n")
	for _, p := range paragraphs {
		sb.WriteString("- ")
		sb.WriteString(p)
		sb.WriteByte('\n')
	}
	return sb.String()
}

const matchingInstructions = `Analyze the provided CV and JD to determine the suitability of the candidate for the specified job position.
Call store_matching_result exactly once with the result.

Instructions:
Extract and List Key Requirements from the JD: Identify and categorize the essential qualifications, skills, and experience levels mentioned in the job description.

Analyze the Candidate's CV: Review the candidate's CV to extract pertinent information regarding their educational background, skill set, professional experience, and any other qualifications relevant to the job description.

Match Analysis:
Skills Match: Compare the skills listed in the candidate's CV against those required by the job description.
Experience Match: Evaluate the candidate's professional experience against the experience requirements specified in the JD.
Education Match: Assess the candidate's educational qualifications in relation to the educational requirements mentioned in the JD.
Calculate Overall Suitability Percentage: Estimate the percentage match between the candidate's profile and the job requirements, weighting skills, experience, and education by the priorities indicated in the JD.`

func buildMatchingPrompt(cvText, jdText string) string {
	var sb strings.Builder
	sb.WriteString(matchingInstructions)
	sb.WriteString("\n\nCV:\n")
	sb.WriteString(cvText)
	sb.WriteString("\n\nJD:\n")
	sb.WriteString(jdText)
	return sb.String()
}
