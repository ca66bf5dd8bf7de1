package model

import (
	"github.com/mineworks/paperminer/internal/fault"
)

// Mode selects which fields a record carries, which prompt is built for it,
// and how it renders in history, detail, and report views.
type Mode string

const (
	ModeScientificPaper Mode = "scientific_paper"
	ModeDocument        Mode = "document"
	ModeLegalDocument   Mode = "legal_document"
	ModeWeb             Mode = "web"
)

// MissingFieldValue is substituted for any expected field absent from a
// parsed model response. Downstream views assume every expected key exists,
// so fields are never null or omitted.
const MissingFieldValue = "Not Found"

// FieldSpec describes one extraction field of a mode.
type FieldSpec struct {
	// Key is the JSON key in prompts, parsed responses, and stored records.
	Key string
	// Heading is the display heading used by the report renderer.
	Heading string
	// Instruction is the fixed natural-language extraction instruction.
	Instruction string
}

// ModeSpec is the per-mode dispatch entry consumed by the prompt builder,
// ingestion pipeline, history/detail shaping, and report renderer.
type ModeSpec struct {
	// Noun names the analyzed content in the prompt preamble.
	Noun string
	// PromptLabel heads the text block at the end of the prompt.
	PromptLabel string
	// PromptHint is an optional extra preamble sentence.
	PromptHint string
	// Fields is the closed, ordered field set for the mode.
	Fields []FieldSpec
	// DefaultTitle is used when a record has neither a title nor a filename.
	DefaultTitle string
	// SummaryKeys selects which values appear in the history listing.
	// Besides field keys, the virtual keys "title" and "url" resolve to the
	// record's title and source URL.
	SummaryKeys []string
}

var modeSpecs = map[Mode]ModeSpec{
	ModeScientificPaper: {
		Noun:         "research paper",
		PromptLabel:  "Paper Text",
		PromptHint:   `If a field is not found, use "Unknown" or "Not Found" as the value.`,
		DefaultTitle: "Scientific Paper Summary",
		SummaryKeys:  []string{"title", "authors", "affiliated_institute", "version"},
		Fields: []FieldSpec{
			{Key: "title", Heading: "Title", Instruction: "Title of the paper"},
			{Key: "authors", Heading: "Authors", Instruction: "Comma-separated list of authors"},
			{Key: "affiliated_institute", Heading: "Affiliated Institute", Instruction: "Affiliated institute or organization"},
			{Key: "version", Heading: "Version", Instruction: "Version or publication date (e.g., v1, June 2023)"},
			{Key: "novelty", Heading: "Novelty", Instruction: "Summarize its novelty in a concise and scientific manner, citing specific parts of the text if possible."},
			{Key: "contributions", Heading: "Contributions", Instruction: "Summarize its main contributions in a concise and scientific manner, citing specific parts of the text if possible."},
			{Key: "results", Heading: "Results", Instruction: "Summarize the justified results mentioned in the paper, explaining how they support the claims, citing specific parts of the text if possible."},
			{Key: "limitations", Heading: "Limitations", Instruction: "Identify the limitations and trade-offs of the method/approach mentioned in the paper, citing specific parts of the text if possible."},
		},
	},
	ModeDocument: {
		Noun:         "document",
		PromptLabel:  "Document Text",
		PromptHint:   `If a field is not found, use "Unknown" or "Not Found" as the value.`,
		DefaultTitle: "Document Summary",
		SummaryKeys:  []string{"summary"},
		Fields: []FieldSpec{
			{Key: "important_insights", Heading: "Important Insights", Instruction: "Summarize the most important insights or key takeaways from the document."},
			{Key: "summary", Heading: "Summary", Instruction: "Provide a concise summary of the entire document."},
		},
	},
	ModeLegalDocument: {
		Noun:         "legal document",
		PromptLabel:  "Document Text",
		DefaultTitle: "Legal Document Summary",
		SummaryKeys:  []string{"benefits", "traps", "advisability"},
		Fields: []FieldSpec{
			{Key: "benefits", Heading: "Benefits", Instruction: "What are the benefits that the user is getting?"},
			{Key: "traps", Heading: "Traps", Instruction: "What are the traps imposed by the provider?"},
			{Key: "advisability", Heading: "Advisability", Instruction: "Is it advisable to sign it? (Yes/No/Maybe with a brief explanation)"},
		},
	},
	ModeWeb: {
		Noun:         "web page",
		PromptLabel:  "Web Page Text",
		DefaultTitle: "Web Page Summary",
		SummaryKeys:  []string{"title", "url", "takeaways"},
		Fields: []FieldSpec{
			{Key: "summary", Heading: "Summary", Instruction: "Provide a detailed, analytical summary of the web page content."},
			{Key: "takeaways", Heading: "Takeaways", Instruction: "List the key takeaways or insights from the text. If there are none, state 'No specific takeaways found'."},
		},
	},
}

// Spec returns the dispatch entry for the mode.
func (m Mode) Spec() (ModeSpec, bool) {
	s, ok := modeSpecs[m]
	return s, ok
}

// Valid reports whether the mode is one of the closed set.
func (m Mode) Valid() bool {
	_, ok := modeSpecs[m]
	return ok
}

// FieldKeys returns the ordered field keys for the mode. Nil for unknown modes.
func (m Mode) FieldKeys() []string {
	s, ok := modeSpecs[m]
	if !ok {
		return nil
	}
	keys := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		keys[i] = f.Key
	}
	return keys
}

// ParseMode validates a client-supplied mode string. An empty string resolves
// to fallback; anything outside the closed set is a validation failure.
func ParseMode(raw string, fallback Mode) (Mode, error) {
	if raw == "" {
		return fallback, nil
	}
	m := Mode(raw)
	if !m.Valid() {
		return "", fault.Errorf(fault.Validation, "invalid analysis mode %q", raw)
	}
	return m, nil
}
