package model

import (
	"sort"
	"time"
)

// AnalysisRecord is the persisted unit of the document service. Records are
// created once at the end of a successful ingestion and never updated.
type AnalysisRecord struct {
	ID        string            `json:"id"`
	Mode      Mode              `json:"mode"`
	Title     string            `json:"title,omitempty"`
	Filename  string            `json:"filename,omitempty"`
	PDFPath   string            `json:"pdf_path,omitempty"`
	SourceText string           `json:"text,omitempty"`
	SourceURL string            `json:"url,omitempty"`
	Fields    map[string]string `json:"fields"`
	CreatedAt time.Time         `json:"created_at"`
}

// Field returns the value for key, resolving the virtual keys "title" and
// "url" to the record's own attributes when they are not extraction fields.
func (r *AnalysisRecord) Field(key string) string {
	if v, ok := r.Fields[key]; ok {
		return v
	}
	switch key {
	case "title":
		if r.Title != "" {
			return r.Title
		}
	case "url":
		if r.SourceURL != "" {
			return r.SourceURL
		}
	}
	return MissingFieldValue
}

// DisplayTitle derives the report title: record title, else filename, else
// the mode default.
func (r *AnalysisRecord) DisplayTitle() string {
	if r.Title != "" {
		return r.Title
	}
	if r.Filename != "" {
		return r.Filename
	}
	if spec, ok := r.Mode.Spec(); ok {
		return spec.DefaultTitle
	}
	return "Analysis Summary"
}

// Response is the client shape returned by the upload endpoints: id, mode,
// source identity, and the mode's full field set. Internal-only attributes
// (stored file path, inline source text) are omitted.
func (r *AnalysisRecord) Response() map[string]any {
	out := map[string]any{
		"id":   r.ID,
		"mode": r.Mode,
	}
	if r.Filename != "" {
		out["filename"] = r.Filename
	}
	if r.SourceURL != "" {
		out["url"] = r.SourceURL
		out["title"] = r.Title
	}
	for _, key := range r.Mode.FieldKeys() {
		out[key] = r.Field(key)
	}
	return out
}

// Detail is the full record view returned by GET /paper/{id}: the response
// shape plus the stored source reference.
func (r *AnalysisRecord) Detail() map[string]any {
	out := r.Response()
	if r.PDFPath != "" {
		out["pdf_path"] = r.PDFPath
	}
	if r.SourceText != "" {
		out["text"] = r.SourceText
	}
	return out
}

// Summary is the history listing shape: id, mode, creation time, and the
// mode's summary key subset.
func (r *AnalysisRecord) Summary() map[string]any {
	out := map[string]any{
		"id":         r.ID,
		"mode":       r.Mode,
		"created_at": r.CreatedAt,
	}
	if r.Filename != "" {
		out["filename"] = r.Filename
	}
	spec, ok := r.Mode.Spec()
	if !ok {
		// Unknown mode: dump every stored field, sorted for stability.
		keys := make([]string, 0, len(r.Fields))
		for k := range r.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			out[k] = r.Fields[k]
		}
		return out
	}
	for _, key := range spec.SummaryKeys {
		out[key] = r.Field(key)
	}
	return out
}
