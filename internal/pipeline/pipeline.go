// Package pipeline orchestrates document ingestion: persist the source,
// obtain its text, run the extraction prompt, and store the shaped record.
package pipeline

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mineworks/paperminer/internal/extract"
	"github.com/mineworks/paperminer/internal/fault"
	"github.com/mineworks/paperminer/internal/llmjson"
	"github.com/mineworks/paperminer/internal/model"
	"github.com/mineworks/paperminer/internal/prompt"
	"github.com/mineworks/paperminer/internal/store"
	"github.com/mineworks/paperminer/internal/webpage"
)

// LLM produces a free-text completion for an analysis prompt.
type LLM interface {
	Complete(ctx context.Context, prompt string) (string, error)
	// Model identifies the backing model for report attribution.
	Model() string
}

// WebFetcher downloads a page's title and readable text.
type WebFetcher interface {
	Fetch(ctx context.Context, url string) (*webpage.Page, error)
}

// Pipeline runs the three ingestion paths and serves stored records.
type Pipeline struct {
	store     store.Store
	llm       LLM
	extractor extract.Extractor
	fetcher   WebFetcher
	papersDir string
}

// New creates a Pipeline.
func New(st store.Store, llm LLM, ex extract.Extractor, fetcher WebFetcher, papersDir string) *Pipeline {
	return &Pipeline{
		store:     st,
		llm:       llm,
		extractor: ex,
		fetcher:   fetcher,
		papersDir: papersDir,
	}
}

// Model returns the attribution name of the backing model.
func (p *Pipeline) Model() string {
	return p.llm.Model()
}

// FromPDF ingests an uploaded PDF. The file is persisted under the papers
// directory before extraction, so a later failure never loses the upload.
func (p *Pipeline) FromPDF(ctx context.Context, filename string, content io.Reader, mode model.Mode) (*model.AnalysisRecord, error) {
	if !mode.Valid() {
		return nil, fault.Errorf(fault.Validation, "invalid analysis mode %q", mode)
	}
	if mode == model.ModeWeb {
		return nil, fault.New(fault.Validation, "web mode requires a URL, not a PDF upload")
	}
	if !strings.EqualFold(filepath.Ext(filename), ".pdf") {
		return nil, fault.New(fault.Validation, "only PDF files are accepted")
	}

	id := uuid.NewString()
	pdfPath, err := p.savePDF(id, filename, content)
	if err != nil {
		return nil, err
	}

	text, err := p.extractor.ExtractText(ctx, pdfPath)
	if err != nil {
		return nil, fault.Wrap(fault.Internal, err, "pipeline: extract text")
	}
	if strings.TrimSpace(text) == "" {
		return nil, fault.New(fault.Validation, "no extractable text in PDF")
	}

	fields, err := p.analyze(ctx, mode, text)
	if err != nil {
		return nil, err
	}

	// The extracted paper title becomes the record title, so reports and
	// export filenames use it instead of the uploaded filename.
	var title string
	if mode == model.ModeScientificPaper {
		if t := fields["title"]; t != model.MissingFieldValue {
			title = t
		}
	}

	rec := &model.AnalysisRecord{
		ID:        id,
		Mode:      mode,
		Title:     title,
		Filename:  filename,
		PDFPath:   pdfPath,
		Fields:    fields,
		CreatedAt: time.Now().UTC(),
	}
	if err := p.store.Insert(ctx, rec); err != nil {
		return nil, fault.Wrap(fault.Internal, err, "pipeline: insert record")
	}

	zap.L().Info("pdf analyzed",
		zap.String("id", rec.ID),
		zap.String("mode", string(mode)),
		zap.String("filename", filename),
	)
	return rec, nil
}

// FromText ingests pasted text. Only the legal document mode accepts raw
// text input.
func (p *Pipeline) FromText(ctx context.Context, text string, mode model.Mode) (*model.AnalysisRecord, error) {
	if mode != model.ModeLegalDocument {
		return nil, fault.Errorf(fault.Validation, "text input is not supported for mode %q", mode)
	}
	if strings.TrimSpace(text) == "" {
		return nil, fault.New(fault.Validation, "no text provided")
	}

	fields, err := p.analyze(ctx, mode, text)
	if err != nil {
		return nil, err
	}

	rec := &model.AnalysisRecord{
		ID:         uuid.NewString(),
		Mode:       mode,
		SourceText: text,
		Fields:     fields,
		CreatedAt:  time.Now().UTC(),
	}
	if err := p.store.Insert(ctx, rec); err != nil {
		return nil, fault.Wrap(fault.Internal, err, "pipeline: insert record")
	}

	zap.L().Info("text analyzed", zap.String("id", rec.ID), zap.String("mode", string(mode)))
	return rec, nil
}

// FromWeb ingests a public web page in web mode.
func (p *Pipeline) FromWeb(ctx context.Context, pageURL string) (*model.AnalysisRecord, error) {
	if !strings.HasPrefix(pageURL, "http://") && !strings.HasPrefix(pageURL, "https://") {
		return nil, fault.New(fault.Validation, "URL must start with http:// or https://")
	}

	page, err := p.fetcher.Fetch(ctx, pageURL)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(page.Text) == "" {
		return nil, fault.New(fault.Validation, "no readable text on page")
	}

	fields, err := p.analyze(ctx, model.ModeWeb, page.Text)
	if err != nil {
		return nil, err
	}

	rec := &model.AnalysisRecord{
		ID:        uuid.NewString(),
		Mode:      model.ModeWeb,
		Title:     page.Title,
		SourceURL: pageURL,
		Fields:    fields,
		CreatedAt: time.Now().UTC(),
	}
	if err := p.store.Insert(ctx, rec); err != nil {
		return nil, fault.Wrap(fault.Internal, err, "pipeline: insert record")
	}

	zap.L().Info("web page analyzed",
		zap.String("id", rec.ID),
		zap.String("url", pageURL),
		zap.String("title", page.Title),
	)
	return rec, nil
}

// Get returns a stored record, or nil when the id is unknown.
func (p *Pipeline) Get(ctx context.Context, id string) (*model.AnalysisRecord, error) {
	return p.store.Get(ctx, id)
}

// History returns all stored records in insertion order.
func (p *Pipeline) History(ctx context.Context) ([]model.AnalysisRecord, error) {
	return p.store.List(ctx)
}

// analyze builds the mode prompt, runs the completion, and shapes the parsed
// output to the mode's closed field set. Expected keys the model omitted get
// the missing-value sentinel; unexpected keys are dropped.
func (p *Pipeline) analyze(ctx context.Context, mode model.Mode, text string) (map[string]string, error) {
	promptText, err := prompt.Build(mode, text)
	if err != nil {
		return nil, fault.Wrap(fault.Internal, err, "pipeline: build prompt")
	}

	raw, err := p.llm.Complete(ctx, promptText)
	if err != nil {
		return nil, err
	}

	parsed, err := llmjson.Parse(raw)
	if err != nil {
		return nil, err
	}

	keys := mode.FieldKeys()
	fields := make(map[string]string, len(keys))
	for _, key := range keys {
		if v, ok := parsed[key]; ok && strings.TrimSpace(v) != "" {
			fields[key] = v
			continue
		}
		fields[key] = model.MissingFieldValue
	}
	return fields, nil
}

// savePDF writes the upload to <papersDir>/<id>_<filename>.
func (p *Pipeline) savePDF(id, filename string, content io.Reader) (string, error) {
	if err := os.MkdirAll(p.papersDir, 0o755); err != nil {
		return "", fault.Wrap(fault.Internal, err, "pipeline: create papers dir")
	}

	pdfPath := filepath.Join(p.papersDir, id+"_"+filepath.Base(filename))
	f, err := os.Create(pdfPath)
	if err != nil {
		return "", fault.Wrap(fault.Internal, err, "pipeline: create file")
	}
	defer f.Close()

	if _, err := io.Copy(f, content); err != nil {
		return "", fault.Wrap(fault.Internal, err, "pipeline: write file")
	}
	return pdfPath, nil
}
