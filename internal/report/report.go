// Package report renders stored analysis records as downloadable PDF
// summaries.
package report

import (
	"bytes"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/go-pdf/fpdf"
	"github.com/rotisserie/eris"
	"github.com/yuin/goldmark"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"

	"github.com/mineworks/paperminer/internal/model"
)

const (
	emptyReportBody = "No data available for this entry."
	repoURL         = "https://github.com/mineworks/paperminer"
)

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

// Renderer produces PDF reports attributed to the model that generated the
// underlying analysis.
type Renderer struct {
	modelName string
}

// New creates a Renderer.
func New(modelName string) *Renderer {
	return &Renderer{modelName: modelName}
}

// ModelName returns the attribution name stamped on reports.
func (r *Renderer) ModelName() string {
	return r.modelName
}

type section struct {
	heading string
	body    string
}

// Render produces the PDF bytes for a record.
func (r *Renderer) Render(rec *model.AnalysisRecord) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.MultiCell(0, 10, latin1(rec.DisplayTitle()), "", "C", false)
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "I", 10)
	pdf.SetTextColor(90, 90, 90)
	pdf.MultiCell(0, 6, latin1("Generated by: "+r.modelName), "", "C", false)
	pdf.Ln(1)

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(60, 120, 200)
	pdf.WriteLinkString(6, "Project Repository", repoURL)
	pdf.Ln(12)
	pdf.SetTextColor(40, 40, 40)

	html := pdf.HTMLBasicNew()
	for _, s := range sections(rec) {
		pdf.SetFont("Helvetica", "B", 13)
		pdf.MultiCell(0, 8, latin1(s.heading), "", "L", false)
		pdf.Ln(1)

		pdf.SetFont("Helvetica", "", 11)
		html.Write(5.5, latin1(markdownHTML(s.body)))
		pdf.Ln(8)
	}

	pageW, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	pdf.SetDrawColor(180, 180, 180)
	pdf.Line(left, pdf.GetY(), pageW-right, pdf.GetY())
	pdf.Ln(3)
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(90, 90, 90)
	pdf.Write(5, "Discover more at ")
	pdf.SetTextColor(60, 120, 200)
	pdf.WriteLinkString(5, repoURL, repoURL)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, eris.Wrap(err, "report: render pdf")
	}
	return buf.Bytes(), nil
}

// sections assembles the report body for a record's mode, dropping blank
// values. A record with nothing to show gets a single placeholder section.
func sections(rec *model.AnalysisRecord) []section {
	var out []section

	spec, ok := rec.Mode.Spec()
	if !ok {
		keys := make([]string, 0, len(rec.Fields))
		for k := range rec.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if v := strings.TrimSpace(rec.Fields[k]); v != "" {
				out = append(out, section{heading: headingFor(k), body: v})
			}
		}
		return withFallback(out)
	}

	if rec.Mode == model.ModeWeb && rec.SourceURL != "" {
		out = append(out, section{heading: "URL", body: rec.SourceURL})
	}
	for _, f := range spec.Fields {
		// the title field already heads the report
		if rec.Mode == model.ModeScientificPaper && f.Key == "title" {
			continue
		}
		if v := strings.TrimSpace(rec.Fields[f.Key]); v != "" {
			out = append(out, section{heading: f.Heading, body: v})
		}
	}
	return withFallback(out)
}

func withFallback(out []section) []section {
	if len(out) == 0 {
		return []section{{heading: "Summary", body: emptyReportBody}}
	}
	return out
}

func headingFor(key string) string {
	words := strings.Split(strings.ReplaceAll(key, "_", " "), " ")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

// htmlNormalizer maps goldmark output onto the tag subset fpdf's basic HTML
// writer understands.
var htmlNormalizer = strings.NewReplacer(
	"<strong>", "<b>", "</strong>", "</b>",
	"<em>", "<i>", "</em>", "</i>",
	"<p>", "", "</p>", "<br><br>",
	"<ul>", "<br>", "</ul>", "",
	"<ol>", "<br>", "</ol>", "",
	"<li>", "- ", "</li>", "<br>",
	"<h1>", "<b>", "</h1>", "</b><br>",
	"<h2>", "<b>", "</h2>", "</b><br>",
	"<h3>", "<b>", "</h3>", "</b><br>",
	"<code>", "", "</code>", "",
	"<pre>", "", "</pre>", "<br>",
	"<blockquote>", "", "</blockquote>", "<br>",
)

func markdownHTML(text string) string {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(text), &buf); err != nil {
		// fall back to the raw text
		return text
	}
	return strings.TrimSpace(htmlNormalizer.Replace(buf.String()))
}

// latin1 drops runes outside the Latin-1 range, which is all the core fpdf
// fonts can encode.
func latin1(s string) string {
	out, _, err := transform.String(runes.Remove(runes.Predicate(func(r rune) bool {
		return r > 0xFF
	})), s)
	if err != nil {
		return s
	}
	return out
}

// Filename derives a safe attachment filename from the record's display
// title.
func Filename(rec *model.AnalysisRecord) string {
	base := unsafeFilenameChars.ReplaceAllString(latin1(rec.DisplayTitle()), "_")
	if strings.Trim(base, "_.") == "" {
		base = fmt.Sprintf("%s_summary", rec.Mode)
	}
	return base + ".pdf"
}
