// Package report renders a binder's full state into a single inspection-ready
// HTML document.
//
// The output is self-contained: styling is inlined and there are no external
// resource references, so the file keeps working when saved to disk and
// opened offline or printed. Rendering is a pure function of its inputs plus
// the supplied timestamp — same inputs, byte-identical output.
//
// All user-supplied fields (binder name, task titles and descriptions,
// document filenames and notes) flow through html/template, which escapes
// them for the HTML context. An uploaded file named "<script>x</script>.pdf"
// renders as literal text.
package report

import (
	"bytes"
	"fmt"
	"html/template"
	"sort"
	"time"

	"github.com/sakif/compliance-binder/internal/model"
	"github.com/sakif/compliance-binder/internal/stats"
	"github.com/sakif/compliance-binder/internal/status"
)

const reportTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Inspection Report — {{.Binder.Name}}</title>
<style>
body{font-family:Arial,sans-serif;margin:24px;color:#222}
h1{margin-bottom:0}
h2{margin-top:28px;border-bottom:1px solid #ddd;padding-bottom:4px}
.meta{color:#555;margin-top:4px}
table{width:100%;border-collapse:collapse;margin-top:12px}
td,th{border:1px solid #ddd;padding:8px;text-align:left;vertical-align:top}
th{background:#f5f5f5}
.overdue{color:#b00020;font-weight:bold}
.muted{color:#888}
.summary td{border:none;padding:4px 16px 4px 0}
</style>
</head>
<body>
<h1>{{.Binder.Name}}</h1>
<div class="meta">Industry: {{.Binder.Industry}} &middot; Generated: {{.GeneratedAt}}</div>

<h2>Summary</h2>
<table class="summary">
<tr><td>Tasks</td><td>{{.Summary.TasksTotal}}</td></tr>
<tr><td>Open</td><td>{{.Summary.TasksOpen}}</td></tr>
<tr><td>Done</td><td>{{.Summary.TasksDone}}</td></tr>
<tr><td>Overdue</td><td>{{if .Summary.TasksOverdue}}<span class="overdue">{{.Summary.TasksOverdue}}</span>{{else}}0{{end}}</td></tr>
<tr><td>Documents</td><td>{{.Summary.DocumentsTotal}}</td></tr>
<tr><td>Stored bytes</td><td>{{.Summary.StorageBytes}}</td></tr>
</table>

<h2>Tasks</h2>
{{if .Tasks}}<table>
<tr><th>Task</th><th>Due</th><th>Status</th><th>Description</th></tr>
{{range .Tasks}}<tr>
<td>{{.Title}}</td>
<td>{{if .Due}}{{.Due}}{{else}}<span class="muted">no due date</span>{{end}}</td>
<td>{{.Status}}{{if .Overdue}} <span class="overdue">OVERDUE</span>{{end}}</td>
<td>{{.Description}}</td>
</tr>
{{end}}</table>{{else}}<p class="muted">No tasks.</p>{{end}}

<h2>Documents</h2>
{{if .Documents}}<table>
<tr><th>Name</th><th>Note</th><th>Uploaded</th></tr>
{{range .Documents}}<tr>
<td>{{.Name}}</td>
<td>{{.Note}}</td>
<td>{{.Uploaded}}</td>
</tr>
{{end}}</table>{{else}}<p class="muted">No documents.</p>{{end}}
</body>
</html>
`

// Renderer holds the parsed template so it is compiled once, not per request.
type Renderer struct {
	tmpl *template.Template
}

// New parses the report template. The template is a compile-time constant, so
// an error here is a programming mistake, not a runtime condition.
func New() (*Renderer, error) {
	tmpl, err := template.New("report").Parse(reportTemplate)
	if err != nil {
		return nil, fmt.Errorf("report: parsing template: %w", err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

type taskRow struct {
	Title       string
	Due         string
	Status      string
	Overdue     bool
	Description string
}

type documentRow struct {
	Name     string
	Note     string
	Uploaded string
}

type reportData struct {
	Binder      *model.Binder
	GeneratedAt string
	Summary     stats.Summary
	Tasks       []taskRow
	Documents   []documentRow
}

// Render produces the inspection report for binder as of now.
//
// Tasks are sorted by due date ascending with undated tasks after all dated
// ones; ties keep their incoming (creation) order. Each row carries the
// derived status from the status engine, never the raw stored fields alone.
func (r *Renderer) Render(binder *model.Binder, tasks []model.Task, docs []model.Document, now time.Time) ([]byte, error) {
	sorted := make([]model.Task, len(tasks))
	copy(sorted, tasks)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i].DueDate, sorted[j].DueDate
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.Before(*b)
		}
	})

	data := reportData{
		Binder:      binder,
		GeneratedAt: now.UTC().Format("2006-01-02 15:04 UTC"),
		Summary:     stats.Aggregate(tasks, docs, now),
		Tasks:       make([]taskRow, 0, len(sorted)),
		Documents:   make([]documentRow, 0, len(docs)),
	}

	for i := range sorted {
		t := &sorted[i]
		obs := status.Derive(t, now)
		row := taskRow{
			Title:       t.Title,
			Status:      string(obs.Status),
			Overdue:     obs.Overdue,
			Description: t.Description,
		}
		if t.DueDate != nil {
			row.Due = t.DueDate.String()
		}
		data.Tasks = append(data.Tasks, row)
	}

	for i := range docs {
		d := &docs[i]
		data.Documents = append(data.Documents, documentRow{
			Name:     d.OriginalName,
			Note:     d.Note,
			Uploaded: d.UploadedAt.UTC().Format("2006-01-02"),
		})
	}

	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("report: rendering binder %s: %w", binder.ID, err)
	}
	return buf.Bytes(), nil
}
