package view

import (
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"strconv"
	"strings"
)

// Format selects how a Renderer writes the list.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatHTML Format = "html"
)

// ParseFormat converts a flag value into a Format.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatText, FormatJSON, FormatHTML:
		return f, nil
	}
	return "", fmt.Errorf("unknown output format %q (want text, json or html)", s)
}

const notAvailable = "N/A"

// Renderer writes view items in one output format.
type Renderer struct {
	format  Format
	trigger string
}

// NewRenderer returns a Renderer. trigger is the command shown next to each
// item to load its commit activity, e.g. "top-repos activity".
func NewRenderer(format Format, trigger string) *Renderer {
	return &Renderer{format: format, trigger: trigger}
}

// Render writes all items.
func (r *Renderer) Render(w io.Writer, items []Item) error {
	switch r.format {
	case FormatJSON:
		if items == nil {
			items = []Item{}
		}
		return writeJSON(w, items)
	case FormatHTML:
		return listTemplate.Execute(w, items)
	default:
		for _, item := range items {
			if err := r.writeText(w, item); err != nil {
				return err
			}
		}
		return nil
	}
}

// RenderItem writes a single item.
func (r *Renderer) RenderItem(w io.Writer, item Item) error {
	switch r.format {
	case FormatJSON:
		return writeJSON(w, item)
	case FormatHTML:
		return listTemplate.ExecuteTemplate(w, "item", item)
	default:
		return r.writeText(w, item)
	}
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to marshal results to JSON: %w", err)
	}
	return nil
}

func (r *Renderer) writeText(w io.Writer, item Item) error {
	s := item.Summary
	var b strings.Builder
	fmt.Fprintf(&b, "[%d] %s\n", item.Position, s.Repo)
	fmt.Fprintf(&b, "    Owner: %s\n", s.Owner)
	fmt.Fprintf(&b, "    Current position: %d\n", s.PositionCur)
	fmt.Fprintf(&b, "    Previous position: %s\n", intOrNA(s.PositionPrev))
	fmt.Fprintf(&b, "    Stars: %d\n", s.Stars)
	fmt.Fprintf(&b, "    Watchers: %d\n", s.Watchers)
	fmt.Fprintf(&b, "    Forks: %d\n", s.Forks)
	fmt.Fprintf(&b, "    Open Issues: %d\n", s.OpenIssues)
	fmt.Fprintf(&b, "    Language: %s\n", stringOrNA(s.Language))
	if r.trigger != "" {
		fmt.Fprintf(&b, "    View Commit Activity: %s %s\n", r.trigger, s.Repo)
	}
	for _, block := range item.Activity {
		fmt.Fprintf(&b, "    Commit activity %s .. %s:\n", block.Since, block.Until)
		for _, e := range block.Entries {
			fmt.Fprintf(&b, "      Date: %s\n", e.Date)
			fmt.Fprintf(&b, "        Commits: %d\n", e.Commits)
			fmt.Fprintf(&b, "        Authors: %s\n", strings.Join(e.Authors, ", "))
		}
		if sum := block.Summary; sum != nil && sum.Days > 0 {
			fmt.Fprintf(&b, "      Total: %d commits by %d authors over %d days (mean %.2f, median %.2f per day, busiest %s with %d)\n",
				sum.TotalCommits, len(sum.Authors), sum.Days, sum.MeanPerDay, sum.MedianPerDay, sum.BusiestDate, sum.BusiestCommits)
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func intOrNA(v *int) string {
	if v == nil {
		return notAvailable
	}
	return strconv.Itoa(*v)
}

func stringOrNA(v *string) string {
	if v == nil || *v == "" {
		return notAvailable
	}
	return *v
}

var listTemplate = template.Must(template.New("list").Funcs(template.FuncMap{
	"intOrNA":    intOrNA,
	"stringOrNA": stringOrNA,
	"join":       strings.Join,
}).Parse(`<div id="repoList">
{{range .}}{{template "item" .}}{{end}}</div>
{{define "item"}}<div class="repo-item" data-repo="{{.Summary.Repo}}">
  <h3>{{.Summary.Repo}}</h3>
  <p>Owner: {{.Summary.Owner}}</p>
  <p>Current position: {{.Summary.PositionCur}}</p>
  <p>Previous position: {{intOrNA .Summary.PositionPrev}}</p>
  <p>Stars: {{.Summary.Stars}}</p>
  <p>Watchers: {{.Summary.Watchers}}</p>
  <p>Forks: {{.Summary.Forks}}</p>
  <p>Open Issues: {{.Summary.OpenIssues}}</p>
  <p>Language: {{stringOrNA .Summary.Language}}</p>
  <button data-repo="{{.Summary.Repo}}">View Commit Activity</button>
{{range .Activity}}  <div class="commit-activity" data-since="{{.Since}}" data-until="{{.Until}}">
{{range .Entries}}    <div class="activity-item">
      <h4>Date: {{.Date}}</h4>
      <p>Commits: {{.Commits}}</p>
      <p>Authors: {{join .Authors ", "}}</p>
    </div>
{{end}}  </div>
{{end}}</div>
{{end}}`))
