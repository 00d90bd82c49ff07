package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/pwc-dv/dvmap/internal/database"
	"github.com/pwc-dv/dvmap/internal/intercept"
	"github.com/pwc-dv/dvmap/internal/matrix"
)

// Format names an export format for the grid.
type Format string

const (
	FormatTable    Format = "table"
	FormatJSON     Format = "json"
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "markdown"
)

// Formats lists the supported export formats.
func Formats() []Format {
	return []Format{FormatTable, FormatJSON, FormatCSV, FormatMarkdown}
}

// ParseFormat parses a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatTable, FormatJSON, FormatCSV, FormatMarkdown:
		return f, nil
	case "md":
		return FormatMarkdown, nil
	default:
		return "", fmt.Errorf("unknown format %q (want table, json, csv or markdown)", s)
	}
}

// Row is one provider's line of the grid in exported form.
type Row struct {
	Provider string           `json:"provider"`
	Stages   []intercept.Code `json:"stages"`
	Assigned []bool           `json:"assigned"`
}

// GridDocument is the JSON form of the grid served by the API and written
// by the json format.
type GridDocument struct {
	Stages   []intercept.Stage     `json:"stages"`
	Rows     []Row                 `json:"rows"`
	Cells    []matrix.Cell         `json:"cells"`
	Coverage matrix.Coverage       `json:"coverage"`
	Dropped  []matrix.DroppedToken `json:"dropped"`
}

// NewGridDocument builds the exported form of a grid.
func NewGridDocument(g *matrix.Grid) GridDocument {
	doc := GridDocument{
		Stages:   g.Stages,
		Rows:     make([]Row, 0, len(g.Providers)),
		Cells:    g.Cells,
		Coverage: g.Coverage(),
		Dropped:  g.Dropped,
	}
	if doc.Dropped == nil {
		doc.Dropped = []matrix.DroppedToken{}
	}
	for _, name := range g.Providers {
		doc.Rows = append(doc.Rows, NewRow(g, name))
	}
	return doc
}

// NewRow builds the exported form of one provider's row.
func NewRow(g *matrix.Grid, provider string) Row {
	row := Row{Provider: provider, Stages: []intercept.Code{}}
	for _, c := range g.Row(provider) {
		row.Assigned = append(row.Assigned, c.Assigned)
		if c.Assigned {
			row.Stages = append(row.Stages, c.Stage)
		}
	}
	return row
}

// WriteGrid writes the grid in the requested format.
func WriteGrid(w io.Writer, g *matrix.Grid, format Format) error {
	switch format {
	case FormatTable, "":
		_, err := io.WriteString(w, RenderGrid(g))
		return err
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(NewGridDocument(g))
	case FormatCSV:
		return writeGridCSV(w, g)
	case FormatMarkdown:
		_, err := io.WriteString(w, RenderGridMarkdown(g))
		return err
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

// RenderGrid draws the grid as a terminal table, one mark per cell.
func RenderGrid(g *matrix.Grid) string {
	headers := []string{"Provider"}
	for _, s := range g.Stages {
		headers = append(headers, s.Label)
	}

	table := NewTable(headers...)
	for i := range g.Stages {
		table.SetAlign(i+1, AlignCenter)
	}
	for _, name := range g.Providers {
		cells := []string{name}
		for _, c := range g.Row(name) {
			cells = append(cells, Mark(c.Stage, c.Assigned))
		}
		table.AddRow(cells...)
	}

	if table.Len() == 0 {
		return "No providers found.\n"
	}
	return table.RenderCompact()
}

// RenderGridMarkdown draws the grid as a markdown table.
func RenderGridMarkdown(g *matrix.Grid) string {
	var sb strings.Builder

	sb.WriteString("| Provider |")
	for _, s := range g.Stages {
		sb.WriteString(" " + markdownEscape(s.Label) + " |")
	}
	sb.WriteString("\n|---|")
	for range g.Stages {
		sb.WriteString(":---:|")
	}
	sb.WriteString("\n")

	for _, name := range g.Providers {
		sb.WriteString("| " + markdownEscape(name) + " |")
		for _, c := range g.Row(name) {
			if c.Assigned {
				sb.WriteString(" x |")
			} else {
				sb.WriteString("  |")
			}
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func writeGridCSV(w io.Writer, g *matrix.Grid) error {
	writer := csv.NewWriter(w)

	header := []string{string(database.FieldProvider)}
	for _, s := range g.Stages {
		header = append(header, s.Label)
	}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, name := range g.Providers {
		record := []string{name}
		for _, c := range g.Row(name) {
			if c.Assigned {
				record = append(record, "x")
			} else {
				record = append(record, "")
			}
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// RenderCoverage draws providers per stage with a bar each, followed by
// the providers assigned to no stage.
func RenderCoverage(c matrix.Coverage, barWidth int) string {
	var sb strings.Builder

	labelWidth := 0
	for _, sc := range c.Stages {
		if w := displayWidth(sc.Stage.Label); w > labelWidth {
			labelWidth = w
		}
	}

	for _, sc := range c.Stages {
		pct := c.Percent(sc.Stage.Code)
		sb.WriteString(fmt.Sprintf("%s %s %s %s %3d\n",
			Color(string(sc.Stage.Code), StageColor(sc.Stage.Code)),
			PadRight(sc.Stage.Label, labelWidth),
			ProgressBar(pct, barWidth),
			FormatPercent(pct),
			sc.Count,
		))
	}

	sb.WriteString(fmt.Sprintf("\n%d providers", c.Total))
	if len(c.Unassigned) == 0 {
		sb.WriteString(", all assigned to at least one stage\n")
		return sb.String()
	}
	sb.WriteString(fmt.Sprintf(", %d with no stage:\n", len(c.Unassigned)))
	for _, name := range c.Unassigned {
		sb.WriteString("  " + Color("✗", Red) + " " + name + "\n")
	}
	return sb.String()
}

// RenderDetail draws a provider's descriptive fields as a two-column table.
func RenderDetail(d database.Detail, maxWidth int) string {
	table := NewTable("Field", "Value")
	for _, df := range d {
		value := df.Value
		if value == database.NotAvailable {
			value = Color(value, Dim)
		} else if maxWidth > 0 {
			value = TruncateCell(strings.Join(strings.Fields(value), " "), maxWidth)
		}
		table.AddRow(string(df.Field), value)
	}
	return table.Render()
}

// RenderStages lists the canonical stage table.
func RenderStages(stages []intercept.Stage) string {
	table := NewTable("Code", "Stage")
	for _, s := range stages {
		table.AddRow(Color(string(s.Code), StageColor(s.Code)), s.Label)
	}
	return table.RenderCompact()
}

// RenderUnknown lists the Intercept tokens that map to no stage, per
// provider.
func RenderUnknown(dropped []matrix.DroppedToken) string {
	if len(dropped) == 0 {
		return Checkmark(true) + " All intercept values map to a stage\n"
	}
	table := NewTable("Provider", "Token")
	for _, d := range dropped {
		table.AddRow(d.Provider, Color(string(d.Token), Yellow))
	}
	return table.RenderCompact()
}

func markdownEscape(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
