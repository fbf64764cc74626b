// Package output provides formatters for displaying check results.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/m4ce/sensu-plugins-disk-usage/pkg/check"
	"github.com/m4ce/sensu-plugins-disk-usage/pkg/runner"
	"github.com/m4ce/sensu-plugins-disk-usage/pkg/sink"
)

// Format represents the output format type.
type Format string

const (
	FormatSensu Format = "sensu"
	FormatTable Format = "table"
	FormatJSON  Format = "json"
)

// Formatter renders the outcome of a run. It also acts as a sink so the
// table and JSON formats can list every event.
type Formatter struct {
	format Format
	writer io.Writer
	events []sink.Event
}

// NewFormatter creates a new formatter.
func NewFormatter(format Format, writer io.Writer) *Formatter {
	return &Formatter{
		format: format,
		writer: writer,
	}
}

// Emit records e for rendering. The sensu format ignores events.
func (f *Formatter) Emit(e sink.Event) {
	if f.format == FormatSensu {
		return
	}
	f.events = append(f.events, e)
}

// Render outputs the result in the configured format.
func (f *Formatter) Render(res runner.Result) error {
	switch f.format {
	case FormatJSON:
		return f.renderJSON(res)
	case FormatTable:
		return f.renderTable(res)
	default:
		_, err := fmt.Fprintln(f.writer, sink.Output(res.Status, res.Message))
		return err
	}
}

func (f *Formatter) renderJSON(res runner.Result) error {
	events := f.events
	if events == nil {
		events = []sink.Event{}
	}
	output := struct {
		Status string        `json:"status"`
		Code   int           `json:"code"`
		Result runner.Result `json:"result"`
		Events []sink.Event  `json:"events"`
	}{
		Status: res.Status.String(),
		Code:   res.Status.ExitCode(),
		Result: res,
		Events: events,
	}

	enc := json.NewEncoder(f.writer)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(output)
}

var statusStyles = map[check.Status]lipgloss.Style{
	check.StatusOK:       lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true), // Green
	check.StatusWarning:  lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true), // Yellow
	check.StatusCritical: lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),  // Red
	check.StatusUnknown:  lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Bold(true),  // Gray
}

func (f *Formatter) renderTable(res runner.Result) error {
	headerStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("15")).
		Background(lipgloss.Color("62")).
		Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("12")).
		MarginBottom(1)

	fmt.Fprintln(f.writer, titleStyle.Render("Disk Usage Check"))
	fmt.Fprintln(f.writer, strings.Repeat("═", 60))
	fmt.Fprintln(f.writer)

	rows := make([][]string, len(f.events))
	for i, e := range f.events {
		status := check.Status(e.Status)
		rows[i] = []string{
			e.Name,
			statusStyles[status].Render(status.String()),
			strings.TrimPrefix(e.Output, sink.Output(status, "")),
		}
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("240"))).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers("CHECK", "STATUS", "DETAIL").
		Rows(rows...)

	fmt.Fprintln(f.writer, t)
	fmt.Fprintln(f.writer)
	f.renderSummary(res)
	return nil
}

// renderSummary outputs the aggregate line.
func (f *Formatter) renderSummary(res runner.Result) {
	counts := map[check.Status]int{}
	for _, e := range f.events {
		counts[check.Status(e.Status)]++
	}

	parts := []string{}
	for _, s := range []check.Status{check.StatusCritical, check.StatusWarning, check.StatusUnknown} {
		if counts[s] > 0 {
			parts = append(parts, statusStyles[s].Render(fmt.Sprintf("%d %s", counts[s], strings.ToLower(s.String()))))
		}
	}
	if len(parts) > 0 {
		fmt.Fprintf(f.writer, "Checks: %s\n", strings.Join(parts, ", "))
	}

	fmt.Fprintf(f.writer, "%s %s\n", statusStyles[res.Status].Render(res.Status.String()), res.Message)
}
