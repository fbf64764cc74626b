// Package debug provides instrumentation for inspecting a check run.
package debug

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/m4ce/sensu-plugins-disk-usage/pkg/inventory"
)

var (
	debugTitle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	debugHeader = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Background(lipgloss.Color("62")).Padding(0, 1)
	debugDim    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// CallTiming records the duration of one provider call.
type CallTiming struct {
	Call     string
	Target   string
	Duration time.Duration
}

// TimedProvider wraps an inventory.Provider to record call durations.
type TimedProvider struct {
	inner   inventory.Provider
	Timings []CallTiming
}

// NewTimedProvider wraps a provider with timing instrumentation.
func NewTimedProvider(p inventory.Provider) *TimedProvider {
	return &TimedProvider{
		inner: p,
	}
}

// ListMounts runs the wrapped call and records its duration.
func (t *TimedProvider) ListMounts(ctx context.Context) ([]inventory.Mount, error) {
	start := time.Now()
	mounts, err := t.inner.ListMounts(ctx)
	t.Timings = append(t.Timings, CallTiming{Call: "list", Duration: time.Since(start)})
	return mounts, err
}

// Stat runs the wrapped call and records its duration.
func (t *TimedProvider) Stat(ctx context.Context, mountPoint string) (inventory.Usage, error) {
	start := time.Now()
	usage, err := t.inner.Stat(ctx, mountPoint)
	t.Timings = append(t.Timings, CallTiming{Call: "stat", Target: mountPoint, Duration: time.Since(start)})
	return usage, err
}

// TimingReport prints a styled timing summary of the recorded calls.
func TimingReport(w io.Writer, timings []CallTiming) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, debugTitle.Render("Inventory Timing Report"))
	fmt.Fprintln(w, debugDim.Render(strings.Repeat("═", 50)))
	fmt.Fprintf(w, "  %s  %s\n",
		debugHeader.Render("CALL                          "),
		debugHeader.Render("DURATION    "))
	fmt.Fprintln(w, "  "+debugDim.Render(strings.Repeat("─", 50)))

	var total time.Duration
	for _, t := range timings {
		label := t.Call
		if t.Target != "" {
			label += " " + t.Target
		}
		fmt.Fprintf(w, "  %-30s %v\n", label, t.Duration)
		total += t.Duration
	}
	fmt.Fprintln(w, "  "+debugDim.Render(strings.Repeat("─", 50)))
	fmt.Fprintf(w, "  %-30s %v\n",
		lipgloss.NewStyle().Bold(true).Render("TOTAL"), total)
}
