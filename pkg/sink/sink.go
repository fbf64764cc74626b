// Package sink delivers check events to a monitoring collector.
package sink

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/m4ce/sensu-plugins-disk-usage/pkg/check"
)

// CheckClass prefixes every event output, following the Sensu plugin convention.
const CheckClass = "CheckDiskUsage"

// Event is the record sent to the collector for one check result.
type Event struct {
	Name     string   `json:"name"`
	Status   int      `json:"status"`
	Output   string   `json:"output"`
	Handlers []string `json:"handlers"`
}

// Sink accepts events. Emit must not block the run for long and never
// reports delivery failures to the caller.
type Sink interface {
	Emit(e Event)
}

// Encode returns e as a single JSON line. Output text is not HTML-escaped.
func Encode(e Event) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(e); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// CheckName returns the event name for a metric on a mount point.
func CheckName(mountPoint string, metric check.Metric) string {
	return fmt.Sprintf("disk-usage-%s-%s", metric, strings.ReplaceAll(mountPoint, "/", "_"))
}

// Output formats a status and message the way check output is printed.
func Output(status check.Status, msg string) string {
	return fmt.Sprintf("%s %s: %s", CheckClass, status, msg)
}

// NewEvent builds an event. handlers is copied so the JSON form is always an array.
func NewEvent(name string, status check.Status, msg string, handlers []string) Event {
	hs := make([]string, len(handlers))
	copy(hs, handlers)
	return Event{
		Name:     name,
		Status:   status.ExitCode(),
		Output:   Output(status, msg),
		Handlers: hs,
	}
}

// FromVerdict builds the event for a verdict.
func FromVerdict(v check.Verdict, handlers []string) Event {
	return NewEvent(CheckName(v.MountPoint, v.Metric), v.Status, v.Message, handlers)
}

// Multi fans events out to several sinks in order.
type Multi []Sink

// Emit forwards e to every sink.
func (m Multi) Emit(e Event) {
	for _, s := range m {
		if s != nil {
			s.Emit(e)
		}
	}
}

// Discard drops every event.
type Discard struct{}

// Emit does nothing.
func (Discard) Emit(Event) {}
