package sink

import (
	"encoding/json"
	"io"
	"sync"
)

// WriterSink writes events as JSON lines.
type WriterSink struct {
	enc *json.Encoder
}

// NewWriter creates a sink that encodes events to w.
func NewWriter(w io.Writer) *WriterSink {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return &WriterSink{enc: enc}
}

// Emit writes e. Write errors are dropped.
func (s *WriterSink) Emit(e Event) {
	_ = s.enc.Encode(e)
}

// Recorder keeps every event in memory.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

// Emit records e.
func (r *Recorder) Emit(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

// Events returns a copy of the recorded events in emission order.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// Reset drops all recorded events.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}
