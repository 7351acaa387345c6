package log

import (
	"testing"
	"time"
)

// recordingLogger records events for testing
type recordingLogger struct {
	events []Event
}

func (m *recordingLogger) Log(event Event) {
	m.events = append(m.events, event)
}

func TestMultiLoggerCallsAll(t *testing.T) {
	rec1 := &recordingLogger{}
	rec2 := &recordingLogger{}
	rec3 := &recordingLogger{}

	multi := NewMultiLogger(rec1, rec2, rec3)

	multi.Log(Event{
		Timestamp: time.Now(),
		AttemptID: "attempt-123",
		Layer:     LayerManager,
		Category:  CategoryAttach,
	})

	for i, rec := range []*recordingLogger{rec1, rec2, rec3} {
		if len(rec.events) != 1 {
			t.Errorf("logger %d: got %d events, want 1", i, len(rec.events))
			continue
		}
		if rec.events[0].AttemptID != "attempt-123" {
			t.Errorf("logger %d: AttemptID = %q, want %q", i, rec.events[0].AttemptID, "attempt-123")
		}
	}
}

func TestMultiLoggerSkipsNil(t *testing.T) {
	rec := &recordingLogger{}
	multi := NewMultiLogger(nil, rec)

	multi.Log(Event{Category: CategoryRole})

	if len(rec.events) != 1 {
		t.Fatalf("got %d events, want 1", len(rec.events))
	}
}

func TestMultiLoggerEmptyList(t *testing.T) {
	NewMultiLogger().Log(Event{Category: CategoryRole})
}

func TestNoopLoggerIsZeroValue(t *testing.T) {
	var logger NoopLogger
	logger.Log(Event{})

	var _ Logger = NoopLogger{}
	var _ Logger = (*MultiLogger)(nil)
}
