package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func newJSONSlogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func TestSlogAdapterLogsRoleEvent(t *testing.T) {
	var buf bytes.Buffer
	adapter := NewSlogAdapter(newJSONSlogger(&buf))

	adapter.Log(Event{
		Timestamp: time.Now(),
		Layer:     LayerManager,
		Category:  CategoryRole,
		Role: &RoleEvent{
			OldRole:      "detached",
			NewRole:      "leader",
			Attached:     true,
			SoftFailures: 1,
		},
	})

	var logEntry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &logEntry); err != nil {
		t.Fatalf("failed to parse log output: %v", err)
	}

	if logEntry["layer"] != "MANAGER" {
		t.Errorf("layer: got %v, want %q", logEntry["layer"], "MANAGER")
	}
	if logEntry["new_role"] != "leader" {
		t.Errorf("new_role: got %v, want %q", logEntry["new_role"], "leader")
	}
	if logEntry["attached"] != true {
		t.Errorf("attached: got %v, want true", logEntry["attached"])
	}
	if logEntry["soft_failures"] != float64(1) {
		t.Errorf("soft_failures: got %v, want 1", logEntry["soft_failures"])
	}
}

func TestSlogAdapterLogsServiceEvent(t *testing.T) {
	var buf bytes.Buffer
	adapter := NewSlogAdapter(newJSONSlogger(&buf))

	adapter.Log(Event{
		Layer:    LayerManager,
		Category: CategoryService,
		Service: &ServiceEvent{
			Op:           ServiceOpAdd,
			InstanceName: "printer1",
			ServiceName:  "_ipp._tcp",
			Port:         631,
		},
	})

	var logEntry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &logEntry); err != nil {
		t.Fatalf("failed to parse log output: %v", err)
	}
	if logEntry["op"] != "ADD" {
		t.Errorf("op: got %v, want ADD", logEntry["op"])
	}
	if logEntry["port"] != float64(631) {
		t.Errorf("port: got %v, want 631", logEntry["port"])
	}
}

func TestSlogAdapterIncludesAttemptID(t *testing.T) {
	var buf bytes.Buffer
	adapter := NewSlogAdapter(newJSONSlogger(&buf))

	adapter.Log(Event{
		AttemptID: "abc12345-def6-7890",
		Category:  CategoryAttach,
		Attach:    &AttachEvent{Phase: AttachPhaseEnabling},
	})

	if !strings.Contains(buf.String(), "abc12345-def6-7890") {
		t.Error("output does not contain attempt ID")
	}
}

func TestSlogAdapterLevel(t *testing.T) {
	var buf bytes.Buffer
	slogger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))

	NewSlogAdapter(slogger).Log(Event{Category: CategoryRole, Role: &RoleEvent{NewRole: "child"}})
	if buf.Len() != 0 {
		t.Fatal("debug-level adapter must be filtered by an info handler")
	}

	NewSlogAdapter(slogger).WithLevel(slog.LevelInfo).Log(Event{Category: CategoryRole, Role: &RoleEvent{NewRole: "child"}})
	if buf.Len() == 0 {
		t.Fatal("info-level adapter produced no output")
	}
}
