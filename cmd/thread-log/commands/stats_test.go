package commands

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/mash-protocol/mash-thread/pkg/log"
)

func TestStatsCountsByLayerAndCategory(t *testing.T) {
	ts := time.Date(2026, 1, 28, 10, 0, 0, 0, time.UTC)
	events := []log.Event{
		{Timestamp: ts, Layer: log.LayerNative, Category: log.CategoryRole, Role: &log.RoleEvent{NewRole: "CHILD"}},
		{Timestamp: ts, Layer: log.LayerManager, Category: log.CategoryConnectivity, Connectivity: &log.ConnectivityEvent{}},
		{Timestamp: ts, Layer: log.LayerDiscovery, Category: log.CategoryService, Service: &log.ServiceEvent{Op: log.ServiceOpPublish}},
		{Timestamp: ts, Layer: log.LayerManager, Category: log.CategoryError, Error: &log.ErrorEventData{Message: "boom"}},
	}

	path := createTestLogFile(t, events)

	var buf bytes.Buffer
	if err := RunStats(path, &buf); err != nil {
		t.Fatalf("RunStats failed: %v", err)
	}
	output := buf.String()

	for _, want := range []string{
		"Total Events: 4",
		"NATIVE:", "MANAGER:", "DISCOVERY:",
		"ROLE:", "CONNECTIVITY:", "SERVICE:", "ERROR:",
		"Role Changes: 1",
		"Errors: 1",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output, got:\n%s", want, output)
		}
	}
	if strings.Contains(output, "PROVISIONING:") {
		t.Errorf("expected empty categories omitted, got:\n%s", output)
	}
}

func TestStatsTracksAttempts(t *testing.T) {
	base := time.Date(2026, 1, 28, 10, 0, 0, 0, time.UTC)
	events := []log.Event{
		{Timestamp: base, AttemptID: "aaaaaaaa-1111", Layer: log.LayerManager, Category: log.CategoryAttach,
			Attach: &log.AttachEvent{Phase: log.AttachPhaseStarted}},
		{Timestamp: base.Add(10 * time.Millisecond), AttemptID: "aaaaaaaa-1111", Layer: log.LayerManager, Category: log.CategoryAttach,
			DeviceID: "0011223344556677", Attach: &log.AttachEvent{Phase: log.AttachPhaseReported, Status: "SUCCESS"}},
		{Timestamp: base.Add(time.Second), AttemptID: "bbbbbbbb-2222", Layer: log.LayerManager, Category: log.CategoryAttach,
			Attach: &log.AttachEvent{Phase: log.AttachPhaseSuperseded}},
		{Timestamp: base.Add(2 * time.Second), Layer: log.LayerNative, Category: log.CategoryRole, Role: &log.RoleEvent{NewRole: "DETACHED"}},
	}

	path := createTestLogFile(t, events)

	var buf bytes.Buffer
	if err := RunStats(path, &buf); err != nil {
		t.Fatalf("RunStats failed: %v", err)
	}
	output := buf.String()

	for _, want := range []string{
		"Attach Attempts: 2",
		"[aaaaaaaa] 2 events, duration 10ms",
		"Device: 0011223344556677",
		"Phase: REPORTED (SUCCESS)",
		"[bbbbbbbb] 1 events",
		"Phase: SUPERSEDED",
		"Duration:   2s",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output, got:\n%s", want, output)
		}
	}

	// Attempts are listed in order of first appearance.
	if strings.Index(output, "[aaaaaaaa]") > strings.Index(output, "[bbbbbbbb]") {
		t.Errorf("expected attempts sorted by first seen, got:\n%s", output)
	}
}

func TestStatsEmptyFile(t *testing.T) {
	path := createTestLogFile(t, nil)

	var buf bytes.Buffer
	if err := RunStats(path, &buf); err != nil {
		t.Fatalf("RunStats failed: %v", err)
	}
	output := buf.String()

	if !strings.Contains(output, "Total Events: 0") {
		t.Errorf("expected zero events, got:\n%s", output)
	}
	if strings.Contains(output, "Time Range") {
		t.Errorf("expected no time range for empty file, got:\n%s", output)
	}
}
