package commands

import (
	"fmt"
	"io"

	"github.com/mash-protocol/mash-thread/pkg/log"
)

// eventType returns a short label for the event payload.
func eventType(event log.Event) string {
	switch {
	case event.Role != nil:
		return "Role"
	case event.Connectivity != nil:
		return "Connectivity"
	case event.Provisioning != nil:
		return "Provisioning"
	case event.Service != nil:
		return "Service"
	case event.Attach != nil:
		return "Attach"
	case event.Error != nil:
		return "Error"
	default:
		return "Unknown"
	}
}

// formatEvent writes a human-readable representation of the event to w.
func formatEvent(w io.Writer, event log.Event) {
	// Header line: timestamp [attempt:id] LAYER Type
	ts := event.Timestamp.UTC().Format("2006-01-02T15:04:05.000000Z")
	fmt.Fprintf(w, "%s [attempt:%s] %s %s\n", ts, shortenID(event.AttemptID), event.Layer, eventType(event))

	switch {
	case event.Role != nil:
		formatRoleDetails(w, event.Role)
	case event.Connectivity != nil:
		fmt.Fprintf(w, "  Result: %s\n", event.Connectivity.Result)
	case event.Provisioning != nil:
		fmt.Fprintf(w, "  Provisioned: %t\n", event.Provisioning.Provisioned)
		if event.Provisioning.Size > 0 {
			fmt.Fprintf(w, "  Size: %d bytes\n", event.Provisioning.Size)
		}
	case event.Service != nil:
		formatServiceDetails(w, event.Service)
	case event.Attach != nil:
		fmt.Fprintf(w, "  Phase: %s\n", event.Attach.Phase)
		if event.Attach.Status != "" {
			fmt.Fprintf(w, "  Status: %s\n", event.Attach.Status)
		}
	case event.Error != nil:
		formatErrorDetails(w, event.Error)
	}

	fmt.Fprintln(w) // Blank line between events
}

// shortenID returns the first 8 characters of an attempt ID, or "-".
func shortenID(id string) string {
	if id == "" {
		return "-"
	}
	if len(id) >= 8 {
		return id[:8]
	}
	return id
}

func formatRoleDetails(w io.Writer, role *log.RoleEvent) {
	if role.OldRole != "" {
		fmt.Fprintf(w, "  %s -> %s\n", role.OldRole, role.NewRole)
	} else {
		fmt.Fprintf(w, "  -> %s\n", role.NewRole)
	}
	fmt.Fprintf(w, "  Attached: %t\n", role.Attached)
	if role.SoftFailures > 0 {
		fmt.Fprintf(w, "  Soft failures: %d\n", role.SoftFailures)
	}
}

func formatServiceDetails(w io.Writer, svc *log.ServiceEvent) {
	fmt.Fprintf(w, "  Op: %s\n", svc.Op)
	if svc.InstanceName != "" {
		fmt.Fprintf(w, "  Service: %s.%s", svc.InstanceName, svc.ServiceName)
		if svc.Port != 0 {
			fmt.Fprintf(w, " port %d", svc.Port)
		}
		fmt.Fprintln(w)
	}
	if svc.Count > 1 || svc.Op == log.ServiceOpInvalidate || svc.Op == log.ServiceOpPrune {
		fmt.Fprintf(w, "  Count: %d\n", svc.Count)
	}
}

// formatErrorDetails writes error details.
func formatErrorDetails(w io.Writer, err *log.ErrorEventData) {
	fmt.Fprintf(w, "  Layer: %s\n", err.Layer)
	fmt.Fprintf(w, "  Message: %s\n", err.Message)
	if err.Code != nil {
		fmt.Fprintf(w, "  Code: %d\n", *err.Code)
	}
	if err.Context != "" {
		fmt.Fprintf(w, "  Context: %s\n", err.Context)
	}
}

// RunView executes the view command.
func RunView(path string, filter log.Filter, output io.Writer) error {
	reader, err := log.NewFilteredReader(path, filter)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		formatEvent(output, event)
	}

	return nil
}
