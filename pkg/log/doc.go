// Package log provides structured event capture for the Thread stack manager.
//
// This package defines the Logger interface and Event types for capturing
// connectivity events at each layer (native stack calls, manager state
// transitions, discovery mirroring). It is separate from operational logging
// (slog): capture provides a complete machine-readable trace of role changes,
// provisioning updates, SRP registrations and attach attempts.
//
// # Basic Usage
//
// Applications configure capture by providing a Logger implementation:
//
//	// For development: log to console via slog
//	cfg.EventLogger = log.NewSlogAdapter(slog.Default())
//
//	// For production: write to binary file
//	cfg.EventLogger, _ = log.NewFileLogger("/var/lib/thread/device.tlog")
//
//	// Both: use MultiLogger
//	cfg.EventLogger = log.NewMultiLogger(
//	    log.NewSlogAdapter(slog.Default()),
//	    fileLogger,
//	)
//
// # Event Types
//
// Events carry one payload:
//   - Role: native role notifications (RoleEvent)
//   - Connectivity: attach/detach edges (ConnectivityEvent)
//   - Provisioning: dataset changes (ProvisioningEvent)
//   - Service: SRP registry operations (ServiceEvent)
//   - Attach: attach attempt phases (AttachEvent)
//
// Errors at any layer have a dedicated payload.
//
// # File Format
//
// Capture files (.tlog) are a sequence of CBOR items, one per event, with
// no header, so a file can always be appended to. Readers skip map keys they
// do not know. The thread-log CLI tool views, filters and summarizes them.
package log
