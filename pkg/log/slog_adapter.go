package log

import (
	"context"
	"log/slog"
)

// SlogAdapter writes captured events to an slog.Logger.
// Useful for development when you want to see stack events in the console.
type SlogAdapter struct {
	logger *slog.Logger
	level  slog.Level
}

// NewSlogAdapter creates a new SlogAdapter that writes to the given slog.Logger
// at Debug level.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	return &SlogAdapter{logger: logger, level: slog.LevelDebug}
}

// WithLevel returns a copy of the adapter that logs at level.
func (a *SlogAdapter) WithLevel(level slog.Level) *SlogAdapter {
	return &SlogAdapter{logger: a.logger, level: level}
}

// Log writes the event to the slog logger.
func (a *SlogAdapter) Log(event Event) {
	attrs := []slog.Attr{
		slog.String("layer", event.Layer.String()),
		slog.String("category", event.Category.String()),
	}

	if event.AttemptID != "" {
		attrs = append(attrs, slog.String("attempt_id", event.AttemptID))
	}
	if event.DeviceID != "" {
		attrs = append(attrs, slog.String("device_id", event.DeviceID))
	}

	switch {
	case event.Role != nil:
		attrs = append(attrs,
			slog.String("old_role", event.Role.OldRole),
			slog.String("new_role", event.Role.NewRole),
			slog.Bool("attached", event.Role.Attached),
		)
		if event.Role.SoftFailures > 0 {
			attrs = append(attrs, slog.Int("soft_failures", event.Role.SoftFailures))
		}
	case event.Connectivity != nil:
		attrs = append(attrs, slog.String("connectivity", event.Connectivity.Result.String()))
	case event.Provisioning != nil:
		attrs = append(attrs,
			slog.Bool("provisioned", event.Provisioning.Provisioned),
			slog.Int("dataset_size", event.Provisioning.Size),
		)
	case event.Service != nil:
		attrs = append(attrs, slog.String("op", event.Service.Op.String()))
		if event.Service.InstanceName != "" {
			attrs = append(attrs,
				slog.String("instance", event.Service.InstanceName),
				slog.String("service", event.Service.ServiceName),
			)
		}
		if event.Service.Port != 0 {
			attrs = append(attrs, slog.Uint64("port", uint64(event.Service.Port)))
		}
		if event.Service.Count != 0 {
			attrs = append(attrs, slog.Int("count", event.Service.Count))
		}
	case event.Attach != nil:
		attrs = append(attrs, slog.String("phase", event.Attach.Phase.String()))
		if event.Attach.Status != "" {
			attrs = append(attrs, slog.String("status", event.Attach.Status))
		}
	case event.Error != nil:
		attrs = append(attrs,
			slog.String("error_layer", event.Error.Layer.String()),
			slog.String("error_msg", event.Error.Message),
			slog.String("error_context", event.Error.Context),
		)
		if event.Error.Code != nil {
			attrs = append(attrs, slog.Int("error_code", *event.Error.Code))
		}
	}

	a.logger.LogAttrs(context.Background(), a.level, "thread", attrs...)
}

// Compile-time interface satisfaction check.
var _ Logger = (*SlogAdapter)(nil)
