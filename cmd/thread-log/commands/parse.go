// Package commands implements the thread-log CLI commands.
package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/mash-protocol/mash-thread/pkg/log"
)

// ParseLayerFlag parses a layer string from command-line flag (case-insensitive).
func ParseLayerFlag(s string) (log.Layer, error) {
	switch strings.ToLower(s) {
	case "native":
		return log.LayerNative, nil
	case "manager":
		return log.LayerManager, nil
	case "discovery":
		return log.LayerDiscovery, nil
	default:
		return 0, fmt.Errorf("invalid layer: %s (must be native, manager, or discovery)", s)
	}
}

// ParseCategoryFlag parses a category string from command-line flag (case-insensitive).
func ParseCategoryFlag(s string) (log.Category, error) {
	switch strings.ToLower(s) {
	case "role":
		return log.CategoryRole, nil
	case "connectivity":
		return log.CategoryConnectivity, nil
	case "provisioning":
		return log.CategoryProvisioning, nil
	case "service":
		return log.CategoryService, nil
	case "attach":
		return log.CategoryAttach, nil
	case "error":
		return log.CategoryError, nil
	default:
		return 0, fmt.Errorf("invalid category: %s (must be role, connectivity, provisioning, service, attach, or error)", s)
	}
}

// FilterOptions are the textual filter flags shared by view and filter.
type FilterOptions struct {
	AttemptID string
	DeviceID  string
	TimeStart string
	TimeEnd   string
	Layer     string
	Category  string
}

// Build converts the options into a log.Filter.
func (o FilterOptions) Build() (log.Filter, error) {
	filter := log.Filter{
		AttemptID: o.AttemptID,
		DeviceID:  o.DeviceID,
	}

	if o.TimeStart != "" {
		t, err := time.Parse(time.RFC3339, o.TimeStart)
		if err != nil {
			return filter, fmt.Errorf("invalid time-start format: %w", err)
		}
		filter.TimeStart = &t
	}
	if o.TimeEnd != "" {
		t, err := time.Parse(time.RFC3339, o.TimeEnd)
		if err != nil {
			return filter, fmt.Errorf("invalid time-end format: %w", err)
		}
		filter.TimeEnd = &t
	}
	if o.Layer != "" {
		l, err := ParseLayerFlag(o.Layer)
		if err != nil {
			return filter, err
		}
		filter.Layer = &l
	}
	if o.Category != "" {
		c, err := ParseCategoryFlag(o.Category)
		if err != nil {
			return filter, err
		}
		filter.Category = &c
	}
	return filter, nil
}
