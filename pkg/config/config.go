// Package config loads the thread-device configuration file.
//
// The file is YAML. Every field is optional; missing fields keep the values
// from Default.
//
//	thread:
//	  enabled: true
//	  state_path: /var/lib/mash-thread/state.json
//	  dataset: 0e080000000000010000000300000f...
//	  device_type: minimal-end-device
//	  attach_delay: 500ms
//	srp:
//	  enabled: true
//	  host_name: lamp-1
//	  services:
//	    - instance: lamp-1
//	      name: _matter._udp
//	      port: 5540
//	      txt: {SII: "5000"}
//	mdns:
//	  enabled: true
//	  interface: eth0
//	  ttl: 2m
//	log:
//	  level: debug
//	  capture: /tmp/thread.tlog
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/mash-protocol/mash-thread/pkg/dataset"
	"github.com/mash-protocol/mash-thread/pkg/discovery"
	"github.com/mash-protocol/mash-thread/pkg/thread"
)

// Config is the device configuration.
type Config struct {
	Thread ThreadConfig `yaml:"thread"`
	SRP    SRPConfig    `yaml:"srp"`
	MDNS   MDNSConfig   `yaml:"mdns"`
	Log    LogConfig    `yaml:"log"`
}

// ThreadConfig configures the Thread interface.
type ThreadConfig struct {
	// Enabled attaches on startup when a dataset is available.
	Enabled bool `yaml:"enabled"`

	// StatePath is the JSON file holding the stack's non-volatile settings.
	// Empty keeps settings in memory only.
	StatePath string `yaml:"state_path"`

	// Dataset is the active operational dataset in hex. It overrides the
	// stored dataset.
	Dataset string `yaml:"dataset"`

	// DeviceType is a device type label, e.g. "router".
	DeviceType string `yaml:"device_type"`

	// AttachDelay is how long the simulated node takes to attach.
	AttachDelay time.Duration `yaml:"attach_delay"`
}

// SRPConfig configures SRP service registration.
type SRPConfig struct {
	// Enabled toggles the SRP client and server with the device role.
	Enabled bool `yaml:"enabled"`

	// HostName is registered once the device attaches.
	HostName string `yaml:"host_name"`

	// Services are registered once the device attaches.
	Services []ServiceConfig `yaml:"services,omitempty"`
}

// ServiceConfig is one SRP service.
type ServiceConfig struct {
	Instance string            `yaml:"instance"`
	Name     string            `yaml:"name"`
	Port     uint16            `yaml:"port"`
	Subtypes []string          `yaml:"subtypes,omitempty"`
	TXT      map[string]string `yaml:"txt,omitempty"`

	// Lease and KeyLease are in seconds; zero selects the stack default.
	Lease    uint32 `yaml:"lease,omitempty"`
	KeyLease uint32 `yaml:"key_lease,omitempty"`
}

// TxtEntries returns the TXT map as native entries, sorted by key.
func (s ServiceConfig) TxtEntries() []thread.TxtEntry {
	strs := discovery.TXTRecordsToStrings(s.TXT)
	out := make([]thread.TxtEntry, 0, len(strs))
	for _, kv := range strs {
		k, _, _ := strings.Cut(kv, "=")
		out = append(out, thread.TxtEntry{Key: k, Value: []byte(s.TXT[k])})
	}
	return out
}

// MDNSConfig configures the LAN mirror of SRP services.
type MDNSConfig struct {
	Enabled bool `yaml:"enabled"`

	// Interface restricts advertising and browsing to one interface.
	// Empty means all interfaces.
	Interface string `yaml:"interface"`

	// TTL is the record TTL for services without a lease.
	TTL time.Duration `yaml:"ttl"`
}

// LogConfig configures logging and event capture.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level"`

	// Capture is the .tlog file receiving capture events. Empty disables
	// capture.
	Capture string `yaml:"capture"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Thread: ThreadConfig{
			Enabled:     true,
			DeviceType:  "minimal-end-device",
			AttachDelay: 500 * time.Millisecond,
		},
		SRP: SRPConfig{
			Enabled: true,
		},
		MDNS: MDNSConfig{
			TTL: discovery.DefaultTTL,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// LoadError reports a configuration file that could not be used.
type LoadError struct {
	// File is the path of the configuration file.
	File string

	// Message describes the error.
	Message string

	// Cause is the underlying error, if any.
	Cause error
}

func (e *LoadError) Error() string {
	if e.Cause != nil {
		return e.File + ": " + e.Message + ": " + e.Cause.Error()
	}
	return e.File + ": " + e.Message
}

func (e *LoadError) Unwrap() error {
	return e.Cause
}

// Parse decodes YAML over the defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Load reads and parses the configuration file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{File: path, Message: "failed to read file", Cause: err}
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, &LoadError{File: path, Message: "invalid configuration", Cause: err}
	}
	return cfg, nil
}

// Marshal encodes the configuration as YAML.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

// Validate checks every field and returns all problems joined.
func (c *Config) Validate() error {
	var errs []error

	if c.Thread.Dataset != "" {
		if _, err := dataset.ParseHex(c.Thread.Dataset); err != nil {
			errs = append(errs, fmt.Errorf("thread.dataset: %w", err))
		}
	}
	if _, err := thread.ParseDeviceType(c.Thread.DeviceType); err != nil {
		errs = append(errs, fmt.Errorf("thread.device_type: %w", err))
	}
	if c.Thread.AttachDelay < 0 {
		errs = append(errs, errors.New("thread.attach_delay: must not be negative"))
	}

	if len(c.SRP.HostName) > thread.MaxHostNameLen {
		errs = append(errs, fmt.Errorf("srp.host_name: longer than %d bytes", thread.MaxHostNameLen))
	}
	for i, svc := range c.SRP.Services {
		if err := svc.validate(); err != nil {
			errs = append(errs, fmt.Errorf("srp.services[%d]: %w", i, err))
		}
	}

	if c.MDNS.TTL < time.Second {
		errs = append(errs, errors.New("mdns.ttl: must be at least 1s"))
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}

	return errors.Join(errs...)
}

func (s ServiceConfig) validate() error {
	switch {
	case s.Instance == "" || s.Name == "":
		return errors.New("instance and name are required")
	case len(s.Instance) > thread.MaxInstanceNameLen:
		return fmt.Errorf("instance longer than %d bytes", thread.MaxInstanceNameLen)
	case len(s.Name) > thread.MaxServiceNameLen:
		return fmt.Errorf("name longer than %d bytes", thread.MaxServiceNameLen)
	case s.Port == 0:
		return errors.New("port is required")
	case len(s.TXT) > math.MaxUint8:
		return fmt.Errorf("%d txt entries", len(s.TXT))
	}
	for k, v := range s.TXT {
		if len(v) > math.MaxUint8 {
			return fmt.Errorf("txt %q: value longer than %d bytes", k, math.MaxUint8)
		}
	}
	return nil
}

// ParseLevel maps a level name to a slog level.
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown level %q", level)
	}
}
