package persistence

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// StateVersion is the current version of the state file format.
const StateVersion = 1

// NetworkState contains the non-volatile settings of a Thread device.
type NetworkState struct {
	// Version is the state file format version.
	Version int `json:"version"`

	// SavedAt is when the state was last saved.
	SavedAt time.Time `json:"saved_at"`

	// ExtendedAddress is the device's 802.15.4 extended address in hex.
	// It is generated once and kept across restarts.
	ExtendedAddress string `json:"extended_address,omitempty"`

	// ActiveDataset is the active operational dataset TLVs in hex.
	ActiveDataset string `json:"active_dataset,omitempty"`

	// DeviceType is the device type label, e.g. "minimal-end-device".
	DeviceType string `json:"device_type,omitempty"`

	// SRPHostName is the last SRP host name set.
	SRPHostName string `json:"srp_host_name,omitempty"`

	// Services are the SRP services registered with the SRP client.
	Services []ServiceRecord `json:"services,omitempty"`
}

// ServiceRecord is a persisted SRP service registration.
type ServiceRecord struct {
	InstanceName string            `json:"instance_name"`
	Name         string            `json:"name"`
	Port         uint16            `json:"port"`
	Subtypes     []string          `json:"subtypes,omitempty"`
	Txt          map[string]string `json:"txt,omitempty"`

	// Lease is the SRP lease in seconds.
	Lease uint32 `json:"lease,omitempty"`

	// RegisteredAt is when the service was registered.
	RegisteredAt time.Time `json:"registered_at"`
}

// NetworkStateStore manages persistence of network state to a JSON file.
type NetworkStateStore struct {
	mu   sync.Mutex
	path string
}

// NewNetworkStateStore creates a new network state store.
func NewNetworkStateStore(path string) *NetworkStateStore {
	return &NetworkStateStore{path: path}
}

// Path returns the state file path.
func (s *NetworkStateStore) Path() string {
	return s.path
}

// Save persists the network state to disk. The file is replaced atomically.
func (s *NetworkStateStore) Save(state *NetworkState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Ensure parent directory exists
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	state.Version = StateVersion
	state.SavedAt = time.Now()

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

// Load reads the network state from disk.
// Returns nil, nil if the file doesn't exist (empty state).
func (s *NetworkStateStore) Load() (*NetworkState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	state := &NetworkState{}
	if err := json.Unmarshal(data, state); err != nil {
		return nil, err
	}
	if state.Version > StateVersion {
		return nil, fmt.Errorf("state file version %d is newer than supported version %d", state.Version, StateVersion)
	}

	return state, nil
}

// Clear removes the state file.
func (s *NetworkStateStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
