package thread

import (
	"fmt"

	"github.com/mash-protocol/mash-thread/pkg/dataset"
	"github.com/mash-protocol/mash-thread/pkg/log"
)

// SetProvision applies tlvs as the active operational dataset. The dataset
// is checked before the native stack is called.
func (m *Manager) SetProvision(tlvs []byte) error {
	if !m.state.Initialized {
		return ErrUninitialized
	}
	if err := dataset.Validate(tlvs); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}

	if err := stackErr("set active dataset", m.stack.SetActiveDatasetTLVs(tlvs), false); err != nil {
		m.captureError(err, "SetProvision")
		return fmt.Errorf("failed to set thread provision: %w", err)
	}

	m.poster.PostEvent(Event{Type: EventProvisioningChanged, Provisioned: true})
	m.capture(log.Event{
		AttemptID:    m.attemptID,
		Category:     log.CategoryProvisioning,
		Provisioning: &log.ProvisioningEvent{Provisioned: true, Size: len(tlvs)},
	})
	m.debugLog("thread set active dataset", "size", len(tlvs))
	return nil
}

// GetProvision reads the active dataset from the native stack, caches it
// and returns a copy.
func (m *Manager) GetProvision() (dataset.OperationalDataset, error) {
	if !m.state.Initialized {
		return dataset.OperationalDataset{}, ErrUninitialized
	}

	tlvs, status := m.stack.ActiveDatasetTLVs()
	if err := stackErr("get active dataset", status, false); err != nil {
		m.captureError(err, "GetProvision")
		return dataset.OperationalDataset{}, fmt.Errorf("failed to get thread provision: %w", err)
	}
	m.debugLog("thread get active dataset", "size", len(tlvs))

	if err := m.dataset.Init(tlvs); err != nil {
		return dataset.OperationalDataset{}, fmt.Errorf("%w: native dataset: %w", ErrInternal, err)
	}
	return dataset.New(m.dataset.Bytes())
}

// IsProvisioned reports whether the cached dataset is commissioned. It does
// not query the native stack.
func (m *Manager) IsProvisioned() bool {
	return m.dataset.IsCommissioned()
}

// ErasePersistentInfo clears the cached dataset. The native stack is not
// touched.
func (m *Manager) ErasePersistentInfo() {
	m.dataset.Clear()
	m.capture(log.Event{
		Category:     log.CategoryProvisioning,
		Provisioning: &log.ProvisioningEvent{Provisioned: false},
	})
}
