package discovery

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	// Domain is the mDNS domain.
	Domain = "local"

	// DefaultTTL is the default DNS record TTL.
	DefaultTTL = 120 * time.Second

	// BrowseTimeout is the default timeout for mDNS browsing.
	BrowseTimeout = 10 * time.Second
)

// Limits.
const (
	// MaxInstanceNameLen is the DNS label limit.
	MaxInstanceNameLen = 63

	// MaxServiceNameLen is the limit for the "_name" part of a service type.
	MaxServiceNameLen = 15

	// MaxTXTValueLen is the limit of one DNS character-string.
	MaxTXTValueLen = 255

	// MaxTXTRecordSize is the maximum total TXT record size.
	MaxTXTRecordSize = 1300
)

// Discovery errors.
var (
	ErrInvalidTXTRecord    = errors.New("invalid TXT record format")
	ErrInvalidServiceType  = errors.New("invalid service type")
	ErrInstanceNameTooLong = errors.New("instance name exceeds 63 characters")
	ErrEmptyInstanceName   = errors.New("empty instance name")
	ErrNotFound            = errors.New("service not found")
	ErrAlreadyExists       = errors.New("service already exists")
)

// ServiceInfo describes a service to advertise.
type ServiceInfo struct {
	// InstanceName is the DNS-SD instance label, e.g. "printer1".
	InstanceName string

	// ServiceType is "_<name>._<proto>", e.g. "_ipp._tcp".
	ServiceType string

	// Port is the service port.
	Port uint16

	// Subtypes are advertised in addition to ServiceType.
	Subtypes []string

	// TXT holds the TXT record entries.
	TXT TXTRecordMap

	// TTL overrides the advertiser TTL when non-zero.
	TTL time.Duration
}

// Key identifies the service: "<instance>.<type>".
func (s *ServiceInfo) Key() string {
	return ServiceKey(s.InstanceName, s.ServiceType)
}

// Validate checks names and TXT sizes.
func (s *ServiceInfo) Validate() error {
	if err := ValidateInstanceName(s.InstanceName); err != nil {
		return err
	}
	if _, _, err := ParseServiceType(s.ServiceType); err != nil {
		return err
	}
	for _, sub := range s.Subtypes {
		if sub == "" || !strings.HasPrefix(sub, "_") {
			return fmt.Errorf("%w: subtype %q", ErrInvalidServiceType, sub)
		}
	}
	return ValidateTXT(s.TXT)
}

// ServiceKey builds the key used to identify an advertised service.
func ServiceKey(instanceName, serviceType string) string {
	return instanceName + "." + serviceType
}

// BrowsedService is a service found on the LAN.
type BrowsedService struct {
	InstanceName string
	ServiceType  string
	Host         string
	Port         uint16
	Addresses    []string
	TXT          TXTRecordMap
}

// Key identifies the service: "<instance>.<type>".
func (s *BrowsedService) Key() string {
	return ServiceKey(s.InstanceName, s.ServiceType)
}

// ParseServiceType splits "_name._proto" into name and proto.
func ParseServiceType(serviceType string) (name, proto string, err error) {
	parts := strings.Split(serviceType, ".")
	if len(parts) != 2 {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidServiceType, serviceType)
	}
	name, proto = parts[0], parts[1]
	if len(name) < 2 || name[0] != '_' || len(name)-1 > MaxServiceNameLen {
		return "", "", fmt.Errorf("%w: bad service name in %q", ErrInvalidServiceType, serviceType)
	}
	if proto != "_tcp" && proto != "_udp" {
		return "", "", fmt.Errorf("%w: protocol must be _tcp or _udp in %q", ErrInvalidServiceType, serviceType)
	}
	return name[1:], proto[1:], nil
}

// ValidateInstanceName checks if an instance name is valid for mDNS.
func ValidateInstanceName(name string) error {
	if name == "" {
		return ErrEmptyInstanceName
	}
	if len(name) > MaxInstanceNameLen {
		return ErrInstanceNameTooLong
	}
	return nil
}
