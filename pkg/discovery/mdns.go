package discovery

import (
	"context"
	"fmt"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/enbility/zeroconf/v3"
)

// MDNSAdvertiser implements the Advertiser interface using zeroconf.
type MDNSAdvertiser struct {
	config AdvertiserConfig

	mu sync.Mutex

	// Active services keyed by ServiceInfo.Key()
	servers map[string]*zeroconf.Server
}

// NewMDNSAdvertiser creates a new mDNS advertiser.
func NewMDNSAdvertiser(config AdvertiserConfig) *MDNSAdvertiser {
	return &MDNSAdvertiser{
		config:  config,
		servers: make(map[string]*zeroconf.Server),
	}
}

// getInterfaces returns the network interfaces to use for advertising.
// Returns nil to use all interfaces.
func (a *MDNSAdvertiser) getInterfaces() []net.Interface {
	if a.config.Interface == "" {
		return nil
	}

	iface, err := net.InterfaceByName(a.config.Interface)
	if err != nil {
		return nil
	}
	return []net.Interface{*iface}
}

// Advertise starts advertising a service.
func (a *MDNSAdvertiser) Advertise(ctx context.Context, info *ServiceInfo) error {
	if err := info.Validate(); err != nil {
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	key := info.Key()

	// Stop existing if any
	if server, exists := a.servers[key]; exists {
		server.Shutdown()
		delete(a.servers, key)
	}

	var opts []zeroconf.ServerOption
	ttl := a.config.TTL
	if info.TTL > 0 {
		ttl = info.TTL
	}
	if ttl > 0 {
		opts = append(opts, zeroconf.TTL(uint32(ttl.Seconds())))
	}

	server, err := zeroconf.Register(
		info.InstanceName,
		serviceWithSubtypes(info.ServiceType, info.Subtypes),
		Domain,
		int(info.Port),
		TXTRecordsToStrings(info.TXT),
		a.getInterfaces(),
		opts...,
	)
	if err != nil {
		return fmt.Errorf("failed to register service %s: %w", key, err)
	}

	a.servers[key] = server
	return nil
}

// UpdateTXT updates TXT records for an advertised service.
func (a *MDNSAdvertiser) UpdateTXT(key string, txt TXTRecordMap) error {
	if err := ValidateTXT(txt); err != nil {
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	server, exists := a.servers[key]
	if !exists {
		return ErrNotFound
	}
	server.SetText(TXTRecordsToStrings(txt))
	return nil
}

// Withdraw stops advertising a service.
func (a *MDNSAdvertiser) Withdraw(key string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	server, exists := a.servers[key]
	if !exists {
		return ErrNotFound
	}
	server.Shutdown()
	delete(a.servers, key)
	return nil
}

// StopAll stops all advertisements.
func (a *MDNSAdvertiser) StopAll() {
	a.mu.Lock()
	defer a.mu.Unlock()

	for key, server := range a.servers {
		server.Shutdown()
		delete(a.servers, key)
	}
}

// BrowserConfig configures browser behavior.
type BrowserConfig struct {
	// BrowseTimeout is the default timeout for Find.
	// Default: 10 seconds.
	BrowseTimeout time.Duration

	// Interface specifies which network interface to use.
	// Empty string means all interfaces.
	Interface string
}

// DefaultBrowserConfig returns the default browser configuration.
func DefaultBrowserConfig() BrowserConfig {
	return BrowserConfig{
		BrowseTimeout: BrowseTimeout,
	}
}

// MDNSBrowser browses DNS-SD services using zeroconf.
type MDNSBrowser struct {
	config BrowserConfig
}

// NewMDNSBrowser creates a new mDNS browser.
func NewMDNSBrowser(config BrowserConfig) *MDNSBrowser {
	if config.BrowseTimeout <= 0 {
		config.BrowseTimeout = BrowseTimeout
	}
	return &MDNSBrowser{config: config}
}

// Browse searches for instances of serviceType until ctx is done.
// Services are aggregated by instance name - addresses from multiple
// interfaces are combined into a single entry.
func (b *MDNSBrowser) Browse(ctx context.Context, serviceType string) (<-chan *BrowsedService, error) {
	if _, _, err := ParseServiceType(serviceType); err != nil {
		return nil, err
	}

	out := make(chan *BrowsedService)
	entries := make(chan *zeroconf.ServiceEntry)
	removed := make(chan *zeroconf.ServiceEntry)

	go func() {
		defer close(out)

		var gone <-chan *zeroconf.ServiceEntry = removed
		services := make(map[string]*BrowsedService)
		for {
			select {
			case entry, ok := <-entries:
				if !ok {
					return
				}
				svc := entryToService(entry, serviceType)
				if existing, found := services[svc.InstanceName]; found {
					existing.Addresses = mergeAddresses(existing.Addresses, svc.Addresses)
					continue
				}
				services[svc.InstanceName] = svc
				select {
				case out <- svc:
				case <-ctx.Done():
					return
				}

			case entry, ok := <-gone:
				if !ok {
					gone = nil
					continue
				}
				delete(services, entry.Instance)

			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		_ = zeroconf.Browse(ctx, serviceType, Domain, entries, removed, b.browserOptions()...)
	}()

	return out, nil
}

// Find browses for a single instance and returns when it is seen or the
// browse timeout expires.
func (b *MDNSBrowser) Find(ctx context.Context, instanceName, serviceType string) (*BrowsedService, error) {
	ctx, cancel := context.WithTimeout(ctx, b.config.BrowseTimeout)
	defer cancel()

	found, err := b.Browse(ctx, serviceType)
	if err != nil {
		return nil, err
	}
	for svc := range found {
		if svc.InstanceName == instanceName {
			return svc, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrNotFound, ServiceKey(instanceName, serviceType))
}

func (b *MDNSBrowser) browserOptions() []zeroconf.ClientOption {
	var opts []zeroconf.ClientOption

	// Select specific interface if configured
	if b.config.Interface != "" {
		iface, err := net.InterfaceByName(b.config.Interface)
		if err == nil {
			opts = append(opts, zeroconf.SelectIfaces([]net.Interface{*iface}))
		}
	}

	return opts
}

// entryToService converts a zeroconf entry to a BrowsedService.
func entryToService(entry *zeroconf.ServiceEntry, serviceType string) *BrowsedService {
	addrs := make([]string, 0, len(entry.AddrIPv4)+len(entry.AddrIPv6))
	for _, ip := range entry.AddrIPv4 {
		addrs = append(addrs, ip.String())
	}
	for _, ip := range entry.AddrIPv6 {
		addrs = append(addrs, ip.String())
	}

	return &BrowsedService{
		InstanceName: entry.Instance,
		ServiceType:  serviceType,
		Host:         strings.TrimSuffix(entry.HostName, "."),
		Port:         uint16(entry.Port),
		Addresses:    addrs,
		TXT:          StringsToTXTRecords(entry.Text),
	}
}

// mergeAddresses adds new addresses to existing list, avoiding duplicates.
func mergeAddresses(existing, new []string) []string {
	seen := make(map[string]bool, len(existing))
	for _, addr := range existing {
		seen[addr] = true
	}

	for _, addr := range new {
		if !seen[addr] {
			existing = append(existing, addr)
			seen[addr] = true
		}
	}
	return existing
}

// Ensure MDNSAdvertiser implements Advertiser interface.
var _ Advertiser = (*MDNSAdvertiser)(nil)
