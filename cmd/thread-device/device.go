package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mash-protocol/mash-thread/pkg/config"
	"github.com/mash-protocol/mash-thread/pkg/dataset"
	"github.com/mash-protocol/mash-thread/pkg/discovery"
	"github.com/mash-protocol/mash-thread/pkg/eventloop"
	mlog "github.com/mash-protocol/mash-thread/pkg/log"
	"github.com/mash-protocol/mash-thread/pkg/persistence"
	"github.com/mash-protocol/mash-thread/pkg/simstack"
	"github.com/mash-protocol/mash-thread/pkg/thread"
)

// device wires the simulated stack, the event loop and the manager.
type device struct {
	cfg    *config.Config
	logger *slog.Logger

	loop    *eventloop.Loop
	stack   *simstack.Stack
	mgr     *thread.Manager
	mirror  *discovery.Mirror
	capture *mlog.FileLogger

	// servicesRegistered is only touched on the loop.
	servicesRegistered bool
}

func newDevice(cfg *config.Config, logger *slog.Logger) (*device, error) {
	d := &device{cfg: cfg, logger: logger}

	events := []mlog.Logger{mlog.NewSlogAdapter(logger).WithLevel(slog.LevelDebug)}
	if cfg.Log.Capture != "" {
		fl, err := mlog.NewFileLogger(cfg.Log.Capture)
		if err != nil {
			return nil, fmt.Errorf("failed to open capture file: %w", err)
		}
		d.capture = fl
		events = append(events, fl)
		logger.Info("capturing events", "path", fl.Path())
	}
	eventLogger := mlog.NewMultiLogger(events...)

	if cfg.MDNS.Enabled {
		adv := discovery.NewMDNSAdvertiser(discovery.AdvertiserConfig{
			Interface: cfg.MDNS.Interface,
			TTL:       cfg.MDNS.TTL,
		})
		d.mirror = discovery.NewMirror(adv, discovery.MirrorConfig{
			Logger:      logger,
			EventLogger: eventLogger,
		})
	}

	var store *persistence.NetworkStateStore
	if cfg.Thread.StatePath != "" {
		store = persistence.NewNetworkStateStore(cfg.Thread.StatePath)
	}
	d.stack = simstack.New(simstack.Config{
		AttachDelay: cfg.Thread.AttachDelay,
		Store:       store,
		Mirror:      d.mirror,
		Logger:      logger,
	})

	d.loop = eventloop.New(eventloop.Config{Logger: logger})
	mgr, err := thread.NewManager(d.stack, thread.Config{
		Scheduler:   d.loop,
		Poster:      d.loop,
		SRPEnabled:  cfg.SRP.Enabled,
		Logger:      logger,
		EventLogger: eventLogger,
	})
	if err != nil {
		return nil, err
	}
	d.mgr = mgr
	d.loop.OnEvent(d.handleEvent)
	return d, nil
}

// start initializes the manager and, if enabled, attaches.
func (d *device) start(ctx context.Context) error {
	d.loop.Start()
	return d.call(ctx, func() error {
		if err := d.mgr.Init(); err != nil {
			return err
		}
		d.logger.Info("thread stack initialized", "device", d.mgr.DeviceID())

		t, err := thread.ParseDeviceType(d.cfg.Thread.DeviceType)
		if err != nil {
			return err
		}
		if err := d.mgr.SetDeviceType(t); err != nil {
			return err
		}

		if !d.cfg.Thread.Enabled {
			d.logger.Info("thread disabled by configuration")
			return nil
		}
		ds, err := d.dataset()
		if err != nil {
			return err
		}
		if !ds.IsCommissioned() {
			d.logger.Info("no commissioned dataset, waiting for provisioning")
			return nil
		}
		d.logger.Info("attaching", "dataset", ds.String())
		return d.mgr.AttachToNetwork(ds, thread.ConnectCallbackFunc(d.onAttachResult))
	})
}

// dataset returns the configured dataset, falling back to the stored one.
// It must run on the loop.
func (d *device) dataset() (dataset.OperationalDataset, error) {
	if d.cfg.Thread.Dataset != "" {
		return dataset.ParseHex(d.cfg.Thread.Dataset)
	}
	return d.mgr.GetProvision()
}

func (d *device) onAttachResult(status thread.NetworkStatus, debugText string, networkIndex int32) {
	if status != thread.NetworkStatusSuccess {
		d.logger.Warn("attach failed", "status", status, "attempt", d.mgr.AttemptID())
		return
	}
	d.logger.Info("attach started", "attempt", d.mgr.AttemptID())
}

// handleEvent runs on the loop.
func (d *device) handleEvent(ev thread.Event) {
	d.mgr.OnPlatformEvent(ev)

	switch ev.Type {
	case thread.EventConnectivityChanged:
		d.logger.Info("thread connectivity", "change", ev.Connectivity)
		if ev.Connectivity == thread.ConnectivityEstablished {
			d.registerServices()
		}
	case thread.EventRoleStateChanged:
		d.logger.Debug("thread role", "role", ev.Role, "attached", ev.Attached)
	case thread.EventProvisioningChanged:
		d.logger.Info("thread dataset changed")
	}
}

// registerServices registers the SRP host and services the first time the
// device attaches. The native client keeps them across later role changes.
func (d *device) registerServices() {
	if d.servicesRegistered {
		return
	}
	d.servicesRegistered = true

	if d.cfg.SRP.HostName != "" {
		if err := d.mgr.SetupSrpHost(d.cfg.SRP.HostName); err != nil {
			d.logger.Warn("failed to set up srp host", "host", d.cfg.SRP.HostName, "error", err)
		}
	}
	for _, svc := range d.cfg.SRP.Services {
		err := d.mgr.AddSrpService(svc.Instance, svc.Name, svc.Port, svc.Subtypes, svc.TxtEntries(), svc.Lease, svc.KeyLease)
		if err != nil {
			d.logger.Warn("failed to register srp service", "instance", svc.Instance, "name", svc.Name, "error", err)
			continue
		}
		d.logger.Info("registered srp service", "instance", svc.Instance, "name", svc.Name, "port", svc.Port)
	}
}

// stop detaches and shuts the stack down.
func (d *device) stop() {
	err := d.call(context.Background(), func() error {
		if !d.mgr.IsInitialized() {
			return nil
		}
		return d.mgr.SetEnabled(false)
	})
	if err != nil && !errors.Is(err, eventloop.ErrStopped) {
		d.logger.Warn("failed to disable thread", "error", err)
	}
	d.loop.Stop()
	d.stack.Deinitialize()
	if d.mirror != nil {
		d.mirror.Stop()
	}
}

func (d *device) close() {
	if d.capture != nil {
		if err := d.capture.Close(); err != nil {
			d.logger.Warn("failed to close capture file", "error", err)
		}
	}
}

// call runs fn on the loop and returns its error.
func (d *device) call(ctx context.Context, fn func() error) error {
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()
	return d.loop.CallErr(ctx, fn)
}
