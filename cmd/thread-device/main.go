// Command thread-device runs a simulated Thread device.
//
// The device brings up a simulated native stack, attaches to the network
// described by its operational dataset and registers its SRP services once
// it is attached. With mDNS enabled the services are mirrored onto the host
// LAN while the device stays attached.
//
// Usage:
//
//	thread-device [flags]
//
// Flags:
//
//	-config string        Configuration file path (YAML)
//	-state string         State file path (JSON)
//	-dataset string       Active operational dataset in hex
//	-device-type string   Device type: router, full-end-device, minimal-end-device, sleepy-end-device
//	-host-name string     SRP host name
//	-srp                  Toggle the SRP client/server with the device role (default true)
//	-mdns                 Mirror SRP services onto the LAN via mDNS
//	-iface string         Network interface for mDNS
//	-attach-delay duration  Simulated attach time (default 500ms)
//	-log-level string     Log level: debug, info, warn, error (default "info")
//	-capture string       Capture events to a .tlog file
//	-interactive          Enable the interactive shell
//
// Examples:
//
//	# Attach as a router and advertise a service on the LAN
//	thread-device -device-type router -dataset 0e08... -mdns -config lamp.yaml
//
//	# Interactive session with event capture
//	thread-device -interactive -capture /tmp/thread.tlog -log-level debug
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mash-protocol/mash-thread/cmd/thread-device/interactive"
	"github.com/mash-protocol/mash-thread/pkg/config"
	"github.com/mash-protocol/mash-thread/pkg/discovery"
	"github.com/mash-protocol/mash-thread/pkg/simstack"
)

var (
	configFile  = flag.String("config", "", "Configuration file path (YAML)")
	statePath   = flag.String("state", "", "State file path (JSON)")
	datasetHex  = flag.String("dataset", "", "Active operational dataset in hex")
	deviceType  = flag.String("device-type", "", "Device type: router, full-end-device, minimal-end-device, sleepy-end-device")
	hostName    = flag.String("host-name", "", "SRP host name")
	srpEnabled  = flag.Bool("srp", true, "Toggle the SRP client/server with the device role")
	mdnsEnabled = flag.Bool("mdns", false, "Mirror SRP services onto the LAN via mDNS")
	iface       = flag.String("iface", "", "Network interface for mDNS")
	attachDelay = flag.Duration("attach-delay", simstack.DefaultAttachDelay, "Simulated attach time")
	logLevel    = flag.String("log-level", "info", "Log level: debug, info, warn, error")
	capturePath = flag.String("capture", "", "Capture events to a .tlog file")
	interact    = flag.Bool("interactive", false, "Enable the interactive shell")
)

func main() {
	flag.Parse()

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var shell *interactive.Device
	var out io.Writer = os.Stderr
	if *interact {
		shell, err = interactive.New()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create interactive shell: %v\n", err)
			os.Exit(1)
		}
		// Keep log output off the prompt line.
		out = shell.Stdout()
	}

	level, _ := config.ParseLevel(cfg.Log.Level)
	logger := slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: level}))

	dev, err := newDevice(cfg, logger)
	if err != nil {
		logger.Error("failed to set up device", "error", err)
		os.Exit(1)
	}
	defer dev.close()

	if err := dev.start(ctx); err != nil {
		logger.Error("failed to start device", "error", err)
		os.Exit(1)
	}

	if shell != nil {
		shell.Attach(interactive.Deps{
			Manager: dev.mgr,
			Loop:    dev.loop,
			Stack:   dev.stack,
			Mirror:  dev.mirror,
			Browser: discovery.NewMDNSBrowser(discovery.BrowserConfig{
				BrowseTimeout: discovery.BrowseTimeout,
				Interface:     cfg.MDNS.Interface,
			}),
		})
		go shell.Run(ctx, cancel)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("received signal", "signal", sig)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	dev.stop()
}

// loadConfig reads the config file, if any, and applies the flags that were
// set explicitly on top of it.
func loadConfig() (*config.Config, error) {
	cfg := config.Default()
	if *configFile != "" {
		loaded, err := config.Load(*configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "state":
			cfg.Thread.StatePath = *statePath
		case "dataset":
			cfg.Thread.Dataset = *datasetHex
		case "device-type":
			cfg.Thread.DeviceType = *deviceType
		case "host-name":
			cfg.SRP.HostName = *hostName
		case "srp":
			cfg.SRP.Enabled = *srpEnabled
		case "mdns":
			cfg.MDNS.Enabled = *mdnsEnabled
		case "iface":
			cfg.MDNS.Interface = *iface
		case "attach-delay":
			cfg.Thread.AttachDelay = *attachDelay
		case "log-level":
			cfg.Log.Level = *logLevel
		case "capture":
			cfg.Log.Capture = *capturePath
		}
	})

	return cfg, cfg.Validate()
}

// callTimeout bounds how long the main goroutine waits for the event loop.
const callTimeout = 5 * time.Second
