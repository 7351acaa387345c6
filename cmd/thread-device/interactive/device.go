// Package interactive provides the interactive command-line interface
// for the Thread device.
package interactive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/chzyer/readline"

	"github.com/mash-protocol/mash-thread/pkg/dataset"
	"github.com/mash-protocol/mash-thread/pkg/discovery"
	"github.com/mash-protocol/mash-thread/pkg/eventloop"
	"github.com/mash-protocol/mash-thread/pkg/simstack"
	"github.com/mash-protocol/mash-thread/pkg/thread"
)

// callTimeout bounds each command's wait for the event loop.
const callTimeout = 5 * time.Second

// Deps are the device parts the shell drives.
type Deps struct {
	Manager *thread.Manager
	Loop    *eventloop.Loop
	Stack   *simstack.Stack

	// Mirror is nil when mDNS is disabled.
	Mirror *discovery.Mirror

	Browser *discovery.MDNSBrowser
}

// Device handles interactive mode for thread-device.
type Device struct {
	Deps
	rl *readline.Instance
}

// New creates the shell. The readline instance exists before the device
// so that logging can be routed through Stdout from the start.
func New() (*Device, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "thread> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
		AutoComplete:    completer,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readline: %w", err)
	}
	return &Device{rl: rl}, nil
}

// Attach sets the device parts. It must be called before Run.
func (d *Device) Attach(deps Deps) {
	d.Deps = deps
}

// Stdout returns a writer that properly coordinates with the readline input.
// Use this for log output to avoid interfering with the command prompt.
func (d *Device) Stdout() io.Writer {
	return d.rl.Stdout()
}

var completer = readline.NewPrefixCompleter(
	readline.PcItem("help"),
	readline.PcItem("state"),
	readline.PcItem("dataset"),
	readline.PcItem("attach"),
	readline.PcItem("enable"),
	readline.PcItem("disable"),
	readline.PcItem("erase"),
	readline.PcItem("role",
		readline.PcItem("detached"),
		readline.PcItem("child"),
		readline.PcItem("router"),
		readline.PcItem("leader"),
	),
	readline.PcItem("devtype",
		readline.PcItem("router"),
		readline.PcItem("full-end-device"),
		readline.PcItem("minimal-end-device"),
		readline.PcItem("sleepy-end-device"),
	),
	readline.PcItem("mac"),
	readline.PcItem("srp",
		readline.PcItem("add"),
		readline.PcItem("remove"),
		readline.PcItem("invalidate"),
		readline.PcItem("prune"),
		readline.PcItem("host"),
	),
	readline.PcItem("services"),
	readline.PcItem("browse"),
	readline.PcItem("fail"),
	readline.PcItem("quit"),
)

// Run starts the interactive command loop.
func (d *Device) Run(ctx context.Context, cancel context.CancelFunc) {
	defer d.rl.Close()

	d.printHelp()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		line, err := d.rl.Readline()
		if err != nil {
			// EOF or interrupt
			if err == readline.ErrInterrupt {
				continue
			}
			fmt.Fprintln(d.rl.Stdout(), "Exiting...")
			cancel()
			return
		}

		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}

		parts := strings.Fields(input)
		cmd := strings.ToLower(parts[0])
		args := parts[1:]

		switch cmd {
		case "help", "?":
			d.printHelp()

		case "state", "s":
			d.cmdState()

		case "dataset", "ds":
			d.cmdDataset(args)

		case "attach", "a":
			d.cmdAttach(args)

		case "enable":
			d.cmdEnable(true)

		case "disable":
			d.cmdEnable(false)

		case "erase":
			d.cmdErase()

		case "role":
			d.cmdRole(args)

		case "devtype":
			d.cmdDevType(args)

		case "mac":
			d.cmdMAC()

		case "srp":
			d.cmdSRP(args)

		case "services", "svc":
			d.cmdServices()

		case "browse", "b":
			d.cmdBrowse(ctx, args)

		case "fail":
			d.cmdFail(args)

		case "quit", "exit", "q":
			fmt.Fprintln(d.rl.Stdout(), "Exiting...")
			cancel()
			return

		default:
			fmt.Fprintf(d.rl.Stdout(), "Unknown command: %s (type 'help' for commands)\n", cmd)
		}
	}
}

func (d *Device) printHelp() {
	fmt.Fprintln(d.rl.Stdout(), `
Thread Device Commands:
  Network:
    state                  - Show connectivity state
    dataset [hex]          - Show the active dataset (or set it)
    attach [hex]           - Attach with the given or the active dataset
    enable | disable       - Bring the Thread network up or down
    erase                  - Forget the cached dataset
    role <role>            - Force the simulated role (detached, child, router, leader)
    devtype [type]         - Show or set the device type
    mac                    - Show the primary MAC address

  SRP:
    srp add <instance> <service> <port> [key=value...]
    srp remove <instance> <service>
    srp invalidate         - Mark all services invalid
    srp prune              - Remove invalid services
    srp host <name>        - Set the SRP host name and address
    services               - List registered and mirrored services
    browse <type> [secs]   - Browse the LAN for a service type, e.g. _matter._udp

  Testing:
    fail <op> <status>     - Fail the next native call, e.g. fail start busy

  General:
    help                   - Show this help
    quit                   - Exit device`)
}

// call runs fn on the event loop and returns its error.
func (d *Device) call(fn func() error) error {
	ctx, cancel := context.WithTimeout(context.Background(), callTimeout)
	defer cancel()
	return d.Loop.CallErr(ctx, fn)
}

func (d *Device) printErr(what string, err error) {
	fmt.Fprintf(d.rl.Stdout(), "%s failed: %v\n", what, err)
}

func (d *Device) cmdState() {
	out := d.rl.Stdout()
	var (
		state   thread.ConnectivityState
		enabled bool
		pending bool
		attempt string
		id      string
	)
	err := d.call(func() error {
		state = d.Manager.State()
		enabled = d.Manager.IsEnabled()
		pending = d.Manager.HasPendingAttach()
		attempt = d.Manager.AttemptID()
		id = d.Manager.DeviceID()
		return nil
	})
	if err != nil {
		d.printErr("state", err)
		return
	}
	snap := d.Stack.Snapshot()

	fmt.Fprintf(out, "Device:       %s\n", id)
	fmt.Fprintf(out, "Initialized:  %t\n", state.Initialized)
	fmt.Fprintf(out, "Enabled:      %t\n", enabled)
	fmt.Fprintf(out, "Attached:     %t\n", state.Attached)
	fmt.Fprintf(out, "Role:         %s\n", snap.Role)
	fmt.Fprintf(out, "SRP client:   %t\n", snap.SRPClient)
	fmt.Fprintf(out, "SRP server:   %t\n", snap.SRPServer)
	if attempt != "" {
		fmt.Fprintf(out, "Attempt:      %s (pending: %t)\n", attempt, pending)
	}
	if d.Mirror != nil {
		fmt.Fprintf(out, "mDNS mirror:  %s\n", d.Mirror.State())
	}
}

func (d *Device) cmdDataset(args []string) {
	if len(args) > 0 {
		ds, err := dataset.ParseHex(args[0])
		if err != nil {
			d.printErr("dataset", err)
			return
		}
		if err := d.call(func() error { return d.Manager.SetProvision(ds.Bytes()) }); err != nil {
			d.printErr("dataset", err)
			return
		}
	}

	var ds dataset.OperationalDataset
	err := d.call(func() error {
		var err error
		ds, err = d.Manager.GetProvision()
		return err
	})
	if err != nil {
		d.printErr("dataset", err)
		return
	}
	fmt.Fprintln(d.rl.Stdout(), ds.String())
	if !ds.IsEmpty() {
		fmt.Fprintln(d.rl.Stdout(), ds.Hex())
	}
}

func (d *Device) cmdAttach(args []string) {
	out := d.rl.Stdout()
	cb := thread.ConnectCallbackFunc(func(status thread.NetworkStatus, _ string, _ int32) {
		fmt.Fprintf(out, "[ATTACH] %s\n", status)
	})

	err := d.call(func() error {
		var ds dataset.OperationalDataset
		var err error
		if len(args) > 0 {
			ds, err = dataset.ParseHex(args[0])
		} else {
			ds, err = d.Manager.GetProvision()
		}
		if err != nil {
			return err
		}
		return d.Manager.AttachToNetwork(ds, cb)
	})
	if err != nil {
		d.printErr("attach", err)
		return
	}
	fmt.Fprintln(out, "Attach started")
}

func (d *Device) cmdEnable(enable bool) {
	if err := d.call(func() error { return d.Manager.SetEnabled(enable) }); err != nil {
		d.printErr("enable", err)
	}
}

func (d *Device) cmdErase() {
	_ = d.call(func() error {
		d.Manager.ErasePersistentInfo()
		return nil
	})
	fmt.Fprintln(d.rl.Stdout(), "Cached dataset cleared")
}

var roleNames = map[string]thread.Role{
	"detached": thread.RoleDetached,
	"child":    thread.RoleChild,
	"router":   thread.RoleRouter,
	"leader":   thread.RoleLeader,
}

func (d *Device) cmdRole(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(d.rl.Stdout(), "Usage: role <detached|child|router|leader>")
		return
	}
	role, ok := roleNames[strings.ToLower(args[0])]
	if !ok {
		fmt.Fprintf(d.rl.Stdout(), "Unknown role: %s\n", args[0])
		return
	}
	if st := d.Stack.ForceRole(role); st != thread.StatusNone {
		fmt.Fprintf(d.rl.Stdout(), "role failed: %s\n", st)
	}
}

func (d *Device) cmdDevType(args []string) {
	if len(args) > 0 {
		t, err := thread.ParseDeviceType(args[0])
		if err != nil {
			d.printErr("devtype", err)
			return
		}
		if err := d.call(func() error { return d.Manager.SetDeviceType(t) }); err != nil {
			d.printErr("devtype", err)
			return
		}
	}
	var t thread.DeviceType
	_ = d.call(func() error {
		t = d.Manager.DeviceType()
		return nil
	})
	fmt.Fprintf(d.rl.Stdout(), "Device type: %s\n", t)
}

func (d *Device) cmdMAC() {
	var mac [8]byte
	err := d.call(func() error {
		var err error
		mac, err = d.Manager.PrimaryMACAddress()
		return err
	})
	if err != nil {
		d.printErr("mac", err)
		return
	}
	fmt.Fprintf(d.rl.Stdout(), "MAC: %x\n", mac)
}

func (d *Device) cmdSRP(args []string) {
	out := d.rl.Stdout()
	if len(args) == 0 {
		fmt.Fprintln(out, "Usage: srp <add|remove|invalidate|prune|host> ...")
		return
	}

	var err error
	switch args[0] {
	case "add":
		if len(args) < 4 {
			fmt.Fprintln(out, "Usage: srp add <instance> <service> <port> [key=value...]")
			return
		}
		port, perr := strconv.ParseUint(args[3], 10, 16)
		if perr != nil {
			fmt.Fprintf(out, "Invalid port: %s\n", args[3])
			return
		}
		txt := parseTxt(args[4:])
		err = d.call(func() error {
			return d.Manager.AddSrpService(args[1], args[2], uint16(port), nil, txt, 0, 0)
		})

	case "remove":
		if len(args) != 3 {
			fmt.Fprintln(out, "Usage: srp remove <instance> <service>")
			return
		}
		err = d.call(func() error { return d.Manager.RemoveSrpService(args[1], args[2]) })

	case "invalidate":
		err = d.call(d.Manager.InvalidateAllSrpServices)

	case "prune":
		err = d.call(d.Manager.RemoveInvalidSrpServices)

	case "host":
		if len(args) != 2 {
			fmt.Fprintln(out, "Usage: srp host <name>")
			return
		}
		err = d.call(func() error { return d.Manager.SetupSrpHost(args[1]) })

	default:
		fmt.Fprintf(out, "Unknown srp command: %s\n", args[0])
		return
	}

	if err != nil {
		d.printErr("srp "+args[0], err)
		return
	}
	fmt.Fprintln(out, "OK")
}

// parseTxt turns "key=value" arguments into TXT entries.
func parseTxt(args []string) []thread.TxtEntry {
	entries := make([]thread.TxtEntry, 0, len(args))
	for _, kv := range args {
		k, v, _ := strings.Cut(kv, "=")
		entries = append(entries, thread.TxtEntry{Key: k, Value: []byte(v)})
	}
	return entries
}

func (d *Device) cmdServices() {
	out := d.rl.Stdout()
	var services []thread.SRPService
	_ = d.call(func() error {
		services = d.Manager.Services()
		return nil
	})

	if len(services) == 0 {
		fmt.Fprintln(out, "No SRP services registered")
	}
	for i, svc := range services {
		mark := "valid"
		if !svc.Valid {
			mark = "invalid"
		}
		fmt.Fprintf(out, "  [%d] %s.%s port %d (%s)\n", i, svc.InstanceName, svc.Name, svc.Port, mark)
	}

	if d.Mirror == nil {
		return
	}
	fmt.Fprintf(out, "mDNS mirror (%s):\n", d.Mirror.State())
	for _, info := range d.Mirror.Services() {
		fmt.Fprintf(out, "  %s port %d ttl %s\n", info.Key(), info.Port, info.TTL)
	}
}

func (d *Device) cmdBrowse(ctx context.Context, args []string) {
	out := d.rl.Stdout()
	if len(args) == 0 {
		fmt.Fprintln(out, "Usage: browse <service-type> [seconds]")
		return
	}
	timeout := 3 * time.Second
	if len(args) > 1 {
		secs, err := strconv.Atoi(args[1])
		if err != nil || secs <= 0 {
			fmt.Fprintf(out, "Invalid timeout: %s\n", args[1])
			return
		}
		timeout = time.Duration(secs) * time.Second
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	results, err := d.Browser.Browse(ctx, args[0])
	if err != nil {
		d.printErr("browse", err)
		return
	}
	found := 0
	for svc := range results {
		found++
		fmt.Fprintf(out, "  %s host %s port %d addrs %v\n", svc.Key(), svc.Host, svc.Port, svc.Addresses)
		for _, kv := range discovery.TXTRecordsToStrings(svc.TXT) {
			fmt.Fprintf(out, "      %s\n", kv)
		}
	}
	fmt.Fprintf(out, "%d service(s) found\n", found)
}

func (d *Device) cmdFail(args []string) {
	out := d.rl.Stdout()
	if len(args) != 2 {
		fmt.Fprintln(out, "Usage: fail <op> <status>")
		names := make([]string, 0, len(simstack.Ops))
		for _, op := range simstack.Ops {
			names = append(names, string(op))
		}
		fmt.Fprintf(out, "Ops: %s\n", strings.Join(names, ", "))
		return
	}
	op, ok := simstack.ParseOp(args[0])
	if !ok {
		d.printErr("fail", errors.New("unknown op "+args[0]))
		return
	}
	status, ok := simstack.ParseStatus(args[1])
	if !ok {
		d.printErr("fail", errors.New("unknown status "+args[1]))
		return
	}
	d.Stack.FailNext(op, status)
	fmt.Fprintf(out, "Next %s returns %s\n", op, status)
}
