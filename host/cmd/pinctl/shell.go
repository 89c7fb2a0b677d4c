package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"pic24io/host/mcu"
	"pic24io/host/pinspec"
)

var errUsage = errors.New("usage")

// shell executes one tokenised command line against a board
type shell struct {
	mcu *mcu.MCU
	out io.Writer
}

func (sh *shell) run(ctx context.Context, args []string) error {
	switch args[0] {
	case "help", "?":
		sh.help()
		return nil
	case "dict":
		return sh.dict()
	case "config":
		return sh.config(ctx)
	case "caps":
		return sh.caps(ctx, args[1:])
	case "digital":
		return sh.digital(ctx, args[1:])
	case "read":
		return sh.read(ctx, args[1:])
	}
	return fmt.Errorf("unknown command %q (type 'help' for available commands)", args[0])
}

func (sh *shell) help() {
	fmt.Fprintln(sh.out, "Available commands:")
	fmt.Fprintln(sh.out, "  config                                   - Chip variant and port count")
	fmt.Fprintln(sh.out, "  caps <pin>...                            - What the pins can do")
	fmt.Fprintln(sh.out, "  digital <pin> <in|out> [od] [pull=<up|down|float>]")
	fmt.Fprintln(sh.out, "                                           - Configure a plain digital I/O")
	fmt.Fprintln(sh.out, "  read <addr> <start_bit> <num_bits>      - Read a register bit field")
	fmt.Fprintln(sh.out, "  dict                                     - Dictionary summary")
	fmt.Fprintln(sh.out, "  quit/exit/q                              - Exit")
}

func (sh *shell) dict() error {
	d := sh.mcu.Dictionary()
	if d == nil {
		return mcu.ErrNoDictionary
	}
	fmt.Fprintf(sh.out, "Version: %s\n", d.Version)
	for _, k := range sortedKeys(d.Config) {
		fmt.Fprintf(sh.out, "  %s = %s\n", k, d.Config[k])
	}
	fmt.Fprintf(sh.out, "Commands (%d):\n", len(d.Commands))
	for _, sig := range sortedKeys(d.Commands) {
		fmt.Fprintf(sh.out, "  [%d] %s\n", d.Commands[sig], sig)
	}
	fmt.Fprintf(sh.out, "Responses (%d):\n", len(d.Responses))
	for _, sig := range sortedKeys(d.Responses) {
		fmt.Fprintf(sh.out, "  [%d] %s\n", d.Responses[sig], sig)
	}
	return nil
}

func (sh *shell) config(ctx context.Context) error {
	chip, ports, err := sh.mcu.GetConfig(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(sh.out, "%s, %d ports\n", chip, ports)
	return nil
}

func (sh *shell) caps(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: caps <pin>...", errUsage)
	}
	for _, name := range args {
		port, pin, err := pinspec.ParsePin(name)
		if err != nil {
			return err
		}
		caps, err := sh.mcu.QueryPinCaps(ctx, port, pin)
		if err != nil {
			return err
		}
		fmt.Fprintln(sh.out, pinspec.Describe(caps))
	}
	return nil
}

func (sh *shell) digital(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("%w: digital <pin> <in|out> [od] [pull=<up|down|float>]", errUsage)
	}
	port, pin, err := pinspec.ParsePin(args[0])
	if err != nil {
		return err
	}

	cfg := mcu.PinConfig{Port: port, Pin: pin}
	switch args[1] {
	case "in":
		cfg.IsInput = true
	case "out":
	default:
		return fmt.Errorf("%w: direction must be in or out, got %q", errUsage, args[1])
	}

	for _, opt := range args[2:] {
		switch {
		case opt == "od":
			cfg.IsOpenDrain = true
		case strings.HasPrefix(opt, "pull="):
			pull, err := pinspec.ParsePull(strings.TrimPrefix(opt, "pull="))
			if err != nil {
				return err
			}
			if cfg.PullDirection, err = pinspec.PullDirection(pull); err != nil {
				return err
			}
		default:
			return fmt.Errorf("%w: unknown option %q", errUsage, opt)
		}
	}

	if err := sh.mcu.ConfigDigitalPin(ctx, cfg); err != nil {
		return err
	}
	fmt.Fprintf(sh.out, "%s configured\n", pinspec.FormatPin(port, pin))
	return nil
}

func (sh *shell) read(ctx context.Context, args []string) error {
	if len(args) != 3 {
		return fmt.Errorf("%w: read <addr> <start_bit> <num_bits>", errUsage)
	}
	var vals [3]uint16
	for i, a := range args {
		v, err := strconv.ParseUint(a, 0, 16)
		if err != nil {
			return fmt.Errorf("%w: %q is not a 16-bit number", errUsage, a)
		}
		vals[i] = uint16(v)
	}

	value, err := sh.mcu.ReadBits(ctx, vals[0], vals[1], vals[2])
	if err != nil {
		return err
	}
	fmt.Fprintf(sh.out, "0x%X\n", value)
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
