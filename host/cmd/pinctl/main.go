// Command pinctl configures and inspects the digital I/O pins of a board
// running the pin-configuration firmware, or of a simulated one.
//
//	pinctl -device /dev/ttyUSB0 caps RB5
//	pinctl -sim PIC24FJ64GB002            (interactive)
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/google/shlex"

	"pic24io/host/mcu"
	"pic24io/host/serial"
	"pic24io/targets/chips"
	"pic24io/targets/sim"
)

var (
	device  = flag.String("device", "/dev/ttyUSB0", "Serial device path")
	baud    = flag.Int("baud", serial.DefaultBaud, "Baud rate")
	simChip = flag.String("sim", "", "Run against a simulated chip instead of a device ("+strings.Join(chips.Names(), ", ")+")")
	timeout = flag.Duration("timeout", 2*time.Second, "Per-command timeout")
	verbose = flag.Bool("verbose", false, "Enable verbose output")
)

func main() {
	flag.Parse()
	log.SetFlags(0)
	log.SetPrefix("pinctl: ")

	m, err := connect()
	if err != nil {
		log.Fatal(err)
	}
	defer m.Close()
	m.Timeout = *timeout
	m.Verbose = *verbose
	m.Diagnostic = func(line string) { fmt.Fprintln(os.Stderr, line) }

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	err = m.RetrieveDictionary(ctx)
	cancel()
	if err != nil {
		log.Fatalf("retrieve dictionary: %v", err)
	}

	sh := &shell{mcu: m, out: os.Stdout}

	// One-shot mode: the remaining arguments are a single command
	if flag.NArg() > 0 {
		if err := sh.run(context.Background(), flag.Args()); err != nil {
			log.Fatal(err)
		}
		return
	}

	repl(sh)
}

func connect() (*mcu.MCU, error) {
	if *simChip != "" {
		s, err := sim.Open(*simChip, sim.Options{})
		if err != nil {
			return nil, fmt.Errorf("simulator %q: %w", *simChip, err)
		}
		return mcu.ConnectPort(s), nil
	}

	cfg := serial.DefaultConfig(*device)
	cfg.Baud = *baud
	return mcu.ConnectWithConfig(cfg)
}

func repl(sh *shell) {
	fmt.Println("Enter commands (type 'help' for available commands, 'quit' to exit):")
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}

		args, err := shlex.Split(scanner.Text())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			continue
		}
		if len(args) == 0 {
			continue
		}

		switch args[0] {
		case "quit", "exit", "q":
			return
		}
		if err := sh.run(context.Background(), args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
	}

	if err := scanner.Err(); err != nil {
		log.Fatalf("reading input: %v", err)
	}
}
