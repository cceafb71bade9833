// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// pca9505 drives a PCA9505 GPIO expander from the command line.
//
// Examples:
//
//	pca9505 -c scan
//	pca9505 -a 0x21 -c begin
//	pca9505 -c mode P0 out
//	pca9505 -c write 3 high
//	pca9505 -c watch -interval 100ms
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"time"

	"github.com/antongulenko/golib"
	"github.com/maruel/ansi256"
	"github.com/mattn/go-colorable"
	log "github.com/sirupsen/logrus"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"

	"github.com/GermanBionicSystems/expanders/pca9505"
	"github.com/GermanBionicSystems/expanders/pca9505/pca9505test"
)

type commandFunc func(a *app, args []string) error

var (
	busName  = ""
	addr     = uint(0x20)
	fake     = false
	command  = "dump"
	interval = 250 * time.Millisecond
	commands = map[string]commandFunc{
		"scan":  scan,
		"begin": begin,
		"mode":  mode,
		"write": write,
		"read":  read,
		"irq":   irq,
		"dump":  dump,
		"watch": watch,
	}
)

func main() {
	flag.StringVar(&busName, "b", busName, "I²C bus to use")
	flag.UintVar(&addr, "a", addr, "I²C address of the PCA9505 (0x20-0x27)")
	flag.BoolVar(&fake, "fake", fake, "Use a simulated chip instead of the hardware")
	flag.StringVar(&command, "c", command, fmt.Sprintf("Command to execute, one of: %v", commandNames()))
	flag.DurationVar(&interval, "interval", interval, "Polling interval (watch command)")
	golib.RegisterLogFlags()
	flag.Parse()
	golib.ConfigureLogging()
	golib.Checkerr(doMain())
}

func doMain() error {
	bus, closer, err := openBus()
	if err != nil {
		return err
	}
	if closer != nil {
		defer closer.Close()
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt)
	go func() {
		<-sig
		log.Debugln("Interrupted")
		cancel()
	}()
	a := newApp(ctx, bus, uint16(addr), colorable.NewColorableStdout())
	return a.run(command, flag.Args())
}

func openBus() (pca9505.Bus, io.Closer, error) {
	if fake {
		log.Infof("Using a simulated PCA9505 at 0x%02x", addr)
		return pca9505.NewBus(pca9505test.New(uint16(addr))), nil, nil
	}
	if _, err := host.Init(); err != nil {
		return nil, nil, err
	}
	b, err := i2creg.Open(busName)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open I²C: %v", err)
	}
	log.Debugf("Opened I²C bus %s", b)
	return pca9505.NewBus(b), b, nil
}

func commandNames() []string {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

type app struct {
	ctx  context.Context
	bus  pca9505.Bus
	addr uint16
	out  io.Writer
	view *pinView
	dev  *pca9505.Dev
}

func newApp(ctx context.Context, bus pca9505.Bus, addr uint16, out io.Writer) *app {
	return &app{
		ctx:  ctx,
		bus:  bus,
		addr: addr,
		out:  out,
		view: newPinView(out, ansi256.Default),
	}
}

func (a *app) run(name string, args []string) error {
	cmd, ok := commands[name]
	if !ok {
		return fmt.Errorf("unknown command %q, available commands: %v", name, commandNames())
	}
	if name != "scan" {
		dev, err := pca9505.New(a.bus, &pca9505.Opts{Addr: a.addr})
		if err != nil {
			return err
		}
		defer dev.Close()
		a.dev = dev
		log.Debugf("Connected to %s", dev)
	}
	return cmd(a, args)
}
