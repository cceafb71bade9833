// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"periph.io/x/conn/v3/gpio"

	"github.com/GermanBionicSystems/expanders/pca9505"
)

// target is either a pin (3, 39) or a port (P0, P4).
type target struct {
	n      int
	isPort bool
}

func (t target) String() string {
	if t.isPort {
		return "P" + strconv.Itoa(t.n)
	}
	return "pin " + strconv.Itoa(t.n)
}

func parseTarget(s string) (target, error) {
	num := s
	isPort := strings.HasPrefix(strings.ToUpper(s), "P")
	if isPort {
		num = s[1:]
	}
	n, err := strconv.Atoi(num)
	if err != nil {
		return target{}, fmt.Errorf("invalid pin or port %q", s)
	}
	return target{n: n, isPort: isPort}, nil
}

func parseLevel(s string) (gpio.Level, error) {
	switch strings.ToLower(s) {
	case "high", "h", "1", "on":
		return gpio.High, nil
	case "low", "l", "0", "off":
		return gpio.Low, nil
	}
	return gpio.Low, fmt.Errorf("invalid level %q", s)
}

func parseOnOff(s string) (bool, error) {
	l, err := parseLevel(s)
	return bool(l), err
}

func needArgs(args []string, n int, usage string) error {
	if len(args) != n {
		return errors.New("usage: " + usage)
	}
	return nil
}

func scan(a *app, args []string) error {
	a.bus.Lock()
	found, err := a.bus.Scan()
	a.bus.Unlock()
	if err != nil {
		return err
	}
	log.Infof("Found %d devices", len(found))
	for _, addr := range found {
		fmt.Fprintf(a.out, "0x%02x\n", addr)
	}
	return nil
}

func begin(a *app, args []string) error {
	if err := a.dev.Begin(); err != nil {
		return err
	}
	log.Infof("%s reset: all pins inputs, interrupts disabled", a.dev)
	return nil
}

func mode(a *app, args []string) error {
	if err := needArgs(args, 2, "mode <pin|Pn> <in|out>"); err != nil {
		return err
	}
	t, err := parseTarget(args[0])
	if err != nil {
		return err
	}
	var dir pca9505.Direction
	switch strings.ToLower(args[1]) {
	case "in", "input":
		dir = pca9505.Input
	case "out", "output":
		dir = pca9505.Output
	default:
		return fmt.Errorf("invalid direction %q", args[1])
	}
	log.Debugf("Setting %s to %s", t, dir)
	if t.isPort {
		return a.dev.SetPortMode(t.n, dir)
	}
	return a.dev.SetPinMode(t.n, dir)
}

func write(a *app, args []string) error {
	if err := needArgs(args, 2, "write <pin|Pn> <high|low|0xNN>"); err != nil {
		return err
	}
	t, err := parseTarget(args[0])
	if err != nil {
		return err
	}
	if t.isPort && strings.HasPrefix(strings.ToLower(args[1]), "0x") {
		v, err := strconv.ParseUint(args[1][2:], 16, 8)
		if err != nil {
			return fmt.Errorf("invalid value %q", args[1])
		}
		return a.dev.WritePortValue(t.n, uint8(v))
	}
	l, err := parseLevel(args[1])
	if err != nil {
		return err
	}
	log.Debugf("Writing %s to %s", l, t)
	if t.isPort {
		return a.dev.WritePort(t.n, l)
	}
	return a.dev.WritePin(t.n, l)
}

func read(a *app, args []string) error {
	if err := needArgs(args, 1, "read <pin|Pn>"); err != nil {
		return err
	}
	t, err := parseTarget(args[0])
	if err != nil {
		return err
	}
	if t.isPort {
		v, err := a.dev.ReadPort(t.n)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "0x%02x\n", v)
		return nil
	}
	l, err := a.dev.ReadPin(t.n)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, l)
	return nil
}

func irq(a *app, args []string) error {
	if err := needArgs(args, 2, "irq <pin|Pn> <on|off>"); err != nil {
		return err
	}
	t, err := parseTarget(args[0])
	if err != nil {
		return err
	}
	enable, err := parseOnOff(args[1])
	if err != nil {
		return err
	}
	if t.isPort {
		return a.dev.SetPortInterrupt(t.n, enable)
	}
	return a.dev.SetPinInterrupt(t.n, enable)
}

func dump(a *app, args []string) error {
	dir, err := a.dev.PullDirectionMode()
	if err != nil {
		return err
	}
	in, err := a.dev.ReadPorts()
	if err != nil {
		return err
	}
	return a.view.render(in, dir)
}

func watch(a *app, args []string) error {
	dir, err := a.dev.PullDirectionMode()
	if err != nil {
		return err
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	var last pca9505.Vector
	first := true
	for {
		in, err := a.dev.ReadPorts()
		if err != nil {
			return err
		}
		if first || in != last {
			log.Debugf("Inputs changed: %#02x", in)
			if err := a.view.render(in, dir); err != nil {
				return err
			}
			first = false
			last = in
		}
		select {
		case <-a.ctx.Done():
			return nil
		case <-t.C:
		}
	}
}
