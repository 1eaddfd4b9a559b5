package main

import (
	"fmt"
	"os"
	"strings"
)

// switchMode is the auto|on|off value of --color and --ui.
type switchMode string

const (
	modeAuto switchMode = "auto"
	modeOn   switchMode = "on"
	modeOff  switchMode = "off"
)

func parseSwitch(flag, value string) (switchMode, error) {
	switch mode := switchMode(strings.TrimSpace(strings.ToLower(value))); mode {
	case "", modeAuto:
		return modeAuto, nil
	case modeOn, modeOff:
		return mode, nil
	default:
		return "", fmt.Errorf("invalid --%s value %q (expected auto|on|off)", flag, value)
	}
}

// enabled resolves auto by looking at whether f is a terminal.
func (m switchMode) enabled(f *os.File) bool {
	switch m {
	case modeOn:
		return true
	case modeOff:
		return false
	default:
		return isTerminal(f)
	}
}
