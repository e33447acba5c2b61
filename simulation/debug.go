package simulation

import (
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
)

// DebugMode selects a category of debug output.
type DebugMode int

const (
	DebugModeIntents DebugMode = iota
	DebugModeGround
	DebugModeCollisions
	DebugModeTiming
	debugModeCount
)

var debugModeNames = [debugModeCount]string{"intents", "ground", "collisions", "timing"}

func (m DebugMode) String() string {
	if m < 0 || m >= debugModeCount {
		return fmt.Sprintf("DebugMode(%d)", int(m))
	}
	return debugModeNames[m]
}

// ParseDebugMode returns the mode with the given name.
func ParseDebugMode(name string) (DebugMode, error) {
	for i, n := range debugModeNames {
		if n == name {
			return DebugMode(i), nil
		}
	}
	return 0, fmt.Errorf("simulation: unknown debug mode %q", name)
}

// Debugger writes debug lines for the modes that are enabled to a logger at debug level.
type Debugger struct {
	mu      sync.RWMutex
	log     *logrus.Logger
	enabled [debugModeCount]bool
}

// NewDebugger creates a Debugger with the given modes enabled.
func NewDebugger(log *logrus.Logger, modes ...DebugMode) *Debugger {
	d := &Debugger{log: log}
	for _, m := range modes {
		d.Toggle(m)
	}
	return d
}

// Toggle flips the given mode on or off.
func (d *Debugger) Toggle(mode DebugMode) {
	if mode < 0 || mode >= debugModeCount {
		return
	}
	d.mu.Lock()
	d.enabled[mode] = !d.enabled[mode]
	d.mu.Unlock()
}

// Enabled returns true if the mode is on.
func (d *Debugger) Enabled(mode DebugMode) bool {
	if mode < 0 || mode >= debugModeCount {
		return false
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.enabled[mode]
}

// Notify logs the formatted message if cond holds and the mode is enabled.
func (d *Debugger) Notify(mode DebugMode, cond bool, format string, args ...any) {
	if !cond || !d.Enabled(mode) {
		return
	}
	d.log.WithField("debug", mode.String()).Debugf(format, args...)
}
