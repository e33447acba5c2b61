package settings

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/kinematic/game"
	"github.com/pelletier/go-toml"
)

// Settings contains everything that can be configured for a simulation run.
type Settings struct {
	Simulation struct {
		// TickRate is the amount of fixed ticks run per second.
		TickRate int
		Gravity  Vec3
		// ParallelResolve resolves the contacts of different controllers concurrently.
		ParallelResolve bool
		// SpeculativeMargin is the largest gap between two colliders still reported as a contact.
		SpeculativeMargin float32
	}
	Debug struct {
		// Modes lists the debug modes enabled on start, such as "ground" or "collisions".
		Modes []string
	}
	Sentry struct {
		// DSN enables error reporting to sentry when not empty.
		DSN         string
		Environment string
	}
}

// Vec3 is a vector in the settings file.
type Vec3 struct {
	X, Y, Z float32
}

// Vec3 ...
func (v Vec3) Vec3() mgl32.Vec3 {
	return mgl32.Vec3{v.X, v.Y, v.Z}
}

// DefaultSettings returns the default settings.
func DefaultSettings() Settings {
	s := Settings{}
	s.Simulation.TickRate = 64
	s.Simulation.Gravity = Vec3{X: game.DefaultGravity.X(), Y: game.DefaultGravity.Y(), Z: game.DefaultGravity.Z()}
	s.Simulation.SpeculativeMargin = 0.05
	s.Sentry.Environment = "development"
	return s
}

// Timestep returns the length of a tick in seconds.
func (s Settings) Timestep() float32 {
	if s.Simulation.TickRate <= 0 {
		return 0
	}
	return 1 / float32(s.Simulation.TickRate)
}

// Save encodes the settings to the file at path, overwriting it.
func Save(path string, s Settings) error {
	data, err := toml.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed encoding settings: %v", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed writing settings file: %v", err)
	}
	return nil
}

// Load loads the settings from the file at path. If the file does not exist yet, it is created with
// the default settings, which are then returned.
func Load(path string) (Settings, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		s := DefaultSettings()
		return s, Save(path, s)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, fmt.Errorf("error reading settings: %v", err)
	}

	s := DefaultSettings()
	if err = toml.Unmarshal(data, &s); err != nil {
		return Settings{}, fmt.Errorf("error decoding settings: %v", err)
	}
	if s.Simulation.TickRate <= 0 {
		return Settings{}, fmt.Errorf("invalid tick rate %d", s.Simulation.TickRate)
	}
	return s, nil
}
