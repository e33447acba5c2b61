package main

import (
	"context"
	_ "embed"
	"flag"
	"os"
	"os/signal"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/kinematic/body"
	"github.com/oomph-ac/kinematic/physics"
	"github.com/oomph-ac/kinematic/prefab"
	"github.com/oomph-ac/kinematic/settings"
	"github.com/oomph-ac/kinematic/simulation"
	"github.com/oomph-ac/kinematic/world"
	"github.com/sirupsen/logrus"
)

//go:embed bodies.yaml
var defaultPrefabs []byte

// The following program spawns a set of prefab bodies and walks the player body between waypoints.
func main() {
	settingsPath := flag.String("settings", "settings.toml", "path of the settings file, created if missing")
	prefabPath := flag.String("prefabs", "", "path of a prefab file, the built in scene is used if empty")
	ticks := flag.Int("ticks", 0, "amount of ticks to run before exiting, 0 runs until interrupted")
	flag.Parse()

	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		ForceColors:     true,
		TimestampFormat: "2006-01-02 15:04:05",
		FullTimestamp:   true,
	})
	logger.SetLevel(logrus.DebugLevel)

	conf, err := settings.Load(*settingsPath)
	if err != nil {
		logger.Fatalf("unable to load settings: %v", err)
	}

	if conf.Sentry.DSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         conf.Sentry.DSN,
			Environment: conf.Sentry.Environment,
		}); err != nil {
			logger.Fatalf("unable to initialize sentry: %v", err)
		}
		defer sentry.Flush(2 * time.Second)
	}

	if os.Getenv("KINEMATIC_STATSVIEW") != "" {
		viewer.SetConfiguration(viewer.WithTheme(viewer.ThemeWesteros), viewer.WithAddr("localhost:8080"))
		mgr := statsview.New()
		go mgr.Start()
		defer mgr.Stop()
	}

	spec, err := loadPrefabs(*prefabPath)
	if err != nil {
		logger.Fatal(err)
	}

	gravity := conf.Simulation.Gravity.Vec3()
	bodies := body.NewSet()
	engine := world.New(bodies, world.Options{Gravity: gravity, SpeculativeMargin: conf.Simulation.SpeculativeMargin})

	var modes []simulation.DebugMode
	for _, name := range conf.Debug.Modes {
		mode, err := simulation.ParseDebugMode(name)
		if err != nil {
			logger.Warnf("ignoring debug mode: %v", err)
			continue
		}
		modes = append(modes, mode)
	}
	sim := simulation.New(logger, engine, bodies, simulation.Options{
		Timestep:        conf.Timestep(),
		ParallelResolve: conf.Simulation.ParallelResolve,
		Debug:           modes,
	})

	names := make(map[physics.BodyID]string, len(spec.Bodies))
	var player physics.BodyID
	for i, bs := range spec.Bodies {
		id := physics.BodyID(i + 1)
		b, err := bs.Build(id, gravity)
		if err != nil {
			logger.Fatal(err)
		}
		if err := sim.Spawn(b); err != nil {
			logger.Fatal(err)
		}
		names[id] = bs.Name
		if player == 0 && b.Controller != nil {
			player = id
		}
	}
	if player == 0 {
		logger.Fatal("no controller body to drive in the prefab file")
	}

	sim.OnGroundedChange(func(id physics.BodyID, grounded bool) {
		logger.WithField("body", names[id]).Infof("grounded=%t", grounded)
	})

	driver := &follower{
		id: player,
		waypoints: []mgl32.Vec3{
			{8, 0, 0},
			{8, 0, 8},
			{-6, 0, 6},
			{0, 0, 0},
		},
		stopRange: 0.5,
		jumpEvery: uint64(conf.Simulation.TickRate) * 3,
	}

	if *ticks > 0 {
		for range *ticks {
			driver.drive(sim)
			sim.Step()
		}
		logTimings(logger, sim)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	go func() {
		t := time.NewTicker(time.Duration(float64(conf.Timestep()) * float64(time.Second)))
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				driver.drive(sim)
			}
		}
	}()

	logger.Infof("running at %d ticks per second, press ctrl+c to stop", conf.Simulation.TickRate)
	_ = sim.Run(ctx)
	logTimings(logger, sim)
}

func loadPrefabs(path string) (*prefab.Spec, error) {
	if path == "" {
		return prefab.Parse(defaultPrefabs)
	}
	return prefab.LoadSpec(path)
}

func logTimings(logger *logrus.Logger, sim *simulation.Simulation) {
	mean, stdDev, median := sim.TimingStats()
	logger.Infof("ran %d ticks: mean=%.4fms median=%.4fms stddev=%.4fms", sim.Tick(), mean, median, stdDev)
}
