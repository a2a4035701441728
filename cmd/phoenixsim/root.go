// Package phoenixsim is the headless CLI driver standing in for the
// embedding application named in spec.md §6 — it ticks a Session and
// logs summary stats, with no rendering.
package phoenixsim

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/phoenix-sim/phoenix-core/config"
	"github.com/phoenix-sim/phoenix-core/session"
)

var (
	configPath string
	horizon    int64
	stepHz     uint32
	seed       int64
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:   "phoenixsim",
	Short: "Headless driver for the Phoenix deterministic simulation core",
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a session for a fixed number of ticks and log summary stats",
	Run: func(cmd *cobra.Command, args []string) {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)

		cfg := config.DefaultEngineConfig()
		if configPath != "" {
			loaded, err := config.Load(configPath)
			if err != nil {
				logrus.Fatalf("loading config: %v", err)
			}
			cfg = *loaded
		}
		if seed != 0 {
			cfg.Seed = seed
		}
		if stepHz != 0 {
			cfg.StepHz = stepHz
		}
		if horizon != 0 {
			cfg.Horizon = horizon
		}

		logrus.Infof("phoenixsim: starting run seed=%d step_hz=%d horizon=%d", cfg.Seed, cfg.StepHz, cfg.Horizon)

		features := session.NewFeatureSet()
		features.Register(session.NewECSFeature())
		features.Register(session.NewPhysicsFeature())
		features.Register(session.NewNavMeshFeature())
		sess := session.NewSession(features, cfg.Seed, session.DefaultWorldConfig())
		for _, w := range cfg.Worlds {
			seed := session.WorldSeed{
				NavMeshBoundsMin: w.NavMeshBoundsMin,
				NavMeshBoundsMax: w.NavMeshBoundsMax,
				NavMeshPoints:    w.NavMeshPoints,
			}
			for _, o := range w.NavMeshObstacles {
				seed.NavMeshObstacles = append(seed.NavMeshObstacles, session.NavMeshObstacleSeed{
					Center: o.Center,
					Radius: o.Radius,
				})
			}
			created := sess.WorldManager().NewWorldWithSeed(w.Name, seed)
			created.AllowSleep = cfg.AllowSleep
			created.Physics.AllowSleep = cfg.AllowSleep
		}
		sess.Initialize()

		horizonTicks := cfg.Horizon
		if horizonTicks <= 0 {
			horizonTicks = 1
		}
		for ticked := int64(0); ticked < horizonTicks; ticked++ {
			sess.Tick(session.ClocksPerSecond/int64(cfg.StepHz), cfg.StepHz)
		}
		sess.Shutdown()

		logrus.Infof("phoenixsim: run complete, sim_time=%d worlds=%d", sess.SimTime(), len(sess.WorldManager().Worlds()))
	},
}

// Execute runs the root command, exiting the process with status 1 on
// error, matching the teacher's cmd.Execute entrypoint.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	runCmd.Flags().StringVar(&configPath, "config", "", "path to an engine config YAML file")
	runCmd.Flags().Int64Var(&horizon, "horizon", 600, "number of ticks to run (0 = use the config's horizon_ticks, or a single tick if that is unset)")
	runCmd.Flags().Uint32Var(&stepHz, "step-hz", 60, "fixed simulation step rate")
	runCmd.Flags().Int64Var(&seed, "seed", 0, "master RNG seed (0 = use config default)")
	runCmd.Flags().StringVar(&logLevel, "log", "info", "log level (debug, info, warn, error)")

	rootCmd.AddCommand(runCmd)
}
