package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ubuntunux/stoneage/internal/config"
	"github.com/ubuntunux/stoneage/internal/game"
	"github.com/ubuntunux/stoneage/internal/game/gamedata"
	"github.com/ubuntunux/stoneage/internal/logger"
)

var (
	flagConfig   string
	flagDebug    bool
	flagFrames   int
	flagData     string
	flagWatch    bool
	flagRealtime bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the headless simulation",
	Long:  `Run loads the configuration and game data, spawns the scene and steps the simulation at a fixed rate.`,
	RunE:  runSimulation,
}

func init() {
	runCmd.Flags().StringVar(&flagConfig, "config", "", "Path to config file")
	runCmd.Flags().BoolVar(&flagDebug, "debug", false, "Enable debug logging")
	runCmd.Flags().IntVar(&flagFrames, "frames", 0, "Frames to simulate (0 runs until interrupted)")
	runCmd.Flags().StringVar(&flagData, "data", "", "Path to game data file")
	runCmd.Flags().BoolVar(&flagWatch, "watch", false, "Reload game data when it changes")
	runCmd.Flags().BoolVar(&flagRealtime, "realtime", false, "Pace frames in real time")
}

func overrides(cmd *cobra.Command) config.Overrides {
	o := config.Overrides{
		ConfigPath: flagConfig,
		Debug:      flagDebug,
		DataPath:   flagData,
	}
	flags := cmd.Flags()
	if flags.Changed("frames") {
		o.Frames = &flagFrames
	}
	if flags.Changed("watch") {
		o.Watch = &flagWatch
	}
	if flags.Changed("realtime") {
		o.Realtime = &flagRealtime
	}
	return o
}

func runSimulation(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(overrides(cmd))
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer logger.Sync()

	logger.Info("=== StoneAge ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	lib, err := gamedata.Load(cfg.Data.Path)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, err := game.New(cfg, lib)
	if err != nil {
		return err
	}
	defer g.Close()

	if err := g.Run(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Info("simulation interrupted")
			return nil
		}
		logger.Error("simulation error", zap.Error(err))
		return err
	}

	logger.Info("simulation finished normally")
	return nil
}
