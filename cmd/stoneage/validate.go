package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ubuntunux/stoneage/internal/game/gamedata"
)

var validateCmd = &cobra.Command{
	Use:   "validate <data.yaml>",
	Short: "Validate a game data file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		lib, err := gamedata.Load(args[0])
		if err != nil {
			return err
		}
		s := lib.Summary()
		fmt.Fprintf(cmd.OutOrStdout(),
			"%s: ok\n  clips %d\n  characters %d\n  weapons %d\n  behaviors %d\n  obstacles %d\n  spawns %d\n  inputs %d\n",
			args[0], s.Clips, s.Characters, s.Weapons, s.Behaviors, s.Obstacles, s.Spawns, s.Inputs)
		return nil
	},
}
