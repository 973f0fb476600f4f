package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var allocatePoints int

var allocateCmd = &cobra.Command{
	Use:   "allocate ATTRIBUTE",
	Short: "Spend stat points on an attribute (str, agi, vit, int, dex, luk)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd.Context(), func(app *App) error {
			c, err := app.Service.Allocate(cmd.Context(), ownerID, args[0], allocatePoints)
			if err != nil {
				return err
			}
			printCharacter(cmd.OutOrStdout(), c)
			return nil
		})
	},
}

// areasCmd needs only the catalog, so it runs without any store.
var areasCmd = &cobra.Command{
	Use:   "areas",
	Short: "List hunting areas and their enemies",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		cat, err := provideCatalog(cfg, zap.NewNop())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, a := range cat.Areas() {
			fmt.Fprintf(out, "%s (%s) min level %d\n", a.Name, a.ID, a.MinLevel)
			for _, e := range a.Roster {
				fmt.Fprintf(out, "  %-16s L%-3d hp %-4d atk %-3d def %d\n", e.Name, e.Level, e.HP, e.Atk, e.Def)
			}
		}
		return nil
	},
}

func init() {
	allocateCmd.Flags().IntVar(&allocatePoints, "points", 1, "number of points to spend")
}
