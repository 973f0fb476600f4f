// Package main provides the focusquest command line: create a character, plan
// focus quests, and run focus sessions that pay out combat rewards.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cory-johannsen/focusquest/internal/config"
)

var (
	configPath string
	ownerID    string
)

var rootCmd = &cobra.Command{
	Use:           "focusquest",
	Short:         "Focus timer RPG",
	Long:          `focusquest turns focus sessions into quests: finish the timer and your character fights, levels up, and collects loot.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", os.Getenv("FOCUSQUEST_CONFIG"), "path to configuration file (defaults and environment when empty)")
	rootCmd.PersistentFlags().StringVar(&ownerID, "owner", os.Getenv("FOCUSQUEST_OWNER"), "owner id of the player")

	rootCmd.AddCommand(characterCmd)
	rootCmd.AddCommand(questCmd)
	rootCmd.AddCommand(inventoryCmd)
	rootCmd.AddCommand(allocateCmd)
	rootCmd.AddCommand(areasCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig() (config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return config.Config{}, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// withApp composes the service for one command and releases it afterwards.
func withApp(ctx context.Context, fn func(*App) error) error {
	if ownerID == "" {
		return errors.New("owner is required: pass --owner or set FOCUSQUEST_OWNER")
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	app, cleanup, err := initializeApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()
	defer app.Service.Shutdown()
	return fn(app)
}
