package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	characterName  string
	characterClass string
)

var characterCmd = &cobra.Command{
	Use:   "character",
	Short: "Create or inspect your character",
}

var characterCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create your character",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withApp(cmd.Context(), func(app *App) error {
			c, err := app.Service.CreateCharacter(cmd.Context(), ownerID, characterName, characterClass)
			if err != nil {
				return fmt.Errorf("creating character: %w", err)
			}
			printCharacter(cmd.OutOrStdout(), c)
			return nil
		})
	},
}

var characterShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show your character sheet",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withApp(cmd.Context(), func(app *App) error {
			c, err := app.Service.GetCharacter(cmd.Context(), ownerID)
			if err != nil {
				return err
			}
			printCharacter(cmd.OutOrStdout(), c)
			return nil
		})
	},
}

func init() {
	characterCreateCmd.Flags().StringVar(&characterName, "name", "", "character name (required)")
	characterCreateCmd.Flags().StringVar(&characterClass, "class", "warrior", "class: warrior, mage, or rogue")
	_ = characterCreateCmd.MarkFlagRequired("name")

	characterCmd.AddCommand(characterCreateCmd)
	characterCmd.AddCommand(characterShowCmd)
}
