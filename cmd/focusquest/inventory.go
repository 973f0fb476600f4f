package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var sellAmount int

var inventoryCmd = &cobra.Command{
	Use:   "inventory",
	Short: "Sell, equip, and unequip items",
}

var sellCmd = &cobra.Command{
	Use:   "sell ITEM_ID",
	Short: "Sell items for gold",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd.Context(), func(app *App) error {
			receipt, err := app.Service.Sell(cmd.Context(), ownerID, args[0], sellAmount)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Sold %d x %s for %d gold (%d left)\n",
				receipt.Sold, receipt.ItemID, receipt.Gold, receipt.Remaining)
			return nil
		})
	},
}

var equipCmd = &cobra.Command{
	Use:   "equip ITEM_ID",
	Short: "Equip an item from your inventory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd.Context(), func(app *App) error {
			c, err := app.Service.Equip(cmd.Context(), ownerID, args[0])
			if err != nil {
				return err
			}
			printCharacter(cmd.OutOrStdout(), c)
			return nil
		})
	},
}

var unequipCmd = &cobra.Command{
	Use:   "unequip SLOT",
	Short: "Move the item in a slot back to your inventory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd.Context(), func(app *App) error {
			c, err := app.Service.Unequip(cmd.Context(), ownerID, args[0])
			if err != nil {
				return err
			}
			printCharacter(cmd.OutOrStdout(), c)
			return nil
		})
	},
}

func init() {
	sellCmd.Flags().IntVar(&sellAmount, "amount", 1, "number of items to sell")

	inventoryCmd.AddCommand(sellCmd)
	inventoryCmd.AddCommand(equipCmd)
	inventoryCmd.AddCommand(unequipCmd)
}
