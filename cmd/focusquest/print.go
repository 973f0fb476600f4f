package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/cory-johannsen/focusquest/internal/game/catalog"
	"github.com/cory-johannsen/focusquest/internal/game/character"
	"github.com/cory-johannsen/focusquest/internal/game/quest"
	"github.com/cory-johannsen/focusquest/internal/gameserver"
)

var slotOrder = []catalog.Slot{
	catalog.SlotHead, catalog.SlotBody, catalog.SlotWeapon, catalog.SlotAccessory, catalog.SlotLegs,
}

func printCharacter(w io.Writer, c *character.Character) {
	d := c.Derived()
	a := c.Attributes
	fmt.Fprintf(w, "%s the %s, level %d\n", c.Name, c.Class, c.Level)
	fmt.Fprintf(w, "XP %d/%d  HP %d/%d  Gold %d  Stat points %d\n",
		c.XP, c.XPToNextLevel(), c.CurrentHP, c.MaxHP, c.Gold, c.StatPoints)
	fmt.Fprintf(w, "STR %d  AGI %d  VIT %d  INT %d  DEX %d  LUK %d\n", a.Str, a.Agi, a.Vit, a.Int, a.Dex, a.Luk)
	fmt.Fprintf(w, "ATK %.0f  DEF %.0f  HIT %.0f  FLEE %.0f  CRIT %.1f%%  ASPD %.2f\n",
		d.Atk, d.Def, d.Hit, d.Flee, d.Crit, d.ASPD)

	fmt.Fprintln(w, "Equipment:")
	for _, slot := range slotOrder {
		name := "-"
		if item := c.Equipment[slot]; item != nil {
			name = item.Name
		}
		fmt.Fprintf(w, "  %-9s %s\n", slot, name)
	}
	if len(c.Inventory) == 0 {
		fmt.Fprintln(w, "Inventory: empty")
		return
	}
	fmt.Fprintln(w, "Inventory:")
	for _, s := range c.Inventory {
		fmt.Fprintf(w, "  %3d x %s (%s)\n", s.Quantity, s.Name, s.ItemID)
	}
}

func printQuests(w io.Writer, quests []*quest.Quest) {
	if len(quests) == 0 {
		fmt.Fprintln(w, "No quests.")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tMIN\tAREA\tSTATUS")
	for _, q := range quests {
		area := q.AreaID
		if area == "" {
			area = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n", q.ID, q.Title, q.DurationMinutes, area, q.Status)
	}
	_ = tw.Flush()
}

func printCompletion(w io.Writer, comp gameserver.Completion) {
	fmt.Fprintf(w, "Quest complete: %s\n", comp.Quest.Title)
	if res := comp.Combat; res != nil {
		kills := make([]string, 0, len(res.Kills))
		for _, k := range res.Kills {
			kills = append(kills, fmt.Sprintf("%d x %s", k.Count, k.EnemyName))
		}
		fmt.Fprintf(w, "Encounters %d, kills: %s\n", res.Encounters, strings.Join(kills, ", "))
		for _, d := range res.ItemsDropped {
			fmt.Fprintf(w, "  loot: %s\n", d.Name)
		}
	}
	sum := comp.Summary
	fmt.Fprintf(w, "+%d XP  +%d gold  -%d HP\n", sum.XPGained, sum.GoldGained, sum.HPLost)
	if sum.LeveledUp() {
		fmt.Fprintf(w, "Level up! Now level %d with %d new stat points.\n", sum.NewLevel, sum.StatPointsGained)
	}
	printCharacter(w, comp.Character)
}
