package main

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cory-johannsen/focusquest/internal/game/quest"
	"github.com/cory-johannsen/focusquest/internal/gameserver"
	"github.com/cory-johannsen/focusquest/internal/server"
)

var (
	questMinutes     int
	questArea        string
	questDescription string
	questBoard       string
)

var questCmd = &cobra.Command{
	Use:   "quest",
	Short: "Plan and run focus quests",
}

var questAddCmd = &cobra.Command{
	Use:   "add TITLE",
	Short: "Add a quest to your board",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd.Context(), func(app *App) error {
			q, err := app.Service.CreateQuest(cmd.Context(), ownerID, args[0], questDescription, questMinutes, questArea)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added quest %s\n", q.ID)
			printQuests(cmd.OutOrStdout(), []*quest.Quest{q})
			return nil
		})
	},
}

var questListCmd = &cobra.Command{
	Use:   "list",
	Short: "List your quests, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		board, err := quest.ParseBoard(questBoard)
		if err != nil {
			return err
		}
		return withApp(cmd.Context(), func(app *App) error {
			quests, err := app.Service.ListQuests(cmd.Context(), ownerID, board)
			if err != nil {
				return err
			}
			printQuests(cmd.OutOrStdout(), quests)
			return nil
		})
	},
}

var questDeleteCmd = &cobra.Command{
	Use:   "delete QUEST_ID",
	Short: "Remove a quest from your board",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd.Context(), func(app *App) error {
			return app.Service.DeleteQuest(cmd.Context(), ownerID, args[0])
		})
	},
}

var questCompleteCmd = &cobra.Command{
	Use:   "complete QUEST_ID",
	Short: "Complete a quest now and claim its reward",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd.Context(), func(app *App) error {
			comp, err := app.Service.CompleteQuest(cmd.Context(), ownerID, args[0])
			if err != nil {
				return err
			}
			printCompletion(cmd.OutOrStdout(), comp)
			return nil
		})
	},
}

var questWatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print your board every time it changes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withApp(cmd.Context(), func(app *App) error {
			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()
			updates, err := app.Service.WatchQuests(ctx, ownerID)
			if err != nil {
				return err
			}
			lifecycle := server.NewLifecycle(app.Logger)
			lifecycle.Add("quest-watch", &server.FuncService{
				StartFn: func() error {
					for list := range updates {
						fmt.Fprintf(cmd.OutOrStdout(), "--- %s\n", time.Now().Format(time.Kitchen))
						printQuests(cmd.OutOrStdout(), list)
					}
					return nil
				},
				StopFn: cancel,
			})
			return lifecycle.Run(ctx)
		})
	},
}

var questRunCmd = &cobra.Command{
	Use:   "run QUEST_ID",
	Short: "Start a focus session; Ctrl-C abandons it without reward",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd.Context(), func(app *App) error {
			return runFocusSession(cmd, app, args[0])
		})
	},
}

type outcome struct {
	completion gameserver.Completion
	err        error
}

// sessionOutcome carries the completion reported by a session timer. It is
// set at most once and can be read any number of times after fired closes.
type sessionOutcome struct {
	once  sync.Once
	fired chan struct{}
	value outcome
}

func newSessionOutcome() *sessionOutcome {
	return &sessionOutcome{fired: make(chan struct{})}
}

func (s *sessionOutcome) deliver(o outcome) {
	s.once.Do(func() {
		s.value = o
		close(s.fired)
	})
}

// ready returns the outcome without blocking.
func (s *sessionOutcome) ready() (outcome, bool) {
	select {
	case <-s.fired:
		return s.value, true
	default:
		return outcome{}, false
	}
}

func (s *sessionOutcome) wait() outcome {
	<-s.fired
	return s.value
}

func runFocusSession(cmd *cobra.Command, app *App, questID string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	result := newSessionOutcome()
	sess, err := app.Service.StartQuest(ctx, ownerID, questID, func(c gameserver.Completion, err error) {
		result.deliver(outcome{completion: c, err: err})
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Focus session started: %d minutes\n", sess.Minutes)

	stop := make(chan struct{})
	lifecycle := server.NewLifecycle(app.Logger)
	lifecycle.AddTask("focus-session", &server.FuncService{
		StartFn: func() error {
			select {
			case <-result.fired:
			case <-stop:
			}
			return nil
		},
		StopFn: func() { close(stop) },
	})
	lifecycle.Add("countdown", &server.FuncService{
		StartFn: func() error {
			ticker := time.NewTicker(app.Config.Session.MinuteDuration)
			defer ticker.Stop()
			for {
				select {
				case <-ticker.C:
					fmt.Fprintf(out, "  %s remaining\n", sess.Remaining().Round(time.Second))
				case <-stop:
					return nil
				}
			}
		},
	})
	if err := lifecycle.Run(ctx); err != nil {
		return err
	}

	if o, ok := result.ready(); ok {
		return reportOutcome(cmd, o)
	}
	if _, err := app.Service.CancelQuest(context.Background(), ownerID, questID); err != nil {
		if errors.Is(err, gameserver.ErrNoSession) {
			// The session elapsed while shutting down; its completion is in flight.
			return reportOutcome(cmd, result.wait())
		}
		return err
	}
	app.Logger.Info("focus session abandoned", zap.String("quest", questID))
	fmt.Fprintln(out, "Focus session abandoned; no reward.")
	return nil
}

func reportOutcome(cmd *cobra.Command, o outcome) error {
	if o.err != nil {
		return fmt.Errorf("completing quest: %w", o.err)
	}
	printCompletion(cmd.OutOrStdout(), o.completion)
	return nil
}

func init() {
	questAddCmd.Flags().IntVar(&questMinutes, "minutes", quest.DefaultDuration, "focus duration in minutes")
	questAddCmd.Flags().StringVar(&questArea, "area", "", "hunting area id; empty for a plain timed reward")
	questAddCmd.Flags().StringVar(&questDescription, "description", "", "quest description")
	questListCmd.Flags().StringVar(&questBoard, "board", "all", "board: all, todo, or done")

	questCmd.AddCommand(questAddCmd)
	questCmd.AddCommand(questListCmd)
	questCmd.AddCommand(questDeleteCmd)
	questCmd.AddCommand(questCompleteCmd)
	questCmd.AddCommand(questWatchCmd)
	questCmd.AddCommand(questRunCmd)
}
