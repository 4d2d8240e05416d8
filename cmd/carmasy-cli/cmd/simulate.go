package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/nfrund/carmasy/internal/dashboard"
)

var simulateIDSource string

var simulateCmd = &cobra.Command{
	Use:   "simulate <event>...",
	Short: "Replay events against a fresh session and print the result",
	Long: `Apply each event, in order, to a new dashboard session and print what
happened followed by the final state. Arguments use name:key=value,... form.

Examples:
  carmasy-cli simulate increment increment decrement
  carmasy-cli simulate "save:name=Alice,email=alice@example.com"
  carmasy-cli simulate dismissNotification:id=1 toggleDarkMode`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		events := make([]dashboard.Event, 0, len(args))
		for _, arg := range args {
			ev, err := dashboard.ParseEvent(arg)
			if err != nil {
				return err
			}
			events = append(events, ev)
		}
		return simulate(cmd.Context(), cmd.OutOrStdout(), simulateIDSource, events)
	},
}

func init() {
	simulateCmd.Flags().StringVar(&simulateIDSource, "id-source", "sequence", "Notification id source (sequence, clock)")
	rootCmd.AddCommand(simulateCmd)
}

const simulatedSession = "cli"

// simulate applies events in order. Validation failures are reported and the
// replay continues; any other rejection stops it.
func simulate(ctx context.Context, w io.Writer, idSource string, events []dashboard.Event) error {
	if ctx == nil {
		ctx = context.Background()
	}
	store := dashboard.NewStore(dashboard.WithIDSource(func() dashboard.IDSource {
		return dashboard.NewIDSource(idSource)
	}))
	defer store.End(simulatedSession)

	state, err := store.Snapshot(simulatedSession)
	if err != nil {
		return err
	}
	for i, ev := range events {
		state, err = store.Apply(ctx, simulatedSession, ev)
		var verr *dashboard.ValidationError
		switch {
		case err == nil:
			fmt.Fprintf(w, "%d. %s: ok\n", i+1, ev.Name)
		case errors.As(err, &verr):
			fmt.Fprintf(w, "%d. %s: invalid\n", i+1, ev.Name)
			for _, f := range verr.Fields {
				fmt.Fprintf(w, "   %s: %s\n", f.Field, f.Message)
			}
		default:
			return fmt.Errorf("event %d (%s): %w", i+1, ev.Name, err)
		}
	}

	printState(w, state)
	return nil
}

func printState(w io.Writer, s dashboard.State) {
	mode := "light"
	if s.IsDarkMode {
		mode = "dark"
	}
	fmt.Fprintf(w, "\ncounter: %d\nmode: %s\nname: %q\nemail: %q\n", s.Counter, mode, s.Name, s.Email)
	fmt.Fprintf(w, "notifications (%d):\n", len(s.Notifications))
	for _, n := range s.Notifications {
		fmt.Fprintf(w, "  [%d] %-7s %s\n", n.ID, n.Kind, n.Message)
	}
}
