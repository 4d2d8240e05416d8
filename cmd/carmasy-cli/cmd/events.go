package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"unicode"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/nfrund/carmasy/internal/dashboard"
)

var eventsOutputFormat string

// eventDisplay represents an event for display purposes
type eventDisplay struct {
	Name        string   `json:"name"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Args        []string `json:"args,omitempty"`
}

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "List the events a dashboard session accepts",
	Long: `List every event registered in the dashboard catalogue, in the order
controls dispatch them. Each of these can be posted to
/dashboard/events/<name>, sent over the WebSocket, or replayed with
"carmasy-cli simulate".

Examples:
  carmasy-cli events
  carmasy-cli events --format json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		events := describeEvents(dashboard.DefaultCatalogue())
		switch eventsOutputFormat {
		case "table":
			return displayEventsTable(cmd.OutOrStdout(), events)
		case "json":
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(events)
		default:
			return fmt.Errorf("invalid format %q, valid formats: table, json", eventsOutputFormat)
		}
	},
}

func init() {
	eventsCmd.Flags().StringVarP(&eventsOutputFormat, "format", "f", "table", "Output format (table, json)")
	rootCmd.AddCommand(eventsCmd)
}

func describeEvents(c *dashboard.Catalogue) []eventDisplay {
	list := c.List()
	out := make([]eventDisplay, 0, len(list))
	for _, d := range list {
		out = append(out, eventDisplay{
			Name:        string(d.Name),
			Title:       titleFor(string(d.Name)),
			Description: d.Description,
			Args:        d.Args,
		})
	}
	return out
}

// titleFor turns a camelCase event name into words: "toggleDarkMode"
// becomes "Toggle Dark Mode".
func titleFor(name string) string {
	var b strings.Builder
	for i, r := range name {
		if i > 0 && unicode.IsUpper(r) {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	return cases.Title(language.English).String(b.String())
}

func displayEventsTable(w io.Writer, events []eventDisplay) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tTITLE\tARGS\tDESCRIPTION")
	fmt.Fprintln(tw, "----\t-----\t----\t-----------")
	for _, e := range events {
		args := strings.Join(e.Args, ",")
		if args == "" {
			args = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", e.Name, e.Title, args, e.Description)
	}
	return tw.Flush()
}
