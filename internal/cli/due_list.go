package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"

	"github.com/at-ishikawa/glean/internal/review"
)

type OutputFormat string

const (
	OutputTable OutputFormat = "table"
	OutputYAML  OutputFormat = "yaml"
)

var priorityColors = map[review.Priority]*color.Color{
	review.PriorityUrgent: color.New(color.FgRed, color.Bold),
	review.PriorityNormal: color.New(color.FgYellow),
	review.PriorityLow:    color.New(color.FgWhite),
}

// WriteDueList prints the review schedule in the given format.
func WriteDueList(output io.Writer, entries []review.ScheduleEntry, format OutputFormat) error {
	switch format {
	case OutputYAML:
		return writeYAML(output, entries)
	case OutputTable, "":
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}

	if len(entries) == 0 {
		_, _ = fmt.Fprintln(output, "Nothing to review today.")
		return nil
	}

	w := tabwriter.NewWriter(output, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tTITLE\tTOPIC\tDUE\tOVERDUE\tCONFIDENCE\tPRIORITY")
	for _, entry := range entries {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%d\t%s\n",
			entry.ItemID,
			entry.Title,
			entry.Topic,
			entry.DueDate,
			entry.DaysOverdue,
			entry.Confidence,
			priorityColors[entry.Priority].Sprint(entry.Priority),
		)
	}
	return w.Flush()
}

func writeYAML(output io.Writer, value any) error {
	encoder := yaml.NewEncoder(output)
	encoder.SetIndent(2)
	if err := encoder.Encode(value); err != nil {
		return fmt.Errorf("encoder.Encode() > %w", err)
	}
	if err := encoder.Close(); err != nil {
		return fmt.Errorf("encoder.Close() > %w", err)
	}
	return nil
}
