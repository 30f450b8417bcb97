package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/smolrome/DailyTimeRecord/internal/cli/formatter"
	"github.com/smolrome/DailyTimeRecord/internal/domain"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// kindValue is a pflag.Value restricted to "work" and "break". The zero
// value means both.
type kindValue struct {
	kind domain.Kind
}

var _ pflag.Value = (*kindValue)(nil)

func (k *kindValue) String() string { return string(k.kind) }

func (k *kindValue) Set(s string) error {
	kind, err := domain.ParseKind(strings.ToLower(strings.TrimSpace(s)))
	if err != nil {
		return err
	}
	k.kind = kind
	return nil
}

func (k *kindValue) Type() string { return "work|break" }

func (k *kindValue) includes(kind domain.Kind) bool {
	return k.kind == "" || k.kind == kind
}

// recordArgs parses "<work|break> <N>" with a 1-based N into a kind and
// a 0-based index.
func recordArgs(args []string) (domain.Kind, int, error) {
	var kv kindValue
	if err := kv.Set(args[0]); err != nil {
		return "", 0, err
	}
	n, err := strconv.Atoi(args[1])
	if err != nil || n < 1 {
		return "", 0, fmt.Errorf("record number must be a positive integer, got %q", args[1])
	}
	return kv.kind, n - 1, nil
}

func newRecordsCmd(app *App) *cobra.Command {
	var kind kindValue

	cmd := &cobra.Command{
		Use:     "records",
		Aliases: []string{"ls"},
		Short:   "List work sessions and breaks",
		RunE: func(cmd *cobra.Command, args []string) error {
			asOf := app.now()
			var works, breaks []domain.Record
			for _, r := range app.tracker().Records() {
				if r.Kind == domain.KindWork {
					works = append(works, r)
				} else {
					breaks = append(breaks, r)
				}
			}

			out := cmd.OutOrStdout()
			if kind.includes(domain.KindWork) {
				fmt.Fprintln(out, formatter.FormatRecords(domain.KindWork, works, asOf))
			}
			if kind.includes(domain.KindBreak) {
				fmt.Fprintln(out, formatter.FormatRecords(domain.KindBreak, breaks, asOf))
			}
			if notes := app.tracker().Notes(); notes != "" && kind.kind == "" {
				fmt.Fprintf(out, "%s\n%s\n", formatter.Header("Notes"), notes)
			}
			return nil
		},
	}

	cmd.Flags().Var(&kind, "kind", "Only list one kind: work or break")
	return cmd
}

func newEditCmd(app *App) *cobra.Command {
	var start, end, label string
	var reopen bool

	cmd := &cobra.Command{
		Use:   "edit <work|break> <N>",
		Short: "Change the start, end or label of a record",
		Long: "Change a record by its number in \"dtr records\". Times of day apply to the\n" +
			"record's own date; flags that are not given keep their current value.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, index, err := recordArgs(args)
			if err != nil {
				return err
			}
			cur, err := app.tracker().Record(kind, index)
			if err != nil {
				return err
			}

			now := app.now()
			newStart := cur.Start
			if cmd.Flags().Changed("start") {
				if newStart, err = parseWhen(start, cur.Start, now); err != nil {
					return err
				}
			}
			newEnd := cur.End
			switch {
			case reopen:
				newEnd = nil
			case cmd.Flags().Changed("end"):
				t, err := parseWhen(end, cur.Start, now)
				if err != nil {
					return err
				}
				newEnd = &t
			}
			newLabel := cur.Label
			if cmd.Flags().Changed("label") {
				newLabel = label
			}

			if err := app.tracker().Edit(cmd.Context(), kind, index, newStart, newEnd, newLabel); err != nil {
				return err
			}
			updated, err := app.tracker().Record(kind, index)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %s %d\n%s", kind, index+1,
				formatter.FormatRecords(kind, []domain.Record{updated}, now))
			return nil
		},
	}

	cmd.Flags().StringVar(&start, "start", "", "New start (HH:MM on the record's date, or a full timestamp)")
	cmd.Flags().StringVar(&end, "end", "", "New end (HH:MM on the record's date, or a full timestamp)")
	cmd.Flags().BoolVar(&reopen, "open", false, "Clear the end so the record is in progress again")
	cmd.Flags().StringVar(&label, "label", "", "New task or break type (empty resets to the default)")
	cmd.MarkFlagsMutuallyExclusive("end", "open")
	return cmd
}

func newRemoveCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "rm <work|break> <N>",
		Aliases: []string{"delete"},
		Short:   "Delete a record; later records move up one number",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, index, err := recordArgs(args)
			if err != nil {
				return err
			}
			rec, err := app.tracker().Record(kind, index)
			if err != nil {
				return err
			}
			if err := app.tracker().Delete(cmd.Context(), kind, index); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s %d (%s, %s %s)\n", kind, index+1,
				rec.Label, rec.Start.Format("2006-01-02"), formatter.ClockTime(rec.Start))
			return nil
		},
	}
	return cmd
}
