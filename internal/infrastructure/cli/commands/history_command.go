package commands

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/doeshing/aihelp/internal/app"
	"github.com/doeshing/aihelp/internal/domain"
	"github.com/doeshing/aihelp/internal/ports"
)

// NewHistoryCommand creates the history command with all subcommands
func NewHistoryCommand(container *app.Container) *cobra.Command {
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect past aihelp runs",
	}

	historyCmd.AddCommand(
		newHistoryListCommand(container),
		newHistoryClearCommand(container),
		newHistoryExportCommand(container),
	)

	return historyCmd
}

func newHistoryListCommand(container *app.Container) *cobra.Command {
	var (
		limit  int
		search string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent runs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := historyStore(container)
			if err != nil {
				return err
			}
			return listHistoryEntries(cmd.OutOrStdout(), store, limit, search)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", DefaultHistoryLimit, "Max entries to show (0 for all)")
	cmd.Flags().StringVar(&search, "search", "", "Only show runs whose prompt or command contains this text")
	return cmd
}

func newHistoryClearCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete all history entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := historyStore(container)
			if err != nil {
				return err
			}
			if err := store.Clear(); err != nil {
				return fmt.Errorf("failed to clear history: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), MsgHistoryCleared)
			return nil
		},
	}
}

func newHistoryExportCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "export <path>",
		Short: "Export history to a JSONL file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := historyStore(container)
			if err != nil {
				return err
			}
			if err := store.ExportJSON(args[0]); err != nil {
				return fmt.Errorf("failed to export history to %s: %w", args[0], err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "History exported to %s\n", args[0])
			return nil
		},
	}
}

func historyStore(container *app.Container) (ports.HistoryRepository, error) {
	store := container.History()
	if store == nil {
		return nil, errors.New(ErrHistoryStoreUnavailable)
	}
	return store, nil
}

func listHistoryEntries(out io.Writer, store ports.HistoryRepository, limit int, search string) error {
	records, err := store.Records(limit, search)
	if err != nil {
		return fmt.Errorf("failed to retrieve history records: %w", err)
	}
	if len(records) == 0 {
		fmt.Fprintln(out, MsgNoHistoryRecorded)
		return nil
	}

	for _, rec := range records {
		fmt.Fprintf(out, "%s | %s | %s | %s\n",
			rec.Timestamp.Local().Format(TimestampFormat),
			rec.Model,
			outcomeLabel(rec),
			displayCommand(rec))
	}
	return nil
}

func outcomeLabel(rec domain.HistoryRecord) string {
	switch {
	case rec.State == domain.StateDone:
		return "ok"
	case rec.AbortedIn == domain.StateExecuting:
		return fmt.Sprintf("exit %d", rec.ExitCode)
	case rec.AbortedIn != "":
		return "aborted in " + string(rec.AbortedIn)
	default:
		return string(rec.State)
	}
}

func displayCommand(rec domain.HistoryRecord) string {
	if rec.Command != "" {
		return rec.Command
	}
	return "(" + rec.Prompt + ")"
}
