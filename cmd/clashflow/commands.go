package main

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/clashflow/clashflow-shell/internal/app"
	"github.com/clashflow/clashflow-shell/internal/config"
	"github.com/clashflow/clashflow-shell/internal/logger"
	"github.com/clashflow/clashflow-shell/pkg/finance"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

// session is initialized once per process in PersistentPreRunE.
type session struct {
	shell *app.Shell
}

func newRootCommand() *cobra.Command {
	rt := &session{}

	cmd := &cobra.Command{
		Use:           "clashflow",
		Short:         "clashflow - personal finance tracker shell",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return rt.init()
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			_ = logger.Close()
		},
	}

	cmd.AddCommand(
		newOpenCommand(rt),
		newRoutesCommand(rt),
		newAddCommand(rt),
		newDeleteCommand(rt),
		newExportCommand(rt),
	)
	return cmd
}

func (rt *session) init() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.Init(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	logger.InfoObj("clashflow starting", "config", cfg.Redacted())

	shell, err := app.NewShell(cfg, log)
	if err != nil {
		logger.ErrorObj("failed to initialize shell", "error", err)
		return err
	}
	rt.shell = shell
	return nil
}

func newOpenCommand(rt *session) *cobra.Command {
	return &cobra.Command{
		Use:   "open [location]",
		Short: "Navigate to a location and render its view",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			location := "/"
			if len(args) == 1 {
				location = args[0]
			}
			return rt.shell.Navigate(cmd.Context(), location, cmd.OutOrStdout())
		},
	}
}

func newRoutesCommand(rt *session) *cobra.Command {
	return &cobra.Command{
		Use:   "routes",
		Short: "List the route table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			table := rt.shell.Table()
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tPATH\tCOMPONENT\tLOCATION")
			for _, r := range table.Routes() {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r.Name, r.Path, r.Component, table.History().Location(r.Path))
			}
			return tw.Flush()
		},
	}
}

func newAddCommand(rt *session) *cobra.Command {
	var description, date string

	cmd := &cobra.Command{
		Use:   "add <income|expense> <amount>",
		Short: "Record an income or expense",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			typ, err := finance.ParseType(args[0])
			if err != nil {
				return err
			}
			amount, err := decimal.NewFromString(args[1])
			if err != nil {
				return fmt.Errorf("invalid amount %q: %w", args[1], err)
			}

			id, err := rt.shell.API().Add(cmd.Context(), finance.NewTransaction{
				Type:        typ,
				Amount:      amount,
				Description: description,
				Date:        date,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "added %s #%d\n", typ, id)
			return nil
		},
	}
	cmd.Flags().StringVarP(&description, "description", "d", "", "Free-text note")
	cmd.Flags().StringVar(&date, "date", "", "Date as YYYY-MM-DD (default: today on the server)")
	return cmd
}

func newDeleteCommand(rt *session) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <income|expense> <id>",
		Short: "Delete a transaction",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			typ, err := finance.ParseType(args[0])
			if err != nil {
				return err
			}
			id, err := strconv.ParseInt(args[1], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid id %q: %w", args[1], err)
			}
			if err := rt.shell.API().Delete(cmd.Context(), typ, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s #%d\n", typ, id)
			return nil
		},
	}
}

func newExportCommand(rt *session) *cobra.Command {
	return &cobra.Command{
		Use:   "export <file>",
		Short: "Download all transactions as an xlsx workbook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := rt.shell.API().Export(cmd.Context())
			if err != nil {
				return err
			}
			if err := os.WriteFile(args[0], data, 0o644); err != nil {
				return fmt.Errorf("write workbook: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "exported %d bytes to %s\n", len(data), args[0])
			return nil
		},
	}
}
