package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/geocoder89/salescrm/internal/client/fetch"
	"github.com/geocoder89/salescrm/internal/client/nav"
	"github.com/geocoder89/salescrm/internal/domain/audit"
	"github.com/spf13/cobra"
)

func NewDashboardCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show the summary counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := rootOpts.requireSession(cmd)
			if err != nil {
				return err
			}

			stats := rootOpts.app.Stats.LoadStats(cmd.Context(), s.Token)

			if rootOpts.Format == "json" {
				return writeJSON(cmd.OutOrStdout(), stats)
			}
			return writeTable(cmd.OutOrStdout(), []string{"COLLECTION", "COUNT"}, [][]string{
				{"Customers", strconv.Itoa(stats.Customers)},
				{"Tasks", strconv.Itoa(stats.Tasks)},
				{"Opportunities", strconv.Itoa(stats.Opportunities)},
				{"Meetings", strconv.Itoa(stats.Meetings)},
			})
		},
	}
}

func NewNavCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "nav",
		Short: "Show the views available to your role",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := rootOpts.requireSession(cmd)
			if err != nil {
				return err
			}

			entries := nav.Entries(s.User.Role)
			if rootOpts.Format == "json" {
				return writeJSON(cmd.OutOrStdout(), entries)
			}

			rows := make([][]string, 0, len(entries))
			for _, e := range entries {
				rows = append(rows, []string{e.Label, e.Path})
			}
			return writeTable(cmd.OutOrStdout(), []string{"VIEW", "PATH"}, rows)
		},
	}
}

var listKinds = []string{"customers", "tasks", "meetings", "opportunities"}

func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:       "list <customers|tasks|meetings|opportunities>",
		Short:     "List one collection",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: listKinds,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := rootOpts.requireSession(cmd)
			if err != nil {
				return err
			}
			return runList(rootOpts, cmd, args[0], s.Token)
		},
	}
}

func runList(opts *RootOptions, cmd *cobra.Command, kind, token string) error {
	ctx := cmd.Context()
	f := opts.app.Fetcher
	out := cmd.OutOrStdout()

	var (
		payload any
		header  []string
		rows    [][]string
		source  fetch.Source
	)

	switch kind {
	case "customers":
		res := f.Customers(ctx, token)
		payload, source = res.Items, res.Source
		header = []string{"ID", "NAME", "COMPANY", "EMAIL", "STATUS"}
		for _, c := range res.Items {
			rows = append(rows, []string{c.ID, c.Name, c.Company, c.Email, c.Status})
		}
	case "tasks":
		res := f.Tasks(ctx, token)
		payload, source = res.Items, res.Source
		header = []string{"ID", "TITLE", "STATUS", "DUE"}
		for _, t := range res.Items {
			due := "-"
			if t.DueDate != nil {
				due = t.DueDate.Format(time.DateOnly)
			}
			rows = append(rows, []string{t.ID, t.Title, t.Status, due})
		}
	case "meetings":
		res := f.Meetings(ctx, token)
		payload, source = res.Items, res.Source
		header = []string{"ID", "TITLE", "STARTS", "LOCATION"}
		for _, m := range res.Items {
			rows = append(rows, []string{m.ID, m.Title, m.StartAt.Format(time.RFC3339), m.Location})
		}
	case "opportunities":
		res := f.Opportunities(ctx, token)
		payload, source = res.Items, res.Source
		header = []string{"ID", "TITLE", "STAGE", "AMOUNT"}
		for _, o := range res.Items {
			rows = append(rows, []string{o.ID, o.Title, o.Stage, strconv.FormatFloat(o.Amount, 'f', 2, 64)})
		}
	default:
		return fmt.Errorf("unknown collection %q", kind)
	}

	if source == fetch.SourceFallback {
		fmt.Fprintln(cmd.ErrOrStderr(), "note: API unavailable, showing demo data")
	}

	if opts.Format == "json" {
		return writeJSON(out, payload)
	}
	return writeTable(out, header, rows)
}

func NewAuditCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "audit",
		Short: "Show the audit log (compliance only)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := rootOpts.requireSession(cmd)
			if err != nil {
				return err
			}
			if !nav.CanViewAudit(s.User.Role) {
				return fmt.Errorf("the audit log is not available to role %s", s.User.Role)
			}

			f := rootOpts.app.Fetcher
			res := fetch.Get[audit.Entry](cmd.Context(), f.Client(), f.BaseURL(), "/audit", s.Token)
			if res.Err != nil {
				return res.Err
			}

			if rootOpts.Format == "json" {
				return writeJSON(cmd.OutOrStdout(), res.Items)
			}
			rows := make([][]string, 0, len(res.Items))
			for _, e := range res.Items {
				rows = append(rows, []string{e.At.Format(time.RFC3339), e.ActorID, string(e.Action), e.Entity, e.EntityID})
			}
			return writeTable(cmd.OutOrStdout(), []string{"AT", "ACTOR", "ACTION", "ENTITY", "ID"}, rows)
		},
	}
}
