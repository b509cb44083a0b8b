package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/errgroup"

	"github.com/iho/abrazar/internal/adapter/http/client"
	"github.com/iho/abrazar/internal/domain"
	"github.com/iho/abrazar/internal/usecase"
)

var bcryptGenerate = bcrypt.GenerateFromPassword

var errDenied = errors.New("access denied")

func loginCmd(opts *options) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and store the session",
		RunE: run(opts, func(ctx context.Context, a *app, out io.Writer, _ []string) error {
			if password == "" {
				password = os.Getenv("ABRAZAR_PASSWORD")
			}
			session, err := a.auth.Login(ctx, client.Credentials{Email: email, Password: password})
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Logged in as %s (%s)\n", session.User.Name, session.User.Role.DisplayName())
			return nil
		}),
	}

	cmd.Flags().StringVar(&email, "email", "", "Account email")
	cmd.Flags().StringVar(&password, "password", "", "Account password (or ABRAZAR_PASSWORD)")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func logoutCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the stored session",
		RunE: run(opts, func(ctx context.Context, a *app, out io.Writer, _ []string) error {
			if err := a.auth.Logout(ctx); err != nil {
				return err
			}
			fmt.Fprintln(out, "Logged out")
			return nil
		}),
	}
}

type whoami struct {
	User        *domain.UserProfile `json:"user"`
	RoleLabel   string              `json:"roleLabel"`
	Badge       domain.RoleBadge    `json:"badge"`
	Permissions domain.Permissions  `json:"permissions"`
}

func whoamiCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged in user and their permissions",
		RunE: run(opts, func(ctx context.Context, a *app, out io.Writer, _ []string) error {
			user, err := a.auth.CurrentUser(ctx)
			if err != nil {
				return err
			}
			if user == nil {
				return errors.New("not logged in")
			}
			return printJSON(out, whoami{
				User:        user,
				RoleLabel:   user.Role.DisplayName(),
				Badge:       user.Role.Badge(),
				Permissions: a.auth.Permissions(ctx),
			})
		}),
	}
}

// requirementFor parses a capability, a legacy permission or a role name.
func requirementFor(name string) (usecase.Requirement, domain.Permission, error) {
	if c := domain.Capability(strings.ToLower(name)); c.IsValid() {
		return usecase.Requirement{Capability: c}, "", nil
	}
	for _, p := range domain.AllPermissions {
		if string(p) == strings.ToLower(name) {
			return usecase.Requirement{}, p, nil
		}
	}
	if role, err := domain.ParseRole(name); err == nil {
		return usecase.Requirement{MinimumRole: role}, "", nil
	}
	return usecase.Requirement{}, "", fmt.Errorf("unknown capability, permission or role %q", name)
}

func canCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "can <capability|role>",
		Short: "Check locally whether the stored session grants access",
		Args:  cobra.ExactArgs(1),
		RunE: run(opts, func(ctx context.Context, a *app, out io.Writer, args []string) error {
			req, perm, err := requirementFor(args[0])
			if err != nil {
				return err
			}

			var d usecase.Decision
			switch {
			case perm != "" && a.guard.Gate(ctx, perm):
				d = usecase.Decision{Outcome: usecase.GuardAllow}
			case perm != "":
				d = usecase.Decision{Outcome: usecase.GuardAccessDenied, Role: a.tokens.Session(ctx).Role()}
			default:
				d = a.guard.Check(ctx, req)
			}

			fmt.Fprintln(out, d.Outcome)
			if d.View != nil {
				_ = printJSON(out, d.View)
			}
			if !d.Allowed() {
				return errDenied
			}
			return nil
		}),
	}
}

func sessionCmd(opts *options) *cobra.Command {
	var concurrency int

	// probe checks the stored session with concurrent requests so an
	// expired token exercises a shared refresh.
	probe := func(ctx context.Context, a *app) {
		var g errgroup.Group
		for i := 0; i < concurrency; i++ {
			g.Go(func() error {
				if _, err := a.client.Do(ctx, client.Request{Method: "GET", Path: client.MePath}); err != nil {
					a.logger.Debug().Err(err).Msg("session probe failed")
				}
				return nil
			})
		}
		_ = g.Wait()
	}

	cmd := &cobra.Command{
		Use:   "session",
		Short: "Probe the stored session and inspect auth lifecycle events",
	}
	cmd.PersistentFlags().IntVar(&concurrency, "concurrency", 1, "Parallel requests used to probe the session")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "events",
			Short: "List the events recorded while probing the session",
			RunE: run(opts, func(ctx context.Context, a *app, out io.Writer, _ []string) error {
				probe(ctx, a)
				tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
				fmt.Fprintln(tw, "TIME\tEVENT\tDETAIL")
				for _, e := range a.sessions.Events() {
					fmt.Fprintf(tw, "%s\t%s\t%s\n", e.Timestamp.Format("15:04:05.000"), e.Kind, truncate(e.Detail, 60))
				}
				return tw.Flush()
			}),
		},
		&cobra.Command{
			Use:   "summary",
			Short: "Summarize the events recorded while probing the session",
			RunE: run(opts, func(ctx context.Context, a *app, out io.Writer, _ []string) error {
				probe(ctx, a)
				return printJSON(out, a.sessions.Summary())
			}),
		},
	)
	return cmd
}

func homelessCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{Use: "homeless", Short: "Person records"}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List person records",
		RunE: run(opts, func(ctx context.Context, a *app, out io.Writer, _ []string) error {
			people, err := client.NewHomelessService(a.client).List(ctx)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tZONE\tACTIVE")
			for _, p := range people {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%t\n", p.ID, truncate(p.FirstName+" "+p.LastName, 40), p.Zone, p.IsActive)
			}
			return tw.Flush()
		}),
	})
	return cmd
}

func casesCmd(opts *options) *cobra.Command {
	var filter struct {
		status      string
		page, limit int
	}

	cmd := &cobra.Command{Use: "cases", Short: "Cases"}
	list := &cobra.Command{
		Use:   "list",
		Short: "List cases",
		RunE: run(opts, func(ctx context.Context, a *app, out io.Writer, _ []string) error {
			cases, err := client.NewCaseService(a.client).List(ctx, usecase.CaseFilter{
				Status: domain.CaseStatus(strings.ToUpper(filter.status)),
				Page:   filter.page,
				Limit:  filter.limit,
			})
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tSTATUS\tPRIORITY\tASSIGNED\tDESCRIPTION")
			for _, c := range cases {
				assigned := "-"
				if c.AssignedTo != nil {
					assigned = c.AssignedTo.Name
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", c.ID, c.Status, c.Priority, assigned, truncate(c.Description, 50))
			}
			return tw.Flush()
		}),
	}
	list.Flags().StringVar(&filter.status, "status", "", "Filter by status")
	list.Flags().IntVar(&filter.page, "page", 1, "Page number")
	list.Flags().IntVar(&filter.limit, "limit", 20, "Page size")

	history := &cobra.Command{
		Use:   "history <case-id>",
		Short: "Show the changes made to a case",
		Args:  cobra.ExactArgs(1),
		RunE: run(opts, func(ctx context.Context, a *app, out io.Writer, args []string) error {
			entries, err := client.NewCaseService(a.client).History(ctx, args[0])
			if err != nil {
				return err
			}
			return printJSON(out, entries)
		}),
	}

	cmd.AddCommand(list, history)
	return cmd
}

func servicePointsCmd(opts *options) *cobra.Command {
	var lat, lng, radius float64

	printPoints := func(out io.Writer, points []domain.ServicePoint) error {
		tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tTYPE\tNAME\tADDRESS\tDISTANCE")
		for _, sp := range points {
			distance := "-"
			if sp.Distance != nil {
				distance = fmt.Sprintf("%.2f km", *sp.Distance)
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", sp.ID, sp.Type, truncate(sp.Name, 40), truncate(sp.Address, 40), distance)
		}
		return tw.Flush()
	}

	cmd := &cobra.Command{Use: "service-points", Short: "Service points"}
	list := &cobra.Command{
		Use:   "list",
		Short: "List service points",
		RunE: run(opts, func(ctx context.Context, a *app, out io.Writer, _ []string) error {
			points, err := client.NewServicePointService(a.client).List(ctx)
			if err != nil {
				return err
			}
			return printPoints(out, points)
		}),
	}
	nearby := &cobra.Command{
		Use:   "nearby",
		Short: "List service points near a coordinate",
		RunE: run(opts, func(ctx context.Context, a *app, out io.Writer, _ []string) error {
			points, err := client.NewServicePointService(a.client).Nearby(ctx, lat, lng, radius)
			if err != nil {
				return err
			}
			return printPoints(out, points)
		}),
	}
	nearby.Flags().Float64Var(&lat, "lat", 0, "Latitude")
	nearby.Flags().Float64Var(&lng, "lng", 0, "Longitude")
	nearby.Flags().Float64Var(&radius, "radius", client.DefaultNearbyRadiusKm, "Radius in km")
	_ = nearby.MarkFlagRequired("lat")
	_ = nearby.MarkFlagRequired("lng")

	cmd.AddCommand(list, nearby)
	return cmd
}

func statsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show the statistics overview",
		RunE: run(opts, func(ctx context.Context, a *app, out io.Writer, _ []string) error {
			stats := client.NewStatisticsService(a.client)
			overview, err := stats.Overview(ctx)
			if err != nil {
				return err
			}
			byStatus, err := stats.CasesByStatus(ctx)
			if err != nil {
				return err
			}
			return printJSON(out, map[string]any{"overview": overview, "casesByStatus": byStatus})
		}),
	}
}

func hashPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password <password>",
		Short: "Hash a password with bcrypt for seeding accounts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := domain.ValidatePassword(args[0]); err != nil {
				return err
			}
			hash, err := bcryptGenerate([]byte(args[0]), bcrypt.DefaultCost)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(hash))
			return nil
		},
	}
}

func printJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 3 {
		return string(r[:n])
	}
	return string(r[:n-3]) + "..."
}
