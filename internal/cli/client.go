package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/riftrewind/internal/config"
	"github.com/riftrewind/internal/domain"
	"github.com/riftrewind/internal/gateway"
	"github.com/riftrewind/internal/session"
	"github.com/spf13/cobra"
)

// newSession loads the configuration and returns a session talking to the configured endpoints.
func newSession(cmd *cobra.Command) (*session.Session, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger := newLogger(cmd)
	logger.Printf("lookup=%q process=%q ask=%q timeout=%s",
		cfg.LookupEndpoint, cfg.ProcessEndpoint, cfg.AskEndpoint, cfg.HTTPTimeout)
	return session.New(gateway.New(cfg, nil)), nil
}

func newLookupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lookup <GameName#TagLine>",
		Short: "Look up a player and their recent matches",
		Long: `Looks up a player by Riot ID and prints their profile, top champions and
recent matches as JSON. With --process the matches are aggregated afterwards,
and with --ask the question is answered from those stats.`,
		Example: `  riftrewind lookup "Faker#KR1" --region kr
  riftrewind lookup "Faker#KR1" --region kr -o table
  riftrewind lookup "Faker#KR1" --region kr --process --ask "What's my best champion?"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			region, _ := cmd.Flags().GetString("region")
			process, _ := cmd.Flags().GetBool("process")
			question, _ := cmd.Flags().GetString("ask")
			format, _ := cmd.Flags().GetString("format")
			if format != "json" && format != "table" {
				return fmt.Errorf("unknown format %q (use json or table)", format)
			}
			if format == "table" && (process || question != "") {
				return errors.New("--format table cannot be combined with --process or --ask")
			}

			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			req := domain.LookupRequest{PlayerName: args[0], Region: domain.Region(strings.ToLower(region))}
			lookup := s.Lookup(ctx, req)
			if lookup.State != session.Success {
				return report(cmd, lookup.Err)
			}
			if format == "table" {
				return writeLookupTable(cmd.OutOrStdout(), lookup.Value)
			}
			if !process && question == "" {
				return printJSON(cmd, lookup.Value)
			}
			return runChain(ctx, cmd, s, lookup.Value, question)
		},
	}
	cmd.Flags().StringP("region", "r", "", "Platform region, e.g. na1, euw1, kr (default "+string(domain.DefaultRegion)+")")
	cmd.Flags().Bool("process", false, "Aggregate the player's matches after the lookup")
	cmd.Flags().String("ask", "", "Ask a question about the player after processing")
	cmd.Flags().StringP("format", "o", "json", "Output format: json or table")
	return cmd
}

// chainResult is printed by lookup when --process or --ask is given.
type chainResult struct {
	Lookup  *domain.LookupResult    `json:"lookup"`
	Process *domain.AggregateResult `json:"process,omitempty"`
	Ask     *domain.QAExchange      `json:"ask,omitempty"`
}

func runChain(ctx context.Context, cmd *cobra.Command, s *session.Session, lookup *domain.LookupResult, question string) error {
	out := chainResult{Lookup: lookup}
	stableID := s.StableID()

	processed := s.Process(ctx, stableID)
	if processed.State != session.Success {
		_ = printJSON(cmd, out)
		return report(cmd, processed.Err)
	}
	out.Process = processed.Value

	if question != "" {
		answered, err := s.Ask(ctx, stableID, question)
		if err != nil {
			_ = printJSON(cmd, out)
			return err
		}
		if answered.State != session.Success {
			_ = printJSON(cmd, out)
			return report(cmd, answered.Err)
		}
		out.Ask = answered.Value
	}
	return printJSON(cmd, out)
}

func newProcessCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "process <stableId>",
		Short: "Aggregate a looked-up player's matches into per-match stats",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			snap := s.Process(cmd.Context(), args[0])
			if snap.State != session.Success {
				return report(cmd, snap.Err)
			}
			return printJSON(cmd, snap.Value)
		},
	}
}

func newAskCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ask <stableId> [question...]",
		Short: "Ask a question about a processed player's stats",
		Long:  "Asks a question about a player's processed stats. Use --quick to pick a canned question:\n" + quickList(),
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			var snap session.Snapshot[*domain.QAExchange]
			if cmd.Flags().Changed("quick") {
				quick, _ := cmd.Flags().GetInt("quick")
				snap, err = s.AskQuick(ctx, args[0], quick-1)
			} else {
				snap, err = s.Ask(ctx, args[0], strings.Join(args[1:], " "))
			}
			if err != nil {
				return err
			}
			if snap.State != session.Success {
				return report(cmd, snap.Err)
			}
			return printJSON(cmd, snap.Value)
		},
	}
	cmd.Flags().IntP("quick", "q", 0, "Ask quick question N instead of a free-form question")
	return cmd
}

func quickList() string {
	var b strings.Builder
	for i, q := range session.QuickQuestions {
		fmt.Fprintf(&b, "  %d. %s\n", i+1, q)
	}
	return b.String()
}

// report prints a remote error's hint, if any, and returns err for cobra to print.
func report(cmd *cobra.Command, err error) error {
	var remote *gateway.RemoteError
	if errors.As(err, &remote) && remote.Hint != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "Hint: %s\n", remote.Hint)
	}
	return err
}
