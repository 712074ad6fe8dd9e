package cli

import (
	"fmt"
	"strings"

	"github.com/riftrewind/internal/config"
	"github.com/riftrewind/pkg/healthcheck"
	"github.com/spf13/cobra"
)

func newHealthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "health",
		Short: "Check that a running backend is healthy",
		Long:  "Exits non-zero unless GET /health answers 200. Intended for container health checks.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			url, _ := cmd.Flags().GetString("url")
			if url == "" {
				cfg, err := config.Load()
				if err != nil {
					return err
				}
				url = healthURL(cfg.ServerAddr)
			}
			newLogger(cmd).Printf("Probing %s", url)

			if err := healthcheck.Probe(cmd.Context(), url); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "ok")
			return nil
		},
	}
	cmd.Flags().String("url", "", "Health URL to probe (default derived from SERVER_ADDR)")
	return cmd
}

// healthURL turns a listen address such as ":8080" into a local health URL.
func healthURL(addr string) string {
	if strings.HasPrefix(addr, ":") {
		addr = "localhost" + addr
	}
	return "http://" + addr + "/health"
}
