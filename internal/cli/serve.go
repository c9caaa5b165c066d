package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/piwi3910/SiteTakeoff/internal/api"
)

func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr  string
		limit float64
		burst int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the calculators over HTTP",
		Long: `Serve the calculators as a JSON API until interrupted.

  POST /api/{deck|paving|wall}                  calculate (JSON or form body)
  POST /api/{deck|paving|wall}/export/{format}  download pdf, xlsx, dxf or labels
  GET  /api/tier?skill=&budget=&height=         tier defaults
  GET  /api/catalog                             material catalog
  GET  /healthz                                 liveness
  GET  /metrics                                 Prometheus metrics`,
		Example: fmt.Sprintf(`  %[1]s serve --addr :8080
  SITETAKEOFF_ADDR=:9000 %[1]s serve`, appName),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("addr") {
				addr = c.settings.ServerAddr
			}
			e, err := c.newEngine()
			if err != nil {
				return err
			}
			srv := api.New(e, c.Logger, api.Options{
				Defaults:  c.settings,
				RateLimit: limit,
				Burst:     burst,
			})
			return srv.ListenAndServe(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address (default from settings)")
	cmd.Flags().Float64Var(&limit, "rate", api.DefaultRateLimit, "requests per second per client, 0 disables limiting")
	cmd.Flags().IntVar(&burst, "burst", api.DefaultBurst, "request burst per client")

	return cmd
}
