package cli

import (
	"github.com/spf13/cobra"
)

func newServeCommand(rt *runtime) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the local JSON surface for the storefront pages",
		Args:  cobra.NoArgs,
		RunE: rt.run(func(cmd *cobra.Command, _ []string) error {
			if addr != "" {
				rt.app.Cfg.HTTP.Addr = addr
			}
			return rt.app.Serve(rt.ctx(cmd))
		}),
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	return cmd
}
