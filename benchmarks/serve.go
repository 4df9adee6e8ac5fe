package benchmarks

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/zeu5/rl-bandits/server"
)

func ServeCommand() *cobra.Command {
	var listen string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the bandit comparison and serve the results over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("listen") {
				cfg.Output.ListenAddr = listen
			}
			c, err := BanditExperiment(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			fmt.Printf("Serving results on %s\n", cfg.Output.ListenAddr)
			return server.NewServer(cfg.Output.ListenAddr, c).Start(cmd.Context())
		},
	}
	cmd.PersistentFlags().StringVarP(&listen, "listen", "l", ":8080", "Address to serve the results on")
	return cmd
}
