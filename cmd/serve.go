// -- cmd/serve.go --
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/berea-app/berea/internal/esv"
	"github.com/berea-app/berea/internal/llmclient"
	"github.com/berea-app/berea/internal/observability"
	"github.com/berea-app/berea/internal/server"
	"github.com/berea-app/berea/internal/study"
)

// newServeCmd creates the `serve` command: the proxy server that holds the
// real API keys so browser clients never see them.
func newServeCmd() *cobra.Command {
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the study generation proxy server",
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if err := viper.BindPFlag("server.addr", cmd.Flags().Lookup("addr")); err != nil {
				return err
			}
			return viper.BindPFlags(cmd.Flags())
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := observability.GetLogger()

			// Flag overrides landed in viper during PreRunE; re-read them.
			cfg.Server.Addr = viper.GetString("server.addr")

			clients, err := llmclient.BuildClients(cfg.LLM, cfg.Credentials.Key, logger)
			if err != nil {
				return fmt.Errorf("building provider adapters: %w", err)
			}
			if len(clients) == 0 {
				logger.Warn("No LLM provider credentials configured; every generation will answer with an error study")
			}
			orch := llmclient.NewOrchestrator(logger, clients)

			var passages study.PassageFetcher
			if cfg.Credentials.ESV != "" {
				ec, err := esv.NewClient(esv.Options{
					APIKey:   cfg.Credentials.ESV,
					Endpoint: cfg.ESV.Endpoint,
					Timeout:  cfg.ESV.RequestTimeout,
				}, logger)
				if err != nil {
					return fmt.Errorf("building ESV client: %w", err)
				}
				passages = ec
			} else {
				logger.Warn("No ESV API key configured; studies will be generated without passage text")
			}

			svc := study.NewService(logger, orch, passages, cfg.LLM)
			srv := server.New(cfg.Server, svc, logger)

			logger.Info("Proxy server starting",
				zap.String("addr", cfg.Server.Addr),
				zap.Int("providers", len(clients)))
			return srv.Run(ctx)
		},
	}

	serveCmd.Flags().String("addr", ":8080", "listen address for the HTTP server")
	return serveCmd
}
