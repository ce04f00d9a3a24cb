package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/BrianJenney/brian-clone/pkg/agent"
	"github.com/BrianJenney/brian-clone/pkg/cli/config"
	httpctrl "github.com/BrianJenney/brian-clone/pkg/controller/http"
	"github.com/BrianJenney/brian-clone/pkg/service/docstore"
	"github.com/BrianJenney/brian-clone/pkg/usecase"
	"github.com/BrianJenney/brian-clone/pkg/utils/logging"
)

func cmdServe() *cli.Command {
	var addr string
	var partialResults bool
	var appCfg config.App
	var llmCfg config.LLM
	var storeCfg config.Store
	var youtubeCfg config.YouTube

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "HTTP server address",
			Value:       ":8080",
			Sources:     cli.EnvVars("BRIANCLONE_ADDR"),
			Destination: &addr,
		},
		&cli.BoolFlag{
			Name:        "partial-results",
			Usage:       "Keep the agent batch alive when individual agents fail",
			Sources:     cli.EnvVars("BRIANCLONE_PARTIAL_RESULTS"),
			Destination: &partialResults,
		},
	}
	flags = append(flags, appCfg.Flags()...)
	flags = append(flags, llmCfg.Flags()...)
	flags = append(flags, storeCfg.Flags()...)
	flags = append(flags, youtubeCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start HTTP server",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			gateway, err := llmCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to configure LLM gateway")
			}

			store, err := storeCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to configure semantic store")
			}
			defer func() {
				if err := store.Close(); err != nil {
					logging.Default().Error("failed to close semantic store", "error", err.Error())
				}
			}()

			registryEntries, err := appCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to load application config")
			}
			docs := docstore.New(registryEntries)

			analytics, scraper := youtubeCfg.Configure()

			agents := agent.NewRegistry(agent.Deps{
				Gateway:   gateway,
				Store:     store,
				Docs:      docs,
				Analytics: analytics,
				Scraper:   scraper,
				ChannelID: youtubeCfg.ChannelID(),
			})

			ucOpts := []usecase.Option{}
			if partialResults {
				ucOpts = append(ucOpts, usecase.WithPartialResults())
				logging.Default().Info("partial agent results enabled")
			}
			uc := usecase.New(gateway, agents, ucOpts...)

			httpOpts := []httpctrl.Options{}
			if secret := appCfg.AuthSecret(); len(secret) > 0 {
				httpOpts = append(httpOpts, httpctrl.WithAuthSecret(secret))
				logging.Default().Info("session cookie authentication enabled")
			}

			server := &http.Server{
				Addr:              addr,
				Handler:           httpctrl.New(uc, agents, httpOpts...),
				ReadHeaderTimeout: 30 * time.Second,
			}

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

			errCh := make(chan error, 1)
			go func() {
				logging.Default().Info("Starting HTTP server", "addr", addr)
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
			}()

			select {
			case sig := <-sigCh:
				logging.Default().Info("Received signal, shutting down", "signal", sig.String())
			case err := <-errCh:
				return goerr.Wrap(err, "HTTP server failed")
			case <-ctx.Done():
				logging.Default().Info("Context cancelled, shutting down")
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			if err := server.Shutdown(shutdownCtx); err != nil {
				return goerr.Wrap(err, "failed to shutdown HTTP server")
			}
			return nil
		},
	}
}
