package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tariffwise/crossagent/internal/profile"
	"github.com/tariffwise/crossagent/plugin/agent"
	"github.com/tariffwise/crossagent/plugin/cross"
	"github.com/tariffwise/crossagent/server"
)

const version = "0.3.0"

var rootCmd = &cobra.Command{
	Use:   "crossagent",
	Short: "Customs-classification question router backed by CBP CROSS rulings",
	RunE: func(_ *cobra.Command, _ []string) error {
		instanceProfile := &profile.Profile{
			Mode:    viper.GetString("mode"),
			Addr:    viper.GetString("addr"),
			Port:    viper.GetInt("port"),
			Version: version,
		}
		instanceProfile.FromEnv()

		setupLogger(instanceProfile)

		if err := instanceProfile.Validate(); err != nil {
			slog.Error("invalid configuration", "error", err)
			return err
		}

		gateway, err := cross.NewGateway(instanceProfile)
		if err != nil {
			slog.Error("failed to create rulings gateway", "error", err)
			return err
		}

		backend, err := agent.NewBackend(instanceProfile)
		if err != nil {
			slog.Error("failed to create AI backend", "error", err)
			return err
		}

		routerOpts := []agent.RouterOption{
			agent.WithMaxRulings(instanceProfile.MaxRulings),
			agent.WithTimeouts(
				time.Duration(instanceProfile.CrossTimeoutSec)*time.Second,
				time.Duration(instanceProfile.BackendTimeoutSec)*time.Second,
			),
		}
		if instanceProfile.EnrichBackend {
			routerOpts = append(routerOpts, agent.WithRulingEnrichment())
		}
		router := agent.NewRouter(gateway, backend, routerOpts...)

		srv := server.NewServer(instanceProfile, router)

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		errCh := make(chan error, 1)
		go func() {
			errCh <- srv.Start()
		}()

		slog.Info("crossagent started", "profile", instanceProfile.String(), "version", version)

		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown failed", "error", err)
			return err
		}
		slog.Info("crossagent stopped")
		return nil
	},
}

func setupLogger(p *profile.Profile) {
	var handler slog.Handler
	if p.IsDev() {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})
	} else {
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})
	}
	slog.SetDefault(slog.New(handler))
}

func init() {
	rootCmd.Flags().String("mode", "dev", `mode of server, can be "prod" or "dev"`)
	rootCmd.Flags().String("addr", "", "address of server")
	rootCmd.Flags().Int("port", 5000, "port of server")

	_ = viper.BindPFlag("mode", rootCmd.Flags().Lookup("mode"))
	_ = viper.BindPFlag("addr", rootCmd.Flags().Lookup("addr"))
	_ = viper.BindPFlag("port", rootCmd.Flags().Lookup("port"))

	viper.SetEnvPrefix("crossagent")
	viper.AutomaticEnv()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
