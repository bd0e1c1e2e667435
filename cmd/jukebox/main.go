// Jukebox is a voice-driven joke teller that roasts your song choices.
//
// It alternates between listening for a song request and telling jokes,
// runs a spoken song picker when asked, stores accepted choices and plays
// them back.
//
// Usage:
//
//	jukebox [flags]
//	jukebox --config /path/to/jukebox.yaml
//	jukebox pick | custom | play [song] | messages render|list
//
// @title       Jukebox status API
// @version     1.0
// @description Liveness, readiness and playback status of the jukebox.
// @BasePath    /
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nadzzz/jukebox/internal/config"
	"github.com/nadzzz/jukebox/internal/dispatch"
	"github.com/nadzzz/jukebox/internal/health"
)

// version is set at build time via ldflags.
var version = "dev"

var (
	configFile string
	cfg        *config.Config
)

var rootCmd = &cobra.Command{
	Use:           "jukebox",
	Short:         "Voice jukebox that roasts your song choices",
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(configFile)
		if err != nil {
			return fmt.Errorf("loading configuration: %w", err)
		}
		config.SetupLogging(loaded.Logging)
		cfg = loaded
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runJukebox(cmd.Context())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "path to config file (e.g. configs/jukebox.yaml)")
	rootCmd.SetVersionTemplate("jukebox {{.Version}}\n")
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		slog.Error("jukebox failed", "error", err)
		cancel()
		os.Exit(1)
	}
}

func runJukebox(ctx context.Context) error {
	slog.Info("jukebox starting", "version", version)

	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	dispatcher := dispatch.New(dispatch.Deps{
		Deps:   a.interactionDeps(),
		Player: a.player,
		Store:  a.store,
		Config: cfg.Dispatch,
	})

	var wg sync.WaitGroup
	var srv *health.Server
	if cfg.Server.Enabled {
		srv = health.New(cfg.Server, a.player.Status())
		wg.Add(2)
		go func() {
			defer wg.Done()
			if err := srv.ListenAndServe(ctx); err != nil {
				slog.Error("health server failed", "error", err)
			}
		}()
		go func() {
			defer wg.Done()
			if err := srv.ListenAndServeGRPC(ctx); err != nil {
				slog.Error("grpc health server failed", "error", err)
			}
		}()
		srv.SetReady(true)
		slog.Info("status servers started",
			"health_port", cfg.Server.HealthPort,
			"grpc_port", cfg.Server.GRPCPort)
	}

	slog.Info("jukebox ready",
		"llm", a.llm.Name(),
		"stt", a.stt.Name(),
		"tts", a.tts.Name(),
		"store", cfg.Store.Backend)

	err = dispatcher.Run(ctx)

	if srv != nil {
		srv.SetReady(false)
	}
	wg.Wait()
	slog.Info("jukebox stopped")
	return err
}
