package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hrygo/designgenie/internal/observability"
	"github.com/hrygo/designgenie/internal/profile"
	"github.com/hrygo/designgenie/plugin/ai"
	"github.com/hrygo/designgenie/server"
	"github.com/hrygo/designgenie/store"
	"github.com/hrygo/designgenie/store/db"
)

const version = "0.3.0"

var rootCmd = &cobra.Command{
	Use:   "designgenie",
	Short: "Wizard-of-Oz interior design session server",
	RunE: func(_ *cobra.Command, _ []string) error {
		p := &profile.Profile{
			Mode:          viper.GetString("mode"),
			Addr:          viper.GetString("addr"),
			Port:          viper.GetInt("port"),
			Driver:        viper.GetString("driver"),
			LogLevel:      viper.GetString("log-level"),
			Version:       version,
			RedisAddr:     viper.GetString("redis-addr"),
			RedisPassword: viper.GetString("redis-password"),
			RedisDB:       viper.GetInt("redis-db"),
			SessionTTL:    viper.GetDuration("session-ttl"),
			AIAPIKey:      viper.GetString("ai-api-key"),
			AIBaseURL:     viper.GetString("ai-base-url"),
			AIModel:       viper.GetString("ai-model"),
			AITimeout:     viper.GetDuration("ai-timeout"),
			AIMaxRetries:  viper.GetInt("ai-max-retries"),
		}
		if err := p.Validate(); err != nil {
			return err
		}
		return run(p)
	},
}

func run(p *profile.Profile) error {
	observability.SetupLogger(p.LogLevel)

	driver, err := db.NewDriver(p)
	if err != nil {
		return err
	}
	st := store.New(driver, p)
	defer st.Close()

	provider := ai.NewProvider(ai.ConfigFromProfile(p))
	if p.AIAPIKey == "" {
		slog.Warn("no AI API key configured, generation will serve fallback content")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := server.New(p, st, provider)
	slog.Info("designgenie server starting",
		"version", version, "addr", p.ListenAddr(), "driver", p.Driver, "mode", p.Mode)
	if err := srv.Start(ctx); err != nil {
		return err
	}
	slog.Info("designgenie server stopped")
	return nil
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("mode", "dev", `server mode, "dev" or "prod"`)
	flags.String("addr", "", "binding address")
	flags.Int("port", 8230, "binding port")
	flags.String("driver", "redis", `store driver, "redis" or "memory"`)
	flags.String("log-level", "info", "log level (debug, info, warn, error)")
	flags.String("redis-addr", "localhost:6379", "redis address")
	flags.String("redis-password", "", "redis password")
	flags.Int("redis-db", 0, "redis database number")
	flags.Duration("session-ttl", 0, "write TTL for session documents, 0 keeps them forever")
	flags.String("ai-api-key", "", "AI provider API key")
	flags.String("ai-base-url", "", "AI provider base URL")
	flags.String("ai-model", "", "AI chat model")
	flags.Duration("ai-timeout", 15*time.Second, "per-attempt AI request timeout")
	flags.Int("ai-max-retries", 3, "AI request attempt cap")

	if err := viper.BindPFlags(flags); err != nil {
		panic(err)
	}
	viper.SetEnvPrefix("designgenie")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
