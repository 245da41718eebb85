package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/erazemk/najdeno/internal/api"
	"github.com/erazemk/najdeno/internal/db"
	"github.com/erazemk/najdeno/internal/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the API server",
	RunE:  runServe,
}

func init() {
	f := serveCmd.Flags()
	f.String("addr", ":8080", "listen address")
	f.String("jwt-secret", "", "JWT signing secret (default: generated and stored in the database)")
	f.Bool("dev", false, "enable development conveniences such as auto-login")

	viper.BindPFlag("addr", f.Lookup("addr"))
	viper.BindPFlag("jwt_secret", f.Lookup("jwt-secret"))
	viper.BindPFlag("dev", f.Lookup("dev"))
}

func runServe(cmd *cobra.Command, args []string) error {
	closeLog, err := setupLogger(viper.GetString("log"))
	if err != nil {
		return err
	}
	if closeLog != nil {
		defer closeLog()
	}

	dbPath := viper.GetString("db")
	database, err := db.Open(dbPath)
	if err != nil {
		return err
	}
	defer database.Close()

	if err := db.EnsureSchema(database); err != nil {
		return err
	}
	if err := db.Migrate(database); err != nil {
		return err
	}
	slog.Info("database ready", "path", dbPath)

	// Prefer the configured secret; otherwise generate one on first run
	// and keep it in the database so sessions survive restarts.
	jwtSecret := viper.GetString("jwt_secret")
	if jwtSecret == "" {
		jwtSecret, err = store.GetJWTSecret(context.Background(), database)
		if err != nil {
			return err
		}
	}

	devMode := viper.GetBool("dev")
	if devMode {
		slog.Warn("development mode enabled, auto-login is active")
	}

	server := &http.Server{
		Addr:              viper.GetString("addr"),
		Handler:           api.NewRouter(database, jwtSecret, devMode),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// Graceful shutdown on SIGINT/SIGTERM.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-quit
		slog.Info("shutdown signal received", "signal", sig.String())

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			slog.Error("server forced to shutdown", "error", err)
		}
	}()

	slog.Info("server started", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}

	slog.Info("server stopped, closing database")
	return nil
}
