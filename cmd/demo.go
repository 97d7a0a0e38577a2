package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/classquiz/internal/demoapi"
	"github.com/abhisek/classquiz/internal/logger"
)

var demoServerCmd = &cobra.Command{
	Use:   "demo-server",
	Short: "Run an in-memory classroom API for local use",
	Long: `Starts a self-contained classroom API backed by seed data and prints
an access token for each seeded user. Point the client at it with
--base-url and CLASSQUIZ_ACCESS_TOKEN.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, _ := cmd.Flags().GetString("addr")
		secret, _ := cmd.Flags().GetString("secret")
		ttl, _ := cmd.Flags().GetDuration("token-ttl")
		logFile, _ := cmd.Flags().GetString("log-file")

		log, err := logger.New("dev", logFile)
		if err != nil {
			return fmt.Errorf("create logger: %w", err)
		}
		defer log.Sync()

		opts := []demoapi.Option{demoapi.WithLogger(log)}
		if secret != "" {
			opts = append(opts, demoapi.WithSecret([]byte(secret)))
		}
		srv := demoapi.New(opts...)

		fmt.Printf("Demo classroom API on http://%s\n\n", addr)
		for _, u := range demoapi.SeedData().Users {
			tok, err := srv.IssueToken(u.Username, ttl)
			if err != nil {
				return fmt.Errorf("issue token for %s: %w", u.Username, err)
			}
			fmt.Printf("%-8s  %s\n", u.Username, tok)
		}
		fmt.Println()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		httpSrv := &http.Server{
			Addr:              addr,
			Handler:           srv.Handler(),
			ReadHeaderTimeout: 5 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			errCh <- httpSrv.ListenAndServe()
		}()

		select {
		case err := <-errCh:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err
		case <-ctx.Done():
		}

		log.Info("demo server shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpSrv.Shutdown(shutdownCtx)
	},
}

func init() {
	demoServerCmd.Flags().String("addr", "127.0.0.1:8000", "Listen address")
	demoServerCmd.Flags().String("secret", "", "HMAC secret for access tokens (random when empty)")
	demoServerCmd.Flags().Duration("token-ttl", 12*time.Hour, "Lifetime of printed access tokens")
}
