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

	"github.com/gin-gonic/gin"
	"github.com/piwi3910/StoneQuote/internal/api"
	"github.com/piwi3910/StoneQuote/internal/catalog"
	"github.com/piwi3910/StoneQuote/internal/logging"
	"github.com/piwi3910/StoneQuote/internal/session"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	listenAddr      string
	shutdownTimeout time.Duration
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the quoting HTTP API",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&listenAddr, "addr", "", "listen address (overrides the config)")
	serveCmd.Flags().DurationVar(&shutdownTimeout, "shutdown-timeout", 10*time.Second, "graceful shutdown timeout")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	log := logging.Named("serve")
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cat, closeCatalog, err := openCatalog(ctx)
	if err != nil {
		return err
	}
	defer closeCatalog()

	rates, err := catalog.ResolveRates(ctx, cat)
	if err != nil {
		return err
	}
	log.Info("cutting rates", zap.Float64("longitudinal", rates.Longitudinal), zap.Float64("cross", rates.Cross))

	if !verbose {
		gin.SetMode(gin.ReleaseMode)
	}
	server := api.NewServer(session.NewStore(rates), cat, api.Config{
		Rates:          rates,
		SearchDebounce: time.Duration(appCfg.SearchDebounceMs) * time.Millisecond,
		Currency:       appCfg.Currency,
	})
	defer server.Close()

	addr := appCfg.ListenAddr
	if listenAddr != "" {
		addr = listenAddr
	}
	srv := &http.Server{
		Addr:         addr,
		Handler:      server.Router(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server starting", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-quit:
	}

	log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	log.Info("server exited")
	return nil
}
