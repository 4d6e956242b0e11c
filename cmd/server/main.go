package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"pptx-generator/internal/config"
	"pptx-generator/internal/domain"
	"pptx-generator/internal/handler"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 15 * time.Second

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Warning: .env file could not be loaded: %v\n", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "pptx-generator",
		Short: "Fill PowerPoint templates and extract text from documents",
		Long: `pptx-generator serves an HTTP API that appends title/body slides to
PowerPoint templates and extracts plain text from PDF and DOCX uploads.
Without a subcommand it starts the server.`,
		SilenceUsage: true,
		RunE:         runServe,
	}
	root.PersistentFlags().StringP("config", "c", "", "YAML config file (default: $CONFIG_FILE)")

	root.AddCommand(
		newServeCmd(),
		newInitTemplateCmd(),
		newGenerateCmd(),
		newExtractCmd(),
	)
	return root
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
}

// loadConfig resolves --config, then CONFIG_FILE, then environment only.
func loadConfig(cmd *cobra.Command) (domain.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		path = os.Getenv("CONFIG_FILE")
	}
	return config.LoadConfig(path)
}

func newContainer(cmd *cobra.Command) (*config.Container, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	return config.NewContainer(cfg), nil
}

func runServe(cmd *cobra.Command, args []string) error {
	// Wiring
	container, err := newContainer(cmd)
	if err != nil {
		return err
	}
	defer container.Close()
	cfg := container.Config

	defaultTemplate := filepath.Join(cfg.GetTemplateDir(), cfg.GetDefaultTemplate())
	if _, err := os.Stat(defaultTemplate); err != nil {
		container.Logger.Warn("Default template missing; run init-template to create it", "path", defaultTemplate)
	}

	// Handlers
	presentationHandler := handler.NewPresentationHandler(
		container.PresentationGenerator,
		cfg.GetMaxFileSize(),
		container.Logger,
	)
	extractionHandler := handler.NewExtractionHandler(
		container.DocumentExtractor,
		cfg.GetMaxFileSize(),
		container.Logger,
	)
	infoHandler := handler.NewInfoHandler(
		container.TemplateRepository,
		container.Logger,
	)
	requestMiddleware := handler.NewRequestMiddleware(container.Logger)

	// Router
	router := handler.NewRouter(
		presentationHandler,
		extractionHandler,
		infoHandler,
		requestMiddleware.Middleware,
		cfg.GetAllowedOrigins(),
	)

	server := &http.Server{
		Addr:              ":" + cfg.GetServerPort(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       2 * time.Minute,
		WriteTimeout:      5 * time.Minute,
		IdleTimeout:       2 * time.Minute,
	}

	errCh := make(chan error, 1)
	go func() {
		container.Logger.Info("Server listening", "address", server.Addr, "template_dir", cfg.GetTemplateDir())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// Graceful shutdown
	select {
	case err := <-errCh:
		if err != nil {
			container.Logger.Error("Server failed to start", err)
			return err
		}
		return nil
	case <-cmd.Context().Done():
	}

	container.Logger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		container.Logger.Error("Graceful shutdown failed", err)
		_ = server.Close()
	}

	container.Logger.Info("Server exited")
	return nil
}
