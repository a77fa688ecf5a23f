package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"conquest/internal/logging"
	"conquest/internal/stubapi"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Parse command-line flags
	addr := flag.String("addr", "127.0.0.1:8626", "Listen address")
	connection := flag.String("connection", "Conquest", "Connection name the stub accepts")
	username := flag.String("username", "importer", "Accepted username")
	password := flag.String("password", "importer", "Accepted password")
	tokenTTL := flag.Duration("token-ttl", time.Hour, "Issued token lifetime")
	processingPolls := flag.Int("processing-polls", 2,
		"State checks answered with Processing before a batch settles")
	logLevel := flag.String("log-level", "info", "Log level (debug, info, warn, error)")
	logFormat := flag.String("log-format", "text", "Log format (text, json)")
	flag.Parse()

	logger := logging.NewLogger(logging.LoggerConfig{
		Format: *logFormat,
		Level:  logging.ParseLevel(*logLevel),
	})

	server := stubapi.NewServer(stubapi.Config{
		Connection:      *connection,
		Username:        *username,
		Password:        *password,
		TokenTTL:        *tokenTTL,
		ProcessingPolls: *processingPolls,
		Logger:          logger,
	})

	httpServer := &http.Server{
		Addr:         *addr,
		Handler:      server.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("stub Conquest API listening", "addr", *addr, "connection", *connection)
		serverErrors <- httpServer.ListenAndServe()
	}()

	// Wait for interrupt signal or server error
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info("shutting down", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer shutdownCancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}
	}

	return nil
}
