package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rbroggi/commentsvc/internal/actors/postgres"
	"github.com/rbroggi/commentsvc/internal/actors/rest"
	"github.com/rbroggi/commentsvc/internal/config"
	"github.com/rbroggi/commentsvc/internal/core/usecase"
	log "github.com/sirupsen/logrus"
)

var (
	configDir       = flag.String("config-dir", "", "directory holding config.yaml (defaults to ., ./config and /etc/commentsvc)")
	shutdownTimeout = flag.Duration("shutdown-timeout", 10*time.Second, "grace period for in-flight requests on shutdown")
)

func run() error {
	settings, err := loadSettings()
	if err != nil {
		return err
	}
	if err := config.ConfigureLogging(settings.Log); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	connector, err := postgres.Connect(settings.DB)
	if err != nil {
		return err
	}
	defer connector.Close()
	if err := connector.Ping(ctx); err != nil {
		log.WithError(err).Error("db does not appear to be reachable")
		return err
	}

	commentSvc := usecase.NewCommentService(usecase.CommentServiceArgs{
		Reader: postgres.NewReader(postgres.ReaderArgs{Connector: connector}),
		Writer: postgres.NewWriter(postgres.WriterArgs{Connector: connector}),
	})

	metrics, err := rest.NewMetrics()
	if err != nil {
		return fmt.Errorf("error registering metrics: %w", err)
	}
	validator := rest.NewRequestValidator()
	router := rest.NewRouter(rest.RouterArgs{
		Comments:  rest.NewCommentHandler(rest.CommentHandlerArgs{Usecase: commentSvc, Validator: validator}),
		Metrics:   metrics,
		Validator: validator,
	})

	addr := fmt.Sprintf(":%d", settings.Port)
	go func() {
		if err := router.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("http server stopped unexpectedly")
		}
	}()

	log.
		WithField("http-server-addr", addr).
		Info("server up or soon to be up. listening to SIGTERM, SIGINT, SIGQUIT for stoping the server")

	// Wait for signal
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)
	<-ch

	// Stop server
	shutdownCtx, shutdownCancel := context.WithTimeout(ctx, *shutdownTimeout)
	defer shutdownCancel()
	return router.Shutdown(shutdownCtx)
}

func loadSettings() (*config.Settings, error) {
	if *configDir != "" {
		return config.Load(*configDir)
	}
	return config.Load()
}

func main() {
	flag.Parse()

	if err := run(); err != nil {
		log.WithError(err).Fatal("server terminated with error")
	}
}
