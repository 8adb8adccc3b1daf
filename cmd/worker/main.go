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

	"cloud.google.com/go/pubsub"
	produceractor "github.com/rbroggi/commentsvc/internal/actors/pubsub/producer"
	subscriberactor "github.com/rbroggi/commentsvc/internal/actors/pubsub/subscriber"
	"github.com/rbroggi/commentsvc/internal/actors/rest"
	"github.com/rbroggi/commentsvc/internal/config"
	"github.com/rbroggi/commentsvc/internal/core/usecase"
	log "github.com/sirupsen/logrus"
)

var (
	configDir       = flag.String("config-dir", "", "directory holding config.yaml (defaults to ., ./config and /etc/commentsvc)")
	shutdownTimeout = flag.Duration("shutdown-timeout", 10*time.Second, "grace period for the health server on shutdown")
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

	client, err := pubsub.NewClient(ctx, settings.PubSub.ProjectID)
	if err != nil {
		return err
	}
	defer client.Close()

	topic := client.Topic(settings.PubSub.PublicTopic)
	defer topic.Stop()
	producer, err := produceractor.NewProducer(topic)
	if err != nil {
		return err
	}

	informer := usecase.NewInformer(producer)

	subscription := client.Subscription(settings.PubSub.CDCSubscription)
	subscriber := subscriberactor.NewSubscriber(subscriberactor.SubscriberArgs{
		CommentEventHandler: informer,
		Subscription:        subscription,
	})

	// start subscriber
	consumeErr := make(chan error, 1)
	go func(ctx context.Context) {
		consumeErr <- subscriber.Consume(ctx)
	}(ctx)

	metrics, err := rest.NewMetrics()
	if err != nil {
		return fmt.Errorf("error registering metrics: %w", err)
	}
	health := rest.NewBaseRouter(metrics)
	addr := fmt.Sprintf(":%d", settings.Worker.Port)
	go func() {
		if err := health.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("health server stopped unexpectedly")
		}
	}()

	log.
		WithField("http-server-addr", addr).
		WithField("subscription", settings.PubSub.CDCSubscription).
		WithField("topic", settings.PubSub.PublicTopic).
		Info("worker up or soon to be up. listening to SIGTERM, SIGINT, SIGQUIT for stoping the worker")

	// Wait for signal or subscriber failure
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)
	select {
	case <-ch:
	case err := <-consumeErr:
		if err != nil {
			return err
		}
	}

	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), *shutdownTimeout)
	defer shutdownCancel()
	return health.Shutdown(shutdownCtx)
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
		log.WithError(err).Fatal("worker terminated with error")
	}
}
