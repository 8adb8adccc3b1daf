package main

import (
	"context"
	"errors"
	"flag"

	"cloud.google.com/go/pubsub"
	"github.com/rbroggi/commentsvc/internal/config"
	log "github.com/sirupsen/logrus"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// cdcTopic is the topic the CDC connector publishes comment changes to.
var cdcTopic = flag.String("cdc-topic", "commentsvc.public.comments", "topic fed by the CDC connector")

func main() {
	flag.Parse()

	settings, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("could not load settings")
	}
	ctx := context.Background()
	client, err := pubsub.NewClient(ctx, settings.PubSub.ProjectID)
	if err != nil {
		log.WithError(err).WithField("project", settings.PubSub.ProjectID).Fatal("unable to create client")
	}
	defer client.Close()

	cdc, err := ensureTopic(ctx, client, *cdcTopic)
	if err != nil {
		log.WithError(err).WithField("topic", *cdcTopic).Fatal("unable to create topic")
	}
	if err := ensureSubscription(ctx, client, settings.PubSub.CDCSubscription, cdc); err != nil {
		log.WithError(err).WithField("subscription", settings.PubSub.CDCSubscription).Fatal("unable to create subscription")
	}
	if _, err := ensureTopic(ctx, client, settings.PubSub.PublicTopic); err != nil {
		log.WithError(err).WithField("topic", settings.PubSub.PublicTopic).Fatal("unable to create topic")
	}

	log.
		WithField("project", settings.PubSub.ProjectID).
		WithField("cdc-topic", *cdcTopic).
		WithField("subscription", settings.PubSub.CDCSubscription).
		WithField("public-topic", settings.PubSub.PublicTopic).
		Info("pubsub resources ready")
}

func ensureTopic(ctx context.Context, client *pubsub.Client, topicID string) (*pubsub.Topic, error) {
	topic, err := client.CreateTopic(ctx, topicID)
	if alreadyExists(err) {
		return client.Topic(topicID), nil
	}
	return topic, err
}

func ensureSubscription(ctx context.Context, client *pubsub.Client, subscriptionID string, topic *pubsub.Topic) error {
	_, err := client.CreateSubscription(ctx, subscriptionID, pubsub.SubscriptionConfig{Topic: topic})
	if alreadyExists(err) {
		return nil
	}
	return err
}

func alreadyExists(err error) bool {
	if err == nil {
		return false
	}
	var se interface{ GRPCStatus() *status.Status }
	if errors.As(err, &se) {
		return se.GRPCStatus().Code() == codes.AlreadyExists
	}
	return status.Code(err) == codes.AlreadyExists
}
