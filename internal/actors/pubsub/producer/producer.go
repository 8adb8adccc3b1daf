package producer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"cloud.google.com/go/pubsub"
	"github.com/rbroggi/commentsvc/internal/core/model"
)

// Attributes let consumers filter without decoding the payload.
const (
	eventTypeAttribute = "eventType"
	isReplyAttribute   = "isReply"
)

// NewProducer creates a new producer.
func NewProducer(topic *pubsub.Topic) (*Producer, error) {
	if topic == nil {
		return nil, errors.New("topic is nil")
	}
	return &Producer{topic: topic}, nil
}

// Producer is the pubsub producer of comment events.
type Producer struct {
	topic *pubsub.Topic
}

// Send publishes the event as JSON and waits for the server acknowledgement.
func (p *Producer) Send(ctx context.Context, event model.CommentEvent) error {
	msg, err := toMessage(event)
	if err != nil {
		return err
	}
	result := p.topic.Publish(ctx, msg)
	// Block until the result is returned and a server-generated
	// ID is returned for the published message.
	if _, err := result.Get(ctx); err != nil {
		return fmt.Errorf("pubsub: result.Get: %w", err)
	}
	return nil
}

func toMessage(event model.CommentEvent) (*pubsub.Message, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("error marshaling comment-event: %w", err)
	}
	return &pubsub.Message{
		Data:       data,
		Attributes: map[string]string{
			eventTypeAttribute: eventType(event),
			isReplyAttribute:   strconv.FormatBool(isReply(event)),
		},
	}, nil
}

// isReply looks at the latest known state of the comment.
func isReply(event model.CommentEvent) bool {
	if event.After != nil {
		return event.After.IsReply()
	}
	return event.Before != nil && event.Before.IsReply()
}

func eventType(event model.CommentEvent) string {
	switch {
	case event.Before == nil && event.After != nil:
		return "created"
	case event.Before != nil && event.After == nil:
		return "removed"
	default:
		return "edited"
	}
}
