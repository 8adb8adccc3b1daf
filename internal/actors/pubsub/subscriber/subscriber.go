package subscriber

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/pubsub"
	"github.com/google/uuid"
	"github.com/rbroggi/commentsvc/internal/core/model"
	"github.com/rbroggi/commentsvc/internal/core/ports"

	log "github.com/sirupsen/logrus"
)

// commentsTable is the only table whose changes are turned into events.
const commentsTable = "comments"

// SubscriberArgs contain the mandatory arguments to build a subscriber.
type SubscriberArgs struct {
	// Subscription is the pubsub subscription fed by the CDC connector
	Subscription *pubsub.Subscription

	// CommentEventHandler is an event handler
	CommentEventHandler ports.CommentEventHandler
}

// Subscriber is a pubsub async subscriber
type Subscriber struct {
	subscription        *pubsub.Subscription
	commentEventHandler ports.CommentEventHandler
}

// NewSubscriber creates a subscriber
func NewSubscriber(args SubscriberArgs) *Subscriber {
	return &Subscriber{
		subscription:        args.Subscription,
		commentEventHandler: args.CommentEventHandler,
	}
}

// Consume starts the subscriber. This is a blocking method and should be started in it's own go-routine.
// The way to terminate the method is to cancel the context in input.
func (s *Subscriber) Consume(ctx context.Context) error {
	if err := s.subscription.Receive(ctx, func(ctx context.Context, msg *pubsub.Message) {
		if s.process(ctx, msg.ID, msg.Data) {
			msg.Ack()
		} else {
			msg.Nack()
		}
	}); err != nil {
		return fmt.Errorf("error receiving messages from subscription: %w", err)
	}
	return nil
}

// process reports whether the message can be acknowledged.
func (s *Subscriber) process(ctx context.Context, id string, data []byte) bool {
	commentEvent, err := decodeCommentEvent(id, data)
	if errors.Is(err, ErrIgnoreEvent) {
		log.WithField("msgID", id).Debug("ignoring change event")
		return true
	}
	if err != nil {
		log.WithError(err).WithField("msgID", id).Error("error decoding message into comment-event")
		return false
	}

	if err := s.commentEventHandler.Handle(ctx, *commentEvent); err != nil {
		log.WithError(err).WithField("msgID", id).Error("error in comment event handler")
		return false
	}
	return true
}

var (
	// ErrIgnoreEvent marks change events that are not about comments.
	ErrIgnoreEvent = errors.New("event should be ignored")
)

func decodeCommentEvent(id string, data []byte) (*model.CommentEvent, error) {
	debeziumMsg := new(debeziumMessage)
	if err := json.Unmarshal(data, debeziumMsg); err != nil {
		return nil, fmt.Errorf("json unmarshal error: %w", err)
	}

	if debeziumMsg.Payload.Source.Table != commentsTable {
		return nil, ErrIgnoreEvent
	}

	before, err := translateCommentToModel(debeziumMsg.Payload.Before)
	if err != nil {
		return nil, fmt.Errorf("decoding before image: %w", err)
	}
	after, err := translateCommentToModel(debeziumMsg.Payload.After)
	if err != nil {
		return nil, fmt.Errorf("decoding after image: %w", err)
	}

	return &model.CommentEvent{ID: id, Before: before, After: after}, nil
}

func translateCommentToModel(dbzComment *debeziumComment) (*model.Comment, error) {
	if dbzComment == nil {
		return nil, nil
	}
	id, err := uuid.Parse(dbzComment.CommentID)
	if err != nil {
		return nil, fmt.Errorf("commentid: %w", err)
	}
	userID, err := uuid.Parse(dbzComment.UserID)
	if err != nil {
		return nil, fmt.Errorf("userid: %w", err)
	}

	var parentID *uuid.UUID
	if dbzComment.ParentID != nil {
		parsed, err := uuid.Parse(*dbzComment.ParentID)
		if err != nil {
			return nil, fmt.Errorf("parentid: %w", err)
		}
		parentID = &parsed
	}

	return &model.Comment{
		ID:       id,
		UserID:   userID,
		Comment:  dbzComment.Comment,
		ParentID: parentID,
		Datetime: dbzComment.CreateDate.Time,
	}, nil
}

type debeziumMessage struct {
	// Payload is the debezium segment containing the payload.
	Payload payload `json:"payload"`
}

type payload struct {
	Op     string           `json:"op"`
	Source source           `json:"source"`
	Before *debeziumComment `json:"before"`
	After  *debeziumComment `json:"after"`
}

type source struct {
	Schema string `json:"schema"`
	Table  string `json:"table"`
}

type debeziumComment struct {
	CommentID  string    `json:"commentid"`
	UserID     string    `json:"userid"`
	Comment    string    `json:"comment"`
	ParentID   *string   `json:"parentid"`
	CreateDate Timestamp `json:"createdate"`
	UpdateDate Timestamp `json:"updatedate"`
}

// Timestamp decodes the debezium temporal encodings: microseconds from epoch for timestamp
// columns and an ISO-8601 string for timestamptz columns.
type Timestamp struct {
	time.Time
}

func (ts *Timestamp) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		t, err := time.Parse(time.RFC3339Nano, s)
		if err != nil {
			return err
		}
		ts.Time = t.UTC()
		return nil
	}
	var micros int64
	if err := json.Unmarshal(b, &micros); err != nil {
		return err
	}
	ts.Time = time.UnixMicro(micros).UTC()
	return nil
}
