package waiter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/pubsub"
	"go.uber.org/zap"
)

// LogNotifier writes calls to the application log. It is the default when no
// topic is configured.
type LogNotifier struct {
	logger *zap.Logger
}

func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Notify(_ context.Context, call Call) error {
	n.logger.Info("waiter called",
		zap.String("ticket", call.ID),
		zap.String("table", call.Table),
		zap.String("lang", call.Lang),
		zap.Time("requested_at", call.RequestedAt),
	)
	return nil
}

// PubSubNotifier publishes calls as JSON to a Pub/Sub topic read by the
// staff display.
type PubSubNotifier struct {
	topic   *pubsub.Topic
	marshal func(any) ([]byte, error)
}

func NewPubSubNotifier(topic *pubsub.Topic) (*PubSubNotifier, error) {
	if topic == nil {
		return nil, errors.New("pubsub waiter notifier: topic is required")
	}
	return &PubSubNotifier{
		topic:   topic,
		marshal: json.Marshal,
	}, nil
}

func (n *PubSubNotifier) Notify(ctx context.Context, call Call) error {
	if n == nil || n.topic == nil {
		return errors.New("pubsub waiter notifier: not initialised")
	}
	data, err := n.marshal(call)
	if err != nil {
		return fmt.Errorf("marshal waiter call: %w", err)
	}
	result := n.topic.Publish(ctx, &pubsub.Message{
		Data: data,
		Attributes: map[string]string{
			"ticket": call.ID,
			"table":  call.Table,
			"lang":   call.Lang,
			"sentAt": call.RequestedAt.Format(time.RFC3339),
		},
	})
	if _, err := result.Get(ctx); err != nil {
		return fmt.Errorf("publish waiter call: %w", err)
	}
	return nil
}
