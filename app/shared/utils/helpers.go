package utils

import (
	"encoding/json"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
)

// Helpers bundles the message plumbing shared by every module's handlers.
type Helpers interface {
	UnmarshalPayload(msg *message.Message, target any) error
	CreateResultMessage(original *message.Message, payload any, topic string) (*message.Message, error)
}

type helpers struct{}

// NewHelpers returns the default Helpers implementation.
func NewHelpers() Helpers {
	return helpers{}
}

// UnmarshalPayload decodes a message payload into target.
func (helpers) UnmarshalPayload(msg *message.Message, target any) error {
	if err := json.Unmarshal(msg.Payload, target); err != nil {
		return fmt.Errorf("failed to unmarshal payload into %T: %w", target, err)
	}
	return nil
}

// CreateResultMessage builds a new message carrying payload, propagating the
// correlation ID from the original message and stamping the destination topic.
func (helpers) CreateResultMessage(original *message.Message, payload any, topic string) (*message.Message, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload for topic %s: %w", topic, err)
	}

	msg := message.NewMessage(watermill.NewUUID(), data)
	msg.Metadata.Set("topic", topic)
	if original != nil {
		if correlationID := middleware.MessageCorrelationID(original); correlationID != "" {
			middleware.SetCorrelationID(correlationID, msg)
		}
	}
	return msg, nil
}
