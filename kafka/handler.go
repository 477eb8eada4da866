package kafka

import (
	"context"
	"encoding/json"
	"log"
)

// TypedMessageHandler decodes JSON messages into T before handing them on.
//
// Marking rules: an undecodable or invalid message is marked when AlwaysMark
// is set; a processed message is marked; a failed one is marked only when
// Terminal classifies its error, otherwise it is left for redelivery.
type TypedMessageHandler[T any] struct {
	Validate func(msg *T) bool
	Process  func(ctx context.Context, msg *T) error
	// Terminal reports errors that redelivery cannot fix.
	Terminal   func(err error) bool
	AlwaysMark bool
}

func (h *TypedMessageHandler[T]) HandleMessage(ctx context.Context, message []byte) (bool, error) {
	var msg T
	if err := json.Unmarshal(message, &msg); err != nil {
		log.Printf("Failed to unmarshal message: %v", err)
		return h.AlwaysMark, nil
	}
	if h.Validate != nil && !h.Validate(&msg) {
		return h.AlwaysMark, nil
	}

	err := h.Process(ctx, &msg)
	if err == nil {
		return true, nil
	}
	if h.Terminal != nil && h.Terminal(err) {
		log.Printf("Dropping message after terminal failure: %v", err)
		return true, nil
	}
	return false, err
}
