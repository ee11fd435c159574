package pubsub

import "cloud.google.com/go/pubsub"

type client struct {
	client   *pubsub.Client
	teardown func()
}

// EventType represents the type of event/message sent via pubsub.
type EventType string

const (
	EventRecomputeRating EventType = "recompute-rating"
	EventGameRecorded    EventType = "game-recorded"
)

// RecomputeRequest is the payload of a recompute-rating event.
type RecomputeRequest struct {
	ScopeID string `msgpack:"scope_id"`
}
