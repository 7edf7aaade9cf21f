package interfaces

import "maxwellmaster/domain"

// EventPublisher receives membership changes from the registry and the health tracker.
// Publish must never block the caller.
//
//go:generate moq -stub -out mock/event_publisher.go -pkg mock . EventPublisher
type EventPublisher interface {
	Publish(event domain.Event)
}
