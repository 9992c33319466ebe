// Package bus provides the completion-event bus implementations:
// an in-process channel bus (default) and a NATS-backed one, selected by
// domain.EventBusConfig.Type.
package bus

import (
	"fmt"

	"github.com/ringwatch/ringwatch/internal/domain"
)

// New builds the event bus selected by cfg.Type: "channel" for the
// in-process ChannelBus (default), "nats" for a NATSBus.
func New(cfg domain.EventBusConfig) (domain.EventBus, error) {
	switch cfg.Type {
	case "", "channel":
		return NewChannelBus(cfg.ChannelBufferSize), nil
	case "nats":
		return NewNATSBus(cfg)
	default:
		return nil, fmt.Errorf("unsupported event bus type: %s", cfg.Type)
	}
}
