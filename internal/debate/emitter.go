package debate

import (
	"context"
)

// EventType classifies streamable deliberation events.
type EventType int

const (
	EventTypeUnspecified EventType = iota
	EventTypeLog
	EventTypePhase
	EventTypeTurn
	EventTypeComplete
	EventTypeError
)

// Event is a streamable progress record from the deliberation.
type Event struct {
	Type    EventType
	Phase   Phase
	Message string
	Turn    *Turn
}

// Emitter lets the orchestrator surface progress during execution.
type Emitter interface {
	Emit(event Event)
	EmitLog(message string)
	EmitPhase(phase Phase)
	EmitTurn(turn Turn)
}

type emitterKey struct{}

// WithEmitter attaches an emitter to the context.
func WithEmitter(ctx context.Context, emitter Emitter) context.Context {
	return context.WithValue(ctx, emitterKey{}, emitter)
}

// EmitterFrom retrieves the emitter from context, or returns a no-op emitter.
func EmitterFrom(ctx context.Context) Emitter {
	if e, ok := ctx.Value(emitterKey{}).(Emitter); ok {
		return e
	}
	return noopEmitter{}
}

// noopEmitter discards all events.
type noopEmitter struct{}

func (noopEmitter) Emit(Event)      {}
func (noopEmitter) EmitLog(string)  {}
func (noopEmitter) EmitPhase(Phase) {}
func (noopEmitter) EmitTurn(Turn)   {}

// ChannelEmitter sends events to a channel without ever blocking the
// deliberation.
type ChannelEmitter struct {
	Ch chan<- Event
}

func (e *ChannelEmitter) Emit(event Event) {
	select {
	case e.Ch <- event:
	default: // non-blocking
	}
}

func (e *ChannelEmitter) EmitLog(message string) {
	e.Emit(Event{Type: EventTypeLog, Message: message})
}

func (e *ChannelEmitter) EmitPhase(phase Phase) {
	e.Emit(Event{Type: EventTypePhase, Phase: phase})
}

func (e *ChannelEmitter) EmitTurn(turn Turn) {
	e.Emit(Event{Type: EventTypeTurn, Phase: turn.Phase, Turn: &turn})
}
