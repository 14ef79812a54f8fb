package engine

import "time"

// EventType names a notification emitted after a state change.
type EventType string

const (
	EventDiceRolled        EventType = "dice_rolled"
	EventPieceEntered      EventType = "piece_entered"
	EventPieceMoved        EventType = "piece_moved"
	EventPieceCaptured     EventType = "piece_captured"
	EventCaptureBlocked    EventType = "capture_blocked"
	EventCrossEntered      EventType = "cross_entered"
	EventTurnPassed        EventType = "turn_passed"
	EventTurnChanged       EventType = "turn_changed"
	EventGameOver          EventType = "game_over"
	EventPlayerDeactivated EventType = "player_deactivated"
)

// Event is a one-way notification. Observers receive it after the state
// it describes has been committed.
type Event struct {
	Type      EventType    `json:"type"`
	Player    int          `json:"player"`
	PieceID   string       `json:"piece_id,omitempty"`
	From      *Cell        `json:"from,omitempty"`
	To        *Cell        `json:"to,omitempty"`
	Slot      *int         `json:"slot,omitempty"`
	Outcome   *DiceOutcome `json:"outcome,omitempty"`
	Message   string       `json:"message"`
	Timestamp time.Time    `json:"timestamp"`
}

// Observer consumes engine events. Notify is called synchronously from the
// engine and must not block.
type Observer interface {
	Notify(Event)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Event)

// Notify calls f(e).
func (f ObserverFunc) Notify(e Event) { f(e) }

// ChannelObserver forwards events to a channel, dropping them when the
// channel is full.
type ChannelObserver struct {
	C chan Event
}

// NewChannelObserver returns an observer with the given buffer size.
func NewChannelObserver(size int) *ChannelObserver {
	return &ChannelObserver{C: make(chan Event, size)}
}

// Notify implements Observer.
func (o *ChannelObserver) Notify(e Event) {
	select {
	case o.C <- e:
	default:
	}
}
