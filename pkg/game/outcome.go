package game

// Event is a single message destined for one or more clients
type Event struct {
	Key  string      `json:"key"`
	Data interface{} `json:"data"`
}

// Unicast is an event targeted at a single connection.
// An empty ConnectionID means the seat is offline and the event is dropped.
type Unicast struct {
	ConnectionID string
	Event        Event
}

// ActionKind identifies a deferred state-machine transition
type ActionKind int

// deferred actions scheduled by the state machine
const (
	ActionNone ActionKind = iota

	// ActionResolveTrick sweeps a completed trick after a short delay so
	// clients can render the fourth card first
	ActionResolveTrick

	// ActionDealNewGame starts a fresh game in the same room after game-over
	ActionDealNewGame
)

// Outcome describes everything an operation wants the gateway to do:
// broadcast messages, send targeted messages, and optionally schedule a
// deferred action. An outcome with a non-empty Ignored reason means no state
// was mutated and nothing needs persisting; it may still carry a unicast
// (room-full is the one rejection this protocol surfaces).
type Outcome struct {
	Broadcasts []Event
	Unicasts   []Unicast
	Scheduled  ActionKind
	Ignored    string
}

// IsIgnored returns true if the operation was silently dropped
func (o Outcome) IsIgnored() bool {
	return o.Ignored != ""
}

func ignored(reason string) Outcome {
	return Outcome{Ignored: reason}
}

func (o *Outcome) broadcast(key string, data interface{}) {
	o.Broadcasts = append(o.Broadcasts, Event{Key: key, Data: data})
}

func (o *Outcome) unicast(connectionID, key string, data interface{}) {
	o.Unicasts = append(o.Unicasts, Unicast{
		ConnectionID: connectionID,
		Event:        Event{Key: key, Data: data},
	})
}

// merge appends the other outcome's messages and adopts its scheduled action
func (o *Outcome) merge(other Outcome) {
	o.Broadcasts = append(o.Broadcasts, other.Broadcasts...)
	o.Unicasts = append(o.Unicasts, other.Unicasts...)
	if other.Scheduled != ActionNone {
		o.Scheduled = other.Scheduled
	}
}
