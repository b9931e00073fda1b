package game

// Phase is the round lifecycle state.
type Phase int

const (
	PhaseNotStarted Phase = iota
	PhaseRunning
	PhaseGameOver
)

func (p Phase) String() string {
	switch p {
	case PhaseNotStarted:
		return "not-started"
	case PhaseRunning:
		return "running"
	case PhaseGameOver:
		return "game-over"
	default:
		return "unknown"
	}
}

// EventType identifies what changed.
type EventType int

const (
	EventBubblesChanged EventType = iota // Value: live bubble count
	EventGunMoved                        // X: gun left edge
	EventLaserChanged                    // Visible, X
	EventScorePopup                      // X, Y, Value
	EventPopEffect                       // X, Y, Radius
	EventScoreChanged                    // Value: score
	EventTimeChanged                     // Value: seconds left
	EventPhaseChanged                    // Phase
	EventChargeChanged                   // Visible: charge cue shown
)

func (t EventType) String() string {
	switch t {
	case EventBubblesChanged:
		return "bubbles-changed"
	case EventGunMoved:
		return "gun-moved"
	case EventLaserChanged:
		return "laser-changed"
	case EventScorePopup:
		return "score-popup"
	case EventPopEffect:
		return "pop-effect"
	case EventScoreChanged:
		return "score-changed"
	case EventTimeChanged:
		return "time-changed"
	case EventPhaseChanged:
		return "phase-changed"
	case EventChargeChanged:
		return "charge-changed"
	default:
		return "unknown"
	}
}

// Event is a change notification for the presentation layer.
type Event struct {
	Type    EventType
	X, Y    float64
	Radius  float64
	Value   int
	Visible bool
	Phase   Phase
}

// EventSink receives events synchronously on the goroutine driving the game.
type EventSink interface {
	HandleEvent(Event)
}

// EventSinkFunc adapts a function to EventSink.
type EventSinkFunc func(Event)

// HandleEvent calls f(e).
func (f EventSinkFunc) HandleEvent(e Event) { f(e) }

type discardSink struct{}

func (discardSink) HandleEvent(Event) {}
