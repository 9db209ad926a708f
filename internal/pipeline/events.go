package pipeline

// State identifies where the pipeline is in one dictation cycle.
type State string

const (
	StateIdle         State = "idle"
	StateRecording    State = "recording"
	StateTranscribing State = "transcribing"
	StateEnhancing    State = "enhancing"
	StateTyping       State = "typing"
)

// Event is a state change published on the pipeline's event channel.
// Err is set when the transition was caused by a failure.
type Event struct {
	State State
	Err   error
}

const eventBuffer = 16

// Events returns the channel state changes are published on. The
// channel is never closed; subscribers stop reading on their own
// shutdown signal.
func (p *Pipeline) Events() <-chan Event {
	return p.events
}

// publish emits an event without blocking. A slow or absent subscriber
// loses events rather than stalling the pipeline.
func (p *Pipeline) publish(e Event) {
	select {
	case p.events <- e:
	default:
	}
}
