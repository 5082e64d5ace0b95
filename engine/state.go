// SPDX-License-Identifier: EPL-2.0

package engine

import "fmt"

// State is the playback state machine position.
type State int

const (
	// Stopped means no playback; position is at the start.
	Stopped State = iota
	// Playing means the stream is running and audio is being rendered.
	Playing
	// Paused means the stream is suspended and resumable at the current
	// position.
	Paused
	// Buffering means a streaming source is prefilling its ring buffer.
	Buffering
	// Error means a device or stream failure stopped playback; a fresh
	// load is required.
	Error
)

func (s State) String() string {
	switch s {
	case Stopped:
		return "stopped"
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	case Buffering:
		return "buffering"
	case Error:
		return "error"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// EventType identifies what an Event reports.
type EventType int

const (
	// EventStateChanged reports a state machine transition; Event.State
	// carries the new state.
	EventStateChanged EventType = iota
	// EventPositionChanged reports a seek; Event.Position carries the
	// new frame position. Ordinary playback progress is not reported.
	EventPositionChanged
	// EventTrackEnded reports that the source ran out of audio.
	EventTrackEnded
	// EventError reports a failure; Event.Message carries the detail.
	EventError
	// EventBufferUnderrun reports that a render pass was short of
	// samples and was padded with silence.
	EventBufferUnderrun
)

func (t EventType) String() string {
	switch t {
	case EventStateChanged:
		return "state_changed"
	case EventPositionChanged:
		return "position_changed"
	case EventTrackEnded:
		return "track_ended"
	case EventError:
		return "error"
	case EventBufferUnderrun:
		return "buffer_underrun"
	default:
		return fmt.Sprintf("event(%d)", int(t))
	}
}

// Event is one engine notification.
type Event struct {
	Type     EventType
	State    State  // valid for EventStateChanged
	Position uint64 // valid for EventPositionChanged
	Message  string // valid for EventError
}

// Handler receives engine events from the dispatch goroutine. Handlers
// may call back into the engine; they must not block for long, since one
// dispatcher serves all events in order.
type Handler interface {
	HandleEvent(Event)
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(Event)

// HandleEvent calls f(ev).
func (f HandlerFunc) HandleEvent(ev Event) { f(ev) }
