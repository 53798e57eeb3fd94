package rxblox

import (
	"github.com/rxblox/rxblox/internal"
	"github.com/rxblox/rxblox/internal/events"
)

// DevtoolsEvent mirrors internal/events.Event at the public boundary.
type DevtoolsEvent struct {
	Kind        string
	SignalID    uint64
	SignalName  string
	OldVersion  uint64
	NewVersion  uint64
	Value       any
	Err         error
	GoroutineID int64
}

// AttachDevtools installs sink on the current goroutine's runtime event
// ring (spec §6 "Devtools contract"). Passing nil disconnects it without
// affecting signals. captureValues controls whether changed-event payloads
// include the signal's value.
func AttachDevtools(sink func(DevtoolsEvent), captureValues bool) {
	ring := internal.GetRuntime().Events()
	ring.CaptureValues(captureValues)
	if sink == nil {
		ring.Attach(nil)
		return
	}
	ring.Attach(func(ev events.Event) {
		sink(DevtoolsEvent{
			Kind:        ev.Kind.String(),
			SignalID:    ev.SignalID,
			SignalName:  ev.SignalName,
			OldVersion:  ev.OldVersion,
			NewVersion:  ev.NewVersion,
			Value:       ev.Value,
			Err:         ev.Err,
			GoroutineID: ev.GoroutineID,
		})
	})
}

// DrainDevtools returns the current goroutine's buffered devtools events,
// oldest first, without clearing the ring.
func DrainDevtools() []DevtoolsEvent {
	raw := internal.GetRuntime().Events().Drain()
	out := make([]DevtoolsEvent, len(raw))
	for i, ev := range raw {
		out[i] = DevtoolsEvent{
			Kind:        ev.Kind.String(),
			SignalID:    ev.SignalID,
			SignalName:  ev.SignalName,
			OldVersion:  ev.OldVersion,
			NewVersion:  ev.NewVersion,
			Value:       ev.Value,
			Err:         ev.Err,
			GoroutineID: ev.GoroutineID,
		}
	}
	return out
}
