package lifecycle

import (
	"cardswap/internal/gamedb"
	"cardswap/internal/logger"
	"cardswap/internal/override"
)

// Engine is the slice of the override manager the runner drives.
type Engine interface {
	Apply(sessionID string, game gamedb.Game) (override.Result, error)
	Revert(sessionID string)
}

// Runner consumes lifecycle events on a single goroutine, so Apply and
// Revert are always called serially no matter how many sources publish.
type Runner struct {
	bus  *Bus
	eng  Engine
	done chan struct{}
	log  *logger.Entry
}

func NewRunner(bus *Bus, eng Engine) *Runner {
	return &Runner{
		bus:  bus,
		eng:  eng,
		done: make(chan struct{}),
		log:  logger.Named("lifecycle"),
	}
}

// Start begins consuming events. The runner stops when the bus closes.
func (r *Runner) Start() {
	ch := r.bus.Subscribe()
	go func() {
		defer close(r.done)
		for evt := range ch {
			r.handle(evt)
		}
	}()
}

// Wait blocks until the runner has drained its subscription.
func (r *Runner) Wait() {
	<-r.done
}

func (r *Runner) handle(evt Event) {
	switch evt.Kind {
	case SessionStarted:
		if _, err := r.eng.Apply(evt.SessionID, evt.Game); err != nil {
			r.log.WithField("session", evt.SessionID).Warnf("apply skipped: %v", err)
		}
	case SessionEnded:
		r.eng.Revert(evt.SessionID)
	default:
		r.log.Warnf("unknown lifecycle event %q", evt.Kind)
	}
}
