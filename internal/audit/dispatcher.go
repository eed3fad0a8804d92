package audit

import "github.com/rs/zerolog"

type Event struct {
	ActorID  *uint
	Action   string
	Entity   string
	EntityID *uint
	Metadata any
}

// Sink persists audit events; Logger is the GORM-backed implementation.
type Sink interface {
	Log(actorID *uint, action, entity string, entityID *uint, metadata any) error
}

type Dispatcher struct {
	logger Sink
	log    zerolog.Logger
	queue  chan Event
}

func NewDispatcher(logger Sink, log zerolog.Logger) *Dispatcher {
	d := &Dispatcher{
		logger: logger,
		log:    log,
		queue:  make(chan Event, 100),
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	for ev := range d.queue {
		if err := d.logger.Log(
			ev.ActorID,
			ev.Action,
			ev.Entity,
			ev.EntityID,
			ev.Metadata,
		); err != nil {
			d.log.Error().Err(err).Str("action", ev.Action).Msg("audit write failed")
		}
	}
}

func (d *Dispatcher) Dispatch(ev Event) {
	select {
	case d.queue <- ev:
	default:
		// full queue drops audit, never the request
		d.log.Warn().Str("action", ev.Action).Msg("audit queue full, dropping event")
	}
}
