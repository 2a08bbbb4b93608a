package system

import (
	"context"
	"time"

	"github.com/colonysim/firestarter/internal/core/event"
	coresys "github.com/colonysim/firestarter/internal/core/system"
	"github.com/colonysim/firestarter/internal/persist"
	"go.uber.org/zap"
)

// IgnitionStore is where ignition records end up.
type IgnitionStore interface {
	InsertBatch(ctx context.Context, rows []persist.IgnitionRow) error
}

// PersistenceSystem buffers FireStarted events and writes them to the store
// every interval ticks. A failed write keeps the batch for the next flush,
// capped at maxPending rows (oldest dropped first). Phase 5 (Persist).
type PersistenceSystem struct {
	store      IgnitionStore
	log        *zap.Logger
	pending    []persist.IgnitionRow
	tickCount  int
	interval   int
	maxPending int
}

func NewPersistenceSystem(bus *event.Bus, store IgnitionStore, log *zap.Logger, intervalTicks, maxPending int) *PersistenceSystem {
	if intervalTicks < 1 {
		intervalTicks = 1
	}
	if maxPending < 1 {
		maxPending = 1
	}
	s := &PersistenceSystem{
		store:      store,
		log:        log,
		interval:   intervalTicks,
		maxPending: maxPending,
	}
	event.Subscribe(bus, s.onFireStarted)
	return s
}

func (s *PersistenceSystem) Phase() coresys.Phase { return coresys.PhasePersist }

func (s *PersistenceSystem) Update(t coresys.Tick) {
	s.tickCount += 1 + t.Skipped
	if s.tickCount < s.interval {
		return
	}
	s.tickCount = 0
	s.Flush()
}

func (s *PersistenceSystem) onFireStarted(ev event.FireStarted) {
	s.pending = append(s.pending, persist.IgnitionRow{
		Tick:       ev.Tick,
		EntityID:   uint64(ev.Entity),
		Name:       ev.Name,
		PosIdx:     ev.PosIdx,
		Candidates: ev.Candidates,
	})
	if over := len(s.pending) - s.maxPending; over > 0 {
		s.log.Warn("ignition log backlog full, dropping oldest", zap.Int("dropped", over))
		s.pending = append(s.pending[:0], s.pending[over:]...)
	}
}

// Flush writes every pending row now. Also called on shutdown.
func (s *PersistenceSystem) Flush() {
	if len(s.pending) == 0 {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.store.InsertBatch(ctx, s.pending); err != nil {
		s.log.Error("ignition log flush failed", zap.Int("pending", len(s.pending)), zap.Error(err))
		return
	}
	s.log.Debug("ignition log flushed", zap.Int("rows", len(s.pending)))
	s.pending = s.pending[:0]
}

// Pending returns the number of unwritten rows.
func (s *PersistenceSystem) Pending() int { return len(s.pending) }
