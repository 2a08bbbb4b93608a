package system

import (
	"errors"
	"math"
	"sync"
	"time"

	"github.com/colonysim/firestarter/internal/core/event"
	coresys "github.com/colonysim/firestarter/internal/core/system"
	gonet "github.com/colonysim/firestarter/internal/net"
	"github.com/colonysim/firestarter/internal/net/packet"
	"github.com/colonysim/firestarter/internal/world"
	"go.uber.org/zap"
)

// byeTimeout bounds how long shutdown waits for a spectator to take its BYE.
const byeTimeout = 2 * time.Second

// ErrNoSpectators is returned by FocusOn when nobody is watching.
var ErrNoSpectators = errors.New("no spectators connected")

// SessionSource yields newly accepted spectator sessions.
type SessionSource interface {
	NewSessions() <-chan *gonet.Session
}

// SpectatorHello is what a spectator receives right after connecting.
type SpectatorHello struct {
	ServerName   string
	TickRateMs   int32
	TicksPerHour int64
}

// SpectatorSystem is the presentation layer of a headless server: it admits
// spectator sessions, moves their camera to fires and flushes their output.
// Phase 4 (Output).
type SpectatorSystem struct {
	src      SessionSource
	sessions []*gonet.Session
	grid     world.Grid
	cs       *packet.Charset
	hello    SpectatorHello
	log      *zap.Logger
}

func NewSpectatorSystem(bus *event.Bus, src SessionSource, grid world.Grid, cs *packet.Charset, hello SpectatorHello, log *zap.Logger) *SpectatorSystem {
	s := &SpectatorSystem{
		src:   src,
		grid:  grid,
		cs:    cs,
		hello: hello,
		log:   log,
	}
	event.Subscribe(bus, s.onFireStarted)
	return s
}

func (s *SpectatorSystem) Phase() coresys.Phase { return coresys.PhaseOutput }

func (s *SpectatorSystem) Update(_ coresys.Tick) {
	s.admit()
	live := s.sessions[:0]
	for _, sess := range s.sessions {
		if sess.IsClosed() || !sess.FlushOutput() {
			s.log.Info("spectator left", zap.Uint64("session", sess.ID))
			continue
		}
		live = append(live, sess)
	}
	clear(s.sessions[len(live):])
	s.sessions = live
}

// Add attaches an already started session.
func (s *SpectatorSystem) Add(sess *gonet.Session) {
	w := packet.NewWriterWithOpcode(packet.S_OPCODE_HELLO, s.cs)
	w.WriteS(s.hello.ServerName)
	w.WriteD(s.hello.TickRateMs)
	w.WriteQ(s.hello.TicksPerHour)
	sess.Send(w.Bytes())
	s.sessions = append(s.sessions, sess)
}

// Count returns the number of attached spectators.
func (s *SpectatorSystem) Count() int { return len(s.sessions) }

func (s *SpectatorSystem) admit() {
	if s.src == nil {
		return
	}
	for {
		select {
		case sess := <-s.src.NewSessions():
			s.Add(sess)
		default:
			return
		}
	}
}

// FocusOn queues a camera move to target for every spectator.
func (s *SpectatorSystem) FocusOn(target Flammable) error {
	if len(s.sessions) == 0 {
		return ErrNoSpectators
	}
	x, y := s.grid.XY(target.PosIdx())
	w := packet.NewWriterWithOpcode(packet.S_OPCODE_CAMERA_FOCUS, s.cs)
	w.WriteDU(entityOf(target).Index())
	w.WriteH(clampU16(x))
	w.WriteH(clampU16(y))
	w.WriteS(target.String())
	s.broadcast(w.Bytes())
	return nil
}

func (s *SpectatorSystem) onFireStarted(ev event.FireStarted) {
	if len(s.sessions) == 0 {
		return
	}
	w := packet.NewWriterWithOpcode(packet.S_OPCODE_FIRE_STARTED, s.cs)
	w.WriteQ(ev.Tick)
	w.WriteDU(ev.Entity.Index())
	w.WriteD(int32(ev.PosIdx))
	w.WriteH(clampU16(ev.Candidates))
	w.WriteS(ev.Name)
	s.broadcast(w.Bytes())
}

func (s *SpectatorSystem) broadcast(data []byte) {
	for _, sess := range s.sessions {
		sess.Send(data)
	}
}

// Close says goodbye to every spectator and drops them. It returns once each
// BYE has been written or byeTimeout has passed.
func (s *SpectatorSystem) Close(reason string) {
	w := packet.NewWriterWithOpcode(packet.S_OPCODE_BYE, s.cs)
	w.WriteS(reason)
	s.broadcast(w.Bytes())
	var wg sync.WaitGroup
	for _, sess := range s.sessions {
		if !sess.FlushOutput() {
			continue
		}
		wg.Add(1)
		go func(sess *gonet.Session) {
			defer wg.Done()
			sess.CloseAfterFlush(byeTimeout)
		}(sess)
	}
	wg.Wait()
	s.sessions = nil
}

func clampU16(v int) uint16 {
	switch {
	case v < 0:
		return 0
	case v > math.MaxUint16:
		return math.MaxUint16
	}
	return uint16(v)
}
