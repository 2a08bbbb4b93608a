package net

import (
	"errors"
	"net"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

// Server accepts spectator TCP connections. New sessions reach the game
// loop through a channel; the game loop owns them from then on.
type Server struct {
	ln       net.Listener
	ids      atomic.Uint64
	live     atomic.Int64
	incoming chan *Session
	outSize  int
	limit    int // 0 = unlimited
	log      *zap.Logger
	stopOnce sync.Once
}

// NewServer listens on bindAddr. At most limit spectators are connected at
// once; further connections are closed right after accept.
func NewServer(bindAddr string, outSize, limit int, log *zap.Logger) (*Server, error) {
	ln, err := net.Listen("tcp", bindAddr)
	if err != nil {
		return nil, err
	}
	return &Server{
		ln:       ln,
		incoming: make(chan *Session, 64),
		outSize:  outSize,
		limit:    limit,
		log:      log,
	}, nil
}

// AcceptLoop runs in its own goroutine until Shutdown.
func (s *Server) AcceptLoop() {
	for {
		conn, err := s.ln.Accept()
		if errors.Is(err, net.ErrClosed) {
			return
		}
		if err != nil {
			s.log.Error("accept spectator failed", zap.Error(err))
			continue
		}
		if s.limit > 0 && s.live.Load() >= int64(s.limit) {
			s.log.Warn("spectator limit reached, refusing connection",
				zap.String("ip", conn.RemoteAddr().String()),
				zap.Int("limit", s.limit),
			)
			conn.Close()
			continue
		}

		s.live.Add(1)
		sess := NewSession(conn, s.ids.Add(1), s.outSize, s.log)
		sess.onClose = func() { s.live.Add(-1) }
		sess.Start()
		s.log.Info("spectator connected", zap.Uint64("session", sess.ID), zap.String("ip", sess.IP))

		select {
		case s.incoming <- sess:
		default:
			s.log.Warn("spectator backlog full, refusing connection")
			sess.Close()
		}
	}
}

// NewSessions returns the channel of newly connected sessions.
func (s *Server) NewSessions() <-chan *Session {
	return s.incoming
}

// Live returns the number of spectator sessions that are still open.
func (s *Server) Live() int {
	return int(s.live.Load())
}

// Shutdown stops accepting new connections. Safe to call more than once.
func (s *Server) Shutdown() {
	s.stopOnce.Do(func() {
		s.ln.Close()
	})
}

// Addr returns the listener's address.
func (s *Server) Addr() net.Addr {
	return s.ln.Addr()
}
