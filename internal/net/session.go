package net

import (
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// Session is one connected spectator. Spectators only listen: anything they
// send is read and discarded, which is how a hang-up is noticed. Game state
// is touched only from the game loop; network IO runs in two goroutines.
type Session struct {
	ID   uint64
	conn net.Conn
	IP   string

	OutQueue chan []byte // writer goroutine reads from here

	outBuf [][]byte // game loop only

	writeTimeout time.Duration

	closeCh   chan struct{}
	closeOnce sync.Once
	drainCh   chan struct{}
	drainOnce sync.Once
	closed    atomic.Bool
	onClose   func() // set by Server before Start

	log *zap.Logger
}

func NewSession(conn net.Conn, id uint64, outSize int, log *zap.Logger) *Session {
	if outSize <= 0 {
		outSize = 1
	}
	return &Session{
		ID:           id,
		conn:         conn,
		IP:           conn.RemoteAddr().String(),
		OutQueue:     make(chan []byte, outSize),
		writeTimeout: 10 * time.Second,
		closeCh:      make(chan struct{}),
		drainCh:      make(chan struct{}),
		log:          log.With(zap.Uint64("session", id)),
	}
}

// Start launches the reader and writer goroutines.
func (s *Session) Start() {
	go s.readLoop()
	go s.writeLoop()
}

// Send buffers a packet until the next FlushOutput. Game loop only.
func (s *Session) Send(data []byte) {
	if s.closed.Load() {
		return
	}
	s.outBuf = append(s.outBuf, data)
}

// Pending returns the number of buffered, unflushed packets.
func (s *Session) Pending() int { return len(s.outBuf) }

// FlushOutput hands buffered packets to the writer without blocking. A
// spectator whose queue is full is disconnected and false is returned.
func (s *Session) FlushOutput() bool {
	defer func() { s.outBuf = s.outBuf[:0] }()
	for _, data := range s.outBuf {
		select {
		case s.OutQueue <- data:
		default:
			s.log.Warn("spectator queue full, dropping slow connection")
			s.Close()
			return false
		}
	}
	return !s.closed.Load()
}

// Close shuts the session down. Safe to call more than once.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.closed.Store(true)
		close(s.closeCh)
		s.conn.Close()
		if s.onClose != nil {
			s.onClose()
		}
	})
}

// CloseAfterFlush lets the writer send whatever is already queued and then
// closes the session. After timeout it closes regardless.
func (s *Session) CloseAfterFlush(timeout time.Duration) {
	s.drainOnce.Do(func() { close(s.drainCh) })
	t := time.NewTimer(timeout)
	defer t.Stop()
	select {
	case <-s.closeCh:
	case <-t.C:
		s.log.Debug("spectator drain timed out")
	}
	s.Close()
}

func (s *Session) IsClosed() bool {
	return s.closed.Load()
}

func (s *Session) readLoop() {
	defer s.Close()
	for {
		if _, err := ReadFrame(s.conn); err != nil {
			if !s.closed.Load() {
				s.log.Debug("spectator read ended", zap.Error(err))
			}
			return
		}
	}
}

func (s *Session) writeLoop() {
	defer s.Close()
	for {
		select {
		case data := <-s.OutQueue:
			if !s.writeOnePacket(data) {
				return
			}
		case <-s.drainCh:
			s.drainQueue()
			return
		case <-s.closeCh:
			return
		}
	}
}

func (s *Session) drainQueue() {
	for {
		select {
		case data := <-s.OutQueue:
			if !s.writeOnePacket(data) {
				return
			}
		default:
			return
		}
	}
}

func (s *Session) writeOnePacket(data []byte) bool {
	s.log.Debug("TX",
		zap.String("op", fmt.Sprintf("0x%02X", data[0])),
		zap.Int("len", len(data)),
	)
	_ = s.conn.SetWriteDeadline(time.Now().Add(s.writeTimeout))
	if err := WriteFrame(s.conn, data); err != nil {
		if !s.closed.Load() {
			s.log.Debug("spectator write failed", zap.Error(err))
		}
		return false
	}
	return true
}
