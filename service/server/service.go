package server

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"sync"
	"time"

	"github.com/puzpuzpuz/xsync/v4"
	"github.com/viant/tasksched/internal/logging"
	"github.com/viant/tasksched/internal/metrics"
	"github.com/viant/tasksched/service/messaging"
	"github.com/viant/tasksched/service/messaging/memory"
	"github.com/viant/tasksched/service/protocol"
)

// Dispatcher handles a single request line
type Dispatcher interface {
	Dispatch(ctx context.Context, line []byte) *protocol.Response
}

// Stats represents server counters
type Stats struct {
	Active   int64 `json:"active"`
	Served   int64 `json:"served"`
	TimedOut int64 `json:"timedOut"`
}

// Service represents a line oriented TCP server
type Service struct {
	config     Config
	dispatcher Dispatcher
	queue      messaging.Queue[net.Conn]
	logger     logging.Logger
	metrics    metrics.Collector

	mux        sync.Mutex
	listener   net.Listener
	workers    []*worker
	workerWg   sync.WaitGroup
	acceptDone chan struct{}
	shutdownCh chan struct{}
	closeOnce  sync.Once
	cancel     context.CancelFunc

	active   *xsync.Counter
	served   *xsync.Counter
	timedOut *xsync.Counter
}

type worker struct {
	id      int
	service *Service
	ctx     context.Context
}

// New creates a server
func New(dispatcher Dispatcher, options ...Option) (*Service, error) {
	s := &Service{
		config:     DefaultConfig(),
		dispatcher: dispatcher,
		logger:     logging.NewNop(),
		metrics:    metrics.NewNop(),
		shutdownCh: make(chan struct{}),
		acceptDone: make(chan struct{}),
		active:     xsync.NewCounter(),
		served:     xsync.NewCounter(),
		timedOut:   xsync.NewCounter(),
	}
	for _, opt := range options {
		opt(s)
	}
	if s.dispatcher == nil {
		return nil, fmt.Errorf("dispatcher is required")
	}
	s.config.Init()
	if err := s.config.Validate(); err != nil {
		return nil, err
	}
	if s.queue == nil {
		s.queue = memory.NewQueue[net.Conn]()
	}
	return s, nil
}

// Start binds the listener, starts workers and the accept loop
func (s *Service) Start(ctx context.Context) error {
	s.mux.Lock()
	defer s.mux.Unlock()
	if s.listener != nil {
		return fmt.Errorf("server already started")
	}
	listener, err := net.Listen("tcp", s.config.Address)
	if err != nil {
		return fmt.Errorf("failed to listen on %v: %w", s.config.Address, err)
	}
	s.listener = listener
	// workers drain the backlog after the caller's context is done
	workerCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s.cancel = cancel
	for i := 0; i < s.config.Workers; i++ {
		w := &worker{id: i, service: s, ctx: workerCtx}
		s.workers = append(s.workers, w)
		s.workerWg.Add(1)
		go w.run()
	}
	go s.accept()
	s.logger.Info("server started", "address", listener.Addr().String(), "workers", s.config.Workers)
	return nil
}

// Addr returns the bound listener address, nil before Start
func (s *Service) Addr() net.Addr {
	s.mux.Lock()
	defer s.mux.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Stats returns server counters
func (s *Service) Stats() Stats {
	return Stats{Active: s.active.Value(), Served: s.served.Value(), TimedOut: s.timedOut.Value()}
}

// Shutdown stops accepting, lets workers drain queued connections and waits for them
func (s *Service) Shutdown(ctx context.Context) error {
	s.mux.Lock()
	listener := s.listener
	s.mux.Unlock()
	if listener == nil {
		return nil
	}
	s.closeOnce.Do(func() { close(s.shutdownCh) })
	<-s.acceptDone
	_ = listener.Close()
	_ = s.queue.Close()

	done := make(chan struct{})
	go func() {
		s.workerWg.Wait()
		close(done)
	}()
	select {
	case <-done:
		s.cancel()
		s.logger.Info("server stopped", "served", s.served.Value())
		return nil
	case <-ctx.Done():
		s.cancel()
		return ctx.Err()
	}
}

func (s *Service) isShuttingDown() bool {
	select {
	case <-s.shutdownCh:
		return true
	default:
		return false
	}
}

// accept polls the listener so that shutdown is observed within PollInterval
func (s *Service) accept() {
	defer close(s.acceptDone)
	deadliner, _ := s.listener.(interface{ SetDeadline(time.Time) error })
	for !s.isShuttingDown() {
		if deadliner != nil {
			_ = deadliner.SetDeadline(time.Now().Add(s.config.PollInterval))
		}
		conn, err := s.listener.Accept()
		if err != nil {
			if isTimeout(err) {
				continue
			}
			if s.isShuttingDown() {
				return
			}
			s.logger.Error("accept failed", "error", err)
			if errors.Is(err, net.ErrClosed) {
				return
			}
			continue
		}
		s.metrics.ConnectionOpened()
		s.active.Inc()
		if err = s.queue.Publish(context.Background(), &conn); err != nil {
			s.logger.Error("failed to queue connection", "error", err)
			s.closeConn(conn)
		}
	}
}

func (w *worker) run() {
	defer w.service.workerWg.Done()
	for {
		msg, err := w.service.queue.Consume(w.ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, messaging.ErrClosed) {
				return
			}
			w.service.logger.Warn("consume failed", "worker", w.id, "error", err)
			time.Sleep(100 * time.Millisecond)
			continue
		}
		if msg == nil {
			continue
		}
		w.service.metrics.ConnectionDequeued(w.service.queue.Size(), msg.Age())
		if err = w.handle(msg); err != nil {
			_ = msg.Nack(err)
			continue
		}
		_ = msg.Ack()
	}
}

// handle serves a queued connection, a panic fails the message and leaves the worker running
func (w *worker) handle(msg messaging.Message[net.Conn]) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("connection handler panic: %v", r)
			w.service.logger.Error("recovered panic", "worker", w.id, "panic", r)
		}
	}()
	if conn := msg.T(); conn != nil && *conn != nil {
		w.service.serve(w.ctx, *conn)
	}
	return nil
}

// serve reads one request line, writes one response line and closes the connection
func (s *Service) serve(ctx context.Context, conn net.Conn) {
	defer s.closeConn(conn)
	remote := conn.RemoteAddr().String()
	_ = conn.SetReadDeadline(time.Now().Add(s.config.ReadTimeout))
	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 0, min(4096, s.config.MaxRequestBytes)), s.config.MaxRequestBytes)

	var response *protocol.Response
	drain := false
	if scanner.Scan() {
		response = s.dispatch(ctx, scanner.Bytes())
	} else {
		err := scanner.Err()
		switch {
		case err == nil:
			response = protocol.NewFailure(protocol.NewError(protocol.KindProtocol, "No request received."))
		case isTimeout(err):
			s.timedOut.Inc()
			s.metrics.ConnectionTimedOut()
			s.logger.Warn("connection timed out", "remote", remote, "timeout", s.config.ReadTimeout)
			return
		case errors.Is(err, bufio.ErrTooLong):
			response = protocol.NewFailure(protocol.NewError(protocol.KindProtocol, "Request too large."))
			drain = true
		default:
			s.logger.Warn("failed to read request", "remote", remote, "error", err)
			return
		}
	}
	_ = conn.SetWriteDeadline(time.Now().Add(s.config.ReadTimeout))
	if err := response.Encode(conn); err != nil {
		s.logger.Warn("failed to write response", "remote", remote, "error", err)
		return
	}
	s.served.Inc()
	if drain {
		// unread input would reset the connection before the peer reads the response
		_ = conn.SetReadDeadline(time.Now().Add(s.config.PollInterval))
		_, _ = io.Copy(io.Discard, conn)
	}
}

// dispatch always returns a response, a dispatcher panic becomes an internal error
func (s *Service) dispatch(ctx context.Context, line []byte) (response *protocol.Response) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("recovered dispatcher panic", "panic", r)
			response = protocol.NewFailure(fmt.Errorf("%v", r))
		}
		if response == nil {
			response = protocol.NewFailure(fmt.Errorf("dispatcher returned no response"))
		}
	}()
	return s.dispatcher.Dispatch(ctx, line)
}

func (s *Service) closeConn(conn net.Conn) {
	_ = conn.Close()
	s.active.Dec()
	s.metrics.ConnectionClosed()
}

func isTimeout(err error) bool {
	if errors.Is(err, os.ErrDeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
