// Package service wires the live counter client: the channel, the inbound
// queue and dispatcher, the session gate, the intent submitter and the
// reconciler.
package service

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okian/janus/internal/adapters/credential"
	eventqueue "github.com/okian/janus/internal/adapters/mq/queue"
	"github.com/okian/janus/internal/adapters/mq/worker"
	"github.com/okian/janus/internal/adapters/presentation/memory"
	"github.com/okian/janus/internal/adapters/transport"
	"github.com/okian/janus/internal/domain/gate"
	"github.com/okian/janus/internal/domain/history"
	"github.com/okian/janus/internal/domain/intent"
	"github.com/okian/janus/internal/domain/model"
	"github.com/okian/janus/internal/domain/reconcile"
	"github.com/okian/janus/pkg/logger"
	"github.com/okian/janus/pkg/metrics"
)

const (
	defaultServerURL = "ws://127.0.0.1:8000/socket"
	defaultQueueSize = 1024
	shutdownTimeout  = 5 * time.Second
	clientIDHeader   = "X-Janus-Client"
)

// Presenter renders view state and surfaces notices.
type Presenter interface {
	reconcile.Sink
	reconcile.Notifier
}

// Service is one viewer's connection to the live counter.
type Service struct {
	mu sync.RWMutex

	// Configuration
	id            string
	serverURL     string
	identity      model.Identity
	presenter     Presenter
	mute          reconcile.MuteToggle
	creds         gate.CredentialLookup
	queueSize     int
	transportOpts []transport.Option
	historyOpts   []history.Option

	// Components
	reconciler *reconcile.Reconciler
	submitter  *intent.Submitter
	conn       *transport.Conn
	queue      *eventqueue.InMemoryQueue
	worker     *worker.InMemoryWorker

	// State
	started    bool
	joined     bool
	cancel     context.CancelFunc
	listenDone chan struct{}

	logger logger.Logger
}

// New constructs a client. It does not connect until Start.
func New(opts ...Option) *Service {
	s := &Service{
		id:         uuid.NewString(),
		serverURL:  defaultServerURL,
		identity:   model.Identity{Location: time.Local},
		presenter:  memory.New(),
		creds:      credential.None{},
		queueSize:  defaultQueueSize,
		listenDone: make(chan struct{}),
		logger:     logger.Get().Named("client"),
	}
	for _, opt := range opts {
		opt(s)
	}

	recOpts := []reconcile.Option{reconcile.WithHistoryOptions(s.historyOpts...)}
	if s.mute != nil {
		recOpts = append(recOpts, reconcile.WithMuteToggle(s.mute))
	}
	s.reconciler = reconcile.New(s.identity, s.presenter, s.presenter, recOpts...)
	s.submitter = intent.New(nil, s.presenter)
	return s
}

// ID returns the client instance id sent with the handshake.
func (s *Service) ID() string {
	return s.id
}

// Start opens the channel, starts the dispatcher and sends the join. When the
// channel cannot be opened the viewer is told once and the client stays inert
// for its lifetime; Start still returns nil.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	s.started = true

	s.logger.Info(ctx, "connecting",
		logger.String("url", s.serverURL),
		logger.String("client_id", s.id),
	)

	opts := append([]transport.Option{
		transport.WithHeader(http.Header{clientIDHeader: []string{s.id}}),
	}, s.transportOpts...)
	conn, err := transport.Dial(ctx, s.serverURL, opts...)
	if err != nil {
		s.logger.Error(ctx, "channel unavailable; client is inert", logger.Error(err))
		s.presenter.Notify(ctx, model.NewNotice(model.NoticeTransportUnavailable))
		metrics.RecordNotice(string(model.NoticeTransportUnavailable))
		close(s.listenDone)
		return nil
	}
	s.conn = conn

	runCtx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	s.queue = eventqueue.NewInMemoryQueue(eventqueue.WithCapacity(s.queueSize))
	s.worker = worker.NewInMemoryWorker(s.queue, s.reconciler, worker.WithName("dispatcher"))
	go s.worker.Run(runCtx)
	go s.listen(runCtx)

	s.submitter = intent.New(conn, s.presenter)

	joined, err := gate.New(s.creds, conn, s.presenter).Join(ctx)
	if err != nil {
		s.logger.Warn(ctx, "join not sent", logger.Error(err))
	}
	s.joined = joined

	s.logger.Info(ctx, "client started",
		logger.Bool("joined", joined),
		logger.Int("queueSize", s.queueSize),
	)
	return nil
}

// listen runs the read pump. A lost connection is surfaced once and the
// client goes inert; there is no reconnect.
func (s *Service) listen(ctx context.Context) {
	defer close(s.listenDone)

	err := s.conn.Listen(ctx, s.queue.Enqueue)
	switch {
	case err == nil, errors.Is(err, context.Canceled):
		return
	case errors.Is(err, transport.ErrConnectionLost):
		s.logger.Warn(ctx, "connection lost; client is inert", logger.Error(err))
		s.presenter.Notify(ctx, model.NewNotice(model.NoticeConnectionLost))
		metrics.RecordNotice(string(model.NoticeConnectionLost))
	default:
		s.logger.Error(ctx, "read pump stopped", logger.Error(err))
	}

	s.mu.Lock()
	s.submitter = intent.New(nil, s.presenter)
	s.mu.Unlock()
}

// Submit sends a +1 or -1 intent.
func (s *Service) Submit(ctx context.Context, delta int64) error {
	s.mu.RLock()
	sub := s.submitter
	s.mu.RUnlock()
	return sub.Submit(ctx, delta)
}

// State returns the reconciled view state.
func (s *Service) State() reconcile.State {
	return s.reconciler.State()
}

// Inert reports whether intents are currently dropped.
func (s *Service) Inert() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.submitter.Inert()
}

// Joined reports whether a join was sent.
func (s *Service) Joined() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.joined
}

// Stop closes the channel and stops the dispatcher. Pending highlight
// timers are cancelled.
func (s *Service) Stop() {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		s.reconciler.Close()
		return
	}
	cancel, conn, w, q := s.cancel, s.conn, s.worker, s.queue
	s.mu.Unlock()

	ctx, done := context.WithTimeout(context.Background(), shutdownTimeout)
	defer done()

	s.logger.Info(ctx, "stopping client")
	if cancel != nil {
		cancel()
	}
	if conn != nil {
		_ = conn.Close()
	}
	select {
	case <-s.listenDone:
	case <-ctx.Done():
	}
	if w != nil {
		if err := w.Shutdown(ctx); err != nil {
			s.logger.Warn(ctx, "dispatcher shutdown", logger.Error(err))
		}
	}
	if q != nil {
		_ = q.Close()
	}
	s.reconciler.Close()
	s.logger.Info(ctx, "client stopped")
}
