// Package gate announces the viewer's session to the server.
package gate

import (
	"context"

	"github.com/okian/janus/internal/domain/model"
	"github.com/okian/janus/pkg/logger"
	"github.com/okian/janus/pkg/metrics"
)

// SessionName is the credential the gate looks up.
const SessionName = "session"

// CredentialLookup returns an opaque credential by name.
type CredentialLookup interface {
	Lookup(name string) (string, bool)
}

// Emitter sends a named event over the channel.
type Emitter interface {
	Emit(ctx context.Context, event string, payload any) error
}

// Notifier surfaces non-fatal notices to the viewer.
type Notifier interface {
	Notify(ctx context.Context, n model.Notice)
}

// Gate sends the join event once the session credential is known.
type Gate struct {
	creds    CredentialLookup
	emitter  Emitter
	notifier Notifier
	logger   logger.Logger
}

// New creates a gate.
func New(creds CredentialLookup, emitter Emitter, notifier Notifier, opts ...Option) *Gate {
	g := &Gate{
		creds:    creds,
		emitter:  emitter,
		notifier: notifier,
		logger:   logger.Get().Named("gate"),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Join emits join with the session credential. Without a credential it does
// nothing and reports false; the viewer stays unjoined and no notice is
// shown. A failed emit is surfaced as the join notice and returned.
func (g *Gate) Join(ctx context.Context) (bool, error) {
	session, ok := g.creds.Lookup(SessionName)
	if !ok {
		g.logger.Info(ctx, "no session credential; staying unjoined")
		return false, nil
	}

	if err := g.emitter.Emit(ctx, model.EventJoin, session); err != nil {
		g.logger.Error(ctx, "join emit failed", logger.Error(err))
		g.notifier.Notify(ctx, model.NewNotice(model.NoticeJoinRejected))
		metrics.RecordNotice(string(model.NoticeJoinRejected))
		return false, err
	}

	g.logger.Debug(ctx, "join sent")
	return true, nil
}
