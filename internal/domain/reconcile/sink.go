package reconcile

import (
	"context"

	"github.com/okian/janus/internal/domain/history"
	"github.com/okian/janus/internal/domain/model"
)

// Sink is the presentation surface the reconciler writes through.
// ClearHighlight is called from timer goroutines, so implementations must be
// safe for concurrent use.
type Sink interface {
	SetCount(ctx context.Context, snap model.Snapshot, invalid bool)
	RenderRecord(ctx context.Context, row history.Row)
	EvictRecord(ctx context.Context, row history.Row)
	ClearHighlight(ctx context.Context, el history.Element)
	PlayAlert(ctx context.Context)
}

// Notifier surfaces non-fatal notices to the viewer.
type Notifier interface {
	Notify(ctx context.Context, n model.Notice)
}

// MuteToggle is the viewer's mute control. Checked means muted.
type MuteToggle interface {
	Checked() bool
}

type unmuted struct{}

func (unmuted) Checked() bool { return false }
