package service

import (
	"github.com/okian/janus/internal/adapters/transport"
	"github.com/okian/janus/internal/domain/gate"
	"github.com/okian/janus/internal/domain/history"
	"github.com/okian/janus/internal/domain/model"
	"github.com/okian/janus/internal/domain/reconcile"
	"github.com/okian/janus/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithServerURL sets the websocket URL of the counter server.
func WithServerURL(url string) Option {
	return func(s *Service) {
		if url != "" {
			s.serverURL = url
		}
	}
}

// WithIdentity sets the viewer's username, event ceiling and time zone.
func WithIdentity(id model.Identity) Option {
	return func(s *Service) {
		s.identity = id
	}
}

// WithPresenter sets where the view state and notices are rendered.
func WithPresenter(p Presenter) Option {
	return func(s *Service) {
		if p != nil {
			s.presenter = p
		}
	}
}

// WithMuteToggle sets the control consulted before playing alerts.
func WithMuteToggle(t reconcile.MuteToggle) Option {
	return func(s *Service) {
		if t != nil {
			s.mute = t
		}
	}
}

// WithCredentials sets where the session credential is looked up.
func WithCredentials(c gate.CredentialLookup) Option {
	return func(s *Service) {
		if c != nil {
			s.creds = c
		}
	}
}

// WithQueueSize sets the capacity of the inbound frame queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithTransportOptions configures the websocket channel.
func WithTransportOptions(opts ...transport.Option) Option {
	return func(s *Service) {
		s.transportOpts = append(s.transportOpts, opts...)
	}
}

// WithHistoryOptions configures the history view.
func WithHistoryOptions(opts ...history.Option) Option {
	return func(s *Service) {
		s.historyOpts = append(s.historyOpts, opts...)
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}
