package intent

import "github.com/okian/janus/pkg/logger"

// Option applies a configuration option to the Submitter.
type Option func(*Submitter)

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Submitter) {
		if l != nil {
			s.logger = l
		}
	}
}
