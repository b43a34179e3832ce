package api

// Option applies a configuration option to the Server.
type Option func(*Server)

// WithAllowedOrigins restricts the CORS origins. The default allows any.
func WithAllowedOrigins(origins ...string) Option {
	return func(s *Server) {
		if len(origins) > 0 {
			s.allowedOrigins = origins
		}
	}
}
