// Package api declares HTTP contracts and route registration helpers.
package api

// Option applies a configuration option to the Server.
type Option func(*Server)

// WithEmailWebhookSecret enables signature verification on the email
// provider webhook. Verification stays off when empty.
func WithEmailWebhookSecret(secret string) Option {
	return func(s *Server) {
		s.emailHandler.secret = secret
	}
}
