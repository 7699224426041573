package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/cajurona/backend/pkg/response"
)

// WebhookSecret guards the gateway webhook with a shared secret carried
// in the X-Webhook-Secret header. An empty configured secret disables
// the check, which is the expected setup in local development.
func WebhookSecret(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if secret != "" {
				got := r.Header.Get("X-Webhook-Secret")
				if subtle.ConstantTimeCompare([]byte(got), []byte(secret)) != 1 {
					response.Unauthorized(w, "Invalid webhook secret")
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}
