package middleware

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"net/http"
	"strconv"
	"time"

	"github.com/ndewijer/Billboard-Partnership-Backend/internal/api/response"
	"github.com/ndewijer/Billboard-Partnership-Backend/internal/logging"
)

// timeTokenWindow is the validity window of a time token. A token from the
// previous window is still accepted to tolerate clock skew at the boundary.
const timeTokenWindow = 5 * time.Minute

// now is swapped in tests.
var now = time.Now

// GenerateTimeToken returns the HMAC-SHA256 of the current time window keyed with apiKey.
func GenerateTimeToken(apiKey string) string {
	return timeToken(apiKey, now())
}

func timeToken(apiKey string, at time.Time) string {
	window := at.Unix() / int64(timeTokenWindow/time.Second)
	mac := hmac.New(sha256.New, []byte(apiKey))
	mac.Write([]byte(strconv.FormatInt(window, 10)))
	return hex.EncodeToString(mac.Sum(nil))
}

func validTimeToken(apiKey, token string) bool {
	t := now()
	for _, at := range []time.Time{t, t.Add(-timeTokenWindow)} {
		if hmac.Equal([]byte(token), []byte(timeToken(apiKey, at))) {
			return true
		}
	}
	return false
}

// APIKeyMiddleware requires the X-API-Key header to match apiKey and the
// X-Time-Token header to carry a current time token for that key.
// Requests are refused with 500 when apiKey is empty.
//
// Example usage in router:
//
//	r.Group(func(r chi.Router) {
//	    r.Use(middleware.APIKeyMiddleware(cfg.Auth.InternalAPIKey))
//	    r.Post("/", handler.CreatePartner)
//	})
func APIKeyMiddleware(apiKey string) func(http.Handler) http.Handler {
	log := logging.For("auth")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if apiKey == "" {
				log.Error("INTERNAL_API_KEY is not set, refusing write request")
				response.RespondError(w, http.StatusInternalServerError, "authentication failed", "Authentication not loaded")
				return
			}

			key := r.Header.Get("X-API-Key")
			if key == "" {
				response.RespondError(w, http.StatusUnauthorized, "unauthorized", "Missing API key")
				return
			}
			if subtle.ConstantTimeCompare([]byte(key), []byte(apiKey)) != 1 {
				log.WithField("remote_addr", r.RemoteAddr).Warn("invalid API key")
				response.RespondError(w, http.StatusUnauthorized, "unauthorized", "Invalid API key")
				return
			}

			token := r.Header.Get("X-Time-Token")
			if token == "" {
				response.RespondError(w, http.StatusUnauthorized, "unauthorized", "Missing Time token")
				return
			}
			if !validTimeToken(apiKey, token) {
				response.RespondError(w, http.StatusUnauthorized, "unauthorized", "Time token is invalid or expired")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
