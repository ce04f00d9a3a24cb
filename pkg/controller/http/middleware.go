package http

import (
	"net/http"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

// sessionCookie is the name of the cookie carrying the signed session token
const sessionCookie = "session"

// sessionClockSkew tolerates small clock drift between the token issuer and
// this server when validating nbf/iat/exp.
const sessionClockSkew = 10 * time.Second

// sessionAuth validates the session JWT cookie (HS256, shared secret) and
// rejects unauthenticated requests with 401.
func sessionAuth(secret []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(sessionCookie)
			if err != nil {
				http.Error(w, "Authentication required", http.StatusUnauthorized)
				return
			}

			_, err = jwt.Parse([]byte(cookie.Value),
				jwt.WithKey(jwa.HS256, secret),
				jwt.WithValidate(true),
				jwt.WithAcceptableSkew(sessionClockSkew),
			)
			if err != nil {
				http.Error(w, "Invalid session token", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
