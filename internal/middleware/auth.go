package middleware

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/smartflow-systems/SFS-Backend/internal/auth"
	"github.com/smartflow-systems/SFS-Backend/internal/cookie"
	"github.com/smartflow-systems/SFS-Backend/internal/handler"
	"github.com/smartflow-systems/SFS-Backend/internal/response"
	"github.com/smartflow-systems/SFS-Backend/internal/storage"
)

type principalKey struct{}

// RequireAuth guards a route with session authentication. The session token
// is extracted from the signed cookie, resolved through the authentication
// manager, and the principal is placed in the request context. Absent,
// invalid, or expired sessions fail with 401; a session-store outage fails
// closed with 503 so it is never mistaken for "not logged in". On success
// the cookie is re-issued with the session's current expiry, so a sliding
// extension on the server is mirrored on the client.
func RequireAuth(mgr *auth.Manager, cookies *cookie.Manager, cookieName string, secure bool) handler.Middleware {
	return func(next handler.Func) handler.Func {
		return func(w http.ResponseWriter, r *http.Request) error {
			token, err := cookies.GetSigned(r, cookieName)
			if err != nil {
				return response.ErrUnauthorized
			}

			principal, sess, err := mgr.Authenticate(r.Context(), token)
			if err != nil {
				switch {
				case errors.Is(err, auth.ErrUnauthenticated):
					return response.ErrUnauthorized
				case storage.IsUnavailable(err):
					// Generic envelope for the client, full cause
					// for the server-side log.
					return errors.Join(response.ErrServiceUnavailable, err)
				}
				return err
			}

			if maxAge := int(time.Until(sess.ExpiresAt).Seconds()); maxAge > 0 {
				cookies.SetSigned(w, cookieName, token,
					cookie.WithMaxAge(maxAge),
					cookie.WithSecure(secure),
				)
			}

			ctx := context.WithValue(r.Context(), principalKey{}, principal)
			return next(w, r.WithContext(ctx))
		}
	}
}

// PrincipalFromContext returns the authenticated principal placed by
// RequireAuth, or false when the request is anonymous.
func PrincipalFromContext(ctx context.Context) (*auth.Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(*auth.Principal)
	return p, ok
}
