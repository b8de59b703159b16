package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/smartflow-systems/SFS-Backend/internal/auth"
	"github.com/smartflow-systems/SFS-Backend/internal/cookie"
	"github.com/smartflow-systems/SFS-Backend/internal/middleware"
	"github.com/smartflow-systems/SFS-Backend/internal/response"
	"github.com/smartflow-systems/SFS-Backend/internal/storage"
)

type handlers struct {
	deps Deps
}

// userView is the client-facing principal shape. The credential hash never
// leaves the server.
type userView struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

func viewOf(p *auth.Principal) userView {
	return userView{ID: p.ID, Email: p.Email, Name: p.Name, CreatedAt: p.CreatedAt}
}

// health is always 200 regardless of authentication state, dispatch mode,
// or store reachability.
func (h *handlers) health(w http.ResponseWriter, r *http.Request) {
	_ = response.JSON(w, map[string]bool{"ok": true})
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name,omitempty"`
}

// validate returns field-level problems for the error envelope's details.
func (c credentialsRequest) validate(forRegister bool) map[string]any {
	problems := map[string]any{}
	if !strings.Contains(c.Email, "@") {
		problems["email"] = "must be a valid email address"
	}
	if forRegister && len(c.Password) < 8 {
		problems["password"] = "must be at least 8 characters"
	} else if c.Password == "" {
		problems["password"] = "is required"
	}
	if len(problems) == 0 {
		return nil
	}
	return problems
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return response.ErrBadRequest.WithMessage("malformed JSON body")
	}
	return nil
}

func (h *handlers) register(w http.ResponseWriter, r *http.Request) error {
	var req credentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		return err
	}
	if problems := req.validate(true); problems != nil {
		return response.ErrBadRequest.WithMessage("invalid registration payload").WithDetails(problems)
	}

	p, err := h.deps.Auth.Register(r.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrEmailTaken):
			return response.ErrConflict.WithMessage("email already registered")
		case storage.IsUnavailable(err):
			return errors.Join(response.ErrServiceUnavailable, err)
		}
		return err
	}

	if err := h.startSession(w, r, p); err != nil {
		return err
	}
	return response.JSONWithStatus(w, viewOf(p), http.StatusCreated)
}

func (h *handlers) login(w http.ResponseWriter, r *http.Request) error {
	var req credentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		return err
	}
	if problems := req.validate(false); problems != nil {
		return response.ErrBadRequest.WithMessage("invalid login payload").WithDetails(problems)
	}

	p, err := h.deps.Auth.VerifyCredentials(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidCredentials):
			// One message for unknown email and wrong password alike.
			return response.ErrUnauthorized.WithMessage("invalid email or password")
		case storage.IsUnavailable(err):
			return errors.Join(response.ErrServiceUnavailable, err)
		}
		return err
	}

	if err := h.startSession(w, r, p); err != nil {
		return err
	}
	return response.JSON(w, viewOf(p))
}

// startSession allocates a session and attaches its token to the response
// as a signed cookie. The cookie lives as long as the session does.
func (h *handlers) startSession(w http.ResponseWriter, r *http.Request, p *auth.Principal) error {
	sess, err := h.deps.Auth.StartSession(r.Context(), p)
	if err != nil {
		if storage.IsUnavailable(err) {
			return errors.Join(response.ErrServiceUnavailable, err)
		}
		return err
	}

	h.deps.Cookies.SetSigned(w, SessionCookie, sess.Token,
		cookie.WithMaxAge(int(time.Until(sess.ExpiresAt).Seconds())),
		cookie.WithSecure(h.deps.SecureCookies),
	)
	return nil
}

func (h *handlers) logout(w http.ResponseWriter, r *http.Request) error {
	// Ending a session that is absent or already gone is not an error.
	if token, err := h.deps.Cookies.GetSigned(r, SessionCookie); err == nil {
		if err := h.deps.Auth.EndSession(r.Context(), token); err != nil {
			if storage.IsUnavailable(err) {
				return errors.Join(response.ErrServiceUnavailable, err)
			}
			return err
		}
	}

	h.deps.Cookies.Delete(w, SessionCookie)
	return response.JSONWithStatus(w, nil, http.StatusNoContent)
}

// user returns the authenticated principal (session introspection).
func (h *handlers) user(w http.ResponseWriter, r *http.Request) error {
	p, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		return response.ErrUnauthorized
	}
	return response.JSON(w, viewOf(p))
}
