package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/aniwoo/aniwoo-api/internal/config"
	"github.com/aniwoo/aniwoo-api/internal/events"
	"github.com/aniwoo/aniwoo-api/internal/identity"
	"github.com/aniwoo/aniwoo-api/internal/idp"
	"github.com/aniwoo/aniwoo-api/internal/middleware"
	"github.com/aniwoo/aniwoo-api/internal/models"
	"github.com/aniwoo/aniwoo-api/pkg/dto"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
)

type AuthHandler struct {
	cfg  *config.Config
	deps identity.Deps
	bus  *events.Bus
}

func NewAuthHandler(cfg *config.Config, deps identity.Deps, bus *events.Bus) *AuthHandler {
	return &AuthHandler{cfg: cfg, deps: deps, bus: bus}
}

func (h *AuthHandler) Login(c *drift.Context) {
	var req dto.LoginRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" {
		c.BadRequest("email and password are required")
		return
	}
	if !models.ValidRole(req.Role) {
		c.BadRequest("role must be vet or pet_owner")
		return
	}

	ictx := identity.NewContext(h.deps)
	defer ictx.Dispose()

	id, session, err := ictx.Login(c.Request.Context(), req.Email, req.Password, req.Role)
	if err != nil {
		switch {
		case errors.Is(err, identity.ErrInvalidCredentials):
			c.Unauthorized("invalid email or password")
		case errors.Is(err, identity.ErrSessionEstablishmentFailed):
			c.InternalServerError("could not establish session")
		default:
			c.InternalServerError("login failed")
		}
		return
	}

	h.bus.Publish(events.Event{Kind: events.KindSignedIn, User: id.ID, Session: session})

	_ = c.JSON(200, sessionResponse(id, session))
}

func (h *AuthHandler) Register(c *drift.Context) {
	var req dto.RegisterRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}
	if req.Name == "" || req.Email == "" || req.Password == "" {
		c.BadRequest("name, email and password are required")
		return
	}
	if !models.ValidRole(req.Role) {
		c.BadRequest("role must be vet or pet_owner")
		return
	}

	ictx := identity.NewContext(h.deps)
	defer ictx.Dispose()

	id, session, err := ictx.Register(c.Request.Context(), req.Name, req.Email, req.Password, req.Role)
	if err != nil {
		switch {
		case errors.Is(err, identity.ErrProfileCreationFailed):
			c.InternalServerError("could not create profile")
		case errors.Is(err, identity.ErrSessionEstablishmentFailed):
			c.InternalServerError("could not establish session")
		default:
			c.BadRequest("registration failed")
		}
		return
	}

	h.bus.Publish(events.Event{Kind: events.KindSignedUp, User: id.ID, Session: session})

	_ = c.JSON(201, sessionResponse(id, session))
}

func (h *AuthHandler) Refresh(c *drift.Context) {
	var req dto.RefreshTokenRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}
	if req.RefreshToken == "" {
		c.BadRequest("refresh_token is required")
		return
	}

	session, err := h.deps.IDP.RefreshSession(c.Request.Context(), req.RefreshToken)
	if err != nil {
		c.Unauthorized("invalid refresh token")
		return
	}

	var id models.Identity
	if session.User != nil {
		id = models.Identity{
			ID:          session.User.ID,
			Email:       session.User.Email,
			DisplayName: session.User.Metadata.DisplayName(),
			Role:        session.User.Metadata.Role,
		}
		h.bus.Publish(events.Event{Kind: events.KindTokenRefreshed, User: session.User.ID, Session: session})
	}

	_ = c.JSON(200, sessionResponse(id, session))
}

func (h *AuthHandler) Logout(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	ictx := identity.NewContext(h.deps)
	defer ictx.Dispose()
	ictx.AdoptSession(&idp.Session{AccessToken: middleware.GetAccessToken(c)})

	// Logout never fails from the caller's point of view.
	_ = ictx.Logout(c.Request.Context())

	h.bus.Publish(events.Event{Kind: events.KindSignedOut, User: userID})

	_ = c.JSON(200, map[string]string{"message": "logged out"})
}

// GoogleConsent stashes the chosen role and hands back the provider URL.
func (h *AuthHandler) GoogleConsent(c *drift.Context) {
	var req dto.ConsentURLRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	ictx := identity.NewContext(h.deps)
	defer ictx.Dispose()

	consentURL, err := ictx.LoginWithGoogle(c.Request.Context(), req.Role)
	if err != nil {
		if errors.Is(err, identity.ErrOAuthInitiationFailed) {
			c.InternalServerError("could not start google sign-in")
			return
		}
		c.BadRequest("role must be vet or pet_owner")
		return
	}

	_ = c.JSON(200, dto.ConsentURLResponse{URL: consentURL})
}

// GoogleCallback finishes the OAuth round trip: exchanges the code, signs the
// id token into the identity service, and lets the event listener consume the
// stashed role keyed by the state nonce.
func (h *AuthHandler) GoogleCallback(c *drift.Context) {
	state := c.QueryParam("state")
	if state == "" {
		h.renderCallbackError(c, "missing state parameter")
		return
	}
	code := c.QueryParam("code")
	if code == "" {
		h.renderCallbackError(c, "missing authorization code")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	exchange, err := h.deps.Google.ExchangeCode(ctx, code)
	if err != nil {
		h.renderCallbackError(c, "failed to exchange code")
		return
	}

	session, err := h.deps.IDP.SignInWithIDToken(ctx, "google", exchange.IDToken)
	if err != nil || session.User == nil {
		h.renderCallbackError(c, "failed to establish session")
		return
	}

	ictx := identity.NewContext(h.deps)
	defer ictx.Dispose()
	ictx.HandleEvent(ctx, events.Event{
		Kind:       events.KindSignedIn,
		User:       session.User.ID,
		Session:    session,
		PendingKey: state,
	})

	// The stash is consumed above; broadcast without the key.
	h.bus.Publish(events.Event{Kind: events.KindSignedIn, User: session.User.ID, Session: session})

	redirectURL := fmt.Sprintf("%s#access_token=%s&refresh_token=%s&expires_in=%d",
		h.cfg.FrontendCallbackURL,
		url.QueryEscape(session.AccessToken),
		url.QueryEscape(session.RefreshToken),
		session.ExpiresIn,
	)
	h.renderCallbackPage(c, redirectURL, "")
}

func sessionResponse(id models.Identity, session *idp.Session) dto.SessionResponse {
	return dto.SessionResponse{
		AccessToken:  session.AccessToken,
		RefreshToken: session.RefreshToken,
		ExpiresIn:    session.ExpiresIn,
		Identity: dto.IdentityResponse{
			ID:          id.ID.String(),
			Email:       id.Email,
			DisplayName: id.DisplayName,
			Role:        id.Role,
		},
	}
}

func (h *AuthHandler) renderCallbackError(c *drift.Context, errMsg string) {
	redirectURL := fmt.Sprintf("%s#error=%s", h.cfg.FrontendCallbackURL, url.QueryEscape(errMsg))
	h.renderCallbackPage(c, redirectURL, errMsg)
}

// renderCallbackPage is the browser hand-off after OAuth: a small page that
// immediately forwards the user, with the outcome visible if it does not.
func (h *AuthHandler) renderCallbackPage(c *drift.Context, redirectURL, errMsg string) {
	title := "Signed in"
	heading := "You're signed in!"
	subtitle := "Taking you back to Aniwoo..."
	headingColor := "#14532d"
	statusCode := 200

	if errMsg != "" {
		title = "Sign-in failed"
		heading = "Sign-in failed"
		subtitle = errMsg
		headingColor = "#991b1b"
		statusCode = 400
	}

	html := fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>%s</title>
    <style>
        body { font-family: system-ui, -apple-system, sans-serif; background: #f0fdf4; color: #374151; margin: 0; padding: 40px 20px; min-height: 100vh; }
        .card { max-width: 400px; margin: 0 auto; background: #fff; border: 1px solid #d1fae5; border-radius: 12px; padding: 40px 32px; text-align: center; }
        .paw { font-size: 40px; margin-bottom: 16px; }
        h1 { font-size: 20px; font-weight: 600; color: %s; margin: 0 0 8px 0; }
        .subtitle { color: #6b7280; font-size: 14px; margin: 0 0 4px 0; }
        .hint { color: #9ca3af; font-size: 13px; margin: 0; }
    </style>
</head>
<body>
    <div class="card">
        <div class="paw">&#128062;</div>
        <h1>%s</h1>
        <p class="subtitle">%s</p>
        <p class="hint">You can close this window if nothing happens.</p>
    </div>
    <script>window.location.href = %q;</script>
</body>
</html>`, title, headingColor, heading, subtitle, redirectURL)

	_ = c.HTML(statusCode, html)
}
