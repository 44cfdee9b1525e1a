package auth

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/oauth2"

	sharedauth "study-backend/internal/shared/auth"
	"study-backend/internal/shared/server/respond"
	"study-backend/internal/shared/telemetry"
	"study-backend/internal/users"
)

// Profile is the provider-neutral identity extracted from a userinfo
// endpoint.
type Profile struct {
	Sub     string
	Email   string
	Name    string
	Picture string
}

// Provider pairs an oauth2 config with a profile fetcher.
type Provider struct {
	Name         string
	Config       *oauth2.Config
	FetchProfile func(ctx context.Context, client *http.Client) (Profile, error)
}

func (p *Provider) configured() bool {
	return p != nil && p.Config.ClientID != "" && p.Config.ClientSecret != "" && p.Config.RedirectURL != ""
}

// Service runs the OAuth dance for any registered provider and turns the
// provider identity into an application session.
type Service struct {
	providers  map[string]*Provider
	users      *users.Service
	uiRedirect string
	stateTTL   time.Duration
	stateStore *stateStore
}

func NewService(usersSvc *users.Service, uiRedirect string, providers ...*Provider) *Service {
	byName := make(map[string]*Provider, len(providers))
	for _, p := range providers {
		byName[p.Name] = p
	}
	return &Service{
		providers:  byName,
		users:      usersSvc,
		uiRedirect: uiRedirect,
		stateTTL:   5 * time.Minute,
		stateStore: newStateStore(),
	}
}

func (s *Service) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/auth/:provider/start", s.start)
	rg.GET("/auth/:provider/callback", s.callback)
}

func (s *Service) provider(c *gin.Context) *Provider {
	name := c.Param("provider")
	p, ok := s.providers[name]
	if !ok || !p.configured() {
		respond.Error(c, http.StatusNotFound, "auth_not_configured", "unknown or unconfigured provider", nil)
		return nil
	}
	return p
}

func (s *Service) start(c *gin.Context) {
	p := s.provider(c)
	if p == nil {
		return
	}

	state := uuid.NewString()
	s.stateStore.put(state, time.Now().Add(s.stateTTL))

	c.Redirect(http.StatusFound, p.Config.AuthCodeURL(state, oauth2.AccessTypeOffline))
}

func (s *Service) callback(c *gin.Context) {
	p := s.provider(c)
	if p == nil {
		return
	}

	state := c.Query("state")
	code := c.Query("code")
	if state == "" || code == "" {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "missing state or code", nil)
		return
	}
	if !s.stateStore.consume(state) {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "invalid or expired state", nil)
		return
	}

	ctx := c.Request.Context()
	token, err := p.Config.Exchange(ctx, code)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "failed to exchange code", nil)
		return
	}

	profile, err := p.FetchProfile(ctx, p.Config.Client(ctx, token))
	if err != nil || profile.Sub == "" || profile.Email == "" {
		telemetry.Warn("auth.profile_fetch_failed", map[string]any{
			"provider": p.Name,
			"error":    errString(err),
		})
		respond.Error(c, http.StatusBadGateway, "auth_failed", "failed to fetch user profile", nil)
		return
	}

	user, err := s.upsertUser(ctx, p.Name, profile)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to save user", nil)
		return
	}

	jwt, err := sharedauth.SignJWT(sharedauth.Claims{
		Sub:     user.ID,
		Email:   user.Email,
		Name:    user.FullName,
		Picture: user.PictureURL,
		Admin:   user.IsAdmin,
	})
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to issue token", nil)
		return
	}

	redirectURL, err := appendToken(s.uiRedirect, jwt)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to redirect", nil)
		return
	}
	c.Redirect(http.StatusFound, redirectURL)
}

// upsertUser stores the OAuth identity and returns the canonical account
// row, which may be a pre-existing local account with the same email.
func (s *Service) upsertUser(ctx context.Context, provider string, profile Profile) (users.User, error) {
	err := s.users.UpsertFromAuth(ctx, users.User{
		ID:         provider + ":" + profile.Sub,
		Email:      profile.Email,
		FullName:   profile.Name,
		PictureURL: profile.Picture,
		Provider:   provider,
	})
	if err != nil {
		return users.User{}, err
	}
	return s.users.GetByEmail(ctx, profile.Email)
}

type stateStore struct {
	items map[string]time.Time
	mu    sync.Mutex
}

func newStateStore() *stateStore {
	return &stateStore{items: make(map[string]time.Time)}
}

func (s *stateStore) put(state string, exp time.Time) {
	s.mu.Lock()
	s.items[state] = exp
	s.mu.Unlock()
}

// consume is single-use: a state token is removed on first lookup.
func (s *stateStore) consume(state string) bool {
	s.mu.Lock()
	exp, ok := s.items[state]
	if ok {
		delete(s.items, state)
	}
	s.mu.Unlock()
	if !ok {
		return false
	}
	return !time.Now().After(exp)
}

func appendToken(rawURL, token string) (string, error) {
	if rawURL == "" {
		return "", errors.New("redirect url required")
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set("token", token)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
