package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lunacare/lunacare-backend/internal/domain"
	"github.com/lunacare/lunacare-backend/internal/platform/logger"
	"github.com/lunacare/lunacare-backend/internal/session"
)

type stubProvider struct {
	mu   sync.Mutex
	fn   func(*domain.Identity)
	last *domain.Identity
}

func (p *stubProvider) Subscribe(fn func(identity *domain.Identity)) (cancel func()) {
	p.mu.Lock()
	p.fn = fn
	last := p.last
	p.mu.Unlock()
	if last != nil {
		fn(last)
	}
	return func() {}
}

func (p *stubProvider) emit(identity *domain.Identity) {
	p.mu.Lock()
	fn := p.fn
	p.last = identity
	p.mu.Unlock()
	if fn != nil {
		fn(identity)
	}
}

type stubStore struct{}

func (stubStore) Ensure(ctx context.Context, identity *domain.Identity, defaults domain.ProfileDefaults) error {
	return nil
}

func (stubStore) Get(ctx context.Context, userID uuid.UUID) (*domain.UserProfile, error) {
	return &domain.UserProfile{UserID: userID, DisplayName: "Ada"}, nil
}

type pageDecision struct {
	Action  string `json:"action"`
	Target  string `json:"target"`
	Replace bool   `json:"replace"`
}

func decidePage(t *testing.T, sessions *session.Manager, path string) pageDecision {
	t.Helper()
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.GET("/api/route", NewPageHandler(sessions).Decide)

	req := httptest.NewRequest(http.MethodGet, "/api/route?path="+path, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var decision pageDecision
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decision))
	return decision
}

func newPageSession(t *testing.T, provider *stubProvider) *session.Manager {
	t.Helper()
	log, err := logger.New("test")
	require.NoError(t, err)
	t.Cleanup(log.Sync)

	m := session.NewManager(log, session.Config{
		Provider: provider,
		Store:    stubStore{},
		Defaults: domain.DefaultProfile(),
	})
	m.Start(context.Background())
	t.Cleanup(m.Close)
	return m
}

func waitReady(t *testing.T, sessions *session.Manager) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if snap, ready := sessions.Current(); ready && !snap.Loading {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("session never became ready")
}

func TestPageDecisions(t *testing.T) {
	provider := &stubProvider{}
	sessions := newPageSession(t, provider)

	provider.emit(nil) // resolved: signed out
	waitReady(t, sessions)

	d := decidePage(t, sessions, "/dashboard")
	assert.Equal(t, "redirect", d.Action)
	assert.Equal(t, "/", d.Target)
	assert.True(t, d.Replace)

	d = decidePage(t, sessions, "/")
	assert.Equal(t, "render", d.Action)

	d = decidePage(t, sessions, "/no-such-page")
	assert.Equal(t, "redirect", d.Action)
	assert.Equal(t, "/", d.Target)
	assert.True(t, d.Replace)

	provider.emit(&domain.Identity{ID: uuid.New(), Email: "ada@example.com"})
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if snap, _ := sessions.Current(); snap.Identity != nil && !snap.Loading {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}

	d = decidePage(t, sessions, "/dashboard")
	assert.Equal(t, "render", d.Action)

	d = decidePage(t, sessions, "/")
	assert.Equal(t, "redirect", d.Action)
	assert.Equal(t, "/dashboard", d.Target)
}
