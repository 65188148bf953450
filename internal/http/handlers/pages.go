package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lunacare/lunacare-backend/internal/session"
	"github.com/lunacare/lunacare-backend/internal/session/guard"
)

// Page routes as the client knows them. Everything not listed is an unknown
// route and bounces to the public entry.
var (
	publicPages = map[string]bool{
		guard.PublicEntry: true,
	}
	protectedPages = map[string]bool{
		guard.AuthedLanding: true,
		"/log-cycle":        true,
		"/pcos-risk":        true,
		"/recommendations":  true,
		"/community":        true,
		"/profile":          true,
	}
)

// PageHandler answers "may this page render right now" for the client shell.
type PageHandler struct {
	sessions *session.Manager
}

func NewPageHandler(sessions *session.Manager) *PageHandler {
	return &PageHandler{sessions: sessions}
}

func actionName(a guard.Action) string {
	switch a {
	case guard.ActionDefer:
		return "defer"
	case guard.ActionPlaceholder:
		return "placeholder"
	case guard.ActionRender:
		return "render"
	case guard.ActionRedirect:
		return "redirect"
	}
	return "defer"
}

// Snapshot reports the server-side session state the shell hydrates from.
func (ph *PageHandler) Snapshot(c *gin.Context) {
	snap, ready := ph.sessions.Current()
	c.JSON(http.StatusOK, gin.H{
		"ready":    ready,
		"loading":  snap.Loading,
		"identity": snap.Identity,
		"profile":  snap.Profile,
	})
}

func (ph *PageHandler) Decide(c *gin.Context) {
	path := c.Query("path")
	if path == "" {
		path = "/"
	}

	snap, ready := ph.sessions.Current()

	var decision guard.Decision
	switch {
	case protectedPages[path]:
		decision = guard.Protected(snap, ready)
	case publicPages[path]:
		decision = guard.Public(snap, ready)
	default:
		decision = guard.Unknown()
	}

	c.JSON(http.StatusOK, gin.H{
		"action":  actionName(decision.Action),
		"target":  decision.Target,
		"replace": decision.Replace,
	})
}
