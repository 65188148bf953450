// Package guard decides what a page request may show for a given session
// snapshot. The decisions are pure; the HTTP layer translates them into
// responses.
package guard

import "github.com/lunacare/lunacare-backend/internal/session"

type Action int

const (
	// ActionDefer means the session is not hydrated yet: produce no output
	// at all, not even a placeholder.
	ActionDefer Action = iota
	// ActionPlaceholder means show the loading view.
	ActionPlaceholder
	// ActionRender means serve the requested page.
	ActionRender
	// ActionRedirect means send the client to Target.
	ActionRedirect
)

type Decision struct {
	Action Action
	Target string
	// Replace asks the client to overwrite the current history entry so the
	// unresolvable location never lands in history.
	Replace bool
}

const (
	// PublicEntry is where unauthenticated visitors land.
	PublicEntry = "/"
	// AuthedLanding is where signed-in users are sent when a page is not for
	// them.
	AuthedLanding = "/dashboard"
)

// Protected gates pages that require a signed-in user. ready is false during
// the hydration window.
func Protected(snap session.Snapshot, ready bool) Decision {
	if !ready {
		return Decision{Action: ActionDefer}
	}
	if snap.Loading {
		return Decision{Action: ActionPlaceholder}
	}
	if snap.Identity == nil {
		// Replace so the back button cannot return to the protected page.
		return Decision{Action: ActionRedirect, Target: PublicEntry, Replace: true}
	}
	return Decision{Action: ActionRender}
}

// Public gates pages meant only for signed-out visitors; a signed-in user is
// bounced to their landing page instead.
func Public(snap session.Snapshot, ready bool) Decision {
	if !ready {
		return Decision{Action: ActionDefer}
	}
	if snap.Loading {
		return Decision{Action: ActionPlaceholder}
	}
	if snap.Identity != nil {
		return Decision{Action: ActionRedirect, Target: AuthedLanding, Replace: true}
	}
	return Decision{Action: ActionRender}
}

// Unknown handles paths no route matches: always back to the public entry,
// replacing history so back-navigation cannot revisit the dead path.
func Unknown() Decision {
	return Decision{Action: ActionRedirect, Target: PublicEntry, Replace: true}
}
