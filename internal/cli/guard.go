package cli

import (
	"context"
	"time"

	"taskpilot/internal/repositories/credentials"
	"taskpilot/internal/services"
)

// protectedAreas lists the view areas that require a session. Both gates
// (the edge gate and the route guard dispatch) consult this one set; keeping
// a single source prevents an area from being reachable through one gate and
// not the other.
var protectedAreas = map[string]struct{}{
	"tasks":   {},
	"profile": {},
}

// commandArea maps REPL commands onto the area they render. Commands absent
// from the map belong to the public surface.
var commandArea = map[string]string{
	"l":       "tasks",
	"list":    "tasks",
	"add":     "tasks",
	"edit":    "tasks",
	"del":     "tasks",
	"toggle":  "tasks",
	"search":  "tasks",
	"filter":  "tasks",
	"view":    "tasks",
	"refresh": "tasks",
	"chat":    "tasks",
	"history": "tasks",
	"whoami":  "profile",
}

func areaProtected(area string) bool {
	_, ok := protectedAreas[area]
	return ok
}

func commandProtected(cmd string) bool {
	return areaProtected(commandArea[cmd])
}

// Decision is the route guard's verdict on rendering protected content.
type Decision int

const (
	// DecisionWait: the session has not settled; render only a neutral
	// loading indicator, never protected content.
	DecisionWait Decision = iota
	// DecisionRedirect: anonymous; send the user to the public surface and
	// render nothing.
	DecisionRedirect
	// DecisionRender: authenticated; the guarded content may render.
	DecisionRender
)

// SessionStater exposes the one session property the guard projects.
type SessionStater interface {
	State() services.State
}

// RouteGuard is a pure projection of the session state plus a render latch.
// The latch opens only once the session reaches Authenticated, so protected
// content never renders in the gap between an Anonymous verdict and the
// redirect taking effect.
type RouteGuard struct {
	session SessionStater
	render  bool
}

func NewRouteGuard(session SessionStater) *RouteGuard {
	return &RouteGuard{session: session}
}

func (g *RouteGuard) Decide() Decision {
	switch g.session.State() {
	case services.StateInitializing:
		return DecisionWait
	case services.StateAuthenticated:
		g.render = true
		return DecisionRender
	default:
		g.render = false
		return DecisionRedirect
	}
}

// MayRender reports the latch state after the last Decide call.
func (g *RouteGuard) MayRender() bool { return g.render }

// EdgeGate is the coarse outer gate: it admits protected areas purely on the
// presence of an unexpired token mirror in the credential store, without
// consulting session state.
type EdgeGate struct {
	creds credentials.Repository
	now   func() time.Time
}

func NewEdgeGate(creds credentials.Repository) *EdgeGate {
	return &EdgeGate{creds: creds, now: time.Now}
}

// Allows reports whether the given area may be entered. Public areas always
// pass. A missing token, a missing expiry stamp, or a stamp in the past all
// read as "no credential".
func (g *EdgeGate) Allows(ctx context.Context, area string) (bool, error) {
	if !areaProtected(area) {
		return true, nil
	}

	token, err := g.creds.Get(ctx, credentials.KeyAuthToken)
	if err != nil {
		return false, err
	}
	if token == nil {
		return false, nil
	}

	stamp, err := g.creds.Get(ctx, credentials.KeyAuthTokenExpires)
	if err != nil {
		return false, err
	}
	if stamp == nil {
		return false, nil
	}
	expires, err := time.Parse(time.RFC3339, string(stamp))
	if err != nil {
		return false, nil
	}
	return g.now().Before(expires), nil
}
