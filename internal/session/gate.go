package session

import "strings"

// Route-gate constants. Everything under the protected prefix requires a live
// session; authenticated users are pushed off public pages onto the landing.
const (
	ProtectedPrefix = "/app"
	LoginPath       = "/login"
	LandingPath     = "/app/dashboard"
)

// Decision is the route gate outcome.
type Decision int

const (
	Allow Decision = iota
	Deny
	Redirect
)

// Verdict pairs a decision with its navigation target. Allow has none.
type Verdict struct {
	Decision Decision
	Target   string
}

// Evaluate is the pure decision table over (isLoggedIn, isProtectedPath).
// All four combinations are covered and mutually exclusive.
func Evaluate(loggedIn bool, path string) Verdict {
	protected := IsProtectedPath(path)
	switch {
	case !loggedIn && protected:
		return Verdict{Decision: Deny, Target: LoginPath}
	case loggedIn && protected:
		return Verdict{Decision: Allow}
	case loggedIn && !protected:
		return Verdict{Decision: Redirect, Target: LandingPath}
	default: // !loggedIn && !protected
		return Verdict{Decision: Allow}
	}
}

// IsProtectedPath reports whether path falls under the protected prefix.
// "/application" must not match, so the prefix has to end at a segment break.
func IsProtectedPath(path string) bool {
	if path == ProtectedPrefix {
		return true
	}
	return strings.HasPrefix(path, ProtectedPrefix+"/")
}
