package middleware

import (
	"encoding/json"
	"net/http"
	"strings"

	"petkeep/internal/session"
)

// gateExempt lists operational endpoints the route gate never evaluates;
// probes and scrapers carry no session and must not be bounced to /login.
var gateExempt = map[string]struct{}{
	"/health":  {},
	"/metrics": {},
}

// RouteGate enforces the session.Evaluate decision table on every request
// before any protected content is produced. Browser navigation gets 303
// redirects; callers that ask for JSON get a structured 401 on deny so the
// client SDK can map it into the failure taxonomy.
func RouteGate() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, exempt := gateExempt[r.URL.Path]; exempt {
				next.ServeHTTP(w, r)
				return
			}

			_, loggedIn := GetClaims(r.Context())
			v := session.Evaluate(loggedIn, r.URL.Path)
			switch v.Decision {
			case session.Allow:
				next.ServeHTTP(w, r)
			case session.Deny:
				if wantsJSON(r) {
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusUnauthorized)
					_ = json.NewEncoder(w).Encode(map[string]string{"message": "Not authenticated"})
					return
				}
				http.Redirect(w, r, v.Target, http.StatusSeeOther)
			case session.Redirect:
				http.Redirect(w, r, v.Target, http.StatusSeeOther)
			}
		})
	}
}

func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}
