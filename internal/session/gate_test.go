package session

import "testing"

func TestEvaluate_TruthTable(t *testing.T) {
	cases := []struct {
		name     string
		loggedIn bool
		path     string
		want     Verdict
	}{
		{"anonymous protected", false, "/app/dashboard", Verdict{Deny, "/login"}},
		{"authenticated protected", true, "/app/dashboard", Verdict{Allow, ""}},
		{"authenticated public", true, "/login", Verdict{Redirect, "/app/dashboard"}},
		{"anonymous public", false, "/login", Verdict{Allow, ""}},
		{"anonymous root", false, "/", Verdict{Allow, ""}},
		{"authenticated prefix root", true, "/app", Verdict{Allow, ""}},
		{"anonymous prefix root", false, "/app", Verdict{Deny, "/login"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Evaluate(tc.loggedIn, tc.path)
			if got != tc.want {
				t.Fatalf("Evaluate(%v, %q) = %+v, want %+v", tc.loggedIn, tc.path, got, tc.want)
			}
		})
	}
}

func TestIsProtectedPath(t *testing.T) {
	protected := []string{"/app", "/app/", "/app/dashboard", "/app/pets/abc"}
	public := []string{"/", "/login", "/signup", "/application", "/apple"}

	for _, p := range protected {
		if !IsProtectedPath(p) {
			t.Errorf("IsProtectedPath(%q) = false, want true", p)
		}
	}
	for _, p := range public {
		if IsProtectedPath(p) {
			t.Errorf("IsProtectedPath(%q) = true, want false", p)
		}
	}
}
