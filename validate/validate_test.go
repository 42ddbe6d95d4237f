package validate

import "testing"

var petSchema = Schema{
	{Name: "name", Kind: String, Required: true, MinLen: 3, MaxLen: 50},
	{Name: "ownerName", Kind: String, Required: true, MinLen: 3, MaxLen: 50},
	{Name: "imageUrl", Kind: URL},
	{Name: "age", Kind: Int, Required: true, Min: 1, Max: 30},
	{Name: "notes", Kind: String, MaxLen: 200},
}

func petValues(overrides map[string]any) map[string]any {
	values := map[string]any{
		"name":      "Rex",
		"ownerName": "Joana",
		"imageUrl":  "",
		"age":       3,
		"notes":     "",
	}
	for k, v := range overrides {
		values[k] = v
	}
	return values
}

func TestCheck_ValidPayload(t *testing.T) {
	if vs := petSchema.Check(petValues(nil)); len(vs) != 0 {
		t.Fatalf("expected no violations, got %v", vs)
	}
}

func TestCheck_Violations(t *testing.T) {
	cases := []struct {
		name      string
		overrides map[string]any
		wantField string
	}{
		{"name too short", map[string]any{"name": "ab"}, "name"},
		{"name missing", map[string]any{"name": "   "}, "name"},
		{"owner name too short", map[string]any{"ownerName": "Jo"}, "ownerName"},
		{"age negative", map[string]any{"age": -1}, "age"},
		{"age zero", map[string]any{"age": 0}, "age"},
		{"age above bound", map[string]any{"age": 31}, "age"},
		{"age wrong type", map[string]any{"age": "three"}, "age"},
		{"relative image url", map[string]any{"imageUrl": "/images/rex.png"}, "imageUrl"},
		{"garbage image url", map[string]any{"imageUrl": "://nohost"}, "imageUrl"},
		{"notes too long", map[string]any{"notes": string(make([]byte, 201))}, "notes"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			vs := petSchema.Check(petValues(tc.overrides))
			if len(vs) != 1 {
				t.Fatalf("expected 1 violation, got %v", vs)
			}
			if vs[0].Field != tc.wantField {
				t.Fatalf("expected violation on %q, got %q (%s)", tc.wantField, vs[0].Field, vs[0].Message)
			}
			if vs[0].Message == "" {
				t.Fatalf("violation on %q has empty message", vs[0].Field)
			}
		})
	}
}

func TestCheck_BoundaryValues(t *testing.T) {
	ok := petValues(map[string]any{"age": 30, "name": "Rex", "imageUrl": "https://example.com/rex.png"})
	if vs := petSchema.Check(ok); len(vs) != 0 {
		t.Fatalf("boundary payload should pass, got %v", vs)
	}
}

func TestCheck_ViolationsInSchemaOrder(t *testing.T) {
	vs := petSchema.Check(petValues(map[string]any{"name": "ab", "age": 31}))
	if len(vs) != 2 {
		t.Fatalf("expected 2 violations, got %v", vs)
	}
	if vs[0].Field != "name" || vs[1].Field != "age" {
		t.Fatalf("violations out of schema order: %v", vs)
	}
}

func TestCheck_Email(t *testing.T) {
	schema := Schema{{Name: "email", Kind: Email, Required: true, MaxLen: 100}}

	if vs := schema.Check(map[string]any{"email": "a@example.com"}); len(vs) != 0 {
		t.Fatalf("valid email rejected: %v", vs)
	}
	if vs := schema.Check(map[string]any{"email": "not-an-email"}); len(vs) != 1 {
		t.Fatalf("invalid email accepted")
	}
	if vs := schema.Check(map[string]any{"email": ""}); len(vs) != 1 {
		t.Fatalf("missing required email accepted")
	}
}

func TestLabel(t *testing.T) {
	cases := map[string]string{
		"name":      "Name",
		"ownerName": "Owner name",
		"imageUrl":  "Image url",
	}
	for in, want := range cases {
		if got := label(in); got != want {
			t.Errorf("label(%q) = %q, want %q", in, got, want)
		}
	}
}
