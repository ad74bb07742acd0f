package validator

import "testing"

type request struct {
	Title string `json:"title" validate:"required,max=5"`
	Key   string `json:"key" validate:"omitempty,oneof=Enter Escape"`
	Page  int    `query:"page" validate:"min=1"`
}

func TestFields(t *testing.T) {
	v := New()

	if err := v.Validate(&request{Title: "ok", Page: 1}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err := v.Validate(&request{Title: "too long", Key: "Tab"})
	fields := Fields(err)
	want := map[string]string{"title": "max=5", "key": "oneof=Enter Escape", "page": "min=1"}
	if len(fields) != len(want) {
		t.Fatalf("got %v, want %v", fields, want)
	}
	for k, rule := range want {
		if fields[k] != rule {
			t.Errorf("%s: got %q, want %q", k, fields[k], rule)
		}
	}

	if Fields(nil) != nil {
		t.Fatalf("nil error must yield no fields")
	}
}
