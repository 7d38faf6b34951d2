package session

import "testing"

func TestEvaluate(t *testing.T) {
	user := &UserProfile{ID: "u1", Name: "Ada", AccessToken: "tok"}
	sel := []SelectedItem{{ID: "f1", Name: "A", URL: "urlA"}}

	tests := []struct {
		name string
		snap Snapshot
		want Decision
	}{
		{"loading wins over everything", Snapshot{Loading: true, User: user, SelectedFiles: sel}, ShowLoading},
		{"loading with empty session", Snapshot{Loading: true}, ShowLoading},
		{"unauthenticated", Snapshot{}, RedirectLogin},
		{"unauthenticated with stale selection", Snapshot{SelectedFiles: sel}, RedirectLogin},
		{"authenticated without selection", Snapshot{User: user}, RedirectLogin},
		{"authenticated with selection", Snapshot{User: user, SelectedFiles: sel}, Render},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Evaluate(tt.snap); got != tt.want {
				t.Fatalf("Evaluate() = %v, want %v", got, tt.want)
			}
		})
	}
}
