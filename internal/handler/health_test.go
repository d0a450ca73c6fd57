package handler

import (
	"net/http"
	"testing"
)

func TestHealth(t *testing.T) {
	r, _ := newTestRouter(t, "")

	w := do(r, http.MethodGet, "/health", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	body := decode[struct {
		Status      string          `json:"status"`
		Collections map[string]bool `json:"collections"`
	}](t, w)
	if body.Status != "healthy" {
		t.Errorf("unexpected status: %s", body.Status)
	}
	if len(body.Collections) != 6 {
		t.Fatalf("expected 6 collections, got %v", body.Collections)
	}
	for kind, ready := range body.Collections {
		if ready {
			t.Errorf("%s should not be ready yet", kind)
		}
	}
}
