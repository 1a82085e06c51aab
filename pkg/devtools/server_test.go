package devtools

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/statekit-go/statekit/pkg/statekit"
)

func newTestRegistry(t *testing.T) *statekit.Registry {
	t.Helper()
	reg := statekit.New()
	if err := reg.CreateModel("counter", 0); err != nil {
		t.Fatal(err)
	}
	if err := reg.CreateModel("user", map[string]any{"name": "ada"}); err != nil {
		t.Fatal(err)
	}
	return reg
}

func TestModelsEndpoint(t *testing.T) {
	srv := NewServer(newTestRegistry(t))
	defer srv.Close()
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/models")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var ids []string
	if err := json.NewDecoder(resp.Body).Decode(&ids); err != nil {
		t.Fatal(err)
	}
	if len(ids) != 2 || ids[0] != "counter" || ids[1] != "user" {
		t.Fatalf("ids = %v, want [counter user]", ids)
	}
}

func TestModelEndpoint(t *testing.T) {
	srv := NewServer(newTestRegistry(t))
	defer srv.Close()
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/models/counter")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var body struct {
		ID    string  `json:"id"`
		State float64 `json:"state"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body.ID != "counter" || body.State != 0 {
		t.Fatalf("body = %+v", body)
	}
}

func TestModelEndpointUnknown(t *testing.T) {
	srv := NewServer(newTestRegistry(t))
	defer srv.Close()
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/models/nope")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
}

func TestSnapshotEndpoint(t *testing.T) {
	reg := newTestRegistry(t)
	err := reg.Update("counter", func(draft any, ctx *statekit.Ctx) error {
		ctx.SetState(41)
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}

	srv := NewServer(reg)
	defer srv.Close()
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/snapshot")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var snapshot map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&snapshot); err != nil {
		t.Fatal(err)
	}
	if snapshot["counter"] != float64(41) {
		t.Fatalf("counter = %v, want 41", snapshot["counter"])
	}
	user, ok := snapshot["user"].(map[string]any)
	if !ok || user["name"] != "ada" {
		t.Fatalf("user = %v", snapshot["user"])
	}
}

func TestMetricsEndpoint(t *testing.T) {
	srv := NewServer(newTestRegistry(t))
	defer srv.Close()
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/metrics")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
}
