package testkit_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rewearhq/rewear/pkg/testkit"
)

// testHandler is a tiny http.Handler that powers the testkit self-tests.
// In real projects, replace with the full route handler.
var testHandler http.Handler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/healthz":
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`)) //nolint:errcheck
	default:
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"status":404,"message":"Not found"}`)) //nolint:errcheck
	}
})

func TestRunDir(t *testing.T) {
	testkit.RunDir(t, testHandler, "fixtures")
}

func TestLoadScenario(t *testing.T) {
	s, err := testkit.LoadScenario("fixtures/health_check.json")
	if err != nil {
		t.Fatalf("load scenario: %v", err)
	}

	assert.Equal(t, "Health check returns ok", s.Name)
	assert.Equal(t, "GET", s.RequestMethod)
	assert.Equal(t, "/healthz", s.RequestURL)
	assert.Equal(t, 200, s.ExpectedCode)
	assert.NotEmpty(t, s.ResponseBodyPath())
}

func TestLoadScenarioMissingFields(t *testing.T) {
	_, errs := testkit.LoadAllFromDir("no-such-dir")
	assert.NotEmpty(t, errs)
}

func TestAssertJSONBody(t *testing.T) {
	s := &testkit.Scenario{Name: "json assert test", ExpectedCode: 200}

	// Matching JSON with different whitespace and key order should pass.
	expected := []byte(`{"title":"Denim Jacket","point_value":120}`)
	actual := []byte(`{"point_value":  120, "title": "Denim Jacket"}`)
	testkit.AssertJSONBody(t, s, expected, actual)
}

// Request and response payload files share the scenario directory and
// must not be mistaken for scenarios themselves.
func TestLoadAllSkipsBodyFiles(t *testing.T) {
	loaded, errs := testkit.LoadAllFromDir("fixtures")
	assert.Empty(t, errs)

	names := make([]string, 0, len(loaded))
	for _, s := range loaded {
		names = append(names, s.Name)
	}
	assert.NotContains(t, names, "")
	assert.Len(t, loaded, 2)
}
