package testkit

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
)

// Run executes the scenario at path as a named subtest of t.
func Run(t *testing.T, handler http.Handler, path string) {
	t.Helper()

	s, err := LoadScenario(path)
	if err != nil {
		t.Fatalf("testkit: load scenario %q: %v", path, err)
	}
	t.Run(s.Name, func(t *testing.T) { fire(t, handler, s) })
}

// RunDir runs every scenario file in dir as a subtest. A file that fails
// to parse fails its own subtest without stopping the rest.
func RunDir(t *testing.T, handler http.Handler, dir string) {
	t.Helper()

	loaded, errs := LoadAllFromDir(dir)
	if len(loaded) == 0 {
		t.Fatalf("testkit: no runnable scenarios in %q: %v", dir, errs)
	}
	for _, err := range errs {
		t.Errorf("testkit: %v", err)
	}
	for _, s := range loaded {
		s := s
		t.Run(s.Name, func(t *testing.T) { fire(t, handler, s) })
	}
}

// fire sends the scenario's request through handler and asserts on the
// recorded response.
func fire(t *testing.T, handler http.Handler, s *Scenario) {
	t.Helper()

	var body io.Reader
	if p := s.RequestBodyPath(); p != "" {
		raw, err := os.ReadFile(p)
		if err != nil {
			t.Fatalf("[%s] read request file %q: %v", s.Name, p, err)
		}
		body = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(strings.ToUpper(s.RequestMethod), s.RequestURL, body)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	for k, v := range s.Headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	AssertStatusCode(t, s, rec.Code)

	if p := s.ResponseBodyPath(); p != "" {
		want, err := os.ReadFile(p)
		if err != nil {
			t.Errorf("[%s] read response file %q: %v", s.Name, p, err)
			return
		}
		AssertJSONBody(t, s, want, rec.Body.Bytes())
	}
}
