// Package testkit runs table-style API tests described by JSON files.
//
// A scenario file names an HTTP request, the status it must produce and,
// optionally, a file holding the JSON body the response must match. The
// fixture layout keeps request and response payloads next to the scenario:
//
//	fixtures/
//	  create_item.json      scenario
//	  create_item_req.json  request body
//	  create_item_res.json  expected response
//
//	func TestAPI(t *testing.T) {
//	    testkit.RunDir(t, routes.Build().Handler(), "fixtures")
//	}
package testkit

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// Scenario is one request/response expectation loaded from JSON.
type Scenario struct {
	Name        string `json:"name"`
	Description string `json:"description"`

	RequestMethod   string            `json:"requestMethod"`
	RequestURL      string            `json:"requestUrl"`
	RequestFileName string            `json:"requestFileName"`
	Headers         map[string]string `json:"headers"`

	ResponseFileName string `json:"responseFileName"`
	ExpectedCode     int    `json:"expectedCode"`

	dir string
}

// LoadScenario parses one scenario file. Body file names inside it are
// later resolved relative to the scenario's own directory.
func LoadScenario(path string) (*Scenario, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("testkit: resolve path %q: %w", path, err)
	}
	raw, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("testkit: read %q: %w", abs, err)
	}

	s := Scenario{dir: filepath.Dir(abs)}
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("testkit: parse %q: %w", abs, err)
	}
	if err := s.check(); err != nil {
		return nil, fmt.Errorf("testkit: invalid scenario %q: %w", abs, err)
	}
	return &s, nil
}

// LoadAllFromDir loads every *.json file under dir, skipping body files
// named with the _req/_res convention. Parse failures come back as
// errors alongside whatever did load.
func LoadAllFromDir(dir string) ([]*Scenario, []error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil || len(paths) == 0 {
		return nil, []error{fmt.Errorf("testkit: no scenario files found in %q", dir)}
	}

	var (
		loaded []*Scenario
		errs   []error
	)
	for _, p := range paths {
		if isBodyFile(p) {
			continue
		}
		s, err := LoadScenario(p)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		loaded = append(loaded, s)
	}
	return loaded, errs
}

// isBodyFile reports whether path names a request or response payload
// rather than a scenario.
func isBodyFile(path string) bool {
	base := strings.TrimSuffix(filepath.Base(path), ".json")
	return strings.HasSuffix(base, "_req") || strings.HasSuffix(base, "_res")
}

func (s *Scenario) check() error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.RequestURL == "" {
		return fmt.Errorf("requestUrl is required")
	}
	if s.ExpectedCode == 0 {
		return fmt.Errorf("expectedCode is required")
	}
	if s.RequestMethod == "" {
		s.RequestMethod = http.MethodGet
	}
	return nil
}

// RequestBodyPath resolves the request body file, or "" when the
// scenario sends no body.
func (s *Scenario) RequestBodyPath() string { return s.resolve(s.RequestFileName) }

// ResponseBodyPath resolves the expected response file, or "" when the
// scenario asserts status only.
func (s *Scenario) ResponseBodyPath() string { return s.resolve(s.ResponseFileName) }

func (s *Scenario) resolve(name string) string {
	if name == "" || filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(s.dir, name)
}
