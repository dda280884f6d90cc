// Package router is a thin layer over chi that adds route names and
// prefix groups. Names feed the route:list command and URL reversal;
// everything else is chi untouched.
package router

import (
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
)

type Middleware func(http.Handler) http.Handler

// RouteInfo is one named route as reported by Routes.
type RouteInfo struct {
	Method string
	Path   string
	Name   string
}

// names is the reverse index shared by a Router and all its groups.
type names struct {
	mu      sync.RWMutex
	ordered []RouteInfo
	paths   map[string]string
}

func (n *names) add(method, path, name string) {
	if name == "" {
		return
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	n.ordered = append(n.ordered, RouteInfo{Method: method, Path: path, Name: name})
	n.paths[name] = path
}

type Router struct {
	mux   chi.Router
	names *names
}

func New() *Router {
	return &Router{
		mux:   chi.NewRouter(),
		names: &names{paths: make(map[string]string)},
	}
}

func (r *Router) Handler() http.Handler { return r.mux }

func (r *Router) Use(mws ...Middleware) {
	for _, mw := range mws {
		r.mux.Use(mw)
	}
}

// Group scopes subsequent registrations under prefix with mws applied to
// each route.
func (r *Router) Group(prefix string, mws ...Middleware) *Group {
	return &Group{root: r, prefix: clean(prefix), mws: stack(nil, mws)}
}

func (r *Router) Get(path, name string, h http.HandlerFunc, mws ...Middleware) {
	r.mount(http.MethodGet, clean(path), name, h, mws)
}

func (r *Router) Post(path, name string, h http.HandlerFunc, mws ...Middleware) {
	r.mount(http.MethodPost, clean(path), name, h, mws)
}

func (r *Router) Put(path, name string, h http.HandlerFunc, mws ...Middleware) {
	r.mount(http.MethodPut, clean(path), name, h, mws)
}

func (r *Router) Patch(path, name string, h http.HandlerFunc, mws ...Middleware) {
	r.mount(http.MethodPatch, clean(path), name, h, mws)
}

func (r *Router) Delete(path, name string, h http.HandlerFunc, mws ...Middleware) {
	r.mount(http.MethodDelete, clean(path), name, h, mws)
}

// HandleFunc mounts h for every method, unnamed. Used for the endpoints
// that sit outside the API surface, like /metrics and /ws.
func (r *Router) HandleFunc(path string, h http.HandlerFunc) {
	r.mux.HandleFunc(clean(path), h)
}

// Routes lists every named route in registration order.
func (r *Router) Routes() []RouteInfo {
	r.names.mu.RLock()
	defer r.names.mu.RUnlock()
	out := make([]RouteInfo, len(r.names.ordered))
	copy(out, r.names.ordered)
	return out
}

// Path looks up the registered pattern for a route name.
func (r *Router) Path(name string) (string, bool) {
	r.names.mu.RLock()
	defer r.names.mu.RUnlock()
	p, ok := r.names.paths[name]
	return p, ok
}

// URL reverses a named route, filling {param} segments from params.
func (r *Router) URL(name string, params map[string]string) (string, error) {
	p, ok := r.Path(name)
	if !ok {
		return "", fmt.Errorf("route %q not found", name)
	}
	for k, v := range params {
		p = strings.ReplaceAll(p, "{"+k+"}", v)
	}
	if strings.Contains(p, "{") {
		return "", fmt.Errorf("missing parameters for route %q", name)
	}
	return p, nil
}

func (r *Router) mount(method, path, name string, h http.Handler, mws []Middleware) {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	r.mux.Method(method, path, h)
	r.names.add(method, path, name)
}

// Group registers routes under a shared prefix and middleware stack.
type Group struct {
	root   *Router
	prefix string
	mws    []Middleware
}

// Group nests: the child inherits this group's prefix and middleware.
func (g *Group) Group(prefix string, mws ...Middleware) *Group {
	return &Group{
		root:   g.root,
		prefix: join(g.prefix, prefix),
		mws:    stack(g.mws, mws),
	}
}

func (g *Group) Get(path, name string, h http.HandlerFunc, mws ...Middleware) {
	g.root.mount(http.MethodGet, join(g.prefix, path), name, h, stack(g.mws, mws))
}

func (g *Group) Post(path, name string, h http.HandlerFunc, mws ...Middleware) {
	g.root.mount(http.MethodPost, join(g.prefix, path), name, h, stack(g.mws, mws))
}

func (g *Group) Put(path, name string, h http.HandlerFunc, mws ...Middleware) {
	g.root.mount(http.MethodPut, join(g.prefix, path), name, h, stack(g.mws, mws))
}

func (g *Group) Patch(path, name string, h http.HandlerFunc, mws ...Middleware) {
	g.root.mount(http.MethodPatch, join(g.prefix, path), name, h, stack(g.mws, mws))
}

func (g *Group) Delete(path, name string, h http.HandlerFunc, mws ...Middleware) {
	g.root.mount(http.MethodDelete, join(g.prefix, path), name, h, stack(g.mws, mws))
}

// stack concatenates two middleware lists into a fresh slice so groups
// never alias each other's backing arrays.
func stack(base, extra []Middleware) []Middleware {
	out := make([]Middleware, 0, len(base)+len(extra))
	out = append(out, base...)
	return append(out, extra...)
}

// join glues path fragments into a single slash-rooted pattern.
func join(parts ...string) string {
	segs := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.Trim(p, "/"); t != "" {
			segs = append(segs, t)
		}
	}
	if len(segs) == 0 {
		return "/"
	}
	return "/" + strings.Join(segs, "/")
}

func clean(path string) string { return join(path) }
