// Package event is the in-process dispatcher behind domain events like
// swap.completed and item.approved. Listeners register at boot; Fire
// runs them inline, FireAsync on their own goroutines.
package event

import "sync"

// Handler receives the payload the firer published.
type Handler func(payload interface{})

var (
	mu        sync.RWMutex
	listeners = map[string][]Handler{}
)

// Listen subscribes handler to an event name.
func Listen(name string, handler Handler) {
	mu.Lock()
	defer mu.Unlock()
	listeners[name] = append(listeners[name], handler)
}

// snapshot copies the handler list so firing never holds the lock while
// listeners run.
func snapshot(name string) []Handler {
	mu.RLock()
	defer mu.RUnlock()
	return append([]Handler(nil), listeners[name]...)
}

// Fire runs every listener for name synchronously, in registration order.
func Fire(name string, payload interface{}) {
	for _, h := range snapshot(name) {
		h(payload)
	}
}

// FireAsync starts each listener on its own goroutine and returns at
// once.
func FireAsync(name string, payload interface{}) {
	for _, h := range snapshot(name) {
		go h(payload)
	}
}

// Flush drops every subscription. Tests use this between cases.
func Flush() {
	mu.Lock()
	defer mu.Unlock()
	listeners = map[string][]Handler{}
}
