// Package pubsub implements the in-process subscription registry that fans
// resolved queries out to the connections watching a dashboard.
package pubsub

import (
	"sync"

	"pulseboard/internal/domain"
)

// Topic returns the broadcast topic for a dashboard.
func Topic(dashboardID string) string {
	return "dashboard-" + dashboardID
}

// Listener receives envelopes published to a joined topic. Each delivery
// runs on its own goroutine; a listener must still return promptly (the
// websocket layer satisfies this with a buffered channel that drops when
// full).
type Listener func(e *domain.ResultEnvelope)

// Registry maps topics to the connections subscribed to them. All methods
// are safe for concurrent use. Delivery is at-most-once per publish per
// current subscriber: nothing is buffered and late joiners receive nothing.
type Registry struct {
	mu     sync.RWMutex
	topics map[string]map[string]Listener // topic → connection ID → listener
	conns  map[string]map[string]struct{} // connection ID → joined topics
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		topics: make(map[string]map[string]Listener),
		conns:  make(map[string]map[string]struct{}),
	}
}

// Join subscribes a connection to a topic. A connection appears at most
// once per topic; re-joining replaces its listener.
func (r *Registry) Join(topic, connID string, fn Listener) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.topics[topic] == nil {
		r.topics[topic] = make(map[string]Listener)
	}
	r.topics[topic][connID] = fn

	if r.conns[connID] == nil {
		r.conns[connID] = make(map[string]struct{})
	}
	r.conns[connID][topic] = struct{}{}
}

// Leave removes a connection from a topic. Unknown topics and connections
// are no-ops.
func (r *Registry) Leave(topic, connID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.removeLocked(topic, connID)
}

// LeaveAll removes a connection from every topic it joined. Disconnect
// paths call this unconditionally, so publishing to a departed connection
// is always a no-op.
func (r *Registry) LeaveAll(connID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for topic := range r.conns[connID] {
		r.removeLocked(topic, connID)
	}
}

// removeLocked requires r.mu to be held for writing.
func (r *Registry) removeLocked(topic, connID string) {
	if subs, ok := r.topics[topic]; ok {
		delete(subs, connID)
		if len(subs) == 0 {
			delete(r.topics, topic)
		}
	}
	if topics, ok := r.conns[connID]; ok {
		delete(topics, topic)
		if len(topics) == 0 {
			delete(r.conns, connID)
		}
	}
}

// Publish delivers e to every current subscriber of topic, each on its own
// goroutine so a slow subscriber cannot stall the others or the caller.
// Publishing to a topic nobody joined is a no-op.
func (r *Registry) Publish(topic string, e *domain.ResultEnvelope) {
	r.mu.RLock()
	listeners := make([]Listener, 0, len(r.topics[topic]))
	for _, fn := range r.topics[topic] {
		listeners = append(listeners, fn)
	}
	r.mu.RUnlock()

	for _, fn := range listeners {
		go fn(e)
	}
}

// Subscribers returns how many connections are joined to topic.
func (r *Registry) Subscribers(topic string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.topics[topic])
}

var _ domain.Broadcaster = (*Registry)(nil)
