package domain

import (
	"context"
	"time"
)

// QueryExecutor resolves a natural-language query into tabular data. The
// implementation calls an external translation/execution service; the
// orchestrator owns everything around the call (validation, caching,
// persistence, broadcast).
type QueryExecutor interface {
	Execute(ctx context.Context, dashboardID, query string) (TableData, error)
}

// ResultCache stores serialized query results. Implementations absorb every
// backend failure: Get reports a miss, Set and Delete return nothing. A
// cache outage degrades to uncached operation, never to a failed query.
type ResultCache interface {
	Get(ctx context.Context, key string) (TableData, bool)
	Set(ctx context.Context, key string, data TableData, ttl time.Duration)
	Delete(ctx context.Context, key string)
	// Enabled reports whether a backend was reachable at startup. The
	// capability is fixed for the process lifetime.
	Enabled() bool
}

// Broadcaster fans an envelope out to the current subscribers of a topic.
// Publishing must not block the caller on slow subscribers.
type Broadcaster interface {
	Publish(topic string, e *ResultEnvelope)
}
