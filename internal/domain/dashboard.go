package domain

import "time"

// Dashboard is a named surface that queries and subscriptions are scoped to.
// The query pipeline itself treats dashboards as opaque string keys; this
// entity only backs the CRUD surface.
type Dashboard struct {
	ID          int64
	Name        string
	Description string
	OwnerID     int64
	CreatedAt   time.Time
}
