package domain

import "time"

// TableData is a tabular query result. Columns carries presentation order;
// each row maps column name to value.
type TableData struct {
	Columns []string         `json:"columns"`
	Rows    []map[string]any `json:"rows"`
}

// ResultEnvelope is the unit of delivery for every resolved query. One
// envelope is built per resolution and never mutated afterwards; the direct
// reply and the broadcast carry the same envelope, so a subscribed requester
// sees the same QueryID twice and deduplicates on it.
type ResultEnvelope struct {
	QueryID     string    `json:"queryId"`
	DashboardID string    `json:"dashboardId"`
	Data        TableData `json:"data"`
	Timestamp   int64     `json:"timestamp"` // unix milliseconds
	FromCache   bool      `json:"fromCache"`
}

// QueryRecord is the durable trace of one fresh query execution. Cache hits
// are not recorded; only executions that actually ran.
type QueryRecord struct {
	ID          int64
	DashboardID string
	PrincipalID int64
	Query       string
	Result      string // serialized TableData
	CreatedAt   time.Time
}
