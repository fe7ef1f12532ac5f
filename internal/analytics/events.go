package analytics

import "time"

type EventType string

const (
	EventSearch EventType = "search"
)

// SearchEvent describes one settled interactive query.
type SearchEvent struct {
	Type        EventType `json:"type"`
	SessionID   string    `json:"session_id"`
	Query       string    `json:"query"`
	Category    string    `json:"category"`
	ShardKey    string    `json:"shard_key"`
	Results     int       `json:"results"`
	Exact       int       `json:"exact"`
	Prefix      int       `json:"prefix"`
	Substring   int       `json:"substring"`
	Unavailable bool      `json:"unavailable"`
	LatencyMs   int64     `json:"latency_ms"`
	Timestamp   time.Time `json:"timestamp"`
}
