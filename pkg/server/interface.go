/*
Package server implements msgpack IPC for part lookup services.

The server package provides a minimal interface for catalog matching and
smart suggestions using msgpack serialization over stdin/stdout.

The protocol uses binary msgpack encoding and supports ranked catalog
queries, suggestion requests, history writes and status ops. Messages are
processed synchronously with timing info included in responses.

# IPC

The server operates on a request response model where clients send
structured messages via stdin and receive responses through stdout. Each
message carries an ID, a command and the command's fields.

Ranked lookup requests use mainly this structure:

	{"id": "req_001", "cmd": "query", "q": "RV0401.0031", "l": 20}

The server responds with matches ordered by confidence score:

	{"id": "req_001", "m": [{"sku": "RV0401.0031", "score": 100, "level": "alto", "type": "exact"}], "total": 1, "t": 2}

Suggestion requests carry a monotonic sequence number so a client typing
quickly can let the server drop superseded requests instead of computing
them:

	{"id": "sug_007", "cmd": "suggest", "q": "RV040", "seq": 7}

A request whose seq is not newer than the last one seen is answered with
the stale flag set and no suggestions. History writes record a submitted
search for future history suggestions:

	{"id": "sav_001", "cmd": "save", "q": "RV0401.0031"}

# Message Types

Request is the single envelope for every command. QueryResponse carries the
scored matches plus aggregate confidence stats (alto/medio/baixo counts over
the full ranking, not just the returned page). SuggestResponse carries the
ranked suggestion list. StatusResponse answers save/health ops and
InfoResponse answers stats.

msgpack encoding keeps message sizes well below the JSON equivalent and
parses faster, which matters for per-keystroke suggestion traffic.
*/
package server

// Request is the envelope for every incoming command.
type Request struct {
	ID      string            `msgpack:"id"`
	Command string            `msgpack:"cmd"`
	Query   string            `msgpack:"q,omitempty"`
	Limit   int               `msgpack:"l,omitempty"`
	Offset  int               `msgpack:"o,omitempty"`
	Seq     uint64            `msgpack:"seq,omitempty"`
	Extern  []ExternSuggested `msgpack:"ext,omitempty"`
}

// ExternSuggested is an externally supplied suggestion candidate, passed
// through the aggregator with the caller's confidence.
type ExternSuggested struct {
	Text       string  `msgpack:"text"`
	Confidence float64 `msgpack:"conf"`
	Count      int     `msgpack:"count,omitempty"`
}

// MatchPayload is one scored catalog match.
type MatchPayload struct {
	ID      string   `msgpack:"id"`
	SKU     string   `msgpack:"sku"`
	Title   string   `msgpack:"title,omitempty"`
	Score   int      `msgpack:"score"`
	Level   string   `msgpack:"level"`
	Type    string   `msgpack:"type"`
	Reasons []string `msgpack:"reasons,omitempty"`
}

// StatsPayload aggregates confidence levels over the full ranking.
type StatsPayload struct {
	Total  int `msgpack:"total"`
	High   int `msgpack:"alto"`
	Medium int `msgpack:"medio"`
	Low    int `msgpack:"baixo"`
}

// QueryResponse answers a ranked lookup.
type QueryResponse struct {
	ID        string         `msgpack:"id"`
	Matches   []MatchPayload `msgpack:"m"`
	Stats     StatsPayload   `msgpack:"stats"`
	Total     int            `msgpack:"total"`
	QueryType string         `msgpack:"qtype"`
	TimeTaken int64          `msgpack:"t"`
}

// SuggestionPayload is one ranked suggestion.
type SuggestionPayload struct {
	Text       string  `msgpack:"text"`
	Type       string  `msgpack:"type"`
	Confidence float64 `msgpack:"conf"`
	Count      int     `msgpack:"count,omitempty"`
	Distance   int     `msgpack:"dist,omitempty"`
}

// SuggestResponse answers a suggestion request.
type SuggestResponse struct {
	ID          string              `msgpack:"id"`
	Suggestions []SuggestionPayload `msgpack:"s"`
	Count       int                 `msgpack:"c"`
	Superseded  bool                `msgpack:"stale,omitempty"`
	TimeTaken   int64               `msgpack:"t"`
}

// StatusResponse answers save and health ops.
type StatusResponse struct {
	ID     string `msgpack:"id,omitempty"`
	Status string `msgpack:"status"`
	Error  string `msgpack:"error,omitempty"`
}

// InfoResponse answers the stats op.
type InfoResponse struct {
	ID           string `msgpack:"id"`
	Parts        int    `msgpack:"parts"`
	IndexedCodes int    `msgpack:"codes"`
	HistorySize  int    `msgpack:"history"`
}

// ErrorResponse holds basic error information for failed requests.
type ErrorResponse struct {
	ID    string `msgpack:"id,omitempty"`
	Error string `msgpack:"e"`
	Code  int    `msgpack:"c"`
}
