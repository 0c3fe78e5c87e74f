package models

// QueryLogEntry is a single query event. Fields the collector did not record are omitted.
type QueryLogEntry struct {
	Timestamp    string   `json:"timestamp,omitempty"`
	ClientIP     string   `json:"client_ip,omitempty"`
	Domain       string   `json:"domain"`
	QueryType    string   `json:"query_type,omitempty"`
	Action       string   `json:"action"`
	ResponseTime *float64 `json:"response_time,omitempty"`
}
