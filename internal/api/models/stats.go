package models

// StatsResponse is the dashboard headline.
// TotalQueries is always BlockedQueries + AllowedQueries.
type StatsResponse struct {
	TotalBlockedDomains int64 `json:"total_blocked_domains"`
	BlockedQueries      int64 `json:"blocked_queries"`
	AllowedQueries      int64 `json:"allowed_queries"`
	TotalQueries        int64 `json:"total_queries"`
}

// TopBlockedEntry is one row of the top-blocked ranking.
type TopBlockedEntry struct {
	Domain string `json:"domain"`
	Count  int64  `json:"count"`
}
