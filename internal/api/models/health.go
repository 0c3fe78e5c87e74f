package models

import "time"

// HealthResponse reports store reachability together with process runtime figures.
type HealthResponse struct {
	Status        string    `json:"status"`
	Store         string    `json:"store"`
	Driver        string    `json:"driver"`
	Uptime        string    `json:"uptime"`
	UptimeSeconds int64     `json:"uptime_seconds"`
	StartTime     time.Time `json:"start_time"`
	GoRoutines    int       `json:"goroutines"`
	MemoryAllocMB float64   `json:"memory_alloc_mb"`
	RSSMB         float64   `json:"rss_mb,omitempty"`
	NumCPU        int       `json:"num_cpu"`
}
