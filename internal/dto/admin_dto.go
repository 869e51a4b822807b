package dto

// UsageStatsResponse exposes today's budget consumption for monitoring.
type UsageStatsResponse struct {
	GlobalToday int64 `json:"global_today"`
	GlobalLimit int   `json:"global_limit"`
	IPLimit     int   `json:"ip_limit"`
}
