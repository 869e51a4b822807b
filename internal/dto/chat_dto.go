package dto

// ChatRequest is the validated chat query from the frontend server.
// Validation runs on the raw input; the controller normalizes before any
// further processing.
type ChatRequest struct {
	Query string `json:"query" validate:"required,min=2,max=1000"`
}

// ChatResponse is the answer payload for the synchronous endpoint.
type ChatResponse struct {
	Response string   `json:"response"`
	Sources  []string `json:"sources"`
	Cached   bool     `json:"cached"`
}

// HealthResponse reports gateway liveness.
type HealthResponse struct {
	Status        string  `json:"status"`
	Version       string  `json:"version"`
	UptimeSeconds float64 `json:"uptime_seconds"`
}
