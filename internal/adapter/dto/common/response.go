package common

// MessageResponse is returned by endpoints that only acknowledge
type MessageResponse struct {
	Message string `json:"message"`
}

// HealthResponse is the liveness payload
type HealthResponse struct {
	Status      string `json:"status"`
	Environment string `json:"environment"`
}

// DiagnosticsResponse exposes backend wiring when diagnostics are enabled
type DiagnosticsResponse struct {
	Environment string                 `json:"environment"`
	Timezone    string                 `json:"timezone"`
	Database    string                 `json:"database"`
	Cache       string                 `json:"cache"`
	LLM         map[string]interface{} `json:"llm"`
	Storage     map[string]interface{} `json:"storage,omitempty"`
}
