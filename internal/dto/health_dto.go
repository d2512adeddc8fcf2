package dto

// ComponentHealth is the state of one dependency: "up", "down" or "off".
type ComponentHealth struct {
	Driver string `json:"driver,omitempty"`
	Status string `json:"status"`
}

// HealthResponse is the body of GET /health. The cache being off does not
// make the service unhealthy; a configured cache that is down does.
type HealthResponse struct {
	OK       bool            `json:"ok"`
	Database ComponentHealth `json:"database"`
	Cache    ComponentHealth `json:"cache"`
}
