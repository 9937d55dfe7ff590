package api

import (
	"photonic-sparam/core/types"
)

// ErrorBody is the error payload inside an error response
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse is the envelope for all error responses
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// HealthResponse is returned by GET /health
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Time    string `json:"time"`
}

// VersionResponse is returned by GET /version
type VersionResponse struct {
	Version    string `json:"version"`
	Engine     string `json:"engine"`
	APIVersion string `json:"api_version"`
}

// DevicesResponse is returned by GET /devices
type DevicesResponse struct {
	Devices []types.DeviceSpec `json:"devices"`
	Count   int                `json:"count"`
}

// ModelsResponse is returned by GET /models
type ModelsResponse struct {
	Models []string `json:"models"`
	Count  int      `json:"count"`
}

// RunSummary is one run in a listing, without the result payload
type RunSummary struct {
	ID        string           `json:"id"`
	Device    types.DeviceKind `json:"device"`
	Name      string           `json:"name,omitempty"`
	Points    int              `json:"points"`
	Ports     int              `json:"ports"`
	CreatedAt string           `json:"created_at"`
}

// RunsResponse is returned by GET /runs
type RunsResponse struct {
	Runs  []RunSummary `json:"runs"`
	Count int          `json:"count"`
}
