// Package client provides a transport-agnostic interface for the bridgewatch
// service and an HTTP/JSON implementation that talks to the bridgewatch REST
// API.
package client

import (
	"context"

	"github.com/calderost/bridgewatch/internal/model"
	"github.com/calderost/bridgewatch/internal/sampler"
)

// MonitorClient is the interface that all bw CLI commands use to communicate
// with the bridgewatch server. It is implemented by HTTPClient.
type MonitorClient interface {
	// Ingestion
	IngestCalls(ctx context.Context, events []*model.RawEvent) (int, error)

	// Rows
	ListCalls(ctx context.Context, req *ListCallsRequest) (*ListCallsResponse, error)
	GetCall(ctx context.Context, id string) (*model.RawEvent, error)

	// Session
	SelectCall(ctx context.Context, id string) (*SelectCallResponse, error)
	GetSession(ctx context.Context) (*SessionResponse, error)

	// Filters and metrics
	GetFilters(ctx context.Context) (*FiltersResponse, error)
	SetFilters(ctx context.Context, filters []model.Filter) error
	GetMetrics(ctx context.Context) (*sampler.Metrics, error)

	// Schema
	GetColumns(ctx context.Context) ([]model.ColumnSpec, error)

	// Buffer
	Clear(ctx context.Context) error

	// Health
	Health(ctx context.Context) (string, error)

	// Lifecycle
	Close() error
}

// ListCallsRequest holds parameters for listing buffered calls.
type ListCallsRequest struct {
	// Filters, when non-nil, override the server-side session filters.
	Filters []model.Filter
	// Combine selects how multiple filters combine; empty uses the server
	// default.
	Combine model.CombineMode
	// Limit caps the result to the most recent N rows. Zero means no cap.
	Limit int
}

// ListCallsResponse is the response from ListCalls.
type ListCallsResponse struct {
	Calls []*model.ViewRow `json:"calls"`
	Total int              `json:"total"`
}

// SelectCallResponse is the response from SelectCall.
type SelectCallResponse struct {
	Selected string          `json:"selected"`
	Payload  *model.RawEvent `json:"payload"`
}

// SessionResponse is the response from GetSession.
type SessionResponse struct {
	SelectedKey string            `json:"selected_key"`
	Payload     *model.RawEvent   `json:"payload"`
	Filters     []model.Filter    `json:"filters"`
	Combine     model.CombineMode `json:"combine"`
	Metrics     sampler.Metrics   `json:"metrics"`
}

// FiltersResponse is the response from GetFilters.
type FiltersResponse struct {
	Filters []model.Filter    `json:"filters"`
	Combine model.CombineMode `json:"combine"`
}
