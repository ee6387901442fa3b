package request

import "github.com/user/feed-harvester/internal/entity"

type SubmitHarvestRequest struct {
	GroupURL string `json:"group_url"`
	// Scrolls overrides the configured scroll budget when set.
	Scrolls *int `json:"scrolls,omitempty"`
}

// ExportRoutesRequest is decoded as JSON5. Without routes the built-in route
// table is exported.
type ExportRoutesRequest struct {
	BaseURL       string                   `json:"base_url"`
	WorkspaceName string                   `json:"workspace_name"`
	Routes        []entity.RouteDefinition `json:"routes"`
}
