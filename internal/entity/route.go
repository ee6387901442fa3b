package entity

// RouteDefinition is one API route and the HTTP methods it accepts.
type RouteDefinition struct {
	Path    string   `json:"path"`
	Methods []string `json:"methods"`
}
