package insomnia

import (
	"errors"
	"fmt"
	"os"

	"github.com/titanous/json5"
	"github.com/user/feed-harvester/internal/entity"
)

var ErrNoRoutes = errors.New("route list is empty")

// DefaultRoutes is the route table exported when no route file is given.
func DefaultRoutes() []entity.RouteDefinition {
	return []entity.RouteDefinition{
		{Path: "/*", Methods: []string{"GET", "POST", "PUT", "DELETE"}},
		{Path: "/open-ai", Methods: []string{"POST", "GET"}},
		{Path: "/open-ai/:id", Methods: []string{"GET", "PATCH", "DELETE"}},
		{Path: "/auth/signin", Methods: []string{"POST"}},
		{Path: "/auth/signup", Methods: []string{"POST"}},
		{Path: "/auth/recovery-email", Methods: []string{"POST"}},
		{Path: "/auth/signout", Methods: []string{"GET"}},
		{Path: "/auth/delete-email/:email", Methods: []string{"DELETE"}},
		{Path: "/cliente", Methods: []string{"POST", "GET"}},
		{Path: "/cliente/:id", Methods: []string{"GET", "PATCH", "DELETE"}},
		{Path: "/health", Methods: []string{"GET"}},
		{Path: "/admin", Methods: []string{"POST", "GET"}},
		{Path: "/admin/:id", Methods: []string{"GET", "PATCH", "DELETE"}},
		{Path: "/paypal/payment", Methods: []string{"POST"}},
		{Path: "/payment/stripe/create-subscribe", Methods: []string{"POST"}},
		{Path: "/payment/stripe/create-customer", Methods: []string{"POST"}},
		{Path: "/payment/stripe/list-products", Methods: []string{"GET"}},
		{Path: "/payment/stripe/portal-session", Methods: []string{"POST"}},
		{Path: "/payment/stripe/edit-subscription", Methods: []string{"POST"}},
		{Path: "/payment/stripe/cancel-subscription", Methods: []string{"DELETE"}},
		{Path: "/payment/stripe/list-subscriptions", Methods: []string{"GET"}},
		{Path: "/payment/stripe/success", Methods: []string{"GET"}},
		{Path: "/payment/stripe/customer", Methods: []string{"PUT", "GET", "DELETE"}},
		{Path: "/payment/stripe/mass-customers", Methods: []string{"GET"}},
		{Path: "/webhook", Methods: []string{"POST"}},
		{Path: "/legal-assistant", Methods: []string{"POST", "GET"}},
		{Path: "/legal-assistant/:id", Methods: []string{"GET", "PATCH", "DELETE"}},
		{Path: "/whatsapp", Methods: []string{"POST", "GET"}},
		{Path: "/whatsapp/:id", Methods: []string{"GET", "PATCH", "DELETE"}},
		{Path: "/kago", Methods: []string{"GET"}},
		{Path: "/kago/push-notification", Methods: []string{"POST"}},
		{Path: "/kago/delete-all-news", Methods: []string{"GET"}},
		{Path: "/address", Methods: []string{"POST", "GET"}},
		{Path: "/address/:id", Methods: []string{"GET", "PATCH", "DELETE"}},
	}
}

// ParseRoutes decodes a JSON5 array of {path, methods} objects.
func ParseRoutes(data []byte) ([]entity.RouteDefinition, error) {
	var routes []entity.RouteDefinition
	if err := json5.Unmarshal(data, &routes); err != nil {
		return nil, fmt.Errorf("failed to parse routes: %w", err)
	}
	if len(routes) == 0 {
		return nil, ErrNoRoutes
	}
	return routes, nil
}

// LoadRoutes reads a route file. An empty path yields DefaultRoutes.
func LoadRoutes(path string) ([]entity.RouteDefinition, error) {
	if path == "" {
		return DefaultRoutes(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read routes file %s: %w", path, err)
	}
	return ParseRoutes(data)
}
