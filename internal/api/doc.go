// Package api provides the HTTP API for storefront-cloud.
//
// Every storefront authenticates with a Bearer API key scoped to its own
// store. Requests are tier-gated: the caller's resolved plan decides which
// features are reachable and how much of each resource it may create, and
// the key's role decides which actions are permitted within those features.
//
// # Services
//
// Each group of endpoints is handled by a service struct wired in routes.go:
//   - StoreService - signup, store CRUD, live open/closed status
//   - HoursService - weekly schedule and date overrides
//   - ItemService - catalog items and Square sync
//   - ReviewService - customer reviews
//   - TierService - resolved tier and usage reporting
//   - OrganizationService - chain-level reads
//   - AdminService - platform operator endpoints
//
// # Error Handling
//
// The package provides standard error types and helper functions:
//   - WriteError - Write a JSON error response
//   - WriteJSON - Write a JSON success response
//   - WriteErrorFromStandard - Map standard errors to HTTP responses
//
// Standard errors:
//   - ErrNotFound (404 NOT_FOUND)
//   - ErrUnauthorized (401 UNAUTHORIZED)
//   - ErrBadRequest (400 BAD_REQUEST)
//   - ErrForbidden (403 FORBIDDEN)
//   - ErrTierRequired (403 TIER_REQUIRED)
//   - ErrLimitReached (403 LIMIT_REACHED)
package api

import "github.com/danielgtaylor/huma/v2"

// OpenAPIInfo returns the OpenAPI info configuration for storefront-cloud.
func OpenAPIInfo() huma.OpenAPI {
	return huma.OpenAPI{
		OpenAPI: "3.1.0",
		Info: &huma.Info{
			Title:       "Storefront Cloud API",
			Version:     "1.0.0",
			Description: "Multi-tenant storefront backend for retail businesses.\n\nManage store locations, business hours, catalog items, and customer reviews, with plan-based feature gating and Square POS synchronization.",
			Contact: &huma.Contact{
				Name: "Storefront Cloud",
				URL:  "https://github.com/storekit/storefront-cloud",
			},
		},
		Servers: []*huma.Server{
			{
				URL:         "https://api.storefront.cloud",
				Description: "Production server",
			},
			{
				URL:         "http://localhost:28080",
				Description: "Local development server",
			},
		},
		Tags: []*huma.Tag{
			{
				Name:        "Stores",
				Description: "Signup and store location management",
			},
			{
				Name:        "Hours",
				Description: "Weekly schedules, date overrides, and live status",
			},
			{
				Name:        "Items",
				Description: "Catalog items and POS synchronization",
			},
			{
				Name:        "Reviews",
				Description: "Customer reviews",
			},
			{
				Name:        "Tiers",
				Description: "Plan resolution and usage limits",
			},
			{
				Name:        "Organizations",
				Description: "Chain-level organization reads",
			},
			{
				Name:        "Admin",
				Description: "Platform operator endpoints",
			},
			{
				Name:        "Health",
				Description: "Health check endpoints",
			},
		},
	}
}

// SecuritySchemes returns the security scheme definitions.
func SecuritySchemes() map[string]*huma.SecurityScheme {
	return map[string]*huma.SecurityScheme{
		"bearerAuth": {
			Type:        "http",
			Scheme:      "bearer",
			Description: "API key authentication. Provide your API key in the Authorization header as 'Bearer YOUR_API_KEY'.",
		},
	}
}
