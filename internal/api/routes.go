package api

import (
	gocontext "context"
	"crypto/tls"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"

	"github.com/storekit/storefront-cloud/internal/tier"
)

// Services holds all the service instances used by the API.
type Services struct {
	Store        *StoreService
	Hours        *HoursService
	Item         *ItemService
	Review       *ReviewService
	Tier         *TierService
	Organization *OrganizationService
	Admin        *AdminService
	DB           DBClient
}

// RegisterRoutes registers all huma routes with their service handlers.
// It sets up the huma API with OpenAPI documentation and security schemes,
// then registers all endpoints with proper middleware.
func RegisterRoutes(router *chi.Mux, services *Services, rateLimiter *RateLimiter) huma.API {
	config := huma.DefaultConfig("Storefront Cloud API", "1.0.0")
	config.Info = OpenAPIInfo().Info
	config.Tags = OpenAPIInfo().Tags
	config.Servers = OpenAPIInfo().Servers

	humaAPI := humachi.New(router, config)

	if humaAPI.OpenAPI().Components.SecuritySchemes == nil {
		humaAPI.OpenAPI().Components.SecuritySchemes = make(map[string]*huma.SecurityScheme)
	}
	for name, scheme := range SecuritySchemes() {
		humaAPI.OpenAPI().Components.SecuritySchemes[name] = scheme
	}

	// OpenAPI spec endpoints (unauthenticated, IP rate limited)
	router.With(rateLimiter.IPMiddleware()).Get("/openapi.json", handleOpenAPIJSON(humaAPI))
	router.With(rateLimiter.IPMiddleware()).Get("/openapi.yaml", handleOpenAPIYAML(humaAPI))

	// Health check (no auth, no rate limit)
	huma.Register(humaAPI, huma.Operation{
		OperationID: "health",
		Method:      "GET",
		Path:        "/health",
		Summary:     "Health check",
		Description: "Returns server health status. Does not require authentication.",
		Tags:        []string{"Health"},
	}, func(ctx gocontext.Context, input *HealthCheckInput) (*HealthCheckOutput, error) {
		// When DB is nil, we're in spec-generation mode - return success for type extraction
		if services.DB != nil {
			if client, ok := services.DB.(interface{ Health(gocontext.Context) error }); ok {
				if err := client.Health(ctx); err != nil {
					return nil, huma.Error503ServiceUnavailable(fmt.Sprintf("database health check failed: %v", err))
				}
			}
		}
		return &HealthCheckOutput{
			Body: struct {
				Status string `json:"status" doc:"Health status" example:"ok"`
			}{Status: "ok"},
		}, nil
	})

	registerPublicRoutes(humaAPI, services, rateLimiter)
	registerAuthenticatedRoutes(humaAPI, services, rateLimiter)

	return humaAPI
}

// registerPublicRoutes registers endpoints that don't require authentication.
func registerPublicRoutes(humaAPI huma.API, services *Services, rateLimiter *RateLimiter) {
	ipLimited := humaIPRateLimitMiddleware(rateLimiter)

	// POST /v1/signup - create a storefront (public)
	huma.Register(humaAPI, huma.Operation{
		OperationID:   "signup",
		Method:        "POST",
		Path:          "/v1/signup",
		Summary:       "Create a storefront",
		Description:   "Creates a storefront account and returns its owner API key. The key is only shown once.",
		Tags:          []string{"Stores"},
		DefaultStatus: 201,
		Middlewares:   huma.Middlewares{ipLimited},
	}, services.Store.Signup)
}

// registerAuthenticatedRoutes registers endpoints that require authentication.
func registerAuthenticatedRoutes(humaAPI huma.API, services *Services, rateLimiter *RateLimiter) {
	authMiddleware := humaAuthMiddleware(services.DB)
	rateLimitMiddleware := humaRateLimitMiddleware(rateLimiter)
	maintenanceMiddleware := humaMaintenanceMiddleware(services.DB)
	authed := huma.Middlewares{authMiddleware, rateLimitMiddleware, maintenanceMiddleware}

	securityRequirement := []map[string][]string{{"bearerAuth": {}}}

	// Store operations
	huma.Register(humaAPI, huma.Operation{
		OperationID:   "createStore",
		Method:        "POST",
		Path:          "/v1/stores",
		Summary:       "Add a store location",
		Description:   "Adds a sibling location to the caller's organization. Enforces the locations limit of the resolved tier.",
		Tags:          []string{"Stores"},
		Security:      securityRequirement,
		DefaultStatus: 201,
		Middlewares:   authed,
	}, services.Store.CreateStore)

	huma.Register(humaAPI, huma.Operation{
		OperationID: "getStore",
		Method:      "GET",
		Path:        "/v1/stores/{id}",
		Summary:     "Get store details",
		Tags:        []string{"Stores"},
		Security:    securityRequirement,
		Middlewares: authed,
	}, services.Store.GetStore)

	huma.Register(humaAPI, huma.Operation{
		OperationID: "updateStore",
		Method:      "PATCH",
		Path:        "/v1/stores/{id}",
		Summary:     "Update store details",
		Tags:        []string{"Stores"},
		Security:    securityRequirement,
		Middlewares: authed,
	}, services.Store.UpdateStore)

	huma.Register(humaAPI, huma.Operation{
		OperationID: "getStoreStatus",
		Method:      "GET",
		Path:        "/v1/stores/{id}/status",
		Summary:     "Get live open/closed status",
		Description: "Computes whether the store is currently open from its weekly schedule and date overrides.",
		Tags:        []string{"Hours"},
		Security:    securityRequirement,
		Middlewares: authed,
	}, services.Store.GetStatus)

	// Hours operations
	huma.Register(humaAPI, huma.Operation{
		OperationID: "getHours",
		Method:      "GET",
		Path:        "/v1/stores/{id}/hours",
		Summary:     "Get weekly business hours",
		Tags:        []string{"Hours"},
		Security:    securityRequirement,
		Middlewares: authed,
	}, services.Hours.GetHours)

	huma.Register(humaAPI, huma.Operation{
		OperationID: "putHours",
		Method:      "PUT",
		Path:        "/v1/stores/{id}/hours",
		Summary:     "Replace weekly business hours",
		Description: "Replaces the complete weekly schedule. Overlapping or inverted ranges are rejected before saving.",
		Tags:        []string{"Hours"},
		Security:    securityRequirement,
		Middlewares: authed,
	}, services.Hours.PutHours)

	huma.Register(humaAPI, huma.Operation{
		OperationID: "getSpecialHours",
		Method:      "GET",
		Path:        "/v1/stores/{id}/special-hours",
		Summary:     "Get date overrides",
		Tags:        []string{"Hours"},
		Security:    securityRequirement,
		Middlewares: authed,
	}, services.Hours.GetSpecialHours)

	huma.Register(humaAPI, huma.Operation{
		OperationID: "putSpecialHours",
		Method:      "PUT",
		Path:        "/v1/stores/{id}/special-hours",
		Summary:     "Replace date overrides",
		Description: "Replaces all holiday and special-event overrides. Overrides take precedence over the weekly schedule.",
		Tags:        []string{"Hours"},
		Security:    securityRequirement,
		Middlewares: authed,
	}, services.Hours.PutSpecialHours)

	// Item operations
	huma.Register(humaAPI, huma.Operation{
		OperationID: "listItems",
		Method:      "GET",
		Path:        "/v1/stores/{id}/items",
		Summary:     "List catalog items",
		Tags:        []string{"Items"},
		Security:    securityRequirement,
		Middlewares: authed,
	}, services.Item.ListItems)

	huma.Register(humaAPI, huma.Operation{
		OperationID:   "createItem",
		Method:        "POST",
		Path:          "/v1/stores/{id}/items",
		Summary:       "Create a catalog item",
		Description:   "Creates an item. Enforces the products limit of the resolved tier.",
		Tags:          []string{"Items"},
		Security:      securityRequirement,
		DefaultStatus: 201,
		Middlewares:   authed,
	}, services.Item.CreateItem)

	huma.Register(humaAPI, huma.Operation{
		OperationID: "updateItem",
		Method:      "PATCH",
		Path:        "/v1/stores/{id}/items/{itemId}",
		Summary:     "Update a catalog item",
		Tags:        []string{"Items"},
		Security:    securityRequirement,
		Middlewares: authed,
	}, services.Item.UpdateItem)

	huma.Register(humaAPI, huma.Operation{
		OperationID:   "deleteItem",
		Method:        "DELETE",
		Path:          "/v1/stores/{id}/items/{itemId}",
		Summary:       "Delete a catalog item",
		Tags:          []string{"Items"},
		Security:      securityRequirement,
		DefaultStatus: 204,
		Middlewares:   authed,
	}, services.Item.DeleteItem)

	huma.Register(humaAPI, huma.Operation{
		OperationID: "syncItems",
		Method:      "POST",
		Path:        "/v1/stores/{id}/items/sync",
		Summary:     "Sync items to Square",
		Description: "Pushes active items to the Square catalog. Requires a tier with the Square integration feature.",
		Tags:        []string{"Items"},
		Security:    securityRequirement,
		Middlewares: authed,
	}, services.Item.SyncItems)

	// Review operations
	huma.Register(humaAPI, huma.Operation{
		OperationID: "listReviews",
		Method:      "GET",
		Path:        "/v1/stores/{id}/reviews",
		Summary:     "List customer reviews",
		Tags:        []string{"Reviews"},
		Security:    securityRequirement,
		Middlewares: authed,
	}, services.Review.ListReviews)

	huma.Register(humaAPI, huma.Operation{
		OperationID:   "createReview",
		Method:        "POST",
		Path:          "/v1/stores/{id}/reviews",
		Summary:       "Record a customer review",
		Tags:          []string{"Reviews"},
		Security:      securityRequirement,
		DefaultStatus: 201,
		Middlewares:   authed,
	}, services.Review.CreateReview)

	// Tier and organization operations
	huma.Register(humaAPI, huma.Operation{
		OperationID: "getStoreTier",
		Method:      "GET",
		Path:        "/v1/stores/{id}/tier",
		Summary:     "Get resolved tier and usage",
		Description: "Returns the effective tier after chain resolution, plus current usage against each plan limit.",
		Tags:        []string{"Tiers"},
		Security:    securityRequirement,
		Middlewares: authed,
	}, services.Tier.GetStoreTier)

	huma.Register(humaAPI, huma.Operation{
		OperationID: "getOrganization",
		Method:      "GET",
		Path:        "/v1/organizations/{id}",
		Summary:     "Get organization details",
		Tags:        []string{"Organizations"},
		Security:    securityRequirement,
		Middlewares: authed,
	}, services.Organization.GetOrganization)

	// Platform admin operations
	huma.Register(humaAPI, huma.Operation{
		OperationID: "adminUpdateStoreTier",
		Method:      "PUT",
		Path:        "/v1/admin/stores/{id}/tier",
		Summary:     "Set a store's tier",
		Description: "Platform admin only. Changes the store's own tier assignment.",
		Tags:        []string{"Admin"},
		Security:    securityRequirement,
		Middlewares: authed,
	}, services.Admin.UpdateStoreTier)

	huma.Register(humaAPI, huma.Operation{
		OperationID: "adminGetSettings",
		Method:      "GET",
		Path:        "/v1/admin/settings",
		Summary:     "Get platform settings",
		Tags:        []string{"Admin"},
		Security:    securityRequirement,
		Middlewares: authed,
	}, services.Admin.GetPlatformSettings)

	huma.Register(humaAPI, huma.Operation{
		OperationID: "adminUpdateSettings",
		Method:      "PUT",
		Path:        "/v1/admin/settings",
		Summary:     "Update platform settings",
		Tags:        []string{"Admin"},
		Security:    securityRequirement,
		Middlewares: authed,
	}, services.Admin.UpdatePlatformSettings)

	// Note: the WebSocket status stream (/v1/stores/{id}/status/ws) is
	// registered via chi directly in server.go because WebSocket upgrades
	// don't work well with huma's response handling.
}

// humaAuthMiddleware creates a huma middleware that validates the API key
// and sets the caller's identity in the context.
func humaAuthMiddleware(dbClient DBClient) func(ctx huma.Context, next func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		authHeader := ctx.Header("Authorization")
		if authHeader == "" {
			writeHumaUnauthorized(ctx, "missing authorization header")
			return
		}

		if len(authHeader) < 8 || authHeader[:7] != "Bearer " {
			writeHumaUnauthorized(ctx, "invalid authorization header format")
			return
		}
		rawKey := authHeader[7:]

		key, err := dbClient.GetAPIKeyByKey(ctx.Context(), rawKey)
		if err != nil {
			writeHumaUnauthorized(ctx, "invalid API key")
			return
		}

		newCtx := WithAPIKeyID(ctx.Context(), key.ID)
		newCtx = WithAPIKeyRateLimit(newCtx, key.RateLimitRPS)
		newCtx = WithActor(newCtx, tier.Actor{
			Role:          tier.Role(key.Role),
			PlatformAdmin: key.PlatformAdmin,
		})
		if key.TenantID != nil {
			newCtx = WithTenantID(newCtx, *key.TenantID)
		}

		// Fire-and-forget usage tracking, as in AuthMiddleware.
		tenantID := key.TenantID
		go func() {
			updateCtx, cancel := gocontext.WithTimeout(gocontext.Background(), 5*time.Second)
			defer cancel()
			_ = dbClient.UpdateAPIKeyLastUsed(updateCtx, key.ID)
			if tenantID != nil {
				_ = dbClient.IncrementDailyAPICalls(updateCtx, *tenantID)
			}
		}()

		next(&humaContextWrapper{inner: ctx, overrideCtx: newCtx})
	}
}

// humaRateLimitMiddleware applies the per-key token bucket. Must run after
// humaAuthMiddleware.
func humaRateLimitMiddleware(rl *RateLimiter) func(ctx huma.Context, next func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		apiKeyID, ok := GetAPIKeyID(ctx.Context())
		if !ok {
			writeHumaError(ctx, http.StatusInternalServerError, "internal server error")
			return
		}
		rateLimit, _ := GetAPIKeyRateLimit(ctx.Context())
		if !rl.allow("key:"+apiKeyID.String(), float64(rateLimit)) {
			ctx.SetHeader("Retry-After", "1")
			writeHumaError(ctx, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		next(ctx)
	}
}

// humaIPRateLimitMiddleware applies the per-IP token bucket for public
// endpoints.
func humaIPRateLimitMiddleware(rl *RateLimiter) func(ctx huma.Context, next func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		ip := ctx.RemoteAddr()
		if forwarded := ctx.Header("X-Forwarded-For"); forwarded != "" {
			ip = strings.TrimSpace(strings.Split(forwarded, ",")[0])
		}
		if !rl.allow("ip:"+ip, signupRateLimit) {
			ctx.SetHeader("Retry-After", "1")
			writeHumaError(ctx, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		next(ctx)
	}
}

// humaMaintenanceMiddleware rejects non-admin traffic during maintenance
// mode. Must run after humaAuthMiddleware. A failed settings read never
// blocks traffic.
func humaMaintenanceMiddleware(dbClient DBClient) func(ctx huma.Context, next func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		settings, err := dbClient.GetPlatformSettings(ctx.Context())
		if err == nil && settings.MaintenanceMode && !GetActor(ctx.Context()).PlatformAdmin {
			writeHumaError(ctx, http.StatusServiceUnavailable, "platform is under maintenance")
			return
		}
		next(ctx)
	}
}

// writeHumaUnauthorized writes a 401 Unauthorized response for huma middleware.
func writeHumaUnauthorized(ctx huma.Context, msg string) {
	writeHumaError(ctx, http.StatusUnauthorized, msg)
}

func writeHumaError(ctx huma.Context, status int, msg string) {
	ctx.SetStatus(status)
	ctx.SetHeader("Content-Type", "application/json")
	_, _ = ctx.BodyWriter().Write([]byte(fmt.Sprintf(`{"error":%q}`, msg)))
}

// humaContextWrapper wraps a huma.Context with a custom gocontext.Context.
type humaContextWrapper struct {
	inner       huma.Context
	overrideCtx gocontext.Context //nolint:containedctx // Required to override embedded huma.Context
}

// Implement all huma.Context methods by delegating to inner, except Context()
func (c *humaContextWrapper) Context() gocontext.Context             { return c.overrideCtx }
func (c *humaContextWrapper) Operation() *huma.Operation             { return c.inner.Operation() }
func (c *humaContextWrapper) TLS() *tls.ConnectionState              { return c.inner.TLS() }
func (c *humaContextWrapper) Version() huma.ProtoVersion             { return c.inner.Version() }
func (c *humaContextWrapper) Method() string                         { return c.inner.Method() }
func (c *humaContextWrapper) Host() string                           { return c.inner.Host() }
func (c *humaContextWrapper) RemoteAddr() string                     { return c.inner.RemoteAddr() }
func (c *humaContextWrapper) URL() url.URL                           { return c.inner.URL() }
func (c *humaContextWrapper) Param(name string) string               { return c.inner.Param(name) }
func (c *humaContextWrapper) Query(name string) string               { return c.inner.Query(name) }
func (c *humaContextWrapper) Header(name string) string              { return c.inner.Header(name) }
func (c *humaContextWrapper) EachHeader(cb func(name, value string)) { c.inner.EachHeader(cb) }
func (c *humaContextWrapper) BodyReader() io.Reader                  { return c.inner.BodyReader() }
func (c *humaContextWrapper) GetMultipartForm() (*multipart.Form, error) {
	return c.inner.GetMultipartForm()
}
func (c *humaContextWrapper) SetReadDeadline(t time.Time) error { return c.inner.SetReadDeadline(t) }
func (c *humaContextWrapper) SetStatus(code int)                { c.inner.SetStatus(code) }
func (c *humaContextWrapper) Status() int                       { return c.inner.Status() }
func (c *humaContextWrapper) SetHeader(name, value string)      { c.inner.SetHeader(name, value) }
func (c *humaContextWrapper) AppendHeader(name, value string)   { c.inner.AppendHeader(name, value) }
func (c *humaContextWrapper) BodyWriter() io.Writer             { return c.inner.BodyWriter() }
