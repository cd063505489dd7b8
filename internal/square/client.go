// Package square is a minimal client for the Square Connect API, covering
// the catalog and inventory calls used to keep storefront items in sync
// with a merchant's Square account.
package square

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	defaultBaseURL     = "https://connect.squareup.com"
	catalogUpsertPath  = "/v2/catalog/object"
	inventoryCountPath = "/v2/inventory/counts/batch-retrieve"
	defaultHTTPTimeout = 30 * time.Second
	apiVersion         = "2024-06-04"
)

// Client talks to the Square Connect API on behalf of one merchant.
type Client struct {
	accessToken string
	baseURL     string
	http        *http.Client
}

// New creates a Square client. An empty baseURL selects the production
// Connect endpoint; tests point it at a local server.
func New(accessToken, baseURL string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		accessToken: accessToken,
		baseURL:     baseURL,
		http: &http.Client{
			Timeout: defaultHTTPTimeout,
		},
	}
}

// CatalogObject is the subset of Square's catalog object model we write.
type CatalogObject struct {
	Type                  string    `json:"type"`
	ID                    string    `json:"id"`
	Version               int64     `json:"version,omitempty"`
	ItemData              *ItemData `json:"item_data,omitempty"`
	PresentAtAllLocations bool      `json:"present_at_all_locations,omitempty"`
}

// ItemData carries the item fields within a catalog object.
type ItemData struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	CategoryID  string `json:"category_id,omitempty"`
}

// UpsertRequest is the body for POST /v2/catalog/object.
type UpsertRequest struct {
	IdempotencyKey string        `json:"idempotency_key"`
	Object         CatalogObject `json:"object"`
}

// UpsertResponse is the response for POST /v2/catalog/object.
type UpsertResponse struct {
	CatalogObject CatalogObject `json:"catalog_object"`
	IDMappings    []IDMapping   `json:"id_mappings,omitempty"`
}

// IDMapping maps a client-supplied temporary ID to the server-assigned one.
type IDMapping struct {
	ClientObjectID string `json:"client_object_id"`
	ObjectID       string `json:"object_id"`
}

// InventoryCount is one on-hand quantity record.
type InventoryCount struct {
	CatalogObjectID string `json:"catalog_object_id"`
	LocationID      string `json:"location_id"`
	Quantity        string `json:"quantity"`
	State           string `json:"state"`
}

type inventoryCountRequest struct {
	CatalogObjectIDs []string `json:"catalog_object_ids"`
	LocationIDs      []string `json:"location_ids,omitempty"`
}

type inventoryCountResponse struct {
	Counts []InventoryCount `json:"counts"`
}

// apiError is Square's error envelope.
type apiError struct {
	Errors []struct {
		Category string `json:"category"`
		Code     string `json:"code"`
		Detail   string `json:"detail"`
	} `json:"errors"`
}

// UpsertCatalogObject creates or updates a catalog item. The idempotency
// key makes retries safe; callers use the item's UUID.
func (c *Client) UpsertCatalogObject(ctx context.Context, idempotencyKey string, obj CatalogObject) (*UpsertResponse, error) {
	req := UpsertRequest{
		IdempotencyKey: idempotencyKey,
		Object:         obj,
	}

	var resp UpsertResponse
	if err := c.do(ctx, http.MethodPost, catalogUpsertPath, req, &resp); err != nil {
		return nil, fmt.Errorf("upsert catalog object: %w", err)
	}
	return &resp, nil
}

// RetrieveInventoryCounts fetches on-hand counts for catalog objects.
func (c *Client) RetrieveInventoryCounts(ctx context.Context, catalogObjectIDs, locationIDs []string) ([]InventoryCount, error) {
	req := inventoryCountRequest{
		CatalogObjectIDs: catalogObjectIDs,
		LocationIDs:      locationIDs,
	}

	var resp inventoryCountResponse
	if err := c.do(ctx, http.MethodPost, inventoryCountPath, req, &resp); err != nil {
		return nil, fmt.Errorf("retrieve inventory counts: %w", err)
	}
	return resp.Counts, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Square-Version", apiVersion)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr apiError
		if json.Unmarshal(data, &apiErr) == nil && len(apiErr.Errors) > 0 {
			return fmt.Errorf("square API %d: %s (%s)", resp.StatusCode, apiErr.Errors[0].Detail, apiErr.Errors[0].Code)
		}
		return fmt.Errorf("square API %d: %s", resp.StatusCode, string(data))
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
