package roamify

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/roamline/roamline/internal/pkg/env"
	"github.com/roamline/roamline/internal/pkg/retry"
)

const defaultBaseURL = "https://api.getroamify.com"

// StatusError is returned for non-2xx responses from the reseller API.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("roamify returned status %d: %s", e.Code, e.Body)
}

// Client talks to the Roamify reseller API.
type Client struct {
	APIKey  string
	BaseURL string

	HTTPClient *http.Client
	Retry      retry.Policy
}

// NewClientFromEnv builds a client from ROAMIFY_* environment configuration.
func NewClientFromEnv() *Client {
	return &Client{
		APIKey:  strings.TrimSpace(env.GetEnv("ROAMIFY_API_KEY", "")),
		BaseURL: strings.TrimRight(env.GetEnv("ROAMIFY_API_URL", defaultBaseURL), "/"),
		HTTPClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		Retry: retry.DefaultPolicy(),
	}
}

// FetchCatalog retrieves the full country-grouped catalog and flattens it
// into per-package entries annotated with their country fields. There is no
// retry at this layer; full-sync callers decide whether to retry a run.
func (c *Client) FetchCatalog(ctx context.Context) ([]CatalogEntry, error) {
	var parsed catalogResponse
	if err := c.getJSON(ctx, "/api/esim/packages", nil, &parsed); err != nil {
		return nil, err
	}

	var entries []CatalogEntry
	for _, country := range parsed.Data.Packages {
		for _, pkg := range country.Packages {
			pkg.CountryName = country.CountryName
			pkg.CountryCode = country.CountryCode
			pkg.CountrySlug = country.CountrySlug
			pkg.Region = country.Region
			pkg.Geography = country.Geography
			entries = append(entries, pkg)
		}
	}

	log.Printf("roamify: fetched %d packages from %d countries", len(entries), len(parsed.Data.Packages))
	return entries, nil
}

// FetchCatalogPage retrieves a single page of the catalog using limit/offset
// parameters, for callers that prefer chunked fetches over one large body.
func (c *Client) FetchCatalogPage(ctx context.Context, limit, offset int) ([]CatalogEntry, error) {
	params := url.Values{}
	params.Set("limit", strconv.Itoa(limit))
	params.Set("offset", strconv.Itoa(offset))

	var parsed catalogResponse
	if err := c.getJSON(ctx, "/api/esim/packages", params, &parsed); err != nil {
		return nil, err
	}

	var entries []CatalogEntry
	for _, country := range parsed.Data.Packages {
		for _, pkg := range country.Packages {
			pkg.CountryName = country.CountryName
			pkg.CountryCode = country.CountryCode
			pkg.CountrySlug = country.CountrySlug
			pkg.Region = country.Region
			pkg.Geography = country.Geography
			entries = append(entries, pkg)
		}
	}
	return entries, nil
}

// ListPackages fetches the lighter validation-oriented package listing,
// wrapped in the retry policy.
func (c *Client) ListPackages(ctx context.Context) ([]ListedPackage, error) {
	var parsed listResponse
	err := c.Retry.Do(ctx, "roamify package listing", func() error {
		return c.getJSON(ctx, "/api/packages", nil, &parsed)
	})
	if err != nil {
		return nil, err
	}
	return parsed.Data, nil
}

// ValidatePackageID checks whether the reseller currently offers the given
// package ID. The listing call is retried; a client error is not.
func (c *Client) ValidatePackageID(ctx context.Context, packageID string) (bool, error) {
	packages, err := c.ListPackages(ctx)
	if err != nil {
		return false, err
	}
	for _, pkg := range packages {
		if pkg.PackageID == packageID {
			return true, nil
		}
	}
	return false, nil
}

// CheckHealth reports whether the reseller API answers its health endpoint.
func (c *Client) CheckHealth(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/api/health", nil)
	if err != nil {
		return false
	}
	req.Header.Set("Authorization", "Bearer "+c.APIKey)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		log.Printf("roamify health check failed: %v", err)
		return false
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<10))

	return resp.StatusCode == http.StatusOK
}

func (c *Client) getJSON(ctx context.Context, path string, params url.Values, out interface{}) error {
	u := c.BaseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 16<<20))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		statusErr := &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(body))}
		// Retrying a client error cannot succeed.
		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			return retry.Permanent(statusErr)
		}
		return statusErr
	}

	return json.Unmarshal(body, out)
}
