package roamify

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/roamline/roamline/internal/pkg/retry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const catalogBody = `{
	"status": "success",
	"data": {
		"packages": [
			{
				"countryName": "Germany",
				"countryCode": "DE",
				"countrySlug": "germany",
				"region": "Europe",
				"geography": "local",
				"packages": [
					{"packageId": "esim-de-30d-1gb", "package": "Germany 1GB", "day": 30, "price": 4.5, "dataAmount": 1024, "dataUnit": "MB"},
					{"packageId": "esim-de-30d-5gb", "package": "Germany 5GB", "day": 30, "price": 9.9, "dataAmount": 5, "dataUnit": "GB"}
				]
			},
			{
				"countryName": "Spain",
				"countryCode": "ES",
				"countrySlug": "spain",
				"region": "Europe",
				"geography": "local",
				"packages": [
					{"packageId": "esim-es-7d-1gb", "package": "Spain 1GB", "day": 7, "price": 3.5, "dataAmount": 1, "dataUnit": "GB"}
				]
			}
		]
	}
}`

func newTestClient(srv *httptest.Server) *Client {
	return &Client{
		APIKey:     "test-key",
		BaseURL:    srv.URL,
		HTTPClient: &http.Client{Timeout: 5 * time.Second},
		Retry:      retry.Policy{MaxAttempts: 3, Delay: time.Millisecond, Sleep: func(time.Duration) {}},
	}
}

func TestFetchCatalogFlattensCountries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/esim/packages", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		w.Write([]byte(catalogBody))
	}))
	defer srv.Close()

	entries, err := newTestClient(srv).FetchCatalog(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, "esim-de-30d-1gb", entries[0].PackageID)
	assert.Equal(t, "Germany", entries[0].CountryName)
	assert.Equal(t, "DE", entries[0].CountryCode)
	assert.Equal(t, "Europe", entries[0].Region)
	assert.Equal(t, "Spain", entries[2].CountryName)
}

func TestFetchCatalogNon200IsFatal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := newTestClient(srv).FetchCatalog(context.Background())
	require.Error(t, err)

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusBadGateway, statusErr.Code)
}

func TestValidatePackageIDMembership(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/packages", r.URL.Path)
		w.Write([]byte(`{"status":"success","data":[{"packageId":"esim-de-30d-1gb","package":"Germany 1GB","price":4.5}]}`))
	}))
	defer srv.Close()

	client := newTestClient(srv)

	valid, err := client.ValidatePackageID(context.Background(), "esim-de-30d-1gb")
	require.NoError(t, err)
	assert.True(t, valid)

	valid, err = client.ValidatePackageID(context.Background(), "esim-xx-unknown")
	require.NoError(t, err)
	assert.False(t, valid)
}

func TestValidatePackageIDRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`{"status":"success","data":[{"packageId":"pkg-1"}]}`))
	}))
	defer srv.Close()

	valid, err := newTestClient(srv).ValidatePackageID(context.Background(), "pkg-1")
	require.NoError(t, err)
	assert.True(t, valid)
	assert.Equal(t, int32(3), calls.Load())
}

func TestValidatePackageIDDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := newTestClient(srv).ValidatePackageID(context.Background(), "pkg-1")
	require.Error(t, err)
	assert.True(t, retry.IsPermanent(err))
	assert.Equal(t, int32(1), calls.Load())
}

func TestCheckHealth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/health" {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	assert.True(t, newTestClient(srv).CheckHealth(context.Background()))

	srv.Close()
	assert.False(t, newTestClient(srv).CheckHealth(context.Background()))
}
