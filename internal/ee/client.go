package ee

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/oauth2/clientcredentials"
)

// Credentials holds the OAuth2 client-credentials grant for the backend.
type Credentials struct {
	ClientID     string
	ClientSecret string
	TokenURL     string
}

// Client evaluates expression graphs on the remote backend. Evaluation is
// synchronous: a call blocks until the backend returns results.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient builds an authenticated client. It fails when the credential set
// is incomplete; no request is issued yet.
func NewClient(baseURL string, creds Credentials) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("missing backend base URL")
	}
	if creds.ClientID == "" || creds.ClientSecret == "" || creds.TokenURL == "" {
		return nil, fmt.Errorf("missing required backend credentials: client ID, client secret, or token URL")
	}

	config := &clientcredentials.Config{
		ClientID:     creds.ClientID,
		ClientSecret: creds.ClientSecret,
		TokenURL:     creds.TokenURL,
	}

	return &Client{
		httpClient: config.Client(context.Background()),
		baseURL:    baseURL,
	}, nil
}

// SampledFeature is one element of a bulk sampling response: the feature's
// point geometry and the per-band values of the sampled image at that point.
type SampledFeature struct {
	Geometry struct {
		Coordinates []float64 `json:"coordinates"`
	} `json:"geometry"`
	Properties map[string]any `json:"properties"`
}

// ID returns the stable row id the feature was requested with.
func (f SampledFeature) ID() (int, bool) {
	v, ok := f.Properties["id"]
	if !ok {
		return 0, false
	}
	switch id := v.(type) {
	case float64:
		return int(id), true
	case int:
		return id, true
	}
	return 0, false
}

// Value returns the named band value. The second result reports whether the
// property was present at all, so absent-under-mask is distinguishable from a
// true zero.
func (f SampledFeature) Value(band string) (float64, bool) {
	v, ok := f.Properties[band]
	if !ok {
		return 0, false
	}
	n, ok := v.(float64)
	return n, ok
}

// Longitude returns the feature's longitude.
func (f SampledFeature) Longitude() float64 {
	if len(f.Geometry.Coordinates) < 2 {
		return 0
	}
	return f.Geometry.Coordinates[0]
}

// Latitude returns the feature's latitude.
func (f SampledFeature) Latitude() float64 {
	if len(f.Geometry.Coordinates) < 2 {
		return 0
	}
	return f.Geometry.Coordinates[1]
}

// SampleRegions evaluates the image at every feature of fc in one request and
// returns the per-feature property dictionaries. Failures are terminal: no
// retry is attempted.
func (c *Client) SampleRegions(ctx context.Context, img *Image, fc *FeatureCollection, scale float64) ([]SampledFeature, error) {
	payload := map[string]any{
		"expression": img.expr,
		"collection": fc,
		"scale":      scale,
		"properties": []string{"id"},
		"geometries": true,
	}

	requestBody, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal sampling request: %w", err)
	}

	url := c.baseURL + "/api/v1/sample"
	request, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(requestBody))
	if err != nil {
		return nil, fmt.Errorf("failed to build sampling request: %w", err)
	}
	request.Header.Set("Content-Type", "application/json")

	response, err := c.httpClient.Do(request)
	if err != nil {
		return nil, fmt.Errorf("sampling request failed: %w", err)
	}
	defer response.Body.Close()

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read sampling response: %w", err)
	}
	if response.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("sampling request returned status %d: %s", response.StatusCode, string(body))
	}

	var decoded struct {
		Features []SampledFeature `json:"features"`
	}
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("failed to decode sampling response: %w", err)
	}

	return decoded.Features, nil
}
