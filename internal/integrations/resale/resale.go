package resale

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Dan9191/pocket-property/internal/config"
	"github.com/Dan9191/pocket-property/internal/models"
	"github.com/sirupsen/logrus"
)

const searchPath = "/api/resales"

// maxErrorBody limits how much of a failed response is copied into the error
const maxErrorBody = 512

// Client handles integration with the HDB resale backend
type Client struct {
	baseURL string
	client  *http.Client
	log     *logrus.Logger
}

// NewClient initializes a new resale backend client
func NewClient(cfg *config.Config, log *logrus.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.BackendURL, "/"),
		client: &http.Client{
			Timeout: cfg.BackendTimeout,
		},
		log: log,
	}
}

// buildSearchURL creates the query URL for a search term
func (c *Client) buildSearchURL(term string) string {
	q := url.Values{}
	q.Set("search", term)
	return c.baseURL + searchPath + "?" + q.Encode()
}

// sendRequest performs the GET and returns the raw body of a 2xx response
func (c *Client) sendRequest(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, fmt.Errorf("unexpected status code %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	c.log.WithFields(logrus.Fields{
		"url":      rawURL,
		"status":   resp.StatusCode,
		"bytes":    len(body),
		"duration": time.Since(start).String(),
	}).Debug("Resale backend responded")

	return body, nil
}

// parseResponse decodes the listing array from the response body
func (c *Client) parseResponse(body []byte) ([]models.ResaleListing, error) {
	var listings []models.ResaleListing
	if err := json.Unmarshal(body, &listings); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	if listings == nil {
		listings = []models.ResaleListing{}
	}
	return listings, nil
}

// Search queries the backend for listings matching term.
// A blank term returns an empty result without any request.
func (c *Client) Search(ctx context.Context, term string) ([]models.ResaleListing, error) {
	if strings.TrimSpace(term) == "" {
		return []models.ResaleListing{}, nil
	}

	body, err := c.sendRequest(ctx, c.buildSearchURL(term))
	if err != nil {
		return nil, fmt.Errorf("resale search %q: %w", term, err)
	}

	listings, err := c.parseResponse(body)
	if err != nil {
		return nil, fmt.Errorf("resale search %q: %w", term, err)
	}

	c.log.Infof("Resale search %q returned %d listings", term, len(listings))
	return listings, nil
}
