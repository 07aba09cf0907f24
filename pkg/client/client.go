package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"towdash/internal/config"
	"towdash/internal/models"
	"towdash/internal/utils"
	"towdash/internal/validators"
	"towdash/pkg/logger"
)

// Client is the API surface the mobile shell talks through. The base URL
// comes in through configuration; there is no process-wide override.
type Client struct {
	baseURL          string
	httpClient       *http.Client
	bootstrapTimeout time.Duration
	logger           *logger.Logger
}

func New(cfg *config.ClientConfig, log *logger.Logger) *Client {
	timeout := cfg.BootstrapTimeout
	if timeout <= 0 {
		timeout = utils.BootstrapTimeout
	}
	return &Client{
		baseURL:          cfg.BaseURL,
		httpClient:       &http.Client{},
		bootstrapTimeout: timeout,
		logger:           log,
	}
}

type apiEnvelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Bootstrap fetches the full dashboard payload for a tow. The fetch is
// bounded; on timeout, transport error, or a non-2xx response the static
// fallback document is returned so the shell always has something to
// render. Failures are logged, never surfaced.
func (c *Client) Bootstrap(ctx context.Context, towID string) *models.DashboardPayload {
	ctx, cancel := context.WithTimeout(ctx, c.bootstrapTimeout)
	defer cancel()

	var payload models.DashboardPayload
	err := c.get(ctx, fmt.Sprintf("/api/v1/tows/%s/dashboard", towID), &payload)
	if err != nil {
		c.logger.WithTowID(towID).WithError(err).Warn("Bootstrap failed, using fallback dashboard")
		return models.FallbackDashboard()
	}
	return &payload
}

// AdvanceStatus requests an explicit status transition.
func (c *Client) AdvanceStatus(ctx context.Context, towID, status string) error {
	return c.put(ctx, fmt.Sprintf("/api/v1/tows/%s/status", towID), validators.StatusUpdateRequest{Status: status}, nil)
}

// AdvanceNext requests the one-step tap-to-advance transition.
func (c *Client) AdvanceNext(ctx context.Context, towID string) error {
	return c.put(ctx, fmt.Sprintf("/api/v1/tows/%s/status", towID), validators.StatusUpdateRequest{Advance: true}, nil)
}

func (c *Client) AddNote(ctx context.Context, towID, text, author string) (*models.Note, error) {
	var note models.Note
	err := c.post(ctx, fmt.Sprintf("/api/v1/tows/%s/notes", towID), validators.AddNoteRequest{Text: text, Author: author}, &note)
	if err != nil {
		return nil, err
	}
	return &note, nil
}

func (c *Client) ToggleChecklist(ctx context.Context, towID, itemID string, complete bool) error {
	return c.put(ctx, fmt.Sprintf("/api/v1/tows/%s/checklist/%s", towID, itemID), validators.ChecklistUpdateRequest{Complete: complete}, nil)
}

func (c *Client) CapturePhoto(ctx context.Context, towID, label, url string) (*models.Photo, error) {
	var photo models.Photo
	err := c.post(ctx, fmt.Sprintf("/api/v1/tows/%s/photos", towID), validators.CapturePhotoRequest{Label: label, URL: url}, &photo)
	if err != nil {
		return nil, err
	}
	return &photo, nil
}

func (c *Client) UpdateAddresses(ctx context.Context, towID string, req *validators.UpdateAddressesRequest) (*models.DashboardPayload, error) {
	var payload models.DashboardPayload
	err := c.put(ctx, fmt.Sprintf("/api/v1/tows/%s/addresses", towID), req, &payload)
	if err != nil {
		return nil, err
	}
	return &payload, nil
}

func (c *Client) UpdateTow(ctx context.Context, towID string, req *validators.UpdateTowRequest) (*models.DashboardPayload, error) {
	var payload models.DashboardPayload
	err := c.put(ctx, fmt.Sprintf("/api/v1/tows/%s", towID), req, &payload)
	if err != nil {
		return nil, err
	}
	return &payload, nil
}

func (c *Client) CreateTow(ctx context.Context, req *validators.CreateTowRequest) (string, *models.DashboardPayload, error) {
	var created struct {
		ID        string                   `json:"id"`
		Dashboard *models.DashboardPayload `json:"dashboard"`
	}
	if err := c.post(ctx, "/api/v1/tows/", req, &created); err != nil {
		return "", nil, err
	}
	return created.ID, created.Dashboard, nil
}

func (c *Client) ListTows(ctx context.Context) ([]models.TowSummary, error) {
	var summaries []models.TowSummary
	if err := c.get(ctx, "/api/v1/tows/", &summaries); err != nil {
		return nil, err
	}
	return summaries, nil
}

func (c *Client) get(ctx context.Context, path string, dest interface{}) error {
	return c.do(ctx, http.MethodGet, path, nil, dest)
}

func (c *Client) post(ctx context.Context, path string, body, dest interface{}) error {
	return c.do(ctx, http.MethodPost, path, body, dest)
}

func (c *Client) put(ctx context.Context, path string, body, dest interface{}) error {
	return c.do(ctx, http.MethodPut, path, body, dest)
}

func (c *Client) do(ctx context.Context, method, path string, body, dest interface{}) error {
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	var envelope apiEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if envelope.Error != nil {
			return fmt.Errorf("%s %s: %s (%s)", method, path, envelope.Error.Message, envelope.Error.Code)
		}
		return fmt.Errorf("%s %s: unexpected status %d", method, path, resp.StatusCode)
	}

	if dest != nil && envelope.Data != nil {
		if err := json.Unmarshal(envelope.Data, dest); err != nil {
			return fmt.Errorf("failed to decode response data: %w", err)
		}
	}
	return nil
}
