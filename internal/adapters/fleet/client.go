// Package fleet reads the camera inventory from the dashboard's REST API.
// The listing is an external collaborator; this client never mutates it.
package fleet

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/dkeye/camwall/internal/domain"
)

type Client struct {
	base   string
	client *http.Client
}

func NewClient(base string) *Client {
	return &Client{
		base:   strings.TrimRight(base, "/"),
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

// List fetches the ordered camera listing.
func (c *Client) List(ctx context.Context) ([]domain.Camera, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"/cameras", nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fleet listing: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fleet listing returned %s", resp.Status)
	}
	var raw []struct {
		ID       string `json:"id"`
		Name     string `json:"name"`
		Endpoint string `json:"negotiationEndpoint"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("fleet listing decode: %w", err)
	}
	cams := make([]domain.Camera, 0, len(raw))
	for _, entry := range raw {
		cam, err := domain.NewCamera(domain.CameraID(entry.ID), entry.Name, entry.Endpoint)
		if err != nil {
			return nil, fmt.Errorf("fleet listing entry %q: %w", entry.ID, err)
		}
		cams = append(cams, cam)
	}
	return cams, nil
}

// Get resolves one camera descriptor by id.
func (c *Client) Get(ctx context.Context, id domain.CameraID) (domain.Camera, error) {
	cams, err := c.List(ctx)
	if err != nil {
		return domain.Camera{}, err
	}
	for _, cam := range cams {
		if cam.ID == id {
			return cam, nil
		}
	}
	return domain.Camera{}, fmt.Errorf("camera %q not found", id)
}
