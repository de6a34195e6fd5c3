// Package domain contains entity without logic, just meta-data
package domain

import "errors"

var (
	ErrCameraIDEmpty = errors.New("camera id empty")
	ErrEndpointEmpty = errors.New("negotiation endpoint empty")
)

type CameraID string

// Camera describes one printer-mounted camera as reported by the fleet
// listing. Read-only input; this core never mutates it.
type Camera struct {
	ID                  CameraID `json:"id"`
	Name                string   `json:"name"`
	NegotiationEndpoint string   `json:"negotiationEndpoint"`
}

// NewCamera avoids raw literals in adapters and keeps construction obvious.
func NewCamera(id CameraID, name, endpoint string) (Camera, error) {
	if id == "" {
		return Camera{}, ErrCameraIDEmpty
	}
	if endpoint == "" {
		return Camera{}, ErrEndpointEmpty
	}
	return Camera{ID: id, Name: name, NegotiationEndpoint: endpoint}, nil
}
