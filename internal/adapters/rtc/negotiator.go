package rtc

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/pion/webrtc/v4"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/camwall/internal/core"
	"github.com/dkeye/camwall/internal/domain"
)

const maxAnswerSize = 1 << 20

// Negotiator performs the one-shot WHEP-style handshake with a camera's
// negotiation endpoint: build a receive-only offer, POST it, apply the
// answer. No retry logic lives here.
type Negotiator struct {
	cfg    webrtc.Configuration
	client *http.Client
}

func DefaultWebRTCConfig() webrtc.Configuration {
	return webrtc.Configuration{
		ICEServers: []webrtc.ICEServer{
			{
				URLs: []string{"stun:stun.l.google.com:19302"},
			},
		},
	}
}

func NewNegotiator(stunServers []string) *Negotiator {
	cfg := DefaultWebRTCConfig()
	if len(stunServers) > 0 {
		cfg.ICEServers = []webrtc.ICEServer{{URLs: stunServers}}
	}
	return &Negotiator{cfg: cfg, client: &http.Client{}}
}

// Negotiate runs a single handshake attempt, bounded by ctx. On success the
// returned transport is attached but not yet confirmed connected; the
// caller watches its monitor for that.
func (n *Negotiator) Negotiate(ctx context.Context, cam domain.Camera) (core.TransportHandle, error) {
	pc, err := webrtc.NewPeerConnection(n.cfg)
	if err != nil {
		return nil, core.NegotiationErr(err)
	}
	attached := false
	defer func() {
		if !attached {
			_ = pc.Close()
		}
	}()

	for _, kind := range []webrtc.RTPCodecType{webrtc.RTPCodecTypeVideo, webrtc.RTPCodecTypeAudio} {
		_, err := pc.AddTransceiverFromKind(kind, webrtc.RTPTransceiverInit{
			Direction: webrtc.RTPTransceiverDirectionRecvonly,
		})
		if err != nil {
			return nil, core.NegotiationErr(err)
		}
	}

	offer, err := pc.CreateOffer(nil)
	if err != nil {
		return nil, core.NegotiationErr(err)
	}
	gatherComplete := webrtc.GatheringCompletePromise(pc)
	if err := pc.SetLocalDescription(offer); err != nil {
		return nil, core.NegotiationErr(err)
	}
	select {
	case <-gatherComplete:
	case <-ctx.Done():
		return nil, core.Classify(ctx.Err())
	}

	answer, err := n.submitOffer(ctx, cam, pc.LocalDescription().SDP)
	if err != nil {
		return nil, core.Classify(err)
	}

	mon := newConnMonitor()
	pc.OnConnectionStateChange(func(st webrtc.PeerConnectionState) {
		log.Info().
			Str("module", "rtc").
			Str("camera", string(cam.ID)).
			Str("peer_connection_state", st.String()).
			Msg("peer state")
		switch st {
		case webrtc.PeerConnectionStateConnecting:
			mon.push(core.ConnConnecting)
		case webrtc.PeerConnectionStateConnected:
			mon.push(core.ConnConnected)
		case webrtc.PeerConnectionStateDisconnected:
			mon.push(core.ConnDisconnected)
		case webrtc.PeerConnectionStateFailed, webrtc.PeerConnectionStateClosed:
			mon.push(core.ConnFailed)
		}
	})

	if err := pc.SetRemoteDescription(webrtc.SessionDescription{
		Type: webrtc.SDPTypeAnswer,
		SDP:  answer,
	}); err != nil {
		return nil, core.NegotiationErr(fmt.Errorf("malformed answer: %w", err))
	}

	attached = true
	return &Transport{pc: pc, mon: mon, id: cam.ID}, nil
}

func (n *Negotiator) submitOffer(ctx context.Context, cam domain.Camera, sdp string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, cam.NegotiationEndpoint, strings.NewReader(sdp))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/sdp")

	resp, err := n.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return "", fmt.Errorf("negotiation endpoint returned %s", resp.Status)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxAnswerSize))
	if err != nil {
		return "", err
	}
	if len(body) == 0 {
		return "", errors.New("empty answer")
	}
	return string(body), nil
}
