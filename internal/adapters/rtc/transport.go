package rtc

import (
	"sync"

	"github.com/pion/webrtc/v4"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/camwall/internal/core"
	"github.com/dkeye/camwall/internal/domain"
)

// Transport owns one negotiated receive-only PeerConnection. The session
// that acquired it must Close it exactly once; Close also stops the
// monitor, so no stale connectivity event outlives the transport.
type Transport struct {
	pc  *webrtc.PeerConnection
	mon *connMonitor
	id  domain.CameraID

	closeOnce sync.Once
}

func (t *Transport) Monitor() core.Monitor { return t.mon }

// PeerConnection exposes the underlying connection so the renderer can
// attach to incoming tracks. The caller must not close it.
func (t *Transport) PeerConnection() *webrtc.PeerConnection { return t.pc }

func (t *Transport) Close() {
	t.closeOnce.Do(func() {
		t.mon.Stop()
		if err := t.pc.Close(); err != nil {
			log.Error().Err(err).Str("module", "rtc").Str("camera", string(t.id)).Msg("close error")
		} else {
			log.Info().Str("module", "rtc").Str("camera", string(t.id)).Msg("transport closed")
		}
	})
}
