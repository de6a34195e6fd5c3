package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// streamState pushes session state transitions to one dashboard client so
// views render live state without polling. Slow clients lose events, never
// block session tasks.
func (a *API) streamState(ctx context.Context, c *gin.Context) {
	sid := c.GetString("client_token")
	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Str("module", "adapters.http").Msg("ws upgrade")
		return
	}
	log.Info().Str("module", "adapters.http").Str("sid", sid).Msg("state stream connected")

	sub, unsubscribe := a.Registry.Subscribe()
	ctx, cancel := context.WithCancel(ctx)

	// Reader only detects client-side close.
	go func() {
		defer cancel()
		for {
			if _, _, err := ws.ReadMessage(); err != nil {
				return
			}
		}
	}()

	go func() {
		defer func() {
			unsubscribe()
			_ = ws.Close()
			log.Info().Str("module", "adapters.http").Str("sid", sid).Msg("state stream closed")
		}()
		for {
			select {
			case <-ctx.Done():
				return
			case tr, ok := <-sub:
				if !ok {
					return
				}
				if err := ws.SetWriteDeadline(time.Now().Add(5 * time.Second)); err != nil {
					return
				}
				if err := ws.WriteJSON(tr); err != nil {
					log.Error().Err(err).Str("module", "adapters.http").Str("sid", sid).Msg("state stream write error")
					return
				}
			}
		}
	}()
}
