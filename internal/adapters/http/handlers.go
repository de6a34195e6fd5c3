package http

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/camwall/internal/app"
	"github.com/dkeye/camwall/internal/domain"
)

// CameraSource resolves camera descriptors. Satisfied by fleet.Client.
type CameraSource interface {
	List(ctx context.Context) ([]domain.Camera, error)
	Get(ctx context.Context, id domain.CameraID) (domain.Camera, error)
}

// API is the thin HTTP surface over the session registry. Every view
// (wall, PiP, detail) goes through these handlers; none of them carries
// its own reconnect logic.
type API struct {
	Registry *app.SessionRegistry
	Cameras  CameraSource
}

func (a *API) listCameras(c *gin.Context) {
	cams, err := a.Cameras.List(c.Request.Context())
	if err != nil {
		log.Error().Err(err).Str("module", "adapters.http").Msg("camera listing failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": "camera listing unavailable"})
		return
	}
	c.JSON(http.StatusOK, cams)
}

func (a *API) listSessions(c *gin.Context) {
	c.JSON(http.StatusOK, a.Registry.List())
}

func (a *API) getSession(c *gin.Context) {
	id := domain.CameraID(c.Param("id"))
	snap, ok := a.Registry.Snapshot(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no session for camera"})
		return
	}
	c.JSON(http.StatusOK, snap)
}

func (a *API) startSession(c *gin.Context) {
	id := domain.CameraID(c.Param("id"))
	cam, err := a.Cameras.Get(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, a.Registry.Start(cam))
}

func (a *API) stopSession(c *gin.Context) {
	id := domain.CameraID(c.Param("id"))
	if !a.Registry.Stop(id) {
		c.JSON(http.StatusNotFound, gin.H{"error": "no session for camera"})
		return
	}
	c.Status(http.StatusNoContent)
}

func (a *API) retrySession(c *gin.Context) {
	id := domain.CameraID(c.Param("id"))
	if !a.Registry.RetryNow(id) {
		c.JSON(http.StatusNotFound, gin.H{"error": "no session for camera"})
		return
	}
	c.Status(http.StatusAccepted)
}

type layoutResponse struct {
	app.Grid
	CellWidth  int `json:"cellWidth,omitempty"`
	CellHeight int `json:"cellHeight,omitempty"`
}

// layout plans the wall grid. count defaults to the number of sessions;
// optional viewport w/h add cell dimensions.
func (a *API) layout(c *gin.Context) {
	count := a.Registry.Count()
	if raw := c.Query("count"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "count must be an integer"})
			return
		}
		count = n
	}
	resp := layoutResponse{Grid: app.PlanLayout(count)}
	w, errW := strconv.Atoi(c.DefaultQuery("w", "0"))
	h, errH := strconv.Atoi(c.DefaultQuery("h", "0"))
	if errW == nil && errH == nil && w > 0 && h > 0 {
		resp.CellWidth, resp.CellHeight = resp.Grid.CellSize(w, h)
	}
	c.JSON(http.StatusOK, resp)
}
