package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/qinghao1/gojek/internal/adapter/websocket"
	"github.com/qinghao1/gojek/internal/core/domain"
	"github.com/qinghao1/gojek/internal/core/service"
	"go.uber.org/zap"
)

// DriverStream pushes frames to a driver's open streaming connection.
type DriverStream interface {
	SendToDriver(driverID int, message any) bool
}

type DriverHandler struct {
	locations *service.LocationService
	queries   *service.QueryService
	stream    DriverStream
	log       *zap.Logger
}

func NewDriverHandler(locations *service.LocationService, queries *service.QueryService, log *zap.Logger) *DriverHandler {
	return &DriverHandler{
		locations: locations,
		queries:   queries,
		log:       log,
	}
}

// WithStream makes successful HTTP location updates also acknowledge on the
// driver's stream, if one is open.
func (h *DriverHandler) WithStream(stream DriverStream) *DriverHandler {
	h.stream = stream
	return h
}

// ListNearby serves GET /drivers.
func (h *DriverHandler) ListNearby(c *gin.Context) {
	drivers, err := h.queries.Execute(c.Request.URL.Query())
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, drivers)
}

// UpdateLocation serves PUT /drivers/:id/location.
func (h *DriverHandler) UpdateLocation(c *gin.Context) {
	id := parseDriverID(c.Param("id"))

	// An unreadable body is handled like a malformed one.
	body, _ := c.GetRawData()

	if _, err := h.locations.UpdateLocation(c.Request.Context(), id, body); err != nil {
		h.respondError(c, err)
		return
	}

	if h.stream != nil {
		h.stream.SendToDriver(id, websocket.NewLocationAck(nil))
	}

	c.JSON(http.StatusOK, gin.H{})
}

// GetDriver serves GET /drivers/:id.
func (h *DriverHandler) GetDriver(c *gin.Context) {
	loc, err := h.locations.GetLocation(c.Request.Context(), parseDriverID(c.Param("id")))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":         loc.ID,
		"longitude":  loc.Point.Longitude,
		"latitude":   loc.Point.Latitude,
		"accuracy":   loc.Accuracy,
		"updated_at": loc.UpdatedAt,
	})
}

// parseDriverID maps anything that is not entirely an integer, "5abc"
// included, to 0, which no driver has.
func parseDriverID(raw string) int {
	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return id
}

func (h *DriverHandler) respondError(c *gin.Context, err error) {
	var verr *domain.ValidationError
	switch {
	case errors.Is(err, domain.ErrDriverNotFound):
		c.JSON(http.StatusNotFound, gin.H{})
	case errors.As(err, &verr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": verr.Errors})
	default:
		h.log.Error("driver request failed",
			zap.String("path", c.FullPath()),
			zap.String("request_id", c.GetString(requestIDKey)),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
