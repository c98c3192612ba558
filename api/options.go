package api

import (
	"net/http"
	"strconv"

	"github.com/Domenick1991/transferbooking/internal/service/options"
	"github.com/gin-gonic/gin"
)

type OptionHandler struct {
	service options.OptionUseCase
}

func NewOptionHandler(service options.OptionUseCase) *OptionHandler {
	return &OptionHandler{service: service}
}

func (h *OptionHandler) Register(router *gin.RouterGroup) {
	router.GET("", h.list)
}

// list returns global options, plus the route's own options when route_id is given.
func (h *OptionHandler) list(c *gin.Context) {
	var routeID *int64
	if raw := c.Query("route_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			badRequest(c, "invalid route_id")
			return
		}
		routeID = &id
	}

	list, err := h.service.List(c.Request.Context(), routeID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}
