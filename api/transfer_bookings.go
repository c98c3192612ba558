package api

import (
	"net/http"
	"strconv"

	"github.com/Domenick1991/transferbooking/internal/domain"
	"github.com/Domenick1991/transferbooking/internal/service/cart"
	"github.com/Domenick1991/transferbooking/internal/service/wizard"
	"github.com/gin-gonic/gin"
)

type TransferBookingHandler struct {
	wizard wizard.WizardUseCase
	cart   cart.CartUseCase
}

type selectRouteRequest struct {
	RouteID int64 `json:"route_id" binding:"required"`
}

type selectVehicleRequest struct {
	VehicleType string `json:"vehicle_type" binding:"required"`
}

type tripTypeRequest struct {
	TripType string `json:"trip_type" binding:"required"`
}

type legRequest struct {
	Date string `json:"date"`
	Time string `json:"time"`
}

type passengersRequest struct {
	PassengerCount int `json:"passenger_count"`
	LuggageCount   int `json:"luggage_count"`
}

type addOptionRequest struct {
	OptionID int64 `json:"option_id" binding:"required"`
	Quantity int   `json:"quantity"`
}

type quantityRequest struct {
	Quantity int `json:"quantity"`
}

type gotoRequest struct {
	Step string `json:"step" binding:"required"`
}

type userKeyRequest struct {
	UserKey string `json:"user_key" binding:"required"`
}

func NewTransferBookingHandler(w wizard.WizardUseCase, c cart.CartUseCase) *TransferBookingHandler {
	return &TransferBookingHandler{wizard: w, cart: c}
}

func (h *TransferBookingHandler) Register(router *gin.RouterGroup) {
	router.POST("", h.start)
	router.POST("/resume", h.resume)
	router.GET("/:id", h.get)
	router.DELETE("/:id", h.abandon)

	router.PUT("/:id/route", h.selectRoute)
	router.PUT("/:id/vehicle", h.selectVehicle)
	router.PUT("/:id/trip-type", h.setTripType)
	router.PUT("/:id/outbound", h.setOutbound)
	router.PUT("/:id/return", h.setReturn)
	router.PUT("/:id/passengers", h.setPassengers)
	router.POST("/:id/options", h.addOption)
	router.PUT("/:id/options/:optionId", h.updateOption)
	router.DELETE("/:id/options/:optionId", h.removeOption)
	router.PUT("/:id/contact", h.setContact)

	router.GET("/:id/steps", h.steps)
	router.POST("/:id/steps/next", h.next)
	router.POST("/:id/steps/back", h.back)
	router.POST("/:id/steps/goto", h.goTo)
	router.GET("/:id/time-slots", h.timeSlots)

	router.POST("/:id/price", h.price)
	router.POST("/:id/submit", h.submit)
	router.POST("/:id/resume-snapshot", h.saveForResume)
}

func (h *TransferBookingHandler) respond(c *gin.Context, status int, view *wizard.DraftView, err error) {
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(status, view)
}

func (h *TransferBookingHandler) start(c *gin.Context) {
	view, err := h.wizard.Start(c.Request.Context())
	h.respond(c, http.StatusCreated, view, err)
}

func (h *TransferBookingHandler) get(c *gin.Context) {
	view, err := h.wizard.Get(c.Request.Context(), c.Param("id"))
	h.respond(c, http.StatusOK, view, err)
}

func (h *TransferBookingHandler) abandon(c *gin.Context) {
	if err := h.wizard.Abandon(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *TransferBookingHandler) selectRoute(c *gin.Context) {
	var req selectRouteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	view, err := h.wizard.SelectRoute(c.Request.Context(), c.Param("id"), req.RouteID)
	h.respond(c, http.StatusOK, view, err)
}

func (h *TransferBookingHandler) selectVehicle(c *gin.Context) {
	var req selectVehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	view, err := h.wizard.SelectVehicle(c.Request.Context(), c.Param("id"), req.VehicleType)
	h.respond(c, http.StatusOK, view, err)
}

func (h *TransferBookingHandler) setTripType(c *gin.Context) {
	var req tripTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	tripType, err := domain.ParseTripType(req.TripType)
	if err != nil {
		writeError(c, err)
		return
	}
	view, err := h.wizard.SetTripType(c.Request.Context(), c.Param("id"), tripType)
	h.respond(c, http.StatusOK, view, err)
}

func (h *TransferBookingHandler) setOutbound(c *gin.Context) {
	var req legRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	view, err := h.wizard.SetOutbound(c.Request.Context(), c.Param("id"), req.Date, req.Time)
	h.respond(c, http.StatusOK, view, err)
}

func (h *TransferBookingHandler) setReturn(c *gin.Context) {
	var req legRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	view, err := h.wizard.SetReturn(c.Request.Context(), c.Param("id"), req.Date, req.Time)
	h.respond(c, http.StatusOK, view, err)
}

func (h *TransferBookingHandler) setPassengers(c *gin.Context) {
	var req passengersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	view, err := h.wizard.SetPassengers(c.Request.Context(), c.Param("id"), req.PassengerCount, req.LuggageCount)
	h.respond(c, http.StatusOK, view, err)
}

func (h *TransferBookingHandler) addOption(c *gin.Context) {
	var req addOptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	view, err := h.wizard.AddOption(c.Request.Context(), c.Param("id"), req.OptionID, req.Quantity)
	h.respond(c, http.StatusOK, view, err)
}

func (h *TransferBookingHandler) updateOption(c *gin.Context) {
	optionID, ok := optionIDParam(c)
	if !ok {
		return
	}
	var req quantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	view, err := h.wizard.UpdateOption(c.Request.Context(), c.Param("id"), optionID, req.Quantity)
	h.respond(c, http.StatusOK, view, err)
}

func (h *TransferBookingHandler) removeOption(c *gin.Context) {
	optionID, ok := optionIDParam(c)
	if !ok {
		return
	}
	view, err := h.wizard.RemoveOption(c.Request.Context(), c.Param("id"), optionID)
	h.respond(c, http.StatusOK, view, err)
}

func optionIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("optionId"), 10, 64)
	if err != nil {
		badRequest(c, "invalid option id")
		return 0, false
	}
	return id, true
}

func (h *TransferBookingHandler) setContact(c *gin.Context) {
	var req wizard.ContactInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	view, err := h.wizard.SetContact(c.Request.Context(), c.Param("id"), req)
	h.respond(c, http.StatusOK, view, err)
}

func (h *TransferBookingHandler) steps(c *gin.Context) {
	states, err := h.wizard.Steps(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, states)
}

func (h *TransferBookingHandler) next(c *gin.Context) {
	view, err := h.wizard.Next(c.Request.Context(), c.Param("id"))
	h.respond(c, http.StatusOK, view, err)
}

func (h *TransferBookingHandler) back(c *gin.Context) {
	view, err := h.wizard.Back(c.Request.Context(), c.Param("id"))
	h.respond(c, http.StatusOK, view, err)
}

func (h *TransferBookingHandler) goTo(c *gin.Context) {
	var req gotoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	step, err := domain.ParseStep(req.Step)
	if err != nil {
		writeError(c, err)
		return
	}
	view, err := h.wizard.GoTo(c.Request.Context(), c.Param("id"), step)
	h.respond(c, http.StatusOK, view, err)
}

func (h *TransferBookingHandler) timeSlots(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		badRequest(c, "date is required")
		return
	}
	leg := wizard.Leg(c.DefaultQuery("leg", string(wizard.LegOutbound)))

	slots, err := h.wizard.TimeSlots(c.Request.Context(), c.Param("id"), leg, date)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, slots)
}

func (h *TransferBookingHandler) price(c *gin.Context) {
	view, err := h.wizard.Price(c.Request.Context(), c.Param("id"))
	h.respond(c, http.StatusOK, view, err)
}

func (h *TransferBookingHandler) submit(c *gin.Context) {
	item, err := h.cart.Submit(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newCartItemResponse(item))
}

func (h *TransferBookingHandler) saveForResume(c *gin.Context) {
	var req userKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	if err := h.wizard.SaveForResume(c.Request.Context(), c.Param("id"), req.UserKey); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *TransferBookingHandler) resume(c *gin.Context) {
	var req userKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	view, err := h.wizard.Resume(c.Request.Context(), req.UserKey)
	h.respond(c, http.StatusOK, view, err)
}
