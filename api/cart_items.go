package api

import (
	"net/http"
	"time"

	"github.com/Domenick1991/transferbooking/internal/domain"
	"github.com/Domenick1991/transferbooking/internal/service/cart"
	"github.com/gin-gonic/gin"
)

type CartItemHandler struct {
	service cart.CartUseCase
}

type cartItemResponse struct {
	Token       string  `json:"token"`
	SessionID   string  `json:"session_id"`
	ProductType string  `json:"product_type"`
	Status      string  `json:"status"`
	TotalPrice  float64 `json:"total_price"`
	Currency    string  `json:"currency"`
	ExpiresAt   string  `json:"expires_at"`
	Summary     string  `json:"summary,omitempty"`
}

func newCartItemResponse(item *domain.CartItem) cartItemResponse {
	resp := cartItemResponse{
		Token:       item.Token,
		SessionID:   item.SessionID,
		ProductType: string(item.ProductType),
		Status:      string(item.Status),
		TotalPrice:  item.TotalPrice,
		Currency:    item.Currency,
		ExpiresAt:   item.ExpiresAt.Format(time.RFC3339),
	}
	if p, err := cart.DecodeProduct(*item); err == nil {
		resp.Summary = p.Summary()
	}
	return resp
}

func NewCartItemHandler(service cart.CartUseCase) *CartItemHandler {
	return &CartItemHandler{service: service}
}

func (h *CartItemHandler) Register(router *gin.RouterGroup) {
	router.GET("/:token", h.get)
}

func (h *CartItemHandler) get(c *gin.Context) {
	item, err := h.service.GetItem(c.Request.Context(), c.Param("token"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newCartItemResponse(item))
}
