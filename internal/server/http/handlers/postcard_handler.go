package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/xlpostcards/fulfillment/internal/domain/errors"
	"github.com/xlpostcards/fulfillment/internal/domain/model"
	"github.com/xlpostcards/fulfillment/internal/server/http/dto"
	"github.com/xlpostcards/fulfillment/internal/usecase"
)

// PostcardHandler manages the fulfillment endpoints.
type PostcardHandler struct {
	facade PostcardFacade
}

// NewPostcardHandler constructs PostcardHandler.
func NewPostcardHandler(facade PostcardFacade) *PostcardHandler {
	return &PostcardHandler{facade: facade}
}

// Create handles POST /api/postcards.
func (h *PostcardHandler) Create(c *gin.Context) {
	var req dto.PostcardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.TransactionID) == "" {
		c.Status(http.StatusBadRequest)
		return
	}

	order := toOrder(req)
	var (
		result *usecase.Result
		err    error
	)
	if req.CouponCode != "" {
		result, err = h.facade.ProcessFreeOrder(c.Request.Context(), order, req.CouponCode)
	} else {
		result, err = h.facade.ProcessOrder(c.Request.Context(), order)
	}
	if err != nil {
		h.writeError(c, err)
		return
	}

	h.writeResult(c, result)
}

// Retry handles POST /api/postcards/:id/retry.
func (h *PostcardHandler) Retry(c *gin.Context) {
	var req dto.PostcardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	order := toOrder(req)
	order.TransactionID = c.Param("id")

	result, err := h.facade.RetryOrder(c.Request.Context(), order)
	if err != nil {
		h.writeError(c, err)
		return
	}

	h.writeResult(c, result)
}

// Refund handles POST /api/postcards/:id/refund.
func (h *PostcardHandler) Refund(c *gin.Context) {
	var req dto.RefundIntakeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Email) == "" {
		c.Status(http.StatusBadRequest)
		return
	}

	order := toOrder(dto.PostcardRequest{
		TransactionID: c.Param("id"),
		Recipient:     req.Recipient,
		Message:       req.Message,
	})

	contact := model.RefundContact{Name: req.Name, Email: req.Email}
	result, err := h.facade.RequestRefund(c.Request.Context(), order, contact, req.Platform)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusAccepted, toPostcardResponse(result))
}

// Status handles GET /api/postcards/:id.
func (h *PostcardHandler) Status(c *gin.Context) {
	tx, err := h.facade.TransactionStatus(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			c.Status(http.StatusNotFound)
			return
		}
		c.Status(http.StatusInternalServerError)
		return
	}

	c.JSON(http.StatusOK, toTransactionResponse(tx))
}

// writeResult maps a terminal flow state to a status code. A failed attempt
// is the vendor's fault, hence 502, but the body still tells the client what
// it can do next.
func (h *PostcardHandler) writeResult(c *gin.Context, result *usecase.Result) {
	switch result.State {
	case usecase.StateSucceeded:
		c.JSON(http.StatusCreated, toPostcardResponse(result))
	case usecase.StateAttemptFailed:
		c.JSON(http.StatusBadGateway, toPostcardResponse(result))
	default:
		c.JSON(http.StatusOK, toPostcardResponse(result))
	}
}

func (h *PostcardHandler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domainErrors.ErrDuplicateTransaction):
		c.Status(http.StatusConflict)
	case errors.Is(err, domainErrors.ErrPaymentCancelled), errors.Is(err, domainErrors.ErrPaymentDeclined):
		c.Status(http.StatusPaymentRequired)
	case errors.Is(err, domainErrors.ErrNotFound):
		c.Status(http.StatusNotFound)
	case errors.Is(err, domainErrors.ErrInvalidState):
		c.Status(http.StatusConflict)
	case errors.Is(err, domainErrors.ErrRetryExhausted):
		c.Status(http.StatusGone)
	case errors.Is(err, domainErrors.ErrCouponNotFound):
		c.Status(http.StatusNotFound)
	case errors.Is(err, domainErrors.ErrCouponExpired), errors.Is(err, domainErrors.ErrCouponExhausted):
		c.Status(http.StatusGone)
	default:
		c.Status(http.StatusInternalServerError)
	}
}
