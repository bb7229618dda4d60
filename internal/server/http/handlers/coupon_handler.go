package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/xlpostcards/fulfillment/internal/domain/errors"
	"github.com/xlpostcards/fulfillment/internal/server/http/dto"
)

// CouponHandler manages promo code endpoints.
type CouponHandler struct {
	facade CouponFacade
}

// NewCouponHandler constructs CouponHandler.
func NewCouponHandler(facade CouponFacade) *CouponHandler {
	return &CouponHandler{facade: facade}
}

// Validate handles POST /api/coupons/validate.
func (h *CouponHandler) Validate(c *gin.Context) {
	var req dto.CouponValidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	coupon, err := h.facade.ValidateCoupon(c.Request.Context(), req.Code)
	if err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrCouponNotFound):
			c.Status(http.StatusNotFound)
		case errors.Is(err, domainErrors.ErrCouponExpired), errors.Is(err, domainErrors.ErrCouponExhausted):
			c.Status(http.StatusGone)
		default:
			c.Status(http.StatusInternalServerError)
		}
		return
	}

	c.JSON(http.StatusOK, dto.CouponValidateResponse{
		Code:            coupon.Code,
		DiscountPercent: coupon.DiscountPercent,
		ExpiresAt:       coupon.ExpiresAt,
	})
}
