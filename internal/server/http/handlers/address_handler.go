package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/xlpostcards/fulfillment/internal/domain/errors"
	"github.com/xlpostcards/fulfillment/internal/server/http/dto"
	"github.com/xlpostcards/fulfillment/internal/usecase"
)

// AddressHandler manages address validation endpoints.
type AddressHandler struct {
	facade AddressFacade
}

// NewAddressHandler constructs AddressHandler.
func NewAddressHandler(facade AddressFacade) *AddressHandler {
	return &AddressHandler{facade: facade}
}

// Validate handles POST /api/addresses/validate.
func (h *AddressHandler) Validate(c *gin.Context) {
	var req dto.AddressPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	outcome, err := h.facade.ValidateAddress(c.Request.Context(), toAddress(req))
	if err != nil {
		if errors.Is(err, domainErrors.ErrInvalidAddress) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		c.Status(http.StatusInternalServerError)
		return
	}

	response := dto.AddressValidateResponse{
		Verdict: string(outcome.Verdict),
		Address: toAddressPayload(outcome.Address),
	}
	if outcome.Suggestion != nil {
		suggestion := toAddressPayload(outcome.Suggestion.Merge(outcome.Address))
		response.Suggestion = &suggestion
	}

	if outcome.Verdict == usecase.AddressVerdictInvalid {
		c.JSON(http.StatusUnprocessableEntity, response)
		return
	}
	c.JSON(http.StatusOK, response)
}
