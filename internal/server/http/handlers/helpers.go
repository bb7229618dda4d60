package handlers

import (
	"github.com/xlpostcards/fulfillment/internal/domain/model"
	"github.com/xlpostcards/fulfillment/internal/server/http/dto"
	"github.com/xlpostcards/fulfillment/internal/usecase"
)

func toAddress(p dto.AddressPayload) model.Address {
	return model.Address{
		Name:         p.Name,
		Salutation:   p.Salutation,
		AddressLine1: p.AddressLine1,
		AddressLine2: p.AddressLine2,
		City:         p.City,
		State:        p.State,
		Zip:          p.Zip,
	}
}

func toAddressPayload(a model.Address) dto.AddressPayload {
	return dto.AddressPayload{
		Name:         a.Name,
		Salutation:   a.Salutation,
		AddressLine1: a.AddressLine1,
		AddressLine2: a.AddressLine2,
		City:         a.City,
		State:        a.State,
		Zip:          a.Zip,
	}
}

func toOrder(req dto.PostcardRequest) model.PostcardOrder {
	return model.PostcardOrder{
		TransactionID:   req.TransactionID,
		PaymentIntentID: req.PaymentIntentID,
		Recipient:       toAddress(req.Recipient),
		Size:            model.PostcardSize(req.Size),
		Message:         req.Message,
		FrontImageURL:   req.FrontImageURL,
		BackImageURL:    req.BackImageURL,
		SenderEmail:     req.SenderEmail,
	}
}

func toPostcardResponse(r *usecase.Result) dto.PostcardResponse {
	return dto.PostcardResponse{
		TransactionID:  r.TransactionID,
		State:          string(r.State),
		VendorJobID:    r.VendorJobID,
		PDFPreviewURL:  r.PDFPreviewURL,
		Attempts:       r.Attempts,
		RetryAvailable: r.RetryAvailable,
		Error:          r.LastError,
		RefundCaseID:   r.RefundCaseID,
	}
}

func toTransactionResponse(tx *model.Transaction) dto.TransactionResponse {
	return dto.TransactionResponse{
		TransactionID: tx.ID,
		Status:        string(tx.Status),
		Attempts:      tx.Attempts,
		VendorJobID:   tx.VendorJobID,
		LastError:     tx.LastError,
		CreatedAt:     tx.CreatedAt,
		CompletedAt:   tx.CompletedAt,
	}
}
