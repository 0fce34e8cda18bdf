package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"flightdeck/watchtower/internal/constants"
	"flightdeck/watchtower/internal/models/dtos"
	"flightdeck/watchtower/internal/services"
)

// GetEntitlement returns the gate state the client renders paywalls from
func (h *Handlers) GetEntitlement(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	respondWithSuccess(w, http.StatusOK, start, dtos.EntitlementResponse{
		Entitled:             h.deps.Entitlement.IsEntitled(),
		FreeActionsRemaining: h.deps.Entitlement.RemainingFreeActions(),
	})
}

// GetProducts lists the recognized subscription catalog, cached briefly to
// spare the billing gateway
func (h *Handlers) GetProducts(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	cacheKey := string(constants.CachePrefixProducts) + "catalog"

	if val, found := h.deps.Cache.Get(cacheKey); found {
		if products, ok := val.([]dtos.ProductDto); ok {
			respondWithSuccess(w, http.StatusOK, start, dtos.ProductsResponse{Products: products})
			return
		}
	}

	products, err := h.deps.PurchaseProvider.ListProducts(r.Context(), constants.RecognizedProductIDs())
	if err != nil {
		respondWithError(w, http.StatusBadGateway, start, "Failed to fetch products")
		return
	}

	out := make([]dtos.ProductDto, 0, len(products))
	for _, p := range products {
		if !constants.IsRecognizedProduct(p.ProductID) {
			continue
		}
		out = append(out, dtos.ProductDto{
			ProductID:   p.ProductID,
			DisplayName: p.DisplayName,
			Price:       p.Price,
			HasTrial:    p.HasTrial,
		})
	}

	h.deps.Cache.Set(cacheKey, out, time.Hour)
	respondWithSuccess(w, http.StatusOK, start, dtos.ProductsResponse{Products: out})
}

// Purchase initiates a subscription purchase. Cancellation is silent;
// pending and unverified outcomes map to distinct statuses so the client
// never treats them as entitled.
func (h *Handlers) Purchase(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req dtos.PurchaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, start, "Invalid request body")
		return
	}

	err := h.deps.Entitlement.Purchase(r.Context(), req.ProductID)
	switch {
	case err == nil:
		respondWithSuccess(w, http.StatusOK, start, dtos.EntitlementResponse{
			Entitled:             h.deps.Entitlement.IsEntitled(),
			FreeActionsRemaining: h.deps.Entitlement.RemainingFreeActions(),
		})
	case errors.Is(err, services.ErrUnknownProduct):
		respondWithError(w, http.StatusBadRequest, start,
			constants.GetErrorMessage(constants.ErrCodeUnknownProduct))
	case errors.Is(err, services.ErrPurchasePending):
		respondWithError(w, http.StatusAccepted, start,
			constants.GetErrorMessage(constants.ErrCodePurchasePending))
	case errors.Is(err, services.ErrTransactionUnverified):
		respondWithError(w, http.StatusUnprocessableEntity, start,
			constants.GetErrorMessage(constants.ErrCodeTransactionUnverified))
	default:
		respondWithError(w, http.StatusBadGateway, start, "Purchase failed")
	}
}

// Restore re-syncs purchases with the provider
func (h *Handlers) Restore(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	err := h.deps.Entitlement.RestorePurchases(r.Context())
	switch {
	case err == nil:
		respondWithSuccess(w, http.StatusOK, start, dtos.EntitlementResponse{
			Entitled:             h.deps.Entitlement.IsEntitled(),
			FreeActionsRemaining: h.deps.Entitlement.RemainingFreeActions(),
		})
	case errors.Is(err, services.ErrNothingToRestore):
		respondWithError(w, http.StatusNotFound, start,
			constants.GetErrorMessage(constants.ErrCodeNothingToRestore))
	default:
		respondWithError(w, http.StatusBadGateway, start, "Restore failed")
	}
}
