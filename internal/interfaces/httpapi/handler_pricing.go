package httpapi

import "net/http"

func (h *Handler) SeedPrices(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SeedPrices")
	defer span.End()

	created, err := h.pricingService.SeedInitialPrices(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "seed initial prices failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]any{"playersPriced": created})
}

func (h *Handler) UpdatePrices(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdatePrices")
	defer span.End()

	changed, err := h.pricingService.UpdatePlayerPrices(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "update player prices failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]any{"playersChanged": changed})
}
