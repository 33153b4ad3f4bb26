// Package middleware provides HTTP middleware for request validation and processing.
package middleware

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ndewijer/Portfolio-Dashboard-Backend/internal/api/response"
	"github.com/ndewijer/Portfolio-Dashboard-Backend/internal/model"
)

type contextKey string

const assetClassKey contextKey = "assetClass"

// ValidateAssetClassMiddleware validates the assetClass URL parameter against
// the asset class roster and stores the parsed class in the request context.
// Returns 404 Not Found for an unknown class. "mutual-fund" and "Mutual_Fund"
// are both accepted.
//
// Example usage in router:
//
//	r.Route("/{assetClass}", func(r chi.Router) {
//	    r.Use(middleware.ValidateAssetClassMiddleware)
//	    r.Get("/", handler.ClassHoldings)
//	})
func ValidateAssetClassMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := chi.URLParam(r, "assetClass")
		if raw == "" {
			response.RespondError(w, http.StatusBadRequest, "asset class is required", "")
			return
		}

		class, err := model.ParseAssetClass(raw)
		if err != nil {
			response.RespondError(w, http.StatusNotFound, "unknown asset class", err.Error())
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), assetClassKey, class)))
	})
}

// AssetClassFromContext returns the class stored by ValidateAssetClassMiddleware.
func AssetClassFromContext(ctx context.Context) (model.AssetClass, bool) {
	class, ok := ctx.Value(assetClassKey).(model.AssetClass)
	return class, ok
}
