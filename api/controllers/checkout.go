package controllers

import (
	"net/http"

	"github.com/mvalverde/cartfront-backend/api/responses"
	checkoutsvc "github.com/mvalverde/cartfront-backend/internal/checkout"
	pkgerrors "github.com/mvalverde/cartfront-backend/pkg/errors"
	"github.com/mvalverde/cartfront-backend/pkg/logger"
)

// Checkout converts the caller's cart into orders in one transaction.
func Checkout(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		userID, err := authedUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Execute(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}
