package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MyResellApp/MyResell/api/responses"
	"github.com/MyResellApp/MyResell/api/validators"
	"github.com/MyResellApp/MyResell/internal/plans"
	"github.com/MyResellApp/MyResell/pkg/logger"
)

// PlanList returns the catalog ordered by price. Public: buyers browse plans
// before they authenticate.
func PlanList(svc plans.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func PlanDetail(svc plans.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathUUID(chi.URLParam(r, "planId"), "planId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		plan, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, plan)
	}
}
