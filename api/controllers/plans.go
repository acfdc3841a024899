package controllers

import (
	"net/http"

	"github.com/leadspark-io/leadspark-backend/api/responses"
	"github.com/leadspark-io/leadspark-backend/internal/plans"
)

// PlansCatalog exposes the plan table: prices, limits, gated features.
// The portal renders pricing copy straight from this payload so UI text
// cannot drift from the enforced numbers.
func PlansCatalog() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, plans.Catalog())
	}
}
