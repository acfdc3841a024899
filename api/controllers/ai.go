package controllers

import (
	"net/http"

	"github.com/leadspark-io/leadspark-backend/api/responses"
	"github.com/leadspark-io/leadspark-backend/api/validators"
	"github.com/leadspark-io/leadspark-backend/internal/aiwriter"
	pkgerrors "github.com/leadspark-io/leadspark-backend/pkg/errors"
	"github.com/leadspark-io/leadspark-backend/pkg/logger"
)

// AIGenerateEmail runs the metered copywriter. One credit per call.
func AIGenerateEmail(svc *aiwriter.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "ai writer unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		userID, plan, err := actor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body aiwriter.GenerateRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Generate(r.Context(), userID, plan, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
