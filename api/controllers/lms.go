package controllers

import (
	"context"
	"net/http"

	"github.com/leadspark-io/leadspark-backend/api/responses"
	"github.com/leadspark-io/leadspark-backend/api/validators"
	"github.com/leadspark-io/leadspark-backend/internal/plans"
	"github.com/leadspark-io/leadspark-backend/internal/webhooks"
	"github.com/leadspark-io/leadspark-backend/pkg/enums"
	pkgerrors "github.com/leadspark-io/leadspark-backend/pkg/errors"
	"github.com/leadspark-io/leadspark-backend/pkg/logger"
)

type hookDispatcher interface {
	Dispatch(ctx context.Context, event string, data any) error
}

// LMSEnrollRequest carries the course enrollment details.
type LMSEnrollRequest struct {
	CourseSlug string `json:"course_slug" validate:"required,max=120"`
	Email      string `json:"email" validate:"required,email"`
}

// LMSEnroll enrolls a pro user in the outreach course. The learning
// platform is external and the webhook handoff IS the enrollment, so
// the hook runs synchronously and a failed POST surfaces to the caller
// instead of vanishing behind an accepted response.
func LMSEnroll(hooks hookDispatcher, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if hooks == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "webhook dispatcher not configured"))
			return
		}

		userID, plan, err := actor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if !plans.HasFeature(plan, enums.FeatureLMS) {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeForbidden, "course access requires the pro plan"))
			return
		}

		var body LMSEnrollRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		err = hooks.Dispatch(r.Context(), webhooks.EventLMSSignup, map[string]any{
			"user_id":     userID,
			"email":       body.Email,
			"course_slug": body.CourseSlug,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.Wrap(pkgerrors.CodeDependency, err, "learning platform handoff failed"))
			return
		}

		responses.WriteSuccessStatus(w, http.StatusAccepted, map[string]string{"status": "enrollment_requested"})
	}
}
