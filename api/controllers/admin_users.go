package controllers

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/leadspark-io/leadspark-backend/api/responses"
	"github.com/leadspark-io/leadspark-backend/api/validators"
	"github.com/leadspark-io/leadspark-backend/internal/usage"
	"github.com/leadspark-io/leadspark-backend/internal/users"
	"github.com/leadspark-io/leadspark-backend/pkg/enums"
	pkgerrors "github.com/leadspark-io/leadspark-backend/pkg/errors"
	"github.com/leadspark-io/leadspark-backend/pkg/logger"
)

type adminPlanUpdateBody struct {
	Plan string `json:"plan" validate:"required,oneof=free pro"`
}

type adminStatusUpdateBody struct {
	IsActive *bool `json:"is_active" validate:"required"`
}

type adminUsageResetBody struct {
	Resource string `json:"resource" validate:"required"`
}

// AdminUsersList returns every registered account for the back office.
func AdminUsersList(repo *users.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if repo == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "users repository not configured"))
			return
		}

		records, err := repo.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to list users"))
			return
		}

		out := make([]*users.UserDTO, 0, len(records))
		for i := range records {
			out = append(out, users.FromModel(&records[i]))
		}
		responses.WriteSuccess(w, out)
	}
}

// AdminUserPlanUpdate switches an account between subscription plans.
// The new plan takes effect on the user's next token refresh.
func AdminUserPlanUpdate(repo *users.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if repo == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "users repository not configured"))
			return
		}

		id, err := pathID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body adminPlanUpdateBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		plan, err := enums.ParsePlan(body.Plan)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid plan"))
			return
		}

		if err := requireUser(r, repo, id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := repo.UpdatePlan(r.Context(), id, plan); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to update plan"))
			return
		}

		ctx := logg.WithFields(r.Context(), map[string]any{"user_id": id.String(), "plan": plan.String()})
		logg.Info(ctx, "user plan updated")
		responses.WriteSuccess(w, map[string]any{"user_id": id, "plan": plan})
	}
}

// AdminUserStatusUpdate activates or suspends an account.
func AdminUserStatusUpdate(repo *users.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if repo == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "users repository not configured"))
			return
		}

		id, err := pathID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body adminStatusUpdateBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := requireUser(r, repo, id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := repo.SetActive(r.Context(), id, *body.IsActive); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to update account status"))
			return
		}

		ctx := logg.WithFields(r.Context(), map[string]any{"user_id": id.String(), "is_active": *body.IsActive})
		logg.Info(ctx, "user status updated")
		responses.WriteSuccess(w, map[string]any{"user_id": id, "is_active": *body.IsActive})
	}
}

// AdminUserUsageReset zeroes a single resource counter for a user.
func AdminUserUsageReset(repo *users.Repository, usageSvc *usage.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if repo == nil || usageSvc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "usage service not configured"))
			return
		}

		id, err := pathID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body adminUsageResetBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		resource, err := enums.ParseResource(body.Resource)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid resource"))
			return
		}

		if err := requireUser(r, repo, id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := usageSvc.ResetResource(r.Context(), id, resource); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := logg.WithFields(r.Context(), map[string]any{"user_id": id.String(), "resource": resource.String()})
		logg.Info(ctx, "usage counter reset")
		responses.WriteSuccess(w, map[string]any{"user_id": id, "resource": resource, "used": 0})
	}
}

// requireUser confirms the target account exists before a mutation touches it.
func requireUser(r *http.Request, repo *users.Repository, id uuid.UUID) error {
	if _, err := repo.FindByID(r.Context(), id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to load user")
	}
	return nil
}
