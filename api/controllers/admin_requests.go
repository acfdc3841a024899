package controllers

import (
	"net/http"

	"github.com/leadspark-io/leadspark-backend/api/responses"
	"github.com/leadspark-io/leadspark-backend/api/validators"
	"github.com/leadspark-io/leadspark-backend/internal/requests"
	"github.com/leadspark-io/leadspark-backend/pkg/enums"
	pkgerrors "github.com/leadspark-io/leadspark-backend/pkg/errors"
	"github.com/leadspark-io/leadspark-backend/pkg/logger"
)

type adminTransitionBody struct {
	Status string `json:"status" validate:"required"`
}

type adminDeliveryBody struct {
	DeliveryLink string `json:"delivery_link" validate:"required,url,max=2000"`
}

// AdminRequestsList serves the full fulfillment queue across all users.
func AdminRequestsList(svc requests.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "requests service not configured"))
			return
		}

		filters, err := parseRequestFilters(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		records, err := svc.ListAll(r.Context(), filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, toRequestDTOs(records))
	}
}

// AdminRequestTransition moves a request to a new pipeline stage. The
// service enforces per-kind pipeline rules and stamps the lifecycle
// timestamps.
func AdminRequestTransition(svc requests.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "requests service not configured"))
			return
		}

		id, err := pathID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body adminTransitionBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, err := svc.Transition(r.Context(), requests.TransitionInput{
			RequestID: id,
			Status:    enums.RequestStatus(body.Status),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := logg.WithFields(r.Context(), map[string]any{"request_id": id.String(), "status": record.Status.String()})
		logg.Info(ctx, "request transitioned")
		responses.WriteSuccess(w, requests.ToDTO(*record))
	}
}

// AdminRequestDelivery attaches the delivery artifact link to a request.
func AdminRequestDelivery(svc requests.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "requests service not configured"))
			return
		}

		id, err := pathID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body adminDeliveryBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, err := svc.SetDelivery(r.Context(), requests.DeliveryInput{
			RequestID:    id,
			DeliveryLink: body.DeliveryLink,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, requests.ToDTO(*record))
	}
}
