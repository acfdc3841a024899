package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/leadspark-io/leadspark-backend/api/responses"
	"github.com/leadspark-io/leadspark-backend/api/validators"
	"github.com/leadspark-io/leadspark-backend/internal/requests"
	"github.com/leadspark-io/leadspark-backend/pkg/db/models"
	"github.com/leadspark-io/leadspark-backend/pkg/enums"
	pkgerrors "github.com/leadspark-io/leadspark-backend/pkg/errors"
	"github.com/leadspark-io/leadspark-backend/pkg/logger"
)

type requestCreateBody struct {
	Kind    string          `json:"kind" validate:"required"`
	Subject string          `json:"subject" validate:"required,max=200"`
	Payload json.RawMessage `json:"payload" validate:"required"`
}

type requestUpdateBody struct {
	Subject *string         `json:"subject,omitempty" validate:"omitempty,max=200"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// RequestsList serves the authenticated user's own requests, newest first.
func RequestsList(svc requests.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "requests service not configured"))
			return
		}

		userID, _, err := actor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filters, err := parseRequestFilters(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		records, err := svc.ListForUser(r.Context(), userID, filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, toRequestDTOs(records))
	}
}

// RequestCreate files a new support ticket or order. The payload shape is
// discriminated by kind and validated before the service sees it.
func RequestCreate(svc requests.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "requests service not configured"))
			return
		}

		userID, plan, err := actor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body requestCreateBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		kind, err := enums.ParseRequestKind(body.Kind)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid request kind"))
			return
		}

		payload, err := validateRequestPayload(kind, body.Payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, err := svc.Create(r.Context(), requests.CreateInput{
			UserID:  userID,
			Plan:    plan,
			Kind:    kind,
			Subject: body.Subject,
			Payload: payload,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, requests.ToDTO(*record))
	}
}

// RequestUpdate edits a still-pending request owned by the caller.
func RequestUpdate(svc requests.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "requests service not configured"))
			return
		}

		userID, _, err := actor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		id, err := pathID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body requestUpdateBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if body.Subject == nil && body.Payload == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "nothing to update"))
			return
		}

		record, err := svc.UpdateOwn(r.Context(), requests.UpdateOwnInput{
			RequestID: id,
			UserID:    userID,
			Subject:   body.Subject,
			Payload:   body.Payload,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, requests.ToDTO(*record))
	}
}

// RequestDelete withdraws a still-pending request owned by the caller.
func RequestDelete(svc requests.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "requests service not configured"))
			return
		}

		userID, _, err := actor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		id, err := pathID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteOwn(r.Context(), id, userID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

// validateRequestPayload decodes the raw payload into the kind's prototype,
// rejecting unknown fields, and runs struct validation on the result. The
// normalized encoding is what gets persisted.
func validateRequestPayload(kind enums.RequestKind, raw json.RawMessage) (json.RawMessage, error) {
	prototype, err := requests.PayloadPrototype(kind)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(raw, prototype); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payload").WithDetails(map[string]any{"error": err.Error()})
	}
	if err := validators.ValidateStruct(prototype); err != nil {
		return nil, err
	}
	normalized, err := json.Marshal(prototype)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to encode payload")
	}
	return normalized, nil
}

func parseRequestFilters(r *http.Request) (requests.ListFilters, error) {
	var filters requests.ListFilters

	rawKind, err := validators.ParseQueryString(r, "kind",
		enums.RequestKindSupportTicket.String(),
		enums.RequestKindProspectOrder.String(),
		enums.RequestKindEmailAccountOrder.String(),
	)
	if err != nil {
		return filters, err
	}
	if rawKind != "" {
		kind := enums.RequestKind(rawKind)
		filters.Kind = &kind
	}

	rawStatus, err := validators.ParseQueryString(r, "status",
		enums.RequestStatusPending.String(),
		enums.RequestStatusCommunication.String(),
		enums.RequestStatusPayment.String(),
		enums.RequestStatusInProgress.String(),
		enums.RequestStatusDone.String(),
		enums.RequestStatusProcessing.String(),
		enums.RequestStatusCompleted.String(),
	)
	if err != nil {
		return filters, err
	}
	if rawStatus != "" {
		status := enums.RequestStatus(rawStatus)
		if filters.Kind != nil && !status.ValidFor(*filters.Kind) {
			return filters, pkgerrors.New(pkgerrors.CodeValidation, "status does not belong to the requested kind")
		}
		filters.Status = &status
	}

	return filters, nil
}

func toRequestDTOs(records []models.Request) []requests.RequestDTO {
	out := make([]requests.RequestDTO, 0, len(records))
	for _, record := range records {
		out = append(out, requests.ToDTO(record))
	}
	return out
}
