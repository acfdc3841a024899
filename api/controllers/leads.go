package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/leadspark-io/leadspark-backend/api/responses"
	"github.com/leadspark-io/leadspark-backend/api/validators"
	"github.com/leadspark-io/leadspark-backend/internal/leads"
	"github.com/leadspark-io/leadspark-backend/pkg/enums"
	pkgerrors "github.com/leadspark-io/leadspark-backend/pkg/errors"
	"github.com/leadspark-io/leadspark-backend/pkg/listing"
	"github.com/leadspark-io/leadspark-backend/pkg/logger"
)

// LeadsList serves the filtered, sorted, paginated lead catalog.
func LeadsList(svc leads.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, plan, err := actor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		query, err := parseLeadsQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		page, err := svc.List(r.Context(), plan, query)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}

// LeadDownload resolves the dataset URL behind the tier gate.
func LeadDownload(svc leads.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, plan, err := actor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		id, err := pathID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		url, err := svc.Download(r.Context(), plan, id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"download_url": url})
	}
}

// AdminLeadCreate adds a catalog entry from the back office.
func AdminLeadCreate(svc leads.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body leads.CreateLeadInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, err := svc.Create(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, record)
	}
}

// AdminLeadUpdate applies a partial catalog edit.
func AdminLeadUpdate(svc leads.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body leads.UpdateLeadInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, err := svc.Update(r.Context(), id, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, record)
	}
}

// AdminLeadDelete removes a catalog entry.
func AdminLeadDelete(svc leads.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

func parseLeadsQuery(r *http.Request) (leads.ListQuery, error) {
	var query leads.ListQuery

	page, err := validators.ParseQueryInt(r, "page", 1, 1, 1_000_000)
	if err != nil {
		return query, err
	}
	perPage, err := validators.ParseQueryInt(r, "per_page", listing.DefaultPerPage, 1, listing.MaxPerPage)
	if err != nil {
		return query, err
	}
	query.Params = listing.Params{Page: page, PerPage: perPage}

	if query.Industry, err = validators.ParseQueryString(r, "industry"); err != nil {
		return query, err
	}
	if query.Location, err = validators.ParseQueryString(r, "location"); err != nil {
		return query, err
	}
	if query.Tag, err = validators.ParseQueryString(r, "tag"); err != nil {
		return query, err
	}

	rawTier, err := validators.ParseQueryString(r, "tier", "free", "pro", "premium")
	if err != nil {
		return query, err
	}
	if rawTier != "" {
		tier := enums.AccessTier(rawTier)
		query.Tier = &tier
	}

	if query.SortBy, err = validators.ParseQueryString(r, "sort_by", "name", "lead_count", "created_at"); err != nil {
		return query, err
	}
	order, err := validators.ParseQueryString(r, "order", "asc", "desc")
	if err != nil {
		return query, err
	}
	query.SortDesc = order == "desc"

	return query, nil
}

func pathID(r *http.Request) (uuid.UUID, error) {
	raw := chi.URLParam(r, "id")
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid id in path")
	}
	return id, nil
}
