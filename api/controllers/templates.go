package controllers

import (
	"net/http"

	"github.com/leadspark-io/leadspark-backend/api/responses"
	"github.com/leadspark-io/leadspark-backend/api/validators"
	"github.com/leadspark-io/leadspark-backend/internal/templates"
	"github.com/leadspark-io/leadspark-backend/pkg/enums"
	"github.com/leadspark-io/leadspark-backend/pkg/listing"
	"github.com/leadspark-io/leadspark-backend/pkg/logger"
)

// TemplatesList serves template metadata; bodies stay behind TemplateGet.
func TemplatesList(svc templates.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, plan, err := actor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		query, err := parseTemplatesQuery(r)
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

// TemplateGet serves the full template when the caller's plan unlocks it.
func TemplateGet(svc templates.Service, logg *logger.Logger) http.HandlerFunc {
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

		detail, err := svc.Get(r.Context(), plan, id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, detail)
	}
}

// AdminTemplateCreate adds a template from the back office.
func AdminTemplateCreate(svc templates.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body templates.CreateTemplateInput
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

// AdminTemplateUpdate applies a partial template edit.
func AdminTemplateUpdate(svc templates.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body templates.UpdateTemplateInput
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

// AdminTemplateDelete removes a template.
func AdminTemplateDelete(svc templates.Service, logg *logger.Logger) http.HandlerFunc {
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

func parseTemplatesQuery(r *http.Request) (templates.ListQuery, error) {
	var query templates.ListQuery

	page, err := validators.ParseQueryInt(r, "page", 1, 1, 1_000_000)
	if err != nil {
		return query, err
	}
	perPage, err := validators.ParseQueryInt(r, "per_page", listing.DefaultPerPage, 1, listing.MaxPerPage)
	if err != nil {
		return query, err
	}
	query.Params = listing.Params{Page: page, PerPage: perPage}

	if query.Category, err = validators.ParseQueryString(r, "category"); err != nil {
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

	if query.SortBy, err = validators.ParseQueryString(r, "sort_by", "name", "open_rate", "reply_rate", "created_at"); err != nil {
		return query, err
	}
	order, err := validators.ParseQueryString(r, "order", "asc", "desc")
	if err != nil {
		return query, err
	}
	query.SortDesc = order == "desc"

	return query, nil
}
