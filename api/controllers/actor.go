package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/leadspark-io/leadspark-backend/api/middleware"
	"github.com/leadspark-io/leadspark-backend/pkg/enums"
	pkgerrors "github.com/leadspark-io/leadspark-backend/pkg/errors"
)

// actor recovers the authenticated caller's identity and plan from the
// request context seeded by the auth middleware.
func actor(r *http.Request) (uuid.UUID, enums.Plan, error) {
	userID, err := actorID(r)
	if err != nil {
		return uuid.Nil, "", err
	}
	plan, err := enums.ParsePlan(middleware.PlanFromContext(r.Context()))
	if err != nil {
		return uuid.Nil, "", pkgerrors.New(pkgerrors.CodeUnauthorized, "plan missing from token")
	}
	return userID, plan, nil
}

func actorID(r *http.Request) (uuid.UUID, error) {
	raw := middleware.UserIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	userID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid user identity")
	}
	return userID, nil
}
