package controllers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/leadspark-io/leadspark-backend/pkg/db/models"
	"github.com/leadspark-io/leadspark-backend/pkg/enums"
)

type stubUserFinder struct {
	user *models.User
	err  error
}

func (s *stubUserFinder) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.user, nil
}

func TestMeReturnsProfile(t *testing.T) {
	req, userID := authedRequest(t, http.MethodGet, "/api/v1/me", enums.PlanPro, nil)
	repo := &stubUserFinder{user: &models.User{
		ID:        userID,
		Email:     "pat@acme.io",
		FirstName: "Pat",
		LastName:  "Doe",
		Plan:      enums.PlanPro,
		IsActive:  true,
	}}
	resp := httptest.NewRecorder()

	Me(repo, nil)(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", resp.Code, http.StatusOK)
	}
}

func TestMeDeletedUserIsNotFound(t *testing.T) {
	req, _ := authedRequest(t, http.MethodGet, "/api/v1/me", enums.PlanFree, nil)
	repo := &stubUserFinder{err: gorm.ErrRecordNotFound}
	resp := httptest.NewRecorder()

	Me(repo, nil)(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", resp.Code, http.StatusNotFound)
	}
	if code := decodeErrorCode(t, resp); code != "NOT_FOUND" {
		t.Fatalf("error code = %q, want NOT_FOUND", code)
	}
}

func TestMeRepositoryFailureIsInternal(t *testing.T) {
	req, _ := authedRequest(t, http.MethodGet, "/api/v1/me", enums.PlanFree, nil)
	repo := &stubUserFinder{err: errors.New("connection reset")}
	resp := httptest.NewRecorder()

	Me(repo, nil)(resp, req)

	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want %d", resp.Code, http.StatusInternalServerError)
	}
}
