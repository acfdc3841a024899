package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/leadspark-io/leadspark-backend/internal/users"
	"github.com/leadspark-io/leadspark-backend/internal/webhooks"
	"github.com/leadspark-io/leadspark-backend/pkg/config"
	"github.com/leadspark-io/leadspark-backend/pkg/db/models"
	pkgerrors "github.com/leadspark-io/leadspark-backend/pkg/errors"
	"github.com/leadspark-io/leadspark-backend/pkg/security"
)

// RegisterRequest contains the payload required for signup.
type RegisterRequest struct {
	FirstName   string  `json:"first_name" validate:"required,max=100"`
	LastName    string  `json:"last_name" validate:"required,max=100"`
	Email       string  `json:"email" validate:"required,email"`
	Password    string  `json:"password" validate:"required,min=8"`
	CompanyName *string `json:"company_name,omitempty" validate:"omitempty,max=200"`
	AcceptTOS   bool    `json:"accept_tos"`
}

// RegisterService handles signup.
type RegisterService interface {
	Register(ctx context.Context, req RegisterRequest) (*users.UserDTO, error)
}

type userCreator interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, dto users.CreateUserDTO) (*models.User, error)
}

type webhookFirer interface {
	Fire(event string, data any)
}

// RegisterServiceParams packages the dependencies for the signup flow.
type RegisterServiceParams struct {
	UserRepo       userCreator
	Webhooks       webhookFirer
	PasswordConfig config.PasswordConfig
}

type registerService struct {
	users       userCreator
	webhooks    webhookFirer
	passwordCfg config.PasswordConfig
}

// NewRegisterService builds a registration service with the provided dependencies.
func NewRegisterService(params RegisterServiceParams) (RegisterService, error) {
	if params.UserRepo == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	if params.Webhooks == nil {
		return nil, fmt.Errorf("webhook dispatcher is required")
	}
	return &registerService{
		users:       params.UserRepo,
		webhooks:    params.Webhooks,
		passwordCfg: params.PasswordConfig,
	}, nil
}

// Register creates a new free-plan account and fires the CRM intake hook.
// The hook is fire-and-forget: the account exists whether or not the CRM
// heard about it.
func (s *registerService) Register(ctx context.Context, req RegisterRequest) (*users.UserDTO, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}
	if !req.AcceptTOS {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "accept_tos must be true")
	}

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check user email")
	}

	passwordHash, err := security.HashPassword(req.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	user, err := s.users.Create(ctx, users.CreateUserDTO{
		Email:        email,
		PasswordHash: passwordHash,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		CompanyName:  req.CompanyName,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create user")
	}

	s.webhooks.Fire(webhooks.EventCRMFlow, map[string]any{
		"user_id":    user.ID,
		"email":      user.Email,
		"first_name": user.FirstName,
		"last_name":  user.LastName,
		"plan":       user.Plan,
	})

	return users.FromModel(user), nil
}
