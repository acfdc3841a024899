package auth

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/leadspark-io/leadspark-backend/internal/users"
	"github.com/leadspark-io/leadspark-backend/internal/webhooks"
	"github.com/leadspark-io/leadspark-backend/pkg/config"
	"github.com/leadspark-io/leadspark-backend/pkg/db/models"
	"github.com/leadspark-io/leadspark-backend/pkg/enums"
	pkgerrors "github.com/leadspark-io/leadspark-backend/pkg/errors"
	"github.com/leadspark-io/leadspark-backend/pkg/security"
)

type stubUserCreator struct {
	existing map[string]*models.User
	created  []users.CreateUserDTO
}

func (s *stubUserCreator) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if user, ok := s.existing[email]; ok {
		return user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubUserCreator) Create(ctx context.Context, dto users.CreateUserDTO) (*models.User, error) {
	s.created = append(s.created, dto)
	user := dto.ToModel()
	user.ID = uuid.New()
	return user, nil
}

type stubWebhooks struct {
	events []string
	data   []any
}

func (s *stubWebhooks) Fire(event string, data any) {
	s.events = append(s.events, event)
	s.data = append(s.data, data)
}

func newRegisterService(t *testing.T, repo *stubUserCreator, hooks *stubWebhooks) RegisterService {
	t.Helper()
	svc, err := NewRegisterService(RegisterServiceParams{
		UserRepo:       repo,
		Webhooks:       hooks,
		PasswordConfig: config.PasswordConfig{},
	})
	require.NoError(t, err)
	return svc
}

func TestRegisterCreatesFreePlanUser(t *testing.T) {
	repo := &stubUserCreator{existing: map[string]*models.User{}}
	hooks := &stubWebhooks{}
	svc := newRegisterService(t, repo, hooks)

	dto, err := svc.Register(context.Background(), RegisterRequest{
		FirstName: "Dana",
		LastName:  "Reeves",
		Email:     "Dana@Acme.IO",
		Password:  "hunter2hunter2",
		AcceptTOS: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "dana@acme.io", dto.Email)
	assert.Equal(t, enums.PlanFree, dto.Plan)
	assert.True(t, dto.IsActive)

	require.Len(t, repo.created, 1)
	verified, err := security.VerifyPassword("hunter2hunter2", repo.created[0].PasswordHash)
	require.NoError(t, err)
	assert.True(t, verified)
}

func TestRegisterFiresCRMHook(t *testing.T) {
	repo := &stubUserCreator{existing: map[string]*models.User{}}
	hooks := &stubWebhooks{}
	svc := newRegisterService(t, repo, hooks)

	_, err := svc.Register(context.Background(), RegisterRequest{
		FirstName: "Dana",
		LastName:  "Reeves",
		Email:     "dana@acme.io",
		Password:  "hunter2hunter2",
		AcceptTOS: true,
	})
	require.NoError(t, err)
	require.Len(t, hooks.events, 1)
	assert.Equal(t, webhooks.EventCRMFlow, hooks.events[0])
}

func TestRegisterConflictOnExistingEmail(t *testing.T) {
	repo := &stubUserCreator{existing: map[string]*models.User{
		"dana@acme.io": {ID: uuid.New(), Email: "dana@acme.io"},
	}}
	hooks := &stubWebhooks{}
	svc := newRegisterService(t, repo, hooks)

	_, err := svc.Register(context.Background(), RegisterRequest{
		FirstName: "Dana",
		LastName:  "Reeves",
		Email:     "dana@acme.io",
		Password:  "hunter2hunter2",
		AcceptTOS: true,
	})
	assertCode(t, err, pkgerrors.CodeConflict)
	assert.Empty(t, hooks.events)
}

func TestRegisterRequiresTOS(t *testing.T) {
	svc := newRegisterService(t, &stubUserCreator{existing: map[string]*models.User{}}, &stubWebhooks{})

	_, err := svc.Register(context.Background(), RegisterRequest{
		FirstName: "Dana",
		LastName:  "Reeves",
		Email:     "dana@acme.io",
		Password:  "hunter2hunter2",
	})
	assertCode(t, err, pkgerrors.CodeValidation)
}
