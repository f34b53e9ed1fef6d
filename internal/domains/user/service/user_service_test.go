package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"bookreview-backend/internal/domains/user/model"
	"bookreview-backend/internal/domains/user/service"
	"bookreview-backend/internal/shared"
	"bookreview-backend/internal/testutil"
	"bookreview-backend/pkg/jwt"
)

func newService(t *testing.T) (service.UserService, *testutil.UserStore, *jwt.Manager) {
	t.Helper()
	store := testutil.NewUserStore()
	manager := jwt.NewManager("test-secret", time.Hour)
	return service.NewUserService(store, manager), store, manager
}

func requireKind(t *testing.T, err error, kind shared.ErrorKind, msg string) {
	t.Helper()
	appErr, ok := shared.AsAppError(err)
	require.True(t, ok, "expected AppError, got %v", err)
	assert.Equal(t, kind, appErr.Kind)
	assert.Equal(t, msg, appErr.Message)
}

func TestRegister_IssuesToken(t *testing.T) {
	svc, store, manager := newService(t)
	ctx := context.Background()

	resp, err := svc.Register(ctx, model.RegisterRequest{Name: " Ada ", Email: "Ada@Example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "Ada", resp.Name)
	assert.Equal(t, "ada@example.com", resp.Email)
	require.NotEmpty(t, resp.Token)

	claims, err := manager.ValidateAccessToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.ID.Hex(), claims.UserID)

	stored, err := store.GetByID(ctx, resp.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", stored.PasswordHash)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, model.RegisterRequest{Name: "Ada", Email: "ada@example.com", Password: "secret1"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, model.RegisterRequest{Name: "Other", Email: "ADA@example.com", Password: "secret2"})
	requireKind(t, err, shared.KindValidation, "User already exists")
}

func TestRegister_InvalidInput(t *testing.T) {
	svc, store, _ := newService(t)

	_, err := svc.Register(context.Background(), model.RegisterRequest{Name: "Ada", Email: "nope", Password: "secret1"})
	requireKind(t, err, shared.KindValidation, "invalid email format")

	_, err = store.FindByEmail(context.Background(), "nope")
	assert.ErrorIs(t, err, model.ErrUserNotFound)
}

func TestRegister_StoreFailureIsInternal(t *testing.T) {
	svc, store, _ := newService(t)
	store.Fail = true

	_, err := svc.Register(context.Background(), model.RegisterRequest{Name: "Ada", Email: "ada@example.com", Password: "secret1"})
	requireKind(t, err, shared.KindInternal, shared.ServerErrorMessage)
}

func TestLogin(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()

	registered, err := svc.Register(ctx, model.RegisterRequest{Name: "Ada", Email: "ada@example.com", Password: "secret1"})
	require.NoError(t, err)

	t.Run("correct password", func(t *testing.T) {
		resp, err := svc.Login(ctx, model.LoginRequest{Email: " ADA@example.com", Password: "secret1"})
		require.NoError(t, err)
		assert.Equal(t, registered.ID, resp.ID)
		assert.NotEmpty(t, resp.Token)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(ctx, model.LoginRequest{Email: "ada@example.com", Password: "wrong"})
		requireKind(t, err, shared.KindAuthentication, "Invalid email or password")
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := svc.Login(ctx, model.LoginRequest{Email: "bob@example.com", Password: "secret1"})
		requireKind(t, err, shared.KindAuthentication, "Invalid email or password")
	})
}

func TestGetProfile(t *testing.T) {
	svc, store, _ := newService(t)
	ctx := context.Background()

	u := store.Add("Ada", "ada@example.com")
	profile, err := svc.GetProfile(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ada", profile.Name)

	_, err = svc.GetProfile(ctx, primitive.NewObjectID())
	requireKind(t, err, shared.KindNotFound, "User not found")
}
