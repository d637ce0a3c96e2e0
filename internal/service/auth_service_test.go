package service

import (
	"context"
	"testing"
	"time"

	"praktikmaal_backend/internal/config"
	"praktikmaal_backend/internal/model"
	"praktikmaal_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fakeUsers struct {
	users  map[uint]*model.User
	nextID uint
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{users: make(map[uint]*model.User)}
}

func (f *fakeUsers) Create(ctx context.Context, user *model.User) error {
	f.nextID++
	user.ID = f.nextID
	f.users[user.ID] = user
	return nil
}

func (f *fakeUsers) FindByID(ctx context.Context, id uint) (*model.User, error) {
	return f.users[id], nil
}

func (f *fakeUsers) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUsers) Update(ctx context.Context, user *model.User) error {
	f.users[user.ID] = user
	return nil
}

func (f *fakeUsers) UpdatePassword(ctx context.Context, userID uint, hashed string) error {
	user, ok := f.users[userID]
	if !ok {
		return util.ErrUserNotFound
	}
	user.Password = hashed
	return nil
}

func newAuthFixture(t *testing.T) (*AuthService, *SessionGate, *fakeUsers) {
	t.Helper()
	gate := runGate(t, nil, nil)
	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret-test-secret-test-secret"
	cfg.JWT.ExpireTime = time.Hour

	users := newFakeUsers()
	return NewAuthService(users, nil, gate, cfg), gate, users
}

func seedUser(t *testing.T, users *fakeUsers, email, password string) *model.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	user := &model.User{Email: email, Password: string(hash), Role: model.Apprentice}
	require.NoError(t, users.Create(context.Background(), user))
	return user
}

func TestChangePasswordEndsRecovery(t *testing.T) {
	auth, gate, users := newAuthFixture(t)
	user := seedUser(t, users, "laerling@praktik.dk", "gammel-kode-123")

	publishAndWait(t, gate, user.ID, StatePasswordRecovery, EventRecoveryInitiated)

	// Logging in with valid credentials does not leave recovery.
	_, err := auth.Login(context.Background(), LoginRequest{
		Email:    "laerling@praktik.dk",
		Password: "gammel-kode-123",
	})
	require.NoError(t, err)
	publishAndWait(t, gate, user.ID, StatePasswordRecovery)

	// Completing the password change does.
	require.NoError(t, auth.ChangePassword(context.Background(), user.ID, "gammel-kode-123", "ny-kode-456"))
	publishAndWait(t, gate, user.ID, StateAuthenticated)

	stored, err := users.FindByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("ny-kode-456")))
}

func TestChangePasswordWrongCurrent(t *testing.T) {
	auth, gate, users := newAuthFixture(t)
	user := seedUser(t, users, "laerling@praktik.dk", "gammel-kode-123")

	publishAndWait(t, gate, user.ID, StatePasswordRecovery, EventRecoveryInitiated)

	err := auth.ChangePassword(context.Background(), user.ID, "forkert-kode", "ny-kode-456")
	assert.ErrorIs(t, err, util.ErrInvalidCredentials)
	assert.Equal(t, StatePasswordRecovery, gate.State(user.ID))
}

func TestChangePasswordUnknownUser(t *testing.T) {
	auth, _, _ := newAuthFixture(t)

	err := auth.ChangePassword(context.Background(), 42, "et-eller-andet", "ny-kode-456")
	assert.ErrorIs(t, err, util.ErrUserNotFound)
}
