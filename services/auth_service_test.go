package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"fittrack/utils"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockMailer struct{ mock.Mock }

func (m *mockMailer) Send(ctx context.Context, to, subject, body string) error {
	return m.Called(to, subject).Error(0)
}

type stubVerifier struct {
	claims *utils.FirebaseClaims
	err    error
}

func (v stubVerifier) Verify(context.Context, string) (*utils.FirebaseClaims, error) {
	return v.claims, v.err
}

const testSecret = "test-secret"

func TestRegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	log, hook := test.NewNullLogger()
	mailer := &mockMailer{}
	mailer.On("Send", "new@example.com", "Welcome to FitTrack").Return(errors.New("ses throttled"))
	svc := NewAuthService(db, testSecret, time.Hour, nil, mailer, log)

	res, err := svc.Register(ctx, " New@Example.com ", "hunter22", "New_User")
	require.NoError(t, err, "a failing welcome email must not fail registration")
	mailer.AssertExpectations(t)
	require.NotNil(t, hook.LastEntry())

	uid, err := svc.Authenticate(ctx, res.AccessToken)
	require.NoError(t, err)
	assert.NotZero(t, uid)

	_, err = svc.Register(ctx, "new@example.com", "hunter22", "")
	assert.ErrorIs(t, err, ErrEmailTaken)
	_, err = svc.Register(ctx, "other@example.com", "hunter22", "new_user")
	assert.ErrorIs(t, err, ErrUsernameTaken)
	_, err = svc.Register(ctx, "third@example.com", "hunter22", "admin")
	assert.ErrorIs(t, err, ErrReservedUsername)

	_, err = svc.Login(ctx, "new@example.com", "hunter22")
	require.NoError(t, err)
	_, err = svc.Login(ctx, "new@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Login(ctx, "nobody@example.com", "hunter22")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestFirebaseLogin_CreatesPasswordlessUser(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	log, _ := test.NewNullLogger()
	verifier := stubVerifier{claims: &utils.FirebaseClaims{Email: "G@example.com"}}
	svc := NewAuthService(db, testSecret, time.Hour, verifier, nil, log)

	first, err := svc.FirebaseLogin(ctx, "id-token")
	require.NoError(t, err)
	require.NotNil(t, first.User)
	assert.Equal(t, "g@example.com", first.User.Email)

	again, err := svc.FirebaseLogin(ctx, "id-token")
	require.NoError(t, err)
	assert.Equal(t, first.User.ID, again.User.ID)

	_, err = svc.Login(ctx, "g@example.com", "anything")
	assert.ErrorIs(t, err, ErrSocialAccount)

	bad := NewAuthService(db, testSecret, time.Hour, stubVerifier{err: errors.New("expired")}, nil, log)
	_, err = bad.FirebaseLogin(ctx, "id-token")
	assert.ErrorIs(t, err, ErrUnauthorized)

	disabled := NewAuthService(db, testSecret, time.Hour, nil, nil, log)
	_, err = disabled.FirebaseLogin(ctx, "id-token")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestSetUsername(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	log, _ := test.NewNullLogger()
	svc := NewAuthService(db, testSecret, time.Hour, nil, nil, log)
	taken := createUser(t, db, "taken", false)
	u := createUser(t, db, "", false)

	user, err := svc.SetUsername(ctx, u.ID, "Fresh_Name")
	require.NoError(t, err)
	assert.Equal(t, "fresh_name", user.Handle())

	_, err = svc.SetUsername(ctx, u.ID, *taken.Username)
	assert.ErrorIs(t, err, ErrUsernameTaken)
	_, err = svc.SetUsername(ctx, u.ID, "no")
	assert.ErrorIs(t, err, ErrInvalidUsername)
	_, err = svc.SetUsername(ctx, 999, "someone")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestAuthenticate_RejectsBadTokens(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	log, _ := test.NewNullLogger()
	svc := NewAuthService(db, testSecret, time.Hour, nil, nil, log)

	_, err := svc.Authenticate(ctx, "garbage")
	assert.ErrorIs(t, err, ErrUnauthorized)

	foreign, err := utils.GenerateJWT([]byte("other-secret"), 1, "x@example.com", time.Hour)
	require.NoError(t, err)
	_, err = svc.Authenticate(ctx, foreign)
	assert.ErrorIs(t, err, ErrUnauthorized)

	ghost, err := utils.GenerateJWT([]byte(testSecret), 4242, "ghost@example.com", time.Hour)
	require.NoError(t, err)
	_, err = svc.Authenticate(ctx, ghost)
	assert.ErrorIs(t, err, ErrUnauthorized)
}
