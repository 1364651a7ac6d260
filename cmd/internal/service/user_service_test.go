package service

import (
	"clientdesk/cmd/internal/domain/database/repository"
	cognitoclient "clientdesk/cmd/internal/integration/aws/cognito"
	"clientdesk/cmd/internal/utils/apierror"
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCognito struct {
	signUpErr  error
	signInErr  error
	confirmErr error
	deleted    []string
	signedOut  []string
}

func (f *fakeCognito) SignUp(*cognitoclient.User) (string, error) {
	if f.signUpErr != nil {
		return "", f.signUpErr
	}
	return "4d1c9a7e-sub", nil
}

func (f *fakeCognito) SignIn(*cognitoclient.UserLogin) (*cognitoclient.AuthCreate, error) {
	if f.signInErr != nil {
		return nil, f.signInErr
	}
	return &cognitoclient.AuthCreate{AccessToken: "access", IDToken: "id", ExpiresIn: 3600}, nil
}

func (f *fakeCognito) ConfirmAccount(*cognitoclient.UserConfirmation) error {
	return f.confirmErr
}

func (f *fakeCognito) AdminDeleteUser(email string) error {
	f.deleted = append(f.deleted, email)
	return nil
}

func (f *fakeCognito) GlobalSignOut(accessToken string) error {
	f.signedOut = append(f.signedOut, accessToken)
	return nil
}

type memoryRevocations struct {
	ttl map[string]time.Duration
}

func (m *memoryRevocations) Revoke(_ context.Context, tokenID string, ttl time.Duration) error {
	m.ttl[tokenID] = ttl
	return nil
}

func (m *memoryRevocations) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	_, ok := m.ttl[tokenID]
	return ok, nil
}

func (m *memoryRevocations) Close() error { return nil }

func newUserService(t *testing.T, cog *fakeCognito) (*DefaultUserService, *memoryRevocations) {
	t.Helper()
	revs := &memoryRevocations{ttl: map[string]time.Duration{}}
	return NewUserService(repository.NewUserRepository(newTestDB(t)), newValidator(), cog, revs), revs
}

var signup = &CreateUserRequest{FullName: "Staff Member", Email: "staff@example.com", Password: "Sup3r$ecret"}

func TestSignupConfirmLogin(t *testing.T) {
	svc, _ := newUserService(t, &fakeCognito{})
	ctx := context.Background()

	require.Nil(t, svc.CreateUser(ctx, signup))

	apierr := svc.CreateUser(ctx, signup)
	require.NotNil(t, apierr)
	assert.Equal(t, apierror.UserAlreadyExistsError, apierr)

	require.Nil(t, svc.ConfirmSignup(ctx, &ConfirmSignupRequest{Email: "staff@example.com", Code: "123456"}))
	assert.Equal(t, apierror.UserAlreadyConfirmedError, svc.ConfirmSignup(ctx, &ConfirmSignupRequest{Email: "staff@example.com", Code: "123456"}))

	tokens, apierr := svc.Login(ctx, &UserLoginRequest{Email: "staff@example.com", Password: "Sup3r$ecret"})
	require.Nil(t, apierr)
	assert.Equal(t, "id", tokens.IDToken)
	assert.Equal(t, int32(3600), tokens.ExpiresIn)
}

func TestSignupMapsProviderErrors(t *testing.T) {
	cog := &fakeCognito{signUpErr: &smithy.GenericAPIError{Code: "InvalidPasswordException", Message: "too weak"}}
	svc, _ := newUserService(t, cog)

	apierr := svc.CreateUser(context.Background(), signup)
	assert.Equal(t, apierror.IDPInvalidPasswordError, apierr)
}

func TestLoginMapsProviderErrors(t *testing.T) {
	cog := &fakeCognito{}
	svc, _ := newUserService(t, cog)
	ctx := context.Background()
	require.Nil(t, svc.CreateUser(ctx, signup))

	cog.signInErr = &smithy.GenericAPIError{Code: "NotAuthorizedException"}
	_, apierr := svc.Login(ctx, &UserLoginRequest{Email: "staff@example.com", Password: "Wr0ng$pass"})
	assert.Equal(t, apierror.IDPCredentialsMismatchError, apierr)

	_, apierr = svc.Login(ctx, &UserLoginRequest{Email: "nobody@example.com", Password: "Wr0ng$pass"})
	assert.Equal(t, apierror.IDPUserNotFoundError, apierr)
}

func TestWithoutIdentityProvider(t *testing.T) {
	svc := NewUserService(repository.NewUserRepository(newTestDB(t)), newValidator(), nil, nil)

	apierr := svc.CreateUser(context.Background(), signup)
	require.NotNil(t, apierr)
	assert.Equal(t, http.StatusServiceUnavailable, apierr.Code())
}

func TestLogoutRevokesToken(t *testing.T) {
	cog := &fakeCognito{}
	svc, revs := newUserService(t, cog)

	sess := owner
	sess.TokenID = "jti-1"
	sess.ExpiresAt = time.Now().Add(time.Hour)

	require.Nil(t, svc.Logout(context.Background(), sess, &LogoutRequest{AccessToken: "access"}))
	assert.Greater(t, revs.ttl["jti-1"], 59*time.Minute)
	assert.Equal(t, []string{"access"}, cog.signedOut)
}

func TestProfileIsCreatedThenUpdated(t *testing.T) {
	svc, _ := newUserService(t, &fakeCognito{})
	ctx := context.Background()

	profile, apierr := svc.GetProfile(ctx, owner)
	require.Nil(t, apierr)
	assert.Equal(t, owner.UserID, profile.ID)
	assert.Equal(t, owner.Email, profile.Email)
	assert.Nil(t, profile.FullName)

	updated, apierr := svc.UpdateProfile(ctx, owner, &ProfileRequest{FullName: "Staff Member", City: "Pokhara"})
	require.Nil(t, apierr)
	assert.Equal(t, strPtr("Staff Member"), updated.Record.FullName)

	profile, apierr = svc.GetProfile(ctx, owner)
	require.Nil(t, apierr)
	assert.Equal(t, strPtr("Pokhara"), profile.City)
	assert.Nil(t, profile.Phone)
}
