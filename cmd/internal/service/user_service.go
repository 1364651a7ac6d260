package service

import (
	"clientdesk/cmd/internal/auth"
	"clientdesk/cmd/internal/domain/entity"
	cognitoclient "clientdesk/cmd/internal/integration/aws/cognito"
	"clientdesk/cmd/internal/utils"
	"clientdesk/cmd/internal/utils/apierror"
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/aws/smithy-go"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/gommon/log"
)

type UserRepository interface {
	FindByID(ctx context.Context, id string) (*entity.User, error)
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Save(ctx context.Context, user *entity.User) error
}

type CreateUserRequest struct {
	FullName string `json:"full_name" validate:"omitempty,min=2,max=120"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=64,hasspecial,hasdigit,hasupper,haslower"`
}

type UserLoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=64"`
}

type ConfirmSignupRequest struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code" validate:"required,min=1,max=6"`
}

type LogoutRequest struct {
	AccessToken string `json:"access_token"`
}

type ProfileRequest struct {
	FullName string `json:"full_name" form:"full_name" validate:"omitempty,max=120"`
	Phone    string `json:"phone" form:"phone" validate:"omitempty,max=32"`
	Address  string `json:"address" form:"address" validate:"omitempty,max=500"`
	City     string `json:"city" form:"city" validate:"omitempty,max=100"`
}

type ProfileResponse struct {
	ID            string  `json:"id"`
	Email         string  `json:"email"`
	FullName      *string `json:"full_name"`
	Phone         *string `json:"phone"`
	Address       *string `json:"address"`
	City          *string `json:"city"`
	EmailVerified bool    `json:"email_verified"`
	CreatedAt     string  `json:"created_at"`
	UpdatedAt     string  `json:"updated_at"`
}

type UserLoginResponse struct {
	AccessToken string `json:"access_token"`
	IDToken     string `json:"id_token"`
	ExpiresIn   int32  `json:"expires_in"`
}

type DefaultUserService struct {
	UserRepo    UserRepository
	Validate    *validator.Validate
	Cognito     cognitoclient.CognitoInterface
	Revocations auth.RevocationStore
}

// NewUserService wires the account operations. cogClient may be nil when no
// user pool is configured, which disables signup and login; revocations may
// be nil, which makes logout a no-op on the server.
func NewUserService(userRepo UserRepository, validate *validator.Validate, cogClient cognitoclient.CognitoInterface, revocations auth.RevocationStore) *DefaultUserService {
	return &DefaultUserService{UserRepo: userRepo, Validate: validate, Cognito: cogClient, Revocations: revocations}
}

var errNoIdentityProvider = apierror.NewSimple(http.StatusServiceUnavailable, "Sign in is not available")

// CreateUser creates a new user on Cognito (as well as in our database),
// and sends a verification code to the user's email address.
func (u *DefaultUserService) CreateUser(ctx context.Context, req *CreateUserRequest) apierror.ErrorResponse {
	if u.Cognito == nil {
		return errNoIdentityProvider
	}

	utils.Sanitize(req)
	if err := u.Validate.Struct(req); err != nil {
		return apierror.FromValidationError(err)
	}

	found, err := u.UserRepo.ExistsByEmail(ctx, req.Email)
	if err != nil {
		log.Errorf("failed to check if user already exists: %v", err)
		return apierror.InternalServerError
	}

	if found {
		return apierror.UserAlreadyExistsError
	}

	cogUser := &cognitoclient.User{Email: req.Email, Password: req.Password}
	sub, apierr, revert := handleUserSignup(u.Cognito, cogUser)
	if apierr != nil {
		return apierr
	}

	user := &entity.User{
		ID:            sub,
		Email:         req.Email,
		FullName:      utils.NullableString(req.FullName),
		EmailVerified: false,
	}

	err = u.UserRepo.Save(ctx, user)
	if err != nil {
		revert()
		log.Errorf("failed to create user: %v", err)
		return apierror.InternalServerError
	}
	return nil
}

func (u *DefaultUserService) Login(ctx context.Context, req *UserLoginRequest) (*UserLoginResponse, apierror.ErrorResponse) {
	if u.Cognito == nil {
		return nil, errNoIdentityProvider
	}

	utils.Sanitize(req)
	if err := u.Validate.Struct(req); err != nil {
		return nil, apierror.FromValidationError(err)
	}

	user, err := u.UserRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		log.Errorf("failed to fetch user from database: %v", err)
		return nil, apierror.InternalServerError
	}

	if user == nil {
		return nil, apierror.IDPUserNotFoundError
	}

	credentials := &cognitoclient.UserLogin{
		Email:    req.Email,
		Password: req.Password,
	}

	tokens, apierr := handleUserSignin(u.Cognito, credentials)
	if apierr != nil {
		return nil, apierr
	}
	return &UserLoginResponse{AccessToken: tokens.AccessToken, IDToken: tokens.IDToken, ExpiresIn: tokens.ExpiresIn}, nil
}

func (u *DefaultUserService) ConfirmSignup(ctx context.Context, req *ConfirmSignupRequest) apierror.ErrorResponse {
	if u.Cognito == nil {
		return errNoIdentityProvider
	}

	utils.Sanitize(req)
	if err := u.Validate.Struct(req); err != nil {
		return apierror.FromValidationError(err)
	}

	user, err := u.UserRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		log.Errorf("failed to fetch user from database: %v", err)
		return apierror.InternalServerError
	}

	if user == nil {
		return apierror.IDPUserNotFoundError
	}

	if user.EmailVerified {
		return apierror.UserAlreadyConfirmedError
	}

	confirms := &cognitoclient.UserConfirmation{
		Email: req.Email,
		Code:  req.Code,
	}

	apierr := handleSignupConfirmation(u.Cognito, confirms)
	if apierr != nil {
		return apierr
	}

	user.EmailVerified = true
	err = u.UserRepo.Save(ctx, user)
	if err != nil {
		log.Errorf("failed to update user (%s) verified status: %v", user.ID, err)
	}
	return nil
}

// Logout revokes the presented ID token until it expires and, when the
// access token is supplied, signs the user out of every device.
func (u *DefaultUserService) Logout(ctx context.Context, sess auth.Session, req *LogoutRequest) apierror.ErrorResponse {
	if u.Revocations != nil && sess.TokenID != "" {
		ttl := time.Until(sess.ExpiresAt)
		if err := u.Revocations.Revoke(ctx, sess.TokenID, ttl); err != nil {
			log.Errorf("failed to revoke token %s: %v", sess.TokenID, err)
			return apierror.InternalServerError
		}
	}

	if u.Cognito != nil && req != nil && req.AccessToken != "" {
		if err := u.Cognito.GlobalSignOut(req.AccessToken); err != nil {
			log.Warnf("global sign out failed for user (%s): %v", sess.UserID, err)
		}
	}
	return nil
}

// GetProfile returns the caller's profile, creating it from the token claims
// the first time the caller is seen.
func (u *DefaultUserService) GetProfile(ctx context.Context, sess auth.Session) (*ProfileResponse, apierror.ErrorResponse) {
	user, apierr := u.ensureUser(ctx, sess)
	if apierr != nil {
		return nil, apierr
	}
	return toProfileResponse(user), nil
}

func (u *DefaultUserService) UpdateProfile(ctx context.Context, sess auth.Session, req *ProfileRequest) (*Mutation[*ProfileResponse], apierror.ErrorResponse) {
	utils.Sanitize(req)
	if err := u.Validate.Struct(req); err != nil {
		return nil, apierror.FromValidationError(err)
	}

	user, apierr := u.ensureUser(ctx, sess)
	if apierr != nil {
		return nil, apierr
	}

	user.FullName = utils.NullableString(req.FullName)
	user.Phone = utils.NullableString(req.Phone)
	user.Address = utils.NullableString(req.Address)
	user.City = utils.NullableString(req.City)

	if err := u.UserRepo.Save(ctx, user); err != nil {
		log.Errorf("failed to update profile of user (%s): %v", user.ID, err)
		return nil, apierror.NewOperationFailed("Error updating profile")
	}
	return &Mutation[*ProfileResponse]{Message: "Profile updated successfully", Record: toProfileResponse(user)}, nil
}

func (u *DefaultUserService) ensureUser(ctx context.Context, sess auth.Session) (*entity.User, apierror.ErrorResponse) {
	user, err := u.UserRepo.FindByID(ctx, sess.UserID)
	if err != nil {
		log.Errorf("failed to find user (%s): %v", sess.UserID, err)
		return nil, apierror.NewOperationFailed("Error fetching profile")
	}
	if user != nil {
		return user, nil
	}

	user = &entity.User{ID: sess.UserID, Email: sess.Email, EmailVerified: true}
	if err := u.UserRepo.Save(ctx, user); err != nil {
		log.Errorf("failed to create profile for user (%s): %v", sess.UserID, err)
		return nil, apierror.NewOperationFailed("Error fetching profile")
	}
	return user, nil
}

func handleUserSignup(cogClient cognitoclient.CognitoInterface, req *cognitoclient.User) (string, apierror.ErrorResponse, func()) {
	revert := func() {
		_ = cogClient.AdminDeleteUser(req.Email)
	}

	sub, err := cogClient.SignUp(req)
	if err == nil {
		return sub, nil, revert
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "InvalidPasswordException":
			return "", apierror.IDPInvalidPasswordError, revert
		case "UsernameExistsException":
			return "", apierror.IDPExistingEmailError, revert
		default:
			log.Errorf("signup failed for user (%s): %s - %s", req.Email, apiErr.ErrorCode(), apiErr.ErrorMessage())
			return "", apierror.InternalServerError, revert
		}
	}

	log.Errorf("failed to signup user (%s): %v", req.Email, err)
	return "", apierror.InternalServerError, revert
}

func handleUserSignin(cogClient cognitoclient.CognitoInterface, req *cognitoclient.UserLogin) (*cognitoclient.AuthCreate, apierror.ErrorResponse) {
	tokens, err := cogClient.SignIn(req)
	if err == nil {
		return tokens, nil
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "UserNotFoundException":
			return nil, apierror.IDPUserNotFoundError
		case "UserNotConfirmedException":
			return nil, apierror.IDPUserNotConfirmedError
		case "NotAuthorizedException":
			return nil, apierror.IDPCredentialsMismatchError
		default:
			log.Errorf("signin failed for user (%s): %s - %s", req.Email, apiErr.ErrorCode(), apiErr.ErrorMessage())
			return nil, apierror.InternalServerError
		}
	}

	log.Errorf("failed to signin user (%s): %v", req.Email, err)
	return nil, apierror.InternalServerError
}

func handleSignupConfirmation(cogClient cognitoclient.CognitoInterface, req *cognitoclient.UserConfirmation) apierror.ErrorResponse {
	err := cogClient.ConfirmAccount(req)
	if err == nil {
		return nil
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "CodeMismatchException":
			return apierror.IDPConfirmCodeMismatchError
		case "ExpiredCodeException":
			return apierror.IDPConfirmCodeExpiredError
		case "UserNotFoundException":
			return apierror.IDPUserNotFoundError
		default:
			log.Errorf("confirmation failed for user (%s): %s - %s", req.Email, apiErr.ErrorCode(), apiErr.ErrorMessage())
			return apierror.InternalServerError
		}
	}

	log.Errorf("failed to confirm user (%s): %v", req.Email, err)
	return apierror.InternalServerError
}

func toProfileResponse(user *entity.User) *ProfileResponse {
	return &ProfileResponse{
		ID:            user.ID,
		Email:         user.Email,
		FullName:      user.FullName,
		Phone:         user.Phone,
		Address:       user.Address,
		City:          user.City,
		EmailVerified: user.EmailVerified,
		CreatedAt:     utils.FormatTime(user.CreatedAt),
		UpdatedAt:     utils.FormatTime(user.UpdatedAt),
	}
}
