// Package service holds the business flows shared by several handlers.
package service

import (
	"net/http"
	"strings"

	argon2 "github.com/mdouchement/simple-argon2"
	"github.com/pkg/errors"
	"github.com/wegavilla/server/internal/apierror"
	"github.com/wegavilla/server/internal/database"
	"github.com/wegavilla/server/internal/model"
	"github.com/wegavilla/server/internal/session"
)

type (
	// A UserService handles account registration and login.
	UserService interface {
		Register(params RegisterParams) (*LoginResult, error)
		Login(params LoginParams) (*LoginResult, error)
	}

	// RegisterParams are used to register a user.
	RegisterParams struct {
		Email    string `json:"email"`
		Name     string `json:"name"`
		Password string `json:"password"`
	}

	// LoginParams are used to login a user.
	LoginParams struct {
		Email    string `json:"email"`
		Username string `json:"username"` // Frontend fallback field for the email.
		Password string `json:"password"`
	}

	// A LoginResult carries everything a client needs after authentication.
	// SessionID is empty for roles without session tracking.
	LoginResult struct {
		User           *model.User
		Token          string
		SessionID      string
		SessionManaged bool
	}

	userService struct {
		db       database.Client
		tokens   *session.TokenManager
		registry *session.Registry
	}
)

// NewUser returns a new UserService.
func NewUser(db database.Client, tokens *session.TokenManager, registry *session.Registry) UserService {
	return &userService{
		db:       db,
		tokens:   tokens,
		registry: registry,
	}
}

// Register creates an account with the default role and logs it in.
func (s *userService) Register(params RegisterParams) (*LoginResult, error) {
	params.Email = strings.ToLower(strings.TrimSpace(params.Email))
	if params.Email == "" {
		return nil, apierror.NewWithCode(http.StatusBadRequest, apierror.CodeInvalidParameters, "No email provided.")
	}
	if params.Password == "" {
		return nil, apierror.NewWithCode(http.StatusBadRequest, apierror.CodeInvalidParameters, "No password provided.")
	}

	if _, err := s.db.FindUserByMail(params.Email); err == nil {
		return nil, apierror.NewWithCode(http.StatusConflict, apierror.CodeInvalidParameters, "This email is already registered.")
	} else if !s.db.IsNotFound(err) {
		return nil, errors.Wrap(err, "could not get access to database")
	}

	user := model.NewUser()
	user.Email = params.Email
	user.Name = params.Name

	var err error
	user.Password, err = argon2.GenerateFromPasswordString(params.Password, argon2.Default)
	if err != nil {
		return nil, errors.Wrap(err, "could not store user password safely")
	}

	if err = s.db.Save(user); err != nil {
		return nil, errors.Wrap(err, "could not persist user")
	}

	return s.authenticated(user)
}

// Login verifies the credentials, mints a token and creates a session for
// privileged roles.
func (s *userService) Login(params LoginParams) (*LoginResult, error) {
	email := params.Email
	if email == "" {
		email = params.Username
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || params.Password == "" {
		return nil, apierror.NewWithCode(http.StatusBadRequest, apierror.CodeInvalidParameters, "Please provide email and password.")
	}

	user, err := s.db.FindUserByMail(email)
	if err != nil {
		if s.db.IsNotFound(err) {
			return nil, invalidCredentials()
		}
		return nil, errors.Wrap(err, "could not get access to database")
	}

	if user.Status != model.StatusActive {
		return nil, apierror.NewWithCode(http.StatusUnauthorized, apierror.CodeInvalidCredentials, "Account is deactivated.")
	}

	if err = argon2.CompareHashAndPasswordString(user.Password, params.Password); err != nil {
		if err == argon2.ErrMismatchedHashAndPassword {
			return nil, invalidCredentials()
		}
		return nil, errors.Wrap(err, "could not check user password")
	}

	return s.authenticated(user)
}

func (s *userService) authenticated(user *model.User) (*LoginResult, error) {
	token, err := s.tokens.Issue(user.Email, user.Roles())
	if err != nil {
		return nil, err
	}

	sid, managed := s.registry.Create(user.ID, user.Email, user.Role)
	return &LoginResult{
		User:           user,
		Token:          token,
		SessionID:      sid,
		SessionManaged: managed,
	}, nil
}

func invalidCredentials() error {
	return apierror.NewWithCode(http.StatusUnauthorized, apierror.CodeInvalidCredentials, "Invalid login credentials.")
}
