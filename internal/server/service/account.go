package service

import (
	"net/http"
	"strings"

	argon2 "github.com/mdouchement/simple-argon2"
	"github.com/pkg/errors"
	"github.com/wegavilla/server/internal/apierror"
	"github.com/wegavilla/server/internal/database"
	"github.com/wegavilla/server/internal/model"
)

type (
	// An AccountService handles administrative account management and
	// profile self-service.
	AccountService interface {
		Create(role string, params CreateParams) (*model.User, error)
		Update(user *model.User, params UpdateParams) (*model.User, error)
		ChangePassword(user *model.User, params ChangePasswordParams) error
	}

	// CreateParams are used to create an account with a chosen role.
	CreateParams struct {
		Email    string `json:"email"`
		Name     string `json:"name"`
		Password string `json:"password"`
	}

	// UpdateParams are used to update the name or email of an account.
	// Empty fields are left untouched.
	UpdateParams struct {
		Email string `json:"email"`
		Name  string `json:"name"`
	}

	// ChangePasswordParams are used to replace an account password.
	ChangePasswordParams struct {
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
	}

	accountService struct {
		db database.Client
	}
)

// NewAccount returns a new AccountService.
func NewAccount(db database.Client) AccountService {
	return &accountService{
		db: db,
	}
}

// Create registers an account with the given role.
func (s *accountService) Create(role string, params CreateParams) (*model.User, error) {
	params.Email = strings.ToLower(strings.TrimSpace(params.Email))
	params.Name = strings.TrimSpace(params.Name)
	if params.Name == "" {
		return nil, apierror.NewWithCode(http.StatusBadRequest, apierror.CodeInvalidParameters, "No name provided.")
	}
	if params.Email == "" {
		return nil, apierror.NewWithCode(http.StatusBadRequest, apierror.CodeInvalidParameters, "No email provided.")
	}
	if params.Password == "" {
		return nil, apierror.NewWithCode(http.StatusBadRequest, apierror.CodeInvalidParameters, "No password provided.")
	}

	if err := s.ensureEmailFree(params.Email); err != nil {
		return nil, err
	}

	user := model.NewUser()
	user.Email = params.Email
	user.Name = params.Name
	user.Role = role

	var err error
	user.Password, err = argon2.GenerateFromPasswordString(params.Password, argon2.Default)
	if err != nil {
		return nil, errors.Wrap(err, "could not store user password safely")
	}

	if err = s.db.Save(user); err != nil {
		return nil, errors.Wrap(err, "could not persist user")
	}
	return user, nil
}

// Update applies the provided fields to the account.
func (s *accountService) Update(user *model.User, params UpdateParams) (*model.User, error) {
	if name := strings.TrimSpace(params.Name); name != "" {
		user.Name = name
	}

	if email := strings.ToLower(strings.TrimSpace(params.Email)); email != "" && email != user.Email {
		if err := s.ensureEmailFree(email); err != nil {
			return nil, err
		}
		user.Email = email
	}

	if err := s.db.Save(user); err != nil {
		return nil, errors.Wrap(err, "could not persist user")
	}
	return user, nil
}

// ChangePassword replaces the account password once the current one is verified.
func (s *accountService) ChangePassword(user *model.User, params ChangePasswordParams) error {
	if params.CurrentPassword == "" || params.NewPassword == "" {
		return apierror.NewWithCode(http.StatusBadRequest, apierror.CodeInvalidParameters, "Please provide current and new passwords.")
	}

	if err := argon2.CompareHashAndPasswordString(user.Password, params.CurrentPassword); err != nil {
		if err == argon2.ErrMismatchedHashAndPassword {
			return apierror.NewWithCode(http.StatusUnauthorized, apierror.CodeInvalidCredentials, "Current password is incorrect.")
		}
		return errors.Wrap(err, "could not check user password")
	}

	var err error
	user.Password, err = argon2.GenerateFromPasswordString(params.NewPassword, argon2.Default)
	if err != nil {
		return errors.Wrap(err, "could not store user password safely")
	}

	return errors.Wrap(s.db.Save(user), "could not persist user")
}

// SeedAdmin ensures an administrator account exists so the privileged
// surface is reachable on a fresh database. It reports whether the
// account was created.
func SeedAdmin(db database.Client, email, name, password string) (bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	if _, err := db.FindUserByMail(email); err == nil {
		return false, nil
	} else if !db.IsNotFound(err) {
		return false, errors.Wrap(err, "could not get access to database")
	}

	user := model.NewUser()
	user.Email = email
	user.Name = name
	user.Role = model.RoleAdmin

	var err error
	user.Password, err = argon2.GenerateFromPasswordString(password, argon2.Default)
	if err != nil {
		return false, errors.Wrap(err, "could not store user password safely")
	}

	if err = db.Save(user); err != nil {
		return false, errors.Wrap(err, "could not persist user")
	}
	return true, nil
}

func (s *accountService) ensureEmailFree(email string) error {
	if _, err := s.db.FindUserByMail(email); err == nil {
		return apierror.NewWithCode(http.StatusConflict, apierror.CodeInvalidParameters, "This email is already registered.")
	} else if !s.db.IsNotFound(err) {
		return errors.Wrap(err, "could not get access to database")
	}
	return nil
}
