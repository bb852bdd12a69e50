// Package service implements employee authentication: credential checks and
// access token issuance.
package service

import (
	"context"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"solarfield_backend/internal/auth/repository"
	"solarfield_backend/internal/auth/transport"
	"solarfield_backend/internal/workflow"
	"solarfield_backend/platform/apperr"
	"solarfield_backend/platform/config"
	"solarfield_backend/platform/logger"
	appvalidator "solarfield_backend/platform/validator"
)

const invalidCredentialsMessage = "invalid email or password"

// Service authenticates employees and issues JWT access tokens.
type Service struct {
	repo repository.Repository
	cfg  config.AuthServiceConfig
	val  *appvalidator.Validator
	log  *logger.Logger
	now  func() time.Time
}

// New creates the auth service.
func New(repo repository.Repository, cfg config.AuthServiceConfig, val *appvalidator.Validator, log *logger.Logger) *Service {
	return &Service{repo: repo, cfg: cfg, val: val, log: log, now: time.Now}
}

// SignIn checks the credentials and returns a signed access token. Lookup
// failures and bad passwords produce the same answer so the endpoint does not
// leak which emails exist.
func (s *Service) SignIn(ctx context.Context, req transport.LoginRequest) (transport.LoginResponse, error) {
	if err := s.val.Struct(req); err != nil {
		return transport.LoginResponse{}, workflow.FieldErrors(err)
	}

	employee, err := s.repo.GetByEmail(ctx, req.Email)
	if err != nil {
		s.log.AuthEvent("login", req.Email, false, "unknown email")
		return transport.LoginResponse{}, apperr.Unauthorized(invalidCredentialsMessage)
	}
	if !employee.Active {
		s.log.AuthEvent("login", req.Email, false, "inactive account")
		return transport.LoginResponse{}, apperr.Unauthorized(invalidCredentialsMessage)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(employee.PasswordHash), []byte(req.Password)); err != nil {
		s.log.AuthEvent("login", req.Email, false, "wrong password")
		return transport.LoginResponse{}, apperr.Unauthorized(invalidCredentialsMessage)
	}

	ttl := s.cfg.GetAccessTokenTTL()
	token, err := s.issueAccessToken(employee, ttl)
	if err != nil {
		return transport.LoginResponse{}, apperr.Internal("could not issue token")
	}

	s.log.AuthEvent("login", req.Email, true, "")
	return transport.LoginResponse{
		AccessToken: token,
		ExpiresIn:   int64(ttl.Seconds()),
		Employee:    toEmployeeResponse(employee),
	}, nil
}

// Me returns the signed-in employee's profile.
func (s *Service) Me(ctx context.Context, employeeID int64) (transport.EmployeeResponse, error) {
	employee, err := s.repo.GetByID(ctx, employeeID)
	if err != nil {
		return transport.EmployeeResponse{}, err
	}
	return toEmployeeResponse(employee), nil
}

func (s *Service) issueAccessToken(employee repository.Employee, ttl time.Duration) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"sub":   strconv.FormatInt(employee.ID, 10),
		"roles": []string{employee.Role},
		"type":  "access",
		"iat":   now.Unix(),
		"exp":   now.Add(ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.GetJWTAccessSecret()))
}

func toEmployeeResponse(employee repository.Employee) transport.EmployeeResponse {
	return transport.EmployeeResponse{
		ID:    employee.ID,
		Name:  employee.Name,
		Email: employee.Email,
		Role:  employee.Role,
	}
}
