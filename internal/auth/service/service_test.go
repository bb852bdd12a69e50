package service

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"solarfield_backend/internal/auth/repository"
	"solarfield_backend/internal/auth/transport"
	"solarfield_backend/internal/workflow"
	"solarfield_backend/platform/apperr"
	"solarfield_backend/platform/logger"
	appvalidator "solarfield_backend/platform/validator"
)

type fakeRepo struct {
	byEmail map[string]repository.Employee
}

func (f *fakeRepo) GetByEmail(_ context.Context, email string) (repository.Employee, error) {
	e, ok := f.byEmail[email]
	if !ok {
		return repository.Employee{}, apperr.NotFound("employee not found")
	}
	return e, nil
}

func (f *fakeRepo) GetByID(_ context.Context, id int64) (repository.Employee, error) {
	for _, e := range f.byEmail {
		if e.ID == id {
			return e, nil
		}
	}
	return repository.Employee{}, apperr.NotFound("employee not found")
}

type testConfig struct{}

func (testConfig) GetJWTAccessSecret() string       { return "test-secret" }
func (testConfig) GetAccessTokenTTL() time.Duration { return 15 * time.Minute }

func newTestService(t *testing.T, password string) (*Service, *fakeRepo) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	repo := &fakeRepo{byEmail: map[string]repository.Employee{
		"asha@solarfield.in": {
			ID:           3,
			Name:         "Asha Rao",
			Email:        "asha@solarfield.in",
			PasswordHash: string(hash),
			Role:         "field",
			Active:       true,
		},
	}}

	val := appvalidator.New()
	workflow.RegisterRules(val)
	return New(repo, testConfig{}, val, logger.NewNop()), repo
}

func TestSignInIssuesParsableAccessToken(t *testing.T) {
	svc, _ := newTestService(t, "correct-horse")

	resp, err := svc.SignIn(context.Background(), transport.LoginRequest{
		Email:    "asha@solarfield.in",
		Password: "correct-horse",
	})
	if err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	if resp.Employee.ID != 3 || resp.Employee.Role != "field" {
		t.Errorf("employee profile = %+v", resp.Employee)
	}

	parsed, err := jwt.Parse(resp.AccessToken, func(*jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("token does not parse: %v", err)
	}
	claims := parsed.Claims.(jwt.MapClaims)
	if claims["sub"] != strconv.FormatInt(3, 10) {
		t.Errorf("sub = %v", claims["sub"])
	}
	if claims["type"] != "access" {
		t.Errorf("type = %v", claims["type"])
	}
}

func TestSignInFailuresAreUniform(t *testing.T) {
	svc, _ := newTestService(t, "correct-horse")

	_, errWrong := svc.SignIn(context.Background(), transport.LoginRequest{
		Email:    "asha@solarfield.in",
		Password: "wrong-password",
	})
	_, errUnknown := svc.SignIn(context.Background(), transport.LoginRequest{
		Email:    "nobody@solarfield.in",
		Password: "any-password",
	})

	for name, err := range map[string]error{"wrong password": errWrong, "unknown email": errUnknown} {
		appErr, ok := err.(*apperr.Error)
		if !ok || appErr.Kind != apperr.KindUnauthorized {
			t.Fatalf("%s: expected unauthorized, got %v", name, err)
		}
		if appErr.Message != invalidCredentialsMessage {
			t.Errorf("%s: message = %q", name, appErr.Message)
		}
	}
}

func TestSignInRejectsInactiveAccount(t *testing.T) {
	svc, repo := newTestService(t, "correct-horse")
	e := repo.byEmail["asha@solarfield.in"]
	e.Active = false
	repo.byEmail["asha@solarfield.in"] = e

	_, err := svc.SignIn(context.Background(), transport.LoginRequest{
		Email:    "asha@solarfield.in",
		Password: "correct-horse",
	})
	appErr, ok := err.(*apperr.Error)
	if !ok || appErr.Kind != apperr.KindUnauthorized {
		t.Fatalf("expected unauthorized for inactive account, got %v", err)
	}
}
