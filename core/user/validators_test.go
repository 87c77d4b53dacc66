package user_test

import (
	"context"
	"strings"
	"testing"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/jbkamdem/ophtalmopro/core"
	"github.com/jbkamdem/ophtalmopro/core/user"
	emailsvc "github.com/jbkamdem/ophtalmopro/services/email"
	inmemdb "github.com/jbkamdem/ophtalmopro/storage/database/inmem"
)

func newTestValidator(t *testing.T) (*validator.Validate, ut.Translator) {
	t.Helper()

	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")

	validate := validator.New()
	core.InitValidators(validate, translator)
	user.RegisterValidators(validate, translator)
	return validate, translator
}

func newTestService(t *testing.T) *user.Service {
	t.Helper()

	conf := core.NewConfig()
	repo := inmemdb.NewUserRepository(inmemdb.NewDB())
	return user.NewService(repo, emailsvc.NewConsoleServiceMock(conf), conf)
}

func TestNewUserValidate(t *testing.T) {
	validate, translator := newTestValidator(t)
	svc := newTestService(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		nu      user.NewUser
		wantErr string // substring of the flattened error; empty means valid
	}{
		{
			name: "valid",
			nu:   user.NewUser{Email: "x@y.com", Password: "abc123", FullName: "X", Specialty: user.RoleSecretary},
		},
		{
			name:    "bad email",
			nu:      user.NewUser{Email: "bad-email", Password: "abc123", FullName: "X", Specialty: user.RoleSecretary},
			wantErr: "email",
		},
		{
			name:    "missing full_name",
			nu:      user.NewUser{Email: "x@y.com", Password: "abc123", Specialty: user.RoleSecretary},
			wantErr: "required",
		},
		{
			name:    "unknown role",
			nu:      user.NewUser{Email: "x@y.com", Password: "abc123", FullName: "X", Specialty: "plombier"},
			wantErr: "invalid role",
		},
		{
			name:    "password too short",
			nu:      user.NewUser{Email: "x@y.com", Password: "abc12", FullName: "X", Specialty: user.RoleSecretary},
			wantErr: "at least 6 characters",
		},
		{
			name:    "password with whitespace",
			nu:      user.NewUser{Email: "x@y.com", Password: "abc 123", FullName: "X", Specialty: user.RoleSecretary},
			wantErr: "whitespace",
		},
		{
			name:    "password all numeric",
			nu:      user.NewUser{Email: "x@y.com", Password: "123456", FullName: "X", Specialty: user.RoleSecretary},
			wantErr: "entirely numeric",
		},
		{
			name:    "password similar to name",
			nu:      user.NewUser{Email: "x@y.com", Password: "marielle1", FullName: "Marielle", Specialty: user.RoleOphthalmologue},
			wantErr: "similar to user attributes",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.nu.Validate(ctx, validate, svc)
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() unexpected error = %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() expected error containing %q, got nil", tt.wantErr)
			}
			if !containsValidationMsg(err, translator, tt.wantErr) {
				t.Errorf("Validate() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestNewUserValidateDefaultsRoleToSpecialty(t *testing.T) {
	validate, _ := newTestValidator(t)
	svc := newTestService(t)

	nu := user.NewUser{Email: "x@y.com", Password: "abc123", FullName: "X", Specialty: user.RoleOrthoptist}
	if err := nu.Validate(context.Background(), validate, svc); err != nil {
		t.Fatalf("Validate() unexpected error = %v", err)
	}
	if nu.Role != user.RoleOrthoptist {
		t.Errorf("Role = %q, want %q", nu.Role, user.RoleOrthoptist)
	}
}

func TestUpdateUserValidate(t *testing.T) {
	validate, _ := newTestValidator(t)

	tests := []struct {
		name    string
		uu      user.UpdateUser
		wantErr bool
	}{
		{name: "valid", uu: user.UpdateUser{FullName: "Dr. X", Specialty: user.RoleOphthalmologue}},
		{name: "missing full_name", uu: user.UpdateUser{Specialty: user.RoleSecretary}, wantErr: true},
		{name: "missing specialty", uu: user.UpdateUser{FullName: "Dr. X"}, wantErr: true},
		{name: "unknown role", uu: user.UpdateUser{FullName: "Dr. X", Specialty: "plombier"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.uu.Validate(validate); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func containsValidationMsg(err error, translator ut.Translator, sub string) bool {
	if vErrs, ok := err.(validator.ValidationErrors); ok {
		for _, vErr := range vErrs {
			if strings.Contains(vErr.Translate(translator), sub) || strings.Contains(vErr.Field(), sub) {
				return true
			}
		}
	}
	return strings.Contains(err.Error(), sub)
}
