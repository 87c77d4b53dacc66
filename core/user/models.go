package user

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"
	"golang.org/x/crypto/bcrypt"

	"github.com/jbkamdem/ophtalmopro/core"
)

// Access roles. `Role` gates what a user may do; `Specialty` is clinical
// metadata for display and defaults to the role when not provided.
const (
	RoleAdmin          = "admin"
	RoleSecretary      = "secretaire"
	RoleOrthoptist     = "orthoptiste"
	RoleOphthalmologue = "ophtalmologue"
)

var (
	AllRoles = []string{RoleAdmin, RoleSecretary, RoleOrthoptist, RoleOphthalmologue}

	Roles = []Role{
		{Name: "Administrateur", Value: RoleAdmin},
		{Name: "Secrétaire", Value: RoleSecretary},
		{Name: "Orthoptiste", Value: RoleOrthoptist},
		{Name: "Ophtalmologue", Value: RoleOphthalmologue},
	}
)

type Role struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

func IsValidRole(role string) bool {
	for _, r := range AllRoles {
		if r == role {
			return true
		}
	}
	return false
}

type User struct {
	ID           int       `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	FullName     string    `json:"full_name" db:"full_name"`
	Role         string    `json:"role" db:"role"`
	Specialty    string    `json:"specialite" db:"specialite"`
	IsActive     bool      `json:"is_active" db:"is_active"`
	PasswordHash []byte    `json:"-" db:"password_hash"`
	LastLogin    null.Time `json:"last_login" db:"last_login"`
	CreatedAt    time.Time `json:"created_date" db:"created_date"` // UTC
	UpdatedAt    time.Time `json:"updated_date" db:"updated_date"` // UTC
}

func (u *User) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return nil
}

func (u *User) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(pwd))
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// NewUser contains information needed to create a new User.
type NewUser struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required"`
	FullName  string `json:"full_name" validate:"required"`
	Specialty string `json:"specialite" validate:"required,clinicrole"`
	Role      string `json:"role" validate:"omitempty,clinicrole"`
}

func (nu *NewUser) Validate(ctx context.Context, validate *validator.Validate, svc ServiceInterface) error {
	nu.Email = core.CleanString(nu.Email, true /* lower */)
	nu.FullName = core.CleanString(nu.FullName)
	nu.Specialty = core.CleanString(nu.Specialty, true /* lower */)
	nu.Role = core.CleanString(nu.Role, true /* lower */)
	if nu.Role == "" {
		// the admin panel submits the specialty only; it doubles as the role
		nu.Role = nu.Specialty
	}

	if err := validate.Struct(nu); err != nil {
		return err
	}
	return svc.CheckEmailUniqueness(ctx, nu.Email)
}

// UpdateUser defines what information may be provided to modify an existing User
// via the admin panel. Email and password are not editable through this path.
type UpdateUser struct {
	FullName  string `json:"full_name" validate:"required"`
	Specialty string `json:"specialite" validate:"required,clinicrole"`
	Role      string `json:"role" validate:"omitempty,clinicrole"`
}

func (uu *UpdateUser) Validate(validate *validator.Validate) error {
	uu.FullName = core.CleanString(uu.FullName)
	uu.Specialty = core.CleanString(uu.Specialty, true /* lower */)
	uu.Role = core.CleanString(uu.Role, true /* lower */)
	if uu.Role == "" {
		uu.Role = uu.Specialty
	}
	return validate.Struct(uu)
}
