package client

import (
	"context"
	"fmt"
	"net/http"
	"regexp"

	"github.com/jbkamdem/ophtalmopro/core"
	"github.com/jbkamdem/ophtalmopro/core/user"
)

// emailRegex is the panel's basic local-part "@" domain "." tld check; the
// backend applies the authoritative validation.
var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ListUsers fetches all users. Fetch failures are logged and degrade to an
// empty list rather than propagating; the caller can tell an empty store from
// a failed fetch via the second return value.
func (c *Client) ListUsers(ctx context.Context) ([]user.User, bool) {
	var users []user.User
	if err := c.do(ctx, http.MethodGet, "/User", nil, &users); err != nil {
		c.logger.Error(fmt.Sprintf("fetching users: %v", err), err)
		return []user.User{}, false
	}
	if users == nil {
		users = []user.User{}
	}
	return users, true
}

// CreateUser validates nu locally and, only if it passes, submits it.
// Backend rejections (e.g. duplicate email) are returned verbatim.
func (c *Client) CreateUser(ctx context.Context, nu user.NewUser) (user.User, error) {
	if nu.Email == "" || nu.Password == "" || nu.FullName == "" || nu.Specialty == "" {
		return user.User{}, core.NewValidationError(fmt.Errorf("tous les champs sont obligatoires"))
	}
	if !emailRegex.MatchString(nu.Email) {
		return user.User{}, core.NewValidationError(fmt.Errorf("email invalide"))
	}
	if len(nu.Password) < user.PasswordMinLen {
		return user.User{}, core.NewValidationError(
			fmt.Errorf("le mot de passe doit contenir au moins %d caractères", user.PasswordMinLen))
	}

	var created user.User
	if err := c.do(ctx, http.MethodPost, "/User", nu, &created); err != nil {
		return user.User{}, err
	}
	return created, nil
}

// UpdateUser mutates only full_name and specialite for an existing user;
// email and password are not editable through this path.
func (c *Client) UpdateUser(ctx context.Context, id int, uu user.UpdateUser) (user.User, error) {
	if uu.FullName == "" || uu.Specialty == "" {
		return user.User{}, core.NewValidationError(fmt.Errorf("nom et spécialité sont obligatoires"))
	}
	if uu.Role == "" {
		uu.Role = uu.Specialty
	}

	var updated user.User
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/User/%d", id), uu, &updated); err != nil {
		return user.User{}, err
	}
	return updated, nil
}

// CanDelete tells whether the delete control should be rendered for target:
// operators never see it for their own account.
func (c *Client) CanDelete(target user.User) bool {
	current, ok := c.CurrentUser()
	if !ok {
		return false
	}
	return current.ID != target.ID
}

// DeleteUser removes a user; deleting the operator's own account is refused
// before any request is made (and again server-side).
func (c *Client) DeleteUser(ctx context.Context, id int) error {
	if current, ok := c.CurrentUser(); ok && current.ID == id {
		return core.NewValidationError(fmt.Errorf("vous ne pouvez pas supprimer votre propre compte"))
	}
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/User/%d", id), nil, nil)
}
