package main

import (
	"bufio"
	"bytes"
	"context"
	"database/sql"
	"io"
	"strings"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jbkamdem/ophtalmopro/core/user"
	inmemdb "github.com/jbkamdem/ophtalmopro/storage/database/inmem"
)

func newTestCLI(input string) (*commandLine, user.Repository, *bytes.Buffer) {
	repo := inmemdb.NewUserRepository(inmemdb.NewDB())
	out := new(bytes.Buffer)
	cli := &commandLine{
		db:      &sqlx.DB{},
		usrRepo: repo,
		in:      bufio.NewReader(strings.NewReader(input)),
		out:     out,
	}
	return cli, repo, out
}

// mockPasswords replaces readPasswordFunc with a queue of answers; once the
// queue is drained, further reads behave like a closed terminal.
func mockPasswords(t *testing.T, pwds ...string) {
	t.Helper()
	orig := readPasswordFunc
	var i int
	readPasswordFunc = func() ([]byte, error) {
		if i >= len(pwds) {
			return nil, io.EOF
		}
		pwd := pwds[i]
		i++
		return []byte(pwd), nil
	}
	t.Cleanup(func() { readPasswordFunc = orig })
}

func TestCLIUsage(t *testing.T) {
	tests := []struct {
		name      string
		args      []string
		wantUsage bool // printed on cli.out; the flag set prints its own help
	}{
		{name: "no command", args: []string{"admin"}, wantUsage: true},
		{name: "unknown command", args: []string{"admin", "frobnicate"}, wantUsage: true},
		{name: "migrate without args", args: []string{"admin", "migrate"}, wantUsage: true},
		{name: "resetpassword without email", args: []string{"admin", "resetpassword"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cli, _, out := newTestCLI("")
			err := cli.run(tt.args)
			assert.Equal(t, errHelp, err)
			if tt.wantUsage {
				assert.Contains(t, out.String(), "Usage")
			}
		})
	}
}

func TestCLISetupAdminCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("defaults", func(t *testing.T) {
		mockPasswords(t, "secret123", "secret123")
		cli, repo, out := newTestCLI("\n\n") // accept default email and name

		require.NoError(t, cli.run([]string{"admin", "setupadmin"}))
		assert.Contains(t, out.String(), "Compte administrateur créé avec succès")

		usr, err := repo.GetUserByEmail(ctx, "admin@ophtalmo.com")
		require.NoError(t, err)
		assert.Equal(t, "Administrateur", usr.FullName)
		assert.Equal(t, user.RoleAdmin, usr.Role)
		assert.Equal(t, user.RoleAdmin, usr.Specialty)
		assert.True(t, usr.IsActive)
		assert.False(t, usr.CreatedAt.IsZero())
		assert.NoError(t, usr.CheckPassword("secret123"))
	})

	t.Run("custom email and name", func(t *testing.T) {
		mockPasswords(t, "secret123", "secret123")
		cli, repo, _ := newTestCLI("Chef@Clinique.com\nDr. Chef\n")

		require.NoError(t, cli.run([]string{"admin", "setupadmin"}))

		usr, err := repo.GetUserByEmail(ctx, "chef@clinique.com") // lowered
		require.NoError(t, err)
		assert.Equal(t, "Dr. Chef", usr.FullName)
	})

	t.Run("short password aborts without writing", func(t *testing.T) {
		mockPasswords(t, "ab1")
		cli, repo, _ := newTestCLI("\n\n")

		err := cli.run([]string{"admin", "setupadmin"})
		assert.Equal(t, errPasswordTooShort, err)

		_, err = repo.GetUserByEmail(ctx, "admin@ophtalmo.com")
		assert.Equal(t, user.ErrNotFound, err)
	})

	t.Run("password mismatch aborts without writing", func(t *testing.T) {
		mockPasswords(t, "secret123", "secret124")
		cli, repo, _ := newTestCLI("\n\n")

		err := cli.run([]string{"admin", "setupadmin"})
		assert.Equal(t, errPasswordMismatch, err)

		_, err = repo.GetUserByEmail(ctx, "admin@ophtalmo.com")
		assert.Equal(t, user.ErrNotFound, err)
	})

	t.Run("email owned by another account aborts without writing", func(t *testing.T) {
		mockPasswords(t, "newpass1", "newpass1")
		cli, repo, out := newTestCLI("sandra@ophtalmo.com\nSandra Bis\n")

		sandra := user.User{
			Email: "sandra@ophtalmo.com", FullName: "Sandra",
			Role: user.RoleSecretary, Specialty: user.RoleSecretary, IsActive: true,
		}
		require.NoError(t, sandra.SetPassword("oldpass1"))
		_, err := repo.CreateUser(ctx, sandra)
		require.NoError(t, err)

		err = cli.run([]string{"admin", "setupadmin"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "existe déjà")
		assert.NotContains(t, out.String(), "créé avec succès")

		usr, err := repo.GetUserByEmail(ctx, "sandra@ophtalmo.com")
		require.NoError(t, err)
		assert.Equal(t, user.RoleSecretary, usr.Role, "the account must keep its role")
		assert.NoError(t, usr.CheckPassword("oldpass1"), "the account must keep its password")
		assert.Error(t, usr.CheckPassword("newpass1"))
	})

	t.Run("end of input cancels", func(t *testing.T) {
		mockPasswords(t)
		cli, repo, _ := newTestCLI("") // EOF at the first prompt

		err := cli.run([]string{"admin", "setupadmin"})
		assert.Equal(t, errCancelled, err)

		_, err = repo.GetUserByEmail(ctx, "admin@ophtalmo.com")
		assert.Equal(t, user.ErrNotFound, err)
	})
}

func TestCLISetupAdminExisting(t *testing.T) {
	ctx := context.Background()

	seedAdmin := func(t *testing.T, repo user.Repository) user.User {
		t.Helper()
		usr := user.User{
			Email: defaultAdminEmail, FullName: defaultAdminName,
			Role: user.RoleAdmin, Specialty: user.RoleAdmin, IsActive: true,
		}
		require.NoError(t, usr.SetPassword("oldpass1"))
		usr, err := repo.CreateUser(ctx, usr)
		require.NoError(t, err)
		return usr
	}

	t.Run("confirmed update resets the password", func(t *testing.T) {
		mockPasswords(t, "newpass1", "newpass1")
		cli, repo, out := newTestCLI("o\n")
		seeded := seedAdmin(t, repo)

		require.NoError(t, cli.run([]string{"admin", "setupadmin"}))
		assert.Contains(t, out.String(), "Mot de passe mis à jour avec succès")

		usr, err := repo.GetUserByEmail(ctx, defaultAdminEmail)
		require.NoError(t, err)
		assert.Equal(t, seeded.ID, usr.ID, "existing account is updated, not recreated")
		assert.NoError(t, usr.CheckPassword("newpass1"))
		assert.Error(t, usr.CheckPassword("oldpass1"))
	})

	t.Run("declined update cancels", func(t *testing.T) {
		mockPasswords(t)
		cli, repo, _ := newTestCLI("n\n")
		seedAdmin(t, repo)

		err := cli.run([]string{"admin", "setupadmin"})
		assert.Equal(t, errCancelled, err)

		usr, err := repo.GetUserByEmail(ctx, defaultAdminEmail)
		require.NoError(t, err)
		assert.NoError(t, usr.CheckPassword("oldpass1"), "password must be untouched")
	})
}

func TestCLIResetPassword(t *testing.T) {
	ctx := context.Background()

	t.Run("ok", func(t *testing.T) {
		mockPasswords(t, "newpass1")
		cli, repo, _ := newTestCLI("")

		usr := user.User{Email: "sandra@ophtalmo.com", FullName: "Sandra", Role: user.RoleSecretary, Specialty: user.RoleSecretary, IsActive: true}
		require.NoError(t, usr.SetPassword("oldpass1"))
		usr, err := repo.CreateUser(ctx, usr)
		require.NoError(t, err)

		require.NoError(t, cli.run([]string{"admin", "resetpassword", "-email", "sandra@ophtalmo.com"}))

		usr, err = repo.GetUserByID(ctx, usr.ID)
		require.NoError(t, err)
		assert.NoError(t, usr.CheckPassword("newpass1"))
	})

	t.Run("unknown email", func(t *testing.T) {
		mockPasswords(t, "newpass1")
		cli, _, _ := newTestCLI("")

		err := cli.run([]string{"admin", "resetpassword", "-email", "nobody@y.com"})
		assert.Equal(t, user.ErrNotFound, err)
	})

	t.Run("empty password shows usage", func(t *testing.T) {
		mockPasswords(t, "")
		cli, _, _ := newTestCLI("")

		err := cli.run([]string{"admin", "resetpassword", "-email", "sandra@ophtalmo.com"})
		assert.Equal(t, errHelp, err)
	})
}

func TestCLIMigrate(t *testing.T) {
	orig := gooseRunFunc
	t.Cleanup(func() { gooseRunFunc = orig })

	var gotCommand string
	var gotArgs []string
	gooseRunFunc = func(command string, db *sql.DB, args ...string) error {
		gotCommand = command
		gotArgs = args
		return nil
	}

	cli, _, _ := newTestCLI("")
	require.NoError(t, cli.run([]string{"admin", "migrate", "up-to", "2"}))
	assert.Equal(t, "up-to", gotCommand)
	assert.Equal(t, []string{"2"}, gotArgs)
}
