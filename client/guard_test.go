package client_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jbkamdem/ophtalmopro/client"
)

func TestGuardCheck(t *testing.T) {
	env := newClientEnv(t)
	guard := client.NewGuard(env.client)
	ctx := context.Background()

	t.Run("logged out redirects to login", func(t *testing.T) {
		d := guard.Check(ctx)
		assert.Equal(t, client.StateUnauthenticated, d.State)
		assert.Equal(t, client.LoginPath, d.Redirect)
		assert.True(t, d.ReplaceHistory, "login redirect must not be backtrackable")
	})

	t.Run("authenticated renders the page", func(t *testing.T) {
		env.loginAs(t, "sandra@ophtalmo.com")

		d := guard.Check(ctx)
		assert.Equal(t, client.StateAuthenticated, d.State)
		assert.Empty(t, d.Redirect)
	})

	t.Run("unreachable service redirects to login", func(t *testing.T) {
		down := newClientEnv(t)
		down.loginAs(t, "sandra@ophtalmo.com")
		down.ts.Close()

		d := client.NewGuard(down.client).Check(ctx)
		assert.Equal(t, client.StateUnauthenticated, d.State)
		assert.Equal(t, client.LoginPath, d.Redirect)
	})
}

func TestGuardCheckAdmin(t *testing.T) {
	env := newClientEnv(t)
	guard := client.NewGuard(env.client)
	ctx := context.Background()

	t.Run("logged out redirects to login", func(t *testing.T) {
		d := guard.CheckAdmin(ctx)
		assert.Equal(t, client.StateUnauthenticated, d.State)
		assert.Equal(t, client.LoginPath, d.Redirect)
	})

	t.Run("non-admin is sent to the default page", func(t *testing.T) {
		env.loginAs(t, "sandra@ophtalmo.com")

		d := guard.CheckAdmin(ctx)
		assert.Equal(t, client.StateAuthenticated, d.State)
		assert.Equal(t, "/SalleAttente", d.Redirect)
	})

	t.Run("admin renders the page", func(t *testing.T) {
		require.NoError(t, env.client.Login(ctx, "admin@ophtalmo.com", "secret123"))

		d := guard.CheckAdmin(ctx)
		assert.Equal(t, client.StateAuthenticated, d.State)
		assert.Empty(t, d.Redirect)
	})
}

func TestGuardStateString(t *testing.T) {
	assert.Equal(t, "checking", client.StateChecking.String())
	assert.Equal(t, "authenticated", client.StateAuthenticated.String())
	assert.Equal(t, "unauthenticated", client.StateUnauthenticated.String())
}
