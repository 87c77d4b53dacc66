package client_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jbkamdem/ophtalmopro/client"
)

func TestResolvePage(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{path: "/Patients", want: "Patients"},
		{path: "/Patients/", want: "Patients"},
		{path: "/app/Patients", want: "Patients"},
		{path: "/patients", want: "Patients"}, // case-insensitive
		{path: "/GestionUtilisateurs?tab=2", want: "GestionUtilisateurs"},
		{path: "/", want: "SalleAttente"},
		{path: "", want: "SalleAttente"},
		{path: "/nope", want: "SalleAttente"}, // unknown falls back to the landing page
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, client.ResolvePage(tt.path))
		})
	}
}

func TestDefaultPage(t *testing.T) {
	assert.Equal(t, "SalleAttente", client.DefaultPage())
	assert.Equal(t, "/SalleAttente", client.PageURL(client.DefaultPage()))
}

func TestIsPublic(t *testing.T) {
	assert.True(t, client.IsPublic("/login"))
	assert.False(t, client.IsPublic("/SalleAttente"))
	assert.False(t, client.IsPublic("/"))
}
