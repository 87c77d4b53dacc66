package client

import "strings"

// LoginPath is the only public route; all pages below require authentication.
const LoginPath = "/login"

// Pages lists the application's page names in declaration order; the first
// one is the landing page after login and the fallback for unknown paths.
var Pages = []string{
	"SalleAttente",
	"Patients",
	"DossierPatient",
	"Gestion",
	"GestionUtilisateurs",
	"Recettes",
	"DossiersRecents",
	"RechercheAvancee",
	"DossiersATraiter",
}

func DefaultPage() string { return Pages[0] }

func PageURL(name string) string { return "/" + name }

func IsPublic(path string) bool { return path == LoginPath }

// ResolvePage maps a URL path to a known page name, falling back to the
// first declared page for unknown paths.
func ResolvePage(path string) string {
	path = strings.TrimSuffix(path, "/")
	last := path
	if i := strings.LastIndex(last, "/"); i >= 0 {
		last = last[i+1:]
	}
	if i := strings.Index(last, "?"); i >= 0 {
		last = last[:i]
	}

	for _, page := range Pages {
		if strings.EqualFold(page, last) {
			return page
		}
	}
	return Pages[0]
}
