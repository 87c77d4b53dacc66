package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/jbkamdem/ophtalmopro/core"
	"github.com/jbkamdem/ophtalmopro/core/user"
)

const (
	defaultAdminEmail = "admin@ophtalmo.com"
	defaultAdminName  = "Administrateur"
)

var (
	errPasswordTooShort = errors.Errorf("le mot de passe doit contenir au moins %d caractères", user.PasswordMinLen)
	errPasswordMismatch = errors.New("les mots de passe ne correspondent pas")
)

// setupAdmin interactively creates the administrator account, or resets its
// password when one already exists. Nothing is written to the store until all
// prompts have been answered and validated.
func (cli *commandLine) setupAdmin() error {
	ctx := context.Background()

	fmt.Fprintln(cli.out, "\nConfiguration du compte administrateur")
	fmt.Fprintln(cli.out)

	usr, err := cli.usrRepo.GetUserByEmail(ctx, defaultAdminEmail)
	exists := err == nil
	if err != nil && errors.Cause(err) != user.ErrNotFound {
		return err
	}

	if exists {
		fmt.Fprintf(cli.out, "Un compte admin existe déjà: %s\n", defaultAdminEmail)
		ans, err := cli.prompt("Voulez-vous mettre à jour son mot de passe? (o/n): ")
		if err != nil {
			return err
		}
		if strings.ToLower(ans) != "o" {
			return errCancelled
		}
	} else {
		fmt.Fprintln(cli.out, "Création d'un nouveau compte administrateur")
		fmt.Fprintln(cli.out)

		email, err := cli.prompt(fmt.Sprintf("Email (default: %s): ", defaultAdminEmail))
		if err != nil {
			return err
		}
		if email == "" {
			email = defaultAdminEmail
		}
		fullName, err := cli.prompt(fmt.Sprintf("Nom complet (default: %s): ", defaultAdminName))
		if err != nil {
			return err
		}
		if fullName == "" {
			fullName = defaultAdminName
		}

		usr = user.User{
			Email:     core.CleanString(email, true /* lower */),
			FullName:  fullName,
			Role:      user.RoleAdmin,
			Specialty: user.RoleAdmin,
		}
	}

	pwd, err := cli.promptPassword(fmt.Sprintf("Mot de passe (min %d caractères): ", user.PasswordMinLen))
	if err != nil {
		return err
	}
	if len(pwd) < user.PasswordMinLen {
		return errPasswordTooShort
	}
	confirm, err := cli.promptPassword("Confirmez le mot de passe: ")
	if err != nil {
		return err
	}
	if pwd != confirm {
		return errPasswordMismatch
	}

	fmt.Fprintln(cli.out, "\nHachage du mot de passe...")
	if err := usr.SetPassword(pwd); err != nil {
		return err
	}

	now := time.Now().UTC()
	usr.UpdatedAt = now
	usr.IsActive = true

	if exists {
		// confirmed password reset of the admin account only
		if _, err := cli.usrRepo.UpdateOrCreateUser(ctx, usr); err != nil {
			return err
		}
	} else {
		// plain insert: an entered email owned by another account must
		// abort, never overwrite it
		usr.CreatedAt = now
		if _, err := cli.usrRepo.CreateUser(ctx, usr); err != nil {
			if errors.Cause(err) == user.ErrEmailExists {
				return errors.Errorf("un compte existe déjà avec cet email: %s", usr.Email)
			}
			return err
		}
	}

	if exists {
		fmt.Fprintln(cli.out, "\nMot de passe mis à jour avec succès!")
	} else {
		fmt.Fprintln(cli.out, "\nCompte administrateur créé avec succès!")
	}
	fmt.Fprintln(cli.out, "\nInformations de connexion:")
	fmt.Fprintf(cli.out, "   Email: %s\n", usr.Email)
	fmt.Fprintln(cli.out, "   Mot de passe: ********")
	fmt.Fprintln(cli.out, "\nVous pouvez maintenant vous connecter à l'application.")
	return nil
}
