package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"syscall"

	"github.com/jmoiron/sqlx"
	"golang.org/x/term"

	"github.com/jbkamdem/ophtalmopro/core"
	"github.com/jbkamdem/ophtalmopro/core/user"
)

var (
	readPasswordFunc = func() ([]byte, error) { return term.ReadPassword(syscall.Stdin) } // mockable

	errHelp      = errors.New("help provided")
	errCancelled = errors.New("cancelled")
)

type commandLine struct {
	db      *sqlx.DB
	usrRepo user.Repository
	in      *bufio.Reader
	out     io.Writer
}

func newCommandLine(db *sqlx.DB, usrRepo user.Repository) *commandLine {
	return &commandLine{
		db:      db,
		usrRepo: usrRepo,
		in:      bufio.NewReader(os.Stdin),
		out:     os.Stdout,
	}
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  setupadmin - create or reset the administrator account (interactive)")
	fmt.Fprintln(cli.out, "  resetpassword -email EMAIL - reset a user's password")
	fmt.Fprintln(cli.out, "  migrate COMMAND [args] - run database migrations (up|down|status|...)")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	resetPasswordCmd := flag.NewFlagSet("resetpassword", flag.ContinueOnError)
	resetPasswordEmail := resetPasswordCmd.String("email", "", "The user's email. The password will be prompted next.")

	switch args[1] {
	case "setupadmin":
		return cli.setupAdmin()
	case "resetpassword":
		if err := resetPasswordCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *resetPasswordEmail == "" {
			resetPasswordCmd.Usage()
			return errHelp
		}
		fmt.Fprint(cli.out, "Mot de passe : ")
		pwd, err := readPasswordFunc()
		fmt.Fprintln(cli.out)
		if err != nil {
			return err
		}
		if len(pwd) == 0 {
			resetPasswordCmd.Usage()
			return errHelp
		}
		return cli.resetPassword(*resetPasswordEmail, string(pwd))
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(args[2:])
	default:
		cli.printUsage()
		return errHelp
	}
}

// prompt prints q and reads one trimmed line; end-of-input cancels the run.
func (cli *commandLine) prompt(q string) (string, error) {
	fmt.Fprint(cli.out, q)
	line, err := cli.in.ReadString('\n')
	if err != nil {
		if err == io.EOF {
			return "", errCancelled
		}
		return "", err
	}
	return core.CleanString(strings.TrimRight(line, "\r\n")), nil
}

func (cli *commandLine) promptPassword(q string) (string, error) {
	fmt.Fprint(cli.out, q)
	pwd, err := readPasswordFunc()
	fmt.Fprintln(cli.out)
	if err != nil {
		if err == io.EOF {
			return "", errCancelled
		}
		return "", err
	}
	return string(pwd), nil
}
