package main

import (
	"database/sql"

	"github.com/pressly/goose/v3"

	appfs "github.com/jbkamdem/ophtalmopro/fs"
)

// mockable
var gooseRunFunc = func(command string, db *sql.DB, args ...string) error {
	goose.SetBaseFS(appfs.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	return goose.Run(command, db, "migrations", args...)
}

func (cli *commandLine) migrate(args []string) error {
	return gooseRunFunc(args[0], cli.db.DB, args[1:]...)
}
