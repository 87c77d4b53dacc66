package main

import (
	"log"
	"os"

	"github.com/jbkamdem/ophtalmopro/core"
	"github.com/jbkamdem/ophtalmopro/storage/database"
	sqlxrepos "github.com/jbkamdem/ophtalmopro/storage/database/sqlx"
)

var logger *log.Logger

func main() {
	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	conf := core.NewConfig()

	// set up DB
	db, err := database.Open(conf)
	errAndDie(err)

	// start CLI; the store connection is released on every exit path
	cli := newCommandLine(db, sqlxrepos.NewUserRepository(db))
	err = cli.run(os.Args)

	code := 0
	switch err {
	case nil:
	case errCancelled:
		logger.Println("Annulé.") // user cancellation is not a failure
	case errHelp:
		code = 1
	default:
		logger.Printf("\nerror: %s\n", err)
		code = 1
	}

	_ = db.Close()
	os.Exit(code)
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}
