package main

import (
	"log"
	"os"

	"github.com/trezcool/mazoezi/core"
	"github.com/trezcool/mazoezi/storage/database"
)

var logger *log.Logger // todo: logger service

func main() {
	defer os.Exit(0)

	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	cli := commandLine{}

	// `expand` works offline; only set up the DB when a command needs it
	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		conf := core.NewConfig()
		db, err := database.Open(conf)
		errAndDie(err)
		defer db.Close()
		errAndDie(db.Ping())
		cli.db = db
	}

	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}
