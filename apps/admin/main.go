package main

import (
	"log"
	"os"

	"github.com/hesedu/shikshya/core/audit"
	"github.com/hesedu/shikshya/core/billing"
	"github.com/hesedu/shikshya/core/user"
	"github.com/hesedu/shikshya/services/email"
	"github.com/hesedu/shikshya/storage/database/inmem"
)

var logger *log.Logger

func main() {
	defer os.Exit(0)

	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	// set up DB
	db, err := inmemdb.Open()
	errAndDie(err)
	errAndDie(inmemdb.Seed(db))

	// set up services
	auditSvc := audit.NewService(inmemdb.NewAuditRepository(db))
	usrSvc := user.NewService(inmemdb.NewUserRepository(db), auditSvc, emailsvc.NewConsoleService())
	billingSvc := billing.NewService(inmemdb.NewBillingRepository(db), usrSvc, auditSvc, emailsvc.NewConsoleService())

	// start CLI
	cli := commandLine{
		usrSvc:     usrSvc,
		billingSvc: billingSvc,
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
