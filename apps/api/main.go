package main

import (
	"log"
	"os"

	"github.com/hesedu/shikshya/apps/api/echo"
	"github.com/hesedu/shikshya/core"
	"github.com/hesedu/shikshya/core/audit"
	"github.com/hesedu/shikshya/core/billing"
	"github.com/hesedu/shikshya/core/content"
	"github.com/hesedu/shikshya/core/settings"
	"github.com/hesedu/shikshya/core/user"
	"github.com/hesedu/shikshya/services/email"
	"github.com/hesedu/shikshya/services/logger"
	"github.com/hesedu/shikshya/storage/database/inmem"
)

func main() {
	std := log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	var appLogger core.Logger
	if core.Conf.Debug {
		appLogger = logsvc.NewStdLogger(std)
	} else {
		appLogger = logsvc.NewRollbarLogger(std, core.Conf)
	}

	// set up DB
	db, err := inmemdb.Open()
	errAndDie(std, err)
	errAndDie(std, inmemdb.Seed(db))

	// set up services
	var mailSvc core.EmailService
	if core.Conf.Debug {
		mailSvc = emailsvc.NewConsoleService()
	} else {
		mailSvc = emailsvc.NewSendgridService(appLogger)
	}
	auditSvc := audit.NewService(inmemdb.NewAuditRepository(db))
	usrSvc := user.NewService(inmemdb.NewUserRepository(db), auditSvc, mailSvc)
	billingSvc := billing.NewService(inmemdb.NewBillingRepository(db), usrSvc, auditSvc, mailSvc)
	contentSvc := content.NewService(inmemdb.NewContentRepository(db), auditSvc)
	settingsSvc := settings.NewService(inmemdb.NewSettingsRepository(db), auditSvc)

	// start API server
	app := echoapi.NewServer(
		&echoapi.Options{
			Addr:        core.Conf.Server.Addr,
			Logger:      appLogger,
			UserSvc:     usrSvc,
			BillingSvc:  billingSvc,
			ContentSvc:  contentSvc,
			SettingsSvc: settingsSvc,
			AuditSvc:    auditSvc,
		},
	)
	app.Start()
}

func errAndDie(std *log.Logger, err error) {
	if err != nil {
		std.Fatal(err)
	}
}
