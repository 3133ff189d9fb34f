package main

import (
	"testing"

	"github.com/hesedu/shikshya/core/audit"
	"github.com/hesedu/shikshya/core/billing"
	"github.com/hesedu/shikshya/core/user"
	"github.com/hesedu/shikshya/services/email"
	"github.com/hesedu/shikshya/storage/database/inmem"
)

func setup(t *testing.T) *commandLine {
	db, err := inmemdb.Open()
	if err != nil {
		t.Fatalf("Open() failed, %v", err)
	}
	if err := inmemdb.Seed(db); err != nil {
		t.Fatalf("Seed() failed, %v", err)
	}

	mailSvc := emailsvc.NewConsoleServiceMock()
	auditSvc := audit.NewService(inmemdb.NewAuditRepository(db))
	usrSvc := user.NewService(inmemdb.NewUserRepository(db), auditSvc, mailSvc)
	billingSvc := billing.NewService(inmemdb.NewBillingRepository(db), usrSvc, auditSvc, mailSvc)

	return &commandLine{
		usrSvc:     usrSvc,
		billingSvc: billingSvc,
	}
}

type cliTest struct {
	name    string
	args    []string // without program name
	wantErr error
	extra   interface{}
}

func Test_commandLine_addAdmin(t *testing.T) {
	cli := setup(t)

	type extra struct {
		pwd string
	}
	tests := []cliTest{
		{name: "no command", wantErr: errHelp},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
		{name: "no args", args: []string{"addadmin"}, wantErr: errHelp},
		{name: "name but no email", args: []string{"addadmin", "-name", "New Admin"}, wantErr: errHelp},
		{name: "flags but no password", args: []string{"addadmin", "-name", "New Admin", "-email", "new@hes.edu.np"}, wantErr: errHelp},
		{name: "create", args: []string{"addadmin", "-name", "New Admin", "-email", "new@hes.edu.np"}, extra: extra{pwd: "s3cret"}},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		readPasswordFunc = func(fd int) ([]byte, error) {
			if extra, ok := tt.extra.(extra); ok {
				return []byte(extra.pwd), nil
			}
			return nil, nil
		}

		t.Run(tt.name, func(t *testing.T) {
			err := cli.run(args)
			if err == nil {
				usr, err := cli.usrSvc.GetByEmail("new@hes.edu.np")
				if err != nil {
					t.Fatalf("GetByEmail() failed, %v", err)
				}
				if err := usr.CheckPassword("s3cret"); err != nil {
					t.Error("failed to set password")
				}
			} else if err != tt.wantErr {
				t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func Test_commandLine_generateFees(t *testing.T) {
	cli := setup(t)

	tests := []cliTest{
		{name: "month out of range", args: []string{"generatefees", "-year", "2081", "-month", "13"}, wantErr: errHelp},
		{name: "generate", args: []string{"generatefees", "-year", "2081", "-month", "5"}},
		{name: "rerun is a no-op", args: []string{"generatefees", "-year", "2081", "-month", "5"}},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			if err := cli.run(args); err != nil && err != tt.wantErr {
				t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
