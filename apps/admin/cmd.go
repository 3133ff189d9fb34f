package main

import (
	"errors"
	"flag"
	"fmt"
	"syscall"
	"time"

	"golang.org/x/term"

	"github.com/hesedu/shikshya/core/billing"
	"github.com/hesedu/shikshya/core/user"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	usrSvc     *user.Service
	billingSvc *billing.Service
}

// operator is the acting account for CLI operations. CLI access implies
// shell access to the host, so it carries the highest role.
func (cli *commandLine) operator() user.User {
	return user.User{UID: "system", Name: "System", Role: user.RoleSuperAdmin}
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  addadmin -name NAME -email EMAIL       - create a staff account; the password will be prompted")
	fmt.Println("  generatefees -year YEAR -month MONTH   - run the monthly billing cycle for the given period")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	addAdminCmd := flag.NewFlagSet("addadmin", flag.ExitOnError)
	addAdminName := addAdminCmd.String("name", "", "The staff member's full name.")
	addAdminEmail := addAdminCmd.String("email", "", "The staff member's email. The password will be prompted next.")

	generateFeesCmd := flag.NewFlagSet("generatefees", flag.ExitOnError)
	generateFeesYear := generateFeesCmd.Int("year", time.Now().Year(), "The billing year.")
	generateFeesMonth := generateFeesCmd.Int("month", int(time.Now().Month()), "The billing month (1-12).")

	switch args[1] {
	case "addadmin":
		if err := addAdminCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *addAdminName == "" || *addAdminEmail == "" {
			addAdminCmd.Usage()
			return errHelp
		}
		fmt.Print("Enter password:")
		pwd, err := readPasswordFunc(syscall.Stdin)
		fmt.Println()
		if err != nil {
			return err
		}
		if len(pwd) == 0 {
			addAdminCmd.Usage()
			return errHelp
		}
		return cli.addAdmin(*addAdminName, *addAdminEmail, string(pwd))
	case "generatefees":
		if err := generateFeesCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *generateFeesMonth < 1 || *generateFeesMonth > 12 {
			generateFeesCmd.Usage()
			return errHelp
		}
		return cli.generateFees(*generateFeesYear, time.Month(*generateFeesMonth))
	default:
		cli.printUsage()
		return errHelp
	}
}
