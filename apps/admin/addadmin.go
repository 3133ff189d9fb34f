package main

import (
	"fmt"

	"github.com/hesedu/shikshya/core/user"
)

func (cli *commandLine) addAdmin(name, email, pwd string) error {
	usr, err := cli.usrSvc.CreateAdmin(cli.operator(), user.NewAdmin{
		Name:     name,
		Email:    email,
		Role:     user.RoleSuperAdmin,
		Password: pwd,
	})
	if err != nil {
		return err
	}
	fmt.Printf("created %s (%s)\n", usr.Name, usr.Email)
	return nil
}
