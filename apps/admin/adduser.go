package main

import (
	"context"

	pkgerrors "github.com/pkg/errors"

	"github.com/tathmini/tathmini/core"
	"github.com/tathmini/tathmini/core/user"
)

// addUser updates or creates a user.User
func (cli *commandLine) addUser(uname, email, pwd string, role user.Role) error {
	ctx := context.Background()
	uname = core.CleanString(uname, true /* lower */)
	email = core.CleanString(email, true /* lower */)

	usr, err := cli.usrSvc.GetByUsernameOrEmail(ctx, uname)
	if err != nil {
		if pkgerrors.Cause(err) != user.ErrNotFound {
			return err
		}
		_, err = cli.usrSvc.Create(ctx, user.NewUser{
			Name:     uname,
			Username: uname,
			Email:    email,
			Password: pwd,
			Role:     role,
		})
		return err
	}

	isActive := true
	_, err = cli.usrSvc.Update(ctx, usr.ID, user.UpdateUser{
		Email:    email,
		Role:     role,
		IsActive: &isActive,
		Password: pwd,
	})
	return err
}
