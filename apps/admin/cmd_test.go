package main

import (
	"bytes"
	"context"
	"io/ioutil"
	"log"
	"testing"

	"github.com/jmoiron/sqlx"
	pkgerrors "github.com/pkg/errors"

	"github.com/tathmini/tathmini/core/criteria"
	"github.com/tathmini/tathmini/core/user"
	dummydb "github.com/tathmini/tathmini/storage/database/dummy"
)

func setup(t *testing.T) *commandLine {
	t.Helper()
	logger = log.New(ioutil.Discard, "", 0)

	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("setup() failed: %v", err)
	}
	return &commandLine{
		usrSvc:  user.NewService(dummydb.NewUserRepository(db)),
		critSvc: criteria.NewService(dummydb.NewCriteriaRepository(db)),
	}
}

type cliTest struct {
	name       string
	args       []string // without program name
	wantErr    error
	wantErrStr string
	extra      interface{}
}

func Test_commandLine_bootstrap(t *testing.T) {
	cli := setup(t)

	var called bool
	bootstrapFunc = func(db *sqlx.DB) error {
		called = true
		return nil
	}

	if err := cli.run([]string{"admin", "bootstrap"}); err != nil {
		t.Errorf("cli.run() unexpected error = %v", err)
	}
	if !called {
		t.Error("bootstrap was not applied")
	}
}

func Test_commandLine_resetPassword(t *testing.T) {
	cli := setup(t)

	usr, err := cli.usrSvc.Create(context.Background(), user.NewUser{
		Name: "Awe Mbenza", Username: "awe", Email: "awe@test.cd", Password: "s3cr3tpwd", Role: user.RoleStudent,
	})
	if err != nil {
		t.Fatalf("creating user failed: %v", err)
	}

	type extra struct {
		pwd string
	}
	tests := []cliTest{
		{name: "no command", wantErr: errHelp},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
		{name: "no args", args: []string{"resetpassword"}, wantErr: errHelp},
		{name: "username but no password", args: []string{"resetpassword", "-username", "lol"}, wantErr: errHelp},
		{name: "user not found", args: []string{"resetpassword", "-username", "lol"}, extra: extra{pwd: "lol"}, wantErr: user.ErrNotFound},
		{name: "reset with username", args: []string{"resetpassword", "-username", usr.Username}, extra: extra{pwd: "n3wp4ssw0rd"}},
		{name: "reset with email", args: []string{"resetpassword", "-username", usr.Email}, extra: extra{pwd: "l4testpwd"}},
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
				refreshedUsr, err := cli.usrSvc.GetByID(context.Background(), usr.ID)
				if err != nil {
					t.Fatalf("GetByID() failed: %v", err)
				}
				if bytes.Equal(refreshedUsr.PasswordHash, usr.PasswordHash) {
					t.Error("failed to update new password")
				}
			} else if pkgerrors.Cause(err) != tt.wantErr {
				t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func Test_commandLine_addUser(t *testing.T) {
	cli := setup(t)
	ctx := context.Background()

	type extra struct {
		pwd string
	}
	tests := []cliTest{
		{name: "no username", args: []string{"adduser", "-email", "awe@test.cd"}, wantErr: errHelp},
		{name: "no email", args: []string{"adduser", "-username", "awe"}, wantErr: errHelp},
		{name: "bad role", args: []string{"adduser", "-username", "awe", "-email", "awe@test.cd", "-role", "boss"}, wantErr: errHelp},
		{name: "no password", args: []string{"adduser", "-username", "awe", "-email", "awe@test.cd"}, wantErr: errHelp},
		{name: "create", args: []string{"adduser", "-username", "awe", "-email", "awe@test.cd", "-role", "teacher"}, extra: extra{pwd: "s3cr3tpwd"}},
		{name: "update existing", args: []string{"adduser", "-username", "awe", "-email", "awe@new.cd"}, extra: extra{pwd: "n3wp4ssw0rd"}},
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
			if err != nil {
				if pkgerrors.Cause(err) != tt.wantErr {
					t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
				}
				return
			}

			usr, err := cli.usrSvc.GetByUsername(ctx, "awe")
			if err != nil {
				t.Fatalf("GetByUsername() failed: %v", err)
			}
			switch tt.name {
			case "create":
				if usr.Role != user.RoleTeacher {
					t.Errorf("role = %v, want %v", usr.Role, user.RoleTeacher)
				}
				if cErr := usr.CheckPassword("s3cr3tpwd"); cErr != nil {
					t.Errorf("CheckPassword() failed: %v", cErr)
				}
			case "update existing":
				if usr.Email != "awe@new.cd" {
					t.Errorf("email = %v, want awe@new.cd", usr.Email)
				}
				if !usr.IsActive {
					t.Error("user should be reactivated")
				}
				if cErr := usr.CheckPassword("n3wp4ssw0rd"); cErr != nil {
					t.Errorf("CheckPassword() failed: %v", cErr)
				}
			}
		})
	}
}

func Test_commandLine_seedCriteria(t *testing.T) {
	cli := setup(t)
	ctx := context.Background()

	if err := cli.run([]string{"admin", "seedcriteria"}); err != nil {
		t.Fatalf("cli.run() unexpected error = %v", err)
	}
	crits, err := cli.critSvc.QueryAll(ctx)
	if err != nil {
		t.Fatalf("QueryAll() failed: %v", err)
	}
	if len(crits) != len(demoCriteria) {
		t.Errorf("len(crits) = %d, want %d", len(crits), len(demoCriteria))
	}

	// re-running never duplicates the rubric
	if err := cli.run([]string{"admin", "seedcriteria"}); err != nil {
		t.Fatalf("cli.run() unexpected error = %v", err)
	}
	crits, err = cli.critSvc.QueryAll(ctx)
	if err != nil {
		t.Fatalf("QueryAll() failed: %v", err)
	}
	if len(crits) != len(demoCriteria) {
		t.Errorf("after re-run: len(crits) = %d, want %d", len(crits), len(demoCriteria))
	}
}
