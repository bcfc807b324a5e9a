package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"syscall"

	"github.com/Freeeeeet/booking_portal/internal/service"
	"golang.org/x/term"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type migrator interface {
	Run(ctx context.Context) error
	Down(ctx context.Context) error
	Version(ctx context.Context) (int64, error)
}

type commandLine struct {
	auth     *service.AuthService
	migrator migrator
	out      io.Writer
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  addaccount -email EMAIL -role student|teacher|admin - create an account, the password is prompted next")
	fmt.Fprintln(cli.out, "  migrate up|down|version - manage the database schema")
}

func (cli *commandLine) run(ctx context.Context, args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	addAccountCmd := flag.NewFlagSet("addaccount", flag.ContinueOnError)
	addAccountCmd.SetOutput(cli.out)
	addAccountEmail := addAccountCmd.String("email", "", "The account email.")
	addAccountRole := addAccountCmd.String("role", "teacher", "One of student, teacher, admin.")

	switch args[1] {
	case "addaccount":
		if err := addAccountCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		if *addAccountEmail == "" {
			addAccountCmd.Usage()
			return errHelp
		}
		fmt.Fprint(cli.out, "Enter password:")
		pwd, err := readPasswordFunc(int(syscall.Stdin))
		fmt.Fprintln(cli.out)
		if err != nil {
			return err
		}
		if len(pwd) == 0 {
			addAccountCmd.Usage()
			return errHelp
		}
		return cli.addAccount(ctx, *addAccountEmail, *addAccountRole, string(pwd))
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(ctx, args[2])
	default:
		cli.printUsage()
		return errHelp
	}
}

// addAccount создаёт учётную запись; студенту сразу заводится профиль
func (cli *commandLine) addAccount(ctx context.Context, email, role, pwd string) error {
	account, err := cli.auth.CreateAccount(ctx, service.NewAccountInput{
		Email:    email,
		Password: pwd,
		Role:     strings.ToLower(role),
	})
	if err != nil {
		var vErr *service.ValidationError
		if errors.As(err, &vErr) {
			for field, msg := range vErr.FieldMap() {
				fmt.Fprintf(cli.out, "  %s: %s\n", field, msg)
			}
		}
		return err
	}

	fmt.Fprintf(cli.out, "created %s account %s (%s)\n", account.Role, account.Email, account.UID)
	return nil
}

func (cli *commandLine) migrate(ctx context.Context, command string) error {
	switch command {
	case "up":
		return cli.migrator.Run(ctx)
	case "down":
		return cli.migrator.Down(ctx)
	case "version":
		version, err := cli.migrator.Version(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(cli.out, "schema version: %d\n", version)
		return nil
	default:
		return fmt.Errorf("%q: no such command", command)
	}
}
