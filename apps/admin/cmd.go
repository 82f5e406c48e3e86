package main

import (
	"errors"
	"flag"
	"fmt"
	"syscall"

	"github.com/jmoiron/sqlx"
	"golang.org/x/term"

	"github.com/trezcool/shindano/core/leaderboard"
	"github.com/trezcool/shindano/core/user"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	db      *sqlx.DB
	usrRepo user.Repository
	lbSvc   leaderboard.Service
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  migrate [COMMAND] - run goose migration commands (default: up)")
	fmt.Println("  adduser -username USERNAME -email EMAIL [-admin] - add or update a user; the password is prompted next")
	fmt.Println("  recalculate -event EVENT_ID - recalculate an event's leaderboard")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	addUserCmd := flag.NewFlagSet("adduser", flag.ExitOnError)
	addUserUname := addUserCmd.String("username", "", "The user's username.")
	addUserEmail := addUserCmd.String("email", "", "The user's email.")
	addUserAdmin := addUserCmd.Bool("admin", false, "Grant all roles to the user.")

	recalculateCmd := flag.NewFlagSet("recalculate", flag.ExitOnError)
	recalculateEvent := recalculateCmd.String("event", "", "The event's ID.")

	switch args[1] {
	case "migrate":
		return cli.migrate(args[2:])
	case "adduser":
		if err := addUserCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *addUserUname == "" && *addUserEmail == "" {
			addUserCmd.Usage()
			return errHelp
		}
		fmt.Print("Enter password:")
		pwd, err := readPasswordFunc(syscall.Stdin)
		fmt.Println()
		if err != nil {
			return err
		}
		if len(pwd) == 0 {
			addUserCmd.Usage()
			return errHelp
		}
		return cli.addUser(*addUserUname, *addUserEmail, string(pwd), *addUserAdmin)
	case "recalculate":
		if err := recalculateCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *recalculateEvent == "" {
			recalculateCmd.Usage()
			return errHelp
		}
		return cli.recalculate(*recalculateEvent)
	default:
		cli.printUsage()
		return errHelp
	}
}
