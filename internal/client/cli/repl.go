package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn and printFn are test seams for user-facing output. In tests,
// replace them with stubs.
var (
	printlnFn = fmt.Println
	printFn   = fmt.Print
)

const (
	msgLoginRequired  = "Please log in first (type 'login' or 'signup')."
	msgAlreadyLogged  = "Already logged in. Type 'logout' to switch accounts."
	helpAnonymous     = "Available commands: signup (register), login, exit"
	helpAuthenticated = "Available commands: dashboard, profile, editprofile, passwd, stats, whoami, logout, exit"
)

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Signup(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Dashboard(ctx context.Context) error
	Profile(ctx context.Context) error
	EditProfile(ctx context.Context) error
	ChangePassword(ctx context.Context) error
	Stats(ctx context.Context) error
	WhoAmI(ctx context.Context) error
}

// runREPL starts a simple read–eval–print loop for the ZeroBalance CLI.
//
// It reads a line from reader, parses the first token as the command, and
// dispatches to methods on 'a'. Unknown commands are reported back to the
// user. The loop exits on EOF or when the user types "exit" or "quit".
//
// Prompt & Commands
//
// The prompt shows the current status (from statusFn) and accepts commands:
//
//	Not logged in:
//	  - help              show available commands
//	  - signup | register create an account
//	  - login             authenticate
//	  - exit | quit       leave the program
//
//	Logged in:
//	  - help              show available commands
//	  - dashboard         welcome page with API status
//	  - profile           show profile and statistics
//	  - editprofile       change the display name
//	  - passwd            change the password
//	  - stats             show debt and income statistics
//	  - whoami            show the signed-in user
//	  - logout            log out
//	  - exit | quit       leave the program
//
// Commands of the other group are refused with a hint. Errors returned by
// command handlers are ignored here; handlers report to the user themselves.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	// protected runs fn only for a signed-in user.
	protected := func(fn func(context.Context) error) {
		if !a.isLoggedIn() {
			printlnFn(msgLoginRequired)
			return
		}
		_ = fn(ctx)
	}
	// anonymous runs fn only when nobody is signed in.
	anonymous := func(fn func(context.Context) error) {
		if a.isLoggedIn() {
			printlnFn(msgAlreadyLogged)
			return
		}
		_ = fn(ctx)
	}

	for {
		printFn(fmt.Sprintf("zb %s> ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(helpAuthenticated)
			} else {
				printlnFn(helpAnonymous)
			}

		case "signup", "register":
			anonymous(a.Signup)

		case "login":
			anonymous(a.Login)

		case "dashboard":
			protected(a.Dashboard)

		case "profile":
			protected(a.Profile)

		case "editprofile":
			protected(a.EditProfile)

		case "passwd":
			protected(a.ChangePassword)

		case "stats":
			protected(a.Stats)

		case "whoami":
			protected(a.WhoAmI)

		case "logout":
			protected(a.Logout)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
