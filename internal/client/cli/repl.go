package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	VerifyEmail(ctx context.Context) error
	Login(ctx context.Context) error
	Renew(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	Logout(ctx context.Context) error
}

// runREPL reads commands line by line from reader and dispatches them to a.
//
// The loop shares reader with the command prompts, so a command that asks
// for more input consumes the following lines. It exits on EOF or when the
// user types "exit" or "quit". Command errors are printed and the loop
// continues.
//
//	Not logged in: help, register, verify, login, exit
//	Logged in:     help, whoami, renew, logout, verify, exit
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("ga %s> ", statusFn()))

		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]

		var cmdErr error

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: whoami, renew, logout, verify, exit")
			} else {
				printlnFn("Available commands: register, verify, login, exit")
			}

		case "register":
			cmdErr = a.Register(ctx)

		case "verify":
			cmdErr = a.VerifyEmail(ctx)

		case "login":
			cmdErr = a.Login(ctx)

		case "renew":
			cmdErr = a.Renew(ctx)

		case "whoami":
			cmdErr = a.WhoAmI(ctx)

		case "logout":
			cmdErr = a.Logout(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if cmdErr != nil {
			printlnFn("Error:", cmdErr.Error())
		}
	}
}
