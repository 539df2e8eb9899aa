package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	List(ctx context.Context, args []string) error
	Tree(ctx context.Context) error
	Mkdir(ctx context.Context, args []string) error
	Upload(ctx context.Context, args []string) error
	Download(ctx context.Context, args []string) error
	SetFavorite(ctx context.Context, args []string, favorite bool) error
	Color(ctx context.Context, args []string) error
	Move(ctx context.Context, args []string) error
	Remove(ctx context.Context, args []string) error
}

// commands that only make sense with a session.
var needsLogin = map[string]bool{
	"logout": true, "whoami": true, "ls": true, "tree": true, "mkdir": true,
	"upload": true, "download": true, "fav": true, "unfav": true,
	"color": true, "mv": true, "rm": true,
}

const (
	helpLoggedOut = `Available commands:
  register                     create an account
  login                        sign in
  exit | quit                  leave the program`

	helpLoggedIn = `Available commands:
  whoami                       show the current user
  ls [folderId]                list a folder (root by default)
  tree                         show the whole folder tree
  mkdir <name> [parentId]      create a folder
  upload <path> [parentId]     upload a local file
  download <id> <dest>         save a file locally
  fav <id> | unfav <id>        mark or unmark a favorite
  color <id> <color|->         set or clear a color tag
  mv <id> <parentId|root>      move an entry
  rm <id>                      delete an entry (folders recursively)
  logout                       sign out
  exit | quit                  leave the program`
)

// runREPL starts a simple read–eval–print loop for the CloudVault CLI.
//
// It reads a line from reader, parses the first token as the command and
// dispatches to methods on 'a'. Errors from handlers are printed and the
// loop goes on. The loop exits on EOF or when the user types "exit" or
// "quit".
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("cv %s> ", statusFn()))
		line, ok := readLine(reader)
		if !ok {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		if needsLogin[cmd] && !a.isLoggedIn() {
			printlnFn("Not logged in. Use 'login' or 'register' first.")
			continue
		}

		var err error
		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(helpLoggedIn)
			} else {
				printlnFn(helpLoggedOut)
			}

		case "register":
			err = a.Register(ctx)

		case "login":
			err = a.Login(ctx)

		case "logout":
			err = a.Logout(ctx)

		case "whoami":
			err = a.WhoAmI(ctx)

		case "ls":
			err = a.List(ctx, args)

		case "tree":
			err = a.Tree(ctx)

		case "mkdir":
			err = a.Mkdir(ctx, args)

		case "upload":
			err = a.Upload(ctx, args)

		case "download":
			err = a.Download(ctx, args)

		case "fav":
			err = a.SetFavorite(ctx, args, true)

		case "unfav":
			err = a.SetFavorite(ctx, args, false)

		case "color":
			err = a.Color(ctx, args)

		case "mv":
			err = a.Move(ctx, args)

		case "rm":
			err = a.Remove(ctx, args)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if err != nil {
			if errors.Is(err, errUsage) {
				printlnFn(strings.Replace(err.Error(), "usage: ", "Usage: ", 1))
			} else {
				printlnFn("Error:", err)
			}
		}
	}
}
