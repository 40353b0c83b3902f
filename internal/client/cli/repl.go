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
	Login(ctx context.Context, args []string) error
	Logout(ctx context.Context, args []string) error
	Show(ctx context.Context, args []string) error
	Edit(ctx context.Context, args []string) error
	Export(ctx context.Context, args []string) error
	Import(ctx context.Context, args []string) error
	Reset(ctx context.Context, args []string) error
	Resumes(ctx context.Context, args []string) error
	Upload(ctx context.Context, args []string) error
	Download(ctx context.Context, args []string) error
	Delete(ctx context.Context, args []string) error
	Rename(ctx context.Context, args []string) error
	Migrate(ctx context.Context, args []string) error
	SyncCloud(ctx context.Context, args []string) error
	Cert(ctx context.Context, args []string) error
	Status(ctx context.Context, args []string) error
}

const helpText = `Available commands:
  show [section]           print a section, or a summary of all sections
  edit <section>           replace a section with JSON typed on the following lines
  export [dir]             write a dated JSON backup
  import <file>            replace all data with a JSON backup
  reset                    restore the built-in defaults
  resumes                  list resumes
  upload <path>            upload a resume (cloud when available)
  download <id> [dir]      save a resume's file
  rename <id>              change a resume's name and description
  delete <id>              delete a resume
  migrate                  move local resumes to cloud storage
  synccloud                import bucket files that have no record
  cert upload <path> [n]   upload a certificate file, optionally attaching it to certification n
  cert delete <file>       delete a certificate file
  status                   show connectivity and cache state
  login | logout           admin session (remote backend)
  exit | quit              leave the program`

// runREPL starts a simple read–eval–print loop for the admin CLI.
//
// It reads a line from r, parses the first token as the command and the rest
// as its arguments, and dispatches to methods on a. Errors returned by
// handlers are printed and the loop continues. The loop exits on EOF or when
// the user types "exit" or "quit".
func runREPL(ctx context.Context, a execIface, statusFn func() string, r *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("portfolio %s > ", statusFn()))

		line, err := r.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		var cmdErr error
		switch cmd {
		case "help":
			printlnFn(helpText)
			if !a.isLoggedIn() {
				printlnFn("Changes to a remote server require 'login' first.")
			}

		case "login":
			cmdErr = a.Login(ctx, args)
		case "logout":
			cmdErr = a.Logout(ctx, args)
		case "show":
			cmdErr = a.Show(ctx, args)
		case "edit":
			cmdErr = a.Edit(ctx, args)
		case "export":
			cmdErr = a.Export(ctx, args)
		case "import":
			cmdErr = a.Import(ctx, args)
		case "reset":
			cmdErr = a.Reset(ctx, args)
		case "resumes", "l", "list":
			cmdErr = a.Resumes(ctx, args)
		case "upload":
			cmdErr = a.Upload(ctx, args)
		case "download":
			cmdErr = a.Download(ctx, args)
		case "delete":
			cmdErr = a.Delete(ctx, args)
		case "rename":
			cmdErr = a.Rename(ctx, args)
		case "migrate":
			cmdErr = a.Migrate(ctx, args)
		case "synccloud":
			cmdErr = a.SyncCloud(ctx, args)
		case "cert":
			cmdErr = a.Cert(ctx, args)
		case "status":
			cmdErr = a.Status(ctx, args)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if cmdErr != nil {
			printlnFn("Error:", cmdErr)
		}
		if err != nil {
			return
		}
	}
}
