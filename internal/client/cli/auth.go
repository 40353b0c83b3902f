package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/portfolio/internal/client/client"
	"github.com/dmitrijs2005/portfolio/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Login prompts for the admin password and exchanges it for a session
// token. The password is wiped before returning.
func (a *App) Login(ctx context.Context, _ []string) error {
	if a.auth == nil {
		return client.ErrLocalMode
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	expires, err := a.auth.Login(ctx, string(password))
	if err != nil {
		a.log.Warn(ctx, "login unsuccessful", "error", err)
		return err
	}

	fmt.Fprintf(a.out, "Logged in until %s\n", expires.Local().Format("2006-01-02 15:04"))
	return nil
}

// Logout forgets the session token.
func (a *App) Logout(_ context.Context, _ []string) error {
	if a.auth == nil {
		return client.ErrLocalMode
	}
	a.auth.Logout()
	fmt.Fprintln(a.out, "Logged out")
	return nil
}
