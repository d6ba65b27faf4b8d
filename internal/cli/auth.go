package cli

import (
	"context"
	"fmt"

	"taskpilot/internal/models"
	"taskpilot/internal/services"
)

func (a *App) cmdLogin(ctx context.Context) {
	if a.isLoggedIn() {
		fmt.Fprintln(a.out, "Already logged in. Use 'logout' first.")
		return
	}

	email, err := GetSimpleText(a.reader, "Email", a.out)
	if err != nil {
		fmt.Fprintf(a.out, "Error: %v\n", err)
		return
	}
	password, err := GetPassword("Password", a.out)
	if err != nil {
		fmt.Fprintf(a.out, "Error: %v\n", err)
		return
	}

	if err := a.session.Login(ctx, email, password); err != nil {
		fmt.Fprintf(a.out, "Login failed: %v\n", err)
		return
	}
	a.enterSession(ctx)
}

func (a *App) cmdSignup(ctx context.Context) {
	if a.isLoggedIn() {
		fmt.Fprintln(a.out, "Already logged in. Use 'logout' first.")
		return
	}

	email, err := GetSimpleText(a.reader, "Email", a.out)
	if err != nil {
		fmt.Fprintf(a.out, "Error: %v\n", err)
		return
	}
	password, err := GetPassword("Password", a.out)
	if err != nil {
		fmt.Fprintf(a.out, "Error: %v\n", err)
		return
	}
	confirm, err := GetPassword("Confirm password", a.out)
	if err != nil {
		fmt.Fprintf(a.out, "Error: %v\n", err)
		return
	}
	if password != confirm {
		fmt.Fprintf(a.out, "Signup failed: %v\n",
			services.NewValidationError("password", "confirmation does not match"))
		return
	}

	if err := a.session.Signup(ctx, email, password); err != nil {
		fmt.Fprintf(a.out, "Signup failed: %v\n", err)
		return
	}
	a.enterSession(ctx)
}

// enterSession performs the post-authentication sequence shared by login and
// signup: load the task collection and any persisted conversation, then show
// the task list.
func (a *App) enterSession(ctx context.Context) {
	fmt.Fprintf(a.out, "Logged in as %s\n", a.session.User().Email)

	if _, err := a.tasks.List(ctx); err != nil {
		a.handleAPIError(ctx, err)
		return
	}
	if err := a.chat.LoadHistory(ctx); err != nil {
		a.handleAPIError(ctx, err)
	}
	a.renderCurrent()
}

func (a *App) cmdLogout(ctx context.Context) {
	if !a.isLoggedIn() {
		fmt.Fprintln(a.out, "Not logged in.")
		return
	}
	if err := a.session.Logout(ctx); err != nil {
		a.log.Warn(ctx, "logout cleanup failed", "error", err)
	}
	a.search = ""
	a.status = models.FilterAll
	fmt.Fprintln(a.out, "Logged out.")
}

func (a *App) cmdWhoAmI() {
	u := a.session.User()
	if u == nil {
		fmt.Fprintln(a.out, "Not logged in.")
		return
	}
	fmt.Fprintf(a.out, "Email: %s\n", u.Email)
	if u.Name != "" {
		fmt.Fprintf(a.out, "Name:  %s\n", u.Name)
	}
	fmt.Fprintf(a.out, "Since: %s\n", u.CreatedAt.Format("2006-01-02"))
}
