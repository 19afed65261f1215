package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"golang.org/x/term"

	domainauth "github.com/medscan/portal/internal/domain/auth"
	"github.com/medscan/portal/internal/domain/nav"
)

type loginOptions struct {
	Email    string
	Password string
}

func parseLoginFlags(args []string) (loginOptions, error) {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var opts loginOptions
	fs.StringVar(&opts.Email, "email", "", "Account email (required)")
	fs.StringVar(&opts.Password, "password", "", "Password (defaults to $MEDSCAN_PASSWORD, then a prompt)")

	if err := fs.Parse(args); err != nil {
		return loginOptions{}, err
	}
	if strings.TrimSpace(opts.Email) == "" {
		return loginOptions{}, errors.New("--email is required")
	}
	if opts.Password == "" {
		opts.Password = os.Getenv("MEDSCAN_PASSWORD")
	}
	return opts, nil
}

func runLogin(cmdCtx *commandContext, args []string) error {
	opts, err := parseLoginFlags(args)
	if err != nil {
		return err
	}
	if opts.Password == "" {
		if opts.Password, err = promptPassword(cmdCtx, "Password: "); err != nil {
			return err
		}
	}

	return withPortal(cmdCtx, func(p *portalHandle) error {
		res, err := p.Services.Auth.Login(cmdCtx.Ctx, opts.Email, opts.Password)
		if err != nil {
			return err
		}
		return writef(cmdCtx.Out, "Logged in as %s (%s). Landing page: %s\n", res.UserName, res.Role, res.LandingPath)
	})
}

func promptLine(cmdCtx *commandContext, prompt string) (string, error) {
	if err := writef(cmdCtx.Out, "%s", prompt); err != nil {
		return "", fmt.Errorf("print prompt: %w", err)
	}
	line, err := bufio.NewReader(cmdCtx.In).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// Terminal hooks, replaced in tests.
//
//nolint:gochecknoglobals // test seams for the TTY password prompt
var (
	isTerminal   = term.IsTerminal
	readPassword = term.ReadPassword
)

// promptPassword reads without echo when stdin is a terminal and falls back to a plain line otherwise.
func promptPassword(cmdCtx *commandContext, prompt string) (string, error) {
	f, ok := cmdCtx.In.(*os.File)
	if !ok || !isTerminal(int(f.Fd())) {
		return promptLine(cmdCtx, prompt)
	}
	if err := writef(cmdCtx.Out, "%s", prompt); err != nil {
		return "", fmt.Errorf("print prompt: %w", err)
	}
	b, err := readPassword(int(f.Fd()))
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	// The terminal swallowed the user's enter key.
	if err := writeln(cmdCtx.Out); err != nil {
		return "", fmt.Errorf("print prompt: %w", err)
	}
	return string(b), nil
}

func runLogout(cmdCtx *commandContext, _ []string) error {
	return withPortal(cmdCtx, func(p *portalHandle) error {
		if err := p.Services.Auth.Logout(cmdCtx.Ctx); err != nil {
			return err
		}
		return writeln(cmdCtx.Out, "Logged out.")
	})
}

func runWhoami(cmdCtx *commandContext, _ []string) error {
	return withPortal(cmdCtx, func(p *portalHandle) error {
		return printSession(cmdCtx, p.Services.Session.Snapshot())
	})
}

func printSession(cmdCtx *commandContext, sess domainauth.Session) error {
	if !sess.IsAuthenticated {
		return writeln(cmdCtx.Out, "Not logged in.")
	}

	expires := "never (opaque token)"
	if !sess.ExpiresAt.IsZero() {
		expires = sess.ExpiresAt.UTC().Format(time.RFC3339)
	}

	tw := tabwriter.NewWriter(cmdCtx.Out, 0, 0, 2, ' ', 0)
	rows := [][2]string{
		{"User", sess.DisplayName()},
		{"Role", string(sess.Role)},
		{"Landing page", nav.LandingPath(sess.Role)},
		{"Token expires", expires},
	}
	for _, r := range rows {
		if err := writef(tw, "%s:\t%s\n", r[0], r[1]); err != nil {
			return fmt.Errorf("print session: %w", err)
		}
	}
	return tw.Flush()
}

type sessionShowOptions struct {
	RevealToken bool
}

func runSessionShow(cmdCtx *commandContext, args []string) error {
	fs := flag.NewFlagSet("session-show", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	var opts sessionShowOptions
	fs.BoolVar(&opts.RevealToken, "reveal-token", false, "Print the bearer token in full")
	if err := fs.Parse(args); err != nil {
		return err
	}

	return withPortal(cmdCtx, func(p *portalHandle) error {
		rec, err := p.Repo.Load(cmdCtx.Ctx)
		if err != nil {
			return err
		}
		if rec.IsEmpty() {
			return writeln(cmdCtx.Out, "(no session stored)")
		}

		token := rec.Token
		if !opts.RevealToken {
			token = maskToken(token)
		}

		tw := tabwriter.NewWriter(cmdCtx.Out, 0, 0, 2, ' ', 0)
		if err := writef(tw, "KEY\tVALUE\n"); err != nil {
			return fmt.Errorf("print session header: %w", err)
		}
		rows := [][2]string{
			{domainauth.KeyAuth, rec.Auth},
			{domainauth.KeyUserName, rec.UserName},
			{domainauth.KeyUserRole, rec.Role},
			{domainauth.KeyToken, token},
		}
		for _, r := range rows {
			value := r[1]
			if value == "" {
				value = "(absent)"
			}
			if err := writef(tw, "%s\t%s\n", r[0], value); err != nil {
				return fmt.Errorf("print session key: %w", err)
			}
		}
		return tw.Flush()
	})
}

// maskToken keeps the first four characters of longer tokens.
func maskToken(token string) string {
	switch {
	case token == "":
		return ""
	case len(token) <= 8:
		return "****"
	default:
		return token[:4] + "****"
	}
}

func runSessionClear(cmdCtx *commandContext, args []string) error {
	fs := flag.NewFlagSet("session-clear", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	yes := fs.Bool("yes", false, "Skip confirmation prompt")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if !*yes {
		if err := confirm(cmdCtx.Out, cmdCtx.In, "Delete the stored session?"); err != nil {
			return err
		}
	}

	return withPortal(cmdCtx, func(p *portalHandle) error {
		if err := p.Repo.Clear(cmdCtx.Ctx); err != nil {
			return err
		}
		cmdCtx.Logger.Info("session cleared", "backend", cmdCtx.Config.Session.Backend)
		return writeln(cmdCtx.Out, "Session cleared.")
	})
}
