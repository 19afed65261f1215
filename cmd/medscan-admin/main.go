package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"

	"github.com/medscan/portal/config"
	"github.com/medscan/portal/internal/bootstrap"
)

type commandFn func(ctx *commandContext, args []string) error

type command struct {
	name        string
	description string
	run         commandFn
}

type commandContext struct {
	Ctx    context.Context
	Logger *slog.Logger
	Config config.AppConfig
	Out    io.Writer
	In     io.Reader
}

func main() {
	logger := bootstrap.InitLogger()

	if len(os.Args) < 2 {
		if err := printUsage(os.Stdout); err != nil {
			logger.Error("print usage failed", "error", err)
		}
		os.Exit(2) //nolint:forbidigo // CLI must exit with failure status when no command is provided
	}

	cmdName := os.Args[1]
	cmd, ok := commands()[cmdName]
	if !ok {
		if err := writef(os.Stderr, "unknown command %q\n\n", cmdName); err != nil {
			logger.Error("print unknown command message failed", "error", err)
		}
		if err := printUsage(os.Stdout); err != nil {
			logger.Error("print usage failed", "error", err)
		}
		os.Exit(2) //nolint:forbidigo // CLI must exit with failure status when command is unknown
	}

	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		logger.ErrorContext(context.Background(), "load config", "error", err)
		os.Exit(1) //nolint:forbidigo // CLI must signal configuration load failure to shell scripts
	}
	bootstrap.ApplyLogLevel(&cfg)

	cmdCtx := &commandContext{
		Ctx:    context.Background(),
		Logger: logger,
		Config: cfg,
		Out:    os.Stdout,
		In:     os.Stdin,
	}
	if runErr := cmd.run(cmdCtx, os.Args[2:]); runErr != nil {
		logger.ErrorContext(cmdCtx.Ctx, "command failed", "command", cmdName, "error", runErr)
		os.Exit(1) //nolint:forbidigo // CLI must propagate command execution failure to callers
	}
}

func commands() map[string]command {
	return map[string]command{
		"login": {
			name:        "login",
			description: "Log in against the MedScan API and store the session",
			run:         runLogin,
		},
		"logout": {
			name:        "logout",
			description: "Remove the stored session",
			run:         runLogout,
		},
		"whoami": {
			name:        "whoami",
			description: "Show the user, role and token expiry of the stored session",
			run:         runWhoami,
		},
		"session-show": {
			name:        "session-show",
			description: "Print the raw persisted session keys (token masked)",
			run:         runSessionShow,
		},
		"session-clear": {
			name:        "session-clear",
			description: "Delete every persisted session key without calling the API",
			run:         runSessionClear,
		},
		"notifications": {
			name:        "notifications",
			description: "List notifications for the logged-in user",
			run:         runNotifications,
		},
		"appointments": {
			name:        "appointments",
			description: "List appointments for the logged-in user",
			run:         runAppointments,
		},
		"doctors": {
			name:        "doctors",
			description: "List doctors from the public directory",
			run:         runDoctors,
		},
	}
}

func printUsage(w io.Writer) error {
	if err := writef(w, "Usage: medscan-admin <command> [flags]\n\n"); err != nil {
		return err
	}
	if err := writef(w, "Available commands:\n"); err != nil {
		return err
	}
	cmds := commands()
	names := make([]string, 0, len(cmds))
	for name := range cmds {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := writef(w, "  %-16s %s\n", name, cmds[name].description); err != nil {
			return err
		}
	}
	return nil
}

// confirm asks a yes/no question on in. Anything but y or yes aborts.
func confirm(out io.Writer, in io.Reader, question string) error {
	if err := writef(out, "%s [y/N]: ", question); err != nil {
		return fmt.Errorf("print confirmation prompt: %w", err)
	}
	resp, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("read confirmation: %w", err)
	}
	resp = strings.ToLower(strings.TrimSpace(resp))
	if resp == "y" || resp == "yes" {
		return nil
	}
	return errors.New("aborted by user")
}

func writef(w io.Writer, format string, args ...any) error {
	_, err := fmt.Fprintf(w, format, args...)
	return err
}

func writeln(w io.Writer, args ...any) error {
	_, err := fmt.Fprintln(w, args...)
	return err
}
