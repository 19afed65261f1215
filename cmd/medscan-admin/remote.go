package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/medscan/portal/internal/domain/model"
)

type notificationsOptions struct {
	JSON        bool
	MarkAllRead bool
}

func runNotifications(cmdCtx *commandContext, args []string) error {
	fs := flag.NewFlagSet("notifications", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	var opts notificationsOptions
	fs.BoolVar(&opts.JSON, "json", false, "Print raw JSON")
	fs.BoolVar(&opts.MarkAllRead, "mark-all-read", false, "Mark every notification as read after listing")
	if err := fs.Parse(args); err != nil {
		return err
	}

	return withPortal(cmdCtx, func(p *portalHandle) error {
		if err := requireLogin(p); err != nil {
			return err
		}
		list, err := p.Services.API.ListNotifications(cmdCtx.Ctx)
		if err != nil {
			return err
		}

		if opts.JSON {
			if err := printJSON(cmdCtx.Out, list); err != nil {
				return err
			}
		} else if err := printNotifications(cmdCtx.Out, list); err != nil {
			return err
		}

		if opts.MarkAllRead && len(list) > 0 {
			if err := p.Services.API.MarkAllNotificationsRead(cmdCtx.Ctx); err != nil {
				return err
			}
			cmdCtx.Logger.Info("notifications marked read", "count", len(list))
		}
		return nil
	})
}

func printNotifications(w io.Writer, list []model.Notification) error {
	if len(list) == 0 {
		return writeln(w, "(no notifications)")
	}
	unread := 0
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if err := writef(tw, "ID\tREAD\tCREATED\tTITLE\n"); err != nil {
		return fmt.Errorf("print notifications header: %w", err)
	}
	for _, n := range list {
		read := "no"
		if n.IsRead {
			read = "yes"
		} else {
			unread++
		}
		if err := writef(tw, "%s\t%s\t%s\t%s\n", n.ID, read, formatTime(n.CreatedAt.Time), n.Title); err != nil {
			return fmt.Errorf("print notification: %w", err)
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	return writef(w, "\nTotal: %d (unread: %d)\n", len(list), unread)
}

type appointmentsOptions struct {
	Status string
	Search string
	Date   string
	JSON   bool
}

func runAppointments(cmdCtx *commandContext, args []string) error {
	fs := flag.NewFlagSet("appointments", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	var opts appointmentsOptions
	fs.StringVar(&opts.Status, "status", "", "Only show this status (pending, confirmed, completed)")
	fs.StringVar(&opts.Search, "search", "", "Match patient name or appointment type")
	fs.StringVar(&opts.Date, "date", string(model.DateAll), "Date window: all, today, tomorrow, week, past")
	fs.BoolVar(&opts.JSON, "json", false, "Print raw JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}

	return withPortal(cmdCtx, func(p *portalHandle) error {
		if err := requireLogin(p); err != nil {
			return err
		}
		all, err := p.Services.Appointments.List(cmdCtx.Ctx)
		if err != nil {
			return err
		}
		list := p.Services.Appointments.Filter(all, model.AppointmentFilter{
			Search: opts.Search,
			Status: opts.Status,
			Date:   model.DateFilter(opts.Date),
		})

		if opts.JSON {
			return printJSON(cmdCtx.Out, list)
		}
		return printAppointments(cmdCtx.Out, list, len(all))
	})
}

func printAppointments(w io.Writer, list []model.Appointment, total int) error {
	if len(list) == 0 {
		return writeln(w, "(no appointments)")
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if err := writef(tw, "ID\tWHEN\tSTATUS\tDOCTOR\tPATIENT\tTYPE\n"); err != nil {
		return fmt.Errorf("print appointments header: %w", err)
	}
	for _, a := range list {
		if err := writef(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			a.ID, formatTime(a.AppointmentDate.Time), a.Status, a.DoctorName, a.PatientName, a.TypeLabel()); err != nil {
			return fmt.Errorf("print appointment: %w", err)
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	return writef(w, "\nShowing %d of %d\n", len(list), total)
}

func runDoctors(cmdCtx *commandContext, args []string) error {
	fs := flag.NewFlagSet("doctors", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	asJSON := fs.Bool("json", false, "Print raw JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}

	return withPortal(cmdCtx, func(p *portalHandle) error {
		doctors, err := p.Services.Directory.Doctors(cmdCtx.Ctx)
		if err != nil {
			return err
		}
		if *asJSON {
			return printJSON(cmdCtx.Out, doctors)
		}
		if len(doctors) == 0 {
			return writeln(cmdCtx.Out, "(no doctors listed)")
		}
		tw := tabwriter.NewWriter(cmdCtx.Out, 0, 0, 2, ' ', 0)
		if err := writef(tw, "ID\tNAME\tSPECIALIZATION\n"); err != nil {
			return fmt.Errorf("print doctors header: %w", err)
		}
		for _, d := range doctors {
			if err := writef(tw, "%s\tDr. %s\t%s\n", d.ID, d.FullName(), d.Specialization); err != nil {
				return fmt.Errorf("print doctor: %w", err)
			}
		}
		return tw.Flush()
	})
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.UTC().Format("2006-01-02 15:04")
}
