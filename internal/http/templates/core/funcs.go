// Package core provides the template helpers every portal page can use.
package core

import (
	"bytes"
	"encoding/json"
	"errors"
	"html/template"
	"strings"
	"time"

	"github.com/medscan/portal/internal/domain/model"
	"github.com/medscan/portal/internal/http/uiutil"
)

// Deps holds optional dependencies for constructing the core template func map.
type Deps struct {
	Template           **template.Template
	ContentTemplateFor func(string) string
	Now                func() time.Time
}

// Funcs returns a template.FuncMap containing helpers that are broadly useful across templates.
func Funcs(deps Deps) template.FuncMap {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	funcs := template.FuncMap{
		"sectionTmpl":  deps.ContentTemplateFor,
		"friendlyTime": func(ts any) string { return uiutil.FormatFriendlyDateTime(timeOf(ts)) },
		"dateOnly":     func(ts any) string { return uiutil.FormatDate(timeOf(ts)) },
		"clock":        func(ts any) string { return uiutil.FormatClock(timeOf(ts)) },
		"ago":          func(ts any) string { return uiutil.FriendlyRelativeTime(timeOf(ts), now()) },
		"add":          func(a, b int) int { return a + b },
		"statusClass":  StatusClass,
		"truncateText": TruncateText,
		"lower":        strings.ToLower,
	}

	addRenderFuncs(funcs, deps)
	return funcs
}

func addRenderFuncs(funcs template.FuncMap, deps Deps) {
	funcs["renderSection"] = func(page string, data any) (template.HTML, error) {
		if deps.Template == nil || *deps.Template == nil {
			return "", errors.New("template not initialized")
		}
		var buf bytes.Buffer
		if err := (*deps.Template).ExecuteTemplate(&buf, deps.ContentTemplateFor(page), data); err != nil {
			return "", err
		}
		// #nosec G203 - rendered by our own html/template set; values were escaped during ExecuteTemplate.
		return template.HTML(buf.String()), nil
	}

	funcs["toJSON"] = func(v any) (string, error) {
		b, err := json.Marshal(v)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
}

// timeOf accepts the time shapes handlers put in page data.
func timeOf(ts any) time.Time {
	switch v := ts.(type) {
	case time.Time:
		return v
	case *time.Time:
		if v != nil {
			return *v
		}
	case model.Timestamp:
		return v.Time
	case *model.Timestamp:
		if v != nil {
			return v.Time
		}
	}
	return time.Time{}
}

// StatusClass maps an appointment status to its badge class.
func StatusClass(s model.AppointmentStatus) string {
	switch s {
	case model.AppointmentPending:
		return "badge-warning"
	case model.AppointmentConfirmed:
		return "badge-info"
	case model.AppointmentCompleted:
		return "badge-success"
	default:
		return "badge-light"
	}
}

// TruncateText truncates a string to a maximum number of runes (not bytes),
// ending with an ellipsis when it had to cut.
func TruncateText(s string, maxLen int) string {
	if maxLen <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen > 1 {
		return string(runes[:maxLen-1]) + "…"
	}
	return string(runes[:1])
}
