package httpx

import (
	"context"
	"net/http"
	"strings"

	apperrors "github.com/medscan/portal/internal/errors"
)

// FormParser parses form data from an HTTP request.
type FormParser[T any] func(r *http.Request) (T, error)

// FormHandlerOpts contains all options needed to handle a form submission.
// It uses a single struct parameter to maintain the ≤3 parameters constraint.
type FormHandlerOpts[T any] struct {
	UI     *UIHandlers
	W      http.ResponseWriter
	R      *http.Request
	Parser FormParser[T]
	Submit func(ctx context.Context, form T) error
	// Success redirect URL and the flash key shown there
	SuccessURL string
	Flash      string
	// Page metadata for re-rendering on error
	PageMeta PageMeta
	// Optional: reloads page data (e.g. the doctor list) when the form is shown again
	Reload func(ctx context.Context, data map[string]any) error
}

// HandleForm parses, submits and redirects on success (post/redirect/get).
// On failure the page is rendered again with the submitted values under "Form"
// and the error message under "Error"; validation failures also set "ErrorField".
func HandleForm[T any](opts FormHandlerOpts[T]) {
	form, err := opts.Parser(opts.R)
	if err == nil {
		err = opts.Submit(opts.R.Context(), form)
	}
	if err == nil {
		seeOther(opts.W, opts.R, opts.SuccessURL, opts.Flash)
		return
	}

	opts.UI.logger().InfoContext(opts.R.Context(), "form submission rejected",
		"page", opts.PageMeta.CurrentPage,
		"error", err,
	)

	extra := map[string]any{"Form": form}
	if field := apperrors.GetField(err); field != "" {
		extra["ErrorField"] = field
	}
	if opts.Reload != nil {
		if rerr := opts.Reload(opts.R.Context(), extra); rerr != nil {
			opts.UI.logger().WarnContext(opts.R.Context(), "reload after form error failed", "error", rerr)
		}
	}
	opts.UI.renderForm(opts.W, opts.R, opts.PageMeta, extra, err)
}

// parseForm parses a urlencoded or multipart body.
func parseForm(r *http.Request) error {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			return apperrors.Wrap(err, apperrors.ErrCodeValidation, "could not read the submitted form")
		}
		return nil
	}
	if err := r.ParseForm(); err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeValidation, "could not read the submitted form")
	}
	return nil
}

// formValue returns a trimmed form field.
func formValue(r *http.Request, key string) string {
	return strings.TrimSpace(r.FormValue(key))
}
