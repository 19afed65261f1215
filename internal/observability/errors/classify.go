// Package errors maps errors to the small, fixed set of classes used as metric labels.
package errors

import (
	"context"
	goerrors "errors"
	"net"

	apperrors "github.com/medscan/portal/internal/errors"
)

// ClassOther is reported for errors that carry no recognizable classification.
const ClassOther = "other"

// Classify returns the label class for err: the AppError code when there is one,
// then context and net errors, then ClassOther. nil classifies as "".
func Classify(err error) string {
	switch {
	case err == nil:
		return ""
	case apperrors.GetCode(err) != "":
		return string(apperrors.GetCode(err))
	case goerrors.Is(err, context.Canceled):
		return string(apperrors.ErrCodeCanceled)
	case goerrors.Is(err, context.DeadlineExceeded):
		return string(apperrors.ErrCodeTimeout)
	}

	var netErr net.Error
	if goerrors.As(err, &netErr) {
		if netErr.Timeout() {
			return string(apperrors.ErrCodeTimeout)
		}
		return string(apperrors.ErrCodeNetwork)
	}
	return ClassOther
}
