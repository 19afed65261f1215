package medscanapi

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/medscan/portal/internal/domain/model"
	apperrors "github.com/medscan/portal/internal/errors"
)

// SubmitScan posts the image as multipart fields "image" and "diseaseType".
// The scan service is public, so no token is sent.
func (cl *Client) SubmitScan(ctx context.Context, req model.ScanRequest) (model.ScanResult, error) {
	if cl.scanURL == "" {
		return model.ScanResult{}, apperrors.Internal("scan url is not configured")
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("image", req.FileName)
	if err != nil {
		return model.ScanResult{}, apperrors.Wrap(err, apperrors.ErrCodeInternal, "build scan form")
	}
	if _, err := part.Write(req.Image); err != nil {
		return model.ScanResult{}, apperrors.Wrap(err, apperrors.ErrCodeInternal, "build scan form")
	}
	if err := mw.WriteField("diseaseType", req.DiseaseType); err != nil {
		return model.ScanResult{}, apperrors.Wrap(err, apperrors.ErrCodeInternal, "build scan form")
	}
	if err := mw.Close(); err != nil {
		return model.ScanResult{}, apperrors.Wrap(err, apperrors.ErrCodeInternal, "build scan form")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, cl.scanURL, &buf)
	if err != nil {
		return model.ScanResult{}, apperrors.Wrap(err, apperrors.ErrCodeInternal, "create scan request")
	}
	httpReq.Header.Set("Content-Type", mw.FormDataContentType())
	httpReq.Header.Set("Accept", "application/json")

	body, err := cl.send(ctx, "submit_scan", httpReq)
	if err != nil {
		return model.ScanResult{}, err
	}

	if !json.Valid(body) {
		return model.ScanResult{}, apperrors.RemoteRejection(http.StatusOK, "scan service returned a non-JSON answer")
	}

	return model.ScanResult{
		DiseaseType: req.DiseaseType,
		Result:      json.RawMessage(bytes.Clone(body)),
		ReceivedAt:  time.Now().UTC(),
	}, nil
}
