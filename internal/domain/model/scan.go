package model

import (
	"encoding/json"
	"time"
)

// Disease types accepted by the scan service.
var DiseaseTypes = []string{"Brain Tumor", "Skin Cancer"}

// ScanRequest is an image submission.
type ScanRequest struct {
	DiseaseType string `validate:"required,oneof='Brain Tumor' 'Skin Cancer'"`
	FileName    string `validate:"required"`
	Image       []byte `validate:"required,min=1"`
}

// ScanResult is the inference service's answer. Result holds the raw JSON document.
type ScanResult struct {
	DiseaseType string          `json:"diseaseType"`
	Result      json.RawMessage `json:"result"`
	ReceivedAt  time.Time       `json:"receivedAt"`
}

// Fields decodes Result as an object for display; non-object results yield nil.
func (r ScanResult) Fields() map[string]any {
	var m map[string]any
	if err := json.Unmarshal(r.Result, &m); err != nil {
		return nil
	}
	return m
}
