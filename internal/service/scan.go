package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/medscan/portal/internal/domain/model"
	"github.com/medscan/portal/internal/ports"
)

// ScanServiceOptions groups dependencies for ScanService.
type ScanServiceOptions struct {
	API     ports.ScanAPI  // Required
	Session SessionWatcher // Optional: clears the last result on logout
	Logger  *slog.Logger   // Optional
}

// ScanService submits images to the inference service and keeps the latest result for display.
type ScanService struct {
	api     ports.ScanAPI
	session SessionWatcher
	logger  *slog.Logger

	mu   sync.RWMutex
	last *model.ScanResult
}

// NewScanService constructs a new ScanService.
func NewScanService(opts ScanServiceOptions) *ScanService {
	if opts.API == nil {
		panic("ScanService requires an API")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &ScanService{api: opts.API, session: opts.Session, logger: logger.With("component", "scan")}
}

// Submit sends the image and remembers the answer. Disease type and image are both required.
func (s *ScanService) Submit(ctx context.Context, req model.ScanRequest) (model.ScanResult, error) {
	req.DiseaseType = strings.TrimSpace(req.DiseaseType)
	if err := model.Validate(req); err != nil {
		return model.ScanResult{}, err
	}

	res, err := s.api.SubmitScan(ctx, req)
	if err != nil {
		return model.ScanResult{}, fmt.Errorf("submit scan: %w", err)
	}

	s.mu.Lock()
	s.last = &res
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "scan completed", "disease_type", req.DiseaseType, "bytes", len(req.Image))
	return res, nil
}

// Last returns the most recent result, if any.
func (s *ScanService) Last() (model.ScanResult, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.last == nil {
		return model.ScanResult{}, false
	}
	return *s.last, true
}

// Clear forgets the last result.
func (s *ScanService) Clear() {
	s.mu.Lock()
	s.last = nil
	s.mu.Unlock()
}

// Run clears the last result whenever the session logs out. It returns when ctx ends.
func (s *ScanService) Run(ctx context.Context) error {
	if s.session == nil {
		<-ctx.Done()
		return nil
	}
	sessions, cancel := s.session.Subscribe()
	defer cancel()

	for {
		select {
		case <-ctx.Done():
			return nil
		case sess, ok := <-sessions:
			if !ok {
				return nil
			}
			if !sess.IsLoading && sess.User == nil {
				s.Clear()
			}
		}
	}
}
