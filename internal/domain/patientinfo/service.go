package patientinfo

import (
	"context"
	"fmt"
	"strings"
)

// Refresher recomputes one patient's summary from source records and
// reports the outcome (created, updated, skipped, not_found or error).
type Refresher interface {
	Refresh(ctx context.Context, personID int64, force bool) (string, error)
}

type Service struct {
	repo      Repository
	refresher Refresher
}

func NewService(repo Repository, refresher Refresher) *Service {
	return &Service{repo: repo, refresher: refresher}
}

func (s *Service) Get(ctx context.Context, personID int64) (*PatientInfo, error) {
	if personID <= 0 {
		return nil, fmt.Errorf("person_id must be positive")
	}
	return s.repo.GetByPersonID(ctx, personID)
}

// Query validates and normalizes f before listing. Rejected input wraps
// ErrInvalidFilter.
func (s *Service) Query(ctx context.Context, f Filter, limit, offset int) ([]*PatientInfo, int, error) {
	f.Disease = strings.TrimSpace(f.Disease)
	f.Gene = strings.ToLower(strings.TrimSpace(f.Gene))
	if f.Origin != "" {
		o, err := ParseOrigin(string(f.Origin))
		if err != nil {
			return nil, 0, fmt.Errorf("%w: %v", ErrInvalidFilter, err)
		}
		f.Origin = o
	}
	if f.Interpretation != "" {
		i, err := ParseInterpretation(string(f.Interpretation))
		if err != nil {
			return nil, 0, fmt.Errorf("%w: %v", ErrInvalidFilter, err)
		}
		f.Interpretation = i
	}
	if limit <= 0 {
		return nil, 0, fmt.Errorf("%w: limit must be positive", ErrInvalidFilter)
	}
	if offset < 0 {
		return nil, 0, fmt.Errorf("%w: offset must not be negative", ErrInvalidFilter)
	}
	return s.repo.List(ctx, f, limit, offset)
}

// Refresh forces a recompute for one patient and returns the stored result.
func (s *Service) Refresh(ctx context.Context, personID int64) (string, *PatientInfo, error) {
	if personID <= 0 {
		return "", nil, fmt.Errorf("person_id must be positive")
	}
	if s.refresher == nil {
		return "", nil, fmt.Errorf("refresh is not configured")
	}
	outcome, err := s.refresher.Refresh(ctx, personID, true)
	if err != nil {
		return outcome, nil, err
	}
	p, err := s.repo.GetByPersonID(ctx, personID)
	if err != nil {
		return outcome, nil, err
	}
	return outcome, p, nil
}
