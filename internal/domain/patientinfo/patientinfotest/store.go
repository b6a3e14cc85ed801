// Package patientinfotest provides an in-memory patientinfo.Repository.
package patientinfotest

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"

	"github.com/ctomop/ctomop/internal/domain/patientinfo"
)

// Store keeps summaries as JSON so callers never share memory with it,
// the same as a round trip through the database.
type Store struct {
	mu   sync.Mutex
	rows map[int64][]byte

	// FailUpsert makes Upsert return Err for that person id.
	FailUpsert map[int64]error
	Upserts    int
}

func NewStore() *Store {
	return &Store{rows: make(map[int64][]byte), FailUpsert: make(map[int64]error)}
}

func (s *Store) Exists(_ context.Context, personID int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.rows[personID]
	return ok, nil
}

func (s *Store) Upsert(_ context.Context, p *patientinfo.PatientInfo) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.FailUpsert[p.PersonID]; err != nil {
		return err
	}
	if err := patientinfo.ValidateMutations(p.GeneticMutations); err != nil {
		return err
	}
	b, err := json.Marshal(p)
	if err != nil {
		return err
	}
	s.rows[p.PersonID] = b
	s.Upserts++
	return nil
}

// Raw returns the stored JSON for a person, or nil.
func (s *Store) Raw(personID int64) []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rows[personID]
}

func (s *Store) GetByPersonID(_ context.Context, personID int64) (*patientinfo.PatientInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.rows[personID]
	if !ok {
		return nil, patientinfo.ErrNotFound
	}
	return decode(b)
}

func (s *Store) List(_ context.Context, f patientinfo.Filter, limit, offset int) ([]*patientinfo.PatientInfo, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]int64, 0, len(s.rows))
	for id := range s.rows {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var matched []*patientinfo.PatientInfo
	for _, id := range ids {
		p, err := decode(s.rows[id])
		if err != nil {
			return nil, 0, err
		}
		if matches(p, f) {
			matched = append(matched, p)
		}
	}
	total := len(matched)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return matched[offset:end], total, nil
}

func decode(b []byte) (*patientinfo.PatientInfo, error) {
	var p patientinfo.PatientInfo
	if err := json.Unmarshal(b, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// matches mirrors the SQL filter: disease is a case-insensitive substring,
// mutation fields must all hold on a single mutation.
func matches(p *patientinfo.PatientInfo, f patientinfo.Filter) bool {
	if f.PersonID != nil && p.PersonID != *f.PersonID {
		return false
	}
	if f.Disease != "" {
		if p.Disease.Disease == nil || !strings.Contains(strings.ToLower(*p.Disease.Disease), strings.ToLower(f.Disease)) {
			return false
		}
	}
	if f.Gene == "" && f.Origin == "" && f.Interpretation == "" {
		return true
	}
	for _, m := range p.GeneticMutations {
		if (f.Gene == "" || m.Gene == f.Gene) &&
			(f.Origin == "" || m.Origin == f.Origin) &&
			(f.Interpretation == "" || m.Interpretation == f.Interpretation) {
			return true
		}
	}
	return false
}
