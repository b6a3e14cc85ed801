package patientinfo

import "context"

type Repository interface {
	Exists(ctx context.Context, personID int64) (bool, error)
	// Upsert inserts or overwrites the summary keyed by PersonID.
	Upsert(ctx context.Context, p *PatientInfo) error
	GetByPersonID(ctx context.Context, personID int64) (*PatientInfo, error)
	List(ctx context.Context, f Filter, limit, offset int) ([]*PatientInfo, int, error)
}
