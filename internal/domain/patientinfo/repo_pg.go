package patientinfo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ctomop/ctomop/internal/platform/db"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

func (r *repoPG) conn(ctx context.Context) db.Querier {
	return db.Conn(ctx, r.pool)
}

var columnNames = func() []string {
	var p PatientInfo
	cols := p.columns()
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.name
	}
	return names
}()

var selectCols = "person_id, " + strings.Join(columnNames, ", ") + ", last_updated"

// upsertSQL is built once from the column map so the statement and the
// argument order cannot drift apart.
var upsertSQL = func() string {
	placeholders := make([]string, len(columnNames)+2)
	for i := range placeholders {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}
	updates := make([]string, 0, len(columnNames)+1)
	for _, n := range columnNames {
		updates = append(updates, n+" = EXCLUDED."+n)
	}
	updates = append(updates, "last_updated = EXCLUDED.last_updated")
	return `INSERT INTO patient_info (` + selectCols + `)
		VALUES (` + strings.Join(placeholders, ",") + `)
		ON CONFLICT (person_id) DO UPDATE SET ` + strings.Join(updates, ", ")
}()

func scanPatientInfo(row pgx.Row) (*PatientInfo, error) {
	var p PatientInfo
	cols := p.columns()
	var mutations []byte
	dest := make([]interface{}, 0, len(cols)+2)
	dest = append(dest, &p.PersonID)
	for _, c := range cols {
		if c.name == "genetic_mutations" {
			dest = append(dest, &mutations)
			continue
		}
		dest = append(dest, c.ptr)
	}
	dest = append(dest, &p.LastUpdated)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	ms, err := DecodeMutations(mutations)
	if err != nil {
		return nil, fmt.Errorf("person %d: %w", p.PersonID, err)
	}
	p.GeneticMutations = ms
	return &p, nil
}

func (r *repoPG) Exists(ctx context.Context, personID int64) (bool, error) {
	var exists bool
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM patient_info WHERE person_id = $1)`, personID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check patient info %d: %w", personID, err)
	}
	return exists, nil
}

func (r *repoPG) Upsert(ctx context.Context, p *PatientInfo) error {
	if err := ValidateMutations(p.GeneticMutations); err != nil {
		return fmt.Errorf("upsert patient info %d: %w", p.PersonID, err)
	}
	if p.GeneticMutations == nil {
		p.GeneticMutations = []GeneticMutation{}
	}
	cols := p.columns()
	args := make([]interface{}, 0, len(cols)+2)
	args = append(args, p.PersonID)
	for _, c := range cols {
		args = append(args, reflect.ValueOf(c.ptr).Elem().Interface())
	}
	args = append(args, p.LastUpdated)

	if _, err := r.conn(ctx).Exec(ctx, upsertSQL, args...); err != nil {
		return fmt.Errorf("upsert patient info %d: %w", p.PersonID, err)
	}
	return nil
}

func (r *repoPG) GetByPersonID(ctx context.Context, personID int64) (*PatientInfo, error) {
	p, err := scanPatientInfo(r.conn(ctx).QueryRow(ctx,
		`SELECT `+selectCols+` FROM patient_info WHERE person_id = $1`, personID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get patient info %d: %w", personID, err)
	}
	return p, nil
}

// whereClause renders f as SQL conditions. Mutation filters use JSONB
// containment so the GIN index on genetic_mutations applies.
func whereClause(f Filter) (string, []interface{}, error) {
	var conds []string
	var args []interface{}
	if f.PersonID != nil {
		args = append(args, *f.PersonID)
		conds = append(conds, fmt.Sprintf("person_id = $%d", len(args)))
	}
	if f.Disease != "" {
		args = append(args, f.Disease)
		conds = append(conds, fmt.Sprintf("disease ILIKE '%%' || $%d || '%%'", len(args)))
	}
	if f.Gene != "" || f.Origin != "" || f.Interpretation != "" {
		probe := map[string]string{}
		if f.Gene != "" {
			probe["gene"] = strings.ToLower(f.Gene)
		}
		if f.Origin != "" {
			probe["origin"] = string(f.Origin)
		}
		if f.Interpretation != "" {
			probe["interpretation"] = string(f.Interpretation)
		}
		b, err := json.Marshal([]map[string]string{probe})
		if err != nil {
			return "", nil, err
		}
		args = append(args, string(b))
		conds = append(conds, fmt.Sprintf("genetic_mutations @> $%d::jsonb", len(args)))
	}
	if len(conds) == 0 {
		return "", args, nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args, nil
}

func (r *repoPG) List(ctx context.Context, f Filter, limit, offset int) ([]*PatientInfo, int, error) {
	where, args, err := whereClause(f)
	if err != nil {
		return nil, 0, err
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM patient_info`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count patient info: %w", err)
	}

	n := len(args)
	rows, err := r.conn(ctx).Query(ctx, fmt.Sprintf(`SELECT %s FROM patient_info%s ORDER BY person_id LIMIT $%d OFFSET $%d`,
		selectCols, where, n+1, n+2), append(args, limit, offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("list patient info: %w", err)
	}
	defer rows.Close()

	var items []*PatientInfo
	for rows.Next() {
		p, err := scanPatientInfo(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, p)
	}
	return items, total, rows.Err()
}
