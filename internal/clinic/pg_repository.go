package clinic

import (
	"context"
	"errors"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/claromed/clinic-api/internal/exams"
)

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

// Helpers

func scanPatient(row pgx.Row) (*Patient, error) {
	var p Patient
	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.CPF,
		&p.Gender,
		&p.BirthDate,
		&p.Phone,
		&p.Email,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPatientNotFound
		}
		return nil, err
	}
	return &p, nil
}

func scanDoctor(row pgx.Row) (*Doctor, error) {
	var d Doctor
	err := row.Scan(
		&d.ID,
		&d.Name,
		&d.CRM,
		&d.Specialty,
		&d.UnitID,
		&d.CreatedAt,
		&d.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrDoctorNotFound
		}
		return nil, err
	}
	return &d, nil
}

func scanUnit(row pgx.Row) (*Unit, error) {
	var u Unit
	err := row.Scan(
		&u.ID,
		&u.Name,
		&u.Address,
		&u.Phone,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUnitNotFound
		}
		return nil, err
	}
	return &u, nil
}

// scanProcedure decodes the exam_requirements JSONB column into typed rules
// and rejects malformed entries instead of passing untyped data upward.
func scanProcedure(row pgx.Row) (*Procedure, error) {
	var p Procedure
	var rawRules []byte

	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Description,
		&rawRules,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProcedureNotFound
		}
		return nil, err
	}

	if len(rawRules) > 0 {
		if err := json.Unmarshal(rawRules, &p.ExamRequirements); err != nil {
			return nil, fmt.Errorf("decode exam requirements for procedure %s: %w", p.ID, err)
		}
		for _, r := range p.ExamRequirements {
			if err := r.Validate(); err != nil {
				return nil, fmt.Errorf("procedure %s: %w", p.ID, err)
			}
		}
	}

	return &p, nil
}

func encodeRules(rules []exams.Rule) ([]byte, error) {
	for _, r := range rules {
		if err := r.Validate(); err != nil {
			return nil, err
		}
	}
	if rules == nil {
		rules = []exams.Rule{}
	}
	return json.Marshal(rules)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// Patients

func (r *PgRepository) CreatePatient(ctx context.Context, p Patient) (*Patient, error) {
	id := p.ID
	if id == uuid.Nil {
		id = uuid.New()
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO patients (id, name, cpf, gender, birth_date, phone, email, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now(), now())
		RETURNING id, name, cpf, gender, birth_date, phone, email, created_at, updated_at
	`, id, p.Name, p.CPF, p.Gender, p.BirthDate, p.Phone, p.Email)

	created, err := scanPatient(row)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateCPF
		}
		return nil, err
	}
	return created, nil
}

func (r *PgRepository) GetPatientByID(ctx context.Context, id uuid.UUID) (*Patient, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, name, cpf, gender, birth_date, phone, email, created_at, updated_at
		FROM patients
		WHERE id = $1
	`, id)
	return scanPatient(row)
}

func (r *PgRepository) GetPatientByCPF(ctx context.Context, cpf string) (*Patient, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, name, cpf, gender, birth_date, phone, email, created_at, updated_at
		FROM patients
		WHERE cpf = $1
	`, cpf)
	return scanPatient(row)
}

func (r *PgRepository) ListPatients(ctx context.Context, limit, offset int) ([]Patient, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, cpf, gender, birth_date, phone, email, created_at, updated_at
		FROM patients
		ORDER BY name
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Patient
	for rows.Next() {
		p, err := scanPatient(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *p)
	}
	return result, rows.Err()
}

func (r *PgRepository) UpdatePatient(ctx context.Context, p Patient) (*Patient, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE patients
		SET name = $2, cpf = $3, gender = $4, birth_date = $5, phone = $6, email = $7, updated_at = now()
		WHERE id = $1
		RETURNING id, name, cpf, gender, birth_date, phone, email, created_at, updated_at
	`, p.ID, p.Name, p.CPF, p.Gender, p.BirthDate, p.Phone, p.Email)

	updated, err := scanPatient(row)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateCPF
		}
		return nil, err
	}
	return updated, nil
}

func (r *PgRepository) DeletePatient(ctx context.Context, id uuid.UUID) error {
	return deleteByID(ctx, r.pool, "patients", id, ErrPatientNotFound)
}

// Doctors

func (r *PgRepository) CreateDoctor(ctx context.Context, d Doctor) (*Doctor, error) {
	id := d.ID
	if id == uuid.Nil {
		id = uuid.New()
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO doctors (id, name, crm, specialty, unit_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, now(), now())
		RETURNING id, name, crm, specialty, unit_id, created_at, updated_at
	`, id, d.Name, d.CRM, d.Specialty, d.UnitID)
	return scanDoctor(row)
}

func (r *PgRepository) GetDoctorByID(ctx context.Context, id uuid.UUID) (*Doctor, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, name, crm, specialty, unit_id, created_at, updated_at
		FROM doctors
		WHERE id = $1
	`, id)
	return scanDoctor(row)
}

func (r *PgRepository) ListDoctors(ctx context.Context) ([]Doctor, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, crm, specialty, unit_id, created_at, updated_at
		FROM doctors
		ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Doctor
	for rows.Next() {
		d, err := scanDoctor(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *d)
	}
	return result, rows.Err()
}

func (r *PgRepository) DeleteDoctor(ctx context.Context, id uuid.UUID) error {
	return deleteByID(ctx, r.pool, "doctors", id, ErrDoctorNotFound)
}

// Units

func (r *PgRepository) CreateUnit(ctx context.Context, u Unit) (*Unit, error) {
	id := u.ID
	if id == uuid.Nil {
		id = uuid.New()
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO units (id, name, address, phone, created_at, updated_at)
		VALUES ($1, $2, $3, $4, now(), now())
		RETURNING id, name, address, phone, created_at, updated_at
	`, id, u.Name, u.Address, u.Phone)
	return scanUnit(row)
}

func (r *PgRepository) GetUnitByID(ctx context.Context, id uuid.UUID) (*Unit, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, name, address, phone, created_at, updated_at
		FROM units
		WHERE id = $1
	`, id)
	return scanUnit(row)
}

func (r *PgRepository) ListUnits(ctx context.Context) ([]Unit, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, address, phone, created_at, updated_at
		FROM units
		ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Unit
	for rows.Next() {
		u, err := scanUnit(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *u)
	}
	return result, rows.Err()
}

func (r *PgRepository) DeleteUnit(ctx context.Context, id uuid.UUID) error {
	return deleteByID(ctx, r.pool, "units", id, ErrUnitNotFound)
}

// Procedures

func (r *PgRepository) CreateProcedure(ctx context.Context, p Procedure) (*Procedure, error) {
	id := p.ID
	if id == uuid.Nil {
		id = uuid.New()
	}

	rules, err := encodeRules(p.ExamRequirements)
	if err != nil {
		return nil, err
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO procedures (id, name, description, exam_requirements, created_at, updated_at)
		VALUES ($1, $2, $3, $4, now(), now())
		RETURNING id, name, description, exam_requirements, created_at, updated_at
	`, id, p.Name, p.Description, rules)
	return scanProcedure(row)
}

func (r *PgRepository) GetProcedureByID(ctx context.Context, id uuid.UUID) (*Procedure, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, name, description, exam_requirements, created_at, updated_at
		FROM procedures
		WHERE id = $1
	`, id)
	return scanProcedure(row)
}

func (r *PgRepository) ListProcedures(ctx context.Context) ([]Procedure, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, description, exam_requirements, created_at, updated_at
		FROM procedures
		ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Procedure
	for rows.Next() {
		p, err := scanProcedure(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *p)
	}
	return result, rows.Err()
}

func (r *PgRepository) UpdateProcedure(ctx context.Context, p Procedure) (*Procedure, error) {
	rules, err := encodeRules(p.ExamRequirements)
	if err != nil {
		return nil, err
	}

	row := r.pool.QueryRow(ctx, `
		UPDATE procedures
		SET name = $2, description = $3, exam_requirements = $4, updated_at = now()
		WHERE id = $1
		RETURNING id, name, description, exam_requirements, created_at, updated_at
	`, p.ID, p.Name, p.Description, rules)
	return scanProcedure(row)
}

func (r *PgRepository) DeleteProcedure(ctx context.Context, id uuid.UUID) error {
	return deleteByID(ctx, r.pool, "procedures", id, ErrProcedureNotFound)
}

func deleteByID(ctx context.Context, pool *pgxpool.Pool, table string, id uuid.UUID, notFound error) error {
	tag, err := pool.Exec(ctx, `DELETE FROM `+table+` WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return notFound
	}
	return nil
}
