package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"

	"github.com/claromed/clinic-api/internal/db"
	"github.com/claromed/clinic-api/internal/exams"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("seed starting")

	dsn := os.Getenv("POSTGRES_DSN")
	if dsn == "" {
		log.Fatal("POSTGRES_DSN is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := db.ConnectPostgres(ctx, dsn)
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	gofakeit.Seed(time.Now().UnixNano())

	if err := seedAdmin(context.Background(), pool); err != nil {
		log.Fatalf("seed admin: %v", err)
	}

	unitIDs, err := seedUnits(context.Background(), pool, 3)
	if err != nil {
		log.Fatalf("seed units: %v", err)
	}
	if err := seedDoctors(context.Background(), pool, unitIDs, 20); err != nil {
		log.Fatalf("seed doctors: %v", err)
	}
	if err := seedPatients(context.Background(), pool, 5000); err != nil {
		log.Fatalf("seed patients: %v", err)
	}
	if err := seedProcedures(context.Background(), pool); err != nil {
		log.Fatalf("seed procedures: %v", err)
	}

	log.Println("seed complete")
}

func seedUnits(ctx context.Context, pool *pgxpool.Pool, count int) ([]uuid.UUID, error) {
	log.Printf("seeding %d units", count)

	ids := make([]uuid.UUID, 0, count)

	tx, err := pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	for i := 0; i < count; i++ {
		id := uuid.New()
		name := "Unidade " + gofakeit.City()
		address := gofakeit.Street() + ", " + gofakeit.City()
		phone := gofakeit.Phone()

		_, err := tx.Exec(ctx, `
			INSERT INTO units (id, name, address, phone, created_at, updated_at)
			VALUES ($1, $2, $3, $4, now(), now())
		`, id, name, address, phone)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	log.Println("units seeded")
	return ids, nil
}

func seedDoctors(ctx context.Context, pool *pgxpool.Pool, unitIDs []uuid.UUID, count int) error {
	log.Printf("seeding %d doctors", count)

	specialties := []string{
		"Oftalmologia",
		"Cardiologia",
		"Clínica Geral",
		"Dermatologia",
		"Ortopedia",
		"Endocrinologia",
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for i := 0; i < count; i++ {
		id := uuid.New()
		name := "Dr. " + gofakeit.Name()
		crm := gofakeit.Numerify("CRM/SP ######")
		specialty := specialties[gofakeit.Number(0, len(specialties)-1)]
		unitID := unitIDs[gofakeit.Number(0, len(unitIDs)-1)]

		_, err := tx.Exec(ctx, `
			INSERT INTO doctors (id, name, crm, specialty, unit_id, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, now(), now())
		`, id, name, crm, specialty, unitID)
		if err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	log.Println("doctors seeded")
	return nil
}

func seedPatients(ctx context.Context, pool *pgxpool.Pool, count int) error {
	log.Printf("seeding %d patients", count)

	const batchSize = 500
	genders := []string{"male", "female"}

	for offset := 0; offset < count; offset += batchSize {
		end := offset + batchSize
		if end > count {
			end = count
		}

		tx, err := pool.Begin(ctx)
		if err != nil {
			return err
		}

		for i := offset; i < end; i++ {
			id := uuid.New()
			name := gofakeit.Name()
			cpf := gofakeit.Numerify("###########")
			gender := genders[gofakeit.Number(0, len(genders)-1)]
			birth := gofakeit.DateRange(
				time.Date(1935, 1, 1, 0, 0, 0, 0, time.UTC),
				time.Date(2015, 12, 31, 0, 0, 0, 0, time.UTC),
			)
			phone := gofakeit.Phone()
			email := gofakeit.Email()

			_, err := tx.Exec(ctx, `
				INSERT INTO patients (id, name, cpf, gender, birth_date, phone, email, created_at, updated_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7, now(), now())
				ON CONFLICT (cpf) DO NOTHING
			`, id, name, cpf, gender, birth, phone, email)
			if err != nil {
				_ = tx.Rollback(ctx)
				return err
			}
		}

		if err := tx.Commit(ctx); err != nil {
			return err
		}

		log.Printf("patients seeded: %d/%d", end, count)
	}

	log.Println("patients seeded")
	return nil
}

func seedProcedures(ctx context.Context, pool *pgxpool.Pool) error {
	log.Println("seeding procedures")

	procedures := []struct {
		name        string
		description string
		rules       []exams.Rule
	}{
		{
			name:        "Cirurgia de Catarata",
			description: "Facectomia com implante de lente intraocular",
			rules: []exams.Rule{
				{ID: "pre-op-base", Gender: exams.GenderAll, Exams: []string{
					"Hemograma completo", "Glicemia de jejum", "Coagulograma",
				}},
				{ID: "cardiac-40plus", Gender: exams.GenderAll, AgeMin: intPtr(40), Exams: []string{
					"Eletrocardiograma", "Avaliação cardiológica",
				}},
				{ID: "diabetic", Gender: exams.GenderAll, Conditions: []string{"diabetes"}, Exams: []string{
					"Hemoglobina glicada",
				}},
			},
		},
		{
			name:        "Cirurgia Refrativa",
			description: "Correção a laser de miopia e astigmatismo",
			rules: []exams.Rule{
				{ID: "refractive-base", Gender: exams.GenderAll, AgeMin: intPtr(18), Exams: []string{
					"Topografia de córnea", "Paquimetria",
				}},
			},
		},
		{
			name:        "Consulta Oftalmológica",
			description: "Consulta de rotina com exame de refração",
			rules:       nil,
		},
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, p := range procedures {
		raw, err := json.Marshal(p.rules)
		if err != nil {
			return err
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO procedures (id, name, description, exam_requirements, created_at, updated_at)
			VALUES ($1, $2, $3, $4, now(), now())
		`, uuid.New(), p.name, p.description, raw)
		if err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	log.Println("procedures seeded")
	return nil
}

// adminCredentials resolves the bootstrap admin login from the environment.
// When ADMIN_PASSWORD is unset a random one is generated so a fresh deploy
// never ships a well-known default; generated is true in that case so the
// caller can print it once.
func adminCredentials() (email, password string, generated bool) {
	email = os.Getenv("ADMIN_EMAIL")
	if email == "" {
		email = "admin@clinic.local"
	}
	password = os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		password = gofakeit.Password(true, true, true, false, false, 16)
		generated = true
	}
	return email, password, generated
}

func seedAdmin(ctx context.Context, pool *pgxpool.Pool) error {
	email, password, generated := adminCredentials()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	tag, err := pool.Exec(ctx, `
		INSERT INTO users (id, name, email, password_hash, role, active, created_at, updated_at)
		VALUES ($1, 'Administrador', $2, $3, 'admin', true, now(), now())
		ON CONFLICT (email) DO NOTHING
	`, uuid.New(), email, hash)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		log.Printf("admin %s already exists, skipping", email)
		return nil
	}

	if generated {
		log.Printf("admin %s created with generated password: %s", email, password)
	} else {
		log.Printf("admin %s created", email)
	}
	return nil
}

func intPtr(v int) *int { return &v }
