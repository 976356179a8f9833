// citasmed-seed fills the directory with fake specialties, doctors,
// availability windows and patients for local development.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"

	"citasmed/internal/config"
	"citasmed/internal/domain"
	"citasmed/internal/store/postgres"
)

var specialties = []struct {
	name        string
	description string
}{
	{"Medicina General", "Atencion primaria y chequeos de rutina"},
	{"Cardiologia", "Diagnostico y tratamiento de enfermedades del corazon"},
	{"Dermatologia", "Cuidado de la piel"},
	{"Pediatria", "Atencion medica de ninos y adolescentes"},
	{"Traumatologia", "Lesiones del aparato locomotor"},
	{"Neurologia", "Trastornos del sistema nervioso"},
	{"Oftalmologia", "Salud visual"},
	{"Psiquiatria", "Salud mental"},
}

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})).With(
		slog.String("service", "citasmed-seed"),
	)

	cfg, err := config.Load()
	if err != nil {
		log.Error("config load failed", slog.Any("err", err))
		os.Exit(1)
	}

	db, err := postgres.Open(cfg.DatabaseURL, postgres.PoolConfig{MaxOpenConns: 4})
	if err != nil {
		log.Error("database connection failed", slog.Any("err", err))
		os.Exit(1)
	}
	defer func() { _ = postgres.Close(db) }()

	if cfg.Migrate {
		if err := postgres.Migrate(cfg.DatabaseURL); err != nil {
			log.Error("migrations failed", slog.Any("err", err))
			os.Exit(1)
		}
	}

	gofakeit.Seed(time.Now().UnixNano())

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	repo := postgres.NewDirectoryRepo(db)

	specialtyIDs := make([]uuid.UUID, 0, len(specialties))
	for _, sp := range specialties {
		created, err := repo.CreateSpecialty(ctx, domain.Specialty{
			Name:        sp.name,
			Description: sp.description,
		})
		if err != nil {
			log.Error("seed specialty failed", slog.Any("err", err), slog.String("name", sp.name))
			os.Exit(1)
		}
		specialtyIDs = append(specialtyIDs, created.ID)
	}
	log.Info("specialties seeded", slog.Int("count", len(specialtyIDs)))

	const doctorCount = 24
	for i := 0; i < doctorCount; i++ {
		doctor, err := repo.CreateDoctor(ctx, domain.Doctor{
			FullName:      gofakeit.Name(),
			LicenseNumber: fmt.Sprintf("CMP-%05d", gofakeit.Number(10000, 99999)),
			Email:         gofakeit.Email(),
			SpecialtyID:   specialtyIDs[i%len(specialtyIDs)],
		})
		if err != nil {
			log.Error("seed doctor failed", slog.Any("err", err))
			os.Exit(1)
		}

		// Morning shifts Monday to Friday, plus a Saturday shift for some.
		for weekday := 1; weekday <= 5; weekday++ {
			_, err := repo.CreateAvailabilityWindow(ctx, domain.AvailabilityWindow{
				DoctorID:    doctor.ID,
				Weekday:     weekday,
				StartMinute: 8 * 60,
				EndMinute:   13 * 60,
			})
			if err != nil {
				log.Error("seed window failed", slog.Any("err", err))
				os.Exit(1)
			}
		}
		if i%3 == 0 {
			_, err := repo.CreateAvailabilityWindow(ctx, domain.AvailabilityWindow{
				DoctorID:    doctor.ID,
				Weekday:     6,
				StartMinute: 9 * 60,
				EndMinute:   12 * 60,
			})
			if err != nil {
				log.Error("seed window failed", slog.Any("err", err))
				os.Exit(1)
			}
		}
	}
	log.Info("doctors seeded", slog.Int("count", doctorCount))

	const patientCount = 200
	for i := 0; i < patientCount; i++ {
		birth := gofakeit.DateRange(
			time.Date(1940, time.January, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2010, time.December, 31, 0, 0, 0, 0, time.UTC),
		)
		_, err := repo.CreatePatient(ctx, domain.Patient{
			FirstName:      gofakeit.FirstName(),
			LastName:       gofakeit.LastName(),
			DocumentNumber: fmt.Sprintf("%08d", gofakeit.Number(10000000, 99999999)),
			Phone:          gofakeit.Phone(),
			Email:          gofakeit.Email(),
			BirthDate:      &birth,
		})
		if err != nil {
			log.Error("seed patient failed", slog.Any("err", err))
			os.Exit(1)
		}
	}
	log.Info("patients seeded", slog.Int("count", patientCount))

	log.Info("seed complete")
}
