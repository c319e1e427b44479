// seed_admin crea el primer usuario del sistema y, opcionalmente, carga el catálogo de exámenes
// de laboratorio desde un CSV (code,name,price).
//
// Uso: go run ./cmd/seed_admin -email admin@hospital.local -password '...' [-labtests examenes.csv]
// Lee la conexión a PostgreSQL de la misma configuración que la API (DATABASE_URL o DB_*).
package main

import (
	"context"
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/hospital-api/internal/application/auth"
	"github.com/jhoicas/hospital-api/internal/application/billing"
	"github.com/jhoicas/hospital-api/internal/application/dto"
	"github.com/jhoicas/hospital-api/internal/domain"
	"github.com/jhoicas/hospital-api/internal/infrastructure/memory"
	"github.com/jhoicas/hospital-api/internal/infrastructure/postgres"
	"github.com/jhoicas/hospital-api/pkg/config"
	"github.com/jhoicas/hospital-api/pkg/logger"
)

func main() {
	email := flag.String("email", "", "email del usuario administrador")
	password := flag.String("password", "", "contraseña (mínimo 8 caracteres)")
	name := flag.String("name", "Administrador", "nombre de usuario")
	phone := flag.String("phone", "0000000000", "teléfono")
	labTests := flag.String("labtests", "", "CSV opcional con code,name,price")
	flag.Parse()
	if *email == "" && *labTests == "" {
		fail("uso: seed_admin -email <email> -password <password> [-labtests <csv>]")
	}
	if *email != "" && len(*password) < 8 {
		fail("la contraseña debe tener al menos 8 caracteres")
	}

	cfg, err := config.Load()
	if err != nil {
		fail("cargar configuración: %v", err)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Service: "seed_admin"})

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		fail("conexión a PostgreSQL: %v", err)
	}
	defer pool.Close()

	if *email != "" {
		authUC := auth.NewAuthUseCase(postgres.NewUserRepository(pool), memory.NewTokenStore(), auth.JWTConfig{
			AccessSecret:  cfg.JWT.AccessSecret,
			RefreshSecret: cfg.JWT.RefreshSecret,
			Issuer:        cfg.JWT.Issuer,
		}, log.Component("auth"))
		u, err := authUC.RegisterUser(ctx, dto.RegisterUserRequest{
			UserName:    *name,
			Email:       *email,
			PhoneNumber: *phone,
			Password:    *password,
			UserType:    "admin",
		})
		var conflict *domain.ConflictError
		switch {
		case errors.As(err, &conflict):
			log.Warn().Str("email", *email).Msg("el usuario ya existe; sin cambios")
		case err != nil:
			fail("crear usuario: %v", err)
		default:
			log.Info().Str("user_id", u.ID).Str("email", u.Email).Msg("usuario creado")
		}
	}

	if *labTests != "" {
		n, err := seedLabTests(ctx, billing.NewLabTestUseCase(postgres.NewLabTestRepository(pool)), *labTests)
		if err != nil {
			fail("cargar exámenes: %v", err)
		}
		log.Info().Int("created", n).Str("file", *labTests).Msg("catálogo de exámenes cargado")
	}
}

// seedLabTests crea un examen por fila; los códigos existentes se omiten.
func seedLabTests(ctx context.Context, uc *billing.LabTestUseCase, path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	created := 0
	for line := 1; ; line++ {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			return created, nil
		}
		if err != nil {
			return created, fmt.Errorf("línea %d: %w", line, err)
		}
		if len(rec) < 2 || strings.EqualFold(strings.TrimSpace(rec[0]), "code") {
			continue
		}
		in := dto.CreateLabTestRequest{Code: strings.TrimSpace(rec[0]), Name: strings.TrimSpace(rec[1])}
		if len(rec) > 2 {
			if p, err := decimal.NewFromString(strings.TrimSpace(rec[2])); err == nil {
				in.Price = dto.Number{Value: p, Set: true}
			}
		}
		var conflict *domain.ConflictError
		if _, err := uc.Create(ctx, in); err != nil {
			if errors.As(err, &conflict) {
				continue
			}
			return created, fmt.Errorf("línea %d: %w", line, err)
		}
		created++
	}
}

func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
