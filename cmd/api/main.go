package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/hospital-api/internal/application/analytics"
	"github.com/jhoicas/hospital-api/internal/application/auth"
	"github.com/jhoicas/hospital-api/internal/application/billing"
	"github.com/jhoicas/hospital-api/internal/application/inventory"
	"github.com/jhoicas/hospital-api/internal/application/patient"
	"github.com/jhoicas/hospital-api/internal/domain/entity"
	"github.com/jhoicas/hospital-api/internal/infrastructure/memory"
	"github.com/jhoicas/hospital-api/internal/infrastructure/redisstore"
	httpRouter "github.com/jhoicas/hospital-api/internal/interfaces/http"
	"github.com/jhoicas/hospital-api/pkg/config"
	"github.com/jhoicas/hospital-api/pkg/logger"
)

const swaggerFile = "./docs/swagger.json"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("store", cfg.App.StoreDriver).
		Msg("iniciando aplicación")

	ctx := context.Background()
	st, err := openStorage(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("store", cfg.App.StoreDriver).Msg("abrir almacenamiento")
	}
	defer st.close()

	// Redis opcional: tokens revocables entre réplicas y lock por contacto.
	var (
		tokens auth.TokenStore        = memory.NewTokenStore()
		locker billing.ContactLocker = billing.NoopLocker{}
	)
	if cfg.Redis.Enabled() {
		rdb, err := redisstore.NewClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Str("addr", cfg.Redis.Address).Msg("conexión a Redis")
		}
		defer rdb.Close()
		tokens = redisstore.NewTokenStore(rdb)
		locker = redisstore.NewContactLocker(rdb)
		log.Info().Str("addr", cfg.Redis.Address).Msg("Redis habilitado")
	}

	ledger := inventory.NewStockLedger(log.Component("stock_ledger"))
	revenueUC, err := analytics.NewRevenueUseCase(st.revenue, cfg.Stats.TimeZone, log.Component("revenue"))
	if err != nil {
		log.Fatal().Err(err).Str("tz", cfg.Stats.TimeZone).Msg("STATS_TZ inválido")
	}
	reconciler := billing.NewPatientReconciler(st.patients, locker, log.Component("patient_reconciler"))
	newBills := func(kind entity.BillKind) *billing.BillUseCase {
		return billing.NewBillUseCase(billing.BillDeps{
			TxRunner:   st.txRunner,
			Bills:      st.bills(kind),
			LabTests:   st.labTests,
			Ledger:     ledger,
			Reconciler: reconciler,
			Log:        log.Component("bills"),
		})
	}
	authUC := auth.NewAuthUseCase(st.users, tokens, auth.JWTConfig{
		AccessSecret:      cfg.JWT.AccessSecret,
		RefreshSecret:     cfg.JWT.RefreshSecret,
		AccessExpMinutes:  cfg.JWT.AccessExpiration,
		RefreshExpMinutes: cfg.JWT.RefreshExpiration,
		Issuer:            cfg.JWT.Issuer,
	}, log.Component("auth"))

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.HTTP.CORSOrigin,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "Hospital API",
		}))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "store": cfg.App.StoreDriver})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:        authUC,
		MedicineUC:    inventory.NewMedicineUseCase(st.medicines, st.txRunner, ledger),
		SaleUC:        inventory.NewSaleUseCase(st.txRunner, st.sales, ledger, log.Component("sales")),
		CashBillUC:    newBills(entity.BillKindCash),
		LabBillUC:     newBills(entity.BillKindLab),
		MedicalBillUC: newBills(entity.BillKindMedical),
		LabTestUC:     billing.NewLabTestUseCase(st.labTests),
		PatientUC:     patient.NewUseCase(st.patients, revenueUC),
		RevenueUC:     revenueUC,
		AccessSecret:  cfg.JWT.AccessSecret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
