package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/hospital-api/internal/application/analytics"
	"github.com/jhoicas/hospital-api/internal/application/auth"
	"github.com/jhoicas/hospital-api/internal/application/billing"
	"github.com/jhoicas/hospital-api/internal/application/inventory"
	"github.com/jhoicas/hospital-api/internal/application/patient"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC        *auth.AuthUseCase
	MedicineUC    *inventory.MedicineUseCase
	SaleUC        *inventory.SaleUseCase
	CashBillUC    *billing.BillUseCase
	LabBillUC     *billing.BillUseCase
	MedicalBillUC *billing.BillUseCase
	LabTestUC     *billing.LabTestUseCase
	PatientUC     *patient.UseCase
	RevenueUC     *analytics.RevenueUseCase
	AccessSecret  string
}

// Router registra las rutas de la API bajo /api/v1.
func Router(app *fiber.App, deps RouterDeps) {
	v := newRequestValidator()
	api := app.Group("/api/v1")

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC, v)
	api.Post("/login", authHandler.Login)
	api.Post("/token", authHandler.Token)
	api.Post("/logout", authHandler.Logout)
	api.Post("/user/register", authHandler.Register)

	// Rutas protegidas (requieren Bearer Token no revocado)
	protected := api.Group("", AuthMiddleware(deps.AccessSecret, deps.AuthUC))

	users := protected.Group("/user")
	users.Get("/getUserAllUsers", authHandler.ListUsers)
	users.Get("/getUser/:id", authHandler.GetUser)
	users.Put("/updateUser/:id", authHandler.UpdateUser)

	// Medicamentos. /stock/bulk antes de /:id.
	medicines := protected.Group("/medicine/medicines")
	medicineHandler := NewMedicineHandler(deps.MedicineUC, v)
	medicines.Post("/", medicineHandler.Create)
	medicines.Get("/", medicineHandler.List)
	medicines.Put("/stock/bulk", medicineHandler.BulkSetStock)
	medicines.Get("/:id", medicineHandler.GetByID)
	medicines.Put("/:id", medicineHandler.Update)
	medicines.Delete("/:id", medicineHandler.Delete)
	medicines.Put("/:id/stock", medicineHandler.SetStock)
	medicines.Post("/:id/dispense", medicineHandler.Dispense)

	sales := protected.Group("/sale/sales")
	saleHandler := NewSaleHandler(deps.SaleUC, deps.RevenueUC, v)
	sales.Post("/", saleHandler.Create)
	sales.Get("/", saleHandler.List)
	sales.Get("/revenue", saleHandler.Revenue)

	registerBills(protected.Group("/cashbills"), NewBillHandler(deps.CashBillUC, deps.RevenueUC, v))
	registerBills(protected.Group("/labbills"), NewBillHandler(deps.LabBillUC, deps.RevenueUC, v))
	registerBills(protected.Group("/medicalbills"), NewBillHandler(deps.MedicalBillUC, deps.RevenueUC, v))

	labTests := protected.Group("/labtests")
	labTestHandler := NewLabTestHandler(deps.LabTestUC, v)
	labTests.Get("/", labTestHandler.List)
	labTests.Post("/", labTestHandler.Create)

	// Pacientes. /stats y /filter antes de /:id.
	patients := protected.Group("/patients")
	patientHandler := NewPatientHandler(deps.PatientUC, deps.RevenueUC, v)
	patients.Post("/", patientHandler.Create)
	patients.Get("/", patientHandler.List)
	patients.Get("/stats", patientHandler.Stats)
	patients.Get("/filter", patientHandler.Filter)
	patients.Get("/:id", patientHandler.GetByID)
	patients.Put("/:id", patientHandler.Update)
	patients.Delete("/:id", patientHandler.Delete)
}

func registerBills(g fiber.Router, h *BillHandler) {
	g.Post("/", h.Create)
	g.Get("/", h.List)
	g.Get("/revenue/stats", h.Stats)
	g.Get("/:id", h.GetByID)
	g.Put("/:id", h.Update)
	g.Delete("/:id", h.Delete)
}
