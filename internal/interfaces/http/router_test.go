package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/hospital-api/internal/application/analytics"
	"github.com/jhoicas/hospital-api/internal/application/auth"
	"github.com/jhoicas/hospital-api/internal/application/billing"
	"github.com/jhoicas/hospital-api/internal/application/inventory"
	"github.com/jhoicas/hospital-api/internal/application/patient"
	"github.com/jhoicas/hospital-api/internal/domain/entity"
	"github.com/jhoicas/hospital-api/internal/infrastructure/memory"
	apphttp "github.com/jhoicas/hospital-api/internal/interfaces/http"
)

const refreshSecret = "test-refresh-secret"

// apiHarness aplicación completa sobre el almacén en memoria y un usuario con sesión iniciada.
type apiHarness struct {
	t       *testing.T
	app     *fiber.App
	store   *memory.Store
	access  string
	refresh string
}

func newAPIHarness(t *testing.T) *apiHarness {
	t.Helper()
	log := zerolog.Nop()
	store := memory.NewStore()
	txRunner := memory.NewTxRunner(store)
	ledger := inventory.NewStockLedger(log)

	revenueUC, err := analytics.NewRevenueUseCase(store.Revenue(), "UTC", log)
	require.NoError(t, err)
	reconciler := billing.NewPatientReconciler(store.Patients(), nil, log)
	newBills := func(kind entity.BillKind) *billing.BillUseCase {
		return billing.NewBillUseCase(billing.BillDeps{
			TxRunner:   txRunner,
			Bills:      store.Bills(kind),
			LabTests:   store.LabTests(),
			Ledger:     ledger,
			Reconciler: reconciler,
			Log:        log,
		})
	}
	authUC := auth.NewAuthUseCase(store.Users(), memory.NewTokenStore(), auth.JWTConfig{
		AccessSecret:     testJWTSecret,
		RefreshSecret:    refreshSecret,
		AccessExpMinutes: testExpMin,
		Issuer:           testIssuer,
	}, log)

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC:        authUC,
		MedicineUC:    inventory.NewMedicineUseCase(store.Medicines(), txRunner, ledger),
		SaleUC:        inventory.NewSaleUseCase(txRunner, store.Sales(), ledger, log),
		CashBillUC:    newBills(entity.BillKindCash),
		LabBillUC:     newBills(entity.BillKindLab),
		MedicalBillUC: newBills(entity.BillKindMedical),
		LabTestUC:     billing.NewLabTestUseCase(store.LabTests()),
		PatientUC:     patient.NewUseCase(store.Patients(), revenueUC),
		RevenueUC:     revenueUC,
		AccessSecret:  testJWTSecret,
	})

	h := &apiHarness{t: t, app: app, store: store}
	status, _ := h.call(http.MethodPost, "/api/v1/user/register", map[string]any{
		"userName":    "Recepción",
		"email":       "Front@Hospital.test",
		"phoneNumber": "5550001",
		"password":    "s3cret-pass",
	}, false)
	require.Equal(t, fiber.StatusCreated, status)

	status, body := h.call(http.MethodPost, "/api/v1/login", map[string]any{
		"email":    "front@hospital.test",
		"password": "s3cret-pass",
	}, false)
	require.Equal(t, fiber.StatusOK, status)
	h.access = body["accessToken"].(string)
	h.refresh = body["refreshToken"].(string)
	return h
}

// call envía la petición; withAuth agrega el access token actual.
func (h *apiHarness) call(method, path string, payload any, withAuth bool) (int, map[string]any) {
	h.t.Helper()
	status, raw := h.raw(method, path, payload, withAuth)
	var body map[string]any
	_ = json.Unmarshal(raw, &body)
	return status, body
}

func (h *apiHarness) list(path string) (int, []map[string]any) {
	h.t.Helper()
	status, raw := h.raw(http.MethodGet, path, nil, true)
	var body []map[string]any
	_ = json.Unmarshal(raw, &body)
	return status, body
}

func (h *apiHarness) raw(method, path string, payload any, withAuth bool) (int, []byte) {
	h.t.Helper()
	var reader io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		require.NoError(h.t, err)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if withAuth {
		req.Header.Set("Authorization", "Bearer "+h.access)
	}
	resp, err := h.app.Test(req, -1)
	require.NoError(h.t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(h.t, err)
	return resp.StatusCode, raw
}

func (h *apiHarness) createMedicine(code, name string, stock int, salePrice float64) string {
	h.t.Helper()
	status, body := h.call(http.MethodPost, "/api/v1/medicine/medicines", map[string]any{
		"code": code, "name": name, "stock": stock, "salePrice": salePrice,
	}, true)
	require.Equal(h.t, fiber.StatusCreated, status, body)
	return body["_id"].(string)
}

func (h *apiHarness) stockOf(id string) float64 {
	h.t.Helper()
	status, body := h.call(http.MethodGet, "/api/v1/medicine/medicines/"+id, nil, true)
	require.Equal(h.t, fiber.StatusOK, status)
	return body["stock"].(float64)
}

func TestRouter_RequiresToken(t *testing.T) {
	h := newAPIHarness(t)
	for _, path := range []string{"/api/v1/medicine/medicines", "/api/v1/patients", "/api/v1/cashbills"} {
		status, body := h.call(http.MethodGet, path, nil, false)
		assert.Equal(t, fiber.StatusUnauthorized, status, path)
		assert.Equal(t, "MISSING_TOKEN", body["code"])
	}
}

func TestMedicines_CreateValidationAndConflict(t *testing.T) {
	h := newAPIHarness(t)
	h.createMedicine("PCM-500", "Paracetamol", 10, 2.5)

	status, body := h.call(http.MethodPost, "/api/v1/medicine/medicines", map[string]any{"code": "X-1"}, true)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION", body["code"])

	status, body = h.call(http.MethodPost, "/api/v1/medicine/medicines", map[string]any{"code": "PCM-500", "name": "Otro"}, true)
	assert.Equal(t, fiber.StatusConflict, status)
	assert.Equal(t, "CONFLICT", body["code"])

	status, body = h.call(http.MethodPost, "/api/v1/medicine/medicines", map[string]any{"code": "X-2", "name": "Y", "stock": "abc"}, true)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Contains(t, body["error"], "must be a number")
}

func TestMedicines_StockEndpoints(t *testing.T) {
	h := newAPIHarness(t)
	id := h.createMedicine("AMX-250", "Amoxicillin", 4, 1)

	status, _ := h.call(http.MethodPut, "/api/v1/medicine/medicines/"+id+"/stock", map[string]any{"stock": -1}, true)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, float64(4), h.stockOf(id))

	status, body := h.call(http.MethodPut, "/api/v1/medicine/medicines/stock/bulk", []map[string]any{
		{"id": id, "stock": 12},
		{"id": "no-such-id", "stock": 3},
	}, true)
	require.Equal(t, fiber.StatusOK, status, body)
	result := body["result"].(map[string]any)
	assert.Equal(t, float64(1), result["matchedCount"])
	assert.Equal(t, []any{"no-such-id"}, result["missingIds"])
	assert.Equal(t, float64(12), h.stockOf(id))

	status, body = h.call(http.MethodPost, "/api/v1/medicine/medicines/"+id+"/dispense", map[string]any{"quantity": 13}, true)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "INSUFFICIENT_STOCK", body["code"])
	assert.Equal(t, "Insufficient stock for Amoxicillin", body["error"])

	status, body = h.call(http.MethodPost, "/api/v1/medicine/medicines/"+id+"/dispense", map[string]any{"quantity": 12}, true)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, float64(0), body["stock"])
}

func TestSales_InsufficientStockLeavesNoTrace(t *testing.T) {
	h := newAPIHarness(t)
	a := h.createMedicine("A", "Ibuprofen", 5, 3)
	b := h.createMedicine("B", "Cetirizine", 1, 4)

	status, body := h.call(http.MethodPost, "/api/v1/sale/sales", map[string]any{
		"items": []map[string]any{
			{"medicineId": a, "quantity": 2},
			{"medicineId": b, "quantity": 2},
		},
	}, true)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "Insufficient stock for Cetirizine", body["error"])
	assert.Equal(t, float64(5), h.stockOf(a))
	assert.Equal(t, float64(1), h.stockOf(b))

	_, sales := h.list("/api/v1/sale/sales")
	assert.Empty(t, sales)
}

func TestSales_CreateAndRevenue(t *testing.T) {
	h := newAPIHarness(t)
	a := h.createMedicine("A", "Ibuprofen", 5, 3)

	status, body := h.call(http.MethodPost, "/api/v1/sale/sales", map[string]any{
		"items": []map[string]any{{"medicineId": a, "quantity": 2}},
	}, true)
	require.Equal(t, fiber.StatusCreated, status, body)
	assert.Equal(t, float64(6), body["totalAmount"])
	assert.Equal(t, float64(3), h.stockOf(a))

	status, body = h.call(http.MethodGet, "/api/v1/sale/sales/revenue", nil, true)
	require.Equal(t, fiber.StatusOK, status, body)
	rev := body["revenue"].(map[string]any)
	assert.Equal(t, float64(6), rev["daily"])
	assert.Equal(t, float64(6), rev["total"])
	assert.Equal(t, float64(1), rev["dailyCount"])

	status, body = h.call(http.MethodGet, "/api/v1/sale/sales/revenue?tz=Mars/Olympus", nil, true)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "invalid time zone: Mars/Olympus", body["error"])

	status, body = h.call(http.MethodPost, "/api/v1/sale/sales", map[string]any{
		"items": []map[string]any{{"medicineId": "missing", "quantity": 1}},
	}, true)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "Medicine not found: missing", body["error"])
}

func TestCashBills_ReconcilesOnePatientPerContact(t *testing.T) {
	h := newAPIHarness(t)

	status, body := h.call(http.MethodPost, "/api/v1/cashbills", map[string]any{
		"contact": "9000000001",
		"name":    "Asha",
		"services": []map[string]any{
			{"service": "Consultation", "price": 300, "quantity": 1},
		},
		"advancePayment": 100,
	}, true)
	require.Equal(t, fiber.StatusCreated, status, body)
	bill := body["bill"].(map[string]any)
	first := body["patient"].(map[string]any)
	assert.Equal(t, float64(300), bill["total"])
	assert.Equal(t, float64(200), bill["netPayable"])
	assert.Equal(t, "Asha", first["name"])

	status, body = h.call(http.MethodPost, "/api/v1/cashbills", map[string]any{
		"contact":   "9000000001",
		"name":      "Asha K",
		"ipdNumber": "IPD-17",
		"total":     500,
	}, true)
	require.Equal(t, fiber.StatusCreated, status, body)
	second := body["patient"].(map[string]any)
	assert.Equal(t, first["_id"], second["_id"])
	assert.Equal(t, "Asha K", second["name"])
	assert.Equal(t, "IPD-17", second["ipdNumber"])

	status, body = h.call(http.MethodGet, "/api/v1/patients", nil, true)
	require.Equal(t, fiber.StatusOK, status)
	assert.Len(t, body["patients"], 1)

	status, body = h.call(http.MethodPost, "/api/v1/cashbills", map[string]any{"name": "Sin contacto"}, true)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "contact is required", body["error"])

	_, bills := h.list("/api/v1/cashbills?contact=0000")
	assert.Len(t, bills, 2)
}

func TestMedicalBills_StockAndRollback(t *testing.T) {
	h := newAPIHarness(t)
	a := h.createMedicine("A", "Ibuprofen", 3, 3)

	status, body := h.call(http.MethodPost, "/api/v1/medicalbills", map[string]any{
		"contact": "9000000002", "name": "Ravi",
		"services": []map[string]any{{"medicineId": a, "price": 3, "quantity": 5}},
	}, true)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "INSUFFICIENT_STOCK", body["code"])
	_, bills := h.list("/api/v1/medicalbills")
	assert.Empty(t, bills)

	status, body = h.call(http.MethodPost, "/api/v1/medicalbills", map[string]any{
		"contact": "9000000002", "name": "Ravi",
		"services": []map[string]any{{"medicineId": a, "price": 3, "quantity": 2}},
	}, true)
	require.Equal(t, fiber.StatusCreated, status, body)
	assert.Equal(t, float64(6), body["total"])
	assert.Equal(t, float64(1), h.stockOf(a))

	status, body = h.call(http.MethodPost, "/api/v1/medicalbills", map[string]any{
		"contact": "9000000002", "name": "Ravi", "skipStock": true,
		"services": []map[string]any{{"medicineId": a, "price": 3, "quantity": 50}},
	}, true)
	require.Equal(t, fiber.StatusCreated, status, body)
	assert.Equal(t, float64(1), h.stockOf(a))

	id := body["_id"].(string)
	status, body = h.call(http.MethodDelete, "/api/v1/medicalbills/"+id, nil, true)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "Bill deleted", body["message"])
	status, _ = h.call(http.MethodGet, "/api/v1/medicalbills/"+id, nil, true)
	assert.Equal(t, fiber.StatusNotFound, status)

	status, body = h.call(http.MethodGet, "/api/v1/medicalbills/revenue/stats", nil, true)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, float64(6), body["revenue"].(map[string]any)["total"])
}

func TestLabBills_ResolveLabTests(t *testing.T) {
	h := newAPIHarness(t)
	status, body := h.call(http.MethodPost, "/api/v1/labtests", map[string]any{"code": "CBC", "name": "Complete Blood Count", "price": 250}, true)
	require.Equal(t, fiber.StatusCreated, status, body)
	testID := body["_id"].(string)

	status, _ = h.call(http.MethodPost, "/api/v1/labtests", map[string]any{"code": "CBC", "name": "Dup"}, true)
	assert.Equal(t, fiber.StatusConflict, status)

	status, body = h.call(http.MethodPost, "/api/v1/labbills", map[string]any{
		"contact": "9000000003", "name": "Meera",
		"services": []map[string]any{{"testId": testID, "price": 250, "quantity": 1}},
	}, true)
	require.Equal(t, fiber.StatusCreated, status, body)
	svc := body["services"].([]any)[0].(map[string]any)
	assert.Equal(t, "CBC", svc["testCode"])
	assert.Equal(t, "Complete Blood Count", svc["testName"])

	status, body = h.call(http.MethodPost, "/api/v1/labbills", map[string]any{
		"contact": "9000000003", "name": "Meera",
		"services": []map[string]any{{"testId": "nope", "quantity": 1}},
	}, true)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "Lab test not found: nope", body["error"])

	_, tests := h.list("/api/v1/labtests?q=blood")
	assert.Len(t, tests, 1)
}

func TestPatients_StaticRoutesBeforeID(t *testing.T) {
	h := newAPIHarness(t)
	status, body := h.call(http.MethodPost, "/api/v1/patients", map[string]any{
		"name": "Kiran", "contact": "9000000004", "ipdNumber": "IPD-1", "amount": 1200,
	}, true)
	require.Equal(t, fiber.StatusCreated, status, body)
	assert.Equal(t, "IPD", body["formType"])
	id := body["_id"].(string)

	status, body = h.call(http.MethodPost, "/api/v1/patients", map[string]any{
		"name": "Otro", "contact": "9000000005", "ipdNumber": "IPD-1",
	}, true)
	assert.Equal(t, fiber.StatusConflict, status)

	status, body = h.call(http.MethodGet, "/api/v1/patients/stats", nil, true)
	require.Equal(t, fiber.StatusOK, status, body)
	rev := body["revenue"].(map[string]any)
	assert.Equal(t, float64(1200), rev["ipd"].(map[string]any)["daily"])

	status, body = h.call(http.MethodGet, "/api/v1/patients/filter?q=ipd-1", nil, true)
	require.Equal(t, fiber.StatusOK, status, body)
	assert.Equal(t, id, body["_id"])

	status, _ = h.call(http.MethodGet, "/api/v1/patients/filter", nil, true)
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, body = h.call(http.MethodDelete, "/api/v1/patients/"+id, nil, true)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "Patient deleted", body["message"])
}

func TestAuth_TokenRotationAndLogout(t *testing.T) {
	h := newAPIHarness(t)

	status, _ := h.call(http.MethodPost, "/api/v1/token", map[string]any{}, false)
	assert.Equal(t, fiber.StatusUnauthorized, status)

	status, body := h.call(http.MethodPost, "/api/v1/token", map[string]any{"token": h.refresh}, false)
	require.Equal(t, fiber.StatusOK, status, body)
	rotated := body["refreshToken"].(string)
	assert.NotEqual(t, h.refresh, rotated)

	status, _ = h.call(http.MethodPost, "/api/v1/token", map[string]any{"token": h.refresh}, false)
	assert.Equal(t, fiber.StatusForbidden, status, "un refresh token ya usado no rota")

	status, body = h.call(http.MethodPost, "/api/v1/logout", map[string]any{"token": rotated, "accessToken": h.access}, false)
	require.Equal(t, fiber.StatusOK, status, body)

	status, _ = h.call(http.MethodPost, "/api/v1/token", map[string]any{"token": rotated}, false)
	assert.Equal(t, fiber.StatusForbidden, status)

	status, body = h.call(http.MethodGet, "/api/v1/user/getUserAllUsers", nil, true)
	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.Equal(t, "REVOKED_TOKEN", body["code"])
}

func TestAuth_LoginAndRegisterErrors(t *testing.T) {
	h := newAPIHarness(t)

	status, body := h.call(http.MethodPost, "/api/v1/login", map[string]any{"email": "front@hospital.test", "password": "wrong"}, false)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "Invalid credentials", body["error"])

	status, body = h.call(http.MethodPost, "/api/v1/user/register", map[string]any{
		"userName": "Dup", "email": "front@hospital.test", "phoneNumber": "5550002", "password": "another-pass",
	}, false)
	assert.Equal(t, fiber.StatusConflict, status)

	status, body = h.call(http.MethodPost, "/api/v1/user/register", map[string]any{
		"userName": "X", "email": "not-an-email", "phoneNumber": "5550003", "password": "another-pass",
	}, false)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "email must be a valid email", body["error"])

	status, users := h.list("/api/v1/user/getUserAllUsers")
	require.Equal(t, fiber.StatusOK, status)
	require.Len(t, users, 1)
}

func TestUsers_Update(t *testing.T) {
	h := newAPIHarness(t)
	_, users := h.list("/api/v1/user/getUserAllUsers")
	require.Len(t, users, 1)
	id := users[0]["_id"].(string)

	status, body := h.call(http.MethodPut, "/api/v1/user/updateUser/"+id, map[string]any{"userType": "admin", "age": 41}, true)
	require.Equal(t, fiber.StatusOK, status, body)
	assert.Equal(t, "User updated successfully", body["message"])
	user := body["user"].(map[string]any)
	assert.Equal(t, "admin", user["userType"])
	assert.Equal(t, float64(41), user["age"])
	assert.Equal(t, "front@hospital.test", user["email"])

	status, body = h.call(http.MethodPut, "/api/v1/user/updateUser/"+id, map[string]any{"email": "nope"}, true)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "email must be a valid email", body["error"])

	status, _ = h.call(http.MethodPut, "/api/v1/user/updateUser/ghost", map[string]any{"userType": "x"}, true)
	assert.Equal(t, fiber.StatusNotFound, status)

	status, _ = h.call(http.MethodPut, "/api/v1/user/updateUser/"+id, map[string]any{"userType": "x"}, false)
	assert.Equal(t, fiber.StatusUnauthorized, status)
}
