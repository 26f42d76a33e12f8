package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	appbilling "github.com/utilibill/backend/internal/application/billing"
	"github.com/utilibill/backend/internal/domain/billing"
	"github.com/utilibill/backend/internal/domain/shared"
)

var handlerTestNow = time.Date(2024, 1, 5, 10, 0, 0, 0, time.UTC)

func dec(t *testing.T, value string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(value)
	require.NoError(t, err)
	return d
}

// testOperator injects an authenticated operator into the request context,
// standing in for the identity middleware.
func testOperator(operatorID uuid.UUID, email string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("operator_id", operatorID.String())
		c.Set("operator_email", email)
		c.Next()
	}
}

func setupBillTestRouter(middlewares ...gin.HandlerFunc) (*gin.Engine, *MockBillRepository, *MockApprovalLogRepository) {
	gin.SetMode(gin.TestMode)

	billRepo := new(MockBillRepository)
	logRepo := new(MockApprovalLogRepository)
	clock := appbilling.FixedClock{At: handlerTestNow}

	approvalService := appbilling.NewApprovalService(billRepo, logRepo, clock)
	payableService := appbilling.NewPayableService(billRepo, clock)
	h := NewBillHandler(approvalService, payableService)

	engine := gin.New()
	engine.Use(middlewares...)
	h.RegisterRoutes(engine.Group("/api/v1"))
	return engine, billRepo, logRepo
}

func reconciledBill(t *testing.T, declared string) *billing.Bill {
	t.Helper()
	billDate := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	dueDate := time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC)
	bill, err := billing.NewBill("BN-2024-0001", "CN-77001", billDate, dueDate, dec(t, declared))
	require.NoError(t, err)
	bill.Core.EnergyCharge = dec(t, "800.00")
	bill.Regulatory.CGST = dec(t, "90.00")
	bill.Regulatory.SGST = dec(t, "90.00")
	bill.Additional.Arrears = dec(t, "20.00")
	return bill
}

func TestBillHandler_Approve(t *testing.T) {
	operatorID := uuid.New()

	t.Run("approves a reconciled bill", func(t *testing.T) {
		router, billRepo, _ := setupBillTestRouter(testOperator(operatorID, "ops@utilibill.in"))
		bill := reconciledBill(t, "1000.00")

		billRepo.On("FindByID", mock.Anything, bill.ID).Return(bill, nil)
		billRepo.On("CommitApproval", mock.Anything, bill, mock.Anything, mock.Anything).Return(nil)

		req, _ := http.NewRequest(http.MethodPost, "/api/v1/bills/"+bill.ID.String()+"/approve", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var response map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.True(t, response["success"].(bool))

		data := response["data"].(map[string]interface{})
		assert.Equal(t, "1000", data["approved_amount"])
		assert.Equal(t, billing.BillStatusApproved, bill.Status)
		billRepo.AssertExpectations(t)
	})

	t.Run("approves with charge edits", func(t *testing.T) {
		router, billRepo, _ := setupBillTestRouter(testOperator(operatorID, "ops@utilibill.in"))
		bill := reconciledBill(t, "1000.00")

		billRepo.On("FindByID", mock.Anything, bill.ID).Return(bill, nil)
		billRepo.On("CommitApproval", mock.Anything, bill, mock.Anything, mock.Anything).Return(nil)

		body, _ := json.Marshal(billing.ChargeEdits{
			Core: &billing.CoreCharges{EnergyCharge: dec(t, "800.50")},
		})
		req, _ := http.NewRequest(http.MethodPost, "/api/v1/bills/"+bill.ID.String()+"/approve", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "800.50", bill.Core.EnergyCharge.StringFixed(2))
		billRepo.AssertExpectations(t)
	})

	t.Run("rejects the request without operator identity", func(t *testing.T) {
		router, billRepo, _ := setupBillTestRouter()
		bill := reconciledBill(t, "1000.00")

		req, _ := http.NewRequest(http.MethodPost, "/api/v1/bills/"+bill.ID.String()+"/approve", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		billRepo.AssertNotCalled(t, "FindByID")
	})

	t.Run("returns 422 when charges disagree with the declared amount", func(t *testing.T) {
		router, billRepo, _ := setupBillTestRouter(testOperator(operatorID, "ops@utilibill.in"))
		bill := reconciledBill(t, "700.00")

		billRepo.On("FindByID", mock.Anything, bill.ID).Return(bill, nil)

		req, _ := http.NewRequest(http.MethodPost, "/api/v1/bills/"+bill.ID.String()+"/approve", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

		var response map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		errInfo := response["error"].(map[string]interface{})
		assert.Equal(t, "AMOUNT_MISMATCH", errInfo["code"])
		billRepo.AssertNotCalled(t, "CommitApproval")
	})

	t.Run("returns 404 for an unknown bill", func(t *testing.T) {
		router, billRepo, _ := setupBillTestRouter(testOperator(operatorID, "ops@utilibill.in"))
		missing := uuid.New()

		billRepo.On("FindByID", mock.Anything, missing).Return(nil, shared.ErrNotFound)

		req, _ := http.NewRequest(http.MethodPost, "/api/v1/bills/"+missing.String()+"/approve", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("returns 400 for a malformed bill id", func(t *testing.T) {
		router, _, _ := setupBillTestRouter(testOperator(operatorID, "ops@utilibill.in"))

		req, _ := http.NewRequest(http.MethodPost, "/api/v1/bills/not-a-uuid/approve", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestBillHandler_Reject(t *testing.T) {
	t.Run("rejects a bill", func(t *testing.T) {
		router, billRepo, _ := setupBillTestRouter()
		bill := reconciledBill(t, "1000.00")

		billRepo.On("FindByID", mock.Anything, bill.ID).Return(bill, nil)
		billRepo.On("SaveWithLock", mock.Anything, bill).Return(nil)

		req, _ := http.NewRequest(http.MethodPost, "/api/v1/bills/"+bill.ID.String()+"/reject", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, billing.BillStatusRejected, bill.Status)
		billRepo.AssertExpectations(t)
	})

	t.Run("returns 409 on concurrent modification", func(t *testing.T) {
		router, billRepo, _ := setupBillTestRouter()
		bill := reconciledBill(t, "1000.00")

		billRepo.On("FindByID", mock.Anything, bill.ID).Return(bill, nil)
		billRepo.On("SaveWithLock", mock.Anything, bill).Return(shared.ErrConcurrencyConflict)

		req, _ := http.NewRequest(http.MethodPost, "/api/v1/bills/"+bill.ID.String()+"/reject", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestBillHandler_List(t *testing.T) {
	t.Run("lists bills with pagination meta", func(t *testing.T) {
		router, billRepo, _ := setupBillTestRouter()
		bill := reconciledBill(t, "1000.00")

		billRepo.On("FindAll", mock.Anything, mock.MatchedBy(func(f billing.BillFilter) bool {
			return f.Status != nil && *f.Status == billing.BillStatusNew && f.Page == 1
		})).Return([]billing.Bill{*bill}, nil)
		billRepo.On("Count", mock.Anything, mock.Anything).Return(int64(1), nil)

		req, _ := http.NewRequest(http.MethodGet, "/api/v1/bills?status=new", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var response map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		meta := response["meta"].(map[string]interface{})
		assert.Equal(t, float64(1), meta["total"])
		billRepo.AssertExpectations(t)
	})

	t.Run("rejects an unknown status filter", func(t *testing.T) {
		router, _, _ := setupBillTestRouter()

		req, _ := http.NewRequest(http.MethodGet, "/api/v1/bills?status=bogus", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestBillHandler_PayableToday(t *testing.T) {
	t.Run("returns the payable-today view", func(t *testing.T) {
		router, billRepo, _ := setupBillTestRouter()
		bill := reconciledBill(t, "1000.00")

		billRepo.On("FindByID", mock.Anything, bill.ID).Return(bill, nil)

		req, _ := http.NewRequest(http.MethodGet, "/api/v1/bills/"+bill.ID.String()+"/payable-today", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var response map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		data := response["data"].(map[string]interface{})
		assert.Equal(t, bill.BillNumber, data["bill_number"])
		assert.NotNil(t, data["payable_today"])
	})
}

func TestBillHandler_ApprovalTrail(t *testing.T) {
	t.Run("returns the approval trail", func(t *testing.T) {
		router, billRepo, logRepo := setupBillTestRouter()
		bill := reconciledBill(t, "1000.00")

		entry, err := billing.NewApprovedLog(bill.ID, "ops@utilibill.in", dec(t, "1000.00"), nil, handlerTestNow)
		require.NoError(t, err)
		trail := billing.BuildApprovalTrail([]billing.ApprovedLog{*entry})

		billRepo.On("FindByID", mock.Anything, bill.ID).Return(bill, nil)
		logRepo.On("Trail", mock.Anything, bill.ID).Return(trail, nil)

		req, _ := http.NewRequest(http.MethodGet, "/api/v1/bills/"+bill.ID.String()+"/approvals", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var response map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		data := response["data"].(map[string]interface{})
		current := data["current"].(map[string]interface{})
		assert.Equal(t, "ops@utilibill.in", current["approved_by"])
		logRepo.AssertExpectations(t)
	})
}
