package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pharmalink/pos/domain"
	"pharmalink/pos/internal/session"
	"pharmalink/pos/internal/store"
)

func testSessionStore(t *testing.T) *session.Store {
	t.Helper()
	db, err := store.Open(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Migrate(db))
	t.Cleanup(func() { _ = db.Close() })
	return session.NewStore(db)
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// newTestClient starts a fake PharmaLink backend and returns a client
// pointed at it. requests counts every request that reaches the server.
func newTestClient(t *testing.T, route func(r chi.Router), requests *int) (*Client, *session.Store) {
	t.Helper()
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if requests != nil {
				*requests++
			}
			next.ServeHTTP(w, req)
		})
	})
	if route != nil {
		route(r)
	}
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	sess := testSessionStore(t)
	return New(srv.URL, 5*time.Second, sess), sess
}

func TestLoginSavesSession(t *testing.T) {
	client, sess := newTestClient(t, func(r chi.Router) {
		r.Post("/api/auth/login", func(w http.ResponseWriter, req *http.Request) {
			var creds Credentials
			require.NoError(t, json.NewDecoder(req.Body).Decode(&creds))
			assert.Equal(t, "bob", creds.Username)
			respondJSON(w, http.StatusOK, map[string]any{
				"token":        "tok-123",
				"username":     "bob",
				"email":        "bob@pharmalink.co.ke",
				"pharmacyName": "PharmaLink",
			})
		})
	}, nil)

	user, err := client.Login(context.Background(), Credentials{Username: "bob", Password: "secret"})
	require.NoError(t, err)
	assert.Equal(t, "bob", user.Username)

	current, ok := sess.Current()
	require.True(t, ok)
	assert.Equal(t, "tok-123", current.Token)
	assert.Equal(t, "PharmaLink", current.User.PharmacyName)
}

func TestLoginServerRejectionShownVerbatim(t *testing.T) {
	client, _ := newTestClient(t, func(r chi.Router) {
		r.Post("/api/auth/login", func(w http.ResponseWriter, req *http.Request) {
			respondJSON(w, http.StatusBadRequest, map[string]string{"message": "Invalid credentials"})
		})
	}, nil)

	_, err := client.Login(context.Background(), Credentials{Username: "bob", Password: "wrong"})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "Invalid credentials", apiErr.Message)
}

func TestLoginValidatesLocally(t *testing.T) {
	requests := 0
	client, _ := newTestClient(t, nil, &requests)

	_, err := client.Login(context.Background(), Credentials{Username: "bob"})
	require.Error(t, err)
	assert.Zero(t, requests)
}

func TestListDrugsEnvelopeShape(t *testing.T) {
	client, sess := newTestClient(t, func(r chi.Router) {
		r.Get("/api/drugs", func(w http.ResponseWriter, req *http.Request) {
			assert.Equal(t, "Bearer tok", req.Header.Get("Authorization"))
			respondJSON(w, http.StatusOK, map[string]any{
				"drugs": []map[string]any{
					{"_id": "d1", "name": "Paracetamol", "quantity": 12, "price": 50},
				},
			})
		})
	}, nil)
	require.NoError(t, sess.Save("tok", domain.User{Username: "bob"}))

	drugs, err := client.ListDrugs(context.Background())
	require.NoError(t, err)
	require.Len(t, drugs, 1)
	assert.Equal(t, "Paracetamol", drugs[0].Name)
	assert.True(t, drugs[0].Price.Equal(decimal.NewFromInt(50)))
}

func TestListDrugsBareArrayShape(t *testing.T) {
	client, sess := newTestClient(t, func(r chi.Router) {
		r.Get("/api/drugs", func(w http.ResponseWriter, req *http.Request) {
			respondJSON(w, http.StatusOK, []map[string]any{
				{"_id": "d1", "name": "Amoxicillin", "quantity": 3, "price": 120.5},
			})
		})
	}, nil)
	require.NoError(t, sess.Save("tok", domain.User{}))

	drugs, err := client.ListDrugs(context.Background())
	require.NoError(t, err)
	require.Len(t, drugs, 1)
	assert.Equal(t, "Amoxicillin", drugs[0].Name)
}

func TestListDrugsUnrecognizedShape(t *testing.T) {
	client, sess := newTestClient(t, func(r chi.Router) {
		r.Get("/api/drugs", func(w http.ResponseWriter, req *http.Request) {
			respondJSON(w, http.StatusOK, map[string]any{"unexpected": true})
		})
	}, nil)
	require.NoError(t, sess.Save("tok", domain.User{}))

	_, err := client.ListDrugs(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unrecognized")
}

func TestProtectedCallWithoutSessionSendsNothing(t *testing.T) {
	requests := 0
	client, _ := newTestClient(t, nil, &requests)

	_, err := client.ListDrugs(context.Background())
	assert.ErrorIs(t, err, ErrAuthRequired)
	assert.Zero(t, requests)
}

func TestUnauthorizedResponseClearsSession(t *testing.T) {
	client, sess := newTestClient(t, func(r chi.Router) {
		r.Get("/api/drugs", func(w http.ResponseWriter, req *http.Request) {
			respondJSON(w, http.StatusUnauthorized, map[string]string{"message": "token expired"})
		})
	}, nil)
	require.NoError(t, sess.Save("stale", domain.User{}))

	cleared := false
	sess.Subscribe(func() { cleared = true })

	_, err := client.ListDrugs(context.Background())
	assert.ErrorIs(t, err, ErrAuthRequired)
	assert.True(t, cleared)
	_, ok := sess.Current()
	assert.False(t, ok)
}

func TestCreateSaleEnvelopeAndBareShapes(t *testing.T) {
	for name, body := range map[string]any{
		"envelope": map[string]any{"sale": map[string]any{"saleNumber": "S-1", "totalAmount": 350}},
		"bare":     map[string]any{"saleNumber": "S-1", "totalAmount": 350},
	} {
		t.Run(name, func(t *testing.T) {
			client, sess := newTestClient(t, func(r chi.Router) {
				r.Post("/api/sales", func(w http.ResponseWriter, req *http.Request) {
					var sale domain.SaleRequest
					require.NoError(t, json.NewDecoder(req.Body).Decode(&sale))
					require.Len(t, sale.Items, 1)
					assert.Equal(t, "d1", sale.Items[0].DrugID)
					respondJSON(w, http.StatusCreated, body)
				})
			}, nil)
			require.NoError(t, sess.Save("tok", domain.User{}))

			sale, err := client.CreateSale(context.Background(), domain.SaleRequest{
				Items:         []domain.SaleLine{{DrugID: "d1", Quantity: 2, UnitPrice: decimal.NewFromInt(100)}},
				PaymentMethod: domain.PaymentCash,
				TotalAmount:   decimal.NewFromInt(200),
			})
			require.NoError(t, err)
			assert.Equal(t, "S-1", sale.SaleNumber)
			assert.True(t, sale.TotalAmount.Equal(decimal.NewFromInt(350)))
		})
	}
}

func TestCreateSaleRejectionMessage(t *testing.T) {
	client, sess := newTestClient(t, func(r chi.Router) {
		r.Post("/api/sales", func(w http.ResponseWriter, req *http.Request) {
			respondJSON(w, http.StatusBadRequest, map[string]string{"message": "Insufficient stock"})
		})
	}, nil)
	require.NoError(t, sess.Save("tok", domain.User{}))

	_, err := client.CreateSale(context.Background(), domain.SaleRequest{
		Items: []domain.SaleLine{{DrugID: "d1", Quantity: 99}},
	})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Insufficient stock", apiErr.Message)
}

func TestErrorMessageFallsBackOnUnparseableBody(t *testing.T) {
	client, sess := newTestClient(t, func(r chi.Router) {
		r.Get("/api/drugs", func(w http.ResponseWriter, req *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
			_, _ = w.Write([]byte("<html>bad gateway</html>"))
		})
	}, nil)
	require.NoError(t, sess.Save("tok", domain.User{}))

	_, err := client.ListDrugs(context.Background())
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "request failed with status 502", apiErr.Message)
}

func TestCreateDrugCoercedPayload(t *testing.T) {
	client, sess := newTestClient(t, func(r chi.Router) {
		r.Post("/api/drugs", func(w http.ResponseWriter, req *http.Request) {
			raw := map[string]any{}
			require.NoError(t, json.NewDecoder(req.Body).Decode(&raw))
			// Numeric fields go over the wire as numbers, not strings.
			assert.IsType(t, float64(0), raw["quantity"])
			assert.IsType(t, float64(0), raw["price"])
			assert.IsType(t, float64(0), raw["minStockLevel"])
			respondJSON(w, http.StatusCreated, map[string]any{"_id": "d9", "name": raw["name"]})
		})
	}, nil)
	require.NoError(t, sess.Save("tok", domain.User{}))

	drug, err := client.CreateDrug(context.Background(), DrugInput{
		Name:          "Ibuprofen",
		Category:      "Analgesic",
		BatchNo:       "B-77",
		Quantity:      40,
		Price:         decimal.NewFromFloat(80.5),
		CostPrice:     decimal.NewFromInt(60),
		MinStockLevel: 10,
	})
	require.NoError(t, err)
	assert.Equal(t, "d9", drug.ID)
}

func TestCreateDrugValidatesBeforeNetwork(t *testing.T) {
	requests := 0
	client, sess := newTestClient(t, nil, &requests)
	require.NoError(t, sess.Save("tok", domain.User{}))

	_, err := client.CreateDrug(context.Background(), DrugInput{Name: "No category"})
	require.Error(t, err)
	assert.Zero(t, requests)
}

func TestDeleteDrugEscapesID(t *testing.T) {
	var gotPath string
	client, sess := newTestClient(t, func(r chi.Router) {
		r.Delete("/api/drugs/{id}", func(w http.ResponseWriter, req *http.Request) {
			gotPath = req.URL.Path
			w.WriteHeader(http.StatusNoContent)
		})
	}, nil)
	require.NoError(t, sess.Save("tok", domain.User{}))

	require.NoError(t, client.DeleteDrug(context.Background(), "abc123"))
	assert.True(t, strings.HasSuffix(gotPath, "/abc123"))
}

func TestReportsAcceptEnvelopeAndBare(t *testing.T) {
	client, sess := newTestClient(t, func(r chi.Router) {
		r.Get("/api/reports/sales", func(w http.ResponseWriter, req *http.Request) {
			assert.Equal(t, "weekly", req.URL.Query().Get("period"))
			respondJSON(w, http.StatusOK, map[string]any{
				"report": map[string]any{"summary": map[string]any{"totalSales": 4, "totalRevenue": 900}},
			})
		})
		r.Get("/api/reports/stock", func(w http.ResponseWriter, req *http.Request) {
			respondJSON(w, http.StatusOK, map[string]any{
				"summary": map[string]any{"totalDrugs": 7},
			})
		})
	}, nil)
	require.NoError(t, sess.Save("tok", domain.User{}))

	sales, err := client.SalesReport(context.Background(), "weekly")
	require.NoError(t, err)
	assert.Equal(t, int64(4), sales.Summary.TotalSales)

	stock, err := client.StockReport(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(7), stock.Summary.TotalDrugs)
}

func TestExportReport(t *testing.T) {
	client, sess := newTestClient(t, func(r chi.Router) {
		r.Post("/api/reports/export", func(w http.ResponseWriter, req *http.Request) {
			var body map[string]string
			require.NoError(t, json.NewDecoder(req.Body).Decode(&body))
			assert.Equal(t, "sales", body["reportType"])
			assert.Equal(t, "pdf", body["format"])
			respondJSON(w, http.StatusOK, map[string]string{
				"message":     "Export queued",
				"downloadUrl": "https://example.com/report.pdf",
			})
		})
	}, nil)
	require.NoError(t, sess.Save("tok", domain.User{}))

	result, err := client.ExportReport(context.Background(), "sales", "pdf", "daily")
	require.NoError(t, err)
	assert.Equal(t, "Export queued", result.Message)
	assert.Equal(t, "https://example.com/report.pdf", result.DownloadURL)
}

func TestChangePasswordValidatesLocally(t *testing.T) {
	requests := 0
	client, sess := newTestClient(t, nil, &requests)
	require.NoError(t, sess.Save("tok", domain.User{}))

	require.Error(t, client.ChangePassword(context.Background(), "", "new"))
	assert.Zero(t, requests)
}

func TestNetworkErrorIsGeneric(t *testing.T) {
	sess := testSessionStore(t)
	require.NoError(t, sess.Save("tok", domain.User{}))
	client := New("http://127.0.0.1:1", time.Second, sess)

	_, err := client.ListDrugs(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "network error")
}
