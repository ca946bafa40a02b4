package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"

	"pharmalink/pos/domain"
	"pharmalink/pos/internal/session"
)

// ErrAuthRequired is returned before any network call when no live session
// token exists, and after a 401 once the stale session has been cleared.
var ErrAuthRequired = errors.New("authentication required, please login again")

// APIError is a structured server rejection; Message is displayed verbatim.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string { return e.Message }

// Client talks to the PharmaLink backend. All state mutations happen
// server-side; the client's only local writes go through the session store.
type Client struct {
	base    string
	http    *http.Client
	session *session.Store
	sfg     singleflight.Group // collapses overlapping list fetches
}

func New(base string, timeout time.Duration, sess *session.Store) *Client {
	return &Client{
		base:    strings.TrimRight(base, "/"),
		http:    &http.Client{Timeout: timeout},
		session: sess,
	}
}

func (c *Client) do(ctx context.Context, method, path string, body any, out any, authed bool) error {
	var token string
	if authed {
		sess, ok := c.session.Current()
		if !ok {
			return ErrAuthRequired
		}
		token = sess.Token
	}

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("network error, please check your connection: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("network error, please check your connection: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		_ = c.session.Clear()
		return ErrAuthRequired
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{Status: resp.StatusCode, Message: errorMessage(raw, resp.StatusCode)}
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("invalid response from server: %w", err)
		}
	}
	return nil
}

// errorMessage extracts the server's structured message; an unparseable
// body falls back to a generic status line.
func errorMessage(raw []byte, status int) string {
	var envelope struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(raw, &envelope); err == nil {
		if envelope.Message != "" {
			return envelope.Message
		}
		if envelope.Error != "" {
			return envelope.Error
		}
	}
	return fmt.Sprintf("request failed with status %d", status)
}

// Auth

type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type Registration struct {
	Username     string `json:"username"`
	Email        string `json:"email"`
	Password     string `json:"password"`
	PharmacyName string `json:"pharmacyName"`
	Phone        string `json:"phone"`
}

type authResponse struct {
	Token string `json:"token"`
	domain.User
}

func (c *Client) Login(ctx context.Context, creds Credentials) (domain.User, error) {
	if creds.Username == "" || creds.Password == "" {
		return domain.User{}, errors.New("username and password are required")
	}
	var resp authResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", creds, &resp, false); err != nil {
		return domain.User{}, err
	}
	if resp.Token == "" {
		return domain.User{}, errors.New("invalid response from server: missing token")
	}
	if err := c.session.Save(resp.Token, resp.User); err != nil {
		return domain.User{}, err
	}
	return resp.User, nil
}

func (c *Client) Register(ctx context.Context, reg Registration) (domain.User, error) {
	if reg.Username == "" || reg.Email == "" || reg.Password == "" || reg.PharmacyName == "" {
		return domain.User{}, errors.New("username, email, password and pharmacy name are required")
	}
	var resp authResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/register", reg, &resp, false); err != nil {
		return domain.User{}, err
	}
	if resp.Token == "" {
		return domain.User{}, errors.New("invalid response from server: missing token")
	}
	if err := c.session.Save(resp.Token, resp.User); err != nil {
		return domain.User{}, err
	}
	return resp.User, nil
}

// Me verifies the stored token against the server, used to restore a
// session at startup.
func (c *Client) Me(ctx context.Context) (domain.User, error) {
	var user domain.User
	if err := c.do(ctx, http.MethodGet, "/api/auth/me", nil, &user, true); err != nil {
		return domain.User{}, err
	}
	return user, nil
}

func (c *Client) Logout() error {
	return c.session.Clear()
}

// Drugs

type DrugInput struct {
	Name          string          `json:"name"`
	Category      string          `json:"category"`
	BatchNo       string          `json:"batchNo"`
	Quantity      int64           `json:"quantity"`
	Price         decimal.Decimal `json:"price"`
	CostPrice     decimal.Decimal `json:"costPrice"`
	ExpiryDate    string          `json:"expiryDate"`
	Supplier      string          `json:"supplier"`
	MinStockLevel int64           `json:"minStockLevel"`
}

func (in DrugInput) validate() error {
	if in.Name == "" || in.Category == "" || in.BatchNo == "" {
		return errors.New("name, category and batch number are required")
	}
	if in.Quantity < 0 || in.Price.IsNegative() || in.CostPrice.IsNegative() {
		return errors.New("quantity and prices must not be negative")
	}
	return nil
}

// ListDrugs fetches the catalog. Overlapping calls collapse into one
// request; the list endpoint answers either {"drugs": [...]} or a bare
// array, and both normalize here at the edge.
func (c *Client) ListDrugs(ctx context.Context) ([]domain.Drug, error) {
	v, err, _ := c.sfg.Do("drugs", func() (interface{}, error) {
		var raw json.RawMessage
		if err := c.do(ctx, http.MethodGet, "/api/drugs", nil, &raw, true); err != nil {
			return nil, err
		}
		return decodeDrugList(raw)
	})
	if err != nil {
		return nil, err
	}
	return v.([]domain.Drug), nil
}

func decodeDrugList(raw json.RawMessage) ([]domain.Drug, error) {
	var envelope struct {
		Drugs []domain.Drug `json:"drugs"`
		Data  []domain.Drug `json:"data"`
	}
	if err := json.Unmarshal(raw, &envelope); err == nil {
		if envelope.Drugs != nil {
			return envelope.Drugs, nil
		}
		if envelope.Data != nil {
			return envelope.Data, nil
		}
	}
	var drugs []domain.Drug
	if err := json.Unmarshal(raw, &drugs); err == nil {
		return drugs, nil
	}
	return nil, errors.New("invalid response from server: unrecognized drug list shape")
}

func (c *Client) CreateDrug(ctx context.Context, in DrugInput) (domain.Drug, error) {
	if err := in.validate(); err != nil {
		return domain.Drug{}, err
	}
	var drug domain.Drug
	if err := c.do(ctx, http.MethodPost, "/api/drugs", in, &drug, true); err != nil {
		return domain.Drug{}, err
	}
	return drug, nil
}

func (c *Client) UpdateDrug(ctx context.Context, id string, in DrugInput) (domain.Drug, error) {
	if id == "" {
		return domain.Drug{}, errors.New("drug id is required")
	}
	if err := in.validate(); err != nil {
		return domain.Drug{}, err
	}
	var drug domain.Drug
	if err := c.do(ctx, http.MethodPut, "/api/drugs/"+url.PathEscape(id), in, &drug, true); err != nil {
		return domain.Drug{}, err
	}
	return drug, nil
}

func (c *Client) DeleteDrug(ctx context.Context, id string) error {
	if id == "" {
		return errors.New("drug id is required")
	}
	return c.do(ctx, http.MethodDelete, "/api/drugs/"+url.PathEscape(id), nil, nil, true)
}

// Sales

// CreateSale submits a checkout. The response arrives as {"sale": {...}}
// or a bare sale object.
func (c *Client) CreateSale(ctx context.Context, req domain.SaleRequest) (domain.Sale, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodPost, "/api/sales", req, &raw, true); err != nil {
		return domain.Sale{}, err
	}
	return decodeSale(raw)
}

func decodeSale(raw json.RawMessage) (domain.Sale, error) {
	var envelope struct {
		Sale *domain.Sale `json:"sale"`
	}
	if err := json.Unmarshal(raw, &envelope); err == nil && envelope.Sale != nil {
		return *envelope.Sale, nil
	}
	var sale domain.Sale
	if err := json.Unmarshal(raw, &sale); err != nil {
		return domain.Sale{}, errors.New("invalid response from server: unrecognized sale shape")
	}
	return sale, nil
}

// Dashboard and reports

func (c *Client) Dashboard(ctx context.Context) (domain.DashboardData, error) {
	v, err, _ := c.sfg.Do("dashboard", func() (interface{}, error) {
		var data domain.DashboardData
		if err := c.do(ctx, http.MethodGet, "/api/dashboard", nil, &data, true); err != nil {
			return nil, err
		}
		return data, nil
	})
	if err != nil {
		return domain.DashboardData{}, err
	}
	return v.(domain.DashboardData), nil
}

func (c *Client) SalesReport(ctx context.Context, period string) (domain.SalesReport, error) {
	var resp struct {
		Report *domain.SalesReport `json:"report"`
		domain.SalesReport
	}
	path := "/api/reports/sales?period=" + url.QueryEscape(period)
	if err := c.do(ctx, http.MethodGet, path, nil, &resp, true); err != nil {
		return domain.SalesReport{}, err
	}
	if resp.Report != nil {
		return *resp.Report, nil
	}
	return resp.SalesReport, nil
}

func (c *Client) StockReport(ctx context.Context) (domain.StockReport, error) {
	var resp struct {
		Report *domain.StockReport `json:"report"`
		domain.StockReport
	}
	if err := c.do(ctx, http.MethodGet, "/api/reports/stock", nil, &resp, true); err != nil {
		return domain.StockReport{}, err
	}
	if resp.Report != nil {
		return *resp.Report, nil
	}
	return resp.StockReport, nil
}

func (c *Client) AnalyticsReport(ctx context.Context, period string) (domain.AnalyticsReport, error) {
	var resp struct {
		Analytics *domain.AnalyticsReport `json:"analytics"`
		domain.AnalyticsReport
	}
	path := "/api/reports/analytics?period=" + url.QueryEscape(period)
	if err := c.do(ctx, http.MethodGet, path, nil, &resp, true); err != nil {
		return domain.AnalyticsReport{}, err
	}
	if resp.Analytics != nil {
		return *resp.Analytics, nil
	}
	return resp.AnalyticsReport, nil
}

type exportRequest struct {
	ReportType string `json:"reportType"`
	Format     string `json:"format"`
	Period     string `json:"period"`
}

func (c *Client) ExportReport(ctx context.Context, reportType, format, period string) (domain.ExportResult, error) {
	if reportType == "" || format == "" {
		return domain.ExportResult{}, errors.New("report type and format are required")
	}
	var result domain.ExportResult
	req := exportRequest{ReportType: reportType, Format: format, Period: period}
	if err := c.do(ctx, http.MethodPost, "/api/reports/export", req, &result, true); err != nil {
		return domain.ExportResult{}, err
	}
	return result, nil
}

// Profile

type ProfileInput struct {
	Username     string `json:"username"`
	Email        string `json:"email"`
	PharmacyName string `json:"pharmacyName"`
	Phone        string `json:"phone"`
}

func (c *Client) Profile(ctx context.Context) (domain.User, error) {
	var user domain.User
	if err := c.do(ctx, http.MethodGet, "/api/users/profile", nil, &user, true); err != nil {
		return domain.User{}, err
	}
	return user, nil
}

func (c *Client) UpdateProfile(ctx context.Context, in ProfileInput) (domain.User, error) {
	if in.Username == "" || in.Email == "" {
		return domain.User{}, errors.New("username and email are required")
	}
	var user domain.User
	if err := c.do(ctx, http.MethodPut, "/api/users/profile", in, &user, true); err != nil {
		return domain.User{}, err
	}
	return user, nil
}

type passwordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

func (c *Client) ChangePassword(ctx context.Context, current, next string) error {
	if current == "" || next == "" {
		return errors.New("current and new passwords are required")
	}
	return c.do(ctx, http.MethodPut, "/api/users/password", passwordRequest{CurrentPassword: current, NewPassword: next}, nil, true)
}
