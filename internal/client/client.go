// Package client talks to the OfficeDesk HTTP API on behalf of deskctl.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/ahmetcoskunkizilkaya/officedesk/internal/apps/appointments"
	"github.com/ahmetcoskunkizilkaya/officedesk/internal/apps/birthdays"
	"github.com/ahmetcoskunkizilkaya/officedesk/internal/dto"
)

// APIError is a non-2xx reply from the server.
type APIError struct {
	Status  int
	Message string
	Details string
}

func (e *APIError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("api error %d: %s (%s)", e.Status, e.Message, e.Details)
	}
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// IsStatus reports whether err is an *APIError with the given status.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}

type Client struct {
	baseURL string
	http    *http.Client
	token   string
	orgID   string
}

type Option func(*Client)

func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithOrg sends X-Org-ID on every request.
func WithOrg(orgID string) Option {
	return func(c *Client) { c.orgID = orgID }
}

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// New returns a client for the server at baseURL (scheme and host; the
// /api prefix is added per call).
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Token() string { return c.token }

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+"/api"+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if c.orgID != "" {
		req.Header.Set("X-Org-ID", c.orgID)
	}
	return req, nil
}

// do sends in as JSON (when non-nil) and decodes the reply into out (when
// non-nil).
func (c *Client) do(ctx context.Context, method, path string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.send(req, out)
}

func (c *Client) send(req *http.Request, out interface{}) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return decodeError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", req.Method, req.URL.Path, err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	apiErr := &APIError{Status: resp.StatusCode}
	var body dto.ErrorResponse
	if err := json.Unmarshal(raw, &body); err == nil && body.Error != "" {
		apiErr.Message = body.Error
		apiErr.Details = body.Details
	} else {
		apiErr.Message = strings.TrimSpace(string(raw))
		if apiErr.Message == "" {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
	}
	return apiErr
}

// Login exchanges phone and password for a session and keeps the token for
// later calls.
func (c *Client) Login(ctx context.Context, phone, password string) (*dto.LoginResponse, error) {
	var out dto.LoginResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", dto.LoginRequest{Phone: phone, Password: password}, &out); err != nil {
		return nil, err
	}
	c.token = out.Token
	return &out, nil
}

func (c *Client) View(ctx context.Context) (*dto.ViewResponse, error) {
	var out dto.ViewResponse
	if err := c.do(ctx, http.MethodGet, "/view", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// --- Appointments ---

func (c *Client) ListAppointments(ctx context.Context) ([]appointments.Appointment, error) {
	var out []appointments.Appointment
	if err := c.do(ctx, http.MethodGet, "/appointments", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateAppointment(ctx context.Context, req appointments.CreateAppointmentRequest) (*appointments.Appointment, error) {
	var out appointments.Appointment
	if err := c.do(ctx, http.MethodPost, "/appointments", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateAppointment(ctx context.Context, id string, req appointments.PatchAppointmentRequest) (*appointments.Appointment, error) {
	var out appointments.Appointment
	if err := c.do(ctx, http.MethodPatch, "/appointments/"+url.PathEscape(id), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) SetStatus(ctx context.Context, id, status string) (*appointments.Appointment, error) {
	var out appointments.Appointment
	path := "/appointments/" + url.PathEscape(id) + "/status"
	if err := c.do(ctx, http.MethodPatch, path, appointments.StatusRequest{Status: status}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteAppointment(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/appointments/"+url.PathEscape(id), nil, nil)
}

func (c *Client) BulkDeleteAppointments(ctx context.Context, ids []string) (int64, error) {
	var out appointments.BulkDeleteResponse
	if err := c.do(ctx, http.MethodPost, "/appointments/bulk-delete", appointments.BulkDeleteRequest{AppointmentIDs: ids}, &out); err != nil {
		return 0, err
	}
	return out.Deleted, nil
}

// --- Birthdays ---

func (c *Client) ListBirthdays(ctx context.Context) ([]birthdays.Birthday, error) {
	var out []birthdays.Birthday
	if err := c.do(ctx, http.MethodGet, "/birthdays", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateBirthday(ctx context.Context, req birthdays.CreateBirthdayRequest) (*birthdays.CreateBirthdayResponse, error) {
	var out birthdays.CreateBirthdayResponse
	if err := c.do(ctx, http.MethodPost, "/birthdays", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateBirthday(ctx context.Context, id string, req birthdays.PatchBirthdayRequest) (*birthdays.Birthday, error) {
	var out birthdays.Birthday
	if err := c.do(ctx, http.MethodPatch, "/birthdays/"+url.PathEscape(id), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteBirthday(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/birthdays/"+url.PathEscape(id), nil, nil)
}

func (c *Client) BulkDeleteBirthdays(ctx context.Context, ids []string) (int64, error) {
	var out birthdays.BulkDeleteResponse
	if err := c.do(ctx, http.MethodPost, "/birthdays/bulk-delete", birthdays.BulkDeleteRequest{IDs: ids}, &out); err != nil {
		return 0, err
	}
	return out.Deleted, nil
}

func (c *Client) BirthdayDuplicates(ctx context.Context) ([][]birthdays.Birthday, error) {
	var out birthdays.DuplicatesResponse
	if err := c.do(ctx, http.MethodGet, "/birthdays/duplicates", nil, &out); err != nil {
		return nil, err
	}
	return out.Groups, nil
}

func (c *Client) UpcomingBirthdays(ctx context.Context, days int) ([]birthdays.UpcomingBirthday, error) {
	var out []birthdays.UpcomingBirthday
	if err := c.do(ctx, http.MethodGet, "/birthdays/upcoming?days="+strconv.Itoa(days), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ImportFile uploads a spreadsheet for server-side import.
func (c *Client) ImportFile(ctx context.Context, filename string, content []byte) (*birthdays.ImportResponse, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		return nil, err
	}
	if _, err := part.Write(content); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/birthdays/import", &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	var out birthdays.ImportResponse
	if err := c.send(req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
