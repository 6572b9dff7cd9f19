package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aniwoo/aniwoo-api/pkg/dto"
	"github.com/aniwoo/aniwoo-api/tests/testutil"
	"github.com/m1z23r/drift/pkg/drift"
	driftmw "github.com/m1z23r/drift/pkg/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newContactTestApp(handler *ContactHandler) *drift.Engine {
	app := drift.New()
	app.Use(driftmw.BodyParser())
	app.Post("/contact", handler.Submit)
	return app
}

func submitContact(t *testing.T, app *drift.Engine, body dto.ContactRequest) *httptest.ResponseRecorder {
	t.Helper()
	payload, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, "/contact", strings.NewReader(string(payload)))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, req)
	return rec
}

func TestContactHandler_Submit_Success(t *testing.T) {
	mockEmail := new(testutil.MockEmailService)
	mockEmail.On("IsConfigured").Return(true)
	mockEmail.On("SendContactMessage", "Sasha", "sasha@example.com", "Order issue", "My order never arrived").Return(nil)

	app := newContactTestApp(NewContactHandler(mockEmail))

	rec := submitContact(t, app, dto.ContactRequest{
		Name: "Sasha", Email: "sasha@example.com", Subject: "Order issue", Message: "My order never arrived",
	})

	assert.Equal(t, http.StatusAccepted, rec.Code)
	mockEmail.AssertExpectations(t)
}

func TestContactHandler_Submit_NotConfigured(t *testing.T) {
	mockEmail := new(testutil.MockEmailService)
	mockEmail.On("IsConfigured").Return(false)

	app := newContactTestApp(NewContactHandler(mockEmail))

	rec := submitContact(t, app, dto.ContactRequest{
		Name: "Sasha", Email: "sasha@example.com", Message: "Hello",
	})

	assert.Equal(t, http.StatusAccepted, rec.Code)
	mockEmail.AssertNotCalled(t, "SendContactMessage",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestContactHandler_Submit_SendFailure(t *testing.T) {
	mockEmail := new(testutil.MockEmailService)
	mockEmail.On("IsConfigured").Return(true)
	mockEmail.On("SendContactMessage", "Sasha", "sasha@example.com", "General enquiry", "Hello").
		Return(errors.New("smtp refused"))

	app := newContactTestApp(NewContactHandler(mockEmail))

	rec := submitContact(t, app, dto.ContactRequest{
		Name: "Sasha", Email: "sasha@example.com", Message: "Hello",
	})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestContactHandler_Submit_InvalidEmail(t *testing.T) {
	app := newContactTestApp(NewContactHandler(new(testutil.MockEmailService)))

	rec := submitContact(t, app, dto.ContactRequest{
		Name: "Sasha", Email: "not-an-email", Message: "Hello",
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
