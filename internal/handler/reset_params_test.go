package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func resetContext(target, body string) echo.Context {
	e := echo.New()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(http.MethodPost, target, nil)
	}
	return e.NewContext(req, httptest.NewRecorder())
}

func TestResetParams(t *testing.T) {
	t.Run("json body", func(t *testing.T) {
		c := resetContext("/buyer/reset-password", `{"token":"tok-1","new_password":"pw456"}`)
		token, pw := resetParams(c)
		assert.Equal(t, "tok-1", token)
		assert.Equal(t, "pw456", pw)
	})

	t.Run("query parameters use the same field names", func(t *testing.T) {
		c := resetContext("/buyer/reset-password?token=tok-1&new_password=pw456", "")
		token, pw := resetParams(c)
		assert.Equal(t, "tok-1", token)
		assert.Equal(t, "pw456", pw)
	})

	t.Run("body wins over query", func(t *testing.T) {
		c := resetContext("/buyer/reset-password?token=ignored&new_password=ignored",
			`{"token":"tok-1","new_password":"pw456"}`)
		token, pw := resetParams(c)
		assert.Equal(t, "tok-1", token)
		assert.Equal(t, "pw456", pw)
	})
}

func TestResetEmail(t *testing.T) {
	t.Run("json body", func(t *testing.T) {
		c := resetContext("/buyer/forgot-password", `{"email":" a@x.com "}`)
		assert.Equal(t, "a@x.com", resetEmail(c))
	})

	t.Run("query fallback", func(t *testing.T) {
		c := resetContext("/buyer/forgot-password?email=a@x.com", "")
		assert.Equal(t, "a@x.com", resetEmail(c))
	})
}
