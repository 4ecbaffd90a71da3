package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func decode(t *testing.T, w *httptest.ResponseRecorder) Response {
	t.Helper()
	var resp Response
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return resp
}

func TestError_AppErrorKeepsStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		name   string
		err    *AppError
		status int
	}{
		{"bad request", NewBadRequest("nope"), http.StatusBadRequest},
		{"forbidden", NewForbidden("denied"), http.StatusForbidden},
		{"not found", NewNotFound("gone"), http.StatusNotFound},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			Error(c, tc.err)

			if w.Code != tc.status {
				t.Errorf("status = %d, expected %d", w.Code, tc.status)
			}
			resp := decode(t, w)
			if resp.Code != tc.status || resp.Message != tc.err.Message {
				t.Errorf("envelope = %+v, expected code %d message %q", resp, tc.status, tc.err.Message)
			}
		})
	}
}

func TestError_PlainErrorIs500(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	Error(c, errors.New("boom"))

	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, expected 500", w.Code)
	}
	if resp := decode(t, w); resp.Code != 500 {
		t.Errorf("envelope code = %d, expected 500", resp.Code)
	}
}

func TestSuccessEnvelope(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	Success(c, gin.H{"answer": 42})

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, expected 200", w.Code)
	}
	resp := decode(t, w)
	if resp.Code != 0 || resp.Message != "ok" || resp.Data == nil {
		t.Errorf("envelope = %+v, expected code 0 message ok with data", resp)
	}
}
