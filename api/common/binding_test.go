package common

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type bindTestRequest struct {
	UserName        string `json:"userName" binding:"required,alphanum,min=3,max=30"`
	Email           string `json:"email" binding:"required,email"`
	Password        string `json:"password" binding:"required,min=8"`
	ConfirmPassword string `json:"confirmPassword" binding:"required,eqfield=Password"`
}

func performBind(t *testing.T, body string) (*httptest.ResponseRecorder, bool) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	var req bindTestRequest
	ok := BindJSON(c, &req)
	return w, ok
}

func TestBindJSONValid(t *testing.T) {
	w, ok := performBind(t, `{"userName":"alice","email":"alice@example.com","password":"supersecret","confirmPassword":"supersecret"}`)
	assert.True(t, ok)
	assert.Empty(t, w.Body.String())
}

func TestBindJSONReportsAllFieldsTogether(t *testing.T) {
	w, ok := performBind(t, `{"userName":"a!","email":"not-an-email","password":"short","confirmPassword":"other"}`)
	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp struct {
		Errors map[string]string `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "should only contain letters and numbers", resp.Errors["userName"])
	assert.Equal(t, "should be a valid email", resp.Errors["email"])
	assert.Equal(t, "should have a minimum length of 8", resp.Errors["password"])
	assert.Equal(t, "should match password", resp.Errors["confirmPassword"])
}

func TestBindJSONRequired(t *testing.T) {
	w, ok := performBind(t, `{}`)
	assert.False(t, ok)

	var resp struct {
		Errors map[string]string `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Errors, 4)
	assert.Equal(t, "is required", resp.Errors["userName"])
	assert.Equal(t, "is required", resp.Errors["confirmPassword"])
}

func TestBindJSONMalformedBody(t *testing.T) {
	w, ok := performBind(t, `{"userName":`)
	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid request body")
}

func TestCursorParam(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  uint
	}{
		{"missing", "", 0},
		{"numeric", "previousFrame=42", 42},
		{"zero", "previousFrame=0", 0},
		{"negative", "previousFrame=-5", 0},
		{"non_numeric", "previousFrame=abc", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gin.SetMode(gin.TestMode)
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest(http.MethodGet, "/?"+tt.query, nil)
			assert.Equal(t, tt.want, CursorParam(c, "previousFrame"))
		})
	}
}
