package users

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/galeries/galeries-server/api/common"
)

func setupTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func performJSON(router *gin.Engine, method, path string, body map[string]interface{}) *httptest.ResponseRecorder {
	jsonBody, _ := json.Marshal(body)
	req := httptest.NewRequest(method, path, bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// --- 测试请求 DTO 绑定 ---

// TestRegisterRequest_Binding 测试注册请求绑定
func TestRegisterRequest_Binding(t *testing.T) {
	router := setupTestRouter(t)
	router.POST("/test", func(c *gin.Context) {
		var req registerRequest
		if !common.BindJSON(c, &req) {
			return
		}
		common.RespondSuccess(c, req)
	})

	valid := map[string]interface{}{
		"userName":        "alice42",
		"email":           "alice@example.com",
		"password":        "longenoughpassword",
		"confirmPassword": "longenoughpassword",
	}

	tests := []struct {
		name       string
		mutate     func(map[string]interface{})
		wantStatus int
		wantField  string
	}{
		{"valid_request", func(m map[string]interface{}) {}, http.StatusOK, ""},
		{"user_name_too_short", func(m map[string]interface{}) { m["userName"] = "ab" }, http.StatusBadRequest, "userName"},
		{"user_name_not_alphanum", func(m map[string]interface{}) { m["userName"] = "al ice!" }, http.StatusBadRequest, "userName"},
		{"bad_email", func(m map[string]interface{}) { m["email"] = "not-an-email" }, http.StatusBadRequest, "email"},
		{"password_too_short", func(m map[string]interface{}) { m["password"] = "short"; m["confirmPassword"] = "short" }, http.StatusBadRequest, "password"},
		{"passwords_mismatch", func(m map[string]interface{}) { m["confirmPassword"] = "somethingelse" }, http.StatusBadRequest, "confirmPassword"},
		{"missing_user_name", func(m map[string]interface{}) { delete(m, "userName") }, http.StatusBadRequest, "userName"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := map[string]interface{}{}
			for k, v := range valid {
				body[k] = v
			}
			tt.mutate(body)

			w := performJSON(router, http.MethodPost, "/test", body)
			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantField != "" {
				var resp struct {
					Errors map[string]string `json:"errors"`
				}
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
				assert.Contains(t, resp.Errors, tt.wantField)
			}
		})
	}
}

// TestBlackListRequest_Binding 测试拉黑请求绑定
func TestBlackListRequest_Binding(t *testing.T) {
	router := setupTestRouter(t)
	router.POST("/test", func(c *gin.Context) {
		var req blackListRequest
		if !common.BindJSON(c, &req) {
			return
		}
		common.RespondSuccess(c, req)
	})

	tests := []struct {
		name       string
		body       map[string]interface{}
		wantStatus int
	}{
		{"valid_permanent", map[string]interface{}{"reason": "posting stolen pictures"}, http.StatusOK},
		{"valid_with_time", map[string]interface{}{"reason": "posting stolen pictures", "time": 600000}, http.StatusOK},
		{"reason_too_short", map[string]interface{}{"reason": "spam"}, http.StatusBadRequest},
		{"reason_too_long", map[string]interface{}{"reason": strings.Repeat("a", 201)}, http.StatusBadRequest},
		{"missing_reason", map[string]interface{}{"time": 600000}, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := performJSON(router, http.MethodPost, "/test", tt.body)
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

// TestDeleteAccountRequest_Binding 测试删号请求绑定与确认句
func TestDeleteAccountRequest_Binding(t *testing.T) {
	router := setupTestRouter(t)
	router.DELETE("/test", func(c *gin.Context) {
		var req deleteAccountRequest
		if !common.BindJSON(c, &req) {
			return
		}
		if req.Sentence != DeleteAccountSentence {
			common.RespondFieldErrors(c, map[string]string{
				"deleteAccountSentence": "wrong sentence",
			})
			return
		}
		common.RespondSuccess(c, nil)
	})

	w := performJSON(router, http.MethodDelete, "/test", map[string]interface{}{
		"password":              "supersecret",
		"deleteAccountSentence": DeleteAccountSentence,
	})
	assert.Equal(t, http.StatusOK, w.Code)

	w = performJSON(router, http.MethodDelete, "/test", map[string]interface{}{
		"password":              "supersecret",
		"deleteAccountSentence": "delete my account please",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "wrong sentence")
}

// TestLoginRequest_Binding 测试登录请求绑定
func TestLoginRequest_Binding(t *testing.T) {
	router := setupTestRouter(t)
	router.POST("/test", func(c *gin.Context) {
		var req loginRequest
		if !common.BindJSON(c, &req) {
			return
		}
		common.RespondSuccess(c, nil)
	})

	w := performJSON(router, http.MethodPost, "/test", map[string]interface{}{
		"userNameOrEmail": "alice42",
		"password":        "supersecret",
	})
	assert.Equal(t, http.StatusOK, w.Code)

	w = performJSON(router, http.MethodPost, "/test", map[string]interface{}{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
