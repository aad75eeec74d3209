package users

import (
	"net/http"

	"github.com/galeries/galeries-server/api/common"
	"github.com/galeries/galeries-server/api/middleware"
	cryptopackage "github.com/galeries/galeries-server/utils/crypto"
	"github.com/gin-gonic/gin"
)

// DeleteAccountSentence must be typed back verbatim to delete an account.
const DeleteAccountSentence = "delete my account"

type deleteAccountRequest struct {
	Password string `json:"password" binding:"required,max=200"`
	Sentence string `json:"deleteAccountSentence" binding:"required"`
}

// DeleteAccountHandler 删除当前账号及其全部内容
func (h *Handler) DeleteAccountHandler(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var req deleteAccountRequest
	if !common.BindJSON(c, &req) {
		return
	}

	if req.Sentence != DeleteAccountSentence {
		common.RespondFieldErrors(c, map[string]string{
			"deleteAccountSentence": "should match " + DeleteAccountSentence,
		})
		return
	}

	ok, err := cryptopackage.ComparePasswordAndHash(req.Password, user.Password)
	if err != nil {
		common.RespondInternalError(c)
		return
	}
	if !ok {
		common.RespondFieldErrors(c, map[string]string{"password": "wrong password"})
		return
	}

	if err := h.deletion.DeleteUser(c.Request.Context(), user); err != nil {
		common.RespondInternalError(c)
		return
	}

	c.JSON(http.StatusOK, common.Response{
		Action: c.Request.Method,
		Data:   gin.H{"id": user.UUID},
	})
}
