package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	reqdto "storebot/internal/handler/dto/request"
	resdto "storebot/internal/handler/dto/response"
	"storebot/internal/handler/httperr"
	"storebot/internal/usecase/commands"
)

type AuthHandler struct {
	cmds commands.AuthCommands
}

func NewAuthHandler(cmds commands.AuthCommands) *AuthHandler {
	return &AuthHandler{cmds: cmds}
}

// @Summary Admin login
// @Description Authenticate the panel administrator and issue a token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body reqdto.LoginRequest true "Login request"
// @Success 200 {object} resdto.LoginResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req reqdto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}

	result, err := h.cmds.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		httperr.AbortWithError(c, http.StatusUnauthorized, err, "Invalid credentials", nil)
		return
	}

	c.JSON(http.StatusOK, resdto.LoginResponse{Token: result.Token})
}
