package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"groupchat/internal/models"
	"groupchat/internal/services"
)

type UserHandler struct {
	userService services.UserService
	log         *slog.Logger
}

func NewUserHandler(userService services.UserService, log *slog.Logger) *UserHandler {
	return &UserHandler{userService: userService, log: log.With(slog.String("component", "user_handler"))}
}

// @Summary      Sign up
// @Description  Creates an account. Emails are unique and case-insensitive.
// @Tags         User
// @Accept       json
// @Produce      json
// @Param        user  body      models.SignUpRequest  true  "New account"
// @Success      201   {object}  map[string]interface{}
// @Failure      400   {object}  map[string]interface{}
// @Failure      500   {object}  map[string]interface{}
// @Router       /user/sign-up [post]
func (h *UserHandler) SignUp(c *gin.Context) {
	var req models.SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	user, err := h.userService.SignUp(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Successfully created new user",
		"data":    user,
	})
}

// @Summary      Sign in
// @Description  Verifies credentials and returns an identity token
// @Tags         User
// @Accept       json
// @Produce      json
// @Param        login  body      models.LoginRequest  true  "Credentials"
// @Success      200    {object}  map[string]interface{}
// @Failure      400    {object}  map[string]interface{}
// @Failure      401    {object}  map[string]interface{}
// @Failure      404    {object}  map[string]interface{}
// @Router       /user/sign-in [post]
func (h *UserHandler) SignIn(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	token, user, err := h.userService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Login successful",
		"token":   token,
		"user":    user.Summary(),
	})
}
