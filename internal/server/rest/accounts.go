package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// forgotPasswordMessage is returned whether or not the email is known.
const forgotPasswordMessage = "If an account exists with that email, we sent reset instructions"

type registerRequest struct {
	UserName string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"pass" binding:"required"`
}

type loginRequest struct {
	UserName string `json:"username" binding:"required"`
	Password string `json:"pass" binding:"required"`
}

type forgotPasswordRequest struct {
	Email string `json:"email" binding:"required"`
}

type resetPasswordRequest struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"newPass" binding:"required"`
}

// bind decodes the JSON body into req; on failure it responds 400 with
// missingMsg and returns false.
func (s *Server) bind(c *gin.Context, req any, missingMsg string) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		s.log(c).Debug(c.Request.Context(), "Invalid request body", "error", err)
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": missingMsg})
		return false
	}
	return true
}

func (s *Server) register(c *gin.Context) {
	var req registerRequest
	if !s.bind(c, &req, "All fields are required") {
		return
	}

	if _, err := s.accounts.Register(c.Request.Context(), req.UserName, req.Email, req.Password); err != nil {
		s.respondError(c, err, "")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "User created successfully"})
}

func (s *Server) login(c *gin.Context) {
	var req loginRequest
	if !s.bind(c, &req, "Username and password are required") {
		return
	}

	res, err := s.accounts.Login(c.Request.Context(), req.UserName, req.Password)
	if err != nil {
		s.respondError(c, err, "")
		return
	}

	c.JSON(http.StatusOK, res)
}

func (s *Server) forgotPassword(c *gin.Context) {
	var req forgotPasswordRequest
	if !s.bind(c, &req, "Please enter an email") {
		return
	}

	if err := s.accounts.RequestPasswordReset(c.Request.Context(), req.Email); err != nil {
		s.respondError(c, err, "Failed to process reset request")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": forgotPasswordMessage})
}

func (s *Server) resetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if !s.bind(c, &req, "Token and new password are required") {
		return
	}

	if err := s.accounts.ResetPassword(c.Request.Context(), req.Token, req.NewPassword); err != nil {
		s.respondError(c, err, "Failed to reset password")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password has been reset"})
}
