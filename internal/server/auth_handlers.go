package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/stockroom-dev/stockroom/internal/admins"
	"github.com/stockroom-dev/stockroom/internal/auth"
)

const (
	msgInvalidBody        = "Invalid request body"
	msgMissingCredentials = "Username and password are required"
	msgInvalidCredentials = "Invalid credentials"
	msgInternal           = "Internal server error"
)

// LoginRequest represents a login request
type LoginRequest struct {
	UserName string `json:"userName" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse represents a login response. The token itself only travels in the cookie.
type LoginResponse struct {
	Success bool          `json:"success"`
	Admin   auth.Identity `json:"admin"`
}

// LogoutResponse represents a logout response
type LogoutResponse struct {
	Success bool `json:"success"`
}

// CheckResponse reports whether the request carries a valid session
type CheckResponse struct {
	Authenticated bool           `json:"authenticated"`
	User          *auth.Identity `json:"user,omitempty"`
}

// AdminDetail is the stored admin record minus its password hash
type AdminDetail struct {
	AdminID   string    `json:"adminId"`
	UserName  string    `json:"userName"`
	CreatedAt time.Time `json:"createdAt"`
}

// @Summary Login
// @Description Authenticate with username and password; sets the session cookie
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login request"
// @Success 200 {object} LoginResponse
// @Failure 400 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Router /api/auth/login [post]
func (s *Server) login(c *gin.Context) {
	var req LoginRequest
	if err := bindStrictJSON(c, &req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			c.JSON(http.StatusBadRequest, gin.H{"error": msgMissingCredentials})
			return
		}
		s.logger.Debug().Err(err).Msg("Rejected login body")
		c.JSON(http.StatusBadRequest, gin.H{"error": msgInvalidBody})
		return
	}

	admin, err := s.admins.Authenticate(c.Request.Context(), req.UserName, req.Password)
	if err != nil {
		if errors.Is(err, admins.ErrInvalidCredentials) {
			s.logger.Warn().Str("user_name", req.UserName).Str("client_ip", c.ClientIP()).Msg("Login failed")
			c.JSON(http.StatusUnauthorized, gin.H{"error": msgInvalidCredentials})
			return
		}
		s.logger.Error().Err(err).Msg("Failed to look up admin")
		c.JSON(http.StatusInternalServerError, gin.H{"error": msgInternal})
		return
	}

	identity := auth.Identity{AdminID: admin.ID, UserName: admin.UserName}
	token, err := s.tokens.Issue(identity)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to generate token")
		c.JSON(http.StatusInternalServerError, gin.H{"error": msgInternal})
		return
	}

	s.cookies.Attach(c.Writer, token)

	s.logger.Info().Str("admin_id", admin.ID).Str("user_name", admin.UserName).Msg("Admin logged in")

	c.JSON(http.StatusOK, LoginResponse{
		Success: true,
		Admin:   identity,
	})
}

// @Summary Logout
// @Description Clears the session cookie. The token itself stays valid until it expires.
// @Tags auth
// @Produce json
// @Success 200 {object} LogoutResponse
// @Router /api/auth/logout [post]
func (s *Server) logout(c *gin.Context) {
	s.cookies.Clear(c.Writer)
	c.JSON(http.StatusOK, LogoutResponse{Success: true})
}

// @Summary Check session
// @Description Reports whether the session cookie holds a valid token
// @Tags auth
// @Produce json
// @Success 200 {object} CheckResponse
// @Failure 401 {object} CheckResponse
// @Router /api/auth/check [get]
func (s *Server) checkAuth(c *gin.Context) {
	token, ok := auth.TokenFrom(c.Request)
	if !ok {
		c.JSON(http.StatusUnauthorized, CheckResponse{Authenticated: false})
		return
	}

	identity, err := s.tokens.Verify(token)
	if err != nil {
		s.logger.Debug().Err(err).Msg("Session check failed")
		c.JSON(http.StatusUnauthorized, CheckResponse{Authenticated: false})
		return
	}

	c.JSON(http.StatusOK, CheckResponse{
		Authenticated: true,
		User:          &identity,
	})
}

// @Summary Get current admin
// @Description Returns the stored record of the authenticated admin
// @Tags auth
// @Produce json
// @Success 200 {object} AdminDetail
// @Failure 401 {object} map[string]interface{}
// @Router /api/auth/me [get]
func (s *Server) getCurrentAdmin(c *gin.Context) {
	identity, exists := GetIdentity(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	admin, err := s.admins.FindByID(c.Request.Context(), identity.AdminID)
	if err != nil {
		if errors.Is(err, admins.ErrNotFound) {
			respondWithError(c, s.logger, http.StatusUnauthorized, err, "Unauthorized")
			return
		}
		s.logger.Error().Err(err).Str("admin_id", identity.AdminID).Msg("Failed to find admin")
		c.JSON(http.StatusInternalServerError, gin.H{"error": msgInternal})
		return
	}

	c.JSON(http.StatusOK, AdminDetail{
		AdminID:   admin.ID,
		UserName:  admin.UserName,
		CreatedAt: admin.CreatedAt,
	})
}

// bindStrictJSON decodes the body into obj rejecting unknown fields, then runs
// the binding validators. Validation failures come back as
// validator.ValidationErrors.
func bindStrictJSON(c *gin.Context, obj any) error {
	if c.Request.Body == nil {
		return errors.New("empty request body")
	}

	decoder := json.NewDecoder(c.Request.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(obj); err != nil {
		return err
	}
	return binding.Validator.ValidateStruct(obj)
}
