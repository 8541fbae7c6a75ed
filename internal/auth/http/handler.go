package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	authDomain "github.com/allisson/legacyvault/internal/auth/domain"
	"github.com/allisson/legacyvault/internal/auth/http/dto"
	authUseCase "github.com/allisson/legacyvault/internal/auth/usecase"
	apperrors "github.com/allisson/legacyvault/internal/errors"
	"github.com/allisson/legacyvault/internal/httputil"
	customValidation "github.com/allisson/legacyvault/internal/validation"
)

// validator is implemented by every request body.
type validator interface {
	Validate() error
}

// AuthHandler serves the /api/v1/auth endpoints.
type AuthHandler struct {
	authUseCase authUseCase.UseCase
	logger      *slog.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authUseCase authUseCase.UseCase, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		authUseCase: authUseCase,
		logger:      logger,
	}
}

// EmailSignupHandler creates a password account.
// POST /api/v1/auth/email-signup - Returns 201 Created with the new user id.
func (h *AuthHandler) EmailSignupHandler(c *gin.Context) {
	var req dto.EmailSignupRequest
	if !h.bind(c, &req) {
		return
	}

	user, err := h.authUseCase.EmailSignup(c.Request.Context(), authUseCase.SignupInput{
		Email:    req.Email,
		Password: req.Password,
		Profile:  req.ToProfileUpdate(),
	})
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.SignupResponse{Message: "User registered successfully", UserID: user.ID})
}

// EmailLoginHandler exchanges an email and password for an access token.
// POST /api/v1/auth/email-login - Returns 200 OK with the session.
func (h *AuthHandler) EmailLoginHandler(c *gin.Context) {
	var req dto.EmailLoginRequest
	if !h.bind(c, &req) {
		return
	}

	session, err := h.authUseCase.EmailLogin(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapSessionToResponse(session))
}

// RequestOTPHandler mails a one-time code.
// POST /api/v1/auth/request-otp - Returns 200 OK once the mail is accepted.
func (h *AuthHandler) RequestOTPHandler(c *gin.Context) {
	var req dto.RequestOTPRequest
	if !h.bind(c, &req) {
		return
	}

	if err := h.authUseCase.RequestOTP(c.Request.Context(), req.Email, req.ToProfileUpdate()); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: "OTP sent successfully"})
}

// VerifyOTPHandler logs in with an emailed code.
// POST /api/v1/auth/verify-otp - Returns 200 OK with the session, 400 for a wrong or expired code.
func (h *AuthHandler) VerifyOTPHandler(c *gin.Context) {
	var req dto.VerifyOTPRequest
	if !h.bindOTP(c, &req) {
		return
	}

	session, err := h.authUseCase.VerifyOTP(c.Request.Context(), req.Email, req.OTP, req.ToProfileUpdate())
	if err != nil {
		h.handleOTPError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MapSessionToResponse(session))
}

// VerifySignupOTPHandler completes an account with an emailed code.
// POST /api/v1/auth/verify-signup-otp - Returns 201 Created with the user id.
func (h *AuthHandler) VerifySignupOTPHandler(c *gin.Context) {
	var req dto.VerifyOTPRequest
	if !h.bindOTP(c, &req) {
		return
	}

	user, err := h.authUseCase.VerifySignupOTP(c.Request.Context(), req.Email, req.OTP, req.ToProfileUpdate())
	if err != nil {
		h.handleOTPError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.SignupResponse{Message: "User registered successfully", UserID: user.ID})
}

// WalletLoginHandler logs in with a wallet signature.
// POST /api/v1/auth/login - Returns 200 OK with the session, 401 if the signature does not match.
func (h *AuthHandler) WalletLoginHandler(c *gin.Context) {
	var req dto.WalletLoginRequest
	if !h.bind(c, &req) {
		return
	}

	session, err := h.authUseCase.WalletLogin(c.Request.Context(), req.WalletAddress, req.Signature, req.Username)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapSessionToResponse(session))
}

// ConnectWalletHandler links a wallet to an email account, or logs in with the wallet alone.
// POST /api/v1/auth/connect-wallet - Returns 200 OK with the session.
func (h *AuthHandler) ConnectWalletHandler(c *gin.Context) {
	var req dto.ConnectWalletRequest
	if !h.bind(c, &req) {
		return
	}

	session, err := h.authUseCase.ConnectWallet(c.Request.Context(), req.WalletAddress, req.Signature, req.Email)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapSessionToResponse(session))
}

// bind decodes the JSON body and validates it, writing 400 or 422 on failure.
func (h *AuthHandler) bind(c *gin.Context, req validator) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return false
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return false
	}
	return true
}

func (h *AuthHandler) bindOTP(c *gin.Context, req *dto.VerifyOTPRequest) bool {
	if !h.bind(c, req) {
		return false
	}
	if err := req.ValidateCode(); err != nil {
		httputil.HandleBadRequestGin(c, authDomain.ErrInvalidOTP, h.logger)
		return false
	}
	return true
}

// handleOTPError reports a wrong or expired code as 400 and everything else by kind.
func (h *AuthHandler) handleOTPError(c *gin.Context, err error) {
	if apperrors.Is(err, authDomain.ErrInvalidOTP) {
		httputil.HandleBadRequestGin(c, authDomain.ErrInvalidOTP, h.logger)
		return
	}
	httputil.HandleErrorGin(c, err, h.logger)
}
