package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/Azi77ry/personal-App/directory"
	"github.com/Azi77ry/personal-App/logger"
	"github.com/Azi77ry/personal-App/middleware"
	"github.com/Azi77ry/personal-App/models"
)

type registerRequest struct {
	Username        string `json:"username" form:"username"`
	Email           string `json:"email" form:"email" binding:"omitempty,email"`
	Password        string `json:"password" form:"password"`
	ConfirmPassword string `json:"confirm_password" form:"confirm-password"`
}

// Register creates the credential record and the user's default document,
// then sends the verification email best-effort.
func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBind(&req); err != nil {
		respondError(c, http.StatusBadRequest, "email must be a valid address")
		return
	}
	switch {
	case req.Username == "":
		fail(c, required("username"))
		return
	case req.Email == "":
		fail(c, required("email"))
		return
	case req.Password == "":
		fail(c, required("password"))
		return
	case req.ConfirmPassword != "" && req.ConfirmPassword != req.Password:
		respondError(c, http.StatusBadRequest, "Passwords do not match")
		return
	}

	exists, err := h.directory.Exists(c.Request.Context(), req.Username, req.Email)
	if err != nil {
		fail(c, err)
		return
	}
	if exists {
		respondError(c, http.StatusBadRequest, "Username or email already exists")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		fail(c, err)
		return
	}

	id, err := h.directory.Create(c.Request.Context(), req.Username, req.Email, hash)
	if err != nil {
		if errors.Is(err, directory.ErrExists) {
			respondError(c, http.StatusBadRequest, "Username or email already exists")
			return
		}
		fail(c, err)
		return
	}

	doc := models.DefaultUserDocument()
	doc.Profile = models.Profile{Username: req.Username, Email: req.Email}
	if err := h.documents.Save(c.Request.Context(), id, doc); err != nil {
		fail(c, err)
		return
	}

	h.sendVerificationEmail(id, req.Email, req.Username)

	logger.Get().Info("user registered", zap.String("user_id", id), zap.String("username", req.Username))
	c.JSON(http.StatusCreated, gin.H{
		"status":  "success",
		"message": "Registration successful! Please log in.",
		"user_id": id,
	})
}

func (h *Handler) sendVerificationEmail(userID, email, username string) {
	token, err := h.tokens.IssueEmailVerification(userID, email)
	if err != nil {
		logger.Get().Error("issue verification token", zap.Error(err), zap.String("user_id", userID))
		return
	}
	link := fmt.Sprintf("%s/verify_email/%s", h.baseURL, token)
	if err := h.mailer.SendVerification(email, username, link); err != nil {
		logger.Get().Error("send verification email", zap.Error(err), zap.String("user_id", userID))
	}
}

type loginRequest struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBind(&req); err != nil || req.Username == "" || req.Password == "" {
		respondError(c, http.StatusBadRequest, "username and password are required")
		return
	}

	user, err := directory.VerifyCredentials(c.Request.Context(), h.directory, req.Username, req.Password)
	if err != nil {
		if errors.Is(err, directory.ErrInvalidCredentials) {
			respondError(c, http.StatusUnauthorized, "Invalid username or password")
			return
		}
		fail(c, err)
		return
	}

	token, err := h.tokens.IssueSession(user.ID)
	if err != nil {
		fail(c, err)
		return
	}

	logger.Get().Info("user logged in", zap.String("user_id", user.ID))
	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"token":   token,
		"user_id": user.ID,
	})
}

// Logout revokes the presented session token for its remaining lifetime.
func (h *Handler) Logout(c *gin.Context) {
	token := c.GetString(middleware.ContextToken)
	claims, ok := c.MustGet(middleware.ContextClaims).(*models.Claims)
	if !ok {
		respondError(c, http.StatusUnauthorized, "Invalid user claims")
		return
	}

	ttl := time.Until(claims.ExpiresAt.Time)
	if err := h.revoked.Revoke(c.Request.Context(), token, ttl); err != nil {
		logger.Get().Warn("revoke token", zap.Error(err))
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "message": "Logged out successfully!"})
}

// VerifyEmail consumes a verification link. The token must match the
// address currently on file, so stale links die after an email change.
func (h *Handler) VerifyEmail(c *gin.Context) {
	claims, err := h.tokens.Parse(c.Param("token"), models.TokenPurposeEmailVerification)
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid or expired verification link")
		return
	}

	err = h.documents.Update(c.Request.Context(), claims.UserID, func(doc *models.UserDocument) error {
		if doc.Profile.Email != claims.Email {
			return validationErr("email", "verification link no longer matches the account email")
		}
		doc.Profile.EmailVerified = true
		return nil
	})
	if err != nil {
		fail(c, err)
		return
	}

	logger.Get().Info("email verified", zap.String("user_id", claims.UserID))
	c.JSON(http.StatusOK, gin.H{"status": "success", "message": "Email verified successfully"})
}
