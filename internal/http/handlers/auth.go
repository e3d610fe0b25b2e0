package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/veritydate/verity-backend/internal/app"
	"github.com/veritydate/verity-backend/internal/db"
	"github.com/veritydate/verity-backend/internal/repository"
)

// AuthHandler implements the thin register/login boundary over the
// external auth concern. Tokens carry `sub` and `premium` claims, which
// is all the matchmaking endpoints read.
type AuthHandler struct {
	appCtx   *app.AppContext
	userRepo *repository.UserRepository
	secret   []byte
	ttl      time.Duration
}

func NewAuthHandler(appCtx *app.AppContext, secret string, ttl time.Duration) *AuthHandler {
	return &AuthHandler{
		appCtx:   appCtx,
		userRepo: repository.NewUserRepository(appCtx.DB),
		secret:   []byte(secret),
		ttl:      ttl,
	}
}

type credentialsRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email and password required"})
		return
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if len(req.Password) < 6 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "password too short (min 6)"})
		return
	}

	ctx := c.Request.Context()
	if _, err := h.userRepo.GetByEmail(ctx, email); err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "user already exists"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "operation failed"})
		return
	}

	user := db.User{Email: email, PasswordHash: string(hash)}
	if err := h.userRepo.Create(ctx, &user); err != nil {
		h.appCtx.Logger.Error("register failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "operation failed"})
		return
	}

	token, err := h.issueToken(user.ID, user.Premium)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "operation failed"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"token": token, "user_id": user.ID})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email and password required"})
		return
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := h.userRepo.GetByEmail(c.Request.Context(), email)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			h.appCtx.Logger.Error("login lookup failed", "err", err)
		}
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	token, err := h.issueToken(user.ID, user.Premium)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "operation failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token, "user_id": user.ID})
}

func (h *AuthHandler) issueToken(userID string, premium bool) (string, error) {
	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"sub":     userID,
		"premium": premium,
		"iat":     now.Unix(),
		"exp":     now.Add(h.ttl).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(h.secret)
}
