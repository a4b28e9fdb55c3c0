package controllers

import (
	"errors"
	"time"

	"trf-app/config"
	"trf-app/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthController struct {
	DB *gorm.DB
}

func NewAuthController(DB *gorm.DB) *AuthController {
	return &AuthController{DB: DB}
}

func (c *AuthController) Login(ctx *fiber.Ctx) error {
	var loginInput struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}

	if err := ctx.BodyParser(&loginInput); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var user models.User
	if err := c.DB.Where("username = ?", loginInput.Username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid username or password"})
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(loginInput.Password)); err != nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid username or password"})
	}

	sessionID := uuid.NewString()
	now := time.Now()
	expiresAt := now.Add(time.Duration(config.JWTExpiration) * time.Second)

	claims := jwt.MapClaims{
		"user_id":    float64(user.ID),
		"username":   user.Username,
		"session_id": sessionID,
		"exp":        expiresAt.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(config.JWTSecret))
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	session := models.UserSession{
		SessionID:      sessionID,
		UserID:         user.ID,
		IsActive:       true,
		ExpiresAt:      expiresAt,
		LastActivityAt: now,
	}
	if err := c.DB.Create(&session).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	loginLog := models.LoginLog{
		UserID:    user.ID,
		SessionID: sessionID,
		LoginAt:   now,
		UserAgent: ctx.Get("User-Agent"),
		IPAddress: ctx.IP(),
	}
	c.DB.Create(&loginLog)

	ctx.Cookie(config.GetTokenCookie(signed))

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"token":   signed,
		"user": fiber.Map{
			"id":       user.ID,
			"username": user.Username,
			"name":     user.Name,
			"role":     user.Role,
		},
	})
}

func (c *AuthController) Logout(ctx *fiber.Ctx) error {
	sessionID, ok := ctx.Locals("sessionID").(string)
	if !ok || sessionID == "" {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid session"})
	}

	now := time.Now()

	c.DB.Model(&models.LoginLog{}).
		Where("session_id = ? AND logout_at IS NULL", sessionID).
		Update("logout_at", &now)

	var userSession models.UserSession
	result := c.DB.Where("session_id = ? AND is_active = ?", sessionID, true).First(&userSession)
	if result.Error != nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid session"})
	}

	userSession.IsActive = false
	userSession.LastActivityAt = now
	c.DB.Save(&userSession)

	ctx.Cookie(config.GetTokenCookie(""))

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Logout successful"})
}

func (c *AuthController) Me(ctx *fiber.Ctx) error {
	var user models.User
	if err := c.DB.First(&user, actorID(ctx)).Error; err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "data": user})
}
