package handler

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"net/http"
	"strings"
	"time"

	"processpilot/internal/app/ds"
	"processpilot/internal/app/dto"
	"processpilot/internal/app/role"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt"
	"github.com/sirupsen/logrus"
)

const jwtIssuer = "processpilot"

// generateHashString hashes a password with SHA-1.
func generateHashString(s string) string {
	h := sha1.New()
	h.Write([]byte(s))
	return hex.EncodeToString(h.Sum(nil))
}

func (h *APIHandler) issueToken(user *ds.User, userRole role.Role) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(h.Config.JWT.SigningMethod, ds.JWTClaims{
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: now.Add(h.Config.JWT.ExpiresIn).Unix(),
			IssuedAt:  now.Unix(),
			Issuer:    jwtIssuer,
		},
		UserUUID: user.ID,
		Email:    user.Email,
		Role:     userRole,
	})

	return token.SignedString([]byte(h.Config.JWT.Secret))
}

func userResponse(user *ds.User, userRole role.Role) dto.UserResponse {
	return dto.UserResponse{
		ID:        user.ID.String(),
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Company:   user.Company,
		Role:      userRole.String(),
	}
}

// RegisterUser registers a new customer account
// @Summary Register user
// @Description Creates a new account and returns a JWT token
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body dto.RegisterRequest true "Registration data"
// @Success 201 {object} dto.SuccessResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/auth/register [post]
func (h *APIHandler) RegisterUser(ctx *gin.Context) {
	var request dto.RegisterRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		h.errorResponse(ctx, http.StatusBadRequest, err.Error())
		return
	}

	email := strings.ToLower(strings.TrimSpace(request.Email))
	exists, _ := h.Repository.UserExistsByEmail(email)
	if exists {
		h.errorResponse(ctx, http.StatusBadRequest, "an account with this email already exists")
		return
	}

	hashedPassword := generateHashString(request.Password)

	user, err := h.Repository.CreateUser(email, hashedPassword, request.FirstName, request.LastName, request.Company)
	if err != nil {
		logrus.Error("Error creating user: ", err)
		h.errorResponse(ctx, http.StatusInternalServerError, "failed to register user")
		return
	}

	// New accounts are customers unless the email was seeded as admin.
	userRole, err := h.Repository.GetUserRole(user.ID)
	if err != nil {
		userRole = role.Customer
	}

	accessToken, err := h.issueToken(user, userRole)
	if err != nil {
		h.errorResponse(ctx, http.StatusInternalServerError, err.Error())
		return
	}

	h.successResponse(ctx, http.StatusCreated, "user registered", dto.LoginResponse{
		Token: accessToken,
		User:  userResponse(user, userRole),
	})
}

// LoginUser authenticates a user
// @Summary Log in
// @Description Verifies credentials and returns a JWT token
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Login data"
// @Success 200 {object} dto.SuccessResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Router /api/auth/login [post]
func (h *APIHandler) LoginUser(ctx *gin.Context) {
	var request dto.LoginRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		h.errorResponse(ctx, http.StatusBadRequest, err.Error())
		return
	}

	hashedPassword := generateHashString(request.Password)

	user, err := h.Repository.GetUserByEmail(strings.ToLower(strings.TrimSpace(request.Email)))
	if err != nil || user.Password != hashedPassword {
		h.errorResponse(ctx, http.StatusUnauthorized, "invalid email or password")
		return
	}

	userRole, err := h.Repository.GetUserRole(user.ID)
	if err != nil {
		userRole = role.Customer
	}

	accessToken, err := h.issueToken(user, userRole)
	if err != nil {
		h.errorResponse(ctx, http.StatusInternalServerError, err.Error())
		return
	}

	h.successResponse(ctx, http.StatusOK, "logged in", dto.LoginResponse{
		Token: accessToken,
		User:  userResponse(user, userRole),
	})
}

// LogoutUser logs the user out
// @Summary Log out
// @Description Puts the current token on the blacklist until it expires
// @Tags Authentication
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.SuccessResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/auth/logout [post]
func (h *APIHandler) LogoutUser(ctx *gin.Context) {
	tokenString := ctx.GetHeader("Authorization")
	if tokenString == "" {
		h.errorResponse(ctx, http.StatusUnauthorized, "authorization header missing")
		return
	}

	if len(tokenString) > 7 && tokenString[:7] == "Bearer " {
		tokenString = tokenString[7:]
	}

	token, err := jwt.ParseWithClaims(tokenString, &ds.JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(h.Config.JWT.Secret), nil
	})
	if err != nil {
		h.errorResponse(ctx, http.StatusUnauthorized, err.Error())
		return
	}

	claims, ok := token.Claims.(*ds.JWTClaims)
	if !ok {
		h.errorResponse(ctx, http.StatusUnauthorized, "invalid token claims")
		return
	}

	ttl := time.Until(time.Unix(claims.ExpiresAt, 0))
	if ttl <= 0 {
		// already expired, nothing to blacklist
		h.successResponse(ctx, http.StatusOK, "logged out", nil)
		return
	}

	err = h.RedisClient.WriteJWTToBlacklist(context.Background(), tokenString, ttl)
	if err != nil {
		h.errorResponse(ctx, http.StatusInternalServerError, err.Error())
		return
	}

	h.successResponse(ctx, http.StatusOK, "logged out", nil)
}

// GetUserProfile returns the current user's profile
// @Summary Get profile
// @Description Returns information about the authenticated user
// @Tags Authentication
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.SuccessResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/auth/profile [get]
func (h *APIHandler) GetUserProfile(ctx *gin.Context) {
	actor, err := h.getActorFromContext(ctx)
	if err != nil {
		h.errorResponse(ctx, http.StatusUnauthorized, err.Error())
		return
	}

	user, err := h.Repository.GetUserByID(actor.UserID)
	if err != nil {
		h.errorResponse(ctx, http.StatusNotFound, "user not found")
		return
	}

	h.successResponse(ctx, http.StatusOK, "", userResponse(user, actor.Role))
}
