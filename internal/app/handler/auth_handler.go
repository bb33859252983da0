package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/Aboubacar2012/crsd-platform/internal/app/config"
	"github.com/Aboubacar2012/crsd-platform/internal/app/ds"
	"github.com/Aboubacar2012/crsd-platform/internal/app/dto"
	"github.com/Aboubacar2012/crsd-platform/internal/app/repository"
)

// TokenRevoker est le sous-ensemble du client Redis utilisé à la
// déconnexion.
type TokenRevoker interface {
	WriteJWTToBlacklist(ctx context.Context, jwtStr string, jwtTTL time.Duration) error
}

type AuthHandler struct {
	Repository *repository.Repository
	Revoker    TokenRevoker
	Config     *config.Config
}

func NewAuthHandler(r *repository.Repository, revoker TokenRevoker, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		Repository: r,
		Revoker:    revoker,
		Config:     cfg,
	}
}

// Hash bcrypt factice comparé quand l'email est inconnu, pour que les
// deux chemins d'échec coûtent le même temps (pas d'énumération de
// comptes par chronométrage).
const dummyPasswordHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// RegisterUser inscription d'un nouvel utilisateur
// @Summary Inscription
// @Description Crée un compte (rôle USER) rattaché à un type d'acteur et une organisation actifs
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body dto.RegisterRequest true "Données d'inscription"
// @Success 201 {object} dto.SuccessResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /api/auth/register [post]
func (h *AuthHandler) RegisterUser(ctx *gin.Context) {
	var request dto.RegisterRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		h.errorHandler(ctx, http.StatusBadRequest, errors.New("tous les champs sont obligatoires"))
		return
	}

	if request.Password != request.ConfirmPassword {
		h.errorHandler(ctx, http.StatusBadRequest, errors.New("les mots de passe ne correspondent pas"))
		return
	}

	// Email déjà pris : on renvoie vers la connexion, pas une erreur
	// générique (choix UX volontaire)
	exists, err := h.Repository.UserExistsByEmail(request.Email)
	if err != nil {
		h.errorHandler(ctx, http.StatusInternalServerError, err)
		return
	}
	if exists {
		ctx.JSON(http.StatusConflict, gin.H{
			"status":   "fail",
			"message":  "Un compte avec cet email existe déjà. Veuillez vous connecter.",
			"redirect": "/login",
		})
		return
	}

	user := ds.User{
		FirstName:      request.FirstName,
		LastName:       request.LastName,
		Email:          request.Email,
		Phone:          request.Phone,
		ActorTypeID:    request.ActorTypeID,
		OrganisationID: request.OrganisationID,
	}
	if err := user.SetPassword(request.Password); err != nil {
		h.errorHandler(ctx, http.StatusInternalServerError, err)
		return
	}

	if err := h.Repository.CreateUser(&user); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateEmail):
			ctx.JSON(http.StatusConflict, gin.H{
				"status":   "fail",
				"message":  "Un compte avec cet email existe déjà. Veuillez vous connecter.",
				"redirect": "/login",
			})
		case errors.Is(err, repository.ErrNotFound),
			errors.Is(err, repository.ErrInactiveReference),
			errors.Is(err, repository.ErrValidation):
			h.errorHandler(ctx, http.StatusBadRequest, errors.New("type d'acteur ou organisation invalide"))
		default:
			logrus.Error("Error creating user: ", err)
			h.errorHandler(ctx, http.StatusInternalServerError, errors.New("erreur lors de la création du compte"))
		}
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"status":  "success",
		"message": "Compte créé avec succès. Veuillez vous connecter.",
		"user":    toUserResponse(&user),
	})
}

// LoginUser authentification
// @Summary Connexion
// @Description Vérifie les identifiants et renvoie un token JWT de session
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Identifiants"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Router /api/auth/login [post]
func (h *AuthHandler) LoginUser(ctx *gin.Context) {
	var request dto.LoginRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		h.errorHandler(ctx, http.StatusBadRequest, err)
		return
	}

	user, err := h.Repository.GetUserByEmail(request.Email)
	if err != nil {
		// Comparaison factice : même coût que le chemin nominal
		_ = bcrypt.CompareHashAndPassword([]byte(dummyPasswordHash), []byte(request.Password))
		h.errorHandler(ctx, http.StatusUnauthorized, errors.New("aucun compte trouvé avec cet email"))
		return
	}

	if !user.CheckPassword(request.Password) {
		h.errorHandler(ctx, http.StatusUnauthorized, errors.New("mot de passe incorrect"))
		return
	}

	// "Se souvenir de moi" prolonge la session
	expiresIn := h.Config.JWT.ExpiresIn
	if request.Remember {
		expiresIn = h.Config.JWT.RememberFor
	}

	accessToken, err := h.issueToken(user, expiresIn)
	if err != nil {
		h.errorHandler(ctx, http.StatusInternalServerError, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"status":     "success",
		"message":    "Connexion réussie.",
		"user_id":    user.ID,
		"role":       user.Role.String(),
		"token":      accessToken,
		"expires_in": int(expiresIn.Seconds()),
		"token_type": "Bearer",
	})
}

// LogoutUser déconnexion
// @Summary Déconnexion
// @Description Révoque le token courant (blacklist Redis jusqu'à expiration)
// @Tags Authentication
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.SuccessResponse
// @Failure 401 {object} dto.ErrorResponse
// @Router /api/auth/logout [post]
func (h *AuthHandler) LogoutUser(ctx *gin.Context) {
	tokenString := ctx.GetHeader("Authorization")
	if tokenString == "" {
		h.errorHandler(ctx, http.StatusUnauthorized, errors.New("authorization header missing"))
		return
	}

	if len(tokenString) > 7 && tokenString[:7] == "Bearer " {
		tokenString = tokenString[7:]
	}

	token, err := jwt.ParseWithClaims(tokenString, &ds.JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(h.Config.JWT.Secret), nil
	})
	if err != nil {
		h.errorHandler(ctx, http.StatusUnauthorized, err)
		return
	}

	claims, ok := token.Claims.(*ds.JWTClaims)
	if !ok {
		h.errorHandler(ctx, http.StatusUnauthorized, errors.New("invalid token claims"))
		return
	}

	ttl := time.Until(time.Unix(claims.ExpiresAt, 0))
	if ttl > 0 && h.Revoker != nil {
		if err := h.Revoker.WriteJWTToBlacklist(ctx.Request.Context(), tokenString, ttl); err != nil {
			h.errorHandler(ctx, http.StatusInternalServerError, err)
			return
		}
	}

	ctx.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Vous êtes déconnecté.",
	})
}

// GetUserProfile profil du principal courant
// @Summary Profil
// @Tags Authentication
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.UserResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/auth/profile [get]
func (h *AuthHandler) GetUserProfile(ctx *gin.Context) {
	userID, exists := ctx.Get("userID")
	if !exists {
		h.errorHandler(ctx, http.StatusUnauthorized, errors.New("utilisateur non authentifié"))
		return
	}

	user, err := h.Repository.GetUserByID(userID.(uint))
	if err != nil {
		h.errorHandler(ctx, http.StatusNotFound, errors.New("utilisateur introuvable"))
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"status": "success",
		"user":   toUserResponse(user),
	})
}

func (h *AuthHandler) issueToken(user *ds.User, expiresIn time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(h.Config.JWT.SigningMethod, ds.JWTClaims{
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: now.Add(expiresIn).Unix(),
			IssuedAt:  now.Unix(),
			Issuer:    "crsd-platform",
		},
		UserID: user.ID,
		Role:   user.Role,
	})
	return token.SignedString([]byte(h.Config.JWT.Secret))
}

func toUserResponse(u *ds.User) dto.UserResponse {
	return dto.UserResponse{
		ID:             u.ID,
		FirstName:      u.FirstName,
		LastName:       u.LastName,
		Email:          u.Email,
		Phone:          u.Phone,
		Role:           u.Role.String(),
		ActorTypeID:    u.ActorTypeID,
		OrganisationID: u.OrganisationID,
		CreatedAt:      u.CreatedAt,
	}
}

func (h *AuthHandler) errorHandler(ctx *gin.Context, errorStatusCode int, err error) {
	logrus.Error(err.Error())
	ctx.JSON(errorStatusCode, gin.H{
		"status":      "error",
		"description": err.Error(),
	})
}
