package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Aboubacar2012/crsd-platform/internal/app/dto"
	"github.com/Aboubacar2012/crsd-platform/internal/app/middleware"
	"github.com/Aboubacar2012/crsd-platform/internal/app/repository"
	"github.com/Aboubacar2012/crsd-platform/internal/app/role"
	"github.com/Aboubacar2012/crsd-platform/internal/app/storage"
)

// APIHandler regroupe les handlers REST (référentiel + administration).
type APIHandler struct {
	Repository  *repository.Repository
	MinIOClient *storage.MinIOClient
	AuthHandler *AuthHandler
}

func NewAPIHandler(r *repository.Repository, minioClient *storage.MinIOClient, authHandler *AuthHandler) *APIHandler {
	return &APIHandler{
		Repository:  r,
		MinIOClient: minioClient,
		AuthHandler: authHandler,
	}
}

// RegisterAPIRoutes enregistre toutes les routes REST avec leurs gardes.
// Tout le groupe /api/admin passe par WithAuthCheck(role.Admin) :
// authentification d'abord (401), autorisation ensuite (403).
func (h *APIHandler) RegisterAPIRoutes(router *gin.Engine, authMiddleware *middleware.AuthMiddleware) {
	api := router.Group("/api")

	// ============ Authentification ============
	auth := api.Group("/auth")
	{
		auth.POST("/register", h.AuthHandler.RegisterUser)
		auth.POST("/login", h.AuthHandler.LoginUser)
		auth.POST("/logout", authMiddleware.WithAuthCheck(role.User, role.Admin), h.AuthHandler.LogoutUser)
		auth.GET("/profile", authMiddleware.WithAuthCheck(role.User, role.Admin), h.AuthHandler.GetUserProfile)
	}

	// ============ Référentiel public (formulaire d'inscription) ============
	api.GET("/actor-types", h.GetActiveActorTypes)
	api.GET("/actor-types/:id/organisations", h.GetOrganisationsByActorType)

	// ============ Administration ============
	admin := api.Group("/admin")
	admin.Use(authMiddleware.WithAuthCheck(role.Admin))
	{
		admin.GET("/dashboard", h.GetDashboard)

		admin.GET("/users", h.GetUsers)
		admin.PUT("/users/:id/toggle-role", h.ToggleUserRole)
		admin.DELETE("/users/:id", h.DeleteUser)

		admin.GET("/actor-types", h.GetActorTypes)
		admin.POST("/actor-types", h.CreateActorType)
		admin.PUT("/actor-types/:id/toggle", h.ToggleActorType)
		admin.DELETE("/actor-types/:id", h.DeleteActorType)

		admin.GET("/organisations", h.GetOrganisations)
		admin.POST("/organisations", h.CreateOrganisation)
		admin.PUT("/organisations/:id", h.UpdateOrganisation)
		admin.PUT("/organisations/:id/toggle", h.ToggleOrganisation)
		admin.DELETE("/organisations/:id", h.DeleteOrganisation)
		admin.POST("/organisations/:id/logo", h.UploadOrganisationLogo)
	}

	router.GET("/ping", h.Ping)
}

// Ping vérifie la disponibilité de l'API
// @Summary Vérification de disponibilité
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /ping [get]
func (h *APIHandler) Ping(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"message": "pong"})
}

// ============ Fonctions communes ============

func (h *APIHandler) errorResponse(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, dto.ErrorResponse{
		Status:  "fail",
		Message: message,
	})
}

func (h *APIHandler) successResponse(c *gin.Context, statusCode int, message string, data interface{}) {
	response := dto.SuccessResponse{
		Status:  "success",
		Message: message,
	}
	if data != nil {
		response.Data = data
	}
	c.JSON(statusCode, response)
}

// domainError rabat la taxonomie du dépôt sur les statuts HTTP.
func (h *APIHandler) domainError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repository.ErrValidation),
		errors.Is(err, repository.ErrConfirmationMismatch),
		errors.Is(err, repository.ErrInactiveReference):
		h.errorResponse(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, repository.ErrSelfModification):
		h.errorResponse(c, http.StatusForbidden, err.Error())
	case errors.Is(err, repository.ErrNotFound):
		h.errorResponse(c, http.StatusNotFound, err.Error())
	case errors.Is(err, repository.ErrDuplicateEmail),
		errors.Is(err, repository.ErrDuplicateCode),
		errors.Is(err, repository.ErrConflict):
		h.errorResponse(c, http.StatusConflict, err.Error())
	default:
		logrus.Error(err)
		h.errorResponse(c, http.StatusInternalServerError, "erreur interne")
	}
}

// getUserFromContext relit le principal posé par le middleware d'auth.
func (h *APIHandler) getUserFromContext(c *gin.Context) (uint, role.Role, error) {
	userID, exists := c.Get("userID")
	if !exists {
		logrus.Warn("userID not found in context")
		return 0, role.User, fmt.Errorf("user not authenticated")
	}

	userRole, _ := c.Get("userRole")
	r, _ := userRole.(role.Role)

	id, ok := userID.(uint)
	if !ok {
		logrus.Errorf("getUserFromContext: invalid userID type: %T", userID)
		return 0, r, fmt.Errorf("invalid user ID")
	}

	return id, r, nil
}
