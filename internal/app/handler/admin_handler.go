package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Aboubacar2012/crsd-platform/internal/app/dto"
)

// Handlers d'administration des comptes (groupe /api/admin, rôle ADMIN)

// GetUsers liste des utilisateurs
// @Summary Liste des utilisateurs
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.UserListResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Router /api/admin/users [get]
func (h *APIHandler) GetUsers(c *gin.Context) {
	users, err := h.Repository.ListUsers()
	if err != nil {
		h.domainError(c, err)
		return
	}

	resp := dto.UserListResponse{Total: len(users)}
	resp.Users = make([]dto.UserResponse, len(users))
	for i := range users {
		resp.Users[i] = toUserResponse(&users[i])
	}

	c.JSON(http.StatusOK, resp)
}

// ToggleUserRole bascule USER <-> ADMIN
// @Summary Basculer le rôle d'un utilisateur
// @Description Refusé si l'administrateur vise son propre compte
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID utilisateur"
// @Success 200 {object} dto.SuccessResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/admin/users/{id}/toggle-role [put]
func (h *APIHandler) ToggleUserRole(c *gin.Context) {
	actorID, _, err := h.getUserFromContext(c)
	if err != nil {
		h.errorResponse(c, http.StatusUnauthorized, err.Error())
		return
	}

	targetID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		h.errorResponse(c, http.StatusBadRequest, "identifiant invalide")
		return
	}

	user, err := h.Repository.ToggleUserRole(actorID, uint(targetID))
	if err != nil {
		h.domainError(c, err)
		return
	}

	h.successResponse(c, http.StatusOK, "Rôle utilisateur mis à jour avec succès.", toUserResponse(user))
}

// DeleteUser supprime un compte
// @Summary Supprimer un utilisateur
// @Description Refusé si l'administrateur vise son propre compte
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID utilisateur"
// @Success 200 {object} dto.SuccessResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/admin/users/{id} [delete]
func (h *APIHandler) DeleteUser(c *gin.Context) {
	actorID, _, err := h.getUserFromContext(c)
	if err != nil {
		h.errorResponse(c, http.StatusUnauthorized, err.Error())
		return
	}

	targetID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		h.errorResponse(c, http.StatusBadRequest, "identifiant invalide")
		return
	}

	if err := h.Repository.DeleteUser(actorID, uint(targetID)); err != nil {
		h.domainError(c, err)
		return
	}

	h.successResponse(c, http.StatusOK, "Utilisateur supprimé avec succès.", nil)
}

// GetDashboard statistiques du tableau de bord
// @Summary Tableau de bord
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.DashboardStats
// @Failure 401 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Router /api/admin/dashboard [get]
func (h *APIHandler) GetDashboard(c *gin.Context) {
	totalUsers, admins, users, actorTypes, organisations, err := h.Repository.CountStats()
	if err != nil {
		h.domainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.DashboardStats{
		TotalUsers:    totalUsers,
		Admins:        admins,
		Users:         users,
		ActorTypes:    actorTypes,
		Organisations: organisations,
	})
}
