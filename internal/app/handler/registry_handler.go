package handler

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Aboubacar2012/crsd-platform/internal/app/ds"
	"github.com/Aboubacar2012/crsd-platform/internal/app/dto"
)

// Handlers du référentiel (types d'acteurs et organisations)

func toActorTypeResponse(at *ds.ActorType) dto.ActorTypeResponse {
	return dto.ActorTypeResponse{
		ID:          at.ID,
		Code:        at.Code,
		Label:       at.Label,
		Description: at.Description,
		IsActive:    at.IsActive,
		CreatedAt:   at.CreatedAt,
		UpdatedAt:   at.UpdatedAt,
	}
}

func toOrganisationResponse(org *ds.Organisation) dto.OrganisationResponse {
	resp := dto.OrganisationResponse{
		ID:          org.ID,
		ActorTypeID: org.ActorTypeID,
		Name:        org.Name,
		Acronym:     org.Acronym,
		Country:     org.Country,
		IsActive:    org.IsActive,
		CreatedAt:   org.CreatedAt,
		UpdatedAt:   org.UpdatedAt,
	}
	if org.LogoObject != nil {
		resp.LogoObject = *org.LogoObject
	}
	return resp
}

func parseIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// ============ Référentiel public ============

// GetActiveActorTypes types d'acteurs actifs (formulaire d'inscription)
// @Summary Types d'acteurs actifs
// @Tags Reference
// @Produce json
// @Success 200 {object} dto.ActorTypeListResponse
// @Router /api/actor-types [get]
func (h *APIHandler) GetActiveActorTypes(c *gin.Context) {
	actorTypes, err := h.Repository.ListActorTypes(true)
	if err != nil {
		h.domainError(c, err)
		return
	}

	resp := dto.ActorTypeListResponse{Total: len(actorTypes)}
	resp.ActorTypes = make([]dto.ActorTypeResponse, len(actorTypes))
	for i := range actorTypes {
		resp.ActorTypes[i] = toActorTypeResponse(&actorTypes[i])
	}
	c.JSON(http.StatusOK, resp)
}

// GetOrganisationsByActorType organisations actives d'un type d'acteur
// @Summary Organisations actives d'un type d'acteur
// @Description Liste ordonnée {id, name} pour le select dynamique du formulaire d'inscription
// @Tags Reference
// @Produce json
// @Param id path int true "ID type d'acteur"
// @Success 200 {array} dto.OrganisationOption
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/actor-types/{id}/organisations [get]
func (h *APIHandler) GetOrganisationsByActorType(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.errorResponse(c, http.StatusBadRequest, "identifiant invalide")
		return
	}

	orgs, err := h.Repository.ListActiveOrganisationsByActorType(id)
	if err != nil {
		h.domainError(c, err)
		return
	}

	options := make([]dto.OrganisationOption, len(orgs))
	for i, org := range orgs {
		options[i] = dto.OrganisationOption{ID: org.ID, Name: org.Name}
	}
	c.JSON(http.StatusOK, options)
}

// ============ Types d'acteurs (admin) ============

// GetActorTypes tous les types d'acteurs, actifs ou non
// @Summary Liste des types d'acteurs
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.ActorTypeListResponse
// @Router /api/admin/actor-types [get]
func (h *APIHandler) GetActorTypes(c *gin.Context) {
	actorTypes, err := h.Repository.ListActorTypes(false)
	if err != nil {
		h.domainError(c, err)
		return
	}

	resp := dto.ActorTypeListResponse{Total: len(actorTypes)}
	resp.ActorTypes = make([]dto.ActorTypeResponse, len(actorTypes))
	for i := range actorTypes {
		resp.ActorTypes[i] = toActorTypeResponse(&actorTypes[i])
	}
	c.JSON(http.StatusOK, resp)
}

// CreateActorType crée un type d'acteur
// @Summary Créer un type d'acteur
// @Description Code et libellé normalisés en majuscules, code unique
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateActorTypeRequest true "Type d'acteur"
// @Success 201 {object} dto.SuccessResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /api/admin/actor-types [post]
func (h *APIHandler) CreateActorType(c *gin.Context) {
	var request dto.CreateActorTypeRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		h.errorResponse(c, http.StatusBadRequest, "code et libellé sont obligatoires")
		return
	}

	actorType, err := h.Repository.CreateActorType(request.Code, request.Label, request.Description)
	if err != nil {
		h.domainError(c, err)
		return
	}

	h.successResponse(c, http.StatusCreated, "Type d'acteur créé avec succès.", toActorTypeResponse(actorType))
}

// ToggleActorType active/désactive un type d'acteur
// @Summary Basculer l'état actif d'un type d'acteur
// @Description Ne touche pas aux organisations rattachées
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID type d'acteur"
// @Success 200 {object} dto.SuccessResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/admin/actor-types/{id}/toggle [put]
func (h *APIHandler) ToggleActorType(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.errorResponse(c, http.StatusBadRequest, "identifiant invalide")
		return
	}

	actorType, err := h.Repository.ToggleActorType(id)
	if err != nil {
		h.domainError(c, err)
		return
	}

	h.successResponse(c, http.StatusOK, "Type d'acteur mis à jour avec succès.", toActorTypeResponse(actorType))
}

// DeleteActorType supprime un type d'acteur et ses organisations
// @Summary Supprimer un type d'acteur
// @Description Suppression en cascade des organisations rattachées, dans une même transaction
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID type d'acteur"
// @Success 200 {object} dto.SuccessResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /api/admin/actor-types/{id} [delete]
func (h *APIHandler) DeleteActorType(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.errorResponse(c, http.StatusBadRequest, "identifiant invalide")
		return
	}

	if err := h.Repository.DeleteActorType(id); err != nil {
		h.domainError(c, err)
		return
	}

	h.successResponse(c, http.StatusOK, "Type d'acteur et organisations rattachées supprimés.", nil)
}

// ============ Organisations (admin) ============

// GetOrganisations toutes les organisations
// @Summary Liste des organisations
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.OrganisationListResponse
// @Router /api/admin/organisations [get]
func (h *APIHandler) GetOrganisations(c *gin.Context) {
	orgs, err := h.Repository.ListOrganisations()
	if err != nil {
		h.domainError(c, err)
		return
	}

	resp := dto.OrganisationListResponse{Total: len(orgs)}
	resp.Organisations = make([]dto.OrganisationResponse, len(orgs))
	for i := range orgs {
		resp.Organisations[i] = toOrganisationResponse(&orgs[i])
	}
	c.JSON(http.StatusOK, resp)
}

// CreateOrganisation crée une organisation
// @Summary Créer une organisation
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateOrganisationRequest true "Organisation"
// @Success 201 {object} dto.SuccessResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/admin/organisations [post]
func (h *APIHandler) CreateOrganisation(c *gin.Context) {
	var request dto.CreateOrganisationRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		h.errorResponse(c, http.StatusBadRequest, "nom et type d'acteur sont obligatoires")
		return
	}

	org, err := h.Repository.CreateOrganisation(request.Name, request.Acronym, request.Country, request.ActorTypeID)
	if err != nil {
		h.domainError(c, err)
		return
	}

	h.successResponse(c, http.StatusCreated, "Organisation créée avec succès.", toOrganisationResponse(org))
}

// UpdateOrganisation modifie une organisation
// @Summary Modifier une organisation
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID organisation"
// @Param request body dto.UpdateOrganisationRequest true "Organisation"
// @Success 200 {object} dto.SuccessResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/admin/organisations/{id} [put]
func (h *APIHandler) UpdateOrganisation(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.errorResponse(c, http.StatusBadRequest, "identifiant invalide")
		return
	}

	var request dto.UpdateOrganisationRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		h.errorResponse(c, http.StatusBadRequest, "nom et type d'acteur sont obligatoires")
		return
	}

	org, err := h.Repository.UpdateOrganisation(id, request.Name, request.Acronym, request.Country, request.ActorTypeID)
	if err != nil {
		h.domainError(c, err)
		return
	}

	h.successResponse(c, http.StatusOK, "Organisation modifiée avec succès.", toOrganisationResponse(org))
}

// ToggleOrganisation active/désactive une organisation
// @Summary Basculer l'état actif d'une organisation
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID organisation"
// @Success 200 {object} dto.SuccessResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/admin/organisations/{id}/toggle [put]
func (h *APIHandler) ToggleOrganisation(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.errorResponse(c, http.StatusBadRequest, "identifiant invalide")
		return
	}

	org, err := h.Repository.ToggleOrganisation(id)
	if err != nil {
		h.domainError(c, err)
		return
	}

	h.successResponse(c, http.StatusOK, "Organisation mise à jour avec succès.", toOrganisationResponse(org))
}

// DeleteOrganisation supprime définitivement une organisation
// @Summary Supprimer une organisation
// @Description Exige le jeton de confirmation exact "SUPPRIMER" dans le corps de la requête
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID organisation"
// @Param request body dto.DeleteOrganisationRequest true "Confirmation"
// @Success 200 {object} dto.SuccessResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /api/admin/organisations/{id} [delete]
func (h *APIHandler) DeleteOrganisation(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.errorResponse(c, http.StatusBadRequest, "identifiant invalide")
		return
	}

	// Corps absent = confirmation vide = refus
	var request dto.DeleteOrganisationRequest
	_ = c.ShouldBindJSON(&request)

	if err := h.Repository.DeleteOrganisation(id, request.Confirmation); err != nil {
		h.domainError(c, err)
		return
	}

	h.successResponse(c, http.StatusOK, "Organisation supprimée avec succès.", nil)
}

// UploadOrganisationLogo téléverse le logo d'une organisation
// @Summary Téléverser le logo d'une organisation
// @Tags Admin
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID organisation"
// @Param logo formData file true "Fichier image"
// @Success 200 {object} dto.SuccessResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/admin/organisations/{id}/logo [post]
func (h *APIHandler) UploadOrganisationLogo(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.errorResponse(c, http.StatusBadRequest, "identifiant invalide")
		return
	}

	if h.MinIOClient == nil {
		h.errorResponse(c, http.StatusServiceUnavailable, "stockage de fichiers indisponible")
		return
	}

	// L'organisation doit exister avant de toucher au stockage
	org, err := h.Repository.GetOrganisationByID(id)
	if err != nil {
		h.domainError(c, err)
		return
	}

	fileHeader, err := c.FormFile("logo")
	if err != nil {
		h.errorResponse(c, http.StatusBadRequest, "fichier logo manquant")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.errorResponse(c, http.StatusBadRequest, "fichier logo illisible")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		h.errorResponse(c, http.StatusBadRequest, "fichier logo illisible")
		return
	}

	filename, err := h.MinIOClient.UploadLogo(data, fileHeader.Filename)
	if err != nil {
		logrus.Error("logo upload failed: ", err)
		h.errorResponse(c, http.StatusInternalServerError, "échec du téléversement")
		return
	}

	logoURL, err := h.MinIOClient.GetLogoURL(filename)
	if err != nil {
		logoURL = filename
	}

	if err := h.Repository.SetOrganisationLogo(org.ID, filename); err != nil {
		h.domainError(c, err)
		return
	}

	h.successResponse(c, http.StatusOK, "Logo téléversé avec succès.", gin.H{
		"filename": filename,
		"url":      logoURL,
	})
}
