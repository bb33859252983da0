package dto

import "time"

// ============ Structures communes ============

type ErrorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type SuccessResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// ============ Authentification ============

type RegisterRequest struct {
	FirstName       string `json:"first_name" binding:"required"`
	LastName        string `json:"last_name" binding:"required"`
	Email           string `json:"email" binding:"required,email"`
	Phone           string `json:"phone" binding:"required"`
	ActorTypeID     uint   `json:"actor_type_id" binding:"required"`
	OrganisationID  uint   `json:"organisation_id" binding:"required"`
	Password        string `json:"password" binding:"required,min=6"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Remember bool   `json:"remember"`
}

type UserResponse struct {
	ID             uint      `json:"id"`
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	Email          string    `json:"email"`
	Phone          string    `json:"phone"`
	Role           string    `json:"role"`
	ActorTypeID    uint      `json:"actor_type_id"`
	OrganisationID uint      `json:"organisation_id"`
	CreatedAt      time.Time `json:"created_at"`
}

type UserListResponse struct {
	Users []UserResponse `json:"users"`
	Total int            `json:"total"`
}

// ============ Types d'acteurs ============

type CreateActorTypeRequest struct {
	Code        string `json:"code" binding:"required,max=50"`
	Label       string `json:"label" binding:"required,max=150"`
	Description string `json:"description"`
}

type ActorTypeResponse struct {
	ID          uint      `json:"id"`
	Code        string    `json:"code"`
	Label       string    `json:"label"`
	Description string    `json:"description,omitempty"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type ActorTypeListResponse struct {
	ActorTypes []ActorTypeResponse `json:"actor_types"`
	Total      int                 `json:"total"`
}

// ============ Organisations ============

type CreateOrganisationRequest struct {
	Name        string `json:"name" binding:"required,max=255"`
	Acronym     string `json:"acronym" binding:"max=50"`
	Country     string `json:"country" binding:"max=100"`
	ActorTypeID uint   `json:"actor_type_id" binding:"required"`
}

type UpdateOrganisationRequest struct {
	Name        string `json:"name" binding:"required,max=255"`
	Acronym     string `json:"acronym" binding:"max=50"`
	Country     string `json:"country" binding:"max=100"`
	ActorTypeID uint   `json:"actor_type_id" binding:"required"`
}

// DeleteOrganisationRequest porte le jeton de confirmation tapé par
// l'administrateur ("SUPPRIMER"), exigé avant toute suppression définitive.
type DeleteOrganisationRequest struct {
	Confirmation string `json:"confirmation"`
}

type OrganisationResponse struct {
	ID          uint      `json:"id"`
	ActorTypeID uint      `json:"actor_type_id"`
	Name        string    `json:"name"`
	Acronym     string    `json:"acronym,omitempty"`
	Country     string    `json:"country,omitempty"`
	LogoObject  string    `json:"logo_object,omitempty"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type OrganisationListResponse struct {
	Organisations []OrganisationResponse `json:"organisations"`
	Total         int                    `json:"total"`
}

// OrganisationOption alimente le select dynamique du formulaire
// d'inscription (liste ordonnée des organisations actives d'un type).
type OrganisationOption struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// ============ Tableau de bord ============

type DashboardStats struct {
	TotalUsers    int64 `json:"total_users"`
	Admins        int64 `json:"admins"`
	Users         int64 `json:"users"`
	ActorTypes    int64 `json:"actor_types"`
	Organisations int64 `json:"organisations"`
}
