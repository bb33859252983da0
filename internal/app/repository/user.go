package repository

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/Aboubacar2012/crsd-platform/internal/app/ds"
	"github.com/Aboubacar2012/crsd-platform/internal/app/role"
)

// Méthodes pour les utilisateurs (ORM)

// Les emails sont stockés normalisés ; toute recherche passe par la
// même normalisation, sinon une inscription en casse mixte devient
// introuvable à la connexion.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (r *Repository) GetUserByID(id uint) (*ds.User, error) {
	var user ds.User
	err := r.db.First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *Repository) GetUserByEmail(email string) (*ds.User, error) {
	var user ds.User
	err := r.db.Where("email = ?", normalizeEmail(email)).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *Repository) UserExistsByEmail(email string) (bool, error) {
	var count int64
	err := r.db.Model(&ds.User{}).Where("email = ?", normalizeEmail(email)).Count(&count).Error
	return count > 0, err
}

// CreateUser inscrit un nouvel utilisateur (rôle USER d'office).
// Les identifiants de rattachement soumis par le client sont revérifiés :
// le type d'acteur et l'organisation doivent exister, être actifs, et
// l'organisation doit appartenir au type soumis.
func (r *Repository) CreateUser(u *ds.User) error {
	u.Email = normalizeEmail(u.Email)
	u.Role = role.User

	return r.db.Transaction(func(tx *gorm.DB) error {
		var actorType ds.ActorType
		if err := tx.First(&actorType, u.ActorTypeID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		var org ds.Organisation
		if err := tx.First(&org, u.OrganisationID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		if !actorType.IsActive || !org.IsActive {
			return ErrInactiveReference
		}
		if org.ActorTypeID != actorType.ID {
			return ErrValidation
		}

		if err := tx.Create(u).Error; err != nil {
			// Course possible sur l'unicité de l'email malgré le
			// contrôle applicatif en amont
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrDuplicateEmail
			}
			return err
		}
		return nil
	})
}

func (r *Repository) ListUsers() ([]ds.User, error) {
	var users []ds.User
	err := r.db.Order("created_at DESC").Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

// ToggleUserRole bascule USER <-> ADMIN. Un administrateur ne peut
// jamais modifier son propre rôle.
func (r *Repository) ToggleUserRole(actorUserID, targetUserID uint) (*ds.User, error) {
	if actorUserID == targetUserID {
		return nil, ErrSelfModification
	}

	var user ds.User
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&user, targetUserID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		user.Role = user.Role.Toggle()
		return tx.Model(&user).Update("role", user.Role).Error
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// DeleteUser supprime un compte. Même garde que ToggleUserRole :
// la suppression de son propre compte est toujours refusée.
func (r *Repository) DeleteUser(actorUserID, targetUserID uint) error {
	if actorUserID == targetUserID {
		return ErrSelfModification
	}

	return r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&ds.User{}, targetUserID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// CountStats agrège les compteurs du tableau de bord admin. Les cinq
// lectures partagent une transaction : les compteurs restent cohérents
// entre eux même sous écritures concurrentes.
func (r *Repository) CountStats() (totalUsers, admins, users, actorTypes, organisations int64, err error) {
	err = r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&ds.User{}).Count(&totalUsers).Error; err != nil {
			return err
		}
		if err := tx.Model(&ds.User{}).Where("role = ?", role.Admin).Count(&admins).Error; err != nil {
			return err
		}
		if err := tx.Model(&ds.User{}).Where("role = ?", role.User).Count(&users).Error; err != nil {
			return err
		}
		if err := tx.Model(&ds.ActorType{}).Count(&actorTypes).Error; err != nil {
			return err
		}
		return tx.Model(&ds.Organisation{}).Count(&organisations).Error
	})
	return
}
