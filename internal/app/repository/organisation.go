package repository

import (
	"crypto/subtle"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/Aboubacar2012/crsd-platform/internal/app/ds"
)

// DeleteConfirmationToken est le jeton que l'administrateur doit taper
// pour confirmer une suppression définitive d'organisation. Comparaison
// exacte, sensible à la casse : "supprimer" ou "SUPPRIMER " sont refusés.
const DeleteConfirmationToken = "SUPPRIMER"

// Méthodes pour les organisations (référentiel)

func (r *Repository) CreateOrganisation(name, acronym, country string, actorTypeID uint) (*ds.Organisation, error) {
	name = strings.TrimSpace(name)
	if name == "" || actorTypeID == 0 {
		return nil, ErrValidation
	}

	org := ds.Organisation{
		ActorTypeID: actorTypeID,
		Name:        name,
		Acronym:     strings.TrimSpace(acronym),
		Country:     strings.TrimSpace(country),
		IsActive:    true,
	}

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&ds.ActorType{}).Where("id = ?", actorTypeID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrNotFound
		}
		return tx.Create(&org).Error
	})
	if err != nil {
		return nil, err
	}
	return &org, nil
}

func (r *Repository) UpdateOrganisation(id uint, name, acronym, country string, actorTypeID uint) (*ds.Organisation, error) {
	name = strings.TrimSpace(name)
	if name == "" || actorTypeID == 0 {
		return nil, ErrValidation
	}

	var org ds.Organisation
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&org, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		var count int64
		if err := tx.Model(&ds.ActorType{}).Where("id = ?", actorTypeID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrNotFound
		}

		org.Name = name
		org.Acronym = strings.TrimSpace(acronym)
		org.Country = strings.TrimSpace(country)
		org.ActorTypeID = actorTypeID
		return tx.Save(&org).Error
	})
	if err != nil {
		return nil, err
	}
	return &org, nil
}

func (r *Repository) GetOrganisationByID(id uint) (*ds.Organisation, error) {
	var org ds.Organisation
	err := r.db.First(&org, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &org, nil
}

func (r *Repository) ListOrganisations() ([]ds.Organisation, error) {
	var orgs []ds.Organisation
	if err := r.db.Order("name ASC").Find(&orgs).Error; err != nil {
		return nil, err
	}
	return orgs, nil
}

// ListActiveOrganisationsByActorType renvoie les organisations actives
// d'un type d'acteur, triées par nom (select dynamique à l'inscription).
func (r *Repository) ListActiveOrganisationsByActorType(actorTypeID uint) ([]ds.Organisation, error) {
	var orgs []ds.Organisation
	err := r.db.
		Where("actor_type_id = ? AND is_active = ?", actorTypeID, true).
		Order("name ASC").
		Find(&orgs).Error
	if err != nil {
		return nil, err
	}
	return orgs, nil
}

func (r *Repository) ToggleOrganisation(id uint) (*ds.Organisation, error) {
	var org ds.Organisation
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&org, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		org.IsActive = !org.IsActive
		return tx.Model(&org).Update("is_active", org.IsActive).Error
	})
	if err != nil {
		return nil, err
	}
	return &org, nil
}

// DeleteOrganisation supprime définitivement une organisation, à la
// seule condition que le jeton de confirmation soit exactement
// "SUPPRIMER". Tout autre jeton (vide compris) laisse la ligne intacte.
func (r *Repository) DeleteOrganisation(id uint, confirmation string) error {
	if subtle.ConstantTimeCompare([]byte(confirmation), []byte(DeleteConfirmationToken)) != 1 {
		return ErrConfirmationMismatch
	}

	return r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&ds.Organisation{}, id)
		if res.Error != nil {
			// Des utilisateurs rattachés empêchent la suppression
			if errors.Is(res.Error, gorm.ErrForeignKeyViolated) {
				return ErrConflict
			}
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// SetOrganisationLogo enregistre le nom d'objet MinIO du logo
// téléversé (l'URL présignée est régénérée à la demande).
func (r *Repository) SetOrganisationLogo(id uint, objectName string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&ds.Organisation{}).Where("id = ?", id).Update("logo_object", objectName)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}
