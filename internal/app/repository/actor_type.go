package repository

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/Aboubacar2012/crsd-platform/internal/app/ds"
)

// Méthodes pour les types d'acteurs (référentiel)

// CreateActorType normalise code et libellé en majuscules avant insertion.
// Le code est unique (insensible à la casse, par normalisation).
func (r *Repository) CreateActorType(code, label, description string) (*ds.ActorType, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	label = strings.ToUpper(strings.TrimSpace(label))
	if code == "" || label == "" {
		return nil, ErrValidation
	}

	actorType := ds.ActorType{
		Code:        code,
		Label:       label,
		Description: strings.TrimSpace(description),
		IsActive:    true,
	}

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&ds.ActorType{}).Where("code = ?", code).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrDuplicateCode
		}

		if err := tx.Create(&actorType).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrDuplicateCode
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &actorType, nil
}

func (r *Repository) GetActorTypeByID(id uint) (*ds.ActorType, error) {
	var actorType ds.ActorType
	err := r.db.First(&actorType, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &actorType, nil
}

func (r *Repository) ListActorTypes(activeOnly bool) ([]ds.ActorType, error) {
	var actorTypes []ds.ActorType
	q := r.db.Order("code ASC")
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	if err := q.Find(&actorTypes).Error; err != nil {
		return nil, err
	}
	return actorTypes, nil
}

// ToggleActorType bascule le drapeau actif. La désactivation ne touche
// pas aux organisations rattachées : un type inactif peut toujours
// posséder des organisations actives.
func (r *Repository) ToggleActorType(id uint) (*ds.ActorType, error) {
	var actorType ds.ActorType
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&actorType, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		actorType.IsActive = !actorType.IsActive
		return tx.Model(&actorType).Update("is_active", actorType.IsActive).Error
	})
	if err != nil {
		return nil, err
	}
	return &actorType, nil
}

// DeleteActorType supprime un type d'acteur ET toutes ses organisations,
// en deux temps dans une même transaction : tout ou rien.
func (r *Repository) DeleteActorType(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var actorType ds.ActorType
		if err := tx.First(&actorType, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		// Les organisations dépendantes d'abord, le parent ensuite
		if err := tx.Where("actor_type_id = ?", id).Delete(&ds.Organisation{}).Error; err != nil {
			if errors.Is(err, gorm.ErrForeignKeyViolated) {
				return ErrConflict
			}
			return err
		}

		if err := tx.Delete(&actorType).Error; err != nil {
			if errors.Is(err, gorm.ErrForeignKeyViolated) {
				return ErrConflict
			}
			return err
		}
		return nil
	})
}
