package ds

import "time"

// Table des types d'acteurs (ONG, PTF, ETAT, BILATERAL, ...)
type ActorType struct {
	ID uint `gorm:"primaryKey"`

	// Code court, unique, toujours stocké en majuscules
	Code        string `gorm:"type:varchar(50);unique;not null"`
	Label       string `gorm:"type:varchar(150);not null"`
	Description string `gorm:"type:text"`

	// Actif / inactif : on désactive plutôt que supprimer
	IsActive bool `gorm:"not null;default:true"`

	CreatedAt time.Time
	UpdatedAt time.Time

	Organisations []Organisation `gorm:"foreignKey:ActorTypeID"`
}

func (ActorType) TableName() string { return "actor_types" }
