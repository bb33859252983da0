package ds

import "time"

// Table des organisations, chacune rattachée à un type d'acteur
type Organisation struct {
	ID uint `gorm:"primaryKey"`

	ActorTypeID uint `gorm:"not null;index"`

	Name    string `gorm:"type:varchar(255);not null"`
	Acronym string `gorm:"type:varchar(50)"`
	Country string `gorm:"type:varchar(100)"`

	// Nom d'objet MinIO du logo, nullable. On persiste le nom d'objet
	// et non une URL : les URL présignées expirent.
	LogoObject *string `gorm:"type:varchar(255)"`

	IsActive bool `gorm:"not null;default:true"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Organisation) TableName() string { return "organisations" }
