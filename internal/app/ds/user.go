package ds

import (
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/Aboubacar2012/crsd-platform/internal/app/role"
)

// Table des utilisateurs
type User struct {
	ID        uint   `gorm:"primaryKey"`
	FirstName string `gorm:"type:varchar(100);not null"`
	LastName  string `gorm:"type:varchar(100);not null"`
	Email     string `gorm:"type:varchar(120);unique;not null"`
	Phone     string `gorm:"type:varchar(50);not null"`

	// Rattachement relationnel (et non en texte libre)
	ActorTypeID    uint `gorm:"not null;index"`
	OrganisationID uint `gorm:"not null;index"`

	ActorType    ActorType    `gorm:"foreignKey:ActorTypeID"`
	Organisation Organisation `gorm:"foreignKey:OrganisationID"`

	Role role.Role `gorm:"type:varchar(20);not null;default:'USER'"`

	// Jamais le mot de passe en clair
	PasswordHash string `gorm:"type:varchar(255);not null"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (User) TableName() string { return "users" }

// SetPassword dérive un hash bcrypt salé et remplace PasswordHash.
// La persistance reste à la charge de l'appelant.
func (u *User) SetPassword(plaintext string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	return nil
}

// CheckPassword compare en temps constant (bcrypt) le mot de passe
// fourni au hash stocké.
func (u *User) CheckPassword(plaintext string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(plaintext)) == nil
}

func (u *User) IsAdmin() bool {
	return u.Role.IsAdmin()
}
