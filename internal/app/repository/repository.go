package repository

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/Aboubacar2012/crsd-platform/internal/app/ds"
)

type Repository struct {
	db *gorm.DB
}

func New(dsn string) (*Repository, error) {
	// TranslateError pour récupérer gorm.ErrDuplicatedKey /
	// gorm.ErrForeignKeyViolated quelle que soit la base
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, err
	}
	return NewWithDB(db)
}

// NewWithDB construit le dépôt sur une connexion déjà ouverte
// (utilisé aussi par les tests sur sqlite en mémoire).
func NewWithDB(db *gorm.DB) (*Repository, error) {
	err := db.AutoMigrate(
		&ds.ActorType{},
		&ds.Organisation{},
		&ds.User{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &Repository{db: db}, nil
}
