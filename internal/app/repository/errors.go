package repository

import "errors"

// Taxonomie d'erreurs du domaine, convertie en HTTP à la frontière
// (handlers). Les violations de contraintes qui atteignent Postgres malgré
// les contrôles applicatifs sont rabattues sur ces mêmes erreurs.
var (
	ErrValidation           = errors.New("champs obligatoires manquants ou invalides")
	ErrNotFound             = errors.New("enregistrement introuvable")
	ErrDuplicateEmail       = errors.New("un compte avec cet email existe déjà")
	ErrDuplicateCode        = errors.New("un type d'acteur avec ce code existe déjà")
	ErrSelfModification     = errors.New("impossible de modifier son propre compte")
	ErrConfirmationMismatch = errors.New("confirmation de suppression incorrecte")
	ErrInactiveReference    = errors.New("le type d'acteur ou l'organisation est inactif")
	ErrConflict             = errors.New("des enregistrements dépendants existent encore")
)
