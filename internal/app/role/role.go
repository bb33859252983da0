package role

import "fmt"

// Role est le rôle applicatif d'un utilisateur. Deux valeurs seulement :
// les états invalides sont rejetés à la frontière via Parse.
type Role string

const (
	User  Role = "USER"
	Admin Role = "ADMIN"
)

func (r Role) String() string {
	return string(r)
}

func (r Role) IsAdmin() bool {
	return r == Admin
}

// Toggle bascule USER <-> ADMIN.
func (r Role) Toggle() Role {
	if r == Admin {
		return User
	}
	return Admin
}

// Parse valide une chaîne venant de la base ou d'un token.
func Parse(s string) (Role, error) {
	switch Role(s) {
	case User, Admin:
		return Role(s), nil
	}
	return "", fmt.Errorf("rôle inconnu: %q", s)
}
