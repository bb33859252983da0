package repository

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Aboubacar2012/crsd-platform/internal/app/ds"
	"github.com/Aboubacar2012/crsd-platform/internal/app/role"
)

func newTestRepository(t *testing.T) *Repository {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	// une seule connexion, sinon chaque connexion du pool
	// verrait une base mémoire différente
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	repo, err := NewWithDB(db)
	require.NoError(t, err)
	return repo
}

func createActorType(t *testing.T, r *Repository, code string) *ds.ActorType {
	t.Helper()
	at, err := r.CreateActorType(code, code+" label", "")
	require.NoError(t, err)
	return at
}

func createOrganisation(t *testing.T, r *Repository, name string, actorTypeID uint) *ds.Organisation {
	t.Helper()
	org, err := r.CreateOrganisation(name, "", "", actorTypeID)
	require.NoError(t, err)
	return org
}

func createUser(t *testing.T, r *Repository, email string, actorTypeID, orgID uint) *ds.User {
	t.Helper()
	u := &ds.User{
		FirstName:      "Awa",
		LastName:       "Diallo",
		Email:          email,
		Phone:          "+223 70 00 00 00",
		ActorTypeID:    actorTypeID,
		OrganisationID: orgID,
	}
	require.NoError(t, u.SetPassword("motdepasse"))
	require.NoError(t, r.CreateUser(u))
	return u
}

// ============ Types d'acteurs ============

func TestCreateActorTypeNormalizesCodeAndLabel(t *testing.T) {
	repo := newTestRepository(t)

	at, err := repo.CreateActorType("ong", "ong internationale", "")
	require.NoError(t, err)
	assert.Equal(t, "ONG", at.Code)
	assert.Equal(t, "ONG INTERNATIONALE", at.Label)
	assert.True(t, at.IsActive)
}

func TestCreateActorTypeDuplicateCode(t *testing.T) {
	repo := newTestRepository(t)

	_, err := repo.CreateActorType("ong", "ong internationale", "")
	require.NoError(t, err)

	// même code, casse différente : refusé après normalisation
	_, err = repo.CreateActorType("ONG", "autre libellé", "")
	assert.ErrorIs(t, err, ErrDuplicateCode)

	_, err = repo.CreateActorType("Ong", "encore un", "")
	assert.ErrorIs(t, err, ErrDuplicateCode)
}

func TestCreateActorTypeValidation(t *testing.T) {
	repo := newTestRepository(t)

	_, err := repo.CreateActorType("", "libellé", "")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = repo.CreateActorType("PTF", "   ", "")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestToggleActorType(t *testing.T) {
	repo := newTestRepository(t)
	at := createActorType(t, repo, "ETAT")

	toggled, err := repo.ToggleActorType(at.ID)
	require.NoError(t, err)
	assert.False(t, toggled.IsActive)

	toggled, err = repo.ToggleActorType(at.ID)
	require.NoError(t, err)
	assert.True(t, toggled.IsActive)

	_, err = repo.ToggleActorType(9999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestToggleActorTypeDoesNotCascadeToOrganisations(t *testing.T) {
	repo := newTestRepository(t)
	at := createActorType(t, repo, "ONG")
	org := createOrganisation(t, repo, "Croix Rouge", at.ID)

	_, err := repo.ToggleActorType(at.ID)
	require.NoError(t, err)

	// un type inactif garde ses organisations actives
	got, err := repo.GetOrganisationByID(org.ID)
	require.NoError(t, err)
	assert.True(t, got.IsActive)
}

func TestDeleteActorTypeCascadesToOrganisations(t *testing.T) {
	repo := newTestRepository(t)
	at := createActorType(t, repo, "ONG")
	other := createActorType(t, repo, "PTF")

	org1 := createOrganisation(t, repo, "Croix Rouge", at.ID)
	org2 := createOrganisation(t, repo, "OXFAM", at.ID)
	kept := createOrganisation(t, repo, "Banque Mondiale", other.ID)

	require.NoError(t, repo.DeleteActorType(at.ID))

	_, err := repo.GetActorTypeByID(at.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = repo.GetOrganisationByID(org1.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = repo.GetOrganisationByID(org2.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	// les organisations des autres types ne bougent pas
	_, err = repo.GetOrganisationByID(kept.ID)
	assert.NoError(t, err)

	assert.ErrorIs(t, repo.DeleteActorType(9999), ErrNotFound)
}

func TestDeleteActorTypeRollsBackWhenParentDeleteFails(t *testing.T) {
	repo := newTestRepository(t)
	require.NoError(t, repo.db.Exec("PRAGMA foreign_keys = ON").Error)

	at := createActorType(t, repo, "ONG")
	other := createActorType(t, repo, "PTF")
	org1 := createOrganisation(t, repo, "Croix Rouge", at.ID)
	org2 := createOrganisation(t, repo, "OXFAM", at.ID)
	keptOrg := createOrganisation(t, repo, "Banque Mondiale", other.ID)

	// Utilisateur pointant encore sur le type à supprimer, inséré
	// directement pour contourner les contrôles d'inscription.
	u := &ds.User{
		FirstName: "Awa", LastName: "Diallo",
		Email: "blocage@example.org", Phone: "+223",
		ActorTypeID: at.ID, OrganisationID: keptOrg.ID,
	}
	require.NoError(t, u.SetPassword("motdepasse"))
	require.NoError(t, repo.db.Create(u).Error)

	// La phase enfants passe, la phase parent viole la clé étrangère :
	// la transaction doit tout annuler, organisations comprises.
	err := repo.DeleteActorType(at.ID)
	require.Error(t, err)

	_, err = repo.GetActorTypeByID(at.ID)
	assert.NoError(t, err)
	_, err = repo.GetOrganisationByID(org1.ID)
	assert.NoError(t, err)
	_, err = repo.GetOrganisationByID(org2.ID)
	assert.NoError(t, err)
}

func TestListActorTypesActiveOnly(t *testing.T) {
	repo := newTestRepository(t)
	createActorType(t, repo, "ONG")
	at := createActorType(t, repo, "PTF")
	_, err := repo.ToggleActorType(at.ID)
	require.NoError(t, err)

	all, err := repo.ListActorTypes(false)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	active, err := repo.ListActorTypes(true)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "ONG", active[0].Code)
}

// ============ Organisations ============

func TestCreateOrganisationValidation(t *testing.T) {
	repo := newTestRepository(t)
	at := createActorType(t, repo, "ONG")

	_, err := repo.CreateOrganisation("", "", "", at.ID)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = repo.CreateOrganisation("Croix Rouge", "", "", 0)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = repo.CreateOrganisation("Croix Rouge", "", "", 9999)
	assert.ErrorIs(t, err, ErrNotFound)

	org, err := repo.CreateOrganisation("Croix Rouge", "CR", "Mali", at.ID)
	require.NoError(t, err)
	assert.True(t, org.IsActive)
	assert.Equal(t, at.ID, org.ActorTypeID)
}

func TestUpdateOrganisation(t *testing.T) {
	repo := newTestRepository(t)
	at := createActorType(t, repo, "ONG")
	other := createActorType(t, repo, "PTF")
	org := createOrganisation(t, repo, "Croix Rouge", at.ID)

	updated, err := repo.UpdateOrganisation(org.ID, "Croix Rouge Malienne", "CRM", "Mali", other.ID)
	require.NoError(t, err)
	assert.Equal(t, "Croix Rouge Malienne", updated.Name)
	assert.Equal(t, other.ID, updated.ActorTypeID)

	_, err = repo.UpdateOrganisation(org.ID, "", "", "", at.ID)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = repo.UpdateOrganisation(9999, "X", "", "", at.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestToggleOrganisationRoundTrip(t *testing.T) {
	repo := newTestRepository(t)
	at := createActorType(t, repo, "ONG")
	org := createOrganisation(t, repo, "Croix Rouge", at.ID)
	require.True(t, org.IsActive)

	got, err := repo.ToggleOrganisation(org.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)

	got, err = repo.ToggleOrganisation(org.ID)
	require.NoError(t, err)
	assert.True(t, got.IsActive)
}

func TestDeleteOrganisationConfirmationGate(t *testing.T) {
	repo := newTestRepository(t)
	at := createActorType(t, repo, "ONG")
	org := createOrganisation(t, repo, "Croix Rouge", at.ID)

	// seule la chaîne exacte "SUPPRIMER" passe
	for _, token := range []string{"", "supprimer", "SUPPRIMER ", " SUPPRIMER", "SUPPRIME"} {
		err := repo.DeleteOrganisation(org.ID, token)
		assert.ErrorIs(t, err, ErrConfirmationMismatch, "token %q", token)

		_, err = repo.GetOrganisationByID(org.ID)
		assert.NoError(t, err, "row must be intact after token %q", token)
	}

	require.NoError(t, repo.DeleteOrganisation(org.ID, "SUPPRIMER"))
	_, err := repo.GetOrganisationByID(org.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, repo.DeleteOrganisation(org.ID, "SUPPRIMER"), ErrNotFound)
}

func TestListActiveOrganisationsByActorTypeOrdered(t *testing.T) {
	repo := newTestRepository(t)
	at := createActorType(t, repo, "ONG")
	other := createActorType(t, repo, "PTF")

	createOrganisation(t, repo, "OXFAM", at.ID)
	createOrganisation(t, repo, "Croix Rouge", at.ID)
	inactive := createOrganisation(t, repo, "ACF", at.ID)
	createOrganisation(t, repo, "Banque Mondiale", other.ID)

	_, err := repo.ToggleOrganisation(inactive.ID)
	require.NoError(t, err)

	orgs, err := repo.ListActiveOrganisationsByActorType(at.ID)
	require.NoError(t, err)
	require.Len(t, orgs, 2)
	assert.Equal(t, "Croix Rouge", orgs[0].Name)
	assert.Equal(t, "OXFAM", orgs[1].Name)
}

// ============ Utilisateurs ============

func TestCreateUserDefaultsAndNormalization(t *testing.T) {
	repo := newTestRepository(t)
	at := createActorType(t, repo, "ONG")
	org := createOrganisation(t, repo, "Croix Rouge", at.ID)

	u := &ds.User{
		FirstName:      "Awa",
		LastName:       "Diallo",
		Email:          "  Awa.Diallo@Example.org ",
		Phone:          "+223 70 00 00 00",
		ActorTypeID:    at.ID,
		OrganisationID: org.ID,
		Role:           role.Admin, // ignoré : USER d'office à l'inscription
	}
	require.NoError(t, u.SetPassword("motdepasse"))
	require.NoError(t, repo.CreateUser(u))

	got, err := repo.GetUserByEmail("awa.diallo@example.org")
	require.NoError(t, err)
	assert.Equal(t, role.User, got.Role)

	// la recherche normalise comme l'inscription : la casse saisie
	// à la connexion ne doit jamais rendre le compte introuvable
	got, err = repo.GetUserByEmail("  Awa.Diallo@Example.org ")
	require.NoError(t, err)
	assert.Equal(t, "awa.diallo@example.org", got.Email)

	exists, err := repo.UserExistsByEmail("AWA.DIALLO@EXAMPLE.ORG")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestCreateUserRejectsBadReferences(t *testing.T) {
	repo := newTestRepository(t)
	at := createActorType(t, repo, "ONG")
	other := createActorType(t, repo, "PTF")
	org := createOrganisation(t, repo, "Croix Rouge", at.ID)

	newUser := func(actorTypeID, orgID uint) *ds.User {
		u := &ds.User{
			FirstName: "Awa", LastName: "Diallo",
			Email: "awa@example.org", Phone: "+223",
			ActorTypeID: actorTypeID, OrganisationID: orgID,
		}
		require.NoError(t, u.SetPassword("motdepasse"))
		return u
	}

	assert.ErrorIs(t, repo.CreateUser(newUser(9999, org.ID)), ErrNotFound)
	assert.ErrorIs(t, repo.CreateUser(newUser(at.ID, 9999)), ErrNotFound)

	// organisation d'un autre type que celui soumis
	assert.ErrorIs(t, repo.CreateUser(newUser(other.ID, org.ID)), ErrValidation)

	// références inactives refusées à l'inscription
	_, err := repo.ToggleActorType(at.ID)
	require.NoError(t, err)
	assert.ErrorIs(t, repo.CreateUser(newUser(at.ID, org.ID)), ErrInactiveReference)
}

func TestToggleUserRoleSelfModification(t *testing.T) {
	repo := newTestRepository(t)
	at := createActorType(t, repo, "ONG")
	org := createOrganisation(t, repo, "Croix Rouge", at.ID)
	admin := createUser(t, repo, "admin@example.org", at.ID, org.ID)

	_, err := repo.ToggleUserRole(admin.ID, admin.ID)
	assert.ErrorIs(t, err, ErrSelfModification)

	// ligne inchangée
	got, err := repo.GetUserByID(admin.ID)
	require.NoError(t, err)
	assert.Equal(t, role.User, got.Role)
}

func TestToggleUserRole(t *testing.T) {
	repo := newTestRepository(t)
	at := createActorType(t, repo, "ONG")
	org := createOrganisation(t, repo, "Croix Rouge", at.ID)
	admin := createUser(t, repo, "admin@example.org", at.ID, org.ID)
	target := createUser(t, repo, "user@example.org", at.ID, org.ID)

	promoted, err := repo.ToggleUserRole(admin.ID, target.ID)
	require.NoError(t, err)
	assert.Equal(t, role.Admin, promoted.Role)

	demoted, err := repo.ToggleUserRole(admin.ID, target.ID)
	require.NoError(t, err)
	assert.Equal(t, role.User, demoted.Role)

	_, err = repo.ToggleUserRole(admin.ID, 9999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteUser(t *testing.T) {
	repo := newTestRepository(t)
	at := createActorType(t, repo, "ONG")
	org := createOrganisation(t, repo, "Croix Rouge", at.ID)
	admin := createUser(t, repo, "admin@example.org", at.ID, org.ID)
	target := createUser(t, repo, "user@example.org", at.ID, org.ID)

	// auto-suppression toujours refusée
	assert.ErrorIs(t, repo.DeleteUser(admin.ID, admin.ID), ErrSelfModification)
	_, err := repo.GetUserByID(admin.ID)
	assert.NoError(t, err)

	require.NoError(t, repo.DeleteUser(admin.ID, target.ID))
	_, err = repo.GetUserByID(target.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, repo.DeleteUser(admin.ID, 9999), ErrNotFound)
}

func TestCountStats(t *testing.T) {
	repo := newTestRepository(t)
	at := createActorType(t, repo, "ONG")
	org := createOrganisation(t, repo, "Croix Rouge", at.ID)
	createOrganisation(t, repo, "OXFAM", at.ID)

	admin := createUser(t, repo, "admin@example.org", at.ID, org.ID)
	target := createUser(t, repo, "user@example.org", at.ID, org.ID)
	_, err := repo.ToggleUserRole(target.ID, admin.ID)
	require.NoError(t, err)

	totalUsers, admins, users, actorTypes, organisations, err := repo.CountStats()
	require.NoError(t, err)
	assert.EqualValues(t, 2, totalUsers)
	assert.EqualValues(t, 1, admins)
	assert.EqualValues(t, 1, users)
	assert.EqualValues(t, 1, actorTypes)
	assert.EqualValues(t, 2, organisations)
}
