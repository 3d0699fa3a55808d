package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pet-adoption-api/models"
)

func TestSetApproval_NotifiesOwnerOnlyOnTransition(t *testing.T) {
	db := newTestDB(t)
	disp := &recordingDispatcher{}
	svc := NewListingService(db, disp)

	owner := seedUser(t, db, "Owner", models.RoleUser)
	mod := seedUser(t, db, "Mod", models.RoleModerator)
	pet := seedPet(t, db, models.Pet{PetID: 7, OwnerID: owner.UserID, Name: "Luna", AdoptionStatus: models.PetUnlisted})
	actor := Actor{UserID: mod.UserID, Role: mod.Role}

	res, err := svc.SetApproval(context.Background(), actor, pet.PetID, true)
	require.NoError(t, err)
	assert.True(t, res.Notified)
	assert.True(t, res.Pet.Approved)
	assert.Equal(t, models.PetAvailable, res.Pet.AdoptionStatus)

	notes := notificationsFor(t, db, owner.UserID)
	require.Len(t, notes, 1)
	assert.Equal(t, "listing_approval", notes[0].Type)
	assert.Contains(t, notes[0].Content, "Luna")

	res, err = svc.SetApproval(context.Background(), actor, pet.PetID, true)
	require.NoError(t, err)
	assert.False(t, res.Notified)
	assert.Len(t, notificationsFor(t, db, owner.UserID), 1)
	assert.Equal(t, 1, disp.count())

	stored := loadPet(t, db, pet.PetID)
	assert.True(t, stored.Approved)
	assert.Equal(t, models.PetAvailable, stored.AdoptionStatus)
}

func TestSetApproval_UnapproveDoesNotNotify(t *testing.T) {
	db := newTestDB(t)
	svc := NewListingService(db, &recordingDispatcher{})

	owner := seedUser(t, db, "Owner", models.RoleUser)
	pet := seedPet(t, db, models.Pet{OwnerID: owner.UserID, Approved: true})

	res, err := svc.SetApproval(context.Background(), Actor{UserID: 99, Role: models.RoleAdmin}, pet.PetID, false)
	require.NoError(t, err)
	assert.False(t, res.Notified)
	assert.False(t, loadPet(t, db, pet.PetID).Approved)
	assert.Zero(t, countRows(t, db, "notifications", ""))
}

func TestSetApproval_Errors(t *testing.T) {
	db := newTestDB(t)
	svc := NewListingService(db, &recordingDispatcher{})
	owner := seedUser(t, db, "Owner", models.RoleUser)
	pet := seedPet(t, db, models.Pet{OwnerID: owner.UserID})

	_, err := svc.SetApproval(context.Background(), Actor{UserID: 1, Role: models.RoleModerator}, 4040, true)
	assert.Equal(t, KindNotFound, KindOf(err))

	_, err = svc.SetApproval(context.Background(), Actor{UserID: owner.UserID, Role: models.RoleUser}, pet.PetID, true)
	assert.Equal(t, KindForbidden, KindOf(err))
	assert.False(t, loadPet(t, db, pet.PetID).Approved)
}

func TestListPending(t *testing.T) {
	db := newTestDB(t)
	svc := NewListingService(db, &recordingDispatcher{})
	owner := seedUser(t, db, "Owner", models.RoleUser)
	seedPet(t, db, models.Pet{OwnerID: owner.UserID, Name: "Waiting"})
	seedPet(t, db, models.Pet{OwnerID: owner.UserID, Name: "Also waiting"})
	seedPet(t, db, models.Pet{OwnerID: owner.UserID, Name: "Listed", Approved: true})
	moderator := Actor{UserID: 1, Role: models.RoleModerator}

	pets, total, err := svc.ListPending(context.Background(), moderator, 0, 0)
	require.NoError(t, err)
	require.Len(t, pets, 2)
	assert.Equal(t, int64(2), total)
	assert.Equal(t, "Waiting", pets[0].Name)

	// total counts every pending row, not just the page
	pets, total, err = svc.ListPending(context.Background(), moderator, 1, 1)
	require.NoError(t, err)
	require.Len(t, pets, 1)
	assert.Equal(t, int64(2), total)
	assert.Equal(t, "Also waiting", pets[0].Name)

	_, _, err = svc.ListPending(context.Background(), Actor{UserID: owner.UserID, Role: models.RoleUser}, 0, 0)
	assert.Equal(t, KindForbidden, KindOf(err))
}
