package services

import (
	"context"
	"testing"
	"time"

	"matchnight/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newInviteFixture() (*fakeInviteRepo, *fakeGroupRepo, *fakeAccountRepo, InviteService) {
	invites := newFakeInviteRepo()
	groups := newFakeGroupRepo()
	accounts := newFakeAccountRepo()
	svc := NewInviteService(invites, groups, accounts, testLogger())

	groups.groups["g1"] = &models.Group{ID: "g1", Name: "Tuesday crew"}
	groups.members["g1"] = []models.GroupMember{
		{GroupID: "g1", AccountID: "acc-ann", Role: models.GroupRoleAdmin},
	}
	seedAccount(accounts, "acc-ann", "Ann")
	seedAccount(accounts, "acc-bob", "Bob")

	return invites, groups, accounts, svc
}

func TestCreateInviteMemberOnly(t *testing.T) {
	_, _, _, svc := newInviteFixture()

	invite, err := svc.CreateInvite(context.Background(), "g1", "acc-ann")
	require.NoError(t, err)
	assert.Len(t, invite.Token, inviteTokenLength*2) // hex
	assert.True(t, invite.ExpiresAt.After(time.Now()))

	_, err = svc.CreateInvite(context.Background(), "g1", "acc-bob")
	assert.ErrorIs(t, err, ErrNotGroupMember)
}

func TestAcceptInviteAddsMemberAndBurnsToken(t *testing.T) {
	invites, groups, _, svc := newInviteFixture()

	invite, err := svc.CreateInvite(context.Background(), "g1", "acc-ann")
	require.NoError(t, err)

	group, err := svc.AcceptInvite(context.Background(), invite.Token, "acc-bob")
	require.NoError(t, err)
	assert.Equal(t, "g1", group.ID)

	isMember, err := groups.IsMember(context.Background(), "g1", "acc-bob")
	require.NoError(t, err)
	assert.True(t, isMember)

	// Токен погашен.
	assert.Empty(t, invites.invites)
	_, err = svc.GetInviteByToken(context.Background(), invite.Token)
	assert.ErrorIs(t, err, ErrInviteNotFound)
}

func TestAcceptInviteExpired(t *testing.T) {
	invites, _, _, svc := newInviteFixture()

	invites.invites["inv1"] = &models.GroupInvite{
		ID:        "inv1",
		GroupID:   "g1",
		Token:     "stale-token",
		ExpiresAt: time.Now().Add(-time.Hour),
	}

	_, err := svc.AcceptInvite(context.Background(), "stale-token", "acc-bob")
	assert.ErrorIs(t, err, ErrInviteExpired)
}

func TestAcceptInviteAlreadyMember(t *testing.T) {
	_, _, _, svc := newInviteFixture()

	invite, err := svc.CreateInvite(context.Background(), "g1", "acc-ann")
	require.NoError(t, err)

	_, err = svc.AcceptInvite(context.Background(), invite.Token, "acc-ann")
	assert.ErrorIs(t, err, ErrAlreadyGroupMember)
}

func TestAcceptInviteUnknownAccount(t *testing.T) {
	_, _, _, svc := newInviteFixture()

	invite, err := svc.CreateInvite(context.Background(), "g1", "acc-ann")
	require.NoError(t, err)

	_, err = svc.AcceptInvite(context.Background(), invite.Token, "ghost")
	assert.ErrorIs(t, err, ErrAccountNotFound)
}

func TestDeleteInviteMemberOnly(t *testing.T) {
	invites, _, _, svc := newInviteFixture()

	invite, err := svc.CreateInvite(context.Background(), "g1", "acc-ann")
	require.NoError(t, err)

	err = svc.DeleteInvite(context.Background(), invite.ID, "acc-bob")
	assert.ErrorIs(t, err, ErrNotGroupMember)

	require.NoError(t, svc.DeleteInvite(context.Background(), invite.ID, "acc-ann"))
	assert.Empty(t, invites.invites)
}

func TestListGroupInvitesFiltersExpired(t *testing.T) {
	invites, _, _, svc := newInviteFixture()

	_, err := svc.CreateInvite(context.Background(), "g1", "acc-ann")
	require.NoError(t, err)
	invites.invites["old"] = &models.GroupInvite{
		ID:        "old",
		GroupID:   "g1",
		Token:     "expired-token",
		ExpiresAt: time.Now().Add(-time.Minute),
	}

	active, err := svc.ListGroupInvites(context.Background(), "g1", "acc-ann")
	require.NoError(t, err)
	assert.Len(t, active, 1)
}
