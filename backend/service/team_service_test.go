package service

import (
	"context"
	"net/http"
	"testing"

	apierrors "github.com/v-wei40680/mcp-linker/backend/common/errors"
	"github.com/v-wei40680/mcp-linker/backend/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func assertAPIError(t *testing.T, err error, status int, code string) {
	t.Helper()
	var apiErr *apierrors.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, status, apiErr.Status)
	assert.Equal(t, code, apiErr.Code)
}

func newTeam(t *testing.T, db *gorm.DB, ownerID string) *model.Team {
	t.Helper()
	team, err := NewTeamService(db).CreateTeam(context.Background(), "team", "desc", ownerID)
	require.NoError(t, err)
	return team
}

func TestCreateTeamMakesOwnerMember(t *testing.T) {
	db := newTestDB(t)
	owner := seedUser(t, db, "owner")

	team := newTeam(t, db, owner.ID)
	assert.NotEmpty(t, team.ID)
	assert.Equal(t, owner.ID, team.OwnerID)

	var member model.TeamMember
	require.NoError(t, db.Where("team_id = ? AND user_id = ?", team.ID, owner.ID).First(&member).Error)
	assert.Equal(t, model.TeamRoleOwner, member.Role)
}

func TestGetTeamForViewer(t *testing.T) {
	db := newTestDB(t)
	owner := seedUser(t, db, "owner")
	member := seedUser(t, db, "member")
	stranger := seedUser(t, db, "stranger")
	team := newTeam(t, db, owner.ID)

	svc := NewTeamService(db)
	_, err := svc.AddMember(context.Background(), team.ID, member.ID, model.TeamRoleMember, owner.ID)
	require.NoError(t, err)

	got, err := svc.GetTeamForViewer(context.Background(), team.ID, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, team.ID, got.ID)

	_, err = svc.GetTeamForViewer(context.Background(), team.ID, member.ID)
	require.NoError(t, err)

	_, err = svc.GetTeamForViewer(context.Background(), team.ID, stranger.ID)
	assertAPIError(t, err, http.StatusNotFound, apierrors.ErrTeamNotFound)
}

func TestAddMember(t *testing.T) {
	db := newTestDB(t)
	owner := seedUser(t, db, "owner")
	invitee := seedUser(t, db, "invitee")
	team := newTeam(t, db, owner.ID)
	svc := NewTeamService(db)

	member, err := svc.AddMember(context.Background(), team.ID, invitee.ID, model.TeamRoleAdmin, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, model.TeamRoleAdmin, member.Role)
	assert.Equal(t, owner.ID, member.InvitedBy)

	// Adding the same user again is a conflict.
	_, err = svc.AddMember(context.Background(), team.ID, invitee.ID, model.TeamRoleMember, owner.ID)
	assertAPIError(t, err, http.StatusConflict, apierrors.ErrDuplicateMember)

	// Unknown target user.
	_, err = svc.AddMember(context.Background(), team.ID, "ghost", model.TeamRoleMember, owner.ID)
	assertAPIError(t, err, http.StatusNotFound, apierrors.ErrUserNotFound)
}

func TestAddMemberRequiresAdminRole(t *testing.T) {
	db := newTestDB(t)
	owner := seedUser(t, db, "owner")
	plain := seedUser(t, db, "plain")
	invitee := seedUser(t, db, "invitee")
	team := newTeam(t, db, owner.ID)
	svc := NewTeamService(db)

	_, err := svc.AddMember(context.Background(), team.ID, plain.ID, model.TeamRoleMember, owner.ID)
	require.NoError(t, err)

	// A plain MEMBER cannot invite.
	_, err = svc.AddMember(context.Background(), team.ID, invitee.ID, model.TeamRoleMember, plain.ID)
	assertAPIError(t, err, http.StatusForbidden, apierrors.ErrNotTeamAdmin)

	// Neither can a non-member.
	_, err = svc.AddMember(context.Background(), team.ID, invitee.ID, model.TeamRoleMember, invitee.ID)
	assertAPIError(t, err, http.StatusForbidden, apierrors.ErrNotTeamAdmin)
}

func TestSoleOwnerCannotBeDemotedOrRemoved(t *testing.T) {
	db := newTestDB(t)
	owner := seedUser(t, db, "owner")
	team := newTeam(t, db, owner.ID)
	svc := NewTeamService(db)

	var ownerMember model.TeamMember
	require.NoError(t, db.Where("team_id = ? AND user_id = ?", team.ID, owner.ID).First(&ownerMember).Error)

	_, err := svc.UpdateMemberRole(context.Background(), team.ID, ownerMember.ID, model.TeamRoleAdmin, owner.ID)
	assertAPIError(t, err, http.StatusBadRequest, apierrors.ErrSoleOwner)

	err = svc.RemoveMember(context.Background(), team.ID, ownerMember.ID, owner.ID)
	assertAPIError(t, err, http.StatusBadRequest, apierrors.ErrSoleOwner)
}

func TestDemoteOwnerWithCoOwner(t *testing.T) {
	db := newTestDB(t)
	owner := seedUser(t, db, "owner")
	coOwner := seedUser(t, db, "co-owner")
	team := newTeam(t, db, owner.ID)
	svc := NewTeamService(db)

	_, err := svc.AddMember(context.Background(), team.ID, coOwner.ID, model.TeamRoleOwner, owner.ID)
	require.NoError(t, err)

	var ownerMember model.TeamMember
	require.NoError(t, db.Where("team_id = ? AND user_id = ?", team.ID, owner.ID).First(&ownerMember).Error)

	updated, err := svc.UpdateMemberRole(context.Background(), team.ID, ownerMember.ID, model.TeamRoleMember, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, model.TeamRoleMember, updated.Role)
}

func TestGetTeamMembersRequiresMembership(t *testing.T) {
	db := newTestDB(t)
	owner := seedUser(t, db, "owner")
	stranger := seedUser(t, db, "stranger")
	team := newTeam(t, db, owner.ID)
	svc := NewTeamService(db)

	members, err := svc.GetTeamMembers(context.Background(), team.ID, owner.ID)
	require.NoError(t, err)
	require.Len(t, members, 1)
	require.NotNil(t, members[0].User)
	assert.Equal(t, owner.ID, members[0].User.ID)

	_, err = svc.GetTeamMembers(context.Background(), team.ID, stranger.ID)
	assertAPIError(t, err, http.StatusForbidden, apierrors.ErrNotTeamMember)
}

func TestUpdateAndDeleteTeamOwnerOnly(t *testing.T) {
	db := newTestDB(t)
	owner := seedUser(t, db, "owner")
	member := seedUser(t, db, "member")
	team := newTeam(t, db, owner.ID)
	svc := NewTeamService(db)

	_, err := svc.AddMember(context.Background(), team.ID, member.ID, model.TeamRoleAdmin, owner.ID)
	require.NoError(t, err)

	name := "renamed"
	_, err = svc.UpdateTeam(context.Background(), team.ID, member.ID, &name, nil)
	assertAPIError(t, err, http.StatusForbidden, apierrors.ErrForbidden)

	updated, err := svc.UpdateTeam(context.Background(), team.ID, owner.ID, &name, nil)
	require.NoError(t, err)
	assert.Equal(t, "renamed", updated.Name)

	err = svc.DeleteTeam(context.Background(), team.ID, member.ID)
	assertAPIError(t, err, http.StatusForbidden, apierrors.ErrForbidden)

	require.NoError(t, svc.DeleteTeam(context.Background(), team.ID, owner.ID))

	var count int64
	require.NoError(t, db.Model(&model.TeamMember{}).Where("team_id = ?", team.ID).Count(&count).Error)
	assert.Zero(t, count)
}

func TestTeamConfigLifecycle(t *testing.T) {
	db := newTestDB(t)
	owner := seedUser(t, db, "owner")
	viewer := seedUser(t, db, "viewer")
	team := newTeam(t, db, owner.ID)
	svc := NewTeamService(db)

	_, err := svc.AddMember(context.Background(), team.ID, viewer.ID, model.TeamRoleViewer, owner.ID)
	require.NoError(t, err)

	data := map[string]any{"mcpServers": map[string]any{"blender": map[string]any{"command": "uvx"}}}
	config, err := svc.CreateTeamConfig(context.Background(), team.ID, owner.ID, "default", "shared setup", data)
	require.NoError(t, err)
	assert.NotEmpty(t, config.ID)

	// A VIEWER can read but not write.
	configs, err := svc.GetTeamConfigs(context.Background(), team.ID, viewer.ID)
	require.NoError(t, err)
	assert.Len(t, configs, 1)

	_, err = svc.CreateTeamConfig(context.Background(), team.ID, viewer.ID, "rogue", "", data)
	assertAPIError(t, err, http.StatusForbidden, apierrors.ErrNotTeamAdmin)

	newName := "renamed"
	updated, err := svc.UpdateTeamConfig(context.Background(), team.ID, config.ID, owner.ID, &newName, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "renamed", updated.Name)
	assert.Equal(t, "shared setup", updated.Description)

	_, err = svc.UpdateTeamConfig(context.Background(), team.ID, "missing", owner.ID, &newName, nil, nil)
	assertAPIError(t, err, http.StatusNotFound, apierrors.ErrTeamConfigNotFound)

	require.NoError(t, svc.DeleteTeamConfig(context.Background(), team.ID, config.ID, owner.ID))
	configs, err = svc.GetTeamConfigs(context.Background(), team.ID, owner.ID)
	require.NoError(t, err)
	assert.Empty(t, configs)
}
