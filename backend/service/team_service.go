package service

import (
	"context"
	"errors"

	apierrors "github.com/v-wei40680/mcp-linker/backend/common/errors"
	"github.com/v-wei40680/mcp-linker/backend/model"

	"gorm.io/gorm"
)

// TeamService implements team membership and configuration operations with
// their role gates. The check-then-write sequences here are not wrapped in
// transactions; concurrent requests can race between the membership check
// and the mutation. Known limitation, kept as-is.
type TeamService struct {
	db *gorm.DB
}

func NewTeamService(db *gorm.DB) *TeamService {
	return &TeamService{db: db}
}

// membership returns the viewer's membership row in a team, or nil.
func (s *TeamService) membership(ctx context.Context, teamID, userID string) (*model.TeamMember, error) {
	var member model.TeamMember
	err := s.db.WithContext(ctx).
		Where("team_id = ? AND user_id = ?", teamID, userID).
		First(&member).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &member, nil
}

// requireAdminOrOwner returns the viewer's membership if it carries the
// ADMIN or OWNER role.
func (s *TeamService) requireAdminOrOwner(ctx context.Context, teamID, userID, action string) (*model.TeamMember, error) {
	member, err := s.membership(ctx, teamID, userID)
	if err != nil {
		return nil, err
	}
	if member == nil || (member.Role != model.TeamRoleAdmin && member.Role != model.TeamRoleOwner) {
		return nil, apierrors.Forbidden(apierrors.ErrNotTeamAdmin,
			"Only team owners or admins can "+action)
	}
	return member, nil
}

// GetTeamMembers lists a team's members; any member may read the list.
func (s *TeamService) GetTeamMembers(ctx context.Context, teamID, userID string) ([]*model.TeamMember, error) {
	member, err := s.membership(ctx, teamID, userID)
	if err != nil {
		return nil, err
	}
	if member == nil {
		return nil, apierrors.Forbidden(apierrors.ErrNotTeamMember, "Not a member of this team")
	}

	var members []*model.TeamMember
	err = s.db.WithContext(ctx).
		Where("team_id = ?", teamID).
		Preload("User").
		Find(&members).Error
	return members, err
}

// GetMyMemberships lists every team membership of the viewer.
func (s *TeamService) GetMyMemberships(ctx context.Context, userID string) ([]*model.TeamMember, error) {
	var memberships []*model.TeamMember
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Preload("User").
		Find(&memberships).Error
	return memberships, err
}

// AddMember adds a user to a team. ADMIN or OWNER role required; duplicate
// membership is a conflict.
func (s *TeamService) AddMember(ctx context.Context, teamID, userIDToAdd string, role model.TeamRole, currentUserID string) (*model.TeamMember, error) {
	if _, err := s.requireAdminOrOwner(ctx, teamID, currentUserID, "add members"); err != nil {
		return nil, err
	}

	var user model.User
	err := s.db.WithContext(ctx).Where("id = ?", userIDToAdd).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apierrors.NotFound(apierrors.ErrUserNotFound, "User to be added not found")
	}
	if err != nil {
		return nil, err
	}

	existing, err := s.membership(ctx, teamID, userIDToAdd)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apierrors.Conflict(apierrors.ErrDuplicateMember,
			"User is already a member of this team")
	}

	member := &model.TeamMember{
		TeamID:    teamID,
		UserID:    userIDToAdd,
		Role:      role,
		InvitedBy: currentUserID,
	}
	if err := s.db.WithContext(ctx).Create(member).Error; err != nil {
		return nil, err
	}
	member.User = &user
	return member, nil
}

// countOwners returns how many OWNER members a team has.
func (s *TeamService) countOwners(ctx context.Context, teamID string) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.TeamMember{}).
		Where("team_id = ? AND role = ?", teamID, model.TeamRoleOwner).
		Count(&count).Error
	return count, err
}

// UpdateMemberRole changes a member's role. Demoting the sole OWNER is
// rejected on every path.
func (s *TeamService) UpdateMemberRole(ctx context.Context, teamID, memberID string, newRole model.TeamRole, currentUserID string) (*model.TeamMember, error) {
	if _, err := s.requireAdminOrOwner(ctx, teamID, currentUserID, "update member roles"); err != nil {
		return nil, err
	}

	var target model.TeamMember
	err := s.db.WithContext(ctx).
		Where("id = ? AND team_id = ?", memberID, teamID).
		First(&target).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apierrors.NotFound(apierrors.ErrTeamMemberNotFound,
			"Team member not found in this team")
	}
	if err != nil {
		return nil, err
	}

	if target.Role == model.TeamRoleOwner && newRole != model.TeamRoleOwner {
		owners, err := s.countOwners(ctx, teamID)
		if err != nil {
			return nil, err
		}
		if owners == 1 {
			return nil, apierrors.BadRequest(apierrors.ErrSoleOwner,
				"Cannot demote the sole owner of the team.")
		}
	}

	if err := s.db.WithContext(ctx).Model(&target).Update("role", newRole).Error; err != nil {
		return nil, err
	}
	err = s.db.WithContext(ctx).
		Where("id = ?", target.ID).
		Preload("User").
		First(&target).Error
	if err != nil {
		return nil, err
	}
	return &target, nil
}

// RemoveMember removes a member. Removing the sole OWNER is rejected.
func (s *TeamService) RemoveMember(ctx context.Context, teamID, memberID, currentUserID string) error {
	if _, err := s.requireAdminOrOwner(ctx, teamID, currentUserID, "remove members"); err != nil {
		return err
	}

	var target model.TeamMember
	err := s.db.WithContext(ctx).
		Where("id = ? AND team_id = ?", memberID, teamID).
		First(&target).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apierrors.NotFound(apierrors.ErrTeamMemberNotFound,
			"Team member not found in this team")
	}
	if err != nil {
		return err
	}

	if target.Role == model.TeamRoleOwner {
		owners, err := s.countOwners(ctx, teamID)
		if err != nil {
			return err
		}
		if owners == 1 {
			return apierrors.BadRequest(apierrors.ErrSoleOwner,
				"Cannot remove the sole owner of the team.")
		}
	}

	return s.db.WithContext(ctx).Delete(&target).Error
}

// CreateTeam creates a team and its OWNER membership in one transaction.
func (s *TeamService) CreateTeam(ctx context.Context, name, description, ownerID string) (*model.Team, error) {
	team := &model.Team{
		Name:        name,
		Description: description,
		OwnerID:     ownerID,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(team).Error; err != nil {
			return err
		}
		member := &model.TeamMember{
			TeamID: team.ID,
			UserID: ownerID,
			Role:   model.TeamRoleOwner,
		}
		return tx.Create(member).Error
	})
	if err != nil {
		return nil, err
	}
	return team, nil
}

// GetTeamForViewer fetches a team the viewer owns or belongs to.
func (s *TeamService) GetTeamForViewer(ctx context.Context, teamID, userID string) (*model.Team, error) {
	var team model.Team
	err := s.db.WithContext(ctx).
		Where("id = ?", teamID).
		Where("owner_id = ? OR id IN (?)", userID,
			s.db.Model(&model.TeamMember{}).Select("team_id").Where("user_id = ?", userID)).
		First(&team).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apierrors.NotFound(apierrors.ErrTeamNotFound,
			"Team not found or you don't have access")
	}
	if err != nil {
		return nil, err
	}
	return &team, nil
}

// requireOwnedTeam fetches a team only when the viewer owns it.
func (s *TeamService) requireOwnedTeam(ctx context.Context, teamID, userID string) (*model.Team, error) {
	var team model.Team
	err := s.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", teamID, userID).
		First(&team).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apierrors.Forbidden(apierrors.ErrForbidden,
			"You are not the owner of this team or team not found")
	}
	if err != nil {
		return nil, err
	}
	return &team, nil
}

// UpdateTeam updates name/description; owner only.
func (s *TeamService) UpdateTeam(ctx context.Context, teamID, userID string, name, description *string) (*model.Team, error) {
	team, err := s.requireOwnedTeam(ctx, teamID, userID)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if name != nil {
		updates["name"] = *name
	}
	if description != nil {
		updates["description"] = *description
	}
	if len(updates) == 0 {
		return nil, apierrors.BadRequest(apierrors.ErrInvalidParam, "No update data provided")
	}

	if err := s.db.WithContext(ctx).Model(team).Updates(updates).Error; err != nil {
		return nil, err
	}
	return team, nil
}

// DeleteTeam deletes a team with its members and configs; owner only.
func (s *TeamService) DeleteTeam(ctx context.Context, teamID, userID string) error {
	team, err := s.requireOwnedTeam(ctx, teamID, userID)
	if err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("team_id = ?", teamID).Delete(&model.TeamMember{}).Error; err != nil {
			return err
		}
		if err := tx.Where("team_id = ?", teamID).Delete(&model.TeamConfig{}).Error; err != nil {
			return err
		}
		return tx.Delete(team).Error
	})
}

// GetTeamConfigs lists a team's configs; any member may read them.
func (s *TeamService) GetTeamConfigs(ctx context.Context, teamID, userID string) ([]*model.TeamConfig, error) {
	member, err := s.membership(ctx, teamID, userID)
	if err != nil {
		return nil, err
	}
	if member == nil {
		return nil, apierrors.Forbidden(apierrors.ErrNotTeamMember,
			"Not a member of this team or team does not exist")
	}

	var configs []*model.TeamConfig
	err = s.db.WithContext(ctx).Where("team_id = ?", teamID).Find(&configs).Error
	return configs, err
}

// CreateTeamConfig stores a new named config; ADMIN or OWNER only.
func (s *TeamService) CreateTeamConfig(ctx context.Context, teamID, userID, name, description string, data map[string]any) (*model.TeamConfig, error) {
	if _, err := s.requireAdminOrOwner(ctx, teamID, userID, "create configurations"); err != nil {
		return nil, err
	}

	config := &model.TeamConfig{
		TeamID:      teamID,
		Name:        name,
		Description: description,
		ConfigData:  data,
		CreatedBy:   userID,
	}
	if err := s.db.WithContext(ctx).Create(config).Error; err != nil {
		return nil, err
	}
	return config, nil
}

// UpdateTeamConfig patches an existing config; ADMIN or OWNER only.
func (s *TeamService) UpdateTeamConfig(ctx context.Context, teamID, configID, userID string, name, description *string, data map[string]any) (*model.TeamConfig, error) {
	if _, err := s.requireAdminOrOwner(ctx, teamID, userID, "update configurations"); err != nil {
		return nil, err
	}

	var config model.TeamConfig
	err := s.db.WithContext(ctx).
		Where("id = ? AND team_id = ?", configID, teamID).
		First(&config).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apierrors.NotFound(apierrors.ErrTeamConfigNotFound,
			"Configuration not found or does not belong to this team")
	}
	if err != nil {
		return nil, err
	}

	if name == nil && description == nil && data == nil {
		return nil, apierrors.BadRequest(apierrors.ErrInvalidParam, "No update data provided")
	}
	if name != nil {
		config.Name = *name
	}
	if description != nil {
		config.Description = *description
	}
	if data != nil {
		config.ConfigData = data
	}

	if err := s.db.WithContext(ctx).Save(&config).Error; err != nil {
		return nil, err
	}
	return &config, nil
}

// DeleteTeamConfig removes a config; ADMIN or OWNER only.
func (s *TeamService) DeleteTeamConfig(ctx context.Context, teamID, configID, userID string) error {
	if _, err := s.requireAdminOrOwner(ctx, teamID, userID, "delete configurations"); err != nil {
		return err
	}

	var config model.TeamConfig
	err := s.db.WithContext(ctx).
		Where("id = ? AND team_id = ?", configID, teamID).
		First(&config).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apierrors.NotFound(apierrors.ErrTeamConfigNotFound,
			"Configuration not found or does not belong to this team")
	}
	if err != nil {
		return err
	}

	return s.db.WithContext(ctx).Delete(&config).Error
}
