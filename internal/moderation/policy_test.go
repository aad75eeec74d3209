package moderation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/galeries/galeries-server/database/models"
)

func userWithRole(id uint, role string) *models.User {
	return &models.User{ID: id, Role: role}
}

func TestCanBlackListGlobal(t *testing.T) {
	tests := []struct {
		name    string
		actor   *models.User
		target  *models.User
		wantErr error
	}{
		{"self_target", userWithRole(1, models.RoleAdmin), userWithRole(1, models.RoleAdmin), ErrSelfTarget},
		{"user_cannot_black_list", userWithRole(1, models.RoleUser), userWithRole(2, models.RoleUser), ErrNotAllowed},
		{"moderator_over_user", userWithRole(1, models.RoleModerator), userWithRole(2, models.RoleUser), nil},
		{"moderator_over_moderator", userWithRole(1, models.RoleModerator), userWithRole(2, models.RoleModerator), ErrNotAllowed},
		{"moderator_over_admin", userWithRole(1, models.RoleModerator), userWithRole(2, models.RoleAdmin), ErrNotAllowed},
		{"admin_over_moderator", userWithRole(1, models.RoleAdmin), userWithRole(2, models.RoleModerator), nil},
		{"admin_over_admin", userWithRole(1, models.RoleAdmin), userWithRole(2, models.RoleAdmin), ErrNotAllowed},
		{"super_admin_over_admin", userWithRole(1, models.RoleSuperAdmin), userWithRole(2, models.RoleAdmin), nil},
		{"super_admin_immune", userWithRole(1, models.RoleSuperAdmin), userWithRole(2, models.RoleSuperAdmin), ErrNotAllowed},
		{"unknown_role_as_user", userWithRole(1, "owner"), userWithRole(2, models.RoleUser), ErrNotAllowed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CanBlackListGlobal(tt.actor, tt.target)
			assert.Equal(t, tt.wantErr, err)
		})
	}
}

func membership(userID uint, role string) *models.GalerieUser {
	return &models.GalerieUser{UserID: userID, Role: role}
}

func TestCanBlackListInGalerie(t *testing.T) {
	tests := []struct {
		name    string
		actor   *models.GalerieUser
		target  *models.GalerieUser
		wantErr error
	}{
		{"self_target", membership(1, models.GalerieRoleAdmin), membership(1, models.GalerieRoleUser), ErrSelfTarget},
		{"creator_immune", membership(1, models.GalerieRoleCreator), membership(2, models.GalerieRoleCreator), ErrCreatorImmune},
		{"creator_over_admin", membership(1, models.GalerieRoleCreator), membership(2, models.GalerieRoleAdmin), nil},
		{"admin_over_user", membership(1, models.GalerieRoleAdmin), membership(2, models.GalerieRoleUser), nil},
		{"galerie_admin_over_moderator", membership(1, models.GalerieRoleAdmin), membership(2, models.GalerieRoleModerator), nil},
		{"galerie_admin_over_admin", membership(1, models.GalerieRoleAdmin), membership(2, models.GalerieRoleAdmin), ErrNotAllowed},
		{"galerie_moderator_over_user", membership(1, models.GalerieRoleModerator), membership(2, models.GalerieRoleUser), nil},
		{"galerie_moderator_over_moderator", membership(1, models.GalerieRoleModerator), membership(2, models.GalerieRoleModerator), ErrNotAllowed},
		{"member_cannot_black_list", membership(1, models.GalerieRoleUser), membership(2, models.GalerieRoleUser), ErrNotAllowed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CanBlackListInGalerie(tt.actor, tt.target)
			assert.Equal(t, tt.wantErr, err)
		})
	}
}

func TestCanChangeGlobalRole(t *testing.T) {
	tests := []struct {
		name    string
		actor   *models.User
		target  *models.User
		newRole string
		wantErr error
	}{
		{"self_target", userWithRole(1, models.RoleSuperAdmin), userWithRole(1, models.RoleSuperAdmin), models.RoleUser, ErrSelfTarget},
		{"admin_promotes_to_moderator", userWithRole(1, models.RoleAdmin), userWithRole(2, models.RoleUser), models.RoleModerator, nil},
		{"admin_cannot_promote_to_admin", userWithRole(1, models.RoleAdmin), userWithRole(2, models.RoleUser), models.RoleAdmin, ErrNotAllowed},
		{"admin_demotes_moderator", userWithRole(1, models.RoleAdmin), userWithRole(2, models.RoleModerator), models.RoleUser, nil},
		{"admin_cannot_change_admin", userWithRole(1, models.RoleAdmin), userWithRole(2, models.RoleAdmin), models.RoleUser, ErrNotAllowed},
		{"super_admin_promotes_to_admin", userWithRole(1, models.RoleSuperAdmin), userWithRole(2, models.RoleModerator), models.RoleAdmin, nil},
		{"no_promotion_to_super_admin", userWithRole(1, models.RoleSuperAdmin), userWithRole(2, models.RoleAdmin), models.RoleSuperAdmin, ErrNotAllowed},
		{"super_admin_cannot_be_demoted", userWithRole(1, models.RoleSuperAdmin), userWithRole(2, models.RoleSuperAdmin), models.RoleAdmin, ErrNotAllowed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CanChangeGlobalRole(tt.actor, tt.target, tt.newRole)
			assert.Equal(t, tt.wantErr, err)
		})
	}
}

func TestEffectiveGalerieRank(t *testing.T) {
	// 全局 moderator 及以上至少视同相册 moderator，取两者高位
	assert.Equal(t, models.GalerieRoleRank(models.GalerieRoleUser),
		EffectiveGalerieRank(models.RoleUser, models.GalerieRoleUser))
	assert.Equal(t, models.GalerieRoleRank(models.GalerieRoleModerator),
		EffectiveGalerieRank(models.RoleModerator, models.GalerieRoleUser))
	assert.Equal(t, models.GalerieRoleRank(models.GalerieRoleModerator),
		EffectiveGalerieRank(models.RoleSuperAdmin, models.GalerieRoleUser))
	assert.Equal(t, models.GalerieRoleRank(models.GalerieRoleAdmin),
		EffectiveGalerieRank(models.RoleModerator, models.GalerieRoleAdmin))
	assert.Equal(t, models.GalerieRoleRank(models.GalerieRoleCreator),
		EffectiveGalerieRank(models.RoleUser, models.GalerieRoleCreator))
}

func TestIsAboveUser(t *testing.T) {
	assert.False(t, IsAboveUser(models.RoleUser, models.GalerieRoleUser))
	assert.True(t, IsAboveUser(models.RoleModerator, models.GalerieRoleUser))
	assert.True(t, IsAboveUser(models.RoleUser, models.GalerieRoleModerator))
	assert.True(t, IsAboveUser(models.RoleAdmin, models.GalerieRoleCreator))
	assert.False(t, IsAboveUser("", ""))
}
