package moderation

import (
	"errors"

	"github.com/galeries/galeries-server/database/models"
)

var (
	// ErrSelfTarget 不能对自己执行管制操作
	ErrSelfTarget = errors.New("you can't black list yourself")
	// ErrNotAllowed 发起者权限不足以管制目标
	ErrNotAllowed = errors.New("your role does not allow you to black list this user")
	// ErrCreatorImmune 相册创建者在相册存续期间免于相册内拉黑
	ErrCreatorImmune = errors.New("the creator of this galerie can't be black listed")
	// ErrAlreadyBlackListed 目标已处于有效拉黑
	ErrAlreadyBlackListed = errors.New("user is already black listed")
)

// CanBlackListGlobal 全局拉黑阶梯：
// moderator 只能管制 user；admin 可管制 user、moderator；
// superAdmin 可管制到 admin；任何人都不能管制 superAdmin。
func CanBlackListGlobal(actor, target *models.User) error {
	if actor.ID == target.ID {
		return ErrSelfTarget
	}
	if target.Role == models.RoleSuperAdmin {
		return ErrNotAllowed
	}
	if models.RoleRank(actor.Role) <= models.RoleRank(models.RoleUser) {
		return ErrNotAllowed
	}
	if models.RoleRank(target.Role) >= models.RoleRank(actor.Role) {
		return ErrNotAllowed
	}
	return nil
}

// CanBlackListInGalerie 相册内拉黑阶梯：普通成员无权限；
// admin 不能管制其他 admin，除非发起者是创建者；创建者可管制任何成员。
// 创建者本人在相册存续期间不可被拉黑。
func CanBlackListInGalerie(actor, target *models.GalerieUser) error {
	if actor.UserID == target.UserID {
		return ErrSelfTarget
	}
	if target.Role == models.GalerieRoleCreator {
		return ErrCreatorImmune
	}
	switch actor.Role {
	case models.GalerieRoleCreator:
		return nil
	case models.GalerieRoleAdmin:
		if target.Role == models.GalerieRoleAdmin {
			return ErrNotAllowed
		}
		return nil
	case models.GalerieRoleModerator:
		if models.GalerieRoleRank(target.Role) >= models.GalerieRoleRank(models.GalerieRoleModerator) {
			return ErrNotAllowed
		}
		return nil
	default:
		return ErrNotAllowed
	}
}

// CanChangeGlobalRole 全局角色变更遵循同一阶梯：
// 发起者级别必须同时高于目标当前角色和目标新角色。
func CanChangeGlobalRole(actor *models.User, target *models.User, newRole string) error {
	if actor.ID == target.ID {
		return ErrSelfTarget
	}
	if target.Role == models.RoleSuperAdmin || newRole == models.RoleSuperAdmin {
		return ErrNotAllowed
	}
	if models.RoleRank(target.Role) >= models.RoleRank(actor.Role) {
		return ErrNotAllowed
	}
	if models.RoleRank(newRole) >= models.RoleRank(actor.Role) {
		return ErrNotAllowed
	}
	return nil
}

// EffectiveGalerieRank 请求在相册内的有效权力：
// 相册角色与全局角色取高者，全局 moderator 及以上至少视同相册 moderator。
func EffectiveGalerieRank(globalRole string, galerieRole string) int {
	rank := models.GalerieRoleRank(galerieRole)
	if models.RoleRank(globalRole) >= models.RoleRank(models.RoleModerator) {
		if models.GalerieRoleRank(models.GalerieRoleModerator) > rank {
			rank = models.GalerieRoleRank(models.GalerieRoleModerator)
		}
	}
	return rank
}

// IsAboveUser 有效角色是否高于普通用户（举报过滤等场景）
func IsAboveUser(globalRole string, galerieRole string) bool {
	return models.RoleRank(globalRole) > models.RoleRank(models.RoleUser) ||
		models.GalerieRoleRank(galerieRole) > models.GalerieRoleRank(models.GalerieRoleUser)
}
