package db_models

import (
	"strings"

	"github.com/google/uuid"
)

type MemberRole string

const (
	RoleOwner  MemberRole = "OWNER"
	RoleEditor MemberRole = "EDITOR"
	RoleViewer MemberRole = "VIEWER"
)

// ParseMemberRole accepts the three role names case-insensitively.
func ParseMemberRole(s string) (MemberRole, bool) {
	switch MemberRole(strings.ToUpper(strings.TrimSpace(s))) {
	case RoleOwner:
		return RoleOwner, true
	case RoleEditor:
		return RoleEditor, true
	case RoleViewer:
		return RoleViewer, true
	}
	return "", false
}

func (r MemberRole) CanEdit() bool {
	return r == RoleOwner || r == RoleEditor
}

// rank orders members for display and warikan remainder assignment.
func (r MemberRole) Rank() int {
	switch r {
	case RoleOwner:
		return 0
	case RoleEditor:
		return 1
	default:
		return 2
	}
}

type PlanMember struct {
	BaseModel
	PlanID uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_plan_member"`
	UserID uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_plan_member;index"`
	Role   MemberRole `gorm:"size:10;not null"`

	User User `gorm:"foreignKey:UserID"`
}
