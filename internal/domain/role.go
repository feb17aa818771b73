package domain

import (
	"fmt"
	"strings"
)

// Role enumerates the fixed set of newsroom roles. A user's role is assigned at
// registration and never changes.
type Role string

const (
	RoleReader     Role = "reader"
	RoleJournalist Role = "journalist"
	RoleEditor     Role = "editor"
	RolePublisher  Role = "publisher"
)

// Capability names a role-level permission. Per-article rules such as authorship
// and publisher membership are checked on top of it.
type Capability string

const (
	CapCreateArticle           Capability = "create_article"
	CapEditAnyArticle          Capability = "edit_any_article"
	CapDeleteAnyArticle        Capability = "delete_any_article"
	CapApproveArticle          Capability = "approve_article"
	CapPublishMemberArticle    Capability = "publish_member_article"
	CapListOwnDrafts           Capability = "list_own_drafts"
	CapListPending             Capability = "list_pending"
	CapListApprovedUnpublished Capability = "list_approved_unpublished"
	CapWriteNewsletter         Capability = "write_newsletter"
	CapManagePublisher         Capability = "manage_publisher"
	CapSubscribe               Capability = "subscribe"
)

var roleCapabilities = map[Role][]Capability{
	RoleReader: {
		CapSubscribe,
	},
	RoleJournalist: {
		CapCreateArticle,
		CapListOwnDrafts,
		CapWriteNewsletter,
	},
	RoleEditor: {
		CapEditAnyArticle,
		CapDeleteAnyArticle,
		CapApproveArticle,
		CapPublishMemberArticle,
		CapListPending,
	},
	RolePublisher: {
		CapPublishMemberArticle,
		CapListApprovedUnpublished,
		CapManagePublisher,
	},
}

// Roles returns every known role in a stable order.
func Roles() []Role {
	return []Role{RoleReader, RoleJournalist, RoleEditor, RolePublisher}
}

// ParseRole converts user input into a Role.
func ParseRole(value string) (Role, error) {
	role := Role(strings.ToLower(strings.TrimSpace(value)))
	if !role.Valid() {
		return "", fmt.Errorf("unknown role %q", value)
	}
	return role, nil
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleReader, RoleJournalist, RoleEditor, RolePublisher:
		return true
	default:
		return false
	}
}

// Can reports whether the role carries the capability.
func (r Role) Can(capability Capability) bool {
	for _, c := range roleCapabilities[r] {
		if c == capability {
			return true
		}
	}
	return false
}

// Capabilities returns a copy of the role's capability list.
func (r Role) Capabilities() []Capability {
	return append([]Capability(nil), roleCapabilities[r]...)
}

// CanJoinPublisher reports whether users with the role may be listed in a
// publisher roster.
func (r Role) CanJoinPublisher() bool {
	switch r {
	case RoleJournalist, RoleEditor, RolePublisher:
		return true
	case RoleReader:
		return false
	default:
		return false
	}
}
