package dto

import (
	"time"

	"github.com/teamly/project-management-api/internal/models"
)

// OrganizationDTO represents an organization in API responses
type OrganizationDTO struct {
	ID        uint64    `json:"id"`
	Name      string    `json:"name"`
	CreatorID uint64    `json:"creator_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MembershipDTO represents an organization membership in API responses
type MembershipDTO struct {
	OrganizationID uint64                  `json:"organization_id"`
	UserID         uint64                  `json:"user_id"`
	Role           models.OrganizationRole `json:"role"`
	JoinedAt       time.Time               `json:"joined_at"`
	User           *UserDTO                `json:"user,omitempty"`
}

// InviteDTO represents an organization invite in API responses. The token is
// only ever delivered by email, never echoed through the API.
type InviteDTO struct {
	ID             uint64                  `json:"id"`
	Email          string                  `json:"email"`
	OrganizationID uint64                  `json:"organization_id"`
	Role           models.OrganizationRole `json:"role"`
	IsAccepted     bool                    `json:"is_accepted"`
	CreatedAt      time.Time               `json:"created_at"`
}

// ToOrganizationDTO converts an Organization model to OrganizationDTO
func ToOrganizationDTO(org models.Organization) OrganizationDTO {
	return OrganizationDTO{
		ID:        org.ID,
		Name:      org.Name,
		CreatorID: org.CreatorID,
		CreatedAt: org.CreatedAt,
		UpdatedAt: org.UpdatedAt,
	}
}

// ToOrganizationDTOs converts a slice of Organization models
func ToOrganizationDTOs(orgs []models.Organization) []OrganizationDTO {
	dtos := make([]OrganizationDTO, len(orgs))
	for i, org := range orgs {
		dtos[i] = ToOrganizationDTO(org)
	}
	return dtos
}

// ToMembershipDTO converts an OrganizationMembership model to MembershipDTO
func ToMembershipDTO(m models.OrganizationMembership) MembershipDTO {
	dto := MembershipDTO{
		OrganizationID: m.OrganizationID,
		UserID:         m.UserID,
		Role:           m.Role,
		JoinedAt:       m.JoinedAt,
	}

	// Include user if preloaded
	if m.User.ID != 0 {
		user := ToUserDTO(m.User)
		dto.User = &user
	}
	return dto
}

// ToMembershipDTOs converts a slice of OrganizationMembership models
func ToMembershipDTOs(memberships []models.OrganizationMembership) []MembershipDTO {
	dtos := make([]MembershipDTO, len(memberships))
	for i, m := range memberships {
		dtos[i] = ToMembershipDTO(m)
	}
	return dtos
}

// ToInviteDTO converts an OrganizationInvite model to InviteDTO
func ToInviteDTO(invite models.OrganizationInvite) InviteDTO {
	return InviteDTO{
		ID:             invite.ID,
		Email:          invite.Email,
		OrganizationID: invite.OrganizationID,
		Role:           invite.Role,
		IsAccepted:     invite.IsAccepted,
		CreatedAt:      invite.CreatedAt,
	}
}
