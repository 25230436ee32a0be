package repository

import (
	"errors"

	"github.com/teamly/project-management-api/internal/models"
	"gorm.io/gorm"
)

// GormMembershipStore backs the authorization engine with unique-keyed
// membership lookups. Read-only.
type GormMembershipStore struct {
	db *gorm.DB
}

// NewMembershipStore creates a new membership store
func NewMembershipStore(db *gorm.DB) *GormMembershipStore {
	return &GormMembershipStore{db: db}
}

// GetOrgRole returns the user's role in the organization, or the empty string
// when no membership exists.
func (s *GormMembershipStore) GetOrgRole(userID, organizationID uint64) (models.OrganizationRole, error) {
	var membership models.OrganizationMembership
	err := s.db.Where("organization_id = ? AND user_id = ?", organizationID, userID).
		First(&membership).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", err
	}
	return membership.Role, nil
}

// IsProjectMember reports whether the user holds a project membership.
func (s *GormMembershipStore) IsProjectMember(userID, projectID uint64) (bool, error) {
	var count int64
	err := s.db.Model(&models.ProjectMembership{}).
		Where("project_id = ? AND user_id = ?", projectID, userID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
