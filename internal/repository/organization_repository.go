package repository

import (
	"github.com/teamly/project-management-api/internal/models"
	"gorm.io/gorm"
)

// GormOrganizationRepository is a GORM implementation of OrganizationRepository
type GormOrganizationRepository struct {
	db *gorm.DB
}

// NewOrganizationRepository creates a new OrganizationRepository
func NewOrganizationRepository(db *gorm.DB) OrganizationRepository {
	return &GormOrganizationRepository{db: db}
}

// CreateWithAdmin creates an organization and its creator's admin membership
// within a single transaction.
func (r *GormOrganizationRepository) CreateWithAdmin(org *models.Organization, membership *models.OrganizationMembership) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(org).Error; err != nil {
			return err
		}

		membership.OrganizationID = org.ID
		return tx.Create(membership).Error
	})
}

// FindByID finds an organization by ID
func (r *GormOrganizationRepository) FindByID(id uint64) (*models.Organization, error) {
	var org models.Organization
	if err := r.db.First(&org, id).Error; err != nil {
		return nil, err
	}
	return &org, nil
}

// Update updates an organization
func (r *GormOrganizationRepository) Update(org *models.Organization) error {
	return r.db.Save(org).Error
}

// Delete deletes an organization and all dependent rows in a transaction
func (r *GormOrganizationRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var projectIDs []uint64
		if err := tx.Model(&models.Project{}).
			Where("organization_id = ?", id).
			Pluck("id", &projectIDs).Error; err != nil {
			return err
		}

		if len(projectIDs) > 0 {
			var taskIDs []uint64
			if err := tx.Model(&models.Task{}).
				Where("project_id IN ?", projectIDs).
				Pluck("id", &taskIDs).Error; err != nil {
				return err
			}

			if len(taskIDs) > 0 {
				if err := tx.Where("task_id IN ?", taskIDs).Delete(&models.Comment{}).Error; err != nil {
					return err
				}
				if err := tx.Where("project_id IN ?", projectIDs).Delete(&models.Task{}).Error; err != nil {
					return err
				}
			}

			if err := tx.Where("project_id IN ?", projectIDs).Delete(&models.ProjectMembership{}).Error; err != nil {
				return err
			}
			if err := tx.Where("organization_id = ?", id).Delete(&models.Project{}).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("organization_id = ?", id).Delete(&models.OrganizationInvite{}).Error; err != nil {
			return err
		}
		if err := tx.Where("organization_id = ?", id).Delete(&models.OrganizationMembership{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.Organization{}, id).Error
	})
}

// FindMembership finds a specific organization membership
func (r *GormOrganizationRepository) FindMembership(organizationID, userID uint64) (*models.OrganizationMembership, error) {
	var membership models.OrganizationMembership
	if err := r.db.Where("organization_id = ? AND user_id = ?", organizationID, userID).
		First(&membership).Error; err != nil {
		return nil, err
	}
	return &membership, nil
}

// UpdateMembership persists role changes on a membership
func (r *GormOrganizationRepository) UpdateMembership(membership *models.OrganizationMembership) error {
	return r.db.Model(&models.OrganizationMembership{}).
		Where("organization_id = ? AND user_id = ?", membership.OrganizationID, membership.UserID).
		Update("role", membership.Role).Error
}

// ListMemberships lists all members of an organization
func (r *GormOrganizationRepository) ListMemberships(organizationID uint64) ([]models.OrganizationMembership, error) {
	var memberships []models.OrganizationMembership
	if err := r.db.Preload("User").
		Where("organization_id = ?", organizationID).
		Find(&memberships).Error; err != nil {
		return nil, err
	}
	return memberships, nil
}

// ListMembershipsByUserID lists all organizations a user is a member of
func (r *GormOrganizationRepository) ListMembershipsByUserID(userID uint64) ([]models.OrganizationMembership, error) {
	var memberships []models.OrganizationMembership
	if err := r.db.Preload("Organization").
		Where("user_id = ?", userID).
		Find(&memberships).Error; err != nil {
		return nil, err
	}
	return memberships, nil
}

// ListAdminManagerIDs returns the user IDs of all admins and managers of an organization
func (r *GormOrganizationRepository) ListAdminManagerIDs(organizationID uint64) ([]uint64, error) {
	var userIDs []uint64
	if err := r.db.Model(&models.OrganizationMembership{}).
		Where("organization_id = ? AND role IN ?", organizationID, []models.OrganizationRole{models.RoleAdmin, models.RoleManager}).
		Pluck("user_id", &userIDs).Error; err != nil {
		return nil, err
	}
	return userIDs, nil
}

// RemoveMembershipCascade removes a member from an organization. The member's
// project memberships across the organization are deleted and their task
// assignments within it are cleared in the same transaction, so a failure at
// any step leaves the membership intact.
func (r *GormOrganizationRepository) RemoveMembershipCascade(organizationID, userID uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var projectIDs []uint64
		if err := tx.Model(&models.Project{}).
			Where("organization_id = ?", organizationID).
			Pluck("id", &projectIDs).Error; err != nil {
			return err
		}

		if len(projectIDs) > 0 {
			if err := tx.Where("project_id IN ? AND user_id = ?", projectIDs, userID).
				Delete(&models.ProjectMembership{}).Error; err != nil {
				return err
			}

			if err := tx.Model(&models.Task{}).
				Where("project_id IN ? AND assignee_id = ?", projectIDs, userID).
				Update("assignee_id", nil).Error; err != nil {
				return err
			}
		}

		return tx.Where("organization_id = ? AND user_id = ?", organizationID, userID).
			Delete(&models.OrganizationMembership{}).Error
	})
}

// CreateInvite persists a new organization invite
func (r *GormOrganizationRepository) CreateInvite(invite *models.OrganizationInvite) error {
	return r.db.Create(invite).Error
}

// FindPendingInviteByToken finds an invite by token that has not been accepted
// yet. An already-consumed token is indistinguishable from an unknown one.
func (r *GormOrganizationRepository) FindPendingInviteByToken(token string) (*models.OrganizationInvite, error) {
	var invite models.OrganizationInvite
	if err := r.db.Preload("Organization").
		Where("token = ? AND is_accepted = ?", token, false).
		First(&invite).Error; err != nil {
		return nil, err
	}
	return &invite, nil
}

// AcceptInvite creates the membership and flips the invite's accepted flag
// within a single transaction. The membership's composite primary key is the
// backstop against two concurrent accepts of the same token.
func (r *GormOrganizationRepository) AcceptInvite(invite *models.OrganizationInvite, membership *models.OrganizationMembership) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(membership).Error; err != nil {
			return err
		}

		return tx.Model(&models.OrganizationInvite{}).
			Where("id = ?", invite.ID).
			Update("is_accepted", true).Error
	})
}
