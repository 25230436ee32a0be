package repository

import (
	"time"

	"github.com/teamly/project-management-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormProjectRepository is a GORM implementation of ProjectRepository
type GormProjectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &GormProjectRepository{db: db}
}

// Create creates a new project
func (r *GormProjectRepository) Create(project *models.Project) error {
	return r.db.Create(project).Error
}

// FindByID finds a project by ID with optional preloading
func (r *GormProjectRepository) FindByID(id uint64, preload ...string) (*models.Project, error) {
	query := r.db
	for _, p := range preload {
		query = query.Preload(p)
	}

	var project models.Project
	if err := query.First(&project, id).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

// Update updates a project
func (r *GormProjectRepository) Update(project *models.Project) error {
	return r.db.Save(project).Error
}

// Delete deletes a project and its dependent rows in a transaction
func (r *GormProjectRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var taskIDs []uint64
		if err := tx.Model(&models.Task{}).
			Where("project_id = ?", id).
			Pluck("id", &taskIDs).Error; err != nil {
			return err
		}

		if len(taskIDs) > 0 {
			if err := tx.Where("task_id IN ?", taskIDs).Delete(&models.Comment{}).Error; err != nil {
				return err
			}
			if err := tx.Where("project_id = ?", id).Delete(&models.Task{}).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("project_id = ?", id).Delete(&models.ProjectMembership{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.Project{}, id).Error
	})
}

// ListByOrganization lists every project of an organization
func (r *GormProjectRepository) ListByOrganization(organizationID uint64) ([]models.Project, error) {
	var projects []models.Project
	if err := r.db.Where("organization_id = ?", organizationID).
		Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

// ListByOrganizationForMember lists the organization's projects the user holds
// a project membership for.
func (r *GormProjectRepository) ListByOrganizationForMember(organizationID, userID uint64) ([]models.Project, error) {
	var projects []models.Project
	if err := r.db.
		Joins("JOIN project_memberships ON project_memberships.project_id = projects.id").
		Where("projects.organization_id = ? AND project_memberships.user_id = ?", organizationID, userID).
		Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

// EnrollMembers bulk-creates project memberships. Rows that already exist are
// skipped, so the enrollment is safe to retry.
func (r *GormProjectRepository) EnrollMembers(projectID uint64, userIDs []uint64) error {
	if len(userIDs) == 0 {
		return nil
	}

	memberships := make([]models.ProjectMembership, 0, len(userIDs))
	now := time.Now()
	for _, userID := range userIDs {
		memberships = append(memberships, models.ProjectMembership{
			ProjectID: projectID,
			UserID:    userID,
			CreatedAt: now,
		})
	}

	return r.db.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&memberships).Error
}

// AddMember adds a single project membership
func (r *GormProjectRepository) AddMember(membership *models.ProjectMembership) error {
	return r.db.Create(membership).Error
}

// FindMembership finds a specific project membership
func (r *GormProjectRepository) FindMembership(projectID, userID uint64) (*models.ProjectMembership, error) {
	var membership models.ProjectMembership
	if err := r.db.Where("project_id = ? AND user_id = ?", projectID, userID).
		First(&membership).Error; err != nil {
		return nil, err
	}
	return &membership, nil
}

// ListMemberships lists all members of a project
func (r *GormProjectRepository) ListMemberships(projectID uint64) ([]models.ProjectMembership, error) {
	var memberships []models.ProjectMembership
	if err := r.db.Preload("User").
		Where("project_id = ?", projectID).
		Find(&memberships).Error; err != nil {
		return nil, err
	}
	return memberships, nil
}

// RemoveMembershipCascade removes a project member and clears their task
// assignments within the project in the same transaction.
func (r *GormProjectRepository) RemoveMembershipCascade(projectID, userID uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Task{}).
			Where("project_id = ? AND assignee_id = ?", projectID, userID).
			Update("assignee_id", nil).Error; err != nil {
			return err
		}

		return tx.Where("project_id = ? AND user_id = ?", projectID, userID).
			Delete(&models.ProjectMembership{}).Error
	})
}
