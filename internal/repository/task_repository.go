package repository

import (
	"github.com/teamly/project-management-api/internal/models"
	"gorm.io/gorm"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Create creates a new task
func (r *GormTaskRepository) Create(task *models.Task) error {
	return r.db.Create(task).Error
}

// FindByID finds a task by ID with optional preloading
func (r *GormTaskRepository) FindByID(id uint64, preload ...string) (*models.Task, error) {
	query := r.db
	for _, p := range preload {
		query = query.Preload(p)
	}

	var task models.Task
	if err := query.First(&task, id).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// Update updates a task
func (r *GormTaskRepository) Update(task *models.Task) error {
	return r.db.Save(task).Error
}

// Delete soft deletes a task
func (r *GormTaskRepository) Delete(id uint64) error {
	return r.db.Delete(&models.Task{}, id).Error
}

// ClearAssignee sets a task's assignee to null
func (r *GormTaskRepository) ClearAssignee(id uint64) error {
	return r.db.Model(&models.Task{}).
		Where("id = ?", id).
		Update("assignee_id", nil).Error
}

// ListByProject lists tasks of a single project ordered by board position
func (r *GormTaskRepository) ListByProject(projectID uint64) ([]models.Task, error) {
	var tasks []models.Task
	if err := r.db.Preload("Assignee").Preload("Creator").
		Where("project_id = ?", projectID).
		Order("position ASC, created_at ASC").
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// ListVisible lists tasks in organizations where the user is an admin or
// manager plus tasks in projects where the user holds a membership, in a
// single deduplicated query.
func (r *GormTaskRepository) ListVisible(userID uint64) ([]models.Task, error) {
	adminOrgIDs := r.db.Model(&models.OrganizationMembership{}).
		Select("organization_id").
		Where("user_id = ? AND role IN ?", userID, []models.OrganizationRole{models.RoleAdmin, models.RoleManager})

	memberProjectIDs := r.db.Model(&models.ProjectMembership{}).
		Select("project_id").
		Where("user_id = ?", userID)

	var tasks []models.Task
	if err := r.db.Preload("Assignee").Preload("Creator").
		Joins("JOIN projects ON projects.id = tasks.project_id").
		Where("projects.organization_id IN (?) OR tasks.project_id IN (?)", adminOrgIDs, memberProjectIDs).
		Order("tasks.created_at DESC").
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}
