package repository

import (
	"github.com/teamly/project-management-api/internal/models"
	"gorm.io/gorm"
)

// GormCommentRepository is a GORM implementation of CommentRepository
type GormCommentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new CommentRepository
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &GormCommentRepository{db: db}
}

// Create creates a new comment
func (r *GormCommentRepository) Create(comment *models.Comment) error {
	return r.db.Create(comment).Error
}

// FindByID finds a comment by ID with its task and project preloaded
func (r *GormCommentRepository) FindByID(id uint64) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.Preload("Task").Preload("Task.Project").Preload("Author").
		First(&comment, id).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

// Update updates a comment
func (r *GormCommentRepository) Update(comment *models.Comment) error {
	return r.db.Save(comment).Error
}

// Delete soft deletes a comment
func (r *GormCommentRepository) Delete(id uint64) error {
	return r.db.Delete(&models.Comment{}, id).Error
}

// ListVisible lists comments on tasks in organizations where the user is an
// admin or manager plus comments on tasks in projects where the user holds a
// membership, newest first, optionally filtered by task.
func (r *GormCommentRepository) ListVisible(userID uint64, taskID *uint64) ([]models.Comment, error) {
	adminOrgIDs := r.db.Model(&models.OrganizationMembership{}).
		Select("organization_id").
		Where("user_id = ? AND role IN ?", userID, []models.OrganizationRole{models.RoleAdmin, models.RoleManager})

	memberProjectIDs := r.db.Model(&models.ProjectMembership{}).
		Select("project_id").
		Where("user_id = ?", userID)

	query := r.db.Preload("Author").
		Joins("JOIN tasks ON tasks.id = comments.task_id").
		Joins("JOIN projects ON projects.id = tasks.project_id").
		Where("projects.organization_id IN (?) OR tasks.project_id IN (?)", adminOrgIDs, memberProjectIDs)

	if taskID != nil {
		query = query.Where("comments.task_id = ?", *taskID)
	}

	var comments []models.Comment
	if err := query.Order("comments.created_at DESC").Find(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}

// ListCommenterIDs returns the distinct author IDs of comments on a task,
// excluding the given user.
func (r *GormCommentRepository) ListCommenterIDs(taskID, excludeUserID uint64) ([]uint64, error) {
	var authorIDs []uint64
	if err := r.db.Model(&models.Comment{}).
		Distinct("author_id").
		Where("task_id = ? AND author_id <> ?", taskID, excludeUserID).
		Pluck("author_id", &authorIDs).Error; err != nil {
		return nil, err
	}
	return authorIDs, nil
}
