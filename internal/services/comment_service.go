package services

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/teamly/project-management-api/internal/models"
	"github.com/teamly/project-management-api/internal/permissions"
	"github.com/teamly/project-management-api/internal/repository"
)

var (
	// ErrCommentNotFound is returned when a comment does not exist or is not
	// visible to the actor.
	ErrCommentNotFound = errors.New("comment not found")
	// ErrCommentTextRequired is returned when the comment text is empty.
	ErrCommentTextRequired = errors.New("comment text is required")
)

// CommentService handles task comments. A comment's task is fixed at
// creation: updates can only touch the text.
type CommentService struct {
	commentRepo repository.CommentRepository
	taskRepo    repository.TaskRepository
	userRepo    repository.UserRepository
	checker     *permissions.Checker
	notifier    *NotificationService
}

// NewCommentService creates a new CommentService.
func NewCommentService(
	commentRepo repository.CommentRepository,
	taskRepo repository.TaskRepository,
	userRepo repository.UserRepository,
	checker *permissions.Checker,
	notifier *NotificationService,
) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		taskRepo:    taskRepo,
		userRepo:    userRepo,
		checker:     checker,
		notifier:    notifier,
	}
}

// CreateComment adds a comment to a task. Org admins and managers may comment
// on any task in their organization; employees only on tasks in projects they
// are enrolled in. The task's assignee, creator and prior commenters are
// notified, excluding the author.
func (s *CommentService) CreateComment(taskID, authorID uint64, text string) (*models.Comment, error) {
	task, err := s.taskRepo.FindByID(taskID, "Project")
	if err != nil {
		if isNotFound(err) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	allowed, err := s.checker.CanCommentOnTask(authorID, task.Project.OrganizationID, task.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("failed to check permission: %w", err)
	}
	if !allowed {
		return nil, ErrPermissionDenied
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrCommentTextRequired
	}

	// Prior commenters are captured before the new comment lands so the
	// author's own row never joins the recipient set.
	commenterIDs, err := s.commentRepo.ListCommenterIDs(taskID, authorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list commenters: %w", err)
	}

	comment := &models.Comment{
		TaskID:   taskID,
		AuthorID: authorID,
		Text:     text,
	}
	if err := s.commentRepo.Create(comment); err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}

	author, err := s.userRepo.FindByID(authorID)
	if err != nil {
		log.Printf("Failed to load comment author %d for notification: %v", authorID, err)
		return comment, nil
	}
	s.notifier.NotifyCommentCreated(comment, task, &task.Project, commenterIDs, author)
	return comment, nil
}

// ListComments returns the comments visible to the actor, optionally filtered
// by task: comments on tasks in organizations the actor administers or
// manages plus comments on tasks in projects the actor is enrolled in. An
// unknown or invisible task yields an empty list.
func (s *CommentService) ListComments(actorID uint64, taskID *uint64) ([]models.Comment, error) {
	comments, err := s.commentRepo.ListVisible(actorID, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	return comments, nil
}

// GetComment returns a comment visible to the actor.
func (s *CommentService) GetComment(commentID, actorID uint64) (*models.Comment, error) {
	comment, err := s.findComment(commentID)
	if err != nil {
		return nil, err
	}

	visible, err := s.checker.CanViewComments(actorID, comment.Task.Project.OrganizationID, comment.Task.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("failed to check permission: %w", err)
	}
	if !visible {
		return nil, ErrCommentNotFound
	}
	return comment, nil
}

// UpdateComment changes a comment's text. Admins and managers may edit any
// comment in their organization; an employee only their own, and only while
// still enrolled in the task's project.
func (s *CommentService) UpdateComment(commentID, actorID uint64, text string) (*models.Comment, error) {
	comment, err := s.findComment(commentID)
	if err != nil {
		return nil, err
	}
	if err := s.requireEdit(comment, actorID); err != nil {
		return nil, err
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrCommentTextRequired
	}

	comment.Text = text
	if err := s.commentRepo.Update(comment); err != nil {
		return nil, fmt.Errorf("failed to update comment: %w", err)
	}
	return comment, nil
}

// DeleteComment deletes a comment under the same rules as UpdateComment.
func (s *CommentService) DeleteComment(commentID, actorID uint64) error {
	comment, err := s.findComment(commentID)
	if err != nil {
		return err
	}
	if err := s.requireEdit(comment, actorID); err != nil {
		return err
	}

	if err := s.commentRepo.Delete(commentID); err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}
	return nil
}

func (s *CommentService) findComment(commentID uint64) (*models.Comment, error) {
	comment, err := s.commentRepo.FindByID(commentID)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrCommentNotFound
		}
		return nil, fmt.Errorf("failed to find comment: %w", err)
	}
	return comment, nil
}

func (s *CommentService) requireEdit(comment *models.Comment, actorID uint64) error {
	allowed, err := s.checker.CanEditComment(actorID, comment.Task.Project.OrganizationID, comment.Task.ProjectID, comment.AuthorID)
	if err != nil {
		return fmt.Errorf("failed to check permission: %w", err)
	}
	if !allowed {
		return ErrPermissionDenied
	}
	return nil
}
