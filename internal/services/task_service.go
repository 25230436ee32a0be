package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/teamly/project-management-api/internal/models"
	"github.com/teamly/project-management-api/internal/permissions"
	"github.com/teamly/project-management-api/internal/repository"
)

var (
	// ErrTaskNotFound is returned when a task does not exist or is not
	// visible to the actor.
	ErrTaskNotFound = errors.New("task not found")
	// ErrTaskTitleRequired is returned when the task title is empty.
	ErrTaskTitleRequired = errors.New("task title is required")
	// ErrInvalidTaskStatus is returned when the status is not a declared value.
	ErrInvalidTaskStatus = errors.New("status must be one of: pending, in_progress, completed")
	// ErrInvalidTaskPriority is returned when the priority is not a declared value.
	ErrInvalidTaskPriority = errors.New("priority must be one of: low, medium, high")
	// ErrTaskStatusRequired is returned when the dedicated status update
	// carries no status.
	ErrTaskStatusRequired = errors.New("status is required")
	// ErrAssigneeNotProjectMember is returned when assigning a task to a user
	// who is not a member of its project.
	ErrAssigneeNotProjectMember = errors.New("assignee must be a member of the project")
)

// TaskCreateInput carries the fields accepted when creating a task.
type TaskCreateInput struct {
	Title       string
	Description string
	AssigneeID  *uint64
	Status      models.TaskStatus
	Priority    models.TaskPriority
	DueDate     *time.Time
	Position    *uint
}

// TaskUpdateInput carries the fields accepted when updating a task. Nil
// pointers mean "leave unchanged".
type TaskUpdateInput struct {
	Title         *string
	Description   *string
	AssigneeID    *uint64
	ClearAssignee bool
	Status        *models.TaskStatus
	Priority      *models.TaskPriority
	DueDate       *time.Time
	Position      *uint
}

// TaskService handles task CRUD, the dedicated status transition, and the
// visibility scoping of task listings.
type TaskService struct {
	taskRepo    repository.TaskRepository
	projectRepo repository.ProjectRepository
	checker     *permissions.Checker
	notifier    *NotificationService
}

// NewTaskService creates a new TaskService.
func NewTaskService(
	taskRepo repository.TaskRepository,
	projectRepo repository.ProjectRepository,
	checker *permissions.Checker,
	notifier *NotificationService,
) *TaskService {
	return &TaskService{
		taskRepo:    taskRepo,
		projectRepo: projectRepo,
		checker:     checker,
		notifier:    notifier,
	}
}

// CreateTask creates a task in a project. Admins and managers of the owning
// organization only. The assignee, when set, must already be a member of the
// project; assigning someone else's task to yourself does not notify you.
func (s *TaskService) CreateTask(projectID, creatorID uint64, input TaskCreateInput) (*models.Task, error) {
	project, err := s.findProject(projectID)
	if err != nil {
		return nil, err
	}

	if err := s.requireManageTasks(creatorID, project.OrganizationID); err != nil {
		return nil, err
	}

	input.Title = strings.TrimSpace(input.Title)
	if input.Title == "" {
		return nil, ErrTaskTitleRequired
	}
	if input.Status == "" {
		input.Status = models.TaskStatusPending
	} else if !models.IsValidTaskStatus(input.Status) {
		return nil, ErrInvalidTaskStatus
	}
	if input.Priority == "" {
		input.Priority = models.TaskPriorityMedium
	} else if !models.IsValidTaskPriority(input.Priority) {
		return nil, ErrInvalidTaskPriority
	}
	if input.AssigneeID != nil {
		if err := s.requireProjectMember(projectID, *input.AssigneeID); err != nil {
			return nil, err
		}
	}

	creator := creatorID
	task := &models.Task{
		ProjectID:   projectID,
		Title:       input.Title,
		Description: input.Description,
		AssigneeID:  input.AssigneeID,
		Status:      input.Status,
		Priority:    input.Priority,
		DueDate:     input.DueDate,
		CreatorID:   &creator,
	}
	if input.Position != nil {
		task.Position = *input.Position
	}
	if err := s.taskRepo.Create(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	s.notifier.NotifyTaskAssigned(task, project, creatorID)
	return task, nil
}

// ListTasks returns the tasks visible to the actor. With a project filter the
// scope is that project's tasks when the actor can view the project and an
// empty list otherwise, including when the project does not exist. Without a
// filter it is every task in organizations the actor administers or manages
// plus every task in projects the actor is enrolled in.
func (s *TaskService) ListTasks(actorID uint64, projectID *uint64) ([]models.Task, error) {
	if projectID == nil {
		tasks, err := s.taskRepo.ListVisible(actorID)
		if err != nil {
			return nil, fmt.Errorf("failed to list tasks: %w", err)
		}
		return tasks, nil
	}

	project, err := s.projectRepo.FindByID(*projectID)
	if err != nil {
		if isNotFound(err) {
			return []models.Task{}, nil
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}

	visible, err := s.checker.CanViewProject(actorID, project.OrganizationID, project.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check permission: %w", err)
	}
	if !visible {
		return []models.Task{}, nil
	}

	tasks, err := s.taskRepo.ListByProject(*projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// GetTask returns a task visible to the actor. Hidden tasks produce a
// not-found, never a permission error.
func (s *TaskService) GetTask(taskID, actorID uint64) (*models.Task, error) {
	task, err := s.findTask(taskID)
	if err != nil {
		return nil, err
	}

	visible, err := s.checker.CanViewProject(actorID, task.Project.OrganizationID, task.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("failed to check permission: %w", err)
	}
	if !visible {
		return nil, ErrTaskNotFound
	}
	return task, nil
}

// UpdateTask applies a general task update. Admins and managers of the owning
// organization only. Reassignment revalidates project membership, and a
// status change through this path notifies the same way the dedicated status
// endpoint does.
func (s *TaskService) UpdateTask(taskID, actorID uint64, input TaskUpdateInput) (*models.Task, error) {
	task, err := s.findTask(taskID)
	if err != nil {
		return nil, err
	}

	if err := s.requireManageTasks(actorID, task.Project.OrganizationID); err != nil {
		return nil, err
	}

	oldStatus := task.Status

	if input.Title != nil {
		trimmed := strings.TrimSpace(*input.Title)
		if trimmed == "" {
			return nil, ErrTaskTitleRequired
		}
		task.Title = trimmed
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.Status != nil {
		if !models.IsValidTaskStatus(*input.Status) {
			return nil, ErrInvalidTaskStatus
		}
		task.Status = *input.Status
	}
	if input.Priority != nil {
		if !models.IsValidTaskPriority(*input.Priority) {
			return nil, ErrInvalidTaskPriority
		}
		task.Priority = *input.Priority
	}
	if input.DueDate != nil {
		task.DueDate = input.DueDate
	}
	if input.Position != nil {
		task.Position = *input.Position
	}

	previousAssignee := task.AssigneeID
	if input.ClearAssignee {
		task.AssigneeID = nil
	} else if input.AssigneeID != nil {
		if err := s.requireProjectMember(task.ProjectID, *input.AssigneeID); err != nil {
			return nil, err
		}
		task.AssigneeID = input.AssigneeID
	}

	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	if task.Status != oldStatus {
		s.notifier.NotifyTaskStatusChanged(task, &task.Project, oldStatus, task.Status, actorID)
	}
	if task.AssigneeID != nil && (previousAssignee == nil || *previousAssignee != *task.AssigneeID) {
		s.notifier.NotifyTaskAssigned(task, &task.Project, actorID)
	}
	return task, nil
}

// UpdateTaskStatus is the dedicated status transition, open to the current
// assignee as well as org admins and managers. Authorization is checked
// before the payload: an actor who may not touch the task learns nothing
// about which statuses are valid.
func (s *TaskService) UpdateTaskStatus(taskID, actorID uint64, status models.TaskStatus) (*models.Task, error) {
	task, err := s.findTask(taskID)
	if err != nil {
		return nil, err
	}

	allowed, err := s.checker.CanUpdateTaskStatus(actorID, task.Project.OrganizationID, task.AssigneeID)
	if err != nil {
		return nil, fmt.Errorf("failed to check permission: %w", err)
	}
	if !allowed {
		return nil, ErrPermissionDenied
	}

	if status == "" {
		return nil, ErrTaskStatusRequired
	}
	if !models.IsValidTaskStatus(status) {
		return nil, ErrInvalidTaskStatus
	}

	oldStatus := task.Status
	if status == oldStatus {
		return task, nil
	}

	task.Status = status
	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	s.notifier.NotifyTaskStatusChanged(task, &task.Project, oldStatus, status, actorID)
	return task, nil
}

// DeleteTask deletes a task and its comments. Admins and managers of the
// owning organization only.
func (s *TaskService) DeleteTask(taskID, actorID uint64) error {
	task, err := s.findTask(taskID)
	if err != nil {
		return err
	}

	if err := s.requireManageTasks(actorID, task.Project.OrganizationID); err != nil {
		return err
	}

	if err := s.taskRepo.Delete(taskID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return nil
}

func (s *TaskService) findTask(taskID uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID, "Project", "Assignee")
	if err != nil {
		if isNotFound(err) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return task, nil
}

func (s *TaskService) findProject(projectID uint64) (*models.Project, error) {
	project, err := s.projectRepo.FindByID(projectID)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}
	return project, nil
}

func (s *TaskService) requireManageTasks(actorID, organizationID uint64) error {
	allowed, err := s.checker.CanManageTasks(actorID, organizationID)
	if err != nil {
		return fmt.Errorf("failed to check permission: %w", err)
	}
	if !allowed {
		return ErrPermissionDenied
	}
	return nil
}

func (s *TaskService) requireProjectMember(projectID, userID uint64) error {
	if _, err := s.projectRepo.FindMembership(projectID, userID); err != nil {
		if isNotFound(err) {
			return ErrAssigneeNotProjectMember
		}
		return fmt.Errorf("failed to check project membership: %w", err)
	}
	return nil
}
