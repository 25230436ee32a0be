package services

import (
	"errors"
	"fmt"
	"log"

	"github.com/teamly/project-management-api/internal/models"
	"github.com/teamly/project-management-api/internal/repository"
	"gorm.io/gorm"
)

// ErrNotificationNotFound is returned when a notification does not exist or
// belongs to another user.
var ErrNotificationNotFound = errors.New("notification not found")

// Broadcaster pushes an event to a user's live channel. Pushes are best
// effort: implementations log failures and never report them back.
type Broadcaster interface {
	Push(userID uint64, event interface{})
}

// NotificationService persists notifications and fans them out to recipient
// channels. Persistence and broadcast are decoupled: a failed push never
// affects the stored notification or the triggering request.
type NotificationService struct {
	notifRepo   repository.NotificationRepository
	userRepo    repository.UserRepository
	broadcaster Broadcaster
}

// NewNotificationService creates a new NotificationService.
func NewNotificationService(notifRepo repository.NotificationRepository, userRepo repository.UserRepository, broadcaster Broadcaster) *NotificationService {
	return &NotificationService{
		notifRepo:   notifRepo,
		userRepo:    userRepo,
		broadcaster: broadcaster,
	}
}

// dispatch persists a notification and pushes it to the recipient's channel.
// Failures are logged, not returned: notifications are side effects of an
// already-committed mutation and must not fail it.
func (s *NotificationService) dispatch(n *models.Notification) {
	if err := s.notifRepo.Create(n); err != nil {
		log.Printf("Failed to persist notification for user %d: %v", n.RecipientID, err)
		return
	}

	s.broadcaster.Push(n.RecipientID, map[string]interface{}{
		"type":         "notification",
		"notification": n,
	})
}

func (s *NotificationService) pushUnreadCount(userID uint64) {
	count, err := s.notifRepo.UnreadCount(userID)
	if err != nil {
		log.Printf("Failed to count unread notifications for user %d: %v", userID, err)
		return
	}

	s.broadcaster.Push(userID, map[string]interface{}{
		"type":         "unread_count",
		"unread_count": count,
	})
}

// NotifyTaskAssigned notifies the assignee of a newly created task, unless
// they created it themselves.
func (s *NotificationService) NotifyTaskAssigned(task *models.Task, project *models.Project, actorID uint64) {
	if task.AssigneeID == nil || *task.AssigneeID == actorID {
		return
	}

	payload := models.JSONMap{
		"project_id":   project.ID,
		"project_name": project.Name,
		"task_id":      task.ID,
		"priority":     task.Priority,
	}
	if task.DueDate != nil {
		payload["due_date"] = task.DueDate
	}

	taskID := task.ID
	sender := actorID
	s.dispatch(&models.Notification{
		RecipientID: *task.AssigneeID,
		SenderID:    &sender,
		Type:        models.NotificationTaskAssigned,
		Title:       fmt.Sprintf("New task assigned: %s", task.Title),
		Message:     fmt.Sprintf("You have been assigned a new task %q in project %s", task.Title, project.Name),
		RefType:     models.RefTask,
		RefID:       &taskID,
		Payload:     payload,
	})
}

// NotifyTaskStatusChanged notifies the task's creator and assignee of a
// status change, excluding whoever made it. System notification: no sender.
func (s *NotificationService) NotifyTaskStatusChanged(task *models.Task, project *models.Project, oldStatus, newStatus models.TaskStatus, actorID uint64) {
	recipients := make(map[uint64]struct{})
	if task.CreatorID != nil && *task.CreatorID != actorID {
		recipients[*task.CreatorID] = struct{}{}
	}
	if task.AssigneeID != nil && *task.AssigneeID != actorID {
		recipients[*task.AssigneeID] = struct{}{}
	}

	taskID := task.ID
	for recipientID := range recipients {
		s.dispatch(&models.Notification{
			RecipientID: recipientID,
			Type:        models.NotificationTaskStatusChanged,
			Title:       fmt.Sprintf("Task status updated: %s", task.Title),
			Message:     fmt.Sprintf("Task %q status changed to %s", task.Title, newStatus),
			RefType:     models.RefTask,
			RefID:       &taskID,
			Payload: models.JSONMap{
				"project_id":   project.ID,
				"project_name": project.Name,
				"task_id":      task.ID,
				"old_status":   oldStatus,
				"new_status":   newStatus,
			},
		})
	}
}

// NotifyCommentCreated notifies the task's assignee, its creator and every
// distinct prior commenter about a new comment, excluding the commenter. No
// ordering is promised across recipients.
func (s *NotificationService) NotifyCommentCreated(comment *models.Comment, task *models.Task, project *models.Project, commenterIDs []uint64, author *models.User) {
	recipients := make(map[uint64]struct{})
	if task.AssigneeID != nil && *task.AssigneeID != author.ID {
		recipients[*task.AssigneeID] = struct{}{}
	}
	if task.CreatorID != nil && *task.CreatorID != author.ID {
		recipients[*task.CreatorID] = struct{}{}
	}
	for _, id := range commenterIDs {
		if id != author.ID {
			recipients[id] = struct{}{}
		}
	}

	preview := comment.Text
	if len(preview) > 100 {
		preview = preview[:100] + "..."
	}

	taskID := task.ID
	senderID := author.ID
	for recipientID := range recipients {
		s.dispatch(&models.Notification{
			RecipientID: recipientID,
			SenderID:    &senderID,
			Type:        models.NotificationTaskComment,
			Title:       fmt.Sprintf("New comment on: %s", task.Title),
			Message:     fmt.Sprintf("%s commented on task %q", author.FullName, task.Title),
			RefType:     models.RefTask,
			RefID:       &taskID,
			Payload: models.JSONMap{
				"project_id":      project.ID,
				"project_name":    project.Name,
				"task_id":         task.ID,
				"comment_id":      comment.ID,
				"comment_preview": preview,
			},
		})
	}
}

// NotifyInviteCreated notifies the invited user if an account with the
// invite's email already exists. Invitees who register later receive nothing;
// the invite email is the durable signal for them.
func (s *NotificationService) NotifyInviteCreated(invite *models.OrganizationInvite, org *models.Organization, inviter *models.User) {
	recipient, err := s.userRepo.FindByEmail(invite.Email)
	if err != nil {
		if !isNotFound(err) {
			log.Printf("Failed to look up invitee %s: %v", invite.Email, err)
		}
		return
	}

	inviteID := invite.ID
	senderID := inviter.ID
	s.dispatch(&models.Notification{
		RecipientID: recipient.ID,
		SenderID:    &senderID,
		Type:        models.NotificationOrgInvite,
		Title:       fmt.Sprintf("Organization invitation: %s", org.Name),
		Message:     fmt.Sprintf("%s invited you to join %s as %s", inviter.FullName, org.Name, invite.Role),
		RefType:     models.RefInvite,
		RefID:       &inviteID,
		Payload: models.JSONMap{
			"organization_id":   org.ID,
			"organization_name": org.Name,
			"role":              invite.Role,
			"invite_token":      invite.Token,
		},
	})
}

// ListNotifications returns a user's notifications, newest first.
func (s *NotificationService) ListNotifications(userID uint64, offset, limit int) ([]models.Notification, int64, error) {
	notifications, total, err := s.notifRepo.ListByRecipient(userID, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list notifications: %w", err)
	}
	return notifications, total, nil
}

// UnreadCount returns the number of unread notifications for a user.
func (s *NotificationService) UnreadCount(userID uint64) (int64, error) {
	count, err := s.notifRepo.UnreadCount(userID)
	if err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	return count, nil
}

// MarkRead marks one notification as read and pushes the new unread count to
// the recipient's channel.
func (s *NotificationService) MarkRead(notificationID, userID uint64) error {
	if err := s.notifRepo.MarkRead(notificationID, userID); err != nil {
		if isNotFound(err) {
			return ErrNotificationNotFound
		}
		return fmt.Errorf("failed to mark notification read: %w", err)
	}

	s.pushUnreadCount(userID)
	return nil
}

// MarkAllRead marks all of a user's notifications as read and pushes the new
// unread count to their channel.
func (s *NotificationService) MarkAllRead(userID uint64) error {
	if err := s.notifRepo.MarkAllRead(userID); err != nil {
		return fmt.Errorf("failed to mark notifications read: %w", err)
	}

	s.pushUnreadCount(userID)
	return nil
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
