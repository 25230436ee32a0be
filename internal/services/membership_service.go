package services

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/teamly/project-management-api/internal/mailer"
	"github.com/teamly/project-management-api/internal/models"
	"github.com/teamly/project-management-api/internal/permissions"
	"github.com/teamly/project-management-api/internal/repository"
	"github.com/teamly/project-management-api/internal/utils"
)

var (
	// ErrMembershipNotFound is returned when the target user holds no
	// membership in the organization.
	ErrMembershipNotFound = errors.New("membership not found")
	// ErrInvalidRole is returned when the role is not admin, manager or employee.
	ErrInvalidRole = errors.New("role must be one of: admin, manager, employee")
	// ErrCannotRemoveSelf is returned when an admin tries to remove their own
	// membership through the member-removal endpoint.
	ErrCannotRemoveSelf = errors.New("you cannot remove yourself from the organization")
	// ErrInviteEmailRequired is returned when the invite email is empty.
	ErrInviteEmailRequired = errors.New("invite email is required")
	// ErrInviteNotFound is returned when no pending invite matches the token.
	// An already-accepted invite is indistinguishable from an unknown one.
	ErrInviteNotFound = errors.New("invite not found or already accepted")
	// ErrAlreadyMember is returned when accepting an invite to an
	// organization the user already belongs to.
	ErrAlreadyMember = errors.New("you are already a member of this organization")
	// ErrInviteEmailDelivery is returned when the invite was created but the
	// email could not be sent.
	ErrInviteEmailDelivery = errors.New("invite created but the invitation email could not be sent")
)

// MembershipService handles the organization membership lifecycle: listing,
// role changes, removal with its cascade, and the invite flow.
type MembershipService struct {
	orgRepo  repository.OrganizationRepository
	checker  *permissions.Checker
	notifier *NotificationService
	mail     mailer.Mailer
	userRepo repository.UserRepository

	// inviteBaseURL is the frontend page that consumes invite tokens.
	inviteBaseURL string
}

// NewMembershipService creates a new MembershipService.
func NewMembershipService(
	orgRepo repository.OrganizationRepository,
	userRepo repository.UserRepository,
	checker *permissions.Checker,
	notifier *NotificationService,
	mail mailer.Mailer,
	inviteBaseURL string,
) *MembershipService {
	return &MembershipService{
		orgRepo:       orgRepo,
		userRepo:      userRepo,
		checker:       checker,
		notifier:      notifier,
		mail:          mail,
		inviteBaseURL: inviteBaseURL,
	}
}

// ListMembers returns the organization's memberships. Admins and managers only.
func (s *MembershipService) ListMembers(orgID, actorID uint64) ([]models.OrganizationMembership, error) {
	if err := s.requireOrg(orgID); err != nil {
		return nil, err
	}
	if err := s.require(s.checker.CanListMembers(actorID, orgID)); err != nil {
		return nil, err
	}

	memberships, err := s.orgRepo.ListMemberships(orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	return memberships, nil
}

// GetMembership returns a single membership. Admins and managers only.
func (s *MembershipService) GetMembership(orgID, targetUserID, actorID uint64) (*models.OrganizationMembership, error) {
	if err := s.requireOrg(orgID); err != nil {
		return nil, err
	}
	if err := s.require(s.checker.CanViewMembership(actorID, orgID)); err != nil {
		return nil, err
	}
	return s.findMembership(orgID, targetUserID)
}

// UpdateMemberRole changes a member's organization role. Admin only. The role
// takes effect everywhere immediately since project access is always derived
// from it.
func (s *MembershipService) UpdateMemberRole(orgID, targetUserID, actorID uint64, role models.OrganizationRole) (*models.OrganizationMembership, error) {
	if err := s.requireOrg(orgID); err != nil {
		return nil, err
	}
	if err := s.require(s.checker.CanMutateMembership(actorID, orgID)); err != nil {
		return nil, err
	}
	if !models.IsValidRole(role) {
		return nil, ErrInvalidRole
	}

	membership, err := s.findMembership(orgID, targetUserID)
	if err != nil {
		return nil, err
	}

	membership.Role = role
	if err := s.orgRepo.UpdateMembership(membership); err != nil {
		return nil, fmt.Errorf("failed to update membership: %w", err)
	}
	return membership, nil
}

// RemoveMember removes a member from the organization. Admin only, and never
// oneself. The cascade runs in one transaction: the member's project
// memberships across the org are deleted and their task assignments cleared,
// so no project access or assignment survives the org membership that
// justified it. Their authored tasks and comments are left untouched.
func (s *MembershipService) RemoveMember(orgID, targetUserID, actorID uint64) error {
	if err := s.requireOrg(orgID); err != nil {
		return err
	}
	if err := s.require(s.checker.CanMutateMembership(actorID, orgID)); err != nil {
		return err
	}
	if targetUserID == actorID {
		return ErrCannotRemoveSelf
	}

	if _, err := s.findMembership(orgID, targetUserID); err != nil {
		return err
	}

	if err := s.orgRepo.RemoveMembershipCascade(orgID, targetUserID); err != nil {
		return fmt.Errorf("failed to remove member: %w", err)
	}
	return nil
}

// InviteMember creates a single-use invite and emails its token to the
// invitee. Admin only. The invite is persisted before the email goes out: a
// delivery failure is reported but the invite (and any in-app notification)
// stands.
func (s *MembershipService) InviteMember(orgID, actorID uint64, email string, role models.OrganizationRole) (*models.OrganizationInvite, error) {
	org, err := s.orgRepo.FindByID(orgID)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrOrganizationNotFound
		}
		return nil, fmt.Errorf("failed to find organization: %w", err)
	}
	if err := s.require(s.checker.CanInvite(actorID, orgID)); err != nil {
		return nil, err
	}

	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		return nil, ErrInviteEmailRequired
	}
	if !models.IsValidRole(role) {
		return nil, ErrInvalidRole
	}

	inviter, err := s.userRepo.FindByID(actorID)
	if err != nil {
		return nil, fmt.Errorf("failed to find inviter: %w", err)
	}

	inviterID := inviter.ID
	invite := &models.OrganizationInvite{
		Email:          email,
		OrganizationID: orgID,
		InviterID:      &inviterID,
		Role:           role,
		Token:          utils.GenerateInviteToken(),
	}
	if err := s.orgRepo.CreateInvite(invite); err != nil {
		return nil, fmt.Errorf("failed to create invite: %w", err)
	}

	s.notifier.NotifyInviteCreated(invite, org, inviter)

	if err := s.sendInviteEmail(invite, org, inviter); err != nil {
		log.Printf("Failed to send invite email to %s: %v", email, err)
		return invite, ErrInviteEmailDelivery
	}
	return invite, nil
}

// AcceptInvite consumes an invite token for the authenticated user. Creating
// the membership and flipping the accepted flag happen in one transaction, so
// a token can never be redeemed twice.
func (s *MembershipService) AcceptInvite(token string, actorID uint64) (*models.OrganizationMembership, error) {
	invite, err := s.orgRepo.FindPendingInviteByToken(token)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrInviteNotFound
		}
		return nil, fmt.Errorf("failed to find invite: %w", err)
	}

	isMember, err := s.checker.IsOrgMember(actorID, invite.OrganizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to check membership: %w", err)
	}
	if isMember {
		return nil, ErrAlreadyMember
	}

	membership := &models.OrganizationMembership{
		OrganizationID: invite.OrganizationID,
		UserID:         actorID,
		Role:           invite.Role,
	}
	if err := s.orgRepo.AcceptInvite(invite, membership); err != nil {
		return nil, fmt.Errorf("failed to accept invite: %w", err)
	}
	return membership, nil
}

func (s *MembershipService) sendInviteEmail(invite *models.OrganizationInvite, org *models.Organization, inviter *models.User) error {
	subject := fmt.Sprintf("Invitation to join %s", org.Name)
	body := fmt.Sprintf(
		"%s has invited you to join %s as %s.\r\n\r\n"+
			"Accept the invitation here: %s/invites/accept?token=%s\r\n",
		inviter.FullName, org.Name, invite.Role, s.inviteBaseURL, invite.Token,
	)
	return s.mail.Send(invite.Email, subject, body)
}

func (s *MembershipService) findMembership(orgID, targetUserID uint64) (*models.OrganizationMembership, error) {
	membership, err := s.orgRepo.FindMembership(orgID, targetUserID)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrMembershipNotFound
		}
		return nil, fmt.Errorf("failed to find membership: %w", err)
	}
	return membership, nil
}

func (s *MembershipService) requireOrg(orgID uint64) error {
	if _, err := s.orgRepo.FindByID(orgID); err != nil {
		if isNotFound(err) {
			return ErrOrganizationNotFound
		}
		return fmt.Errorf("failed to find organization: %w", err)
	}
	return nil
}

func (s *MembershipService) require(allowed bool, err error) error {
	if err != nil {
		return fmt.Errorf("failed to check permission: %w", err)
	}
	if !allowed {
		return ErrPermissionDenied
	}
	return nil
}
