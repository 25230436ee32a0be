package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/teamly/project-management-api/internal/models"
	"github.com/teamly/project-management-api/internal/permissions"
	"github.com/teamly/project-management-api/internal/repository"
)

var (
	// ErrPermissionDenied is returned when the actor's role does not allow
	// the operation.
	ErrPermissionDenied = errors.New("you do not have permission to perform this action")
	// ErrOrganizationNotFound is returned when an organization does not
	// exist or is not visible to the actor.
	ErrOrganizationNotFound = errors.New("organization not found")
	// ErrOrganizationNameRequired is returned when the organization name is empty.
	ErrOrganizationNameRequired = errors.New("organization name is required")
)

// OrganizationService handles organization CRUD. Membership lifecycle lives in
// MembershipService.
type OrganizationService struct {
	orgRepo repository.OrganizationRepository
	checker *permissions.Checker
}

// NewOrganizationService creates a new OrganizationService.
func NewOrganizationService(orgRepo repository.OrganizationRepository, checker *permissions.Checker) *OrganizationService {
	return &OrganizationService{
		orgRepo: orgRepo,
		checker: checker,
	}
}

// CreateOrganization creates an organization and enrolls the creator as its
// admin in the same transaction. A half-created organization with no admin
// would be unreachable forever.
func (s *OrganizationService) CreateOrganization(name string, creatorID uint64) (*models.Organization, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrOrganizationNameRequired
	}

	org := &models.Organization{
		Name:      name,
		CreatorID: creatorID,
	}
	membership := &models.OrganizationMembership{
		UserID: creatorID,
		Role:   models.RoleAdmin,
	}
	if err := s.orgRepo.CreateWithAdmin(org, membership); err != nil {
		return nil, fmt.Errorf("failed to create organization: %w", err)
	}
	return org, nil
}

// ListOrganizations returns the organizations the user is a member of,
// regardless of role.
func (s *OrganizationService) ListOrganizations(userID uint64) ([]models.Organization, error) {
	memberships, err := s.orgRepo.ListMembershipsByUserID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list memberships: %w", err)
	}

	orgs := make([]models.Organization, 0, len(memberships))
	for _, m := range memberships {
		orgs = append(orgs, m.Organization)
	}
	return orgs, nil
}

// GetOrganization returns an organization the actor is a member of. A
// non-member gets a not-found, never a confirmation that the organization exists.
func (s *OrganizationService) GetOrganization(orgID, actorID uint64) (*models.Organization, error) {
	org, err := s.findOrganization(orgID)
	if err != nil {
		return nil, err
	}

	isMember, err := s.checker.IsOrgMember(actorID, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to check membership: %w", err)
	}
	if !isMember {
		return nil, ErrOrganizationNotFound
	}
	return org, nil
}

// UpdateOrganization renames an organization. Admin only.
func (s *OrganizationService) UpdateOrganization(orgID, actorID uint64, name string) (*models.Organization, error) {
	org, err := s.findOrganization(orgID)
	if err != nil {
		return nil, err
	}

	if err := s.requireAdmin(orgID, actorID); err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrOrganizationNameRequired
	}

	org.Name = name
	if err := s.orgRepo.Update(org); err != nil {
		return nil, fmt.Errorf("failed to update organization: %w", err)
	}
	return org, nil
}

// DeleteOrganization deletes an organization and everything under it. Admin only.
func (s *OrganizationService) DeleteOrganization(orgID, actorID uint64) error {
	if _, err := s.findOrganization(orgID); err != nil {
		return err
	}

	if err := s.requireAdmin(orgID, actorID); err != nil {
		return err
	}

	if err := s.orgRepo.Delete(orgID); err != nil {
		return fmt.Errorf("failed to delete organization: %w", err)
	}
	return nil
}

func (s *OrganizationService) findOrganization(orgID uint64) (*models.Organization, error) {
	org, err := s.orgRepo.FindByID(orgID)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrOrganizationNotFound
		}
		return nil, fmt.Errorf("failed to find organization: %w", err)
	}
	return org, nil
}

// requireAdmin hides the organization from non-members and denies members who
// are not admins.
func (s *OrganizationService) requireAdmin(orgID, actorID uint64) error {
	isMember, err := s.checker.IsOrgMember(actorID, orgID)
	if err != nil {
		return fmt.Errorf("failed to check membership: %w", err)
	}
	if !isMember {
		return ErrOrganizationNotFound
	}

	allowed, err := s.checker.CanManageOrganization(actorID, orgID)
	if err != nil {
		return fmt.Errorf("failed to check permission: %w", err)
	}
	if !allowed {
		return ErrPermissionDenied
	}
	return nil
}
