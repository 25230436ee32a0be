package dto

import (
	"time"

	"github.com/teamly/project-management-api/internal/models"
)

// ProjectDTO represents a project in API responses
type ProjectDTO struct {
	ID             uint64    `json:"id"`
	Name           string    `json:"name"`
	Description    string    `json:"description"`
	OrganizationID uint64    `json:"organization_id"`
	CreatorID      *uint64   `json:"creator_id"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// ProjectMemberDTO represents a project membership in API responses
type ProjectMemberDTO struct {
	ProjectID uint64    `json:"project_id"`
	UserID    uint64    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	User      *UserDTO  `json:"user,omitempty"`
}

// ToProjectDTO converts a Project model to ProjectDTO
func ToProjectDTO(project models.Project) ProjectDTO {
	return ProjectDTO{
		ID:             project.ID,
		Name:           project.Name,
		Description:    project.Description,
		OrganizationID: project.OrganizationID,
		CreatorID:      project.CreatorID,
		CreatedAt:      project.CreatedAt,
		UpdatedAt:      project.UpdatedAt,
	}
}

// ToProjectDTOs converts a slice of Project models
func ToProjectDTOs(projects []models.Project) []ProjectDTO {
	dtos := make([]ProjectDTO, len(projects))
	for i, p := range projects {
		dtos[i] = ToProjectDTO(p)
	}
	return dtos
}

// ToProjectMemberDTO converts a ProjectMembership model to ProjectMemberDTO
func ToProjectMemberDTO(m models.ProjectMembership) ProjectMemberDTO {
	dto := ProjectMemberDTO{
		ProjectID: m.ProjectID,
		UserID:    m.UserID,
		CreatedAt: m.CreatedAt,
	}

	// Include user if preloaded
	if m.User.ID != 0 {
		user := ToUserDTO(m.User)
		dto.User = &user
	}
	return dto
}

// ToProjectMemberDTOs converts a slice of ProjectMembership models
func ToProjectMemberDTOs(memberships []models.ProjectMembership) []ProjectMemberDTO {
	dtos := make([]ProjectMemberDTO, len(memberships))
	for i, m := range memberships {
		dtos[i] = ToProjectMemberDTO(m)
	}
	return dtos
}
