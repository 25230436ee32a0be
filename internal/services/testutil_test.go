package services

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/teamly/project-management-api/internal/auth"
	"github.com/teamly/project-management-api/internal/models"
	"github.com/teamly/project-management-api/internal/permissions"
	"github.com/teamly/project-management-api/internal/repository"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// recordingBroadcaster captures pushes instead of delivering them.
type recordingBroadcaster struct {
	pushes []recordedPush
}

type recordedPush struct {
	userID uint64
	event  map[string]interface{}
}

func (b *recordingBroadcaster) Push(userID uint64, event interface{}) {
	m, _ := event.(map[string]interface{})
	b.pushes = append(b.pushes, recordedPush{userID: userID, event: m})
}

func (b *recordingBroadcaster) pushesFor(userID uint64) []recordedPush {
	var out []recordedPush
	for _, p := range b.pushes {
		if p.userID == userID {
			out = append(out, p)
		}
	}
	return out
}

// recordingMailer captures outgoing mail; failNext makes the next send fail.
type recordingMailer struct {
	sent     []sentMail
	failNext error
}

type sentMail struct {
	to      string
	subject string
	body    string
}

func (m *recordingMailer) Send(to, subject, body string) error {
	if m.failNext != nil {
		err := m.failNext
		m.failNext = nil
		return err
	}
	m.sent = append(m.sent, sentMail{to: to, subject: subject, body: body})
	return nil
}

type serviceTestEnv struct {
	db          *gorm.DB
	broadcaster *recordingBroadcaster
	mailer      *recordingMailer

	authService         *AuthService
	orgService          *OrganizationService
	membershipService   *MembershipService
	projectService      *ProjectService
	taskService         *TaskService
	commentService      *CommentService
	notificationService *NotificationService

	orgRepo     repository.OrganizationRepository
	projectRepo repository.ProjectRepository
	taskRepo    repository.TaskRepository
	notifRepo   repository.NotificationRepository
}

func setupServiceTestEnv(t *testing.T) *serviceTestEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Organization{},
		&models.OrganizationMembership{},
		&models.OrganizationInvite{},
		&models.Project{},
		&models.ProjectMembership{},
		&models.Task{},
		&models.Comment{},
		&models.Notification{},
	)
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	userRepo := repository.NewUserRepository(db)
	orgRepo := repository.NewOrganizationRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	notifRepo := repository.NewNotificationRepository(db)
	checker := permissions.NewChecker(repository.NewMembershipStore(db))

	broadcaster := &recordingBroadcaster{}
	mail := &recordingMailer{}

	notificationService := NewNotificationService(notifRepo, userRepo, broadcaster)

	return &serviceTestEnv{
		db:                  db,
		broadcaster:         broadcaster,
		mailer:              mail,
		authService:         NewAuthService(userRepo, auth.NewTokenManager("test-secret")),
		orgService:          NewOrganizationService(orgRepo, checker),
		membershipService:   NewMembershipService(orgRepo, userRepo, checker, notificationService, mail, "http://localhost:5173"),
		projectService:      NewProjectService(projectRepo, orgRepo, userRepo, checker),
		taskService:         NewTaskService(taskRepo, projectRepo, checker, notificationService),
		commentService:      NewCommentService(commentRepo, taskRepo, userRepo, checker, notificationService),
		notificationService: notificationService,
		orgRepo:             orgRepo,
		projectRepo:         projectRepo,
		taskRepo:            taskRepo,
		notifRepo:           notifRepo,
	}
}

func createTestUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	user := &models.User{
		Email:        email,
		FullName:     email,
		PasswordHash: "hashed",
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// createTestOrg creates an organization with the given user as admin.
func createTestOrg(t *testing.T, env *serviceTestEnv, name string, adminID uint64) *models.Organization {
	t.Helper()

	org, err := env.orgService.CreateOrganization(name, adminID)
	require.NoError(t, err)
	return org
}

// addOrgMember inserts a membership row directly, bypassing the invite flow.
func addOrgMember(t *testing.T, db *gorm.DB, orgID, userID uint64, role models.OrganizationRole) {
	t.Helper()

	require.NoError(t, db.Create(&models.OrganizationMembership{
		OrganizationID: orgID,
		UserID:         userID,
		Role:           role,
	}).Error)
}

func addProjectMember(t *testing.T, db *gorm.DB, projectID, userID uint64) {
	t.Helper()

	require.NoError(t, db.Create(&models.ProjectMembership{
		ProjectID: projectID,
		UserID:    userID,
	}).Error)
}
