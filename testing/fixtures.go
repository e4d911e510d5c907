package testing

import (
	"fmt"
	"math/rand"

	"github.com/google/uuid"
	"github.com/oroshi-mobile/simdesk/models"
	"github.com/oroshi-mobile/simdesk/utils"
	"golang.org/x/crypto/bcrypt"
)

// TestFixtures provides helper methods for creating test data
type TestFixtures struct {
	DB *TestDB
}

// NewTestFixtures creates a new test fixtures instance
func NewTestFixtures(db *TestDB) *TestFixtures {
	return &TestFixtures{DB: db}
}

// CreateTestAdmin creates an active back-office account with a bcrypt password
func (tf *TestFixtures) CreateTestAdmin(username, password string) (*models.Admin, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	admin := &models.Admin{
		UUID:         uuid.New(),
		Username:     username,
		PasswordHash: string(hashedPassword),
		IsActive:     utils.ToPtr(true),
	}

	if err := tf.DB.DB.Create(admin).Error; err != nil {
		return nil, fmt.Errorf("failed to create test admin: %w", err)
	}

	return admin, nil
}

// CreateTestContractor creates a contractor with randomized contact details
func (tf *TestFixtures) CreateTestContractor(name string) (*models.Contractor, error) {
	randomDigits := fmt.Sprintf("%08d", rand.Intn(90000000)+10000000)

	email := fmt.Sprintf("contractor.%s@example.com", randomDigits)
	contractor := &models.Contractor{
		UUID:     uuid.New(),
		Name:     name,
		Email:    &email,
		Mobile:   fmt.Sprintf("090%s", randomDigits),
		IsActive: utils.ToPtr(true),
	}

	if err := tf.DB.DB.Create(contractor).Error; err != nil {
		return nil, fmt.Errorf("failed to create test contractor: %w", err)
	}

	return contractor, nil
}

// CreateTestApplication creates an application in the given state
func (tf *TestFixtures) CreateTestApplication(status models.ApplicationStatus, lineCount int) (*models.Application, error) {
	randomDigits := fmt.Sprintf("%08d", rand.Intn(90000000)+10000000)

	application := &models.Application{
		UUID:               uuid.New(),
		ApplicantName:      "Taro Yamada",
		ApplicantEmail:     fmt.Sprintf("taro.yamada.%s@example.com", randomDigits),
		ApplicantMobile:    fmt.Sprintf("080%s", randomDigits),
		PlanCode:           "standard",
		RequestedLineCount: lineCount,
		Status:             status,
	}
	if status == models.ApplicationStatusAccepted {
		application.AcceptedAt = utils.UTCNowPtr()
	}
	if status == models.ApplicationStatusRejected {
		application.RejectedAt = utils.UTCNowPtr()
	}

	if err := tf.DB.DB.Create(application).Error; err != nil {
		return nil, fmt.Errorf("failed to create test application: %w", err)
	}

	return application, nil
}

// CreateTestLine creates a line slot for the given application
func (tf *TestFixtures) CreateTestLine(applicationID uint, status models.LineStatus) (*models.Line, error) {
	line := &models.Line{
		UUID:          uuid.New(),
		ApplicationID: applicationID,
		Status:        status,
	}

	if err := tf.DB.DB.Create(line).Error; err != nil {
		return nil, fmt.Errorf("failed to create test line: %w", err)
	}

	return line, nil
}

// CreateTestLineWithICCID creates a line that already carries a SIM serial
func (tf *TestFixtures) CreateTestLineWithICCID(applicationID uint, iccid string) (*models.Line, error) {
	line := &models.Line{
		UUID:          uuid.New(),
		ApplicationID: applicationID,
		ICCID:         &iccid,
		Status:        models.LineStatusNotOpened,
	}

	if err := tf.DB.DB.Create(line).Error; err != nil {
		return nil, fmt.Errorf("failed to create test line with ICCID: %w", err)
	}

	return line, nil
}

// CreateTestTag creates an active tag of the given type
func (tf *TestFixtures) CreateTestTag(tagType models.TagType, name string) (*models.Tag, error) {
	tag := &models.Tag{
		UUID:     uuid.New(),
		Name:     name,
		Type:     tagType,
		IsActive: utils.ToPtr(true),
	}

	if err := tf.DB.DB.Create(tag).Error; err != nil {
		return nil, fmt.Errorf("failed to create test tag: %w", err)
	}

	return tag, nil
}

// RandomICCID returns a plausible 19-digit SIM serial for tests
func RandomICCID() string {
	return fmt.Sprintf("8981100%012d", rand.Int63n(1000000000000))
}
