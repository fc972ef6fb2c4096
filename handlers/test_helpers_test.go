package handlers

import (
	"io"
	"meetings_app_go/config"
	"meetings_app_go/db"
	"meetings_app_go/middleware"
	"meetings_app_go/models"
	"meetings_app_go/services"
	"meetings_app_go/services/datetime"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testSecret = "handlers-test-secret-0123456789abcdef"

var testConfig = &config.Config{
	Environment:   "test",
	EmailTestMode: true,
	AppURL:        "http://localhost:8080",
	SessionSecret: testSecret,
}

func setupTestDB(t *testing.T) *gorm.DB {
	// Use unique shared memory name to isolate tests while allowing shared cache for async tasks
	dbName := "mem_" + uuid.New().String()
	testDB, err := gorm.Open(sqlite.Open("file:"+dbName+"?mode=memory&cache=shared&_busy_timeout=5000"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	assert.NoError(t, err)

	err = testDB.AutoMigrate(
		&models.User{},
		&models.Session{},
		&models.Meeting{},
		&models.AuditLog{},
	)
	assert.NoError(t, err)

	// Set global DB
	db.DB = testDB

	return testDB
}

func setupEcho(method, path string, body io.Reader) (*echo.Echo, echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, path, body)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	// Add config to context
	c.Set(middleware.ContextKeyConfig, testConfig)
	c.Set(middleware.ContextKeyCanonicalizer, datetime.New(time.UTC))

	return e, c, rec
}

func createUser(t *testing.T, database *gorm.DB, username, password string) *models.User {
	user, err := services.RegisterUser(database, username, username+"@example.com", password)
	require.NoError(t, err)
	return user
}

func createMeeting(t *testing.T, database *gorm.DB, owner *models.User, agenda, date, startTime string) *models.Meeting {
	meeting := &models.Meeting{
		Agenda:     agenda,
		Status:     models.MeetingStatusUpcoming,
		Date:       date,
		StartTime:  startTime,
		MeetingURL: "https://meet.example.com/" + uuid.New().String()[:8],
		OwnerID:    owner.ID,
	}
	require.NoError(t, database.Create(meeting).Error)
	return meeting
}
