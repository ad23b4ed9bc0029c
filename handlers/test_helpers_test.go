package handlers

import (
	"io"
	"net/http/httptest"
	"testing"

	"asset_flow_app_go/config"
	"asset_flow_app_go/db"
	"asset_flow_app_go/models"
	"asset_flow_app_go/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	// Unique shared memory name isolates tests from each other
	dbName := "mem_" + uuid.New().String()
	testDB, err := gorm.Open(sqlite.Open("file:"+dbName+"?mode=memory&cache=shared&_busy_timeout=5000"), &gorm.Config{})
	assert.NoError(t, err)

	err = testDB.AutoMigrate(
		&models.Contrato{},
		&models.BienContrato{},
		&models.Vehiculo{},
		&models.Propiedad{},
	)
	assert.NoError(t, err)

	services.Storage = services.NewLocalStorage(t.TempDir())

	// Set global DB
	db.DB = testDB

	return testDB
}

func setupEcho(t *testing.T, method, path string, body io.Reader) (*echo.Echo, echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, path, body)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	// Add config to context
	c.Set("config", &config.Config{
		Environment: "test",
		UploadDir:   t.TempDir(),
		AppURL:      "http://localhost:8080",
	})

	return e, c, rec
}
