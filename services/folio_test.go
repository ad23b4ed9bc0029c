package services

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"asset_flow_app_go/models"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupFolioTestDB() *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		panic("failed to connect database")
	}
	db.AutoMigrate(&models.Contrato{}, &models.BienContrato{})
	return db
}

func createFolioContrato(db *gorm.DB, folio string) {
	db.Create(&models.Contrato{
		TipoContrato:       "Vehículo",
		Folio:              folio,
		VendedorNombre:     "Vendedor",
		VendedorDocumento:  "100",
		CompradorNombre:    "Comprador",
		CompradorDocumento: "200",
		ValorContrato:      1000,
		FormaPago:          "Contado",
		FechaContrato:      time.Now(),
		HashDocumento:      "hash-" + folio,
		CodigoVerificacion: "code-" + folio,
	})
}

func TestGenerateFolio(t *testing.T) {
	db := setupFolioTestDB()
	year := time.Now().Year()

	// 1. First folio of the year
	folio, err := GenerateFolio(db, year)
	assert.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("CONT-%d-00001", year), folio)

	// 2. Sequence increments after a contract exists
	createFolioContrato(db, folio)

	folio2, err := GenerateFolio(db, year)
	assert.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("CONT-%d-00002", year), folio2)
}

func TestGenerateFolio_YearsAreIndependent(t *testing.T) {
	db := setupFolioTestDB()

	createFolioContrato(db, "CONT-2025-00041")
	createFolioContrato(db, "CONT-2025-00042")

	folio, err := GenerateFolio(db, 2025)
	assert.NoError(t, err)
	assert.Equal(t, "CONT-2025-00043", folio)

	// A different year starts its own sequence
	folio, err = GenerateFolio(db, 2026)
	assert.NoError(t, err)
	assert.Equal(t, "CONT-2026-00001", folio)
}

func TestEnsureUniqueFolio(t *testing.T) {
	db := setupFolioTestDB()
	year := time.Now().Year()

	folio, err := EnsureUniqueFolio(db, year)
	assert.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("CONT-%d-00001", year), folio)

	createFolioContrato(db, folio)

	folio2, err := EnsureUniqueFolio(db, year)
	assert.NoError(t, err)
	assert.NotEqual(t, folio, folio2)
	assert.Equal(t, fmt.Sprintf("CONT-%d-00002", year), folio2)
}

func TestContentFingerprint(t *testing.T) {
	fecha := time.Date(2026, 3, 15, 10, 30, 0, 0, time.UTC)

	// Large values stay plain decimal, never scientific notation
	fingerprint := ContentFingerprint("CONT-2026-00007", fecha, "123", "456", 50000000)
	assert.Equal(t, "CONT-2026-00007-2026-03-15-123-456-50000000", fingerprint)

	// Time of day never participates
	tarde := time.Date(2026, 3, 15, 23, 59, 59, 0, time.UTC)
	assert.Equal(t, fingerprint, ContentFingerprint("CONT-2026-00007", tarde, "123", "456", 50000000))

	conCentavos := ContentFingerprint("CONT-2026-00007", fecha, "123", "456", 1500000.5)
	assert.Equal(t, "CONT-2026-00007-2026-03-15-123-456-1500000.5", conCentavos)
}

func TestVerificationCode(t *testing.T) {
	fecha := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	fingerprint := ContentFingerprint("CONT-2026-00007", fecha, "123", "456", 50000000)

	result := VerificationCode("CONT-2026-00007", fingerprint)

	// Code shape: folio, separator, 16 hex chars of the digest
	parts := strings.Split(result.Code, "|")
	assert.Len(t, parts, 2)
	assert.Equal(t, "CONT-2026-00007", parts[0])
	assert.Len(t, parts[1], 16)
	assert.Len(t, result.Hash, 64)
	assert.Equal(t, result.Hash[:16], parts[1])

	// Deterministic: same facts, same code
	again := VerificationCode("CONT-2026-00007", fingerprint)
	assert.Equal(t, result, again)

	// Any changed fact changes the code
	otro := VerificationCode("CONT-2026-00007", ContentFingerprint("CONT-2026-00007", fecha, "123", "456", 50000001))
	assert.NotEqual(t, result.Code, otro.Code)
}
