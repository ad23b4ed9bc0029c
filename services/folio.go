package services

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"time"

	"asset_flow_app_go/models"

	"gorm.io/gorm"
)

// FolioPrefix is the fixed prefix of every contract folio
const FolioPrefix = "CONT"

// FormatFolio formats a contract folio
// Format: CONT-{YEAR}-{SEQUENCE}
// Example: CONT-2026-00042
func FormatFolio(year, sequence int) string {
	return fmt.Sprintf("%s-%d-%05d", FolioPrefix, year, sequence)
}

// GenerateFolio generates the next folio for the given year by reading the
// highest existing sequence. The caller must run this inside the same
// transaction that inserts the contract: the unique index on folio plus
// EnsureUniqueFolio's retry closes the read-then-insert race between
// concurrent creations.
func GenerateFolio(db *gorm.DB, year int) (string, error) {
	if year == 0 {
		year = time.Now().Year()
	}

	// Find the highest sequence number for this year
	var maxContrato models.Contrato
	err := db.Where("folio LIKE ?", fmt.Sprintf("%s-%d-%%", FolioPrefix, year)).
		Order("folio DESC").
		First(&maxContrato).Error

	sequence := 1
	if err == nil {
		// Parse sequence from existing folio
		var parsedSeq int
		_, scanErr := fmt.Sscanf(maxContrato.Folio, fmt.Sprintf("%s-%d-%%d", FolioPrefix, year), &parsedSeq)
		if scanErr == nil {
			sequence = parsedSeq + 1
		}
	} else if err != gorm.ErrRecordNotFound {
		return "", fmt.Errorf("failed to query max folio: %w", err)
	}

	return FormatFolio(year, sequence), nil
}

// EnsureUniqueFolio generates a unique folio with retry logic
// Retries up to maxRetries times if a collision occurs
func EnsureUniqueFolio(db *gorm.DB, year int) (string, error) {
	const maxRetries = 10

	for i := 0; i < maxRetries; i++ {
		folio, err := GenerateFolio(db, year)
		if err != nil {
			return "", err
		}

		var count int64
		if err := db.Model(&models.Contrato{}).Where("folio = ?", folio).Count(&count).Error; err != nil {
			return "", fmt.Errorf("failed to check folio uniqueness: %w", err)
		}

		if count == 0 {
			return folio, nil
		}

		// Collision detected, retry
	}

	return "", fmt.Errorf("failed to generate unique folio after %d retries", maxRetries)
}

// VerificationResult holds the content digest and the public verification code
type VerificationResult struct {
	Hash string // full sha256 hex digest
	Code string // "{folio}|{first 16 hex chars of digest}", embedded in the QR
}

// ContentFingerprint concatenates the immutable contract facts the document
// hash is computed over. Lifecycle fields never participate, so verification
// stays stable after signing or annulment.
func ContentFingerprint(folio string, fecha time.Time, vendedorDoc, compradorDoc string, valor float64) string {
	return fmt.Sprintf("%s-%s-%s-%s-%s", folio, fecha.Format("2006-01-02"), vendedorDoc, compradorDoc,
		strconv.FormatFloat(valor, 'f', -1, 64))
}

// VerificationCode derives the document hash and verification code from a
// content fingerprint. Deterministic: identical inputs always produce
// identical output, so a printed document can be re-verified bit for bit.
func VerificationCode(folio, fingerprint string) VerificationResult {
	digest := sha256.Sum256([]byte(fingerprint))
	hash := hex.EncodeToString(digest[:])
	return VerificationResult{
		Hash: hash,
		Code: fmt.Sprintf("%s|%s", folio, hash[:16]),
	}
}
