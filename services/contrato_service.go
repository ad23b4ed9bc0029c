package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/url"
	"os"
	"strings"
	"time"

	"asset_flow_app_go/models"

	"github.com/microcosm-cc/bluemonday"
	"gorm.io/gorm"
)

var (
	// ErrContratoNotFound is returned when the contract does not exist
	ErrContratoNotFound = errors.New("contrato no encontrado")
	// ErrContratoAnulado is returned when an operation is attempted on an
	// annulled contract
	ErrContratoAnulado = errors.New("el contrato está anulado")
	// ErrEstadoInvalido is returned when the contract's current state does
	// not admit the requested transition
	ErrEstadoInvalido = errors.New("el estado actual del contrato no permite esta operación")
)

// textPolicy strips all markup from user-supplied contract text. Clause and
// observation text ends up verbatim inside the rendered document, so nothing
// beyond plain text survives.
var textPolicy = bluemonday.StrictPolicy()

func sanitizeText(s string) string {
	return strings.TrimSpace(textPolicy.Sanitize(s))
}

// ParteInput is one contractual party as received in the creation request
type ParteInput struct {
	Nombre        string  `json:"nombre"`
	TipoDocumento string  `json:"tipo_documento"`
	Documento     string  `json:"documento"`
	EstadoCivil   *string `json:"estado_civil,omitempty"`
	Direccion     *string `json:"direccion,omitempty"`
	Departamento  *string `json:"departamento,omitempty"`
	Ciudad        *string `json:"ciudad,omitempty"`
	Telefono      *string `json:"telefono,omitempty"`
	Email         *string `json:"email,omitempty"`
}

// CreateContratoInput carries everything the creation pipeline needs. Folio,
// hash and verification code are never accepted from the caller.
type CreateContratoInput struct {
	TipoContrato string
	Modalidad    string

	Vendedor  ParteInput
	Comprador ParteInput

	VehiculoID  *string
	PropiedadID *string
	Bienes      []BienInput

	ValorContrato float64
	FormaPago     string
	NumeroCuotas  *int
	ValorCuota    *float64

	FechaContrato time.Time
	FechaInicio   *time.Time
	FechaFin      *time.Time

	ObjetoContrato string
	Clausulas      []string
	Observaciones  string

	// AppURL is the public base URL embedded in the verification QR
	AppURL string
}

// CreateContrato runs the full generation pipeline: aggregate the goods,
// reconcile the exchange balance, mint the folio and verification code,
// compose the PDF and persist everything atomically. The stored PDF is the
// compensating concern: if the database transaction fails after the upload,
// the orphaned object is removed.
func CreateContrato(db *gorm.DB, input CreateContratoInput) (*models.Contrato, error) {
	if input.TipoContrato == "" {
		return nil, fmt.Errorf("tipo de contrato es requerido")
	}
	if input.Vendedor.Nombre == "" || input.Vendedor.Documento == "" {
		return nil, fmt.Errorf("datos del vendedor incompletos")
	}
	if input.Comprador.Nombre == "" || input.Comprador.Documento == "" {
		return nil, fmt.Errorf("datos del comprador incompletos")
	}
	if input.Modalidad == "" {
		input.Modalidad = models.ModalidadCompraventa
	}
	if !models.IsValidModalidad(input.Modalidad) {
		return nil, fmt.Errorf("modalidad de contrato inválida: %s", input.Modalidad)
	}
	if input.FechaContrato.IsZero() {
		input.FechaContrato = time.Now()
	}

	objeto := sanitizeText(input.ObjetoContrato)
	observaciones := sanitizeText(input.Observaciones)
	clausulas := make([]string, 0, len(input.Clausulas))
	for _, c := range input.Clausulas {
		if cleaned := sanitizeText(c); cleaned != "" {
			clausulas = append(clausulas, cleaned)
		}
	}

	bienes, err := AggregateBienes(&GormAssetResolver{DB: db}, AggregateInput{
		Bienes:        input.Bienes,
		VehiculoID:    input.VehiculoID,
		PropiedadID:   input.PropiedadID,
		ValorContrato: input.ValorContrato,
	})
	if err != nil {
		return nil, err
	}

	resumen := ReconcilePermuta(bienes, input.Modalidad)

	var contrato *models.Contrato
	var pdfKey string

	txErr := db.Transaction(func(tx *gorm.DB) error {
		folio, err := EnsureUniqueFolio(tx, input.FechaContrato.Year())
		if err != nil {
			return err
		}

		fingerprint := ContentFingerprint(folio, input.FechaContrato, input.Vendedor.Documento, input.Comprador.Documento, input.ValorContrato)
		verification := VerificationCode(folio, fingerprint)

		qr, err := EncodeQR(verificationPayload(input.AppURL, verification.Code), 256)
		if err != nil {
			return fmt.Errorf("failed to encode verification QR: %w", err)
		}

		pdfData := ContratoPDFData{
			Tipo:               input.TipoContrato,
			Folio:              folio,
			Modalidad:          input.Modalidad,
			Vendedor:           parteToPDF(input.Vendedor),
			Comprador:          parteToPDF(input.Comprador),
			Valor:              input.ValorContrato,
			FormaPago:          input.FormaPago,
			Fecha:              input.FechaContrato,
			Objeto:             objeto,
			Clausulas:          clausulas,
			Observaciones:      observaciones,
			Bienes:             bienes,
			Resumen:            resumen,
			HashDocumento:      verification.Hash,
			CodigoVerificacion: verification.Code,
			QR:                 qr,
		}

		canvas := NewPDFCanvas()
		if err := ComposeContrato(canvas, pdfData); err != nil {
			return fmt.Errorf("failed to compose contract document: %w", err)
		}

		var buf bytes.Buffer
		if err := canvas.WriteTo(&buf); err != nil {
			return fmt.Errorf("failed to render contract PDF: %w", err)
		}

		key := GenerateContratoKey(folio)
		result, err := Storage.UploadReader(context.Background(), bytes.NewReader(buf.Bytes()), key, "application/pdf", int64(buf.Len()))
		if err != nil {
			return fmt.Errorf("failed to store contract PDF: %w", err)
		}
		pdfKey = result.Key

		record := models.Contrato{
			TipoContrato:             input.TipoContrato,
			Folio:                    folio,
			VendedorNombre:           input.Vendedor.Nombre,
			VendedorTipoDocumento:    valorODefecto(input.Vendedor.TipoDocumento, "CC"),
			VendedorDocumento:        input.Vendedor.Documento,
			VendedorEstadoCivil:      input.Vendedor.EstadoCivil,
			VendedorDireccion:        input.Vendedor.Direccion,
			VendedorDepartamento:     input.Vendedor.Departamento,
			VendedorCiudad:           input.Vendedor.Ciudad,
			VendedorTelefono:         input.Vendedor.Telefono,
			VendedorEmail:            input.Vendedor.Email,
			CompradorNombre:          input.Comprador.Nombre,
			CompradorTipoDocumento:   valorODefecto(input.Comprador.TipoDocumento, "CC"),
			CompradorDocumento:       input.Comprador.Documento,
			CompradorEstadoCivil:     input.Comprador.EstadoCivil,
			CompradorDireccion:       input.Comprador.Direccion,
			CompradorDepartamento:    input.Comprador.Departamento,
			CompradorCiudad:          input.Comprador.Ciudad,
			CompradorTelefono:        input.Comprador.Telefono,
			CompradorEmail:           input.Comprador.Email,
			VehiculoID:               input.VehiculoID,
			PropiedadID:              input.PropiedadID,
			ValorContrato:            input.ValorContrato,
			FormaPago:                input.FormaPago,
			NumeroCuotas:             input.NumeroCuotas,
			ValorCuota:               input.ValorCuota,
			FechaContrato:            input.FechaContrato,
			FechaInicio:              input.FechaInicio,
			FechaFin:                 input.FechaFin,
			ModalidadContrato:        input.Modalidad,
			EstadoContrato:           models.EstadoGenerado,
			HashDocumento:            verification.Hash,
			CodigoVerificacion:       verification.Code,
			RutaArchivo:              result.Key,
			NombreArchivo:            fmt.Sprintf("%s.pdf", folio),
		}
		if objeto != "" {
			record.ObjetoContrato = &objeto
		}
		if observaciones != "" {
			record.ObservacionesAdicionales = &observaciones
		}
		if len(clausulas) > 0 {
			joined := strings.Join(clausulas, "\n")
			record.Clausulas = &joined
		}
		if resumen.Aplica() {
			record.ValorTotalEntrega = &resumen.ValorTotalEntrega
			record.ValorTotalRecibe = &resumen.ValorTotalRecibe
			record.DiferenciaValor = &resumen.DiferenciaValor
			if resumen.QuienPagaDiferencia != "" {
				record.QuienPagaDiferencia = &resumen.QuienPagaDiferencia
			}
		}

		if err := tx.Create(&record).Error; err != nil {
			return fmt.Errorf("failed to create contrato: %w", err)
		}

		for _, bien := range bienes {
			row, err := models.NuevoBienContrato(record.ID, bien)
			if err != nil {
				return fmt.Errorf("failed to serialize bien: %w", err)
			}
			if err := tx.Create(&row).Error; err != nil {
				return fmt.Errorf("failed to create bien contrato: %w", err)
			}
		}

		contrato = &record
		return nil
	})

	if txErr != nil {
		if pdfKey != "" {
			if err := Storage.Delete(context.Background(), pdfKey); err != nil {
				log.Printf("[WARNING] Failed to remove orphaned contract PDF %s: %v", pdfKey, err)
			}
		}
		return nil, txErr
	}

	return contrato, nil
}

func parteToPDF(p ParteInput) PartePDF {
	deref := func(s *string) string {
		if s == nil {
			return ""
		}
		return *s
	}
	return PartePDF{
		Nombre:        p.Nombre,
		TipoDocumento: p.TipoDocumento,
		Documento:     p.Documento,
		EstadoCivil:   deref(p.EstadoCivil),
		Direccion:     deref(p.Direccion),
		Departamento:  deref(p.Departamento),
		Ciudad:        deref(p.Ciudad),
		Telefono:      deref(p.Telefono),
		Email:         deref(p.Email),
	}
}

// verificationPayload is the text encoded in the document QR: the public
// verification URL when a base URL is configured, the raw code otherwise.
func verificationPayload(appURL, code string) string {
	if appURL == "" {
		return code
	}
	return fmt.Sprintf("%s/api/contratos/verificar/%s", strings.TrimRight(appURL, "/"), url.PathEscape(code))
}

// GetContrato fetches one contract with its goods
func GetContrato(db *gorm.DB, id string) (*models.Contrato, error) {
	var contrato models.Contrato
	if err := db.Preload("Bienes").First(&contrato, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrContratoNotFound
		}
		return nil, fmt.Errorf("failed to fetch contrato: %w", err)
	}
	return &contrato, nil
}

// ListContratos returns contracts newest first, optionally filtered by state
// and modality
func ListContratos(db *gorm.DB, estado, modalidad string) ([]models.Contrato, error) {
	query := db.Preload("Bienes").Order("created_at DESC")
	if estado != "" {
		query = query.Where("estado_contrato = ?", estado)
	}
	if modalidad != "" {
		query = query.Where("modalidad_contrato = ?", modalidad)
	}

	var contratos []models.Contrato
	if err := query.Find(&contratos).Error; err != nil {
		return nil, fmt.Errorf("failed to list contratos: %w", err)
	}
	return contratos, nil
}

// GetContratoPDF streams the generated document for a contract
func GetContratoPDF(ctx context.Context, contrato *models.Contrato) (io.ReadCloser, string, error) {
	if contrato.RutaArchivo == "" {
		return nil, "", ErrContratoNotFound
	}
	return Storage.Get(ctx, contrato.RutaArchivo)
}

// UploadSignedArtifact attaches a signed or notarized copy to a contract and
// advances its lifecycle state. The upload is gated on the Generado state; a
// rejected transition never leaves a file on disk, and a failed state update
// removes the file it just saved.
func UploadSignedArtifact(db *gorm.DB, uploadDir, contratoID, tipo string, fileHeader *multipart.FileHeader) (*models.Contrato, error) {
	if !models.IsValidTipoDocumentoFirmado(tipo) {
		return nil, fmt.Errorf("tipo de documento inválido: %s", tipo)
	}

	contrato, err := GetContrato(db, contratoID)
	if err != nil {
		return nil, err
	}
	if contrato.IsAnulado() {
		return nil, ErrContratoAnulado
	}
	if !contrato.CanReceiveArtifact() {
		return nil, ErrEstadoInvalido
	}

	if err := ValidatePDFUpload(fileHeader); err != nil {
		return nil, err
	}

	result, err := SaveArtifactFile(fileHeader, uploadDir, contrato.ID, tipo)
	if err != nil {
		return nil, err
	}
	mirrorArtifact(contrato.ID, tipo, fileHeader.Filename, result.FilePath)

	now := time.Now()
	updates := map[string]interface{}{
		"estado_contrato":        models.EstadoForArtifact(tipo),
		"fecha_firma":            now,
		"tipo_documento_firmado": tipo,
	}
	if tipo == models.DocumentoAutenticado {
		updates["ruta_documento_autenticado"] = result.FilePath
	} else {
		updates["ruta_documento_firmado"] = result.FilePath
	}

	if err := db.Model(contrato).Updates(updates).Error; err != nil {
		if cleanupErr := DeleteUploadedFile(result.FilePath); cleanupErr != nil {
			log.Printf("[WARNING] Failed to remove artifact after update failure: %v", cleanupErr)
		}
		return nil, fmt.Errorf("failed to update contrato state: %w", err)
	}

	return GetContrato(db, contratoID)
}

// mirrorArtifact pushes a best-effort copy of a signed artifact to remote
// object storage. Local disk remains the source of truth, so failures only
// warn.
func mirrorArtifact(contratoID, tipo, originalFilename, localPath string) {
	if Storage == nil || !Storage.IsConfigured() {
		return
	}
	if _, local := Storage.(*LocalStorage); local {
		return
	}

	f, err := os.Open(localPath)
	if err != nil {
		log.Printf("[WARNING] Could not open artifact for mirroring: %v", err)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		log.Printf("[WARNING] Could not stat artifact for mirroring: %v", err)
		return
	}

	key := GenerateArtifactKey(contratoID, tipo, originalFilename)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if _, err := Storage.UploadReader(ctx, f, key, "application/pdf", info.Size()); err != nil {
		log.Printf("[WARNING] Failed to mirror artifact %s: %v", key, err)
	}
}

// ArtifactPath returns the stored path of the requested artifact kind
func ArtifactPath(contrato *models.Contrato, tipo string) (string, error) {
	if !models.IsValidTipoDocumentoFirmado(tipo) {
		return "", fmt.Errorf("tipo de documento inválido: %s", tipo)
	}

	var ruta *string
	if tipo == models.DocumentoAutenticado {
		ruta = contrato.RutaDocumentoAutenticado
	} else {
		ruta = contrato.RutaDocumentoFirmado
	}
	if ruta == nil || *ruta == "" {
		return "", ErrContratoNotFound
	}
	return *ruta, nil
}

// AnnulContrato moves a contract to the terminal Anulado state. The reason
// replaces the additional observations so the annulment is visible on every
// later read. Folio, hash and verification code are untouched.
func AnnulContrato(db *gorm.DB, id, motivo string) (*models.Contrato, error) {
	contrato, err := GetContrato(db, id)
	if err != nil {
		return nil, err
	}
	if !contrato.CanAnnul() {
		return nil, ErrContratoAnulado
	}

	motivo = sanitizeText(motivo)
	if motivo == "" {
		motivo = "Sin motivo especificado"
	}
	observaciones := fmt.Sprintf("ANULADO: %s", motivo)

	updates := map[string]interface{}{
		"estado_contrato":           models.EstadoAnulado,
		"observaciones_adicionales": observaciones,
	}
	if err := db.Model(contrato).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to annul contrato: %w", err)
	}

	return GetContrato(db, id)
}

// VerificacionResult is the public proof returned by the verification lookup
type VerificacionResult struct {
	Valido   bool             `json:"valido"`
	Anulado  bool             `json:"anulado"`
	Contrato *models.Contrato `json:"contrato,omitempty"`
}

// VerifyContrato resolves a scanned verification code or a folio back to its
// contract. An annulled contract still verifies (the document existed and is
// authentic) but is flagged so a relying party sees it no longer stands.
func VerifyContrato(db *gorm.DB, codigo string) (*VerificacionResult, error) {
	var contrato models.Contrato
	err := db.Preload("Bienes").
		Where("codigo_verificacion = ? OR folio = ?", codigo, codigo).
		First(&contrato).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &VerificacionResult{Valido: false}, nil
		}
		return nil, fmt.Errorf("failed to verify contrato: %w", err)
	}

	return &VerificacionResult{
		Valido:   true,
		Anulado:  contrato.IsAnulado(),
		Contrato: &contrato,
	}, nil
}
