package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"asset_flow_app_go/config"
	"asset_flow_app_go/db"
	"asset_flow_app_go/models"
	"asset_flow_app_go/services"

	"github.com/labstack/echo/v4"
)

// contratoRequest is the creation payload. Dates travel as YYYY-MM-DD
// strings; optional amounts accept numbers or numeric strings.
type contratoRequest struct {
	TipoContrato      string               `json:"tipo_contrato" form:"tipo_contrato"`
	ModalidadContrato string               `json:"modalidad_contrato" form:"modalidad_contrato"`
	Vendedor          services.ParteInput  `json:"vendedor"`
	Comprador         services.ParteInput  `json:"comprador"`
	VehiculoID        *string              `json:"vehiculo_id,omitempty"`
	PropiedadID       *string              `json:"propiedad_id,omitempty"`
	Bienes            []services.BienInput `json:"bienes,omitempty"`
	ValorContrato     services.Monto       `json:"valor_contrato"`
	FormaPago         string               `json:"forma_pago" form:"forma_pago"`
	NumeroCuotas      *int                 `json:"numero_cuotas,omitempty"`
	ValorCuota        *services.Monto      `json:"valor_cuota,omitempty"`
	FechaContrato     string               `json:"fecha_contrato" form:"fecha_contrato"`
	FechaInicio       string               `json:"fecha_inicio,omitempty" form:"fecha_inicio"`
	FechaFin          string               `json:"fecha_fin,omitempty" form:"fecha_fin"`
	ObjetoContrato    string               `json:"objeto_contrato" form:"objeto_contrato"`
	Clausulas         json.RawMessage      `json:"clausulas,omitempty"`
	Observaciones     string               `json:"observaciones_adicionales" form:"observaciones_adicionales"`
}

func parseFecha(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, value); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("fecha inválida: %s", value)
}

// CreateContratoHandler generates a new contract document
func CreateContratoHandler(c echo.Context) error {
	cfg := c.Get("config").(*config.Config)

	var req contratoRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	fechaContrato, err := parseFecha(req.FechaContrato)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	fechaInicio, err := parseFecha(req.FechaInicio)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	fechaFin, err := parseFecha(req.FechaFin)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	input := services.CreateContratoInput{
		TipoContrato:   req.TipoContrato,
		Modalidad:      req.ModalidadContrato,
		Vendedor:       req.Vendedor,
		Comprador:      req.Comprador,
		VehiculoID:     req.VehiculoID,
		PropiedadID:    req.PropiedadID,
		Bienes:         req.Bienes,
		ValorContrato:  float64(req.ValorContrato),
		FormaPago:      req.FormaPago,
		NumeroCuotas:   req.NumeroCuotas,
		FechaInicio:    fechaInicio,
		FechaFin:       fechaFin,
		ObjetoContrato: req.ObjetoContrato,
		Clausulas:      services.ParseClausulas(req.Clausulas),
		Observaciones:  req.Observaciones,
		AppURL:         cfg.AppURL,
	}
	if fechaContrato != nil {
		input.FechaContrato = *fechaContrato
	}
	if req.ValorCuota != nil {
		valorCuota := float64(*req.ValorCuota)
		input.ValorCuota = &valorCuota
	}

	contrato, err := services.CreateContrato(db.DB, input)
	if err != nil {
		if errors.Is(err, services.ErrActivoNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "El vehículo o propiedad referenciado no existe")
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	return c.JSON(http.StatusCreated, contrato)
}

// GetContratosHandler lists contracts, optionally filtered by state and modality
func GetContratosHandler(c echo.Context) error {
	contratos, err := services.ListContratos(db.DB, c.QueryParam("estado"), c.QueryParam("modalidad"))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch contratos")
	}
	return c.JSON(http.StatusOK, contratos)
}

// GetContratoHandler returns one contract with its goods
func GetContratoHandler(c echo.Context) error {
	contrato, err := services.GetContrato(db.DB, c.Param("id"))
	if err != nil {
		if errors.Is(err, services.ErrContratoNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Contrato no encontrado")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch contrato")
	}
	return c.JSON(http.StatusOK, contrato)
}

// DownloadContratoHandler streams the generated contract PDF
func DownloadContratoHandler(c echo.Context) error {
	contrato, err := services.GetContrato(db.DB, c.Param("id"))
	if err != nil {
		if errors.Is(err, services.ErrContratoNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Contrato no encontrado")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch contrato")
	}

	reader, contentType, err := services.GetContratoPDF(c.Request().Context(), contrato)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Documento no encontrado")
	}
	defer reader.Close()

	if contentType == "" {
		contentType = "application/pdf"
	}
	c.Response().Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, contrato.NombreArchivo))
	return c.Stream(http.StatusOK, contentType, reader)
}

// AnularContratoHandler moves a contract to the terminal annulled state
func AnularContratoHandler(c echo.Context) error {
	var req struct {
		Motivo string `json:"motivo" form:"motivo"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	contrato, err := services.AnnulContrato(db.DB, c.Param("id"), req.Motivo)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrContratoNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "Contrato no encontrado")
		case errors.Is(err, services.ErrContratoAnulado):
			return echo.NewHTTPError(http.StatusConflict, "El contrato ya está anulado")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to annul contrato")
	}

	return c.JSON(http.StatusOK, contrato)
}

// VerificarContratoHandler resolves a verification code or folio to its contract
func VerificarContratoHandler(c echo.Context) error {
	result, err := services.VerifyContrato(db.DB, c.Param("codigo"))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to verify contrato")
	}
	if !result.Valido {
		return c.JSON(http.StatusNotFound, result)
	}
	return c.JSON(http.StatusOK, result)
}

// UploadDocumentoFirmadoHandler attaches a signed or notarized PDF copy to a
// contract and advances its state
func UploadDocumentoFirmadoHandler(c echo.Context) error {
	cfg := c.Get("config").(*config.Config)

	tipo := c.FormValue("tipo")
	if tipo == "" {
		tipo = models.DocumentoFirmado
	}

	fileHeader, err := c.FormFile("documento")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "No se recibió ningún archivo")
	}

	contrato, err := services.UploadSignedArtifact(db.DB, cfg.UploadDir, c.Param("id"), tipo, fileHeader)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrContratoNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "Contrato no encontrado")
		case errors.Is(err, services.ErrContratoAnulado):
			return echo.NewHTTPError(http.StatusConflict, "El contrato está anulado")
		case errors.Is(err, services.ErrEstadoInvalido):
			return echo.NewHTTPError(http.StatusConflict, "El contrato ya tiene un documento firmado o autenticado")
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	return c.JSON(http.StatusOK, contrato)
}

// DownloadDocumentoFirmadoHandler serves a previously uploaded artifact
func DownloadDocumentoFirmadoHandler(c echo.Context) error {
	contrato, err := services.GetContrato(db.DB, c.Param("id"))
	if err != nil {
		if errors.Is(err, services.ErrContratoNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Contrato no encontrado")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch contrato")
	}

	ruta, err := services.ArtifactPath(contrato, c.Param("tipo"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Documento no encontrado")
	}

	return c.Attachment(ruta, fmt.Sprintf("%s-%s.pdf", contrato.Folio, c.Param("tipo")))
}
