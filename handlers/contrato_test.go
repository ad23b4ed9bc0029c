package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"strings"
	"testing"

	"asset_flow_app_go/models"
	"asset_flow_app_go/services"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func contratoPayload() string {
	return `{
		"tipo_contrato": "Vehículo",
		"modalidad_contrato": "Permuta",
		"vendedor": {"nombre": "Ana Ríos", "tipo_documento": "CC", "documento": "1090123456", "ciudad": "Cúcuta"},
		"comprador": {"nombre": "Luis Paz", "tipo_documento": "CC", "documento": "1090654321"},
		"bienes": [
			{"tipo_bien": "Vehiculo", "rol": "Entrega", "parte": "Vendedor", "valor_comercial": 50000000,
			 "descripcion_bien": "Mazda CX-30 2022",
			 "vehiculo": {"marca": "Mazda", "modelo": "CX-30", "anio": 2022, "placa": "ABC123"}},
			{"tipo_bien": "Vehiculo", "rol": "Recibe", "parte": "Vendedor", "valor_comercial": "65000000",
			 "descripcion_bien": "Toyota Hilux 2023",
			 "vehiculo": {"marca": "Toyota", "modelo": "Hilux", "anio": 2023, "placa": "XYZ789"}}
		],
		"valor_contrato": 50000000,
		"forma_pago": "Permuta más saldo en efectivo",
		"fecha_contrato": "2026-08-15",
		"clausulas": ["El vendedor entrega el vehículo saneado.", "El comprador asume el traspaso."]
	}`
}

func createTestContrato(t *testing.T) *models.Contrato {
	_, c, rec := setupEcho(t, http.MethodPost, "/api/contratos", strings.NewReader(contratoPayload()))

	err := CreateContratoHandler(c)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusCreated, rec.Code)

	var contrato models.Contrato
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &contrato))
	return &contrato
}

func TestCreateContratoHandler(t *testing.T) {
	setupTestDB(t)

	contrato := createTestContrato(t)
	assert.Equal(t, "CONT-2026-00001", contrato.Folio)
	assert.Equal(t, models.EstadoGenerado, contrato.EstadoContrato)
	assert.Contains(t, contrato.CodigoVerificacion, "|")
	assert.NotNil(t, contrato.DiferenciaValor)
	assert.Equal(t, 15000000.0, *contrato.DiferenciaValor)
}

func TestCreateContratoHandler_CuerpoInvalido(t *testing.T) {
	setupTestDB(t)

	_, c, _ := setupEcho(t, http.MethodPost, "/api/contratos", strings.NewReader(`{"tipo_contrato": ""}`))

	err := CreateContratoHandler(c)
	httpErr, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, httpErr.Code)
}

func TestCreateContratoHandler_FechaInvalida(t *testing.T) {
	setupTestDB(t)

	payload := strings.Replace(contratoPayload(), "2026-08-15", "15/08/2026", 1)
	_, c, _ := setupEcho(t, http.MethodPost, "/api/contratos", strings.NewReader(payload))

	err := CreateContratoHandler(c)
	httpErr, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, httpErr.Code)
}

func TestCreateContratoHandler_ActivoInexistente(t *testing.T) {
	setupTestDB(t)

	payload := `{
		"tipo_contrato": "Vehículo",
		"vendedor": {"nombre": "Ana Ríos", "documento": "1090123456"},
		"comprador": {"nombre": "Luis Paz", "documento": "1090654321"},
		"vehiculo_id": "no-existe",
		"valor_contrato": 50000000,
		"forma_pago": "Contado"
	}`
	_, c, _ := setupEcho(t, http.MethodPost, "/api/contratos", strings.NewReader(payload))

	err := CreateContratoHandler(c)
	httpErr, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusNotFound, httpErr.Code)
}

func TestGetContratosHandler(t *testing.T) {
	setupTestDB(t)
	createTestContrato(t)
	createTestContrato(t)

	_, c, rec := setupEcho(t, http.MethodGet, "/api/contratos", nil)
	assert.NoError(t, GetContratosHandler(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var contratos []models.Contrato
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &contratos))
	assert.Len(t, contratos, 2)
}

func TestGetContratoHandler(t *testing.T) {
	setupTestDB(t)
	contrato := createTestContrato(t)

	_, c, rec := setupEcho(t, http.MethodGet, "/api/contratos/"+contrato.ID, nil)
	c.SetParamNames("id")
	c.SetParamValues(contrato.ID)

	assert.NoError(t, GetContratoHandler(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var fetched models.Contrato
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &fetched))
	assert.Equal(t, contrato.Folio, fetched.Folio)
	assert.Len(t, fetched.Bienes, 2)
}

func TestGetContratoHandler_NoEncontrado(t *testing.T) {
	setupTestDB(t)

	_, c, _ := setupEcho(t, http.MethodGet, "/api/contratos/no-existe", nil)
	c.SetParamNames("id")
	c.SetParamValues("no-existe")

	err := GetContratoHandler(c)
	httpErr, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusNotFound, httpErr.Code)
}

func TestDownloadContratoHandler(t *testing.T) {
	setupTestDB(t)
	contrato := createTestContrato(t)

	_, c, rec := setupEcho(t, http.MethodGet, "/api/contratos/"+contrato.ID+"/descargar", nil)
	c.SetParamNames("id")
	c.SetParamValues(contrato.ID)

	assert.NoError(t, DownloadContratoHandler(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get(echo.HeaderContentType))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")))
}

func TestAnularContratoHandler(t *testing.T) {
	setupTestDB(t)
	contrato := createTestContrato(t)

	body := strings.NewReader(`{"motivo": "error en los datos"}`)
	_, c, rec := setupEcho(t, http.MethodPut, "/api/contratos/"+contrato.ID+"/anular", body)
	c.SetParamNames("id")
	c.SetParamValues(contrato.ID)

	assert.NoError(t, AnularContratoHandler(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var anulado models.Contrato
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &anulado))
	assert.Equal(t, models.EstadoAnulado, anulado.EstadoContrato)
	assert.Equal(t, "ANULADO: error en los datos", *anulado.ObservacionesAdicionales)

	// A second annulment conflicts
	_, c, _ = setupEcho(t, http.MethodPut, "/api/contratos/"+contrato.ID+"/anular", strings.NewReader(`{"motivo": "otra vez"}`))
	c.SetParamNames("id")
	c.SetParamValues(contrato.ID)

	err := AnularContratoHandler(c)
	httpErr, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusConflict, httpErr.Code)
}

func TestVerificarContratoHandler(t *testing.T) {
	setupTestDB(t)
	contrato := createTestContrato(t)

	_, c, rec := setupEcho(t, http.MethodGet, "/api/contratos/verificar/"+contrato.CodigoVerificacion, nil)
	c.SetParamNames("codigo")
	c.SetParamValues(contrato.CodigoVerificacion)

	assert.NoError(t, VerificarContratoHandler(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var result services.VerificacionResult
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.True(t, result.Valido)
	assert.Equal(t, contrato.ID, result.Contrato.ID)

	// Unknown codes answer 404 with an invalid result body
	_, c, rec = setupEcho(t, http.MethodGet, "/api/contratos/verificar/desconocido", nil)
	c.SetParamNames("codigo")
	c.SetParamValues("desconocido")

	assert.NoError(t, VerificarContratoHandler(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func uploadRequest(t *testing.T, tipo string, content []byte) (*bytes.Buffer, string) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	assert.NoError(t, writer.WriteField("tipo", tipo))
	part, err := writer.CreateFormFile("documento", "documento.pdf")
	assert.NoError(t, err)
	_, err = part.Write(content)
	assert.NoError(t, err)
	assert.NoError(t, writer.Close())
	return &body, writer.FormDataContentType()
}

func TestUploadDocumentoFirmadoHandler(t *testing.T) {
	setupTestDB(t)
	contrato := createTestContrato(t)

	body, contentType := uploadRequest(t, models.DocumentoFirmado, []byte("%PDF-1.4\ncontenido firmado\n%%EOF"))
	_, c, rec := setupEcho(t, http.MethodPost, fmt.Sprintf("/api/contratos/%s/documento-firmado", contrato.ID), body)
	c.Request().Header.Set(echo.HeaderContentType, contentType)
	c.SetParamNames("id")
	c.SetParamValues(contrato.ID)

	assert.NoError(t, UploadDocumentoFirmadoHandler(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var actualizado models.Contrato
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &actualizado))
	assert.Equal(t, models.EstadoFirmado, actualizado.EstadoContrato)
	assert.NotNil(t, actualizado.RutaDocumentoFirmado)

	// A second upload conflicts now that the state moved on
	body, contentType = uploadRequest(t, models.DocumentoAutenticado, []byte("%PDF-1.4\ncopia autenticada\n%%EOF"))
	_, c, _ = setupEcho(t, http.MethodPost, fmt.Sprintf("/api/contratos/%s/documento-firmado", contrato.ID), body)
	c.Request().Header.Set(echo.HeaderContentType, contentType)
	c.SetParamNames("id")
	c.SetParamValues(contrato.ID)

	err := UploadDocumentoFirmadoHandler(c)
	httpErr, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusConflict, httpErr.Code)
}

func TestUploadDocumentoFirmadoHandler_SinArchivo(t *testing.T) {
	setupTestDB(t)
	contrato := createTestContrato(t)

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	assert.NoError(t, writer.WriteField("tipo", models.DocumentoFirmado))
	assert.NoError(t, writer.Close())

	_, c, _ := setupEcho(t, http.MethodPost, fmt.Sprintf("/api/contratos/%s/documento-firmado", contrato.ID), &body)
	c.Request().Header.Set(echo.HeaderContentType, writer.FormDataContentType())
	c.SetParamNames("id")
	c.SetParamValues(contrato.ID)

	err := UploadDocumentoFirmadoHandler(c)
	httpErr, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, httpErr.Code)
}
