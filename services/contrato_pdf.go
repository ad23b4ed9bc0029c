package services

import (
	"fmt"
	"strings"
	"time"

	"asset_flow_app_go/models"
)

// Layout constants, letter page in points
const (
	pdfMarginX            = 40.0
	pdfTopMargin          = 40.0
	pdfLineHeight         = 14.0
	pdfSectionBreakMargin = 150.0
	pdfClauseBreakMargin  = 100.0
)

// Palette
const (
	colorPrimary   = "#2c3e50"
	colorSecondary = "#34495e"
	colorSoft      = "#f8f9fa"
	colorSeparator = "#e0e0e0"
	colorWhite     = "#ffffff"
)

// PartePDF is one contractual party as it appears on the document
type PartePDF struct {
	Nombre        string
	TipoDocumento string
	Documento     string
	EstadoCivil   string
	Direccion     string
	Departamento  string
	Ciudad        string
	Telefono      string
	Email         string
}

// ContratoPDFData carries every contract fact the composer renders. Folio,
// hash and verification code are minted before composition and passed in.
type ContratoPDFData struct {
	Tipo      string
	Folio     string
	Modalidad string

	Vendedor  PartePDF
	Comprador PartePDF

	Valor     float64
	FormaPago string
	Fecha     time.Time

	Objeto        string
	Clausulas     []string
	Observaciones string

	Bienes  []models.Bien
	Resumen ResumenPermuta

	HashDocumento      string
	CodigoVerificacion string
	QR                 []byte // PNG for the verification block
}

type contratoComposer struct {
	c     Canvas
	width float64 // usable content width
}

// ComposeContrato lays the contract out onto the canvas. An explicit
// vertical cursor is threaded through every section: each one receives the
// position to start at and returns the position it actually ended at, so no
// section can overlap the next.
func ComposeContrato(c Canvas, data ContratoPDFData) error {
	cc := &contratoComposer{
		c:     c,
		width: c.PageWidth() - 2*pdfMarginX,
	}

	y := cc.drawEncabezado(data)
	y = cc.drawPartes(y, data)

	if data.Objeto != "" {
		y = cc.drawObjeto(y, data.Objeto)
	}

	if len(data.Bienes) > 0 {
		y = cc.drawBienes(y, data.Bienes)
	}

	y = cc.drawValorFormaPago(y, data)

	if data.Modalidad != models.ModalidadCompraventa && data.Resumen.Aplica() {
		y = cc.drawResumenValores(y, data.Resumen)
	}

	if len(data.Clausulas) > 0 {
		y = cc.drawClausulas(y, data.Clausulas)
	}

	if data.Observaciones != "" {
		y = cc.drawObservaciones(y, data.Observaciones)
	}

	y = cc.drawFirmas(y, data)

	return cc.drawVerificacion(y, data)
}

// ensureRoom starts a new page when the cursor is inside the bottom margin,
// so a block never begins where it cannot fit its opening content.
func (cc *contratoComposer) ensureRoom(y, margin float64) float64 {
	if y > cc.c.PageHeight()-margin {
		cc.c.AddPage()
		return pdfTopMargin
	}
	return y
}

// drawCampo renders one "Label: value" line with a bold label
func (cc *contratoComposer) drawCampo(x, y, width float64, label, value string) {
	style := TextStyle{Size: 9, Bold: true}
	labelText := label + ":"
	cc.c.Text(x, y, width, labelText, style)
	offset := cc.c.TextWidth(labelText+" ", style)
	cc.c.Text(x+offset, y, width-offset, value, TextStyle{Size: 9})
}

// Header band: fixed height, always fits on page 1
func (cc *contratoComposer) drawEncabezado(data ContratoPDFData) float64 {
	cc.c.Rect(pdfMarginX, 40, cc.width, 60, colorPrimary, colorSecondary)

	titulo := fmt.Sprintf("CONTRATO DE %s", strings.ToUpper(data.Tipo))
	cc.c.Text(pdfMarginX, 55, cc.width, titulo, TextStyle{Size: 22, Bold: true, Color: colorWhite, Align: "C"})

	if data.Modalidad != "" {
		cc.c.Text(pdfMarginX, 80, cc.width, fmt.Sprintf("Modalidad: %s", data.Modalidad),
			TextStyle{Size: 12, Color: colorWhite, Align: "C"})
	}

	infoY := 110.0
	cc.c.Text(50, infoY+8, 40, "FOLIO:", TextStyle{Size: 9, Bold: true, Color: colorPrimary})
	cc.c.Text(90, infoY+8, 200, data.Folio, TextStyle{Size: 9})
	cc.c.Text(cc.width-100, infoY+8, 50, "FECHA:", TextStyle{Size: 9, Bold: true, Color: colorPrimary})
	cc.c.Text(cc.width-50, infoY+8, 90, data.Fecha.Format("2006-01-02"), TextStyle{Size: 9})

	return infoY + 45
}

// alturaParte computes a party column's height from its present optional
// fields. Name and document always occupy the first two lines.
func alturaParte(p PartePDF) float64 {
	lineas := 2.0
	for _, campo := range []string{p.EstadoCivil, p.Direccion, p.Ciudad, p.Telefono, p.Email} {
		if campo != "" {
			lineas++
		}
	}
	return lineas*pdfLineHeight + 10
}

// Parties block: two columns, seller left, buyer right. Both column heights
// are measured before anything is boxed; the borders extend to the taller of
// the two so the shorter column still lines up.
func (cc *contratoComposer) drawPartes(y float64, data ContratoPDFData) float64 {
	startY := y
	cc.c.Text(pdfMarginX, startY, cc.width, "PARTES DEL CONTRATO", TextStyle{Size: 14, Bold: true, Color: colorPrimary})

	tableTop := startY + 25
	col1X := pdfMarginX
	col2X := pdfMarginX + cc.width/2
	colWidth := cc.width/2 - 10

	// Measure first: both heights must be known before borders are drawn
	maxHeight := alturaParte(data.Vendedor)
	if h := alturaParte(data.Comprador); h > maxHeight {
		maxHeight = h
	}

	// Column headers
	cc.c.Rect(col1X, tableTop, colWidth, 25, colorSecondary, colorPrimary)
	cc.c.Rect(col2X, tableTop, colWidth, 25, colorSecondary, colorPrimary)
	cc.c.Text(col1X+5, tableTop+8, colWidth-10, "VENDEDOR / ARRENDADOR", TextStyle{Size: 11, Bold: true, Color: colorWhite})
	cc.c.Text(col2X+5, tableTop+8, colWidth-10, "COMPRADOR / ARRENDATARIO", TextStyle{Size: 11, Bold: true, Color: colorWhite})

	cc.drawColumnaParte(col1X, tableTop+30, colWidth, data.Vendedor)
	cc.drawColumnaParte(col2X, tableTop+30, colWidth, data.Comprador)

	cc.c.Rect(col1X, tableTop+25, colWidth, maxHeight, "", colorPrimary)
	cc.c.Rect(col2X, tableTop+25, colWidth, maxHeight, "", colorPrimary)

	return tableTop + 25 + maxHeight + 10
}

func (cc *contratoComposer) drawColumnaParte(x, y, colWidth float64, p PartePDF) {
	cc.drawCampo(x+5, y, colWidth-10, "Nombre", p.Nombre)
	y += pdfLineHeight

	tipoDoc := p.TipoDocumento
	if tipoDoc == "" {
		tipoDoc = "CC"
	}
	cc.drawCampo(x+5, y, colWidth-10, "Documento", fmt.Sprintf("%s %s", tipoDoc, p.Documento))

	campos := []struct{ label, value string }{
		{"Estado Civil", p.EstadoCivil},
		{"Dirección", p.Direccion},
		{"Ciudad", p.Ciudad},
		{"Teléfono", p.Telefono},
		{"Email", p.Email},
	}
	for _, campo := range campos {
		if campo.value == "" {
			continue
		}
		y += pdfLineHeight
		cc.drawCampo(x+5, y, colWidth-10, campo.label, campo.value)
	}
}

// Object-of-contract block. The paragraph is rendered first so the flow
// primitive reports where it actually stopped, and only then is the
// surrounding extent closed off: justified wrapping length is not
// predictable up front.
func (cc *contratoComposer) drawObjeto(y float64, objeto string) float64 {
	y = cc.ensureRoom(y, pdfSectionBreakMargin)

	cc.c.Text(pdfMarginX, y, cc.width, "OBJETO DEL CONTRATO", TextStyle{Size: 14, Bold: true, Color: colorPrimary})

	boxY := y + 18
	endY := cc.c.TextFlow(50, boxY+8, cc.width-20, objeto, TextStyle{Size: 10, Align: "J"})

	boxHeight := endY - boxY + 5
	return boxY + boxHeight + 5
}

// Goods block: one sub-block per good, field set conditioned on the kind
func (cc *contratoComposer) drawBienes(y float64, bienes []models.Bien) float64 {
	y = cc.ensureRoom(y, pdfSectionBreakMargin)

	titulo := "INFORMACIÓN DEL BIEN"
	switch {
	case bienes[0].EsVehicular():
		titulo = "INFORMACIÓN DEL VEHÍCULO"
	case bienes[0].TipoBien == models.TipoBienPropiedad:
		titulo = "INFORMACIÓN DE LA PROPIEDAD"
	}
	cc.c.Text(pdfMarginX, y, cc.width, titulo, TextStyle{Size: 14, Bold: true, Color: colorPrimary})
	y += 25

	for i, bien := range bienes {
		y = cc.ensureRoom(y, pdfSectionBreakMargin)
		switch {
		case bien.EsVehicular() && bien.Vehiculo != nil:
			y = cc.drawVehiculo(y, bien)
		case bien.TipoBien == models.TipoBienPropiedad && bien.Inmueble != nil:
			y = cc.drawInmueble(y, bien)
		default:
			y = cc.drawBienGenerico(y, bien)
		}
		if i < len(bienes)-1 {
			y += pdfLineHeight
		}
	}

	return y
}

// campoLinea is one optional label/value row inside a goods column
type campoLinea struct {
	label string
	value string
}

// drawColumnaCampos renders the present rows of one column and reports the
// cursor after the last drawn line.
func (cc *contratoComposer) drawColumnaCampos(x, y, colWidth float64, campos []campoLinea) float64 {
	for _, campo := range campos {
		if campo.value == "" {
			continue
		}
		cc.drawCampo(x+5, y, colWidth-10, campo.label, campo.value)
		y += pdfLineHeight
	}
	return y
}

func (cc *contratoComposer) drawVehiculo(y float64, bien models.Bien) float64 {
	v := bien.Vehiculo
	startY := y
	col1X := pdfMarginX
	col2X := pdfMarginX + cc.width/2
	colWidth := cc.width/2 - 10

	cc.c.Rect(col1X, startY, cc.width, 25, colorSecondary, colorPrimary)
	cc.c.Text(col1X+5, startY+8, cc.width-10, "VEHÍCULO", TextStyle{Size: 11, Bold: true, Color: colorWhite})

	marcaModelo := strings.TrimSpace(fmt.Sprintf("%s %s %s", v.Marca, v.Modelo, numeroOpcional(v.Anio)))

	// Basic identification on the left
	col1 := []campoLinea{
		{"Marca/Modelo/Año", marcaModelo},
		{"Placa", v.Placa},
		{"Clase", v.Clase},
		{"Línea", v.Linea},
		{"Tipo", v.Tipo},
		{"Color", v.Color},
		{"Servicio", v.Servicio},
		{"Cilindraje", sufijoOpcional(v.Cilindraje, "cc")},
		{"Combustible", v.TipoCombustible},
		{"Capacidad", sufijoOpcional(v.Capacidad, "pasajeros")},
		{"Km Compra", sufijoOpcional(v.KilometrajeCompra, "km")},
		{"Km Actual", sufijoOpcional(v.KilometrajeActual, "km")},
	}

	// Technical and legal identification on the right
	col2 := []campoLinea{
		{"Número de Motor", v.NumeroMotor},
		{"Número de Chasis", v.NumeroChasis},
		{"Número de Carrocería", v.NumeroCarroceria},
		{"Serie", v.Serie},
		{"Estado Impuestos", v.EstadoImpuestos},
	}
	if v.EstadoImpuestos == "Debe" && v.AniosImpuestosPendientes != "" {
		col2 = append(col2, campoLinea{"Años Pendientes", v.AniosImpuestosPendientes})
	}
	embargos := "No"
	if v.TieneEmbargos {
		embargos = "Sí"
	}
	col2 = append(col2,
		campoLinea{"Embargos", embargos},
		campoLinea{"Número SOAT", v.NumeroSOAT},
		campoLinea{"Aseguradora SOAT", v.AseguradoraSOAT},
		campoLinea{"Vence SOAT", v.FechaVencimientoSOAT},
		campoLinea{"Vence Tecnomecánica", v.FechaVencimientoTecnomecanica},
	)

	col1Y := cc.drawColumnaCampos(col1X, startY+30, colWidth, col1)
	col2Y := cc.drawColumnaCampos(col2X, startY+30, colWidth, col2)

	// Border height comes from the rendered content, not a precomputed guess
	maxY := col1Y
	if col2Y > maxY {
		maxY = col2Y
	}
	maxHeight := maxY - (startY + 25) + 10

	cc.c.Rect(col1X, startY+25, colWidth, maxHeight, "", colorPrimary)
	cc.c.Rect(col2X, startY+25, colWidth, maxHeight, "", colorPrimary)

	return startY + 25 + maxHeight + 10
}

func (cc *contratoComposer) drawInmueble(y float64, bien models.Bien) float64 {
	p := bien.Inmueble
	startY := y
	col1X := pdfMarginX
	col2X := pdfMarginX + cc.width/2
	colWidth := cc.width/2 - 10

	cc.c.Rect(col1X, startY, cc.width, 25, colorSecondary, colorPrimary)
	cc.c.Text(col1X+5, startY+8, cc.width-10, "PROPIEDAD", TextStyle{Size: 11, Bold: true, Color: colorWhite})

	col1 := []campoLinea{
		{"Tipo", p.TipoInmueble},
		{"Dirección", p.DireccionCompleta},
		{"Municipio", p.Municipio},
		{"Barrio", p.Barrio},
		{"Matrícula", p.MatriculaInmobiliaria},
		{"Cédula Catastral", p.CedulaCatastral},
		{"Escritura", p.EscrituraPublicaNumero},
		{"Notaría", p.NotariaEscritura},
	}

	col2 := []campoLinea{
		{"Área construida", sufijoDecimalOpcional(p.AreaConstruida, "m²")},
		{"Área terreno", sufijoDecimalOpcional(p.AreaTerreno, "m²")},
		{"Estrato", numeroOpcional(p.Estrato)},
	}
	if p.NumeroHabitaciones > 0 || p.NumeroBanos > 0 {
		col2 = append(col2, campoLinea{"Habitaciones/Baños", fmt.Sprintf("%d/%d", p.NumeroHabitaciones, p.NumeroBanos)})
	}
	if p.TieneHipoteca {
		col2 = append(col2, campoLinea{"Hipoteca", valorODefecto(p.EntidadHipoteca, "Sí")})
	}
	col2 = append(col2, campoLinea{"Valor comercial", "$" + formatMoneda(bien.ValorComercial)})

	col1Y := cc.drawColumnaCampos(col1X, startY+30, colWidth, col1)
	col2Y := cc.drawColumnaCampos(col2X, startY+30, colWidth, col2)

	maxY := col1Y
	if col2Y > maxY {
		maxY = col2Y
	}
	// Keep a minimum box depth so sparse records still read as a block
	if minY := startY + 30 + 5*pdfLineHeight; maxY < minY {
		maxY = minY
	}
	maxHeight := maxY - (startY + 25)

	cc.c.Rect(col1X, startY+25, colWidth, maxHeight, "", colorPrimary)
	cc.c.Rect(col2X, startY+25, colWidth, maxHeight, "", colorPrimary)

	return startY + 25 + maxHeight + 10
}

func (cc *contratoComposer) drawBienGenerico(y float64, bien models.Bien) float64 {
	startY := y
	cc.c.Rect(pdfMarginX, startY, cc.width, 25, colorSecondary, colorPrimary)
	cc.c.Text(pdfMarginX+5, startY+8, cc.width-10, "BIEN", TextStyle{Size: 11, Bold: true, Color: colorWhite})

	campos := []campoLinea{
		{"Descripción", bien.DescripcionBien},
		{"Valor comercial", "$" + formatMoneda(bien.ValorComercial)},
	}
	endY := cc.drawColumnaCampos(pdfMarginX, startY+30, cc.width, campos)

	height := endY - (startY + 25) + 10
	cc.c.Rect(pdfMarginX, startY+25, cc.width, height, "", colorPrimary)

	return startY + 25 + height + 10
}

// Value and payment block: small fixed box, fits on the current page
func (cc *contratoComposer) drawValorFormaPago(y float64, data ContratoPDFData) float64 {
	startY := y
	cc.c.Text(pdfMarginX, startY, cc.width, "VALOR Y FORMA DE PAGO", TextStyle{Size: 14, Bold: true, Color: colorPrimary})

	boxY := startY + 25
	boxHeight := 50.0
	cc.c.Rect(pdfMarginX, boxY, cc.width, boxHeight, colorSoft, colorPrimary)

	cc.drawCampo(50, boxY+12, cc.width-20, "Valor del contrato", "$"+formatMoneda(data.Valor))
	cc.drawCampo(50, boxY+30, cc.width-20, "Forma de pago", data.FormaPago)

	return boxY + boxHeight + 10
}

// Permuta summary: given/received totals and the balancing payment
func (cc *contratoComposer) drawResumenValores(y float64, resumen ResumenPermuta) float64 {
	y = cc.ensureRoom(y, pdfSectionBreakMargin)

	boxY := y
	cc.c.Text(pdfMarginX, boxY, cc.width, "RESUMEN DE VALORES", TextStyle{Size: 12, Bold: true, Color: colorPrimary})

	summaryY := boxY + 25
	boxHeight := 80.0
	cc.c.Rect(pdfMarginX, summaryY, cc.width, boxHeight, colorSoft, colorPrimary)

	cc.drawCampo(50, summaryY+12, cc.width-20, "Valor total entregado", "$"+formatMoneda(resumen.ValorTotalEntrega))
	cc.drawCampo(50, summaryY+30, cc.width-20, "Valor total recibido", "$"+formatMoneda(resumen.ValorTotalRecibe))

	if resumen.DiferenciaValor > 0 {
		cc.drawCampo(50, summaryY+48, cc.width-20, "Diferencia de valor", "$"+formatMoneda(resumen.DiferenciaValor))
		if resumen.QuienPagaDiferencia != "" {
			cc.drawCampo(50, summaryY+66, cc.width-20, "Quien paga la diferencia", resumen.QuienPagaDiferencia)
		}
	}

	return summaryY + boxHeight + 10
}

// Clauses block: Roman-numbered, each clause page-break-checked before it is
// rendered. A clause is never started inside the bottom margin, but a single
// clause longer than a page flows on through the text primitive.
func (cc *contratoComposer) drawClausulas(y float64, clausulas []string) float64 {
	y = cc.ensureRoom(y, pdfSectionBreakMargin)

	cc.c.Text(pdfMarginX, y, cc.width, "CLÁUSULAS", TextStyle{Size: 14, Bold: true, Color: colorPrimary})
	y += 25

	for i, clausula := range clausulas {
		y = cc.ensureRoom(y, pdfClauseBreakMargin)

		numero := numeroRomano(i+1) + "."
		cc.c.Text(50, y, 30, numero, TextStyle{Size: 10, Bold: true})
		offset := cc.c.TextWidth(numero+" ", TextStyle{Size: 10, Bold: true})
		y = cc.c.TextFlow(50+offset, y, cc.width-60-offset, clausula, TextStyle{Size: 10, Align: "J"})
		y += pdfLineHeight * 0.8
	}

	cc.c.Line(pdfMarginX, y, pdfMarginX+cc.width, y, colorSeparator)
	return y + pdfLineHeight*0.5
}

// Observations block: same break and measure pattern as clauses
func (cc *contratoComposer) drawObservaciones(y float64, observaciones string) float64 {
	y = cc.ensureRoom(y, pdfSectionBreakMargin)

	cc.c.Text(pdfMarginX, y, cc.width, "OBSERVACIONES ADICIONALES", TextStyle{Size: 14, Bold: true, Color: colorPrimary})
	y += 25

	y = cc.c.TextFlow(50, y, cc.width-20, observaciones, TextStyle{Size: 10, Align: "J"})
	y += pdfLineHeight

	cc.c.Line(pdfMarginX, y, pdfMarginX+cc.width, y, colorSeparator)
	return y + pdfLineHeight*0.5
}

// Signature block: signing-date sentence, then two equal columns with blank
// signature lines and role labels
func (cc *contratoComposer) drawFirmas(y float64, data ContratoPDFData) float64 {
	y = cc.ensureRoom(y, pdfSectionBreakMargin)

	dia, mes, anio := fechaTexto(data.Fecha)
	ciudad := data.Vendedor.Ciudad
	if ciudad == "" {
		ciudad = data.Comprador.Ciudad
	}
	if ciudad == "" {
		ciudad = "Cúcuta"
	}
	frase := fmt.Sprintf("Este documento se firma el día %s del mes de %s del año %s en la Ciudad de %s.", dia, mes, anio, ciudad)
	y = cc.c.TextFlow(pdfMarginX, y+2*pdfLineHeight, cc.width, frase, TextStyle{Size: 10, Align: "C"})

	y += 2 * pdfLineHeight
	y = cc.c.Text(pdfMarginX, y, cc.width, "FIRMAS", TextStyle{Size: 12, Bold: true, Align: "C"})
	y += 2 * pdfLineHeight

	firmaWidth := (cc.c.PageWidth() - 100) / 2
	cc.c.Text(50, y, firmaWidth, "_____________________", TextStyle{Size: 10, Align: "C"})
	y = cc.c.Text(50+firmaWidth, y, firmaWidth, "_____________________", TextStyle{Size: 10, Align: "C"})
	cc.c.Text(50, y, firmaWidth, "Vendedor", TextStyle{Size: 10, Align: "C"})
	y = cc.c.Text(50+firmaWidth, y, firmaWidth, "Comprador", TextStyle{Size: 10, Align: "C"})

	return y + 3*pdfLineHeight
}

// Verification block: QR with the verification payload plus the truncated
// hash in human-readable form
func (cc *contratoComposer) drawVerificacion(y float64, data ContratoPDFData) error {
	y = cc.ensureRoom(y, pdfClauseBreakMargin)

	if err := cc.c.Image(data.QR, 50, y, 80); err != nil {
		return err
	}

	hashCorto := data.HashDocumento
	if len(hashCorto) > 32 {
		hashCorto = hashCorto[:32]
	}
	textY := cc.c.Text(140, y+20, cc.width-140, fmt.Sprintf("Hash: %s...", hashCorto), TextStyle{Size: 8})
	cc.c.Text(140, textY, cc.width-140, fmt.Sprintf("Código verificación: %s", data.CodigoVerificacion), TextStyle{Size: 8})

	return nil
}

// formatMoneda renders a value with es-CO thousands separators: 50000000
// becomes "50.000.000".
func formatMoneda(valor float64) string {
	entero := fmt.Sprintf("%.0f", valor)
	negativo := strings.HasPrefix(entero, "-")
	if negativo {
		entero = entero[1:]
	}

	var partes []string
	for len(entero) > 3 {
		partes = append([]string{entero[len(entero)-3:]}, partes...)
		entero = entero[:len(entero)-3]
	}
	partes = append([]string{entero}, partes...)

	out := strings.Join(partes, ".")
	if negativo {
		out = "-" + out
	}
	return out
}

var romanos = []string{"I", "II", "III", "IV", "V", "VI", "VII", "VIII", "IX", "X"}

// numeroRomano numbers clauses I..X; beyond that the arabic number is used
func numeroRomano(n int) string {
	if n >= 1 && n <= len(romanos) {
		return romanos[n-1]
	}
	return fmt.Sprintf("%d", n)
}

var meses = []string{
	"enero", "febrero", "marzo", "abril", "mayo", "junio",
	"julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre",
}

// fechaTexto renders a date as the Spanish long-form pieces used in the
// signing sentence
func fechaTexto(fecha time.Time) (dia, mes, anio string) {
	return fmt.Sprintf("%02d", fecha.Day()), meses[fecha.Month()-1], fmt.Sprintf("%d", fecha.Year())
}

func numeroOpcional(n int) string {
	if n == 0 {
		return ""
	}
	return fmt.Sprintf("%d", n)
}

func sufijoOpcional(n int, sufijo string) string {
	if n == 0 {
		return ""
	}
	return fmt.Sprintf("%s %s", formatMoneda(float64(n)), sufijo)
}

func sufijoDecimalOpcional(n float64, sufijo string) string {
	if n == 0 {
		return ""
	}
	return fmt.Sprintf("%g %s", n, sufijo)
}

func valorODefecto(valor, defecto string) string {
	if valor == "" {
		return defecto
	}
	return valor
}
