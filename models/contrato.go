package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Contract lifecycle states
const (
	EstadoGenerado    = "Generado"
	EstadoFirmado     = "Firmado"
	EstadoAutenticado = "Autenticado"
	EstadoAnulado     = "Anulado"
)

// Contract modalities
const (
	ModalidadCompraventa     = "Compraventa"
	ModalidadPermuta         = "Permuta"
	ModalidadPermutaConSaldo = "Permuta con Saldo"
	ModalidadArrendamiento   = "Arrendamiento"
	ModalidadComodato        = "Comodato"
	ModalidadCesionDerechos  = "Cesión de Derechos"
	ModalidadDacionEnPago    = "Dación en Pago"
	ModalidadPromesa         = "Promesa"
	ModalidadTransaccion     = "Transacción"
	ModalidadContratoMixto   = "Contrato Mixto"
	ModalidadPersonalizado   = "Personalizado"
	ModalidadOtro            = "Otro"
)

// Post-generation artifact kinds
const (
	DocumentoFirmado     = "firmado"
	DocumentoAutenticado = "autenticado"
)

// Parte is the contractual side that owes the permuta balance
const (
	ParteVendedor  = "Vendedor"
	ParteComprador = "Comprador"
)

// Contrato is the legal document record. Folio, CodigoVerificacion and
// HashDocumento are assigned once at generation time and never change.
type Contrato struct {
	ID        string         `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Identity
	TipoContrato string `gorm:"size:50;not null" json:"tipo_contrato"`
	Folio        string `gorm:"size:50;not null;uniqueIndex" json:"folio"`

	// Seller
	VendedorNombre        string  `gorm:"size:200;not null" json:"vendedor_nombre"`
	VendedorTipoDocumento string  `gorm:"size:20;default:CC" json:"vendedor_tipo_documento"`
	VendedorDocumento     string  `gorm:"size:50;not null" json:"vendedor_documento"`
	VendedorEstadoCivil   *string `gorm:"size:50" json:"vendedor_estado_civil,omitempty"`
	VendedorDireccion     *string `gorm:"size:300" json:"vendedor_direccion,omitempty"`
	VendedorDepartamento  *string `gorm:"size:100" json:"vendedor_departamento,omitempty"`
	VendedorCiudad        *string `gorm:"size:100" json:"vendedor_ciudad,omitempty"`
	VendedorTelefono      *string `gorm:"size:50" json:"vendedor_telefono,omitempty"`
	VendedorEmail         *string `gorm:"size:255" json:"vendedor_email,omitempty"`

	// Buyer
	CompradorNombre        string  `gorm:"size:200;not null" json:"comprador_nombre"`
	CompradorTipoDocumento string  `gorm:"size:20;default:CC" json:"comprador_tipo_documento"`
	CompradorDocumento     string  `gorm:"size:50;not null" json:"comprador_documento"`
	CompradorEstadoCivil   *string `gorm:"size:50" json:"comprador_estado_civil,omitempty"`
	CompradorDireccion     *string `gorm:"size:300" json:"comprador_direccion,omitempty"`
	CompradorDepartamento  *string `gorm:"size:100" json:"comprador_departamento,omitempty"`
	CompradorCiudad        *string `gorm:"size:100" json:"comprador_ciudad,omitempty"`
	CompradorTelefono      *string `gorm:"size:50" json:"comprador_telefono,omitempty"`
	CompradorEmail         *string `gorm:"size:255" json:"comprador_email,omitempty"`

	// Legacy single-asset references
	VehiculoID  *string `gorm:"type:uuid" json:"vehiculo_id,omitempty"`
	PropiedadID *string `gorm:"type:uuid" json:"propiedad_id,omitempty"`

	// Commercial terms
	ValorContrato float64    `gorm:"not null" json:"valor_contrato"`
	FormaPago     string     `gorm:"size:100;not null" json:"forma_pago"`
	NumeroCuotas  *int       `json:"numero_cuotas,omitempty"`
	ValorCuota    *float64   `json:"valor_cuota,omitempty"`
	FechaContrato time.Time  `gorm:"not null" json:"fecha_contrato"`
	FechaInicio   *time.Time `json:"fecha_inicio,omitempty"`
	FechaFin      *time.Time `json:"fecha_fin,omitempty"`

	// Content
	Clausulas                *string `gorm:"type:text" json:"clausulas,omitempty"`
	ObjetoContrato           *string `gorm:"type:text" json:"objeto_contrato,omitempty"`
	ObservacionesAdicionales *string `gorm:"type:text" json:"observaciones_adicionales,omitempty"`

	// Modality and permuta accounting
	ModalidadContrato   string   `gorm:"size:50;default:Compraventa" json:"modalidad_contrato"`
	ValorTotalEntrega   *float64 `json:"valor_total_entrega,omitempty"`
	ValorTotalRecibe    *float64 `json:"valor_total_recibe,omitempty"`
	DiferenciaValor     *float64 `json:"diferencia_valor,omitempty"`
	QuienPagaDiferencia *string  `gorm:"size:20" json:"quien_paga_diferencia,omitempty"`

	// Lifecycle
	EstadoContrato           string     `gorm:"size:50;not null;default:Generado" json:"estado_contrato"`
	HashDocumento            string     `gorm:"size:500;not null" json:"hash_documento"`
	CodigoVerificacion       string     `gorm:"size:100;not null;uniqueIndex" json:"codigo_verificacion"`
	RutaArchivo              string     `gorm:"size:500" json:"ruta_archivo"`
	NombreArchivo            string     `gorm:"size:200" json:"nombre_archivo"`
	RutaDocumentoFirmado     *string    `gorm:"size:500" json:"ruta_documento_firmado,omitempty"`
	RutaDocumentoAutenticado *string    `gorm:"size:500" json:"ruta_documento_autenticado,omitempty"`
	FechaFirma               *time.Time `json:"fecha_firma,omitempty"`
	TipoDocumentoFirmado     *string    `gorm:"size:20" json:"tipo_documento_firmado,omitempty"`

	// Relationships
	Bienes []BienContrato `gorm:"foreignKey:ContratoID;constraint:OnDelete:CASCADE" json:"bienes,omitempty"`
}

// BeforeCreate hook to generate UUID
func (c *Contrato) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for Contrato model
func (Contrato) TableName() string {
	return "contratos"
}

// IsAnulado checks if the contract has been annulled
func (c *Contrato) IsAnulado() bool {
	return c.EstadoContrato == EstadoAnulado
}

// CanReceiveArtifact reports whether a signed/notarized document upload is
// legal. Uploads are gated on the Generado state only: once either artifact
// kind lands, the other kind becomes unreachable.
func (c *Contrato) CanReceiveArtifact() bool {
	return c.EstadoContrato == EstadoGenerado
}

// CanAnnul reports whether the contract can still be annulled
func (c *Contrato) CanAnnul() bool {
	return !c.IsAnulado()
}

// EstadoForArtifact maps an artifact kind to the lifecycle state it produces
func EstadoForArtifact(tipo string) string {
	if tipo == DocumentoAutenticado {
		return EstadoAutenticado
	}
	return EstadoFirmado
}

// IsValidTipoDocumentoFirmado checks the artifact kind
func IsValidTipoDocumentoFirmado(tipo string) bool {
	return tipo == DocumentoFirmado || tipo == DocumentoAutenticado
}

// IsValidModalidad checks if the modality is one of the supported legal forms
func IsValidModalidad(modalidad string) bool {
	validModalidades := []string{
		ModalidadCompraventa,
		ModalidadPermuta,
		ModalidadPermutaConSaldo,
		ModalidadArrendamiento,
		ModalidadComodato,
		ModalidadCesionDerechos,
		ModalidadDacionEnPago,
		ModalidadPromesa,
		ModalidadTransaccion,
		ModalidadContratoMixto,
		ModalidadPersonalizado,
		ModalidadOtro,
	}
	for _, m := range validModalidades {
		if m == modalidad {
			return true
		}
	}
	return false
}

// IsValidEstadoContrato checks if the state is valid
func IsValidEstadoContrato(estado string) bool {
	switch estado {
	case EstadoGenerado, EstadoFirmado, EstadoAutenticado, EstadoAnulado:
		return true
	}
	return false
}
