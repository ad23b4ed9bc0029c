package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Good kinds
const (
	TipoBienVehiculo  = "Vehiculo"
	TipoBienMoto      = "Moto"
	TipoBienPropiedad = "Propiedad"
	TipoBienOtro      = "Otro"
)

// Good roles within the exchange
const (
	RolEntrega = "Entrega"
	RolRecibe  = "Recibe"
)

// DetalleVehiculo is the denormalized vehicle snapshot taken at contract
// time. It is never re-synced with the source record.
type DetalleVehiculo struct {
	Marca                         string `json:"marca,omitempty"`
	Linea                         string `json:"linea,omitempty"`
	Modelo                        string `json:"modelo,omitempty"`
	Anio                          int    `json:"anio,omitempty"`
	Placa                         string `json:"placa,omitempty"`
	Clase                         string `json:"clase,omitempty"`
	Tipo                          string `json:"tipo,omitempty"`
	Color                         string `json:"color,omitempty"`
	Servicio                      string `json:"servicio,omitempty"`
	Cilindraje                    int    `json:"cilindraje,omitempty"`
	TipoCombustible               string `json:"tipo_combustible,omitempty"`
	Capacidad                     int    `json:"capacidad,omitempty"`
	KilometrajeCompra             int    `json:"kilometraje_compra,omitempty"`
	KilometrajeActual             int    `json:"kilometraje_actual,omitempty"`
	NumeroMotor                   string `json:"numero_motor,omitempty"`
	NumeroChasis                  string `json:"numero_chasis,omitempty"`
	NumeroCarroceria              string `json:"numero_carroceria,omitempty"`
	Serie                         string `json:"serie,omitempty"`
	NumeroSOAT                    string `json:"numero_soat,omitempty"`
	AseguradoraSOAT               string `json:"aseguradora_soat,omitempty"`
	FechaVencimientoSOAT          string `json:"fecha_vencimiento_soat,omitempty"`
	FechaVencimientoTecnomecanica string `json:"fecha_vencimiento_tecnomecanica,omitempty"`
	EstadoImpuestos               string `json:"estado_impuestos,omitempty"`
	AniosImpuestosPendientes      string `json:"anios_impuestos_pendientes,omitempty"`
	TieneEmbargos                 bool   `json:"tiene_embargos,omitempty"`
}

// DetalleInmueble is the denormalized property snapshot taken at contract time.
type DetalleInmueble struct {
	TipoInmueble           string  `json:"tipo_inmueble,omitempty"`
	DireccionCompleta      string  `json:"direccion_completa,omitempty"`
	Municipio              string  `json:"municipio,omitempty"`
	Departamento           string  `json:"departamento,omitempty"`
	Barrio                 string  `json:"barrio,omitempty"`
	MatriculaInmobiliaria  string  `json:"matricula_inmobiliaria,omitempty"`
	CedulaCatastral        string  `json:"cedula_catastral,omitempty"`
	OficinaRegistro        string  `json:"oficina_registro,omitempty"`
	AreaConstruida         float64 `json:"area_construida,omitempty"`
	AreaTerreno            float64 `json:"area_terreno,omitempty"`
	NumeroHabitaciones     int     `json:"numero_habitaciones,omitempty"`
	NumeroBanos            int     `json:"numero_banos,omitempty"`
	Estrato                int     `json:"estrato,omitempty"`
	EscrituraPublicaNumero string  `json:"escritura_publica_numero,omitempty"`
	NotariaEscritura       string  `json:"notaria_escritura,omitempty"`
	TieneHipoteca          bool    `json:"tiene_hipoteca,omitempty"`
	EntidadHipoteca        string  `json:"entidad_hipoteca,omitempty"`
}

// Bien is the normalized good value object flowing through aggregation,
// reconciliation and document composition. Exactly one of Vehiculo/Inmueble
// is set according to TipoBien; TipoBienOtro carries only the envelope.
type Bien struct {
	TipoBien        string
	Rol             string
	Parte           string
	ValorComercial  float64
	DescripcionBien string
	VehiculoID      *string
	PropiedadID     *string

	Vehiculo *DetalleVehiculo
	Inmueble *DetalleInmueble
}

// EsVehicular reports whether the good renders with the vehicle field set
func (b *Bien) EsVehicular() bool {
	return b.TipoBien == TipoBienVehiculo || b.TipoBien == TipoBienMoto
}

// BienContrato is one persisted asset line item. It belongs to exactly one
// contract, is created alongside it and cascade-deleted with it. The detail
// snapshot is stored as a JSON payload keyed by TipoBien.
type BienContrato struct {
	ID        string         `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	ContratoID string   `gorm:"type:uuid;not null;index" json:"contrato_id"`
	Contrato   Contrato `gorm:"foreignKey:ContratoID" json:"-"`

	TipoBien        string  `gorm:"size:20;not null" json:"tipo_bien"`
	Rol             string  `gorm:"size:20;not null" json:"rol"`
	Parte           string  `gorm:"size:20;not null" json:"parte"`
	ValorComercial  float64 `gorm:"not null" json:"valor_comercial"`
	DescripcionBien *string `gorm:"size:500" json:"descripcion_bien,omitempty"`

	VehiculoID  *string `gorm:"type:uuid" json:"vehiculo_id,omitempty"`
	PropiedadID *string `gorm:"type:uuid" json:"propiedad_id,omitempty"`

	Detalle datatypes.JSON `json:"detalle,omitempty"`
}

// BeforeCreate hook to generate UUID
func (b *BienContrato) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for BienContrato model
func (BienContrato) TableName() string {
	return "bienes_contrato"
}

// NuevoBienContrato builds the persisted row for a normalized good,
// serializing the kind-specific detail into the JSON snapshot column.
func NuevoBienContrato(contratoID string, bien Bien) (BienContrato, error) {
	record := BienContrato{
		ContratoID:     contratoID,
		TipoBien:       bien.TipoBien,
		Rol:            bien.Rol,
		Parte:          bien.Parte,
		ValorComercial: bien.ValorComercial,
		VehiculoID:     bien.VehiculoID,
		PropiedadID:    bien.PropiedadID,
	}
	if bien.DescripcionBien != "" {
		record.DescripcionBien = &bien.DescripcionBien
	}

	var detalle interface{}
	switch {
	case bien.Vehiculo != nil:
		detalle = bien.Vehiculo
	case bien.Inmueble != nil:
		detalle = bien.Inmueble
	}
	if detalle != nil {
		payload, err := json.Marshal(detalle)
		if err != nil {
			return BienContrato{}, err
		}
		record.Detalle = datatypes.JSON(payload)
	}

	return record, nil
}

// ToBien rebuilds the normalized value object from the persisted row
func (b *BienContrato) ToBien() (Bien, error) {
	bien := Bien{
		TipoBien:       b.TipoBien,
		Rol:            b.Rol,
		Parte:          b.Parte,
		ValorComercial: b.ValorComercial,
		VehiculoID:     b.VehiculoID,
		PropiedadID:    b.PropiedadID,
	}
	if b.DescripcionBien != nil {
		bien.DescripcionBien = *b.DescripcionBien
	}

	if len(b.Detalle) > 0 {
		switch b.TipoBien {
		case TipoBienVehiculo, TipoBienMoto:
			var detalle DetalleVehiculo
			if err := json.Unmarshal(b.Detalle, &detalle); err != nil {
				return Bien{}, err
			}
			bien.Vehiculo = &detalle
		case TipoBienPropiedad:
			var detalle DetalleInmueble
			if err := json.Unmarshal(b.Detalle, &detalle); err != nil {
				return Bien{}, err
			}
			bien.Inmueble = &detalle
		}
	}

	return bien, nil
}

// IsValidTipoBien checks the good kind
func IsValidTipoBien(tipo string) bool {
	switch tipo {
	case TipoBienVehiculo, TipoBienMoto, TipoBienPropiedad, TipoBienOtro:
		return true
	}
	return false
}

// IsValidRol checks the good role
func IsValidRol(rol string) bool {
	return rol == RolEntrega || rol == RolRecibe
}

// IsValidParte checks the contractual side
func IsValidParte(parte string) bool {
	return parte == ParteVendedor || parte == ParteComprador
}
