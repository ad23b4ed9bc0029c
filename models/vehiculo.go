package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Vehiculo is a vehicle asset record resolvable by the aggregator. Only the
// descriptive subset needed for contract snapshots lives here.
type Vehiculo struct {
	ID        string         `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	TipoVehiculo string `gorm:"size:50" json:"tipo_vehiculo"`
	Marca        string `gorm:"size:100;not null" json:"marca"`
	Linea        string `gorm:"size:100" json:"linea"`
	Modelo       string `gorm:"size:100" json:"modelo"`
	Anio         int    `json:"anio"`
	Placa        string `gorm:"size:20;not null;uniqueIndex" json:"placa"`
	Clase        string `gorm:"size:50" json:"clase"`
	Tipo         string `gorm:"size:50" json:"tipo"`
	Color        string `gorm:"size:50" json:"color"`
	Servicio     string `gorm:"size:50" json:"servicio"`

	Cilindraje        int    `json:"cilindraje"`
	TipoCombustible   string `gorm:"size:50" json:"tipo_combustible"`
	Capacidad         int    `json:"capacidad"`
	KilometrajeCompra int    `json:"kilometraje_compra"`
	KilometrajeActual int    `json:"kilometraje_actual"`

	NumeroMotor      string `gorm:"size:100" json:"numero_motor"`
	NumeroChasis     string `gorm:"size:100" json:"numero_chasis"`
	NumeroCarroceria string `gorm:"size:100" json:"numero_carroceria"`
	Serie            string `gorm:"size:100" json:"serie"`

	NumeroSOAT                    string     `gorm:"size:100" json:"numero_soat"`
	AseguradoraSOAT               string     `gorm:"size:100" json:"aseguradora_soat"`
	FechaVencimientoSOAT          *time.Time `json:"fecha_vencimiento_soat,omitempty"`
	FechaVencimientoTecnomecanica *time.Time `json:"fecha_vencimiento_tecnomecanica,omitempty"`

	EstadoImpuestos          string `gorm:"size:50" json:"estado_impuestos"`
	AniosImpuestosPendientes string `gorm:"size:200" json:"anios_impuestos_pendientes"`
	TieneGravamenes          bool   `gorm:"not null;default:false" json:"tiene_gravamenes"`

	AvaluoComercialActual float64 `json:"avaluo_comercial_actual"`
}

// BeforeCreate hook to generate UUID
func (v *Vehiculo) BeforeCreate(tx *gorm.DB) error {
	if v.ID == "" {
		v.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for Vehiculo model
func (Vehiculo) TableName() string {
	return "vehiculos"
}

// Descripcion returns the short label used on contract line items
func (v *Vehiculo) Descripcion() string {
	return fmt.Sprintf("%s %s %d", v.Marca, v.Modelo, v.Anio)
}

// Snapshot copies the descriptive fields into a contract-time detail payload
func (v *Vehiculo) Snapshot() DetalleVehiculo {
	detalle := DetalleVehiculo{
		Marca:                    v.Marca,
		Linea:                    v.Linea,
		Modelo:                   v.Modelo,
		Anio:                     v.Anio,
		Placa:                    v.Placa,
		Clase:                    v.Clase,
		Tipo:                     v.Tipo,
		Color:                    v.Color,
		Servicio:                 v.Servicio,
		Cilindraje:               v.Cilindraje,
		TipoCombustible:          v.TipoCombustible,
		Capacidad:                v.Capacidad,
		KilometrajeCompra:        v.KilometrajeCompra,
		KilometrajeActual:        v.KilometrajeActual,
		NumeroMotor:              v.NumeroMotor,
		NumeroChasis:             v.NumeroChasis,
		NumeroCarroceria:         v.NumeroCarroceria,
		Serie:                    v.Serie,
		NumeroSOAT:               v.NumeroSOAT,
		AseguradoraSOAT:          v.AseguradoraSOAT,
		EstadoImpuestos:          v.EstadoImpuestos,
		AniosImpuestosPendientes: v.AniosImpuestosPendientes,
		TieneEmbargos:            v.TieneGravamenes,
	}
	if v.FechaVencimientoSOAT != nil {
		detalle.FechaVencimientoSOAT = v.FechaVencimientoSOAT.Format("2006-01-02")
	}
	if v.FechaVencimientoTecnomecanica != nil {
		detalle.FechaVencimientoTecnomecanica = v.FechaVencimientoTecnomecanica.Format("2006-01-02")
	}
	return detalle
}
