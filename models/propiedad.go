package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Propiedad is a real-estate asset record resolvable by the aggregator.
type Propiedad struct {
	ID        string         `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	TipoPropiedad string `gorm:"size:50" json:"tipo_propiedad"`
	Direccion     string `gorm:"size:300;not null" json:"direccion"`
	Ciudad        string `gorm:"size:100;not null" json:"ciudad"`
	Departamento  string `gorm:"size:100" json:"departamento"`
	Barrio        string `gorm:"size:100" json:"barrio"`
	Estrato       int    `json:"estrato"`

	AreaTerreno        float64 `json:"area_terreno"`
	AreaConstruida     float64 `json:"area_construida"`
	NumeroHabitaciones int     `json:"numero_habitaciones"`
	NumeroBanos        int     `json:"numero_banos"`

	NumeroMatriculaInmobiliaria string     `gorm:"size:100" json:"numero_matricula_inmobiliaria"`
	CedulaCatastral             string     `gorm:"size:100" json:"cedula_catastral"`
	NumeroEscritura             string     `gorm:"size:100" json:"numero_escritura"`
	FechaEscritura              *time.Time `json:"fecha_escritura,omitempty"`
	NotariaEscritura            string     `gorm:"size:200" json:"notaria_escritura"`

	TieneGravamenes   bool   `gorm:"not null;default:false" json:"tiene_gravamenes"`
	EsFinanciado      bool   `gorm:"not null;default:false" json:"es_financiado"`
	EntidadFinanciera string `gorm:"size:200" json:"entidad_financiera"`

	AvaluoComercialActual float64 `json:"avaluo_comercial_actual"`
}

// BeforeCreate hook to generate UUID
func (p *Propiedad) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for Propiedad model
func (Propiedad) TableName() string {
	return "propiedades"
}

// Descripcion returns the short label used on contract line items
func (p *Propiedad) Descripcion() string {
	return fmt.Sprintf("%s - %s", p.TipoPropiedad, p.Direccion)
}

// Snapshot copies the descriptive fields into a contract-time detail payload
func (p *Propiedad) Snapshot() DetalleInmueble {
	return DetalleInmueble{
		TipoInmueble:           p.TipoPropiedad,
		DireccionCompleta:      p.Direccion,
		Municipio:              p.Ciudad,
		Departamento:           p.Departamento,
		Barrio:                 p.Barrio,
		MatriculaInmobiliaria:  p.NumeroMatriculaInmobiliaria,
		CedulaCatastral:        p.CedulaCatastral,
		AreaConstruida:         p.AreaConstruida,
		AreaTerreno:            p.AreaTerreno,
		NumeroHabitaciones:     p.NumeroHabitaciones,
		NumeroBanos:            p.NumeroBanos,
		Estrato:                p.Estrato,
		EscrituraPublicaNumero: p.NumeroEscritura,
		NotariaEscritura:       p.NotariaEscritura,
		TieneHipoteca:          p.EsFinanciado,
		EntidadHipoteca:        p.EntidadFinanciera,
	}
}
