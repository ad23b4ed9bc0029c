package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"asset_flow_app_go/models"

	"gorm.io/gorm"
)

// ErrActivoNotFound is returned when the legacy single-asset path references
// a vehicle or property that does not exist.
var ErrActivoNotFound = errors.New("activo referenciado no encontrado")

// AssetResolver looks up asset records referenced by contract goods
type AssetResolver interface {
	Vehiculo(id string) (*models.Vehiculo, error)
	Propiedad(id string) (*models.Propiedad, error)
}

// GormAssetResolver resolves assets against the relational store
type GormAssetResolver struct {
	DB *gorm.DB
}

func (r *GormAssetResolver) Vehiculo(id string) (*models.Vehiculo, error) {
	var vehiculo models.Vehiculo
	if err := r.DB.First(&vehiculo, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrActivoNotFound
		}
		return nil, fmt.Errorf("failed to fetch vehiculo: %w", err)
	}
	return &vehiculo, nil
}

func (r *GormAssetResolver) Propiedad(id string) (*models.Propiedad, error) {
	var propiedad models.Propiedad
	if err := r.DB.First(&propiedad, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrActivoNotFound
		}
		return nil, fmt.Errorf("failed to fetch propiedad: %w", err)
	}
	return &propiedad, nil
}

// Monto accepts a commercial value as a JSON number or string. Missing or
// non-numeric values coerce to zero instead of failing the contract.
type Monto float64

func (m *Monto) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "" || s == "null" {
		*m = 0
		return nil
	}
	s = strings.Trim(s, `"`)
	value, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		*m = 0
		return nil
	}
	*m = Monto(value)
	return nil
}

// BienInput is one raw good line from the request. Detail payloads may come
// inline from the client, or be filled from the resolved asset record.
type BienInput struct {
	TipoBien        string  `json:"tipo_bien"`
	Rol             string  `json:"rol"`
	Parte           string  `json:"parte"`
	ValorComercial  Monto   `json:"valor_comercial"`
	DescripcionBien string  `json:"descripcion_bien"`
	VehiculoID      *string `json:"vehiculo_id,omitempty"`
	PropiedadID     *string `json:"propiedad_id,omitempty"`

	Vehiculo *models.DetalleVehiculo `json:"vehiculo,omitempty"`
	Inmueble *models.DetalleInmueble `json:"inmueble,omitempty"`
}

// AggregateInput is everything the aggregator needs from the request
type AggregateInput struct {
	Bienes        []BienInput
	VehiculoID    *string // legacy single-asset path
	PropiedadID   *string // legacy single-asset path
	ValorContrato float64
}

// AggregateBienes normalizes the raw goods into fully populated value
// objects. When the goods array is empty and a legacy vehicle/property id is
// present, exactly one good is synthesized (role Entrega, party Vendedor)
// with a full snapshot of the resolved record and the contract value.
//
// For goods that reference an asset id, resolution failures are silently
// absorbed: the id stays recorded but no snapshot is copied, so a missing
// secondary record never blocks the contract's primary commercial terms. The
// legacy path is the exception — there the asset IS the contract's object,
// and a dangling reference surfaces as ErrActivoNotFound.
func AggregateBienes(resolver AssetResolver, input AggregateInput) ([]models.Bien, error) {
	if len(input.Bienes) == 0 {
		return aggregateLegacy(resolver, input)
	}

	bienes := make([]models.Bien, 0, len(input.Bienes))
	for _, raw := range input.Bienes {
		bien := models.Bien{
			TipoBien:        raw.TipoBien,
			Rol:             raw.Rol,
			Parte:           raw.Parte,
			ValorComercial:  float64(raw.ValorComercial),
			DescripcionBien: raw.DescripcionBien,
			VehiculoID:      raw.VehiculoID,
			PropiedadID:     raw.PropiedadID,
			Vehiculo:        raw.Vehiculo,
			Inmueble:        raw.Inmueble,
		}

		// Fill missing snapshots from the referenced records, best effort
		if bien.Vehiculo == nil && raw.VehiculoID != nil && bien.EsVehicular() {
			if vehiculo, err := resolver.Vehiculo(*raw.VehiculoID); err == nil {
				snapshot := vehiculo.Snapshot()
				bien.Vehiculo = &snapshot
				if bien.DescripcionBien == "" {
					bien.DescripcionBien = vehiculo.Descripcion()
				}
			}
		}
		if bien.Inmueble == nil && raw.PropiedadID != nil && bien.TipoBien == models.TipoBienPropiedad {
			if propiedad, err := resolver.Propiedad(*raw.PropiedadID); err == nil {
				snapshot := propiedad.Snapshot()
				bien.Inmueble = &snapshot
				if bien.DescripcionBien == "" {
					bien.DescripcionBien = propiedad.Descripcion()
				}
			}
		}

		bienes = append(bienes, bien)
	}

	return bienes, nil
}

func aggregateLegacy(resolver AssetResolver, input AggregateInput) ([]models.Bien, error) {
	var bienes []models.Bien

	if input.VehiculoID != nil {
		vehiculo, err := resolver.Vehiculo(*input.VehiculoID)
		if err != nil {
			return nil, err
		}
		snapshot := vehiculo.Snapshot()
		bienes = append(bienes, models.Bien{
			TipoBien:        models.TipoBienVehiculo,
			Rol:             models.RolEntrega,
			Parte:           models.ParteVendedor,
			ValorComercial:  input.ValorContrato,
			DescripcionBien: vehiculo.Descripcion(),
			VehiculoID:      input.VehiculoID,
			Vehiculo:        &snapshot,
		})
	}

	if input.PropiedadID != nil {
		propiedad, err := resolver.Propiedad(*input.PropiedadID)
		if err != nil {
			return nil, err
		}
		snapshot := propiedad.Snapshot()
		bienes = append(bienes, models.Bien{
			TipoBien:        models.TipoBienPropiedad,
			Rol:             models.RolEntrega,
			Parte:           models.ParteVendedor,
			ValorComercial:  input.ValorContrato,
			DescripcionBien: propiedad.Descripcion(),
			PropiedadID:     input.PropiedadID,
			Inmueble:        &snapshot,
		})
	}

	return bienes, nil
}

// ParseClausulas normalizes the clause list from either a JSON array payload
// or newline-separated text.
func ParseClausulas(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return nil
	}

	var asArray []string
	if err := json.Unmarshal(raw, &asArray); err == nil {
		return trimClausulas(asArray)
	}

	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil {
		// The string may itself be an encoded array
		var nested []string
		if err := json.Unmarshal([]byte(asString), &nested); err == nil {
			return trimClausulas(nested)
		}
		return trimClausulas(strings.Split(asString, "\n"))
	}

	return nil
}

func trimClausulas(clausulas []string) []string {
	var out []string
	for _, c := range clausulas {
		if trimmed := strings.TrimSpace(c); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
