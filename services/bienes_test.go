package services

import (
	"encoding/json"
	"testing"

	"asset_flow_app_go/models"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupBienesTestDB() *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		panic("failed to connect database")
	}
	db.AutoMigrate(&models.Vehiculo{}, &models.Propiedad{})
	return db
}

func strPtr(s string) *string {
	return &s
}

func TestAggregateBienes_LegacyVehiculo(t *testing.T) {
	db := setupBienesTestDB()
	resolver := &GormAssetResolver{DB: db}

	vehiculo := models.Vehiculo{
		Marca:  "Mazda",
		Modelo: "CX-30",
		Anio:   2022,
		Placa:  "ABC123",
		Color:  "Rojo",
	}
	db.Create(&vehiculo)

	bienes, err := AggregateBienes(resolver, AggregateInput{
		VehiculoID:    &vehiculo.ID,
		ValorContrato: 95000000,
	})
	assert.NoError(t, err)
	assert.Len(t, bienes, 1)

	// The legacy path synthesizes a seller-delivered good worth the
	// contract value, with a full snapshot of the record
	bien := bienes[0]
	assert.Equal(t, models.TipoBienVehiculo, bien.TipoBien)
	assert.Equal(t, models.RolEntrega, bien.Rol)
	assert.Equal(t, models.ParteVendedor, bien.Parte)
	assert.Equal(t, 95000000.0, bien.ValorComercial)
	assert.Equal(t, "Mazda CX-30 2022", bien.DescripcionBien)
	assert.NotNil(t, bien.Vehiculo)
	assert.Equal(t, "ABC123", bien.Vehiculo.Placa)
}

func TestAggregateBienes_LegacyPropiedad(t *testing.T) {
	db := setupBienesTestDB()
	resolver := &GormAssetResolver{DB: db}

	propiedad := models.Propiedad{
		TipoPropiedad: "Apartamento",
		Direccion:     "Calle 10 #5-51",
		Ciudad:        "Cúcuta",
		Estrato:       4,
	}
	db.Create(&propiedad)

	bienes, err := AggregateBienes(resolver, AggregateInput{
		PropiedadID:   &propiedad.ID,
		ValorContrato: 250000000,
	})
	assert.NoError(t, err)
	assert.Len(t, bienes, 1)
	assert.Equal(t, models.TipoBienPropiedad, bienes[0].TipoBien)
	assert.Equal(t, "Apartamento - Calle 10 #5-51", bienes[0].DescripcionBien)
	assert.NotNil(t, bienes[0].Inmueble)
	assert.Equal(t, "Cúcuta", bienes[0].Inmueble.Municipio)
}

func TestAggregateBienes_LegacyActivoInexistente(t *testing.T) {
	db := setupBienesTestDB()
	resolver := &GormAssetResolver{DB: db}

	// On the legacy path the asset is the object of the contract, so a
	// dangling reference is an error
	_, err := AggregateBienes(resolver, AggregateInput{
		VehiculoID:    strPtr("no-existe"),
		ValorContrato: 1000,
	})
	assert.ErrorIs(t, err, ErrActivoNotFound)
}

func TestAggregateBienes_RellenaSnapshotDesdeRegistro(t *testing.T) {
	db := setupBienesTestDB()
	resolver := &GormAssetResolver{DB: db}

	vehiculo := models.Vehiculo{Marca: "Renault", Modelo: "Duster", Anio: 2020, Placa: "XYZ789"}
	db.Create(&vehiculo)

	bienes, err := AggregateBienes(resolver, AggregateInput{
		Bienes: []BienInput{
			{TipoBien: models.TipoBienVehiculo, Rol: models.RolEntrega, Parte: models.ParteVendedor, ValorComercial: 60000000, VehiculoID: &vehiculo.ID},
		},
	})
	assert.NoError(t, err)
	assert.Len(t, bienes, 1)
	assert.NotNil(t, bienes[0].Vehiculo)
	assert.Equal(t, "XYZ789", bienes[0].Vehiculo.Placa)
	assert.Equal(t, "Renault Duster 2020", bienes[0].DescripcionBien)
}

func TestAggregateBienes_ReferenciaRotaNoBloquea(t *testing.T) {
	db := setupBienesTestDB()
	resolver := &GormAssetResolver{DB: db}

	// A secondary good pointing at a missing record still aggregates: the
	// id stays, the snapshot is simply absent
	bienes, err := AggregateBienes(resolver, AggregateInput{
		Bienes: []BienInput{
			{TipoBien: models.TipoBienVehiculo, Rol: models.RolRecibe, Parte: models.ParteVendedor, ValorComercial: 30000000, VehiculoID: strPtr("no-existe"), DescripcionBien: "Camioneta"},
		},
	})
	assert.NoError(t, err)
	assert.Len(t, bienes, 1)
	assert.Nil(t, bienes[0].Vehiculo)
	assert.Equal(t, "Camioneta", bienes[0].DescripcionBien)
	assert.Equal(t, "no-existe", *bienes[0].VehiculoID)
}

func TestAggregateBienes_DetalleInlineSePreserva(t *testing.T) {
	db := setupBienesTestDB()
	resolver := &GormAssetResolver{DB: db}

	inline := &models.DetalleVehiculo{Marca: "Kia", Modelo: "Picanto", Anio: 2019, Placa: "KIA019"}
	bienes, err := AggregateBienes(resolver, AggregateInput{
		Bienes: []BienInput{
			{TipoBien: models.TipoBienVehiculo, Rol: models.RolEntrega, Parte: models.ParteVendedor, ValorComercial: 35000000, Vehiculo: inline},
		},
	})
	assert.NoError(t, err)
	assert.Equal(t, "KIA019", bienes[0].Vehiculo.Placa)
}

func TestMontoUnmarshal(t *testing.T) {
	var payload struct {
		Valor Monto `json:"valor"`
	}

	assert.NoError(t, json.Unmarshal([]byte(`{"valor": 50000000}`), &payload))
	assert.Equal(t, Monto(50000000), payload.Valor)

	assert.NoError(t, json.Unmarshal([]byte(`{"valor": "65000000"}`), &payload))
	assert.Equal(t, Monto(65000000), payload.Valor)

	// Garbage and null coerce to zero instead of failing the request
	assert.NoError(t, json.Unmarshal([]byte(`{"valor": "no es un número"}`), &payload))
	assert.Equal(t, Monto(0), payload.Valor)

	assert.NoError(t, json.Unmarshal([]byte(`{"valor": null}`), &payload))
	assert.Equal(t, Monto(0), payload.Valor)
}

func TestParseClausulas(t *testing.T) {
	// JSON array
	clausulas := ParseClausulas(json.RawMessage(`["Primera", "Segunda"]`))
	assert.Equal(t, []string{"Primera", "Segunda"}, clausulas)

	// Encoded array inside a string
	clausulas = ParseClausulas(json.RawMessage(`"[\"Primera\", \"Segunda\"]"`))
	assert.Equal(t, []string{"Primera", "Segunda"}, clausulas)

	// Newline-separated text, blanks dropped
	clausulas = ParseClausulas(json.RawMessage(`"Primera\n\nSegunda\n  "`))
	assert.Equal(t, []string{"Primera", "Segunda"}, clausulas)

	assert.Nil(t, ParseClausulas(nil))
}

func TestBienContratoRoundTrip(t *testing.T) {
	bien := models.Bien{
		TipoBien:        models.TipoBienVehiculo,
		Rol:             models.RolEntrega,
		Parte:           models.ParteVendedor,
		ValorComercial:  50000000,
		DescripcionBien: "Mazda CX-30 2022",
		Vehiculo:        &models.DetalleVehiculo{Marca: "Mazda", Placa: "ABC123"},
	}

	row, err := models.NuevoBienContrato("contrato-1", bien)
	assert.NoError(t, err)
	assert.Equal(t, "contrato-1", row.ContratoID)
	assert.NotEmpty(t, row.Detalle)

	back, err := row.ToBien()
	assert.NoError(t, err)
	assert.Equal(t, bien.TipoBien, back.TipoBien)
	assert.Equal(t, bien.ValorComercial, back.ValorComercial)
	assert.Equal(t, "ABC123", back.Vehiculo.Placa)
	assert.Nil(t, back.Inmueble)
}
