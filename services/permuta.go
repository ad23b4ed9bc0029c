package services

import (
	"math"

	"asset_flow_app_go/models"
)

// ResumenPermuta holds the value balance of a barter-style contract. The
// zero value means "not applicable" (sale modality or no goods).
type ResumenPermuta struct {
	ValorTotalEntrega   float64
	ValorTotalRecibe    float64
	DiferenciaValor     float64
	QuienPagaDiferencia string // Vendedor, Comprador, or empty when balanced
}

// Aplica reports whether the balance applies to the contract
func (r ResumenPermuta) Aplica() bool {
	return r.ValorTotalEntrega != 0 || r.ValorTotalRecibe != 0 || r.DiferenciaValor != 0
}

// ReconcilePermuta computes the balancing payment for non-sale modalities.
//
// Only the seller's side is summed: under a closed two-party exchange the
// buyer's totals are definitionally the mirror of the seller's, so a second
// sum would add nothing. If the seller receives more than it gives, the
// seller owes the difference; if it gives more, the buyer owes it; equal
// totals leave no one owing.
func ReconcilePermuta(bienes []models.Bien, modalidad string) ResumenPermuta {
	if modalidad == models.ModalidadCompraventa || len(bienes) == 0 {
		return ResumenPermuta{}
	}

	var resumen ResumenPermuta
	for _, bien := range bienes {
		if bien.Parte != models.ParteVendedor {
			continue
		}
		switch bien.Rol {
		case models.RolEntrega:
			resumen.ValorTotalEntrega += bien.ValorComercial
		case models.RolRecibe:
			resumen.ValorTotalRecibe += bien.ValorComercial
		}
	}

	resumen.DiferenciaValor = math.Abs(resumen.ValorTotalRecibe - resumen.ValorTotalEntrega)

	if resumen.ValorTotalRecibe > resumen.ValorTotalEntrega {
		resumen.QuienPagaDiferencia = models.ParteVendedor
	} else if resumen.ValorTotalEntrega > resumen.ValorTotalRecibe {
		resumen.QuienPagaDiferencia = models.ParteComprador
	}

	return resumen
}
