package billing

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/hospital-api/internal/domain/entity"
)

// LineTotal total de una línea: el informado por el cliente o price × quantity.
// CGST/SGST se guardan por línea solo para mostrar; no se suman aquí.
func LineTotal(price decimal.Decimal, quantity int64, supplied *decimal.Decimal) decimal.Decimal {
	if supplied != nil {
		return *supplied
	}
	return price.Mul(decimal.NewFromInt(quantity))
}

// SumServices suma los totales de línea.
func SumServices(services []entity.BillService) decimal.Decimal {
	total := decimal.Zero
	for _, s := range services {
		total = total.Add(s.Total)
	}
	return total
}

// NetPayable total menos anticipo.
func NetPayable(total, advance decimal.Decimal) decimal.Decimal {
	return total.Sub(advance)
}

// ApplyDerived completa Total y NetPayable de la factura cuando no fueron informados.
// Los valores informados por el cliente se respetan tal cual.
func ApplyDerived(b *entity.Bill, total, netPayable *decimal.Decimal) {
	if total != nil {
		b.Total = *total
	} else {
		b.Total = SumServices(b.Services)
	}
	if netPayable != nil {
		b.NetPayable = *netPayable
	} else {
		b.NetPayable = NetPayable(b.Total, b.AdvancePayment)
	}
}
