package billing

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/utilibill/backend/internal/domain/shared"
)

// declaredAmountTolerance is the permitted gap between the declared bill
// amount and the aggregated charge subtotal, one currency unit either way,
// to absorb rounding differences in upstream systems.
var declaredAmountTolerance = decimal.NewFromInt(1)

// ValidateDeclaredAmount gates an approval: the declared bill amount must
// match the aggregated charge subtotal within tolerance. It returns nil when
// the bill may proceed and an AMOUNT_MISMATCH domain error otherwise.
func ValidateDeclaredAmount(billAmount, aggregatedSubtotal decimal.Decimal) error {
	diff := billAmount.Sub(aggregatedSubtotal)
	if diff.Abs().GreaterThan(declaredAmountTolerance) {
		return shared.NewDomainError("AMOUNT_MISMATCH", fmt.Sprintf(
			"Declared amount %s differs from aggregated charges %s by %s (tolerance %s)",
			billAmount.StringFixed(2), aggregatedSubtotal.StringFixed(2),
			diff.Abs().StringFixed(2), declaredAmountTolerance.StringFixed(2),
		))
	}
	return nil
}
