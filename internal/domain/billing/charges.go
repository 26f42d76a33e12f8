package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ChargeRecord is the common interface over the four charge categories.
// Every bill owns exactly one record of each category, created alongside it.
type ChargeRecord interface {
	TableName() string
	RecordID() uuid.UUID
	OwningBillID() uuid.UUID
	Total() decimal.Decimal
}

// CoreCharges holds the tariff line-items of a bill. All fields are additive.
type CoreCharges struct {
	ID            uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	BillID        uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex" json:"bill_id"`
	EnergyCharge  decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"energy_charge"`
	FixedCharge   decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"fixed_charge"`
	DemandCharge  decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"demand_charge"`
	FPPACCharge   decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"fppac_charge"`
	MinimumCharge decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"minimum_charge"`
	Surcharge     decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"surcharge"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// TableName returns the table name for GORM
func (CoreCharges) TableName() string { return "core_charges" }

// RecordID returns the record identity
func (c *CoreCharges) RecordID() uuid.UUID { return c.ID }

// OwningBillID returns the owning bill identity
func (c *CoreCharges) OwningBillID() uuid.UUID { return c.BillID }

// Total sums all core charge line-items
func (c *CoreCharges) Total() decimal.Decimal {
	return c.EnergyCharge.
		Add(c.FixedCharge).
		Add(c.DemandCharge).
		Add(c.FPPACCharge).
		Add(c.MinimumCharge).
		Add(c.Surcharge)
}

// Diff returns the fields whose value changed relative to original,
// keyed by column name and holding the edited value. Bookkeeping fields
// (id, bill_id, timestamps) are never part of the diff.
func (c *CoreCharges) Diff(original *CoreCharges) map[string]decimal.Decimal {
	changed := make(map[string]decimal.Decimal)
	diffField(changed, "energy_charge", original.EnergyCharge, c.EnergyCharge)
	diffField(changed, "fixed_charge", original.FixedCharge, c.FixedCharge)
	diffField(changed, "demand_charge", original.DemandCharge, c.DemandCharge)
	diffField(changed, "fppac_charge", original.FPPACCharge, c.FPPACCharge)
	diffField(changed, "minimum_charge", original.MinimumCharge, c.MinimumCharge)
	diffField(changed, "surcharge", original.Surcharge, c.Surcharge)
	return changed
}

// RegulatoryCharges holds statutory duties and taxes. All fields are additive.
type RegulatoryCharges struct {
	ID              uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	BillID          uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex" json:"bill_id"`
	ElectricityDuty decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"electricity_duty"`
	MunicipalTax    decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"municipal_tax"`
	CGST            decimal.Decimal `gorm:"column:cgst;type:decimal(18,2);not null;default:0" json:"cgst"`
	SGST            decimal.Decimal `gorm:"column:sgst;type:decimal(18,2);not null;default:0" json:"sgst"`
	TaxAtSource     decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"tax_at_source"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// TableName returns the table name for GORM
func (RegulatoryCharges) TableName() string { return "regulatory_charges" }

// RecordID returns the record identity
func (c *RegulatoryCharges) RecordID() uuid.UUID { return c.ID }

// OwningBillID returns the owning bill identity
func (c *RegulatoryCharges) OwningBillID() uuid.UUID { return c.BillID }

// Total sums all regulatory charge line-items
func (c *RegulatoryCharges) Total() decimal.Decimal {
	return c.ElectricityDuty.
		Add(c.MunicipalTax).
		Add(c.CGST).
		Add(c.SGST).
		Add(c.TaxAtSource)
}

// Diff returns the changed fields relative to original
func (c *RegulatoryCharges) Diff(original *RegulatoryCharges) map[string]decimal.Decimal {
	changed := make(map[string]decimal.Decimal)
	diffField(changed, "electricity_duty", original.ElectricityDuty, c.ElectricityDuty)
	diffField(changed, "municipal_tax", original.MunicipalTax, c.MunicipalTax)
	diffField(changed, "cgst", original.CGST, c.CGST)
	diffField(changed, "sgst", original.SGST, c.SGST)
	diffField(changed, "tax_at_source", original.TaxAtSource, c.TaxAtSource)
	return changed
}

// AdherenceCharges holds compliance surcharges and incentives.
// TODRebate and PowerFactorIncentive are subtractive; the rest are additive.
type AdherenceCharges struct {
	ID                    uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	BillID                uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex" json:"bill_id"`
	LPSC                  decimal.Decimal `gorm:"column:lpsc;type:decimal(18,2);not null;default:0" json:"lpsc"`
	TODSurcharge          decimal.Decimal `gorm:"column:tod_surcharge;type:decimal(18,2);not null;default:0" json:"tod_surcharge"`
	LowPFSurcharge        decimal.Decimal `gorm:"column:low_pf_surcharge;type:decimal(18,2);not null;default:0" json:"low_pf_surcharge"`
	SanctionedLoadPenalty decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"sanctioned_load_penalty"`
	PowerFactorPenalty    decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"power_factor_penalty"`
	CapacitorSurcharge    decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"capacitor_surcharge"`
	MisuseSurcharge       decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"misuse_surcharge"`
	TODRebate             decimal.Decimal `gorm:"column:tod_rebate;type:decimal(18,2);not null;default:0" json:"tod_rebate"`
	PowerFactorIncentive  decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"power_factor_incentive"`
	CreatedAt             time.Time       `json:"created_at"`
	UpdatedAt             time.Time       `json:"updated_at"`
}

// TableName returns the table name for GORM
func (AdherenceCharges) TableName() string { return "adherence_charges" }

// RecordID returns the record identity
func (c *AdherenceCharges) RecordID() uuid.UUID { return c.ID }

// OwningBillID returns the owning bill identity
func (c *AdherenceCharges) OwningBillID() uuid.UUID { return c.BillID }

// Total sums additive line-items minus the rebate/incentive fields
func (c *AdherenceCharges) Total() decimal.Decimal {
	return c.LPSC.
		Add(c.TODSurcharge).
		Add(c.LowPFSurcharge).
		Add(c.SanctionedLoadPenalty).
		Add(c.PowerFactorPenalty).
		Add(c.CapacitorSurcharge).
		Add(c.MisuseSurcharge).
		Sub(c.TODRebate).
		Sub(c.PowerFactorIncentive)
}

// Diff returns the changed fields relative to original
func (c *AdherenceCharges) Diff(original *AdherenceCharges) map[string]decimal.Decimal {
	changed := make(map[string]decimal.Decimal)
	diffField(changed, "lpsc", original.LPSC, c.LPSC)
	diffField(changed, "tod_surcharge", original.TODSurcharge, c.TODSurcharge)
	diffField(changed, "low_pf_surcharge", original.LowPFSurcharge, c.LowPFSurcharge)
	diffField(changed, "sanctioned_load_penalty", original.SanctionedLoadPenalty, c.SanctionedLoadPenalty)
	diffField(changed, "power_factor_penalty", original.PowerFactorPenalty, c.PowerFactorPenalty)
	diffField(changed, "capacitor_surcharge", original.CapacitorSurcharge, c.CapacitorSurcharge)
	diffField(changed, "misuse_surcharge", original.MisuseSurcharge, c.MisuseSurcharge)
	diffField(changed, "tod_rebate", original.TODRebate, c.TODRebate)
	diffField(changed, "power_factor_incentive", original.PowerFactorIncentive, c.PowerFactorIncentive)
	return changed
}

// AdditionalCharges holds miscellaneous adjustments.
// RebateSubsidy and InterestOnSD are subtractive; the rest are additive.
type AdditionalCharges struct {
	ID                        uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	BillID                    uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex" json:"bill_id"`
	OtherCharges              decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"other_charges"`
	Arrears                   decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"arrears"`
	Adjustment                decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"adjustment"`
	AdditionalSecurityDeposit decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"additional_security_deposit"`
	WheelingCharges           decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"wheeling_charges"`
	RoundOffAmount            decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"round_off_amount"`
	RebateSubsidy             decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"rebate_subsidy"`
	InterestOnSD              decimal.Decimal `gorm:"column:interest_on_sd;type:decimal(18,2);not null;default:0" json:"interest_on_sd"`
	CreatedAt                 time.Time       `json:"created_at"`
	UpdatedAt                 time.Time       `json:"updated_at"`
}

// TableName returns the table name for GORM
func (AdditionalCharges) TableName() string { return "additional_charges" }

// RecordID returns the record identity
func (c *AdditionalCharges) RecordID() uuid.UUID { return c.ID }

// OwningBillID returns the owning bill identity
func (c *AdditionalCharges) OwningBillID() uuid.UUID { return c.BillID }

// Total sums additive line-items minus the subsidy/interest fields
func (c *AdditionalCharges) Total() decimal.Decimal {
	return c.OtherCharges.
		Add(c.Arrears).
		Add(c.Adjustment).
		Add(c.AdditionalSecurityDeposit).
		Add(c.WheelingCharges).
		Add(c.RoundOffAmount).
		Sub(c.RebateSubsidy).
		Sub(c.InterestOnSD)
}

// Diff returns the changed fields relative to original
func (c *AdditionalCharges) Diff(original *AdditionalCharges) map[string]decimal.Decimal {
	changed := make(map[string]decimal.Decimal)
	diffField(changed, "other_charges", original.OtherCharges, c.OtherCharges)
	diffField(changed, "arrears", original.Arrears, c.Arrears)
	diffField(changed, "adjustment", original.Adjustment, c.Adjustment)
	diffField(changed, "additional_security_deposit", original.AdditionalSecurityDeposit, c.AdditionalSecurityDeposit)
	diffField(changed, "wheeling_charges", original.WheelingCharges, c.WheelingCharges)
	diffField(changed, "round_off_amount", original.RoundOffAmount, c.RoundOffAmount)
	diffField(changed, "rebate_subsidy", original.RebateSubsidy, c.RebateSubsidy)
	diffField(changed, "interest_on_sd", original.InterestOnSD, c.InterestOnSD)
	return changed
}

func diffField(changed map[string]decimal.Decimal, column string, original, edited decimal.Decimal) {
	if !edited.Equal(original) {
		changed[column] = edited
	}
}

// AggregateTotal computes the payable subtotal across all four charge
// categories, before any due/discount rebate or late penalty. Nil categories
// contribute zero. The result is rounded to 2 decimal places so the figure
// is stable regardless of how the inputs were produced.
func AggregateTotal(core *CoreCharges, regulatory *RegulatoryCharges, adherence *AdherenceCharges, additional *AdditionalCharges) decimal.Decimal {
	total := decimal.Zero
	if core != nil {
		total = total.Add(core.Total())
	}
	if regulatory != nil {
		total = total.Add(regulatory.Total())
	}
	if adherence != nil {
		total = total.Add(adherence.Total())
	}
	if additional != nil {
		total = total.Add(additional.Total())
	}
	return total.Round(2)
}
