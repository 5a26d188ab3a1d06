package domain

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

const feeDecimalPlaces = 2

var (
	DefaultBaseFee          = decimal.RequireFromString("29.77")
	DefaultPerAdditionalFee = decimal.RequireFromString("5.00")
)

// FeeSchedule prices a listing: the first service is included in the base
// fee and every further service adds PerAdditional.
type FeeSchedule struct {
	Base          decimal.Decimal
	PerAdditional decimal.Decimal
}

func DefaultFeeSchedule() FeeSchedule {
	return FeeSchedule{Base: DefaultBaseFee, PerAdditional: DefaultPerAdditionalFee}
}

func (s FeeSchedule) Validate() error {
	if s.Base.IsNegative() {
		return fmt.Errorf("base fee must not be negative")
	}
	if s.PerAdditional.IsNegative() {
		return fmt.Errorf("per-additional fee must not be negative")
	}
	return nil
}

// Compute rounds half away from zero. Counts below one are billed as the
// base fee.
func (s FeeSchedule) Compute(serviceCount int) decimal.Decimal {
	extra := serviceCount - 1
	if extra < 0 {
		extra = 0
	}

	fee := s.Base.Add(s.PerAdditional.Mul(decimal.NewFromInt(int64(extra))))
	return fee.Round(feeDecimalPlaces)
}

// OverrideTable maps identities to a fixed monthly fee. It is consulted
// before the schedule and is the only place per-account pricing lives.
type OverrideTable struct {
	fees map[Identity]decimal.Decimal
}

func DefaultFeeOverrides() map[Identity]decimal.Decimal {
	return map[Identity]decimal.Decimal{
		"shakilasanaei@gmail.com": decimal.RequireFromString("54.77"),
	}
}

func NewOverrideTable(entries map[Identity]decimal.Decimal) (OverrideTable, error) {
	fees := make(map[Identity]decimal.Decimal, len(entries))
	for rawIdentity, fee := range entries {
		identity, err := ParseIdentity(string(rawIdentity))
		if err != nil {
			return OverrideTable{}, fmt.Errorf("fee override: %w", err)
		}
		if fee.IsNegative() {
			return OverrideTable{}, fmt.Errorf("fee override for %s must not be negative", identity)
		}
		fees[identity] = fee.Round(feeDecimalPlaces)
	}

	return OverrideTable{fees: fees}, nil
}

func (t OverrideTable) Lookup(identity Identity) (decimal.Decimal, bool) {
	fee, ok := t.fees[identity]
	return fee, ok
}

func (t OverrideTable) Identities() []Identity {
	identities := make([]Identity, 0, len(t.fees))
	for identity := range t.fees {
		identities = append(identities, identity)
	}
	sort.Slice(identities, func(i, j int) bool { return identities[i] < identities[j] })
	return identities
}

func (t OverrideTable) Len() int {
	return len(t.fees)
}

// FeeQuote is derived on demand and never stored.
type FeeQuote struct {
	Identity     Identity
	ServiceCount int
	Amount       decimal.Decimal
	Overridden   bool
}

func (q FeeQuote) String() string {
	return "$" + q.Amount.StringFixed(feeDecimalPlaces)
}
