package application

import (
	"context"
	"fmt"

	"github.com/bnema/usahome-cli/internal/domain"
)

type FeeService struct {
	ledger    *LedgerService
	schedule  domain.FeeSchedule
	overrides domain.OverrideTable
}

func NewFeeService(ledger *LedgerService, schedule domain.FeeSchedule, overrides domain.OverrideTable) (*FeeService, error) {
	if err := schedule.Validate(); err != nil {
		return nil, fmt.Errorf("fee schedule: %w", err)
	}

	return &FeeService{ledger: ledger, schedule: schedule, overrides: overrides}, nil
}

// Quote prices the identity's reconciled ledger. The override table wins
// over the schedule; the ledger is still read so the report carries a count.
func (s *FeeService) Quote(ctx context.Context, identity domain.Identity) (FeeReport, error) {
	snapshot, err := s.ledger.GetAll(ctx, identity)
	if err != nil {
		return FeeReport{}, err
	}

	return FeeReport{
		Quote:    s.QuoteForCount(identity, snapshot.Count()),
		Snapshot: snapshot,
	}, nil
}

// QuoteForCount prices a known count without touching any store.
func (s *FeeService) QuoteForCount(identity domain.Identity, serviceCount int) domain.FeeQuote {
	if amount, ok := s.overrides.Lookup(identity); ok {
		return domain.FeeQuote{Identity: identity, ServiceCount: serviceCount, Amount: amount, Overridden: true}
	}

	return domain.FeeQuote{
		Identity:     identity,
		ServiceCount: serviceCount,
		Amount:       s.schedule.Compute(serviceCount),
	}
}
