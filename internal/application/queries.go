package application

import "github.com/bnema/usahome-cli/internal/domain"

// Snapshot is the reconciled ledger for one identity.
type Snapshot struct {
	Identity domain.Identity
	Services domain.ServiceList
	Source   domain.ReconciliationSource
}

func (s Snapshot) Count() int {
	return s.Services.Count()
}

type Mutation struct {
	Identity domain.Identity
	Services domain.ServiceList
	Changed  bool
	// Published is true when the updated list was also pushed to the backend.
	Published bool
}

type FeeReport struct {
	Quote    domain.FeeQuote
	Snapshot Snapshot
}
