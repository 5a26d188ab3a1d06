package ledger

import (
	"testing"

	"github.com/bnema/usahome-cli/internal/application"
	"github.com/bnema/usahome-cli/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderLedgerFromRemote(t *testing.T) {
	quote := domain.FeeQuote{Identity: "mitrapasha@gmail.com", ServiceCount: 2, Amount: decimal.RequireFromString("34.77")}

	output, err := RenderLedger(application.Snapshot{
		Identity: "mitrapasha@gmail.com",
		Services: domain.ServiceList{"Loan Officer", "Pool Cleaner"},
		Source:   domain.SourceRemoteTrusted,
	}, LedgerOptions{LastAdded: "Pool Cleaner", Fee: &quote})

	require.NoError(t, err)
	assert.Contains(t, output, "account: mitrapasha@gmail.com")
	assert.Contains(t, output, "services: 2")
	assert.Contains(t, output, "source: remote")
	assert.Contains(t, output, " 1. Loan Officer")
	assert.Contains(t, output, "(Home Finance)")
	assert.Contains(t, output, " 2. Pool Cleaner")
	assert.Contains(t, output, "(uncatalogued)")
	assert.Contains(t, output, "last added: Pool Cleaner")
	assert.Contains(t, output, "$34.77")
	assert.Contains(t, output, "(2 services)")
	assert.NotContains(t, output, "backend unreachable")
}

func TestRenderLedgerEmptyFallback(t *testing.T) {
	output, err := RenderLedger(application.Snapshot{
		Identity: "builder42",
		Services: domain.ServiceList{},
		Source:   domain.SourceLocalFallback,
	}, LedgerOptions{})

	require.NoError(t, err)
	assert.Contains(t, output, "source: local cache")
	assert.Contains(t, output, "backend unreachable")
	assert.Contains(t, output, "No services added yet.")
	assert.NotContains(t, output, "monthly fee")
}

func TestRenderLedgerOfflineBanner(t *testing.T) {
	output, err := RenderLedger(application.Snapshot{
		Identity: "builder42",
		Services: domain.ServiceList{"Plumber"},
		Source:   domain.SourceLocalFallback,
	}, LedgerOptions{Offline: true})

	require.NoError(t, err)
	assert.Contains(t, output, "offline mode")
	assert.NotContains(t, output, "backend unreachable")
}

func TestRenderFeeOverride(t *testing.T) {
	output, err := RenderFee(application.FeeReport{
		Quote: domain.FeeQuote{
			Identity:     "shakilasanaei@gmail.com",
			ServiceCount: 9,
			Amount:       decimal.RequireFromString("54.77"),
			Overridden:   true,
		},
		Snapshot: application.Snapshot{Identity: "shakilasanaei@gmail.com", Source: domain.SourceRemoteTrusted},
	})

	require.NoError(t, err)
	assert.Contains(t, output, "monthly fee: $54.77")
	assert.Contains(t, output, "fixed account rate")
	assert.NotContains(t, output, "9 services")
}

func TestRenderFeeSingleService(t *testing.T) {
	output, err := RenderFee(application.FeeReport{
		Quote:    domain.FeeQuote{Identity: "builder42", ServiceCount: 1, Amount: decimal.RequireFromString("29.77")},
		Snapshot: application.Snapshot{Identity: "builder42", Source: domain.SourceLocalFallback},
	})

	require.NoError(t, err)
	assert.Contains(t, output, "$29.77")
	assert.Contains(t, output, "(1 service)")
	assert.Contains(t, output, "source: local cache")
}

func TestRenderCatalog(t *testing.T) {
	output, err := RenderCatalog([]domain.Category{domain.CategoryFinance, "Pool Care"})

	require.NoError(t, err)
	assert.Contains(t, output, "Home Finance (10)")
	assert.Contains(t, output, "- Loan Officer")
	assert.Contains(t, output, "Pool Care (0)")
	assert.Contains(t, output, "no services")
	assert.NotContains(t, output, "Home Building")
}
