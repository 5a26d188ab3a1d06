package ledger

import (
	"fmt"

	"github.com/bnema/usahome-cli/internal/application"
	"github.com/bnema/usahome-cli/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

type LedgerOptions struct {
	LastAdded domain.ServiceName
	// Fee is optional; when set it is shown under the list.
	Fee     *domain.FeeQuote
	Offline bool
}

func RenderLedger(snapshot application.Snapshot, opts LedgerOptions) (string, error) {
	return run(func(s styles) string {
		return renderLedgerView(snapshot, opts, s)
	})
}

func RenderFee(report application.FeeReport) (string, error) {
	return run(func(s styles) string {
		return renderFeeView(report, s)
	})
}

func RenderCatalog(categories []domain.Category) (string, error) {
	return run(func(s styles) string {
		return renderCatalogView(categories, s)
	})
}

func renderLedgerView(snapshot application.Snapshot, opts LedgerOptions, s styles) string {
	lines := []string{
		s.title.Render("USA Home Services"),
		s.header.Render(fmt.Sprintf("account: %s | services: %d | source: %s", snapshot.Identity, snapshot.Count(), snapshot.Source.Label())),
	}
	switch {
	case opts.Offline:
		lines = append(lines, s.warning.Render("offline mode, showing locally cached services"))
	case snapshot.Source == domain.SourceLocalFallback:
		lines = append(lines, s.warning.Render("backend unreachable, showing locally cached services"))
	}

	if snapshot.Count() == 0 {
		lines = append(lines, s.section.Render(s.empty.Render("No services added yet.")))
	} else {
		items := make([]string, 0, snapshot.Count())
		for i, name := range snapshot.Services {
			items = append(items, serviceLine(i+1, name, s))
		}
		lines = append(lines, s.section.Render(lipgloss.JoinVertical(lipgloss.Left, items...)))
	}

	if opts.LastAdded != "" {
		lines = append(lines, s.detail.Render(fmt.Sprintf("last added: %s", opts.LastAdded)))
	}
	if opts.Fee != nil {
		lines = append(lines, s.section.Render(feeLine(*opts.Fee, s)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func serviceLine(position int, name domain.ServiceName, s styles) string {
	category, ok := domain.CategoryOf(name)
	label := "uncatalogued"
	if ok {
		label = string(category)
	}

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		s.service.Render(fmt.Sprintf("%2d. %s", position, name)),
		" ",
		s.detail.Render(fmt.Sprintf("(%s)", label)),
	)
}

func renderFeeView(report application.FeeReport, s styles) string {
	lines := []string{
		s.title.Render("USA Home Monthly Fee"),
		s.header.Render(fmt.Sprintf("account: %s | source: %s", report.Quote.Identity, report.Snapshot.Source.Label())),
		s.section.Render(feeLine(report.Quote, s)),
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func feeLine(quote domain.FeeQuote, s styles) string {
	basis := fmt.Sprintf("(%d %s)", quote.ServiceCount, pluralize(quote.ServiceCount, "service", "services"))
	if quote.Overridden {
		basis = "(fixed account rate)"
	}

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		"monthly fee: ",
		s.fee.Render(quote.String()),
		" ",
		s.detail.Render(basis),
	)
}

func renderCatalogView(categories []domain.Category, s styles) string {
	lines := []string{s.title.Render("USA Home Service Catalog")}
	if len(categories) == 0 {
		lines = append(lines, s.empty.Render("No categories."))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	for _, category := range categories {
		services := domain.ListServices(category)
		block := []string{s.category.Render(fmt.Sprintf("%s (%d)", category, len(services)))}
		if len(services) == 0 {
			block = append(block, s.empty.Render("  no services"))
		}
		for _, service := range services {
			block = append(block, s.service.Render("  - "+string(service)))
		}
		lines = append(lines, s.section.Render(lipgloss.JoinVertical(lipgloss.Left, block...)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func pluralize(n int, singular, plural string) string {
	if n == 1 {
		return singular
	}
	return plural
}
