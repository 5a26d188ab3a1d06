package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/bnema/usahome-cli/internal/domain"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ledgerSync reconciles one identity's ledger and reports where it was served from.
type ledgerSync func(context.Context) (domain.ReconciliationSource, error)

type ledgerSyncDoneMsg struct {
	source domain.ReconciliationSource
	err    error
}

type ledgerSyncSpinnerModel struct {
	spinner  spinner.Model
	label    string
	sync     tea.Cmd
	source   domain.ReconciliationSource
	err      error
	done     bool
	trusted  lipgloss.Style
	fallback lipgloss.Style
}

func newLedgerSyncSpinnerModel(label string, sync tea.Cmd) ledgerSyncSpinnerModel {
	s := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("69"))),
	)

	return ledgerSyncSpinnerModel{
		spinner:  s,
		label:    label,
		sync:     sync,
		trusted:  lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		fallback: lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
	}
}

func (m ledgerSyncSpinnerModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.sync)
}

func (m ledgerSyncSpinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case ledgerSyncDoneMsg:
		m.done = true
		m.source = msg.source
		m.err = msg.err
		return m, tea.Quit
	default:
		return m, nil
	}
}

// View leaves a one-line sync summary behind once the read finished.
func (m ledgerSyncSpinnerModel) View() string {
	if !m.done {
		return fmt.Sprintf("%s %s", m.spinner.View(), m.label)
	}
	if m.err != nil {
		return ""
	}

	switch m.source {
	case domain.SourceRemoteTrusted:
		return m.trusted.Render("✓ synced with backend") + "\n"
	case domain.SourceLocalFallback:
		return m.fallback.Render("! backend unreachable, using local cache") + "\n"
	default:
		return ""
	}
}

func runLedgerSyncSpinner(ctx context.Context, output io.Writer, label string, sync ledgerSync) error {
	syncCmd := func() tea.Msg {
		source, err := sync(ctx)
		return ledgerSyncDoneMsg{source: source, err: err}
	}

	p := tea.NewProgram(
		newLedgerSyncSpinnerModel(label, syncCmd),
		tea.WithInput(nil),
		tea.WithOutput(output),
		tea.WithContext(ctx),
	)

	finalModel, err := p.Run()
	if err != nil {
		return err
	}

	result, ok := finalModel.(ledgerSyncSpinnerModel)
	if !ok {
		return fmt.Errorf("unexpected final spinner model type %T", finalModel)
	}

	return result.err
}

// withSyncSpinner shows the spinner on stderr unless quiet is set.
func withSyncSpinner(ctx context.Context, stderr io.Writer, quiet bool, label string, sync ledgerSync) error {
	if quiet {
		_, err := sync(ctx)
		return err
	}
	return runLedgerSyncSpinner(ctx, stderr, label, sync)
}
