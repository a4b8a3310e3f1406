// internal/report/summary.go
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/rovshanmuradov/launch-bundler/internal/bundler"
	"github.com/rovshanmuradov/launch-bundler/internal/logger"
	"github.com/rovshanmuradov/launch-bundler/internal/transaction"
)

// SummaryStyle contains all styling for the run summary
type SummaryStyle struct {
	container lipgloss.Style
	title     lipgloss.Style
	label     lipgloss.Style
	value     lipgloss.Style
	ok        lipgloss.Style
	aborted   lipgloss.Style
	muted     lipgloss.Style
}

// NewSummaryStyle builds the summary styles from the palette.
func NewSummaryStyle(palette Palette) SummaryStyle {
	return SummaryStyle{
		container: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(palette.Primary).
			Padding(0, 2),

		title: lipgloss.NewStyle().
			Foreground(palette.Primary).
			Bold(true),

		label: lipgloss.NewStyle().
			Foreground(palette.Label).
			Width(14),

		value: lipgloss.NewStyle().
			Foreground(palette.Text),

		ok: lipgloss.NewStyle().
			Foreground(palette.Success).
			Bold(true),

		aborted: lipgloss.NewStyle().
			Foreground(palette.Warning).
			Bold(true),

		muted: lipgloss.NewStyle().
			Foreground(palette.TextMuted),
	}
}

// Summary renders the outcome of a run as a bordered box.
func Summary(res *bundler.Result) string {
	return RenderSummary(res, NewSummaryStyle(DefaultPalette()))
}

// RenderSummary renders res with the given style.
func RenderSummary(res *bundler.Result, st SummaryStyle) string {
	if res == nil {
		return ""
	}

	row := func(label, value string) string {
		return lipgloss.JoinHorizontal(lipgloss.Top, st.label.Render(label), st.value.Render(value))
	}

	lines := []string{st.title.Render("Launch summary")}
	if res.Aborted {
		lines = append(lines, row("Status", st.aborted.Render("aborted: "+res.Reason)))
	} else {
		lines = append(lines, row("Status", st.ok.Render("bundle submitted")))
	}

	if res.Mint != nil {
		lines = append(lines, row("Mint", res.Mint.PublicKey.String()))
	}
	if len(res.Wallets) > 0 {
		short := make([]string, len(res.Wallets))
		for i, w := range res.Wallets {
			short[i] = logger.ShortenAddress(w.PublicKey.String())
		}
		lines = append(lines, row("Wallets", fmt.Sprintf("%d  %s", len(res.Wallets), st.muted.Render(strings.Join(short, " ")))))
	}
	if !res.LookupTable.IsZero() {
		lines = append(lines, row("Lookup table", res.LookupTable.String()))
	}
	if res.BuyBatches > 0 {
		lines = append(lines, row("Buys", fmt.Sprintf("%d instructions in %d batches", res.BuyIxCount, res.BuyBatches)))
	}
	for i, tx := range res.Transactions {
		size, err := transaction.SerializedSize(tx)
		if err != nil {
			continue
		}
		name := fmt.Sprintf("Tx %d", i)
		if i == 0 {
			name = "Create tx"
		}
		lines = append(lines, row(name, fmt.Sprintf("%d bytes", size)))
	}
	if res.BundleID != "" {
		lines = append(lines, row("Bundle", res.BundleID))
	}
	if res.Elapsed > 0 {
		lines = append(lines, row("Elapsed", res.Elapsed.Round(time.Millisecond).String()))
	}

	return st.container.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}
