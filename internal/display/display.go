// Package display renders the console surface: banner, per-account
// progress lines, stat panels and the end-of-cycle summary table.
package display

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/ekaputhra/kitefarm/internal/utils"
)

// UI styles
var (
	bannerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#7C3AED")).
			Bold(true).
			Align(lipgloss.Center).
			Width(80)

	taglineStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#3B82F6")).
			Italic(true).
			Align(lipgloss.Center).
			Width(80).
			MarginBottom(1)

	accountStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7C3AED")).
			Background(lipgloss.Color("#1F2937")).
			Padding(0, 1).
			MarginTop(1)

	panelStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#3B82F6")).
			Padding(0, 2)

	phaseStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#3B82F6")).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(lipgloss.Color("#3B82F6")).
			MarginTop(1)

	// Status styles
	okStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#10B981")).
		Bold(true)

	errStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EF4444")).
			Bold(true)

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F59E0B")).
			Bold(true)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#3B82F6"))

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6B7280"))

	agentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F59E0B"))

	tableBorderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#3B82F6"))

	tableHeaderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#3B82F6")).
				Bold(true).
				Padding(0, 1)

	tableCellStyle = lipgloss.NewStyle().
			Padding(0, 1)
)

// Banner shows the startup banner.
func Banner() {
	banner := `
██╗  ██╗██╗████████╗███████╗    ███████╗ █████╗ ██████╗ ███╗   ███╗
██║ ██╔╝██║╚══██╔══╝██╔════╝    ██╔════╝██╔══██╗██╔══██╗████╗ ████║
█████╔╝ ██║   ██║   █████╗      █████╗  ███████║██████╔╝██╔████╔██║
██╔═██╗ ██║   ██║   ██╔══╝      ██╔══╝  ██╔══██║██╔══██╗██║╚██╔╝██║
██║  ██╗██║   ██║   ███████╗    ██║     ██║  ██║██║  ██║██║ ╚═╝ ██║
╚═╝  ╚═╝╚═╝   ╚═╝   ╚══════╝    ╚═╝     ╚═╝  ╚═╝╚═╝  ╚═╝╚═╝     ╚═╝
`
	fmt.Print(bannerStyle.Render(banner))
	fmt.Println()
	fmt.Println(taglineStyle.Render("🪁 Agent chats, daily quiz and staking rotation on autopilot 🪁"))
}

// AccountHeader marks the start of one account's run.
func AccountHeader(index, total int, shortAddr, when string) {
	fmt.Println(accountStyle.Render(fmt.Sprintf("👤 Account %d/%d | %s | %s", index, total, shortAddr, when)))
}

// Phase marks a stage of the account's run.
func Phase(label string) {
	fmt.Println(phaseStyle.Render(label))
}

// Divider separates cycles.
func Divider() {
	fmt.Println(mutedStyle.Render(strings.Repeat("─", 64)))
}

// Success shows a success message.
func Success(format string, a ...any) {
	fmt.Println(okStyle.Render("✅ " + fmt.Sprintf(format, a...)))
}

// Failure shows an error message.
func Failure(format string, a ...any) {
	fmt.Println(errStyle.Render("❌ " + fmt.Sprintf(format, a...)))
}

// Warn shows a warning message.
func Warn(format string, a ...any) {
	fmt.Println(warnStyle.Render("⚠️  " + fmt.Sprintf(format, a...)))
}

// Info shows an info message.
func Info(format string, a ...any) {
	fmt.Println(infoStyle.Render("ℹ️  " + fmt.Sprintf(format, a...)))
}

// Muted shows a low-key progress message.
func Muted(format string, a ...any) {
	fmt.Println(mutedStyle.Render(fmt.Sprintf(format, a...)))
}

// ChatLine shows one chat attempt against the daily cap.
func ChatLine(n, capacity int, agent, topic string) {
	fmt.Printf("%s %s %s\n",
		infoStyle.Render(fmt.Sprintf("[%d/%d]", n, capacity)),
		agentStyle.Render(agent),
		mutedStyle.Render("-> "+truncateString(topic, 56)),
	)
}

// ReplyLine shows the agent's reply under its chat line.
func ReplyLine(text string) {
	fmt.Println(mutedStyle.Render("      " + truncateString(text, 72)))
}

// Stats is the final per-account statistics view.
type Stats struct {
	Username string
	Rank     int
	XP       int
	Kite     string
	Usdt     string
	Staked   string
	Claimed  string
	Ops      string
}

// StatsPanel shows the account's profile and holdings after a run.
func StatsPanel(s Stats) {
	var content strings.Builder
	content.WriteString(fmt.Sprintf("👤 %s | 🏆 Rank %d | ⭐ %d XP\n", s.Username, s.Rank, s.XP))
	content.WriteString(fmt.Sprintf("💰 %s KITE | 💵 %s USDT\n", s.Kite, s.Usdt))
	content.WriteString(fmt.Sprintf("🔒 %s staked | 🎁 %s claimed\n", s.Staked, s.Claimed))
	content.WriteString("⚙️  " + s.Ops)
	fmt.Println(panelStyle.Render(content.String()))
}

// BalancesTable shows the account's spendable tokens.
func BalancesTable(kiteBal, usdtBal string) {
	tbl := newTable("TOKEN", "AMOUNT")
	tbl.Row("KITE", kiteBal)
	tbl.Row("USDT", usdtBal)
	fmt.Println(tbl.Render())
}

// StakeRow is one line of the active-positions table.
type StakeRow struct {
	Subnet   string
	Staked   string
	Since    string
	ToUnlock string
}

// StakesTable shows each subnet position and its countdown to the unstake
// threshold.
func StakesTable(rows []StakeRow) {
	if len(rows) == 0 {
		Muted("no active stakes")
		return
	}
	fmt.Println(renderStakes(rows))
}

func renderStakes(rows []StakeRow) string {
	tbl := newTable("SUBNET", "STAKED", "SINCE (H)", "TO UNLOCK")
	for _, r := range rows {
		tbl.Row(r.Subnet, r.Staked, r.Since, r.ToUnlock)
	}
	return tbl.Render()
}

// SummaryRow is one account's line in the end-of-cycle table.
type SummaryRow struct {
	Account string
	Chats   string
	Quiz    string
	Staked  string
	Claimed string
	Status  string
}

// SummaryTable shows the cycle outcome across all accounts.
func SummaryTable(rows []SummaryRow) {
	if len(rows) == 0 {
		return
	}
	fmt.Println(renderSummary(rows))
}

func renderSummary(rows []SummaryRow) string {
	tbl := newTable("ACCOUNT", "CHATS", "QUIZ", "STAKED", "CLAIMED", "STATUS")
	for _, r := range rows {
		tbl.Row(r.Account, r.Chats, r.Quiz, r.Staked, r.Claimed, r.Status)
	}
	return tbl.Render()
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(tableBorderStyle).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return tableHeaderStyle
			}
			return tableCellStyle
		}).
		Headers(headers...)
}

// Countdown rewrites the current line with the time left until the next
// cycle. The caller prints the trailing newline when the wait ends.
func Countdown(remaining time.Duration) {
	fmt.Printf("\r%s ", mutedStyle.Render("⏳ Next cycle in "+utils.FormatHMS(remaining)))
}

// CountdownDone terminates the countdown line.
func CountdownDone() {
	fmt.Println()
}

func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
