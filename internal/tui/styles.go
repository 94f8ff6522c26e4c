package tui

import (
	"bookmemo/internal/confirm"
	"bookmemo/internal/notify"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#5A56E0")).
			Padding(0, 1)

	subtleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).MarginTop(1)
	labelStyle    = lipgloss.NewStyle().Bold(true)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(0, 1)

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(1, 2)

	disabledStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Strikethrough(true)
)

func severityStyle(s confirm.Severity) lipgloss.Style {
	base := lipgloss.NewStyle().Border(lipgloss.ThickBorder()).Padding(1, 2)
	switch s {
	case confirm.SeverityDanger:
		return base.BorderForeground(lipgloss.Color("196"))
	case confirm.SeverityWarning:
		return base.BorderForeground(lipgloss.Color("214"))
	default:
		return base.BorderForeground(lipgloss.Color("39"))
	}
}

func toastStyle(l notify.Level) lipgloss.Style {
	base := lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("#FFFFFF"))
	switch l {
	case notify.LevelError:
		return base.Background(lipgloss.Color("160"))
	case notify.LevelWarning:
		return base.Background(lipgloss.Color("130"))
	default:
		return base.Background(lipgloss.Color("25"))
	}
}
