package tui

import "github.com/charmbracelet/lipgloss"

var (
	// TitleStyle is used for the month title.
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62")). // Purple
			MarginBottom(1)

	// WeekdayStyle is used for the weekday header.
	WeekdayStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")) // Dark gray

	// DayStyle is used for days of the displayed month.
	DayStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")) // Light gray

	// WeekendStyle colours Saturdays and Sundays.
	WeekendStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("75")) // Blue

	// OutsideStyle is used for days of the neighbouring months.
	OutsideStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("238"))

	// TodayStyle highlights the current date.
	TodayStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")). // Orange
			Bold(true)

	// CursorStyle marks the hovered day.
	CursorStyle = lipgloss.NewStyle().
			Reverse(true)

	// BadgeStyle is used for the hidden-book count.
	BadgeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("170")). // Light purple
			Bold(true)

	// DetailStyle frames the books of the hovered day.
	DetailStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(0, 1).
			MarginTop(1)

	// ErrorStyle is used for error messages.
	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")). // Red
			Bold(true)

	// HelpStyle is used for help text.
	HelpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")). // Dark gray
			MarginTop(1)
)
