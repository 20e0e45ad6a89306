package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"pacebar/config"
	"pacebar/history"
	"pacebar/menu"
	"pacebar/pace"
	"pacebar/refresh"
	"pacebar/usage"
)

// TUI message types
type tickMsg time.Time
type reloadMsg struct {
	entries []history.Entry
	report  usage.Report
	modTime time.Time
	err     error
}
type refreshDoneMsg struct{ err error }

type tuiModel struct {
	cfg           *config.Config
	width, height int
	entries       []history.Entry
	report        usage.Report
	usageMod      time.Time // mtime of usage.json at last load
	status        string    // transient line under the header
	refreshing    bool
	loaded        bool
}

// Styles indexed by pace.Band (Danger..Comfortable).
var (
	bandColors = [4]string{"196", "208", "220", "40"}
	bandStyles [4]lipgloss.Style

	headerStyle = lipgloss.NewStyle().Bold(true)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("246"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("239"))
	keyStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("239")).Bold(true)
)

func init() {
	for i, c := range bandColors {
		bandStyles[i] = lipgloss.NewStyle().Foreground(lipgloss.Color(c))
	}
}

func runTUI(cfg *config.Config) error {
	p := tea.NewProgram(tuiModel{cfg: cfg}, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func tuiTick() tea.Cmd {
	return tea.Tick(2*time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func loadCmd(cfg *config.Config) tea.Cmd {
	usagePath := cfg.UsagePath()
	historyPath := cfg.HistoryPath()
	return func() tea.Msg {
		var msg reloadMsg
		entries, err := history.Build(historyPath)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			msg.err = err
		}
		msg.entries = entries
		msg.report = usage.Load(usagePath, time.Now())
		if fi, err := os.Stat(usagePath); err == nil {
			msg.modTime = fi.ModTime()
		}
		return msg
	}
}

func refreshCmd(cfg *config.Config) tea.Cmd {
	r := refresh.Runner{Cmd: cfg.RefreshCmd, UsagePath: cfg.UsagePath()}
	timeout := cfg.RefreshTimeout()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return refreshDoneMsg{err: r.RunSync(ctx)}
	}
}

func (m tuiModel) Init() tea.Cmd {
	return tea.Batch(loadCmd(m.cfg), tuiTick())
}

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "r":
			if m.refreshing {
				return m, nil
			}
			if m.cfg.RefreshCmd == "" {
				m.status = "refresh_cmd is not configured"
				return m, nil
			}
			m.refreshing = true
			m.status = "refreshing..."
			return m, refreshCmd(m.cfg)
		case "c":
			if err := clipboard.WriteAll(menu.Summary(m.report, time.Now())); err != nil {
				m.status = "copy failed: " + err.Error()
			} else {
				m.status = "summary copied"
			}
		}

	case tickMsg:
		// Reload when the scraper rewrote usage.json behind us
		if fi, err := os.Stat(m.cfg.UsagePath()); err == nil && fi.ModTime().After(m.usageMod) {
			return m, tea.Batch(loadCmd(m.cfg), tuiTick())
		}
		return m, tuiTick()

	case reloadMsg:
		m.entries = msg.entries
		m.report = msg.report
		m.usageMod = msg.modTime
		m.loaded = true
		if msg.err != nil {
			m.status = "history: " + msg.err.Error()
		}

	case refreshDoneMsg:
		m.refreshing = false
		if msg.err != nil {
			m.status = "refresh failed: " + msg.err.Error()
			return m, nil
		}
		m.status = "refreshed"
		return m, loadCmd(m.cfg)
	}
	return m, nil
}

func (m tuiModel) View() string {
	if m.width == 0 || m.height == 0 || !m.loaded {
		return "Loading..."
	}

	chartWidth := m.width * 3 / 5
	if chartWidth < 30 {
		chartWidth = 30
	}
	rightWidth := m.width - chartWidth - 1
	if rightWidth < 20 {
		rightWidth = 20
	}

	var left strings.Builder
	left.WriteString(headerStyle.Render("pacebar") + dimStyle.Render("  ·  usage history") + "\n")
	if m.status != "" {
		left.WriteString(dimStyle.Render(m.status) + "\n")
	} else {
		left.WriteString("\n")
	}
	left.WriteString("\n")

	const chartRows = 4
	for _, s := range buildSeries(m.entries) {
		latest := "no samples"
		if n := len(s.values); n > 0 && s.values[n-1] >= 0 {
			latest = fmt.Sprintf("%.0f%% remaining", s.values[n-1])
		}
		left.WriteString(labelStyle.Render(s.label) + dimStyle.Render("  "+latest) + "\n")
		left.WriteString(renderSparkline(s, chartWidth-2, chartRows))
		left.WriteString("\n")
	}

	left.WriteString(dimStyle.Render(fmt.Sprintf("%d samples", len(m.entries))) + "\n\n")
	left.WriteString(keyStyle.Render("r") + helpStyle.Render(" refresh   ") +
		keyStyle.Render("c") + helpStyle.Render(" copy summary   ") +
		keyStyle.Render("q") + helpStyle.Render(" quit") + "\n")
	left.WriteString(helpStyle.Render("pacebar " + version))

	var right strings.Builder
	now := time.Now()
	right.WriteString(labelStyle.Render("Current snapshot") + "\n\n")
	for _, lt := range labeledTiers(m.report) {
		right.WriteString(menu.TierText(lt.label, lt.tier, now) + "\n")
		if hint := menu.HintText(lt.tier); hint != "" {
			right.WriteString(dimStyle.Render("    "+hint) + "\n")
		}
		right.WriteString("\n")
	}
	right.WriteString(dimStyle.Render("updated " + usage.FormatAgo(m.report.UpdatedAt, now)))

	leftPanel := lipgloss.NewStyle().
		Width(chartWidth).
		Height(m.height).
		Render(left.String())
	rightPanel := lipgloss.NewStyle().
		Width(rightWidth).
		Height(m.height).
		PaddingLeft(1).
		Render(right.String())

	return lipgloss.JoinHorizontal(lipgloss.Top, leftPanel, rightPanel)
}

type tierSeries struct {
	label  string
	values []float64 // remaining pct, -1 when the sample had none
	bands  []pace.Band
}

// buildSeries projects the normalized history onto the three tiers,
// scoring each sample against its own timestamp so old points keep the
// pace they had at the time.
func buildSeries(entries []history.Entry) []tierSeries {
	s := [3]tierSeries{{label: "Session"}, {label: "Weekly"}, {label: "Extra"}}
	for _, e := range entries {
		ts, _ := time.Parse(time.RFC3339, e.TS)
		s[0].add(e.Session.RemainingPct, e.Session.ResetAt, usage.SessionWindowHours, ts)
		s[1].add(e.Weekly.RemainingPct, e.Weekly.ResetAt, usage.WeeklyWindowHours, ts)
		s[2].add(e.Extra.RemainingPct, e.Extra.ResetAt, usage.ExtraWindowHours, ts)
	}
	return s[:]
}

func (s *tierSeries) add(remaining float64, resetAt string, windowHours float64, ts time.Time) {
	timePct := 50.0
	if resetAt != "" && !ts.IsZero() {
		timePct = usage.TimeRemainingPct(resetAt, windowHours, ts)
	}
	s.values = append(s.values, remaining)
	s.bands = append(s.bands, pace.BandFor(pace.Score(remaining, timePct)))
}

// renderSparkline draws the series as half-block columns, newest on
// the right, each column colored by the pace band of its sample.
func renderSparkline(s tierSeries, width, rows int) string {
	if len(s.values) == 0 {
		return dimStyle.Render("  no history yet") + strings.Repeat("\n", rows)
	}

	start := 0
	if len(s.values) > width {
		start = len(s.values) - width
	}

	var b strings.Builder
	for row := 0; row < rows; row++ {
		for i := start; i < len(s.values); i++ {
			v := s.values[i]
			if v < 0 {
				// Unknown sample: a dim marker on the baseline
				if row == rows-1 {
					b.WriteString(dimStyle.Render("·"))
				} else {
					b.WriteString(" ")
				}
				continue
			}
			if cell := sparkCell(v, row, rows); cell == ' ' {
				b.WriteString(" ")
			} else {
				b.WriteString(bandStyles[s.bands[i]].Render(string(cell)))
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}

// sparkCell picks the half-block for one chart cell. Columns fill
// bottom-up; char row `row` covers pixel rows row*2 and row*2+1, and
// any known value keeps at least a sliver on the baseline.
func sparkCell(v float64, row, rows int) rune {
	pixH := rows * 2
	filled := int(v/100*float64(pixH) + 0.5)
	if filled < 1 {
		filled = 1
	}
	if filled > pixH {
		filled = pixH
	}
	topOn := row*2 >= pixH-filled
	botOn := row*2+1 >= pixH-filled
	switch {
	case topOn && botOn:
		return '█'
	case botOn:
		return '▄'
	default:
		return ' '
	}
}
