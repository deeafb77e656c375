package ui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderMain renders the full UI: header, command bar, content, status bar.
func (m Model) renderMain() string {
	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderCommandBar())
	b.WriteString("\n")
	b.WriteString(m.renderContent(m.height - 3))
	b.WriteString("\n")
	b.WriteString(m.renderStatusBar())
	return b.String()
}

func (m Model) renderContent(height int) string {
	switch m.currentView {
	case ViewRecent:
		return m.renderRecent(height)
	case ViewDetail:
		return m.renderDetail(height)
	default:
		return m.renderSearch(height)
	}
}

// renderHeader renders the logo, identity and connection state.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	parts := []string{bg.Render("ramyun", styles.Logo)}

	switch m.currentView {
	case ViewRecent:
		parts = append(parts, bg.Render("Recently viewed", styles.Text))
	case ViewDetail:
		parts = append(parts, bg.Render("Item #"+strconv.FormatInt(m.detailItem.ID, 10), styles.Text))
	default:
		parts = append(parts, bg.Render("Search", styles.Text))
	}

	switch {
	case m.cred.SignedIn():
		parts = append(parts, bg.Render("●", styles.SuccessText)+bg.Space()+bg.Render(m.cred.UserID, styles.MutedText))
	case !m.cred.Anonymous():
		parts = append(parts, bg.Render("● signed in", styles.SuccessText))
	default:
		parts = append(parts, bg.Render("○ guest", styles.FaintText))
	}

	switch {
	case m.snapshot.IsOffline():
		parts = append(parts, bg.Render("OFFLINE", styles.DangerText))
	case m.snapshot.Loading:
		parts = append(parts, bg.Render("Loading…", styles.WarningText))
	case !m.snapshot.LastUpdated.IsZero():
		parts = append(parts, bg.Render("updated "+m.snapshot.LastUpdated.Format("15:04:05"), styles.FaintText))
	}

	return styles.Header.Width(m.width).Render(bg.Join(parts, "  "))
}

// renderCommandBar renders the key hints for the current view.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	type cmd struct{ key, desc string }
	var commands []cmd

	switch m.currentView {
	case ViewRecent:
		commands = []cmd{
			{"j/k", "Navigate"},
			{"enter", "Open"},
			{"l", "Like"},
			{"[/]", "Page"},
			{"tab", "Search"},
			{"?", "More"},
		}
	case ViewDetail:
		commands = []cmd{
			{"l", "Like"},
			{"esc", "Close"},
			{"j/k", "Scroll"},
			{"?", "More"},
		}
	default:
		filterLabel := "Filters"
		if m.showFilters {
			filterLabel = "Close filters"
		}
		commands = []cmd{
			{"/", "Name"},
			{"f", filterLabel},
			{"1/2/3", "Sort"},
			{"[/]", "Page"},
			{"b/B", "Back/Fwd"},
			{"enter", "Open"},
			{"l", "Like"},
			{"tab", "Recent"},
			{"?", "More"},
		}
	}

	colon := bg.Sep(":")
	segments := make([]string, 0, len(commands)+1)
	for _, c := range commands {
		segments = append(segments,
			bg.Render(c.key, styles.AccentText)+colon+bg.Render(c.desc, styles.MutedText))
	}
	segments = append(segments,
		bg.Render("T", styles.AccentText)+colon+bg.Render(m.theme.Name, styles.FaintText))

	return styles.Header.Width(m.width).Render(strings.Join(segments, bg.Spaces(2)))
}

// renderStatusBar shows the active input, a pending notice, or the address
// and pager.
func (m Model) renderStatusBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	footer := styles.Footer.Width(m.width)

	if m.inputMode != inputNone {
		return footer.Render(m.input.View())
	}

	var right string
	switch m.currentView {
	case ViewSearch:
		right = m.renderPager(m.current.State.Page, m.snapshot.Page.TotalPages, bg)
	case ViewRecent:
		right = m.renderPager(m.recentPage, m.recentTotal, bg)
	}

	var left string
	switch {
	case m.notice.text != "":
		style := styles.InfoText
		switch m.notice.kind {
		case noticeSuccess:
			style = styles.SuccessText
		case noticeError:
			style = styles.DangerText
		}
		left = bg.Render(m.notice.text, style)
	default:
		left = bg.Render("?"+m.current.Address, styles.FaintText)
	}

	gap := m.width - 2 - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		return footer.Render(left)
	}
	return footer.Render(left + bg.Spaces(gap) + right)
}
