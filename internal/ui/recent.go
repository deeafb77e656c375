package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/ramyun/internal/catalog"
)

// handleRecentKey processes keyboard input for the recently viewed list.
func (m Model) handleRecentKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	n := len(m.recentItems)
	switch {
	case key.Matches(msg, m.keys.Down):
		m.recentRow = clampRow(m.recentRow+1, n)
	case key.Matches(msg, m.keys.Up):
		m.recentRow = clampRow(m.recentRow-1, n)
	case key.Matches(msg, m.keys.Top):
		m.recentRow = 0
	case key.Matches(msg, m.keys.Bottom):
		m.recentRow = clampRow(n-1, n)

	case key.Matches(msg, m.keys.Open):
		if item, ok := m.selectedRecentItem(); ok {
			return m, m.openDetail(item)
		}
	case key.Matches(msg, m.keys.Favorite):
		if item, ok := m.selectedRecentItem(); ok {
			return m, m.toggleFavorite(item)
		}

	case key.Matches(msg, m.keys.NextPage):
		if page, ok := clampPage(m.recentPage+1, m.recentPage, m.recentTotal); ok {
			m.recentRow = 0
			return m, m.reloadRecent(page)
		}
	case key.Matches(msg, m.keys.PrevPage):
		if page, ok := clampPage(m.recentPage-1, m.recentPage, m.recentTotal); ok {
			m.recentRow = 0
			return m, m.reloadRecent(page)
		}

	case key.Matches(msg, m.keys.Escape):
		m.currentView = ViewSearch
	}
	return m, nil
}

func (m Model) selectedRecentItem() (catalog.Item, bool) {
	if m.recentRow < 0 || m.recentRow >= len(m.recentItems) {
		return catalog.Item{}, false
	}
	return m.recentItems[m.recentRow], true
}

func (m Model) renderRecent(height int) string {
	styles := m.theme.Styles()
	title := fmt.Sprintf("Recently viewed · %d", len(m.recentItems))

	var content string
	switch {
	case !m.cred.SignedIn():
		content = styles.MutedText.Render("Sign in to keep a list of recently viewed ramyun")
	case m.recentErr != nil:
		content = styles.DangerText.Render("Could not load recent items: " + m.recentErr.Error())
	case len(m.recentItems) == 0:
		content = styles.MutedText.Render("Nothing viewed yet")
	default:
		content = m.renderItemRows(m.recentItems, m.recentRow, m.width-2, height-2)
	}
	return m.renderBox(title, content, m.width, height, true)
}
