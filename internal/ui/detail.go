package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/ramyun/internal/catalog"
	"github.com/five82/ramyun/internal/query"
)

// handleDetailKey processes keyboard input for the detail view.
func (m Model) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape), key.Matches(msg, m.keys.Back):
		return m, m.closeDetail()
	case key.Matches(msg, m.keys.Favorite):
		return m, m.toggleFavorite(m.detailItem)
	case key.Matches(msg, m.keys.Top):
		m.detailViewport.GotoTop()
		return m, nil
	case key.Matches(msg, m.keys.Bottom):
		m.detailViewport.GotoBottom()
		return m, nil
	}

	var cmd tea.Cmd
	m.detailViewport, cmd = m.detailViewport.Update(msg)
	return m, cmd
}

// syncDetail copies the shown item out of the detail holder and re-renders
// the viewport.
func (m *Model) syncDetail() {
	item, open := m.detail.Current()
	if !open {
		return
	}
	m.detailItem = item
	m.detailViewport.SetContent(m.renderDetailContent())
}

func (m *Model) resizeDetailViewport() {
	w, h := m.width-4, m.height-5
	if w < 1 || h < 1 {
		return
	}
	if m.detailViewport.Width == 0 {
		m.detailViewport = viewport.New(w, h)
	}
	m.detailViewport.Width = w
	m.detailViewport.Height = h
	m.detailViewport.SetContent(m.renderDetailContent())
}

func (m Model) renderDetail(height int) string {
	return m.renderBox(detailTitle(m.detailItem), m.detailViewport.View(), m.width, height, true)
}

func (m Model) renderDetailContent() string {
	item := m.detailItem
	if item.ID == 0 {
		return ""
	}
	styles := m.theme.Styles()
	label := styles.MutedText.Width(14)

	var b strings.Builder
	b.WriteString(styles.Text.Bold(true).Render(item.Name))
	b.WriteString("\n")
	b.WriteString(styles.MutedText.Render(item.Brand))
	b.WriteString("\n\n")

	switch {
	case m.pending(item.ID):
		b.WriteString(styles.WarningText.Render("… saving"))
	case item.Liked:
		b.WriteString(styles.LikedText.Render("♥ In your favorites"))
	default:
		b.WriteString(styles.FaintText.Render("♡ Not in your favorites"))
	}
	b.WriteString("\n\n")

	row := func(name, value string) {
		b.WriteString(label.Render(name))
		b.WriteString(styles.Text.Render(value))
		b.WriteString("\n")
	}
	row("Rating", fmt.Sprintf("%s (%d reviews)", formatRating(item), item.ReviewCount))
	row("Calories", fmt.Sprintf("%.0f kcal", item.Kcal))
	row("Weight", fmt.Sprintf("%.0f g", item.Gram))
	row("Sodium", fmt.Sprintf("%.0f mg", item.Sodium))
	if item.Scoville != nil {
		row("Scoville", fmt.Sprintf("%d SHU", *item.Scoville))
	}
	row(query.DimNoodle.Title(), flagLabel(query.DimNoodle, item.Noodle))
	row(query.DimIsCup.Title(), flagLabel(query.DimIsCup, item.IsCup))
	row(query.DimCooking.Title(), flagLabel(query.DimCooking, item.Cooking))
	if item.Image != "" {
		row("Image", item.Image)
	}
	return strings.TrimRight(b.String(), "\n")
}

// flagLabel names a boolean item attribute with its filter option label.
func flagLabel(d query.Dimension, v bool) string {
	if v {
		return d.Label("1")
	}
	return d.Label("0")
}

func detailTitle(item catalog.Item) string {
	if item.Name == "" {
		return fmt.Sprintf("#%d", item.ID)
	}
	return item.Name
}
