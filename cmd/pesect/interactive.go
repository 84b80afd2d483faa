package main

import (
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/aefx/piplkit/aex"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	sectionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	detailStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type modelState int

const (
	stateSelectSection modelState = iota
	stateHexView
)

type sectionInfo struct {
	section aex.Section
	records int
}

type interactiveModel struct {
	err      error
	filename string
	data     []byte
	sections []sectionInfo
	selected int
	state    modelState
	view     viewport.Model
	ready    bool
}

type loadedMsg struct {
	err      error
	data     []byte
	sections []sectionInfo
}

func newInteractiveModel(filename string) *interactiveModel {
	return &interactiveModel{
		filename: filename,
		state:    stateSelectSection,
	}
}

func (m *interactiveModel) Init() tea.Cmd {
	return m.loadFile
}

func (m *interactiveModel) loadFile() tea.Msg {
	data, err := os.ReadFile(m.filename)
	if err != nil {
		return loadedMsg{err: err}
	}

	sections, err := aex.Sections(data)
	if err != nil {
		return loadedMsg{err: err}
	}

	infos := make([]sectionInfo, len(sections))
	for i, s := range sections {
		infos[i] = sectionInfo{section: s}
		end := int(s.RawOffset) + int(s.RawSize)
		if end <= len(data) && int(s.RawOffset) < end {
			infos[i].records = countRecords(data[s.RawOffset:end])
		}
	}
	return loadedMsg{data: data, sections: infos}
}

func countRecords(blob []byte) int {
	n := 0
	for off := 0; off+4 <= len(blob); off++ {
		if string(blob[off:off+4]) == "MIB8" {
			n++
		}
	}
	return n
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit

		case "up", "k":
			if m.state == stateSelectSection && m.selected > 0 {
				m.selected--
			}

		case "down", "j":
			if m.state == stateSelectSection && m.selected < len(m.sections)-1 {
				m.selected++
			}

		case "enter":
			if m.state == stateSelectSection && len(m.sections) > 0 {
				m.view.SetContent(m.hexContent())
				m.view.GotoTop()
				m.state = stateHexView
			}

		case "esc":
			if m.state == stateHexView {
				m.state = stateSelectSection
			}
		}

	case tea.WindowSizeMsg:
		if !m.ready {
			m.view = viewport.New(msg.Width, msg.Height-4)
			m.ready = true
		} else {
			m.view.Width = msg.Width
			m.view.Height = msg.Height - 4
		}

	case loadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.data = msg.data
		m.sections = msg.sections
	}

	if m.state == stateHexView {
		var cmd tea.Cmd
		m.view, cmd = m.view.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *interactiveModel) hexContent() string {
	s := m.sections[m.selected].section
	end := int(s.RawOffset) + int(s.RawSize)
	if end > len(m.data) {
		end = len(m.data)
	}
	if int(s.RawOffset) >= end {
		return errorStyle.Render("section lies outside the file")
	}
	return hex.Dump(m.data[s.RawOffset:end])
}

func (m *interactiveModel) View() string {
	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("Error: %v\n\nPress q to quit.", m.err))
	}
	if len(m.sections) == 0 {
		return "Loading sections..."
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("PE Sections"))
	b.WriteString(" ")
	b.WriteString(m.filename)
	b.WriteString("\n\n")

	switch m.state {
	case stateSelectSection:
		for i, info := range m.sections {
			line := m.formatSection(info)
			if i == m.selected {
				b.WriteString(selectedStyle.Render("> " + line))
			} else {
				b.WriteString("  " + line)
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("↑/↓ select • enter hex view • q quit"))

	case stateHexView:
		s := m.sections[m.selected].section
		b.WriteString(sectionStyle.Render(s.Name))
		b.WriteString(detailStyle.Render(fmt.Sprintf(" raw %#x+%#x", s.RawOffset, s.RawSize)))
		b.WriteString("\n")
		b.WriteString(m.view.View())
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("↑/↓ scroll • esc back • q quit"))
	}

	return b.String()
}

func (m *interactiveModel) formatSection(info sectionInfo) string {
	s := info.section
	line := sectionStyle.Render(fmt.Sprintf("%-10s", s.Name)) +
		detailStyle.Render(fmt.Sprintf(" raw %#x+%#x virt %#x+%#x", s.RawOffset, s.RawSize, s.VirtualAddr, s.VirtualSize))
	if info.records > 0 {
		line += fmt.Sprintf("  %d MIB8 records", info.records)
	}
	return line
}

func runInteractive(filename string) error {
	p := tea.NewProgram(newInteractiveModel(filename), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
