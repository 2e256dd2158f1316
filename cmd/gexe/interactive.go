package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wippyai/gpu-runtime/gexe"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	detailStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type viewState int

const (
	stateList viewState = iota
	stateDetail
)

type interactiveModel struct {
	pkg      *gexe.Package
	filename string
	table    table.Model
	state    viewState
}

func newInteractiveModel(filename string, pkg *gexe.Package) *interactiveModel {
	columns := []table.Column{
		{Title: "#", Width: 4},
		{Title: "Name", Width: 28},
		{Title: "Block", Width: 14},
		{Title: "Shared mem", Width: 12},
	}

	rows := make([]table.Row, len(pkg.EntryPoints))
	for i := range pkg.EntryPoints {
		ep := &pkg.EntryPoints[i]
		rows[i] = table.Row{
			fmt.Sprintf("%d", i),
			ep.Name,
			fmt.Sprintf("%dx%dx%d", ep.BlockSize[0], ep.BlockSize[1], ep.BlockSize[2]),
			fmt.Sprintf("%d B", ep.SharedMemoryBytes),
		}
	}

	height := len(rows)
	if height > 16 {
		height = 16
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(height+1),
	)

	styles := table.DefaultStyles()
	styles.Header = styles.Header.Bold(true).Foreground(lipgloss.Color("#87CEEB"))
	styles.Selected = styles.Selected.
		Foreground(lipgloss.Color("#FAFAFA")).
		Background(lipgloss.Color("#7D56F4"))
	t.SetStyles(styles)

	return &interactiveModel{
		filename: filename,
		pkg:      pkg,
		table:    t,
		state:    stateList,
	}
}

func (m *interactiveModel) Init() tea.Cmd {
	return nil
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit

		case "enter":
			if m.state == stateList && len(m.pkg.EntryPoints) > 0 {
				m.state = stateDetail
			}
			return m, nil

		case "esc":
			if m.state == stateDetail {
				m.state = stateList
			}
			return m, nil
		}
	}

	if m.state == stateList {
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *interactiveModel) View() string {
	header := titleStyle.Render(fmt.Sprintf("%s — %d entry points, %d byte image",
		m.filename, len(m.pkg.EntryPoints), len(m.pkg.Image)))

	switch m.state {
	case stateDetail:
		return header + "\n\n" + m.detailView() + "\n" +
			helpStyle.Render("esc: back • q: quit") + "\n"
	default:
		return header + "\n\n" + m.table.View() + "\n" +
			helpStyle.Render("↑/↓: navigate • enter: details • q: quit") + "\n"
	}
}

func (m *interactiveModel) detailView() string {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.pkg.EntryPoints) {
		return errorStyle.Render("no entry point selected")
	}
	ep := &m.pkg.EntryPoints[i]

	body := fmt.Sprintf("%s %s\n%s %dx%dx%d\n%s %d bytes",
		labelStyle.Render("name:         "), ep.Name,
		labelStyle.Render("block size:   "), ep.BlockSize[0], ep.BlockSize[1], ep.BlockSize[2],
		labelStyle.Render("shared memory:"), ep.SharedMemoryBytes)

	if d := ep.Diagnostics; d != nil {
		body += fmt.Sprintf("\n%s %s:%d\n%s %s",
			labelStyle.Render("source:       "), d.SourceFile, d.SourceLine,
			labelStyle.Render("function:     "), d.FunctionName)
	}

	return detailStyle.Render(body)
}

func runInteractive(filename string) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}

	pkg, err := gexe.Decode(data)
	if err != nil {
		return fmt.Errorf("decode: %w", err)
	}

	p := tea.NewProgram(newInteractiveModel(filename, pkg))
	_, err = p.Run()
	return err
}
