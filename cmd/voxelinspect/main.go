// Command voxelinspect is an interactive terminal inspector over a World:
// load chunk column files and query block/biome/light state by typing
// coordinates into a Bubble Tea viewport/textinput loop.
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/go-mclib/voxelworld/world"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39"))

	inputStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
)

type model struct {
	w         *world.World
	viewport  viewport.Model
	textInput textinput.Model
	lines     []string
	ready     bool
	width     int
	height    int
	quitting  bool
}

func newModel(w *world.World) *model {
	ti := textinput.New()
	ti.Placeholder = "x y z  (e.g. 100 64 -32)"
	ti.Focus()
	ti.CharLimit = 64
	ti.Width = 40

	return &model{w: w, textInput: ti}
}

func (m *model) Init() tea.Cmd {
	return textinput.Blink
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		headerHeight := 2
		footerHeight := 2
		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height-headerHeight-footerHeight)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - headerHeight - footerHeight
		}
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.quitting = true
			return m, tea.Quit
		case tea.KeyEnter:
			query := strings.TrimSpace(m.textInput.Value())
			if query != "" {
				m.addLine(m.query(query))
				m.textInput.SetValue("")
			}
		}
	}

	var cmd tea.Cmd
	m.textInput, cmd = m.textInput.Update(msg)
	cmds = append(cmds, cmd)
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

func (m *model) addLine(s string) {
	m.lines = append(m.lines, s)
	m.viewport.SetContent(strings.Join(m.lines, "\n"))
	m.viewport.GotoBottom()
}

// query parses "x y z" and reports the block at those coordinates.
func (m *model) query(input string) string {
	fields := strings.Fields(input)
	if len(fields) != 3 {
		return fmt.Sprintf("> %s: expected \"x y z\"", input)
	}
	x, errX := strconv.Atoi(fields[0])
	y, errY := strconv.Atoi(fields[1])
	z, errZ := strconv.Atoi(fields[2])
	if errX != nil || errY != nil || errZ != nil {
		return fmt.Sprintf("> %s: coordinates must be integers", input)
	}

	info, loaded := m.w.GetBlock(x, y, z)
	if !loaded {
		return fmt.Sprintf("> (%d, %d, %d): chunk not loaded", x, y, z)
	}
	return fmt.Sprintf("> (%d, %d, %d): state=%d light=%d sky=%d biome=%d",
		x, y, z, info.StateID, info.Light, info.SkyLight, info.BiomeID)
}

func (m *model) View() string {
	if m.quitting {
		return "Goodbye!\n"
	}
	if !m.ready {
		return "Initializing..."
	}

	title := titleStyle.Render(fmt.Sprintf("voxelinspect - %d chunks loaded", m.w.GetLoadedChunkCount()))
	help := helpStyle.Render("Enter: query • Ctrl+C/Esc: quit")

	return fmt.Sprintf("%s\n%s\n%s\n%s",
		title,
		m.viewport.View(),
		inputStyle.Render("> "+m.textInput.View()),
		help,
	)
}

func main() {
	var columnPaths stringListFlag
	var chunkX, chunkZ int

	flag.Var(&columnPaths, "load", "path to a raw chunk column wire buffer; repeatable")
	flag.IntVar(&chunkX, "chunk-x", 0, "chunk X coordinate for the first -load file")
	flag.IntVar(&chunkZ, "chunk-z", 0, "chunk Z coordinate for the first -load file")
	flag.Parse()

	w := world.New(world.DefaultConfig())
	for i, path := range columnPaths {
		data, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "voxelinspect: reading %s: %v\n", path, err)
			os.Exit(1)
		}
		if err := w.LoadColumn(int32(chunkX+i), int32(chunkZ), data); err != nil {
			fmt.Fprintf(os.Stderr, "voxelinspect: loading %s: %v\n", path, err)
			os.Exit(1)
		}
	}

	p := tea.NewProgram(newModel(w), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "voxelinspect: %v\n", err)
		os.Exit(1)
	}
}

type stringListFlag []string

func (f *stringListFlag) String() string { return strings.Join(*f, ",") }

func (f *stringListFlag) Set(v string) error {
	*f = append(*f, v)
	return nil
}
