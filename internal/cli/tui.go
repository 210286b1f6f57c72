package cli

import (
	"fmt"
	"math/rand/v2"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/platemap/pkg/hotspot"
	"github.com/matzehuels/platemap/pkg/render"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

const (
	defaultPlateRows = 21
	minPlateRows     = 9
)

// =============================================================================
// PreviewModel - Interactive plate preview
// =============================================================================

// GenerateFunc produces a layout and reports whether it came from cache.
type GenerateFunc func(req hotspot.Request) (hotspot.Result, bool, error)

// PreviewModel is the bubbletea model for browsing strategies and seeds
// for a single dish.
type PreviewModel struct {
	Request    hotspot.Request
	Strategies []hotspot.Strategy
	Index      int
	Result     hotspot.Result
	Cached     bool
	Err        error
	Lang       string
	Rows       int

	generate GenerateFunc
	randSeed func() int64
}

// NewPreviewModel creates a preview model positioned on req's strategy and
// renders the first layout.
func NewPreviewModel(req hotspot.Request, generate GenerateFunc) PreviewModel {
	m := PreviewModel{
		Request:  req,
		Lang:     "en",
		Rows:     defaultPlateRows,
		generate: generate,
		randSeed: func() int64 { return rand.Int64N(1<<31-1) + 1 },
	}
	for _, d := range hotspot.Catalog() {
		m.Strategies = append(m.Strategies, d.ID)
	}
	for i, s := range m.Strategies {
		if s == req.Strategy {
			m.Index = i
		}
	}
	m.Request.Strategy = m.Strategies[m.Index]
	m.Request.Seed = hotspot.NormalizeSeed(m.Request.Seed)
	return m.regenerate()
}

func (m PreviewModel) regenerate() PreviewModel {
	m.Result, m.Cached, m.Err = m.generate(m.Request)
	return m
}

func (m PreviewModel) Init() tea.Cmd {
	return nil
}

func (m PreviewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "s", "right", "l":
			m.Index = (m.Index + 1) % len(m.Strategies)
		case "S", "left", "h":
			m.Index = (m.Index + len(m.Strategies) - 1) % len(m.Strategies)
		case "n", "up", "k":
			m.Request.Seed++
		case "p", "down", "j":
			if m.Request.Seed > 1 {
				m.Request.Seed--
			}
		case "r":
			m.Request.Seed = m.randSeed()
		default:
			return m, nil
		}
		m.Request.Strategy = m.Strategies[m.Index]
		return m.regenerate(), nil
	case tea.WindowSizeMsg:
		m.Rows = min(defaultPlateRows, msg.Height-len(m.Result.Hotspots)-8)
		if m.Rows < minPlateRows {
			m.Rows = minPlateRows
		}
	}
	return m, nil
}

func (m PreviewModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.Request.DishID))
	b.WriteString("  ")
	b.WriteString(listDimStyle.Render(strings.Join(m.Request.IngredientIDs, ", ")))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("s/S strategy  n/p seed  r random  q quit"))
	b.WriteString("\n\n")

	if m.Err != nil {
		b.WriteString(styleIconError.Render(iconError) + " " + m.Err.Error() + "\n")
		return b.String()
	}

	b.WriteString(plateView(m.Result.Hotspots, 2*m.Rows-1, m.Rows))
	b.WriteString("\n\n")
	for i, line := range render.Legend(m.Result.Hotspots, m.Lang) {
		b.WriteString("  " + roleStyle(m.Result.Hotspots[i].Role).Render(line) + "\n")
	}
	b.WriteString("\n")

	for i, s := range m.Strategies {
		if i == m.Index {
			b.WriteString(listSelectedStyle.Render("▸" + string(s)))
		} else {
			b.WriteString(listNormalStyle.Render(" " + string(s)))
		}
		b.WriteString(" ")
	}
	b.WriteString("\n")
	b.WriteString(layoutStats(len(m.Result.Hotspots), m.status(), m.Result.Seed, m.Cached))

	return b.String()
}

// status names the resolved strategy, noting auto selection.
func (m PreviewModel) status() string {
	if m.Request.Strategy == hotspot.Auto {
		return fmt.Sprintf("auto %s %s", iconArrow, m.Result.Strategy)
	}
	return string(m.Result.Strategy)
}

// plateView colors [render.Grid] by role.
func plateView(hs []hotspot.Hotspot, w, h int) string {
	grid := render.Grid(hs, w, h)
	roles := make(map[rune]hotspot.Role, len(hs))
	for i, p := range hs {
		roles[render.Marker(i)] = p.Role
	}

	lines := make([]string, len(grid))
	for i, row := range grid {
		var line strings.Builder
		line.WriteString("  ")
		for _, c := range row {
			switch role, ok := roles[c]; {
			case ok:
				line.WriteString(roleStyle(role).Render(string(c)))
			case c == ' ':
				line.WriteRune(c)
			case c == '.':
				line.WriteString(styleRim.Render(string(c)))
			default:
				line.WriteString(StyleValue.Bold(true).Render(string(c)))
			}
		}
		lines[i] = strings.TrimRight(line.String(), " ")
	}
	return strings.Join(lines, "\n")
}
