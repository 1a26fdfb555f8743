package cli

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/forcegraph/pkg/arena"
	"github.com/matzehuels/forcegraph/pkg/force"
	"github.com/matzehuels/forcegraph/pkg/graph"
)

const (
	frameInterval = time.Second / 60
	maxFrameDT    = 0.05 // seconds; longer frames (a stalled terminal) are cut to this
	dragStep      = 5    // layout units per arrow key press
	statusLines   = 3
)

// demoCommand creates the interactive terminal demo.
func (c *CLI) demoCommand() *cobra.Command {
	var seed int64

	cmd := &cobra.Command{
		Use:   "demo [graph]",
		Short: "Watch and drag a live simulation in the terminal",
		Long: `Run a simulation in the terminal and redraw it every frame.

Without a graph file the demo starts from a five-node star. Select a node with
tab or a mouse click and drag it with the arrow keys or the mouse; the rest of
the graph reacts as soon as it is released.

Keys: tab/shift+tab select · arrows/hjkl drag · esc deselect · p pause ·
x toggle crossing markers · q quit`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			g := demoGraph()
			if len(args) == 1 {
				if g, err = graph.ReadGraphFile(args[0]); err != nil {
					return fmt.Errorf("load graph %s: %w", args[0], err)
				}
			}
			if !cmd.Flags().Changed("seed") {
				seed = cfg.Run.Seed
			}
			m, err := newDemoModel(g, cfg.Simulation, seed)
			if err != nil {
				return err
			}
			p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(cmd.Context()))
			_, err = p.Run()
			return err
		},
	}
	cmd.Flags().Int64Var(&seed, "seed", 1, "placement and bounce seed")
	return cmd
}

// demoGraph is the default five-node star.
func demoGraph() graph.Graph {
	g := graph.Graph{Name: "star"}
	for _, n := range []struct {
		id   string
		x, y float64
	}{
		{"n1", 250, 250}, {"n2", 750, 250}, {"n3", 250, 750}, {"n4", 750, 750}, {"hub", 500, 500},
	} {
		node := graph.Node{ID: n.id}
		node.At(n.x, n.y)
		g.Nodes = append(g.Nodes, node)
	}
	for _, leaf := range []string{"n1", "n2", "n3", "n4"} {
		g.Edges = append(g.Edges, graph.Edge{From: leaf, To: "hub"})
	}
	return g
}

// =============================================================================
// Model
// =============================================================================

type frameMsg time.Time

func nextFrame() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg { return frameMsg(t) })
}

// viewport maps layout coordinates to terminal cells. A cell is about twice
// as tall as it is wide, so one row covers twice the layout units of a column.
type viewport struct {
	minX, minY float32
	unit       float32 // layout units per column
}

func (v viewport) cell(x, y float32) (col, row int) {
	return int((x-v.minX)/v.unit + 0.5), int((y-v.minY)/(2*v.unit) + 0.5)
}

func (v viewport) point(col, row int) (x, y float32) {
	return v.minX + float32(col)*v.unit, v.minY + float32(row)*2*v.unit
}

type demoModel struct {
	engine *graph.Engine
	order  []arena.NodeID

	selected int // index into order, -1 for none
	dragging bool
	paused   bool
	markers  bool

	width, height int
	view          viewport
	last          time.Time
	steps         int
	bounces       int
	escapes       int
}

func newDemoModel(g graph.Graph, params force.Parameters, seed int64) (demoModel, error) {
	e := graph.NewEngine(params, force.Options{Seed: uint64(seed)})
	ids, err := graph.Load(e, g, graph.LoadOptions{Seed: seed})
	if err != nil {
		return demoModel{}, err
	}
	m := demoModel{
		engine:   e,
		selected: -1,
		markers:  true,
		width:    80,
		height:   24,
	}
	for _, n := range g.Nodes {
		m.order = append(m.order, ids[n.ID])
	}
	m.fit()
	return m, nil
}

func (m demoModel) Init() tea.Cmd {
	return nextFrame()
}

func (m demoModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case frameMsg:
		now := time.Time(msg)
		if !m.paused && !m.last.IsZero() {
			m.step(float32(now.Sub(m.last).Seconds()))
		}
		m.last = now
		if !m.dragging {
			m.fit()
		}
		return m, nextFrame()

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.fit()

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "tab":
			if len(m.order) > 0 {
				m.selected = (m.selected + 1) % len(m.order)
			}
		case "shift+tab":
			if len(m.order) > 0 {
				m.selected = (max(m.selected, 0) - 1 + len(m.order)) % len(m.order)
			}
		case "esc":
			m.selected = -1
		case "p", " ":
			m.paused = !m.paused
		case "x":
			m.markers = !m.markers
		case "up", "k":
			m.drag(0, -dragStep)
		case "down", "j":
			m.drag(0, dragStep)
		case "left", "h":
			m.drag(-dragStep, 0)
		case "right", "l":
			m.drag(dragStep, 0)
		}

	case tea.MouseMsg:
		m.mouse(msg)
	}
	return m, nil
}

// step advances the simulation by one frame of dt seconds.
func (m *demoModel) step(dt float32) {
	m.engine.Update(min(dt, maxFrameDT))
	m.steps++
	last := m.engine.LastStep()
	if last.Bounced {
		m.bounces++
	}
	if last.Escaped {
		m.escapes++
	}
}

// drag moves the selected node by (dx, dy).
func (m *demoModel) drag(dx, dy float32) {
	if m.selected < 0 {
		return
	}
	id := m.order[m.selected]
	m.engine.VisitNodesMut(func(n *force.Node[string]) {
		if n.ID() == id {
			n.MoveTo(n.X+dx, n.Y+dy)
		}
	})
}

// dragTo places the selected node at (x, y).
func (m *demoModel) dragTo(x, y float32) {
	if m.selected < 0 {
		return
	}
	id := m.order[m.selected]
	m.engine.VisitNodesMut(func(n *force.Node[string]) {
		if n.ID() == id {
			n.MoveTo(x, y)
		}
	})
}

func (m *demoModel) mouse(msg tea.MouseMsg) {
	switch {
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		m.selected = m.nodeAt(msg.X, msg.Y)
		m.dragging = m.selected >= 0
	case msg.Action == tea.MouseActionMotion && m.dragging:
		m.dragTo(m.view.point(msg.X, msg.Y))
	case msg.Action == tea.MouseActionRelease:
		m.dragging = false
	}
}

// nodeAt returns the index of the node drawn at or next to a cell, or -1.
func (m *demoModel) nodeAt(col, row int) int {
	for i, id := range m.order {
		n, ok := m.engine.Node(id)
		if !ok {
			continue
		}
		c, r := m.view.cell(n.X, n.Y)
		if abs(c-col) <= 1 && r == row {
			return i
		}
	}
	return -1
}

// fit recomputes the viewport so every node is on screen.
func (m *demoModel) fit() {
	cols, rows := m.canvasSize()
	first := true
	var minX, minY, maxX, maxY float32
	m.engine.VisitNodes(func(n force.Node[string]) {
		if first {
			minX, maxX, minY, maxY = n.X, n.X, n.Y, n.Y
			first = false
			return
		}
		minX, maxX = min(minX, n.X), max(maxX, n.X)
		minY, maxY = min(minY, n.Y), max(maxY, n.Y)
	})
	unit := max((maxX-minX)/float32(max(cols-4, 1)), (maxY-minY)/float32(2*max(rows-2, 1)), 1)
	// Centre the drawing in the canvas.
	minX -= (float32(cols-1)*unit - (maxX - minX)) / 2
	minY -= (float32(rows-1)*2*unit - (maxY - minY)) / 2
	m.view = viewport{minX: minX, minY: minY, unit: unit}
}

func (m demoModel) canvasSize() (cols, rows int) {
	return max(m.width, 10), max(m.height-statusLines, 5)
}

// =============================================================================
// View
// =============================================================================

type cellKind uint8

const (
	cellEmpty cellKind = iota
	cellEdge
	cellCrossing
	cellLabel
	cellNode
	cellSelected
)

var cellStyles = map[cellKind]lipgloss.Style{
	cellEdge:     lipgloss.NewStyle().Foreground(colorDim),
	cellCrossing: lipgloss.NewStyle().Foreground(colorRed).Bold(true),
	cellLabel:    lipgloss.NewStyle().Foreground(colorGray),
	cellNode:     lipgloss.NewStyle().Foreground(colorWhite),
	cellSelected: lipgloss.NewStyle().Foreground(colorCyan).Bold(true),
}

type canvas struct {
	cols, rows int
	runes      [][]rune
	kinds      [][]cellKind
}

func newCanvas(cols, rows int) *canvas {
	c := &canvas{cols: cols, rows: rows, runes: make([][]rune, rows), kinds: make([][]cellKind, rows)}
	for r := range rows {
		c.runes[r] = []rune(strings.Repeat(" ", cols))
		c.kinds[r] = make([]cellKind, cols)
	}
	return c
}

// set draws ch unless a higher-priority kind already occupies the cell.
func (c *canvas) set(col, row int, ch rune, kind cellKind) {
	if col < 0 || row < 0 || col >= c.cols || row >= c.rows || c.kinds[row][col] > kind {
		return
	}
	c.runes[row][col] = ch
	c.kinds[row][col] = kind
}

// line draws a Bresenham line between two cells.
func (c *canvas) line(c0, r0, c1, r1 int) {
	dc, dr := abs(c1-c0), -abs(r1-r0)
	sc, sr := sign(c1-c0), sign(r1-r0)
	e := dc + dr
	for {
		c.set(c0, r0, '·', cellEdge)
		if c0 == c1 && r0 == r1 {
			return
		}
		e2 := 2 * e
		if e2 >= dr {
			e += dr
			c0 += sc
		}
		if e2 <= dc {
			e += dc
			r0 += sr
		}
	}
}

func (c *canvas) text(col, row int, s string, kind cellKind) {
	for i, ch := range []rune(s) {
		c.set(col+i, row, ch, kind)
	}
}

func (c *canvas) String() string {
	var b strings.Builder
	for r := range c.rows {
		start := 0
		for col := 1; col <= c.cols; col++ {
			if col < c.cols && c.kinds[r][col] == c.kinds[r][start] {
				continue
			}
			seg := string(c.runes[r][start:col])
			if st, ok := cellStyles[c.kinds[r][start]]; ok {
				seg = st.Render(seg)
			}
			b.WriteString(seg)
			start = col
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func (m demoModel) View() string {
	cols, rows := m.canvasSize()
	cv := newCanvas(cols, rows)

	m.engine.VisitEdges(func(a, b force.Node[string], _ struct{}) {
		c0, r0 := m.view.cell(a.X, a.Y)
		c1, r1 := m.view.cell(b.X, b.Y)
		cv.line(c0, r0, c1, r1)
	})

	crossings := graph.Crossings(m.engine)
	if m.markers {
		for _, x := range crossings {
			col, row := m.view.cell(float32(x.X), float32(x.Y))
			cv.set(col, row, '×', cellCrossing)
		}
	}

	for i, id := range m.order {
		n, ok := m.engine.Node(id)
		if !ok {
			continue
		}
		col, row := m.view.cell(n.X, n.Y)
		kind, ch := cellNode, '●'
		if i == m.selected {
			kind, ch = cellSelected, '◉'
		}
		cv.set(col, row, ch, kind)
		cv.text(col+2, row, truncate(n.UserData, 10), cellLabel)
	}

	status := StyleTitle.Render("forcegraph") + " " + fmt.Sprintf("step %d · %d nodes · %d edges · max speed %.3f · %d crossings · %d bounces · %d escapes",
		m.steps, m.engine.NodeCount(), m.engine.EdgeCount(), m.engine.MaxSpeed(), len(crossings), m.bounces, m.escapes)
	if m.paused {
		status += " · " + StyleWarning.Render("paused")
	}
	if m.selected >= 0 {
		if n, ok := m.engine.Node(m.order[m.selected]); ok {
			status += " · " + StyleNumber.Render(fmt.Sprintf("%s (%.0f, %.0f)", n.UserData, n.X, n.Y))
		}
	}
	help := "tab select · arrows drag · esc deselect · p pause · x crossings · q quit"

	return cv.String() + "\n" + StyleValue.Render(status) + "\n" + StyleDim.Render(help)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}
