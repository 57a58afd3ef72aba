package diagram

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gogpu/ug"
	"github.com/gogpu/ug/block"
	"github.com/gogpu/ug/config"
	"github.com/gogpu/ug/graph"
	"github.com/gogpu/ug/layout"
)

// Builder maps a diagram to one block per page.
type Builder interface {
	Pages() int
	Page(i int) block.Block
}

type pages []block.Block

func (p pages) Pages() int { return len(p) }

func (p pages) Page(i int) block.Block { return p[i] }

// skinOf returns the skin of d: its own when set, otherwise the one of
// the options. Shadowing always follows the options.
func skinOf(d *Diagram, opts config.Options) *config.Skin {
	if d.Skin != nil {
		return opts.With(config.WithSkin(d.Skin)).Skin()
	}
	return opts.Skin()
}

// NewBuilder builds the pages of d. Text is measured with the bounder
// of opts. Description diagrams run the layout solver here; a solver
// failure yields a single page explaining it, only a done ctx is
// returned as an error. Skin and link colors that do not parse show as
// placeholders under every page.
func NewBuilder(ctx context.Context, d *Diagram, opts config.Options) (Builder, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	var problems []block.Problem
	st := style{
		skin:   skinOf(d, opts),
		format: opts.Formatter(),
		report: func(p block.Problem) { problems = append(problems, p) },
	}
	sb := opts.Bounder()
	var (
		out pages
		err error
	)
	switch d.Kind {
	case Description:
		out, err = st.description(ctx, d, opts.Layouter(), sb)
	case Sequence:
		out, err = st.sequence(d, sb)
	case Table:
		out = pages{st.table(d.Table)}
	case Activity:
		out = pages{st.activity(d.Lanes)}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, d.Kind)
	}
	if err != nil {
		return nil, err
	}
	problems = append(st.skin.Problems(), problems...)
	for i := range out {
		out[i] = block.WithProblems(out[i], problems, st.format)
	}
	return out, nil
}

// description solves the entity graph and places entities and links.
func (st style) description(ctx context.Context, d *Diagram, l graph.Layouter, sb ug.StringBounder) (pages, error) {
	if len(d.Entities) == 0 {
		return pages{block.Empty(0, 0)}, nil
	}
	images := make(map[string]block.Block, len(d.Entities))
	g := new(graph.Graph)
	for _, e := range d.Entities {
		img := block.NewMemo(st.entityImage(e))
		images[e.ID] = img
		g.AddNode(e.ID, img.Dimension(sb))
	}
	for _, lk := range d.Links {
		e := graph.Edge{From: lk.From, To: lk.To, MinLen: lk.Length}
		if lk.Label != "" {
			e.Label = block.NewText(block.DisplayOf(lk.Label), st.font(config.FontArrow), block.Left).Dimension(sb)
		}
		g.AddEdge(e)
	}

	sol, err := l.Layout(ctx, g)
	if err == nil && len(sol.Edges) != len(d.Links) {
		err = fmt.Errorf("%w: %d routes for %d links", graph.ErrBadOutput, len(sol.Edges), len(d.Links))
	}
	if err != nil {
		if cerr := ctx.Err(); cerr != nil {
			return nil, cerr
		}
		ug.Logger().Warn("diagram: layout failed, drawing the crash report",
			slog.Int("entities", len(d.Entities)), slog.Any("err", err))
		return pages{graph.NewCrashBlock(err, d.Source)}, nil
	}

	desc := &descriptionBlock{
		order:  make([]string, len(d.Entities)),
		images: images,
		pos:    sol.Nodes,
	}
	var ext ug.MinMax
	for i, e := range d.Entities {
		desc.order[i] = e.ID
		ext = ext.AddRect(ug.RectOf(sol.Nodes[e.ID], images[e.ID].Dimension(sb)))
	}
	for i, lk := range d.Links {
		li := st.linkImage(lk, sol.Edges[i])
		if lk.ToMember != "" {
			to := images[lk.To]
			r := block.InnerPosition(to, lk.ToMember, sb, block.Strict)
			li.attach(r.Translate(ug.T(sol.Nodes[lk.To].X, sol.Nodes[lk.To].Y)))
		}
		for _, p := range li.route.Points {
			ext = ext.Add(p.X, p.Y)
		}
		if li.label != nil {
			ext = ext.AddRect(ug.RectOf(li.route.Label, li.label.Dimension(sb)))
		}
		desc.links = append(desc.links, li)
	}
	r := ext.Rect()
	desc.size = sol.Size.Max(ug.Dim(r.MaxX(), r.MaxY()))
	return pages{desc}, nil
}

// descriptionBlock is a solved description diagram.
type descriptionBlock struct {
	order  []string
	images map[string]block.Block
	pos    map[string]ug.Point
	links  []*linkImage
	size   ug.Dimension
}

func (d *descriptionBlock) Dimension(ug.StringBounder) ug.Dimension { return d.size }

func (d *descriptionBlock) DrawU(g ug.Graphic) {
	for _, id := range d.order {
		p := d.pos[id]
		d.images[id].DrawU(g.Apply(ug.T(p.X, p.Y)))
	}
	for _, l := range d.links {
		l.DrawU(g)
	}
}

func (d *descriptionBlock) InnerPosition(member string, sb ug.StringBounder, s block.InnerStrategy) (ug.Rect, bool) {
	for _, id := range d.order {
		ia, ok := d.images[id].(block.InnerAddressable)
		if !ok {
			continue
		}
		if r, ok := ia.InnerPosition(member, sb, s); ok {
			p := d.pos[id]
			return r.Translate(ug.T(p.X, p.Y)), true
		}
	}
	return ug.Rect{}, false
}

// Sequence geometry.
const (
	participantSpacing = 20
	messageGap         = 10
	messagePad         = 12
	selfMessageWidth   = 30
	selfMessageHeight  = 13
)

// sequence places participants with deferred positions, one solve per
// page. Messages with NewPage start a new page; every page shows all
// participants.
func (st style) sequence(d *Diagram, sb ug.StringBounder) (pages, error) {
	parts := append([]Participant(nil), d.Participants...)
	known := make(map[string]bool, len(parts))
	for _, p := range parts {
		known[p.ID] = true
	}
	for _, m := range d.Messages {
		for _, id := range [2]string{m.From, m.To} {
			if id != "" && !known[id] {
				known[id] = true
				parts = append(parts, Participant{ID: id})
			}
		}
	}

	var out pages
	var chunk []Message
	title := ""
	flush := func() error {
		page, err := st.sequencePage(parts, chunk, sb)
		if err != nil {
			return err
		}
		var blk block.Block = page
		if title != "" {
			blk = block.AddTop(page, block.Margin(block.Label(title, st.font(config.FontTitle)), block.XY(0, 5)), block.Center)
		}
		out = append(out, blk)
		return nil
	}
	for _, m := range d.Messages {
		if m.NewPage {
			if err := flush(); err != nil {
				return nil, err
			}
			chunk, title = nil, m.Label
			continue
		}
		chunk = append(chunk, m)
	}
	if err := flush(); err != nil {
		return nil, err
	}
	return out, nil
}

func (st style) participantHead(p Participant) block.Block {
	back := st.color(p.Color, st.skin.Color(config.ColorParticipant, ug.White))
	if p.Actor {
		return block.NewMemo(st.actor(p.Name(), back))
	}
	return block.NewMemo(block.Bordered(block.Label(p.Name(), st.font(config.FontParticipant)), block.Border{
		Color:   st.border(),
		Back:    back,
		Stroke:  ug.DefaultStroke(),
		Round:   st.skin.Round(),
		Shadow:  st.skin.Shadow(),
		Padding: block.XY(7, 5),
	}))
}

type placedMessage struct {
	from, to int
	y        float64 // arrow line
	label    block.Block
	labelY   float64
	stroke   ug.Stroke
}

func (st style) sequencePage(parts []Participant, msgs []Message, sb ug.StringBounder) (*sequencePage, error) {
	c := layout.NewConstraints()
	spaces := layout.NewLivingSpaces(c, participantSpacing)
	for _, p := range parts {
		spaces.Add(p.ID, st.participantHead(p))
	}
	spaces.Register(sb)

	headH := 0.0
	for i := range parts {
		headH = max(headH, spaces.Head(i).Dimension(sb).H)
	}

	page := &sequencePage{
		heads:    make([]block.Block, len(parts)),
		headH:    headH,
		lifeline: st.skin.Color(config.ColorLifeline, ug.Black),
		arrow:    st.skin.Color(config.ColorArrow, ug.Black),
	}
	for i := range parts {
		page.heads[i] = spaces.Head(i)
	}

	selfExtra := 0.0
	y := headH + messageGap
	for _, m := range msgs {
		pm := placedMessage{from: spaces.Index(m.From), to: spaces.Index(m.To), stroke: strokeOf(m.Style)}
		labelD := ug.Dimension{}
		if m.Label != "" {
			pm.label = block.NewText(block.DisplayOf(m.Label), st.font(config.FontArrow), block.Left)
			labelD = pm.label.Dimension(sb)
		}
		pm.labelY = y
		pm.y = y + labelD.H + 2
		if pm.from == pm.to {
			w := max(labelD.W+messagePad, selfMessageWidth+messagePad)
			if pm.from+1 < len(parts) {
				spaces.Require(pm.from, pm.from+1, w, sb)
			} else {
				selfExtra = max(selfExtra, w)
			}
			y = pm.y + selfMessageHeight + messageGap
		} else {
			spaces.Require(pm.from, pm.to, labelD.W+2*messagePad, sb)
			y = pm.y + messageGap
		}
		page.msgs = append(page.msgs, pm)
	}
	page.bottom = y

	pos, err := c.Solve()
	if err != nil {
		return nil, fmt.Errorf("diagram: sequence layout: %w", err)
	}
	page.cols = spaces.Columns(pos, sb)
	for _, col := range page.cols {
		page.width = max(page.width, col.X+col.Width)
	}
	if n := len(page.cols); n > 0 {
		page.width = max(page.width, page.cols[n-1].Center+selfExtra)
	}
	return page, nil
}

// sequencePage is one solved page of a sequence diagram: heads on top
// and at the bottom, dashed lifelines between them.
type sequencePage struct {
	cols     []layout.Column
	heads    []block.Block
	headH    float64
	msgs     []placedMessage
	bottom   float64
	width    float64
	lifeline ug.Color
	arrow    ug.Color
}

func (p *sequencePage) Dimension(ug.StringBounder) ug.Dimension {
	if len(p.cols) == 0 {
		return ug.Dimension{}
	}
	return ug.Dim(p.width, p.bottom+p.headH)
}

func (p *sequencePage) DrawU(g ug.Graphic) {
	if len(p.cols) == 0 {
		return
	}
	sb := g.Bounder()
	lines := g.Apply(ug.ChangeColor{Color: p.lifeline}, ug.Dashed(1))
	for _, c := range p.cols {
		lines.Apply(ug.T(c.Center, p.headH)).Draw(ug.VLine(p.bottom - p.headH))
	}
	for i, c := range p.cols {
		h := p.heads[i].Dimension(sb)
		p.heads[i].DrawU(g.Apply(ug.T(c.X, p.headH-h.H)))
		p.heads[i].DrawU(g.Apply(ug.T(c.X, p.bottom)))
	}
	for _, m := range p.msgs {
		p.drawMessage(g, m)
	}
}

func (p *sequencePage) drawMessage(g ug.Graphic, m placedMessage) {
	line := g.Apply(ug.ChangeColor{Color: p.arrow}, ug.ChangeBackColor{Color: nil}, m.stroke)
	head := g.Apply(ug.ChangeColor{Color: p.arrow}, ug.ChangeBackColor{Color: p.arrow})
	x1 := p.cols[m.from].Center
	if m.from == m.to {
		x2 := x1 + selfMessageWidth
		y2 := m.y + selfMessageHeight
		line.Draw(ug.BuildPath().MoveTo(x1, m.y).LineTo(x2, m.y).LineTo(x2, y2).LineTo(x1, y2).Build())
		head.Draw(ug.NewPolygon(arrowHead(ug.Pt(x2, y2), ug.Pt(x1, y2))...))
		if m.label != nil {
			m.label.DrawU(g.Apply(ug.T(x1+messagePad/2, m.labelY)))
		}
		return
	}
	x2 := p.cols[m.to].Center
	line.Apply(ug.T(x1, m.y)).Draw(ug.HLine(x2 - x1))
	head.Draw(ug.NewPolygon(arrowHead(ug.Pt(x1, m.y), ug.Pt(x2, m.y))...))
	if m.label != nil {
		m.label.DrawU(g.Apply(ug.T(min(x1, x2)+messagePad, m.labelY)))
	}
}

// Table cell padding.
const tablePadding = 4

func (st style) table(t *TableModel) block.Block {
	if t == nil || len(t.Rows) == 0 {
		return block.Empty(0, 0)
	}
	cols := 0
	for _, r := range t.Rows {
		cols = max(cols, len(r))
	}
	fc := st.font(config.FontTable)
	g := layout.NewGrid(len(t.Rows), cols, t.Borders)
	g.Padding = tablePadding
	g.Color = st.skin.Color(config.ColorTable, ug.Black)
	for i, row := range t.Rows {
		cell := fc
		if i == 0 && t.Header {
			cell = fc.Bold()
		}
		for j, s := range row {
			g.Set(i, j, block.NewText(block.DisplayOf(s), cell, block.Center))
		}
	}
	if t.Title != "" {
		g.SetTitle(block.Label(t.Title, fc.Bold()))
	}
	return g
}

// Activity geometry.
const (
	activityGap   = 20
	activityRound = 12
	startDiameter = 20
	stopInner     = 10
)

func (st style) activity(lanes []Lane) block.Block {
	if len(lanes) == 0 {
		return block.Empty(0, 0)
	}
	sl := layout.NewSwimlanes()
	sl.Color = st.border()
	for _, l := range lanes {
		flow := layout.NewStack(layout.Vertical, 0)
		flow.HAlign = block.Center
		for i, s := range l.Steps {
			if i > 0 {
				flow.Add(arrowDown{color: st.skin.Color(config.ColorArrow, ug.Black), length: activityGap})
			}
			flow.Add(st.step(s))
		}
		sl.Add(layout.Lane{
			Title:   block.Label(l.Title, st.font(config.FontLane).Bold()),
			Content: block.Margin(flow, block.XY(0, 10)),
			Back:    st.color(l.Color, st.skin.Color(config.ColorLane, nil)),
		})
	}
	return sl
}

func (st style) step(s Step) block.Block {
	switch s.Kind {
	case ActivityStart:
		return startCircle{}
	case ActivityStop:
		return stopCircle{}
	case ActivityNote:
		return st.note(s.Label, st.skin.Color(config.ColorNote, ug.Hex(0xFBFB77)))
	}
	return block.Bordered(block.Label(s.Label, st.font(config.FontDefault)), block.Border{
		Color:   st.border(),
		Back:    st.skin.Color(config.ColorActivity, ug.White),
		Stroke:  ug.DefaultStroke(),
		Round:   activityRound,
		Shadow:  st.skin.Shadow(),
		Padding: block.XY(10, 6),
	})
}

type startCircle struct{}

func (startCircle) Dimension(ug.StringBounder) ug.Dimension {
	return ug.Dim(startDiameter, startDiameter)
}

func (startCircle) DrawU(g ug.Graphic) {
	g.Apply(ug.ChangeColor{Color: ug.Black}, ug.ChangeBackColor{Color: ug.Black}).
		Draw(ug.NewEllipse(startDiameter, startDiameter))
}

type stopCircle struct{}

func (stopCircle) Dimension(ug.StringBounder) ug.Dimension {
	return ug.Dim(startDiameter+2, startDiameter+2)
}

func (stopCircle) DrawU(g ug.Graphic) {
	g.Apply(ug.ChangeColor{Color: ug.Black}, ug.ChangeBackColor{Color: ug.White}).
		Draw(ug.NewEllipse(startDiameter+2, startDiameter+2))
	off := (startDiameter + 2 - stopInner) / 2.0
	g.Apply(ug.T(off, off), ug.ChangeColor{Color: ug.Black}, ug.ChangeBackColor{Color: ug.Black}).
		Draw(ug.NewEllipse(stopInner, stopInner))
}

// arrowDown is a vertical arrow between two activity steps.
type arrowDown struct {
	color  ug.Color
	length float64
}

func (a arrowDown) Dimension(ug.StringBounder) ug.Dimension {
	return ug.Dim(2*arrowHalf, a.length)
}

func (a arrowDown) DrawU(g ug.Graphic) {
	g.Apply(ug.ChangeColor{Color: a.color}, ug.T(arrowHalf, 0)).Draw(ug.VLine(a.length))
	g.Apply(ug.ChangeColor{Color: a.color}, ug.ChangeBackColor{Color: a.color}).
		Draw(ug.NewPolygon(arrowHead(ug.Pt(arrowHalf, 0), ug.Pt(arrowHalf, a.length))...))
}
