package diagram

import (
	"math"

	"github.com/gogpu/ug"
	"github.com/gogpu/ug/block"
	"github.com/gogpu/ug/config"
)

// Note margins: left, right (room for the folded corner) and vertical.
const (
	noteMarginX1 = 6
	noteMarginX2 = 15
	noteMarginY  = 5
	noteCorner   = 10
)

// style is what entity images need from the skin.
type style struct {
	skin   *config.Skin
	format block.Formatter
	// report receives the colors that did not parse. Nil drops them.
	report func(block.Problem)
}

func (st style) color(s string, def ug.Color) ug.Color {
	return block.ColorOr(s, def, st.report)
}

func (st style) font(role string) ug.FontConfig { return st.skin.FontConfig(role) }

func (st style) border() ug.Color { return st.skin.Color(config.ColorBorder, ug.Black) }

// entityImage returns the image of e. Colors of e that do not parse
// show as placeholders under the image.
func (st style) entityImage(e Entity) block.Block {
	var problems []block.Problem
	st.report = func(p block.Problem) { problems = append(problems, p) }
	var img block.Block
	switch e.Kind {
	case EntityNote:
		img = st.note(e.Name(), st.color(e.Color, st.skin.Color(config.ColorNote, ug.Hex(0xFBFB77))))
	case EntityFolder, EntityPackage:
		img = st.folder(e)
	case EntityUseCase:
		img = st.useCase(e)
	case EntityActor:
		img = st.actor(e.Name(), st.color(e.Color, st.skin.Color(config.ColorEntity, ug.White)))
	case EntityImage:
		img = block.LoadImage(e.Image, block.ImageOptions{Format: st.format})
	default:
		img = st.box(e)
	}
	img = block.WithProblems(img, problems, st.format)
	if e.URL != "" {
		return linked{inner: img, url: e.URL}
	}
	return img
}

// linked wraps a block in a hyperlink.
type linked struct {
	inner block.Block
	url   string
}

func (l linked) Dimension(sb ug.StringBounder) ug.Dimension { return l.inner.Dimension(sb) }

func (l linked) DrawU(g ug.Graphic) {
	g.StartURL(l.url, "")
	l.inner.DrawU(g)
	g.CloseAction()
}

func (l linked) InnerPosition(member string, sb ug.StringBounder, s block.InnerStrategy) (ug.Rect, bool) {
	if ia, ok := l.inner.(block.InnerAddressable); ok {
		return ia.InnerPosition(member, sb, s)
	}
	return ug.Rect{}, false
}

// Box padding.
const (
	boxPadX = 8
	boxPadY = 4
)

// entityBox is a class-like box: stereotype and name centered on top,
// then a separator and the member rows.
type entityBox struct {
	header  block.Block
	members *block.Text
	color   ug.Color
	back    ug.Color
	round   float64
	shadow  float64
}

func (st style) box(e Entity) block.Block {
	name := block.Label(e.Name(), st.font(config.FontDefault).Bold())
	header := block.Block(name)
	if e.Stereotype != "" {
		stereo := block.NewText(block.Display{"«" + e.Stereotype + "»"}, st.font(config.FontStereotype), st.skin.StereotypeAlignment)
		header = block.MergeTB(st.skin.StereotypeAlignment, stereo, name)
	}
	var members *block.Text
	if len(e.Members) > 0 {
		members = block.NewText(block.Display(e.Members), st.font(config.FontDefault), block.Left)
	}
	return &entityBox{
		header:  header,
		members: members,
		color:   st.border(),
		back:    st.color(e.Color, st.skin.Color(config.ColorEntity, ug.White)),
		round:   st.skin.Round(),
		shadow:  st.skin.Shadow(),
	}
}

func (b *entityBox) parts(sb ug.StringBounder) (head, body, total ug.Dimension) {
	head = b.header.Dimension(sb)
	if b.members != nil {
		body = b.members.Dimension(sb)
	}
	total.W = max(head.W, body.W) + 2*boxPadX
	total.H = head.H + 2*boxPadY
	if b.members != nil {
		total.H += body.H + 2*boxPadY
	}
	return head, body, total
}

func (b *entityBox) Dimension(sb ug.StringBounder) ug.Dimension {
	_, _, total := b.parts(sb)
	return total
}

func (b *entityBox) DrawU(g ug.Graphic) {
	head, _, total := b.parts(g.Bounder())
	g.Apply(ug.ChangeColor{Color: b.color}, ug.ChangeBackColor{Color: b.back}).
		Draw(ug.NewRoundedRectangle(total.W, total.H, b.round).WithShadow(b.shadow))
	b.header.DrawU(g.Apply(ug.T((total.W-head.W)/2, boxPadY)))
	if b.members == nil {
		return
	}
	y := head.H + 2*boxPadY
	g.Apply(ug.ChangeColor{Color: b.color}, ug.T(0, y)).Draw(ug.HLine(total.W))
	b.members.DrawU(g.Apply(ug.T(boxPadX, y+boxPadY)))
}

func (b *entityBox) InnerPosition(member string, sb ug.StringBounder, s block.InnerStrategy) (ug.Rect, bool) {
	if b.members == nil {
		return ug.Rect{}, false
	}
	r, ok := b.members.InnerPosition(member, sb, s)
	if !ok {
		return r, false
	}
	head, _, total := b.parts(sb)
	r = r.Translate(ug.T(0, head.H+3*boxPadY))
	r.X, r.W = 0, total.W
	return r, true
}

// note is a box with a folded top-right corner.
type note struct {
	text  *block.Text
	color ug.Color
	back  ug.Color
	shadow float64
}

func (st style) note(s string, back ug.Color) block.Block {
	return &note{
		text:   block.NewText(block.DisplayOf(s), st.font(config.FontNote), block.Left),
		color:  st.skin.Color(config.ColorNoteBorder, ug.Hex(0xA80036)),
		back:   back,
		shadow: st.skin.Shadow(),
	}
}

func (n *note) Dimension(sb ug.StringBounder) ug.Dimension {
	return n.text.Dimension(sb).Delta(noteMarginX1+noteMarginX2, 2*noteMarginY)
}

func (n *note) DrawU(g ug.Graphic) {
	d := n.Dimension(g.Bounder())
	outline := ug.Polygon{Points: []ug.Point{
		{X: 0, Y: 0},
		{X: d.W - noteCorner, Y: 0},
		{X: d.W, Y: noteCorner},
		{X: d.W, Y: d.H},
		{X: 0, Y: d.H},
	}, Shadow: n.shadow}
	style := g.Apply(ug.ChangeColor{Color: n.color}, ug.ChangeBackColor{Color: n.back})
	style.Draw(outline)
	fold := ug.BuildPath().
		MoveTo(d.W-noteCorner, 0).
		LineTo(d.W-noteCorner, noteCorner).
		LineTo(d.W, noteCorner).
		Build()
	style.Apply(ug.ChangeBackColor{Color: nil}).Draw(fold)
	n.text.DrawU(g.Apply(ug.T(noteMarginX1, noteMarginY)))
}

// Folder tab geometry.
const (
	folderTabPad   = 4
	folderMinBodyH = 30
	folderMinW     = 60
)

type folder struct {
	name   *block.Text
	body   block.Block
	color  ug.Color
	back   ug.Color
	shadow float64
}

func (st style) folder(e Entity) block.Block {
	var body block.Block = block.Empty(0, 0)
	if len(e.Members) > 0 {
		body = block.Margin(block.NewText(block.Display(e.Members), st.font(config.FontDefault), block.Left), block.XY(boxPadX, boxPadY))
	}
	return &folder{
		name:   block.Label(e.Name(), st.font(config.FontDefault).Bold()),
		body:   body,
		color:  st.border(),
		back:   st.color(e.Color, st.skin.Color(config.ColorPackage, ug.White)),
		shadow: st.skin.Shadow(),
	}
}

func (f *folder) geometry(sb ug.StringBounder) (tab, total ug.Dimension) {
	tab = f.name.Dimension(sb).Delta(2*folderTabPad, 2)
	body := f.body.Dimension(sb)
	total.W = max(tab.W+2*folderTabPad, body.W, folderMinW)
	total.H = tab.H + max(body.H, folderMinBodyH)
	return tab, total
}

func (f *folder) Dimension(sb ug.StringBounder) ug.Dimension {
	_, total := f.geometry(sb)
	return total
}

func (f *folder) DrawU(g ug.Graphic) {
	tab, total := f.geometry(g.Bounder())
	outline := ug.Polygon{Points: []ug.Point{
		{X: 0, Y: 0},
		{X: tab.W, Y: 0},
		{X: tab.W + folderTabPad, Y: tab.H},
		{X: total.W, Y: tab.H},
		{X: total.W, Y: total.H},
		{X: 0, Y: total.H},
	}, Shadow: f.shadow}
	style := g.Apply(ug.ChangeColor{Color: f.color}, ug.ChangeBackColor{Color: f.back})
	style.Draw(outline)
	style.Apply(ug.T(0, tab.H)).Draw(ug.HLine(tab.W + folderTabPad))
	f.name.DrawU(g.Apply(ug.T(folderTabPad, 1)))
	f.body.DrawU(g.Apply(ug.T(0, tab.H)))
}

// useCase is text inside an ellipse.
type useCase struct {
	text   *block.Text
	color  ug.Color
	back   ug.Color
	shadow float64
}

func (st style) useCase(e Entity) block.Block {
	return &useCase{
		text:   block.Label(e.Name(), st.font(config.FontDefault)),
		color:  st.border(),
		back:   st.color(e.Color, st.skin.Color(config.ColorEntity, ug.White)),
		shadow: st.skin.Shadow(),
	}
}

// The ellipse passes through the corners of the text box grown by a
// margin: scaling a box by sqrt(2) gives the circumscribed ellipse.
func (u *useCase) Dimension(sb ug.StringBounder) ug.Dimension {
	d := u.text.Dimension(sb)
	return ug.Dim(math.Ceil((d.W+10)*math.Sqrt2), math.Ceil((d.H+6)*math.Sqrt2))
}

func (u *useCase) DrawU(g ug.Graphic) {
	sb := g.Bounder()
	d := u.Dimension(sb)
	t := u.text.Dimension(sb)
	g.Apply(ug.ChangeColor{Color: u.color}, ug.ChangeBackColor{Color: u.back}).
		Draw(ug.NewEllipse(d.W, d.H).WithShadow(u.shadow))
	u.text.DrawU(g.Apply(ug.T((d.W-t.W)/2, (d.H-t.H)/2)))
}

// Stick figure geometry.
const (
	actorHead  = 16
	actorBody  = 27
	actorArms  = 13
	actorLegs  = 15
	actorGap   = 4
	actorWidth = 2 * actorArms
)

type actor struct {
	name  *block.Text
	color ug.Color
	back  ug.Color
}

func (st style) actor(name string, back ug.Color) block.Block {
	return &actor{
		name:  block.Label(name, st.font(config.FontDefault)),
		color: st.border(),
		back:  back,
	}
}

func (a *actor) figureHeight() float64 { return actorHead + actorBody + actorLegs }

func (a *actor) Dimension(sb ug.StringBounder) ug.Dimension {
	n := a.name.Dimension(sb)
	return ug.Dim(max(n.W, actorWidth), a.figureHeight()+actorGap+n.H)
}

func (a *actor) DrawU(g ug.Graphic) {
	sb := g.Bounder()
	d := a.Dimension(sb)
	n := a.name.Dimension(sb)
	cx := d.W / 2
	st := g.Apply(ug.ChangeColor{Color: a.color}, ug.ChangeBackColor{Color: a.back}, ug.Stroke{Thickness: 2})
	st.Apply(ug.T(cx-actorHead/2, 0)).Draw(ug.NewEllipse(actorHead, actorHead))
	neck := actorHead
	hips := float64(actorHead + actorBody)
	st.Apply(ug.T(cx, float64(neck))).Draw(ug.VLine(actorBody))
	st.Apply(ug.T(cx-actorArms, float64(neck)+8)).Draw(ug.HLine(2 * actorArms))
	st.Apply(ug.T(cx, hips)).Draw(ug.Line{Dx: -actorArms, Dy: actorLegs})
	st.Apply(ug.T(cx, hips)).Draw(ug.Line{Dx: actorArms, Dy: actorLegs})
	a.name.DrawU(g.Apply(ug.T((d.W-n.W)/2, a.figureHeight()+actorGap)))
}
