package graph

import (
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/skip2/go-qrcode"

	"github.com/gogpu/ug"
	"github.com/gogpu/ug/block"
)

// QRModule is the side of one QR code module in the crash report.
const QRModule = 3

// CrashFont is the font of the crash report text.
var CrashFont = ug.NewFontConfig(ug.Font{Family: "SansSerif", Size: 14})

// CrashLines explains a solver failure for a diagram of the given source.
func CrashLines(err error, source string) block.Display {
	var lines block.Display
	if err == nil {
		lines = append(lines, "An error has occured!")
	} else {
		lines = append(lines, "An error has occured : "+err.Error())
	}
	lines = append(lines,
		" ",
		fmt.Sprintf("Diagram size: %d lines / %d characters.", strings.Count(source, "\n"), utf8.RuneCountInString(source)),
		" ",
		"For some reason, the graph layout solver has failed.",
		"Please check that Graphviz dot is installed and working.",
		"You can try to work around this issue by simplifying your diagram.",
	)
	return lines
}

// NewCrashBlock returns the block drawn in place of a diagram whose
// layout failed: the explanation and, when the source fits, a QR code
// holding the source.
func NewCrashBlock(err error, source string) block.Block {
	lines := CrashLines(err, source)
	var code block.Block
	if source != "" {
		qr, qerr := qrcode.New(source, qrcode.Medium)
		if qerr != nil {
			ug.Logger().Warn("graph: source does not fit in a qr code", slog.Any("err", qerr))
		} else {
			lines = append(lines, " ", "Diagram source: (decode the QR code below)")
			code = QRBlock(qr.Bitmap())
		}
	}
	text := block.NewText(lines, CrashFont, block.Left)
	content := block.Block(text)
	if code != nil {
		content = block.MergeTB(block.Left, text, code)
	}
	return block.Backcolored(block.Margin(content, block.Uniform(5)), ug.White)
}

type qrBlock struct {
	bits [][]bool
}

// QRBlock draws a bitmap as black squares of QRModule points.
func QRBlock(bits [][]bool) block.Block {
	return qrBlock{bits: bits}
}

func (q qrBlock) Dimension(ug.StringBounder) ug.Dimension {
	w := 0
	for _, row := range q.bits {
		w = max(w, len(row))
	}
	return ug.Dim(float64(w*QRModule), float64(len(q.bits)*QRModule))
}

func (q qrBlock) DrawU(g ug.Graphic) {
	g = g.Apply(ug.ChangeColor{Color: nil}, ug.ChangeBackColor{Color: ug.Black})
	cell := ug.NewRectangle(QRModule, QRModule)
	for y, row := range q.bits {
		for x, dark := range row {
			if dark {
				g.Apply(ug.T(float64(x*QRModule), float64(y*QRModule))).Draw(cell)
			}
		}
	}
}
