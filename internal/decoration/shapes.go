package decoration

import (
	"math"

	"github.com/gogpu/gg"
)

// star traces a five pointed star inscribed in a circle of the given radius
func (p *painter) star(cx, cy, size float64) {
	for i := 0; i < 5; i++ {
		angle := float64(i)*4*math.Pi/5 - math.Pi/2
		px, py := cx+size*math.Cos(angle), cy+size*math.Sin(angle)
		if i == 0 {
			p.dc.MoveTo(px, py)
		} else {
			p.dc.LineTo(px, py)
		}
	}
	p.dc.ClosePath()
}

// rotatedEllipse fills an ellipse centred at x, y rotated by angle radians
func (p *painter) rotatedEllipse(x, y, rx, ry, angle float64) {
	p.dc.Push()
	p.dc.Translate(x, y)
	p.dc.Rotate(angle)
	p.dc.DrawEllipse(0, 0, rx, ry)
	p.fill()
	p.dc.Pop()
}

func (p *painter) circle(x, y, r float64) {
	p.dc.DrawCircle(x, y, r)
	p.fill()
}

func (p *painter) line(x1, y1, x2, y2 float64) {
	p.dc.MoveTo(x1, y1)
	p.dc.LineTo(x2, y2)
	p.stroke()
}

func (p *painter) glowingStar(cx, cy, size float64) {
	glow := gg.NewRadialGradientBrush(cx, cy, size*0.1, size).
		AddColorStop(0, gg.Hex("#FFFACD")).
		AddColorStop(0.5, gg.RGBA2(1, 215.0/255, 0, 0.8)).
		AddColorStop(1, gg.RGBA2(1, 215.0/255, 0, 0))
	p.dc.SetFillBrush(glow)
	p.dc.DrawCircle(cx, cy, size*1.5)
	p.fill()

	p.dc.SetHexColor("#FFFACD")
	p.star(cx, cy, size)
	p.fill()
}

func (p *painter) leaf(cx, cy, size float64) {
	p.dc.SetHexColor("#3CB371")
	p.dc.MoveTo(cx, cy)
	p.dc.QuadraticTo(cx-size*0.5, cy-size, cx, cy-size*1.5)
	p.dc.QuadraticTo(cx+size*0.5, cy-size, cx, cy)
	p.fill()

	p.dc.SetHexColor("#2E8B57")
	p.dc.SetLineWidth(1.5)
	p.line(cx, cy, cx, cy-size*1.5)

	for i := 1.0; i < 3; i++ {
		p.line(cx, cy-size*i/3, cx-size*0.3, cy-size*i/2)
		p.line(cx, cy-size*i/3, cx+size*0.3, cy-size*i/2)
	}
}

func (p *painter) butterfly(cx, cy, size float64) {
	p.dc.SetHexColor("#7B68EE")
	p.rotatedEllipse(cx-size*0.4, cy-size*0.3, size*0.5, size*0.8, math.Pi/4)
	p.rotatedEllipse(cx-size*0.45, cy+size*0.3, size*0.4, size*0.6, math.Pi/4)
	p.rotatedEllipse(cx+size*0.4, cy-size*0.3, size*0.5, size*0.8, -math.Pi/4)
	p.rotatedEllipse(cx+size*0.45, cy+size*0.3, size*0.4, size*0.6, -math.Pi/4)

	// Body and antennae
	p.dc.SetHexColor("#4B0082")
	p.dc.DrawEllipse(cx, cy, size*0.15, size*0.7)
	p.fill()

	p.dc.SetLineWidth(1.5)
	p.dc.MoveTo(cx-size*0.1, cy-size*0.6)
	p.dc.QuadraticTo(cx-size*0.2, cy-size, cx-size*0.05, cy-size*1.1)
	p.dc.MoveTo(cx+size*0.1, cy-size*0.6)
	p.dc.QuadraticTo(cx+size*0.2, cy-size, cx+size*0.05, cy-size*1.1)
	p.stroke()
}

func (p *painter) flower(x, y float64) {
	p.dc.SetHexColor("#FF9BE4")
	for i := 0; i < 5; i++ {
		angle := float64(i) * 2 * math.Pi / 5
		p.circle(x+math.Cos(angle)*10, y+math.Sin(angle)*10, 8)
	}

	p.dc.SetHexColor("#FFE4E1")
	p.circle(x, y, 6)
}

func (p *painter) bow(x, y float64) {
	p.dc.SetHexColor("#f9cee7")
	p.rotatedEllipse(x-10, y, 10, 6, math.Pi/4)
	p.rotatedEllipse(x+10, y, 10, 6, -math.Pi/4)

	p.dc.SetHexColor("#e68bbe")
	p.circle(x, y, 4)
}

func (p *painter) cloud(cx, cy float64) {
	p.dc.SetHexColor("#87CEEB")
	p.circle(cx, cy, 14)
	p.circle(cx-6, cy+2, 10)
	p.circle(cx+6, cy+2, 10)
}

const heartSize = 22

func (p *painter) heart(x, y float64) {
	const s = heartSize

	p.dc.SetHexColor("#cc8084")
	p.dc.MoveTo(x, y+s/4)
	p.dc.CubicTo(x, y, x-s/2, y, x-s/2, y+s/4)
	p.dc.CubicTo(x-s/2, y+s/2, x, y+s*0.75, x, y+s)
	p.dc.CubicTo(x, y+s*0.75, x+s/2, y+s/2, x+s/2, y+s/4)
	p.dc.CubicTo(x+s/2, y, x, y, x, y+s/4)
	p.fill()
}
