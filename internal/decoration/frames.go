package decoration

// Anchor offsets are relative to the cell's top left corner and size

func drawGlowingStars(p *painter, x, y, w, h float64) {
	p.glowingStar(x+120, y+1, 15)
	p.glowingStar(x+1, y+70, 12)
	p.glowingStar(x+w-50, y+80, 15)
	p.glowingStar(x+w-10, y+250, 14)
	p.glowingStar(x+20, y+h-55, 10)
	p.glowingStar(x+w-100, y+h-20, 12)
}

func drawLeaves(p *painter, x, y, w, h float64) {
	p.leaf(x+100, y+20, 35)
	p.leaf(x+w-1, y+80, 28)
	p.leaf(x+w-50, y+250, 30)
	p.leaf(x+10, y+h-55, 35)
}

func drawButterflies(p *painter, x, y, w, h float64) {
	p.butterfly(x+150, y+18, 12)
	p.butterfly(x+w-1, y+45, 18)
	p.butterfly(x+0, y+h-65, 15)
	p.butterfly(x+w-120, y+h-5, 18)
}

func drawFlowers(p *painter, x, y, w, h float64) {
	p.flower(x+70, y+40)
	p.flower(x+w-1, y+45)
	p.flower(x+w-1, y+300)
	p.flower(x+0, y+h-65)
	p.flower(x+130, y+h+10)
}

func drawBows(p *painter, x, y, w, h float64) {
	p.bow(x+70, y+40)
	p.bow(x+w-1, y+45)
	p.bow(x+w-1, y+300)
	p.bow(x+0, y+h-65)
	p.bow(x+130, y+h+10)
}

func drawStars(p *painter, x, y, w, h float64) {
	p.dc.SetHexColor("#9370DB")
	for _, s := range []struct{ x, y, size float64 }{
		{x + 150, y + 18, 25},
		{x + 20, y + 100, 10},
		{x + w - 1, y + 45, 12},
		{x + w - 1, y + 300, 12},
		{x + 0, y + h - 65, 15},
		{x + w - 120, y + h - 5, 12},
	} {
		p.star(s.x, s.y, s.size)
		p.fill()
	}
}

func drawClouds(p *painter, x, y, w, h float64) {
	p.cloud(x+150, y+18)
	p.cloud(x+w-1, y+45)
	p.cloud(x+w-1, y+300)
	p.cloud(x+0, y+h-65)
}

func drawHearts(p *painter, x, y, w, h float64) {
	// Top middle, top left, top right, top right inner
	p.heart(x+150, y+18)
	p.heart(x+20, y+5)
	p.heart(x+w-1, y+45)
	p.heart(x+w-80, y+5)
	// Bottom middle, bottom left, bottom right, bottom right inner
	p.heart(x+150, y+h-5)
	p.heart(x+0, y+h-65)
	p.heart(x+w-5, y+h-85)
	p.heart(x+w-120, y+h-5)
}
