package gui

import (
	"fmt"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/vovakirdan/skyraid/internal/games/skyraid"
)

// debugGlyphW and debugGlyphH are the cell size of ebitenutil's debug font.
const (
	debugGlyphW = 6
	debugGlyphH = 16
)

var (
	playerColor     = color.RGBA{R: 230, G: 230, B: 240, A: 255}
	playerWingColor = color.RGBA{R: 90, G: 160, B: 255, A: 255}
	enemyColor      = color.RGBA{R: 200, G: 50, B: 50, A: 255}
	enemyCoreColor  = color.RGBA{R: 255, G: 170, B: 60, A: 255}
	missileColor    = color.RGBA{R: 255, G: 240, B: 120, A: 255}
	healthBackColor = color.RGBA{R: 40, G: 40, B: 40, A: 200}
	healthColor     = color.RGBA{R: 80, G: 220, B: 80, A: 255}
	shadeColor      = color.RGBA{A: 160}
)

var coinColors = map[skyraid.RewardKind]color.RGBA{
	skyraid.RewardSpeed:    {R: 80, G: 230, B: 120, A: 255},
	skyraid.RewardDamage:   {R: 240, G: 80, B: 80, A: 255},
	skyraid.RewardFireRate: {R: 90, G: 150, B: 255, A: 255},
	skyraid.RewardPoints:   {R: 255, G: 210, B: 40, A: 255},
}

var coinLabels = map[skyraid.RewardKind]string{
	skyraid.RewardSpeed:    "S",
	skyraid.RewardDamage:   "D",
	skyraid.RewardFireRate: "F",
	skyraid.RewardPoints:   "P",
}

// Draw implements ebiten.Game.
func (w *Window) Draw(screen *ebiten.Image) {
	snap := w.session.Snapshot()

	w.drawBackground(screen, snap.Background)
	for _, c := range snap.Coins {
		drawCoin(screen, c)
	}
	for _, e := range snap.Enemies {
		drawEnemy(screen, e)
	}
	for _, m := range snap.Projectiles {
		vector.DrawFilledCircle(screen, float32(m.Position.X), float32(m.Position.Y), float32(m.Radius), missileColor, true)
	}
	drawPlayer(screen, snap.Player)
	w.drawHUD(screen, snap)
}

func (w *Window) drawBackground(screen *ebiten.Image, index int) {
	img := w.backgrounds.Image(index)
	if img == nil {
		screen.Fill(FallbackColor(index))
		return
	}
	sw, sh := screen.Bounds().Dx(), screen.Bounds().Dy()
	iw, ih := img.Bounds().Dx(), img.Bounds().Dy()
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(sw)/float64(iw), float64(sh)/float64(ih))
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(img, op)
}

func drawPlayer(screen *ebiten.Image, p skyraid.EntityView) {
	x, y, r := float32(p.Position.X), float32(p.Position.Y), float32(p.Radius)
	vector.StrokeLine(screen, x-r, y, x+r, y, r/3, playerWingColor, true)
	vector.DrawFilledCircle(screen, x, y, r/2, playerColor, true)
	vector.StrokeLine(screen, x, y, x+r, y, r/5, playerColor, true)
}

func drawEnemy(screen *ebiten.Image, e skyraid.EntityView) {
	x, y, r := float32(e.Position.X), float32(e.Position.Y), float32(e.Radius)
	vector.DrawFilledCircle(screen, x, y, r, enemyColor, true)
	vector.DrawFilledCircle(screen, x, y, r/3, enemyCoreColor, true)

	if e.MaxHealth > 1 {
		ratio := float32(e.Health) / float32(e.MaxHealth)
		vector.DrawFilledRect(screen, x-r, y-r-6, 2*r, 3, healthBackColor, false)
		vector.DrawFilledRect(screen, x-r, y-r-6, 2*r*ratio, 3, healthColor, false)
	}
}

func drawCoin(screen *ebiten.Image, c skyraid.EntityView) {
	clr := coinColors[c.Reward]
	// Fade out over the last third of the coin's life.
	if c.LifeRatio < 1.0/3 {
		clr.A = uint8(255 * max(0.2, 3*c.LifeRatio)) //#nosec G115 -- bounded to [51,255]
	}

	x, y, r := float32(c.Position.X), float32(c.Position.Y), float32(c.Radius)
	// Spinning coins flatten horizontally.
	squash := float32(math.Abs(math.Cos(c.Spin)))
	vector.DrawFilledCircle(screen, x, y, r, clr, true)
	vector.StrokeLine(screen, x-r*squash, y, x+r*squash, y, 2, color.White, true)

	label := coinLabels[c.Reward]
	ebitenutil.DebugPrintAt(screen, label, int(x)-debugGlyphW/2, int(y)-debugGlyphH/2)
}

func (w *Window) drawHUD(screen *ebiten.Image, snap skyraid.Snapshot) {
	hud := fmt.Sprintf("SCORE %d   LEVEL %d   KILLS %d/%d   %s",
		snap.Score, snap.Level, snap.KillsThisLevel, snap.KillsPerLevel,
		skyraid.BackgroundName(snap.Background))
	ebitenutil.DebugPrintAt(screen, hud, 8, 6)
	ebitenutil.DebugPrintAt(screen, "Mouse: steer  Click: fire  P: pause  R: restart  Esc: quit", 8, screen.Bounds().Dy()-debugGlyphH-4)
	if snap.Message != "" {
		ebitenutil.DebugPrintAt(screen, snap.Message, 8, 6+debugGlyphH)
	}

	switch {
	case snap.GameOver:
		shade(screen)
		drawCentered(screen, -1, "GAME OVER")
		drawCentered(screen, 0, fmt.Sprintf("Final score: %d   Level %d   Kills %d", snap.Score, snap.Level, snap.Kills))
		drawCentered(screen, 1, "R: fly again   Esc: quit")
	case w.paused:
		shade(screen)
		drawCentered(screen, 0, "PAUSED")
	}
}

func shade(screen *ebiten.Image) {
	b := screen.Bounds()
	vector.DrawFilledRect(screen, 0, 0, float32(b.Dx()), float32(b.Dy()), shadeColor, false)
}

// drawCentered prints text centred horizontally, line rows below the middle.
func drawCentered(screen *ebiten.Image, line int, text string) {
	b := screen.Bounds()
	x := (b.Dx() - len(text)*debugGlyphW) / 2
	y := b.Dy()/2 + line*(debugGlyphH+4)
	ebitenutil.DebugPrintAt(screen, text, x, y)
}
