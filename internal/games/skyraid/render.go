package skyraid

import (
	"fmt"
	"math"

	"github.com/vovakirdan/skyraid/internal/core"
)

// Visual characters for rendering
const (
	PlayerGlyph     = '▲'
	PlayerHullGlyph = '█'
	EnemyGlyph      = '▓'
	EnemyCoreGlyph  = '◆'
	MissileGlyph    = '•'
)

// hudRows is the number of terminal rows above the playfield.
const hudRows = 2

// theme is the terminal rendition of one level background.
type theme struct {
	name    string
	star    rune
	color   core.Color
	density uint32 // One star per density cells on average
	drift   float64
}

var themes = []theme{
	{"Dawn Patrol", '.', core.ColorGray, 40, 2},
	{"High Altitude", '·', core.ColorBlue, 30, 3},
	{"Storm Front", '~', core.ColorDarkGray, 18, 6},
	{"Night Raid", '*', core.ColorNavy, 25, 4},
	{"Deep Space", '✦', core.ColorMagenta, 22, 1},
}

// BackgroundName returns the display name of a background index.
// Indices past the last theme reuse the last one.
func BackgroundName(i int) string {
	return themes[core.Clamp(i, 0, len(themes)-1)].name
}

var coinGlyphs = map[RewardKind]rune{
	RewardSpeed:    'S',
	RewardDamage:   'D',
	RewardFireRate: 'F',
	RewardPoints:   'P',
}

var coinColors = map[RewardKind]core.Color{
	RewardSpeed:    core.ColorBrightGreen,
	RewardDamage:   core.ColorBrightRed,
	RewardFireRate: core.ColorBrightBlue,
	RewardPoints:   core.ColorGold,
}

// RenderSnapshot draws a frame into dst. b maps world units to cells and
// must describe dst's dimensions.
func RenderSnapshot(dst *core.Screen, snap Snapshot, b *core.CellBounds, paused bool) {
	dst.Clear()
	drawBackground(dst, snap, b)

	if !snap.GameOver {
		for _, c := range snap.Coins {
			drawCoin(dst, c, b)
		}
		for _, e := range snap.Enemies {
			drawEnemy(dst, e, b)
		}
		for _, m := range snap.Projectiles {
			x, y := b.ToCell(m.Position)
			if y >= hudRows {
				dst.SetColored(x, y, MissileGlyph, core.ColorBrightYellow)
			}
		}
		drawPlayer(dst, snap.Player, b)
	}

	drawHUD(dst, snap)

	switch {
	case snap.GameOver:
		drawCenteredMessage(dst, core.ColorBrightRed,
			"GAME OVER",
			fmt.Sprintf("Final score: %d   Level: %d   Kills: %d", snap.Score, snap.Level, snap.Kills),
			"R to restart  |  Q to quit")
	case paused:
		drawCenteredMessage(dst, core.ColorBrightYellow, "PAUSED", "Press P to resume")
	}
}

func drawBackground(dst *core.Screen, snap Snapshot, b *core.CellBounds) {
	t := themes[core.Clamp(snap.Background, 0, len(themes)-1)]
	shift := int(snap.Elapsed * t.drift)
	for y := hudRows; y < dst.Height(); y++ {
		for x := 0; x < dst.Width(); x++ {
			if starHash(x+shift, y, snap.Background)%t.density == 0 {
				dst.SetColored(x, y, t.star, t.color)
			}
		}
	}
}

// starHash scatters stars deterministically so the field does not flicker.
func starHash(x, y, seed int) uint32 {
	h := uint32(x)*73856093 ^ uint32(y)*19349663 ^ uint32(seed+1)*83492791 //#nosec G115 -- hash computation
	h ^= h >> 13
	h *= 0x5bd1e995
	return h ^ (h >> 15)
}

// fillCircle sets every cell whose centre lies inside the circle. Circles
// smaller than a cell still get their centre cell.
func fillCircle(dst *core.Screen, b *core.CellBounds, center core.Vec2, radius int, r rune, c core.Color) {
	rad := float64(radius)
	x0, y0 := b.ToCell(center.Sub(core.V(rad, rad)))
	x1, y1 := b.ToCell(center.Add(core.V(rad, rad)))
	drawn := false
	for y := max(y0, hudRows); y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			if b.ToWorld(x, y).Distance(center) <= rad {
				dst.SetColored(x, y, r, c)
				drawn = true
			}
		}
	}
	if !drawn {
		if x, y := b.ToCell(center); y >= hudRows {
			dst.SetColored(x, y, r, c)
		}
	}
}

func drawPlayer(dst *core.Screen, p EntityView, b *core.CellBounds) {
	fillCircle(dst, b, p.Position, p.Radius, PlayerHullGlyph, core.ColorGreen)
	x, y := b.ToCell(p.Position)
	if y >= hudRows {
		dst.SetColored(x, y, PlayerGlyph, core.ColorBrightGreen)
	}
}

func drawEnemy(dst *core.Screen, e EntityView, b *core.CellBounds) {
	color := core.ColorRed
	if e.MaxHealth > 1 && e.Health < e.MaxHealth {
		color = core.ColorOrange
	}
	fillCircle(dst, b, e.Position, e.Radius, EnemyGlyph, color)
	x, y := b.ToCell(e.Position)
	if y >= hudRows {
		dst.SetColored(x, y, EnemyCoreGlyph, core.ColorBrightRed)
	}
}

func drawCoin(dst *core.Screen, c EntityView, b *core.CellBounds) {
	// Blink during the last third of the lifetime, faster as it runs out.
	if c.LifeRatio < 1.0/3 && math.Sin(c.Spin*4) < 0 {
		return
	}
	x, y := b.ToCell(c.Position)
	if y < hudRows {
		return
	}
	dst.SetColored(x, y, coinGlyphs[c.Reward], coinColors[c.Reward])
	if c.RewardValue > 1 {
		dst.SetColored(x+1, y, rune('0'+core.Clamp(c.RewardValue, 0, 9)), core.ColorGold)
	}
}

func drawHUD(dst *core.Screen, snap Snapshot) {
	dst.DrawHLine(0, 0, dst.Width(), ' ', core.ColorDefault)
	stats := fmt.Sprintf(" SCORE %d   LEVEL %d   KILLS %d/%d   %s",
		snap.Score, snap.Level, snap.KillsThisLevel, snap.KillsPerLevel, BackgroundName(snap.Background))
	dst.DrawTextColored(0, 0, stats, core.ColorBrightWhite)

	mods := fmt.Sprintf("spd x%.1f  dmg +%d  rof x%.1f ",
		snap.Modifiers.MissileSpeedMult, snap.Modifiers.MissileDamageBonus, snap.Modifiers.FireRateMult)
	if x := dst.Width() - len(mods); x > len([]rune(stats)) {
		dst.DrawTextColored(x, 0, mods, core.ColorCyan)
	}

	if snap.Message != "" {
		dst.DrawTextColored(1, 1, snap.Message, core.ColorGold)
		return
	}
	dst.DrawTextColored(1, 1, "mouse steer/click fire  WASD move  SPACE fire  P pause  Q quit", core.ColorGray)
}

// drawCenteredMessage draws a bordered message box in the centre of the screen.
func drawCenteredMessage(dst *core.Screen, c core.Color, title string, lines ...string) {
	boxW := len([]rune(title))
	for _, l := range lines {
		boxW = max(boxW, len([]rune(l)))
	}
	boxW += 4
	boxH := len(lines) + 4
	boxX := (dst.Width() - boxW) / 2
	boxY := (dst.Height() - boxH) / 2

	box := core.NewRect(boxX, boxY, boxW, boxH)
	dst.DrawRect(box, ' ')
	dst.DrawBox(box, c)
	dst.DrawTextCentered(boxY+1, title, c)
	for i, l := range lines {
		dst.DrawTextCentered(boxY+3+i, l, core.ColorWhite)
	}
}
