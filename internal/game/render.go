package game

import (
	"fmt"

	"github.com/dobi-games/flappy-dobi/internal/config"
	"github.com/dobi-games/flappy-dobi/internal/core"
)

// Visual characters for terminal rendering.
const (
	agentChar    = '◆'
	pillarChar   = '█'
	pillarCapTop = '▄'
	pillarCapBot = '▀'
	groundChar   = '═'
)

// Render draws a snapshot onto a screen buffer, scaling world pixels down
// to character cells.
func Render(dst *core.Screen, snap Snapshot, cfg config.Config) {
	dst.Clear()

	w, h := dst.Width(), dst.Height()
	if w < 4 || h < 4 {
		return
	}

	sx := float64(w) / cfg.World.Width
	sy := float64(h-1) / cfg.World.Height // Last row is the ground line

	groundY := h - 1
	dst.DrawHLine(0, groundY, w, groundChar)

	pillarW := core.Max(1, int(cfg.Obstacles.Width*sx))
	for _, o := range snap.Obstacles {
		drawObstacle(dst, o, sx, sy, pillarW, groundY)
	}

	// Agent box
	ax := int(snap.AgentX * sx)
	ay := int(snap.AgentY * sy)
	aw := core.Max(1, int(cfg.Agent.Size*sx))
	ah := core.Max(1, int(cfg.Agent.Size*sy))
	color := core.ColorBrightYellow
	if snap.State == StateLost {
		color = core.ColorRed
	}
	for dy := 0; dy < ah; dy++ {
		for dx := 0; dx < aw; dx++ {
			dst.SetColored(ax+dx, ay+dy, agentChar, color)
		}
	}

	dst.DrawText(2, 0, fmt.Sprintf(" Score: %d ", snap.Score))
}

// drawObstacle renders one pillar pair.
func drawObstacle(dst *core.Screen, o ObstacleView, sx, sy float64, width, groundY int) {
	x := int(o.X * sx)
	gapTop := int(o.GapTop * sy)
	gapBottom := int(o.GapBottom * sy)

	color := core.ColorGreen
	if o.Passed {
		color = core.ColorGray
	}

	for y := 0; y < gapTop; y++ {
		for dx := 0; dx < width; dx++ {
			dst.SetColored(x+dx, y, pillarChar, color)
		}
	}
	if gapTop > 0 {
		for dx := 0; dx < width; dx++ {
			dst.SetColored(x+dx, gapTop-1, pillarCapTop, color)
		}
	}

	for y := gapBottom; y < groundY; y++ {
		for dx := 0; dx < width; dx++ {
			dst.SetColored(x+dx, y, pillarChar, color)
		}
	}
	if gapBottom < groundY {
		for dx := 0; dx < width; dx++ {
			dst.SetColored(x+dx, gapBottom, pillarCapBot, color)
		}
	}
}
