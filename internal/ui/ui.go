package ui

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/doridoridoriand/pingclock/internal/monitor"
	"github.com/doridoridoriand/pingclock/internal/timeline"
)

const (
	uiRefreshInterval = 100 * time.Millisecond
	minWidth          = 40
	minHeight         = 16
)

// UI renders the clock face and statistics from monitor snapshots. It never
// mutates monitor state except through the start/stop toggle.
type UI struct {
	monitor *monitor.Monitor
}

// New returns a UI instance.
func New(mon *monitor.Monitor) *UI {
	return &UI{monitor: mon}
}

// Run blocks until the context is cancelled or the user quits.
func (u *UI) Run(ctx context.Context) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	screen.HideCursor()
	defer screen.Fini()

	eventCh := make(chan tcell.Event, 1)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case eventCh <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	ticker := time.NewTicker(uiRefreshInterval)
	defer ticker.Stop()

	u.render(screen, u.monitor.Snapshot())
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-eventCh:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if ev.Key() == tcell.KeyCtrlC || ev.Rune() == 'q' {
					return context.Canceled
				}
				if ev.Rune() == 's' {
					if u.monitor.Monitoring() {
						u.monitor.StopMonitoring()
					} else {
						u.monitor.StartMonitoring()
					}
				}
			case *tcell.EventResize:
				screen.Sync()
			}
		case <-ticker.C:
			u.render(screen, u.monitor.Snapshot())
		}
	}
}

func (u *UI) render(screen tcell.Screen, snapshot monitor.Snapshot) {
	screen.Clear()
	width, height := screen.Size()
	if width < minWidth || height < minHeight {
		drawText(screen, 0, 0, width, "terminal too small", tcell.StyleDefault)
		screen.Show()
		return
	}

	now := snapshot.GeneratedAt.Format("2006-01-02 15:04:05")
	header := fmt.Sprintf(" pingclock  %s  (s start/stop, q quit)", now)
	drawText(screen, 0, 0, width, header, tcell.StyleDefault.Bold(true))

	state := "stopped"
	if snapshot.Monitoring {
		state = "monitoring"
	}
	info := fmt.Sprintf(" target=%s  state=%s  green<%dms  yellow<%dms",
		snapshot.Target, state, snapshot.GreenThresholdMs, snapshot.YellowThresholdMs)
	drawText(screen, 0, 1, width, info, tcell.StyleDefault.Foreground(tcell.ColorGray))

	drawStatistics(screen, 0, 3, width, snapshot)
	drawClockFace(screen, width, 8, height-8, snapshot)

	screen.Show()
}

func drawStatistics(screen tcell.Screen, x, y, width int, snapshot monitor.Snapshot) {
	lines := []string{
		fmt.Sprintf(" Success Rate: %.1f%%", 100.0-snapshot.Stats.LossRate),
		fmt.Sprintf(" Loss Rate: %.1f%%  (%d/%d probes)", snapshot.Stats.LossRate, snapshot.Stats.Failed, snapshot.Stats.Total),
		fmt.Sprintf(" Mean Response Time: %.1fms", snapshot.Stats.MeanResponseMillis),
		fmt.Sprintf(" Last Response Time: %s", formatLastResponse(snapshot.LastResponseMillis)),
	}
	for i, line := range lines {
		drawText(screen, x, y+i, width, line, tcell.StyleDefault)
	}
}

// drawClockFace places the 12 slot markers around an ellipse, with the
// second hand drawn from the center. Terminal cells are roughly twice as
// tall as wide, so the horizontal radius is doubled.
func drawClockFace(screen tcell.Screen, width, top, height int, snapshot monitor.Snapshot) {
	if height < 7 {
		return
	}
	centerX := width / 2
	centerY := top + height/2
	radiusY := float64(height)/2 - 1
	radiusX := radiusY * 2
	if float64(centerX)-radiusX < 1 {
		radiusX = float64(centerX) - 1
	}

	for i := 0; i < timeline.NumSlots; i++ {
		angle := slotAngle(float64(i) * 30.0)
		x := centerX + int(math.Round(radiusX*math.Cos(angle)))
		y := centerY + int(math.Round(radiusY*math.Sin(angle)))

		slot := snapshot.Slots[i]
		style := tcell.StyleDefault.Foreground(rgbColor(slot.RGB))
		marker := '●'
		if slot.Pending {
			// 実行中スロットは枠付きで表示
			marker = '◎'
			style = style.Bold(true)
		}
		setCell(screen, x, y, marker, style)

		label := fmt.Sprintf("%d", i*timeline.SlotSeconds)
		labelX := centerX + int(math.Round((radiusX-5)*math.Cos(angle)))
		labelY := centerY + int(math.Round((radiusY-1.5)*math.Sin(angle)))
		drawText(screen, labelX-len(label)/2, labelY, len(label), label, tcell.StyleDefault.Foreground(tcell.ColorGray))
	}

	drawSecondHand(screen, centerX, centerY, radiusX, radiusY, snapshot.MillisInMinute)
}

// drawSecondHand sweeps one full revolution per minute.
func drawSecondHand(screen tcell.Screen, centerX, centerY int, radiusX, radiusY float64, millisInMinute int64) {
	angle := slotAngle(float64(millisInMinute) * 6.0 / 1000.0)
	style := tcell.StyleDefault.Foreground(tcell.ColorRed)

	steps := int(radiusY*0.8) + 1
	for step := 1; step <= steps; step++ {
		frac := 0.8 * float64(step) / float64(steps)
		x := centerX + int(math.Round(radiusX*frac*math.Cos(angle)))
		y := centerY + int(math.Round(radiusY*frac*math.Sin(angle)))
		setCell(screen, x, y, '·', style)
	}
	setCell(screen, centerX, centerY, 'o', style.Bold(true))
}

// slotAngle converts clock degrees (0 at 12 o'clock, clockwise) to radians.
func slotAngle(degrees float64) float64 {
	return (degrees - 90.0) * math.Pi / 180.0
}

func rgbColor(c timeline.RGB) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

func formatLastResponse(millis *float64) string {
	if millis == nil {
		return "N/A"
	}
	return fmt.Sprintf("%.1fms", *millis)
}

func drawText(screen tcell.Screen, x, y, width int, text string, style tcell.Style) {
	if width <= 0 {
		return
	}
	col := x
	for _, r := range text {
		if col >= x+width {
			return
		}
		setCell(screen, col, y, r, style)
		col++
	}
}

func setCell(screen tcell.Screen, x, y int, r rune, style tcell.Style) {
	screen.SetContent(x, y, r, nil, style)
}
