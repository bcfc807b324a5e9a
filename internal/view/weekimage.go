package view

import (
	"bytes"
	"image/color"
	"strconv"
	"sync"
	"time"

	"github.com/Freeeeeet/booking_portal/internal/model"
	"github.com/fogleman/gg"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// Константы размеров и отступов
const (
	imageWidth       = 1400
	imageHeight      = 900
	headerHeight     = 100
	leftLabelsWidth  = 80
	legendWidth      = 120
	dayPaddingX      = 8
	minSlotHeight    = 8.0
	slotBorderRadius = 6.0
	shadowOffset     = 3.0
	totalDaysInWeek  = 7
	hourPaddingTop   = 1
	hourPaddingBot   = 1
	defaultMinHour   = 8
	defaultMaxHour   = 18
)

const (
	titleFontSize      = 25.0
	dayFontSize        = 24.0
	hourLabelFontSize  = 18.0
	slotTimeFontSize   = 16.0
	legendItemFontSize = 12.0
)

var (
	bgColor        = color.RGBA{245, 246, 248, 255}
	textColor      = color.RGBA{80, 85, 90, 220}
	hourLabelColor = color.RGBA{110, 115, 120, 200}
	hourLineColor  = color.NRGBA{150, 150, 150, 255}
	evenDayColor   = color.NRGBA{240, 240, 240, 255}
	oddDayColor    = color.NRGBA{220, 220, 220, 255}

	windowFreeColor     = color.RGBA{133, 193, 85, 220}
	windowPendingColor  = color.RGBA{255, 214, 102, 240}
	windowApprovedColor = color.RGBA{255, 182, 193, 255}
	slotTextColor       = color.RGBA{20, 24, 28, 230}
	slotShadowColor     = color.RGBA{0, 0, 0, 20}

	legendItemColor = color.RGBA{70, 74, 78, 220}
)

// Порядок колонок: понедельник ... воскресенье
var weekOrder = []time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday, time.Saturday, time.Sunday,
}

type hourRange struct {
	start int
	end   int
	total int
}

var (
	fontsOnce   sync.Once
	regularFont *opentype.Font
	boldFont    *opentype.Font
)

func loadFont(dc *gg.Context, size float64, bold bool) {
	fontsOnce.Do(func() {
		regularFont, _ = opentype.Parse(goregular.TTF)
		boldFont, _ = opentype.Parse(gobold.TTF)
	})

	f := regularFont
	if bold && boldFont != nil {
		f = boldFont
	}
	if f != nil {
		face, err := opentype.NewFace(f, &opentype.FaceOptions{
			Size:    size,
			DPI:     72,
			Hinting: font.HintingFull,
		})
		if err == nil {
			dc.SetFontFace(face)
			return
		}
	}
	// fallback к встроенному шрифту
	dc.SetFontFace(basicfont.Face7x13)
}

// WeekImage рисует PNG с еженедельными окнами учителя.
// Записи недели weekOf (в часовом поясе loc) закрашивают совпавшие окна по статусу
func WeekImage(weekOf time.Time, windows []*model.Availability, appointments []*model.Appointment, loc *time.Location) ([]byte, error) {
	if loc == nil {
		loc = time.UTC
	}
	weekStart := mondayOf(weekOf.In(loc))
	booked := bookedWindows(weekStart, appointments, loc)

	byDay := make(map[string][]*model.Availability)
	for _, w := range windows {
		byDay[w.Day] = append(byDay[w.Day], w)
	}
	hours := calculateHourRange(windows)

	dc := gg.NewContext(imageWidth, imageHeight)
	dc.SetColor(bgColor)
	dc.Clear()

	dayWidth := (imageWidth - leftLabelsWidth - legendWidth) / totalDaysInWeek
	dayHeight := imageHeight - headerHeight
	cellHeight := float64(dayHeight) / float64(hours.total)

	drawHeader(dc, weekStart)
	drawHourLabels(dc, hours, cellHeight)

	for i, weekday := range weekOrder {
		x := float64(leftLabelsWidth + i*dayWidth)
		y := float64(headerHeight)
		date := weekStart.AddDate(0, 0, i)

		if i%2 == 0 {
			dc.SetColor(evenDayColor)
		} else {
			dc.SetColor(oddDayColor)
		}
		dc.DrawRectangle(x, y, float64(dayWidth), float64(dayHeight))
		dc.Fill()

		loadFont(dc, dayFontSize, true)
		dc.SetColor(textColor)
		dc.DrawStringAnchored(date.Format("02.01"), x+float64(dayWidth)/2, y, 0.5, -1)
		dc.DrawStringAnchored(weekday.String()[:3], x+float64(dayWidth)/2, y, 0.5, -0.2)

		drawHourLines(dc, x, y, dayWidth, hours, cellHeight)
		for _, w := range byDay[weekday.String()] {
			status, taken := booked[windowKey(weekday.String(), w.StartTime)]
			drawWindow(dc, w, windowColor(status, taken), x, y, dayWidth, hours, cellHeight)
		}
	}

	drawLegend(dc, dayWidth)

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func mondayOf(t time.Time) time.Time {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	offset := int(day.Weekday()) - 1
	if day.Weekday() == time.Sunday {
		offset = 6
	}
	return day.AddDate(0, 0, -offset)
}

func windowKey(day, start string) string {
	return day + " " + start
}

// bookedWindows статус записи по ключу "день HH:MM" для записей этой недели
func bookedWindows(weekStart time.Time, appointments []*model.Appointment, loc *time.Location) map[string]model.AppointmentStatus {
	weekEnd := weekStart.AddDate(0, 0, 7)
	result := make(map[string]model.AppointmentStatus)
	for _, a := range appointments {
		at := a.Time.In(loc)
		if at.Before(weekStart) || !at.Before(weekEnd) || a.Status == model.AppointmentStatusCancelled {
			continue
		}
		key := windowKey(at.Weekday().String(), at.Format("15:04"))
		if result[key] != model.AppointmentStatusApproved {
			result[key] = a.Status
		}
	}
	return result
}

func windowColor(status model.AppointmentStatus, taken bool) color.RGBA {
	if !taken {
		return windowFreeColor
	}
	if status == model.AppointmentStatusApproved {
		return windowApprovedColor
	}
	return windowPendingColor
}

func clockHours(v string) float64 {
	t, err := time.Parse("15:04", v)
	if err != nil {
		return 0
	}
	return float64(t.Hour()) + float64(t.Minute())/60.0
}

func calculateHourRange(windows []*model.Availability) hourRange {
	minHour := 24
	maxHour := 0

	for _, w := range windows {
		startH := int(clockHours(w.StartTime))
		endF := clockHours(w.EndTime)
		endH := int(endF)
		if endF > float64(endH) {
			endH++
		}
		if startH < minHour {
			minHour = startH
		}
		if endH > maxHour {
			maxHour = endH
		}
	}

	if minHour == 24 {
		minHour = defaultMinHour
		maxHour = defaultMaxHour
	}

	startHour := minHour - hourPaddingTop
	endHour := maxHour + hourPaddingBot
	if startHour < 0 {
		startHour = 0
	}
	if endHour > 24 {
		endHour = 24
	}

	return hourRange{
		start: startHour,
		end:   endHour,
		total: endHour - startHour,
	}
}

func drawHeader(dc *gg.Context, weekStart time.Time) {
	weekEnd := weekStart.AddDate(0, 0, 6)
	title := weekStart.Format("2 Jan") + " - " + weekEnd.Format("2 Jan 2006")

	loadFont(dc, titleFontSize, true)
	dc.SetColor(textColor)
	w, h := dc.MeasureString(title)
	dc.DrawStringAnchored(title, w/2+10, float64(headerHeight)/8+h/2, 0, 0)
}

func drawHourLabels(dc *gg.Context, hours hourRange, cellHeight float64) {
	loadFont(dc, hourLabelFontSize, false)
	dc.SetColor(hourLabelColor)

	for hIdx := 0; hIdx <= hours.total; hIdx++ {
		y := float64(headerHeight) + float64(hIdx)*cellHeight
		dc.DrawStringAnchored(formatHourLabel(hours.start+hIdx), float64(leftLabelsWidth)-10, y, 1, 0.5)
	}
}

func drawHourLines(dc *gg.Context, x, y float64, dayWidth int, hours hourRange, cellHeight float64) {
	dc.SetLineWidth(0.3)
	dc.SetColor(hourLineColor)

	for hIdx := 0; hIdx <= hours.total; hIdx++ {
		hy := y + float64(hIdx)*cellHeight
		dc.DrawLine(x, hy, x+float64(dayWidth), hy)
		dc.Stroke()
	}
}

func drawWindow(dc *gg.Context, w *model.Availability, fill color.RGBA, x, y float64, dayWidth int, hours hourRange, cellHeight float64) {
	start := clockHours(w.StartTime)
	end := clockHours(w.EndTime)

	slotY := y + (start-float64(hours.start))*cellHeight
	slotHeight := (end - start) * cellHeight
	if slotHeight < minSlotHeight {
		slotHeight = minSlotHeight
	}
	slotWidth := float64(dayWidth) - float64(dayPaddingX*2)

	// Тень
	dc.SetColor(slotShadowColor)
	dc.DrawRoundedRectangle(x+dayPaddingX+shadowOffset, slotY+2+shadowOffset, slotWidth, slotHeight-4, slotBorderRadius)
	dc.Fill()

	dc.SetColor(fill)
	dc.DrawRoundedRectangle(x+float64(dayPaddingX), slotY+2, slotWidth, slotHeight-4, slotBorderRadius)
	dc.Fill()

	// Рамка
	dc.SetColor(darkenColor(fill, 0.8))
	dc.SetLineWidth(1)
	dc.DrawRoundedRectangle(x+float64(dayPaddingX), slotY+2, slotWidth, slotHeight-4, slotBorderRadius)
	dc.Stroke()

	loadFont(dc, slotTimeFontSize, false)
	dc.SetColor(slotTextColor)
	dc.DrawStringAnchored(w.SlotLabel(), x+float64(dayPaddingX)+8, slotY+18, 0, 0)
}

func darkenColor(c color.RGBA, factor float64) color.RGBA {
	return color.RGBA{
		R: uint8(float64(c.R) * factor),
		G: uint8(float64(c.G) * factor),
		B: uint8(float64(c.B) * factor),
		A: c.A,
	}
}

func drawLegend(dc *gg.Context, dayWidth int) {
	liX := float64(leftLabelsWidth + totalDaysInWeek*dayWidth + 10)
	liY := float64(imageHeight) - 78.0

	items := []struct {
		Label string
		Clr   color.Color
	}{
		{"Free", windowFreeColor},
		{"Pending", windowPendingColor},
		{"Approved", windowApprovedColor},
	}

	boxW, boxH := 20.0, 14.0
	for _, item := range items {
		dc.SetColor(item.Clr)
		dc.DrawRoundedRectangle(liX, liY, boxW, boxH, 3)
		dc.Fill()

		loadFont(dc, legendItemFontSize, false)
		dc.SetColor(legendItemColor)
		dc.DrawStringAnchored(item.Label, liX+boxW+8, liY+boxH/2+1, 0, 0.2)
		liY += boxH + 14
	}
}

func formatHourLabel(h int) string {
	if h < 10 {
		return "0" + strconv.Itoa(h) + ":00"
	}
	return strconv.Itoa(h) + ":00"
}
