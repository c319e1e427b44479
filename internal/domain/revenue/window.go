// Package revenue ventanas de tiempo y clasificación para agregados de ingresos.
package revenue

import (
	"fmt"
	"strings"
	"time"
)

// Period granularidad de una ventana.
type Period string

const (
	PeriodDay   Period = "day"
	PeriodMonth Period = "month"
	PeriodYear  Period = "year"
)

// Window intervalo semiabierto [Start, End). La ventana cero representa "todo el histórico".
type Window struct {
	Start time.Time
	End   time.Time
}

// IsAll indica si la ventana no tiene límites.
func (w Window) IsAll() bool {
	return w.Start.IsZero() && w.End.IsZero()
}

// Contains indica si t cae dentro de la ventana.
func (w Window) Contains(t time.Time) bool {
	if w.IsAll() {
		return true
	}
	return !t.Before(w.Start) && t.Before(w.End)
}

// WindowFor calcula la ventana del periodo que contiene now, con fronteras en loc.
func WindowFor(p Period, now time.Time, loc *time.Location) Window {
	if loc == nil {
		loc = time.UTC
	}
	n := now.In(loc)
	var start, end time.Time
	switch p {
	case PeriodDay:
		start = time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, loc)
		end = start.AddDate(0, 0, 1)
	case PeriodMonth:
		start = time.Date(n.Year(), n.Month(), 1, 0, 0, 0, 0, loc)
		end = start.AddDate(0, 1, 0)
	default:
		start = time.Date(n.Year(), time.January, 1, 0, 0, 0, 0, loc)
		end = start.AddDate(1, 0, 0)
	}
	return Window{Start: start, End: end}
}

// Calendar agrupa las tres ventanas calculadas en una misma zona para una consulta.
type Calendar struct {
	Location *time.Location
	Now      time.Time
	Day      Window
	Month    Window
	Year     Window
}

// NewCalendar calcula día, mes y año de now en loc.
func NewCalendar(now time.Time, loc *time.Location) Calendar {
	if loc == nil {
		loc = time.UTC
	}
	return Calendar{
		Location: loc,
		Now:      now,
		Day:      WindowFor(PeriodDay, now, loc),
		Month:    WindowFor(PeriodMonth, now, loc),
		Year:     WindowFor(PeriodYear, now, loc),
	}
}

// Window devuelve la ventana del periodo pedido.
func (c Calendar) Window(p Period) Window {
	switch p {
	case PeriodDay:
		return c.Day
	case PeriodMonth:
		return c.Month
	default:
		return c.Year
	}
}

// LoadLocation resuelve una zona IANA; vacío devuelve def.
func LoadLocation(name string, def *time.Location) (*time.Location, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		if def == nil {
			return time.UTC, nil
		}
		return def, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("zona horaria inválida %q: %w", name, err)
	}
	return loc, nil
}
