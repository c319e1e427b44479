// Package billing reglas puras de facturación: lectura tolerante de fechas y totales derivados.
package billing

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	ddmmyyyy   = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4})$`)
	epochMilli = regexp.MustCompile(`^-?\d{5,}$`)
	zoneSuffix = regexp.MustCompile(`\s*\([^)]*\)$`)
)

// Formatos aceptados además de DD/MM/YYYY y epoch en milisegundos.
// Los que no traen zona se interpretan en UTC.
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006/01/02",
	time.RFC1123,
	time.RFC1123Z,
	"Mon Jan 02 2006 15:04:05 GMT-0700", // Date.prototype.toString sin el nombre de la zona
	"Mon Jan 02 2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
}

// ParseDate interpreta una fecha de forma permisiva.
// ok=false significa "ausente": vacío o no interpretable; nunca es un error para el llamador.
func ParseDate(raw string) (t time.Time, ok bool) {
	s := strings.TrimSpace(raw)
	if s == "" || strings.EqualFold(s, "null") || strings.EqualFold(s, "undefined") {
		return time.Time{}, false
	}

	if m := ddmmyyyy.FindStringSubmatch(s); m != nil {
		day, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[3])
		d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
		// 31/02/2024 se normalizaría a marzo; se descarta.
		if d.Day() != day || int(d.Month()) != month {
			return time.Time{}, false
		}
		return d, true
	}

	if epochMilli.MatchString(s) {
		ms, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return time.Time{}, false
		}
		return time.UnixMilli(ms).UTC(), true
	}

	s = zoneSuffix.ReplaceAllString(s, "")
	for _, layout := range dateLayouts {
		if d, err := time.Parse(layout, s); err == nil {
			return d.UTC(), true
		}
	}
	return time.Time{}, false
}

// ParseDatePtr como ParseDate pero devuelve nil cuando la fecha está ausente.
func ParseDatePtr(raw string) *time.Time {
	t, ok := ParseDate(raw)
	if !ok {
		return nil
	}
	return &t
}
