// Package sales reúne las reglas puras de la venta: normalización de fechas, calendario
// budista para el número de documento y cálculo de montos.
package sales

import (
	"strconv"
	"strings"
	"time"
)

// Location zona horaria de referencia (Tailandia, UTC+7, sin horario de verano).
var Location = time.FixedZone("ICT", 7*60*60)

// BuddhistEraOffset diferencia entre el año de la era budista y el gregoriano.
const BuddhistEraOffset = 543

// buddhistYearThreshold: años mayores se interpretan como era budista.
const buddhistYearThreshold = 2200

// DateOnly reduce t a la fecha (00:00) en la zona de referencia.
func DateOnly(t time.Time) time.Time {
	t = t.In(Location)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, Location)
}

// ParseDocDate normaliza la fecha del documento. Acepta "YYYY-MM-DD" y "DD/MM/YYYY"
// (años > 2200 se toman como era budista y se restan 543). Vacío = hoy.
// Devuelve ok=false si el texto no es una fecha válida.
func ParseDocDate(raw string, now time.Time) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return DateOnly(now), true
	}

	var y, m, d int
	var err error
	switch {
	case strings.Contains(raw, "-"):
		// ISO; se tolera sufijo de hora ("2026-10-16T10:00:00Z").
		if len(raw) > 10 && (raw[10] == 'T' || raw[10] == ' ') {
			raw = raw[:10]
		}
		parts := strings.Split(raw, "-")
		if len(parts) != 3 {
			return time.Time{}, false
		}
		y, m, d, err = atoi3(parts[0], parts[1], parts[2])
	case strings.Contains(raw, "/"):
		parts := strings.Split(raw, "/")
		if len(parts) != 3 {
			return time.Time{}, false
		}
		d, m, y, err = atoi3(parts[0], parts[1], parts[2])
	default:
		return time.Time{}, false
	}
	if err != nil {
		return time.Time{}, false
	}
	if y > buddhistYearThreshold {
		y -= BuddhistEraOffset
	}
	if y < 1 || m < 1 || m > 12 || d < 1 || d > 31 {
		return time.Time{}, false
	}
	t := time.Date(y, time.Month(m), d, 0, 0, 0, 0, Location)
	// time.Date normaliza 31/02 a marzo; eso es una fecha inválida.
	if t.Day() != d || int(t.Month()) != m {
		return time.Time{}, false
	}
	return t, true
}

func atoi3(a, b, c string) (int, int, int, error) {
	x, err := strconv.Atoi(strings.TrimSpace(a))
	if err != nil {
		return 0, 0, 0, err
	}
	y, err := strconv.Atoi(strings.TrimSpace(b))
	if err != nil {
		return 0, 0, 0, err
	}
	z, err := strconv.Atoi(strings.TrimSpace(c))
	if err != nil {
		return 0, 0, 0, err
	}
	return x, y, z, nil
}

// BuddhistYear año de la era budista para t.
func BuddhistYear(t time.Time) int {
	return t.In(Location).Year() + BuddhistEraOffset
}

// FormatThaiDate formatea DD/MM/YYYY con año budista (documentos impresos).
func FormatThaiDate(t time.Time) string {
	t = t.In(Location)
	return t.Format("02/01/") + strconv.Itoa(BuddhistYear(t))
}
