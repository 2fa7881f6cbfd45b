package session

import (
	"errors"
	"fmt"
	"time"
)

// ErrUnknownDateFormat se devuelve para fechas que no son DD/MM/YYYY ni
// YYYY-MM-DD.
var ErrUnknownDateFormat = errors.New("formato de fecha no reconocido")

var spanishDays = [...]string{
	"Domingo", "Lunes", "Martes", "Miércoles", "Jueves", "Viernes", "Sábado",
}

var spanishMonths = [...]string{
	"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
	"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
}

// NormalizeExamDate acepta DD/MM/YYYY o YYYY-MM-DD y devuelve siempre
// YYYY-MM-DD.
func NormalizeExamDate(raw string) (string, error) {
	for _, layout := range []string{"2006-01-02", "02/01/2006"} {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return parsed.Format("2006-01-02"), nil
		}
	}
	return "", ErrUnknownDateFormat
}

// FormatLongDate convierte una fecha ISO en la forma larga en español,
// p. ej. "Jueves, 15 de Enero de 2026". Devuelve cadena vacía si la
// fecha no parsea.
func FormatLongDate(iso string) string {
	parsed, err := time.Parse("2006-01-02", iso)
	if err != nil {
		return ""
	}
	return fmt.Sprintf("%s, %d de %s de %d",
		spanishDays[parsed.Weekday()],
		parsed.Day(),
		spanishMonths[parsed.Month()-1],
		parsed.Year(),
	)
}
