package dto

import (
	"strings"
	"time"
)

// DateLayout formato de fecha aceptado en los cuerpos JSON (también se acepta RFC 3339).
const DateLayout = "2006-01-02"

// Date fecha de calendario recibida como "2006-01-02" o RFC 3339.
type Date struct {
	time.Time
}

// UnmarshalJSON acepta "2006-01-02", RFC 3339 o null.
func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		d.Time = time.Time{}
		return nil
	}
	t, err := time.ParseInLocation(DateLayout, s, time.UTC)
	if err != nil {
		t, err = time.Parse(time.RFC3339, s)
		if err != nil {
			return &time.ParseError{Layout: DateLayout, Value: s, Message: ": fecha inválida, use AAAA-MM-DD"}
		}
	}
	d.Time = t
	return nil
}

// MarshalJSON escribe la fecha como "2006-01-02".
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + d.Format(DateLayout) + `"`), nil
}

// Value fecha o cero si no vino.
func (d *Date) Value() time.Time {
	if d == nil {
		return time.Time{}
	}
	return d.Time
}
