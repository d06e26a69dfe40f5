package entity

import "time"

// Client productor o comprador (solo lectura en este servicio; se usa en comprobantes).
type Client struct {
	ID        int64
	Name      string
	TaxID     string // cédula o RTN
	Phone     string
	CreatedAt time.Time
}
