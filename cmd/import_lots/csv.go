package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// lotRow fila del archivo de ingresos: referencia;cantidad;nota
type lotRow struct {
	Line      int
	Reference string
	Quantity  decimal.Decimal
	Note      string
}

// readLots lee el CSV separado por ';'. Con latin1 decodifica ISO-8859-1 (exportes de Excel en Windows).
// La primera fila se toma como encabezado si su segunda columna no es numérica.
func readLots(r io.Reader, latin1 bool) ([]lotRow, error) {
	if latin1 {
		r = transform.NewReader(r, charmap.ISO8859_1.NewDecoder())
	}
	cr := csv.NewReader(r)
	cr.Comma = ';'
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var rows []lotRow
	line := 0
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("línea %d: %w", line, err)
		}
		if len(rec) == 0 || (len(rec) == 1 && strings.TrimSpace(rec[0]) == "") {
			continue
		}
		if len(rec) < 2 {
			return nil, fmt.Errorf("línea %d: se esperan al menos 2 columnas", line)
		}
		qty, err := parseQuantity(rec[1])
		if err != nil {
			if line == 1 {
				continue
			}
			return nil, fmt.Errorf("línea %d: cantidad %q: %w", line, rec[1], err)
		}
		row := lotRow{Line: line, Reference: strings.TrimSpace(rec[0]), Quantity: qty}
		if len(rec) > 2 {
			row.Note = strings.TrimSpace(rec[2])
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// parseQuantity acepta coma o punto como separador decimal ("1250,5" o "1250.5").
func parseQuantity(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	}
	return decimal.NewFromString(s)
}
