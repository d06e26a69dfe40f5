package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
)

func TestReadLots_OmiteEncabezadoYAceptaComaDecimal(t *testing.T) {
	in := "referencia;cantidad;nota\nL-001;1250,5;Finca La Esperanza\nL-002;300.25;\n\n"

	rows, err := readLots(strings.NewReader(in), false)

	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "L-001", rows[0].Reference)
	assert.True(t, decimal.RequireFromString("1250.5").Equal(rows[0].Quantity))
	assert.Equal(t, "Finca La Esperanza", rows[0].Note)
	assert.Equal(t, 3, rows[1].Line)
	assert.True(t, decimal.RequireFromString("300.25").Equal(rows[1].Quantity))
}

func TestReadLots_DecodificaLatin1(t *testing.T) {
	encoded, err := charmap.ISO8859_1.NewEncoder().String("L-010;10;Café pergamino seco\n")
	require.NoError(t, err)

	rows, err := readLots(bytes.NewReader([]byte(encoded)), true)

	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Café pergamino seco", rows[0].Note)
}

func TestReadLots_CantidadInvalidaReportaLinea(t *testing.T) {
	in := "L-001;10\nL-002;diez\n"

	_, err := readLots(strings.NewReader(in), false)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "línea 2")
}

func TestParseQuantity_SeparadorDeMiles(t *testing.T) {
	q, err := parseQuantity("1.250,75")

	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("1250.75").Equal(q))
}
