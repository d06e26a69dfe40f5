package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_JSONConServicioYComponente(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Env: "production", Level: "info", Service: "cafe-ledger", Out: &buf})

	c := l.Component("contract")
	c.Info().Int64("contract_id", 7).Msg("entrega registrada")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "cafe-ledger", line["service"])
	assert.Equal(t, "contract", line["component"])
	assert.EqualValues(t, 7, line["contract_id"])
}

func TestNew_NivelFiltraDebug(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Env: "production", Level: "WARN", Out: &buf})

	l.Info().Msg("no sale")
	l.Debug().Msg("tampoco")

	assert.Empty(t, buf.String())
}

func TestParseLevel_DesconocidoEsInfo(t *testing.T) {
	assert.Equal(t, zerolog.InfoLevel, parseLevel("verbose"))
	assert.Equal(t, zerolog.ErrorLevel, parseLevel(" error "))
}
