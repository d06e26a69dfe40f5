package postgres

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"time"

	pgxdecimal "github.com/jackc/pgx-shopspring-decimal"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/cafe-ledger-api/pkg/config"
	"github.com/rs/zerolog"
)

// NewPool crea el pool del libro de conciliación y verifica la conexión con un ping.
func NewPool(ctx context.Context, cfg config.DBConfig, log zerolog.Logger) (*pgxpool.Pool, error) {
	poolConfig, err := poolConfigFor(cfg, log)
	if err != nil {
		return nil, err
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("crear pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping DB: %w", err)
	}
	log.Info().
		Str("database", poolConfig.ConnConfig.Database).
		Int32("max_conns", poolConfig.MaxConns).
		Dur("lock_timeout", cfg.LockTimeout).
		Msg("pool PostgreSQL listo")
	return pool, nil
}

// poolConfigFor arma la configuración sin abrir conexiones.
// Cada sesión arranca en READ COMMITTED con lock_timeout, de modo que un FOR UPDATE sobre un contrato
// o un lote retenido por otra transacción falla con 55P03 en vez de esperar indefinidamente.
func poolConfigFor(cfg config.DBConfig, log zerolog.Logger) (*pgxpool.Config, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("parse DSN: %w", err)
	}

	params := poolConfig.ConnConfig.RuntimeParams
	params["default_transaction_isolation"] = "read committed"
	if cfg.ApplicationName != "" {
		params["application_name"] = cfg.ApplicationName
	}
	if cfg.LockTimeout > 0 {
		params["lock_timeout"] = strconv.FormatInt(cfg.LockTimeout.Milliseconds(), 10)
	}
	if cfg.StatementTimeout > 0 {
		params["statement_timeout"] = strconv.FormatInt(cfg.StatementTimeout.Milliseconds(), 10)
	}

	poolConfig.MaxConns = 10
	if cfg.MaxConns > 0 {
		poolConfig.MaxConns = cfg.MaxConns
	}
	poolConfig.MinConns = 1
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = 30 * time.Minute
	poolConfig.HealthCheckPeriod = time.Minute

	poolConfig.ConnConfig.DialFunc = dialPreferIPv4(log)
	// NUMERIC -> decimal.Decimal en todas las conexiones.
	poolConfig.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		pgxdecimal.Register(conn.TypeMap())
		return nil
	}
	return poolConfig, nil
}

// dialPreferIPv4 marca por IPv4 cuando el host tiene registro A; en contenedores sin IPv6 el host
// del proveedor puede resolver primero a AAAA.
func dialPreferIPv4(log zerolog.Logger) func(ctx context.Context, network, addr string) (net.Conn, error) {
	dialer := &net.Dialer{Timeout: 10 * time.Second}
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		host, port, err := net.SplitHostPort(addr)
		if err != nil {
			return nil, err
		}
		ip, err := lookupIPv4(ctx, host)
		if err != nil {
			log.Debug().Str("host", host).Err(err).Msg("sin IPv4, dial directo")
			return dialer.DialContext(ctx, network, addr)
		}
		return dialer.DialContext(ctx, "tcp4", net.JoinHostPort(ip, port))
	}
}

// fallbackResolver DNS público para cuando el del contenedor solo devuelve IPv6.
var fallbackResolver = &net.Resolver{
	PreferGo: true,
	Dial: func(ctx context.Context, _, _ string) (net.Conn, error) {
		var d net.Dialer
		return d.DialContext(ctx, "udp", "8.8.8.8:53")
	},
}

func lookupIPv4(ctx context.Context, host string) (string, error) {
	if ip := net.ParseIP(host); ip != nil {
		if ip.To4() == nil {
			return "", errors.New("dirección IPv6")
		}
		return host, nil
	}
	for _, r := range []*net.Resolver{net.DefaultResolver, fallbackResolver} {
		ips, err := r.LookupIP(ctx, "ip4", host)
		if err == nil && len(ips) > 0 {
			return ips[0].String(), nil
		}
	}
	return "", fmt.Errorf("sin registro A para %s", host)
}
