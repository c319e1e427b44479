package postgres

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"time"

	pgxdecimal "github.com/jackc/pgx-shopspring-decimal"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/hospital-api/pkg/config"
)

// NewPool abre el pool del hospital y, con AutoMigrate, aplica el esquema embebido.
// Las conexiones salen siempre por IPv4 cuando el host tiene registro A.
func NewPool(ctx context.Context, cfg config.DBConfig) (*pgxpool.Pool, error) {
	poolConfig, err := newPoolConfig(ctx, cfg)
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
	if cfg.AutoMigrate {
		if err := EnsureSchema(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
	}
	return pool, nil
}

func newPoolConfig(ctx context.Context, cfg config.DBConfig) (*pgxpool.Config, error) {
	res := newIPv4Resolver(cfg.FallbackDNS)

	dsn := cfg.ConnectionString()
	if cfg.DatabaseURL != "" {
		dsn = res.rewriteURL(ctx, cfg.DatabaseURL)
	} else if ip, err := res.lookup(ctx, cfg.Host); err == nil {
		withIP := cfg
		withIP.Host = ip
		dsn = withIP.DSN()
	}

	pc, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse DSN: %w", err)
	}
	pc.ConnConfig.DialFunc = res.dial

	pc.MaxConns = cfg.MaxConns
	if pc.MaxConns <= 0 {
		pc.MaxConns = 20
	}
	pc.MinConns = 2
	pc.MaxConnLifetime = time.Hour
	pc.MaxConnIdleTime = 30 * time.Minute
	pc.HealthCheckPeriod = time.Minute

	// Importes NUMERIC como decimal.Decimal.
	pc.AfterConnect = func(_ context.Context, conn *pgx.Conn) error {
		pgxdecimal.Register(conn.TypeMap())
		return nil
	}
	return pc, nil
}

var errNoIPv4 = errors.New("sin dirección IPv4")

// ipv4Resolver resuelve hosts a IPv4. Si el resolver del sistema no devuelve registros A
// (contenedores sin IPv6 frente a hosts que publican ambos) consulta fallbackDNS.
type ipv4Resolver struct {
	system   *net.Resolver
	fallback *net.Resolver
}

func newIPv4Resolver(fallbackDNS string) *ipv4Resolver {
	r := &ipv4Resolver{system: net.DefaultResolver}
	if fallbackDNS != "" {
		r.fallback = &net.Resolver{
			PreferGo: true,
			Dial: func(ctx context.Context, _, _ string) (net.Conn, error) {
				var d net.Dialer
				return d.DialContext(ctx, "udp", fallbackDNS)
			},
		}
	}
	return r
}

func (r *ipv4Resolver) lookup(ctx context.Context, host string) (string, error) {
	if ip := net.ParseIP(host); ip != nil {
		if ip.To4() == nil {
			return "", errNoIPv4
		}
		return host, nil
	}
	ip, err := firstIPv4(ctx, r.system, host)
	if err == nil || r.fallback == nil {
		return ip, err
	}
	return firstIPv4(ctx, r.fallback, host)
}

func firstIPv4(ctx context.Context, res *net.Resolver, host string) (string, error) {
	ips, err := res.LookupIP(ctx, "ip4", host)
	if err != nil {
		return "", err
	}
	for _, ip := range ips {
		if v4 := ip.To4(); v4 != nil {
			return v4.String(), nil
		}
	}
	return "", errNoIPv4
}

// dial conecta por tcp4 si el host tiene IPv4; si no, deja que pgx use la red pedida.
func (r *ipv4Resolver) dial(ctx context.Context, network, addr string) (net.Conn, error) {
	var d net.Dialer
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return nil, err
	}
	ip, err := r.lookup(ctx, host)
	if err != nil {
		return d.DialContext(ctx, network, addr)
	}
	return d.DialContext(ctx, "tcp4", net.JoinHostPort(ip, port))
}

// rewriteURL cambia el host de una URL postgres:// por su IPv4. Ante cualquier fallo la devuelve intacta.
func (r *ipv4Resolver) rewriteURL(ctx context.Context, raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Hostname() == "" {
		return raw
	}
	ip, err := r.lookup(ctx, u.Hostname())
	if err != nil {
		return raw
	}
	port := u.Port()
	if port == "" {
		port = "5432"
	}
	u.Host = net.JoinHostPort(ip, port)
	return u.String()
}
