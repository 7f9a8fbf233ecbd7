package ctxkeys

import (
	"context"

	"github.com/templui/ahorros/internal/config"
	"github.com/templui/ahorros/internal/model"
)

// contextKey is a type for context keys to avoid collisions
type contextKey string

const (
	PrincipalKey contextKey = "principal"
	ConfigKey    contextKey = "config"
)

// Principal returns the signed-in principal, or the zero value.
func Principal(ctx context.Context) model.Principal {
	p, _ := ctx.Value(PrincipalKey).(model.Principal)
	return p
}

func WithPrincipal(ctx context.Context, p model.Principal) context.Context {
	return context.WithValue(ctx, PrincipalKey, p)
}

func Config(ctx context.Context) *config.Config {
	cfg, _ := ctx.Value(ConfigKey).(*config.Config)
	return cfg
}

func WithConfig(ctx context.Context, cfg *config.Config) context.Context {
	return context.WithValue(ctx, ConfigKey, cfg)
}
