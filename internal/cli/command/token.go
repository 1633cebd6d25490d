package command

import (
	"errors"
	"fmt"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/falcon-speak/internal/cli/output"
	"github.com/yndnr/falcon-speak/internal/core/domain"
	"github.com/yndnr/falcon-speak/pkg/token"
)

// TokenCommand returns the token subcommand group.
func TokenCommand() *cli.Command {
	return &cli.Command{
		Name:  "token",
		Usage: "Manage the cached OAuth2 token",
		Subcommands: []*cli.Command{
			{
				Name:    "generate",
				Aliases: []string{"gen"},
				Usage:   "Request a new token and cache it",
				Action:  withRuntime(runGenerate),
			},
			{
				Name:   "check",
				Usage:  "Probe the cached token, refreshing it when expired",
				Action: withRuntime(runCheck),
			},
			{
				Name:   "show",
				Usage:  "Show the cached token's fingerprint and claims",
				Action: withRuntime(runShow),
			},
			{
				Name:   "clear",
				Usage:  "Delete the cached token",
				Action: withRuntime(runClear),
			},
		},
	}
}

// withRuntime adapts a runtime-only action to a cli.ActionFunc.
func withRuntime(fn func(*runtime) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		rt, err := runtimeFrom(c)
		if err != nil {
			return err
		}
		return fn(rt)
	}
}

func runGenerate(rt *runtime) error {
	tokens, err := rt.tokenService(true)
	if err != nil {
		return err
	}

	tok, err := tokens.Generate(rt.ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(rt.stdout, "token stored (fingerprint %s)\n", token.Fingerprint(tok.Value()))
	return nil
}

func runCheck(rt *runtime) error {
	tokens, err := rt.tokenService(false)
	if err != nil {
		return err
	}

	v, err := tokens.Validate(rt.ctx)
	if err != nil {
		return err
	}
	if v == domain.Valid {
		fmt.Fprintln(rt.stdout, "valid")
		return nil
	}

	fmt.Fprintln(rt.stdout, "expired, requesting new token")
	tok, err := tokens.Generate(rt.ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(rt.stdout, "token refreshed (fingerprint %s)\n", token.Fingerprint(tok.Value()))
	return nil
}

// tokenInfo is what "token show" prints.
type tokenInfo struct {
	Store       string `json:"store" yaml:"store" table:"Store"`
	Token       string `json:"token" yaml:"token" table:"Token"`
	Fingerprint string `json:"fingerprint" yaml:"fingerprint" table:"Fingerprint"`
	Issuer      string `json:"issuer,omitempty" yaml:"issuer,omitempty" table:"Issuer"`
	ClientID    string `json:"client_id,omitempty" yaml:"client_id,omitempty" table:"Client ID"`
	IssuedAt    string `json:"issued_at,omitempty" yaml:"issued_at,omitempty" table:"Issued At"`
	ExpiresAt   string `json:"expires_at,omitempty" yaml:"expires_at,omitempty" table:"Expires At"`
	Expired     string `json:"expired_by_claims,omitempty" yaml:"expired_by_claims,omitempty" table:"Expired (claims)"`
}

func runShow(rt *runtime) error {
	tokens, err := rt.tokenService(false)
	if err != nil {
		return err
	}

	tok, err := tokens.Current(rt.ctx)
	if err != nil {
		return err
	}

	info := tokenInfo{
		Store:       rt.cfg.Token.Store,
		Token:       tok.String(),
		Fingerprint: token.Fingerprint(tok.Value()),
	}

	claims, err := token.ParseClaims(tok.Value())
	switch {
	case err == nil:
		info.Issuer = claims.Issuer
		info.ClientID = claims.ClientID
		info.IssuedAt = formatTime(claims.IssuedAt)
		info.ExpiresAt = formatTime(claims.ExpiresAt)
		if !claims.ExpiresAt.IsZero() {
			info.Expired = fmt.Sprintf("%t", claims.Expired(time.Now()))
		}
	case errors.Is(err, token.ErrNotJWT):
		rt.log.Debug("cached token is opaque, no claims to show")
	default:
		return err
	}

	return output.NewFormatter(rt.format(), rt.cfg.Output.Wide).Format(rt.stdout, info)
}

func runClear(rt *runtime) error {
	tokens, err := rt.tokenService(false)
	if err != nil {
		return err
	}
	if err := tokens.Clear(rt.ctx); err != nil {
		return err
	}
	fmt.Fprintln(rt.stdout, "token cleared")
	return nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
