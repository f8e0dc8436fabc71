package authenticator

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/blogem/vendorflow/config"
)

func TestIssuerURL(t *testing.T) {
	assert.Equal(t, "https://tenant.eu.auth0.com/", IssuerURL("tenant.eu.auth0.com"))
	assert.Equal(t, "https://tenant.eu.auth0.com/", IssuerURL(" tenant.eu.auth0.com/ "))
	assert.Equal(t, "http://127.0.0.1:5556/dex", IssuerURL("http://127.0.0.1:5556/dex"))
}

func TestNewOpenIDProvider_RequiresConfiguration(t *testing.T) {
	complete := config.OIDCOptions{
		Domain:       "example.com",
		ClientID:     "id",
		ClientSecret: "secret",
		CallbackURL:  "http://localhost:8080/callback",
	}

	tests := map[string]func(o *config.OIDCOptions){
		"domain is required":        func(o *config.OIDCOptions) { o.Domain = "" },
		"client ID is required":     func(o *config.OIDCOptions) { o.ClientID = "" },
		"client secret is required": func(o *config.OIDCOptions) { o.ClientSecret = "" },
		"callback URL is required":  func(o *config.OIDCOptions) { o.CallbackURL = "" },
	}
	for want, mutate := range tests {
		opts := complete
		mutate(&opts)

		_, err := NewOpenIDProvider(context.Background(), opts)

		assert.EqualError(t, err, want)
	}
}

func TestGetClaims_NoIDToken(t *testing.T) {
	p := &OpenIDProvider{}

	_, err := p.GetClaims(context.Background(), &Token{AccessToken: "at"})

	assert.EqualError(t, err, "no id_token in token")
}

func TestClaimsString(t *testing.T) {
	c := Claims{"email": " ann@example.com ", "email_verified": true}

	assert.Equal(t, "ann@example.com", c.String("email"))
	assert.Equal(t, "", c.String("email_verified"))
	assert.Equal(t, "", c.String("missing"))
}

func TestClaimsBool(t *testing.T) {
	c := Claims{"a": true, "b": false, "c": "true", "d": " TRUE ", "e": "yes", "f": 1}

	assert.True(t, c.Bool("a"))
	assert.False(t, c.Bool("b"))
	assert.True(t, c.Bool("c"))
	assert.True(t, c.Bool("d"))
	assert.False(t, c.Bool("e"))
	assert.False(t, c.Bool("f"))
	assert.False(t, c.Bool("missing"))
}
