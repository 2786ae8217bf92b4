package jquants

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// tokenSafetyMargin is subtracted from the bearer token's true expiry so
// a renewal is issued well before the provider starts rejecting it.
const tokenSafetyMargin = time.Hour

// defaultTokenLifetime is assumed when the bearer carries no readable
// expiry claim.
const defaultTokenLifetime = 24 * time.Hour

// ErrNoRefreshToken means the client was built without the long-lived
// refresh secret; the provider is permanently unavailable until one is
// configured.
var ErrNoRefreshToken = errors.New("jquants refresh token not configured")

type authRefreshResponse struct {
	IDToken string `json:"idToken"`
}

// Token returns a valid bearer token, performing the refresh exchange
// when none is cached or the cached one is inside the safety margin.
// Concurrent callers share a single in-flight exchange.
func (c *Client) Token(ctx context.Context) (string, error) {
	c.mu.RLock()
	token, expiry := c.token, c.tokenExpiry
	c.mu.RUnlock()

	if token != "" && c.now().Before(expiry) {
		return token, nil
	}

	v, err, _ := c.refreshGroup.Do("token", func() (interface{}, error) {
		// A concurrent caller may have refreshed while we queued
		c.mu.RLock()
		token, expiry := c.token, c.tokenExpiry
		c.mu.RUnlock()
		if token != "" && c.now().Before(expiry) {
			return token, nil
		}
		return c.exchangeToken(ctx)
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// exchangeToken trades the long-lived refresh secret for a bearer token
func (c *Client) exchangeToken(ctx context.Context) (string, error) {
	if c.refreshToken == "" {
		return "", ErrNoRefreshToken
	}

	start := time.Now()
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("refreshtoken", c.refreshToken).
		SetResult(&authRefreshResponse{}).
		Post(c.baseURL + "/token/auth_refresh")
	elapsed := time.Since(start)
	if err != nil {
		c.logger.Warn().Err(err).Dur("elapsed", elapsed).Msg("jquants token exchange failed")
		return "", fmt.Errorf("token exchange: %w", err)
	}
	if resp.IsError() {
		c.logger.Warn().Int("status", resp.StatusCode()).Dur("elapsed", elapsed).Msg("jquants token exchange rejected")
		return "", &APIError{StatusCode: resp.StatusCode(), Message: string(resp.Body()), Endpoint: "/token/auth_refresh"}
	}

	auth, ok := resp.Result().(*authRefreshResponse)
	if !ok || auth.IDToken == "" {
		return "", fmt.Errorf("token exchange: empty idToken in response")
	}

	expiry := c.bearerExpiry(auth.IDToken)

	c.mu.Lock()
	c.token = auth.IDToken
	c.tokenExpiry = expiry
	c.mu.Unlock()

	c.logger.Info().Time("expiry", expiry).Dur("elapsed", elapsed).Msg("jquants bearer token refreshed")
	return auth.IDToken, nil
}

// bearerExpiry derives the renewal deadline for a bearer token. The
// provider issues JWTs, so the exp claim is authoritative when readable;
// the stated lifetime is used otherwise. The safety margin applies in
// both cases.
func (c *Client) bearerExpiry(token string) time.Time {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err == nil {
		if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
			return exp.Time.Add(-tokenSafetyMargin)
		}
	}
	return c.now().Add(defaultTokenLifetime - tokenSafetyMargin)
}
