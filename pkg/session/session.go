// Package session supplies the authentication cookie attached to every fetch.
// Login is a single opaque form POST; no challenge or two-step flow is handled.
package session

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"

	"github.com/Sriram-PR/linkedin-scraper/pkg/config"
	"github.com/Sriram-PR/linkedin-scraper/pkg/utils"

	"github.com/sirupsen/logrus"
	"golang.org/x/net/publicsuffix"
)

// CookieName is the site's session cookie
const CookieName = "li_at"

// Static wraps a pre-obtained session token as the session cookie
func Static(token string) *http.Cookie {
	return &http.Cookie{Name: CookieName, Value: strings.TrimSpace(token)}
}

// FormLogin posts credentials to loginURL and returns the session cookie the site sets.
// client is not modified; the login runs on a copy carrying its own cookie jar.
func FormLogin(ctx context.Context, client *http.Client, loginURL, email, password string) (*http.Cookie, error) {
	u, err := url.Parse(loginURL)
	if err != nil || u.Host == "" {
		return nil, utils.WrapErrorf(utils.ErrSessionUnavailable, "invalid login url %q", loginURL)
	}

	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("%w: cookie jar: %w", utils.ErrSessionUnavailable, err)
	}
	loginClient := *client
	loginClient.Jar = jar

	form := url.Values{}
	form.Set("session_key", email)
	form.Set("session_password", password)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", utils.ErrRequestCreation, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := loginClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: login request: %w", utils.ErrSessionUnavailable, err)
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, utils.WrapErrorf(utils.ErrSessionUnavailable, "login returned status %d", resp.StatusCode)
	}

	for _, c := range jar.Cookies(u) {
		if c.Name == CookieName && c.Value != "" {
			return &http.Cookie{Name: c.Name, Value: c.Value}, nil
		}
	}
	return nil, utils.WrapErrorf(utils.ErrSessionUnavailable, "login response did not set %s", CookieName)
}

// Resolve picks the session source from cfg: a token wins over credentials.
// It returns nil with no error when neither is configured.
func Resolve(ctx context.Context, client *http.Client, cfg config.SessionConfig, log *logrus.Entry) (*http.Cookie, error) {
	switch {
	case cfg.Token != "":
		log.Debug("Using configured session token")
		return Static(cfg.Token), nil
	case cfg.Email != "":
		log.WithField("login_url", cfg.LoginURL).Info("Logging in with configured credentials")
		cookie, err := FormLogin(ctx, client, cfg.LoginURL, cfg.Email, cfg.Password)
		if err != nil {
			return nil, err
		}
		log.Info("Login succeeded, session cookie captured")
		return cookie, nil
	}
	log.Warn("No session configured; requests run as a guest")
	return nil, nil
}
