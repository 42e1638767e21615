package reddit

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/NagyLevin/Redditscrape/internal/config"
	"github.com/NagyLevin/Redditscrape/internal/logger"
)

// ErrAuthFailed is returned when no grant produces a working session.
var ErrAuthFailed = errors.New("authentication failed with every grant")

// userAgentTransport stamps every request, token exchanges included, with
// the configured user agent. Reddit throttles unidentified clients hard.
type userAgentTransport struct {
	base  http.RoundTripper
	agent string
}

func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	clone := req.Clone(req.Context())
	clone.Header.Set("User-Agent", t.agent)

	return t.base.RoundTrip(clone)
}

// NewSession authenticates against Reddit and returns a verified session.
// It tries the app-only client-credentials grant first and falls back to
// the password grant; each candidate session must pass a smoke-test read
// before it is accepted.
func NewSession(ctx context.Context, creds *config.Credentials, retry *config.RetryPolicy, log *logger.Logger) (*Session, error) {
	base := &http.Client{
		Transport: &userAgentTransport{
			base:  http.DefaultTransport,
			agent: creds.UserAgent,
		},
	}
	authCtx := context.WithValue(ctx, oauth2.HTTPClient, base)

	var appErr, userErr error

	if creds.HasAppAuth() {
		cc := &clientcredentials.Config{
			ClientID:     creds.ClientID,
			ClientSecret: creds.ClientSecret,
			TokenURL:     tokenURL,
			AuthStyle:    oauth2.AuthStyleInHeader,
		}

		sess := newAuthedSession(oauth2.NewClient(authCtx, cc.TokenSource(authCtx)), creds.UserAgent, retry, log)

		if appErr = sess.SmokeTest(ctx); appErr == nil {
			log.Info("authenticated", "grant", "client_credentials")

			return sess, nil
		}

		log.Warn("app-only auth failed", "error", appErr)
	}

	if creds.HasUserAuth() {
		conf := &oauth2.Config{
			ClientID:     creds.ClientID,
			ClientSecret: creds.ClientSecret,
			Endpoint: oauth2.Endpoint{
				TokenURL:  tokenURL,
				AuthStyle: oauth2.AuthStyleInHeader,
			},
		}

		token, err := conf.PasswordCredentialsToken(authCtx, creds.Username, creds.Password)
		if err != nil {
			userErr = fmt.Errorf("password grant token exchange: %w", err)
		} else {
			sess := newAuthedSession(oauth2.NewClient(authCtx, conf.TokenSource(authCtx, token)), creds.UserAgent, retry, log)

			if userErr = sess.SmokeTest(ctx); userErr == nil {
				log.Info("authenticated", "grant", "password")

				return sess, nil
			}
		}

		log.Warn("password auth failed", "error", userErr)
	}

	log.Error("authentication exhausted",
		"client_id_set", creds.ClientID != "",
		"client_secret_set", creds.ClientSecret != "",
		"username_set", creds.Username != "",
		"password_set", creds.Password != "")

	return nil, fmt.Errorf("%w: check that the app is a script type, the secret is current, "+
		".env has no stray whitespace, an app password is used when 2FA is enabled, "+
		"and the user agent is unique", ErrAuthFailed)
}

// newAuthedSession finishes client setup shared by both grants.
func newAuthedSession(client *http.Client, userAgent string, retry *config.RetryPolicy, log *logger.Logger) *Session {
	client.Timeout = retry.GetTimeout()

	// Surface redirects to the caller; a subreddit lookup that bounces to
	// search means the subreddit does not exist.
	client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		return http.ErrUseLastResponse
	}

	return NewSessionWithClient(client, userAgent, "", retry, log)
}
