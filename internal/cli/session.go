package cli

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/PabloGalante/compass-agent/internal/adapters/httpclient"
	"github.com/PabloGalante/compass-agent/internal/domain"
	"github.com/PabloGalante/compass-agent/internal/observability"
	"github.com/PabloGalante/compass-agent/internal/session"
)

// identity is the key the session resets on. With only a token the key is a
// fingerprint, so the token itself never reaches the logs.
func (a *app) identity() domain.UserID {
	switch {
	case a.flags.User != "":
		return domain.UserID(a.flags.User)
	case a.cfg.Client.Token != "":
		return domain.UserID("token-" + uuid.NewSHA1(uuid.NameSpaceOID, []byte(a.cfg.Client.Token)).String()[:8])
	default:
		return ""
	}
}

// withSession opens a session, restores the saved state, runs fn and pushes
// whatever fn changed before returning.
func (a *app) withSession(ctx context.Context, fn func(*session.Session) error) error {
	log := observability.Logger()

	opts := []httpclient.Option{
		httpclient.WithHTTPClient(&http.Client{Timeout: a.cfg.Client.Timeout}),
	}
	if a.cfg.Client.Token != "" {
		opts = append(opts, httpclient.WithToken(a.cfg.Client.Token))
	}
	if a.flags.User != "" {
		opts = append(opts, httpclient.WithUserHeader(a.flags.User))
	}
	client := httpclient.New(a.cfg.Client.Server, opts...)

	s := session.New(client, client, session.WithDebounce(a.cfg.Client.Debounce))
	defer s.Close()

	if id := a.identity(); id != "" {
		s.SetIdentity(id, client)
		if err := s.Restore(ctx); err != nil {
			log.Warn().Err(err).Msg("could not load saved state, starting fresh")
		}
	} else {
		log.Warn().Msg("no --token or --user given, changes will not be saved")
	}

	if err := fn(s); err != nil {
		return err
	}

	if err := s.Flush(ctx); err != nil {
		log.Warn().Err(err).Msg("could not save state")
	}
	return nil
}
