package bancho

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/herbe-rt/bancho/internal/bancho/serverpackets"
	"github.com/herbe-rt/bancho/internal/geoloc"
	"github.com/herbe-rt/bancho/internal/metrics"
	"github.com/herbe-rt/bancho/internal/store"
)

// Server is the HTTP face of the protocol. osu! clients POST packet
// streams against /; the response body is the session's drained queue.
type Server struct {
	echo     *echo.Echo
	router   *Router
	resolver *geoloc.Resolver
	sessions *store.Sessions
	metrics  *metrics.Metrics
	log      zerolog.Logger
}

func NewServer(router *Router, resolver *geoloc.Resolver, sessions *store.Sessions, m *metrics.Metrics, log zerolog.Logger) *Server {
	s := &Server{
		router:   router,
		resolver: resolver,
		sessions: sessions,
		metrics:  m,
		log:      log,
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.GET("/", s.handleIndex)
	e.POST("/", s.handleBancho)
	e.GET("/metrics", echo.WrapHandler(m.Handler()))

	s.echo = e
	return s
}

func (s *Server) handleIndex(c echo.Context) error {
	return c.String(http.StatusOK, "herbe.rt")
}

func (s *Server) handleBancho(c echo.Context) error {
	started := time.Now()
	defer func() {
		s.metrics.Requests.Observe(time.Since(started).Seconds())
	}()

	req := c.Request()
	if req.Header.Get("User-Agent") != "osu!" {
		return c.NoContent(http.StatusBadRequest)
	}

	body, err := io.ReadAll(req.Body)
	if err != nil {
		return err
	}

	ctx := req.Context()

	token := req.Header.Get("osu-token")
	if token == "" {
		resp, err := s.router.Login(ctx, body, s.resolver.FromHeaders(req.Header))
		if err != nil {
			return err
		}
		c.Response().Header().Set("cho-token", resp.Token)
		return c.Blob(http.StatusOK, echo.MIMEOctetStream, resp.Body)
	}

	session, err := s.sessions.FetchByToken(ctx, token)
	if errors.Is(err, store.ErrNotFound) {
		// Stale token, likely a server restart. Tell the client to
		// reconnect and log in again.
		return c.Blob(http.StatusOK, echo.MIMEOctetStream, serverpackets.Restart(0))
	}
	if err != nil {
		return err
	}

	out, err := s.router.HandleRequest(ctx, session, body)
	if err != nil {
		return err
	}
	return c.Blob(http.StatusOK, echo.MIMEOctetStream, out)
}

// Handler exposes the HTTP mux for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.echo
}

func (s *Server) Start(addr string) error {
	s.log.Info().Str("addr", addr).Msg("bancho listening")
	return s.echo.Start(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
