// Package geoloc resolves client locations from request headers and
// the MaxMind city database.
package geoloc

import (
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"

	"github.com/oschwald/geoip2-golang"
	"github.com/rs/zerolog"

	"github.com/herbe-rt/bancho/internal/model"
)

// Resolver turns request headers into a Geolocation. Lookups are
// cached per IP; a missing database degrades every lookup to the
// unknown country.
type Resolver struct {
	db  *geoip2.Reader
	log zerolog.Logger

	mu    sync.Mutex
	cache map[string]model.Geolocation
}

// NewResolver opens the MaxMind database at path. An empty path is
// allowed for setups that run without one.
func NewResolver(path string, log zerolog.Logger) (*Resolver, error) {
	r := &Resolver{log: log, cache: make(map[string]model.Geolocation)}
	if path == "" {
		log.Warn().Msg("no geolocation database configured, countries will be unknown")
		return r, nil
	}

	db, err := geoip2.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening geolocation database: %w", err)
	}
	r.db = db
	return r, nil
}

func (r *Resolver) Close() error {
	if r.db == nil {
		return nil
	}
	return r.db.Close()
}

// ClientIP extracts the originating address: CF-Connecting-IP when
// behind cloudflare, the first X-Forwarded-For hop when the chain has
// several, X-Real-IP otherwise.
func ClientIP(header http.Header) string {
	if ip := header.Get("CF-Connecting-IP"); ip != "" {
		return ip
	}
	if forwards := strings.Split(header.Get("X-Forwarded-For"), ","); len(forwards) > 1 {
		return strings.TrimSpace(forwards[0])
	}
	return header.Get("X-Real-IP")
}

// FromHeaders resolves the request's origin.
func (r *Resolver) FromHeaders(header http.Header) model.Geolocation {
	ip := ClientIP(header)

	r.mu.Lock()
	cached, ok := r.cache[ip]
	r.mu.Unlock()
	if ok {
		return cached
	}

	geo := r.lookup(ip)

	r.mu.Lock()
	r.cache[ip] = geo
	r.mu.Unlock()
	return geo
}

func (r *Resolver) lookup(ip string) model.Geolocation {
	geo := model.Geolocation{IP: ip, Country: CountryFromISO("")}

	parsed := net.ParseIP(ip)
	if parsed == nil || isLocal(parsed) || r.db == nil {
		return geo
	}

	city, err := r.db.City(parsed)
	if err != nil {
		r.log.Warn().Err(err).Str("ip", ip).Msg("geolocation lookup failed")
		return geo
	}

	geo.Longitude = float32(city.Location.Longitude)
	geo.Latitude = float32(city.Location.Latitude)
	geo.Country = CountryFromISO(city.Country.IsoCode)
	return geo
}

func isLocal(ip net.IP) bool {
	return ip.IsLoopback() || ip.IsPrivate() || ip.IsLinkLocalUnicast()
}
