// Package oui resolves MAC address prefixes against the IEEE OUI
// registry, answering "who made this network adapter".
package oui

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const (
	csvURL      = "https://standards-oui.ieee.org/oui/oui.csv"
	cacheMaxAge = 10 * 24 * time.Hour
)

// Entry is one OUI registry assignment.
type Entry struct {
	Registry            string
	Assignment          string
	OrganizationName    string
	OrganizationAddress string
}

// Cache maps MAC prefixes (the first 6 hex digits) to registry
// entries. The registry CSV is mirrored to a local file and considered
// fresh for ten days.
type Cache struct {
	path   string
	client *http.Client
	log    zerolog.Logger

	mu      sync.Mutex
	entries map[string]Entry
}

func NewCache(path string, log zerolog.Logger) *Cache {
	return &Cache{
		path:    path,
		client:  &http.Client{Timeout: 30 * time.Second},
		log:     log,
		entries: make(map[string]Entry),
	}
}

// Fetch looks up an adapter's manufacturer. The first call loads the
// registry; unknown prefixes return nil.
func (c *Cache) Fetch(ctx context.Context, address string) (*Entry, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.entries) == 0 {
		if err := c.load(ctx); err != nil {
			return nil, err
		}
	}

	if len(address) < 6 {
		return nil, nil
	}
	if entry, ok := c.entries[strings.ToUpper(address[:6])]; ok {
		return &entry, nil
	}
	return nil, nil
}

func (c *Cache) load(ctx context.Context) error {
	records, err := c.readCacheFile()
	if err != nil {
		records, err = c.download(ctx)
		if err != nil {
			return err
		}
	}

	for _, rec := range records {
		if len(rec) < 3 || rec[0] == "Registry" {
			continue
		}
		entry := Entry{Registry: rec[0], Assignment: rec[1], OrganizationName: rec[2]}
		if len(rec) > 3 {
			entry.OrganizationAddress = rec[3]
		}
		c.entries[entry.Assignment] = entry
	}

	c.log.Info().Int("entries", len(c.entries)).Msg("oui registry loaded")
	return nil
}

func (c *Cache) readCacheFile() ([][]string, error) {
	info, err := os.Stat(c.path)
	if err != nil {
		return nil, err
	}
	if !info.Mode().IsRegular() || time.Since(info.ModTime()) > cacheMaxAge {
		return nil, fmt.Errorf("oui cache file expired")
	}

	f, err := os.Open(c.path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsing oui cache file: %w", err)
	}
	return records, nil
}

func (c *Cache) download(ctx context.Context) ([][]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, csvURL, nil)
	if err != nil {
		return nil, fmt.Errorf("building oui request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("downloading oui registry: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("downloading oui registry: status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading oui registry: %w", err)
	}

	// The cache file holds data rows only.
	if i := bytes.IndexByte(body, '\n'); i >= 0 {
		body = body[i+1:]
	}

	if err := os.WriteFile(c.path, body, 0o644); err != nil {
		c.log.Warn().Err(err).Str("path", c.path).Msg("could not write oui cache file")
	}

	records, err := csv.NewReader(bytes.NewReader(body)).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsing oui registry: %w", err)
	}
	return records, nil
}
