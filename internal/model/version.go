package model

import (
	"fmt"
	"regexp"
	"time"
)

// Release streams an osu! client can identify as.
const (
	StreamStable      = "stable"
	StreamBeta        = "beta"
	StreamCuttingEdge = "cuttingedge"
	StreamDev         = "dev"
	StreamTourney     = "tourney"
)

var versionRe = regexp.MustCompile(`^b(\d{8})(?:\.(\d))?(beta|cuttingedge|dev|tourney)?$`)

// OsuVersion is a parsed client version string such as
// "b20220203.2cuttingedge".
type OsuVersion struct {
	Date     time.Time `json:"date"`
	Revision int       `json:"revision"`
	Stream   string    `json:"stream"`
}

// ParseOsuVersion parses the version component of the login blob.
func ParseOsuVersion(s string) (OsuVersion, error) {
	m := versionRe.FindStringSubmatch(s)
	if m == nil {
		return OsuVersion{}, fmt.Errorf("parse osu version %q: no match", s)
	}

	date, err := time.Parse("20060102", m[1])
	if err != nil {
		return OsuVersion{}, fmt.Errorf("parse osu version date %q: %w", m[1], err)
	}

	v := OsuVersion{Date: date, Stream: StreamStable}
	if m[2] != "" {
		// Single digit by construction.
		v.Revision = int(m[2][0] - '0')
	}
	if m[3] != "" {
		v.Stream = m[3]
	}
	return v, nil
}

func (v OsuVersion) String() string {
	s := fmt.Sprintf("b%s", v.Date.Format("20060102"))
	if v.Revision > 0 {
		s += fmt.Sprintf(".%d", v.Revision)
	}
	if v.Stream != StreamStable {
		s += v.Stream
	}
	return s
}
