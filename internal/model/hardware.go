package model

import (
	"fmt"
	"strings"
)

// WineAdapters is the adapters placeholder sent by clients running
// under wine, which cannot enumerate network hardware.
const WineAdapters = "runningunderwine"

// HardwareInfo is the client hardware identity sent in the login blob.
type HardwareInfo struct {
	RunningUnderWine bool     `json:"running_under_wine"`
	OsuMD5           string   `json:"osu_md5"`
	Adapters         []string `json:"adapters"`
	AdaptersMD5      string   `json:"adapters_md5"`
	UninstallMD5     string   `json:"uninstall_md5"`
	DiskMD5          string   `json:"disk_md5"`
}

// ParseAdapters splits the dot-separated MAC address list from the
// client hash blob. An empty list is only valid under wine.
func ParseAdapters(s string) ([]string, bool, error) {
	if s == WineAdapters {
		return nil, true, nil
	}

	var adapters []string
	for _, a := range strings.Split(strings.TrimSuffix(s, "."), ".") {
		if a != "" {
			adapters = append(adapters, a)
		}
	}
	if len(adapters) == 0 {
		return nil, false, fmt.Errorf("parse adapters %q: empty", s)
	}
	return adapters, false, nil
}
