package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ChannelSeed describes one persistent chat channel created at boot.
type ChannelSeed struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	PublicRead  bool   `yaml:"public_read"`
	PublicWrite bool   `yaml:"public_write"`
	AutoJoin    bool   `yaml:"auto_join"`
	Hidden      bool   `yaml:"hidden"`
}

// DefaultChannelSeeds returns the stock channel set.
func DefaultChannelSeeds() []ChannelSeed {
	return []ChannelSeed{
		{
			Name:        "#osu",
			Description: "General discussion.",
			PublicRead:  true,
			PublicWrite: true,
			AutoJoin:    true,
		},
		{
			Name:        "#announce",
			Description: "Announcements from the staff team.",
			PublicRead:  true,
			AutoJoin:    true,
		},
		{
			Name:        "#lobby",
			Description: "Find a multiplayer match.",
			PublicRead:  true,
			PublicWrite: true,
		},
	}
}

// LoadChannelSeeds loads channel seeds from a YAML file.
// If the file doesn't exist, returns defaults.
func LoadChannelSeeds(path string) ([]ChannelSeed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultChannelSeeds(), nil
		}
		return nil, fmt.Errorf("reading channel seeds %s: %w", path, err)
	}

	var seeds []ChannelSeed
	if err := yaml.Unmarshal(data, &seeds); err != nil {
		return nil, fmt.Errorf("parsing channel seeds %s: %w", path, err)
	}

	return seeds, nil
}
