package serverpackets

import (
	"strings"

	"github.com/herbe-rt/bancho/internal/protocol"
)

// WireChannelName maps internal multiplayer and spectator channel
// names onto the pseudo-names the client knows.
func WireChannelName(name string) string {
	switch {
	case strings.HasPrefix(name, "#multi_"):
		return "#multiplayer"
	case strings.HasPrefix(name, "#spec_"):
		return "#spectator"
	default:
		return name
	}
}

// Notification pops a toast on the client.
//
// Payload: String text.
func Notification(text string) []byte {
	w := protocol.Get()
	defer w.Put()

	w.WriteString(text)
	return w.Serialise(protocol.ChoNotification)
}

// MainMenuIcon sets the main menu banner.
//
// Payload: String "image_url|click_url".
func MainMenuIcon(imageURL, clickURL string) []byte {
	w := protocol.Get()
	defer w.Put()

	w.WriteString(imageURL + "|" + clickURL)
	return w.Serialise(protocol.ChoMainMenuIcon)
}

// Restart tells the client to reconnect after the given delay.
//
// Payload: i32 milliseconds.
func Restart(ms int32) []byte {
	w := protocol.Get()
	defer w.Put()

	w.WriteI32(ms)
	return w.Serialise(protocol.ChoRestart)
}

// VersionUpdateForced makes the client run the updater before it may
// log in again.
func VersionUpdateForced() []byte {
	w := protocol.Get()
	defer w.Put()
	return w.Serialise(protocol.ChoVersionUpdateForced)
}
