// banchodump decodes a captured bancho packet stream.
//
// Usage:
//
//	go run ./cmd/banchodump capture.bin
//	xxd -r -p capture.hex | go run ./cmd/banchodump -
//
// The input is the raw body of one HTTP exchange: a sequence of 7-byte
// headers, each followed by its payload. Both directions share the
// framing, so client and server captures dump the same way.
package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/herbe-rt/bancho/internal/protocol"
)

var verbose = flag.Bool("v", false, "hex dump every payload")

func main() {
	flag.Parse()
	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: banchodump [-v] <file|->")
		os.Exit(2)
	}

	var in io.Reader = os.Stdin
	if name := flag.Arg(0); name != "-" {
		f, err := os.Open(name)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		defer f.Close()
		in = f
	}

	data, err := io.ReadAll(in)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if err := dump(os.Stdout, data); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func dump(w io.Writer, data []byte) error {
	offset := 0
	frames := 0
	for len(data) > 0 {
		if len(data) < protocol.HeaderSize {
			return fmt.Errorf("offset %d: truncated header, %d bytes left", offset, len(data))
		}
		id, length := protocol.ParseHeader(data)
		if len(data) < protocol.HeaderSize+length {
			return fmt.Errorf("offset %d: %v wants %d payload bytes, only %d left",
				offset, id, length, len(data)-protocol.HeaderSize)
		}
		payload := data[protocol.HeaderSize : protocol.HeaderSize+length]

		fmt.Fprintf(w, "#%03d @%06d %-32v %5d", frames, offset, id, length)
		if summary := summarise(id, payload); summary != "" {
			fmt.Fprintf(w, "  %s", summary)
		}
		fmt.Fprintln(w)

		if *verbose && length > 0 {
			fmt.Fprint(w, hex.Dump(payload))
		}

		data = data[protocol.HeaderSize+length:]
		offset += protocol.HeaderSize + length
		frames++
	}

	fmt.Fprintf(w, "%d packets, %d bytes\n", frames, offset)
	return nil
}

// summarise renders the payloads people actually read while debugging.
// Anything unknown or malformed falls back to the bare header line.
func summarise(id protocol.PacketID, payload []byte) string {
	r := protocol.NewReader(payload)

	switch id {
	case protocol.OsuSendPublicMessage, protocol.OsuSendPrivateMessage, protocol.ChoSendMessage:
		msg, err := protocol.ReadMessage(r)
		if err != nil {
			return ""
		}
		return fmt.Sprintf("%s -> %s: %q", msg.SenderName, msg.Target, msg.Content)

	case protocol.ChoUserID:
		v, err := r.ReadI32()
		if err != nil {
			return ""
		}
		return fmt.Sprintf("user %d", v)

	case protocol.ChoNotification, protocol.OsuChannelJoin, protocol.OsuChannelPart,
		protocol.ChoChannelJoinSuccess, protocol.ChoChannelKick:
		s, err := r.ReadString()
		if err != nil {
			return ""
		}
		return fmt.Sprintf("%q", s)

	case protocol.ChoChannelInfo, protocol.ChoChannelAutoJoin:
		c, err := protocol.ReadOsuChannel(r)
		if err != nil {
			return ""
		}
		return fmt.Sprintf("%s (%d online): %s", c.Name, c.PlayerCount, c.Topic)

	case protocol.ChoNewMatch, protocol.ChoUpdateMatch, protocol.ChoMatchJoinSuccess:
		m, err := protocol.ReadOsuMatch(r)
		if err != nil {
			return ""
		}
		return fmt.Sprintf("match %d %q map %q", m.ID, m.Name, m.MapName)

	case protocol.ChoUserStats, protocol.ChoUserPresence, protocol.ChoUserLogout,
		protocol.ChoSpectatorJoined, protocol.ChoSpectatorLeft,
		protocol.ChoFellowSpectatorJoined, protocol.ChoFellowSpectatorLeft:
		v, err := r.ReadI32()
		if err != nil {
			return ""
		}
		return fmt.Sprintf("user %d", v)
	}

	return ""
}
