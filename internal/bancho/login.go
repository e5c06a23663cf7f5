package bancho

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/herbe-rt/bancho/internal/bancho/serverpackets"
	"github.com/herbe-rt/bancho/internal/model"
	"github.com/herbe-rt/bancho/internal/store"
)

const protocolVersion = 19

// Clients older than this are told to update before they may log in.
const maxClientAge = 90 * 24 * time.Hour

// loginData is the parsed plaintext body of a tokenless request:
// username\npassword_md5\nversion|utc_offset|display_city|hashes|pm_private
// where hashes is five colon-separated fields with one trailing colon.
type loginData struct {
	username     string
	passwordMD5  string
	osuVersion   string
	utcOffset    int32
	displayCity  bool
	pmPrivate    bool
	osuPathMD5   string
	adaptersStr  string
	adaptersMD5  string
	uninstallMD5 string
	diskMD5      string
}

func parseLoginData(body []byte) (loginData, error) {
	lines := strings.SplitN(string(body), "\n", 3)
	if len(lines) != 3 {
		return loginData{}, fmt.Errorf("expected 3 login lines, got %d", len(lines))
	}

	fields := strings.SplitN(lines[2], "|", 5)
	if len(fields) != 5 {
		return loginData{}, fmt.Errorf("expected 5 client fields, got %d", len(fields))
	}

	utcOffset, err := strconv.Atoi(fields[1])
	if err != nil {
		return loginData{}, fmt.Errorf("utc offset: %w", err)
	}

	hashes := fields[3]
	if hashes == "" {
		return loginData{}, errors.New("empty client hashes")
	}
	parts := strings.SplitN(hashes[:len(hashes)-1], ":", 5)
	if len(parts) != 5 {
		return loginData{}, fmt.Errorf("expected 5 client hashes, got %d", len(parts))
	}

	return loginData{
		username:     lines[0],
		passwordMD5:  lines[1],
		osuVersion:   fields[0],
		utcOffset:    int32(utcOffset),
		displayCity:  fields[2] == "1",
		pmPrivate:    fields[4] == "1",
		osuPathMD5:   parts[0],
		adaptersStr:  parts[1],
		adaptersMD5:  parts[2],
		uninstallMD5: parts[3],
		diskMD5:      parts[4],
	}, nil
}

// LoginResponse is the welcome stream plus the token for the
// cho-token response header. Token is "no" on every failure so the
// client knows not to retry with it.
type LoginResponse struct {
	Body  []byte
	Token string
}

func loginFailure(code int32) *LoginResponse {
	return &LoginResponse{Body: serverpackets.UserID(code), Token: "no"}
}

// Login authenticates a tokenless request body and, on success,
// constructs the session and its welcome stream.
func (r *Router) Login(ctx context.Context, body []byte, geolocation model.Geolocation) (*LoginResponse, error) {
	started := time.Now()

	data, err := parseLoginData(body)
	if err != nil {
		r.log.Warn().Err(err).Msg("malformed login request")
		r.metrics.Logins.WithLabelValues("malformed").Inc()
		return loginFailure(serverpackets.LoginInvalidParams), nil
	}

	version, err := model.ParseOsuVersion(data.osuVersion)
	if err != nil {
		r.log.Warn().Err(err).Str("username", data.username).Msg("unparseable client version")
		r.metrics.Logins.WithLabelValues("malformed").Inc()
		return loginFailure(serverpackets.LoginInvalidParams), nil
	}
	if time.Since(version.Date) > maxClientAge {
		r.metrics.Logins.WithLabelValues("old_client").Inc()
		return &LoginResponse{
			Body: append(
				serverpackets.VersionUpdateForced(),
				serverpackets.UserID(serverpackets.LoginOldClient)...,
			),
			Token: "no",
		}, nil
	}

	adapters, wine, err := model.ParseAdapters(data.adaptersStr)
	if err != nil {
		r.log.Warn().Err(err).Str("username", data.username).Msg("bad adapter list")
		r.metrics.Logins.WithLabelValues("malformed").Inc()
		return loginFailure(serverpackets.LoginInvalidParams), nil
	}

	account, err := r.accounts.FetchByName(ctx, data.username)
	if err != nil {
		return nil, fmt.Errorf("fetching account %q: %w", data.username, err)
	}
	if account == nil {
		r.metrics.Logins.WithLabelValues("unknown_account").Inc()
		return loginFailure(serverpackets.LoginFailed), nil
	}

	ok, err := r.verifier.Verify(ctx, []byte(data.passwordMD5), account.PasswordBcrypt)
	if err != nil {
		return nil, fmt.Errorf("verifying password for %q: %w", data.username, err)
	}
	if !ok {
		r.metrics.Logins.WithLabelValues("wrong_password").Inc()
		return loginFailure(serverpackets.LoginFailed), nil
	}

	if _, err := r.sessions.FetchByID(ctx, account.ID); err == nil {
		r.metrics.Logins.WithLabelValues("duplicate").Inc()
		return &LoginResponse{
			Body: append(
				serverpackets.UserID(serverpackets.LoginFailed),
				serverpackets.Notification("You are already logged in!")...,
			),
			Token: "no",
		}, nil
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("checking for existing session %d: %w", account.ID, err)
	}

	if !wine {
		for _, adapter := range adapters {
			entry, err := r.oui.Fetch(ctx, adapter)
			if err != nil {
				r.log.Warn().Err(err).Str("adapter", adapter).Msg("oui lookup failed")
				continue
			}
			if entry == nil {
				r.log.Warn().Str("adapter", adapter).Str("username", data.username).
					Msg("adapter vendor not in oui registry")
			}
		}
	}

	var freezeNotice string
	if account.Frozen() {
		deadline := time.Unix(account.FreezeEnd, 0)
		if until := time.Until(deadline); until > 0 {
			freezeNotice = strings.ReplaceAll(
				r.frozenMessage, "{time_until_restriction}", humanDuration(until),
			)
		} else {
			account.Privileges &^= model.PrivUserPublic
			if err := r.accounts.UpdatePrivileges(ctx, account.ID, account.Privileges); err != nil {
				return nil, fmt.Errorf("restricting frozen user %d: %w", account.ID, err)
			}
			if err := r.accounts.ClearFreeze(ctx, account.ID); err != nil {
				return nil, err
			}
			r.log.Info().Int32("user", account.ID).Msg("freeze deadline passed, account restricted")
		}
	}

	session, err := r.sessions.Create(
		ctx, account, geolocation, data.utcOffset, data.pmPrivate, version,
		model.HardwareInfo{
			RunningUnderWine: wine,
			OsuMD5:           data.osuPathMD5,
			Adapters:         adapters,
			AdaptersMD5:      data.adaptersMD5,
			UninstallMD5:     data.uninstallMD5,
			DiskMD5:          data.diskMD5,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("creating session for %q: %w", data.username, err)
	}

	welcome := serverpackets.ProtocolVersion(protocolVersion)
	welcome = append(welcome, serverpackets.UserID(session.ID)...)
	welcome = append(welcome, serverpackets.BanchoPrivileges(session.BanchoPrivileges())...)

	channels, err := r.channels.FetchAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing channels: %w", err)
	}
	for _, channel := range channels {
		if channel.Hidden || !channel.CanRead(session.Privileges) {
			continue
		}
		welcome = append(welcome, serverpackets.ChannelInfo(channel)...)

		if channel.AutoJoin && !channel.Temp && channel.Name != "#lobby" {
			if _, err := r.joinChannel(ctx, session, channel); err != nil {
				return nil, err
			}
		}
	}
	welcome = append(welcome, serverpackets.ChannelInfoEnd()...)

	icon, err := r.icons.FetchRandom(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching menu icon: %w", err)
	}
	if icon != nil {
		welcome = append(welcome, serverpackets.MainMenuIcon(icon.ImageURL, icon.ClickURL)...)
	}

	welcome = append(welcome, serverpackets.FriendsList(session.Friends)...)
	welcome = append(welcome, serverpackets.SilenceEnd(session.SilenceExpire())...)

	stats, err := r.stats.Fetch(ctx, session.ID, session.Status.Mode)
	if err != nil {
		return nil, fmt.Errorf("fetching stats for %d: %w", session.ID, err)
	}
	ownData := append(
		serverpackets.UserPresence(session, stats.Rank),
		serverpackets.UserStats(session, stats)...,
	)
	welcome = append(welcome, ownData...)

	others, err := r.sessions.FetchAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing sessions: %w", err)
	}
	for _, other := range others {
		if other.ID == session.ID {
			continue
		}
		if !session.Restricted() {
			if err := r.sessions.Enqueue(ctx, other.ID, ownData); err != nil {
				return nil, err
			}
		}

		otherStats, err := r.stats.Fetch(ctx, other.ID, other.Status.Mode)
		if err != nil {
			return nil, fmt.Errorf("fetching stats for %d: %w", other.ID, err)
		}
		welcome = append(welcome, serverpackets.UserPresence(other, otherStats.Rank)...)
		welcome = append(welcome, serverpackets.UserStats(other, otherStats)...)
	}

	if session.Restricted() {
		welcome = append(welcome, serverpackets.AccountRestricted()...)
		welcome = append(welcome, serverpackets.Notification(r.restrictionMessage)...)
	}
	if freezeNotice != "" {
		welcome = append(welcome, serverpackets.Notification(freezeNotice)...)
	}

	if session.Privileges&model.PrivUserPendingVerification != 0 {
		session.Privileges &^= model.PrivUserPendingVerification
		if err := r.accounts.UpdatePrivileges(ctx, session.ID, session.Privileges); err != nil {
			return nil, fmt.Errorf("clearing pending verification for %d: %w", session.ID, err)
		}
	}

	if err := r.sessions.AddToSessionList(ctx, session); err != nil {
		return nil, err
	}

	welcome = append(welcome, serverpackets.Notification(fmt.Sprintf(
		"Welcome to herbe.rt!\n\nTime elapsed: %dms",
		time.Since(started).Milliseconds(),
	))...)

	r.metrics.Logins.WithLabelValues("ok").Inc()
	r.metrics.Online.Inc()
	r.log.Info().
		Int32("user", session.ID).
		Str("username", session.Name).
		Str("version", session.ClientVersion.String()).
		Str("country", session.Geolocation.Country.Acronym).
		Msg("user logged in")

	return &LoginResponse{Body: welcome, Token: session.Token}, nil
}

// humanDuration renders a duration as its largest whole unit for
// user-facing notifications.
func humanDuration(d time.Duration) string {
	var n int
	var unit string
	switch {
	case d >= 24*time.Hour:
		n, unit = int(d.Hours())/24, "day"
	case d >= time.Hour:
		n, unit = int(d.Hours()), "hour"
	case d >= time.Minute:
		n, unit = int(d.Minutes()), "minute"
	default:
		n, unit = int(d.Seconds()), "second"
	}
	if n != 1 {
		unit += "s"
	}
	return fmt.Sprintf("%d %s", n, unit)
}
