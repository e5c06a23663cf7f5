package protocol

import "fmt"

// PacketID identifies a bancho packet. Osu-prefixed ids arrive from
// the client, Cho-prefixed ids are sent by the server.
type PacketID uint16

const (
	OsuChangeAction                PacketID = 0
	OsuSendPublicMessage           PacketID = 1
	OsuLogout                      PacketID = 2
	OsuRequestStatusUpdate         PacketID = 3
	OsuPing                        PacketID = 4
	ChoUserID                      PacketID = 5
	ChoSendMessage                 PacketID = 7
	ChoPong                        PacketID = 8
	ChoHandleIRCChangeUsername     PacketID = 9
	ChoHandleIRCQuit               PacketID = 10
	ChoUserStats                   PacketID = 11
	ChoUserLogout                  PacketID = 12
	ChoSpectatorJoined             PacketID = 13
	ChoSpectatorLeft               PacketID = 14
	ChoSpectateFrames              PacketID = 15
	OsuStartSpectating             PacketID = 16
	OsuStopSpectating              PacketID = 17
	OsuSpectateFrames              PacketID = 18
	ChoVersionUpdate               PacketID = 19
	OsuErrorReport                 PacketID = 20
	OsuCantSpectate                PacketID = 21
	ChoSpectatorCantSpectate       PacketID = 22
	ChoGetAttention                PacketID = 23
	ChoNotification                PacketID = 24
	OsuSendPrivateMessage          PacketID = 25
	ChoUpdateMatch                 PacketID = 26
	ChoNewMatch                    PacketID = 27
	ChoDisposeMatch                PacketID = 28
	OsuPartLobby                   PacketID = 29
	OsuJoinLobby                   PacketID = 30
	OsuCreateMatch                 PacketID = 31
	OsuJoinMatch                   PacketID = 32
	OsuPartMatch                   PacketID = 33
	ChoMatchJoinSuccess            PacketID = 36
	ChoMatchJoinFail               PacketID = 37
	OsuMatchChangeSlot             PacketID = 38
	OsuMatchReady                  PacketID = 39
	OsuMatchLock                   PacketID = 40
	OsuMatchChangeSettings         PacketID = 41
	ChoFellowSpectatorJoined       PacketID = 42
	ChoFellowSpectatorLeft         PacketID = 43
	OsuMatchStart                  PacketID = 44
	ChoMatchStart                  PacketID = 46
	OsuMatchScoreUpdate            PacketID = 47
	ChoMatchScoreUpdate            PacketID = 48
	OsuMatchComplete               PacketID = 49
	ChoMatchTransferHost           PacketID = 50
	OsuMatchChangeMods             PacketID = 51
	OsuMatchLoadComplete           PacketID = 52
	ChoMatchAllPlayersLoaded       PacketID = 53
	OsuMatchNoBeatmap              PacketID = 54
	OsuMatchNotReady               PacketID = 55
	OsuMatchFailed                 PacketID = 56
	ChoMatchPlayerFailed           PacketID = 57
	ChoMatchComplete               PacketID = 58
	OsuMatchHasBeatmap             PacketID = 59
	OsuMatchSkipRequest            PacketID = 60
	ChoMatchSkip                   PacketID = 61
	OsuChannelJoin                 PacketID = 63
	ChoChannelJoinSuccess          PacketID = 64
	ChoChannelInfo                 PacketID = 65
	ChoChannelKick                 PacketID = 66
	ChoChannelAutoJoin             PacketID = 67
	OsuBeatmapInfoRequest          PacketID = 68
	ChoBeatmapInfoReply            PacketID = 69
	OsuMatchTransferHost           PacketID = 70
	ChoPrivileges                  PacketID = 71
	ChoFriendsList                 PacketID = 72
	OsuFriendAdd                   PacketID = 73
	OsuFriendRemove                PacketID = 74
	ChoProtocolVersion             PacketID = 75
	ChoMainMenuIcon                PacketID = 76
	OsuMatchChangeTeam             PacketID = 77
	OsuChannelPart                 PacketID = 78
	OsuReceiveUpdates              PacketID = 79
	ChoMonitor                     PacketID = 80
	ChoMatchPlayerSkipped          PacketID = 81
	OsuSetAwayMessage              PacketID = 82
	ChoUserPresence                PacketID = 83
	OsuIRCOnly                     PacketID = 84
	OsuUserStatsRequest            PacketID = 85
	ChoRestart                     PacketID = 86
	OsuMatchInvite                 PacketID = 87
	ChoMatchInvite                 PacketID = 88
	ChoChannelInfoEnd              PacketID = 89
	OsuMatchChangePassword         PacketID = 90
	ChoMatchChangePassword         PacketID = 91
	ChoSilenceEnd                  PacketID = 92
	OsuTournamentMatchInfoRequest  PacketID = 93
	ChoUserSilenced                PacketID = 94
	ChoUserPresenceSingle          PacketID = 95
	ChoUserPresenceBundle          PacketID = 96
	OsuUserPresenceRequest         PacketID = 97
	OsuUserPresenceRequestAll      PacketID = 98
	OsuToggleBlockNonFriendDms     PacketID = 99
	ChoUserDMBlocked               PacketID = 100
	ChoTargetIsSilenced            PacketID = 101
	ChoVersionUpdateForced         PacketID = 102
	ChoSwitchServer                PacketID = 103
	ChoAccountRestricted           PacketID = 104
	ChoRTX                         PacketID = 105
	ChoMatchAbort                  PacketID = 106
	ChoSwitchTournamentServer      PacketID = 107
	OsuTournamentJoinMatchChannel  PacketID = 108
	OsuTournamentLeaveMatchChannel PacketID = 109
)

var packetNames = map[PacketID]string{
	OsuChangeAction:                "OSU_CHANGE_ACTION",
	OsuSendPublicMessage:           "OSU_SEND_PUBLIC_MESSAGE",
	OsuLogout:                      "OSU_LOGOUT",
	OsuRequestStatusUpdate:         "OSU_REQUEST_STATUS_UPDATE",
	OsuPing:                        "OSU_PING",
	ChoUserID:                      "CHO_USER_ID",
	ChoSendMessage:                 "CHO_SEND_MESSAGE",
	ChoPong:                        "CHO_PONG",
	ChoUserStats:                   "CHO_USER_STATS",
	ChoUserLogout:                  "CHO_USER_LOGOUT",
	ChoSpectatorJoined:             "CHO_SPECTATOR_JOINED",
	ChoSpectatorLeft:               "CHO_SPECTATOR_LEFT",
	ChoSpectateFrames:              "CHO_SPECTATE_FRAMES",
	OsuStartSpectating:             "OSU_START_SPECTATING",
	OsuStopSpectating:              "OSU_STOP_SPECTATING",
	OsuSpectateFrames:              "OSU_SPECTATE_FRAMES",
	OsuCantSpectate:                "OSU_CANT_SPECTATE",
	ChoSpectatorCantSpectate:       "CHO_SPECTATOR_CANT_SPECTATE",
	ChoNotification:                "CHO_NOTIFICATION",
	OsuSendPrivateMessage:          "OSU_SEND_PRIVATE_MESSAGE",
	ChoUpdateMatch:                 "CHO_UPDATE_MATCH",
	ChoNewMatch:                    "CHO_NEW_MATCH",
	ChoDisposeMatch:                "CHO_DISPOSE_MATCH",
	OsuPartLobby:                   "OSU_PART_LOBBY",
	OsuJoinLobby:                   "OSU_JOIN_LOBBY",
	OsuCreateMatch:                 "OSU_CREATE_MATCH",
	OsuJoinMatch:                   "OSU_JOIN_MATCH",
	OsuPartMatch:                   "OSU_PART_MATCH",
	ChoMatchJoinSuccess:            "CHO_MATCH_JOIN_SUCCESS",
	ChoMatchJoinFail:               "CHO_MATCH_JOIN_FAIL",
	OsuMatchChangeSlot:             "OSU_MATCH_CHANGE_SLOT",
	OsuMatchReady:                  "OSU_MATCH_READY",
	OsuMatchLock:                   "OSU_MATCH_LOCK",
	OsuMatchChangeSettings:         "OSU_MATCH_CHANGE_SETTINGS",
	ChoFellowSpectatorJoined:       "CHO_FELLOW_SPECTATOR_JOINED",
	ChoFellowSpectatorLeft:         "CHO_FELLOW_SPECTATOR_LEFT",
	OsuMatchStart:                  "OSU_MATCH_START",
	ChoMatchStart:                  "CHO_MATCH_START",
	OsuMatchScoreUpdate:            "OSU_MATCH_SCORE_UPDATE",
	ChoMatchScoreUpdate:            "CHO_MATCH_SCORE_UPDATE",
	OsuMatchComplete:               "OSU_MATCH_COMPLETE",
	ChoMatchTransferHost:           "CHO_MATCH_TRANSFER_HOST",
	OsuMatchChangeMods:             "OSU_MATCH_CHANGE_MODS",
	OsuMatchLoadComplete:           "OSU_MATCH_LOAD_COMPLETE",
	ChoMatchAllPlayersLoaded:       "CHO_MATCH_ALL_PLAYERS_LOADED",
	OsuMatchNoBeatmap:              "OSU_MATCH_NO_BEATMAP",
	OsuMatchNotReady:               "OSU_MATCH_NOT_READY",
	OsuMatchFailed:                 "OSU_MATCH_FAILED",
	ChoMatchPlayerFailed:           "CHO_MATCH_PLAYER_FAILED",
	ChoMatchComplete:               "CHO_MATCH_COMPLETE",
	OsuMatchHasBeatmap:             "OSU_MATCH_HAS_BEATMAP",
	OsuMatchSkipRequest:            "OSU_MATCH_SKIP_REQUEST",
	ChoMatchSkip:                   "CHO_MATCH_SKIP",
	OsuChannelJoin:                 "OSU_CHANNEL_JOIN",
	ChoChannelJoinSuccess:          "CHO_CHANNEL_JOIN_SUCCESS",
	ChoChannelInfo:                 "CHO_CHANNEL_INFO",
	ChoChannelKick:                 "CHO_CHANNEL_KICK",
	OsuMatchTransferHost:           "OSU_MATCH_TRANSFER_HOST",
	ChoPrivileges:                  "CHO_PRIVILEGES",
	ChoFriendsList:                 "CHO_FRIENDS_LIST",
	OsuFriendAdd:                   "OSU_FRIEND_ADD",
	OsuFriendRemove:                "OSU_FRIEND_REMOVE",
	ChoProtocolVersion:             "CHO_PROTOCOL_VERSION",
	ChoMainMenuIcon:                "CHO_MAIN_MENU_ICON",
	OsuMatchChangeTeam:             "OSU_MATCH_CHANGE_TEAM",
	OsuChannelPart:                 "OSU_CHANNEL_PART",
	OsuReceiveUpdates:              "OSU_RECEIVE_UPDATES",
	ChoMatchPlayerSkipped:          "CHO_MATCH_PLAYER_SKIPPED",
	OsuSetAwayMessage:              "OSU_SET_AWAY_MESSAGE",
	ChoUserPresence:                "CHO_USER_PRESENCE",
	OsuUserStatsRequest:            "OSU_USER_STATS_REQUEST",
	ChoRestart:                     "CHO_RESTART",
	OsuMatchInvite:                 "OSU_MATCH_INVITE",
	ChoMatchInvite:                 "CHO_MATCH_INVITE",
	ChoChannelInfoEnd:              "CHO_CHANNEL_INFO_END",
	OsuMatchChangePassword:         "OSU_MATCH_CHANGE_PASSWORD",
	ChoMatchChangePassword:         "CHO_MATCH_CHANGE_PASSWORD",
	ChoSilenceEnd:                  "CHO_SILENCE_END",
	OsuTournamentMatchInfoRequest:  "OSU_TOURNAMENT_MATCH_INFO_REQUEST",
	OsuUserPresenceRequest:         "OSU_USER_PRESENCE_REQUEST",
	OsuUserPresenceRequestAll:      "OSU_USER_PRESENCE_REQUEST_ALL",
	OsuToggleBlockNonFriendDms:     "OSU_TOGGLE_BLOCK_NON_FRIEND_DMS",
	ChoUserDMBlocked:               "CHO_USER_DM_BLOCKED",
	ChoTargetIsSilenced:            "CHO_TARGET_IS_SILENCED",
	ChoVersionUpdateForced:         "CHO_VERSION_UPDATE_FORCED",
	ChoAccountRestricted:           "CHO_ACCOUNT_RESTRICTED",
	OsuTournamentJoinMatchChannel:  "OSU_TOURNAMENT_JOIN_MATCH_CHANNEL",
	OsuTournamentLeaveMatchChannel: "OSU_TOURNAMENT_LEAVE_MATCH_CHANNEL",
}

func (id PacketID) String() string {
	if name, ok := packetNames[id]; ok {
		return name
	}
	return fmt.Sprintf("PACKET_%d", uint16(id))
}
