package model

import "strings"

// Privileges is the server-side privilege bitmask stored on accounts.
type Privileges int32

const (
	PrivUserPublic Privileges = 1 << iota
	PrivUserNormal
	PrivUserDonor
	PrivAdminAccessRAP
	PrivAdminManageUsers
	PrivAdminBanUsers
	PrivAdminSilenceUsers
	PrivAdminWipeUsers
	PrivAdminManageBeatmaps
	PrivAdminManageServers
	PrivAdminManageSettings
	PrivAdminManageBetaKeys
	PrivAdminManageReports
	PrivAdminManageDocs
	PrivAdminManageBadges
	PrivAdminViewRAPLogs
	PrivAdminManagePrivileges
	PrivAdminSendAlerts
	PrivAdminChatMod
	PrivAdminKickUsers
	PrivUserPendingVerification
	PrivUserTournamentStaff
	PrivAdminCaker
)

// BanchoPrivileges is the client-facing privilege bitmask sent on login.
type BanchoPrivileges uint8

const (
	BanchoPlayer BanchoPrivileges = 1 << iota
	BanchoModerator
	BanchoSupporter
	BanchoOwner
	BanchoDeveloper
	BanchoTournamentStaff
)

// Account holds the persistent identity of a user, loaded from the
// relational database. Runtime state lives on Session.
type Account struct {
	ID             int32
	Name           string
	Email          string
	Privileges     Privileges
	PasswordBcrypt string
	Country        string
	Friends        []int32
	ClanID         int32
	ClanPrivileges int32
	SilenceEnd     int64
	DonorExpire    int64
	FreezeEnd      int64
}

// SafeName normalizes a username for lookups: lowercased with spaces
// replaced by underscores.
func SafeName(name string) string {
	return strings.ReplaceAll(strings.ToLower(name), " ", "_")
}

func (a *Account) SafeName() string {
	return SafeName(a.Name)
}

// Restricted reports whether the account lacks public visibility.
func (a *Account) Restricted() bool {
	return a.Privileges&PrivUserPublic == 0
}

func (a *Account) Frozen() bool {
	return a.FreezeEnd != 0
}

func (a *Account) HasFriend(id int32) bool {
	for _, f := range a.Friends {
		if f == id {
			return true
		}
	}
	return false
}

// BanchoPrivileges derives the client-facing bitmask from the
// server-side privileges. Supporter is always granted.
func (a *Account) BanchoPrivileges() BanchoPrivileges {
	priv := BanchoSupporter
	if a.Privileges&PrivUserNormal != 0 {
		priv |= BanchoPlayer
	}
	if a.Privileges&PrivAdminManageUsers != 0 {
		priv |= BanchoModerator
	} else if a.Privileges&PrivAdminManageSettings != 0 {
		priv |= BanchoDeveloper
	}
	if a.Privileges&PrivAdminCaker != 0 {
		priv |= BanchoOwner
	}
	return priv
}
