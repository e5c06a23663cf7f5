package model

// Stats is a per-mode stats snapshot, read from the relational stats
// tables plus the redis leaderboard rank.
type Stats struct {
	UserID         int32
	Mode           Mode
	RankedScore    int64
	TotalScore     int64
	Accuracy       float64
	PP             float64
	Playcount      int32
	Playtime       int32
	MaxCombo       int32
	TotalHits      int32
	ReplaysWatched int32
	Rank           int32
}

// MenuIcon is a main menu banner entry served to clients on login.
type MenuIcon struct {
	ImageURL string
	ClickURL string
}
