package model

// Channel is a chat channel. Hidden channels are omitted from the
// login channel listing, temp channels are disposed when their last
// member leaves.
type Channel struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	PublicRead  bool    `json:"public_read"`
	PublicWrite bool    `json:"public_write"`
	AutoJoin    bool    `json:"auto_join"`
	Hidden      bool    `json:"hidden"`
	Temp        bool    `json:"temp"`
	Members     []int32 `json:"members"`
}

func (c *Channel) HasMember(id int32) bool {
	for _, m := range c.Members {
		if m == id {
			return true
		}
	}
	return false
}

// CanRead reports whether a session with the given privileges may see
// the channel.
func (c *Channel) CanRead(privs Privileges) bool {
	return c.PublicRead || privs&PrivAdminManageUsers != 0
}

// CanWrite reports whether a session with the given privileges may
// send to the channel.
func (c *Channel) CanWrite(privs Privileges) bool {
	return c.PublicWrite || privs&PrivAdminManageUsers != 0
}
