package entities

import "errors"

// ErrNotFound is returned by platform lookups when the remote object no longer exists
var ErrNotFound = errors.New("not found")

// User is a platform account snapshot
type User struct {
	ID       string
	Username string
	Bot      bool
}

// Mention returns the platform mention markup for the user
func (u User) Mention() string {
	return "<@" + u.ID + ">"
}

// Member is a user's membership in a guild as reported by the platform
type Member struct {
	User    User
	GuildID string
	Nick    string
	RoleIDs []string
	// Permissions is the member's computed permission bitset in the current channel.
	Permissions int64
}

// DisplayName returns the nickname if set, otherwise the username
func (m *Member) DisplayName() string {
	if m.Nick != "" {
		return m.Nick
	}
	return m.User.Username
}

// HasRole reports whether the member currently holds roleID
func (m *Member) HasRole(roleID string) bool {
	for _, id := range m.RoleIDs {
		if id == roleID {
			return true
		}
	}
	return false
}

// Role is a guild role snapshot
type Role struct {
	ID   string
	Name string
}

// Mention returns the platform mention markup for the role
func (r Role) Mention() string {
	return "<@&" + r.ID + ">"
}

// Channel is a guild channel snapshot
type Channel struct {
	ID       string
	GuildID  string
	Name     string
	ParentID string
}

// Mention returns the platform mention markup for the channel
func (c Channel) Mention() string {
	return "<#" + c.ID + ">"
}

// OverwriteTarget says what a visibility rule applies to
type OverwriteTarget int

const (
	OverwriteRole OverwriteTarget = iota
	OverwriteMember
)

// VisibilityRule grants or denies view access to a channel
type VisibilityRule struct {
	TargetID string
	Target   OverwriteTarget
	Visible  bool
}
