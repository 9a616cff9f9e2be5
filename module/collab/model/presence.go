package model

// PresenceEntry is one (file, user) viewer record. Ephemeral: rebuilt on
// join, never persisted beyond the best-effort redis snapshot.
type PresenceEntry struct {
	UserID       string `json:"userId"`
	Username     string `json:"username"`
	Color        string `json:"color"`
	JoinedAt     int64  `json:"joinedAt"`
	LastActivity int64  `json:"lastActivity"`
}

// CursorPosition is a line/column point in the file.
type CursorPosition struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// CursorSelection is an optional selected range.
type CursorSelection struct {
	Start CursorPosition `json:"start"`
	End   CursorPosition `json:"end"`
}

// CursorState is the latest cursor/selection per (file, user).
// Overwritten wholesale on every update; last write wins, which is safe
// because each user is the sole writer of their own cursor.
type CursorState struct {
	UserID    string           `json:"userId"`
	Username  string           `json:"username"`
	Color     string           `json:"color"`
	Position  CursorPosition   `json:"position"`
	Selection *CursorSelection `json:"selection,omitempty"`
	UpdatedAt int64            `json:"updatedAt"`
}
