package domain

// Preferences drive the personalized article feed of a user.
type Preferences struct {
	Sources    []string `json:"sources"`
	Categories []string `json:"categories"`
	Authors    []string `json:"authors"`
}

// EmptyPreferences is what a user without saved preferences gets.
func EmptyPreferences() Preferences {
	return Preferences{
		Sources:    []string{},
		Categories: []string{},
		Authors:    []string{},
	}
}

// IsEmpty reports whether no preference narrows the feed.
func (p Preferences) IsEmpty() bool {
	return len(p.Sources) == 0 && len(p.Categories) == 0 && len(p.Authors) == 0
}

// UserPreferences is the persisted form of a user's preferences.
type UserPreferences struct {
	UserID      string      `json:"user_id"`
	Preferences Preferences `json:"preferences"`
}
