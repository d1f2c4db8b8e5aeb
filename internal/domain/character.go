package domain

// Character is a playable character owned by a game account. The bot only
// ever needs the name for commands and the level for display ordering.
type Character struct {
	Name  string
	Level int
}
