package dashboard

import "fmt"

// KeyMap defines the keyboard shortcuts displayed in the footer.
type KeyMap struct {
	Refresh string
	Quit    string
	Help    string
}

// DefaultKeyMap returns the default shortcut mapping.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Refresh: "r",
		Quit:    "q",
		Help:    "?",
	}
}

// HelpLine renders the footer help text.
func (k KeyMap) HelpLine() string {
	return fmt.Sprintf("[%s] refresh  [%s] quit  [%s] help", k.Refresh, k.Quit, k.Help)
}
