// Package tui provides the Bubble Tea calendar of the reading log.
package tui

// CatalogReloadedMsg tells the model a new snapshot is available.
type CatalogReloadedMsg struct {
	Version uint64
}

// ErrorMsg is emitted when an error occurs.
type ErrorMsg struct {
	Err error
}

// openedMsg reports the result of opening a page in the browser.
type openedMsg struct {
	url string
	err error
}
