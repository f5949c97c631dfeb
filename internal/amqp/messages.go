package amqp

import (
	"encoding/json"
	"time"
)

// CatalogReloadMessage announces that the reading log changed. Consumers
// reload their catalog from their own source; the message carries no data.
type CatalogReloadMessage struct {
	Source    string    `json:"source"`
	Books     int       `json:"books"`
	Timestamp time.Time `json:"timestamp"`
}

// NewCatalogReloadMessage creates a reload message stamped now.
func NewCatalogReloadMessage(source string, books int) *CatalogReloadMessage {
	return &CatalogReloadMessage{
		Source:    source,
		Books:     books,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *CatalogReloadMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// CatalogReloadMessageFromJSON creates a message from JSON bytes
func CatalogReloadMessageFromJSON(data []byte) (*CatalogReloadMessage, error) {
	var msg CatalogReloadMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
