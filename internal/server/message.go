package server

import (
	"encoding/json"
	"time"

	"github.com/lox/galaxygen/internal/export"
	"github.com/lox/galaxygen/internal/preset"
)

// Message represents the base WebSocket message structure
type Message struct {
	Type      MessageType     `json:"type"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

// NewMessage creates a new message with the current timestamp
func NewMessage(messageType MessageType, data any) (*Message, error) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	return &Message{
		Type:      messageType,
		Data:      dataBytes,
		Timestamp: time.Now(),
	}, nil
}

// Client → Server Messages

type SetParamData struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type ApplyPresetData struct {
	Name string `json:"name"`
}

// Server → Client Messages

type HelloData struct {
	ConnectionID string          `json:"connectionId"`
	Presets      []string        `json:"presets"`
	Settings     preset.Settings `json:"settings"`
}

type CloudData struct {
	export.Document
	View preset.View `json:"view"`
}

type SettingsData struct {
	Settings preset.Settings `json:"settings"`
}

type RotationData struct {
	Angle float64 `json:"angle"` // radians about the y axis
}

type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
