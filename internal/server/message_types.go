package server

// MessageType represents a WebSocket message type with type safety
type MessageType string

// WebSocket message type constants
const (
	// Client to server messages
	MessageTypeSetParam    MessageType = "set_param"
	MessageTypeApplyPreset MessageType = "apply_preset"
	MessageTypeRandomize   MessageType = "randomize"
	MessageTypeRegenerate  MessageType = "regenerate"

	// Server to client messages
	MessageTypeHello    MessageType = "hello"
	MessageTypeCloud    MessageType = "cloud"
	MessageTypeSettings MessageType = "settings"
	MessageTypeRotation MessageType = "rotation"
	MessageTypeError    MessageType = "error"
)

// String returns the string representation of the message type
func (mt MessageType) String() string {
	return string(mt)
}
