package events

type MessageType string

const (
	Message_Command MessageType = "command"
)

// CommandRequest is the envelope of an inbound MQTT message. Info is decoded
// according to MessageType.
type CommandRequest struct {
	MessageId   string                 `json:"messageId"`
	MessageType MessageType            `json:"type"`
	Info        map[string]interface{} `json:"info"`
}

type CommandInfo struct {
	Text     string `mapstructure:"text"`
	UserId   int64  `mapstructure:"userId"`
	ChatId   string `mapstructure:"chatId"`
	Username string `mapstructure:"username"`
}

type ReplyMessage struct {
	CommandId string `json:"commandId"`
	ChatId    string `json:"chatId"`
	Text      string `json:"text"`
	Format    string `json:"format"`
	Media     []byte `json:"media,omitempty"`
	MediaType string `json:"mediaType,omitempty"`
	Failed    bool   `json:"failed,omitempty"`
}

type AlertMessage struct {
	ChatId      string `json:"chatId"`
	CameraId    string `json:"cameraId"`
	Description string `json:"description"`
	EventType   string `json:"eventType"`
	Text        string `json:"text"`
	DetectedAt  string `json:"detectedAt"`
}
