package rest

type CommandRequest struct {
	Text     string `json:"text"`
	UserId   int64  `json:"userId"`
	ChatId   string `json:"chatId"`
	Username string `json:"username,omitempty"`
}

type CommandResponse struct {
	Text      string `json:"text"`
	Format    string `json:"format"`
	MediaType string `json:"mediaType,omitempty"`
	// Media is base64 encoded by the JSON encoder.
	Media  []byte `json:"media,omitempty"`
	Failed bool   `json:"failed"`
}
