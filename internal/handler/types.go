package handler

// WebhookRequest is one inbound chat command, already resolved to a group
// and sender by the platform relay.
type WebhookRequest struct {
	GroupID  string `json:"groupId"`
	UserID   string `json:"userId"`
	UserName string `json:"userName"`
	BotID    string `json:"botId"`
	Text     string `json:"text"`
}

// WebhookResponse carries the reply text to relay back into the chat. An
// empty reply means the message was not addressed to the game.
type WebhookResponse struct {
	Reply string `json:"reply"`
}
