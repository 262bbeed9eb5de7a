package models

// WidgetSettings drives the embeddable chat widget: the floating button, the
// iframe window and the generated embed script. It is consumed only by the
// embed-code generator and the public widget page, never sent to the AI
// backend.
type WidgetSettings struct {
	ButtonColor    string   `bson:"button_color" json:"button_color"`
	ButtonColorEnd string   `bson:"button_color_end" json:"button_color_end"`
	ButtonSize     int      `bson:"button_size" json:"button_size"`
	Position       string   `bson:"position" json:"position"` // bottom-right, bottom-left
	WindowWidth    int      `bson:"window_width" json:"window_width"`
	WindowHeight   int      `bson:"window_height" json:"window_height"`
	BorderRadius   int      `bson:"border_radius" json:"border_radius"`
	IconURL        string   `bson:"icon_url,omitempty" json:"icon_url,omitempty"`
	CustomCSS      string   `bson:"custom_css,omitempty" json:"custom_css,omitempty"`
	ChatURL        string   `bson:"chat_url,omitempty" json:"chat_url,omitempty"`
	AllowedDomains []string `bson:"allowed_domains,omitempty" json:"allowed_domains,omitempty"`
}

// DefaultWidgetSettings is served to editors before a tenant saves anything.
func DefaultWidgetSettings() WidgetSettings {
	return WidgetSettings{
		ButtonColor:    "#2563eb",
		ButtonColorEnd: "#7c3aed",
		ButtonSize:     60,
		Position:       "bottom-right",
		WindowWidth:    380,
		WindowHeight:   560,
		BorderRadius:   16,
	}
}

// ConsentSettings gates the first message of a chat session behind a
// data-processing disclosure. WebText is shown in the widget, MessengerText
// in bot channels.
type ConsentSettings struct {
	Enabled       bool   `bson:"enabled" json:"enabled"`
	WebText       string `bson:"web_text,omitempty" json:"web_text,omitempty"`
	MessengerText string `bson:"messenger_text,omitempty" json:"messenger_text,omitempty"`
}

type AISettings struct {
	ChatProvider      string  `bson:"chat_provider" json:"chat_provider"`
	ChatModel         string  `bson:"chat_model" json:"chat_model"`
	EmbeddingProvider string  `bson:"embedding_provider" json:"embedding_provider"`
	EmbeddingModel    string  `bson:"embedding_model" json:"embedding_model"`
	Temperature       float64 `bson:"temperature" json:"temperature"`
	SystemPrompt      string  `bson:"system_prompt,omitempty" json:"system_prompt,omitempty"`
}

type PageContent struct {
	Title        string   `bson:"title,omitempty" json:"title,omitempty"`
	Greeting     string   `bson:"greeting,omitempty" json:"greeting,omitempty"`
	Suggestions  []string `bson:"suggestions,omitempty" json:"suggestions,omitempty"`
	ContactBlock string   `bson:"contact_block,omitempty" json:"contact_block,omitempty"`
}

// FormattingSettings controls the fixed HTML transform applied to assistant
// replies in the widget. EmojiMap is stored as raw JSON text because the
// admin edits it in a free-form box; it is validated before save.
type FormattingSettings struct {
	Bold     bool   `bson:"bold" json:"bold"`
	Links    bool   `bson:"links" json:"links"`
	EmojiMap string `bson:"emoji_map,omitempty" json:"emoji_map,omitempty"`
}

func DefaultFormattingSettings() FormattingSettings {
	return FormattingSettings{Bold: true, Links: true}
}

// MessengerSettings holds per-channel bot credentials. Whether a channel may
// be enabled at all is decided by the tenant's tariff, not here.
type MessengerSettings struct {
	Telegram MessengerChannel `bson:"telegram" json:"telegram"`
	VK       MessengerChannel `bson:"vk" json:"vk"`
	WhatsApp MessengerChannel `bson:"whatsapp" json:"whatsapp"`
	Max      MessengerChannel `bson:"max" json:"max"`
}

type MessengerChannel struct {
	Enabled    bool   `bson:"enabled" json:"enabled"`
	Token      string `bson:"token,omitempty" json:"token,omitempty"`
	WebhookURL string `bson:"webhook_url,omitempty" json:"webhook_url,omitempty"`
}
