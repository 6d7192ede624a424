package types

const (
	MESSAGE_TYPE_FOLLOWUP_CODE = "followup-code"
)

// MessageTemplate holds the texts for one message type. Subject is only used for e-mails.
type MessageTemplate struct {
	MessageType     string              `json:"messageType" yaml:"message_type"`
	DefaultLanguage string              `json:"defaultLanguage" yaml:"default_language"`
	HeaderOverrides *HeaderOverrides    `json:"headerOverrides,omitempty" yaml:"header_overrides"`
	Translations    []LocalizedTemplate `json:"translations" yaml:"translations"`
}

type HeaderOverrides struct {
	From      string   `json:"from" yaml:"from"`
	Sender    string   `json:"sender" yaml:"sender"`
	ReplyTo   []string `json:"replyTo" yaml:"reply_to"`
	NoReplyTo bool     `json:"noReplyTo" yaml:"no_reply_to"`
}

type LocalizedTemplate struct {
	Lang        string `json:"lang" yaml:"lang"`
	Subject     string `json:"subject" yaml:"subject"`
	SMSText     string `json:"smsText" yaml:"sms_text"`
	TemplateDef string `json:"templateDef" yaml:"template_def"`
}
