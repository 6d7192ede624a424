package types

type MessagingConfigs struct {
	// LinkBaseURL is the patient-facing page; the case ID is appended as a path segment.
	LinkBaseURL string `json:"link_base_url" yaml:"link_base_url"`
	// ChannelOrder is tried when the patient has no preferred channel, or it failed.
	ChannelOrder []string `json:"channel_order" yaml:"channel_order"`

	SMSConfig      *SMSGatewayConfig `json:"sms_config" yaml:"sms_config"`
	WhatsAppConfig *SMSGatewayConfig `json:"whatsapp_config" yaml:"whatsapp_config"`

	// SmtpServerConfigPath points to a yaml file with the smtp server list.
	SmtpServerConfigPath string `json:"smtp_server_config_path" yaml:"smtp_server_config_path"`

	Templates []MessageTemplate `json:"templates" yaml:"templates"`
	// GlobalTemplateConstants are available in every e-mail template, e.g. the clinic name.
	GlobalTemplateConstants map[string]string `json:"global_template_constants" yaml:"global_template_constants"`
}
