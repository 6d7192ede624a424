package types

import "time"

// SMSGatewayConfig configures the CM messaging gateway, used for SMS and WhatsApp.
type SMSGatewayConfig struct {
	URL            string        `json:"url" yaml:"url"`
	APIKey         string        `json:"api_key" yaml:"api_key"`
	From           string        `json:"from" yaml:"from"`
	RequestTimeout time.Duration `json:"request_timeout" yaml:"request_timeout"`
}
