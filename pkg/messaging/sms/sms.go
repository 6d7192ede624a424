package sms

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/Jay121305/Medical-Follow-Up-System-sub001/pkg/messaging/templates"
	"github.com/Jay121305/Medical-Follow-Up-System-sub001/pkg/messaging/types"
)

const defaultRequestTimeout = 10 * time.Second

// CMChannel delivers code messages through the CM gateway, either as SMS or as WhatsApp message.
type CMChannel struct {
	name           string
	gatewayChannel string
	conf           types.SMSGatewayConfig
	template       types.MessageTemplate
	client         *http.Client
}

func NewCMChannel(name string, gatewayChannel string, conf types.SMSGatewayConfig, template types.MessageTemplate) *CMChannel {
	timeout := conf.RequestTimeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	return &CMChannel{
		name:           name,
		gatewayChannel: gatewayChannel,
		conf:           conf,
		template:       template,
		client:         &http.Client{Timeout: timeout},
	}
}

func (ch *CMChannel) Name() string {
	return ch.name
}

func (ch *CMChannel) Send(ctx context.Context, msg types.CodeMessage) error {
	if msg.Phone == "" {
		return errors.New("no phone number")
	}

	translation := templates.GetTemplateTranslation(ch.template.Translations, msg.Language, ch.template.DefaultLanguage)
	content, err := templates.ResolveTextTemplate(
		ch.template.MessageType+ch.name+translation.Lang,
		translation.SMSText,
		msg.Payload(),
	)
	if err != nil {
		return err
	}

	return ch.runGatewayCall(ctx, msg.Phone, content)
}
