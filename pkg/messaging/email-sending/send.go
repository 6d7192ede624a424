package emailsending

import (
	"context"
	"errors"

	"github.com/Jay121305/Medical-Follow-Up-System-sub001/pkg/messaging/templates"
	messagingTypes "github.com/Jay121305/Medical-Follow-Up-System-sub001/pkg/messaging/types"
)

// Mailer is implemented by the smtp client pool.
type Mailer interface {
	SendMail(to []string, subject string, htmlContent string, overrides *messagingTypes.HeaderOverrides) error
}

// SMTPChannel delivers code messages as HTML e-mails.
type SMTPChannel struct {
	name     string
	mailer   Mailer
	template messagingTypes.MessageTemplate

	GlobalTemplateInfos map[string]string
}

func NewSMTPChannel(name string, mailer Mailer, template messagingTypes.MessageTemplate, globalTemplateInfos map[string]string) *SMTPChannel {
	return &SMTPChannel{
		name:                name,
		mailer:              mailer,
		template:            template,
		GlobalTemplateInfos: globalTemplateInfos,
	}
}

func (ch *SMTPChannel) Name() string {
	return ch.name
}

func (ch *SMTPChannel) Send(ctx context.Context, msg messagingTypes.CodeMessage) error {
	if msg.Email == "" {
		return errors.New("no email address")
	}
	if ch.mailer == nil {
		return errors.New("smtp client not initialized")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	subject, content, err := ch.prepEmail(msg)
	if err != nil {
		return err
	}
	return ch.mailer.SendMail([]string{msg.Email}, subject, content, ch.template.HeaderOverrides)
}

func (ch *SMTPChannel) prepEmail(msg messagingTypes.CodeMessage) (subject string, content string, err error) {
	translation := templates.GetTemplateTranslation(ch.template.Translations, msg.Language, ch.template.DefaultLanguage)

	payload := msg.Payload()
	for k, v := range ch.GlobalTemplateInfos {
		if _, ok := payload[k]; !ok {
			payload[k] = v
		}
	}

	templateName := ch.template.MessageType + ch.name + translation.Lang
	content, err = templates.ResolveTemplate(templateName, translation.TemplateDef, payload)
	if err != nil {
		return "", "", err
	}
	subject, err = templates.ResolveTextTemplate(templateName+"subject", translation.Subject, payload)
	if err != nil {
		return "", "", err
	}
	return subject, content, nil
}
