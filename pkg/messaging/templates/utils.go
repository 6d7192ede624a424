package templates

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"strings"
	textTemplate "text/template"

	messagingTypes "github.com/Jay121305/Medical-Follow-Up-System-sub001/pkg/messaging/types"
)

// ResolveTemplate renders an HTML template, escaping the content infos.
func ResolveTemplate(tempName string, templateDef string, contentInfos map[string]string) (content string, err error) {
	if strings.TrimSpace(templateDef) == "" {
		return "", fmt.Errorf("empty template %s", tempName)
	}
	tmpl, err := template.New(tempName).Parse(templateDef)
	if err != nil {
		err = fmt.Errorf("error when parsing template %s: %v", tempName, err)
		return "", err
	}
	var tpl bytes.Buffer

	err = tmpl.Execute(&tpl, contentInfos)
	if err != nil {
		err = fmt.Errorf("error during executing template %s: %v", tempName, err)
		return "", err
	}
	return tpl.String(), nil
}

// ResolveTextTemplate renders a plain text template, e.g. for SMS bodies where links must stay unescaped.
func ResolveTextTemplate(tempName string, templateDef string, contentInfos map[string]string) (content string, err error) {
	if strings.TrimSpace(templateDef) == "" {
		return "", fmt.Errorf("empty template %s", tempName)
	}
	tmpl, err := textTemplate.New(tempName).Option("missingkey=zero").Parse(templateDef)
	if err != nil {
		return "", fmt.Errorf("error when parsing template %s: %v", tempName, err)
	}
	var tpl bytes.Buffer
	if err = tmpl.Execute(&tpl, contentInfos); err != nil {
		return "", fmt.Errorf("error during executing template %s: %v", tempName, err)
	}
	return tpl.String(), nil
}

func FindTemplate(templates []messagingTypes.MessageTemplate, messageType string) (messagingTypes.MessageTemplate, error) {
	for _, t := range templates {
		if t.MessageType == messageType {
			return t, nil
		}
	}
	return messagingTypes.MessageTemplate{}, fmt.Errorf("no template for message type %s", messageType)
}

func GetTemplateTranslation(translations []messagingTypes.LocalizedTemplate, lang string, defaultLang string) messagingTypes.LocalizedTemplate {
	var defaultTranslation messagingTypes.LocalizedTemplate
	for _, tr := range translations {
		if tr.Lang == lang {
			return tr
		} else if tr.Lang == defaultLang {
			defaultTranslation = tr
		}
	}
	return defaultTranslation
}

// CheckAllTranslationsParsable is run on startup for every configured template.
func CheckAllTranslationsParsable(tempTranslations []messagingTypes.LocalizedTemplate, messageType string) error {
	if len(tempTranslations) == 0 {
		return errors.New("error when decoding template: translation list is empty")
	}
	for _, templ := range tempTranslations {
		templateName := messageType + templ.Lang
		if templ.TemplateDef != "" {
			if _, err := ResolveTemplate(templateName, templ.TemplateDef, make(map[string]string)); err != nil {
				return errors.New("could not resolve template for `" + templ.Lang + "` - error: " + err.Error())
			}
		}
		if templ.SMSText != "" {
			if _, err := ResolveTextTemplate(templateName+"sms", templ.SMSText, make(map[string]string)); err != nil {
				return errors.New("could not resolve sms text for `" + templ.Lang + "` - error: " + err.Error())
			}
		}
	}
	return nil
}
