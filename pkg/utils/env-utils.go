package utils

import (
	"regexp"
	"strings"
)

var nonAlphanumeric = regexp.MustCompile(`[^A-Z0-9]+`)

// GenerateEnvVarName turns a name into an environment variable suffix: upper case, with runs of
// other characters replaced by a single underscore and no leading or trailing underscore.
func GenerateEnvVarName(input string) string {
	normalized := nonAlphanumeric.ReplaceAllString(strings.ToUpper(input), "_")
	return strings.Trim(normalized, "_")
}

// GenerateGatewayAPIKeyEnvVarName names the env variable holding the API key of one messaging
// gateway channel, e.g. SMS_GATEWAY_API_KEY_FOR_WHATSAPP.
func GenerateGatewayAPIKeyEnvVarName(channelName string) string {
	return "SMS_GATEWAY_API_KEY_FOR_" + GenerateEnvVarName(channelName)
}
