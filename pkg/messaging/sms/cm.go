package sms

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
)

const (
	CM_CHANNEL_SMS      = "SMS"
	CM_CHANNEL_WHATSAPP = "WhatsApp"
)

type SMSTo struct {
	Number string `json:"number"`
}

type SMSBody struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

type SingleSMS struct {
	AllowedChannels []string `json:"allowedChannels"`
	From            string   `json:"from"`
	To              []SMSTo  `json:"to"`
	Body            SMSBody  `json:"body"`
}

type SMSAuth struct {
	Producttoken string `json:"producttoken"`
}

type SMSSendingReq struct {
	Messages struct {
		Authentication SMSAuth     `json:"authentication"`
		Msg            []SingleSMS `json:"msg"`
	} `json:"messages"`
}

type gatewayResponse struct {
	Details   string `json:"details"`
	ErrorCode *int   `json:"errorCode"`
}

func (ch *CMChannel) runGatewayCall(ctx context.Context, to string, message string) error {
	if ch.conf.URL == "" {
		return errors.New("connection to sms gateway not initialized")
	}

	payload := SMSSendingReq{}
	payload.Messages.Authentication = SMSAuth{Producttoken: ch.conf.APIKey}
	payload.Messages.Msg = []SingleSMS{
		{
			AllowedChannels: []string{ch.gatewayChannel},
			From:            ch.conf.From,
			To:              []SMSTo{{Number: to}},
			Body: SMSBody{
				Type:    "auto",
				Content: message,
			},
		},
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, ch.conf.URL, bytes.NewBuffer(jsonData))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := ch.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		slog.Error("sms gateway returned error", slog.String("channel", ch.name), slog.String("status", resp.Status))
		return fmt.Errorf("sms gateway returned status %d", resp.StatusCode)
	}

	var res gatewayResponse
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		slog.Error("Error decoding response", slog.String("error", err.Error()))
		return err
	}
	if res.ErrorCode == nil {
		return errors.New("no error code in response")
	}
	if *res.ErrorCode != 0 {
		slog.Error("sms gateway returned error", slog.String("channel", ch.name), slog.Int("errorCode", *res.ErrorCode), slog.String("details", res.Details))
		return fmt.Errorf("sms gateway returned error code %d", *res.ErrorCode)
	}
	return nil
}
