package smtp_client

import (
	"errors"
	"log/slog"
	"net/textproto"

	messagingTypes "github.com/Jay121305/Medical-Follow-Up-System-sub001/pkg/messaging/types"
	"github.com/knadh/smtppool"
)

// SendMail sends an HTML e-mail through the next pool in round-robin order.
func (sc *SmtpClients) SendMail(
	to []string,
	subject string,
	htmlContent string,
	overrides *messagingTypes.HeaderOverrides,
) error {
	sc.mu.Lock()
	sc.counter += 1
	if len(sc.connectionPool) < 1 {
		sc.mu.Unlock()
		return errors.New("no servers defined")
	}
	index := int(sc.counter % uint64(len(sc.connectionPool)))
	selectedServer := sc.connectionPool[index]
	sc.mu.Unlock()

	From := sc.servers.From
	Sender := sc.servers.Sender
	ReplyTo := sc.servers.ReplyTo

	if overrides != nil {
		if overrides.From != "" {
			From = overrides.From
		}
		if overrides.Sender != "" {
			Sender = overrides.Sender
		}

		if overrides.NoReplyTo {
			ReplyTo = []string{}
		} else if len(overrides.ReplyTo) > 0 {
			ReplyTo = overrides.ReplyTo
		}
	}

	e := smtppool.Email{
		To:      to,
		From:    From,
		Sender:  Sender,
		ReplyTo: ReplyTo,
		Subject: subject,
		HTML:    []byte(htmlContent),
		Headers: textproto.MIMEHeader{},
	}
	err := selectedServer.pool.Send(e)

	if err != nil {
		// close and try to reconnect
		slog.Error("error when trying to send email", slog.String("error", err.Error()))

		pool, errReconnect := connectToPool(selectedServer.server)
		if errReconnect != nil {
			slog.Error("cannot reconnect pool", slog.String("error", errReconnect.Error()), slog.String("server", selectedServer.server.Host))
		} else {
			slog.Info("reconnected to pool", slog.String("server", selectedServer.server.Host))
			selectedServer.pool.Close()
			sc.mu.Lock()
			sc.connectionPool[index] = serverPool{server: selectedServer.server, pool: pool}
			sc.mu.Unlock()
		}
	}
	return err
}
