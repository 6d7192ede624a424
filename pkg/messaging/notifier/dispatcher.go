package notifier

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/Jay121305/Medical-Follow-Up-System-sub001/pkg/messaging/types"
)

type Channel interface {
	Name() string
	Send(ctx context.Context, msg types.CodeMessage) error
}

// Observer is notified about every channel attempt.
type Observer interface {
	DeliveryAttempt(channel string, delivered bool)
}

type Report struct {
	Delivered bool              `json:"delivered"`
	Channel   string            `json:"channel,omitempty"`
	Errors    map[string]string `json:"errors,omitempty"`
}

// Dispatcher tries the configured channels until one succeeds. It never touches the case
// record, a failed delivery leaves the issued secret valid.
type Dispatcher struct {
	channels map[string]Channel
	order    []string
	observer Observer
}

// NewDispatcher registers the channels in the given order. Channels missing from order are
// appended in registration order.
func NewDispatcher(order []string, observer Observer, channels ...Channel) *Dispatcher {
	d := &Dispatcher{
		channels: map[string]Channel{},
		observer: observer,
	}
	for _, ch := range channels {
		d.channels[ch.Name()] = ch
	}
	for _, name := range order {
		if _, ok := d.channels[name]; ok && !slices.Contains(d.order, name) {
			d.order = append(d.order, name)
		}
	}
	for _, ch := range channels {
		if !slices.Contains(d.order, ch.Name()) {
			d.order = append(d.order, ch.Name())
		}
	}
	return d
}

func (d *Dispatcher) Channels() []string {
	return append([]string{}, d.order...)
}

func (d *Dispatcher) Deliver(ctx context.Context, msg types.CodeMessage) Report {
	report := Report{}
	for _, name := range d.attemptOrder(msg.PreferredChannel) {
		if err := ctx.Err(); err != nil {
			report.addError("context", err)
			break
		}

		err := d.channels[name].Send(ctx, msg)
		if d.observer != nil {
			d.observer.DeliveryAttempt(name, err == nil)
		}
		if err != nil {
			slog.Warn("code delivery failed", slog.String("caseID", msg.CaseID), slog.String("channel", name), slog.String("error", err.Error()))
			report.addError(name, err)
			continue
		}

		slog.Info("code delivered", slog.String("caseID", msg.CaseID), slog.String("channel", name))
		report.Delivered = true
		report.Channel = name
		return report
	}

	if len(d.order) == 0 {
		report.addError("dispatcher", fmt.Errorf("no delivery channel configured"))
	}
	return report
}

func (d *Dispatcher) attemptOrder(preferred string) []string {
	if _, ok := d.channels[preferred]; !ok {
		return d.order
	}
	order := []string{preferred}
	for _, name := range d.order {
		if name != preferred {
			order = append(order, name)
		}
	}
	return order
}

func (r *Report) addError(key string, err error) {
	if r.Errors == nil {
		r.Errors = map[string]string{}
	}
	r.Errors[key] = err.Error()
}
