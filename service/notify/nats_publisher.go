package notify

import (
	"context"
	"encoding/json"

	"CProject/module/collab/model"

	"github.com/nats-io/nats.go"
	"github.com/pkg/errors"
)

const DefaultMentionSubject = "collab.notify.mention"

// NatsPublisher hands mention events to the external
// notification-delivery subsystem. Delivery to offline users is that
// subsystem's job; this is only the boundary.
type NatsPublisher struct {
	nc      *nats.Conn
	subject string
}

func NewNatsPublisher(url, subject string) (*NatsPublisher, error) {
	if subject == "" {
		subject = DefaultMentionSubject
	}
	nc, err := nats.Connect(url,
		nats.Name("collab-notify"),
		nats.MaxReconnects(-1),
	)
	if err != nil {
		return nil, errors.Wrap(err, "nats connect")
	}
	return &NatsPublisher{nc: nc, subject: subject}, nil
}

func (p *NatsPublisher) MentionCreated(ctx context.Context, m *model.Mention) error {
	b, err := json.Marshal(m)
	if err != nil {
		return errors.Wrap(err, "marshal mention")
	}
	return errors.Wrap(p.nc.Publish(p.subject, b), "publish mention")
}

func (p *NatsPublisher) Close() {
	if p.nc != nil {
		p.nc.Close()
	}
}
