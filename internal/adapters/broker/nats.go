package broker

import (
	"context"
	"encoding/json"

	"github.com/nats-io/nats.go"
)

type natsPublisher struct {
	conn *nats.Conn
}

func NewNATSPublisher(url string) (Publisher, error) {
	conn, err := nats.Connect(url)
	if err != nil {
		return nil, err
	}
	return &natsPublisher{conn: conn}, nil
}

func (p *natsPublisher) Publish(ctx context.Context, routingKey string, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return p.conn.Publish(routingKey, body)
}

func (p *natsPublisher) Close() error {
	p.conn.Drain()
	p.conn.Close()
	return nil
}
