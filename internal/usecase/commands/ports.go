package commands

import (
	"context"
	"time"
)

// EmbedField, Embed and Message model the subset of the chat platform's
// message payload the bot actually sends.
type EmbedField struct {
	Name   string
	Value  string
	Inline bool
}

type Embed struct {
	Title       string
	Description string
	Color       int
	ImageURL    string
	Fields      []EmbedField
}

type Message struct {
	Content string
	Embeds  []Embed
}

// ChatGateway is the outbound port to the chat platform. Channel IDs are
// opaque platform identifiers stored on the order.
type ChatGateway interface {
	CreateTicketChannel(ctx context.Context, buyerRef string, orderID int64) (string, error)
	CreateDeliveryChannel(ctx context.Context, buyerRef string, orderID int64) (string, error)
	SendMessage(ctx context.Context, channelID string, msg Message) error
	SendToReviews(ctx context.Context, msg Message) error
	DeleteChannel(ctx context.Context, channelID string) error
	GrantClientRole(ctx context.Context, buyerRef string) error
}

// Charge is a payment request issued to the provider. TxID is the
// correlation identifier echoed back by the payment webhook.
type Charge struct {
	TxID         string
	QRCodeText   string
	QRCodeImage  string
	AmountCents  int64
	ExpiresAt    time.Time
}

type PaymentGateway interface {
	CreateCharge(ctx context.Context, txid string, amountCents int64, description string) (*Charge, error)
}

// TimerScheduler registers cancellable lifecycle deadlines keyed by
// order ID.
type TimerScheduler interface {
	Schedule(key int64, d time.Duration, fn func(ctx context.Context))
	Cancel(key int64) bool
}
