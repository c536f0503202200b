package generated

import (
	"github.com/jackc/pgx/v5/pgtype"
)

type Account struct {
	ID             string             `json:"id"`
	Number         string             `json:"number"`
	Kind           string             `json:"kind"`
	OpeningBalance pgtype.Numeric     `json:"opening_balance"`
	Active         bool               `json:"active"`
	CustomerID     string             `json:"customer_id"`
	CreatedAt      pgtype.Timestamptz `json:"created_at"`
	UpdatedAt      pgtype.Timestamptz `json:"updated_at"`
}

type Movement struct {
	ID        string             `json:"id"`
	Seq       int64              `json:"seq"`
	AccountID string             `json:"account_id"`
	Kind      string             `json:"kind"`
	Value     pgtype.Numeric     `json:"value"`
	Balance   pgtype.Numeric     `json:"balance"`
	Active    bool               `json:"active"`
	CreatedAt pgtype.Timestamptz `json:"created_at"`
	UpdatedAt pgtype.Timestamptz `json:"updated_at"`
}

type OutboxEvent struct {
	ID            string             `json:"id"`
	AggregateID   string             `json:"aggregate_id"`
	AggregateType string             `json:"aggregate_type"`
	EventType     string             `json:"event_type"`
	Payload       []byte             `json:"payload"`
	CreatedAt     pgtype.Timestamptz `json:"created_at"`
	PublishedAt   pgtype.Timestamptz `json:"published_at"`
	Published     bool               `json:"published"`
}
