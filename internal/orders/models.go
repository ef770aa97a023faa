package orders

import (
	"time"

	"github.com/google/uuid"
)

// RetentionDays is how long a record stays reachable before the store's
// expiry sweep may drop it.
const RetentionDays = 30

// MaxList caps how many records an owner-scoped listing returns.
const MaxList = 100

// CreatedAtLayout is the wire format of the createdAt attribute.
const CreatedAtLayout = "2006-01-02T15:04:05Z"

// Order is the sole persisted entity. Records are immutable after creation;
// there is no update or delete operation, only the TTL-driven expiry sweep.
type Order struct {
	OrderID   string `json:"orderId"`
	UserID    string `json:"userId"`
	Name      string `json:"name"`
	Product   string `json:"product"`
	Email     string `json:"email"`
	CreatedAt string `json:"createdAt"`
	TTL       int64  `json:"ttl"` // unix seconds, createdAt + RetentionDays
}

// New builds a fresh record owned by userID. The caller supplies the clock so
// tests can pin it.
func New(userID, name, product, email string, now time.Time) Order {
	now = now.UTC()
	return Order{
		OrderID:   uuid.NewString(),
		UserID:    userID,
		Name:      name,
		Product:   product,
		Email:     email,
		CreatedAt: now.Format(CreatedAtLayout),
		TTL:       now.Unix() + RetentionDays*24*3600,
	}
}

// Expired reports whether the record's TTL has elapsed at the given instant.
func (o Order) Expired(now time.Time) bool {
	return o.TTL <= now.Unix()
}
