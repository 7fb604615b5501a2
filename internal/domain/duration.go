package domain

import (
	"context"
	"fmt"
	"time"
)

// DurationOption is a purchasable membership length and its price.
// Memberships and transactions copy the months and price at purchase time,
// so editing or deleting an option never changes existing records.
type DurationOption struct {
	ID             string    `bson:"_id,omitempty" json:"id"`
	DurationMonths int       `bson:"duration_months" json:"durationMonths"`
	Price          float64   `bson:"price" json:"price"`
	CreatedAt      time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt      time.Time `bson:"updated_at" json:"updatedAt"`
}

// Label renders the option the way memberships display their duration.
func (d *DurationOption) Label() string {
	return DurationLabel(d.DurationMonths)
}

// DurationLabel formats a month count, e.g. "6 months".
func DurationLabel(months int) string {
	return fmt.Sprintf("%d months", months)
}

// DurationRepository defines operations for the duration catalog
type DurationRepository interface {
	Create(ctx context.Context, d *DurationOption) error
	GetByID(ctx context.Context, id string) (*DurationOption, error)
	GetByMonths(ctx context.Context, months int) (*DurationOption, error)
	List(ctx context.Context) ([]*DurationOption, error)
	Update(ctx context.Context, d *DurationOption) error
	Delete(ctx context.Context, id string) error
}
