package owner

import (
	"errors"
	"strings"
	"time"
)

var ErrEmptyAddress = errors.New("owner address cannot be empty")

// Owner is a submitting identity resolved from a wallet-style address.
type Owner struct {
	ID        int64     `db:"id" json:"id"`
	Address   string    `db:"address" json:"address"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// New creates an owner for the given address.
func New(address string) (*Owner, error) {
	if strings.TrimSpace(address) == "" {
		return nil, ErrEmptyAddress
	}
	return &Owner{
		Address:   address,
		CreatedAt: time.Now().UTC(),
	}, nil
}
