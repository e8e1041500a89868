package entity

import "time"

// Customer representa un cliente del CRM. Phone y Email se usan para deduplicar (best-effort).
type Customer struct {
	ID        string
	Name      string
	Phone     string
	Email     string
	Address   string
	Tags      []string
	CreatedAt time.Time
	UpdatedAt time.Time
}
