package model

import "time"

// TenantSelection is the persisted current tenant of one user.
type TenantSelection struct {
	Kind      string    `json:"kind" gorm:"primaryKey;size:32"`
	UserKey   string    `json:"user_key" gorm:"primaryKey;size:320"`
	TenantID  int64     `json:"tenant_id" gorm:"not null"`
	UpdatedAt time.Time `json:"updated_at" gorm:"not null;index"`
}

// TableName returns the database table name.
func (TenantSelection) TableName() string {
	return "tenant_selections"
}

// Stale reports whether the row is older than ttl at now. A zero ttl never
// goes stale.
func (s TenantSelection) Stale(ttl time.Duration, now time.Time) bool {
	return ttl > 0 && now.Sub(s.UpdatedAt) > ttl
}
