package shared

import "time"

// BaseEntity carries the identity and timestamps shared by items, orders
// and notifications. IDs are assigned by the store on insert, so a zero ID
// means the entity has not been persisted yet.
type BaseEntity struct {
	ID        uint
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewBaseEntity stamps both timestamps with now
func NewBaseEntity(now time.Time) BaseEntity {
	return BaseEntity{CreatedAt: now, UpdatedAt: now}
}

// IsNew reports whether the entity has not been persisted yet
func (e *BaseEntity) IsNew() bool {
	return e.ID == 0
}

// Touch moves UpdatedAt forward to now
func (e *BaseEntity) Touch(now time.Time) {
	e.UpdatedAt = now
}
