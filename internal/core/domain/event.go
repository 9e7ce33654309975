package domain

import "time"

type EventKind string

const (
	EventProductAdded   EventKind = "product_added"
	EventProductUpdated EventKind = "product_updated"
	EventProductRemoved EventKind = "product_removed"
)

// An Event describes a catalog mutation. Product is nil for removals.
type Event struct {
	Kind      EventKind
	ProductID string
	Product   *Product
	At        time.Time
}

// Change-event bus topics.
const (
	TopicCatalogChanged      = "catalog:changed"
	TopicSessionChanged      = "session:changed"
	TopicSettingsChanged     = "settings:changed"
	TopicNotificationChanged = "notification:changed"
)
