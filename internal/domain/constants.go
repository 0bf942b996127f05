package domain

const (
	RoleAdmin = "admin"
)

const (
	ProductPublished = "published"
	ProductDraft     = "draft"
	ProductArchived  = "archived"
)

// Order.PaymentStatus values. Gateway statuses (paid, unpaid) are stored as reported.
const (
	PaymentInitiated = "initiated"
	PaymentPaid      = "paid"
	PaymentExpired   = "expired"
)

// Order.Status values.
const (
	OrderPending   = "pending"
	OrderPaid      = "paid"
	OrderShipped   = "shipped"
	OrderDelivered = "delivered"
	OrderCancelled = "cancelled"
	OrderCompleted = "completed"
	OrderExpired   = "expired"
)

// Gateway checkout session vocabulary.
const (
	SessionOpen     = "open"
	SessionComplete = "complete"
	SessionExpired  = "expired"
)

// MediaFolder is where every catalog asset is uploaded.
const MediaFolder = "arar_parfums_collection"

var ProductStatuses = []string{ProductPublished, ProductDraft, ProductArchived}

// AdminOrderStatuses are the statuses an admin may set by hand.
var AdminOrderStatuses = []string{OrderPending, OrderPaid, OrderShipped, OrderDelivered, OrderCancelled}

func Contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
