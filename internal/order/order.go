package order

// ItemType tags a catalog entry or a whole order. An order holding more than
// one distinct item type is "mixed".
type ItemType string

const (
	TypeBook      ItemType = "book"
	TypeEbook     ItemType = "ebook"
	TypeAudiobook ItemType = "audiobook"
	TypePackage   ItemType = "package"
	TypeMixed     ItemType = "mixed"
)

const (
	StatusCompleted = "completed"
	StatusPending   = "pending"
)

// LineRef is the minimal client-supplied cart entry. Name and price are never
// taken from the client; items are re-resolved from the catalog before any
// order is persisted.
type LineRef struct {
	ID       string   `json:"id"`
	Type     ItemType `json:"type"`
	Quantity int      `json:"quantity"`
}

// OrderItem is the catalog-hydrated snapshot of a line reference. For
// packages, Books carries the bundled books, projected one level deep.
type OrderItem struct {
	ID       string      `json:"id"`
	Type     ItemType    `json:"type"`
	Quantity int         `json:"quantity"`
	Name     string      `json:"name,omitempty"`
	Price    float64     `json:"price,omitempty"`
	ImageURL string      `json:"image,omitempty"`
	Books    []OrderItem `json:"books,omitempty"`
}

// UserSnapshot freezes purchaser identity at order time; it survives later
// profile edits and deletions.
type UserSnapshot struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Country string `json:"country"`
}

// ShippingInfo stays zero for digital-only orders.
type ShippingInfo struct {
	Address    string `json:"address,omitempty"`
	City       string `json:"city,omitempty"`
	PostalCode string `json:"postalCode,omitempty"`
	Country    string `json:"country,omitempty"`
	Phone      string `json:"phone,omitempty"`
}

type PaymentInfo struct {
	Method        string `json:"method"` // "stripe" or "paypal"
	TransactionID string `json:"transactionId"`
	Status        string `json:"status"`
}

// Order is append-only: created exactly once per payment transaction, never
// updated or deleted by this subsystem.
type Order struct {
	ID            string       `json:"orderId"`
	User          UserSnapshot `json:"user"`
	ShippingInfo  ShippingInfo `json:"shippingInfo"`
	OrderItems    []OrderItem  `json:"orderItems"`
	ItemsPrice    float64      `json:"itemsPrice"`
	ShippingPrice float64      `json:"shippingPrice"`
	TotalPrice    float64      `json:"totalPrice"`
	Payment       PaymentInfo  `json:"payment"`
	OrderType     ItemType     `json:"order_type"`
	OrderStatus   string       `json:"order_status"`
	CreatedAt     string       `json:"createdAt"`
}

// TypeOfRefs classifies a cart by the client-declared item types. Used at
// checkout initiation, before the catalog has been consulted.
func TypeOfRefs(refs []LineRef) ItemType {
	types := make([]ItemType, len(refs))
	for i, ref := range refs {
		types[i] = ref.Type
	}
	return classify(types)
}

// TypeOfItems classifies resolved items. This is the classification that ends
// up on the order; it wins over the initiation-time one if the cart drifted.
func TypeOfItems(items []OrderItem) ItemType {
	types := make([]ItemType, len(items))
	for i, item := range items {
		types[i] = item.Type
	}
	return classify(types)
}

func classify(types []ItemType) ItemType {
	seen := make(map[ItemType]struct{}, len(types))
	var single ItemType
	for _, t := range types {
		if _, ok := seen[t]; !ok {
			seen[t] = struct{}{}
			single = t
		}
	}
	if len(seen) == 1 {
		return single
	}
	return TypeMixed
}

// IsDigitalOnly reports whether an order of the given type skips shipping and
// physical fulfillment. Packages and mixed carts always ship.
func IsDigitalOnly(t ItemType) bool {
	return t == TypeEbook || t == TypeAudiobook
}
