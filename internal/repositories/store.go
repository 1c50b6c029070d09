package repositories

// Store aggregates the entity repositories behind a single access point
// and provides the transaction boundary checkout runs in.
type Store interface {
	Products() ProductRepository
	Carts() CartRepository
	Orders() OrderRepository
	Users() UserRepository
	// Atomic runs fn against a store whose writes all commit or all roll
	// back together. A non-nil error from fn aborts every write made
	// through the store it received.
	Atomic(fn func(Store) error) error
}
