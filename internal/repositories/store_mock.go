package repositories

import "sync"

// MockStore is an in-memory Store built from the mock repositories. It
// backs the server when no database is configured and keeps tests free of
// external dependencies. Atomic is implemented with snapshot/restore
// compensation: transactions are serialized, and a failing fn puts every
// repository back to its pre-transaction state.
type MockStore struct {
	products *MockProductRepository
	carts    *MockCartRepository
	orders   *MockOrderRepository
	users    *MockUserRepository
	txMu     sync.Mutex
}

// NewMockStore creates a new instance of MockStore.
func NewMockStore() *MockStore {
	products := NewMockProductRepository()
	return &MockStore{
		products: products,
		carts:    NewMockCartRepository(products),
		orders:   NewMockOrderRepository(),
		users:    NewMockUserRepository(),
	}
}

func (s *MockStore) Products() ProductRepository { return s.products }
func (s *MockStore) Carts() CartRepository       { return s.carts }
func (s *MockStore) Orders() OrderRepository     { return s.orders }
func (s *MockStore) Users() UserRepository       { return s.users }

// Atomic runs fn and rolls every repository back to its snapshot when fn
// fails.
func (s *MockStore) Atomic(fn func(Store) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	productsSnap := s.products.snapshot()
	cartsSnap := s.carts.snapshot()
	ordersSnap := s.orders.snapshot()
	usersSnap := s.users.snapshot()

	if err := fn(s); err != nil {
		s.products.restore(productsSnap)
		s.carts.restore(cartsSnap)
		s.orders.restore(ordersSnap)
		s.users.restore(usersSnap)
		return err
	}
	return nil
}
