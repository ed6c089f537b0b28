package repositories

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"inventory-billing/apperrors"
	"inventory-billing/models"

	"github.com/google/uuid"
)

var _ Store = (*MemoryStore)(nil)

type memoryState struct {
	nextProductID int64
	products      map[int64]models.Product
	bills         map[uuid.UUID]models.Bill
	billItems     []models.BillItem
	users         map[uuid.UUID]models.User
}

func (st *memoryState) clone() *memoryState {
	out := &memoryState{
		nextProductID: st.nextProductID,
		products:      make(map[int64]models.Product, len(st.products)),
		bills:         make(map[uuid.UUID]models.Bill, len(st.bills)),
		billItems:     make([]models.BillItem, len(st.billItems)),
		users:         make(map[uuid.UUID]models.User, len(st.users)),
	}
	for k, v := range st.products {
		out.products[k] = v
	}
	for k, v := range st.bills {
		out.bills[k] = v
	}
	copy(out.billItems, st.billItems)
	for k, v := range st.users {
		out.users[k] = v
	}
	return out
}

// MemoryStore keeps all rows in process memory. It backs STORE_DRIVER=memory
// and the service tests. Transactions are serializable: InTx holds the store
// lock for the whole callback and swaps in the transaction's state on commit.
type MemoryStore struct {
	mu    sync.Mutex
	state *memoryState
	now   func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		state: &memoryState{
			nextProductID: 1,
			products:      map[int64]models.Product{},
			bills:         map[uuid.UUID]models.Bill{},
			users:         map[uuid.UUID]models.User{},
		},
		now: time.Now,
	}
}

func (s *MemoryStore) InTx(ctx context.Context, fn func(tx Store) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &MemoryStore{state: s.state.clone(), now: s.now}
	if err := fn(tx); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.state = tx.state
	return nil
}

func (s *MemoryStore) ListProducts(ctx context.Context, filter models.ProductFilter) ([]models.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	products := []models.Product{}
	for _, p := range s.state.products {
		if filter.Matches(p) {
			products = append(products, p)
		}
	}

	sort.Slice(products, func(i, j int) bool {
		a, b := products[i], products[j]
		switch filter.OrderBy {
		case models.OrderByName:
			if a.Name != b.Name {
				return a.Name < b.Name
			}
		case models.OrderByQuantity:
			if a.Quantity != b.Quantity {
				return a.Quantity < b.Quantity
			}
		}
		return a.ID < b.ID
	})
	return products, nil
}

func (s *MemoryStore) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.state.products[id]
	if !ok {
		return nil, apperrors.NotFound("Product")
	}
	return &p, nil
}

func (s *MemoryStore) InsertProduct(ctx context.Context, product *models.Product) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	product.ID = s.state.nextProductID
	product.CreatedAt = now
	product.UpdatedAt = now
	s.state.nextProductID++
	s.state.products[product.ID] = *product
	return nil
}

func (s *MemoryStore) UpdateProduct(ctx context.Context, id int64, update models.ProductUpdate, updatedAt time.Time) (*models.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.state.products[id]
	if !ok {
		return nil, apperrors.NotFound("Product")
	}
	if update.Name != nil {
		p.Name = *update.Name
	}
	if update.Quantity != nil {
		p.Quantity = *update.Quantity
	}
	if update.Price != nil {
		p.Price = *update.Price
	}
	p.UpdatedAt = updatedAt
	s.state.products[id] = p
	return &p, nil
}

func (s *MemoryStore) DeleteProduct(ctx context.Context, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.state.products[id]; !ok {
		return apperrors.NotFound("Product")
	}
	delete(s.state.products, id)

	// bill_items.product_id is ON DELETE SET NULL
	for i := range s.state.billItems {
		if pid := s.state.billItems[i].ProductID; pid != nil && *pid == id {
			s.state.billItems[i].ProductID = nil
		}
	}
	return nil
}

func (s *MemoryStore) DecrementProductQuantity(ctx context.Context, id int64, n int, updatedAt time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if n <= 0 {
		return apperrors.Validation("Stock decrement must be positive, got %d", n)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.state.products[id]
	if !ok || p.Quantity < n {
		return apperrors.InsufficientStockAtCommit(id, n)
	}
	p.Quantity -= n
	p.UpdatedAt = updatedAt
	s.state.products[id] = p
	return nil
}

func (s *MemoryStore) InsertBill(ctx context.Context, bill *models.Bill) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.state.users[bill.CreatedBy]; !ok {
		return apperrors.Validation("bill creator %s does not exist", bill.CreatedBy)
	}

	bill.ID = uuid.New()
	bill.CreatedAt = s.now()
	s.state.bills[bill.ID] = *bill
	return nil
}

func (s *MemoryStore) InsertBillItems(ctx context.Context, items []models.BillItem) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, item := range items {
		if _, ok := s.state.bills[item.BillID]; !ok {
			return apperrors.Validation("bill %s does not exist", item.BillID)
		}
	}
	for i := range items {
		items[i].ID = uuid.New()
		s.state.billItems = append(s.state.billItems, items[i])
	}
	return nil
}

func (s *MemoryStore) GetBill(ctx context.Context, id uuid.UUID) (*models.Bill, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.state.bills[id]
	if !ok {
		return nil, apperrors.NotFound("Bill")
	}
	return &b, nil
}

func (s *MemoryStore) ListBillItems(ctx context.Context, billID uuid.UUID) ([]models.BillItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	items := []models.BillItem{}
	for _, item := range s.state.billItems {
		if item.BillID == billID {
			items = append(items, item)
		}
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].ProductName < items[j].ProductName
	})
	return items, nil
}

// CountBills and CountBillItems let tests check what a checkout persisted.
func (s *MemoryStore) CountBills() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.state.bills)
}

func (s *MemoryStore) CountBillItems() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.state.billItems)
}

func (s *MemoryStore) CreateUser(ctx context.Context, user *models.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.state.users {
		if strings.EqualFold(u.Email, user.Email) {
			return apperrors.Conflict("Email already registered")
		}
	}

	user.ID = uuid.New()
	user.CreatedAt = s.now()
	s.state.users[user.ID] = *user
	return nil
}

func (s *MemoryStore) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.state.users {
		if strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, apperrors.NotFound("User")
}

func (s *MemoryStore) FindUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.state.users[id]
	if !ok {
		return nil, apperrors.NotFound("User")
	}
	return &u, nil
}
