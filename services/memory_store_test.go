package services

import (
	"cmp"
	"context"
	"fmt"
	"maps"
	"pizzeria_server/database"
	"pizzeria_server/lib"
	"pizzeria_server/structs/tables"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

type usedKey struct {
	customer uuid.UUID
	code     string
}

type memoryData struct {
	customers      map[uuid.UUID]tables.Customer
	pizzas         map[uuid.UUID]tables.Pizza
	products       map[uuid.UUID]tables.Product
	codes          map[string]tables.DiscountCode
	used           map[usedKey]tables.UsedDiscountCode
	orders         map[uuid.UUID]tables.Order
	orderPizzas    []tables.OrderPizza
	orderProducts  []tables.OrderProduct
	orderDiscounts []tables.OrderDiscount
	drivers        map[uuid.UUID]tables.DeliveryPerson
}

func (d *memoryData) clone() *memoryData {
	return &memoryData{
		customers:      maps.Clone(d.customers),
		pizzas:         maps.Clone(d.pizzas),
		products:       maps.Clone(d.products),
		codes:          maps.Clone(d.codes),
		used:           maps.Clone(d.used),
		orders:         maps.Clone(d.orders),
		orderPizzas:    slices.Clone(d.orderPizzas),
		orderProducts:  slices.Clone(d.orderProducts),
		orderDiscounts: slices.Clone(d.orderDiscounts),
		drivers:        maps.Clone(d.drivers),
	}
}

// memoryStore is an in-memory database.Store. Transactions are serialized and
// roll back to a snapshot on error. The (customer, code) key of used discount
// codes is enforced like the real primary key.
type memoryStore struct {
	txMu sync.Mutex
	mu   sync.Mutex
	data *memoryData

	// failOn makes the named method return the error.
	failOn map[string]error
	// hideUsed makes HasUsedDiscountCode report false, as a concurrent
	// transaction that has not committed yet would.
	hideUsed bool
	// customerLocks counts LockCustomer calls.
	customerLocks int
}

var _ database.Store = (*memoryStore)(nil)

func newMemoryStore() *memoryStore {
	return &memoryStore{
		data: &memoryData{
			customers: map[uuid.UUID]tables.Customer{},
			pizzas:    map[uuid.UUID]tables.Pizza{},
			products:  map[uuid.UUID]tables.Product{},
			codes:     map[string]tables.DiscountCode{},
			used:      map[usedKey]tables.UsedDiscountCode{},
			orders:    map[uuid.UUID]tables.Order{},
			drivers:   map[uuid.UUID]tables.DeliveryPerson{},
		},
		failOn: map[string]error{},
	}
}

func (s *memoryStore) fail(method string) error {
	return s.failOn[method]
}

func notFound(what string, key any) error {
	return fmt.Errorf("%s %v: %w", what, key, lib.ErrNotFound)
}

func (s *memoryStore) RunInTx(ctx context.Context, fn func(ctx context.Context, tx database.Repository) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	snapshot := s.data.clone()
	s.mu.Unlock()

	if err := fn(ctx, s); err != nil {
		s.mu.Lock()
		s.data = snapshot
		s.mu.Unlock()
		return err
	}
	return nil
}

func (s *memoryStore) Ping(ctx context.Context) error {
	return s.fail("Ping")
}

// Customers

func (s *memoryStore) GetCustomerByID(ctx context.Context, id uuid.UUID) (*tables.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("GetCustomerByID"); err != nil {
		return nil, err
	}
	customer, ok := s.data.customers[id]
	if !ok {
		return nil, notFound("customer", id)
	}
	return &customer, nil
}

// LockCustomer needs no lock of its own: RunInTx already serializes.
func (s *memoryStore) LockCustomer(ctx context.Context, id uuid.UUID) (*tables.Customer, error) {
	s.mu.Lock()
	s.customerLocks++
	s.mu.Unlock()
	return s.GetCustomerByID(ctx, id)
}

func (s *memoryStore) GetCustomerByEmail(ctx context.Context, email string) (*tables.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, customer := range s.data.customers {
		if customer.Email == email {
			return &customer, nil
		}
	}
	return nil, notFound("customer", email)
}

func (s *memoryStore) InsertCustomer(ctx context.Context, customer *tables.Customer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.data.customers {
		if existing.Email == customer.Email {
			return lib.Wrap(lib.ErrConflict, fmt.Errorf("email %s taken", customer.Email))
		}
	}
	s.data.customers[customer.Id] = *customer
	return nil
}

// Catalog

func (s *memoryStore) GetPizzas(ctx context.Context, ids []uuid.UUID) ([]tables.Pizza, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	pizzas := []tables.Pizza{}
	for _, id := range ids {
		if pizza, ok := s.data.pizzas[id]; ok {
			pizzas = append(pizzas, pizza)
		}
	}
	return pizzas, nil
}

func (s *memoryStore) GetProducts(ctx context.Context, ids []uuid.UUID) ([]tables.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	products := []tables.Product{}
	for _, id := range ids {
		if product, ok := s.data.products[id]; ok {
			products = append(products, product)
		}
	}
	return products, nil
}

func (s *memoryStore) ListActivePizzas(ctx context.Context) ([]tables.Pizza, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("ListActivePizzas"); err != nil {
		return nil, err
	}
	pizzas := []tables.Pizza{}
	for _, pizza := range s.data.pizzas {
		if pizza.IsActive {
			pizzas = append(pizzas, pizza)
		}
	}
	slices.SortFunc(pizzas, func(a, b tables.Pizza) int { return cmp.Compare(a.Name, b.Name) })
	return pizzas, nil
}

func (s *memoryStore) ListActiveProducts(ctx context.Context) ([]tables.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	products := []tables.Product{}
	for _, product := range s.data.products {
		if product.IsActive {
			products = append(products, product)
		}
	}
	slices.SortFunc(products, func(a, b tables.Product) int { return cmp.Compare(a.Name, b.Name) })
	return products, nil
}

// Discounts

func (s *memoryStore) GetDiscountCode(ctx context.Context, code string) (*tables.DiscountCode, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	dc, ok := s.data.codes[code]
	if !ok {
		return nil, notFound("discount code", code)
	}
	return &dc, nil
}

func (s *memoryStore) ListDiscountCodes(ctx context.Context) ([]tables.DiscountCode, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Collect(maps.Values(s.data.codes)), nil
}

func (s *memoryStore) InsertDiscountCode(ctx context.Context, code *tables.DiscountCode) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data.codes[code.Code]; ok {
		return lib.Wrap(lib.ErrConflict, fmt.Errorf("code %s exists", code.Code))
	}
	s.data.codes[code.Code] = *code
	return nil
}

func (s *memoryStore) HasUsedDiscountCode(ctx context.Context, customerID uuid.UUID, code string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.hideUsed {
		return false, nil
	}
	_, ok := s.data.used[usedKey{customerID, code}]
	return ok, nil
}

func (s *memoryStore) InsertUsedDiscountCode(ctx context.Context, used *tables.UsedDiscountCode) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := usedKey{used.CustomerId, used.Code}
	if _, ok := s.data.used[key]; ok {
		return lib.Wrap(lib.ErrConflict, fmt.Errorf("duplicate key (customer_id, code)=(%s, %s)", used.CustomerId, used.Code))
	}
	s.data.used[key] = *used
	return nil
}

func (s *memoryStore) CountPizzasBought(ctx context.Context, customerID uuid.UUID) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for _, line := range s.data.orderPizzas {
		order, ok := s.data.orders[line.OrderId]
		if ok && order.CustomerId == customerID && order.Status != tables.OrderStatusCancelled {
			total += line.Quantity
		}
	}
	return total, nil
}

// liveDiscount reports whether the discount belongs to the customer, has the
// kind and sits on a non-cancelled order.
func (d *memoryData) liveDiscount(discount tables.OrderDiscount, customerID uuid.UUID, kind tables.DiscountKind) bool {
	if discount.CustomerId != customerID || discount.Kind != kind {
		return false
	}
	order, ok := d.orders[discount.OrderId]
	return ok && order.Status != tables.OrderStatusCancelled
}

func (s *memoryStore) CountLoyaltyRewards(ctx context.Context, customerID uuid.UUID) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, discount := range s.data.orderDiscounts {
		if s.data.liveDiscount(discount, customerID, tables.DiscountLoyalty) {
			count++
		}
	}
	return count, nil
}

func (s *memoryStore) HasBirthdayDiscountOn(ctx context.Context, customerID uuid.UUID, day time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	y, m, d := day.Date()
	for _, discount := range s.data.orderDiscounts {
		if !s.data.liveDiscount(discount, customerID, tables.DiscountBirthday) {
			continue
		}
		dy, dm, dd := discount.CreatedAt.In(day.Location()).Date()
		if dy == y && dm == m && dd == d {
			return true, nil
		}
	}
	return false, nil
}

// Orders

func (s *memoryStore) InsertOrder(ctx context.Context, order *tables.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("InsertOrder"); err != nil {
		return err
	}
	s.data.orders[order.Id] = *order
	return nil
}

func (s *memoryStore) UpdateOrder(ctx context.Context, order *tables.Order, columns ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("UpdateOrder"); err != nil {
		return err
	}
	if _, ok := s.data.orders[order.Id]; !ok {
		return notFound("order", order.Id)
	}
	header := *order
	header.Pizzas, header.Products, header.Discounts = nil, nil, nil
	s.data.orders[order.Id] = header
	return nil
}

func (s *memoryStore) InsertOrderPizzas(ctx context.Context, lines []*tables.OrderPizza) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, line := range lines {
		s.data.orderPizzas = append(s.data.orderPizzas, *line)
	}
	return nil
}

func (s *memoryStore) InsertOrderProducts(ctx context.Context, lines []*tables.OrderProduct) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, line := range lines {
		s.data.orderProducts = append(s.data.orderProducts, *line)
	}
	return nil
}

func (s *memoryStore) InsertOrderDiscounts(ctx context.Context, discounts []*tables.OrderDiscount) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("InsertOrderDiscounts"); err != nil {
		return err
	}
	for _, discount := range discounts {
		s.data.orderDiscounts = append(s.data.orderDiscounts, *discount)
	}
	return nil
}

func (s *memoryStore) GetOrder(ctx context.Context, id uuid.UUID) (*tables.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	order, ok := s.data.orders[id]
	if !ok {
		return nil, notFound("order", id)
	}
	for _, line := range s.data.orderPizzas {
		if line.OrderId == id {
			order.Pizzas = append(order.Pizzas, &line)
		}
	}
	for _, line := range s.data.orderProducts {
		if line.OrderId == id {
			order.Products = append(order.Products, &line)
		}
	}
	for _, discount := range s.data.orderDiscounts {
		if discount.OrderId == id {
			order.Discounts = append(order.Discounts, &discount)
		}
	}
	return &order, nil
}

func (s *memoryStore) LockOrder(ctx context.Context, id uuid.UUID) (*tables.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	order, ok := s.data.orders[id]
	if !ok {
		return nil, notFound("order", id)
	}
	return &order, nil
}

func (s *memoryStore) sortedOrders(keep func(tables.Order) bool, newestFirst bool) []tables.Order {
	orders := []tables.Order{}
	for _, order := range s.data.orders {
		if keep(order) {
			orders = append(orders, order)
		}
	}
	slices.SortFunc(orders, func(a, b tables.Order) int {
		if newestFirst {
			return b.CreatedAt.Compare(a.CreatedAt)
		}
		return a.CreatedAt.Compare(b.CreatedAt)
	})
	return orders
}

func paginate(orders []tables.Order, page, pageSize int) *database.PaginationResult[tables.Order] {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	start := min((page-1)*pageSize, len(orders))
	end := min(start+pageSize, len(orders))
	total := len(orders)

	return &database.PaginationResult[tables.Order]{
		Data: orders[start:end],
		Pagination: database.Pagination{
			Page:     page,
			PageSize: pageSize,
			Total:    total,
		},
	}
}

func (s *memoryStore) ListOrdersByCustomer(ctx context.Context, customerID uuid.UUID, page, pageSize int) (*database.PaginationResult[tables.Order], error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	orders := s.sortedOrders(func(o tables.Order) bool { return o.CustomerId == customerID }, true)
	return paginate(orders, page, pageSize), nil
}

func (s *memoryStore) ListUndeliveredOrders(ctx context.Context) ([]tables.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sortedOrders(func(o tables.Order) bool { return o.Status.Undelivered() }, false), nil
}

// Delivery

func (s *memoryStore) LockDeliveryPeopleByPostcode(ctx context.Context, postcode string) ([]tables.DeliveryPerson, error) {
	return s.ListDeliveryPeople(ctx, postcode)
}

func (s *memoryStore) ListDeliveryPeople(ctx context.Context, postcode string) ([]tables.DeliveryPerson, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	people := []tables.DeliveryPerson{}
	for _, person := range s.data.drivers {
		if postcode == "" || person.Postcode == postcode {
			people = append(people, person)
		}
	}
	slices.SortFunc(people, func(a, b tables.DeliveryPerson) int {
		switch {
		case a.LastDeliveryAt == nil && b.LastDeliveryAt == nil:
			return cmp.Compare(a.FullName, b.FullName)
		case a.LastDeliveryAt == nil:
			return -1
		case b.LastDeliveryAt == nil:
			return 1
		}
		return a.LastDeliveryAt.Compare(*b.LastDeliveryAt)
	})
	return people, nil
}

func (s *memoryStore) GetDeliveryPerson(ctx context.Context, id uuid.UUID) (*tables.DeliveryPerson, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	person, ok := s.data.drivers[id]
	if !ok {
		return nil, notFound("delivery person", id)
	}
	return &person, nil
}

func (s *memoryStore) InsertDeliveryPerson(ctx context.Context, person *tables.DeliveryPerson) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.data.drivers {
		if existing.Phone == person.Phone {
			return lib.Wrap(lib.ErrConflict, fmt.Errorf("phone %s taken", person.Phone))
		}
	}
	s.data.drivers[person.Id] = *person
	return nil
}

func (s *memoryStore) UpdateDeliveryPerson(ctx context.Context, person *tables.DeliveryPerson, columns ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("UpdateDeliveryPerson"); err != nil {
		return err
	}
	s.data.drivers[person.Id] = *person
	return nil
}

func (s *memoryStore) ListDeliveriesByPerson(ctx context.Context, personID uuid.UUID, page, pageSize int) (*database.PaginationResult[tables.Order], error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	orders := s.sortedOrders(func(o tables.Order) bool {
		return o.DeliveryPersonId != nil && *o.DeliveryPersonId == personID
	}, true)
	return paginate(orders, page, pageSize), nil
}

// Read helpers for assertions.

func (s *memoryStore) orderCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.data.orders)
}

func (s *memoryStore) usedCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.data.used)
}

func (s *memoryStore) driver(id uuid.UUID) tables.DeliveryPerson {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.drivers[id]
}
