package tests

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"

	"carpool/internal/domain"
	"carpool/internal/redis"
	"carpool/internal/repository"
)

// ──────────────────────────────────────────────
// MOCK GRAPH REPOSITORY
// ──────────────────────────────────────────────

// MockGraphRepository is an in-memory GraphRepository. Edges keep the
// order they were added, matching the stable-order contract the path
// finder depends on.
type MockGraphRepository struct {
	mu     sync.RWMutex
	edges  map[string][]domain.Edge
	nodes  map[string]*domain.Node
	nextID int64
}

// NewMockGraphRepository creates a new mock graph repository.
func NewMockGraphRepository() *MockGraphRepository {
	return &MockGraphRepository{
		edges: make(map[string][]domain.Edge),
		nodes: make(map[string]*domain.Node),
	}
}

// AddEdge adds a directed edge, creating both endpoint nodes.
func (m *MockGraphRepository) AddEdge(from, to string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	m.nodes[from] = &domain.Node{ID: from, Name: from}
	m.nodes[to] = &domain.Node{ID: to, Name: to}
	m.edges[from] = append(m.edges[from], domain.Edge{ID: m.nextID, From: from, To: to})
}

// AddBoth adds edges in both directions.
func (m *MockGraphRepository) AddBoth(a, b string) {
	m.AddEdge(a, b)
	m.AddEdge(b, a)
}

func (m *MockGraphRepository) EdgesFrom(ctx context.Context, nodeID string) ([]domain.Edge, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.edges[nodeID], nil
}

func (m *MockGraphRepository) NodeExists(ctx context.Context, nodeID string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.nodes[nodeID]
	return ok, nil
}

func (m *MockGraphRepository) GetNode(ctx context.Context, nodeID string) (*domain.Node, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	node, ok := m.nodes[nodeID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *node
	return &copy, nil
}

func (m *MockGraphRepository) ListNodes(ctx context.Context) ([]*domain.Node, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	nodes := make([]*domain.Node, 0, len(m.nodes))
	for _, node := range m.nodes {
		copy := *node
		nodes = append(nodes, &copy)
	}
	return nodes, nil
}

// ──────────────────────────────────────────────
// MOCK TRIP REPOSITORY
// ──────────────────────────────────────────────

// MockTripRepository is a mock implementation of TripRepository.
type MockTripRepository struct {
	mu    sync.RWMutex
	trips map[string]*domain.Trip

	// Counters for verification
	CreateCallCount int32
	UpdateCallCount int32

	// Error injection
	CreateError error
	UpdateError error

	// GetHook, when set, runs before each GetByID read. Interleaving
	// tests use it to mutate state between a service's reads.
	GetHook func(id string)
}

// NewMockTripRepository creates a new mock trip repository.
func NewMockTripRepository() *MockTripRepository {
	return &MockTripRepository{
		trips: make(map[string]*domain.Trip),
	}
}

// AddTrip adds a trip to the mock repository.
func (m *MockTripRepository) AddTrip(trip *domain.Trip) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.trips[trip.ID] = cloneTrip(trip)
}

func (m *MockTripRepository) Create(ctx context.Context, trip *domain.Trip) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.trips[trip.ID] = cloneTrip(trip)
	return nil
}

func (m *MockTripRepository) GetByID(ctx context.Context, id string) (*domain.Trip, error) {
	if m.GetHook != nil {
		m.GetHook(id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	trip, ok := m.trips[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return cloneTrip(trip), nil
}

func (m *MockTripRepository) GetByDriverID(ctx context.Context, driverID string) ([]*domain.Trip, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var trips []*domain.Trip
	for _, trip := range m.trips {
		if trip.DriverID == driverID {
			trips = append(trips, cloneTrip(trip))
		}
	}
	return trips, nil
}

func (m *MockTripRepository) Update(ctx context.Context, trip *domain.Trip) error {
	atomic.AddInt32(&m.UpdateCallCount, 1)
	if m.UpdateError != nil {
		return m.UpdateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.trips[trip.ID]; !ok {
		return repository.ErrNotFound
	}
	m.trips[trip.ID] = cloneTrip(trip)
	return nil
}

func (m *MockTripRepository) snapshot() func() {
	m.mu.Lock()
	saved := make(map[string]*domain.Trip, len(m.trips))
	for id, trip := range m.trips {
		saved[id] = cloneTrip(trip)
	}
	m.mu.Unlock()
	return func() {
		m.mu.Lock()
		m.trips = saved
		m.mu.Unlock()
	}
}

func cloneTrip(trip *domain.Trip) *domain.Trip {
	copy := *trip
	copy.Route = trip.Route.Clone()
	copy.PassedNodeIDs = append([]string(nil), trip.PassedNodeIDs...)
	return &copy
}

// ──────────────────────────────────────────────
// MOCK REQUEST REPOSITORY
// ──────────────────────────────────────────────

// MockRequestRepository is a mock implementation of RequestRepository.
type MockRequestRepository struct {
	mu       sync.RWMutex
	requests map[string]*domain.RideRequest
	order    []string

	// Error injection
	CreateError       error
	UpdateStatusError error
}

// NewMockRequestRepository creates a new mock request repository.
func NewMockRequestRepository() *MockRequestRepository {
	return &MockRequestRepository{
		requests: make(map[string]*domain.RideRequest),
	}
}

// AddRequest adds a request to the mock repository.
func (m *MockRequestRepository) AddRequest(req *domain.RideRequest) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.requests[req.ID]; !ok {
		m.order = append(m.order, req.ID)
	}
	copy := *req
	m.requests[req.ID] = &copy
}

func (m *MockRequestRepository) Create(ctx context.Context, req *domain.RideRequest) error {
	if m.CreateError != nil {
		return m.CreateError
	}
	m.AddRequest(req)
	return nil
}

func (m *MockRequestRepository) GetByID(ctx context.Context, id string) (*domain.RideRequest, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	req, ok := m.requests[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *req
	return &copy, nil
}

func (m *MockRequestRepository) GetPending(ctx context.Context) ([]*domain.RideRequest, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var pending []*domain.RideRequest
	for _, id := range m.order {
		if req := m.requests[id]; req.Status == domain.RequestStatusPending {
			copy := *req
			pending = append(pending, &copy)
		}
	}
	return pending, nil
}

func (m *MockRequestRepository) GetByPassengerID(ctx context.Context, passengerID string) ([]*domain.RideRequest, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var requests []*domain.RideRequest
	for _, id := range m.order {
		if req := m.requests[id]; req.PassengerID == passengerID {
			copy := *req
			requests = append(requests, &copy)
		}
	}
	return requests, nil
}

func (m *MockRequestRepository) UpdateStatus(ctx context.Context, id string, status domain.RequestStatus) error {
	if m.UpdateStatusError != nil {
		return m.UpdateStatusError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	req, ok := m.requests[id]
	if !ok {
		return repository.ErrNotFound
	}
	req.Status = status
	return nil
}

func (m *MockRequestRepository) snapshot() func() {
	m.mu.Lock()
	saved := make(map[string]*domain.RideRequest, len(m.requests))
	for id, req := range m.requests {
		copy := *req
		saved[id] = &copy
	}
	order := append([]string(nil), m.order...)
	m.mu.Unlock()
	return func() {
		m.mu.Lock()
		m.requests = saved
		m.order = order
		m.mu.Unlock()
	}
}

// ──────────────────────────────────────────────
// MOCK OFFER REPOSITORY
// ──────────────────────────────────────────────

// MockOfferRepository is a mock implementation of OfferRepository.
type MockOfferRepository struct {
	mu     sync.RWMutex
	offers map[string]*domain.Offer
	order  []string

	// Error injection
	CreateError error
}

// NewMockOfferRepository creates a new mock offer repository.
func NewMockOfferRepository() *MockOfferRepository {
	return &MockOfferRepository{
		offers: make(map[string]*domain.Offer),
	}
}

// AddOffer adds an offer to the mock repository.
func (m *MockOfferRepository) AddOffer(offer *domain.Offer) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.offers[offer.ID]; !ok {
		m.order = append(m.order, offer.ID)
	}
	copy := *offer
	m.offers[offer.ID] = &copy
}

func (m *MockOfferRepository) Create(ctx context.Context, offer *domain.Offer) error {
	if m.CreateError != nil {
		return m.CreateError
	}
	m.AddOffer(offer)
	return nil
}

func (m *MockOfferRepository) GetByID(ctx context.Context, id string) (*domain.Offer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	offer, ok := m.offers[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *offer
	return &copy, nil
}

func (m *MockOfferRepository) GetByRequestID(ctx context.Context, requestID string) ([]*domain.Offer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var offers []*domain.Offer
	for _, id := range m.order {
		if offer := m.offers[id]; offer.RequestID == requestID {
			copy := *offer
			offers = append(offers, &copy)
		}
	}
	return offers, nil
}

func (m *MockOfferRepository) GetByTripID(ctx context.Context, tripID string, status domain.OfferStatus) ([]*domain.Offer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var offers []*domain.Offer
	for _, id := range m.order {
		if offer := m.offers[id]; offer.TripID == tripID && offer.Status == status {
			copy := *offer
			offers = append(offers, &copy)
		}
	}
	return offers, nil
}

func (m *MockOfferRepository) UpdateStatus(ctx context.Context, id string, status domain.OfferStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	offer, ok := m.offers[id]
	if !ok {
		return repository.ErrNotFound
	}
	offer.Status = status
	return nil
}

func (m *MockOfferRepository) snapshot() func() {
	m.mu.Lock()
	saved := make(map[string]*domain.Offer, len(m.offers))
	for id, offer := range m.offers {
		copy := *offer
		saved[id] = &copy
	}
	order := append([]string(nil), m.order...)
	m.mu.Unlock()
	return func() {
		m.mu.Lock()
		m.offers = saved
		m.order = order
		m.mu.Unlock()
	}
}

// ──────────────────────────────────────────────
// MOCK WALLET REPOSITORY
// ──────────────────────────────────────────────

// MockWalletRepository is a mock implementation of WalletRepository.
type MockWalletRepository struct {
	mu           sync.RWMutex
	wallets      map[string]*domain.Wallet // by wallet ID
	transactions []*domain.Transaction

	// Error injection
	UpdateBalanceError error
}

// NewMockWalletRepository creates a new mock wallet repository.
func NewMockWalletRepository() *MockWalletRepository {
	return &MockWalletRepository{
		wallets: make(map[string]*domain.Wallet),
	}
}

// AddWallet adds a wallet to the mock repository.
func (m *MockWalletRepository) AddWallet(wallet *domain.Wallet) {
	m.mu.Lock()
	defer m.mu.Unlock()
	copy := *wallet
	m.wallets[wallet.ID] = &copy
}

func (m *MockWalletRepository) Create(ctx context.Context, wallet *domain.Wallet) error {
	m.AddWallet(wallet)
	return nil
}

func (m *MockWalletRepository) GetByUserID(ctx context.Context, userID string) (*domain.Wallet, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, wallet := range m.wallets {
		if wallet.UserID == userID {
			copy := *wallet
			return &copy, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *MockWalletRepository) UpdateBalance(ctx context.Context, walletID string, balance decimal.Decimal) error {
	if m.UpdateBalanceError != nil {
		return m.UpdateBalanceError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	wallet, ok := m.wallets[walletID]
	if !ok {
		return repository.ErrNotFound
	}
	wallet.Balance = balance
	return nil
}

func (m *MockWalletRepository) CreateTransaction(ctx context.Context, tx *domain.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copy := *tx
	m.transactions = append(m.transactions, &copy)
	return nil
}

func (m *MockWalletRepository) GetTransactions(ctx context.Context, walletID string) ([]*domain.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var txs []*domain.Transaction
	for _, tx := range m.transactions {
		if tx.WalletID == walletID {
			copy := *tx
			txs = append(txs, &copy)
		}
	}
	return txs, nil
}

// Balance returns a wallet's stored balance (for test assertions).
func (m *MockWalletRepository) Balance(walletID string) decimal.Decimal {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if wallet, ok := m.wallets[walletID]; ok {
		return wallet.Balance
	}
	return decimal.Zero
}

// TransactionCount returns the total number of ledger entries.
func (m *MockWalletRepository) TransactionCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.transactions)
}

func (m *MockWalletRepository) snapshot() func() {
	m.mu.Lock()
	saved := make(map[string]*domain.Wallet, len(m.wallets))
	for id, wallet := range m.wallets {
		copy := *wallet
		saved[id] = &copy
	}
	txs := make([]*domain.Transaction, len(m.transactions))
	for i, tx := range m.transactions {
		copy := *tx
		txs[i] = &copy
	}
	m.mu.Unlock()
	return func() {
		m.mu.Lock()
		m.wallets = saved
		m.transactions = txs
		m.mu.Unlock()
	}
}

// ──────────────────────────────────────────────
// MOCK USER REPOSITORY
// ──────────────────────────────────────────────

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mu    sync.RWMutex
	users map[string]*domain.User

	// Error injection
	CreateError error
}

// NewMockUserRepository creates a new mock user repository.
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		users: make(map[string]*domain.User),
	}
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	copy := *user
	m.users[user.ID] = &copy
	return nil
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	user, ok := m.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *user
	return &copy, nil
}

func (m *MockUserRepository) snapshot() func() {
	m.mu.Lock()
	saved := make(map[string]*domain.User, len(m.users))
	for id, user := range m.users {
		copy := *user
		saved[id] = &copy
	}
	m.mu.Unlock()
	return func() {
		m.mu.Lock()
		m.users = saved
		m.mu.Unlock()
	}
}

// ──────────────────────────────────────────────
// MOCK LOCK STORE
// ──────────────────────────────────────────────

// MockLockStore is a mock implementation of LockStore with real
// acquire-once semantics, so racing callers contend the way they would
// against Redis SETNX.
type MockLockStore struct {
	mu    sync.Mutex
	locks map[string]time.Time

	// Counters
	AcquireCallCount int32
	ReleaseCallCount int32

	// Error injection
	AcquireError error

	// Force lock failure
	ForceAcquireFailure bool
}

// NewMockLockStore creates a new mock lock store.
func NewMockLockStore() *MockLockStore {
	return &MockLockStore{
		locks: make(map[string]time.Time),
	}
}

func (m *MockLockStore) acquire(key string, ttl time.Duration) (bool, error) {
	atomic.AddInt32(&m.AcquireCallCount, 1)
	if m.AcquireError != nil {
		return false, m.AcquireError
	}
	if m.ForceAcquireFailure {
		return false, nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if expiry, exists := m.locks[key]; exists && time.Now().Before(expiry) {
		return false, nil // Lock still held.
	}
	m.locks[key] = time.Now().Add(ttl)
	return true, nil
}

func (m *MockLockStore) release(key string) error {
	atomic.AddInt32(&m.ReleaseCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.locks, key)
	return nil
}

func (m *MockLockStore) AcquireTripLock(ctx context.Context, tripID string, ttl time.Duration) (bool, error) {
	return m.acquire("lock:trip:"+tripID, ttl)
}

func (m *MockLockStore) ReleaseTripLock(ctx context.Context, tripID string) error {
	return m.release("lock:trip:" + tripID)
}

func (m *MockLockStore) AcquireRequestLock(ctx context.Context, requestID string, ttl time.Duration) (bool, error) {
	return m.acquire("lock:request:"+requestID, ttl)
}

func (m *MockLockStore) ReleaseRequestLock(ctx context.Context, requestID string) error {
	return m.release("lock:request:" + requestID)
}

// ──────────────────────────────────────────────
// MOCK UNIT OF WORK
// ──────────────────────────────────────────────

// snapshotter is implemented by the mock repositories that can save and
// restore their full state, which is how MockUnitOfWork rolls back.
type snapshotter interface {
	snapshot() func()
}

// MockUnitOfWork runs the callback against the shared mock repositories,
// serializing callbacks under one mutex. Before each callback it
// snapshots every repository that supports it and restores the snapshots
// when the callback errors, so partially-applied writes roll back the
// way a real transaction would.
type MockUnitOfWork struct {
	mu    sync.Mutex
	repos repository.Repositories

	// Counters
	TxCallCount int32

	// Error injection
	BeginError error
}

// NewMockUnitOfWork creates a mock unit of work over the given repos.
func NewMockUnitOfWork(repos repository.Repositories) *MockUnitOfWork {
	return &MockUnitOfWork{repos: repos}
}

func (m *MockUnitOfWork) WithinTx(ctx context.Context, fn func(r repository.Repositories) error) error {
	atomic.AddInt32(&m.TxCallCount, 1)
	if m.BeginError != nil {
		return m.BeginError
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	var restores []func()
	for _, repo := range []any{m.repos.Trips, m.repos.Requests, m.repos.Offers, m.repos.Wallets, m.repos.Users} {
		if s, ok := repo.(snapshotter); ok {
			restores = append(restores, s.snapshot())
		}
	}

	if err := fn(m.repos); err != nil {
		for _, restore := range restores {
			restore()
		}
		return err
	}
	return nil
}

// Interface conformance checks.
var (
	_ repository.GraphRepository   = (*MockGraphRepository)(nil)
	_ repository.TripRepository    = (*MockTripRepository)(nil)
	_ repository.RequestRepository = (*MockRequestRepository)(nil)
	_ repository.OfferRepository   = (*MockOfferRepository)(nil)
	_ repository.WalletRepository  = (*MockWalletRepository)(nil)
	_ repository.UserRepository    = (*MockUserRepository)(nil)
	_ redis.LockStoreInterface     = (*MockLockStore)(nil)
	_ repository.UnitOfWork        = (*MockUnitOfWork)(nil)
)
