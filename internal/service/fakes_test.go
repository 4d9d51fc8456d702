package service

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/takebay/auction-backend/internal/model"
	"gorm.io/gorm"
)

// In-memory repository fakes. They honor the repository contracts (including
// gorm.ErrRecordNotFound on misses) but not transactional rollback; tests
// built on them assert failures that occur before any write.

type fakeTxManager struct{}

func (fakeTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeAuctionRepo struct {
	auctions map[uint64]*model.Auction
	nextID   uint64
}

func newFakeAuctionRepo() *fakeAuctionRepo {
	return &fakeAuctionRepo{auctions: make(map[uint64]*model.Auction), nextID: 1}
}

func (r *fakeAuctionRepo) Create(ctx context.Context, a *model.Auction) error {
	a.ID = r.nextID
	r.nextID++
	r.auctions[a.ID] = a
	return nil
}

func (r *fakeAuctionRepo) FindByID(ctx context.Context, id uint64) (*model.Auction, error) {
	a, ok := r.auctions[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return a, nil
}

func (r *fakeAuctionRepo) FindByIDForUpdate(ctx context.Context, id uint64) (*model.Auction, error) {
	return r.FindByID(ctx, id)
}

func (r *fakeAuctionRepo) Update(ctx context.Context, a *model.Auction) error {
	r.auctions[a.ID] = a
	return nil
}

func (r *fakeAuctionRepo) ListDueForClose(ctx context.Context, now time.Time, limit int) ([]model.Auction, error) {
	var due []model.Auction
	for _, a := range r.auctions {
		if a.Status == model.AuctionStatusActive && !now.Before(a.EndAt) {
			due = append(due, *a)
		}
	}
	sort.Slice(due, func(i, j int) bool { return due[i].ID < due[j].ID })
	if limit > 0 && len(due) > limit {
		due = due[:limit]
	}
	return due, nil
}

type fakeBidRepo struct {
	bids   []model.Bid
	nextID uint64
}

func newFakeBidRepo() *fakeBidRepo {
	return &fakeBidRepo{nextID: 1}
}

func (r *fakeBidRepo) Create(ctx context.Context, b *model.Bid) error {
	b.ID = r.nextID
	b.CreatedAt = time.Unix(int64(r.nextID), 0)
	r.nextID++
	r.bids = append(r.bids, *b)
	return nil
}

func (r *fakeBidRepo) HighestForAuction(ctx context.Context, auctionID uint64) (*model.Bid, error) {
	var best *model.Bid
	for i := range r.bids {
		b := &r.bids[i]
		if b.AuctionID != auctionID {
			continue
		}
		if best == nil ||
			b.Amount.GreaterThan(best.Amount) ||
			(b.Amount.Equal(best.Amount) && b.CreatedAt.Before(best.CreatedAt)) {
			best = b
		}
	}
	if best == nil {
		return nil, nil
	}
	out := *best
	return &out, nil
}

func (r *fakeBidRepo) ListByAuction(ctx context.Context, auctionID uint64) ([]model.Bid, error) {
	var list []model.Bid
	for _, b := range r.bids {
		if b.AuctionID == auctionID {
			list = append(list, b)
		}
	}
	return list, nil
}

type fakeAutoBidRepo struct {
	configs []model.AutoBidConfig
	nextID  uint64
}

func newFakeAutoBidRepo() *fakeAutoBidRepo {
	return &fakeAutoBidRepo{nextID: 1}
}

func (r *fakeAutoBidRepo) Upsert(ctx context.Context, c *model.AutoBidConfig) error {
	for i := range r.configs {
		if r.configs[i].AuctionID == c.AuctionID && r.configs[i].UserUID == c.UserUID {
			c.ID = r.configs[i].ID
			c.CreatedAt = r.configs[i].CreatedAt
			r.configs[i] = *c
			return nil
		}
	}
	c.ID = r.nextID
	c.CreatedAt = time.Unix(int64(r.nextID), 0)
	r.nextID++
	r.configs = append(r.configs, *c)
	return nil
}

func (r *fakeAutoBidRepo) FindByOwner(ctx context.Context, auctionID uint64, userUID string) (*model.AutoBidConfig, error) {
	for i := range r.configs {
		if r.configs[i].AuctionID == auctionID && r.configs[i].UserUID == userUID {
			out := r.configs[i]
			return &out, nil
		}
	}
	return nil, nil
}

func (r *fakeAutoBidRepo) ListActiveByAuction(ctx context.Context, auctionID uint64) ([]model.AutoBidConfig, error) {
	var list []model.AutoBidConfig
	for _, c := range r.configs {
		if c.AuctionID == auctionID && c.Active {
			list = append(list, c)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.Before(list[j].CreatedAt) })
	return list, nil
}

func (r *fakeAutoBidRepo) Deactivate(ctx context.Context, auctionID uint64, userUID string) error {
	for i := range r.configs {
		if r.configs[i].AuctionID == auctionID && r.configs[i].UserUID == userUID {
			r.configs[i].Active = false
		}
	}
	return nil
}

type fakeEscrowRepo struct {
	escrows map[uint64]*model.Escrow
	nextID  uint64
}

func newFakeEscrowRepo() *fakeEscrowRepo {
	return &fakeEscrowRepo{escrows: make(map[uint64]*model.Escrow), nextID: 1}
}

func (r *fakeEscrowRepo) Create(ctx context.Context, e *model.Escrow) error {
	e.ID = r.nextID
	r.nextID++
	r.escrows[e.ID] = e
	return nil
}

func (r *fakeEscrowRepo) FindByID(ctx context.Context, id uint64) (*model.Escrow, error) {
	e, ok := r.escrows[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return e, nil
}

func (r *fakeEscrowRepo) FindByIDForUpdate(ctx context.Context, id uint64) (*model.Escrow, error) {
	return r.FindByID(ctx, id)
}

func (r *fakeEscrowRepo) FindByAuction(ctx context.Context, auctionID uint64) (*model.Escrow, error) {
	for _, e := range r.escrows {
		if e.AuctionID == auctionID {
			return e, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeEscrowRepo) Update(ctx context.Context, e *model.Escrow) error {
	r.escrows[e.ID] = e
	return nil
}

type fakeCommissionRepo struct {
	commissions map[uint64]*model.Commission
	nextID      uint64
}

func newFakeCommissionRepo() *fakeCommissionRepo {
	return &fakeCommissionRepo{commissions: make(map[uint64]*model.Commission), nextID: 1}
}

func (r *fakeCommissionRepo) Create(ctx context.Context, c *model.Commission) error {
	c.ID = r.nextID
	r.nextID++
	r.commissions[c.ID] = c
	return nil
}

func (r *fakeCommissionRepo) FindByAuction(ctx context.Context, auctionID uint64) (*model.Commission, error) {
	for _, c := range r.commissions {
		if c.AuctionID == auctionID {
			return c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeCommissionRepo) Update(ctx context.Context, c *model.Commission) error {
	r.commissions[c.ID] = c
	return nil
}

type fakePaymentRepo struct {
	payments map[uint64]*model.Payment
	nextID   uint64
}

func newFakePaymentRepo() *fakePaymentRepo {
	return &fakePaymentRepo{payments: make(map[uint64]*model.Payment), nextID: 1}
}

func (r *fakePaymentRepo) Create(ctx context.Context, p *model.Payment) error {
	p.ID = r.nextID
	r.nextID++
	r.payments[p.ID] = p
	return nil
}

func (r *fakePaymentRepo) FindByID(ctx context.Context, id uint64) (*model.Payment, error) {
	p, ok := r.payments[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (r *fakePaymentRepo) FindByIDForUpdate(ctx context.Context, id uint64) (*model.Payment, error) {
	return r.FindByID(ctx, id)
}

func (r *fakePaymentRepo) FindByReference(ctx context.Context, reference string) (*model.Payment, error) {
	for _, p := range r.payments {
		if p.Reference == reference {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakePaymentRepo) ListByEscrow(ctx context.Context, escrowID uint64) ([]model.Payment, error) {
	var ids []uint64
	for id, p := range r.payments {
		if p.EscrowID == escrowID {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	list := make([]model.Payment, 0, len(ids))
	for _, id := range ids {
		list = append(list, *r.payments[id])
	}
	return list, nil
}

func (r *fakePaymentRepo) Update(ctx context.Context, p *model.Payment) error {
	r.payments[p.ID] = p
	return nil
}

type fakeWalletRepo struct {
	wallets      map[string]*model.Wallet
	transactions []model.WalletTransaction
	nextTxID     uint64
}

func newFakeWalletRepo() *fakeWalletRepo {
	return &fakeWalletRepo{wallets: make(map[string]*model.Wallet), nextTxID: 1}
}

func (r *fakeWalletRepo) FindOrCreate(ctx context.Context, userUID string) (*model.Wallet, error) {
	if w, ok := r.wallets[userUID]; ok {
		return w, nil
	}
	w := &model.Wallet{UserUID: userUID, Balance: decimal.Zero}
	r.wallets[userUID] = w
	return w, nil
}

func (r *fakeWalletRepo) FindForUpdate(ctx context.Context, userUID string) (*model.Wallet, error) {
	w, ok := r.wallets[userUID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return w, nil
}

func (r *fakeWalletRepo) Update(ctx context.Context, w *model.Wallet) error {
	r.wallets[w.UserUID] = w
	return nil
}

func (r *fakeWalletRepo) CreateTransaction(ctx context.Context, t *model.WalletTransaction) error {
	t.ID = r.nextTxID
	r.nextTxID++
	r.transactions = append(r.transactions, *t)
	return nil
}

func (r *fakeWalletRepo) ListTransactions(ctx context.Context, userUID string, limit int) ([]model.WalletTransaction, error) {
	var list []model.WalletTransaction
	for i := len(r.transactions) - 1; i >= 0; i-- {
		if r.transactions[i].WalletUID == userUID {
			list = append(list, r.transactions[i])
		}
		if limit > 0 && len(list) == limit {
			break
		}
	}
	return list, nil
}

func (r *fakeWalletRepo) SumTransactions(ctx context.Context, userUID string) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, t := range r.transactions {
		if t.WalletUID == userUID {
			sum = sum.Add(t.Amount)
		}
	}
	return sum, nil
}

type fakePayoutRepo struct {
	payouts map[uint64]*model.PayoutRequest
	nextID  uint64
}

func newFakePayoutRepo() *fakePayoutRepo {
	return &fakePayoutRepo{payouts: make(map[uint64]*model.PayoutRequest), nextID: 1}
}

func (r *fakePayoutRepo) Create(ctx context.Context, p *model.PayoutRequest) error {
	p.ID = r.nextID
	r.nextID++
	r.payouts[p.ID] = p
	return nil
}

func (r *fakePayoutRepo) FindByID(ctx context.Context, id uint64) (*model.PayoutRequest, error) {
	p, ok := r.payouts[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (r *fakePayoutRepo) FindByIDForUpdate(ctx context.Context, id uint64) (*model.PayoutRequest, error) {
	return r.FindByID(ctx, id)
}

func (r *fakePayoutRepo) Update(ctx context.Context, p *model.PayoutRequest) error {
	r.payouts[p.ID] = p
	return nil
}

func (r *fakePayoutRepo) ListByUser(ctx context.Context, userUID string) ([]model.PayoutRequest, error) {
	var list []model.PayoutRequest
	for _, p := range r.payouts {
		if p.UserUID == userUID {
			list = append(list, *p)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID > list[j].ID })
	return list, nil
}

func (r *fakePayoutRepo) ListByStatus(ctx context.Context, status model.PayoutStatus, limit int) ([]model.PayoutRequest, error) {
	var list []model.PayoutRequest
	for _, p := range r.payouts {
		if p.Status == status {
			list = append(list, *p)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	if limit > 0 && len(list) > limit {
		list = list[:limit]
	}
	return list, nil
}

type fakeShipmentRepo struct {
	shipments map[uint64]*model.Shipment
	nextID    uint64
}

func newFakeShipmentRepo() *fakeShipmentRepo {
	return &fakeShipmentRepo{shipments: make(map[uint64]*model.Shipment), nextID: 1}
}

func (r *fakeShipmentRepo) Create(ctx context.Context, s *model.Shipment) error {
	s.ID = r.nextID
	r.nextID++
	r.shipments[s.ID] = s
	return nil
}

func (r *fakeShipmentRepo) FindByID(ctx context.Context, id uint64) (*model.Shipment, error) {
	s, ok := r.shipments[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return s, nil
}

func (r *fakeShipmentRepo) FindByAuction(ctx context.Context, auctionID uint64) (*model.Shipment, error) {
	for _, s := range r.shipments {
		if s.AuctionID == auctionID {
			return s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeShipmentRepo) Update(ctx context.Context, s *model.Shipment) error {
	r.shipments[s.ID] = s
	return nil
}

type fakeAddressRepo struct {
	addresses map[string]*model.Address
}

func newFakeAddressRepo() *fakeAddressRepo {
	return &fakeAddressRepo{addresses: make(map[string]*model.Address)}
}

func (r *fakeAddressRepo) Create(ctx context.Context, a *model.Address) error {
	r.addresses[a.UserUID] = a
	return nil
}

func (r *fakeAddressRepo) FindDefaultByUser(ctx context.Context, userUID string) (*model.Address, error) {
	return r.addresses[userUID], nil
}

type fakeSettingRepo struct {
	settings map[string]string
}

func newFakeSettingRepo() *fakeSettingRepo {
	return &fakeSettingRepo{settings: make(map[string]string)}
}

func (r *fakeSettingRepo) Get(ctx context.Context, key string) (*model.Setting, error) {
	v, ok := r.settings[key]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &model.Setting{Key: key, Value: v}, nil
}

func (r *fakeSettingRepo) Upsert(ctx context.Context, key, value string) error {
	r.settings[key] = value
	return nil
}

type fakeNotificationRepo struct {
	notifications []model.Notification
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{}
}

func (r *fakeNotificationRepo) Create(ctx context.Context, n *model.Notification) error {
	n.ID = uint64(len(r.notifications) + 1)
	r.notifications = append(r.notifications, *n)
	return nil
}

func (r *fakeNotificationRepo) ListByUser(ctx context.Context, userUID string, unreadOnly bool, limit int) ([]model.Notification, error) {
	var list []model.Notification
	for _, n := range r.notifications {
		if n.UserUID != userUID {
			continue
		}
		if unreadOnly && n.ReadAt != nil {
			continue
		}
		list = append(list, n)
	}
	if limit > 0 && len(list) > limit {
		list = list[:limit]
	}
	return list, nil
}

func (r *fakeNotificationRepo) CountUnread(ctx context.Context, userUID string) (int64, error) {
	var cnt int64
	for _, n := range r.notifications {
		if n.UserUID == userUID && n.ReadAt == nil {
			cnt++
		}
	}
	return cnt, nil
}

func (r *fakeNotificationRepo) MarkAllRead(ctx context.Context, userUID string) error {
	now := time.Now()
	for i := range r.notifications {
		if r.notifications[i].UserUID == userUID && r.notifications[i].ReadAt == nil {
			r.notifications[i].ReadAt = &now
		}
	}
	return nil
}

func (r *fakeNotificationRepo) typesFor(userUID string) []string {
	var types []string
	for _, n := range r.notifications {
		if n.UserUID == userUID {
			types = append(types, n.Type)
		}
	}
	return types
}
