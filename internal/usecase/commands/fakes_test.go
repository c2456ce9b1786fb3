//go:build unit

package commands_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"storebot/internal/domain/coupon"
	"storebot/internal/domain/gift"
	"storebot/internal/domain/item"
	"storebot/internal/domain/order"
	"storebot/internal/domain/review"
	"storebot/internal/infra"
	"storebot/internal/infra/db"
	"storebot/internal/usecase/commands"
	"storebot/internal/usecase/shared"
)

func notFound(msg string) error {
	return infra.WrapRepoErr(msg, nil, infra.KindNotFound)
}

// fakeStore is an in-memory stand-in for the persistence layer. All fake
// repositories mutate it directly; command semantics (CAS updates, atomic
// stock guards) are reproduced faithfully.
type fakeStore struct {
	mu          sync.Mutex
	items       map[item.ID]*shared.ItemSnapshot
	orders      map[int64]*shared.OrderSnapshot
	coupons     map[string]*shared.CouponSnapshot
	gifts       map[string]*shared.GiftSnapshot
	reviews     map[int64]uuid.UUID
	nextOrderID int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		items:   map[item.ID]*shared.ItemSnapshot{},
		orders:  map[int64]*shared.OrderSnapshot{},
		coupons: map[string]*shared.CouponSnapshot{},
		gifts:   map[string]*shared.GiftSnapshot{},
		reviews: map[int64]uuid.UUID{},
	}
}

func (s *fakeStore) addItem(id string, priceCents int64, quantity, maxCapacity int) {
	s.items[item.ID(id)] = &shared.ItemSnapshot{
		ID:          item.ID(id),
		Name:        id,
		PriceCents:  priceCents,
		Quantity:    quantity,
		MaxCapacity: maxCapacity,
	}
}

func (s *fakeStore) addCoupon(code string, percent, uses int, active bool) {
	s.coupons[code] = &shared.CouponSnapshot{
		ID:              uuid.New(),
		Code:            code,
		DiscountPercent: percent,
		UsesLeft:        uses,
		Active:          active,
	}
}

func (s *fakeStore) addGift(code, itemID string) {
	s.gifts[code] = &shared.GiftSnapshot{
		ID:     uuid.New(),
		Code:   code,
		ItemID: item.ID(itemID),
	}
}

type fakeUoW struct {
	store *fakeStore
}

func (u *fakeUoW) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	return fn(ctx, &fakeTx{store: u.store})
}

func (u *fakeUoW) WithinReadOnly(ctx context.Context, fn func(ctx context.Context, dbtx db.DBTX) error) error {
	return fn(ctx, nil)
}

func (u *fakeUoW) WithDB(ctx context.Context, fn func(ctx context.Context, dbtx db.DBTX) error) error {
	return fn(ctx, nil)
}

func (u *fakeUoW) CommandReads() shared.CommandReads {
	return &fakeReads{store: u.store}
}

type fakeTx struct {
	store *fakeStore
}

func (t *fakeTx) Orders() shared.OrderRepository   { return &fakeOrderRepo{store: t.store} }
func (t *fakeTx) Items() shared.ItemRepository     { return &fakeItemRepo{store: t.store} }
func (t *fakeTx) Coupons() shared.CouponRepository { return &fakeCouponRepo{store: t.store} }
func (t *fakeTx) Gifts() shared.GiftRepository     { return &fakeGiftRepo{store: t.store} }
func (t *fakeTx) Reviews() shared.ReviewRepository { return &fakeReviewRepo{store: t.store} }
func (t *fakeTx) Reads() shared.CommandReads       { return &fakeReads{store: t.store} }
func (t *fakeTx) DB() db.DBTX                      { return nil }

type fakeReads struct {
	store *fakeStore
}

func (r *fakeReads) ItemByID(_ context.Context, id item.ID) (*shared.ItemSnapshot, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	snap, ok := r.store.items[id]
	if !ok {
		return nil, notFound("item not found")
	}
	cp := *snap
	return &cp, nil
}

func (r *fakeReads) OrderByID(_ context.Context, id int64) (*shared.OrderSnapshot, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	snap, ok := r.store.orders[id]
	if !ok {
		return nil, notFound("order not found")
	}
	cp := *snap
	return &cp, nil
}

func (r *fakeReads) CouponByCode(_ context.Context, code string) (*shared.CouponSnapshot, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	snap, ok := r.store.coupons[code]
	if !ok {
		return nil, notFound("coupon not found")
	}
	cp := *snap
	return &cp, nil
}

func (r *fakeReads) GiftByCode(_ context.Context, code string) (*shared.GiftSnapshot, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	snap, ok := r.store.gifts[code]
	if !ok {
		return nil, notFound("gift not found")
	}
	cp := *snap
	return &cp, nil
}

type fakeOrderRepo struct {
	store *fakeStore
}

func (r *fakeOrderRepo) Create(_ context.Context, _ db.DBTX, o *order.Order) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	r.store.nextOrderID++
	id := r.store.nextOrderID
	r.store.orders[id] = &shared.OrderSnapshot{
		ID:                id,
		BuyerRef:          o.BuyerRef(),
		ItemID:            o.ItemID(),
		ItemName:          o.ItemName(),
		Quantity:          o.Quantity(),
		UnitPriceCents:    o.UnitPrice().Cents(),
		DiscountPercent:   o.DiscountPercent(),
		CouponCode:        o.CouponCode(),
		Status:            o.Status(),
		TicketChannelID:   o.TicketChannelID(),
		DeliveryChannelID: o.DeliveryChannelID(),
		PhotoRef:          o.PhotoRef(),
		CreatedAt:         time.Now(),
	}
	return id, nil
}

func (r *fakeOrderRepo) UpdateStatus(_ context.Context, _ db.DBTX, id int64, from, to order.Status) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	snap, ok := r.store.orders[id]
	if !ok || snap.Status != from {
		return false, nil
	}
	snap.Status = to
	return true, nil
}

func (r *fakeOrderRepo) SetTicketChannel(_ context.Context, _ db.DBTX, id int64, channelID string) error {
	return r.mutate(id, func(snap *shared.OrderSnapshot) { snap.TicketChannelID = channelID })
}

func (r *fakeOrderRepo) SetDeliveryChannel(_ context.Context, _ db.DBTX, id int64, channelID string) error {
	return r.mutate(id, func(snap *shared.OrderSnapshot) { snap.DeliveryChannelID = channelID })
}

func (r *fakeOrderRepo) SetProof(_ context.Context, _ db.DBTX, id int64, photoRef, note string) error {
	return r.mutate(id, func(snap *shared.OrderSnapshot) {
		snap.PhotoRef = photoRef
		snap.Note = note
	})
}

func (r *fakeOrderRepo) SetCoupon(_ context.Context, _ db.DBTX, id int64, code string, discountPercent int) error {
	return r.mutate(id, func(snap *shared.OrderSnapshot) {
		snap.CouponCode = code
		snap.DiscountPercent = discountPercent
	})
}

func (r *fakeOrderRepo) mutate(id int64, fn func(*shared.OrderSnapshot)) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	snap, ok := r.store.orders[id]
	if !ok {
		return notFound("order not found")
	}
	fn(snap)
	return nil
}

type fakeItemRepo struct {
	store *fakeStore
}

func (r *fakeItemRepo) Upsert(_ context.Context, _ db.DBTX, it *item.Item) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	r.store.items[it.ID()] = &shared.ItemSnapshot{
		ID:          it.ID(),
		Name:        it.Name(),
		Emoji:       it.Emoji(),
		PriceCents:  it.Price().Cents(),
		Quantity:    it.Quantity(),
		MaxCapacity: it.MaxCapacity(),
	}
	return nil
}

func (r *fakeItemRepo) AdjustStock(_ context.Context, _ db.DBTX, id item.ID, delta int) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	snap, ok := r.store.items[id]
	if !ok {
		return false, nil
	}
	next := snap.Quantity + delta
	if next < 0 || next > snap.MaxCapacity {
		return false, nil
	}
	snap.Quantity = next
	return true, nil
}

func (r *fakeItemRepo) Delete(_ context.Context, _ db.DBTX, id item.ID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.items[id]; !ok {
		return notFound("item not found")
	}
	for _, o := range r.store.orders {
		if o.ItemID == id {
			return infra.WrapRepoErr("item referenced by orders", nil, infra.KindForeignKeyViolated)
		}
	}
	for _, g := range r.store.gifts {
		if g.ItemID == id {
			return infra.WrapRepoErr("item referenced by gift codes", nil, infra.KindForeignKeyViolated)
		}
	}
	delete(r.store.items, id)
	return nil
}

type fakeCouponRepo struct {
	store *fakeStore
}

func (r *fakeCouponRepo) Create(_ context.Context, _ db.DBTX, c *coupon.Coupon) (uuid.UUID, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, exists := r.store.coupons[c.Code().String()]; exists {
		return uuid.Nil, infra.WrapRepoErr("duplicate coupon", nil, infra.KindDuplicateKey)
	}
	r.store.coupons[c.Code().String()] = &shared.CouponSnapshot{
		ID:              c.ID(),
		Code:            c.Code().String(),
		DiscountPercent: c.DiscountPercent(),
		UsesLeft:        c.UsesLeft(),
		Active:          c.Active(),
	}
	return c.ID(), nil
}

func (r *fakeCouponRepo) Redeem(_ context.Context, _ db.DBTX, code string) (*shared.CouponSnapshot, bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	snap, ok := r.store.coupons[code]
	if !ok || !snap.Active || snap.UsesLeft <= 0 {
		return nil, false, nil
	}
	snap.UsesLeft--
	cp := *snap
	return &cp, true, nil
}

func (r *fakeCouponRepo) SetActive(_ context.Context, _ db.DBTX, id uuid.UUID, active bool) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, snap := range r.store.coupons {
		if snap.ID == id {
			snap.Active = active
			return nil
		}
	}
	return notFound("coupon not found")
}

func (r *fakeCouponRepo) Delete(_ context.Context, _ db.DBTX, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for code, snap := range r.store.coupons {
		if snap.ID == id {
			delete(r.store.coupons, code)
			return nil
		}
	}
	return notFound("coupon not found")
}

type fakeGiftRepo struct {
	store *fakeStore
}

func (r *fakeGiftRepo) Create(_ context.Context, _ db.DBTX, g *gift.Gift) (uuid.UUID, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	r.store.gifts[g.Code()] = &shared.GiftSnapshot{
		ID:     g.ID(),
		Code:   g.Code(),
		ItemID: g.ItemID(),
	}
	return g.ID(), nil
}

func (r *fakeGiftRepo) Redeem(_ context.Context, _ db.DBTX, code, _ string, _ time.Time) (*shared.GiftSnapshot, bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	snap, ok := r.store.gifts[code]
	if !ok || snap.Redeemed {
		return nil, false, nil
	}
	snap.Redeemed = true
	cp := *snap
	return &cp, true, nil
}

type fakeReviewRepo struct {
	store *fakeStore
}

func (r *fakeReviewRepo) Create(_ context.Context, _ db.DBTX, rev *review.Review) (uuid.UUID, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, exists := r.store.reviews[rev.OrderID()]; exists {
		return uuid.Nil, infra.WrapRepoErr("duplicate review", nil, infra.KindDuplicateKey)
	}
	r.store.reviews[rev.OrderID()] = rev.ID()
	return rev.ID(), nil
}

// fakeChat records outbound chat calls and can be told to fail them.
type fakeChat struct {
	mu sync.Mutex

	ticketChannels   []string
	deliveryChannels []string
	sent             map[string][]commands.Message
	reviewsPosts     []commands.Message
	deleted          []string
	rolesGranted     []string

	failTicketChannel   bool
	failDeliveryChannel bool
}

func newFakeChat() *fakeChat {
	return &fakeChat{sent: map[string][]commands.Message{}}
}

func (c *fakeChat) CreateTicketChannel(_ context.Context, _ string, orderID int64) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failTicketChannel {
		return "", errFakeChat
	}
	id := channelName("ticket", orderID)
	c.ticketChannels = append(c.ticketChannels, id)
	return id, nil
}

func (c *fakeChat) CreateDeliveryChannel(_ context.Context, _ string, orderID int64) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failDeliveryChannel {
		return "", errFakeChat
	}
	id := channelName("delivery", orderID)
	c.deliveryChannels = append(c.deliveryChannels, id)
	return id, nil
}

func (c *fakeChat) SendMessage(_ context.Context, channelID string, msg commands.Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sent[channelID] = append(c.sent[channelID], msg)
	return nil
}

func (c *fakeChat) SendToReviews(_ context.Context, msg commands.Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reviewsPosts = append(c.reviewsPosts, msg)
	return nil
}

func (c *fakeChat) DeleteChannel(_ context.Context, channelID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.deleted = append(c.deleted, channelID)
	return nil
}

func (c *fakeChat) GrantClientRole(_ context.Context, buyerRef string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rolesGranted = append(c.rolesGranted, buyerRef)
	return nil
}

var errFakeChat = errors.New("chat unavailable")

func channelName(prefix string, orderID int64) string {
	return fmt.Sprintf("%s-%d", prefix, orderID)
}

// fakePayment issues deterministic charges, optionally failing.
type fakePayment struct {
	failCharge bool
	charges    []string
}

func (p *fakePayment) CreateCharge(_ context.Context, txid string, amountCents int64, _ string) (*commands.Charge, error) {
	if p.failCharge {
		return nil, errFakeChat
	}
	p.charges = append(p.charges, txid)
	return &commands.Charge{
		TxID:        txid,
		QRCodeText:  "pix-" + txid,
		AmountCents: amountCents,
	}, nil
}

// fakeScheduler records timers without running them; tests fire the
// captured callbacks directly.
type fakeScheduler struct {
	mu        sync.Mutex
	callbacks map[int64]func(ctx context.Context)
	cancelled []int64
}

func newFakeScheduler() *fakeScheduler {
	return &fakeScheduler{callbacks: map[int64]func(ctx context.Context){}}
}

func (s *fakeScheduler) Schedule(key int64, _ time.Duration, fn func(ctx context.Context)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.callbacks[key] = fn
}

func (s *fakeScheduler) Cancel(key int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.callbacks[key]
	delete(s.callbacks, key)
	s.cancelled = append(s.cancelled, key)
	return ok
}

func (s *fakeScheduler) fire(ctx context.Context, key int64) bool {
	s.mu.Lock()
	fn, ok := s.callbacks[key]
	delete(s.callbacks, key)
	s.mu.Unlock()
	if !ok {
		return false
	}
	fn(ctx)
	return true
}
