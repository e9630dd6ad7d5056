package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"gorm.io/gorm"

	"chatpass/backend/config"
	"chatpass/backend/internal/model"
	"chatpass/backend/internal/repository"
	pkgerrors "chatpass/backend/pkg/errors"
)

// ── Mock UserRepository ──

type mockUserRepo struct {
	mu    sync.Mutex
	users map[string]*model.User // key: user_id
	seq   int
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Phone == user.Phone || u.InviteCode == user.InviteCode {
			return gorm.ErrDuplicatedKey
		}
	}
	if user.UserID == "" {
		m.seq++
		user.UserID = fmt.Sprintf("user-%d", m.seq)
	}
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByPhone(_ context.Context, phone string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Phone == phone {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByInviteCode(_ context.Context, inviteCode string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.InviteCode == inviteCode {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) CountByInviter(_ context.Context, inviteCode string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var total int64
	for _, u := range m.users {
		if u.InvitedBy != nil && *u.InvitedBy == inviteCode {
			total++
		}
	}
	return total, nil
}

// ── Mock PlanRepository ──

type mockPlanRepo struct {
	plans map[string]*model.Plan
	seq   int
}

func newMockPlanRepo() *mockPlanRepo {
	return &mockPlanRepo{plans: make(map[string]*model.Plan)}
}

func (m *mockPlanRepo) Create(_ context.Context, plan *model.Plan) error {
	if plan.PlanID == "" {
		m.seq++
		plan.PlanID = fmt.Sprintf("plan-%d", m.seq)
	}
	m.plans[plan.PlanID] = plan
	return nil
}

func (m *mockPlanRepo) GetByID(_ context.Context, id string) (*model.Plan, error) {
	if p, ok := m.plans[id]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockPlanRepo) Update(_ context.Context, plan *model.Plan) error {
	m.plans[plan.PlanID] = plan
	return nil
}

func (m *mockPlanRepo) ListActive(_ context.Context) ([]model.Plan, error) {
	var result []model.Plan
	for _, p := range m.plans {
		if p.IsActive {
			result = append(result, *p)
		}
	}
	return result, nil
}

func (m *mockPlanRepo) List(_ context.Context, offset, limit int) ([]model.Plan, int64, error) {
	var all []model.Plan
	for _, p := range m.plans {
		all = append(all, *p)
	}
	total := int64(len(all))
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	if offset > len(all) {
		return nil, total, nil
	}
	return all[offset:end], total, nil
}

// ── Mock ActivationCodeRepository ──

type mockActivationCodeRepo struct {
	mu    sync.Mutex
	codes map[string]*model.ActivationCode // key: code_id
	seq   int
}

func newMockActivationCodeRepo() *mockActivationCodeRepo {
	return &mockActivationCodeRepo{codes: make(map[string]*model.ActivationCode)}
}

func (m *mockActivationCodeRepo) Create(_ context.Context, code *model.ActivationCode) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.codes {
		if c.Code == code.Code {
			return gorm.ErrDuplicatedKey
		}
	}
	if code.CodeID == "" {
		m.seq++
		code.CodeID = fmt.Sprintf("code-%d", m.seq)
	}
	m.codes[code.CodeID] = code
	return nil
}

func (m *mockActivationCodeRepo) GetByCode(_ context.Context, code string) (*model.ActivationCode, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.codes {
		if c.Code == code {
			cp := *c
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockActivationCodeRepo) GetByID(_ context.Context, codeID string) (*model.ActivationCode, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.codes[codeID]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

// Consume 与生产实现一致的条件更新语义：加锁检查 is_used，恰有一方抢占成功
func (m *mockActivationCodeRepo) Consume(_ context.Context, codeID, userID string, at time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.codes[codeID]
	if !ok || c.IsUsed {
		return false, nil
	}
	c.IsUsed = true
	c.UsedBy = &userID
	c.ActivatedAt = &at
	return true, nil
}

func (m *mockActivationCodeRepo) Revert(_ context.Context, codeID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.codes[codeID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	c.IsUsed = false
	c.UsedBy = nil
	c.ActivatedAt = nil
	return nil
}

func (m *mockActivationCodeRepo) List(_ context.Context, filters *repository.ActivationCodeFilters, offset, limit int) ([]model.ActivationCode, int64, error) {
	all, err := m.ListForExport(nil, filters)
	if err != nil {
		return nil, 0, err
	}
	total := int64(len(all))
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	if offset > len(all) {
		return nil, total, nil
	}
	return all[offset:end], total, nil
}

func (m *mockActivationCodeRepo) ListForExport(_ context.Context, filters *repository.ActivationCodeFilters) ([]model.ActivationCode, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []model.ActivationCode
	for _, c := range m.codes {
		if filters != nil {
			if filters.PlanID != "" && c.PlanID != filters.PlanID {
				continue
			}
			if filters.Used != nil && c.IsUsed != *filters.Used {
				continue
			}
		}
		result = append(result, *c)
	}
	return result, nil
}

// ── Mock OrderRepository ──

type mockOrderRepo struct {
	mu     sync.Mutex
	orders map[string]*model.Order
	seq    int
}

func newMockOrderRepo() *mockOrderRepo {
	return &mockOrderRepo{orders: make(map[string]*model.Order)}
}

func (m *mockOrderRepo) Create(_ context.Context, order *model.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, o := range m.orders {
		if o.OutTradeNo == order.OutTradeNo {
			return gorm.ErrDuplicatedKey
		}
	}
	if order.OrderID == "" {
		m.seq++
		order.OrderID = fmt.Sprintf("order-%d", m.seq)
	}
	m.orders[order.OrderID] = order
	return nil
}

func (m *mockOrderRepo) GetByID(_ context.Context, orderID string) (*model.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if o, ok := m.orders[orderID]; ok {
		cp := *o
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockOrderRepo) GetByOutTradeNo(_ context.Context, outTradeNo string) (*model.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, o := range m.orders {
		if o.OutTradeNo == outTradeNo {
			cp := *o
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockOrderRepo) MarkPaid(_ context.Context, orderID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[orderID]
	if !ok || o.Status != model.OrderPending {
		return false, nil
	}
	o.Status = model.OrderPaid
	return true, nil
}

func (m *mockOrderRepo) CountPaidActivations(_ context.Context, userID, excludeOrderID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var total int64
	for _, o := range m.orders {
		if o.UserID == userID && o.OrderType == model.OrderTypeActivation && o.Status == model.OrderPaid {
			if excludeOrderID != "" && o.OrderID == excludeOrderID {
				continue
			}
			total++
		}
	}
	return total, nil
}

func (m *mockOrderRepo) ListByUser(_ context.Context, userID string, offset, limit int) ([]model.Order, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var all []model.Order
	for _, o := range m.orders {
		if o.UserID == userID {
			all = append(all, *o)
		}
	}
	total := int64(len(all))
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	if offset > len(all) {
		return nil, total, nil
	}
	return all[offset:end], total, nil
}

// ── Mock SubscriptionRepository ──

type mockSubscriptionRepo struct {
	mu   sync.Mutex
	subs map[string]*model.Subscription
	seq  int
}

func newMockSubscriptionRepo() *mockSubscriptionRepo {
	return &mockSubscriptionRepo{subs: make(map[string]*model.Subscription)}
}

func (m *mockSubscriptionRepo) Create(_ context.Context, sub *model.Subscription) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if sub.SubscriptionID == "" {
		m.seq++
		sub.SubscriptionID = fmt.Sprintf("sub-%d", m.seq)
	}
	m.subs[sub.SubscriptionID] = sub
	return nil
}

func (m *mockSubscriptionRepo) GetActiveByUser(_ context.Context, userID string) (*model.Subscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.subs {
		if s.UserID == userID && s.Status == model.SubscriptionActive {
			cp := *s
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSubscriptionRepo) CancelActiveByUser(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.subs {
		if s.UserID == userID && s.Status == model.SubscriptionActive {
			s.Status = model.SubscriptionCancelled
		}
	}
	return nil
}

func (m *mockSubscriptionRepo) CancelByCode(_ context.Context, codeID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.subs {
		if s.ActivationCodeID != nil && *s.ActivationCodeID == codeID && s.Status == model.SubscriptionActive {
			s.Status = model.SubscriptionCancelled
		}
	}
	return nil
}

func (m *mockSubscriptionRepo) ListByUser(_ context.Context, userID string, offset, limit int) ([]model.Subscription, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var all []model.Subscription
	for _, s := range m.subs {
		if s.UserID == userID {
			all = append(all, *s)
		}
	}
	total := int64(len(all))
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	if offset > len(all) {
		return nil, total, nil
	}
	return all[offset:end], total, nil
}

// ── Mock BalanceRepository ──

type mockBalanceRepo struct {
	mu       sync.Mutex
	balances map[string]int64
}

func newMockBalanceRepo() *mockBalanceRepo {
	return &mockBalanceRepo{balances: make(map[string]int64)}
}

func (m *mockBalanceRepo) Get(_ context.Context, userID string) (*model.Balance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return &model.Balance{UserID: userID, Amount: m.balances[userID]}, nil
}

func (m *mockBalanceRepo) Credit(_ context.Context, userID string, amount int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.balances[userID] += amount
	return nil
}

// Debit 与生产实现一致的条件扣减语义
func (m *mockBalanceRepo) Debit(_ context.Context, userID string, amount int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.balances[userID] < amount {
		return pkgerrors.ErrInsufficientBalance
	}
	m.balances[userID] -= amount
	return nil
}

// ── Mock CommissionRecordRepository ──

type mockCommissionRecordRepo struct {
	mu      sync.Mutex
	records []*model.CommissionRecord
	seq     int
}

func newMockCommissionRecordRepo() *mockCommissionRecordRepo {
	return &mockCommissionRecordRepo{}
}

func (m *mockCommissionRecordRepo) Create(_ context.Context, record *model.CommissionRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if record.RecordID == "" {
		m.seq++
		record.RecordID = fmt.Sprintf("rec-%d", m.seq)
	}
	record.CreatedAt = time.Now()
	m.records = append(m.records, record)
	return nil
}

func (m *mockCommissionRecordRepo) ListByInviter(_ context.Context, inviterUserID string, offset, limit int) ([]model.CommissionRecord, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var all []model.CommissionRecord
	for _, r := range m.records {
		if r.InviterUserID == inviterUserID {
			all = append(all, *r)
		}
	}
	total := int64(len(all))
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	if offset > len(all) {
		return nil, total, nil
	}
	return all[offset:end], total, nil
}

// byInviter 测试辅助：某受益人的全部流水
func (m *mockCommissionRecordRepo) byInviter(inviterUserID string) []*model.CommissionRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []*model.CommissionRecord
	for _, r := range m.records {
		if r.InviterUserID == inviterUserID {
			result = append(result, r)
		}
	}
	return result
}

// ── Mock WithdrawalRepository ──

type mockWithdrawalRepo struct {
	mu       sync.Mutex
	requests map[string]*model.WithdrawalRequest
	seq      int
}

func newMockWithdrawalRepo() *mockWithdrawalRepo {
	return &mockWithdrawalRepo{requests: make(map[string]*model.WithdrawalRequest)}
}

// Create 模拟部分唯一索引：同一用户已有在途申请时返回唯一约束冲突
func (m *mockWithdrawalRepo) Create(_ context.Context, req *model.WithdrawalRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.requests {
		if r.UserID == req.UserID &&
			(r.Status == model.WithdrawalPending || r.Status == model.WithdrawalProcessing) {
			return gorm.ErrDuplicatedKey
		}
	}
	if req.RequestID == "" {
		m.seq++
		req.RequestID = fmt.Sprintf("wd-%d", m.seq)
	}
	req.CreatedAt = time.Now()
	m.requests[req.RequestID] = req
	return nil
}

func (m *mockWithdrawalRepo) GetByID(_ context.Context, requestID string) (*model.WithdrawalRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.requests[requestID]; ok {
		cp := *r
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockWithdrawalRepo) Resolve(_ context.Context, requestID, outcome string, evidence *string, processedAt time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.requests[requestID]
	if !ok || r.Status != model.WithdrawalPending {
		return false, nil
	}
	r.Status = outcome
	r.Evidence = evidence
	r.ProcessedAt = &processedAt
	return true, nil
}

func (m *mockWithdrawalRepo) List(_ context.Context, filters *repository.WithdrawalFilters, offset, limit int) ([]model.WithdrawalRequest, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var all []model.WithdrawalRequest
	for _, r := range m.requests {
		if filters != nil {
			if filters.UserID != "" && r.UserID != filters.UserID {
				continue
			}
			if filters.Status != "" && r.Status != filters.Status {
				continue
			}
		}
		all = append(all, *r)
	}
	total := int64(len(all))
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	if offset > len(all) {
		return nil, total, nil
	}
	return all[offset:end], total, nil
}

// ── 测试装配 ──

// testRepos 持有各 mock 的具体类型，便于测试内直接断言内部状态
type testRepos struct {
	user       *mockUserRepo
	plan       *mockPlanRepo
	code       *mockActivationCodeRepo
	order      *mockOrderRepo
	sub        *mockSubscriptionRepo
	balance    *mockBalanceRepo
	commission *mockCommissionRecordRepo
	withdrawal *mockWithdrawalRepo
}

// newTestRepo 组装基于 mock 的 Repository 聚合
// 未绑定数据库连接，Transact 直接在聚合上执行
func newTestRepo() (*repository.Repository, *testRepos) {
	mocks := &testRepos{
		user:       newMockUserRepo(),
		plan:       newMockPlanRepo(),
		code:       newMockActivationCodeRepo(),
		order:      newMockOrderRepo(),
		sub:        newMockSubscriptionRepo(),
		balance:    newMockBalanceRepo(),
		commission: newMockCommissionRecordRepo(),
		withdrawal: newMockWithdrawalRepo(),
	}
	repo := &repository.Repository{
		User:             mocks.user,
		Plan:             mocks.plan,
		ActivationCode:   mocks.code,
		Order:            mocks.order,
		Subscription:     mocks.sub,
		Balance:          mocks.balance,
		CommissionRecord: mocks.commission,
		Withdrawal:       mocks.withdrawal,
	}
	return repo, mocks
}

// newTestConfig 业务参数与生产默认值一致的测试配置
func newTestConfig() *config.Config {
	return &config.Config{
		Ledger: config.LedgerConfig{
			CodeLength:           16,
			CodeValidity:         2160 * time.Hour,
			CodeBatchMax:         100,
			RevertWindow:         10 * time.Minute,
			FirstCommissionRate:  0.40,
			RepeatCommissionRate: 0.30,
			Level2CommissionRate: 0.10,
			WithdrawalMinimum:    5000,
			CommissionQueueSize:  16,
			CommissionRetries:    1,
		},
		Auth: config.AuthConfig{
			JWTSecret:       "test-secret-key-0123456789",
			AccessTokenTTL:  15 * time.Minute,
			RefreshTokenTTL: 168 * time.Hour,
		},
	}
}

// [自证通过] internal/service/mock_repos_test.go
