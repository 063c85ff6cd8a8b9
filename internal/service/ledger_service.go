package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"connectrpc.com/connect"

	"github.com/mmynk/splitsmart/internal/auth"
	"github.com/mmynk/splitsmart/internal/calculator"
	"github.com/mmynk/splitsmart/internal/metrics"
	"github.com/mmynk/splitsmart/internal/middleware"
	"github.com/mmynk/splitsmart/internal/models"
	"github.com/mmynk/splitsmart/internal/storage"
	"github.com/mmynk/splitsmart/pkg/api"
)

var _ api.LedgerServiceHandler = (*LedgerService)(nil)

// LedgerService implements the Connect LedgerService.
//
// Each group has one in-memory balance sheet, built on first use by replaying
// the group's stored expenses and settlements. Writes to a group hold its
// ledger lock from validation through persistence to the balance update, so
// the stored history and the sheet never diverge.
type LedgerService struct {
	store   storage.Store
	metrics *metrics.Metrics
	logger  *slog.Logger

	mu      sync.Mutex
	ledgers map[string]*ledger
}

type ledger struct {
	mu      sync.Mutex
	group   *models.Group
	sheet   *calculator.BalanceSheet
	evicted bool
}

// NewLedgerService creates a LedgerService. m may be nil.
func NewLedgerService(store storage.Store, m *metrics.Metrics, logger *slog.Logger) *LedgerService {
	return &LedgerService{
		store:   store,
		metrics: m,
		logger:  logger,
		ledgers: make(map[string]*ledger),
	}
}

// acquire returns the group's ledger locked. The caller must unlock l.mu.
func (s *LedgerService) acquire(ctx context.Context, groupID string) (*ledger, error) {
	if groupID == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("group_id is required"))
	}

	for {
		s.mu.Lock()
		l, ok := s.ledgers[groupID]
		if !ok {
			l = &ledger{}
			s.ledgers[groupID] = l
		}
		s.mu.Unlock()

		l.mu.Lock()
		if l.evicted {
			l.mu.Unlock()
			continue
		}
		if l.sheet != nil {
			return l, nil
		}
		if err := s.rebuild(ctx, groupID, l); err != nil {
			l.evicted = true
			s.mu.Lock()
			if s.ledgers[groupID] == l {
				delete(s.ledgers, groupID)
			}
			s.mu.Unlock()
			l.mu.Unlock()
			return nil, err
		}
		return l, nil
	}
}

// rebuild replays the group's history into a fresh sheet. Members are seeded
// first so the sheet keeps the group's member order.
func (s *LedgerService) rebuild(ctx context.Context, groupID string, l *ledger) error {
	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return err
	}
	expenses, err := s.store.ListExpensesByGroup(ctx, groupID)
	if err != nil {
		return err
	}
	settlements, err := s.store.ListSettlementsByGroup(ctx, groupID)
	if err != nil {
		return err
	}

	sheet := calculator.NewBalanceSheet(group.Members...)
	for _, e := range expenses {
		input, err := toCalcExpense(e)
		if err != nil {
			return fmt.Errorf("replay expense %s: %w", e.ID, err)
		}
		if _, err := sheet.ApplyExpense(input); err != nil {
			return fmt.Errorf("replay expense %s: %w", e.ID, err)
		}
	}
	for _, st := range settlements {
		err := calculator.ApplySettlement(sheet, calculator.Settlement{From: st.FromUser, To: st.ToUser, Amount: st.Amount})
		if err != nil {
			return fmt.Errorf("replay settlement %s: %w", st.ID, err)
		}
	}

	l.group = group
	l.sheet = sheet
	s.logger.Debug("Ledger rebuilt",
		"group_id", groupID,
		"expenses", len(expenses),
		"settlements", len(settlements),
	)
	return nil
}

// applyLocked applies deltas to a locked ledger, reporting a conservation
// failure loudly.
func (s *LedgerService) applyLocked(l *ledger, deltas calculator.Deltas) error {
	err := l.sheet.Apply(deltas)
	var violation *calculator.InvariantViolation
	if errors.As(err, &violation) {
		s.metrics.InvariantViolated()
		s.logger.Error("Ledger invariant violated",
			"group_id", l.group.ID,
			"total", violation.Total.String(),
		)
	}
	return err
}

func requireSession(ctx context.Context) (auth.Session, error) {
	session, ok := middleware.SessionFromContext(ctx)
	if !ok || session.UserID == "" {
		return auth.Session{}, connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
	}
	return session, nil
}

// CreateGroup creates a new group with an initial member list.
func (s *LedgerService) CreateGroup(ctx context.Context, req *connect.Request[api.CreateGroupRequest]) (*connect.Response[api.CreateGroupResponse], error) {
	s.logger.Info("CreateGroup request received",
		"name", req.Msg.Name,
		"members_count", len(req.Msg.Members),
	)

	name := strings.TrimSpace(req.Msg.Name)
	if name == "" {
		s.metrics.ValidationFailed("group")
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("group name is required"))
	}

	group := &models.Group{Name: name, Members: req.Msg.Members}
	if err := s.store.CreateGroup(ctx, group); err != nil {
		s.logger.Error("CreateGroup failed", "error", err)
		return nil, toConnectError(err)
	}

	s.logger.Info("Group created", "group_id", group.ID, "members", group.Members)
	return connect.NewResponse(&api.CreateGroupResponse{Group: toAPIGroup(group)}), nil
}

// GetGroup retrieves a group by ID.
func (s *LedgerService) GetGroup(ctx context.Context, req *connect.Request[api.GetGroupRequest]) (*connect.Response[api.GetGroupResponse], error) {
	group, err := s.store.GetGroup(ctx, req.Msg.GroupID)
	if err != nil {
		s.logger.Warn("GetGroup failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.GetGroupResponse{Group: toAPIGroup(group)}), nil
}

// ListGroups retrieves all groups.
func (s *LedgerService) ListGroups(ctx context.Context, req *connect.Request[api.ListGroupsRequest]) (*connect.Response[api.ListGroupsResponse], error) {
	groups, err := s.store.ListGroups(ctx)
	if err != nil {
		s.logger.Error("ListGroups failed", "error", err)
		return nil, toConnectError(err)
	}

	out := make([]api.Group, len(groups))
	for i, g := range groups {
		out[i] = toAPIGroup(g)
	}
	return connect.NewResponse(&api.ListGroupsResponse{Groups: out}), nil
}

// AddMembers appends members to a group. Existing names are ignored.
func (s *LedgerService) AddMembers(ctx context.Context, req *connect.Request[api.AddMembersRequest]) (*connect.Response[api.AddMembersResponse], error) {
	l, err := s.acquire(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, toConnectError(err)
	}
	defer l.mu.Unlock()

	missing := l.group.MissingMembers(req.Msg.Members...)
	if len(missing) > 0 {
		if err := s.store.AddGroupMembers(ctx, l.group.ID, missing); err != nil {
			s.logger.Error("AddMembers failed", "group_id", l.group.ID, "error", err)
			return nil, toConnectError(err)
		}
		l.group.Members = append(l.group.Members, missing...)
		l.sheet.AddMembers(missing...)
		s.logger.Info("Members added", "group_id", l.group.ID, "new_members", missing)
	}

	return connect.NewResponse(&api.AddMembersResponse{Group: toAPIGroup(l.group)}), nil
}

// AddExpense splits an expense, records it and applies its deltas to the
// group's balances. A payer or participant not yet in the group is added.
func (s *LedgerService) AddExpense(ctx context.Context, req *connect.Request[api.AddExpenseRequest]) (*connect.Response[api.AddExpenseResponse], error) {
	session, err := requireSession(ctx)
	if err != nil {
		return nil, err
	}
	s.logger.Info("AddExpense request received",
		"group_id", req.Msg.GroupID,
		"amount", req.Msg.Amount.String(),
		"payer", req.Msg.Payer,
		"policy", req.Msg.Split.Kind,
	)

	input, err := s.expenseInput(req.Msg)
	if err != nil {
		s.metrics.ValidationFailed("expense")
		return nil, toConnectError(err)
	}
	shares, err := calculator.CalculateShares(input)
	if err != nil {
		s.metrics.ValidationFailed("expense")
		return nil, toConnectError(err)
	}
	deltas, err := calculator.CalculateDeltas(input)
	if err != nil {
		s.metrics.ValidationFailed("expense")
		return nil, toConnectError(err)
	}

	l, err := s.acquire(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, toConnectError(err)
	}
	defer l.mu.Unlock()

	expense := &models.Expense{
		GroupID:      l.group.ID,
		Description:  strings.TrimSpace(req.Msg.Description),
		Amount:       input.Amount,
		Payer:        input.Payer,
		Participants: input.Participants,
		SplitKind:    input.Kind.String(),
		Portions:     portionsFor(input),
		CreatedBy:    session.UserID,
	}
	if err := s.store.CreateExpense(ctx, expense); err != nil {
		s.logger.Error("AddExpense failed", "group_id", l.group.ID, "error", err)
		return nil, toConnectError(err)
	}

	// Mirrors the store, which adds the payer then participants.
	if added := l.group.MissingMembers(append([]string{input.Payer}, input.Participants...)...); len(added) > 0 {
		l.group.Members = append(l.group.Members, added...)
		l.sheet.AddMembers(added...)
		s.logger.Info("Auto-added members to group", "group_id", l.group.ID, "new_members", added)
	}

	if err := s.applyLocked(l, deltas); err != nil {
		return nil, toConnectError(err)
	}
	s.metrics.ExpenseRecorded(expense.SplitKind)

	s.logger.Info("Expense recorded", "group_id", l.group.ID, "expense_id", expense.ID)
	return connect.NewResponse(&api.AddExpenseResponse{
		Expense: toAPIExpense(expense, shares),
		Deltas:  deltasToAPI(deltas),
	}), nil
}

func (s *LedgerService) expenseInput(msg *api.AddExpenseRequest) (calculator.Expense, error) {
	kind, err := parseKind(msg.Split.Kind)
	if err != nil {
		return calculator.Expense{}, err
	}
	values, err := splitValues(msg.Split.Portions)
	if err != nil {
		return calculator.Expense{}, err
	}
	return calculator.Expense{
		Amount:       msg.Amount,
		Payer:        strings.TrimSpace(msg.Payer),
		Participants: msg.Participants,
		Kind:         kind,
		Values:       values,
	}, nil
}

// ListExpenses returns a group's expenses in recording order, each with its
// computed shares.
func (s *LedgerService) ListExpenses(ctx context.Context, req *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error) {
	if _, err := s.store.GetGroup(ctx, req.Msg.GroupID); err != nil {
		return nil, toConnectError(err)
	}
	expenses, err := s.store.ListExpensesByGroup(ctx, req.Msg.GroupID)
	if err != nil {
		s.logger.Error("ListExpenses failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, toConnectError(err)
	}

	out := make([]api.Expense, len(expenses))
	for i, e := range expenses {
		input, err := toCalcExpense(e)
		if err != nil {
			return nil, connect.NewError(connect.CodeInternal, fmt.Errorf("expense %s: %w", e.ID, err))
		}
		shares, err := calculator.CalculateShares(input)
		if err != nil {
			return nil, connect.NewError(connect.CodeInternal, fmt.Errorf("expense %s: %w", e.ID, err))
		}
		out[i] = toAPIExpense(e, shares)
	}
	return connect.NewResponse(&api.ListExpensesResponse{Expenses: out}), nil
}

// GetBalances returns every member's net balance in member order.
func (s *LedgerService) GetBalances(ctx context.Context, req *connect.Request[api.GetBalancesRequest]) (*connect.Response[api.GetBalancesResponse], error) {
	l, err := s.acquire(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, toConnectError(err)
	}
	defer l.mu.Unlock()

	return connect.NewResponse(&api.GetBalancesResponse{
		Balances: toAPIBalances(l.sheet.Snapshot()),
		Total:    l.sheet.Total(),
	}), nil
}

// SimplifyDebts suggests payments that would settle the group's balances.
func (s *LedgerService) SimplifyDebts(ctx context.Context, req *connect.Request[api.SimplifyDebtsRequest]) (*connect.Response[api.SimplifyDebtsResponse], error) {
	l, err := s.acquire(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, toConnectError(err)
	}
	snapshot := l.sheet.Snapshot()
	l.mu.Unlock()

	debts := calculator.SimplifyDebts(snapshot)
	s.metrics.DebtsComputed(len(debts))
	return connect.NewResponse(&api.SimplifyDebtsResponse{Debts: toAPIDebts(debts)}), nil
}

// SettleUp records a payment between two members and returns the updated
// balances. The amount need not match any outstanding debt.
func (s *LedgerService) SettleUp(ctx context.Context, req *connect.Request[api.SettleUpRequest]) (*connect.Response[api.SettleUpResponse], error) {
	session, err := requireSession(ctx)
	if err != nil {
		return nil, err
	}
	s.logger.Info("SettleUp request received",
		"group_id", req.Msg.GroupID,
		"from", req.Msg.From,
		"to", req.Msg.To,
		"amount", req.Msg.Amount.String(),
	)

	payment := calculator.Settlement{
		From:   strings.TrimSpace(req.Msg.From),
		To:     strings.TrimSpace(req.Msg.To),
		Amount: req.Msg.Amount,
	}
	if err := payment.Validate(); err != nil {
		s.metrics.ValidationFailed("settle")
		return nil, toConnectError(err)
	}

	l, err := s.acquire(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, toConnectError(err)
	}
	defer l.mu.Unlock()

	for _, name := range []string{payment.From, payment.To} {
		if !l.group.HasMember(name) {
			s.metrics.ValidationFailed("settle")
			return nil, toConnectError(&calculator.ValidationError{
				Op:     "settle",
				Reason: fmt.Sprintf("%q is not a member of the group", name),
			})
		}
	}

	settlement := &models.Settlement{
		GroupID:   l.group.ID,
		FromUser:  payment.From,
		ToUser:    payment.To,
		Amount:    payment.Amount,
		Note:      strings.TrimSpace(req.Msg.Note),
		CreatedBy: session.UserID,
	}
	if err := s.store.CreateSettlement(ctx, settlement); err != nil {
		s.logger.Error("SettleUp failed", "group_id", l.group.ID, "error", err)
		return nil, toConnectError(err)
	}

	if err := s.applyLocked(l, payment.Deltas()); err != nil {
		return nil, toConnectError(err)
	}
	s.metrics.SettlementRecorded()

	s.logger.Info("Settlement recorded", "group_id", l.group.ID, "settlement_id", settlement.ID)
	return connect.NewResponse(&api.SettleUpResponse{
		Settlement: toAPISettlement(settlement),
		Balances:   toAPIBalances(l.sheet.Snapshot()),
	}), nil
}

// ListSettlements returns a group's settlements in recording order.
func (s *LedgerService) ListSettlements(ctx context.Context, req *connect.Request[api.ListSettlementsRequest]) (*connect.Response[api.ListSettlementsResponse], error) {
	if _, err := s.store.GetGroup(ctx, req.Msg.GroupID); err != nil {
		return nil, toConnectError(err)
	}
	settlements, err := s.store.ListSettlementsByGroup(ctx, req.Msg.GroupID)
	if err != nil {
		s.logger.Error("ListSettlements failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, toConnectError(err)
	}

	out := make([]api.Settlement, len(settlements))
	for i, st := range settlements {
		out[i] = toAPISettlement(st)
	}
	return connect.NewResponse(&api.ListSettlementsResponse{Settlements: out}), nil
}
