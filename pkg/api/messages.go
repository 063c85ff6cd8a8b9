package api

import (
	"time"

	"github.com/shopspring/decimal"
)

// Group is a set of members sharing one ledger.
type Group struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Members   []string  `json:"members"`
	CreatedAt time.Time `json:"created_at"`
}

type CreateGroupRequest struct {
	Name    string   `json:"name"`
	Members []string `json:"members"`
}

type CreateGroupResponse struct {
	Group Group `json:"group"`
}

type GetGroupRequest struct {
	GroupID string `json:"group_id"`
}

type GetGroupResponse struct {
	Group Group `json:"group"`
}

type ListGroupsRequest struct{}

type ListGroupsResponse struct {
	Groups []Group `json:"groups"`
}

type AddMembersRequest struct {
	GroupID string   `json:"group_id"`
	Members []string `json:"members"`
}

type AddMembersResponse struct {
	Group Group `json:"group"`
}

// Portion is one participant's raw split input: an amount for "unequal", a
// percentage for "percent" or a share count for "shares".
type Portion struct {
	Participant string          `json:"participant"`
	Value       decimal.Decimal `json:"value"`
}

// Split names the policy and carries its inputs. Kind is one of "equal",
// "unequal", "percent" or "shares"; an empty Kind means "equal".
type Split struct {
	Kind     string    `json:"kind"`
	Portions []Portion `json:"portions,omitempty"`
}

// Share is what one participant owes for an expense.
type Share struct {
	User   string          `json:"user"`
	Amount decimal.Decimal `json:"amount"`
}

// Balance is a net position. Positive = owed money, negative = owes money.
type Balance struct {
	User   string          `json:"user"`
	Amount decimal.Decimal `json:"amount"`
}

type Expense struct {
	ID           string          `json:"id"`
	GroupID      string          `json:"group_id"`
	Description  string          `json:"description"`
	Amount       decimal.Decimal `json:"amount"`
	Payer        string          `json:"payer"`
	Participants []string        `json:"participants"`
	Split        Split           `json:"split"`
	Shares       []Share         `json:"shares"`
	CreatedAt    time.Time       `json:"created_at"`
	CreatedBy    string          `json:"created_by"`
}

type AddExpenseRequest struct {
	GroupID      string          `json:"group_id"`
	Description  string          `json:"description"`
	Amount       decimal.Decimal `json:"amount"`
	Payer        string          `json:"payer"`
	Participants []string        `json:"participants"`
	Split        Split           `json:"split"`
}

type AddExpenseResponse struct {
	Expense Expense `json:"expense"`
	// Deltas are the balance changes this expense applied, payer first.
	Deltas []Balance `json:"deltas"`
}

type ListExpensesRequest struct {
	GroupID string `json:"group_id"`
}

type ListExpensesResponse struct {
	Expenses []Expense `json:"expenses"`
}

type GetBalancesRequest struct {
	GroupID string `json:"group_id"`
}

type GetBalancesResponse struct {
	Balances []Balance `json:"balances"`
	// Total is the sum of all balances and is always zero.
	Total decimal.Decimal `json:"total"`
}

// Debt is a suggested payment: From owes To the amount.
type Debt struct {
	From   string          `json:"from"`
	To     string          `json:"to"`
	Amount decimal.Decimal `json:"amount"`
}

type SimplifyDebtsRequest struct {
	GroupID string `json:"group_id"`
}

type SimplifyDebtsResponse struct {
	Debts []Debt `json:"debts"`
}

type Settlement struct {
	ID        string          `json:"id"`
	GroupID   string          `json:"group_id"`
	From      string          `json:"from"`
	To        string          `json:"to"`
	Amount    decimal.Decimal `json:"amount"`
	Note      string          `json:"note,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	CreatedBy string          `json:"created_by"`
}

type SettleUpRequest struct {
	GroupID string          `json:"group_id"`
	From    string          `json:"from"`
	To      string          `json:"to"`
	Amount  decimal.Decimal `json:"amount"`
	Note    string          `json:"note,omitempty"`
}

type SettleUpResponse struct {
	Settlement Settlement `json:"settlement"`
	Balances   []Balance  `json:"balances"`
}

type ListSettlementsRequest struct {
	GroupID string `json:"group_id"`
}

type ListSettlementsResponse struct {
	Settlements []Settlement `json:"settlements"`
}

type RegisterRequest struct {
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	Password    string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TokenResponse is returned by Register and Login.
type TokenResponse struct {
	UserID      string    `json:"user_id"`
	DisplayName string    `json:"display_name"`
	Token       string    `json:"token"`
	ExpiresAt   time.Time `json:"expires_at"`
}
