// Package service implements the Connect handlers on top of the controller.
package service

import (
	"context"
	"errors"
	"log/slog"

	"connectrpc.com/connect"
	"github.com/shopspring/decimal"

	"github.com/mmynk/expensesplit/internal/calculator"
	"github.com/mmynk/expensesplit/internal/controller"
	"github.com/mmynk/expensesplit/internal/models"
	"github.com/mmynk/expensesplit/pkg/api"
	"github.com/mmynk/expensesplit/pkg/api/apiconnect"
)

// displayPlaces is the number of decimal places amounts are rounded to in responses.
const displayPlaces = models.AmountPlaces

// LedgerService implements the Connect LedgerService
type LedgerService struct {
	apiconnect.UnimplementedLedgerServiceHandler
	ctrl *controller.Controller
}

// NewLedgerService creates a new LedgerService backed by the given controller.
func NewLedgerService(ctrl *controller.Controller) *LedgerService {
	return &LedgerService{ctrl: ctrl}
}

// toConnectError maps controller errors to Connect codes.
// Validation errors are user-facing; anything else is internal.
func toConnectError(op string, err error) error {
	if errors.Is(err, models.ErrValidation) {
		return connect.NewError(connect.CodeInvalidArgument, err)
	}
	slog.Error(op+" failed", "error", err)
	return connect.NewError(connect.CodeInternal, err)
}

func formatAmount(d decimal.Decimal) string {
	return d.StringFixed(displayPlaces)
}

func toAPIExpense(e models.Expense) *api.Expense {
	return &api.Expense{
		ID:           e.ID,
		Description:  e.Description,
		Amount:       formatAmount(e.Amount),
		PaidBy:       e.PaidBy,
		SplitBetween: e.SplitBetween,
		Date:         e.Date.Format(models.DateLayout),
		SplitType:    string(e.SplitKind()),
	}
}

// ListPeople returns the registry.
func (s *LedgerService) ListPeople(ctx context.Context, req *connect.Request[api.ListPeopleRequest]) (*connect.Response[api.ListPeopleResponse], error) {
	people, err := s.ctrl.People(ctx)
	if err != nil {
		return nil, toConnectError("ListPeople", err)
	}
	return connect.NewResponse(&api.ListPeopleResponse{People: people}), nil
}

// AddPerson adds a name to the registry. Adding an existing name is not an error.
func (s *LedgerService) AddPerson(ctx context.Context, req *connect.Request[api.AddPersonRequest]) (*connect.Response[api.AddPersonResponse], error) {
	result, err := s.ctrl.Dispatch(ctx, controller.AddPerson{Name: req.Msg.Name})
	if err != nil {
		return nil, toConnectError("AddPerson", err)
	}
	return connect.NewResponse(&api.AddPersonResponse{Added: result.Added, People: result.People}), nil
}

// RemovePerson removes a name from the registry. Existing expenses keep the name.
func (s *LedgerService) RemovePerson(ctx context.Context, req *connect.Request[api.RemovePersonRequest]) (*connect.Response[api.RemovePersonResponse], error) {
	result, err := s.ctrl.Dispatch(ctx, controller.RemovePerson{Name: req.Msg.Name})
	if err != nil {
		return nil, toConnectError("RemovePerson", err)
	}
	return connect.NewResponse(&api.RemovePersonResponse{
		Removed:         result.Removed,
		StillReferenced: result.StillReferenced,
		People:          result.People,
	}), nil
}

// ListExpenses returns the ledger in insertion order.
func (s *LedgerService) ListExpenses(ctx context.Context, req *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error) {
	expenses, err := s.ctrl.Expenses(ctx)
	if err != nil {
		return nil, toConnectError("ListExpenses", err)
	}

	out := make([]*api.Expense, len(expenses))
	for i, e := range expenses {
		out[i] = toAPIExpense(e)
	}
	return connect.NewResponse(&api.ListExpensesResponse{Expenses: out}), nil
}

// AddExpense validates the submitted form and appends a new expense.
func (s *LedgerService) AddExpense(ctx context.Context, req *connect.Request[api.AddExpenseRequest]) (*connect.Response[api.AddExpenseResponse], error) {
	slog.Debug("AddExpense request received",
		"description", req.Msg.Description,
		"amount", req.Msg.Amount,
		"paid_by", req.Msg.PaidBy,
		"split_between", req.Msg.SplitBetween,
	)

	result, err := s.ctrl.Dispatch(ctx, controller.AddExpense{Input: models.ExpenseInput{
		Description:  req.Msg.Description,
		Amount:       req.Msg.Amount,
		PaidBy:       req.Msg.PaidBy,
		Date:         req.Msg.Date,
		SplitBetween: req.Msg.SplitBetween,
		SplitType:    req.Msg.SplitType,
	}})
	if err != nil {
		return nil, toConnectError("AddExpense", err)
	}

	slog.Info("Expense created", "expense_id", result.Expense.ID)
	return connect.NewResponse(&api.AddExpenseResponse{Expense: toAPIExpense(*result.Expense)}), nil
}

// RemoveExpense deletes an expense. Unknown IDs are not an error.
func (s *LedgerService) RemoveExpense(ctx context.Context, req *connect.Request[api.RemoveExpenseRequest]) (*connect.Response[api.RemoveExpenseResponse], error) {
	result, err := s.ctrl.Dispatch(ctx, controller.RemoveExpense{ID: req.Msg.ID})
	if err != nil {
		return nil, toConnectError("RemoveExpense", err)
	}
	return connect.NewResponse(&api.RemoveExpenseResponse{Removed: result.Removed}), nil
}

// GetBalances recomputes every balance and the settlement plan.
func (s *LedgerService) GetBalances(ctx context.Context, req *connect.Request[api.GetBalancesRequest]) (*connect.Response[api.GetBalancesResponse], error) {
	report, err := s.ctrl.Balances(ctx)
	if err != nil {
		return nil, toConnectError("GetBalances", err)
	}
	return connect.NewResponse(toAPIBalances(report)), nil
}

func toAPIBalances(report calculator.Report) *api.GetBalancesResponse {
	resp := &api.GetBalancesResponse{
		Balances:    make([]*api.MemberBalance, len(report.Balances)),
		Settlements: make([]*api.Settlement, len(report.Settlements)),
		TotalSpent:  formatAmount(report.TotalSpent),
	}
	for i, b := range report.Balances {
		// Settled balances display as zero, matching their absence from the plan.
		net := b.NetBalance
		if net.Abs().LessThanOrEqual(calculator.Epsilon) {
			net = decimal.Zero
		}
		resp.Balances[i] = &api.MemberBalance{
			Name:       b.MemberName,
			NetBalance: formatAmount(net),
			TotalPaid:  formatAmount(b.TotalPaid),
			TotalOwed:  formatAmount(b.TotalOwed),
		}
	}
	for i, edge := range report.Settlements {
		resp.Settlements[i] = &api.Settlement{
			From:   edge.From,
			To:     edge.To,
			Amount: formatAmount(edge.Amount),
		}
	}
	return resp
}
