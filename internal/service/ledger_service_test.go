package service

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/expensesplit/internal/controller"
	"github.com/mmynk/expensesplit/internal/middleware"
	"github.com/mmynk/expensesplit/internal/storage"
	"github.com/mmynk/expensesplit/internal/storage/memory"
	"github.com/mmynk/expensesplit/internal/storage/sqlite"
	"github.com/mmynk/expensesplit/pkg/api"
	"github.com/mmynk/expensesplit/pkg/api/apiconnect"
)

// setupTestServer creates a test server over an in-memory store holding people.
func setupTestServer(t *testing.T, store storage.Store, people ...string) apiconnect.LedgerServiceClient {
	t.Helper()
	ctx := context.Background()

	for _, p := range people {
		_, err := store.AddPerson(ctx, p)
		require.NoError(t, err)
	}

	ctrl, err := controller.New(ctx, store, controller.WithClock(func() time.Time {
		return time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	}))
	require.NoError(t, err)

	interceptors := connect.WithInterceptors(
		middleware.RequestIDInterceptor(),
		middleware.LoggingInterceptor(),
	)
	path, handler := apiconnect.NewLedgerServiceHandler(NewLedgerService(ctrl), interceptors)

	mux := http.NewServeMux()
	mux.Handle(path, handler)

	server := httptest.NewServer(mux)
	t.Cleanup(func() {
		server.Close()
		store.Close()
	})

	return apiconnect.NewLedgerServiceClient(http.DefaultClient, server.URL)
}

func dinnerRequest() *api.AddExpenseRequest {
	return &api.AddExpenseRequest{
		Description:  "Dinner",
		Amount:       "90",
		PaidBy:       "Alice",
		Date:         "2024-03-15",
		SplitBetween: []string{"Alice", "Bob", "Carol"},
	}
}

func TestGetBalances_ThreeWayDinner(t *testing.T) {
	stores := map[string]func(t *testing.T) storage.Store{
		"memory": func(t *testing.T) storage.Store { return memory.New() },
		"sqlite": func(t *testing.T) storage.Store {
			store, err := sqlite.New(context.Background())
			require.NoError(t, err)
			return store
		},
	}

	for name, newStore := range stores {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			client := setupTestServer(t, newStore(t), "Alice", "Bob", "Carol")

			_, err := client.AddExpense(ctx, connect.NewRequest(dinnerRequest()))
			require.NoError(t, err)

			resp, err := client.GetBalances(ctx, connect.NewRequest(&api.GetBalancesRequest{}))
			require.NoError(t, err)

			want := []api.MemberBalance{
				{Name: "Alice", NetBalance: "60.00", TotalPaid: "90.00", TotalOwed: "30.00"},
				{Name: "Bob", NetBalance: "-30.00", TotalPaid: "0.00", TotalOwed: "30.00"},
				{Name: "Carol", NetBalance: "-30.00", TotalPaid: "0.00", TotalOwed: "30.00"},
			}
			require.Len(t, resp.Msg.Balances, len(want))
			for i := range want {
				assert.Equal(t, want[i], *resp.Msg.Balances[i])
			}

			require.Len(t, resp.Msg.Settlements, 2)
			assert.Equal(t, api.Settlement{From: "Bob", To: "Alice", Amount: "30.00"}, *resp.Msg.Settlements[0])
			assert.Equal(t, api.Settlement{From: "Carol", To: "Alice", Amount: "30.00"}, *resp.Msg.Settlements[1])
			assert.Equal(t, "90.00", resp.Msg.TotalSpent)
		})
	}
}

func TestGetBalances_Thirds(t *testing.T) {
	ctx := context.Background()
	client := setupTestServer(t, memory.New(), "Alice", "Bob", "Carol")

	req := dinnerRequest()
	req.Amount = "100"
	_, err := client.AddExpense(ctx, connect.NewRequest(req))
	require.NoError(t, err)

	resp, err := client.GetBalances(ctx, connect.NewRequest(&api.GetBalancesRequest{}))
	require.NoError(t, err)

	assert.Equal(t, "66.67", resp.Msg.Balances[0].NetBalance)
	assert.Equal(t, "-33.33", resp.Msg.Balances[1].NetBalance)
	require.Len(t, resp.Msg.Settlements, 2)
	assert.Equal(t, "33.33", resp.Msg.Settlements[0].Amount)
}

func TestAddExpense(t *testing.T) {
	ctx := context.Background()
	client := setupTestServer(t, memory.New(), "Alice", "Bob", "Carol")

	resp, err := client.AddExpense(ctx, connect.NewRequest(dinnerRequest()))
	require.NoError(t, err)

	got := resp.Msg.Expense
	require.NotNil(t, got)
	assert.NotZero(t, got.ID)
	assert.Equal(t, "Dinner", got.Description)
	assert.Equal(t, "90.00", got.Amount)
	assert.Equal(t, "2024-03-15", got.Date)
	assert.Equal(t, "equal", got.SplitType)

	list, err := client.ListExpenses(ctx, connect.NewRequest(&api.ListExpensesRequest{}))
	require.NoError(t, err)
	require.Len(t, list.Msg.Expenses, 1)
	assert.Equal(t, got.ID, list.Msg.Expenses[0].ID)
}

func TestAddExpense_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(req *api.AddExpenseRequest)
	}{
		{name: "empty split", mutate: func(req *api.AddExpenseRequest) { req.SplitBetween = nil }},
		{name: "missing description", mutate: func(req *api.AddExpenseRequest) { req.Description = "" }},
		{name: "zero amount", mutate: func(req *api.AddExpenseRequest) { req.Amount = "0" }},
		{name: "sub-cent amount", mutate: func(req *api.AddExpenseRequest) { req.Amount = "0.001" }},
		{name: "missing payer", mutate: func(req *api.AddExpenseRequest) { req.PaidBy = "" }},
		{name: "missing date", mutate: func(req *api.AddExpenseRequest) { req.Date = "" }},
		{name: "percentage split", mutate: func(req *api.AddExpenseRequest) { req.SplitType = "percentage" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			client := setupTestServer(t, memory.New(), "Alice", "Bob", "Carol")

			req := dinnerRequest()
			tt.mutate(req)
			_, err := client.AddExpense(ctx, connect.NewRequest(req))
			require.Error(t, err)
			assert.Equal(t, connect.CodeInvalidArgument, connect.CodeOf(err))

			var connectErr *connect.Error
			require.True(t, errors.As(err, &connectErr))
			assert.NotEmpty(t, connectErr.Message())
			assert.NotEmpty(t, connectErr.Meta().Get(middleware.RequestIDHeader))

			list, err := client.ListExpenses(ctx, connect.NewRequest(&api.ListExpensesRequest{}))
			require.NoError(t, err)
			assert.Empty(t, list.Msg.Expenses)
		})
	}
}

func TestPeople(t *testing.T) {
	ctx := context.Background()
	client := setupTestServer(t, memory.New(), "Alice", "Bob", "Carol")

	added, err := client.AddPerson(ctx, connect.NewRequest(&api.AddPersonRequest{Name: " Dave "}))
	require.NoError(t, err)
	assert.True(t, added.Msg.Added)
	assert.Equal(t, []string{"Alice", "Bob", "Carol", "Dave"}, added.Msg.People)

	dup, err := client.AddPerson(ctx, connect.NewRequest(&api.AddPersonRequest{Name: "Dave"}))
	require.NoError(t, err)
	assert.False(t, dup.Msg.Added)
	assert.Len(t, dup.Msg.People, 4)

	_, err = client.AddPerson(ctx, connect.NewRequest(&api.AddPersonRequest{Name: ""}))
	assert.Equal(t, connect.CodeInvalidArgument, connect.CodeOf(err))

	_, err = client.AddExpense(ctx, connect.NewRequest(dinnerRequest()))
	require.NoError(t, err)

	removed, err := client.RemovePerson(ctx, connect.NewRequest(&api.RemovePersonRequest{Name: "Bob"}))
	require.NoError(t, err)
	assert.True(t, removed.Msg.Removed)
	assert.True(t, removed.Msg.StillReferenced)
	assert.Equal(t, []string{"Alice", "Carol", "Dave"}, removed.Msg.People)

	list, err := client.ListPeople(ctx, connect.NewRequest(&api.ListPeopleRequest{}))
	require.NoError(t, err)
	assert.Equal(t, []string{"Alice", "Carol", "Dave"}, list.Msg.People)

	// Bob still owes his share of the dinner.
	balances, err := client.GetBalances(ctx, connect.NewRequest(&api.GetBalancesRequest{}))
	require.NoError(t, err)
	last := balances.Msg.Balances[len(balances.Msg.Balances)-1]
	assert.Equal(t, "Bob", last.Name)
	assert.Equal(t, "-30.00", last.NetBalance)
}

func TestRemoveExpense(t *testing.T) {
	ctx := context.Background()
	client := setupTestServer(t, memory.New(), "Alice", "Bob", "Carol")

	added, err := client.AddExpense(ctx, connect.NewRequest(dinnerRequest()))
	require.NoError(t, err)

	missing, err := client.RemoveExpense(ctx, connect.NewRequest(&api.RemoveExpenseRequest{ID: 1}))
	require.NoError(t, err)
	assert.False(t, missing.Msg.Removed)

	removed, err := client.RemoveExpense(ctx, connect.NewRequest(&api.RemoveExpenseRequest{ID: added.Msg.Expense.ID}))
	require.NoError(t, err)
	assert.True(t, removed.Msg.Removed)

	balances, err := client.GetBalances(ctx, connect.NewRequest(&api.GetBalancesRequest{}))
	require.NoError(t, err)
	assert.Empty(t, balances.Msg.Settlements)
	for _, b := range balances.Msg.Balances {
		assert.Equal(t, "0.00", b.NetBalance)
	}
}

func TestRequestID(t *testing.T) {
	ctx := context.Background()
	client := setupTestServer(t, memory.New(), "Alice")

	resp, err := client.ListPeople(ctx, connect.NewRequest(&api.ListPeopleRequest{}))
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Header().Get(middleware.RequestIDHeader))

	req := connect.NewRequest(&api.ListPeopleRequest{})
	req.Header().Set(middleware.RequestIDHeader, "trace-me")
	resp, err = client.ListPeople(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, "trace-me", resp.Header().Get(middleware.RequestIDHeader))
}
