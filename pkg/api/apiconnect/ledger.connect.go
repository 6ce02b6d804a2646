// Package apiconnect wires the expensesplit.v1.LedgerService messages to Connect
// handlers and clients using a JSON codec.
package apiconnect

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/expensesplit/pkg/api"
)

// LedgerServiceName is the fully-qualified name of the LedgerService service.
const LedgerServiceName = "expensesplit.v1.LedgerService"

// These constants are the fully-qualified names of the RPCs defined in this package.
const (
	LedgerServiceListPeopleProcedure    = "/expensesplit.v1.LedgerService/ListPeople"
	LedgerServiceAddPersonProcedure     = "/expensesplit.v1.LedgerService/AddPerson"
	LedgerServiceRemovePersonProcedure  = "/expensesplit.v1.LedgerService/RemovePerson"
	LedgerServiceListExpensesProcedure  = "/expensesplit.v1.LedgerService/ListExpenses"
	LedgerServiceAddExpenseProcedure    = "/expensesplit.v1.LedgerService/AddExpense"
	LedgerServiceRemoveExpenseProcedure = "/expensesplit.v1.LedgerService/RemoveExpense"
	LedgerServiceGetBalancesProcedure   = "/expensesplit.v1.LedgerService/GetBalances"
)

// Codec marshals API messages as plain JSON. It registers under the "json"
// name, so clients send application/json and handlers accept it.
type Codec struct{}

func (Codec) Name() string { return "json" }

func (Codec) Marshal(msg any) ([]byte, error) {
	return json.Marshal(msg)
}

func (Codec) Unmarshal(data []byte, msg any) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, msg)
}

// LedgerServiceClient is a client for the expensesplit.v1.LedgerService service.
type LedgerServiceClient interface {
	ListPeople(context.Context, *connect.Request[api.ListPeopleRequest]) (*connect.Response[api.ListPeopleResponse], error)
	AddPerson(context.Context, *connect.Request[api.AddPersonRequest]) (*connect.Response[api.AddPersonResponse], error)
	RemovePerson(context.Context, *connect.Request[api.RemovePersonRequest]) (*connect.Response[api.RemovePersonResponse], error)
	ListExpenses(context.Context, *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error)
	AddExpense(context.Context, *connect.Request[api.AddExpenseRequest]) (*connect.Response[api.AddExpenseResponse], error)
	RemoveExpense(context.Context, *connect.Request[api.RemoveExpenseRequest]) (*connect.Response[api.RemoveExpenseResponse], error)
	GetBalances(context.Context, *connect.Request[api.GetBalancesRequest]) (*connect.Response[api.GetBalancesResponse], error)
}

// NewLedgerServiceClient constructs a client for the expensesplit.v1.LedgerService service.
// baseURL is the server root, e.g. http://localhost:8080.
func NewLedgerServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) LedgerServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{connect.WithCodec(Codec{})}, opts...)
	return &ledgerServiceClient{
		listPeople:    connect.NewClient[api.ListPeopleRequest, api.ListPeopleResponse](httpClient, baseURL+LedgerServiceListPeopleProcedure, opts...),
		addPerson:     connect.NewClient[api.AddPersonRequest, api.AddPersonResponse](httpClient, baseURL+LedgerServiceAddPersonProcedure, opts...),
		removePerson:  connect.NewClient[api.RemovePersonRequest, api.RemovePersonResponse](httpClient, baseURL+LedgerServiceRemovePersonProcedure, opts...),
		listExpenses:  connect.NewClient[api.ListExpensesRequest, api.ListExpensesResponse](httpClient, baseURL+LedgerServiceListExpensesProcedure, opts...),
		addExpense:    connect.NewClient[api.AddExpenseRequest, api.AddExpenseResponse](httpClient, baseURL+LedgerServiceAddExpenseProcedure, opts...),
		removeExpense: connect.NewClient[api.RemoveExpenseRequest, api.RemoveExpenseResponse](httpClient, baseURL+LedgerServiceRemoveExpenseProcedure, opts...),
		getBalances:   connect.NewClient[api.GetBalancesRequest, api.GetBalancesResponse](httpClient, baseURL+LedgerServiceGetBalancesProcedure, opts...),
	}
}

type ledgerServiceClient struct {
	listPeople    *connect.Client[api.ListPeopleRequest, api.ListPeopleResponse]
	addPerson     *connect.Client[api.AddPersonRequest, api.AddPersonResponse]
	removePerson  *connect.Client[api.RemovePersonRequest, api.RemovePersonResponse]
	listExpenses  *connect.Client[api.ListExpensesRequest, api.ListExpensesResponse]
	addExpense    *connect.Client[api.AddExpenseRequest, api.AddExpenseResponse]
	removeExpense *connect.Client[api.RemoveExpenseRequest, api.RemoveExpenseResponse]
	getBalances   *connect.Client[api.GetBalancesRequest, api.GetBalancesResponse]
}

func (c *ledgerServiceClient) ListPeople(ctx context.Context, req *connect.Request[api.ListPeopleRequest]) (*connect.Response[api.ListPeopleResponse], error) {
	return c.listPeople.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) AddPerson(ctx context.Context, req *connect.Request[api.AddPersonRequest]) (*connect.Response[api.AddPersonResponse], error) {
	return c.addPerson.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) RemovePerson(ctx context.Context, req *connect.Request[api.RemovePersonRequest]) (*connect.Response[api.RemovePersonResponse], error) {
	return c.removePerson.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) ListExpenses(ctx context.Context, req *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error) {
	return c.listExpenses.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) AddExpense(ctx context.Context, req *connect.Request[api.AddExpenseRequest]) (*connect.Response[api.AddExpenseResponse], error) {
	return c.addExpense.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) RemoveExpense(ctx context.Context, req *connect.Request[api.RemoveExpenseRequest]) (*connect.Response[api.RemoveExpenseResponse], error) {
	return c.removeExpense.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) GetBalances(ctx context.Context, req *connect.Request[api.GetBalancesRequest]) (*connect.Response[api.GetBalancesResponse], error) {
	return c.getBalances.CallUnary(ctx, req)
}

// LedgerServiceHandler is an implementation of the expensesplit.v1.LedgerService service.
type LedgerServiceHandler interface {
	ListPeople(context.Context, *connect.Request[api.ListPeopleRequest]) (*connect.Response[api.ListPeopleResponse], error)
	AddPerson(context.Context, *connect.Request[api.AddPersonRequest]) (*connect.Response[api.AddPersonResponse], error)
	RemovePerson(context.Context, *connect.Request[api.RemovePersonRequest]) (*connect.Response[api.RemovePersonResponse], error)
	ListExpenses(context.Context, *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error)
	AddExpense(context.Context, *connect.Request[api.AddExpenseRequest]) (*connect.Response[api.AddExpenseResponse], error)
	RemoveExpense(context.Context, *connect.Request[api.RemoveExpenseRequest]) (*connect.Response[api.RemoveExpenseResponse], error)
	GetBalances(context.Context, *connect.Request[api.GetBalancesRequest]) (*connect.Response[api.GetBalancesResponse], error)
}

// NewLedgerServiceHandler builds an HTTP handler from the service implementation.
// It returns the path on which to mount the handler and the handler itself.
func NewLedgerServiceHandler(svc LedgerServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(Codec{})}, opts...)
	handlers := map[string]*connect.Handler{
		LedgerServiceListPeopleProcedure:    connect.NewUnaryHandler(LedgerServiceListPeopleProcedure, svc.ListPeople, opts...),
		LedgerServiceAddPersonProcedure:     connect.NewUnaryHandler(LedgerServiceAddPersonProcedure, svc.AddPerson, opts...),
		LedgerServiceRemovePersonProcedure:  connect.NewUnaryHandler(LedgerServiceRemovePersonProcedure, svc.RemovePerson, opts...),
		LedgerServiceListExpensesProcedure:  connect.NewUnaryHandler(LedgerServiceListExpensesProcedure, svc.ListExpenses, opts...),
		LedgerServiceAddExpenseProcedure:    connect.NewUnaryHandler(LedgerServiceAddExpenseProcedure, svc.AddExpense, opts...),
		LedgerServiceRemoveExpenseProcedure: connect.NewUnaryHandler(LedgerServiceRemoveExpenseProcedure, svc.RemoveExpense, opts...),
		LedgerServiceGetBalancesProcedure:   connect.NewUnaryHandler(LedgerServiceGetBalancesProcedure, svc.GetBalances, opts...),
	}
	return "/" + LedgerServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h, ok := handlers[r.URL.Path]; ok {
			h.ServeHTTP(w, r)
			return
		}
		http.NotFound(w, r)
	})
}

// UnimplementedLedgerServiceHandler returns CodeUnimplemented from all methods.
type UnimplementedLedgerServiceHandler struct{}

var errUnimplemented = errors.New("not implemented")

func (UnimplementedLedgerServiceHandler) ListPeople(context.Context, *connect.Request[api.ListPeopleRequest]) (*connect.Response[api.ListPeopleResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errUnimplemented)
}

func (UnimplementedLedgerServiceHandler) AddPerson(context.Context, *connect.Request[api.AddPersonRequest]) (*connect.Response[api.AddPersonResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errUnimplemented)
}

func (UnimplementedLedgerServiceHandler) RemovePerson(context.Context, *connect.Request[api.RemovePersonRequest]) (*connect.Response[api.RemovePersonResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errUnimplemented)
}

func (UnimplementedLedgerServiceHandler) ListExpenses(context.Context, *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errUnimplemented)
}

func (UnimplementedLedgerServiceHandler) AddExpense(context.Context, *connect.Request[api.AddExpenseRequest]) (*connect.Response[api.AddExpenseResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errUnimplemented)
}

func (UnimplementedLedgerServiceHandler) RemoveExpense(context.Context, *connect.Request[api.RemoveExpenseRequest]) (*connect.Response[api.RemoveExpenseResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errUnimplemented)
}

func (UnimplementedLedgerServiceHandler) GetBalances(context.Context, *connect.Request[api.GetBalancesRequest]) (*connect.Response[api.GetBalancesResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errUnimplemented)
}
