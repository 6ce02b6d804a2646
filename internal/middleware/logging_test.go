package middleware

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/assert"

	"github.com/mmynk/expensesplit/pkg/logging"
)

func TestLevelForCode(t *testing.T) {
	assert.Equal(t, slog.LevelWarn, levelForCode(connect.CodeInvalidArgument))
	assert.Equal(t, slog.LevelWarn, levelForCode(connect.CodeUnimplemented))
	assert.Equal(t, slog.LevelError, levelForCode(connect.CodeInternal))
	assert.Equal(t, slog.LevelError, levelForCode(connect.CodeUnknown))
}

func TestLoggingInterceptor(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(logging.New(&buf, slog.LevelDebug))
	t.Cleanup(func() { slog.SetDefault(prev) })

	intercept := func(next connect.UnaryFunc) connect.UnaryFunc {
		return RequestIDInterceptor()(LoggingInterceptor()(next))
	}
	req := func() *connect.Request[pingRequest] {
		r := connect.NewRequest(&pingRequest{})
		r.Header().Set(RequestIDHeader, "trace-me")
		return r
	}

	_, err := intercept(func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
		return connect.NewResponse(&pingResponse{}), nil
	})(context.Background(), req())
	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "RPC ok")
	assert.Contains(t, buf.String(), "request_id=trace-me")

	buf.Reset()
	_, err = intercept(func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
		var resp *connect.Response[pingResponse]
		return resp, connect.NewError(connect.CodeInvalidArgument, errors.New("amount: is required"))
	})(context.Background(), req())
	assert.Equal(t, connect.CodeInvalidArgument, connect.CodeOf(err))
	assert.Contains(t, buf.String(), "WRN")
	assert.Contains(t, buf.String(), "code=invalid_argument")
}
