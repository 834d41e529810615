package httpcontext

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/valyala/fasthttp"

	appLogger "github.com/taskflow/backend/pkg/logger"
)

type metaKey string

const (
	keyRemoteAddr metaKey = "remote_addr"
	keyUserAgent  metaKey = "user_agent"
)

// Adapter bridges fasthttp request handling to stdlib contexts: every request
// gets a deadline, a request ID (propagated from X-Request-ID when the caller
// sent one) and the client metadata downstream log lines want.
type Adapter struct {
	timeout time.Duration
}

func NewAdapter(timeout time.Duration) *Adapter {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Adapter{timeout: timeout}
}

// Attach derives a deadline-bound context from the fasthttp request and
// echoes the request ID back on the response.
func (a *Adapter) Attach(ctx *fasthttp.RequestCtx) (context.Context, context.CancelFunc) {
	stdCtx, cancel := context.WithTimeout(context.Background(), a.timeout)

	reqID := requestID(ctx)
	stdCtx = appLogger.ContextWithRequestID(stdCtx, reqID)
	ctx.Response.Header.Set("X-Request-ID", reqID)

	if addr := ctx.RemoteAddr(); addr != nil {
		stdCtx = context.WithValue(stdCtx, keyRemoteAddr, addr.String())
	}
	if ua := string(ctx.Request.Header.UserAgent()); ua != "" {
		stdCtx = context.WithValue(stdCtx, keyUserAgent, ua)
	}

	return stdCtx, cancel
}

// RemoteAddr returns the client address recorded by Attach, if any.
func RemoteAddr(ctx context.Context) string {
	addr, _ := ctx.Value(keyRemoteAddr).(string)
	return addr
}

// UserAgent returns the client user agent recorded by Attach, if any.
func UserAgent(ctx context.Context) string {
	ua, _ := ctx.Value(keyUserAgent).(string)
	return ua
}

func requestID(ctx *fasthttp.RequestCtx) string {
	if ctx == nil {
		return uuid.NewString()
	}
	if header := strings.TrimSpace(string(ctx.Request.Header.Peek("X-Request-ID"))); header != "" {
		return header
	}
	return uuid.NewString()
}
