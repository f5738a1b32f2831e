package endpoints

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"github.com/kandttextiles/ktportal/internal/core"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// context keys
type contextKey string

const CKRequestID = contextKey("request_id")

type Endpoint struct {
	core    *core.Core
	name    string
	handler Handler
}

// Handler represents a custom handler; a nil result with an error is
// written as an ErrorResponse
type Handler func(ctx context.Context, c *core.Core, w http.ResponseWriter, r *http.Request) (result interface{}, code int, err error)

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func NewEndpoint(c *core.Core, h Handler, name string) (e Endpoint) {
	if c == nil {
		panic(core.ErrNilCore)
	}

	// basic validation
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		panic(errors.New("empty endpoint name"))
	}

	e = Endpoint{
		core:    c,
		name:    name,
		handler: h,
	}

	return e
}

// RequestID returns the id assigned to the current request
func RequestID(ctx context.Context) uuid.UUID {
	id, _ := ctx.Value(CKRequestID).(uuid.UUID)
	return id
}

func (e Endpoint) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// generating request ID
	requestID := uuid.New()

	// injecting request ID into the context
	ctx := context.WithValue(r.Context(), CKRequestID, requestID)

	//---------------------------------------------------------------------------
	// processing request
	//---------------------------------------------------------------------------
	start := time.Now()

	// executing handler
	result, code, err := e.handler(ctx, e.core, w, r)

	l := e.core.Logger().With(
		zap.String("endpoint", e.name),
		zap.String("request_id", requestID.String()),
		zap.Int("code", code),
		zap.Duration("exec_time", time.Since(start)),
	)

	if err != nil {
		l.Warn("request failed", zap.Error(err))

		if result == nil {
			result = ErrorResponse{Error: err.Error()}
		}
	} else {
		l.Debug("request served")
	}

	// marshaling handler's result
	payload, err := json.Marshal(result)
	if err != nil {
		http.Error(
			w,
			errors.Wrap(err, "failed to marshal server response").Error(),
			http.StatusInternalServerError,
		)

		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Length", strconv.Itoa(len(payload)))
	w.Header().Set("X-Request-ID", requestID.String())
	w.WriteHeader(code)
	w.Write(payload)
}
