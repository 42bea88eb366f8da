// Package localmodel is a gRPC client for a local sequence-to-sequence model
// server. Models are loaded explicitly at startup with Load; Generate then
// blocks for the duration of one inference.
package localmodel

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/connectivity"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"newshub/internal/domain/entity"
	"newshub/internal/observability/metrics"
	"newshub/internal/resilience/circuitbreaker"
	"newshub/internal/resilience/retry"
)

const backendName = "local"

// Common errors
var (
	// ErrServiceUnavailable indicates the model server is not reachable.
	ErrServiceUnavailable = errors.New("local model server unavailable")

	// ErrModelNotReady indicates Load did not report the model as ready.
	ErrModelNotReady = errors.New("local model not ready")

	// ErrTimeout indicates a call ran past the per-call timeout.
	ErrTimeout = errors.New("local model call timed out")
)

// Config holds connection settings.
type Config struct {
	// Address is the server address ("host:port").
	Address string
	// ConnectTimeout bounds dialing the server.
	ConnectTimeout time.Duration
	// Timeout bounds a single Load or Generate call.
	Timeout time.Duration
}

// GenerateRequest describes one generation.
type GenerateRequest struct {
	Task              string
	Model             string
	Text              string
	SourceLang        string
	TargetLang        string
	MaxInputTokens    int
	MaxLength         int
	MinLength         int
	NumBeams          int
	NoRepeatNgramSize int
	LengthPenalty     float64
	EarlyStopping     bool
}

func (r GenerateRequest) toStruct() (*structpb.Struct, error) {
	fields := map[string]interface{}{
		"task":                 r.Task,
		"model":                r.Model,
		"inputs":               r.Text,
		"max_input_tokens":     r.MaxInputTokens,
		"max_length":           r.MaxLength,
		"num_beams":            r.NumBeams,
		"no_repeat_ngram_size": r.NoRepeatNgramSize,
		"early_stopping":       r.EarlyStopping,
	}
	if r.SourceLang != "" {
		fields["src_lang"] = r.SourceLang
	}
	if r.TargetLang != "" {
		fields["tgt_lang"] = r.TargetLang
	}
	if r.MinLength > 0 {
		fields["min_length"] = r.MinLength
	}
	if r.LengthPenalty != 0 {
		fields["length_penalty"] = r.LengthPenalty
	}
	return structpb.NewStruct(fields)
}

// Client talks to the local model server. It is safe for concurrent use.
type Client struct {
	conn    grpc.ClientConnInterface
	closer  func() error
	breaker *circuitbreaker.CircuitBreaker
	timeout time.Duration
	logger  *slog.Logger
}

// Dial connects to the server and waits until the connection is ready.
func Dial(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.Address == "" {
		return nil, fmt.Errorf("%w: local model address not set", entity.ErrMissingCredential)
	}

	conn, err := grpc.NewClient(cfg.Address, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("failed to create gRPC connection: %w", err)
	}

	conn.Connect()

	dialCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()
	if !waitForConnection(dialCtx, conn) {
		if closeErr := conn.Close(); closeErr != nil {
			slog.Error("failed to close gRPC connection", slog.Any("error", closeErr))
		}
		return nil, fmt.Errorf("%w: connection to %s timed out", ErrServiceUnavailable, cfg.Address)
	}

	c := NewClient(conn, cfg.Timeout)
	c.closer = conn.Close
	return c, nil
}

// NewClient wraps an existing connection. timeout <= 0 disables the per-call deadline.
func NewClient(conn grpc.ClientConnInterface, timeout time.Duration) *Client {
	return &Client{
		conn:    conn,
		breaker: circuitbreaker.New(circuitbreaker.LocalModelConfig()),
		timeout: timeout,
		logger:  slog.Default(),
	}
}

// Load asks the server to load model for task and waits for it to be ready.
func (c *Client) Load(ctx context.Context, task, model string) error {
	req, err := structpb.NewStruct(map[string]interface{}{"task": task, "model": model})
	if err != nil {
		return fmt.Errorf("build load request: %w", err)
	}

	start := time.Now()
	resp, err := c.invoke(ctx, loadMethod, req)
	if err != nil {
		return fmt.Errorf("load %s: %w", model, err)
	}
	if ready, ok := resp.GetFields()["ready"]; ok && !ready.GetBoolValue() {
		return fmt.Errorf("%w: %s", ErrModelNotReady, model)
	}

	c.logger.Info("local model loaded",
		slog.String("task", task),
		slog.String("model", model),
		slog.Duration("duration", time.Since(start)))
	return nil
}

// Generate runs one generation and returns the decoded text.
func (c *Client) Generate(ctx context.Context, req GenerateRequest) (text string, err error) {
	start := time.Now()
	defer func() {
		metrics.RecordInference(backendName, req.Task, err == nil, time.Since(start))
	}()

	msg, err := req.toStruct()
	if err != nil {
		return "", retry.Permanent(fmt.Errorf("build generate request: %w", err))
	}

	resp, err := c.invoke(ctx, generateMethod, msg)
	if err != nil {
		return "", err
	}

	text = resp.GetFields()["text"].GetStringValue()
	if text == "" {
		return "", fmt.Errorf("%w: model %s returned no text", entity.ErrEmptyResult, req.Model)
	}
	return text, nil
}

func (c *Client) invoke(ctx context.Context, method string, req *structpb.Struct) (*structpb.Struct, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	return circuitbreaker.Run(c.breaker, func() (*structpb.Struct, error) {
		resp := new(structpb.Struct)
		if err := c.conn.Invoke(ctx, method, req, resp); err != nil {
			return nil, mapGRPCError(err)
		}
		return resp, nil
	})
}

// Close releases the connection when the client owns it.
func (c *Client) Close() error {
	if c.closer != nil {
		return c.closer()
	}
	return nil
}

// mapGRPCError maps gRPC status errors to domain errors.
func mapGRPCError(err error) error {
	st, ok := status.FromError(err)
	if !ok {
		return fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}

	switch st.Code() {
	case codes.Canceled:
		return fmt.Errorf("local model call canceled: %w", context.Canceled)
	case codes.DeadlineExceeded:
		return fmt.Errorf("%w: %s", ErrTimeout, st.Message())
	case codes.Unavailable:
		return fmt.Errorf("%w: %s", ErrServiceUnavailable, st.Message())
	case codes.InvalidArgument, codes.NotFound, codes.FailedPrecondition:
		return retry.Permanent(fmt.Errorf("%w: %s", entity.ErrInvalidInput, st.Message()))
	default:
		return fmt.Errorf("local model error: %s", st.Message())
	}
}

// waitForConnection waits for the gRPC connection to be ready.
func waitForConnection(ctx context.Context, conn *grpc.ClientConn) bool {
	for {
		state := conn.GetState()
		if state == connectivity.Ready {
			return true
		}
		if !conn.WaitForStateChange(ctx, state) {
			return false
		}
	}
}
