package executor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"syscall"
	"time"

	"api-batch-runner/internal/spec"

	"go.uber.org/zap"
)

// Header is one configured request header. Headers are applied in order,
// so a later entry overrides an earlier one with the same key.
type Header struct {
	Key   string `yaml:"key"`
	Value string `yaml:"value"`
}

// RunConfig is an immutable snapshot of the execution configuration,
// taken once per run so mid-run config edits cannot race a batch.
type RunConfig struct {
	BaseURL string
	Token   string
	Headers []Header
	Timeout time.Duration
}

// Outcome represents the normalized result of performing one HTTP call
type Outcome struct {
	Success        bool
	Status         int
	ElapsedMs      int64
	Body           interface{}
	TransportError bool
}

// BodyText returns the response body serialized to text, never truncated
func (o Outcome) BodyText() string {
	switch body := o.Body.(type) {
	case nil:
		return ""
	case string:
		return body
	default:
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Sprint(body)
		}
		return string(data)
	}
}

// Executor binds values into endpoint requests and performs them
type Executor struct {
	cfg    RunConfig
	client *http.Client
	log    *zap.Logger
}

// New creates an executor over a snapshot of the run configuration
func New(cfg RunConfig, log *zap.Logger) *Executor {
	if log == nil {
		log = zap.NewNop()
	}
	return &Executor{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		log:    log,
	}
}

// Execute constructs one HTTP request for the endpoint from the supplied
// values and performs it. Failures of any kind are captured into the
// outcome, never returned: a transport-level failure yields status 0
// with TransportError set, and a non-2xx status is a normal outcome
// with Success false.
func (e *Executor) Execute(ctx context.Context, endpoint spec.Endpoint, values map[string]string) Outcome {
	target := e.bindURL(endpoint, values)

	var bodyReader io.Reader
	if payload := BindBody(endpoint, values); payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return Outcome{Body: fmt.Sprintf("failed to marshal request body: %v", err), TransportError: true}
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, strings.ToUpper(endpoint.Method), target, bodyReader)
	if err != nil {
		return Outcome{Body: fmt.Sprintf("failed to build request: %v", err), TransportError: true}
	}

	req.Header.Set("Content-Type", "application/json")
	for _, h := range e.cfg.Headers {
		req.Header.Set(h.Key, h.Value)
	}
	if e.cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+e.cfg.Token)
	}

	e.log.Debug("executing request",
		zap.String("method", endpoint.Method),
		zap.String("url", target))

	start := time.Now()
	resp, err := e.client.Do(req)
	elapsed := time.Since(start)

	if err != nil {
		return Outcome{
			Status:         0,
			ElapsedMs:      elapsed.Milliseconds(),
			Body:           describeTransportFailure(err),
			TransportError: true,
		}
	}
	defer resp.Body.Close()

	outcome := Outcome{
		Success:   resp.StatusCode >= 200 && resp.StatusCode < 300,
		Status:    resp.StatusCode,
		ElapsedMs: elapsed.Milliseconds(),
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		outcome.Body = fmt.Sprintf("failed to read response body: %v", err)
		return outcome
	}

	// JSON first, raw text as fallback; an unparsable body is never an error
	var parsed interface{}
	if json.Unmarshal(raw, &parsed) == nil {
		outcome.Body = parsed
	} else {
		outcome.Body = string(raw)
	}
	return outcome
}

// bindURL composes the target URL. Path parameters are substituted as
// literal text with no percent-encoding, so raw path fragments can be
// sent on purpose. Query parameters with empty or absent values are
// omitted entirely.
func (e *Executor) bindURL(endpoint spec.Endpoint, values map[string]string) string {
	target := strings.TrimSuffix(e.cfg.BaseURL, "/") + endpoint.Path

	query := url.Values{}
	for _, param := range endpoint.Parameters {
		switch param.Location {
		case "path":
			target = strings.ReplaceAll(target, "{"+param.Name+"}", values[param.Name])
		case "query":
			if v := values[param.Name]; v != "" {
				query.Set(param.Name, v)
			}
		}
	}
	if encoded := query.Encode(); encoded != "" {
		target += "?" + encoded
	}
	return target
}

// BindBody selects the request-body payload for an endpoint from a value
// mapping. Path-parameter names are always excluded; when the schema
// resolves to a known field list only those fields pass through, and
// when it resolves to nothing every remaining key passes through.
// Returns nil when the endpoint takes no body.
func BindBody(endpoint spec.Endpoint, values map[string]string) map[string]string {
	method := strings.ToUpper(endpoint.Method)
	if method != http.MethodPost && method != http.MethodPut && method != http.MethodPatch {
		return nil
	}
	if endpoint.BodySchema == "" {
		return nil
	}

	pathParams := make(map[string]bool)
	for _, name := range endpoint.PathParams() {
		pathParams[name] = true
	}

	fieldNames := make(map[string]bool)
	for _, field := range spec.Flatten(endpoint.BodySchema, endpoint.Definitions) {
		fieldNames[field.Name] = true
	}

	body := make(map[string]string)
	for key, value := range values {
		if pathParams[key] {
			continue
		}
		if len(fieldNames) == 0 || fieldNames[key] {
			body[key] = value
		}
	}
	return body
}

// describeTransportFailure renders a no-response failure as readable
// text, distinguishing refused connections and timeouts from generic
// network errors
func describeTransportFailure(err error) string {
	switch {
	case errors.Is(err, syscall.ECONNREFUSED):
		return fmt.Sprintf("connection refused or blocked by the host environment: %v", err)
	case errors.Is(err, context.DeadlineExceeded) || isTimeout(err):
		return fmt.Sprintf("request timed out before a response was received: %v", err)
	case errors.Is(err, context.Canceled):
		return fmt.Sprintf("request canceled: %v", err)
	default:
		return fmt.Sprintf("network failure, no response received: %v", err)
	}
}

func isTimeout(err error) bool {
	var netErr interface{ Timeout() bool }
	return errors.As(err, &netErr) && netErr.Timeout()
}
