package socketio

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sync/atomic"
	"time"

	"github.com/specialistvlad/extgrid/internal/ctxlog"
	"github.com/specialistvlad/extgrid/internal/registry"
	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"
)

const defaultTimeout = 10 * time.Second

// Module implements the registry.Module interface for this package.
type Module struct{}

// Input defines the arguments for a socketio component.
type Input struct {
	URL                string            `hcl:"url"`
	Namespace          string            `hcl:"namespace,optional"`
	OnEvent            string            `hcl:"on_event"`
	EmitEvent          string            `hcl:"emit_event,optional"`
	EmitData           map[string]string `hcl:"emit_data,optional"`
	Timeout            string            `hcl:"timeout,optional"`
	InsecureSkipVerify bool              `hcl:"insecure_skip_verify,optional"`
}

// Output defines the data structure returned by one invocation. Response is
// the first payload of the awaited event, encoded as JSON.
type Output struct {
	Event    string `cty:"event"`
	Response string `cty:"response"`
}

// Emitter connects, emits one event and waits for a reply event on every
// invocation.
type Emitter struct {
	name    string
	input   Input
	baseURL string
	path    string
	timeout time.Duration
}

// opResult is a private struct to safely pass results through the done channel.
type opResult struct {
	value *Output
	err   error
}

func newEmitter(ctx context.Context, name string, input *Input) (*Emitter, error) {
	parsedURL, err := url.Parse(input.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL: %w", err)
	}
	if parsedURL.Scheme == "" || parsedURL.Host == "" {
		return nil, fmt.Errorf("URL '%s' must be absolute", input.URL)
	}

	timeout := defaultTimeout
	if input.Timeout != "" {
		timeout, err = time.ParseDuration(input.Timeout)
		if err != nil {
			ctxlog.FromContext(ctx).Warn("Failed to parse timeout, using default 10s", "component", name, "inputTimeout", input.Timeout, "error", err)
			timeout = defaultTimeout
		}
	}

	namespace := input.Namespace
	if namespace == "" {
		namespace = "/"
	}
	in := *input
	in.Namespace = namespace

	return &Emitter{
		name:    name,
		input:   in,
		baseURL: fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host),
		path:    parsedURL.Path,
		timeout: timeout,
	}, nil
}

// emitData merges the configured payload with the invocation arguments.
func (e *Emitter) emitData(args map[string]string) map[string]string {
	data := make(map[string]string, len(e.input.EmitData)+len(args))
	for k, v := range e.input.EmitData {
		data[k] = v
	}
	for k, v := range args {
		data[k] = v
	}
	return data
}

// Invoke runs one connect, emit and wait cycle.
func (e *Emitter) Invoke(ctx context.Context, args map[string]string) (any, error) {
	input := e.input
	logger := ctxlog.FromContext(ctx).With("component", e.name, "url", input.URL, "onEvent", input.OnEvent, "emitEvent", input.EmitEvent)
	logger.Debug("Invocation started")
	defer logger.Debug("Invocation finished")

	var isConnected atomic.Bool

	done := make(chan opResult, 1)
	opCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	opts := socket.DefaultOptions()
	opts.SetPath(e.path)

	if input.InsecureSkipVerify {
		logger.Warn("Skipping TLS certificate verification")
		opts.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}
	opts.SetTransports(types.NewSet(transports.WebSocket))

	manager := socket.NewManager(e.baseURL, opts)
	io := manager.Socket(input.Namespace, opts)
	defer func() {
		logger.Debug("Disconnecting socket client")
		io.Disconnect()
	}()

	data := e.emitData(args)

	// --- Event Listeners ---
	io.On(types.EventName("connect"), func(...any) {
		isConnected.Store(true)
		logger.Info("Successfully connected", "namespace", input.Namespace, "sid", io.Id())
		if input.EmitEvent != "" {
			jsonData, _ := json.Marshal(data)
			logger.Info("Emitting event", "event", input.EmitEvent, "data", string(jsonData))
			io.Emit(input.EmitEvent, data)
		}
	})

	io.On(types.EventName("connect_error"), func(errs ...any) {
		err := errors.New("connect error")
		if len(errs) > 0 {
			if e, ok := errs[0].(error); ok {
				err = e
			} else {
				err = fmt.Errorf("connect error: %v", errs[0])
			}
		}
		select {
		case done <- opResult{err: err}:
		default:
		}
	})

	io.On(types.EventName(input.OnEvent), func(payload ...any) {
		var responseData any
		if len(payload) > 0 {
			responseData = payload[0]
		}
		encoded, err := json.Marshal(responseData)
		res := opResult{err: err}
		if err == nil {
			res.value = &Output{Event: input.OnEvent, Response: string(encoded)}
		}
		select {
		case done <- res:
		default:
		}
	})

	// --- Execution Block ---
	io.Connect()

	select {
	case <-opCtx.Done():
		if isConnected.Load() {
			return nil, fmt.Errorf("timed out after connecting while waiting for event '%s'", input.OnEvent)
		}
		return nil, errors.New("timed out while waiting for initial connection")
	case res := <-done:
		if res.err != nil {
			return nil, res.err
		}
		return res.value, nil
	}
}

// Register registers the component factory with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterFactory("socketio", func(ctx context.Context, env *registry.Env) (any, error) {
		var input Input
		if err := env.Decode(ctx, &input); err != nil {
			return nil, err
		}
		return newEmitter(ctx, env.Name, &input)
	})
}
