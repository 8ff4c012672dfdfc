package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/specialistvlad/extgrid/internal/extension"
)

const maxRequestBody = 1 << 20

type extensionView struct {
	Name     string `json:"name"`
	Ref      string `json:"ref"`
	Origin   string `json:"origin,omitempty"`
	Resolved bool   `json:"resolved"`
	Type     string `json:"type,omitempty"`
}

type errorView struct {
	Error string `json:"error"`
}

// Handler returns the HTTP surface of the application.
func (a *App) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", a.healthHandler)
	mux.HandleFunc("GET /extensions", a.listHandler)
	mux.HandleFunc("POST /extensions/{name}/invoke", a.invokeHandler)
	return mux
}

// healthHandler logs the request and reports the registry state.
func (a *App) healthHandler(w http.ResponseWriter, r *http.Request) {
	a.logger.Debug("Health check endpoint hit.", "remote_addr", r.RemoteAddr, "path", r.URL.Path)
	if !a.extensions.Frozen() {
		w.WriteHeader(http.StatusServiceUnavailable)
		fmt.Fprintln(w, "NOT READY")
		return
	}
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "OK")
}

func (a *App) listHandler(w http.ResponseWriter, r *http.Request) {
	views := []extensionView{}
	for _, st := range a.extensions.Statuses() {
		views = append(views, extensionView{
			Name:     st.ExtensionName,
			Ref:      st.TargetKey,
			Origin:   st.Origin,
			Resolved: st.Resolved,
			Type:     st.Type,
		})
	}
	writeJSON(w, http.StatusOK, views)
}

func (a *App) invokeHandler(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	logger := a.logger.With("extension", name, "remote_addr", r.RemoteAddr)

	args := map[string]string{}
	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBody))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorView{Error: err.Error()})
		return
	}
	if len(body) > 0 {
		if err := json.Unmarshal(body, &args); err != nil {
			writeJSON(w, http.StatusBadRequest, errorView{Error: "request body must be a JSON object of strings: " + err.Error()})
			return
		}
	}

	result, err := a.Invoke(r.Context(), name, args)
	if err != nil {
		status := statusFor(err)
		logger.Warn("Invocation failed.", "status", status, "error", err)
		writeJSON(w, status, errorView{Error: err.Error()})
		return
	}

	rendered, err := a.Render(result)
	if err != nil {
		logger.Error("Failed to render invocation result.", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorView{Error: err.Error()})
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(rendered)
}

// statusFor maps the registry's error taxonomy onto HTTP status codes.
func statusFor(err error) int {
	var (
		unbound *extension.UnboundExtensionError
		cyclic  *extension.CyclicResolutionError
		resErr  *extension.ResolutionError
	)
	switch {
	case errors.As(err, &unbound):
		return http.StatusNotFound
	case errors.As(err, &cyclic), errors.As(err, &resErr):
		return http.StatusInternalServerError
	default:
		return http.StatusBadGateway
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Serve runs the HTTP server until ctx is cancelled, then shuts it down
// gracefully.
func (a *App) Serve(ctx context.Context) error {
	if a.config.Port <= 0 {
		return errors.New("serve requires a port greater than zero")
	}

	addr := fmt.Sprintf(":%d", a.config.Port)
	a.httpServer = &http.Server{
		Addr:              addr,
		Handler:           a.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("🩺 HTTP server starting", "address", fmt.Sprintf("http://localhost%s/health", addr))
		// ListenAndServe returns http.ErrServerClosed on graceful shutdown.
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			a.logger.Error("HTTP server failed unexpectedly", "error", err)
			return err
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	a.logger.Info("🩺 Shutting down HTTP server...")
	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("HTTP server shutdown failed", "error", err)
		return err
	}
	a.logger.Debug("HTTP server shut down gracefully.")
	return nil
}
