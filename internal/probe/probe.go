// Package probe issues a fixed sequence of HTTP requests against a running LMS
// server and prints one line per request with its status and a truncated body.
//
// A probe run never fails: transport errors are reported on the request's own
// line and the run moves on to the next request.
package probe

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"lmsops/internal/config"

	"go.uber.org/zap"
)

// Result is the outcome of one probe request
type Result struct {
	Method   string
	Path     string
	Status   int
	Body     string
	Err      error
	Duration time.Duration
}

// Line renders the result as a single output line.
func (r Result) Line() string {
	if r.Err != nil {
		return fmt.Sprintf("%s %s -> error: %s", r.Method, r.Path, singleLine(r.Err.Error()))
	}
	line := fmt.Sprintf("%s %s -> %d %s", r.Method, r.Path, r.Status, http.StatusText(r.Status))
	if r.Body != "" {
		line += " | " + r.Body
	}
	return line
}

// Prober runs the configured requests one after another
type Prober struct {
	cfg    config.ProbeConfig
	out    io.Writer
	logger *zap.Logger
}

// New creates a prober writing its lines to out
func New(cfg config.ProbeConfig, out io.Writer, logger *zap.Logger) *Prober {
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = config.DefaultProbeMaxBody
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = config.DefaultProbeTimeout
	}
	if len(cfg.Requests) == 0 {
		cfg.Requests = config.DefaultProbeRequests()
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &Prober{cfg: cfg, out: out, logger: logger}
}

// Run issues every request sequentially and writes exactly one line per
// request. It always returns the full result list.
func (p *Prober) Run(ctx context.Context) []Result {
	client, tr := newHTTPClient()
	defer tr.CloseIdleConnections()

	p.logger.Debug("probing", zap.String("base_url", p.cfg.BaseURL), zap.Int("requests", len(p.cfg.Requests)))

	results := make([]Result, 0, len(p.cfg.Requests))
	for _, req := range p.cfg.Requests {
		res := p.do(ctx, client, req)
		if res.Err != nil {
			p.logger.Debug("probe request failed", zap.String("path", res.Path), zap.Error(res.Err))
		}
		fmt.Fprintln(p.out, res.Line())
		results = append(results, res)
	}
	return results
}

func (p *Prober) do(ctx context.Context, client *http.Client, pr config.ProbeRequest) Result {
	method := strings.ToUpper(strings.TrimSpace(pr.Method))
	if method == "" {
		method = http.MethodGet
	}
	res := Result{Method: method, Path: pr.Path}

	ctx, cancel := context.WithTimeout(ctx, p.cfg.Timeout)
	defer cancel()

	var body io.Reader
	if pr.Body != "" {
		body = strings.NewReader(pr.Body)
	}
	req, err := http.NewRequestWithContext(ctx, method, p.cfg.BaseURL+pr.Path, body)
	if err != nil {
		res.Err = err
		return res
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if p.cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+p.cfg.Token)
	}

	start := time.Now()
	resp, err := client.Do(req)
	res.Duration = time.Since(start)
	if err != nil {
		res.Err = err
		return res
	}
	defer resp.Body.Close()

	res.Status = resp.StatusCode
	res.Body, err = readTruncated(resp.Body, p.cfg.MaxBodyBytes)
	if err != nil {
		res.Err = fmt.Errorf("status %d, reading body: %w", resp.StatusCode, err)
	}
	return res
}

// readTruncated reads at most max bytes of body, collapsing whitespace so the
// result fits on one line.
func readTruncated(body io.Reader, max int) (string, error) {
	buf, err := io.ReadAll(io.LimitReader(body, int64(max)+1))
	if err != nil {
		return "", err
	}
	// drain a bounded remainder so the connection can be reused
	_, _ = io.Copy(io.Discard, io.LimitReader(body, 64*1024))

	truncated := len(buf) > max
	if truncated {
		buf = buf[:max]
	}
	s := singleLine(strings.ToValidUTF8(string(buf), ""))
	if truncated {
		s += "..."
	}
	return s, nil
}

func singleLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
