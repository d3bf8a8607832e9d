package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Engine script entry points. Each one reads a dataset file, writes a
// single JSON document to stdout and diagnostics to stderr.
const (
	scriptAnalyze   = "analyze_dataset.py"
	scriptRecommend = "recommend.py"
	scriptPreview   = "cleaned_preview.py"
)

// Runner invokes the external analysis engine as one subprocess per call.
// The engine is stateless; the only coupling surface is the command-line
// argument list and the JSON payload on stdout.
type Runner struct {
	pythonBin  string
	scriptRoot string
	timeout    time.Duration
	sem        chan struct{}
}

// NewRunner creates a runner for the engine scripts under scriptRoot.
// maxConcurrent caps the number of in-flight engine processes; timeout
// bounds each invocation's wall-clock time, after which the process is
// killed.
func NewRunner(pythonBin, scriptRoot string, timeout time.Duration, maxConcurrent int) *Runner {
	if pythonBin == "" {
		pythonBin = "python3"
	}
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	return &Runner{
		pythonBin:  pythonBin,
		scriptRoot: scriptRoot,
		timeout:    timeout,
		sem:        make(chan struct{}, maxConcurrent),
	}
}

// Analyze cleans and profiles the dataset at filePath
func (r *Runner) Analyze(ctx context.Context, filePath string) (map[string]interface{}, error) {
	return r.run(ctx, scriptAnalyze, "--file", filePath)
}

// Recommend ranks titles from the dataset at filePath under the given
// filters
func (r *Runner) Recommend(ctx context.Context, filePath string, topN int, language, genre string) (map[string]interface{}, error) {
	return r.run(ctx, scriptRecommend,
		"--file", filePath,
		"--top_n", strconv.Itoa(topN),
		"--language", language,
		"--genre", genre,
	)
}

// CleanedPreview returns one page of cleaned rows for the dataset at
// filePath
func (r *Runner) CleanedPreview(ctx context.Context, filePath string, page, pageSize int) (map[string]interface{}, error) {
	return r.run(ctx, scriptPreview,
		"--file", filePath,
		"--page", strconv.Itoa(page),
		"--page_size", strconv.Itoa(pageSize),
	)
}

func (r *Runner) run(ctx context.Context, script string, args ...string) (map[string]interface{}, error) {
	select {
	case r.sem <- struct{}{}:
		defer func() { <-r.sem }()
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, r.pythonBin, append([]string{filepath.Join(r.scriptRoot, script)}, args...)...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	// Don't let an orphaned grandchild holding the pipes stall Wait
	cmd.WaitDelay = 3 * time.Second

	if err := cmd.Run(); err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, &TimeoutError{Script: script, Timeout: r.timeout}
		}
		return nil, &ExecError{Script: script, Stderr: strings.TrimSpace(stderr.String())}
	}

	payload, err := ParsePayload(stdout.String())
	if err != nil {
		return nil, &ResponseFormatError{Script: script}
	}
	return payload, nil
}

// ParsePayload parses the engine's stdout as a single JSON object. The
// parse is tolerant: a strict decode of the trimmed text is tried first,
// then the substring between the first "{" and the last "}" (incidental
// logging on stdout otherwise breaks the contract). The fallback can pick
// the wrong region when the noise itself contains braces; the engine
// contract keeps stdout to the payload alone, so the fallback is a last
// resort, not a supported mode.
func ParsePayload(raw string) (map[string]interface{}, error) {
	trimmed := strings.TrimSpace(raw)

	var payload map[string]interface{}
	if err := json.Unmarshal([]byte(trimmed), &payload); err == nil {
		return payload, nil
	}

	start := strings.Index(trimmed, "{")
	end := strings.LastIndex(trimmed, "}")
	if start >= 0 && end > start {
		if err := json.Unmarshal([]byte(trimmed[start:end+1]), &payload); err == nil {
			return payload, nil
		}
	}
	return nil, errors.New("no JSON object in engine output")
}
