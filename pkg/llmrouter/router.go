// Package llmrouter implements the LLM Router (C1): chain resolution
// across a ranked pool of models, per-model timeout, quota gating, and
// transient-vs-fatal error classification. Grounded on
// original_source/core/llm_router.py's FALLBACK_CHAIN/MODEL_CONFIGS/get_llm
// chain-building semantics; the per-model dispatch interface follows the
// shape of the teacher's pkg/agent.LLMClient (Generate/Chunk) narrowed to a
// single non-streaming Complete call, since SPEC_FULL.md §4.1 specifies a
// plain invoke(task_label, messages, temperature) -> response contract, not
// a streaming one.
package llmrouter

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bowjob/jobagent/pkg/apperr"
	"github.com/bowjob/jobagent/pkg/quota"
)

// Role mirrors models.Role but is kept local to avoid a model package
// import cycle (cvtailor/jobsearch/supervisor all depend on llmrouter, and
// some also depend on models — llmrouter itself stays model-agnostic about
// chat content).
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type ChatMessage struct {
	Role    Role
	Content string
}

type ChatRequest struct {
	Messages    []ChatMessage
	Temperature float64
}

type ChatResponse struct {
	Content string
	Usage   Usage
}

type Usage struct {
	PromptTokens     int
	CompletionTokens int
}

// Backend performs one provider call. Implementations must classify
// failures by returning a *TransientError for retryable conditions (network
// error, 429, 5xx, timeout) and a plain error for anything else, which the
// Router treats as fatal and aborts the whole chain on (SPEC_FULL.md §4.1:
// "a non-transient error... aborts the chain immediately").
type Backend interface {
	Complete(ctx context.Context, req ChatRequest) (ChatResponse, error)
}

// TransientError signals a retryable per-model failure.
type TransientError struct {
	Cause error
}

func (e *TransientError) Error() string { return fmt.Sprintf("transient: %v", e.Cause) }
func (e *TransientError) Unwrap() error { return e.Cause }

func IsTransient(err error) bool {
	var t *TransientError
	return errors.As(err, &t)
}

// ModelSpec is one entry in the model pool.
type ModelSpec struct {
	Provider string
	ModelID  string
	RPD      int64 // daily request limit; 0 means unlimited
	Backend  Backend
	// Credentialed reports whether this model's provider has a configured
	// credential. The Router filters out uncredentialed models during
	// chain resolution (SPEC_FULL.md §4.1 step 1).
	Credentialed func() bool
	// Timeout is the per-call timeout for this model (60-90s recommended).
	Timeout time.Duration
}

func (m ModelSpec) quotaKey() quota.CounterKey {
	return quota.CounterKey{Provider: m.Provider, Model: m.ModelID, Period: quota.PeriodRPD}
}

// FallbackChain is the fixed, declared order alternates are tried in after
// a primary failure (original_source/core/llm_router.py FALLBACK_CHAIN).
type FallbackChain []string

// Router picks a model, retries down the fallback chain on transient
// failure, and enforces the Quota Ledger. Safe for concurrent use.
type Router struct {
	pool   map[string]ModelSpec // keyed by ModelID
	chain  FallbackChain
	ledger *quota.Ledger
}

func NewRouter(pool []ModelSpec, chain FallbackChain, ledger *quota.Ledger) *Router {
	m := make(map[string]ModelSpec, len(pool))
	for _, spec := range pool {
		m[spec.ModelID] = spec
		if spec.RPD > 0 {
			ledger.SetLimit(spec.quotaKey(), spec.RPD)
		}
	}
	return &Router{pool: m, chain: chain, ledger: ledger}
}

// resolveChain builds the ordered, de-duplicated list of models to try:
// preferred first (if set and known), then the rest of the fallback chain
// in declared order, duplicates removed (SPEC_FULL.md §4.1).
func (r *Router) resolveChain(preferred string) []ModelSpec {
	seen := make(map[string]bool)
	var ordered []string
	if preferred != "" && preferred != "auto" {
		if _, ok := r.pool[preferred]; ok {
			ordered = append(ordered, preferred)
			seen[preferred] = true
		}
	}
	for _, id := range r.chain {
		if seen[id] {
			continue
		}
		if _, ok := r.pool[id]; ok {
			ordered = append(ordered, id)
			seen[id] = true
		}
	}

	specs := make([]ModelSpec, 0, len(ordered))
	for _, id := range ordered {
		specs = append(specs, r.pool[id])
	}
	return specs
}

// Invoke implements the §4.1 algorithm: resolve the chain, filter by
// credential + quota, try each model in turn, increment the winner's
// counter, or return QuotaExceeded if every candidate is exhausted.
// taskLabel is used only for logging and (in a future extension) per-task
// model preference; it has no effect on routing here beyond that.
func (r *Router) Invoke(ctx context.Context, taskLabel, preferredModel string, req ChatRequest) (ChatResponse, error) {
	chain := r.resolveChain(preferredModel)

	var lastErr error
	tried := 0
	for _, spec := range chain {
		if spec.Credentialed != nil && !spec.Credentialed() {
			continue
		}
		underLimit, err := r.ledger.UnderLimit(ctx, spec.quotaKey())
		if err != nil {
			lastErr = err
			continue
		}
		if !underLimit {
			continue
		}

		tried++
		timeout := spec.Timeout
		if timeout <= 0 {
			timeout = 60 * time.Second
		}
		callCtx, cancel := context.WithTimeout(ctx, timeout)
		resp, err := spec.Backend.Complete(callCtx, req)
		cancel()

		if err == nil {
			if _, incErr := r.ledger.Increment(ctx, spec.quotaKey(), 1); incErr != nil {
				return resp, apperr.Wrap(apperr.KindTransient, "model call succeeded but quota bookkeeping failed", incErr)
			}
			return resp, nil
		}

		if !IsTransient(err) {
			return ChatResponse{}, apperr.Wrap(apperr.KindValidation,
				fmt.Sprintf("request to %s was rejected and cannot be retried", spec.ModelID), err)
		}
		lastErr = err
	}

	if tried == 0 {
		return ChatResponse{}, apperr.Wrap(apperr.KindQuotaExhausted,
			fmt.Sprintf("no configured model is available for %q (none is both credentialed and under quota)", taskLabel), lastErr)
	}
	return ChatResponse{}, apperr.Wrap(apperr.KindQuotaExhausted,
		fmt.Sprintf("every model in the fallback chain failed for %q", taskLabel), lastErr)
}
