package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"
)

// recordingHook captures callback order and payloads.
type recordingHook struct {
	before []string
	after  []string
	errs   []error
}

func (h *recordingHook) Before(_ context.Context, role, _ string, _ any) {
	h.before = append(h.before, role)
}

func (h *recordingHook) After(_ context.Context, role string, _ json.RawMessage, err error) {
	h.after = append(h.after, role)
	h.errs = append(h.errs, err)
}

func TestWithHooksObservesCalls(t *testing.T) {
	hook := &recordingHook{}
	cli := Wrap(NewFakeClient(), WithHooks(hook))

	ctx := WithRole(context.Background(), RoleAgent)
	raw, err := cli.GenerateJSON(ctx, "prompt", nil)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(raw) == 0 {
		t.Fatalf("empty response")
	}
	if len(hook.before) != 1 || hook.before[0] != RoleAgent {
		t.Fatalf("before: %v", hook.before)
	}
	if len(hook.after) != 1 || hook.after[0] != RoleAgent {
		t.Fatalf("after: %v", hook.after)
	}
	if hook.errs[0] != nil {
		t.Fatalf("err passed to hook: %v", hook.errs[0])
	}
}

func TestWithHooksSeesEachRetryAttempt(t *testing.T) {
	hook := &recordingHook{}
	inner := &countingClient{failures: 1, err: errors.New("transient")}
	cli := Wrap(inner, Retry(3, time.Millisecond), WithHooks(hook))

	if _, err := cli.GenerateJSON(context.Background(), "p", nil); err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(hook.before) != 2 || len(hook.after) != 2 {
		t.Fatalf("attempts observed: before=%d after=%d", len(hook.before), len(hook.after))
	}
	if hook.errs[0] == nil || hook.errs[1] != nil {
		t.Fatalf("attempt errors: %v", hook.errs)
	}
}

func TestWithHooksPropagatesError(t *testing.T) {
	hook := &recordingHook{}
	inner := &countingClient{failures: 10, err: errors.New("down")}
	cli := Wrap(inner, WithHooks(hook))

	if _, err := cli.GenerateJSON(context.Background(), "p", nil); err == nil {
		t.Fatalf("expected error")
	}
	if len(hook.errs) != 1 || hook.errs[0] == nil {
		t.Fatalf("errs: %v", hook.errs)
	}
}
