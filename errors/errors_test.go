package errors

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestNew_DefaultCategory(t *testing.T) {
	tests := []struct {
		code     ErrorCode
		category ErrorCategory
	}{
		{ErrCodeTimeout, CategoryTransient},
		{ErrCodeUnavailable, CategoryTransient},
		{ErrCodeNetworkErr, CategoryTransient},
		{ErrCodeRateLimit, CategoryResource},
		{ErrCodeQuotaExceeded, CategoryResource},
		{ErrCodeUnauthorized, CategoryPermanent},
		{ErrCodeInvalidInput, CategoryPermanent},
		{ErrCodeConfig, CategoryPermanent},
		{ErrCodeSchemaMismatch, CategoryInternal},
		{ErrCodeInternal, CategoryInternal},
	}

	for _, tt := range tests {
		err := New(tt.code, "test")
		if err.Category() != tt.category {
			t.Errorf("%s: expected category %s, got %s", tt.code, tt.category, err.Category())
		}
	}
}

func TestError_Retryable(t *testing.T) {
	if !New(ErrCodeTimeout, "t").Retryable() {
		t.Error("timeout should be retryable")
	}
	if !New(ErrCodeRateLimit, "r").Retryable() {
		t.Error("rate limit should be retryable")
	}
	if New(ErrCodeUnauthorized, "u").Retryable() {
		t.Error("unauthorized should not be retryable")
	}
	if New(ErrCodeTimeout, "t", WithRetryable(false)).Retryable() {
		t.Error("explicit override should win over category default")
	}
}

func TestCodeForStatus(t *testing.T) {
	tests := []struct {
		status int
		code   ErrorCode
	}{
		{401, ErrCodeUnauthorized},
		{402, ErrCodeQuotaExceeded},
		{403, ErrCodeUnauthorized},
		{408, ErrCodeTimeout},
		{422, ErrCodeInvalidInput},
		{429, ErrCodeRateLimit},
		{500, ErrCodeUnavailable},
		{502, ErrCodeUnavailable},
		{503, ErrCodeUnavailable},
	}

	for _, tt := range tests {
		if got := CodeForStatus(tt.status); got != tt.code {
			t.Errorf("status %d: expected %s, got %s", tt.status, tt.code, got)
		}
	}
}

func TestTransport_Classification(t *testing.T) {
	err := Transport(503, "upstream overloaded")
	if err.StatusCode() != 503 {
		t.Errorf("expected status 503, got %d", err.StatusCode())
	}
	if !err.Retryable() {
		t.Error("503 should be retryable")
	}
	if !strings.Contains(err.Error(), "503") {
		t.Errorf("message should carry the status: %s", err.Error())
	}

	err = Transport(400, "bad input list")
	if err.Retryable() {
		t.Error("400 should not be retryable")
	}
	if err.Code() != ErrCodeInvalidInput {
		t.Errorf("expected INVALID_INPUT, got %s", err.Code())
	}
}

func TestWrap_PreservesCode(t *testing.T) {
	inner := Transport(429, "slow down")
	wrapped := Wrap(inner, "embedding batch 2")

	if wrapped.Code() != ErrCodeRateLimit {
		t.Errorf("expected RATE_LIMITED, got %s", wrapped.Code())
	}
	if !wrapped.Retryable() {
		t.Error("wrapped rate limit should stay retryable")
	}
	if wrapped.StatusCode() != 429 {
		t.Errorf("expected status 429, got %d", wrapped.StatusCode())
	}
	if !stderrors.Is(wrapped, inner) {
		t.Error("wrapped error should match the original in the chain")
	}
}

func TestWrap_ContextErrors(t *testing.T) {
	err := Wrap(context.DeadlineExceeded, "embedding request")
	if err.Code() != ErrCodeTimeout {
		t.Errorf("expected TIMEOUT, got %s", err.Code())
	}

	err = Wrap(context.Canceled, "embedding request")
	if err.Code() != ErrCodeCanceled {
		t.Errorf("expected CANCELED, got %s", err.Code())
	}
}

func TestWrap_Nil(t *testing.T) {
	if Wrap(nil, "nothing") != nil {
		t.Error("wrapping nil should return nil")
	}
}

func TestIsRetryable(t *testing.T) {
	if IsRetryable(nil) {
		t.Error("nil is not retryable")
	}
	if !IsRetryable(fmt.Errorf("connection reset by peer")) {
		t.Error("raw transport errors should be treated as retryable")
	}
	if IsRetryable(context.Canceled) {
		t.Error("canceled context should not be retried")
	}
	if IsRetryable(Unauthorized("bad key")) {
		t.Error("auth rejection should not be retried")
	}
	if !IsRetryable(Transport(500, "boom")) {
		t.Error("5xx should be retried")
	}
}

func TestIs_And_IsCategory(t *testing.T) {
	err := RateLimited("slow down")
	if !Is(err, ErrCodeRateLimit) {
		t.Error("Is should match the code")
	}
	if Is(err, ErrCodeTimeout) {
		t.Error("Is should not match a different code")
	}
	if !IsCategory(err, CategoryResource) {
		t.Error("IsCategory should match")
	}
	if IsTransient(err) {
		t.Error("rate limit is resource, not transient")
	}
}

func TestError_JSONRoundTrip(t *testing.T) {
	orig := Transport(500, "internal failure",
		WithModel("text-embedding-3-small"),
		WithMetadata("batch", "3"))

	data, err := json.Marshal(orig)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var decoded Error
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if decoded.Code() != orig.Code() {
		t.Errorf("code mismatch: %s vs %s", decoded.Code(), orig.Code())
	}
	if decoded.StatusCode() != 500 {
		t.Errorf("expected status 500, got %d", decoded.StatusCode())
	}
	if decoded.Model() != "text-embedding-3-small" {
		t.Errorf("model mismatch: %s", decoded.Model())
	}
	if decoded.Metadata()["batch"] != "3" {
		t.Error("metadata should survive the round trip")
	}
	if !decoded.Retryable() {
		t.Error("retryable flag should survive the round trip")
	}
}

func TestAsCodedError(t *testing.T) {
	plain := fmt.Errorf("plain failure")
	if AsCodedError(plain) != nil {
		t.Error("plain errors should not extract")
	}

	coded := fmt.Errorf("outer: %w", Config("missing api key"))
	extracted := AsCodedError(coded)
	if extracted == nil {
		t.Fatal("expected a coded error in the chain")
	}
	if extracted.Code() != ErrCodeConfig {
		t.Errorf("expected CONFIG, got %s", extracted.Code())
	}
}
