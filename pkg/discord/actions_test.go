package discord

import (
	"context"
	"testing"
)

func TestRequestOptionsCarriesAuditReason(t *testing.T) {
	opts := requestOptions(context.Background(), "spam reiterado")
	if len(opts) != 2 {
		t.Errorf("len(opts) = %d, want 2 (context + audit log reason)", len(opts))
	}
}

func TestRequestOptionsWithoutReason(t *testing.T) {
	opts := requestOptions(context.Background(), "")
	if len(opts) != 1 {
		t.Errorf("len(opts) = %d, want 1 (context only)", len(opts))
	}
}
