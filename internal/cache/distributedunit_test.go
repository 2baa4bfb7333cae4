package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewDistributed_DefaultsToPlaintext(t *testing.T) {
	d := NewDistributed[testToken](nil, 5*time.Minute, "moov:token:", nil)

	assert.IsType(t, PlaintextStrategy{}, d.strategy)
	assert.Equal(t, "moov:token:acct-1", d.storageKey("acct-1"))
}

func TestDistributedStorageKey(t *testing.T) {
	tests := []struct {
		name     string
		prefix   string
		strategy EncryptionStrategy
		key      string
		expected string
	}{
		{"plaintext", "moov:token:", PlaintextStrategy{}, "acct-1", "moov:token:acct-1"},
		{"encrypted", "moov:token:", newAEADStrategy(t), "acct-1", "moov:token:enc:acct-1"},
		{"no prefix", "", newAEADStrategy(t), "acct-1", "enc:acct-1"},
		{"instrumented", "p:", NewInstrumentedStrategy(newAEADStrategy(t)), "acct-1", "p:enc:acct-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDistributed[testToken](nil, time.Minute, tt.prefix, tt.strategy)
			assert.Equal(t, tt.expected, d.storageKey(tt.key))
		})
	}
}
