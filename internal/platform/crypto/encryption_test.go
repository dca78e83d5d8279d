package crypto

import (
	"bytes"
	"encoding/hex"
	"testing"
)

func TestRoundTrip(t *testing.T) {
	key := hex.EncodeToString(bytes.Repeat([]byte{0x42}, 32))
	svc, err := New(key)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if !svc.Configured() {
		t.Fatal("expected configured service")
	}

	enc, err := svc.EncryptString("JBSWY3DPEHPK3PXP")
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}
	if bytes.Contains(enc, []byte("JBSWY3DP")) {
		t.Fatal("ciphertext leaks plaintext")
	}

	dec, err := svc.DecryptString(enc)
	if err != nil {
		t.Fatalf("decrypt: %v", err)
	}
	if dec != "JBSWY3DPEHPK3PXP" {
		t.Fatalf("round trip mismatch: %q", dec)
	}
}

func TestUnconfiguredPassThrough(t *testing.T) {
	svc, err := New("")
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	out, err := svc.Encrypt([]byte("plain"))
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}
	if string(out) != "plain" {
		t.Fatal("unconfigured service must pass data through")
	}
}

func TestRejectsShortKey(t *testing.T) {
	if _, err := New(hex.EncodeToString([]byte("short"))); err == nil {
		t.Fatal("expected error for short key")
	}
}

func TestDecryptRejectsTruncated(t *testing.T) {
	key := hex.EncodeToString(bytes.Repeat([]byte{0x01}, 32))
	svc, _ := New(key)
	if _, err := svc.Decrypt([]byte{0x01, 0x02}); err == nil {
		t.Fatal("expected error for truncated ciphertext")
	}
}
