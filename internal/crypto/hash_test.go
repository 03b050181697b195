package crypto

import (
	"strings"
	"testing"
)

func TestHash(t *testing.T) {
	hash, err := DefaultHasher().Hash("correct-horse-battery-staple")
	if err != nil {
		t.Fatalf("Hash() unexpected error: %v", err)
	}

	// $argon2id$v=19$m=65536,t=3,p=2$<salt>$<hash>
	parts := strings.Split(hash, "$")
	if len(parts) != 6 {
		t.Fatalf("Hash() expected 6 parts, got %d: %q", len(parts), hash)
	}
	if parts[1] != "argon2id" {
		t.Errorf("Hash() algorithm = %q, want %q", parts[1], "argon2id")
	}
	if parts[2] != "v=19" {
		t.Errorf("Hash() version = %q, want %q", parts[2], "v=19")
	}
	if parts[3] != "m=65536,t=3,p=2" {
		t.Errorf("Hash() params = %q, want %q", parts[3], "m=65536,t=3,p=2")
	}
}

func TestVerify(t *testing.T) {
	h := NewHasher(HashParams{Memory: 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32})

	hash, err := h.Hash("test")
	if err != nil {
		t.Fatalf("Hash() unexpected error: %v", err)
	}

	tests := []struct {
		name     string
		password string
		want     bool
	}{
		{name: "correct password", password: "test", want: true},
		{name: "wrong password", password: "tes", want: false},
		{name: "empty password", password: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := h.Verify(tt.password, hash)
			if err != nil {
				t.Fatalf("Verify() unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Verify() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestVerifyUsesStoredParams(t *testing.T) {
	cheap := NewHasher(HashParams{Memory: 1024, Iterations: 1, Parallelism: 1, SaltLength: 8, KeyLength: 16})
	hash, err := cheap.Hash("secret")
	if err != nil {
		t.Fatalf("Hash() unexpected error: %v", err)
	}

	ok, err := DefaultHasher().Verify("secret", hash)
	if err != nil {
		t.Fatalf("Verify() unexpected error: %v", err)
	}
	if !ok {
		t.Error("Verify() should honour the parameters encoded in the hash")
	}
}

func TestHashProducesDifferentHashes(t *testing.T) {
	h := NewHasher(HashParams{Memory: 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32})

	hash1, err := h.Hash("same-password")
	if err != nil {
		t.Fatalf("Hash() unexpected error: %v", err)
	}
	hash2, err := h.Hash("same-password")
	if err != nil {
		t.Fatalf("Hash() unexpected error: %v", err)
	}
	if hash1 == hash2 {
		t.Error("Hash() produced identical hashes for same password (salt should differ)")
	}
}

func TestVerifyInvalidHash(t *testing.T) {
	tests := []struct {
		name    string
		encoded string
		wantErr error
	}{
		{name: "garbage", encoded: "invalid-hash-format", wantErr: ErrInvalidHashFormat},
		{name: "wrong algorithm", encoded: "$bcrypt$v=19$m=1,t=1,p=1$c2FsdA$aGFzaA", wantErr: ErrInvalidHashFormat},
		{name: "wrong version", encoded: "$argon2id$v=16$m=1,t=1,p=1$c2FsdA$aGFzaA", wantErr: ErrIncompatibleVersion},
		{name: "bad salt", encoded: "$argon2id$v=19$m=1,t=1,p=1$!!!$aGFzaA", wantErr: ErrInvalidHashFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DefaultHasher().Verify("password", tt.encoded)
			if err != tt.wantErr {
				t.Errorf("Verify() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
