package auth_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/ErlanBelekov/data-drive/internal/auth"
	"golang.org/x/crypto/bcrypt"
)

func newHasher() *auth.BcryptHasher {
	return auth.NewBcryptHasher(bcrypt.MinCost)
}

func TestHash_VerifiesOriginalPassword(t *testing.T) {
	h := newHasher()
	for _, pw := range []string{"pw1", "correct horse battery staple", "ünïcødé-pässwörd"} {
		hash, err := h.Hash(pw)
		if err != nil {
			t.Fatalf("hash %q: %v", pw, err)
		}
		if !h.Verify(pw, hash) {
			t.Errorf("Verify(%q, hash(%q)) = false", pw, pw)
		}
	}
}

func TestHash_RejectsOtherPassword(t *testing.T) {
	h := newHasher()
	hash, err := h.Hash("pw1")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if h.Verify("pw2", hash) {
		t.Error("Verify accepted a different password")
	}
}

func TestHash_IsSalted(t *testing.T) {
	h := newHasher()
	first, err := h.Hash("same")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	second, err := h.Hash("same")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}

	if first == second {
		t.Fatal("two hashes of the same password are identical")
	}
	if !h.Verify("same", first) || !h.Verify("same", second) {
		t.Error("salted hashes must both verify")
	}
}

func TestVerify_MalformedHash_ReturnsFalse(t *testing.T) {
	h := newHasher()
	for _, hash := range []string{"", "plaintext", "$2a$", "$argon2id$v=19$m=65536,t=1,p=4$c2FsdA$aGFzaA", "$2a$99$abcdefghijklmnopqrstuv"} {
		if h.Verify("pw", hash) {
			t.Errorf("Verify accepted malformed hash %q", hash)
		}
	}
}

func TestHash_EmptyPassword_RoundTrips(t *testing.T) {
	h := newHasher()
	hash, err := h.Hash("")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !h.Verify("", hash) {
		t.Error("Verify rejected the empty password it hashed")
	}
	if h.Verify("x", hash) {
		t.Error("Verify accepted a different password")
	}
}

func TestHash_PasswordTooLong(t *testing.T) {
	if _, err := newHasher().Hash(strings.Repeat("x", 73)); !errors.Is(err, auth.ErrPasswordTooLong) {
		t.Errorf("want ErrPasswordTooLong, got %v", err)
	}
}

func TestNewBcryptHasher_ZeroCostUsesDefault(t *testing.T) {
	hash, err := auth.NewBcryptHasher(0).Hash("pw")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	cost, err := bcrypt.Cost([]byte(hash))
	if err != nil {
		t.Fatalf("cost: %v", err)
	}
	if cost != bcrypt.DefaultCost {
		t.Errorf("cost = %d, want %d", cost, bcrypt.DefaultCost)
	}
}
