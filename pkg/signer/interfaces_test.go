package signer

import (
	"errors"
	"testing"
)

// MockSigner implements Signer for testing purposes.
type MockSigner struct {
	addr string
	sig  string
	err  error
}

func (m *MockSigner) Address() string {
	return m.addr
}

func (m *MockSigner) Sign(tx Transaction) (string, error) {
	return m.sig, m.err
}

// MockVerifier implements Verifier for testing purposes.
type MockVerifier struct {
	valid map[string]bool
}

func (m *MockVerifier) Verify(from string, tx Transaction, signature string) bool {
	return m.valid[from+signature]
}

// signThenVerify signs tx through the Signer interface and checks the result
// through the Verifier interface, once as is and once from another sender.
func signThenVerify(t *testing.T, s Signer, v Verifier, tx Transaction, other string) {
	t.Helper()
	sig, err := s.Sign(tx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !v.Verify(s.Address(), tx, sig) {
		t.Error("expected signature to verify")
	}
	if v.Verify(other, tx, sig) {
		t.Error("expected signature from another sender to fail")
	}
}

func TestInterfaces(t *testing.T) {
	tx := Transaction{
		To:         "B62qicipYxyEHu7QjUqS7QvBipTs5CzgkYZZZkPoKVYBu6tnDUcE9Zt",
		Fee:        2000000000,
		Nonce:      1,
		ValidUntil: 4294967295,
	}

	t.Run("mock", func(t *testing.T) {
		s := &MockSigner{addr: "B62qsender", sig: "00"}
		v := &MockVerifier{valid: map[string]bool{"B62qsender00": true}}
		signThenVerify(t, s, v, tx, "B62qother")
	})

	t.Run("key signer", func(t *testing.T) {
		s, err := New("164244176fddb5d769b7de2027469d027ad428fadcc0c02396e6280142efb718")
		if err != nil {
			t.Fatalf("New failed: %v", err)
		}
		defer s.Zero()
		v, err := NewVerifier()
		if err != nil {
			t.Fatalf("NewVerifier failed: %v", err)
		}
		signThenVerify(t, s, v, tx, tx.To)

		tx.Kind = KindDelegation
		signThenVerify(t, s, v, tx, tx.To)
	})

	t.Run("mock error", func(t *testing.T) {
		s := &MockSigner{err: ErrInvalidKey}
		if _, err := s.Sign(tx); !errors.Is(err, ErrInvalidKey) {
			t.Errorf("expected ErrInvalidKey, got %v", err)
		}
	})
}

func TestInputError(t *testing.T) {
	err := NewInputError("to", "bad checksum", ErrInvalidAddress)
	if err.Error() != "invalid to: bad checksum: invalid address" {
		t.Errorf("unexpected message %q", err.Error())
	}
	if !errors.Is(err, ErrInvalidAddress) {
		t.Error("expected errors.Is to find ErrInvalidAddress")
	}

	var ie *InputError
	if !errors.As(error(err), &ie) || ie.Field != "to" {
		t.Error("expected errors.As to recover the field")
	}

	bare := NewInputError("memo", "too long", nil)
	if bare.Error() != "invalid memo: too long" {
		t.Errorf("unexpected message %q", bare.Error())
	}
	if bare.Unwrap() != nil {
		t.Error("expected nil cause")
	}
}
