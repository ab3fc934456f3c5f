// Package selftest checks the field and curve layers against algebraic laws
// on a reproducible set of scalars. A failure means the arithmetic is broken
// and nothing signed by this process can be trusted.
package selftest

import (
	"crypto/sha256"
	"errors"
	"fmt"

	"github.com/smallyu/go-mina-signer/internal/crypto/curves"
	"github.com/smallyu/go-mina-signer/internal/crypto/field"
)

// DefaultEpochs is the number of scalar triples checked by RunChecks.
const DefaultEpochs = 10

var (
	ErrLawViolated = errors.New("selftest: algebraic law violated")
	ErrEpochs      = errors.New("selftest: epochs must be positive")
)

// Law names one of the checks run per epoch.
type Law int

const (
	OnCurve Law = iota
	AddCommutes
	ScalarAddDistributes
	ScalarMulDistributes
	NegationCommutes
	AddAssociates
)

var lawNames = [...]string{
	OnCurve:              "on curve",
	AddCommutes:          "A0 + A1 == A1 + A0",
	ScalarAddDistributes: "G*(S0 + S1) == G*S0 + G*S1",
	ScalarMulDistributes: "G*(S0*S1) == S0*(G*S1)",
	NegationCommutes:     "G*(-S0) == -(G*S0)",
	AddAssociates:        "(A0 + A1) + A2 == A0 + (A1 + A2)",
}

func (l Law) String() string {
	if l < 0 || int(l) >= len(lawNames) {
		return fmt.Sprintf("law(%d)", int(l))
	}
	return lawNames[l]
}

// Targets are the points each law produced, in the order of the laws after
// OnCurve.
type Targets [5]curves.Point

// Epoch holds the generated scalars, their points and the check targets.
type Epoch struct {
	S [3]field.Fq
	A [3]curves.Point
	T Targets
}

// Result is the output of a run.
type Result struct {
	Epochs []Epoch
}

// Violation describes the first law that failed.
type Violation struct {
	Epoch int
	Law   Law
}

func (v *Violation) Error() string {
	return fmt.Sprintf("epoch %d: %s", v.Epoch, v.Law)
}

func (v *Violation) Unwrap() error {
	return ErrLawViolated
}

// hashScalar maps s to the next scalar: SHA-256 of the big-endian canonical
// bytes with the two most significant bits cleared.
func hashScalar(s *field.Fq) field.Fq {
	b := s.Bytes()
	d := sha256.Sum256(b[:])
	d[0] &= 0x3f

	var out field.Fq
	_ = out.SetBytes(d[:])
	return out
}

// Scalars returns the scalar triples for n epochs. The chain starts at zero;
// each epoch uses s0, s1 = H(s0), s2 = H(s1) and seeds the next epoch with
// H(s2).
func Scalars(n int) [][3]field.Fq {
	out := make([][3]field.Fq, n)
	var s0 field.Fq
	for i := 0; i < n; i++ {
		s1 := hashScalar(&s0)
		s2 := hashScalar(&s1)
		out[i] = [3]field.Fq{s0, s1, s2}
		s0 = hashScalar(&s2)
	}
	return out
}

// Run generates epochs scalar triples and checks every law. It returns the
// generated vectors, or an error wrapping ErrLawViolated at the first
// failure.
func Run(epochs int) (*Result, error) {
	if epochs <= 0 {
		return nil, ErrEpochs
	}

	res := &Result{Epochs: make([]Epoch, 0, epochs)}
	for i, s := range Scalars(epochs) {
		e, law, ok := check(s)
		if !ok {
			return nil, &Violation{Epoch: i, Law: law}
		}
		res.Epochs = append(res.Epochs, e)
	}
	return res, nil
}

// RunChecks runs DefaultEpochs epochs and reports whether every law holds.
func RunChecks() bool {
	_, err := Run(DefaultEpochs)
	return err == nil
}

func check(s [3]field.Fq) (Epoch, Law, bool) {
	e := Epoch{S: s}
	for j := range s {
		e.A[j].ScalarBaseMult(&s[j])
	}
	law, ok := checkLaws(&e)
	return e, law, ok
}

// checkLaws verifies the laws for e.S and e.A and fills e.T.
func checkLaws(e *Epoch) (Law, bool) {
	s := &e.S
	a0, a1, a2 := &e.A[0], &e.A[1], &e.A[2]

	if !a0.IsOnCurve() || !a1.IsOnCurve() || !a2.IsOnCurve() {
		return OnCurve, false
	}

	var l, r curves.Point
	var k field.Fq

	// A0 + A1 == A1 + A0
	l.Add(a0, a1)
	r.Add(a1, a0)
	if !l.Equal(&r) || !l.IsOnCurve() {
		return AddCommutes, false
	}
	e.T[0] = l

	// G*(S0 + S1) == G*S0 + G*S1
	k.Add(&s[0], &s[1])
	l.ScalarBaseMult(&k)
	r.Add(a0, a1)
	if !l.Equal(&r) || !l.IsOnCurve() {
		return ScalarAddDistributes, false
	}
	e.T[1] = l

	// G*(S0*S1) == S0*(G*S1)
	k.Mul(&s[0], &s[1])
	l.ScalarBaseMult(&k)
	r.ScalarMult(&s[0], a1)
	if !l.Equal(&r) || !l.IsOnCurve() {
		return ScalarMulDistributes, false
	}
	e.T[2] = l

	// G*(-S0) == -(G*S0)
	k.Neg(&s[0])
	l.ScalarBaseMult(&k)
	r.Neg(a0)
	if !l.Equal(&r) || !l.IsOnCurve() {
		return NegationCommutes, false
	}
	e.T[3] = l

	// (A0 + A1) + A2 == A0 + (A1 + A2)
	var t curves.Point
	t.Add(a0, a1)
	l.Add(&t, a2)
	t.Add(a1, a2)
	r.Add(a0, &t)
	if !l.Equal(&r) || !l.IsOnCurve() {
		return AddAssociates, false
	}
	e.T[4] = l

	return 0, true
}
