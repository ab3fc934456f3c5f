// Package report prints address, signature and curve check vectors in the
// formats consumed by other signer implementations.
//
// Verbose mode prints one line per vector and curve constants as raw
// Montgomery limbs. Ledger mode prints Python assertions for the hardware
// wallet test suite and curve constants as canonical big-endian bytes. JSON
// mode prints one object per vector.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/smallyu/go-mina-signer/internal/crypto/curves"
	"github.com/smallyu/go-mina-signer/internal/crypto/field"
	"github.com/smallyu/go-mina-signer/internal/jsonx"
	"github.com/smallyu/go-mina-signer/internal/selftest"
)

// Mode selects the output format.
type Mode int

const (
	Verbose Mode = iota
	Ledger
	JSON
)

var modeNames = map[Mode]string{
	Verbose: "verbose",
	Ledger:  "ledger",
	JSON:    "json",
}

func (m Mode) String() string {
	if s, ok := modeNames[m]; ok {
		return s
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

// ParseMode maps a mode name to a Mode.
func ParseMode(s string) (Mode, error) {
	for m, name := range modeNames {
		if strings.EqualFold(s, name) {
			return m, nil
		}
	}
	return 0, fmt.Errorf("report: unknown mode %q", s)
}

// AddressEntry is one derived address.
type AddressEntry struct {
	Account    string `json:"account"`
	PrivateKey string `json:"private_key"`
	Address    string `json:"address"`
}

// SignEntry is one signed transaction.
type SignEntry struct {
	Account    string `json:"account"`
	PrivateKey string `json:"private_key"`
	Source     string `json:"source"`
	Receiver   string `json:"receiver"`
	Amount     uint64 `json:"amount"`
	Fee        uint64 `json:"fee"`
	Nonce      uint32 `json:"nonce"`
	ValidUntil uint32 `json:"valid_until"`
	Memo       string `json:"memo"`
	Delegation bool   `json:"delegation"`
	Signature  string `json:"signature"`
}

// formatter prints entries in one output format.
type formatter interface {
	addressHeader(r *Writer)
	address(r *Writer, e AddressEntry)
	signature(r *Writer, e SignEntry)
	curveChecks(r *Writer, res *selftest.Result)
}

var formatters = map[Mode]formatter{
	Verbose: verboseFormat{},
	Ledger:  ledgerFormat{},
	JSON:    jsonFormat{},
}

// Writer formats entries for one mode. Write errors are sticky: after the
// first failure every call is a no-op and Err returns the failure.
type Writer struct {
	w    io.Writer
	mode Mode
	f    formatter
	err  error
}

// New returns a Writer printing to w in the given mode. Unknown modes print
// verbose output.
func New(w io.Writer, mode Mode) *Writer {
	f, ok := formatters[mode]
	if !ok {
		f = verboseFormat{}
	}
	return &Writer{w: w, mode: mode, f: f}
}

// Mode returns the output mode.
func (r *Writer) Mode() Mode { return r.mode }

// Err returns the first write error.
func (r *Writer) Err() error { return r.err }

// AddressHeader starts the address section. Only ledger mode prints one.
func (r *Writer) AddressHeader() { r.f.addressHeader(r) }

// Address prints one address entry.
func (r *Writer) Address(e AddressEntry) { r.f.address(r, e) }

// Signature prints one signed transaction.
func (r *Writer) Signature(e SignEntry) { r.f.signature(r, e) }

// CurveChecks prints the scalars, points and targets of a self-test run as
// C constants, or as one JSON object per epoch.
func (r *Writer) CurveChecks(res *selftest.Result) { r.f.curveChecks(r, res) }

func (r *Writer) printf(format string, args ...interface{}) {
	if r.err != nil {
		return
	}
	_, r.err = fmt.Fprintf(r.w, format, args...)
}

func (r *Writer) encode(v interface{}) {
	if r.err != nil {
		return
	}
	r.err = jsonx.NewEncoder(r.w).Encode(v)
}

// bytes prints b as hex byte literals, eight per line.
func (r *Writer) bytes(b []byte, indent string) {
	for i, v := range b {
		if i%8 == 0 {
			r.printf("\n%s", indent)
		}
		r.printf("0x%02x, ", v)
	}
}

// constants prints the curve_checks.h body. scalar and affine print one
// table element each.
func (r *Writer) constants(res *selftest.Result, generate bool, scalar func(*field.Fq), affine func(*curves.Point)) {
	n := len(res.Epochs)
	r.printf("// curve_checks.h - elliptic curve unit tests\n")
	r.printf("//\n")
	r.printf("//    These constants were generated by mina-signer\n")
	if generate {
		r.printf("//\n")
		r.printf("//    Generate: mina-signer selftest --mode ledger\n")
	}
	r.printf("\n#pragma once\n\n#include \"crypto.h\"\n\n")
	r.printf("#define EPOCHS %d\n\n", n)

	r.printf("// Test scalars\n")
	r.printf("static const Scalar S[%d][2] = {\n", n)
	for i := range res.Epochs {
		e := &res.Epochs[i]
		r.printf("    {\n")
		scalar(&e.S[0])
		scalar(&e.S[1])
		r.printf("    },\n")
	}
	r.printf("};\n\n")

	r.printf("// Test curve points\n")
	r.printf("static const Affine A[%d][3] = {\n", n)
	for i := range res.Epochs {
		r.printf("    {\n")
		for j := range res.Epochs[i].A {
			affine(&res.Epochs[i].A[j])
		}
		r.printf("    },\n")
	}
	r.printf("};\n\n")

	r.printf("// Target outputs\n")
	r.printf("static const Affine T[%d][%d] = {\n", n, len(selftest.Targets{}))
	for i := range res.Epochs {
		r.printf("    {\n")
		for j := range res.Epochs[i].T {
			affine(&res.Epochs[i].T[j])
		}
		r.printf("    },\n")
	}
	r.printf("};\n\n")
	r.printf("bool curve_checks(void);\n\n")
}

// verboseFormat prints one line per vector and raw Montgomery limbs.
type verboseFormat struct{}

func (verboseFormat) addressHeader(r *Writer) {}

func (verboseFormat) address(r *Writer, e AddressEntry) {
	r.printf("%s => %s\n", e.PrivateKey, e.Address)
}

func (verboseFormat) signature(r *Writer, e SignEntry) {
	r.printf("%s %s\n", kindName(e), e.Signature)
}

func (verboseFormat) curveChecks(r *Writer, res *selftest.Result) {
	r.constants(res, false,
		func(s *field.Fq) {
			r.printf("        { %s},\n", limbs(*s))
		},
		func(p *curves.Point) {
			r.printf("        {\n")
			r.printf("            { %s },\n", limbs(p.X))
			r.printf("            { %s },", limbs(p.Y))
			r.printf("\n        },\n")
		})
}

// limbs formats the internal Montgomery words of a field element.
func limbs(w [4]uint64) string {
	var sb strings.Builder
	for _, v := range w {
		fmt.Fprintf(&sb, "0x%016x, ", v)
	}
	return sb.String()
}

// ledgerFormat prints the hardware wallet test suite: python assertions
// and canonical big-endian bytes.
type ledgerFormat struct{}

func (ledgerFormat) addressHeader(r *Writer) {
	r.printf("    # Address generation tests\n")
	r.printf("    #\n")
	r.printf("    #     These tests were automatically generated by mina-signer\n")
	r.printf("    #\n")
	r.printf("    #     Generate: mina-signer selftest --mode ledger\n")
	r.printf("\n")
}

func (ledgerFormat) address(r *Writer, e AddressEntry) {
	r.printf("    # account %s\n", e.Account)
	r.printf("    # private key %s\n", e.PrivateKey)
	r.printf("    assert(mina.ledger_get_address(%s) == \"%s\")\n\n", e.Account, e.Address)
}

func (ledgerFormat) signature(r *Writer, e SignEntry) {
	txType := "TX_TYPE_PAYMENT"
	if e.Delegation {
		txType = "TX_TYPE_DELEGATION"
	}
	const indent = "                               "
	r.printf("    # account %s\n", e.Account)
	r.printf("    # private key %s\n", e.PrivateKey)
	r.printf("    # sig=%s\n", e.Signature)
	r.printf("    assert(mina.ledger_sign_tx(mina.%s,\n", txType)
	r.printf(indent+"%s,\n", e.Account)
	r.printf(indent+"\"%s\",\n", e.Source)
	r.printf(indent+"\"%s\",\n", e.Receiver)
	r.printf(indent+"%d,\n", e.Amount)
	r.printf(indent+"%d,\n", e.Fee)
	r.printf(indent+"%d,\n", e.Nonce)
	r.printf(indent+"%d,\n", e.ValidUntil)
	r.printf(indent+"\"%s\") == \"%s\")\n\n", e.Memo, e.Signature)
}

func (ledgerFormat) curveChecks(r *Writer, res *selftest.Result) {
	r.constants(res, true,
		func(s *field.Fq) {
			b := s.Bytes()
			r.printf("        {")
			r.bytes(b[:], "            ")
			r.printf("\n        },\n")
		},
		func(p *curves.Point) {
			x, y := p.X.Bytes(), p.Y.Bytes()
			r.printf("        {\n")
			r.printf("            {")
			r.bytes(x[:], "                ")
			r.printf("\n            },\n")
			r.printf("            {")
			r.bytes(y[:], "                ")
			r.printf("\n            },")
			r.printf("\n        },\n")
		})
}

// jsonFormat prints one object per line.
type jsonFormat struct{}

func (jsonFormat) addressHeader(r *Writer) {}

func (jsonFormat) address(r *Writer, e AddressEntry) {
	r.encode(struct {
		Type string `json:"type"`
		AddressEntry
	}{"address", e})
}

func (jsonFormat) signature(r *Writer, e SignEntry) {
	r.encode(struct {
		Type string `json:"type"`
		SignEntry
	}{kindName(e), e})
}

func (jsonFormat) curveChecks(r *Writer, res *selftest.Result) {
	for i := range res.Epochs {
		r.encode(epochJSON(i, &res.Epochs[i]))
	}
}

func kindName(e SignEntry) string {
	if e.Delegation {
		return "delegation"
	}
	return "payment"
}

type pointJSON struct {
	X string `json:"x"`
	Y string `json:"y"`
}

type epochDoc struct {
	Type    string       `json:"type"`
	Epoch   int          `json:"epoch"`
	Scalars [3]string    `json:"scalars"`
	Points  [3]pointJSON `json:"points"`
	Targets [5]pointJSON `json:"targets"`
}

func epochJSON(i int, e *selftest.Epoch) epochDoc {
	d := epochDoc{Type: "epoch", Epoch: i}
	for j := range e.S {
		d.Scalars[j] = e.S[j].Hex()
	}
	for j := range e.A {
		d.Points[j] = pointJSON{X: e.A[j].X.Hex(), Y: e.A[j].Y.Hex()}
	}
	for j := range e.T {
		d.Targets[j] = pointJSON{X: e.T[j].X.Hex(), Y: e.T[j].Y.Hex()}
	}
	return d
}
