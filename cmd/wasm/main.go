//go:build js && wasm

package main

import (
	"fmt"
	"syscall/js"

	"github.com/smallyu/go-mina-signer/internal/jsonx"
	"github.com/smallyu/go-mina-signer/pkg/signer"
)

// Active signers keyed by their address.
var signers = make(map[string]*signer.KeySigner)

func main() {
	c := make(chan struct{})

	fmt.Println("Go Mina signer WASM initialized")

	js.Global().Set("GoMinaSigner", map[string]interface{}{
		"Address":     js.FuncOf(Address),
		"GenerateKey": js.FuncOf(GenerateKey),
		"NewSigner":   js.FuncOf(NewSigner),
		"Sign":        js.FuncOf(Sign),
		"Close":       js.FuncOf(Close),
		"Verify":      js.FuncOf(Verify),
	})

	<-c
}

// optionsInput selects the network and nonce derivation.
type optionsInput struct {
	Network string `json:"network"`
	Nonce   string `json:"nonce"`
}

func parseOptions(args []js.Value, i int) ([]signer.Option, error) {
	if len(args) <= i || args[i].IsUndefined() || args[i].IsNull() {
		return nil, nil
	}
	var in optionsInput
	if err := jsonx.Unmarshal([]byte(args[i].String()), &in); err != nil {
		return nil, err
	}
	return []signer.Option{signer.WithNetwork(in.Network), signer.WithNonce(in.Nonce)}, nil
}

// Address derives the address of a private key.
// Arguments:
// 0: private key hex
// Returns:
// address or "error: ..."
func Address(this js.Value, args []js.Value) interface{} {
	if len(args) != 1 {
		return "error: expected 1 argument (privateKey)"
	}
	addr, err := signer.Address(args[0].String())
	if err != nil {
		return fmt.Sprintf("error: %v", err)
	}
	return addr
}

// GenerateKey returns a JSON object {privateKey, address}.
func GenerateKey(this js.Value, args []js.Value) interface{} {
	priv, addr, err := signer.GenerateKey()
	if err != nil {
		return fmt.Sprintf("error: %v", err)
	}
	b, _ := jsonx.Marshal(map[string]string{"privateKey": priv, "address": addr})
	return string(b)
}

// NewSigner keeps a signer for a private key.
// Arguments:
// 0: private key hex
// 1: optional JSON options {network, nonce}
// Returns:
// the signer's address, used as its handle
func NewSigner(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return "error: expected at least 1 argument (privateKey, [jsonOptions])"
	}
	opts, err := parseOptions(args, 1)
	if err != nil {
		return fmt.Sprintf("error: invalid options json: %v", err)
	}
	s, err := signer.New(args[0].String(), opts...)
	if err != nil {
		return fmt.Sprintf("error: %v", err)
	}
	if old, ok := signers[s.Address()]; ok {
		old.Zero()
	}
	signers[s.Address()] = s
	return s.Address()
}

// Sign signs a transaction with a kept signer.
// Arguments:
// 0: signer address
// 1: JSON transaction {kind, to, amount, fee, nonce, valid_until, memo}
// Returns:
// signature hex
func Sign(this js.Value, args []js.Value) interface{} {
	if len(args) != 2 {
		return "error: expected 2 arguments (address, jsonTx)"
	}
	s, ok := signers[args[0].String()]
	if !ok {
		return "error: signer not found"
	}
	var tx signer.Transaction
	if err := jsonx.Unmarshal([]byte(args[1].String()), &tx); err != nil {
		return fmt.Sprintf("error: invalid transaction json: %v", err)
	}
	sig, err := s.Sign(tx)
	if err != nil {
		return fmt.Sprintf("error: %v", err)
	}
	return sig
}

// Close wipes and forgets a kept signer.
func Close(this js.Value, args []js.Value) interface{} {
	if len(args) != 1 {
		return "error: expected 1 argument (address)"
	}
	if s, ok := signers[args[0].String()]; ok {
		s.Zero()
		delete(signers, args[0].String())
	}
	return nil
}

// Verify checks a signature.
// Arguments:
// 0: sender address
// 1: JSON transaction
// 2: signature hex
// 3: optional JSON options
// Returns:
// bool
func Verify(this js.Value, args []js.Value) interface{} {
	if len(args) < 3 {
		return "error: expected at least 3 arguments (from, jsonTx, signature, [jsonOptions])"
	}
	opts, err := parseOptions(args, 3)
	if err != nil {
		return fmt.Sprintf("error: invalid options json: %v", err)
	}
	v, err := signer.NewVerifier(opts...)
	if err != nil {
		return fmt.Sprintf("error: %v", err)
	}
	var tx signer.Transaction
	if err := jsonx.Unmarshal([]byte(args[1].String()), &tx); err != nil {
		return fmt.Sprintf("error: invalid transaction json: %v", err)
	}
	return v.Verify(args[0].String(), tx, args[2].String())
}
