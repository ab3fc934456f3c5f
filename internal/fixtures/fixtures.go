// Package fixtures holds the reference address and signing vectors.
package fixtures

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/smallyu/go-mina-signer/internal/protocol/transaction"
)

//go:embed vectors.yaml
var vectorsYAML []byte

// AddressCase maps a private key to its address.
type AddressCase struct {
	Account    string `yaml:"account"`
	PrivateKey string `yaml:"private_key"`
	Address    string `yaml:"address"`
}

// SignCase is one transaction signed by PrivateKey.
type SignCase struct {
	Account    string `yaml:"account"`
	PrivateKey string `yaml:"private_key"`
	Receiver   string `yaml:"receiver"`
	Amount     uint64 `yaml:"amount"`
	Fee        uint64 `yaml:"fee"`
	Nonce      uint32 `yaml:"nonce"`
	ValidUntil uint32 `yaml:"valid_until"`
	Memo       string `yaml:"memo"`
	Delegation bool   `yaml:"delegation"`
	Signature  string `yaml:"signature"`
}

// Kind returns the transaction kind of c.
func (c *SignCase) Kind() transaction.Kind {
	if c.Delegation {
		return transaction.Delegation
	}
	return transaction.Payment
}

// Transaction builds the transaction of c sent from the given address.
func (c *SignCase) Transaction(from string) (*transaction.Transaction, error) {
	p := transaction.Params{
		From:       from,
		To:         c.Receiver,
		Amount:     c.Amount,
		Fee:        c.Fee,
		Nonce:      c.Nonce,
		ValidUntil: c.ValidUntil,
		Memo:       c.Memo,
	}
	if c.Delegation {
		return transaction.NewDelegation(p)
	}
	return transaction.NewPayment(p)
}

// Set is the full vector set.
type Set struct {
	Addresses  []AddressCase `yaml:"addresses"`
	Signatures []SignCase    `yaml:"signatures"`
}

// Load decodes the embedded vectors.
func Load() (*Set, error) {
	return Parse(vectorsYAML)
}

// Parse decodes a vector set in the embedded format.
func Parse(data []byte) (*Set, error) {
	var s Set
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("fixtures: decode vectors: %w", err)
	}
	return &s, nil
}
