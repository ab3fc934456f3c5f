package sign

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/smallyu/go-mina-signer/internal/crypto/curves"
	"github.com/smallyu/go-mina-signer/internal/crypto/schnorr"
	"github.com/smallyu/go-mina-signer/internal/protocol/keys"
	"github.com/smallyu/go-mina-signer/internal/protocol/transaction"
)

var ErrEmptyBatch = errors.New("sign: empty batch")

// Request pairs a transaction with the key pair that signs it.
type Request struct {
	Keypair *keys.Keypair
	Tx      *transaction.Transaction
}

// VerifyRequest is one signature to check.
type VerifyRequest struct {
	Signature *schnorr.Signature
	PublicKey curves.Compressed
	Tx        *transaction.Transaction
}

func workerLimit(workers int) int {
	if workers <= 0 {
		return runtime.GOMAXPROCS(0)
	}
	return workers
}

// SignBatch signs every request, running up to workers signatures at once
// (GOMAXPROCS when workers <= 0). Signatures are returned in request order.
// The first failure cancels the remaining work.
func (s *Signer) SignBatch(ctx context.Context, reqs []Request, workers int) ([]*schnorr.Signature, error) {
	if len(reqs) == 0 {
		return nil, ErrEmptyBatch
	}

	out := make([]*schnorr.Signature, len(reqs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workerLimit(workers))

	for i := range reqs {
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			sig, err := s.Sign(reqs[i].Keypair, reqs[i].Tx)
			if err != nil {
				return fmt.Errorf("request %d: %w", i, err)
			}
			out[i] = sig
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// VerifyBatch checks every request and returns one result per request in
// order. It only fails when ctx is cancelled.
func (s *Signer) VerifyBatch(ctx context.Context, reqs []VerifyRequest, workers int) ([]bool, error) {
	out := make([]bool, len(reqs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workerLimit(workers))

	for i := range reqs {
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			out[i] = s.Verify(reqs[i].Signature, reqs[i].PublicKey, reqs[i].Tx)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
