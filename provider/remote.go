package provider

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc"
	"google.golang.org/grpc/status"

	"github.com/cloudfoundry-incubator/credhub-core/provider/canarypb"
)

// RemoteProvider is the wire-level client for the external encryption
// service (component E). Each call is an independent, idempotent RPC
// round-trip over one of the caller-dialed connections; the provider
// round-robins across a small pool of long-lived connections rather
// than opening one per call.
type RemoteProvider struct {
	mu      sync.Mutex
	clients []canarypb.EncryptionServiceClient
	next    int
	timeout time.Duration
	tracer  trace.Tracer
}

// NewRemoteProvider wraps a pool of already-dialed connections (TLS
// configuration and dial options are the caller's concern, per §1's
// "transport bindings... out of scope"). Every call is bounded by
// timeout; expiry is reported as a fatal error, never wrong-key.
func NewRemoteProvider(conns []*grpc.ClientConn, timeout time.Duration) (*RemoteProvider, error) {
	if len(conns) == 0 {
		return nil, fmt.Errorf("remote provider requires at least one connection")
	}
	clients := make([]canarypb.EncryptionServiceClient, len(conns))
	for i, c := range conns {
		clients[i] = canarypb.NewEncryptionServiceClient(c)
	}
	return &RemoteProvider{
		clients: clients,
		timeout: timeout,
		tracer:  otel.GetTracerProvider().Tracer("github.com/cloudfoundry-incubator/credhub-core/provider"),
	}, nil
}

func (p *RemoteProvider) NewKey(d KeyDescriptor) (*Key, error) {
	if d.Material == "" {
		return nil, fmt.Errorf("remote key descriptor requires a label")
	}
	return &Key{kind: KindRemote, ref: d.Material}, nil
}

// client picks the next connection in the pool without serializing
// independent calls onto a single one.
func (p *RemoteProvider) client() canarypb.EncryptionServiceClient {
	p.mu.Lock()
	defer p.mu.Unlock()
	c := p.clients[p.next%len(p.clients)]
	p.next++
	return c
}

func (p *RemoteProvider) Encrypt(ctx context.Context, key *Key, plaintext string) (EncryptionResult, error) {
	label, ok := key.ref.(string)
	if !ok {
		return EncryptionResult{}, fmt.Errorf("key is not a remote key")
	}
	ctx, span := p.tracer.Start(ctx, "RemoteProvider.Encrypt")
	defer span.End()
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	resp, err := p.client().Encrypt(ctx, &canarypb.EncryptRequest{Data: []byte(plaintext), Key: label})
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return EncryptionResult{}, fmt.Errorf("remote Encrypt RPC: %w", err)
	}
	return EncryptionResult{Ciphertext: resp.Data, Nonce: resp.Nonce}, nil
}

func (p *RemoteProvider) Decrypt(ctx context.Context, key *Key, ciphertext, nonce []byte) (string, error) {
	label, ok := key.ref.(string)
	if !ok {
		return "", fmt.Errorf("key is not a remote key")
	}
	ctx, span := p.tracer.Start(ctx, "RemoteProvider.Decrypt")
	defer span.End()
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	resp, err := p.client().Decrypt(ctx, &canarypb.DecryptRequest{Data: ciphertext, Key: label, Nonce: nonce})
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return "", ClassifyDecryptError(SourceRemote, remoteRPCError(err))
	}
	return string(resp.Data), nil
}

// remoteRPCError unwraps a gRPC status error down to its message, which
// is where a backing HSM or DSM's own error text (e.g. "Decrypt error:
// rv=48...") surfaces. A timeout or connection failure carries gRPC's own
// status text (or is not a status error at all and is left as-is), which
// matches no wrong-key pattern, so ClassifyDecryptError treats it as fatal.
func remoteRPCError(err error) error {
	if st, ok := status.FromError(err); ok {
		return errors.New(st.Message())
	}
	return err
}

var _ Provider = (*RemoteProvider)(nil)
