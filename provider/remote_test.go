package provider

import (
	"context"
	"net"
	"testing"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"github.com/cloudfoundry-incubator/credhub-core/provider/canarypb"
)

// fakeEncryptionServer is an in-memory stand-in for the external
// encryption service, driven entirely over a real gRPC connection via
// bufconn rather than mocking the client interface directly.
type fakeEncryptionServer struct {
	canarypb.UnimplementedEncryptionServiceServer
	decryptErr error
}

func (s *fakeEncryptionServer) Encrypt(_ context.Context, req *canarypb.EncryptRequest) (*canarypb.EncryptResponse, error) {
	// A trivial reversible "cipher" is enough to exercise the wire path;
	// the crypto itself is the concrete backend's concern, not the
	// client's.
	ciphertext := append([]byte(nil), req.Data...)
	for i := range ciphertext {
		ciphertext[i] ^= 0xFF
	}
	return &canarypb.EncryptResponse{Data: ciphertext, Nonce: []byte("noncenonce12")}, nil
}

func (s *fakeEncryptionServer) Decrypt(_ context.Context, req *canarypb.DecryptRequest) (*canarypb.DecryptResponse, error) {
	if s.decryptErr != nil {
		return nil, s.decryptErr
	}
	plaintext := append([]byte(nil), req.Data...)
	for i := range plaintext {
		plaintext[i] ^= 0xFF
	}
	return &canarypb.DecryptResponse{Data: plaintext}, nil
}

func dialFakeServer(t *testing.T, srv *fakeEncryptionServer) *grpc.ClientConn {
	t.Helper()
	lis := bufconn.Listen(1024 * 1024)
	gs := grpc.NewServer()
	canarypb.RegisterEncryptionServiceServer(gs, srv)
	go func() { _ = gs.Serve(lis) }()
	t.Cleanup(gs.Stop)

	conn, err := grpc.NewClient("passthrough:///bufconn",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatalf("dialing fake server: %s", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestRemoteProviderRoundTrip(t *testing.T) {
	conn := dialFakeServer(t, &fakeEncryptionServer{})
	p, err := NewRemoteProvider([]*grpc.ClientConn{conn}, 5*time.Second)
	if err != nil {
		t.Fatalf("NewRemoteProvider: %s", err)
	}
	key, err := p.NewKey(KeyDescriptor{Active: true, Material: "label-1"})
	if err != nil {
		t.Fatalf("NewKey: %s", err)
	}

	result, err := p.Encrypt(context.Background(), key, CanaryValue)
	if err != nil {
		t.Fatalf("Encrypt: %s", err)
	}
	plaintext, err := p.Decrypt(context.Background(), key, result.Ciphertext, result.Nonce)
	if err != nil {
		t.Fatalf("Decrypt: %s", err)
	}
	if plaintext != CanaryValue {
		t.Errorf("got %q, want %q", plaintext, CanaryValue)
	}
}

func TestRemoteProviderClassifiesDSMWrongKey(t *testing.T) {
	srv := &fakeEncryptionServer{decryptErr: status.Error(14, "Decrypt error: rv=48, key not found")}
	conn := dialFakeServer(t, srv)
	p, err := NewRemoteProvider([]*grpc.ClientConn{conn}, 5*time.Second)
	if err != nil {
		t.Fatalf("NewRemoteProvider: %s", err)
	}
	key, err := p.NewKey(KeyDescriptor{Active: true, Material: "label-1"})
	if err != nil {
		t.Fatalf("NewKey: %s", err)
	}

	_, err = p.Decrypt(context.Background(), key, []byte("ciphertext"), []byte("nonce"))
	if !IsWrongKey(err) {
		t.Errorf("expected wrong-key classified error, got %v", err)
	}
}

func TestRemoteProviderFatalErrorIsNotWrongKey(t *testing.T) {
	srv := &fakeEncryptionServer{decryptErr: status.Error(13, "internal storage failure")}
	conn := dialFakeServer(t, srv)
	p, err := NewRemoteProvider([]*grpc.ClientConn{conn}, 5*time.Second)
	if err != nil {
		t.Fatalf("NewRemoteProvider: %s", err)
	}
	key, err := p.NewKey(KeyDescriptor{Active: true, Material: "label-1"})
	if err != nil {
		t.Fatalf("NewKey: %s", err)
	}

	_, err = p.Decrypt(context.Background(), key, []byte("ciphertext"), []byte("nonce"))
	if err == nil {
		t.Fatal("expected an error")
	}
	if IsWrongKey(err) {
		t.Errorf("internal storage failure must not be classified as wrong-key")
	}
}
