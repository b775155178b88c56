package main

import (
	"crypto/tls"
	"fmt"

	"github.com/miekg/pkcs11"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"

	"github.com/cloudfoundry-incubator/credhub-core/provider"
)

// buildHSMProvider opens and logs into a PKCS#11 session against the
// configured module. Session lifecycle is this cmd package's concern, per
// provider.NewHSMProvider's contract that construction is external wiring.
func buildHSMProvider(cfg *hsmConfig) (provider.Provider, error) {
	if cfg == nil {
		return nil, fmt.Errorf("provider kind \"hsm\" requires an hsm config block")
	}
	ctx := pkcs11.New(cfg.ModulePath)
	if ctx == nil {
		return nil, fmt.Errorf("loading PKCS#11 module %q", cfg.ModulePath)
	}
	if err := ctx.Initialize(); err != nil {
		return nil, fmt.Errorf("initializing PKCS#11 module: %w", err)
	}

	slots, err := ctx.GetSlotList(true)
	if err != nil {
		return nil, fmt.Errorf("listing PKCS#11 slots: %w", err)
	}
	if len(slots) == 0 {
		return nil, fmt.Errorf("no PKCS#11 slots with a token present")
	}

	session, err := ctx.OpenSession(slots[0], pkcs11.CKF_SERIAL_SESSION|pkcs11.CKF_RW_SESSION)
	if err != nil {
		return nil, fmt.Errorf("opening PKCS#11 session: %w", err)
	}
	if err := ctx.Login(session, pkcs11.CKU_USER, cfg.PIN); err != nil {
		return nil, fmt.Errorf("logging into PKCS#11 token: %w", err)
	}

	return provider.NewHSMProvider(ctx, session), nil
}

// buildRemoteProvider dials the configured pool of TLS connections to the
// remote encryption service. The server is verified against the system's
// root certificates; the TLS configuration carries no client certificate,
// so these connections do not authenticate the client to the server.
func buildRemoteProvider(cfg *remoteConfig) (provider.Provider, error) {
	if cfg == nil || len(cfg.Addresses) == 0 {
		return nil, fmt.Errorf("provider kind \"remote\" requires at least one address")
	}
	creds := credentials.NewTLS(&tls.Config{MinVersion: tls.VersionTLS12})

	conns := make([]*grpc.ClientConn, len(cfg.Addresses))
	for i, addr := range cfg.Addresses {
		conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(creds))
		if err != nil {
			return nil, fmt.Errorf("dialing remote encryption service %q: %w", addr, err)
		}
		conns[i] = conn
	}

	return provider.NewRemoteProvider(conns, cfg.timeout)
}
