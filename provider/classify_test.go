package provider

import (
	"errors"
	"testing"
)

func TestClassifyDecryptError(t *testing.T) {
	cases := []struct {
		name      string
		source    ErrorSource
		err       error
		wrongKey  bool
	}{
		{"aead tag mismatch", SourceAEAD, errors.New("cipher: message authentication failed"), true},
		{"aead unrelated", SourceAEAD, errors.New("cipher: input not full blocks"), false},
		{"hsm wrong key", SourceHSM, errors.New("function 'C_Decrypt' returns 0x40"), true},
		{"hsm unrelated", SourceHSM, errors.New("I don't know what 0x41 means and neither do you"), false},
		{"dsm wrong key", SourceRemote, errors.New("Decrypt error: rv=48, bad key handle"), true},
		{"remote fronting an hsm wrong key", SourceRemote, errors.New("function 'C_Decrypt' returns 0x40"), true},
		{"dsm unrelated", SourceRemote, errors.New("connection refused"), false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := ClassifyDecryptError(c.source, c.err)
			if IsWrongKey(got) != c.wrongKey {
				t.Errorf("ClassifyDecryptError(%v, %q) wrongKey=%v, want %v", c.source, c.err, IsWrongKey(got), c.wrongKey)
			}
			if !c.wrongKey && got != c.err {
				t.Errorf("fatal error should be returned unchanged, got %v want %v", got, c.err)
			}
		})
	}
}

func TestClassifyDecryptErrorNil(t *testing.T) {
	if ClassifyDecryptError(SourceAEAD, nil) != nil {
		t.Error("classifying a nil error should return nil")
	}
}
