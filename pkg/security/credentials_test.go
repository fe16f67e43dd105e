package security

import (
	"testing"
)

func TestGenerateCredential(t *testing.T) {
	tests := []struct {
		name    string
		bytes   int
		wantErr bool
	}{
		{
			name:    "default entropy",
			bytes:   DefaultCredentialBytes,
			wantErr: false,
		},
		{
			name:    "small entropy",
			bytes:   8,
			wantErr: false,
		},
		{
			name:    "zero entropy",
			bytes:   0,
			wantErr: true,
		},
		{
			name:    "negative entropy",
			bytes:   -1,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cred, err := GenerateCredential(tt.bytes)
			if (err != nil) != tt.wantErr {
				t.Errorf("GenerateCredential() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && cred == "" {
				t.Error("GenerateCredential() returned empty credential without error")
			}
		})
	}
}

func TestGenerateCredential_Unique(t *testing.T) {
	a, err := GenerateCredential(DefaultCredentialBytes)
	if err != nil {
		t.Fatalf("GenerateCredential() error = %v", err)
	}
	b, err := GenerateCredential(DefaultCredentialBytes)
	if err != nil {
		t.Fatalf("GenerateCredential() error = %v", err)
	}
	if a == b {
		t.Error("two generated credentials are identical")
	}
}

func TestStableID(t *testing.T) {
	if StableID("odoo") != StableID("odoo") {
		t.Error("StableID is not deterministic")
	}
	if StableID("odoo") == StableID("odoo2") {
		t.Error("StableID collides for different names")
	}
}
