// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"errors"
	"testing"
)

func TestModeValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		mode    Mode
		wantErr bool
	}{
		{"", false},
		{ModeNative, false},
		{ModeVirtual, false},
		{"container", true},
		{"NATIVE", true},
	}

	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			t.Parallel()

			err := tt.mode.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && !errors.Is(err, ErrUnknownMode) {
				t.Errorf("Validate() error should wrap ErrUnknownMode, got %v", err)
			}
		})
	}
}

func TestNew(t *testing.T) {
	t.Parallel()

	rt, err := New("", "/bin/bash")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	native, ok := rt.(*NativeRuntime)
	if !ok {
		t.Fatalf("New(\"\") = %T, want *NativeRuntime", rt)
	}
	if native.Shell != "/bin/bash" {
		t.Errorf("Shell = %q, want /bin/bash", native.Shell)
	}

	rt, err = New(ModeVirtual, "")
	if err != nil {
		t.Fatalf("New(virtual) error = %v", err)
	}
	if rt.Name() != "virtual" {
		t.Errorf("Name() = %q, want virtual", rt.Name())
	}

	if _, err := New("docker", ""); !errors.Is(err, ErrUnknownMode) {
		t.Errorf("New(docker) error = %v, want ErrUnknownMode", err)
	}
}

func TestNewNativeRuntime_DefaultShell(t *testing.T) {
	t.Parallel()

	rt := NewNativeRuntime("")
	if rt.Shell == "" {
		t.Fatal("expected a platform default shell")
	}
}
