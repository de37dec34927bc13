package gcp

import (
	"errors"
	"testing"
)

func TestResolveObjectStorageConfigFromEnv(t *testing.T) {
	tests := []struct {
		name         string
		mode         string
		emulatorHost string
		wantMode     ObjectStorageMode
		wantInferred bool
		wantErrCode  ObjectStorageConfigErrorCode
	}{
		{name: "default gcs", wantMode: ObjectStorageModeGCS},
		{name: "explicit gcs ignores emulator host", mode: "gcs", emulatorHost: "http://fake-gcs:4443", wantMode: ObjectStorageModeGCS},
		{name: "explicit emulator", mode: "GCS_EMULATOR", emulatorHost: "http://fake-gcs:4443", wantMode: ObjectStorageModeGCSEmulator},
		{name: "inferred emulator", emulatorHost: "http://fake-gcs:4443", wantMode: ObjectStorageModeGCSEmulator, wantInferred: true},
		{name: "invalid mode", mode: "local", wantErrCode: ObjectStorageConfigErrorInvalidMode},
		{name: "missing emulator host", mode: "gcs_emulator", wantErrCode: ObjectStorageConfigErrorMissingEmulatorHost},
		{name: "relative emulator host", mode: "gcs_emulator", emulatorHost: "fake-gcs:4443", wantErrCode: ObjectStorageConfigErrorInvalidEmulatorHost},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("OBJECT_STORAGE_MODE", tt.mode)
			t.Setenv("STORAGE_EMULATOR_HOST", tt.emulatorHost)

			cfg, err := ResolveObjectStorageConfigFromEnv()
			if tt.wantErrCode != "" {
				var cfgErr *ObjectStorageConfigError
				if !errors.As(err, &cfgErr) {
					t.Fatalf("expected ObjectStorageConfigError, got %v", err)
				}
				if cfgErr.Code != tt.wantErrCode {
					t.Fatalf("code: want=%q got=%q", tt.wantErrCode, cfgErr.Code)
				}
				return
			}
			if err != nil {
				t.Fatalf("ResolveObjectStorageConfigFromEnv: %v", err)
			}
			if cfg.Mode != tt.wantMode {
				t.Fatalf("mode: want=%q got=%q", tt.wantMode, cfg.Mode)
			}
			if cfg.Inferred != tt.wantInferred {
				t.Fatalf("inferred: want=%v got=%v", tt.wantInferred, cfg.Inferred)
			}
		})
	}
}
