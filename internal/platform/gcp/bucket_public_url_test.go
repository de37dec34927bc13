package gcp

import "testing"

func TestResolveObjectStoragePublicBaseURL(t *testing.T) {
	tests := []struct {
		name       string
		env        string
		cfg        ObjectStorageConfig
		wantURL    string
		wantSource string
		wantErr    bool
	}{
		{
			name:       "gcs default",
			cfg:        ObjectStorageConfig{Mode: ObjectStorageModeGCS},
			wantSource: "gcs_default",
		},
		{
			name:       "emulator fallback",
			cfg:        ObjectStorageConfig{Mode: ObjectStorageModeGCSEmulator, EmulatorHost: "http://fake-gcs:4443"},
			wantURL:    "http://fake-gcs:4443",
			wantSource: "storage_emulator_host",
		},
		{
			name:       "env override trims slash",
			env:        "http://localhost:4443/",
			cfg:        ObjectStorageConfig{Mode: ObjectStorageModeGCSEmulator, EmulatorHost: "http://fake-gcs:4443"},
			wantURL:    "http://localhost:4443",
			wantSource: "object_storage_public_base_url",
		},
		{
			name:    "env not absolute",
			env:     "localhost:4443",
			cfg:     ObjectStorageConfig{Mode: ObjectStorageModeGCS},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("OBJECT_STORAGE_PUBLIC_BASE_URL", tt.env)
			got, source, err := resolveObjectStoragePublicBaseURL(tt.cfg)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("resolveObjectStoragePublicBaseURL: %v", err)
			}
			if got != tt.wantURL || source != tt.wantSource {
				t.Fatalf("want=(%q,%q) got=(%q,%q)", tt.wantURL, tt.wantSource, got, source)
			}
		})
	}
}

func TestGetPublicURL(t *testing.T) {
	tests := []struct {
		name     string
		bs       *bucketService
		category BucketCategory
		key      string
		want     string
	}{
		{
			name:     "gcs default",
			bs:       &bucketService{certificateBucket: bucketConfig{name: "certs"}},
			category: BucketCategoryCertificate,
			key:      "certificates/ETHICS-101-20240102-001.pdf",
			want:     "https://storage.googleapis.com/certs/certificates/ETHICS-101-20240102-001.pdf",
		},
		{
			name:     "cdn domain",
			bs:       &bucketService{previewBucket: bucketConfig{name: "certs", cdnDomain: "cdn.example.com"}},
			category: BucketCategoryPreview,
			key:      "/previews/a.png",
			want:     "https://cdn.example.com/previews/a.png",
		},
		{
			name:     "public base url",
			bs:       &bucketService{publicBaseURL: "http://localhost:4443", certificateBucket: bucketConfig{name: "certs"}},
			category: BucketCategoryCertificate,
			key:      "certificates/a.pdf",
			want:     "http://localhost:4443/certs/certificates/a.pdf",
		},
		{
			name: "emulator media endpoint",
			bs: &bucketService{
				storageMode:       ObjectStorageModeGCSEmulator,
				emulatorHost:      "http://fake-gcs:4443",
				certificateBucket: bucketConfig{name: "certs"},
			},
			category: BucketCategoryCertificate,
			key:      "certificates/a.pdf",
			want:     "http://fake-gcs:4443/storage/v1/b/certs/o/certificates%2Fa.pdf?alt=media",
		},
		{
			name:     "unknown category returns key",
			bs:       &bucketService{},
			category: BucketCategory("avatar"),
			key:      "x.png",
			want:     "x.png",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.bs.GetPublicURL(tt.category, tt.key); got != tt.want {
				t.Fatalf("GetPublicURL: want=%q got=%q", tt.want, got)
			}
		})
	}
}

func TestContentTypeForKey(t *testing.T) {
	cases := map[string]string{
		"certificates/a.pdf":     "application/pdf",
		"previews/a.PNG":         "image/png",
		"certificates/a.pdf?v=1": "application/pdf",
		"blob":                   "application/octet-stream",
	}
	for key, want := range cases {
		if got := contentTypeForKey(key); got != want {
			t.Fatalf("contentTypeForKey(%q): want=%q got=%q", key, want, got)
		}
	}
}
