package runtimeconfig

import "testing"

func TestDefaultConfigIsValid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config must validate: %v", err)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing source dir", func(c *Config) { c.SourceDir = "" }},
		{"missing output", func(c *Config) { c.OutputTarget = "" }},
		{"unknown format", func(c *Config) { c.Format = "pdf" }},
		{"unknown compression", func(c *Config) { c.Compress = "tight" }},
		{"negative workers", func(c *Config) { c.Workers = -1 }},
		{"missing separator", func(c *Config) { c.IDSeparator = "" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestValidateAcceptsKF8(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Format = "kf8"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("kf8 must validate: %v", err)
	}
}

func TestValidateWithCheckArtifact(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CheckArtifact = true
	cfg.Extract = true
	if err := cfg.Validate(); err != nil {
		t.Fatalf("tool stages enabled must validate: %v", err)
	}
}
