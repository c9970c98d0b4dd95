package password

import (
	"os"
	"testing"
)

func TestFromEnv_Defaults(t *testing.T) {
	// Ensure env is clean for this test.
	clearEnv := []string{
		"NOTEBOOK_PASSWORD_MIN_LEN",
		"NOTEBOOK_PASSWORD_MAX_LEN",
		"NOTEBOOK_ARGON2_MEMORY_KIB",
		"NOTEBOOK_ARGON2_ITERATIONS",
		"NOTEBOOK_ARGON2_PARALLELISM",
		"NOTEBOOK_ARGON2_SALT_LEN",
		"NOTEBOOK_ARGON2_KEY_LEN",
		"NOTEBOOK_PASSWORD_ALGORITHM",
		"NOTEBOOK_BCRYPT_COST",
	}
	for _, k := range clearEnv {
		_ = os.Unsetenv(k)
	}

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv error: %v", err)
	}

	def := DefaultConfig()
	if cfg.Policy.MinLength != def.Policy.MinLength {
		t.Fatalf("min length mismatch")
	}
	if cfg.Params.MemoryKiB != def.Params.MemoryKiB {
		t.Fatalf("memory mismatch")
	}
	if cfg.Algorithm != AlgorithmArgon2id || cfg.Policy.MinLength != 8 {
		t.Fatalf("unexpected defaults: algorithm=%q min=%d", cfg.Algorithm, cfg.Policy.MinLength)
	}
}

func TestFromEnv_Override(t *testing.T) {
	t.Setenv("NOTEBOOK_PASSWORD_MIN_LEN", "10")
	t.Setenv("NOTEBOOK_PASSWORD_MAX_LEN", "200")
	t.Setenv("NOTEBOOK_ARGON2_MEMORY_KIB", "32768")
	t.Setenv("NOTEBOOK_ARGON2_ITERATIONS", "4")
	t.Setenv("NOTEBOOK_ARGON2_PARALLELISM", "2")
	t.Setenv("NOTEBOOK_ARGON2_SALT_LEN", "24")
	t.Setenv("NOTEBOOK_ARGON2_KEY_LEN", "32")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv error: %v", err)
	}

	if cfg.Policy.MinLength != 10 || cfg.Policy.MaxLength != 200 {
		t.Fatalf("policy override failed: %+v", cfg.Policy)
	}
	if cfg.Params.MemoryKiB != 32768 || cfg.Params.Iterations != 4 || cfg.Params.Parallelism != 2 {
		t.Fatalf("argon2 override failed: %+v", cfg.Params)
	}
	if cfg.Params.SaltLength != 24 || cfg.Params.KeyLength != 32 {
		t.Fatalf("len override failed: %+v", cfg.Params)
	}
}

func TestFromEnv_InvalidMinMax(t *testing.T) {
	t.Setenv("NOTEBOOK_PASSWORD_MIN_LEN", "20")
	t.Setenv("NOTEBOOK_PASSWORD_MAX_LEN", "10")

	_, err := FromEnv()
	if err == nil {
		t.Fatalf("expected error")
	}
}

func TestFromEnv_Bcrypt(t *testing.T) {
	t.Setenv("NOTEBOOK_PASSWORD_ALGORITHM", "BCRYPT")
	t.Setenv("NOTEBOOK_BCRYPT_COST", "6")
	t.Setenv("NOTEBOOK_PASSWORD_MAX_LEN", "200")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv error: %v", err)
	}
	if cfg.Algorithm != AlgorithmBcrypt || cfg.BcryptCost != 6 {
		t.Fatalf("bcrypt override failed: %+v", cfg)
	}
	if cfg.Policy.MaxLength != 72 {
		t.Fatalf("expected bcrypt max length clamp to 72, got %d", cfg.Policy.MaxLength)
	}
}

func TestFromEnv_InvalidAlgorithm(t *testing.T) {
	t.Setenv("NOTEBOOK_PASSWORD_ALGORITHM", "md5")

	if _, err := FromEnv(); err == nil {
		t.Fatalf("expected error")
	}
}

func TestFromEnv_InvalidBcryptCost(t *testing.T) {
	t.Setenv("NOTEBOOK_BCRYPT_COST", "99")

	if _, err := FromEnv(); err == nil {
		t.Fatalf("expected error")
	}
}
