package upload

import (
	"crypto/sha1"
	"encoding/hex"
	"testing"

	"github.com/rajivgeraev/bolend-api/internal/config"
)

func TestGenerateSignature(t *testing.T) {
	s := &UploadService{
		cfg: &config.Config{
			CloudinaryConfig: config.CloudinaryConfig{APISecret: "test_secret"},
		},
	}

	// Подпись - SHA-1 от отсортированных пар key=value с секретом в конце
	params := map[string]string{
		"timestamp": "1700000000",
		"folder":    "bolend_products",
	}

	h := sha1.New()
	h.Write([]byte("folder=bolend_products&timestamp=1700000000test_secret"))
	want := hex.EncodeToString(h.Sum(nil))

	if got := s.GenerateSignature(params); got != want {
		t.Errorf("GenerateSignature = %s, ожидалось %s", got, want)
	}
}
