package hmac_test

import (
	"testing"

	"github.com/DMarby/photo-strip/internal/hmac"
)

func TestHMAC(t *testing.T) {
	h, err := hmac.New("0123456789abcdef")
	if err != nil {
		t.Fatal(err)
	}

	mac, err := h.Create("/v1/strips/abc.png")
	if err != nil {
		t.Fatal(err)
	}

	other := &hmac.HMAC{Key: []byte("fedcba9876543210")}

	tests := []struct {
		Name     string
		HMAC     *hmac.HMAC
		Message  string
		MAC      string
		Expected bool
	}{
		{"matching", h, "/v1/strips/abc.png", mac, true},
		{"different message", h, "/v1/strips/abc.jpg", mac, false},
		{"different key", other, "/v1/strips/abc.png", mac, false},
		{"empty mac", h, "/v1/strips/abc.png", "", false},
	}

	for _, test := range tests {
		matches, err := test.HMAC.Validate(test.Message, test.MAC)
		if err != nil {
			t.Fatalf("%s: %s", test.Name, err)
		}

		if matches != test.Expected {
			t.Errorf("%s: wrong result %t", test.Name, matches)
		}
	}
}

func TestNew(t *testing.T) {
	if _, err := hmac.New("short"); err != hmac.ErrShortKey {
		t.Errorf("wrong error %v", err)
	}
}
