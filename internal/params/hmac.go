package params

import (
	"net/http"
	"net/url"

	"github.com/DMarby/photo-strip/internal/hmac"
)

// HMAC signs a URL path and its query params, returning the path with an hmac query param appended
func HMAC(h *hmac.HMAC, path string, query url.Values) (string, error) {
	mac, err := h.Create(signedMessage(path, query))
	if err != nil {
		return "", err
	}

	signed := url.Values{}
	for k, v := range query {
		signed[k] = v
	}
	signed.Set("hmac", mac)

	return path + "?" + signed.Encode(), nil
}

// ValidateHMAC validates the URL path/query params, given an hmac in a query parameter named hmac
func ValidateHMAC(h *hmac.HMAC, r *http.Request) (bool, error) {
	query := r.URL.Query()

	mac := query.Get("hmac")
	if mac == "" {
		return false, nil
	}
	query.Del("hmac")

	return h.Validate(signedMessage(r.URL.Path, query), mac)
}

// signedMessage is the path followed by the query params sorted by key
func signedMessage(path string, query url.Values) string {
	if len(query) == 0 {
		return path
	}
	return path + "?" + query.Encode()
}
