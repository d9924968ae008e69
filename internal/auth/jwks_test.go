package auth

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewKeyfuncVerifiesAgainstJWKS(t *testing.T) {
	key := newRSAKey(t)

	jwks := map[string]any{
		"keys": []map[string]string{{
			"kty": "RSA",
			"kid": "test",
			"use": "sig",
			"alg": "RS256",
			"n":   base64.RawURLEncoding.EncodeToString(key.PublicKey.N.Bytes()),
			"e":   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(key.PublicKey.E)).Bytes()),
		}},
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(jwks)
	}))
	t.Cleanup(srv.Close)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	kf, err := NewKeyfunc(ctx, srv.URL)
	require.NoError(t, err)

	h := protected(kf, Options{})

	ok := doRequest(h, "Bearer "+sign(t, key, validClaims()))
	assert.Equal(t, http.StatusOK, ok.Code)

	forged := doRequest(h, "Bearer "+sign(t, newRSAKey(t), validClaims()))
	assert.Equal(t, http.StatusUnauthorized, forged.Code)
}
