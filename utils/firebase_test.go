package utils

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/json"
	"encoding/pem"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCertServer(t *testing.T, kid string) (*rsa.PrivateKey, *httptest.Server) {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	tmpl := &x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject:      pkix.Name{CommonName: "securetoken"},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(time.Hour),
	}
	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, &key.PublicKey, key)
	require.NoError(t, err)
	certPEM := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der})

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{kid: string(certPEM)})
	}))
	t.Cleanup(srv.Close)
	return key, srv
}

func signFirebase(t *testing.T, key *rsa.PrivateKey, kid, project string, mutate func(*FirebaseClaims)) string {
	t.Helper()
	now := time.Now()
	claims := FirebaseClaims{
		Email: "g@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "https://securetoken.google.com/" + project,
			Audience:  jwt.ClaimStrings{project},
			Subject:   "firebase-uid",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
	}
	if mutate != nil {
		mutate(&claims)
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	tok.Header["kid"] = kid
	s, err := tok.SignedString(key)
	require.NoError(t, err)
	return s
}

func TestFirebaseVerifier(t *testing.T) {
	key, srv := newCertServer(t, "k1")
	v := NewFirebaseVerifier("fit-app")
	v.certsURL = srv.URL
	ctx := context.Background()

	claims, err := v.Verify(ctx, signFirebase(t, key, "k1", "fit-app", nil))
	require.NoError(t, err)
	assert.Equal(t, "g@example.com", claims.Email)

	_, err = v.Verify(ctx, signFirebase(t, key, "k1", "other-app", nil))
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = v.Verify(ctx, signFirebase(t, key, "k2", "fit-app", nil))
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = v.Verify(ctx, signFirebase(t, key, "k1", "fit-app", func(c *FirebaseClaims) {
		c.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
	}))
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = NewFirebaseVerifier("").Verify(ctx, "x")
	assert.Error(t, err)
}
