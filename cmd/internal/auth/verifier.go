package auth

import (
	"context"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Verifier turns a bearer token into a Session.
type Verifier interface {
	Verify(ctx context.Context, raw string) (Session, error)
}

type tokenClaims struct {
	Email    string `json:"email"`
	TokenUse string `json:"token_use,omitempty"`
	jwt.RegisteredClaims
}

func (tc *tokenClaims) session() (Session, error) {
	if tc.Subject == "" {
		return Session{}, errors.New("token has no subject")
	}
	sess := Session{UserID: tc.Subject, Email: tc.Email, TokenID: tc.ID}
	if tc.ExpiresAt != nil {
		sess.ExpiresAt = tc.ExpiresAt.Time
	}
	return sess, nil
}

// HMACVerifier accepts HS256 tokens signed with a shared secret. It is meant
// for local development where no user pool exists.
type HMACVerifier struct {
	Secret []byte
}

func (h *HMACVerifier) Verify(_ context.Context, raw string) (Session, error) {
	var claims tokenClaims
	_, err := jwt.ParseWithClaims(raw, &claims, func(*jwt.Token) (any, error) {
		return h.Secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return Session{}, err
	}
	return claims.session()
}

// SignDevToken issues a token HMACVerifier accepts.
func (h *HMACVerifier) SignDevToken(sess Session) (string, error) {
	claims := tokenClaims{
		Email: sess.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sess.UserID,
			ID:        sess.TokenID,
			ExpiresAt: jwt.NewNumericDate(sess.ExpiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(h.Secret)
}

// CognitoVerifier validates RS256 ID tokens issued by a Cognito user pool
// against the pool's published signing keys.
type CognitoVerifier struct {
	issuer   string
	clientID string
	jwksURL  string
	http     *http.Client

	mu          sync.RWMutex
	keys        map[string]*rsa.PublicKey
	lastRefresh time.Time
	now         func() time.Time
}

// minRefreshInterval bounds how often unknown kids can trigger a key set fetch.
const minRefreshInterval = time.Minute

func NewCognitoVerifier(region, userPoolID, clientID string) *CognitoVerifier {
	issuer := fmt.Sprintf("https://cognito-idp.%s.amazonaws.com/%s", region, userPoolID)
	return &CognitoVerifier{
		issuer:   issuer,
		clientID: clientID,
		jwksURL:  issuer + "/.well-known/jwks.json",
		http:     &http.Client{Timeout: 10 * time.Second},
		keys:     map[string]*rsa.PublicKey{},
		now:      time.Now,
	}
}

func (v *CognitoVerifier) Verify(ctx context.Context, raw string) (Session, error) {
	var claims tokenClaims
	_, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		kid, _ := t.Header["kid"].(string)
		return v.key(ctx, kid)
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithIssuer(v.issuer),
		jwt.WithAudience(v.clientID),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return Session{}, err
	}
	if claims.TokenUse != "id" {
		return Session{}, fmt.Errorf("unexpected token_use %q", claims.TokenUse)
	}
	return claims.session()
}

// key returns the signing key for kid, refetching the key set when the kid is
// unknown (the pool rotated its keys), at most once per minRefreshInterval.
func (v *CognitoVerifier) key(ctx context.Context, kid string) (*rsa.PublicKey, error) {
	v.mu.Lock()
	k, ok := v.keys[kid]
	if ok {
		v.mu.Unlock()
		return k, nil
	}
	now := v.now()
	if !v.lastRefresh.IsZero() && now.Sub(v.lastRefresh) < minRefreshInterval {
		v.mu.Unlock()
		return nil, fmt.Errorf("unknown signing key %q", kid)
	}
	v.lastRefresh = now
	v.mu.Unlock()

	if err := v.refresh(ctx); err != nil {
		return nil, err
	}

	v.mu.RLock()
	defer v.mu.RUnlock()
	if k, ok := v.keys[kid]; ok {
		return k, nil
	}
	return nil, fmt.Errorf("unknown signing key %q", kid)
}

type jwks struct {
	Keys []struct {
		Kid string `json:"kid"`
		Kty string `json:"kty"`
		N   string `json:"n"`
		E   string `json:"e"`
	} `json:"keys"`
}

func (v *CognitoVerifier) refresh(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.jwksURL, nil)
	if err != nil {
		return err
	}
	res, err := v.http.Do(req)
	if err != nil {
		return fmt.Errorf("fetch jwks: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("fetch jwks: unexpected status %s", res.Status)
	}

	var set jwks
	if err := json.NewDecoder(res.Body).Decode(&set); err != nil {
		return fmt.Errorf("decode jwks: %w", err)
	}

	keys := make(map[string]*rsa.PublicKey, len(set.Keys))
	for _, k := range set.Keys {
		if k.Kty != "RSA" {
			continue
		}
		pub, err := rsaKey(k.N, k.E)
		if err != nil {
			return fmt.Errorf("jwks key %q: %w", k.Kid, err)
		}
		keys[k.Kid] = pub
	}

	v.mu.Lock()
	v.keys = keys
	v.mu.Unlock()
	return nil
}

func rsaKey(n, e string) (*rsa.PublicKey, error) {
	nb, err := base64.RawURLEncoding.DecodeString(n)
	if err != nil {
		return nil, err
	}
	eb, err := base64.RawURLEncoding.DecodeString(e)
	if err != nil {
		return nil, err
	}
	return &rsa.PublicKey{
		N: new(big.Int).SetBytes(nb),
		E: int(new(big.Int).SetBytes(eb).Int64()),
	}, nil
}
