package jwt

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrMissingUserClaim is returned when a token carries no usable uid claim.
var ErrMissingUserClaim = errors.New("token missing uid claim")

// ErrMissingLoginClaim is returned when a token carries no usable lid claim.
var ErrMissingLoginClaim = errors.New("token missing lid claim")

// reserved claim names are owned by the codec and may not appear in
// caller-supplied data.
var reserved = map[string]struct{}{
	"uid": {},
	"lid": {},
	"jti": {},
	"iat": {},
	"exp": {},
	"nbf": {},
	"iss": {},
	"aud": {},
	"sub": {},
}

// Reserved reports whether name is a claim the codec owns.
func Reserved(name string) bool {
	_, ok := reserved[name]
	return ok
}

// Claims is the decoded payload of a token: the two claims the revocation
// scheme needs (uid, lid) plus opaque caller data carried through refreshes
// untouched.
type Claims struct {
	UserID  string
	LoginID int64
	// TokenID is the jti assigned at signing, unique per issued token. It
	// changes on every refresh and exists for audit correlation only.
	TokenID string
	Data    map[string]any
}

// Config controls the optional registered claims on signed tokens.
type Config struct {
	// TTL sets an exp claim when positive; zero issues non-expiring tokens.
	TTL time.Duration
	// Issuer sets and enforces iss when non-empty.
	Issuer string
	// Leeway is the clock-skew allowance during verification.
	Leeway time.Duration
}

// Codec signs and verifies HS256 tokens. The signing key is an argument of
// every call, never codec state: the whole point of the nonce scheme is that
// the key changes out from under issued tokens.
type Codec struct {
	config Config
}

// NewCodec validates cfg and returns a [Codec].
func NewCodec(cfg Config) (*Codec, error) {
	if cfg.TTL < 0 {
		return nil, errors.New("invalid TTL configuration")
	}
	if cfg.Leeway < 0 || cfg.Leeway > 2*time.Minute {
		return nil, errors.New("invalid leeway configuration")
	}
	return &Codec{config: cfg}, nil
}

// Sign serializes claims and signs them with key using HS256. Caller data is
// merged at the top level of the payload; a fresh jti is assigned unless
// claims.TokenID is already set.
func (c *Codec) Sign(claims Claims, key []byte) (string, error) {
	mc := jwt.MapClaims{}
	for k, v := range claims.Data {
		if Reserved(k) {
			return "", fmt.Errorf("reserved claim %q in user data", k)
		}
		mc[k] = v
	}

	mc["uid"] = claims.UserID
	mc["lid"] = claims.LoginID

	tokenID := claims.TokenID
	if tokenID == "" {
		tokenID = uuid.NewString()
	}
	mc["jti"] = tokenID

	now := time.Now()
	mc["iat"] = jwt.NewNumericDate(now)
	if c.config.TTL > 0 {
		mc["exp"] = jwt.NewNumericDate(now.Add(c.config.TTL))
	}
	if c.config.Issuer != "" {
		mc["iss"] = c.config.Issuer
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, mc).SignedString(key)
}

// Parse verifies tokenStr against key and returns the decoded claims. Any
// verification failure — wrong key, wrong algorithm, expired, bad issuer —
// comes back as an error from the underlying parser.
func (c *Codec) Parse(tokenStr string, key []byte) (*Claims, error) {
	options := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	}
	if c.config.Leeway > 0 {
		options = append(options, jwt.WithLeeway(c.config.Leeway))
	}
	if c.config.Issuer != "" {
		options = append(options, jwt.WithIssuer(c.config.Issuer))
	}

	parser := jwt.NewParser(options...)
	token, err := parser.Parse(tokenStr, func(*jwt.Token) (interface{}, error) {
		return key, nil
	})
	if err != nil {
		return nil, err
	}

	mc, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}

	return fromMapClaims(mc)
}

// DecodeUnverified parses the payload WITHOUT checking the signature. The
// manager needs it to learn which counters a token was signed under; its
// output must never be trusted as authenticated data — only as a key lookup
// hint until [Codec.Parse] succeeds.
func (c *Codec) DecodeUnverified(tokenStr string) (*Claims, error) {
	token, _, err := jwt.NewParser().ParseUnverified(tokenStr, jwt.MapClaims{})
	if err != nil {
		return nil, err
	}

	mc, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, jwt.ErrTokenMalformed
	}

	return fromMapClaims(mc)
}

func fromMapClaims(mc jwt.MapClaims) (*Claims, error) {
	uid, ok := mc["uid"].(string)
	if !ok || uid == "" {
		return nil, ErrMissingUserClaim
	}

	lid, err := claimInt64(mc["lid"])
	if err != nil {
		return nil, ErrMissingLoginClaim
	}

	out := &Claims{UserID: uid, LoginID: lid}
	if jti, ok := mc["jti"].(string); ok {
		out.TokenID = jti
	}

	for k, v := range mc {
		if Reserved(k) {
			continue
		}
		if out.Data == nil {
			out.Data = make(map[string]any)
		}
		out.Data[k] = v
	}

	return out, nil
}

func claimInt64(v any) (int64, error) {
	switch n := v.(type) {
	case float64:
		return int64(n), nil
	case json.Number:
		return n.Int64()
	case int64:
		return n, nil
	case int:
		return int64(n), nil
	}
	return 0, errors.New("claim is not an integer")
}
