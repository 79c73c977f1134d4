package jwt_generator

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	"project-api/pkg/config"
)

type JwtGenerator interface {
	GenerateToken(expirationTime time.Time, tokenType string, identity *Identity) (string, error)
	GenerateTokens(identity *Identity) (*Tokens, error)
	VerifyToken(rawJwtToken, tokenType string) (*Claims, error)
}

type jwtGenerator struct {
	secret          []byte
	accessTokenTtl  time.Duration
	refreshTokenTtl time.Duration
}

func NewJwtGenerator(jwtConfig config.JwtConfig) (JwtGenerator, error) {
	if len(jwtConfig.Secret) == 0 {
		return nil, errors.New("jwt secret is empty")
	}

	accessTokenTtl := jwtConfig.AccessTokenTtl
	if accessTokenTtl <= 0 {
		accessTokenTtl = config.DefaultAccessTokenTtl
	}

	refreshTokenTtl := jwtConfig.RefreshTokenTtl
	if refreshTokenTtl <= 0 {
		refreshTokenTtl = config.DefaultRefreshTokenTtl
	}

	return &jwtGenerator{
		secret:          jwtConfig.Secret,
		accessTokenTtl:  accessTokenTtl,
		refreshTokenTtl: refreshTokenTtl,
	}, nil
}

func (jwtGenerator *jwtGenerator) GenerateToken(
	expirationTime time.Time,
	tokenType string,
	identity *Identity,
) (string, error) {
	now := time.Now().UTC()
	claims := Claims{
		Email:     identity.Email,
		Name:      identity.Name,
		Role:      identity.Role,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   identity.UserId,
			Issuer:    IssuerDefault,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expirationTime),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signedToken, err := token.SignedString(jwtGenerator.secret)
	if err != nil {
		return "", err
	}

	return signedToken, nil
}

func (jwtGenerator *jwtGenerator) GenerateTokens(identity *Identity) (*Tokens, error) {
	now := time.Now().UTC()

	accessToken, err := jwtGenerator.GenerateToken(now.Add(jwtGenerator.accessTokenTtl), TokenTypeAccess, identity)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}

	refreshToken, err := jwtGenerator.GenerateToken(now.Add(jwtGenerator.refreshTokenTtl), TokenTypeRefresh, identity)
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}

	return &Tokens{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// VerifyToken fails closed: any parse, signature, issuer, time or type problem
// is reported as ErrInvalidToken and no claims are returned.
func (jwtGenerator *jwtGenerator) VerifyToken(rawJwtToken, tokenType string) (*Claims, error) {
	var claims Claims

	_, err := jwt.ParseWithClaims(rawJwtToken, &claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("jwt token is not valid signature")
		}

		return jwtGenerator.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	isValidIssuer := claims.VerifyIssuer(IssuerDefault, true)
	if !isValidIssuer {
		return nil, fmt.Errorf("%w: ambiguous jwt token issuer", ErrInvalidToken)
	}

	now := time.Now().UTC()
	isJwtTokenAlive := claims.VerifyExpiresAt(now, true)
	if !isJwtTokenAlive {
		return nil, fmt.Errorf("%w: expired jwt token", ErrInvalidToken)
	}

	if claims.TokenType != tokenType {
		return nil, fmt.Errorf("%w: expected %s token, got %q", ErrInvalidToken, tokenType, claims.TokenType)
	}

	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: jwt token has no subject", ErrInvalidToken)
	}

	return &claims, nil
}
