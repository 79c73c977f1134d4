package config

import "time"

// #nosec
const (
	EnvironmentVariableNotDefined = "%s variable is not defined"
	EnvironmentVariableMalformed  = "%s variable is malformed: %w"

	IsAtRemote = "IS_AT_REMOTE"
	ServerPort = "SERVER_PORT"

	CorsAllowedOrigins = "CORS_ALLOWED_ORIGINS"

	StoreDriver = "STORE_DRIVER"

	MongodbUri            = "MONGODB_URI"
	MongodbUsername       = "MONGODB_USERNAME"
	MongodbPassword       = "MONGODB_PASSWORD"
	MongodbDatabase       = "MONGODB_DATABASE"
	MongodbUserCollection = "MONGODB_USER_COLLECTION"
	MongodbTimeout        = "MONGODB_TIMEOUT"

	JwtSecret          = "JWT_SECRET"
	JwtAccessTokenTtl  = "JWT_ACCESS_TOKEN_TTL"
	JwtRefreshTokenTtl = "JWT_REFRESH_TOKEN_TTL"

	BcryptCost              = "BCRYPT_COST"
	EncryptionKey           = "ENCRYPTION_KEY"
	PasswordResetTokenTtl   = "PASSWORD_RESET_TOKEN_TTL"
	ExposePasswordResetCode = "EXPOSE_RESET_TOKEN"

	KafkaBrokers            = "KAFKA_BROKERS"
	KafkaPasswordResetTopic = "KAFKA_PASSWORD_RESET_TOPIC"

	RateLimitPerSecond = "RATE_LIMIT_PER_SECOND"
	RateLimitBurst     = "RATE_LIMIT_BURST"
)

const (
	StoreDriverMongodb = "mongodb"
	StoreDriverMemory  = "memory"

	DefaultServerPort              = "8080"
	DefaultMongodbTimeout          = 5 * time.Second
	DefaultAccessTokenTtl          = 15 * time.Minute
	DefaultRefreshTokenTtl         = 7 * 24 * time.Hour
	DefaultBcryptCost              = 12
	DefaultPasswordResetTokenTtl   = time.Hour
	DefaultKafkaPasswordResetTopic = "password-reset"
	DefaultRateLimitPerSecond      = 5
	DefaultRateLimitBurst          = 10

	redacted = "<redacted>"
)

type MongodbConfig struct {
	Uri         string
	Username    string
	Password    string
	Database    string
	Collections map[string]string
	Timeout     time.Duration
}

type JwtConfig struct {
	Secret          []byte
	AccessTokenTtl  time.Duration
	RefreshTokenTtl time.Duration
}

type SecurityConfig struct {
	BcryptCost            int
	EncryptionKey         string
	PasswordResetTokenTtl time.Duration
	ExposeResetToken      bool
}

type KafkaConfig struct {
	Brokers            []string
	PasswordResetTopic string
}

type RateLimitConfig struct {
	PerSecond int
	Burst     int
}
