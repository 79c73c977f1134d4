package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/kr/pretty"
)

type Config struct {
	ServerPort         string
	CorsAllowedOrigins string
	StoreDriver        string
	Mongodb            MongodbConfig
	Jwt                JwtConfig
	Security           SecurityConfig
	Kafka              KafkaConfig
	RateLimit          RateLimitConfig
}

func ReadConfig() (*Config, error) {
	serverPort := os.Getenv(ServerPort)
	if serverPort == "" {
		serverPort = DefaultServerPort
		fmt.Println("server port environment variable is empty its declared 8080 by default")
	}

	storeDriver := os.Getenv(StoreDriver)
	if storeDriver == "" {
		storeDriver = StoreDriverMongodb
	}
	if storeDriver != StoreDriverMongodb && storeDriver != StoreDriverMemory {
		return nil, fmt.Errorf(EnvironmentVariableMalformed, StoreDriver, fmt.Errorf("unknown driver %q", storeDriver))
	}

	var mongodbConfig MongodbConfig
	if storeDriver == StoreDriverMongodb {
		var err error
		mongodbConfig, err = ReadMongoDbConfig()
		if err != nil {
			return nil, err
		}
	}

	jwtConfig, err := ReadJwtConfig()
	if err != nil {
		return nil, err
	}

	securityConfig, err := ReadSecurityConfig()
	if err != nil {
		return nil, err
	}

	rateLimitConfig, err := ReadRateLimitConfig()
	if err != nil {
		return nil, err
	}

	return &Config{
		ServerPort:         serverPort,
		CorsAllowedOrigins: os.Getenv(CorsAllowedOrigins),
		StoreDriver:        storeDriver,
		Mongodb:            mongodbConfig,
		Jwt:                jwtConfig,
		Security:           securityConfig,
		Kafka:              ReadKafkaConfig(),
		RateLimit:          rateLimitConfig,
	}, nil
}

// Print writes the config to stdout with every secret replaced.
func (c *Config) Print() {
	printable := *c
	printable.Mongodb.Password = redacted
	printable.Jwt.Secret = []byte(redacted)
	if printable.Security.EncryptionKey != "" {
		printable.Security.EncryptionKey = redacted
	}
	_, _ = pretty.Println(printable)
}

func ReadMongoDbConfig() (MongodbConfig, error) {
	mongodbUri := os.Getenv(MongodbUri)
	if mongodbUri == "" {
		return MongodbConfig{}, fmt.Errorf(EnvironmentVariableNotDefined, MongodbUri)
	}

	mongodbUsername := os.Getenv(MongodbUsername)
	if mongodbUsername == "" {
		return MongodbConfig{}, fmt.Errorf(EnvironmentVariableNotDefined, MongodbUsername)
	}

	mongodbPassword := os.Getenv(MongodbPassword)
	if mongodbPassword == "" {
		return MongodbConfig{}, fmt.Errorf(EnvironmentVariableNotDefined, MongodbPassword)
	}

	mongodbDatabase := os.Getenv(MongodbDatabase)
	if mongodbDatabase == "" {
		return MongodbConfig{}, fmt.Errorf(EnvironmentVariableNotDefined, MongodbDatabase)
	}

	mongodbUserCollection := os.Getenv(MongodbUserCollection)
	if mongodbUserCollection == "" {
		return MongodbConfig{}, fmt.Errorf(EnvironmentVariableNotDefined, MongodbUserCollection)
	}

	mongodbTimeout, err := readDuration(MongodbTimeout, DefaultMongodbTimeout)
	if err != nil {
		return MongodbConfig{}, err
	}

	return MongodbConfig{
		Uri:      mongodbUri,
		Username: mongodbUsername,
		Password: mongodbPassword,
		Database: mongodbDatabase,
		Collections: map[string]string{
			MongodbUserCollection: mongodbUserCollection,
		},
		Timeout: mongodbTimeout,
	}, nil
}

func ReadJwtConfig() (JwtConfig, error) {
	secret := os.Getenv(JwtSecret)
	if secret == "" {
		return JwtConfig{}, fmt.Errorf(EnvironmentVariableNotDefined, JwtSecret)
	}

	accessTokenTtl, err := readDuration(JwtAccessTokenTtl, DefaultAccessTokenTtl)
	if err != nil {
		return JwtConfig{}, err
	}

	refreshTokenTtl, err := readDuration(JwtRefreshTokenTtl, DefaultRefreshTokenTtl)
	if err != nil {
		return JwtConfig{}, err
	}

	return JwtConfig{
		Secret:          []byte(secret),
		AccessTokenTtl:  accessTokenTtl,
		RefreshTokenTtl: refreshTokenTtl,
	}, nil
}

func ReadSecurityConfig() (SecurityConfig, error) {
	bcryptCost, err := readInt(BcryptCost, DefaultBcryptCost)
	if err != nil {
		return SecurityConfig{}, err
	}

	passwordResetTokenTtl, err := readDuration(PasswordResetTokenTtl, DefaultPasswordResetTokenTtl)
	if err != nil {
		return SecurityConfig{}, err
	}

	exposeResetToken := false
	if raw := os.Getenv(ExposePasswordResetCode); raw != "" {
		exposeResetToken, err = strconv.ParseBool(raw)
		if err != nil {
			return SecurityConfig{}, fmt.Errorf(EnvironmentVariableMalformed, ExposePasswordResetCode, err)
		}
	}

	return SecurityConfig{
		BcryptCost:            bcryptCost,
		EncryptionKey:         os.Getenv(EncryptionKey),
		PasswordResetTokenTtl: passwordResetTokenTtl,
		ExposeResetToken:      exposeResetToken,
	}, nil
}

func ReadKafkaConfig() KafkaConfig {
	var brokers []string
	for _, broker := range strings.Split(os.Getenv(KafkaBrokers), ",") {
		broker = strings.TrimSpace(broker)
		if broker != "" {
			brokers = append(brokers, broker)
		}
	}

	topic := os.Getenv(KafkaPasswordResetTopic)
	if topic == "" {
		topic = DefaultKafkaPasswordResetTopic
	}

	return KafkaConfig{
		Brokers:            brokers,
		PasswordResetTopic: topic,
	}
}

func ReadRateLimitConfig() (RateLimitConfig, error) {
	perSecond, err := readInt(RateLimitPerSecond, DefaultRateLimitPerSecond)
	if err != nil {
		return RateLimitConfig{}, err
	}

	burst, err := readInt(RateLimitBurst, DefaultRateLimitBurst)
	if err != nil {
		return RateLimitConfig{}, err
	}

	return RateLimitConfig{
		PerSecond: perSecond,
		Burst:     burst,
	}, nil
}

func readDuration(key string, fallback time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}

	duration, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf(EnvironmentVariableMalformed, key, err)
	}

	return duration, nil
}

func readInt(key string, fallback int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf(EnvironmentVariableMalformed, key, err)
	}

	return value, nil
}
