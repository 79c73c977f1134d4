//go:build unit

package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func setMongoDbEnvironment() {
	os.Setenv(MongodbUri, "database-uri")
	os.Setenv(MongodbUsername, "database-username")
	os.Setenv(MongodbPassword, "database-password")
	os.Setenv(MongodbDatabase, "database-database")
	os.Setenv(MongodbUserCollection, "database-user-collection")
}

func TestReadConfig(t *testing.T) {
	t.Run("happy path", func(t *testing.T) {
		os.Setenv(ServerPort, "8080")
		setMongoDbEnvironment()
		os.Setenv(JwtSecret, "jwt-secret")
		defer os.Clearenv()

		config, err := ReadConfig()

		assert.NoError(t, err)
		assert.Equal(t, "8080", config.ServerPort)
		assert.Equal(t, StoreDriverMongodb, config.StoreDriver)
		assert.Equal(t, DefaultBcryptCost, config.Security.BcryptCost)
		assert.False(t, config.Security.ExposeResetToken)
	})

	t.Run("when server port is empty should return config", func(t *testing.T) {
		setMongoDbEnvironment()
		os.Setenv(JwtSecret, "jwt-secret")
		defer os.Clearenv()

		config, err := ReadConfig()

		assert.NoError(t, err)
		assert.Equal(t, DefaultServerPort, config.ServerPort)
	})

	t.Run("when store driver is memory should not require mongodb variables", func(t *testing.T) {
		os.Setenv(StoreDriver, StoreDriverMemory)
		os.Setenv(JwtSecret, "jwt-secret")
		defer os.Clearenv()

		config, err := ReadConfig()

		assert.NoError(t, err)
		assert.Equal(t, StoreDriverMemory, config.StoreDriver)
		assert.Empty(t, config.Mongodb.Uri)
	})

	t.Run("when store driver is unknown should return error", func(t *testing.T) {
		os.Setenv(StoreDriver, "postgres")
		os.Setenv(JwtSecret, "jwt-secret")
		defer os.Clearenv()

		config, err := ReadConfig()

		assert.Error(t, err)
		assert.Nil(t, config)
	})

	t.Run("when jwt secret is empty should return error", func(t *testing.T) {
		setMongoDbEnvironment()
		defer os.Clearenv()

		config, err := ReadConfig()

		assert.Error(t, err)
		assert.Nil(t, config)
	})
}

func TestReadMongoDbConfig(t *testing.T) {
	t.Run("happy path", func(t *testing.T) {
		setMongoDbEnvironment()
		os.Setenv(MongodbTimeout, "2s")
		defer os.Clearenv()

		mongoConfig, err := ReadMongoDbConfig()

		assert.NoError(t, err)
		assert.Equal(t, "database-user-collection", mongoConfig.Collections[MongodbUserCollection])
		assert.Equal(t, 2*time.Second, mongoConfig.Timeout)
	})

	t.Run("when password is empty should return error", func(t *testing.T) {
		setMongoDbEnvironment()
		os.Unsetenv(MongodbPassword)
		defer os.Clearenv()

		_, err := ReadMongoDbConfig()

		assert.Error(t, err)
	})

	t.Run("when timeout is malformed should return error", func(t *testing.T) {
		setMongoDbEnvironment()
		os.Setenv(MongodbTimeout, "five seconds")
		defer os.Clearenv()

		_, err := ReadMongoDbConfig()

		assert.Error(t, err)
	})
}

func TestReadJwtConfig(t *testing.T) {
	os.Setenv(JwtSecret, "jwt-secret")
	os.Setenv(JwtAccessTokenTtl, "5m")
	defer os.Clearenv()

	jwtConfig, err := ReadJwtConfig()

	assert.NoError(t, err)
	assert.Equal(t, []byte("jwt-secret"), jwtConfig.Secret)
	assert.Equal(t, 5*time.Minute, jwtConfig.AccessTokenTtl)
	assert.Equal(t, DefaultRefreshTokenTtl, jwtConfig.RefreshTokenTtl)
}

func TestReadSecurityConfig(t *testing.T) {
	t.Run("happy path", func(t *testing.T) {
		os.Setenv(BcryptCost, "10")
		os.Setenv(ExposePasswordResetCode, "true")
		defer os.Clearenv()

		securityConfig, err := ReadSecurityConfig()

		assert.NoError(t, err)
		assert.Equal(t, 10, securityConfig.BcryptCost)
		assert.True(t, securityConfig.ExposeResetToken)
		assert.Equal(t, DefaultPasswordResetTokenTtl, securityConfig.PasswordResetTokenTtl)
	})

	t.Run("when bcrypt cost is not a number should return error", func(t *testing.T) {
		os.Setenv(BcryptCost, "twelve")
		defer os.Clearenv()

		_, err := ReadSecurityConfig()

		assert.Error(t, err)
	})
}

func TestReadKafkaConfig(t *testing.T) {
	os.Setenv(KafkaBrokers, "broker-1:9092, broker-2:9092,")
	defer os.Clearenv()

	kafkaConfig := ReadKafkaConfig()

	assert.Equal(t, []string{"broker-1:9092", "broker-2:9092"}, kafkaConfig.Brokers)
	assert.Equal(t, DefaultKafkaPasswordResetTopic, kafkaConfig.PasswordResetTopic)
}
