package user

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"project-api/pkg/cerror"
	"project-api/pkg/config"
)

//go:generate mockgen -source=repository.go -destination=mock_repository.go -package=user

type Repository interface {
	EnsureIndexes(ctx context.Context) error
	InsertUser(ctx context.Context, user *Document) (string, error)
	FindUserWithId(ctx context.Context, userId string) (*Document, error)
	FindUserWithEmail(ctx context.Context, email string) (*Document, error)
	// UpdateRefreshToken overwrites the stored refresh token, nil unsets it.
	UpdateRefreshToken(ctx context.Context, userId string, refreshToken *string) error
	// RotateRefreshToken replaces currentToken with nextToken only if
	// currentToken is still the stored value.
	RotateRefreshToken(ctx context.Context, userId, currentToken, nextToken string) error
	UpdateLastLogin(ctx context.Context, userId string) error
	UpdatePasswordResetToken(ctx context.Context, userId, resetTokenHash string, expiresAt time.Time) error
	// UpdatePasswordAndClearResetToken sets the password and unsets both reset
	// fields and the refresh token in one write, only while resetTokenHash is
	// still the stored reset token.
	UpdatePasswordAndClearResetToken(ctx context.Context, userId, resetTokenHash, passwordHash string) error
	// UpdatePassword sets the password and unsets the refresh token.
	UpdatePassword(ctx context.Context, userId, passwordHash string) error
	// UpdateIsActive also unsets the refresh token when deactivating.
	UpdateIsActive(ctx context.Context, userId string, isActive bool) error
}

type repository struct {
	collection *mongo.Collection
	timeout    time.Duration
}

func NewRepository(mongodbClient *mongo.Client, mongodbConfig config.MongodbConfig) Repository {
	timeout := mongodbConfig.Timeout
	if timeout <= 0 {
		timeout = config.DefaultMongodbTimeout
	}

	collection := mongodbClient.
		Database(mongodbConfig.Database).
		Collection(mongodbConfig.Collections[config.MongodbUserCollection])

	return &repository{
		collection: collection,
		timeout:    timeout,
	}
}

func (r *repository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "role", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "isActive", Value: 1}},
		},
	})
	if err != nil {
		return r.storeError(err, "error occurred while create user indexes")
	}

	return nil
}

func (r *repository) InsertUser(ctx context.Context, user *Document) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	result, err := r.collection.InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", cerror.ErrorUserAlreadyExists.WithFields(zap.Error(err))
		}

		return "", r.storeError(err, "error occurred while insert user")
	}

	userId, ok := result.InsertedID.(string)
	if !ok {
		return "", cerror.NewError(
			fiber.StatusInternalServerError,
			"error occurred while type casting for user id",
		)
	}

	return userId, nil
}

func (r *repository) FindUserWithId(ctx context.Context, userId string) (*Document, error) {
	return r.findOne(ctx, bson.D{{Key: "_id", Value: userId}}, "error occurred while find user with id")
}

func (r *repository) FindUserWithEmail(ctx context.Context, email string) (*Document, error) {
	return r.findOne(ctx, bson.D{{Key: "email", Value: email}}, "error occurred while find user with email")
}

func (r *repository) UpdateRefreshToken(ctx context.Context, userId string, refreshToken *string) error {
	update := bson.D{{Key: "$set", Value: bson.D{{Key: "updatedAt", Value: now()}}}}
	if refreshToken == nil {
		update = append(update, bson.E{Key: "$unset", Value: bson.D{{Key: "refreshToken", Value: ""}}})
	} else {
		update[0].Value = append(update[0].Value.(bson.D), bson.E{Key: "refreshToken", Value: *refreshToken})
	}

	return r.updateOne(
		ctx,
		bson.D{{Key: "_id", Value: userId}},
		update,
		cerror.ErrorUserNotFound,
		"error occurred while update refresh token",
	)
}

func (r *repository) RotateRefreshToken(ctx context.Context, userId, currentToken, nextToken string) error {
	return r.updateOne(
		ctx,
		bson.D{
			{Key: "_id", Value: userId},
			{Key: "refreshToken", Value: currentToken},
		},
		bson.D{{Key: "$set", Value: bson.D{
			{Key: "refreshToken", Value: nextToken},
			{Key: "updatedAt", Value: now()},
		}}},
		cerror.ErrorInvalidRefreshToken,
		"error occurred while rotate refresh token",
	)
}

func (r *repository) UpdateLastLogin(ctx context.Context, userId string) error {
	loginAt := now()
	return r.updateOne(
		ctx,
		bson.D{{Key: "_id", Value: userId}},
		bson.D{{Key: "$set", Value: bson.D{
			{Key: "lastLogin", Value: loginAt},
			{Key: "updatedAt", Value: loginAt},
		}}},
		cerror.ErrorUserNotFound,
		"error occurred while update last login",
	)
}

func (r *repository) UpdatePasswordResetToken(
	ctx context.Context,
	userId, resetTokenHash string,
	expiresAt time.Time,
) error {
	return r.updateOne(
		ctx,
		bson.D{{Key: "_id", Value: userId}},
		bson.D{{Key: "$set", Value: bson.D{
			{Key: "passwordResetToken", Value: resetTokenHash},
			{Key: "passwordResetExpires", Value: expiresAt.UTC()},
			{Key: "updatedAt", Value: now()},
		}}},
		cerror.ErrorUserNotFound,
		"error occurred while update password reset token",
	)
}

func (r *repository) UpdatePasswordAndClearResetToken(
	ctx context.Context,
	userId, resetTokenHash, passwordHash string,
) error {
	return r.updateOne(
		ctx,
		bson.D{
			{Key: "_id", Value: userId},
			{Key: "passwordResetToken", Value: resetTokenHash},
		},
		bson.D{
			{Key: "$set", Value: bson.D{
				{Key: "password", Value: passwordHash},
				{Key: "updatedAt", Value: now()},
			}},
			{Key: "$unset", Value: bson.D{
				{Key: "passwordResetToken", Value: ""},
				{Key: "passwordResetExpires", Value: ""},
				{Key: "refreshToken", Value: ""},
			}},
		},
		cerror.ErrorInvalidResetToken,
		"error occurred while reset password",
	)
}

func (r *repository) UpdatePassword(ctx context.Context, userId, passwordHash string) error {
	return r.updateOne(
		ctx,
		bson.D{{Key: "_id", Value: userId}},
		bson.D{
			{Key: "$set", Value: bson.D{
				{Key: "password", Value: passwordHash},
				{Key: "updatedAt", Value: now()},
			}},
			{Key: "$unset", Value: bson.D{
				{Key: "refreshToken", Value: ""},
			}},
		},
		cerror.ErrorUserNotFound,
		"error occurred while update password",
	)
}

func (r *repository) UpdateIsActive(ctx context.Context, userId string, isActive bool) error {
	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "isActive", Value: isActive},
		{Key: "updatedAt", Value: now()},
	}}}
	if !isActive {
		update = append(update, bson.E{Key: "$unset", Value: bson.D{{Key: "refreshToken", Value: ""}}})
	}

	return r.updateOne(
		ctx,
		bson.D{{Key: "_id", Value: userId}},
		update,
		cerror.ErrorUserNotFound,
		"error occurred while update user status",
	)
}

func (r *repository) findOne(ctx context.Context, filter bson.D, logMessage string) (*Document, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var user Document
	err := r.collection.FindOne(ctx, filter).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, cerror.ErrorUserNotFound
		}

		return nil, r.storeError(err, logMessage)
	}

	return &user, nil
}

// updateOne returns notMatched when the filter selects no document.
func (r *repository) updateOne(
	ctx context.Context,
	filter, update bson.D,
	notMatched *cerror.CustomError,
	logMessage string,
) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return r.storeError(err, logMessage)
	}

	if result.MatchedCount == 0 {
		return notMatched
	}

	return nil
}

func (r *repository) storeError(err error, logMessage string) *cerror.CustomError {
	if errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, mongo.ErrClientDisconnected) ||
		mongo.IsTimeout(err) ||
		mongo.IsNetworkError(err) {
		return cerror.ErrorStoreUnavailable.WithFields(
			zap.String("operation", logMessage),
			zap.Error(err),
		)
	}

	return cerror.NewError(
		fiber.StatusInternalServerError,
		logMessage,
		zap.Error(err),
	)
}

func now() time.Time {
	return time.Now().UTC()
}
