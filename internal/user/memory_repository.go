package user

import (
	"context"
	"strings"
	"sync"
	"time"

	"project-api/pkg/cerror"
)

// memoryRepository keeps documents in process. Conditional updates run under
// the write lock so they are atomic in the same way the Mongo filters are.
type memoryRepository struct {
	mu      sync.RWMutex
	byId    map[string]*Document
	byEmail map[string]string
}

func NewMemoryRepository() Repository {
	return &memoryRepository{
		byId:    make(map[string]*Document),
		byEmail: make(map[string]string),
	}
}

func (r *memoryRepository) EnsureIndexes(_ context.Context) error {
	return nil
}

func (r *memoryRepository) InsertUser(ctx context.Context, user *Document) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", cerror.ErrorStoreUnavailable
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	email := strings.ToLower(user.Email)
	if _, exists := r.byEmail[email]; exists {
		return "", cerror.ErrorUserAlreadyExists
	}
	if _, exists := r.byId[user.Id]; exists {
		return "", cerror.ErrorUserAlreadyExists
	}

	r.byId[user.Id] = copyDocument(user)
	r.byEmail[email] = user.Id

	return user.Id, nil
}

func (r *memoryRepository) FindUserWithId(ctx context.Context, userId string) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, cerror.ErrorStoreUnavailable
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	user, exists := r.byId[userId]
	if !exists {
		return nil, cerror.ErrorUserNotFound
	}

	return copyDocument(user), nil
}

func (r *memoryRepository) FindUserWithEmail(ctx context.Context, email string) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, cerror.ErrorStoreUnavailable
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	userId, exists := r.byEmail[strings.ToLower(email)]
	if !exists {
		return nil, cerror.ErrorUserNotFound
	}

	return copyDocument(r.byId[userId]), nil
}

func (r *memoryRepository) UpdateRefreshToken(ctx context.Context, userId string, refreshToken *string) error {
	return r.update(ctx, userId, cerror.ErrorUserNotFound, func(user *Document) bool {
		user.RefreshToken = copyString(refreshToken)
		return true
	})
}

func (r *memoryRepository) RotateRefreshToken(ctx context.Context, userId, currentToken, nextToken string) error {
	return r.update(ctx, userId, cerror.ErrorInvalidRefreshToken, func(user *Document) bool {
		if user.RefreshToken == nil || *user.RefreshToken != currentToken {
			return false
		}
		user.RefreshToken = &nextToken
		return true
	})
}

func (r *memoryRepository) UpdateLastLogin(ctx context.Context, userId string) error {
	return r.update(ctx, userId, cerror.ErrorUserNotFound, func(user *Document) bool {
		loginAt := now()
		user.LastLogin = &loginAt
		return true
	})
}

func (r *memoryRepository) UpdatePasswordResetToken(
	ctx context.Context,
	userId, resetTokenHash string,
	expiresAt time.Time,
) error {
	return r.update(ctx, userId, cerror.ErrorUserNotFound, func(user *Document) bool {
		expiresAt = expiresAt.UTC()
		user.PasswordResetToken = &resetTokenHash
		user.PasswordResetExpires = &expiresAt
		return true
	})
}

func (r *memoryRepository) UpdatePasswordAndClearResetToken(
	ctx context.Context,
	userId, resetTokenHash, passwordHash string,
) error {
	return r.update(ctx, userId, cerror.ErrorInvalidResetToken, func(user *Document) bool {
		if user.PasswordResetToken == nil || *user.PasswordResetToken != resetTokenHash {
			return false
		}
		user.Password = passwordHash
		user.PasswordResetToken = nil
		user.PasswordResetExpires = nil
		user.RefreshToken = nil
		return true
	})
}

func (r *memoryRepository) UpdatePassword(ctx context.Context, userId, passwordHash string) error {
	return r.update(ctx, userId, cerror.ErrorUserNotFound, func(user *Document) bool {
		user.Password = passwordHash
		user.RefreshToken = nil
		return true
	})
}

func (r *memoryRepository) UpdateIsActive(ctx context.Context, userId string, isActive bool) error {
	return r.update(ctx, userId, cerror.ErrorUserNotFound, func(user *Document) bool {
		user.IsActive = isActive
		if !isActive {
			user.RefreshToken = nil
		}
		return true
	})
}

// update applies mutate to the stored document, returning notMatched when the
// user is missing or mutate reports its precondition failed.
func (r *memoryRepository) update(
	ctx context.Context,
	userId string,
	notMatched *cerror.CustomError,
	mutate func(user *Document) bool,
) error {
	if err := ctx.Err(); err != nil {
		return cerror.ErrorStoreUnavailable
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	stored, exists := r.byId[userId]
	if !exists {
		return notMatched
	}

	candidate := copyDocument(stored)
	if !mutate(candidate) {
		return notMatched
	}

	candidate.UpdatedAt = now()
	r.byId[userId] = candidate
	return nil
}

func copyDocument(user *Document) *Document {
	clone := *user
	clone.RefreshToken = copyString(user.RefreshToken)
	clone.PasswordResetToken = copyString(user.PasswordResetToken)
	clone.PasswordResetExpires = copyTime(user.PasswordResetExpires)
	clone.LastLogin = copyTime(user.LastLogin)
	return &clone
}

func copyString(value *string) *string {
	if value == nil {
		return nil
	}
	clone := *value
	return &clone
}

func copyTime(value *time.Time) *time.Time {
	if value == nil {
		return nil
	}
	clone := *value
	return &clone
}
