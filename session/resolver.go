package session

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/mentorhub/mentor-portal-api/databases"
	"github.com/mentorhub/mentor-portal-api/models"
)

// ErrRoleNotFound means the account authenticated fine but no role document
// exists for it in any of the three role collections. Routing treats this the
// same as being logged out.
var ErrRoleNotFound = errors.New("no role record found for account")

// ErrDirectoryUnavailable means a role probe failed for a reason other than a
// missing document and no cached session existed to fall back on.
var ErrDirectoryUnavailable = errors.New("directory store unavailable")

// Cache is the durable session cache. Get returns (nil, nil) on a miss. Put
// stores role and name together; Clear removes both together.
type Cache interface {
	Get(ctx context.Context, accountID string) (*models.Session, error)
	Put(ctx context.Context, accountID string, session models.Session) error
	Clear(ctx context.Context, accountID string) error
}

// Resolver determines the role and display name of an authenticated account by
// probing the role collections in the fixed order admins, mentors, mentees.
// The first collection holding a document with the account's id wins, so an
// account wrongly present in both mentors and mentees resolves to mentor.
type Resolver struct {
	ADB   databases.AdminDatabase
	MDB   databases.MentorDatabase
	SDB   databases.MenteeDatabase
	Cache Cache
}

// Resolve probes the role collections for the given account id. A missing
// document moves the probe to the next collection; any other error is treated
// as a connectivity failure and answered from the cache when possible. Every
// successful resolution refreshes the cache entry for the account.
func (r *Resolver) Resolve(ctx context.Context, accountID primitive.ObjectID) (models.Session, error) {
	filter := bson.M{"_id": accountID}

	admin, err := r.ADB.FindOne(ctx, filter)
	if err == nil {
		return r.cacheAndReturn(ctx, accountID, models.Session{Role: models.RoleAdmin, Name: admin.Name})
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return r.fromCache(ctx, accountID, err)
	}

	mentor, err := r.MDB.FindOne(ctx, filter)
	if err == nil {
		return r.cacheAndReturn(ctx, accountID, models.Session{Role: models.RoleMentor, Name: mentor.Name})
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return r.fromCache(ctx, accountID, err)
	}

	mentee, err := r.SDB.FindOne(ctx, filter)
	if err == nil {
		return r.cacheAndReturn(ctx, accountID, models.Session{Role: models.RoleMentee, Name: mentee.Name})
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return r.fromCache(ctx, accountID, err)
	}

	return models.Session{}, ErrRoleNotFound
}

// SignOut drops the cached session for the account. Called on token revocation
// so a later resolution cannot serve a stale role from before the sign-out.
func (r *Resolver) SignOut(ctx context.Context, accountID primitive.ObjectID) {
	if r.Cache == nil {
		return
	}
	if err := r.Cache.Clear(ctx, accountID.Hex()); err != nil {
		zap.S().Warnw("failed to clear session cache", "accountId", accountID.Hex(), "error", err)
	}
}

func (r *Resolver) cacheAndReturn(ctx context.Context, accountID primitive.ObjectID, session models.Session) (models.Session, error) {
	if r.Cache != nil {
		if err := r.Cache.Put(ctx, accountID.Hex(), session); err != nil {
			zap.S().Warnw("failed to cache session", "accountId", accountID.Hex(), "error", err)
		}
	}
	return session, nil
}

func (r *Resolver) fromCache(ctx context.Context, accountID primitive.ObjectID, cause error) (models.Session, error) {
	zap.S().Warnw("role probe failed, trying session cache", "accountId", accountID.Hex(), "error", cause)
	if r.Cache != nil {
		cached, err := r.Cache.Get(ctx, accountID.Hex())
		if err == nil && cached != nil {
			return *cached, nil
		}
	}
	return models.Session{}, ErrDirectoryUnavailable
}
