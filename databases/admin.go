package databases

// go generate: mockery --name AdminDatabase

import (
	"context"

	"github.com/mentorhub/mentor-portal-api/models"
)

const adminCollection = "admins"

// AdminDatabase contains the methods to use with the admins collection
type AdminDatabase interface {
	FindOne(ctx context.Context, filter interface{}) (*models.Admin, error)
}

type adminDatabase struct {
	db DatabaseHelper
}

// NewAdminDatabase initializes a new instance of admin database with the provided db connection
func NewAdminDatabase(db DatabaseHelper) AdminDatabase {
	return &adminDatabase{
		db: db,
	}
}

func (a *adminDatabase) FindOne(ctx context.Context, filter interface{}) (*models.Admin, error) {
	admin := &models.Admin{}
	err := a.db.Collection(adminCollection).FindOne(ctx, filter).Decode(admin)
	if err != nil {
		return nil, err
	}
	return admin, nil
}
