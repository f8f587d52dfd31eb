package repository

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"

	"github.com/vinylvault/vinylvault/internal/domain"
)

func (r *mongoStore) Authenticate(ctx context.Context, creds domain.Credentials) (*domain.Identity, error) {
	var user domain.UserDocument
	err := r.db.Collection(domain.CollectionUsers).
		FindOne(ctx, bson.M{"email": creds.Email}).
		Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(creds.Password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}

	return &domain.Identity{
		UserID:     user.ID,
		Name:       user.Name,
		Role:       user.Role,
		RoleDetail: user.RoleDetail(),
	}, nil
}

func (r *mongoStore) ListUsers(ctx context.Context) ([]*domain.UserAccount, error) {
	cursor, err := r.db.Collection(domain.CollectionUsers).Find(ctx, bson.D{},
		options.Find().SetSort(bson.D{{Key: "role", Value: 1}, {Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer cursor.Close(ctx)

	var accounts []*domain.UserAccount
	for cursor.Next(ctx) {
		var doc domain.UserDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode user document: %w", err)
		}

		account := &domain.UserAccount{
			UserID: doc.ID,
			Name:   doc.Name,
			Email:  doc.Email,
			Role:   doc.Role,
		}
		if doc.AdminDetails != nil {
			account.Department = doc.AdminDetails.Department
		}
		if doc.CustomerDetails != nil {
			account.Address = doc.CustomerDetails.Address
		}
		accounts = append(accounts, account)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("error iterating user documents: %w", err)
	}

	return accounts, nil
}
