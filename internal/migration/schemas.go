package migration

import (
	"go.mongodb.org/mongo-driver/bson"

	"github.com/vinylvault/vinylvault/internal/domain"
)

// collectionSchemas declares the shape contract of each target collection.
// The collections are created with these validators bound (strict/error),
// so a document that does not conform is rejected at insert time instead of
// being silently stored.
func collectionSchemas() map[string]bson.M {
	return map[string]bson.M{
		domain.CollectionVinyls:  vinylSchema(),
		domain.CollectionUsers:   userSchema(),
		domain.CollectionOrders:  orderSchema(),
		domain.CollectionReviews: reviewSchema(),
	}
}

func vinylSchema() bson.M {
	return bson.M{
		"bsonType": "object",
		"required": bson.A{"_id", "title", "price", "release_date", "genre", "artist"},
		"properties": bson.M{
			"_id":          bson.M{"bsonType": "long"},
			"title":        bson.M{"bsonType": "string"},
			"price":        bson.M{"bsonType": "double", "minimum": 0},
			"release_date": bson.M{"bsonType": "date"},
			"cover_image":  bson.M{"bsonType": "string"},
			"genre":        bson.M{"bsonType": "string"},
			"artist": bson.M{
				"bsonType": "object",
				"required": bson.A{"_id", "name", "nationality"},
				"properties": bson.M{
					"_id":         bson.M{"bsonType": "long"},
					"name":        bson.M{"bsonType": "string"},
					"nationality": bson.M{"bsonType": "string"},
				},
			},
		},
	}
}

func userSchema() bson.M {
	return bson.M{
		"bsonType": "object",
		"required": bson.A{"_id", "name", "email", "password", "role"},
		"properties": bson.M{
			"_id":      bson.M{"bsonType": "long"},
			"name":     bson.M{"bsonType": "string"},
			"email":    bson.M{"bsonType": "string"},
			"password": bson.M{"bsonType": "string"},
			"role":     bson.M{"enum": bson.A{domain.RoleAdmin, domain.RoleCustomer, domain.RoleUnknown}},
			"admin_details": bson.M{
				"bsonType": "object",
				"required": bson.A{"department"},
				"properties": bson.M{
					"department": bson.M{"enum": bson.A{
						domain.DepartmentIT, domain.DepartmentHR, domain.DepartmentFinance,
					}},
				},
			},
			"customer_details": bson.M{
				"bsonType": "object",
				"required": bson.A{"address"},
				"properties": bson.M{
					"address": bson.M{"bsonType": "string"},
				},
			},
		},
	}
}

func orderSchema() bson.M {
	return bson.M{
		"bsonType": "object",
		"required": bson.A{"_id", "user_id", "order_date", "payment_method", "total_price", "lines"},
		"properties": bson.M{
			"_id":        bson.M{"bsonType": "long"},
			"user_id":    bson.M{"bsonType": "long"},
			"order_date": bson.M{"bsonType": "date"},
			"payment_method": bson.M{"enum": bson.A{
				domain.PaymentApplePay, domain.PaymentKlarna, domain.PaymentCreditCard,
			}},
			"total_price": bson.M{"bsonType": "double", "minimum": 0},
			"lines": bson.M{
				"bsonType": "array",
				"items": bson.M{
					"bsonType": "object",
					"required": bson.A{"vinyl_id", "amount", "vinyl", "artist"},
					"properties": bson.M{
						"vinyl_id": bson.M{"bsonType": "long"},
						"amount":   bson.M{"bsonType": "int", "minimum": 1},
						"vinyl": bson.M{
							"bsonType": "object",
							"required": bson.A{"title", "price", "genre"},
						},
						"artist": bson.M{
							"bsonType": "object",
							"required": bson.A{"name", "nationality"},
						},
					},
				},
			},
		},
	}
}

func reviewSchema() bson.M {
	return bson.M{
		"bsonType": "object",
		"required": bson.A{"user_id", "vinyl_id", "rating", "review_date"},
		"properties": bson.M{
			"user_id":     bson.M{"bsonType": "long"},
			"vinyl_id":    bson.M{"bsonType": "long"},
			"rating":      bson.M{"bsonType": "int", "minimum": 0, "maximum": 5},
			"comment":     bson.M{"bsonType": "string"},
			"review_date": bson.M{"bsonType": "date"},
		},
	}
}
