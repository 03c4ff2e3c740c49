// internal/domain/user/address_service.go
package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/your-org/storefront-backend/internal/config"
	store "github.com/your-org/storefront-backend/internal/infrastructure/database/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Address errors
var (
	ErrAddressNotFound = errors.New("address not found")
	ErrAddressInvalid  = errors.New("address requires full name, phone, street and city")
)

// AddressService handles address book management
type AddressService struct {
	client *store.Client
	config *config.Config
}

// NewAddressService creates a new address service
func NewAddressService(client *store.Client, cfg *config.Config) *AddressService {
	return &AddressService{
		client: client,
		config: cfg,
	}
}

// AddressRequest represents address create/update data
type AddressRequest struct {
	FullName  string `json:"full_name" binding:"required"`
	Phone     string `json:"phone" binding:"required"`
	Street    string `json:"street" binding:"required"`
	City      string `json:"city" binding:"required"`
	District  string `json:"district"`
	Ward      string `json:"ward"`
	IsDefault bool   `json:"is_default"`
}

// GetUserAddresses lists a user's addresses, default first
func (s *AddressService) GetUserAddresses(ctx context.Context, userID string) ([]Address, error) {
	queryCtx, cancel := context.WithTimeout(ctx, s.config.Mongo.QueryTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{
		{Key: "isDefault", Value: -1},
		{Key: "createdAt", Value: -1},
	})
	cursor, err := s.collection().Find(queryCtx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve addresses: %w", err)
	}
	defer cursor.Close(queryCtx)

	var addresses []Address
	if err := cursor.All(queryCtx, &addresses); err != nil {
		return nil, fmt.Errorf("failed to decode addresses: %w", err)
	}
	return addresses, nil
}

// GetAddress retrieves one address owned by the user
func (s *AddressService) GetAddress(ctx context.Context, userID, addressID string) (*Address, error) {
	objectID, err := primitive.ObjectIDFromHex(addressID)
	if err != nil {
		return nil, ErrAddressNotFound
	}

	queryCtx, cancel := context.WithTimeout(ctx, s.config.Mongo.QueryTimeout)
	defer cancel()

	var addr Address
	err = s.collection().FindOne(queryCtx, bson.M{"_id": objectID, "userId": userID}).Decode(&addr)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrAddressNotFound
		}
		return nil, fmt.Errorf("failed to retrieve address: %w", err)
	}
	return &addr, nil
}

// CreateAddress adds an address; the first address becomes the default
func (s *AddressService) CreateAddress(ctx context.Context, userID string, req *AddressRequest) (*Address, error) {
	if err := validateAddressRequest(req); err != nil {
		return nil, err
	}

	queryCtx, cancel := context.WithTimeout(ctx, s.config.Mongo.QueryTimeout)
	defer cancel()

	count, err := s.collection().CountDocuments(queryCtx, bson.M{"userId": userID})
	if err != nil {
		return nil, fmt.Errorf("failed to count addresses: %w", err)
	}

	isDefault := req.IsDefault || count == 0
	if isDefault {
		if err := s.unsetDefault(queryCtx, userID); err != nil {
			return nil, err
		}
	}

	now := time.Now().UTC()
	addr := Address{
		UserID:    userID,
		FullName:  strings.TrimSpace(req.FullName),
		Phone:     strings.TrimSpace(req.Phone),
		Street:    strings.TrimSpace(req.Street),
		City:      strings.TrimSpace(req.City),
		District:  strings.TrimSpace(req.District),
		Ward:      strings.TrimSpace(req.Ward),
		IsDefault: isDefault,
		CreatedAt: now,
		UpdatedAt: now,
	}

	result, err := s.collection().InsertOne(queryCtx, addr)
	if err != nil {
		return nil, fmt.Errorf("failed to create address: %w", err)
	}
	addr.ID = result.InsertedID.(primitive.ObjectID)
	return &addr, nil
}

// UpdateAddress updates an address owned by the user
func (s *AddressService) UpdateAddress(ctx context.Context, userID, addressID string, req *AddressRequest) (*Address, error) {
	if err := validateAddressRequest(req); err != nil {
		return nil, err
	}

	objectID, err := primitive.ObjectIDFromHex(addressID)
	if err != nil {
		return nil, ErrAddressNotFound
	}

	queryCtx, cancel := context.WithTimeout(ctx, s.config.Mongo.QueryTimeout)
	defer cancel()

	if req.IsDefault {
		if err := s.unsetDefault(queryCtx, userID); err != nil {
			return nil, err
		}
	}

	updates := bson.M{
		"fullName":  strings.TrimSpace(req.FullName),
		"phone":     strings.TrimSpace(req.Phone),
		"street":    strings.TrimSpace(req.Street),
		"city":      strings.TrimSpace(req.City),
		"district":  strings.TrimSpace(req.District),
		"ward":      strings.TrimSpace(req.Ward),
		"isDefault": req.IsDefault,
		"updatedAt": time.Now().UTC(),
	}

	result := s.collection().FindOneAndUpdate(queryCtx,
		bson.M{"_id": objectID, "userId": userID},
		bson.M{"$set": updates},
		options.FindOneAndUpdate().SetReturnDocument(options.After))

	var addr Address
	if err := result.Decode(&addr); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrAddressNotFound
		}
		return nil, fmt.Errorf("failed to update address: %w", err)
	}
	return &addr, nil
}

// DeleteAddress removes an address owned by the user
func (s *AddressService) DeleteAddress(ctx context.Context, userID, addressID string) error {
	objectID, err := primitive.ObjectIDFromHex(addressID)
	if err != nil {
		return ErrAddressNotFound
	}

	queryCtx, cancel := context.WithTimeout(ctx, s.config.Mongo.QueryTimeout)
	defer cancel()

	result, err := s.collection().DeleteOne(queryCtx, bson.M{"_id": objectID, "userId": userID})
	if err != nil {
		return fmt.Errorf("failed to delete address: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrAddressNotFound
	}
	return nil
}

// SetDefaultAddress marks one address as the single default
func (s *AddressService) SetDefaultAddress(ctx context.Context, userID, addressID string) error {
	objectID, err := primitive.ObjectIDFromHex(addressID)
	if err != nil {
		return ErrAddressNotFound
	}

	queryCtx, cancel := context.WithTimeout(ctx, s.config.Mongo.QueryTimeout)
	defer cancel()

	if err := s.unsetDefault(queryCtx, userID); err != nil {
		return err
	}

	result, err := s.collection().UpdateOne(queryCtx,
		bson.M{"_id": objectID, "userId": userID},
		bson.M{"$set": bson.M{"isDefault": true, "updatedAt": time.Now().UTC()}})
	if err != nil {
		return fmt.Errorf("failed to set default address: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrAddressNotFound
	}
	return nil
}

// GetDefaultAddress returns the user's default address
func (s *AddressService) GetDefaultAddress(ctx context.Context, userID string) (*Address, error) {
	queryCtx, cancel := context.WithTimeout(ctx, s.config.Mongo.QueryTimeout)
	defer cancel()

	var addr Address
	err := s.collection().FindOne(queryCtx, bson.M{"userId": userID, "isDefault": true}).Decode(&addr)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrAddressNotFound
		}
		return nil, fmt.Errorf("failed to retrieve default address: %w", err)
	}
	return &addr, nil
}

func (s *AddressService) unsetDefault(ctx context.Context, userID string) error {
	_, err := s.collection().UpdateMany(ctx,
		bson.M{"userId": userID, "isDefault": true},
		bson.M{"$set": bson.M{"isDefault": false}})
	if err != nil {
		return fmt.Errorf("failed to unset default addresses: %w", err)
	}
	return nil
}

func validateAddressRequest(req *AddressRequest) error {
	if strings.TrimSpace(req.FullName) == "" ||
		strings.TrimSpace(req.Phone) == "" ||
		strings.TrimSpace(req.Street) == "" ||
		strings.TrimSpace(req.City) == "" {
		return ErrAddressInvalid
	}
	return nil
}

func (s *AddressService) collection() *mongo.Collection {
	return s.client.Collection(store.CollectionAddresses)
}
