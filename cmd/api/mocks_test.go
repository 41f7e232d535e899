package main

import (
	"context"

	"storefront/internal/domain/categories"
	"storefront/internal/domain/products"
	"storefront/internal/domain/reviews"
	"storefront/internal/domain/users"

	"github.com/stretchr/testify/mock"
)

// MockUserStore is a mock implementation of users.Store
type MockUserStore struct {
	mock.Mock
}

func (m *MockUserStore) Create(ctx context.Context, user *users.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserStore) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	args := m.Called(ctx, username, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserStore) GetByID(ctx context.Context, id int64) (*users.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*users.User), args.Error(1)
}

func (m *MockUserStore) GetByUsername(ctx context.Context, username string) (*users.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*users.User), args.Error(1)
}

func (m *MockUserStore) List(ctx context.Context) ([]*users.User, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*users.User), args.Error(1)
}

// MockCategoryStore is a mock implementation of categories.Store
type MockCategoryStore struct {
	mock.Mock
}

func (m *MockCategoryStore) Create(ctx context.Context, c *categories.Category) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCategoryStore) GetByID(ctx context.Context, id int64) (*categories.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*categories.Category), args.Error(1)
}

func (m *MockCategoryStore) GetByName(ctx context.Context, name string) (*categories.Category, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*categories.Category), args.Error(1)
}

func (m *MockCategoryStore) List(ctx context.Context) ([]*categories.Category, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*categories.Category), args.Error(1)
}

// MockProductStore is a mock implementation of products.Store
type MockProductStore struct {
	mock.Mock
}

func (m *MockProductStore) Create(ctx context.Context, p *products.Product) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockProductStore) GetByID(ctx context.Context, id int64) (*products.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*products.Product), args.Error(1)
}

func (m *MockProductStore) Update(ctx context.Context, p *products.Product) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockProductStore) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProductStore) List(ctx context.Context, limit, offset int) ([]*products.Product, int, error) {
	args := m.Called(ctx, limit, offset)
	return args.Get(0).([]*products.Product), args.Int(1), args.Error(2)
}

func (m *MockProductStore) ListByCategory(ctx context.Context, categoryID int64) ([]*products.Product, error) {
	args := m.Called(ctx, categoryID)
	return args.Get(0).([]*products.Product), args.Error(1)
}

func (m *MockProductStore) ListCuratorsPicks(ctx context.Context) ([]*products.Product, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*products.Product), args.Error(1)
}

// MockReviewStore is a mock implementation of reviews.Store
type MockReviewStore struct {
	mock.Mock
}

func (m *MockReviewStore) Create(ctx context.Context, review *reviews.Review) error {
	args := m.Called(ctx, review)
	return args.Error(0)
}

func (m *MockReviewStore) GetByID(ctx context.Context, id int64) (*reviews.Review, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*reviews.Review), args.Error(1)
}

func (m *MockReviewStore) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockReviewStore) ListByProduct(ctx context.Context, productID int64) ([]*reviews.Review, error) {
	args := m.Called(ctx, productID)
	return args.Get(0).([]*reviews.Review), args.Error(1)
}

func (m *MockReviewStore) ListByProducts(ctx context.Context, productIDs []int64) (map[int64][]*reviews.Review, error) {
	args := m.Called(ctx, productIDs)
	return args.Get(0).(map[int64][]*reviews.Review), args.Error(1)
}

func (m *MockReviewStore) GetStats(ctx context.Context, productID int64) (reviews.Stats, error) {
	args := m.Called(ctx, productID)
	return args.Get(0).(reviews.Stats), args.Error(1)
}
