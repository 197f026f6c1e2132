package usecase

import (
	"context"
	"errors"

	"go-optical-clinic/internal/converter"
	"go-optical-clinic/internal/delivery/dto"
	"go-optical-clinic/internal/domain/entity"
	"go-optical-clinic/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var ErrProductSKUExists = errors.New("product sku already exists")

type ProductUsecase interface {
	Create(ctx context.Context, req *dto.CreateProductRequest) (*dto.ProductResponse, error)
	Get(ctx context.Context, productID uuid.UUID) (*dto.ProductResponse, error)
	GetAll(ctx context.Context, page, limit int) (*dto.ProductListResponse, error)
	Update(ctx context.Context, productID uuid.UUID, req *dto.UpdateProductRequest) (*dto.ProductResponse, error)
	Delete(ctx context.Context, productID uuid.UUID) error
}

type productUsecase struct {
	db          *gorm.DB
	log         *logrus.Logger
	productRepo repository.ProductRepository
}

func NewProductUsecase(db *gorm.DB, log *logrus.Logger, productRepo repository.ProductRepository) ProductUsecase {
	return &productUsecase{
		db:          db,
		log:         log,
		productRepo: productRepo,
	}
}

func (u *productUsecase) Create(ctx context.Context, req *dto.CreateProductRequest) (*dto.ProductResponse, error) {
	hasLens := req.HasLensAttributes || req.Category == entity.ProductCategoryLens

	product := &entity.Product{
		SKU:               req.SKU,
		Name:              req.Name,
		Description:       req.Description,
		Category:          req.Category,
		Price:             req.Price,
		Stock:             req.Stock,
		HasLensAttributes: hasLens,
	}

	if err := u.productRepo.Create(u.db.WithContext(ctx), product); err != nil {
		if isDuplicateKeyError(err, "idx_products_sku") {
			return nil, ErrProductSKUExists
		}
		u.log.Warnf("Failed to create product: %+v", err)
		return nil, err
	}

	u.log.Infof("Product created: id=%s, sku=%s", product.ID, product.SKU)
	return converter.ProductToResponse(product), nil
}

func (u *productUsecase) Get(ctx context.Context, productID uuid.UUID) (*dto.ProductResponse, error) {
	product, err := u.productRepo.FindByID(u.db.WithContext(ctx), productID)
	if err != nil {
		u.log.Warnf("Failed to find product %s: %+v", productID, err)
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}

	return converter.ProductToResponse(product), nil
}

func (u *productUsecase) GetAll(ctx context.Context, page, limit int) (*dto.ProductListResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	products, total, err := u.productRepo.FindAll(u.db.WithContext(ctx), limit, (page-1)*limit)
	if err != nil {
		u.log.Warnf("Failed to find products: %+v", err)
		return nil, err
	}

	return &dto.ProductListResponse{
		Products: converter.ProductsToResponses(products),
		Total:    total,
	}, nil
}

func (u *productUsecase) Update(ctx context.Context, productID uuid.UUID, req *dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	db := u.db.WithContext(ctx)

	product, err := u.productRepo.FindByID(db, productID)
	if err != nil {
		u.log.Warnf("Failed to find product %s: %+v", productID, err)
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}

	if req.Name != "" {
		product.Name = req.Name
	}
	if req.Description != "" {
		product.Description = req.Description
	}
	if req.Category != "" {
		product.Category = req.Category
		if req.Category == entity.ProductCategoryLens {
			product.HasLensAttributes = true
		}
	}
	if req.Price != nil {
		product.Price = *req.Price
	}
	if req.Stock != nil {
		product.Stock = *req.Stock
	}
	if req.HasLensAttributes != nil {
		product.HasLensAttributes = *req.HasLensAttributes
	}

	if err := u.productRepo.Update(db, product); err != nil {
		u.log.Warnf("Failed to update product %s: %+v", productID, err)
		return nil, err
	}

	return converter.ProductToResponse(product), nil
}

func (u *productUsecase) Delete(ctx context.Context, productID uuid.UUID) error {
	db := u.db.WithContext(ctx)

	product, err := u.productRepo.FindByID(db, productID)
	if err != nil {
		u.log.Warnf("Failed to find product %s: %+v", productID, err)
		return err
	}
	if product == nil {
		return ErrProductNotFound
	}

	if err := u.productRepo.Delete(db, productID); err != nil {
		u.log.Warnf("Failed to delete product %s: %+v", productID, err)
		return err
	}

	u.log.Infof("Product deleted: id=%s, sku=%s", productID, product.SKU)
	return nil
}
