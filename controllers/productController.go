package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/uiaphotography/uia-api/initializers"
	"github.com/uiaphotography/uia-api/models"
	"github.com/uiaphotography/uia-api/utils"
	"gorm.io/gorm"
)

// Product handlers
func CreateProduct(ctx *gin.Context) {
	var product models.Product
	if err := ctx.ShouldBindJSON(&product); err != nil {
		respondWithError(ctx, http.StatusBadRequest, msgInvalidRequestBody, err)
		return
	}

	var existing models.Product
	result := initializers.DB.Where("title = ?", product.Title).Find(&existing)
	if result.Error != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Failed to validate product title", result.Error)
		return
	}
	if result.RowsAffected > 0 {
		sendErrorResponse(ctx, http.StatusBadRequest, msgDuplicateProductTitle)
		return
	}

	product.Slug = utils.GenerateSlug(product.Title)

	if err := initializers.DB.Create(&product).Error; err != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Failed to create product", err)
		return
	}

	ctx.JSON(http.StatusCreated, product)
}

func GetProducts(ctx *gin.Context) {
	var products []models.Product

	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "15"))
	offset := (page - 1) * limit

	query := initializers.DB.Model(&models.Product{})

	if search := ctx.Query("search"); search != "" {
		query = query.Where("title LIKE ?", "%"+search+"%")
	}

	result := query.Limit(limit).Offset(offset).Find(&products)
	if result.Error != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Unable to fetch products", result.Error)
		return
	}

	var count int64
	initializers.DB.Model(&models.Product{}).Count(&count)

	ctx.JSON(http.StatusOK, gin.H{
		"products": products,
		"metadata": gin.H{
			"total": count,
			"page":  page,
			"limit": limit,
		},
	})
}

func GetProduct(ctx *gin.Context) {
	productId, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		respondWithError(ctx, http.StatusBadRequest, "Invalid product ID", err)
		return
	}

	var product models.Product
	result := initializers.DB.First(&product, productId)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			respondWithError(ctx, http.StatusNotFound, msgProductNotFound, nil)
		} else {
			respondWithError(ctx, http.StatusInternalServerError, "Unable to retrieve product", result.Error)
		}
		return
	}

	ctx.JSON(http.StatusOK, product)
}

// UpdateProductMetafield sets the digital file metadata on a photo. A
// request carrying values identical to the stored ones is rejected so staff
// notice the no-op.
func UpdateProductMetafield(ctx *gin.Context) {
	var metafield struct {
		Resolution string          `json:"resolution" binding:"required"`
		FileSizeMb decimal.Decimal `json:"fileSizeMb" binding:"required"`
		FileFormat string          `json:"fileFormat" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&metafield); err != nil {
		respondWithError(ctx, http.StatusBadRequest, msgInvalidRequestBody, err)
		return
	}

	productId, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		respondWithError(ctx, http.StatusBadRequest, "Invalid product ID", err)
		return
	}

	var product models.Product
	if err := initializers.DB.First(&product, productId).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondWithError(ctx, http.StatusNotFound, msgProductNotFound, nil)
		} else {
			respondWithError(ctx, http.StatusInternalServerError, "Failed to validate product", err)
		}
		return
	}

	if product.Resolution == metafield.Resolution &&
		product.FileSizeMb.Equal(metafield.FileSizeMb) &&
		product.FileFormat == metafield.FileFormat {
		sendErrorResponse(ctx, http.StatusBadRequest, "Provided metafield info is the same as existing data. No update performed.")
		return
	}

	updates := map[string]any{
		"resolution":   metafield.Resolution,
		"file_size_mb": metafield.FileSizeMb,
		"file_format":  metafield.FileFormat,
	}
	if err := initializers.DB.Model(&product).Updates(updates).Error; err != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Failed to update product metafield", err)
		return
	}

	ctx.JSON(http.StatusOK, product)
}
