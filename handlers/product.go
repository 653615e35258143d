package handlers

import (
	"net/http"

	"customworld-api/config"
	"customworld-api/middleware"
	"customworld-api/models"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

type CreateProductRequest struct {
	Name        string          `json:"name" binding:"required"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price" binding:"required"`
	CategoryID  uint            `json:"category_id"`
	ImagePath   string          `json:"image_path"`
}

// ListProducts returns the approved products, optionally filtered by category
func ListProducts(c *gin.Context) {
	query := config.DB.Preload("Category").Where("approved = ?", true)
	if categoryID := c.Query("category_id"); categoryID != "" {
		query = query.Where("category_id = ?", categoryID)
	}

	var products []models.Product
	query.Order("created_at desc").Find(&products)
	c.JSON(http.StatusOK, gin.H{"count": len(products), "products": products})
}

// GetProduct returns one approved product
func GetProduct(c *gin.Context) {
	var product models.Product
	if err := config.DB.Preload("Category").
		Where("id = ? AND approved = ?", c.Param("id"), true).
		First(&product).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"product": product})
}

// CreateProduct registers a new product owned by the calling vendor,
// awaiting admin approval.
func CreateProduct(c *gin.Context) {
	vendorID := middleware.GetUserID(c)

	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !req.Price.IsPositive() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Price must be positive"})
		return
	}

	product := models.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		CategoryID:  req.CategoryID,
		VendorID:    vendorID,
		ImagePath:   req.ImagePath,
	}
	if err := config.DB.Create(&product).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create product"})
		return
	}

	log.WithFields(log.Fields{"product_id": product.ID, "vendor_id": vendorID}).Info("product created")
	c.JSON(http.StatusCreated, gin.H{"message": "Product created, pending approval", "product": product})
}

// ApproveProduct marks a product as approved for sale
func ApproveProduct(c *gin.Context) {
	var product models.Product
	if err := config.DB.First(&product, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}
	if err := config.DB.Model(&product).Update("approved", true).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to approve product"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product approved", "product_id": product.ID})
}
