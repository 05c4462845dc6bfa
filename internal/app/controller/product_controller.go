package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gmaisuradze997/guitar-shop/internal/app/service"
	apperrors "github.com/gmaisuradze997/guitar-shop/internal/errors"
	"github.com/gmaisuradze997/guitar-shop/internal/middleware"
)

type ProductController struct {
	productService service.ProductService
}

func NewProductController(productService service.ProductService) *ProductController {
	return &ProductController{
		productService: productService,
	}
}

// ListProducts returns the paginated, filtered catalog
// GET /api/products
func (ctrl *ProductController) ListProducts(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	query := service.ProductQuery{
		CategorySlug: c.Query("category"),
		Brand:        c.Query("brand"),
		Search:       c.Query("search"),
		Sort:         c.DefaultQuery("sort", "newest"),
		InStockOnly:  c.Query("inStock") == "true",
	}
	query.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	query.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "12"))

	if raw := c.Query("minPrice"); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			query.MinPrice = &v
		}
	}
	if raw := c.Query("maxPrice"); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			query.MaxPrice = &v
		}
	}

	page, err := ctrl.productService.ListProducts(query)
	if err != nil {
		if errors.Is(err, service.ErrCategoryNotFound) {
			apperrors.NotFound(c, apperrors.CategoryNotFound, "Category not found")
			return
		}
		log.Error("Failed to list products", err, nil)
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "product")
		return
	}

	c.JSON(http.StatusOK, page)
}

// GetProduct returns a single product by slug, with reviews
// GET /api/products/slug/:slug
func (ctrl *ProductController) GetProduct(c *gin.Context) {
	slug := c.Param("slug")

	product, err := ctrl.productService.GetProductBySlug(slug)
	if err != nil {
		apperrors.NotFound(c, apperrors.ProductNotFound, "Product not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"product": product,
	})
}

// GetProductByID returns a single product by numeric ID
// GET /api/products/:id
func (ctrl *ProductController) GetProductByID(c *gin.Context) {
	productID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid product ID")
		return
	}

	product, err := ctrl.productService.GetProductByID(uint(productID))
	if err != nil {
		apperrors.NotFound(c, apperrors.ProductNotFound, "Product not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"product": product,
	})
}

// GetFilters returns the filter sidebar metadata
// GET /api/products/filters
func (ctrl *ProductController) GetFilters(c *gin.Context) {
	filters, err := ctrl.productService.GetFilters()
	if err != nil {
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "product")
		return
	}

	c.JSON(http.StatusOK, filters)
}

// ListCategories returns the two-level category tree
// GET /api/products/categories
func (ctrl *ProductController) ListCategories(c *gin.Context) {
	categories, err := ctrl.productService.ListCategories()
	if err != nil {
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "category")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"categories": categories,
	})
}

// GetCategory returns a single category by slug
// GET /api/products/categories/:slug
func (ctrl *ProductController) GetCategory(c *gin.Context) {
	category, err := ctrl.productService.GetCategoryBySlug(c.Param("slug"))
	if err != nil {
		apperrors.NotFound(c, apperrors.CategoryNotFound, "Category not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"category": category,
	})
}
