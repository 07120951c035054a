package product

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"ecom_back_end/internal/auth"
	"ecom_back_end/internal/cache"
	"ecom_back_end/internal/database"
	"ecom_back_end/internal/models"
	"ecom_back_end/internal/services"
	"ecom_back_end/internal/utils"
)

//
// 🔒 POST /api/products/register — admin/manager, multipart
//
func RegisterProduct(c *gin.Context) {
	user, newToken, ok := auth.RequireSession(c)
	if !ok {
		return
	}
	if !auth.RequireRole(c, user, models.RoleAdmin, models.RoleManager) {
		return
	}

	input, errs := parseProductForm(c)
	if len(errs) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Validation error", "errors": errs})
		return
	}

	ctx := c.Request.Context()

	imageURL := ""
	if file, err := c.FormFile("productImage"); err == nil {
		url, err := services.UploadProductImage(ctx, file)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error while uploading product image"})
			return
		}
		imageURL = url
	}

	now := time.Now()
	product := models.Product{
		ID:          primitive.NewObjectID(),
		Title:       input.Title,
		Description: input.Description,
		Brand:       input.Brand,
		Price:       input.Price,
		SalePrice:   input.SalePrice,
		Currency:    input.Currency,
		TotalStock:  input.TotalStock,
		Category:    input.Category,
		Image:       imageURL,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if _, err := database.Products().InsertOne(ctx, product); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal server error while creating product"})
		return
	}

	// indexation pour la recherche, sans bloquer la réponse
	go services.IndexProduct(product)

	payload := gin.H{"success": true, "message": "Product registered successfully", "product": product}
	if newToken != "" {
		payload["accessToken"] = newToken
	}
	c.JSON(http.StatusCreated, payload)
}

//
// 🔒 PATCH /api/products/update/:productId — admin/manager
//
func UpdateProduct(c *gin.Context) {
	user, newToken, ok := auth.RequireSession(c)
	if !ok {
		return
	}
	if !auth.RequireRole(c, user, models.RoleAdmin, models.RoleManager) {
		return
	}

	productOID, err := primitive.ObjectIDFromHex(c.Param("productId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Validation error", "errors": []string{"Invalid product id"}})
		return
	}

	ctx := c.Request.Context()

	update := bson.M{}
	setIfPresent := func(field, value string) {
		if value != "" {
			update[field] = value
		}
	}
	setIfPresent("title", c.PostForm("title"))
	setIfPresent("description", c.PostForm("description"))
	setIfPresent("brand", c.PostForm("brand"))
	if v := c.PostForm("price"); v != "" {
		if price, err := strconv.ParseFloat(v, 64); err == nil && price >= 0 {
			update["price"] = price
		}
	}
	if v := c.PostForm("salePrice"); v != "" {
		if sale, err := strconv.ParseFloat(v, 64); err == nil && sale >= 0 {
			update["salePrice"] = sale
		}
	}
	if v := c.PostForm("currency"); v != "" {
		update["currency"] = strings.ToUpper(v)
	}
	if v := c.PostForm("totalStock"); v != "" {
		if stock, err := strconv.Atoi(v); err == nil && stock >= 0 {
			update["totalStock"] = stock
		}
	}
	if v := c.PostForm("category"); v != "" {
		update["category"] = splitCategories(v)
	}
	if file, err := c.FormFile("productImage"); err == nil {
		url, err := services.UploadProductImage(ctx, file)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error while uploading product image"})
			return
		}
		update["image"] = url
	}

	if len(update) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Nothing to update"})
		return
	}
	update["updatedAt"] = time.Now()

	result, err := database.Products().UpdateOne(ctx, bson.M{"_id": productOID}, bson.M{"$set": update})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal server error while updating product"})
		return
	}
	if result.MatchedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Product not found"})
		return
	}

	cache.InvalidateProductCache(ctx, productOID.Hex())

	var product models.Product
	if err := database.Products().FindOne(ctx, bson.M{"_id": productOID}).Decode(&product); err == nil {
		go services.IndexProduct(product)
	}

	payload := gin.H{"success": true, "message": "Product update successfully", "product": product}
	if newToken != "" {
		payload["accessToken"] = newToken
	}
	c.JSON(http.StatusOK, payload)
}

//
// ❌ DELETE /api/products/:productId — admin/manager
//
func DeleteProduct(c *gin.Context) {
	user, newToken, ok := auth.RequireSession(c)
	if !ok {
		return
	}
	if !auth.RequireRole(c, user, models.RoleAdmin, models.RoleManager) {
		return
	}

	productOID, err := primitive.ObjectIDFromHex(c.Param("productId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Validation error", "errors": []string{"Invalid product id"}})
		return
	}

	ctx := c.Request.Context()
	result, err := database.Products().DeleteOne(ctx, bson.M{"_id": productOID})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal server error while deleting product"})
		return
	}
	if result.DeletedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Product not found"})
		return
	}

	cache.InvalidateProductCache(ctx, productOID.Hex())
	go services.DeleteProductIndex(productOID.Hex())

	payload := gin.H{"success": true, "message": "Product delete successfully"}
	if newToken != "" {
		payload["accessToken"] = newToken
	}
	c.JSON(http.StatusOK, payload)
}

//
// 🟢 GET /api/products/allProduct
//
func GetAllProducts(c *gin.Context) {
	products, err := fetchProducts(c, bson.M{}, nil)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "unable to get all products."})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "products": products})
}

//
// 🟢 GET /api/products/getAllProductsWithLimits?limit=&skip=
//
func GetAllProductsWithLimits(c *gin.Context) {
	limit := utils.QueryInt(c, "limit", 10)
	skip := utils.QueryInt(c, "skip", 0)

	ctx := c.Request.Context()
	total, err := database.Products().CountDocuments(ctx, bson.M{})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "unable to get all products."})
		return
	}

	findOpts := options.Find().SetLimit(int64(limit)).SetSkip(int64(skip))
	products, err := fetchProducts(c, bson.M{}, findOpts)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "unable to get all products."})
		return
	}

	totalProducts := int(total)
	totalPages := (totalProducts + limit - 1) / limit
	currentPage := skip/limit + 1
	var nextPage, prevPage interface{}
	if currentPage < totalPages {
		nextPage = currentPage + 1
	}
	if currentPage > 1 {
		prevPage = currentPage - 1
	}

	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"products":      products,
		"totalProducts": totalProducts,
		"totalPages":    totalPages,
		"currentPage":   currentPage,
		"nextPage":      nextPage,
		"prevPage":      prevPage,
		"limit":         limit,
		"skip":          skip,
	})
}

//
// 🟢 GET /api/products/getProductByCategory?category=
//
func GetProductByCategory(c *gin.Context) {
	category := strings.TrimSpace(c.Query("category"))
	if category == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Validation error", "errors": []string{"category is required"}})
		return
	}

	products, err := fetchProducts(c, bson.M{"category": category}, nil)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "unable to get products."})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "products": products})
}

//
// 🟢 GET /api/products/getProductByCategoryWithLimit?category=&limit=&skip=
//
func GetProductByCategoryWithLimit(c *gin.Context) {
	category := strings.TrimSpace(c.Query("category"))
	if category == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Validation error", "errors": []string{"category is required"}})
		return
	}

	limit := utils.QueryInt(c, "limit", 10)
	skip := utils.QueryInt(c, "skip", 0)
	filter := bson.M{"category": category}

	ctx := c.Request.Context()
	total, err := database.Products().CountDocuments(ctx, filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "unable to get products."})
		return
	}

	findOpts := options.Find().SetLimit(int64(limit)).SetSkip(int64(skip))
	products, err := fetchProducts(c, filter, findOpts)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "unable to get products."})
		return
	}

	totalProducts := int(total)
	totalPages := (totalProducts + limit - 1) / limit
	currentPage := skip/limit + 1
	var nextPage, prevPage interface{}
	if currentPage < totalPages {
		nextPage = currentPage + 1
	}
	if currentPage > 1 {
		prevPage = currentPage - 1
	}

	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"products":      products,
		"totalProducts": totalProducts,
		"totalPages":    totalPages,
		"currentPage":   currentPage,
		"nextPage":      nextPage,
		"prevPage":      prevPage,
		"limit":         limit,
		"skip":          skip,
	})
}

//
// 🟢 GET /api/products/getAllCategoryName
//
func GetAllCategoryNames(c *gin.Context) {
	ctx := c.Request.Context()
	values, err := database.Products().Distinct(ctx, "category", bson.M{})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "unable to get categories."})
		return
	}

	categories := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok {
			categories = append(categories, s)
		}
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "categories": categories})
}

//
// 🟢 GET /api/products/:productId — lecture publique, servie par le cache
//
func GetSingleProduct(c *gin.Context) {
	productID := c.Param("productId")
	if _, err := primitive.ObjectIDFromHex(productID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Validation error", "errors": []string{"Invalid product id"}})
		return
	}

	product, err := cache.GetProductFromCache(c.Request.Context(), productID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Product not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "product": product})
}

// ---------------------------------------------------------------------------

type productForm struct {
	Title       string
	Description string
	Brand       string
	Price       float64
	SalePrice   float64
	Currency    string
	TotalStock  int
	Category    []string
}

func parseProductForm(c *gin.Context) (productForm, []string) {
	var errs []string
	form := productForm{
		Title:       strings.TrimSpace(c.PostForm("title")),
		Description: strings.TrimSpace(c.PostForm("description")),
		Brand:       strings.TrimSpace(c.PostForm("brand")),
		Currency:    strings.ToUpper(strings.TrimSpace(c.PostForm("currency"))),
		Category:    splitCategories(c.PostForm("category")),
	}

	if form.Title == "" {
		errs = append(errs, "Title is required")
	}
	if form.Currency == "" {
		form.Currency = "USD"
	}

	price, err := strconv.ParseFloat(c.PostForm("price"), 64)
	if err != nil || price < 0 {
		errs = append(errs, "Price must be a positive number")
	}
	form.Price = price

	if v := c.PostForm("salePrice"); v != "" {
		sale, err := strconv.ParseFloat(v, 64)
		if err != nil || sale < 0 {
			errs = append(errs, "Sale price must be a positive number")
		}
		form.SalePrice = sale
	}

	stock, err := strconv.Atoi(c.PostForm("totalStock"))
	if err != nil || stock < 0 {
		errs = append(errs, "Total stock must be a positive number")
	}
	form.TotalStock = stock

	return form, errs
}

// splitCategories découpe "a, b ,c" en ["a" "b" "c"], entrées vides écartées.
func splitCategories(raw string) []string {
	parts := strings.Split(raw, ",")
	categories := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			categories = append(categories, trimmed)
		}
	}
	return categories
}

func fetchProducts(c *gin.Context, filter bson.M, opts *options.FindOptions) ([]models.Product, error) {
	ctx := c.Request.Context()
	if opts == nil {
		opts = options.Find()
	}
	cur, err := database.Products().Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	var products []models.Product
	if err := cur.All(ctx, &products); err != nil {
		return nil, err
	}
	return products, nil
}

