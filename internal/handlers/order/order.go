package order

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"ecom_back_end/internal/auth"
	"ecom_back_end/internal/cache"
	"ecom_back_end/internal/database"
	"ecom_back_end/internal/models"
	"ecom_back_end/internal/pricing"
	"ecom_back_end/internal/utils"
)

// NewTrackingID génère un identifiant de suivi public "ORD-<uuid v4>".
func NewTrackingID() string {
	return "ORD-" + uuid.NewString()
}

// ValidTrackingID vérifie la forme d'un identifiant de suivi AVANT toute
// requête en base : préfixe ORD et nibble de version v4 à sa place.
func ValidTrackingID(id string) bool {
	parts := strings.Split(id, "-")
	if len(parts) != 6 || parts[0] != "ORD" {
		return false
	}
	if len(parts[1]) != 8 || len(parts[2]) != 4 || len(parts[3]) != 4 ||
		len(parts[4]) != 4 || len(parts[5]) != 12 {
		return false
	}
	return parts[3][0] == '4'
}

//
// 🔒 POST /api/orders/placeOrder
//
// Le stock est décrémenté par un $inc conditionnel AVANT l'insertion de la
// commande : deux achats concurrents de la dernière unité ne peuvent pas
// réussir tous les deux.
//
func PlaceOrder(c *gin.Context) {
	user, newToken, ok := auth.RequireSession(c)
	if !ok {
		return
	}

	var input struct {
		ProductID string `json:"productId"`
		Quantity  int    `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&input); err != nil || input.Quantity <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Validation error", "errors": []string{"quantity must be greater than 0"}})
		return
	}

	productOID, err := primitive.ObjectIDFromHex(input.ProductID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Validation error", "errors": []string{"Invalid product id"}})
		return
	}

	ctx := c.Request.Context()

	var product models.Product
	if err := database.Products().FindOne(ctx, bson.M{"_id": productOID}).Decode(&product); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Product not found"})
		return
	}

	// Décrément conditionnel : échoue si le stock ne couvre plus la demande
	filter := bson.M{"_id": productOID, "totalStock": bson.M{"$gte": input.Quantity}}
	result, err := database.Products().UpdateOne(ctx, filter,
		bson.M{"$inc": bson.M{"totalStock": -input.Quantity}})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal server error while placing order"})
		return
	}
	if result.MatchedCount == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Not enough stock available"})
		return
	}
	cache.InvalidateProductCache(ctx, input.ProductID)

	now := time.Now()
	order := models.Order{
		ID: primitive.NewObjectID(),
		ProductDetail: models.ProductDetail{
			Name:      product.Title,
			Price:     product.Price,
			ImageURL:  product.Image,
			ProductID: product.ID.Hex(),
			Currency:  product.Currency,
		},
		UserDetails: models.UserDetail{
			UserName:  user.Name,
			UserEmail: user.Email,
		},
		User:         user.ID,
		Quantity:     input.Quantity,
		TotalPrice:   pricing.OrderTotal(product, input.Quantity),
		TrackingID:   NewTrackingID(),
		OrderStatus:  models.OrderProcessed,
		OrderPlaceOn: now,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if _, err := database.Orders().InsertOne(ctx, order); err != nil {
		// le stock réservé est rendu, la commande n'existe pas
		database.Products().UpdateOne(ctx, bson.M{"_id": productOID},
			bson.M{"$inc": bson.M{"totalStock": input.Quantity}})
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal server error while placing order"})
		return
	}

	// confirmation par mail, best effort, hors du chemin de réponse
	go utils.SendOrderConfirmationEmail(order)

	payload := gin.H{"success": true, "message": "Order placed successfully", "order": order}
	if newToken != "" {
		payload["accessToken"] = newToken
	}
	c.JSON(http.StatusCreated, payload)
}

//
// 🔒 POST /api/orders/updateOrderStatus — admin/manager
//
func UpdateOrderStatus(c *gin.Context) {
	user, newToken, ok := auth.RequireSession(c)
	if !ok {
		return
	}
	if !auth.RequireRole(c, user, models.RoleAdmin, models.RoleManager) {
		return
	}

	var input struct {
		TrackingID  string `json:"trackingId"`
		OrderStatus string `json:"orderStatus"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request body"})
		return
	}
	if !ValidTrackingID(input.TrackingID) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid tracking id"})
		return
	}
	if !models.ValidOrderStatus(input.OrderStatus) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid order status"})
		return
	}

	ctx := c.Request.Context()
	result, err := database.Orders().UpdateOne(ctx,
		bson.M{"trackingId": input.TrackingID},
		bson.M{"$set": bson.M{"orderStatus": input.OrderStatus, "updatedAt": time.Now()}})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal server error while updating order"})
		return
	}
	if result.MatchedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Order not found"})
		return
	}

	payload := gin.H{"success": true, "message": "Order status update successfully"}
	if newToken != "" {
		payload["accessToken"] = newToken
	}
	c.JSON(http.StatusOK, payload)
}

//
// 🔒 GET /api/orders/getAllOrder — admin/manager
//
func GetAllOrder(c *gin.Context) {
	user, newToken, ok := auth.RequireSession(c)
	if !ok {
		return
	}
	if !auth.RequireRole(c, user, models.RoleAdmin, models.RoleManager) {
		return
	}

	orders, err := fetchOrders(c, bson.M{})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "unable to get all orders."})
		return
	}

	payload := gin.H{"success": true, "orders": orders}
	if newToken != "" {
		payload["accessToken"] = newToken
	}
	c.JSON(http.StatusOK, payload)
}

//
// 🔒 GET /api/orders/getAllOrderByLimitAndSkip — tableau de bord admin :
// page de commandes + agrégats (CA total, comptage par statut, tops produits)
//
func GetAllOrderByLimitAndSkip(c *gin.Context) {
	user, newToken, ok := auth.RequireSession(c)
	if !ok {
		return
	}
	if !auth.RequireRole(c, user, models.RoleAdmin, models.RoleManager) {
		return
	}

	limit := utils.QueryInt(c, "limit", 10)
	skip := utils.QueryInt(c, "skip", 0)

	all, err := fetchOrders(c, bson.M{})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "unable to get all orders."})
		return
	}

	ctx := c.Request.Context()
	findOpts := options.Find().
		SetLimit(int64(limit)).
		SetSkip(int64(skip)).
		SetSort(bson.M{"orderPlaceOn": -1})
	cursor, err := database.Orders().Find(ctx, bson.M{}, findOpts)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "unable to get all orders."})
		return
	}
	var page []models.Order
	if err := cursor.All(ctx, &page); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "unable to get all orders."})
		return
	}

	records := SaleRecords(all)
	totalOrders := len(all)
	totalPages := (totalOrders + limit - 1) / limit
	currentPage := skip/limit + 1
	var nextPage, prevPage interface{}
	if currentPage < totalPages {
		nextPage = currentPage + 1
	}
	if currentPage > 1 {
		prevPage = currentPage - 1
	}

	payload := gin.H{
		"success":                true,
		"orders":                 page,
		"totalOrders":            totalOrders,
		"totalSales":             TotalSales(all),
		"orderStatusCount":       StatusCounts(all),
		"mostBoughtProducts":     MostBought(records, 5),
		"leastBoughtProducts":    LeastBought(records, 5),
		"mostExpensiveProducts":  MostExpensive(records, 5),
		"leastExpensiveProducts": LeastExpensive(records, 5),
		"past30DaysOrders":       Past30DaysOrders(all, time.Now()),
		"totalPages":             totalPages,
		"currentPage":            currentPage,
		"nextPage":               nextPage,
		"prevPage":               prevPage,
		"limit":                  limit,
		"skip":                   skip,
	}
	if newToken != "" {
		payload["accessToken"] = newToken
	}
	c.JSON(http.StatusOK, payload)
}

//
// 🔒 POST /api/orders/getGraphData?year=YYYY — admin/manager
//
func GetGraphData(c *gin.Context) {
	user, newToken, ok := auth.RequireSession(c)
	if !ok {
		return
	}
	if !auth.RequireRole(c, user, models.RoleAdmin, models.RoleManager) {
		return
	}

	year, err := strconv.Atoi(c.Query("year"))
	if err != nil {
		year = time.Now().Year()
	}

	orders, err := fetchOrders(c, bson.M{})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "unable to get graph data."})
		return
	}

	payload := gin.H{"success": true, "year": year, "graphData": MonthlyGraph(orders, year)}
	if newToken != "" {
		payload["accessToken"] = newToken
	}
	c.JSON(http.StatusOK, payload)
}

//
// 🔒 GET /api/orders/getOrder — commandes du user connecté
//
func GetOrderByUser(c *gin.Context) {
	user, newToken, ok := auth.RequireSession(c)
	if !ok {
		return
	}

	orders, err := fetchOrders(c, bson.M{"user": user.ID})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "unable to get orders."})
		return
	}

	payload := gin.H{"success": true, "orders": orders}
	if newToken != "" {
		payload["accessToken"] = newToken
	}
	c.JSON(http.StatusOK, payload)
}

//
// 🔒 POST /api/orders/getOrderByUserEmail/:customerEmail — admin/manager
//
func GetOrderByUserEmail(c *gin.Context) {
	user, newToken, ok := auth.RequireSession(c)
	if !ok {
		return
	}
	if !auth.RequireRole(c, user, models.RoleAdmin, models.RoleManager) {
		return
	}

	email := strings.ToLower(strings.TrimSpace(c.Param("customerEmail")))
	orders, err := fetchOrders(c, bson.M{"userDetails.userEmail": email})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "unable to get orders."})
		return
	}

	payload := gin.H{"success": true, "orders": orders}
	if newToken != "" {
		payload["accessToken"] = newToken
	}
	c.JSON(http.StatusOK, payload)
}

//
// 🟢 GET /api/orders/:orderId — suivi public par tracking id, la forme est
// validée avant de toucher la base
//
func GetSingleOrder(c *gin.Context) {
	trackingID := c.Param("orderId")
	if !ValidTrackingID(trackingID) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid tracking id"})
		return
	}

	ctx := c.Request.Context()
	var order models.Order
	if err := database.Orders().FindOne(ctx, bson.M{"trackingId": trackingID}).Decode(&order); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Order not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "order": order})
}

func fetchOrders(c *gin.Context, filter bson.M) ([]models.Order, error) {
	ctx := c.Request.Context()
	cursor, err := database.Orders().Find(ctx, filter,
		options.Find().SetSort(bson.M{"orderPlaceOn": -1}))
	if err != nil {
		return nil, err
	}
	var orders []models.Order
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

