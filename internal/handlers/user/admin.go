package user

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"ecom_back_end/internal/auth"
	"ecom_back_end/internal/database"
	"ecom_back_end/internal/models"
	"ecom_back_end/internal/utils"
)

//
// 🟢 POST /api/users/admin/register — bootstrap unique, refuse dès qu'un
// admin existe en base
//
func CreateAdmin(c *gin.Context) {
	var input struct {
		Name            string `json:"name"`
		Email           string `json:"email"`
		Password        string `json:"password"`
		ConfirmPassword string `json:"confirmPassword"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request body"})
		return
	}
	if errs := validateRegistration(input.Name, input.Email, input.Password, input.ConfirmPassword); len(errs) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Validation error", "errors": errs})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var existingAdmin models.User
	if err := database.Users().FindOne(ctx, bson.M{"role": models.RoleAdmin}).Decode(&existingAdmin); !isNoDocuments(err) {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Already user register with admin role."})
		return
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))
	var existing models.User
	if err := database.Users().FindOne(ctx, bson.M{"email": email}).Decode(&existing); err == nil {
		c.JSON(http.StatusConflict, gin.H{"success": false, "message": "Already user register with this emailId."})
		return
	}

	hashed, err := utils.HashPassword(input.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal server error while creating admin"})
		return
	}

	now := time.Now()
	admin := models.User{
		Name:      strings.TrimSpace(input.Name),
		Email:     email,
		Password:  hashed,
		Role:      models.RoleAdmin,
		CreatedAt: now,
		UpdatedAt: now,
	}
	result, err := database.Users().InsertOne(ctx, admin)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal server error while creating admin"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "user is register", "userId": result.InsertedID})
}

//
// 🔒 POST /api/users/admin/register/manager — admin uniquement
//
func CreateManager(c *gin.Context) {
	user, newToken, ok := auth.RequireSession(c)
	if !ok {
		return
	}
	if !auth.RequireRole(c, user, models.RoleAdmin) {
		return
	}

	var input struct {
		Name            string `json:"name"`
		Email           string `json:"email"`
		Password        string `json:"password"`
		ConfirmPassword string `json:"confirmPassword"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request body"})
		return
	}
	if errs := validateRegistration(input.Name, input.Email, input.Password, input.ConfirmPassword); len(errs) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Validation error", "errors": errs})
		return
	}

	ctx := c.Request.Context()
	email := strings.ToLower(strings.TrimSpace(input.Email))

	var existing models.User
	if err := database.Users().FindOne(ctx, bson.M{"email": email}).Decode(&existing); err == nil {
		c.JSON(http.StatusConflict, gin.H{"success": false, "message": "Manager is already register in DB."})
		return
	}

	hashed, err := utils.HashPassword(input.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal server error while creating manager"})
		return
	}

	now := time.Now()
	manager := models.User{
		Name:      strings.TrimSpace(input.Name),
		Email:     email,
		Password:  hashed,
		Role:      models.RoleManager,
		CreatedAt: now,
		UpdatedAt: now,
	}
	result, err := database.Users().InsertOne(ctx, manager)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal server error while creating manager"})
		return
	}

	payload := gin.H{"success": true, "message": "manager is register on db", "userId": result.InsertedID}
	if newToken != "" {
		payload["accessToken"] = newToken
	}
	c.JSON(http.StatusCreated, payload)
}

//
// 🔒 GET /api/users/admin/getAlluser — admin/manager
//
func GetAllUsers(c *gin.Context) {
	user, newToken, ok := auth.RequireSession(c)
	if !ok {
		return
	}
	if !auth.RequireRole(c, user, models.RoleAdmin, models.RoleManager) {
		return
	}

	ctx := c.Request.Context()
	cursor, err := database.Users().Find(ctx, bson.M{"role": models.RoleUser})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "unable to get all user info."})
		return
	}

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "unable to get all user info."})
		return
	}

	payload := gin.H{"success": true, "alluser": users}
	if newToken != "" {
		payload["accessToken"] = newToken
	}
	c.JSON(http.StatusOK, payload)
}

//
// 🔒 GET /api/users/admin/getAlluserWithLimt — admin/manager, pagination +
// comptages par rôle + créations sur les 30 derniers jours
//
func GetAllUsersWithLimit(c *gin.Context) {
	user, newToken, ok := auth.RequireSession(c)
	if !ok {
		return
	}
	if !auth.RequireRole(c, user, models.RoleAdmin, models.RoleManager) {
		return
	}

	limit := utils.QueryInt(c, "limit", 10)
	skip := utils.QueryInt(c, "skip", 0)

	ctx := c.Request.Context()
	cursor, err := database.Users().Find(ctx, bson.M{})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "unable to get all user info."})
		return
	}
	var all []models.User
	if err := cursor.All(ctx, &all); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "unable to get all user info."})
		return
	}

	totalUser, totalAdmin, totalManager := 0, 0, 0
	usersAdded, managersAdded := 0, 0
	thirtyDaysAgo := time.Now().AddDate(0, 0, -30)
	for _, u := range all {
		switch u.Role {
		case models.RoleUser:
			totalUser++
			if u.CreatedAt.After(thirtyDaysAgo) {
				usersAdded++
			}
		case models.RoleAdmin:
			totalAdmin++
		case models.RoleManager:
			totalManager++
			if u.CreatedAt.After(thirtyDaysAgo) {
				managersAdded++
			}
		}
	}

	totalUsers := len(all)
	totalPages := (totalUsers + limit - 1) / limit
	currentPage := skip/limit + 1
	var nextPage, prevPage interface{}
	if currentPage < totalPages {
		nextPage = currentPage + 1
	}
	if currentPage > 1 {
		prevPage = currentPage - 1
	}

	findOpts := options.Find().SetLimit(int64(limit)).SetSkip(int64(skip))
	pageCursor, err := database.Users().Find(ctx, bson.M{}, findOpts)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "unable to get all user info."})
		return
	}
	var page []models.User
	if err := pageCursor.All(ctx, &page); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "unable to get all user info."})
		return
	}

	payload := gin.H{
		"success":      true,
		"allUsers":     page,
		"totalUsers":   totalUsers,
		"totalUser":    totalUser,
		"totalAdmin":   totalAdmin,
		"totalManager": totalManager,
		"lastThirtyDaysUserCount": gin.H{
			"usersAdded":   usersAdded,
			"managerAdded": managersAdded,
		},
		"totalPages":  totalPages,
		"currentPage": currentPage,
		"nextPage":    nextPage,
		"prevPage":    prevPage,
		"limit":       limit,
		"skip":        skip,
	}
	if newToken != "" {
		payload["accessToken"] = newToken
	}
	c.JSON(http.StatusOK, payload)
}

