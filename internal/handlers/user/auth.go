package user

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"ecom_back_end/internal/auth"
	"ecom_back_end/internal/cache"
	"ecom_back_end/internal/database"
	"ecom_back_end/internal/models"
	"ecom_back_end/internal/utils"
)

//
// 🟢 POST /api/users/register
//
func Register(c *gin.Context) {
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

	email := strings.ToLower(strings.TrimSpace(input.Email))

	// email déjà pris ?
	var existing models.User
	if err := database.Users().FindOne(ctx, bson.M{"email": email}).Decode(&existing); err == nil {
		c.JSON(http.StatusConflict, gin.H{"success": false, "message": "User is already exist with this email id"})
		return
	}

	hashed, err := utils.HashPassword(input.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal server error while creating user"})
		return
	}

	now := time.Now()
	user := models.User{
		Name:      strings.TrimSpace(input.Name),
		Email:     email,
		Password:  hashed,
		Role:      models.RoleUser,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := database.Users().InsertOne(ctx, user); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal server error while creating user"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "user is register"})
}

func validateRegistration(name, email, password, confirm string) []string {
	var errs []string
	if strings.TrimSpace(name) == "" {
		errs = append(errs, "Name is required")
	}
	if len(strings.TrimSpace(name)) > 24 {
		errs = append(errs, "Name cannot exceed 24 characters")
	}
	if !strings.Contains(email, "@") {
		errs = append(errs, "Invalid email address")
	}
	if len(password) < 6 {
		errs = append(errs, "Password must be at least 6 characters")
	}
	if password != confirm {
		errs = append(errs, "Passwords don't match")
	}
	return errs
}

//
// 🟢 POST /api/users/login
//
func Login(c *gin.Context) {
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request body"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var user models.User
	err := database.Users().
		FindOne(ctx, bson.M{"email": strings.ToLower(strings.TrimSpace(input.Email))}).
		Decode(&user)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "User does not exist"})
		return
	}

	ok, err := utils.VerifyPassword(input.Password, user.Password)
	if err != nil || !ok {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid password"})
		return
	}

	// Une session active bloque un second login — il faut d'abord logout
	if auth.SessionActive(ctx, user.ID.Hex()) {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "User is already login"})
		return
	}

	accessToken, err := auth.GenerateAccessToken(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal server error while login user"})
		return
	}
	refreshToken, err := auth.GenerateRefreshToken(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal server error while login user"})
		return
	}

	if err := auth.StartSession(ctx, user.ID.Hex(), refreshToken); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal server error while login user"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":      true,
		"message":      "User is login successfully",
		"accessToken":  accessToken,
		"refreshToken": refreshToken,
		"userDetails": gin.H{
			"id":    user.ID.Hex(),
			"name":  user.Name,
			"email": user.Email,
		},
	})
}

//
// 🔒 GET /api/users/logout
//
func Logout(c *gin.Context) {
	claims, found := auth.FromContext(c)
	if !found {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Auth token is required"})
		return
	}

	ctx := c.Request.Context()
	if err := auth.EndSession(ctx, claims.UserID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal server error while logout user"})
		return
	}
	cache.InvalidateUserCache(ctx, claims.UserID)

	// Les access tokens déjà émis restent valables jusqu'à expiration
	// naturelle — pas de blacklist, la TTL courte fait le travail.
	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "User is successfully logout"})
}

//
// 🔒 POST /api/users/forcedLogout  (admin/manager)
//
func ForcedLogout(c *gin.Context) {
	user, newToken, ok := auth.RequireSession(c)
	if !ok {
		return
	}
	if !auth.RequireRole(c, user, models.RoleAdmin, models.RoleManager) {
		return
	}

	var input struct {
		UserID string `json:"userId"`
	}
	if err := c.ShouldBindJSON(&input); err != nil || input.UserID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "User Id required!"})
		return
	}

	oid, err := primitive.ObjectIDFromHex(input.UserID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "User Id required!"})
		return
	}

	ctx := c.Request.Context()
	var target models.User
	if err := database.Users().FindOne(ctx, bson.M{"_id": oid}).Decode(&target); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "User not found"})
		return
	}

	if err := auth.EndSession(ctx, input.UserID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal server error while logout user"})
		return
	}
	cache.InvalidateUserCache(ctx, input.UserID)

	payload := gin.H{"success": true, "message": "User is successfully logout"}
	if newToken != "" {
		payload["accessToken"] = newToken
	}
	c.JSON(http.StatusCreated, payload)
}

//
// 🔒 POST /api/users/changePassword
//
func ChangePassword(c *gin.Context) {
	user, newToken, ok := auth.RequireSession(c)
	if !ok {
		return
	}

	var input struct {
		OldPassword     string `json:"oldPassword"`
		Password        string `json:"password"`
		ConfirmPassword string `json:"confirmPassword"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request body"})
		return
	}
	if len(input.Password) < 6 || input.Password != input.ConfirmPassword {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Validation error", "errors": []string{"Passwords don't match or too short"}})
		return
	}

	okPwd, err := utils.VerifyPassword(input.OldPassword, user.Password)
	if err != nil || !okPwd {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Old password not correct"})
		return
	}

	hashed, err := utils.HashPassword(input.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal server error while changing password"})
		return
	}

	ctx := c.Request.Context()
	_, err = database.Users().UpdateOne(ctx,
		bson.M{"_id": user.ID},
		bson.M{"$set": bson.M{"password": hashed, "updatedAt": time.Now()}})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal server error while changing password"})
		return
	}
	cache.InvalidateUserCache(ctx, user.ID.Hex())

	payload := gin.H{"success": true, "message": "Password change successfully"}
	if newToken != "" {
		payload["accessToken"] = newToken
	}
	c.JSON(http.StatusCreated, payload)
}

//
// 🔒 GET /api/users/getuser
//
func GetUser(c *gin.Context) {
	user, newToken, ok := auth.RequireSession(c)
	if !ok {
		return
	}

	payload := gin.H{"success": true, "user": user}
	if newToken != "" {
		payload["accessToken"] = newToken
	}
	c.JSON(http.StatusOK, payload)
}

// ignore l'erreur mongo.ErrNoDocuments dans les checks d'existence
func isNoDocuments(err error) bool {
	return err == mongo.ErrNoDocuments
}
