package cart

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"ecom_back_end/internal/auth"
	"ecom_back_end/internal/database"
	"ecom_back_end/internal/models"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// Autoriser toutes les origines (à ajuster en production)
		return true
	},
}

// CartWebSocket gère la synchronisation temps réel du panier : chaque
// mutation publie sur le canal Redis du user, chaque client connecté reçoit
// l'état complet recalculé.
func CartWebSocket(c *gin.Context) {
	claims, found := auth.FromContext(c)
	if !found {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Auth token is required"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("❌ Erreur upgrade WebSocket: %v", err)
		return
	}
	defer conn.Close()

	ctx := context.Background()

	pubsub := database.Redis.Subscribe(ctx, "cart:"+claims.UserID)
	defer pubsub.Close()
	ch := pubsub.Channel()

	conn.WriteJSON(map[string]interface{}{
		"type":    "connected",
		"message": "Synchronisation panier activée",
	})

	userOID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return
	}

	for {
		select {
		case msg := <-ch:
			if msg.Payload != "updated" && msg.Payload != "cleared" {
				continue
			}
			if err := conn.WriteJSON(cartSnapshot(ctx, userOID)); err != nil {
				log.Printf("❌ Erreur envoi WebSocket: %v", err)
				return
			}
		case <-time.After(30 * time.Second):
			// Ping pour garder la connexion active
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// cartSnapshot relit le panier persisté et renvoie l'état que le front
// affiche tel quel.
func cartSnapshot(ctx context.Context, userID primitive.ObjectID) map[string]interface{} {
	var cart models.Cart
	err := database.Carts().FindOne(ctx, bson.M{"user": userID}).Decode(&cart)
	if err != nil || len(cart.Items) == 0 {
		return map[string]interface{}{
			"type":  "cart_updated",
			"items": []interface{}{},
			"total": 0,
			"count": 0,
		}
	}

	return map[string]interface{}{
		"type":  "cart_updated",
		"items": cart.Items,
		"total": cart.TotalAmount,
		"count": cart.TotalItems,
	}
}
