package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/elastic/go-elasticsearch/v8/esapi"

	"ecom_back_end/internal/database"
	"ecom_back_end/internal/models"
)

const productIndex = "products"

//
// --- INDEXATION DANS ELASTICSEARCH ---
//

// IndexProduct indexe un produit MongoDB dans Elasticsearch. Best effort : la
// recherche est un confort, l'échec ne bloque pas la création du produit.
func IndexProduct(p models.Product) {
	if database.Elastic == nil {
		log.Println("⚠️ Elastic non initialisé, impossible d'indexer:", p.Title)
		return
	}

	data, _ := json.Marshal(p)
	req := esapi.IndexRequest{
		Index:      productIndex,
		DocumentID: p.ID.Hex(),
		Body:       bytes.NewReader(data),
		Refresh:    "true",
	}

	res, err := req.Do(context.Background(), database.Elastic)
	if err != nil {
		log.Println("❌ Erreur envoi Elastic:", err)
		return
	}
	defer res.Body.Close()

	if res.IsError() {
		log.Printf("⚠️ Elastic a renvoyé une erreur pour %s: %s", p.Title, res.String())
	}
}

// DeleteProductIndex retire un produit de l'index après suppression en base.
func DeleteProductIndex(productID string) {
	if database.Elastic == nil {
		return
	}

	req := esapi.DeleteRequest{Index: productIndex, DocumentID: productID}
	res, err := req.Do(context.Background(), database.Elastic)
	if err != nil {
		log.Println("❌ Erreur suppression index Elastic:", err)
		return
	}
	res.Body.Close()
}

//
// --- RECHERCHE DANS ELASTICSEARCH ---
//

// SearchProducts cherche des produits par titre, description ou marque.
func SearchProducts(ctx context.Context, query string) ([]map[string]interface{}, error) {
	if database.Elastic == nil {
		return nil, errors.New("client Elasticsearch non initialisé")
	}

	var buf bytes.Buffer
	q := map[string]interface{}{
		"query": map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  query,
				"fields": []string{"title", "description", "brand"},
			},
		},
	}
	if err := json.NewEncoder(&buf).Encode(q); err != nil {
		return nil, fmt.Errorf("erreur encodage requête: %v", err)
	}

	req := esapi.SearchRequest{
		Index: []string{productIndex},
		Body:  &buf,
	}
	res, err := req.Do(ctx, database.Elastic)
	if err != nil {
		return nil, fmt.Errorf("erreur requête Elastic: %v", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, errors.New("index non trouvé ou vide")
	}

	var r map[string]interface{}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return nil, fmt.Errorf("erreur décodage JSON: %v", err)
	}

	hitsData, ok := r["hits"].(map[string]interface{})
	if !ok {
		return nil, errors.New("réponse Elastic invalide (pas de hits)")
	}
	hitsArray, ok := hitsData["hits"].([]interface{})
	if !ok {
		return []map[string]interface{}{}, nil
	}

	results := make([]map[string]interface{}, 0, len(hitsArray))
	for _, hit := range hitsArray {
		hitMap, _ := hit.(map[string]interface{})
		if source, ok := hitMap["_source"].(map[string]interface{}); ok {
			results = append(results, source)
		}
	}

	return results, nil
}
