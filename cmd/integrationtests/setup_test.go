package integrationtests

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	auction "auction-marketplace/internal/auctionService"
	"auction-marketplace/internal/auth"
	"auction-marketplace/internal/repository"
	"auction-marketplace/internal/server"
	user "auction-marketplace/internal/userService"

	"github.com/gin-gonic/gin"
)

// SetupTestRouter initializes the full router backed by the in-memory store
// for integration testing.
func SetupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	store := repository.NewMemoryStore()
	tokens := auth.NewTokenManager("integration-secret")
	auctionService := auction.NewAuctionService(store, 5)
	userService := user.NewUserService(store, tokens)
	return server.SetupRouter(auctionService, userService, tokens)
}

// ExecuteRequest executes an HTTP request with an optional bearer token and
// parses the response envelope.
func ExecuteRequest(t *testing.T, router *gin.Engine, method, url string, body any, token string) (map[string]any, *httptest.ResponseRecorder) {
	t.Helper()

	var reqBody []byte
	var err error

	switch v := body.(type) {
	case nil:
	case []byte:
		reqBody = v
	default:
		reqBody, err = json.Marshal(v)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
	}

	req := httptest.NewRequest(method, url, bytes.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", token))
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var resp map[string]any
	if len(w.Body.Bytes()) > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to unmarshal response: %v", err)
		}
	}

	return resp, w
}

// Signup registers a user through the API and returns its id and token.
func Signup(t *testing.T, router *gin.Engine, username string) (userID, token string) {
	t.Helper()

	resp, w := ExecuteRequest(t, router, http.MethodPost, "/auth/signup", map[string]any{
		"username": username,
		"password": "hunter22",
	}, "")
	if w.Code != http.StatusCreated {
		t.Fatalf("signup for %s failed with status %d: %v", username, w.Code, resp)
	}

	data := resp["data"].(map[string]any)
	return data["user_id"].(string), data["token"].(string)
}

// CreateAuction creates an auction through the API and returns its id.
func CreateAuction(t *testing.T, router *gin.Engine, token, itemName, endTime string, startingBid float64) string {
	t.Helper()

	resp, w := ExecuteRequest(t, router, http.MethodPost, "/auctions", map[string]any{
		"item_name":    itemName,
		"description":  "integration test item",
		"starting_bid": startingBid,
		"end_time":     endTime,
	}, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("create auction failed with status %d: %v", w.Code, resp)
	}

	data := resp["data"].(map[string]any)
	return data["auction_id"].(string)
}
