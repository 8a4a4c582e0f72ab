package server

import (
	auction "auction-marketplace/internal/auctionService"
	"auction-marketplace/internal/auth"
	user "auction-marketplace/internal/userService"
	auctionhandler "auction-marketplace/services/auction/handler"
	userhandler "auction-marketplace/services/user/handler"

	"github.com/gin-gonic/gin"
)

// SetupRouter configures all Gin routes for the application
func SetupRouter(auctionService *auction.AuctionService, userService *user.UserService, tokens *auth.TokenManager) *gin.Engine {
	router := gin.New() // New router without default middleware for full control over middleware and logging

	router.Use(gin.Recovery())          // recover from panics
	router.Use(RequestLoggerMiddleware) // custom request logging

	auctionHandler := auctionhandler.NewAuctionHandler(auctionService, userService)
	userHandler := userhandler.NewUserHandler(userService)

	authRoutes := router.Group("/auth")
	{
		authRoutes.POST("/signup", userHandler.SignupHandler)
		authRoutes.POST("/signin", userHandler.SigninHandler)
	}

	auctions := router.Group("/auctions")
	{
		auctions.GET("", auctionHandler.ListAuctionsHandler)
		auctions.GET("/:auction_id", auctionHandler.GetAuctionHandler)

		authed := auctions.Group("")
		authed.Use(AuthMiddleware(tokens))
		{
			authed.POST("", auctionHandler.CreateAuctionHandler)
			authed.POST("/:auction_id/bid", auctionHandler.PlaceBidHandler)
			authed.GET("/user/auctions", auctionHandler.ListOwnAuctionsHandler)
			authed.GET("/user/bids", auctionHandler.ListOwnBidsHandler)
		}
	}

	return router
}
