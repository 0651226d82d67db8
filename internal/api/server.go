package api

import (
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	v1 "github.com/Shreevatsags/ecommerce-platform/internal/api/handler/v1"
	"github.com/Shreevatsags/ecommerce-platform/internal/api/middleware"
	"github.com/Shreevatsags/ecommerce-platform/internal/config"
	"github.com/Shreevatsags/ecommerce-platform/internal/repository"
	"github.com/Shreevatsags/ecommerce-platform/internal/repository/dao"
	"github.com/Shreevatsags/ecommerce-platform/internal/repository/holdstore"
	"github.com/Shreevatsags/ecommerce-platform/internal/service"
)

type Server struct {
	Config *config.AppConfig
	Router *gin.Engine
}

func NewServer(conf *config.AppConfig, db *gorm.DB, cache *redis.Client) *Server {
	gin.SetMode(conf.Gin.Mode)
	engine := gin.New()

	s := &Server{
		Config: conf,
		Router: engine,
	}

	s.MountMiddlewares()

	inventoryHandler := s.initInventoryHandler(db, cache)
	s.MountHandlers(inventoryHandler)

	return s
}

func (s *Server) initInventoryHandler(db *gorm.DB, cache *redis.Client) *v1.InventoryHandler {
	stockDAO := dao.NewStockDAO(db)
	stockRepo := repository.NewStockRepository(stockDAO)
	holds := holdstore.NewRedisStore(cache)

	ttl := time.Duration(s.Config.Inventory.ReservationTTLSeconds) * time.Second
	svc := service.NewInventoryService(stockRepo, holds, ttl)
	monitor := service.NewLowStockMonitor(svc, s.Config.Inventory.LowStockThreshold)

	return v1.NewInventoryHandler(svc, monitor)
}

func (s *Server) MountMiddlewares() {
	// Logger and Recovery are needed unless we use gin.Default().
	s.Router.Use(gin.Logger())
	s.Router.Use(gin.Recovery())
	s.Router.Use(requestid.New())
	s.Router.Use(middleware.ConfigCORS(s.Config.API.AllowedCORSDomains))
}

func (s *Server) MountHandlers(inventoryHandler *v1.InventoryHandler) {
	const basePath = "/api/v1"

	inventory := s.Router.Group(basePath, middleware.NewAuthenticator(s.Config.API.JWTSigningKey).VerifyJWT())
	{
		inventory.POST("/inventory/init", inventoryHandler.HandleInitializeStock)
		inventory.GET("/inventory/stock/:productID", inventoryHandler.HandleGetStock)
		inventory.POST("/inventory/reserve", inventoryHandler.HandleReserveStock)
		inventory.POST("/inventory/confirm", inventoryHandler.HandleConfirmReservation)
		inventory.DELETE("/inventory/reserve/:productID", inventoryHandler.HandleCancelReservation)
		inventory.POST("/inventory/stock/:productID/add", inventoryHandler.HandleAddStock)
		inventory.GET("/inventory/stock/:productID/low-stock", inventoryHandler.HandleCheckLowStock)
	}

	s.Router.GET("/", v1.HandleHealthcheck)
}
