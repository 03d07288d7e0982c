package main

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"pincode-distance/algo"
	"pincode-distance/config"
	"pincode-distance/db"
	"pincode-distance/handler"
	"pincode-distance/logger"
	"pincode-distance/metrics"
	"pincode-distance/model"
	"pincode-distance/service"
	"pincode-distance/utils"
)

func main() {
	// 1. 读取配置并初始化日志
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("读取配置失败")
	}
	logger.Init(cfg.LogLevel, cfg.LogFormat)

	// 2. 初始化 PostgreSQL (运维账号；REGION_SOURCE=postgres 时也存放邮编区域)
	conn, err := db.InitDB(cfg.PostgresDSN())
	if err != nil {
		log.Fatal().Err(err).Msg("初始化数据库失败")
	}

	users := db.NewUserStore(conn)
	if cfg.AdminPassword != "" {
		ensureAdmin(users, cfg.AdminUsername, cfg.AdminPassword)
	}

	// 3. 选择邮编区域数据源；每次计算都会重新全量读取
	source := newRegionSource(cfg, conn)
	svc := service.New(source)

	// 首次运行时导入种子数据
	if pg, ok := source.(*db.PostgresSource); ok && cfg.SeedFile != "" {
		seedRegions(pg, svc, cfg.SeedFile)
	}

	// 4. 初始化 Gin 引擎
	gin.SetMode(cfg.GinMode)
	r := gin.New()
	r.Use(gin.Recovery(), logger.GinLogger())

	// 5. 配置路由
	setupRoutes(r,
		handler.NewRegionHandler(svc),
		handler.NewAuthHandler(users, cfg.JWTSecret),
	)

	// 6. 启动服务器
	log.Info().Str("addr", cfg.HTTPAddr).Str("region_source", cfg.RegionSource).Msg("服务器启动中")
	if err := r.Run(cfg.HTTPAddr); err != nil {
		log.Fatal().Err(err).Msg("服务器启动失败")
	}
}

func newRegionSource(cfg *config.Config, conn *gorm.DB) algo.RegionSource {
	if cfg.RegionSource == config.SourcePostgres {
		return db.NewPostgresSource(conn)
	}
	return db.NewMongoSource(cfg.MongoURI, cfg.MongoDatabase, cfg.MongoCollection)
}

// ensureAdmin 首个运维账号来自环境变量，其余账号由已登录的运维创建
func ensureAdmin(users *db.UserStore, username, password string) {
	ctx := context.Background()
	if _, err := users.FindByUsername(ctx, username); err == nil {
		return
	} else if !errors.Is(err, db.ErrUserNotFound) {
		log.Warn().Err(err).Msg("查询管理员账号失败")
		return
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		log.Warn().Err(err).Msg("管理员密码加密失败")
		return
	}
	if err := users.Create(ctx, &model.User{Username: username, Password: hash}); err != nil && !errors.Is(err, db.ErrUserExists) {
		log.Warn().Err(err).Msg("创建管理员账号失败")
		return
	}
	log.Info().Str("username", username).Msg("已创建管理员账号")
}

// seedRegions 表为空时从 GeoJSON 文件导入邮编区域
func seedRegions(pg *db.PostgresSource, svc *service.DistanceService, path string) {
	ctx := context.Background()

	n, err := pg.Count(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("无法统计邮编区域，跳过种子数据导入")
		return
	}
	if n > 0 {
		return
	}

	log.Info().Str("file", path).Msg("检测到邮编区域表为空，正在导入种子数据...")
	records, err := db.ReadFeatureCollectionFile(path)
	if err != nil {
		log.Warn().Err(err).Msg("导入种子数据失败")
		return
	}
	if _, err := svc.Import(ctx, records); err != nil {
		log.Warn().Err(err).Msg("导入种子数据失败")
	}
}

// setupRoutes 配置路由
func setupRoutes(r *gin.Engine, regions *handler.RegionHandler, auth *handler.AuthHandler) {
	// 静态文件服务 - 提供前端页面
	r.Static("/static", "./static")

	// 健康检查
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
			"status":  "ok",
		})
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	// 根路径重定向到前端页面
	r.GET("/", func(c *gin.Context) {
		c.Redirect(302, "/static/index.html")
	})

	api := r.Group("/api")
	{
		api.POST("/login", auth.Login)

		api.GET("/distance", regions.CalculateDistance)
		api.POST("/distance", regions.CalculateDistance)
		api.GET("/pincodes/:code", regions.GetPincode)
		api.GET("/pincodes/:code/nearby", regions.NearbyPincodes)

		admin := api.Group("/admin", auth.AuthMiddleware())
		admin.POST("/register", auth.Register)
		admin.POST("/regions", regions.ImportRegions)
	}
}
