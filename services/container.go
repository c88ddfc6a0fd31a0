package services

import (
	"campusnest/config"
	"campusnest/services/logger"
	"campusnest/services/matching"
	"campusnest/services/notification"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Container holds every service the routes need.
type Container struct {
	Tokens    *TokenService
	Auth      *AuthService
	Users     *UserService
	Campuses  *CampusService
	Housings  *HousingService
	Reviews   *ReviewService
	Media     *MediaService
	Bookmarks *BookmarkService
	Reports   *ReportService
	Ratings   *RatingService
	Roommates *RoommateService
	Admin     *AdminService
	Logger    logger.Logger
}

// ContainerOptions lists the process-wide resources. Only Config and DB
// are required; the rest fall back to disabled or in-process versions.
type ContainerOptions struct {
	Config     *config.Config
	DB         *gorm.DB
	Redis      *redis.Client
	Cloudinary *cloudinary.Cloudinary
	Elastic    *elasticsearch.Client
	Notifier   notification.Service
	Mailer     Mailer
	Verifier   IDTokenVerifier
	Geocoder   Geocoder
	Logger     logger.Logger
}

func NewContainer(opts ContainerOptions) *Container {
	cfg := opts.Config
	log := opts.Logger
	if log == nil {
		log = logger.Nop{}
	}

	var cache SummaryCache
	if opts.Redis != nil {
		cache = NewRedisSummaryCache(opts.Redis, cfg.SummaryTTL, log)
	}
	var storage MediaStorage
	if opts.Cloudinary != nil {
		storage = NewCloudinaryStorage(opts.Cloudinary, cfg.CloudinaryFolder)
	}

	var index HousingIndex
	if opts.Elastic != nil {
		index = NewElasticHousingIndex(opts.Elastic, cfg.ElasticIndex)
	}

	mailer := opts.Mailer
	if mailer == nil {
		if cfg.SMTPHost != "" {
			mailer = NewSMTPMailer(SMTPMailerOptions{
				Host:     cfg.SMTPHost,
				Port:     cfg.SMTPPort,
				User:     cfg.SMTPUser,
				Password: cfg.SMTPPassword,
				From:     cfg.MailFrom,
			})
		} else {
			mailer = LogMailer{Logger: log}
		}
	}
	verifier := opts.Verifier
	if verifier == nil && cfg.GoogleClientID != "" {
		verifier = GoogleVerifier{ClientID: cfg.GoogleClientID}
	}
	geocoder := opts.Geocoder
	if geocoder == nil && cfg.MapboxToken != "" {
		geocoder = NewMapboxGeocoder(cfg.MapboxToken)
	}
	weights := cfg.RoommateWeights
	if weights == (matching.Weights{}) {
		weights = matching.DefaultWeights
	}

	tokens := NewTokenService(TokenServiceOptions{
		AccessSecret:  cfg.AccessSecret,
		RefreshSecret: cfg.RefreshSecret,
		AccessTTL:     cfg.AccessTTL,
		RefreshTTL:    cfg.RefreshTTL,
	})
	ratings := NewRatingService(RatingServiceOptions{DB: opts.DB, Cache: cache, Logger: log})
	bookmarks := NewBookmarkService(opts.DB)

	return &Container{
		Tokens: tokens,
		Auth: NewAuthService(AuthServiceOptions{
			DB:       opts.DB,
			Redis:    opts.Redis,
			Tokens:   tokens,
			Verifier: verifier,
			Logger:   log,
		}),
		Users:     NewUserService(UserServiceOptions{DB: opts.DB, Mailer: mailer, Logger: log, CodeTTL: cfg.CodeTTL}),
		Campuses:  NewCampusService(CampusServiceOptions{DB: opts.DB, Ratings: ratings, Storage: storage, Logger: log}),
		Housings:  NewHousingService(HousingServiceOptions{DB: opts.DB, Ratings: ratings, Geocoder: geocoder, Storage: storage, Index: index, Logger: log}),
		Reviews:   NewReviewService(ReviewServiceOptions{DB: opts.DB, Ratings: ratings, Storage: storage, Logger: log}),
		Media:     NewMediaService(MediaServiceOptions{DB: opts.DB, Storage: storage, Logger: log}),
		Bookmarks: bookmarks,
		Reports:   NewReportService(ReportServiceOptions{DB: opts.DB, Notifier: opts.Notifier, Logger: log}),
		Ratings:   ratings,
		Roommates: NewRoommateService(RoommateServiceOptions{DB: opts.DB, Bookmarks: bookmarks, Weights: weights, Logger: log}),
		Admin:     NewAdminService(opts.DB),
		Logger:    log,
	}
}
