package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"study-backend/internal/account"
	"study-backend/internal/admin"
	"study-backend/internal/artifacts"
	"study-backend/internal/auth"
	"study-backend/internal/documents"
	"study-backend/internal/email"
	"study-backend/internal/llm"
	openai "study-backend/internal/llm/openai"
	"study-backend/internal/pipeline"
	"study-backend/internal/queue"
	"study-backend/internal/reviews"
	"study-backend/internal/shared/config"
	"study-backend/internal/shared/server"
	"study-backend/internal/shared/storage/db"
	"study-backend/internal/shared/storage/object"
	localstore "study-backend/internal/shared/storage/object/local"
	s3store "study-backend/internal/shared/storage/object/s3"
	"study-backend/internal/shared/telemetry"
	"study-backend/internal/studygen"
	"study-backend/internal/usage"
	"study-backend/internal/users"
	"study-backend/internal/youtube"
)

// App holds shared dependencies for the API and worker processes.
type App struct {
	Config config.Config
	Router *gin.Engine
	DB     *sql.DB
	Store  object.ObjectStore
	Queue  queue.Client

	UsersRepo     users.Repo
	DocumentsRepo documents.Repo
	ArtifactsRepo artifacts.Repo
	ReviewsRepo   reviews.Repo
	JobsRepo      pipeline.JobsRepo

	UsersService     *users.Service
	OAuth            *auth.Service
	DocumentsService *documents.Service
	UsageService     *usage.Service
	Pipeline         *pipeline.Service
	ReviewsService   *reviews.Service
	AccountService   *account.Service
	AdminService     *admin.Service
}

// Build prepares shared dependencies and wires routes.
func Build(cfg config.Config) (*App, error) {
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	queueClient, err := buildQueue(ctx)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config: cfg,
		DB:     sqlDB,
		Store:  store,
		Queue:  queueClient,
	}
	if err := buildServices(ctx, app); err != nil {
		return nil, err
	}

	app.Router = server.NewRouter(server.RouterDeps{
		Config:           cfg,
		UsersHandler:     users.NewHandler(app.UsersService),
		OAuth:            app.OAuth,
		DocumentsHandler: documents.NewHandler(app.DocumentsService),
		ArtifactsHandler: artifacts.NewHandler(app.ArtifactsRepo),
		ReviewsHandler:   reviews.NewHandler(app.ReviewsService),
		UsageHandler:     usage.NewHandler(app.UsageService, cfg.Env != "production"),
		AdminHandler:     admin.NewHandler(app.AdminService),
		AccountHandler:   account.NewHandler(app.AccountService),
	})

	// Documents stuck in processing from a previous crash fail fast
	// instead of spinning forever.
	if err := app.Pipeline.ReapOrphans(ctx); err != nil {
		telemetry.Warn("bootstrap.reap_orphans_failed", map[string]any{"error": err.Error()})
	}

	return app, nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: DATABASE_URL empty; using in-memory repositories")
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: database connect failed; using in-memory repositories: %v", err)
			return nil, nil
		}
		return nil, err
	}
	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		if strings.TrimSpace(cfg.AWSRegion) == "" || strings.TrimSpace(cfg.S3Bucket) == "" {
			return nil, fmt.Errorf("OBJECT_STORE=s3 requires AWS_REGION and S3_BUCKET")
		}
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func buildQueue(ctx context.Context) (queue.Client, error) {
	if strings.TrimSpace(os.Getenv("SB_SQS_QUEUE_URL")) == "" {
		return nil, nil
	}
	return queue.NewSQSClient(ctx)
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}

func buildServices(ctx context.Context, app *App) error {
	cfg := app.Config

	var (
		userRepo users.Repo
		docRepo  documents.Repo
		artRepo  artifacts.Repo
		revRepo  reviews.Repo
		jobsRepo pipeline.JobsRepo
		usageSvc *usage.Service
		adminSrc admin.Source
	)
	if app.DB != nil {
		userRepo = &users.PGRepo{DB: app.DB}
		docRepo = &documents.PGRepo{DB: app.DB}
		artRepo = &artifacts.PGRepo{DB: app.DB}
		revRepo = &reviews.PGRepo{DB: app.DB}
		jobsRepo = &pipeline.PGJobsRepo{DB: app.DB}
		usageSvc = usage.NewPostgresService(usage.NewPGStore(app.DB), cfg.DailyDocQuota)
		adminSrc = &admin.PGSource{DB: app.DB}
	} else {
		userMem := users.NewMemoryRepo()
		docMem := documents.NewMemoryRepo()
		artMem := artifacts.NewMemoryRepo()
		revMem := reviews.NewMemoryRepo()
		userRepo = userMem
		docRepo = docMem
		artRepo = artMem
		revRepo = revMem
		jobsRepo = pipeline.NewMemoryJobsRepo()
		usageSvc = usage.NewService(cfg.DailyDocQuota)
		adminSrc = &admin.MemorySource{Users: userMem, Documents: docMem, Artifacts: artMem, Reviews: revMem}
	}

	mailer, err := email.New(cfg)
	if err != nil {
		return err
	}

	llmClient := llm.Client(llm.PlaceholderClient{})
	if cfg.LLMProvider == "openai" && strings.TrimSpace(os.Getenv("OPENAI_API_KEY")) != "" {
		openaiClient, err := openai.NewClient(os.Getenv("OPENAI_API_KEY"), cfg.LLMModels)
		if err != nil {
			return err
		}
		if err := openaiClient.Init(ctx); err != nil {
			telemetry.Warn("bootstrap.llm_init_failed", map[string]any{"error": err.Error()})
		}
		llmClient = openaiClient
	} else {
		log.Printf("bootstrap: no LLM provider configured; generation will fail until one is set")
	}

	var publisher pipeline.Publisher
	if app.Queue != nil {
		publisher = queue.NewPublisher(app.Queue)
	}

	pipelineSvc := &pipeline.Service{
		Docs:      docRepo,
		Artifacts: artRepo,
		Jobs:      jobsRepo,
		Gen:       studygen.NewGenerator(llmClient, cfg.FlashcardCount, cfg.QuizCount),
		Store:     app.Store,
		Publisher: publisher,
		Timeout:   cfg.PipelineTimeout,
	}

	var videos documents.VideoResolver
	if client := youtube.NewClient(cfg.YouTubeAPIKey); client.Configured() {
		videos = client
	}

	docSvc := &documents.Service{
		Store:    app.Store,
		Repo:     docRepo,
		Queue:    pipelineSvc,
		Quota:    usageSvc,
		Purger:   artRepo,
		Videos:   videos,
		MaxVideo: time.Duration(cfg.MaxVideoMinutes) * time.Minute,
	}

	userSvc := users.NewService(userRepo, mailer, cfg.VerifyCodeTTL)

	var providers []*auth.Provider
	if cfg.GoogleClientID != "" && cfg.GoogleClientSecret != "" {
		providers = append(providers, auth.NewGoogleProvider(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURL))
	}
	if cfg.GithubClientID != "" && cfg.GithubClientSecret != "" {
		providers = append(providers, auth.NewGithubProvider(cfg.GithubClientID, cfg.GithubClientSecret, cfg.GithubRedirectURL))
	}

	app.UsersRepo = userRepo
	app.DocumentsRepo = docRepo
	app.ArtifactsRepo = artRepo
	app.ReviewsRepo = revRepo
	app.JobsRepo = jobsRepo
	app.UsersService = userSvc
	app.OAuth = auth.NewService(userSvc, cfg.UIRedirectURL, providers...)
	app.DocumentsService = docSvc
	app.UsageService = usageSvc
	app.Pipeline = pipelineSvc
	app.ReviewsService = reviews.NewService(revRepo, artRepo, docRepo)
	app.AccountService = account.NewService(docSvc, revRepo, userRepo)
	app.AdminService = admin.NewService(adminSrc)

	return nil
}
