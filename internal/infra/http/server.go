package http

import (
	"context"
	"log"
	"net/http"
	"time"

	"soundcheck/internal/config"
	"soundcheck/internal/domain"
	"soundcheck/internal/infra/audio"
	cryptoinfra "soundcheck/internal/infra/crypto"
	"soundcheck/internal/infra/db"
	"soundcheck/internal/infra/policyopa"
	"soundcheck/internal/infra/ratelimit"
	"soundcheck/internal/usecase"

	"github.com/gin-gonic/gin"
)

type Server struct {
	cfg   config.Config
	store *db.Store
	r     *gin.Engine

	scorer   *usecase.Scorer
	verifyUC *usecase.VerifySubmission
	reports  usecase.ReportRepository

	adminAPIKey string

	rateLimiter         domain.RateLimiter
	rateLimitRequests   int
	rateLimitWindow     time.Duration
	rateLimitFailClosed bool
}

func NewServer(cfg config.Config, store *db.Store) (*Server, error) {
	r := gin.New()
	r.Use(gin.Recovery())

	s := &Server{cfg: cfg, store: store, r: r}
	if err := s.initDeps(); err != nil {
		return nil, err
	}
	s.routes()
	return s, nil
}

type ServerDeps struct {
	Scorer      *usecase.Scorer
	Verify      *usecase.VerifySubmission
	Reports     usecase.ReportRepository
	AdminAPIKey string
	RateLimiter domain.RateLimiter
}

func NewServerWithDeps(cfg config.Config, deps ServerDeps) *Server {
	r := gin.New()
	r.Use(gin.Recovery())

	s := &Server{
		cfg:         cfg,
		r:           r,
		scorer:      deps.Scorer,
		verifyUC:    deps.Verify,
		reports:     deps.Reports,
		adminAPIKey: deps.AdminAPIKey,
	}
	if s.scorer == nil && s.verifyUC != nil {
		s.scorer = s.verifyUC.Scorer
	}
	s.initRateLimit(deps.RateLimiter)
	s.routes()
	return s
}

func (s *Server) initDeps() error {
	s.adminAPIKey = s.cfg.AdminAPIKey

	scorer, err := usecase.NewScorer(
		usecase.Weights{
			Integrity: s.cfg.ScoreWeightIntegrity,
			Audio:     s.cfg.ScoreWeightAudio,
			Policy:    s.cfg.ScoreWeightPolicy,
		},
		usecase.Thresholds{
			AcceptMinOverall:   s.cfg.VerdictAcceptMinOverall,
			AcceptMaxRisk:      s.cfg.VerdictAcceptMaxRisk,
			RejectBelowOverall: s.cfg.VerdictRejectBelowOverall,
		},
	)
	if err != nil {
		return err
	}
	s.scorer = scorer

	var risk usecase.RiskEvaluator = policyopa.StaticEvaluator{Risk: s.cfg.StaticRisk}
	if s.cfg.PolicyBundlePath != "" {
		engine, err := policyopa.NewEngineFromBundlePath(context.Background(), s.cfg.PolicyBundlePath, s.cfg.PolicyBundleID)
		if err != nil {
			return err
		}
		risk = engine
	} else {
		log.Printf("POLICY_BUNDLE_PATH not set; using static risk evaluator (risk=%d).", s.cfg.StaticRisk)
	}

	if s.store != nil && s.store.DB != nil {
		s.reports = db.NewReportRepository(s.store.DB)
	}

	s.verifyUC = &usecase.VerifySubmission{
		Scorer:  scorer,
		Hasher:  cryptoinfra.Service{},
		Audio:   audio.Analyzer{},
		Risk:    risk,
		Reports: s.reports,
	}

	s.initRateLimit(nil)
	return nil
}

func (s *Server) initRateLimit(override domain.RateLimiter) {
	s.rateLimitRequests = s.cfg.RateLimitRequests
	s.rateLimitWindow = s.cfg.RateLimitWindow()
	s.rateLimitFailClosed = s.cfg.RateLimitFailClosed

	if override != nil {
		s.rateLimiter = override
		return
	}
	if s.rateLimitRequests <= 0 {
		return
	}
	if s.cfg.RedisAddr != "" {
		limiter, err := ratelimit.NewRedisLimiter(s.cfg.RedisAddr, s.cfg.RedisPassword, s.cfg.RedisDB, nil)
		if err == nil {
			s.rateLimiter = limiter
			return
		}
		log.Printf("redis rate limiter unavailable, falling back to memory: %v", err)
	}
	s.rateLimiter = ratelimit.NewMemoryLimiter(ratelimit.MemoryLimiterConfig{MaxKeys: s.cfg.RateLimitMaxKeys})
}

func (s *Server) routes() {
	s.r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := s.r.Group("/v1")
	{
		v1.POST("/score", s.handleScore)
		v1.POST("/submissions/verify", s.handleVerifySubmission)
		v1.GET("/reports/:identifier", s.handleGetReport)
		v1.GET("/reports", s.handleListReports)
	}
}

func (s *Server) Run() error {
	return s.r.Run(s.cfg.HTTPAddr)
}

func (s *Server) Handler() http.Handler {
	return s.r
}
