package http

import (
	"context"
	"time"

	"docflow/internal/config"
	"docflow/internal/domain"
	"docflow/internal/infra/auth"
	"docflow/internal/infra/db"
	"docflow/internal/infra/policy"
	"docflow/internal/infra/ratelimit"
	"docflow/internal/infra/storage"
	"docflow/internal/infra/token"
	"docflow/internal/usecase"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Server struct {
	cfg config.Config
	r   *gin.Engine
	log *zap.Logger

	issueUC      *usecase.IssueCapability
	validateUC   *usecase.ValidateCapability
	submitUC     *usecase.SubmitSignature
	slotStatusUC *usecase.SlotStatusQuery
	completion   *usecase.CompletionTracker

	documents usecase.DocumentRepository
	blobs     usecase.BlobStore
	dbMode    bool

	authenticator domain.Authenticator
	authInitErr   error

	rateLimiter         domain.RateLimiter
	rateLimitRequests   int
	rateLimitWindow     time.Duration
	rateLimitFailClosed bool
}

func NewServer(cfg config.Config, store *db.Store, log *zap.Logger) (*Server, error) {
	s := newBareServer(cfg, log)
	if err := s.initDeps(store); err != nil {
		return nil, err
	}
	s.routes()
	return s, nil
}

type ServerDeps struct {
	Issue         *usecase.IssueCapability
	Validate      *usecase.ValidateCapability
	Submit        *usecase.SubmitSignature
	SlotStatus    *usecase.SlotStatusQuery
	Completion    *usecase.CompletionTracker
	Documents     usecase.DocumentRepository
	Blobs         usecase.BlobStore
	Authenticator domain.Authenticator
	RateLimiter   domain.RateLimiter
}

func NewServerWithDeps(cfg config.Config, deps ServerDeps) *Server {
	s := newBareServer(cfg, zap.NewNop())
	s.issueUC = deps.Issue
	s.validateUC = deps.Validate
	s.submitUC = deps.Submit
	s.slotStatusUC = deps.SlotStatus
	s.completion = deps.Completion
	s.documents = deps.Documents
	s.blobs = deps.Blobs
	s.authenticator = deps.Authenticator
	s.initRateLimit(deps.RateLimiter)
	s.routes()
	return s
}

func newBareServer(cfg config.Config, log *zap.Logger) *Server {
	r := gin.New()
	r.Use(gin.Recovery())
	if log == nil {
		log = zap.NewNop()
	}
	s := &Server{cfg: cfg, r: r, log: log}
	r.Use(s.requestLogger())
	return s
}

func (s *Server) initDeps(store *db.Store) error {
	gdb := store.DB
	s.dbMode = gdb != nil

	documents := db.NewDocumentRepository(gdb)
	templates := db.NewTemplateRepository(gdb)
	signatures := db.NewSignatureRepository(gdb)
	groups := db.NewGroupRepository(gdb)
	users := db.NewUserRepository(gdb)
	ledger := db.NewTokenRepository(gdb)

	tokens, err := token.NewService([]byte(s.cfg.SigningSecret), s.cfg.TokenTTL())
	if err != nil {
		return err
	}
	authenticator, err := auth.NewSessionAuthenticator([]byte(s.cfg.SessionSecret))
	if err != nil {
		s.authInitErr = err
	} else {
		s.authenticator = authenticator
	}

	var signerPolicy domain.SignerPolicy
	ctx := context.Background()
	if s.cfg.SigningPolicyDir != "" {
		signerPolicy, err = policy.NewEngineFromDir(ctx, s.cfg.SigningPolicyDir)
	} else {
		signerPolicy, err = policy.NewEngine(ctx)
	}
	if err != nil {
		return err
	}

	var blobs usecase.BlobStore
	if s.cfg.StorageBaseURL != "" {
		client, err := storage.New(s.cfg.StorageBaseURL, s.cfg.StorageTimeout())
		if err != nil {
			return err
		}
		blobs = client
	}

	completion := &usecase.CompletionTracker{
		Documents:  documents,
		Templates:  templates,
		Signatures: signatures,
	}
	s.issueUC = &usecase.IssueCapability{
		Documents:     documents,
		Templates:     templates,
		Signatures:    signatures,
		Groups:        groups,
		Users:         users,
		Policy:        signerPolicy,
		Tokens:        tokens,
		Ledger:        ledger,
		PublicBaseURL: s.cfg.PublicBaseURL,
	}
	s.validateUC = &usecase.ValidateCapability{Tokens: tokens, Ledger: ledger}
	s.submitUC = &usecase.SubmitSignature{
		Tokens:     tokens,
		Signatures: signatures,
		Blobs:      blobs,
		Completion: completion,
		Log:        s.log,
	}
	s.slotStatusUC = &usecase.SlotStatusQuery{Documents: documents, Signatures: signatures}
	s.completion = completion
	s.documents = documents
	s.blobs = blobs

	s.initRateLimit(nil)
	return nil
}

func (s *Server) initRateLimit(override domain.RateLimiter) {
	if override != nil {
		s.rateLimiter = override
	}
	if s.rateLimiter == nil && s.cfg.RateLimitRequests > 0 {
		if s.cfg.RedisAddr != "" {
			if limiter, err := ratelimit.NewRedisLimiter(s.cfg.RedisAddr, s.cfg.RedisPassword, s.cfg.RedisDB, nil); err == nil {
				s.rateLimiter = limiter
			}
		}
		if s.rateLimiter == nil {
			s.rateLimiter = ratelimit.NewMemoryLimiter(s.cfg.RateLimitMaxKeys, nil)
		}
	}
	s.rateLimitRequests = s.cfg.RateLimitRequests
	if s.cfg.RateLimitWindowSeconds > 0 {
		s.rateLimitWindow = time.Duration(s.cfg.RateLimitWindowSeconds) * time.Second
	}
	s.rateLimitFailClosed = s.cfg.RateLimitFailClosed
}

func (s *Server) routes() {
	s.r.GET("/healthz", s.handleHealthz)

	api := s.r.Group("/api")
	{
		api.GET("/signatures/capability", s.handleCapability)
		api.GET("/signatures/validate-token", s.handleValidateToken)
		api.POST("/signatures/upload", s.handleUpload)
		api.GET("/documents/:document_id/signature-status/:slot_name", s.handleSlotStatus)
		api.GET("/documents/:document_id/status", s.handleDocumentStatus)
		api.GET("/documents/:document_id/file", s.handleDocumentFile)
	}
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}

func (s *Server) Run() error {
	if s.authInitErr != nil {
		return s.authInitErr
	}
	return s.r.Run(s.cfg.HTTPAddr)
}
