package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	_ "agm-voting/docs"
	"agm-voting/internal/config"
	"agm-voting/internal/domain/meeting"
	"agm-voting/internal/domain/operator"
	"agm-voting/internal/domain/resolution"
	"agm-voting/internal/domain/shareholder"
	"agm-voting/internal/domain/tally"
	"agm-voting/internal/domain/vote"
	api "agm-voting/internal/http"
	"agm-voting/internal/metrics"
	"agm-voting/internal/platform/database"
	jwtpkg "agm-voting/internal/platform/jwt"
	"agm-voting/internal/repository/postgres"
	"agm-voting/internal/worker"
)

// @title           AGM Voting API
// @version         1.0
// @description     Shareholder meeting voting service with JWT auth
// @BasePath        /api/v1
// @securityDefinitions.apikey BearerAuth
// @in              header
// @name            Authorization
func main() {
	cfg := config.Load()

	db, err := database.NewPostgres(cfg.DB_DSN)
	if err != nil {
		log.Fatalf("db connect error: %v", err)
	}
	defer db.Close()

	operatorRepo := postgres.NewOperatorRepo(db)
	meetingRepo := postgres.NewMeetingRepo(db)
	shareholderRepo := postgres.NewShareholderRepo(db)
	resolutionRepo := postgres.NewResolutionRepo(db)
	voteRepo := postgres.NewVoteRepo(db)
	reconcileStore := postgres.NewReconcileStore(db)

	operatorSvc := operator.NewService(operatorRepo)
	meetingSvc := meeting.NewService(meetingRepo)
	shareholderSvc := shareholder.NewService(shareholderRepo)
	resolutionSvc := resolution.NewService(resolutionRepo)
	voteSvc := vote.NewService(voteRepo, voteRepo)

	engine := tally.NewEngine(tally.Config{ExcludeAbstain: cfg.TallyExcludeAbstain})
	jwtMgr := jwtpkg.NewManager(cfg.JWTSecret, "")

	metrics.Register()

	voteCh := make(chan worker.VoteEvent, 100)
	reconcileWorker := worker.NewReconcileWorker(voteCh, resolutionRepo, voteRepo, reconcileStore, engine)

	router := api.NewRouter(operatorSvc, meetingSvc, shareholderSvc, resolutionSvc, voteSvc, engine, jwtMgr, voteCh, db)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go reconcileWorker.Run(ctx)

	go func() {
		log.Printf("server listening on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen error: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)

	<-stop
	log.Println("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server shutdown error: %v", err)
	}

	log.Println("server stopped")
}
