package main

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/shiftlink/shiftlink-backend-go/internal/config"
	appHTTP "github.com/shiftlink/shiftlink-backend-go/internal/handler/http"
	"github.com/shiftlink/shiftlink-backend-go/internal/pkg/cron"
	"github.com/shiftlink/shiftlink-backend-go/internal/pkg/database"
	"github.com/shiftlink/shiftlink-backend-go/internal/pkg/jwt"
	"github.com/shiftlink/shiftlink-backend-go/internal/repository/postgresql"
	geofenceService "github.com/shiftlink/shiftlink-backend-go/internal/service/geofence"
	shiftService "github.com/shiftlink/shiftlink-backend-go/internal/service/shift"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	dsn := cfg.DatabaseURL()
	db, err := database.NewPostgreSQLDB(dsn)
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}

	shiftRepo := postgresql.NewShiftRepository(db)
	workerRepo := postgresql.NewWorkerRepository(db)
	employmentRepo := postgresql.NewEmploymentRepository(db)
	jobRepo := postgresql.NewJobRepository(db)
	businessRepo := postgresql.NewBusinessRepository(db)

	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	fenceResolver := geofenceService.NewResolver(employmentRepo, jobRepo, businessRepo)
	attendanceService := shiftService.NewAttendanceService(shiftRepo, workerRepo, jobRepo, fenceResolver)

	shiftHandler := appHTTP.NewShiftHandler(attendanceService)

	router := appHTTP.NewRouter(cfg, jwtService, shiftHandler)

	scheduler := cron.NewScheduler()
	cron.NewShiftJobs(attendanceService, cfg.Sweep.Interval).RegisterJobs(scheduler)
	scheduler.Start()
	defer scheduler.Stop()

	port := fmt.Sprintf(":%d", cfg.App.Port)
	server := &http.Server{Addr: port, Handler: router}

	go func() {
		fmt.Printf("Server running at http://localhost%s\n", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			fmt.Println("Server error:", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	fmt.Println("Shutting down...")
	_ = server.Close()
	db.Pool.Close()
}
